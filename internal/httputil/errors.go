package httputil

import "errors"

var (
	ErrInvalidBody      = errors.New("the request body could not be parsed, check the data you sent")
	ErrRequestBodyEmpty = errors.New("the request body must not be empty")
	ErrInvalidUUID      = errors.New("the specified resource ID is not a valid UUID")
)
