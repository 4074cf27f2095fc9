package v1

import (
	"time"

	hb_uuid "github.com/hearthbudget/backend/internal/uuid"
)

type URIID struct {
	ID hb_uuid.UUID `uri:"id" binding:"required" format:"UUID"` // ID of the resource
}

type URITransaction struct {
	URIID
	TransactionID hb_uuid.UUID `uri:"transactionId" binding:"required" format:"UUID"` // ID of the transaction
}

type QueryBudget struct {
	Family hb_uuid.UUID `form:"family" binding:"required"`                            // ID of the family owning the budget
	Entity hb_uuid.UUID `form:"entity"`                                               // Optional ID of the entity within the family
	Month  time.Time    `form:"month" time_format:"2006-01" time_utc:"1" example:"2022-07"` // Year and month in YYYY-MM format
}

type QueryAccount struct {
	Account hb_uuid.UUID `form:"account" binding:"required"` // ID of the bank account
}

type QuerySince struct {
	Since time.Time `form:"since" time_format:"2006-01-02T15:04:05Z07:00"` // Only events at or after this time
}
