package models

import (
	"errors"
)

var (
	// ErrGeneral covers database errors we cannot give the user more
	// information about. The details are logged.
	ErrGeneral = errors.New("an error occurred on the server during your request")

	// ErrResourceNotFound is extended with the resource name by the query
	// callback, e.g. "there is no budget matching your query".
	ErrResourceNotFound = errors.New("there is no")

	// ErrUnauthorized is returned when the acting user is not a member of
	// the family or entity owning the budget.
	ErrUnauthorized = errors.New("you are not allowed to access this budget")

	// ErrConflict is returned when a write carries a stale budget version.
	ErrConflict = errors.New("the budget has been changed since you last loaded it, reload it and try again")
)

var (
	ErrBudgetMonthNotUnique         = errors.New("there already is a budget for this month")
	ErrCategoryNameNotUnique        = errors.New("the category name must be unique for the budget")
	ErrMerchantUsageNotUnique       = errors.New("the merchant is already tracked for the budget")
	ErrImportedAmountsBothSet       = errors.New("an imported transaction must have either a debit or a credit amount, not both")
	ErrImportedAmountMissing        = errors.New("an imported transaction must have a debit or a credit amount")
	ErrTransactionAmountNotPositive = errors.New("transaction amounts must be larger than zero")
	ErrSplitCategoryMissing         = errors.New("every split must reference a category by name")
)
