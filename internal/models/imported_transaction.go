package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ImportedTransaction is a bank-originated record awaiting reconciliation
// against a budget transaction. DebitAmount and CreditAmount are mutually
// exclusive magnitudes.
//
// Matched and Ignored are not mutually exclusive in storage, but ignored
// records are never surfaced as reconciliation candidates.
type ImportedTransaction struct {
	DefaultModel
	AccountID uuid.UUID `json:"accountId" gorm:"index"`
	UserID    uuid.UUID `json:"userId" gorm:"index"` // The user who imported the record

	Payee      string    `json:"payee"`
	PostedDate time.Time `json:"postedDate"`

	DebitAmount  *decimal.Decimal `json:"debitAmount" gorm:"type:DECIMAL(20,8)"`
	CreditAmount *decimal.Decimal `json:"creditAmount" gorm:"type:DECIMAL(20,8)"`

	CheckNumber   string `json:"checkNumber"`
	AccountNumber string `json:"accountNumber"`
	AccountSource string `json:"accountSource"`

	Matched bool   `json:"matched"`
	Ignored bool   `json:"ignored"`
	Status  string `json:"status"`
}

func (i *ImportedTransaction) BeforeSave(_ *gorm.DB) error {
	i.Payee = strings.TrimSpace(i.Payee)
	i.CheckNumber = strings.TrimSpace(i.CheckNumber)
	i.PostedDate = i.PostedDate.In(time.UTC)

	if i.DebitAmount != nil && i.CreditAmount != nil {
		return ErrImportedAmountsBothSet
	}

	if i.DebitAmount == nil && i.CreditAmount == nil {
		return ErrImportedAmountMissing
	}

	return nil
}

// AfterFind updates the posted date to use UTC as timezone, not +0000.
func (i *ImportedTransaction) AfterFind(_ *gorm.DB) error {
	i.PostedDate = i.PostedDate.In(time.UTC)
	return nil
}

// SignedParts returns the magnitude of the record and whether it represents
// income. A debit matches a spend transaction, a credit an income
// transaction.
func (i ImportedTransaction) SignedParts() (decimal.Decimal, bool) {
	if i.CreditAmount != nil {
		return *i.CreditAmount, true
	}

	if i.DebitAmount != nil {
		return *i.DebitAmount, false
	}

	return decimal.Zero, false
}
