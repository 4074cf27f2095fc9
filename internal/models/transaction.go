package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

// TransactionStatus is the reconciliation state of a transaction.
type TransactionStatus string

const (
	StatusUncleared  TransactionStatus = "UNCLEARED"
	StatusCleared    TransactionStatus = "CLEARED"
	StatusReconciled TransactionStatus = "RECONCILED"
)

// Transaction is a user-entered ledger entry on a budget. The amount is a
// magnitude; the direction is determined by IsIncome.
type Transaction struct {
	DefaultModel
	Budget   Budget    `json:"-"`
	BudgetID uuid.UUID `json:"budgetId" gorm:"index"`

	// EntityID overrides the budget's entity for this transaction
	EntityID *uuid.UUID `json:"entityId"`

	Date       time.Time  `json:"date"`
	PostedDate *time.Time `json:"postedDate"` // Date the bank posted the transaction, set by reconciliation

	Merchant         string `json:"merchant"`
	ImportedMerchant string `json:"importedMerchant"` // Payee as reported by the bank

	Amount   decimal.Decimal `json:"amount" gorm:"type:DECIMAL(20,8)"`
	IsIncome bool            `json:"isIncome"`

	Status        TransactionStatus `json:"status"`
	CheckNumber   string            `json:"checkNumber"`
	AccountNumber string            `json:"accountNumber"`
	AccountSource string            `json:"accountSource"`

	Splits []TransactionSplit `json:"categories"`
}

// TransactionSplit allocates a part of a transaction to a category. The
// splits are the authoritative allocation for carryover math, even when
// their sum differs from the transaction amount.
type TransactionSplit struct {
	DefaultModel
	TransactionID uuid.UUID       `json:"-" gorm:"index"`
	Category      string          `json:"category"`
	Amount        decimal.Decimal `json:"amount" gorm:"type:DECIMAL(20,8)"`
}

func (s *TransactionSplit) BeforeSave(_ *gorm.DB) error {
	s.Category = strings.TrimSpace(s.Category)
	if s.Category == "" {
		return ErrSplitCategoryMissing
	}

	return nil
}

// BeforeSave normalizes dates to UTC and defaults the status.
func (t *Transaction) BeforeSave(_ *gorm.DB) error {
	if t.Date.IsZero() {
		t.Date = time.Now().In(time.UTC)
	} else {
		t.Date = t.Date.In(time.UTC)
	}

	if t.PostedDate != nil {
		posted := t.PostedDate.In(time.UTC)
		t.PostedDate = &posted
	}

	t.Merchant = strings.TrimSpace(t.Merchant)
	t.CheckNumber = strings.TrimSpace(t.CheckNumber)

	if t.Status == "" {
		t.Status = StatusUncleared
	}

	if !t.Amount.IsPositive() {
		return ErrTransactionAmountNotPositive
	}

	return nil
}

func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	_ = t.DefaultModel.BeforeCreate(tx)

	return t.checkIntegrity(tx)
}

// AfterFind updates the dates to use UTC as timezone, not +0000.
func (t *Transaction) AfterFind(_ *gorm.DB) error {
	t.Date = t.Date.In(time.UTC)
	if t.PostedDate != nil {
		posted := t.PostedDate.In(time.UTC)
		t.PostedDate = &posted
	}

	return nil
}

// checkIntegrity verifies that the referenced budget exists.
func (t *Transaction) checkIntegrity(tx *gorm.DB) error {
	return tx.First(&Budget{}, t.BudgetID).Error
}

// SplitSum returns the sum of the transaction's split amounts.
func (t Transaction) SplitSum() decimal.Decimal {
	sum := decimal.Zero
	for _, split := range t.Splits {
		sum = sum.Add(split.Amount)
	}

	return sum
}

// AffectedFundCategories returns the names of all fund categories of the
// budget that the transaction's splits touch. Carryover propagation is only
// triggered when this is non-empty.
func (t Transaction) AffectedFundCategories(categories []Category) []string {
	var affected []string
	for _, split := range t.Splits {
		if slices.Contains(affected, split.Category) {
			continue
		}

		isFund := slices.ContainsFunc(categories, func(c Category) bool {
			return c.IsFund && c.Name == split.Category
		})
		if isFund {
			affected = append(affected, split.Category)
		}
	}

	return affected
}
