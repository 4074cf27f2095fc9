package models

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MerchantUsage counts how often a merchant name is used on a budget. The
// counts feed the merchant autocomplete. Usage rows are removed outright
// when their count drops to zero, so there is no soft delete here.
type MerchantUsage struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Budget   Budget    `json:"-"`
	BudgetID uuid.UUID `json:"budgetId" gorm:"uniqueIndex:merchant_usage_budget_name"`
	Name     string    `json:"name" gorm:"uniqueIndex:merchant_usage_budget_name"`
	Count    uint      `json:"count"`
}

func (m *MerchantUsage) BeforeCreate(_ *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}

	return nil
}

// IncrementMerchant adds one use of the merchant name on the budget,
// creating the usage row if it does not exist yet. Empty names are ignored.
func IncrementMerchant(db *gorm.DB, budgetID uuid.UUID, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}

	var usage MerchantUsage
	err := db.Where(&MerchantUsage{BudgetID: budgetID, Name: name}).First(&usage).Error
	if errors.Is(err, ErrResourceNotFound) {
		return db.Create(&MerchantUsage{BudgetID: budgetID, Name: name, Count: 1}).Error
	}
	if err != nil {
		return err
	}

	return db.Model(&usage).Update("count", gorm.Expr("count + 1")).Error
}

// DecrementMerchant removes one use of the merchant name on the budget. The
// usage row is deleted entirely when its count reaches zero. Decrementing a
// merchant that is not tracked is a no-op.
func DecrementMerchant(db *gorm.DB, budgetID uuid.UUID, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}

	var usage MerchantUsage
	err := db.Where(&MerchantUsage{BudgetID: budgetID, Name: name}).First(&usage).Error
	if errors.Is(err, ErrResourceNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	if usage.Count <= 1 {
		return db.Delete(&usage).Error
	}

	return db.Model(&usage).Update("count", gorm.Expr("count - 1")).Error
}

// MerchantUsages returns the budget's merchant usage, most used first.
// Ties keep insertion order.
func MerchantUsages(db *gorm.DB, budgetID uuid.UUID) ([]MerchantUsage, error) {
	var usages []MerchantUsage
	err := db.Where(&MerchantUsage{BudgetID: budgetID}).
		Order("count DESC, created_at ASC").
		Find(&usages).Error

	return usages, err
}
