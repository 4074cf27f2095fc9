package models

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Category is a named bucket of planned spending within a budget. A fund
// category rolls its unspent balance into the next month.
type Category struct {
	DefaultModel
	Budget   Budget          `json:"-"`
	BudgetID uuid.UUID       `json:"budgetId" gorm:"uniqueIndex:category_name_budget_id"`
	Name     string          `json:"name" gorm:"uniqueIndex:category_name_budget_id"`
	Target   decimal.Decimal `json:"target" gorm:"type:DECIMAL(20,8)"` // Planned amount for the month
	IsFund   bool            `json:"isFund"`
	Group    string          `json:"group"` // Display grouping, not functional

	// Carryover is derived state: the rolling balance handed over by the
	// previous month. Only the carryover propagator writes it.
	Carryover decimal.Decimal `json:"carryover" gorm:"type:DECIMAL(20,8)"`

	Position uint `json:"position"`
}

func (c *Category) BeforeSave(_ *gorm.DB) error {
	c.Name = strings.TrimSpace(c.Name)
	c.Group = strings.TrimSpace(c.Group)

	return nil
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	_ = c.DefaultModel.BeforeCreate(tx)

	// Categories created together with their budget have no ID to check yet
	if c.BudgetID == uuid.Nil {
		return nil
	}

	return c.checkIntegrity(tx)
}

// checkIntegrity verifies that the referenced budget exists.
func (c *Category) checkIntegrity(tx *gorm.DB) error {
	return tx.First(&Budget{}, c.BudgetID).Error
}
