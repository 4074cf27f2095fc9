package models

import (
	"strings"

	"github.com/google/uuid"
	"github.com/ryanuber/go-glob"
	"gorm.io/gorm"
)

// MatchRule suggests a category for imported transactions whose payee
// matches a glob pattern. Rules are applied in priority order, the first
// match wins. This is a suggestion mechanism for reconciliation previews
// only; it plays no part in duplicate detection.
type MatchRule struct {
	DefaultModel
	Budget   Budget    `json:"-"`
	BudgetID uuid.UUID `json:"budgetId" gorm:"index"`
	Priority uint      `json:"priority"`
	Match    string    `json:"match" example:"AMZN*"`
	Category string    `json:"category"`
}

func (r *MatchRule) BeforeSave(_ *gorm.DB) error {
	r.Match = strings.TrimSpace(r.Match)
	r.Category = strings.TrimSpace(r.Category)

	return nil
}

func (r *MatchRule) BeforeCreate(tx *gorm.DB) error {
	_ = r.DefaultModel.BeforeCreate(tx)

	return tx.First(&Budget{}, r.BudgetID).Error
}

// MatchRules returns the budget's match rules in application order.
func MatchRules(db *gorm.DB, budgetID uuid.UUID) ([]MatchRule, error) {
	var rules []MatchRule
	err := db.Where(&MatchRule{BudgetID: budgetID}).
		Order("priority ASC, match ASC").
		Find(&rules).Error

	return rules, err
}

// SuggestCategory returns the category of the first rule whose glob matches
// the payee, together with the rule's ID. Since rules are passed in priority
// order, the first match is the highest-priority one.
func SuggestCategory(rules []MatchRule, payee string) (string, uuid.UUID) {
	for _, rule := range rules {
		if glob.Glob(rule.Match, payee) {
			return rule.Category, rule.ID
		}
	}

	return "", uuid.Nil
}
