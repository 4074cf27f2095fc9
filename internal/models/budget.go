package models

import (
	"errors"
	"time"

	"github.com/hearthbudget/backend/internal/types"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Budget is the ledger for one family (and optionally one entity within the
// family) and one calendar month. All other resources reference it directly
// or transitively.
type Budget struct {
	DefaultModel
	FamilyID     uuid.UUID       `json:"familyId" gorm:"uniqueIndex:budget_owner_month"`
	EntityID     *uuid.UUID      `json:"entityId" gorm:"uniqueIndex:budget_owner_month"`
	Month        types.Month     `json:"month" gorm:"uniqueIndex:budget_owner_month"`
	IncomeTarget decimal.Decimal `json:"incomeTarget" gorm:"type:DECIMAL(20,8)"`

	// Version increases monotonically with every write to the budget or the
	// resources it owns. Writes carrying a stale version fail with
	// ErrConflict instead of overwriting.
	Version uint `json:"version"`

	Categories   []Category    `json:"categories,omitempty"`
	Transactions []Transaction `json:"transactions,omitempty"`
}

// BeforeCreate enforces one budget per family, entity and month. The unique
// index alone does not cover family-level budgets: their entity is NULL and
// SQLite treats NULLs in a unique index as distinct.
func (b *Budget) BeforeCreate(tx *gorm.DB) error {
	_ = b.DefaultModel.BeforeCreate(tx)

	var count int64
	err := tx.Model(&Budget{}).
		Scopes(scopeOwner(b.FamilyID, b.EntityID)).
		Where("budgets.month = ?", b.Month).
		Count(&count).Error
	if err != nil {
		return err
	}

	if count > 0 {
		return ErrBudgetMonthNotUnique
	}

	return nil
}

// scopeOwner limits a query to budgets of one family and entity. A nil
// entity matches only budgets without an entity.
func scopeOwner(familyID uuid.UUID, entityID *uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		db = db.Where("budgets.family_id = ?", familyID)
		if entityID == nil {
			return db.Where("budgets.entity_id IS NULL")
		}
		return db.Where("budgets.entity_id = ?", *entityID)
	}
}

// EnsureBudget returns the budget for the month, creating it if it does not
// exist yet. A new budget copies the income target and the category
// structure of the nearest existing budget for the same family and entity.
// Fund categories of the new budget are seeded with the carryover handed
// forward by the closest earlier month.
func EnsureBudget(db *gorm.DB, familyID uuid.UUID, entityID *uuid.UUID, month types.Month) (Budget, error) {
	var budget Budget
	err := db.Preload("Categories").Scopes(scopeOwner(familyID, entityID)).Where("budgets.month = ?", month).First(&budget).Error
	if err == nil {
		return budget, nil
	}
	if !errors.Is(err, ErrResourceNotFound) {
		return Budget{}, err
	}

	var existing []Budget
	err = db.Preload("Categories").Scopes(scopeOwner(familyID, entityID)).Order("month ASC").Find(&existing).Error
	if err != nil {
		return Budget{}, err
	}

	budget = Budget{
		FamilyID: familyID,
		EntityID: entityID,
		Month:    month,
		Version:  1,
	}

	if template := nearestBudget(existing, month); template != nil {
		budget.IncomeTarget = template.IncomeTarget
		for _, category := range template.Categories {
			budget.Categories = append(budget.Categories, Category{
				Name:     category.Name,
				Target:   category.Target,
				IsFund:   category.IsFund,
				Group:    category.Group,
				Position: category.Position,
			})
		}
	}

	err = db.Create(&budget).Error
	if err != nil {
		return Budget{}, err
	}

	// Seed fund carryovers from the closest earlier month
	if previous := latestBefore(existing, month); previous != nil {
		carryovers, err := previous.CalculateCarryover(db)
		if err != nil {
			return Budget{}, err
		}

		for i, category := range budget.Categories {
			next, ok := carryovers[category.Name]
			if !ok || !category.IsFund {
				continue
			}

			err = db.Model(&budget.Categories[i]).Update("carryover", next).Error
			if err != nil {
				return Budget{}, err
			}
			budget.Categories[i].Carryover = next
		}
	}

	return budget, nil
}

// nearestBudget returns the budget whose month is closest to the wanted
// month. Earlier months win ties. The input must be sorted by month.
func nearestBudget(budgets []Budget, month types.Month) *Budget {
	var nearest *Budget
	best := 0

	for i := range budgets {
		distance := monthsBetween(budgets[i].Month, month)
		if distance < 0 {
			distance = -distance
		}

		if nearest == nil || distance < best {
			nearest = &budgets[i]
			best = distance
		}
	}

	return nearest
}

// latestBefore returns the budget for the latest month that is still before
// the wanted month. The input must be sorted by month.
func latestBefore(budgets []Budget, month types.Month) *Budget {
	var latest *Budget
	for i := range budgets {
		if budgets[i].Month.Before(month) {
			latest = &budgets[i]
		}
	}

	return latest
}

// monthsBetween returns the number of calendar months from a to b.
func monthsBetween(a, b types.Month) int {
	ta, tb := time.Time(a), time.Time(b)
	return (tb.Year()-ta.Year())*12 + int(tb.Month()) - int(ta.Month())
}

// BumpVersion increments the budget version. When the caller passes its
// last-seen version, the increment only happens if the stored version still
// matches; otherwise ErrConflict is returned. An expected version of 0 skips
// the check for clients that do not track versions.
func (b *Budget) BumpVersion(db *gorm.DB, expected uint) error {
	q := db.Model(&Budget{}).Where("id = ?", b.ID)
	if expected != 0 {
		q = q.Where("version = ?", expected)
	}

	res := q.Update("version", gorm.Expr("version + 1"))
	if res.Error != nil {
		return res.Error
	}

	if res.RowsAffected == 0 {
		return ErrConflict
	}

	b.Version++
	return nil
}

// CalculateCarryover computes the balance every fund category hands to the
// following month: max(0, carryover + target + income - spend), where income
// and spend are summed over the splits of the budget's transactions. Soft
// deleted transactions are excluded, non-fund categories are not part of the
// result.
func (b Budget) CalculateCarryover(db *gorm.DB) (map[string]decimal.Decimal, error) {
	var categories []Category
	err := db.Where(&Category{BudgetID: b.ID}).Find(&categories).Error
	if err != nil {
		return nil, err
	}

	var transactions []Transaction
	err = db.Preload("Splits").Where(&Transaction{BudgetID: b.ID}).Find(&transactions).Error
	if err != nil {
		return nil, err
	}

	carryovers := make(map[string]decimal.Decimal)
	for _, category := range categories {
		if !category.IsFund {
			continue
		}

		spend := decimal.Zero
		income := decimal.Zero
		for _, transaction := range transactions {
			for _, split := range transaction.Splits {
				if split.Category != category.Name {
					continue
				}

				if transaction.IsIncome {
					income = income.Add(split.Amount)
				} else {
					spend = spend.Add(split.Amount)
				}
			}
		}

		next := category.Carryover.Add(category.Target).Add(income).Sub(spend)
		if next.IsNegative() {
			next = decimal.Zero
		}

		carryovers[category.Name] = next
	}

	return carryovers, nil
}

// FutureBudgets returns all budgets of the same family and entity with a
// month after the budget's own, sorted ascending by month.
func (b Budget) FutureBudgets(db *gorm.DB) ([]Budget, error) {
	var budgets []Budget
	err := db.Preload("Categories").
		Scopes(scopeOwner(b.FamilyID, b.EntityID)).
		Where("budgets.month > ?", b.Month).
		Order("month ASC").
		Find(&budgets).Error

	return budgets, err
}
