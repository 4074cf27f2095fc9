// Package carryover propagates rolling fund balances forward across
// sequential monthly budgets.
//
// It is the single authority for carryover values: fund category carryovers
// are derived state and nothing else may write them.
package carryover

import (
	"github.com/hearthbudget/backend/internal/models"
	"github.com/hearthbudget/backend/internal/types"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Result reports what a propagation run did. A failed month does not stop
// the walk; later months are still attempted and the failure is reported
// here instead of as an error.
type Result struct {
	Propagated   []types.Month `json:"propagated"`
	FailedMonths []types.Month `json:"failedMonths"`
}

// Propagate loads the budget for the start month and propagates from there,
// see PropagateFrom. It fails when no budget exists for the start month.
func Propagate(db *gorm.DB, familyID uuid.UUID, entityID *uuid.UUID, startMonth types.Month, affected []string) (Result, error) {
	var budget models.Budget
	err := db.Preload("Categories").
		Where("budgets.family_id = ? AND budgets.month = ?", familyID, startMonth).
		Where(entityClause(entityID), entityArgs(entityID)...).
		First(&budget).Error
	if err != nil {
		return Result{}, err
	}

	return PropagateFrom(db, budget, affected)
}

func entityClause(entityID *uuid.UUID) string {
	if entityID == nil {
		return "budgets.entity_id IS NULL"
	}
	return "budgets.entity_id = ?"
}

func entityArgs(entityID *uuid.UUID) []any {
	if entityID == nil {
		return nil
	}
	return []any{*entityID}
}

// PropagateFrom walks all budgets of the same family and entity with a
// month after the start budget's, in ascending month order, and updates the
// carryover of every affected fund category.
//
// The walk carries one running value per category, initialized from a
// single baseline snapshot of the start budget. Each visited month first
// receives the running value as its carryover, then advances the running
// value with its own calculation, so every month's target and transactions
// are counted exactly once. Months that do not contain an affected fund
// category are skipped entirely: their carryovers stay untouched and they
// do not advance the running values.
//
// Months are persisted one at a time and strictly in order. A failed write
// is recorded in the result and the walk continues with the next month.
func PropagateFrom(db *gorm.DB, start models.Budget, affected []string) (Result, error) {
	if len(affected) == 0 {
		return Result{}, nil
	}

	baseline, err := start.CalculateCarryover(db)
	if err != nil {
		return Result{}, err
	}

	running := make(map[string]decimal.Decimal, len(affected))
	for _, name := range affected {
		if value, ok := baseline[name]; ok {
			running[name] = value
		}
	}

	if len(running) == 0 {
		return Result{}, nil
	}

	budgets, err := start.FutureBudgets(db)
	if err != nil {
		return Result{}, err
	}

	var result Result
	for i := range budgets {
		budget := &budgets[i]

		targets := affectedCategories(budget, running)
		if len(targets) == 0 {
			continue
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			for _, j := range targets {
				category := &budget.Categories[j]
				err := tx.Model(category).Update("carryover", running[category.Name]).Error
				if err != nil {
					return err
				}
				category.Carryover = running[category.Name]
			}

			return budget.BumpVersion(tx, 0)
		})
		if err != nil {
			log.Error().Err(err).Str("month", budget.Month.String()).Msg("carryover propagation failed for month")
			result.FailedMonths = append(result.FailedMonths, budget.Month)
			continue
		}

		result.Propagated = append(result.Propagated, budget.Month)

		// Advance the running values with this month's own calculation
		next, err := budget.CalculateCarryover(db)
		if err != nil {
			return result, err
		}

		for name := range running {
			if value, ok := next[name]; ok {
				running[name] = value
			}
		}
	}

	return result, nil
}

// affectedCategories returns the indices of the budget's fund categories
// whose names have a running value.
func affectedCategories(budget *models.Budget, running map[string]decimal.Decimal) []int {
	var indices []int
	for i, category := range budget.Categories {
		if !category.IsFund {
			continue
		}

		if _, ok := running[category.Name]; ok {
			indices = append(indices, i)
		}
	}

	return indices
}
