package reconciler

import (
	"github.com/hearthbudget/backend/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// batchSize bounds the number of reconciliation requests committed in one
// database transaction.
const batchSize = 50

// Request is one match/ignore decision for a pair of a budget transaction
// and an imported transaction. Match and Ignore are independent.
type Request struct {
	BudgetTransactionID   uuid.UUID `json:"budgetTransactionId" binding:"required"`
	ImportedTransactionID uuid.UUID `json:"importedTransactionId" binding:"required"`
	Match                 bool      `json:"match"`
	Ignore                bool      `json:"ignore"`
}

// Skip records a request that was skipped instead of applied. Skips are
// returned as data, they do not fail the call.
type Skip struct {
	Request Request `json:"request"`
	Reason  string  `json:"reason"`
}

// Result reports what a batch reconciliation run did.
type Result struct {
	Applied int    `json:"applied"`
	Skipped []Skip `json:"skipped"`
}

// Apply applies the reconciliation requests to the budget in groups of
// batchSize, each group committed as one database transaction. Groups
// commit independently: a later group's failure does not roll back an
// earlier group.
//
// A request referencing a budget transaction that does not exist aborts the
// whole call, since that is a caller bug. A request referencing a missing
// imported transaction is skipped: those records belong to the importing
// user and may have been deleted concurrently.
//
// One update_budget audit event is appended after all groups committed.
// Re-applying an already matched request is a no-op.
func Apply(db *gorm.DB, budget models.Budget, requests []Request, actor models.Actor) (Result, error) {
	var imported []models.ImportedTransaction
	err := db.Where(&models.ImportedTransaction{UserID: actor.ID}).Find(&imported).Error
	if err != nil {
		return Result{}, err
	}

	index := make(map[uuid.UUID]*models.ImportedTransaction, len(imported))
	for i := range imported {
		index[imported[i].ID] = &imported[i]
	}

	var result Result
	for start := 0; start < len(requests); start += batchSize {
		group := requests[start:min(start+batchSize, len(requests))]

		err := db.Transaction(func(tx *gorm.DB) error {
			for _, request := range group {
				var transaction models.Transaction
				err := tx.Where(&models.Transaction{BudgetID: budget.ID}).First(&transaction, request.BudgetTransactionID).Error
				if err != nil {
					// A missing budget transaction is fatal for the call
					return err
				}

				record, ok := index[request.ImportedTransactionID]
				if !ok {
					log.Warn().
						Str("budget", budget.ID.String()).
						Str("importedTransaction", request.ImportedTransactionID.String()).
						Msg("imported transaction not found, skipping reconciliation request")

					result.Skipped = append(result.Skipped, Skip{
						Request: request,
						Reason:  "the imported transaction does not exist",
					})
					continue
				}

				if request.Match {
					err = applyMatch(tx, &transaction, record)
					if err != nil {
						return err
					}
				}

				if request.Ignore {
					err = tx.Model(record).Update("ignored", true).Error
					if err != nil {
						return err
					}
					record.Ignored = true
				}

				result.Applied++
			}

			return budget.BumpVersion(tx, 0)
		})
		if err != nil {
			return result, err
		}
	}

	err = models.AppendEditEvent(db, budget.ID, actor, models.ActionUpdateBudget)
	if err != nil {
		return result, err
	}

	return result, nil
}

// applyMatch copies the bank-reported fields onto the budget transaction,
// clears it and marks the imported record as matched.
func applyMatch(tx *gorm.DB, transaction *models.Transaction, imported *models.ImportedTransaction) error {
	copyImportedFields(transaction, *imported)
	transaction.Status = models.StatusCleared

	err := tx.Model(transaction).
		Select("ImportedMerchant", "PostedDate", "AccountNumber", "AccountSource", "CheckNumber", "Status").
		Updates(*transaction).Error
	if err != nil {
		return err
	}

	err = tx.Model(imported).Update("matched", true).Error
	if err != nil {
		return err
	}
	imported.Matched = true

	return nil
}

// copyImportedFields is the explicit field mapping from an imported
// transaction onto a budget transaction. Only set imported values
// overwrite.
func copyImportedFields(transaction *models.Transaction, imported models.ImportedTransaction) {
	if imported.Payee != "" {
		transaction.ImportedMerchant = imported.Payee
	}

	if !imported.PostedDate.IsZero() {
		posted := imported.PostedDate
		transaction.PostedDate = &posted
	}

	if imported.AccountNumber != "" {
		transaction.AccountNumber = imported.AccountNumber
	}

	if imported.AccountSource != "" {
		transaction.AccountSource = imported.AccountSource
	}

	if imported.CheckNumber != "" {
		transaction.CheckNumber = imported.CheckNumber
	}
}
