package reconciler

import (
	"time"

	"github.com/hearthbudget/backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MatchedTransaction pairs a budget with one of its transactions for the
// matched-to-imported lookup.
type MatchedTransaction struct {
	BudgetID    uuid.UUID          `json:"budgetId"`
	Transaction models.Transaction `json:"transaction"`
}

// MatchedToImported returns every budget transaction that exactly matches
// an imported transaction of the account: same account number, same posted
// day, same magnitude and direction, and a merchant equal to the payee.
// Ignored imported records are never considered, even when they are also
// marked as matched.
func MatchedToImported(db *gorm.DB, accountID, userID uuid.UUID) ([]MatchedTransaction, error) {
	var imported []models.ImportedTransaction
	err := db.Where(&models.ImportedTransaction{AccountID: accountID, UserID: userID}).Find(&imported).Error
	if err != nil {
		return nil, err
	}

	matched := make([]MatchedTransaction, 0)
	for _, record := range imported {
		if record.Ignored {
			continue
		}

		transactions, err := exactMatches(db, record, uuid.Nil)
		if err != nil {
			return nil, err
		}

		for _, transaction := range transactions {
			matched = append(matched, MatchedTransaction{
				BudgetID:    transaction.BudgetID,
				Transaction: transaction,
			})
		}
	}

	return matched, nil
}

// Candidate is one imported transaction of an account together with the
// budget transactions it could reconcile against and a category suggestion
// from the budget's match rules.
type Candidate struct {
	Imported          models.ImportedTransaction `json:"imported"`
	Matches           []models.Transaction       `json:"matches"`
	SuggestedCategory string                     `json:"suggestedCategory,omitempty"`
	MatchRuleID       uuid.UUID                  `json:"matchRuleId,omitempty"`
}

// Candidates returns the reconciliation candidates for all of the user's
// imported transactions of the account that are neither matched nor
// ignored, restricted to transactions of the given budget.
func Candidates(db *gorm.DB, budget models.Budget, accountID, userID uuid.UUID) ([]Candidate, error) {
	var imported []models.ImportedTransaction
	err := db.Where(&models.ImportedTransaction{AccountID: accountID, UserID: userID}).
		Where("matched = ? AND ignored = ?", false, false).
		Order("posted_date ASC").
		Find(&imported).Error
	if err != nil {
		return nil, err
	}

	rules, err := models.MatchRules(db, budget.ID)
	if err != nil {
		return nil, err
	}

	candidates := make([]Candidate, 0, len(imported))
	for _, record := range imported {
		matches, err := exactMatches(db, record, budget.ID)
		if err != nil {
			return nil, err
		}

		candidate := Candidate{
			Imported: record,
			Matches:  matches,
		}
		candidate.SuggestedCategory, candidate.MatchRuleID = models.SuggestCategory(rules, record.Payee)

		candidates = append(candidates, candidate)
	}

	return candidates, nil
}

// exactMatches returns the budget transactions matching the imported record
// on account number, posted day, amount with direction, and merchant. A Nil
// budget ID searches across all budgets.
func exactMatches(db *gorm.DB, imported models.ImportedTransaction, budgetID uuid.UUID) ([]models.Transaction, error) {
	amount, isIncome := imported.SignedParts()

	day := time.Date(
		imported.PostedDate.Year(), imported.PostedDate.Month(), imported.PostedDate.Day(),
		0, 0, 0, 0, time.UTC,
	)

	q := db.Preload("Splits").
		Where("transactions.account_number = ?", imported.AccountNumber).
		Where("transactions.amount = ?", amount).
		Where("transactions.is_income = ?", isIncome).
		Where("(transactions.merchant = ? OR transactions.imported_merchant = ?)", imported.Payee, imported.Payee).
		Where("transactions.posted_date >= ? AND transactions.posted_date < ?", day, day.AddDate(0, 0, 1))

	if budgetID != uuid.Nil {
		q = q.Where("transactions.budget_id = ?", budgetID)
	}

	var transactions []models.Transaction
	err := q.Find(&transactions).Error

	return transactions, err
}
