// Package reconciler matches imported bank transactions against budget
// transactions and applies batched match/ignore decisions.
package reconciler

import (
	"time"

	"github.com/hearthbudget/backend/internal/models"
)

// duplicateDateWindow is the maximum distance between two transaction dates
// for them to count as aligned.
const duplicateDateWindow = 3 * 24 * time.Hour

// IsDuplicate reports whether the transaction duplicates any of the
// candidates.
//
// The rule is intentionally narrow: both transactions must carry the same
// non-empty check number, the same amount and the same entity, and their
// dates (or posted dates) must be within three days of each other.
// Transactions without a check number are never flagged.
func IsDuplicate(transaction models.Transaction, candidates []models.Transaction) bool {
	for _, other := range candidates {
		if isDuplicatePair(transaction, other) {
			return true
		}
	}

	return false
}

func isDuplicatePair(transaction, other models.Transaction) bool {
	if other.ID == transaction.ID {
		return false
	}

	if !other.Amount.Equal(transaction.Amount) {
		return false
	}

	if transaction.EntityID == nil || other.EntityID == nil || *transaction.EntityID != *other.EntityID {
		return false
	}

	if transaction.CheckNumber == "" || other.CheckNumber == "" || transaction.CheckNumber != other.CheckNumber {
		return false
	}

	return datesAlign(transaction, other)
}

// datesAlign reports whether the transaction dates are within the duplicate
// window, or both posted dates are present and within the window.
func datesAlign(a, b models.Transaction) bool {
	if withinWindow(a.Date, b.Date) {
		return true
	}

	if a.PostedDate != nil && b.PostedDate != nil && withinWindow(*a.PostedDate, *b.PostedDate) {
		return true
	}

	return false
}

func withinWindow(a, b time.Time) bool {
	d := a.Sub(b)
	if d < 0 {
		d = -d
	}

	return d <= duplicateDateWindow
}
