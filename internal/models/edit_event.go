package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Actor identifies the user performing a mutation, as resolved by the
// identity collaborator in front of the backend.
type Actor struct {
	ID    uuid.UUID
	Email string
}

// EditEvent is one entry in a budget's audit trail.
type EditEvent struct {
	DefaultModel
	Budget    Budget    `json:"-"`
	BudgetID  uuid.UUID `json:"budgetId" gorm:"index"`
	UserID    uuid.UUID `json:"userId"`
	UserEmail string    `json:"userEmail"`
	Action    string    `json:"action" example:"update_budget"`
}

const (
	ActionSaveTransaction   = "save_transaction"
	ActionDeleteTransaction = "delete_transaction"
	ActionUpdateBudget      = "update_budget"
)

// AppendEditEvent appends one audit record for the budget.
func AppendEditEvent(db *gorm.DB, budgetID uuid.UUID, actor Actor, action string) error {
	return db.Create(&EditEvent{
		BudgetID:  budgetID,
		UserID:    actor.ID,
		UserEmail: actor.Email,
		Action:    action,
	}).Error
}

// EditEvents returns the budget's audit trail from the given time on,
// oldest first. A zero since returns the full trail.
func EditEvents(db *gorm.DB, budgetID uuid.UUID, since time.Time) ([]EditEvent, error) {
	q := db.Where(&EditEvent{BudgetID: budgetID}).Order("created_at ASC")
	if !since.IsZero() {
		q = q.Where("created_at >= ?", since.In(time.UTC))
	}

	var events []EditEvent
	err := q.Find(&events).Error

	return events, err
}
