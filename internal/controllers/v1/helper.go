package v1

import (
	"github.com/hearthbudget/backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Identity headers set by the authenticating proxy in front of the backend.
const (
	headerUserID    = "X-User-ID"
	headerUserEmail = "X-User-Email"
)

// actor resolves the acting user from the identity headers.
func actor(c *gin.Context) (models.Actor, error) {
	id, err := uuid.Parse(c.GetHeader(headerUserID))
	if err != nil {
		return models.Actor{}, errMissingIdentity
	}

	return models.Actor{
		ID:    id,
		Email: c.GetHeader(headerUserEmail),
	}, nil
}

// getAccessibleBudget loads the budget and verifies that the user is a
// member of the owning family and entity.
func getAccessibleBudget(id, userID uuid.UUID, preload ...string) (models.Budget, error) {
	q := models.DB
	for _, association := range preload {
		q = q.Preload(association)
	}

	var budget models.Budget
	err := q.First(&budget, id).Error
	if err != nil {
		return models.Budget{}, err
	}

	ok, err := budget.CanAccess(models.DB, userID)
	if err != nil {
		return models.Budget{}, err
	}
	if !ok {
		return models.Budget{}, models.ErrUnauthorized
	}

	return budget, nil
}
