package models_test

import (
	"time"

	"github.com/hearthbudget/backend/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (suite *TestSuiteStandard) TestEditEvents() {
	budget := suite.createTestBudget(models.Budget{})
	actor := models.Actor{ID: uuid.New(), Email: "jo@example.com"}

	require.NoError(suite.T(), models.AppendEditEvent(models.DB, budget.ID, actor, models.ActionSaveTransaction))
	require.NoError(suite.T(), models.AppendEditEvent(models.DB, budget.ID, actor, models.ActionUpdateBudget))

	events, err := models.EditEvents(models.DB, budget.ID, time.Time{})
	require.NoError(suite.T(), err)

	require.Len(suite.T(), events, 2)
	assert.Equal(suite.T(), models.ActionSaveTransaction, events[0].Action)
	assert.Equal(suite.T(), models.ActionUpdateBudget, events[1].Action)
	assert.Equal(suite.T(), "jo@example.com", events[0].UserEmail)
}

func (suite *TestSuiteStandard) TestEditEventsSince() {
	budget := suite.createTestBudget(models.Budget{})
	actor := models.Actor{ID: uuid.New()}

	require.NoError(suite.T(), models.AppendEditEvent(models.DB, budget.ID, actor, models.ActionSaveTransaction))

	events, err := models.EditEvents(models.DB, budget.ID, time.Now().Add(time.Hour))
	require.NoError(suite.T(), err)
	assert.Empty(suite.T(), events)
}

func (suite *TestSuiteStandard) TestCanAccess() {
	userID := uuid.New()
	entityID := uuid.New()

	family := suite.createTestBudget(models.Budget{})
	entity := suite.createTestBudget(models.Budget{FamilyID: family.FamilyID, EntityID: &entityID})

	ok, err := family.CanAccess(models.DB, userID)
	require.NoError(suite.T(), err)
	assert.False(suite.T(), ok, "non-members must not access the budget")

	require.NoError(suite.T(), models.DB.Create(&models.FamilyMember{FamilyID: family.FamilyID, UserID: userID}).Error)

	ok, err = family.CanAccess(models.DB, userID)
	require.NoError(suite.T(), err)
	assert.True(suite.T(), ok)

	// Family membership alone does not grant access to entity budgets
	ok, err = entity.CanAccess(models.DB, userID)
	require.NoError(suite.T(), err)
	assert.False(suite.T(), ok)

	require.NoError(suite.T(), models.DB.Create(&models.EntityMember{EntityID: entityID, UserID: userID}).Error)

	ok, err = entity.CanAccess(models.DB, userID)
	require.NoError(suite.T(), err)
	assert.True(suite.T(), ok)
}
