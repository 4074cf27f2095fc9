package models_test

import (
	"github.com/hearthbudget/backend/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (suite *TestSuiteStandard) TestMatchRulesOrder() {
	budget := suite.createTestBudget(models.Budget{})

	require.NoError(suite.T(), models.DB.Create(&models.MatchRule{BudgetID: budget.ID, Priority: 2, Match: "*", Category: "Misc"}).Error)
	require.NoError(suite.T(), models.DB.Create(&models.MatchRule{BudgetID: budget.ID, Priority: 1, Match: "AMZN*", Category: "Shopping"}).Error)

	rules, err := models.MatchRules(models.DB, budget.ID)
	require.NoError(suite.T(), err)

	require.Len(suite.T(), rules, 2)
	assert.Equal(suite.T(), "AMZN*", rules[0].Match)
}

func (suite *TestSuiteStandard) TestSuggestCategory() {
	rules := []models.MatchRule{
		{DefaultModel: models.DefaultModel{ID: uuid.New()}, Match: "AMZN*", Category: "Shopping"},
		{DefaultModel: models.DefaultModel{ID: uuid.New()}, Match: "*", Category: "Misc"},
	}

	category, ruleID := models.SuggestCategory(rules, "AMZN Marketplace")
	assert.Equal(suite.T(), "Shopping", category)
	assert.Equal(suite.T(), rules[0].ID, ruleID)

	category, ruleID = models.SuggestCategory(rules, "Aldi")
	assert.Equal(suite.T(), "Misc", category)
	assert.Equal(suite.T(), rules[1].ID, ruleID)

	category, ruleID = models.SuggestCategory(nil, "Aldi")
	assert.Empty(suite.T(), category)
	assert.Equal(suite.T(), uuid.Nil, ruleID)
}
