package models_test

import (
	"github.com/hearthbudget/backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (suite *TestSuiteStandard) TestMerchantIncrement() {
	budget := suite.createTestBudget(models.Budget{})

	require.NoError(suite.T(), models.IncrementMerchant(models.DB, budget.ID, "Aldi"))
	require.NoError(suite.T(), models.IncrementMerchant(models.DB, budget.ID, "Aldi"))
	require.NoError(suite.T(), models.IncrementMerchant(models.DB, budget.ID, "Shell"))

	usages, err := models.MerchantUsages(models.DB, budget.ID)
	require.NoError(suite.T(), err)

	require.Len(suite.T(), usages, 2)
	assert.Equal(suite.T(), "Aldi", usages[0].Name)
	assert.Equal(suite.T(), uint(2), usages[0].Count)
	assert.Equal(suite.T(), "Shell", usages[1].Name)
	assert.Equal(suite.T(), uint(1), usages[1].Count)
}

func (suite *TestSuiteStandard) TestMerchantIncrementEmptyName() {
	budget := suite.createTestBudget(models.Budget{})

	require.NoError(suite.T(), models.IncrementMerchant(models.DB, budget.ID, "  "))

	usages, err := models.MerchantUsages(models.DB, budget.ID)
	require.NoError(suite.T(), err)
	assert.Empty(suite.T(), usages)
}

func (suite *TestSuiteStandard) TestMerchantDecrementRemovesAtZero() {
	budget := suite.createTestBudget(models.Budget{})

	require.NoError(suite.T(), models.IncrementMerchant(models.DB, budget.ID, "Aldi"))
	require.NoError(suite.T(), models.DecrementMerchant(models.DB, budget.ID, "Aldi"))

	usages, err := models.MerchantUsages(models.DB, budget.ID)
	require.NoError(suite.T(), err)
	assert.Empty(suite.T(), usages, "a merchant with zero uses must be removed, not kept at 0")
}

func (suite *TestSuiteStandard) TestMerchantDecrement() {
	budget := suite.createTestBudget(models.Budget{})

	require.NoError(suite.T(), models.IncrementMerchant(models.DB, budget.ID, "Aldi"))
	require.NoError(suite.T(), models.IncrementMerchant(models.DB, budget.ID, "Aldi"))
	require.NoError(suite.T(), models.DecrementMerchant(models.DB, budget.ID, "Aldi"))

	usages, err := models.MerchantUsages(models.DB, budget.ID)
	require.NoError(suite.T(), err)

	require.Len(suite.T(), usages, 1)
	assert.Equal(suite.T(), uint(1), usages[0].Count)
}

func (suite *TestSuiteStandard) TestMerchantDecrementUntracked() {
	budget := suite.createTestBudget(models.Budget{})

	// Decrementing a merchant that is not tracked must not error
	assert.NoError(suite.T(), models.DecrementMerchant(models.DB, budget.ID, "Nobody"))
}

func (suite *TestSuiteStandard) TestMerchantUsagesSortStable() {
	budget := suite.createTestBudget(models.Budget{})

	require.NoError(suite.T(), models.IncrementMerchant(models.DB, budget.ID, "Aldi"))
	require.NoError(suite.T(), models.IncrementMerchant(models.DB, budget.ID, "Shell"))
	require.NoError(suite.T(), models.IncrementMerchant(models.DB, budget.ID, "Rewe"))

	usages, err := models.MerchantUsages(models.DB, budget.ID)
	require.NoError(suite.T(), err)

	// All counts are equal, insertion order decides
	require.Len(suite.T(), usages, 3)
	assert.Equal(suite.T(), "Aldi", usages[0].Name)
	assert.Equal(suite.T(), "Shell", usages[1].Name)
	assert.Equal(suite.T(), "Rewe", usages[2].Name)
}
