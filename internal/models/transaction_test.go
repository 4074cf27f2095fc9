package models_test

import (
	"time"

	"github.com/hearthbudget/backend/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (suite *TestSuiteStandard) TestTransactionTrimWhitespace() {
	budget := suite.createTestBudget(models.Budget{})

	transaction := suite.createTestTransaction(models.Transaction{
		BudgetID: budget.ID,
		Merchant: "  Aldi  ",
		Amount:   decimal.NewFromInt(10),
		Splits: []models.TransactionSplit{
			{Category: " Groceries ", Amount: decimal.NewFromInt(10)},
		},
	})

	assert.Equal(suite.T(), "Aldi", transaction.Merchant)
	assert.Equal(suite.T(), "Groceries", transaction.Splits[0].Category)
}

func (suite *TestSuiteStandard) TestTransactionAmountMustBePositive() {
	budget := suite.createTestBudget(models.Budget{})

	err := models.DB.Create(&models.Transaction{
		BudgetID: budget.ID,
		Amount:   decimal.NewFromInt(-10),
	}).Error
	assert.ErrorIs(suite.T(), err, models.ErrTransactionAmountNotPositive)

	err = models.DB.Create(&models.Transaction{
		BudgetID: budget.ID,
	}).Error
	assert.ErrorIs(suite.T(), err, models.ErrTransactionAmountNotPositive)
}

func (suite *TestSuiteStandard) TestTransactionDefaultStatus() {
	budget := suite.createTestBudget(models.Budget{})

	transaction := suite.createTestTransaction(models.Transaction{
		BudgetID: budget.ID,
		Amount:   decimal.NewFromInt(10),
	})

	assert.Equal(suite.T(), models.StatusUncleared, transaction.Status)
}

func (suite *TestSuiteStandard) TestTransactionSplitRequiresCategory() {
	budget := suite.createTestBudget(models.Budget{})

	err := models.DB.Create(&models.Transaction{
		BudgetID: budget.ID,
		Amount:   decimal.NewFromInt(10),
		Splits: []models.TransactionSplit{
			{Category: "   ", Amount: decimal.NewFromInt(10)},
		},
	}).Error
	assert.ErrorIs(suite.T(), err, models.ErrSplitCategoryMissing)
}

func (suite *TestSuiteStandard) TestTransactionRequiresBudget() {
	err := models.DB.Create(&models.Transaction{
		Amount: decimal.NewFromInt(10),
	}).Error
	assert.ErrorIs(suite.T(), err, models.ErrResourceNotFound)
}

func (suite *TestSuiteStandard) TestTransactionDatesUTC() {
	budget := suite.createTestBudget(models.Budget{})

	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(suite.T(), err)

	transaction := suite.createTestTransaction(models.Transaction{
		BudgetID: budget.ID,
		Date:     time.Date(2022, 7, 12, 14, 0, 0, 0, berlin),
		Amount:   decimal.NewFromInt(10),
	})

	assert.Equal(suite.T(), time.UTC, transaction.Date.Location())
}

func (suite *TestSuiteStandard) TestAffectedFundCategories() {
	categories := []models.Category{
		{Name: "Emergency", IsFund: true},
		{Name: "Vacation", IsFund: true},
		{Name: "Groceries"},
	}

	transaction := models.Transaction{
		Splits: []models.TransactionSplit{
			{Category: "Emergency", Amount: decimal.NewFromInt(10)},
			{Category: "Groceries", Amount: decimal.NewFromInt(20)},
			{Category: "Emergency", Amount: decimal.NewFromInt(5)},
		},
	}

	affected := transaction.AffectedFundCategories(categories)
	assert.Equal(suite.T(), []string{"Emergency"}, affected)
}

func (suite *TestSuiteStandard) TestSplitSum() {
	transaction := models.Transaction{
		Splits: []models.TransactionSplit{
			{Category: "Emergency", Amount: decimal.NewFromInt(10)},
			{Category: "Groceries", Amount: decimal.NewFromFloat(20.5)},
		},
	}

	assert.True(suite.T(), transaction.SplitSum().Equal(decimal.NewFromFloat(30.5)))
}
