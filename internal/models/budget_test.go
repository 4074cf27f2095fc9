package models_test

import (
	"time"

	"github.com/hearthbudget/backend/internal/models"
	"github.com/hearthbudget/backend/internal/types"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (suite *TestSuiteStandard) TestBudgetMonthUnique() {
	familyID := uuid.New()
	_ = suite.createTestBudget(models.Budget{FamilyID: familyID, Month: types.NewMonth(2022, 7)})

	err := models.DB.Create(&models.Budget{FamilyID: familyID, Month: types.NewMonth(2022, 7)}).Error
	assert.ErrorIs(suite.T(), err, models.ErrBudgetMonthNotUnique)
}

func (suite *TestSuiteStandard) TestBudgetsPerEntity() {
	familyID := uuid.New()
	entityID := uuid.New()

	// The family budget and an entity budget may coexist for the same month
	_ = suite.createTestBudget(models.Budget{FamilyID: familyID, Month: types.NewMonth(2022, 7)})
	_ = suite.createTestBudget(models.Budget{FamilyID: familyID, EntityID: &entityID, Month: types.NewMonth(2022, 7)})
}

func (suite *TestSuiteStandard) TestEnsureBudgetReturnsExisting() {
	budget := suite.createTestBudget(models.Budget{Month: types.NewMonth(2022, 7)})

	ensured, err := models.EnsureBudget(models.DB, budget.FamilyID, nil, types.NewMonth(2022, 7))
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), budget.ID, ensured.ID)
}

func (suite *TestSuiteStandard) TestEnsureBudgetCopiesStructure() {
	budget := suite.createTestBudget(models.Budget{
		Month:        types.NewMonth(2022, 7),
		IncomeTarget: decimal.NewFromInt(3500),
	})
	_ = suite.createTestCategory(models.Category{
		BudgetID: budget.ID,
		Name:     "Emergency",
		Target:   decimal.NewFromInt(200),
		IsFund:   true,
	})
	_ = suite.createTestCategory(models.Category{
		BudgetID: budget.ID,
		Name:     "Groceries",
		Target:   decimal.NewFromInt(600),
	})

	ensured, err := models.EnsureBudget(models.DB, budget.FamilyID, nil, types.NewMonth(2022, 8))
	require.NoError(suite.T(), err)

	assert.True(suite.T(), ensured.IncomeTarget.Equal(decimal.NewFromInt(3500)))
	require.Len(suite.T(), ensured.Categories, 2)

	// The new fund category starts with the carryover the previous month
	// hands forward: 0 + 200 with no transactions
	for _, category := range ensured.Categories {
		if category.Name != "Emergency" {
			continue
		}

		assert.True(suite.T(), category.Carryover.Equal(decimal.NewFromInt(200)), "carryover is %s", category.Carryover)
	}
}

func (suite *TestSuiteStandard) TestEnsureBudgetEmptyHistory() {
	ensured, err := models.EnsureBudget(models.DB, uuid.New(), nil, types.NewMonth(2022, 8))
	require.NoError(suite.T(), err)

	assert.Empty(suite.T(), ensured.Categories)
	assert.True(suite.T(), ensured.IncomeTarget.IsZero())
}

func (suite *TestSuiteStandard) TestCalculateCarryover() {
	budget := suite.createTestBudget(models.Budget{Month: types.NewMonth(2022, 7)})
	_ = suite.createTestCategory(models.Category{
		BudgetID:  budget.ID,
		Name:      "Vacation",
		Target:    decimal.NewFromInt(300),
		IsFund:    true,
		Carryover: decimal.NewFromInt(50),
	})

	_ = suite.createTestTransaction(models.Transaction{
		BudgetID: budget.ID,
		Date:     time.Date(2022, 7, 12, 0, 0, 0, 0, time.UTC),
		Merchant: "Travel Agency",
		Splits: []models.TransactionSplit{
			{Category: "Vacation", Amount: decimal.NewFromInt(275)},
		},
	})

	carryovers, err := budget.CalculateCarryover(models.DB)
	require.NoError(suite.T(), err)

	// 50 + 300 + 0 - 275
	assert.True(suite.T(), carryovers["Vacation"].Equal(decimal.NewFromInt(75)), "carryover is %s", carryovers["Vacation"])
}

func (suite *TestSuiteStandard) TestCalculateCarryoverClampsAtZero() {
	budget := suite.createTestBudget(models.Budget{Month: types.NewMonth(2022, 7)})
	_ = suite.createTestCategory(models.Category{
		BudgetID: budget.ID,
		Name:     "Car Repairs",
		Target:   decimal.NewFromInt(100),
		IsFund:   true,
	})

	_ = suite.createTestTransaction(models.Transaction{
		BudgetID: budget.ID,
		Splits: []models.TransactionSplit{
			{Category: "Car Repairs", Amount: decimal.NewFromInt(150)},
		},
	})

	carryovers, err := budget.CalculateCarryover(models.DB)
	require.NoError(suite.T(), err)

	assert.True(suite.T(), carryovers["Car Repairs"].IsZero(), "carryover is %s", carryovers["Car Repairs"])
}

func (suite *TestSuiteStandard) TestCalculateCarryoverCountsIncome() {
	budget := suite.createTestBudget(models.Budget{Month: types.NewMonth(2022, 7)})
	_ = suite.createTestCategory(models.Category{
		BudgetID: budget.ID,
		Name:     "Emergency",
		Target:   decimal.NewFromInt(200),
		IsFund:   true,
	})

	_ = suite.createTestTransaction(models.Transaction{
		BudgetID: budget.ID,
		IsIncome: true,
		Merchant: "Garage Sale",
		Splits: []models.TransactionSplit{
			{Category: "Emergency", Amount: decimal.NewFromInt(40)},
		},
	})

	carryovers, err := budget.CalculateCarryover(models.DB)
	require.NoError(suite.T(), err)

	assert.True(suite.T(), carryovers["Emergency"].Equal(decimal.NewFromInt(240)), "carryover is %s", carryovers["Emergency"])
}

func (suite *TestSuiteStandard) TestCalculateCarryoverIgnoresDeleted() {
	budget := suite.createTestBudget(models.Budget{Month: types.NewMonth(2022, 7)})
	_ = suite.createTestCategory(models.Category{
		BudgetID: budget.ID,
		Name:     "Emergency",
		Target:   decimal.NewFromInt(200),
		IsFund:   true,
	})

	transaction := suite.createTestTransaction(models.Transaction{
		BudgetID: budget.ID,
		Splits: []models.TransactionSplit{
			{Category: "Emergency", Amount: decimal.NewFromInt(120)},
		},
	})

	require.NoError(suite.T(), models.DB.Delete(&transaction).Error)

	carryovers, err := budget.CalculateCarryover(models.DB)
	require.NoError(suite.T(), err)

	assert.True(suite.T(), carryovers["Emergency"].Equal(decimal.NewFromInt(200)), "carryover is %s", carryovers["Emergency"])
}

func (suite *TestSuiteStandard) TestCalculateCarryoverSkipsNonFunds() {
	budget := suite.createTestBudget(models.Budget{Month: types.NewMonth(2022, 7)})
	_ = suite.createTestCategory(models.Category{
		BudgetID: budget.ID,
		Name:     "Groceries",
		Target:   decimal.NewFromInt(600),
	})

	carryovers, err := budget.CalculateCarryover(models.DB)
	require.NoError(suite.T(), err)

	_, ok := carryovers["Groceries"]
	assert.False(suite.T(), ok, "non-fund categories must not carry over")
}

func (suite *TestSuiteStandard) TestBumpVersion() {
	budget := suite.createTestBudget(models.Budget{Version: 1})

	require.NoError(suite.T(), budget.BumpVersion(models.DB, 1))
	assert.Equal(suite.T(), uint(2), budget.Version)
}

func (suite *TestSuiteStandard) TestBumpVersionConflict() {
	budget := suite.createTestBudget(models.Budget{Version: 3})

	err := budget.BumpVersion(models.DB, 2)
	assert.ErrorIs(suite.T(), err, models.ErrConflict)
}

func (suite *TestSuiteStandard) TestBumpVersionUnchecked() {
	budget := suite.createTestBudget(models.Budget{Version: 7})

	require.NoError(suite.T(), budget.BumpVersion(models.DB, 0))

	var reloaded models.Budget
	require.NoError(suite.T(), models.DB.First(&reloaded, budget.ID).Error)
	assert.Equal(suite.T(), uint(8), reloaded.Version)
}

func (suite *TestSuiteStandard) TestFutureBudgets() {
	familyID := uuid.New()
	start := suite.createTestBudget(models.Budget{FamilyID: familyID, Month: types.NewMonth(2022, 7)})
	_ = suite.createTestBudget(models.Budget{FamilyID: familyID, Month: types.NewMonth(2022, 9)})
	_ = suite.createTestBudget(models.Budget{FamilyID: familyID, Month: types.NewMonth(2022, 8)})
	_ = suite.createTestBudget(models.Budget{FamilyID: familyID, Month: types.NewMonth(2022, 6)})

	future, err := start.FutureBudgets(models.DB)
	require.NoError(suite.T(), err)

	require.Len(suite.T(), future, 2)
	assert.True(suite.T(), future[0].Month.Equal(types.NewMonth(2022, 8)))
	assert.True(suite.T(), future[1].Month.Equal(types.NewMonth(2022, 9)))
}
