package models_test

import (
	"time"

	"github.com/hearthbudget/backend/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func (suite *TestSuiteStandard) TestImportedTransactionAmounts() {
	debit := decimal.NewFromInt(10)
	credit := decimal.NewFromInt(20)

	err := models.DB.Create(&models.ImportedTransaction{
		AccountID:   uuid.New(),
		UserID:      uuid.New(),
		PostedDate:  time.Now(),
		DebitAmount: &debit,
	}).Error
	assert.NoError(suite.T(), err)

	err = models.DB.Create(&models.ImportedTransaction{
		AccountID:    uuid.New(),
		UserID:       uuid.New(),
		PostedDate:   time.Now(),
		DebitAmount:  &debit,
		CreditAmount: &credit,
	}).Error
	assert.ErrorIs(suite.T(), err, models.ErrImportedAmountsBothSet)

	err = models.DB.Create(&models.ImportedTransaction{
		AccountID:  uuid.New(),
		UserID:     uuid.New(),
		PostedDate: time.Now(),
	}).Error
	assert.ErrorIs(suite.T(), err, models.ErrImportedAmountMissing)
}

func (suite *TestSuiteStandard) TestImportedTransactionSignedParts() {
	debit := decimal.NewFromInt(10)
	credit := decimal.NewFromInt(20)

	amount, isIncome := models.ImportedTransaction{DebitAmount: &debit}.SignedParts()
	assert.True(suite.T(), amount.Equal(debit))
	assert.False(suite.T(), isIncome, "a debit is a spend")

	amount, isIncome = models.ImportedTransaction{CreditAmount: &credit}.SignedParts()
	assert.True(suite.T(), amount.Equal(credit))
	assert.True(suite.T(), isIncome, "a credit is income")
}
