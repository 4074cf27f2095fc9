package v1_test

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	v1 "github.com/hearthbudget/backend/internal/controllers/v1"
	"github.com/hearthbudget/backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (suite *TestSuiteStandard) TestGetEditHistory() {
	budget := suite.createTestBudget(models.Budget{})
	actor := models.Actor{ID: suite.userID, Email: suite.userEmail}

	require.NoError(suite.T(), models.AppendEditEvent(models.DB, budget.ID, actor, models.ActionSaveTransaction))
	require.NoError(suite.T(), models.AppendEditEvent(models.DB, budget.ID, actor, models.ActionUpdateBudget))

	recorder := suite.Request(http.MethodGet, fmt.Sprintf("/v1/budgets/%s/edit-history", budget.ID), nil, suite.identityHeaders())
	suite.assertHTTPStatus(&recorder, http.StatusOK)

	response := decode[v1.EditHistoryResponse](suite, &recorder)
	require.Len(suite.T(), response.Data, 2)
	assert.Equal(suite.T(), models.ActionSaveTransaction, response.Data[0].Action)
	assert.Equal(suite.T(), models.ActionUpdateBudget, response.Data[1].Action)
	assert.Equal(suite.T(), suite.userEmail, response.Data[0].UserEmail)
}

func (suite *TestSuiteStandard) TestGetEditHistorySince() {
	budget := suite.createTestBudget(models.Budget{})
	actor := models.Actor{ID: suite.userID, Email: suite.userEmail}

	require.NoError(suite.T(), models.AppendEditEvent(models.DB, budget.ID, actor, models.ActionSaveTransaction))

	since := url.QueryEscape(time.Now().Add(time.Hour).UTC().Format(time.RFC3339))
	recorder := suite.Request(http.MethodGet, fmt.Sprintf("/v1/budgets/%s/edit-history?since=%s", budget.ID, since), nil, suite.identityHeaders())
	suite.assertHTTPStatus(&recorder, http.StatusOK)

	response := decode[v1.EditHistoryResponse](suite, &recorder)
	assert.Empty(suite.T(), response.Data)
}
