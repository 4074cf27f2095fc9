package v1_test

import (
	"net/http"

	v1 "github.com/hearthbudget/backend/internal/controllers/v1"

	"github.com/stretchr/testify/assert"
)

func (suite *TestSuiteStandard) TestV1Root() {
	recorder := suite.Request(http.MethodGet, "/v1", nil)
	suite.assertHTTPStatus(&recorder, http.StatusOK)

	response := decode[v1.Response](suite, &recorder)
	assert.Contains(suite.T(), response.Links.Budgets, "/v1/budgets")
	assert.Contains(suite.T(), response.Links.ImportedTransactions, "/v1/imported-transactions")
}

func (suite *TestSuiteStandard) TestV1RootOptions() {
	recorder := suite.Request(http.MethodOptions, "/v1", nil)
	suite.assertHTTPStatus(&recorder, http.StatusNoContent)
	assert.Equal(suite.T(), "GET", recorder.Header().Get("allow"))
}
