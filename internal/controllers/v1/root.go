package v1

import (
	"net/http"

	"github.com/hearthbudget/backend/internal/httputil"

	"github.com/gin-gonic/gin"
)

// RegisterRootRoutes registers the v1 root routes with
// the RouterGroup that is passed.
func RegisterRootRoutes(r *gin.RouterGroup) {
	r.GET("", Get)
	r.OPTIONS("", Options)
}

type Response struct {
	Links Links `json:"links"` // Links for the v1 API
}

type Links struct {
	Budgets              string `json:"budgets" example:"https://example.com/api/v1/budgets"`                            // URL of the budget endpoint
	ImportedTransactions string `json:"importedTransactions" example:"https://example.com/api/v1/imported-transactions"` // URL of the imported transaction endpoints
}

// Get returns the link list for v1
//
//	@Summary		v1 API
//	@Description	Returns general information about the v1 API
//	@Tags			v1
//	@Success		200	{object}	Response
//	@Router			/v1 [get]
func Get(c *gin.Context) {
	url := httputil.RequestHost(c)

	c.JSON(http.StatusOK, Response{
		Links: Links{
			Budgets:              url + "/v1/budgets",
			ImportedTransactions: url + "/v1/imported-transactions",
		},
	})
}

// Options returns the allowed HTTP methods
//
//	@Summary		Allowed HTTP verbs
//	@Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
//	@Tags			v1
//	@Success		204
//	@Router			/v1 [options]
func Options(c *gin.Context) {
	httputil.OptionsGet(c)
}
