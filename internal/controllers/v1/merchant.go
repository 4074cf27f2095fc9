package v1

import (
	"net/http"

	"github.com/hearthbudget/backend/internal/httputil"
	"github.com/hearthbudget/backend/internal/models"

	"github.com/gin-gonic/gin"
)

type MerchantsResponse struct {
	Data  []models.MerchantUsage `json:"data"`                                                          // Merchant usage, most used first
	Error *string                `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Merchants
// @Success		204
// @Router			/v1/budgets/{id}/merchants [options]
func OptionsMerchants(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Merchant usage
// @Description	Returns the merchants used on the budget, ordered by how often they are used. This feeds the merchant autocomplete.
// @Tags			Merchants
// @Produce		json
// @Success		200	{object}	MerchantsResponse
// @Failure		400	{object}	MerchantsResponse
// @Failure		404	{object}	MerchantsResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/budgets/{id}/merchants [get]
func GetMerchants(c *gin.Context) {
	user, err := actor(c)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), MerchantsResponse{Error: &e})
		return
	}

	var uri URIID
	err = c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), MerchantsResponse{Error: &e})
		return
	}

	budget, err := getAccessibleBudget(uri.ID.UUID, user.ID)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), MerchantsResponse{Error: &e})
		return
	}

	usages, err := models.MerchantUsages(models.DB, budget.ID)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), MerchantsResponse{Error: &e})
		return
	}

	c.JSON(http.StatusOK, MerchantsResponse{Data: usages})
}
