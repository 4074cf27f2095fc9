package v1

import (
	"net/http"

	"github.com/hearthbudget/backend/internal/httputil"
	"github.com/hearthbudget/backend/internal/models"

	"github.com/gin-gonic/gin"
)

type EditHistoryResponse struct {
	Data  []models.EditEvent `json:"data"`                                                          // The audit trail, oldest first
	Error *string            `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			EditHistory
// @Success		204
// @Router			/v1/budgets/{id}/edit-history [options]
func OptionsEditHistory(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Edit history
// @Description	Returns the audit trail of the budget, oldest first
// @Tags			EditHistory
// @Produce		json
// @Success		200		{object}	EditHistoryResponse
// @Failure		400		{object}	EditHistoryResponse
// @Failure		404		{object}	EditHistoryResponse
// @Param			id		path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			since	query		string	false	"Only events at or after this RFC3339 timestamp"
// @Router			/v1/budgets/{id}/edit-history [get]
func GetEditHistory(c *gin.Context) {
	user, err := actor(c)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), EditHistoryResponse{Error: &e})
		return
	}

	var uri URIID
	err = c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), EditHistoryResponse{Error: &e})
		return
	}

	var query QuerySince
	err = c.BindQuery(&query)
	if err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, EditHistoryResponse{Error: &e})
		return
	}

	budget, err := getAccessibleBudget(uri.ID.UUID, user.ID)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), EditHistoryResponse{Error: &e})
		return
	}

	events, err := models.EditEvents(models.DB, budget.ID, query.Since)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), EditHistoryResponse{Error: &e})
		return
	}

	c.JSON(http.StatusOK, EditHistoryResponse{Data: events})
}
