package v1

import (
	"net/http"

	"github.com/hearthbudget/backend/internal/httputil"
	"github.com/hearthbudget/backend/internal/models"
	"github.com/hearthbudget/backend/internal/reconciler"

	"github.com/gin-gonic/gin"
)

// RegisterReconcileRoutes registers the reconciliation routes with
// the RouterGroup that is passed.
func RegisterReconcileRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", OptionsReconcile)
	r.POST("", ReconcileBudget)

	r.OPTIONS("/preview", OptionsReconcilePreview)
	r.GET("/preview", GetReconcilePreview)
}

type ReconcileResponse struct {
	Data  *reconciler.Result `json:"data"`                                                          // What the reconciliation run did
	Error *string            `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type ReconcilePreviewResponse struct {
	Data  []reconciler.Candidate `json:"data"`                                                          // The reconciliation candidates
	Error *string                `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Reconciliation
// @Success		204
// @Router			/v1/budgets/{id}/reconcile [options]
func OptionsReconcile(c *gin.Context) {
	httputil.OptionsPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Reconciliation
// @Success		204
// @Router			/v1/budgets/{id}/reconcile/preview [options]
func OptionsReconcilePreview(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Reconcile budget
// @Description	Applies a batch of match and ignore decisions to the budget. The requests are committed in groups; failures of a later group do not roll back earlier groups. Requests referencing missing imported transactions are skipped and reported.
// @Tags			Reconciliation
// @Accept			json
// @Produce		json
// @Success		200			{object}	ReconcileResponse
// @Failure		400			{object}	ReconcileResponse
// @Failure		404			{object}	ReconcileResponse
// @Param			id			path		URIID					true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			requests	body		[]reconciler.Request	true	"Reconciliation requests"
// @Router			/v1/budgets/{id}/reconcile [post]
func ReconcileBudget(c *gin.Context) {
	user, err := actor(c)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ReconcileResponse{Error: &e})
		return
	}

	var uri URIID
	err = c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ReconcileResponse{Error: &e})
		return
	}

	budget, err := getAccessibleBudget(uri.ID.UUID, user.ID)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ReconcileResponse{Error: &e})
		return
	}

	var requests []reconciler.Request
	err = httputil.BindData(c, &requests)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ReconcileResponse{Error: &e})
		return
	}

	result, err := reconciler.Apply(models.DB, budget, requests, user)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ReconcileResponse{Error: &e})
		return
	}

	c.JSON(http.StatusOK, ReconcileResponse{Data: &result})
}

// @Summary		Reconciliation preview
// @Description	Returns the unmatched imported transactions of the account together with the budget transactions they exactly match and a category suggestion from the budget's match rules.
// @Tags			Reconciliation
// @Produce		json
// @Success		200		{object}	ReconcilePreviewResponse
// @Failure		400		{object}	ReconcilePreviewResponse
// @Failure		404		{object}	ReconcilePreviewResponse
// @Param			id		path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			account	query		string	true	"ID of the bank account"
// @Router			/v1/budgets/{id}/reconcile/preview [get]
func GetReconcilePreview(c *gin.Context) {
	user, err := actor(c)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ReconcilePreviewResponse{Error: &e})
		return
	}

	var uri URIID
	err = c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ReconcilePreviewResponse{Error: &e})
		return
	}

	var query QueryAccount
	err = c.BindQuery(&query)
	if err != nil {
		e := errAccountIDParameter.Error()
		c.JSON(http.StatusBadRequest, ReconcilePreviewResponse{Error: &e})
		return
	}

	budget, err := getAccessibleBudget(uri.ID.UUID, user.ID)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ReconcilePreviewResponse{Error: &e})
		return
	}

	candidates, err := reconciler.Candidates(models.DB, budget, query.Account.UUID, user.ID)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ReconcilePreviewResponse{Error: &e})
		return
	}

	c.JSON(http.StatusOK, ReconcilePreviewResponse{Data: candidates})
}
