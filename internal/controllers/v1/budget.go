package v1

import (
	"fmt"
	"net/http"

	"github.com/hearthbudget/backend/internal/httputil"
	"github.com/hearthbudget/backend/internal/models"
	"github.com/hearthbudget/backend/internal/types"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RegisterBudgetRoutes registers the routes for budgets with
// the RouterGroup that is passed.
func RegisterBudgetRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsBudgetList)
		r.GET("", GetBudget)
	}

	// Budget with ID
	{
		r.OPTIONS("/:id", OptionsBudgetDetail)
		r.PATCH("/:id", UpdateBudget)
	}

	RegisterTransactionRoutes(r.Group("/:id/transactions"))
	RegisterReconcileRoutes(r.Group("/:id/reconcile"))

	r.OPTIONS("/:id/merchants", OptionsMerchants)
	r.GET("/:id/merchants", GetMerchants)

	r.OPTIONS("/:id/edit-history", OptionsEditHistory)
	r.GET("/:id/edit-history", GetEditHistory)
}

type BudgetLinks struct {
	Self         string `json:"self" example:"https://example.com/api/v1/budgets/550dc009-cea6-4c12-b2a5-03446eb7b7cf"`                      // The budget itself
	Transactions string `json:"transactions" example:"https://example.com/api/v1/budgets/550dc009-cea6-4c12-b2a5-03446eb7b7cf/transactions"` // Transactions of this budget
	Reconcile    string `json:"reconcile" example:"https://example.com/api/v1/budgets/550dc009-cea6-4c12-b2a5-03446eb7b7cf/reconcile"`       // Batch reconciliation for this budget
	Merchants    string `json:"merchants" example:"https://example.com/api/v1/budgets/550dc009-cea6-4c12-b2a5-03446eb7b7cf/merchants"`       // Merchant usage of this budget
	EditHistory  string `json:"editHistory" example:"https://example.com/api/v1/budgets/550dc009-cea6-4c12-b2a5-03446eb7b7cf/edit-history"`  // Audit trail of this budget
}

// Budget is the representation of a budget in API v1.
type Budget struct {
	models.Budget
	Links BudgetLinks `json:"links"`
}

// newBudget returns the API v1 representation of the resource
func newBudget(c *gin.Context, model models.Budget) Budget {
	self := fmt.Sprintf("%s/v1/budgets/%s", httputil.RequestHost(c), model.ID)

	return Budget{
		Budget: model,
		Links: BudgetLinks{
			Self:         self,
			Transactions: self + "/transactions",
			Reconcile:    self + "/reconcile",
			Merchants:    self + "/merchants",
			EditHistory:  self + "/edit-history",
		},
	}
}

type BudgetResponse struct {
	Data  *Budget `json:"data"`                                                          // The budget
	Error *string `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Budgets
// @Success		204
// @Router			/v1/budgets [options]
func OptionsBudgetList(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Budgets
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/budgets/{id} [options]
func OptionsBudgetDetail(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	err = models.DB.First(&models.Budget{}, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	httputil.OptionsGetPatch(c)
}

// @Summary		Get budget
// @Description	Returns the budget of the family (and optional entity) for the month, creating it from the nearest existing month if it does not exist yet
// @Tags			Budgets
// @Produce		json
// @Success		200		{object}	BudgetResponse
// @Failure		400		{object}	BudgetResponse
// @Failure		401		{object}	BudgetResponse
// @Failure		403		{object}	BudgetResponse
// @Param			family	query		string	true	"ID of the family"
// @Param			entity	query		string	false	"ID of the entity within the family"
// @Param			month	query		string	true	"The month in YYYY-MM format"
// @Router			/v1/budgets [get]
func GetBudget(c *gin.Context) {
	user, err := actor(c)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BudgetResponse{Error: &e})
		return
	}

	var query QueryBudget
	err = c.BindQuery(&query)
	if err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, BudgetResponse{Error: &e})
		return
	}

	if query.Month.IsZero() {
		e := errMonthNotSetInQuery.Error()
		c.JSON(http.StatusBadRequest, BudgetResponse{Error: &e})
		return
	}

	var entityID *uuid.UUID
	if query.Entity.UUID != uuid.Nil {
		entityID = &query.Entity.UUID
	}

	// Membership is checked before the budget is created so that
	// unauthorized requests cannot create resources
	ok, err := (models.Budget{FamilyID: query.Family.UUID, EntityID: entityID}).CanAccess(models.DB, user.ID)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BudgetResponse{Error: &e})
		return
	}
	if !ok {
		e := models.ErrUnauthorized.Error()
		c.JSON(status(models.ErrUnauthorized), BudgetResponse{Error: &e})
		return
	}

	budget, err := models.EnsureBudget(models.DB, query.Family.UUID, entityID, types.MonthOf(query.Month))
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BudgetResponse{Error: &e})
		return
	}

	data := newBudget(c, budget)
	c.JSON(http.StatusOK, BudgetResponse{Data: &data})
}

type CategoryEditable struct {
	// ID of an existing category to update or delete. Empty for new categories.
	ID *uuid.UUID `json:"id"`

	// Delete removes the category from the budget instead of updating it.
	Delete bool `json:"delete"`

	Name     string          `json:"name" example:"Emergency"`
	Target   decimal.Decimal `json:"target" example:"200"` // Planned amount for the month
	IsFund   bool            `json:"isFund" default:"false"`
	Group    string          `json:"group" example:"Savings"`
	Position uint            `json:"position" example:"2"`
}

type BudgetEditable struct {
	IncomeTarget *decimal.Decimal `json:"incomeTarget" example:"3500" minimum:"0"` // The income the family plans for the month

	// Categories to create, update or delete on the budget. Categories that
	// are not listed stay untouched.
	Categories []CategoryEditable `json:"categories"`

	// Version is the version the client last loaded. A mismatch with the
	// stored version rejects the update. 0 skips the check.
	Version uint `json:"version" example:"3"`
}

// @Summary		Update budget
// @Description	Updates the budget's planning fields and creates, updates or deletes its categories. The write is rejected when the budget changed since the client last loaded it.
// @Tags			Budgets
// @Accept			json
// @Produce		json
// @Success		200		{object}	BudgetResponse
// @Failure		400		{object}	BudgetResponse
// @Failure		404		{object}	BudgetResponse
// @Failure		409		{object}	BudgetResponse
// @Param			id		path		URIID			true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			budget	body		BudgetEditable	true	"Budget"
// @Router			/v1/budgets/{id} [patch]
func UpdateBudget(c *gin.Context) {
	user, err := actor(c)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BudgetResponse{Error: &e})
		return
	}

	var uri URIID
	err = c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BudgetResponse{Error: &e})
		return
	}

	budget, err := getAccessibleBudget(uri.ID.UUID, user.ID, "Categories")
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BudgetResponse{Error: &e})
		return
	}

	var editable BudgetEditable
	err = httputil.BindData(c, &editable)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BudgetResponse{Error: &e})
		return
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		if editable.IncomeTarget != nil {
			err := tx.Model(&budget).Update("income_target", *editable.IncomeTarget).Error
			if err != nil {
				return err
			}
		}

		for _, edit := range editable.Categories {
			if edit.ID == nil {
				category := models.Category{
					BudgetID: budget.ID,
					Name:     edit.Name,
					Target:   edit.Target,
					IsFund:   edit.IsFund,
					Group:    edit.Group,
					Position: edit.Position,
				}

				err := tx.Create(&category).Error
				if err != nil {
					return err
				}
				continue
			}

			var category models.Category
			err := tx.Where(&models.Category{BudgetID: budget.ID}).First(&category, *edit.ID).Error
			if err != nil {
				return err
			}

			if edit.Delete {
				err = tx.Delete(&category).Error
				if err != nil {
					return err
				}
				continue
			}

			// Carryover is derived state, the propagator owns it
			err = tx.Model(&category).
				Select("Name", "Target", "IsFund", "Group", "Position").
				Updates(models.Category{
					Name:     edit.Name,
					Target:   edit.Target,
					IsFund:   edit.IsFund,
					Group:    edit.Group,
					Position: edit.Position,
				}).Error
			if err != nil {
				return err
			}
		}

		return budget.BumpVersion(tx, editable.Version)
	})
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BudgetResponse{Error: &e})
		return
	}

	err = models.AppendEditEvent(models.DB, budget.ID, user, models.ActionUpdateBudget)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BudgetResponse{Error: &e})
		return
	}

	err = models.DB.Where(&models.Category{BudgetID: budget.ID}).Order("position ASC").Find(&budget.Categories).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BudgetResponse{Error: &e})
		return
	}

	data := newBudget(c, budget)
	c.JSON(http.StatusOK, BudgetResponse{Data: &data})
}
