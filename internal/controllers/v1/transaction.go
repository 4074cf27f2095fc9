package v1

import (
	"net/http"
	"time"

	"github.com/hearthbudget/backend/internal/carryover"
	"github.com/hearthbudget/backend/internal/httputil"
	"github.com/hearthbudget/backend/internal/models"
	"github.com/hearthbudget/backend/internal/reconciler"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

// RegisterTransactionRoutes registers the routes for transactions with
// the RouterGroup that is passed.
func RegisterTransactionRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", OptionsTransactions)
	r.POST("", SaveTransaction)

	r.OPTIONS("/:transactionId", OptionsTransactionDetail)
	r.DELETE("/:transactionId", DeleteTransaction)
}

type SplitEditable struct {
	Category string          `json:"category" binding:"required" example:"Groceries"` // Name of the category the amount is allocated to
	Amount   decimal.Decimal `json:"amount" example:"14.03"`                          // The amount allocated to the category
}

type TransactionEditable struct {
	// ID of an existing transaction to update. Empty for new transactions.
	ID *uuid.UUID `json:"id"`

	EntityID *uuid.UUID `json:"entityId"` // Optional entity override for the transaction

	Date time.Time `json:"date" example:"2022-07-12T00:00:00Z"` // Date of the transaction

	Merchant string `json:"merchant" example:"Aldi"` // The merchant as entered by the user

	// The amount is always positive, the direction is set with isIncome.
	Amount   decimal.Decimal `json:"amount" example:"14.03" minimum:"0.00000001"`
	IsIncome bool            `json:"isIncome" default:"false"`

	CheckNumber   string `json:"checkNumber" example:"1041"`
	AccountNumber string `json:"accountNumber" example:"****1234"`
	AccountSource string `json:"accountSource" example:"mybank"`

	Splits []SplitEditable `json:"categories" binding:"required,dive"` // Allocation of the amount to categories

	// Version is the budget version the client last loaded, see BudgetEditable.
	Version uint `json:"version" example:"3"`
}

// model returns the database resource for the API representation of the editable fields
func (editable TransactionEditable) model(budgetID uuid.UUID) models.Transaction {
	splits := make([]models.TransactionSplit, 0, len(editable.Splits))
	for _, split := range editable.Splits {
		splits = append(splits, models.TransactionSplit{
			Category: split.Category,
			Amount:   split.Amount,
		})
	}

	return models.Transaction{
		BudgetID:      budgetID,
		EntityID:      editable.EntityID,
		Date:          editable.Date,
		Merchant:      editable.Merchant,
		Amount:        editable.Amount,
		IsIncome:      editable.IsIncome,
		CheckNumber:   editable.CheckNumber,
		AccountNumber: editable.AccountNumber,
		AccountSource: editable.AccountSource,
		Splits:        splits,
	}
}

type TransactionSaveResponse struct {
	Data *models.Transaction `json:"data"` // The saved transaction

	// Duplicate is set when the saved transaction looks like a duplicate of
	// another transaction on the budget. The transaction is saved anyway;
	// this is a warning for the user.
	Duplicate bool `json:"duplicate"`

	// Carryover reports the fund propagation triggered by this save, if any.
	Carryover *carryover.Result `json:"carryover,omitempty"`

	Error *string `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type TransactionDeleteResponse struct {
	// Carryover reports the fund propagation triggered by the deletion, if any.
	Carryover *carryover.Result `json:"carryover,omitempty"`

	Error *string `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Transactions
// @Success		204
// @Router			/v1/budgets/{id}/transactions [options]
func OptionsTransactions(c *gin.Context) {
	httputil.OptionsPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Transactions
// @Success		204
// @Router			/v1/budgets/{id}/transactions/{transactionId} [options]
func OptionsTransactionDetail(c *gin.Context) {
	httputil.OptionsDelete(c)
}

// @Summary		Save transaction
// @Description	Creates a transaction on the budget, or updates it when an ID is passed. Saving a transaction that touches a fund category propagates carryovers to all later months.
// @Tags			Transactions
// @Accept			json
// @Produce		json
// @Success		200			{object}	TransactionSaveResponse
// @Failure		400			{object}	TransactionSaveResponse
// @Failure		404			{object}	TransactionSaveResponse
// @Failure		409			{object}	TransactionSaveResponse
// @Param			id			path		URIID				true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			transaction	body		TransactionEditable	true	"Transaction"
// @Router			/v1/budgets/{id}/transactions [post]
func SaveTransaction(c *gin.Context) {
	user, err := actor(c)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), TransactionSaveResponse{Error: &e})
		return
	}

	var uri URIID
	err = c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), TransactionSaveResponse{Error: &e})
		return
	}

	budget, err := getAccessibleBudget(uri.ID.UUID, user.ID, "Categories")
	if err != nil {
		e := err.Error()
		c.JSON(status(err), TransactionSaveResponse{Error: &e})
		return
	}

	var editable TransactionEditable
	err = httputil.BindData(c, &editable)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), TransactionSaveResponse{Error: &e})
		return
	}

	transaction := editable.model(budget.ID)

	// For updates, remember the state that is about to be replaced so that
	// merchant usage and fund carryovers can be adjusted for it
	var previous models.Transaction
	affected := make(map[string]bool)
	if editable.ID != nil {
		err = models.DB.Preload("Splits").
			Where(&models.Transaction{BudgetID: budget.ID}).
			First(&previous, *editable.ID).Error
		if err != nil {
			e := err.Error()
			c.JSON(status(err), TransactionSaveResponse{Error: &e})
			return
		}

		for _, name := range previous.AffectedFundCategories(budget.Categories) {
			affected[name] = true
		}
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		if editable.ID != nil {
			// Replace the splits wholesale, they carry no state of their own
			err := tx.Where("transaction_id = ?", previous.ID).Delete(&models.TransactionSplit{}).Error
			if err != nil {
				return err
			}

			transaction.DefaultModel = previous.DefaultModel
			err = tx.Model(&models.Transaction{DefaultModel: previous.DefaultModel}).
				Select("EntityID", "Date", "Merchant", "Amount", "IsIncome", "CheckNumber", "AccountNumber", "AccountSource").
				Updates(transaction).Error
			if err != nil {
				return err
			}

			for i := range transaction.Splits {
				transaction.Splits[i].TransactionID = previous.ID
				err = tx.Create(&transaction.Splits[i]).Error
				if err != nil {
					return err
				}
			}

			if previous.Merchant != transaction.Merchant {
				err = models.DecrementMerchant(tx, budget.ID, previous.Merchant)
				if err != nil {
					return err
				}

				err = models.IncrementMerchant(tx, budget.ID, transaction.Merchant)
				if err != nil {
					return err
				}
			}
		} else {
			err := tx.Create(&transaction).Error
			if err != nil {
				return err
			}

			err = models.IncrementMerchant(tx, budget.ID, transaction.Merchant)
			if err != nil {
				return err
			}
		}

		return budget.BumpVersion(tx, editable.Version)
	})
	if err != nil {
		e := err.Error()
		c.JSON(status(err), TransactionSaveResponse{Error: &e})
		return
	}

	err = models.AppendEditEvent(models.DB, budget.ID, user, models.ActionSaveTransaction)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), TransactionSaveResponse{Error: &e})
		return
	}

	for _, name := range transaction.AffectedFundCategories(budget.Categories) {
		affected[name] = true
	}

	response := TransactionSaveResponse{Data: &transaction}

	var others []models.Transaction
	err = models.DB.Where(&models.Transaction{BudgetID: budget.ID}).Find(&others).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), TransactionSaveResponse{Error: &e})
		return
	}
	response.Duplicate = reconciler.IsDuplicate(transaction, others)

	if len(affected) > 0 {
		names := make([]string, 0, len(affected))
		for name := range affected {
			names = append(names, name)
		}
		slices.Sort(names)

		result, err := carryover.PropagateFrom(models.DB, budget, names)
		if err != nil {
			e := err.Error()
			c.JSON(status(err), TransactionSaveResponse{Error: &e})
			return
		}
		response.Carryover = &result
	}

	c.JSON(http.StatusOK, response)
}

// @Summary		Delete transaction
// @Description	Deletes a transaction from the budget. Deleting a transaction that touched a fund category propagates carryovers to all later months.
// @Tags			Transactions
// @Produce		json
// @Success		200				{object}	TransactionDeleteResponse
// @Failure		400				{object}	TransactionDeleteResponse
// @Failure		404				{object}	TransactionDeleteResponse
// @Param			id				path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			transactionId	path		string	true	"ID of the transaction"
// @Router			/v1/budgets/{id}/transactions/{transactionId} [delete]
func DeleteTransaction(c *gin.Context) {
	user, err := actor(c)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), TransactionDeleteResponse{Error: &e})
		return
	}

	var uri URITransaction
	err = c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), TransactionDeleteResponse{Error: &e})
		return
	}

	budget, err := getAccessibleBudget(uri.ID.UUID, user.ID, "Categories")
	if err != nil {
		e := err.Error()
		c.JSON(status(err), TransactionDeleteResponse{Error: &e})
		return
	}

	var transaction models.Transaction
	err = models.DB.Preload("Splits").
		Where(&models.Transaction{BudgetID: budget.ID}).
		First(&transaction, uri.TransactionID).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), TransactionDeleteResponse{Error: &e})
		return
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.Delete(&transaction).Error
		if err != nil {
			return err
		}

		err = models.DecrementMerchant(tx, budget.ID, transaction.Merchant)
		if err != nil {
			return err
		}

		return budget.BumpVersion(tx, 0)
	})
	if err != nil {
		e := err.Error()
		c.JSON(status(err), TransactionDeleteResponse{Error: &e})
		return
	}

	err = models.AppendEditEvent(models.DB, budget.ID, user, models.ActionDeleteTransaction)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), TransactionDeleteResponse{Error: &e})
		return
	}

	response := TransactionDeleteResponse{}

	affected := transaction.AffectedFundCategories(budget.Categories)
	if len(affected) > 0 {
		result, err := carryover.PropagateFrom(models.DB, budget, affected)
		if err != nil {
			e := err.Error()
			c.JSON(status(err), TransactionDeleteResponse{Error: &e})
			return
		}
		response.Carryover = &result
	}

	c.JSON(http.StatusOK, response)
}
