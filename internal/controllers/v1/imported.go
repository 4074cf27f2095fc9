package v1

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/hearthbudget/backend/internal/httputil"
	"github.com/hearthbudget/backend/internal/importer"
	"github.com/hearthbudget/backend/internal/models"
	"github.com/hearthbudget/backend/internal/reconciler"

	"github.com/gin-gonic/gin"
)

// RegisterImportedTransactionRoutes registers the routes for imported
// transactions with the RouterGroup that is passed.
func RegisterImportedTransactionRoutes(r *gin.RouterGroup) {
	r.OPTIONS("/matched", OptionsMatched)
	r.GET("/matched", GetMatched)

	r.OPTIONS("/import", OptionsImport)
	r.POST("/import", ImportStatement)
}

type MatchedResponse struct {
	Data  []reconciler.MatchedTransaction `json:"data"`                                                          // Budget transactions exactly matching an imported transaction
	Error *string                         `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type ImportData struct {
	Created int `json:"created" example:"17"` // Number of records imported
	Skipped int `json:"skipped" example:"2"`  // Number of records skipped because they were already imported
}

type ImportResponse struct {
	Data  *ImportData `json:"data"`                                                // Import statistics
	Error *string     `json:"error" example:"you must send a file to this endpoint"` // The error, if any occurred
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			ImportedTransactions
// @Success		204
// @Router			/v1/imported-transactions/matched [options]
func OptionsMatched(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			ImportedTransactions
// @Success		204
// @Router			/v1/imported-transactions/import [options]
func OptionsImport(c *gin.Context) {
	httputil.OptionsPost(c)
}

// @Summary		Matched budget transactions
// @Description	Returns all budget transactions that exactly match an imported transaction of the account
// @Tags			ImportedTransactions
// @Produce		json
// @Success		200		{object}	MatchedResponse
// @Failure		400		{object}	MatchedResponse
// @Failure		401		{object}	MatchedResponse
// @Param			account	query		string	true	"ID of the bank account"
// @Router			/v1/imported-transactions/matched [get]
func GetMatched(c *gin.Context) {
	user, err := actor(c)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), MatchedResponse{Error: &e})
		return
	}

	var query QueryAccount
	err = c.BindQuery(&query)
	if err != nil {
		e := errAccountIDParameter.Error()
		c.JSON(http.StatusBadRequest, MatchedResponse{Error: &e})
		return
	}

	matched, err := reconciler.MatchedToImported(models.DB, query.Account.UUID, user.ID)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), MatchedResponse{Error: &e})
		return
	}

	c.JSON(http.StatusOK, MatchedResponse{Data: matched})
}

// getUploadedFile returns the form file and handles potential errors.
func getUploadedFile(c *gin.Context, suffix string) (multipart.File, error) {
	formFile, err := c.FormFile("file")
	if formFile == nil {
		return nil, errNoFilePost
	}

	if err != nil {
		return nil, err
	}

	if !strings.HasSuffix(formFile.Filename, suffix) {
		return nil, fmt.Errorf("%w: %s", errWrongFileSuffix, suffix)
	}

	f, err := formFile.Open()
	if err != nil {
		return nil, err
	}

	return f, nil
}

// @Summary		Import bank statement
// @Description	Imports a CSV bank statement export for the account. Records identical to an already imported one are skipped, so statements with overlapping date ranges can be uploaded safely.
// @Tags			ImportedTransactions
// @Accept			multipart/form-data
// @Produce		json
// @Success		201		{object}	ImportResponse
// @Failure		400		{object}	ImportResponse
// @Failure		401		{object}	ImportResponse
// @Param			account	query		string	true	"ID of the bank account"
// @Param			file	formData	file	true	"The statement as CSV file"
// @Router			/v1/imported-transactions/import [post]
func ImportStatement(c *gin.Context) {
	user, err := actor(c)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ImportResponse{Error: &e})
		return
	}

	var query QueryAccount
	err = c.BindQuery(&query)
	if err != nil {
		e := errAccountIDParameter.Error()
		c.JSON(http.StatusBadRequest, ImportResponse{Error: &e})
		return
	}

	f, err := getUploadedFile(c, ".csv")
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ImportResponse{Error: &e})
		return
	}
	defer f.Close()

	records, err := importer.Parse(f, query.Account.UUID, user.ID)
	if err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, ImportResponse{Error: &e})
		return
	}

	created, skipped, err := importer.CreateRecords(models.DB, records)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ImportResponse{Error: &e})
		return
	}

	c.JSON(http.StatusCreated, ImportResponse{Data: &ImportData{Created: created, Skipped: skipped}})
}
