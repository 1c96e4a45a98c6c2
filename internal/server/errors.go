package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	catalogdomain "github.com/smallbiznis/kasira/internal/catalog/domain"
	"github.com/smallbiznis/kasira/internal/session"
	"github.com/smallbiznis/kasira/internal/syncer"
	transactiondomain "github.com/smallbiznis/kasira/internal/transaction/domain"
	"github.com/smallbiznis/kasira/pkg/db"
)

var validate = validator.New()

type errorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	code := "internal_error"

	switch {
	case errors.Is(err, session.ErrNotAuthenticated):
		status = http.StatusUnauthorized
		code = session.ErrNotAuthenticated.Error()
	case errors.Is(err, catalogdomain.ErrNotFound),
		errors.Is(err, transactiondomain.ErrNotFound):
		status = http.StatusNotFound
		code = "not_found"
	case errors.Is(err, catalogdomain.ErrInvalidID),
		errors.Is(err, transactiondomain.ErrInvalidID),
		errors.Is(err, transactiondomain.ErrEmptyItems),
		errors.Is(err, transactiondomain.ErrInvalidItem),
		errors.Is(err, transactiondomain.ErrUnknownProduct):
		status = http.StatusBadRequest
		code = err.Error()
	case errors.Is(err, syncer.ErrSyncInProgress):
		status = http.StatusConflict
		code = syncer.ErrSyncInProgress.Error()
	case db.IsDuplicateKeyErr(err):
		status = http.StatusConflict
		code = "duplicate"
	}

	c.JSON(status, errorResponse{Error: errorPayload{
		Code:    code,
		Message: err.Error(),
	}})
}

func respondBadRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, errorResponse{Error: errorPayload{
		Code:    "invalid_request",
		Message: err.Error(),
	}})
}
