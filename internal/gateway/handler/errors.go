package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/akb-account-ledger/internal/domain/ledger"
	"github.com/akb-account-ledger/internal/gateway/command"
	"github.com/akb-account-ledger/internal/gateway/service"
	"github.com/gin-gonic/gin"
)

type errorMapping struct {
	target error
	status int
	code   string
}

// errorMappings is checked in order; the first errors.Is match wins.
// Typed errors with zero-valued fields match any error of their type.
var errorMappings = []errorMapping{
	{service.ErrAccountNotFound{}, http.StatusNotFound, "ACCOUNT_NOT_FOUND"},
	{ledger.ErrBeneficiaryNotFound{}, http.StatusNotFound, "BENEFICIARY_NOT_FOUND"},
	{ledger.ErrInvalidAmount, http.StatusBadRequest, "INVALID_AMOUNT"},
	{ledger.ErrSameAccount, http.StatusBadRequest, "SAME_ACCOUNT"},
	{ledger.ErrNilAccount, http.StatusBadRequest, "BAD_REQUEST"},
	{ledger.ErrEmptyName, http.StatusBadRequest, "BAD_REQUEST"},
	{command.ErrUnknownCommand, http.StatusBadRequest, "UNKNOWN_COMMAND"},
	{command.ErrMissingArgument{}, http.StatusBadRequest, "MISSING_ARGUMENT"},
	{command.ErrInvalidArgument{}, http.StatusBadRequest, "INVALID_ARGUMENT"},
	{ledger.ErrAccountFrozen, http.StatusConflict, "ACCOUNT_FROZEN"},
	{ledger.ErrCardBlocked, http.StatusConflict, "CARD_BLOCKED"},
	{ledger.ErrLimitExceeded{}, http.StatusUnprocessableEntity, "LIMIT_EXCEEDED"},
	{ledger.ErrInsufficientFunds, http.StatusUnprocessableEntity, "INSUFFICIENT_FUNDS"},
	{service.ErrArchiveDisabled, http.StatusServiceUnavailable, "ARCHIVE_DISABLED"},
}

// respondError maps domain errors to HTTP responses. Unmapped errors are logged and
// answered with 500 without leaking their text.
func respondError(c *gin.Context, logger *slog.Logger, err error) {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			RespondWithError(c, m.status, m.code, err.Error())
			return
		}
	}
	logger.Error("Unhandled error", "path", c.Request.URL.Path, "error", err)
	RespondInternalError(c)
}
