package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/akb-account-ledger/internal/domain/ledger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AccountKey is the key the authenticated account is stored under in the gin context
const AccountKey = "account"

// AccountLookup resolves an account by ID
type AccountLookup interface {
	GetAccount(ctx context.Context, id uuid.UUID) (*ledger.Account, error)
}

// PIN middleware authenticates requests to /accounts/:id routes. The PIN is read from
// header and checked with the account's VerifyPIN. Lookup errors matching notFound
// answer 404.
func PIN(logger *slog.Logger, header string, accounts AccountLookup, notFound error) gin.HandlerFunc {
	return func(c *gin.Context) {
		idParam := c.Param("id")
		id, err := uuid.Parse(idParam)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "BAD_REQUEST", "Invalid account ID")
			return
		}

		acc, err := accounts.GetAccount(c.Request.Context(), id)
		if err != nil {
			if errors.Is(err, notFound) {
				abortWithError(c, http.StatusNotFound, "NOT_FOUND", "Account not found")
				return
			}
			logger.Error("Failed to look up account", "account_id", idParam, "error", err)
			abortWithError(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "An internal server error occurred")
			return
		}

		pin := c.GetHeader(header)
		if pin == "" || !acc.VerifyPIN(pin) {
			logger.Warn("PIN verification failed", "account_id", idParam, "correlation_id", GetCorrelationID(c))
			abortWithError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Incorrect PIN")
			return
		}

		c.Set(AccountKey, acc)
		c.Next()
	}
}

// GetAccount returns the account authenticated by the PIN middleware
func GetAccount(c *gin.Context) (*ledger.Account, bool) {
	v, exists := c.Get(AccountKey)
	if !exists {
		return nil, false
	}
	acc, ok := v.(*ledger.Account)
	return acc, ok
}
