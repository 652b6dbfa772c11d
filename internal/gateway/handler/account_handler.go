package handler

import (
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/akb-account-ledger/internal/domain/ledger"
	"github.com/akb-account-ledger/internal/gateway/middleware"
	"github.com/akb-account-ledger/internal/gateway/service"
	"github.com/gin-gonic/gin"
)

// AccountHandler handles HTTP requests for account views
type AccountHandler struct {
	accountService service.AccountService
	archiveService service.ArchiveService
	logger         *slog.Logger
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(logger *slog.Logger, accountService service.AccountService, archiveService service.ArchiveService) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
		archiveService: archiveService,
		logger:         logger,
	}
}

// Create opens a new account
func (h *AccountHandler) Create(c *gin.Context) {
	var req CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	acc, err := h.accountService.OpenAccount(c.Request.Context(), req.Name, req.PIN, req.InitialBalance)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	RespondCreated(c, mapAccountToResponse(acc))
}

// GetByID returns the account summary. Routes below /accounts/:id run behind the PIN
// middleware, which resolves the account.
func (h *AccountHandler) GetByID(c *gin.Context) {
	acc, ok := h.account(c)
	if !ok {
		return
	}
	RespondOK(c, mapAccountToResponse(acc))
}

// Balance returns the current balance
func (h *AccountHandler) Balance(c *gin.Context) {
	acc, ok := h.account(c)
	if !ok {
		return
	}
	balance := acc.Balance()
	RespondOK(c, BalanceResponse{Balance: balance, Formatted: ledger.FormatAmount(balance)})
}

// Profile returns the account holder profile
func (h *AccountHandler) Profile(c *gin.Context) {
	acc, ok := h.account(c)
	if !ok {
		return
	}
	RespondOK(c, acc.Profile())
}

// Settings returns the account flags and thresholds
func (h *AccountHandler) Settings(c *gin.Context) {
	acc, ok := h.account(c)
	if !ok {
		return
	}
	RespondOK(c, mapSettingsToResponse(acc.Settings()))
}

// TransactionsByDate returns the entries recorded on one calendar date
func (h *AccountHandler) TransactionsByDate(c *gin.Context) {
	acc, ok := h.account(c)
	if !ok {
		return
	}

	var params TransactionsByDateParams
	if err := c.ShouldBindQuery(&params); err != nil {
		RespondBadRequest(c, "Invalid date, expected YYYY-MM-DD")
		return
	}
	day, err := time.ParseInLocation(dateLayout, params.Date, time.Local)
	if err != nil {
		RespondBadRequest(c, "Invalid date, expected YYYY-MM-DD")
		return
	}

	RespondOK(c, mapEntriesToResponse(slices.Collect(acc.TransactionsByDate(day))))
}

// Recent returns the last count entries, five by default
func (h *AccountHandler) Recent(c *gin.Context) {
	acc, ok := h.account(c)
	if !ok {
		return
	}

	var params RecentParams
	if err := c.ShouldBindQuery(&params); err != nil {
		RespondBadRequest(c, "Invalid count")
		return
	}

	RespondOK(c, mapEntriesToResponse(acc.RecentTransactions(params.Count)))
}

// Statement returns the full transaction log
func (h *AccountHandler) Statement(c *gin.Context) {
	acc, ok := h.account(c)
	if !ok {
		return
	}
	RespondOK(c, mapEntriesToResponse(acc.Statement()))
}

// Beneficiaries lists the account's beneficiaries by name
func (h *AccountHandler) Beneficiaries(c *gin.Context) {
	acc, ok := h.account(c)
	if !ok {
		return
	}
	RespondOK(c, mapBeneficiariesToResponse(acc.Beneficiaries()))
}

// Archive returns paginated entries from the archive store, newest first
func (h *AccountHandler) Archive(c *gin.Context) {
	acc, ok := h.account(c)
	if !ok {
		return
	}

	var pagination PaginationParams
	if err := c.ShouldBindQuery(&pagination); err != nil {
		h.logger.Warn("Invalid pagination parameters", "error", err)
		RespondBadRequest(c, "Invalid pagination parameters")
		return
	}

	entries, total, err := h.archiveService.GetArchivedEntries(c.Request.Context(), acc.ID(), pagination.Page, pagination.PerPage)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	RespondWithPaginatedData(c, http.StatusOK, mapArchivedEntriesToResponse(entries), pagination.Page, pagination.PerPage, int(total))
}

// account fetches the account the PIN middleware authenticated
func (h *AccountHandler) account(c *gin.Context) (*ledger.Account, bool) {
	acc, ok := middleware.GetAccount(c)
	if !ok {
		h.logger.Error("Account route reached without PIN middleware", "path", c.FullPath())
		RespondInternalError(c)
		return nil, false
	}
	return acc, true
}
