package handler

import (
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/akb-account-ledger/internal/gateway/command"
	"github.com/akb-account-ledger/internal/gateway/middleware"
	"github.com/akb-account-ledger/internal/gateway/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CommandHandler runs account commands over HTTP
type CommandHandler struct {
	accountService service.AccountService
	logger         *slog.Logger
}

// NewCommandHandler creates a new command handler
func NewCommandHandler(logger *slog.Logger, accountService service.AccountService) *CommandHandler {
	return &CommandHandler{
		accountService: accountService,
		logger:         logger,
	}
}

// List returns every supported command name
func (h *CommandHandler) List(c *gin.Context) {
	RespondOK(c, command.Names())
}

// Execute runs the command named in the path against the authenticated account.
// The request body is optional for commands that take no arguments.
func (h *CommandHandler) Execute(c *gin.Context) {
	acc, ok := middleware.GetAccount(c)
	if !ok {
		RespondInternalError(c)
		return
	}

	cmd, err := command.ParseCommand(c.Param("command"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	var req CommandRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			h.logger.Warn("Invalid command arguments", "command", string(cmd), "error", err)
			RespondBadRequest(c, "Invalid request body: "+err.Error())
			return
		}
	}

	args, err := req.toArgs()
	if err != nil {
		RespondBadRequest(c, err.Error())
		return
	}

	res, err := h.accountService.Execute(c.Request.Context(), acc.ID(), cmd, args)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.logger.Info("Command executed",
		"account_id", acc.ID(),
		"command", string(cmd),
		"correlation_id", middleware.GetCorrelationID(c),
	)
	RespondOK(c, res)
}

// toArgs converts the wire request into command arguments
func (r CommandRequest) toArgs() (command.Args, error) {
	args := command.Args{
		Amount:      r.Amount,
		Name:        r.Name,
		Nickname:    r.Nickname,
		PIN:         r.NewPIN,
		Email:       r.Email,
		ContactInfo: r.ContactInfo,
		Count:       r.Count,
	}
	if r.AccountID != "" {
		id, err := uuid.Parse(r.AccountID)
		if err != nil {
			return command.Args{}, errors.New("invalid account_id")
		}
		args.AccountID = id
	}
	if r.Date != "" {
		day, err := time.ParseInLocation(dateLayout, r.Date, time.Local)
		if err != nil {
			return command.Args{}, errors.New("invalid date, expected YYYY-MM-DD")
		}
		args.Date = day
	}
	return args, nil
}
