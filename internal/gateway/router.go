package gateway

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/akb-account-ledger/internal/gateway/handler"
	"github.com/akb-account-ledger/internal/gateway/middleware"
	"github.com/akb-account-ledger/internal/gateway/service"
	"github.com/gin-gonic/gin"
)

// setupRouter configures API routes and middleware for the application
func setupRouter(
	logger *slog.Logger,
	r *gin.Engine,
	pinHeader string,
	accounts service.AccountService,
	accountHandler *handler.AccountHandler,
	commandHandler *handler.CommandHandler,
) {
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.CorrelationID())
	r.Use(middleware.Logger(logger))

	v1 := r.Group("/api/v1")
	{
		v1.POST("/accounts", accountHandler.Create)
		v1.GET("/commands", commandHandler.List)

		// everything under an account requires its PIN
		account := v1.Group("/accounts/:id", middleware.PIN(logger, pinHeader, accounts, service.ErrAccountNotFound{}))
		{
			account.GET("", accountHandler.GetByID)
			account.GET("/balance", accountHandler.Balance)
			account.GET("/profile", accountHandler.Profile)
			account.GET("/settings", accountHandler.Settings)
			account.GET("/transactions", accountHandler.TransactionsByDate)
			account.GET("/transactions/recent", accountHandler.Recent)
			account.GET("/statement", accountHandler.Statement)
			account.GET("/beneficiaries", accountHandler.Beneficiaries)
			account.GET("/archive", accountHandler.Archive)
			account.POST("/commands/:command", commandHandler.Execute)
		}
	}

	// Health check endpoint for monitoring
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
	})
}
