package handlers

import (
	"log/slog"

	"github.com/GregMSThompson/finance-tracker/internal/middleware"
	"github.com/GregMSThompson/finance-tracker/internal/response"
)

type Deps struct {
	Log             *slog.Logger
	ResponseHandler response.ResponseHandler
	TransactionSvc  transactionService
	BudgetSvc       budgetService
	GoalSvc         goalService

	// Firebase verifies bearer tokens; leave nil to reject every token.
	Firebase       middleware.TokenVerifier
	AllowedOrigins []string
}
