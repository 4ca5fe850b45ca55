package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/monedero/monedero-backend/internal/middleware"
)

// Handlers bundles every HTTP handler for route registration
type Handlers struct {
	Accounts          *AccountHandler
	Categories        *CategoryHandler
	Budgets           *BudgetHandler
	Incomes           *IncomeHandler
	Expenses          *ExpenseHandler
	Transfers         *TransferHandler
	ExternalTransfers *ExternalTransferHandler
	Saves             *SaveHandler
	SavingGoals       *SavingGoalHandler
	Dashboard         *DashboardHandler
	Receipts          *ReceiptHandler
	Profile           *ProfileHandler
	WebSocket         *WebSocketHandler
}

// RegisterRoutes wires all routes onto the Echo instance. Everything
// under /api/v1 requires a valid token; the rate limit applies after
// the user is resolved.
func RegisterRoutes(e *echo.Echo, h Handlers, auth *middleware.AuthMiddleware, limiter *middleware.RateLimiter) {
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	api := e.Group("/api/v1", auth.Authenticate(), middleware.RateLimitMiddleware(limiter))

	accounts := api.Group("/accounts")
	accounts.POST("", h.Accounts.CreateAccount)
	accounts.GET("", h.Accounts.GetAccounts)
	accounts.GET("/:id", h.Accounts.GetAccount)
	accounts.PATCH("/:id", h.Accounts.UpdateAccount)
	accounts.DELETE("/:id", h.Accounts.DeleteAccount)

	categories := api.Group("/categories")
	categories.POST("", h.Categories.CreateCategory)
	categories.GET("", h.Categories.GetCategories)
	categories.GET("/:id", h.Categories.GetCategory)
	categories.PATCH("/:id", h.Categories.UpdateCategory)
	categories.DELETE("/:id", h.Categories.DeleteCategory)

	budgets := api.Group("/budgets")
	budgets.POST("", h.Budgets.CreateBudget)
	budgets.GET("", h.Budgets.GetBudgets)
	budgets.GET("/:id", h.Budgets.GetBudget)
	budgets.PATCH("/:id", h.Budgets.UpdateBudget)
	budgets.DELETE("/:id", h.Budgets.DeleteBudget)

	incomes := api.Group("/incomes")
	incomes.POST("", h.Incomes.CreateIncome)
	incomes.GET("", h.Incomes.GetIncomes)
	incomes.GET("/:id", h.Incomes.GetIncome)
	incomes.PATCH("/:id", h.Incomes.UpdateIncome)
	incomes.DELETE("/:id", h.Incomes.DeleteIncome)
	incomes.POST("/:id/receipt", h.Receipts.UploadIncomeReceipt)
	incomes.GET("/:id/receipt", h.Receipts.GetIncomeReceipt)

	expenses := api.Group("/expenses")
	expenses.POST("", h.Expenses.CreateExpense)
	expenses.GET("", h.Expenses.GetExpenses)
	expenses.GET("/:id", h.Expenses.GetExpense)
	expenses.PATCH("/:id", h.Expenses.UpdateExpense)
	expenses.DELETE("/:id", h.Expenses.DeleteExpense)
	expenses.POST("/:id/receipt", h.Receipts.UploadExpenseReceipt)
	expenses.GET("/:id/receipt", h.Receipts.GetExpenseReceipt)

	transfers := api.Group("/transfers")
	transfers.POST("", h.Transfers.CreateTransfer)
	transfers.GET("", h.Transfers.GetTransfers)
	transfers.GET("/:id", h.Transfers.GetTransfer)
	transfers.PATCH("/:id", h.Transfers.UpdateTransfer)
	transfers.DELETE("/:id", h.Transfers.DeleteTransfer)

	externalTransfers := api.Group("/external-transfers")
	externalTransfers.POST("", h.ExternalTransfers.CreateExternalTransfer)
	externalTransfers.GET("", h.ExternalTransfers.GetExternalTransfers)
	externalTransfers.GET("/:id", h.ExternalTransfers.GetExternalTransfer)
	externalTransfers.PATCH("/:id", h.ExternalTransfers.UpdateExternalTransfer)
	externalTransfers.DELETE("/:id", h.ExternalTransfers.DeleteExternalTransfer)

	saves := api.Group("/saves")
	saves.POST("", h.Saves.CreateSave)
	saves.GET("", h.Saves.GetSaves)
	saves.GET("/:id", h.Saves.GetSave)
	saves.PATCH("/:id", h.Saves.UpdateSave)
	saves.DELETE("/:id", h.Saves.DeleteSave)

	savingGoals := api.Group("/saving-goals")
	savingGoals.POST("", h.SavingGoals.CreateSavingGoal)
	savingGoals.GET("", h.SavingGoals.GetSavingGoals)
	savingGoals.GET("/:id", h.SavingGoals.GetSavingGoal)
	savingGoals.PATCH("/:id", h.SavingGoals.UpdateSavingGoal)
	savingGoals.DELETE("/:id", h.SavingGoals.DeleteSavingGoal)

	dashboard := api.Group("/dashboard")
	dashboard.GET("", h.Dashboard.GetDashboard)
	dashboard.POST("/recalculate", h.Dashboard.RecalculateDashboard)
	dashboard.PUT("/currency", h.Dashboard.SetDashboardCurrency)

	api.GET("/profile", h.Profile.GetProfile)

	// The WebSocket endpoint authenticates through its token query
	// parameter instead of the Authorization header.
	e.GET("/api/v1/ws", h.WebSocket.Handle)
}
