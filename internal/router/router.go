package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/finbook/finbook-backend/internal/accounts"
	"github.com/finbook/finbook-backend/internal/auth"
	"github.com/finbook/finbook-backend/internal/bills"
	"github.com/finbook/finbook-backend/internal/budgets"
	"github.com/finbook/finbook-backend/internal/notifications"
	"github.com/finbook/finbook-backend/internal/reports"
	"github.com/finbook/finbook-backend/internal/rewards"
	"github.com/finbook/finbook-backend/internal/transactions"
	"github.com/finbook/finbook-backend/internal/users"
)

type Router struct {
	AuthHandler          *auth.Handler
	AccountsHandler      *accounts.Handler
	TransactionsHandler  *transactions.Handler
	BudgetsHandler       *budgets.Handler
	BillsHandler         *bills.Handler
	RewardsHandler       *rewards.Handler
	NotificationsHandler *notifications.Handler
	UsersHandler         *users.Handler
	ReportsHandler       *reports.Handler

	AuthMW    fiber.Handler
	AdminMW   fiber.Handler
	BookingMW fiber.Handler
}

func (r *Router) RegisterRoutes(app *fiber.App) {
	api := app.Group("/api")

	api.Post("/auth/register", RateLimitAuth(), r.AuthHandler.Register)
	api.Post("/auth/login", RateLimitAuth(), r.AuthHandler.Login)
	api.Post("/auth/refresh", RateLimitAuth(), r.AuthHandler.Refresh)
	api.Get("/me", r.AuthMW, r.AuthHandler.Me)

	api.Post("/accounts", r.AuthMW, r.AccountsHandler.Create)
	api.Get("/accounts", r.AuthMW, r.AccountsHandler.List)
	api.Get("/accounts/:id", r.AuthMW, r.AccountsHandler.Get)
	api.Put("/accounts/:id", r.AuthMW, r.AccountsHandler.Update)
	api.Delete("/accounts/:id", r.AuthMW, r.AccountsHandler.Delete)
	api.Post("/accounts/:id/reconcile", r.AuthMW, r.AccountsHandler.Reconcile)

	api.Post("/accounts/:accountID/transactions", r.AuthMW, r.BookingMW, r.TransactionsHandler.Create)
	api.Get("/accounts/:accountID/transactions", r.AuthMW, r.TransactionsHandler.ListForAccount)
	api.Get("/accounts/:accountID/transactions/:txnID", r.AuthMW, r.TransactionsHandler.Get)
	api.Post("/accounts/:accountID/transactions/import", r.AuthMW, r.BookingMW, r.TransactionsHandler.ImportCSV)
	api.Get("/transactions", r.AuthMW, r.TransactionsHandler.ListForUser)

	api.Get("/accounts/:accountID/statement", r.AuthMW, r.ReportsHandler.Statement)
	api.Get("/accounts/:accountID/statement.pdf", r.AuthMW, r.ReportsHandler.StatementPDF)

	api.Post("/budgets", r.AuthMW, r.BudgetsHandler.Create)
	api.Get("/budgets", r.AuthMW, r.BudgetsHandler.List)
	api.Get("/budgets/:id", r.AuthMW, r.BudgetsHandler.Get)
	api.Put("/budgets/:id", r.AuthMW, r.BudgetsHandler.Update)
	api.Delete("/budgets/:id", r.AuthMW, r.BudgetsHandler.Delete)
	api.Post("/budgets/:id/reconcile", r.AuthMW, r.BudgetsHandler.Reconcile)

	api.Post("/bills", r.AuthMW, r.BillsHandler.Create)
	api.Get("/bills", r.AuthMW, r.BillsHandler.List)
	api.Get("/bills/:id", r.AuthMW, r.BillsHandler.Get)
	api.Put("/bills/:id", r.AuthMW, r.BookingMW, r.BillsHandler.Update)
	api.Delete("/bills/:id", r.AuthMW, r.BillsHandler.Delete)

	api.Post("/rewards", r.AuthMW, r.RewardsHandler.Create)
	api.Get("/rewards", r.AuthMW, r.RewardsHandler.List)
	api.Get("/rewards/:id", r.AuthMW, r.RewardsHandler.Get)
	api.Put("/rewards/:id", r.AuthMW, r.RewardsHandler.Update)
	api.Delete("/rewards/:id", r.AuthMW, r.RewardsHandler.Delete)
	api.Post("/rewards/bulk-assign", r.AuthMW, r.AdminMW, r.RewardsHandler.BulkAssign)

	api.Get("/notifications", r.AuthMW, r.NotificationsHandler.List)
	api.Post("/notifications/:id/sent", r.AuthMW, r.NotificationsHandler.MarkSent)

	api.Get("/admin/users", r.AuthMW, r.AdminMW, r.UsersHandler.List)
	api.Get("/admin/users/:id", r.AuthMW, r.AdminMW, r.UsersHandler.Get)
	api.Put("/admin/users/:id", r.AuthMW, r.AdminMW, r.UsersHandler.Update)
	api.Delete("/admin/users/:id", r.AuthMW, r.AdminMW, r.UsersHandler.Delete)
	api.Get("/admin/stats", r.AuthMW, r.AdminMW, r.UsersHandler.Stats)
}
