package main

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/finbook/finbook-backend/internal/accounts"
	"github.com/finbook/finbook-backend/internal/auth"
	"github.com/finbook/finbook-backend/internal/bills"
	"github.com/finbook/finbook-backend/internal/budgets"
	"github.com/finbook/finbook-backend/internal/config"
	"github.com/finbook/finbook-backend/internal/ledger"
	"github.com/finbook/finbook-backend/internal/logger"
	"github.com/finbook/finbook-backend/internal/notifications"
	"github.com/finbook/finbook-backend/internal/reports"
	"github.com/finbook/finbook-backend/internal/rewards"
	"github.com/finbook/finbook-backend/internal/router"
	"github.com/finbook/finbook-backend/internal/transactions"
	"github.com/finbook/finbook-backend/internal/users"
)

func main() {
	log := logger.New()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("could not create database pool")
	}
	defer pool.Close()

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		log.Fatal().Err(err).Msg("could not reach database")
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			message := "internal server error"

			var fiberErr *fiber.Error
			if errors.As(err, &fiberErr) {
				code = fiberErr.Code
				message = fiberErr.Message
			}

			return c.Status(code).JSON(fiber.Map{"error": message})
		},
	})

	app.Use(router.CorsMiddleware())
	app.Use(requestLogger(log))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true})
	})
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true})
	})

	tokens := &auth.Tokens{Secret: []byte(cfg.JWTSecret)}
	authHandler := &auth.Handler{DB: pool, Tokens: tokens}

	tracker := budgets.NewTracker(pool)
	booker := ledger.NewBooker(pool, tracker, log)
	importer := ledger.NewImporter(pool)

	accountsRepo := accounts.NewRepository(pool)
	accountsHandler := accounts.NewHandler(accountsRepo)

	txnRepo := transactions.NewRepo(pool)
	txnHandler := transactions.NewHandler(txnRepo, accountsRepo, booker, importer, pool)

	budgetsRepo := budgets.NewRepository(pool)
	budgetsHandler := budgets.NewHandler(budgetsRepo)

	billsRepo := bills.NewRepository(pool)
	billsService := bills.NewService(billsRepo, booker)
	billsHandler := bills.NewHandler(billsService, pool)

	rewardsRepo := rewards.NewRepository(pool, booker, log)
	rewardsHandler := rewards.NewHandler(rewardsRepo)

	notifRepo := notifications.NewRepository(pool)
	notifHandler := notifications.NewHandler(notifRepo)
	sweeper := notifications.NewSweeper(notifRepo, billsRepo, log)
	sweeper.Start(ctx, cfg.ReminderInterval)

	usersRepo := users.NewRepository(pool)
	usersHandler := users.NewHandler(usersRepo)

	reportsHandler := reports.NewHandler(pool, accountsRepo)

	r := &router.Router{
		AuthHandler:          authHandler,
		AccountsHandler:      accountsHandler,
		TransactionsHandler:  txnHandler,
		BudgetsHandler:       budgetsHandler,
		BillsHandler:         billsHandler,
		RewardsHandler:       rewardsHandler,
		NotificationsHandler: notifHandler,
		UsersHandler:         usersHandler,
		ReportsHandler:       reportsHandler,
		AuthMW:               auth.Middleware(tokens),
		AdminMW:              auth.RequireAdmin(),
		BookingMW:            router.RateLimitBooking(cfg.RateLimitTxMax, cfg.RateLimitTxWindow),
	}
	r.RegisterRoutes(app)

	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("listening")
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func requestLogger(log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		log.Info().
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", c.Response().StatusCode()).
			Dur("duration", time.Since(start)).
			Msg("request")
		return err
	}
}
