package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/invoice-manager/invoice-manager/internal/app"
	"github.com/invoice-manager/invoice-manager/internal/auth"
	"github.com/invoice-manager/invoice-manager/internal/billing"
	"github.com/invoice-manager/invoice-manager/internal/clients"
	"github.com/invoice-manager/invoice-manager/internal/dashboard"
	"github.com/invoice-manager/invoice-manager/internal/expenses"
	"github.com/invoice-manager/invoice-manager/internal/insights"
	insightshttp "github.com/invoice-manager/invoice-manager/internal/insights/http"
	"github.com/invoice-manager/invoice-manager/internal/invoices"
	"github.com/invoice-manager/invoice-manager/internal/observability"
	"github.com/invoice-manager/invoice-manager/internal/platform/cache"
	"github.com/invoice-manager/invoice-manager/internal/platform/db"
	"github.com/invoice-manager/invoice-manager/internal/seed"
	"github.com/invoice-manager/invoice-manager/internal/shared"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	if cfg.AutoMigrate {
		if err := db.Migrate(cfg.PGDSN); err != nil {
			logger.Error("migrate", slog.Any("error", err))
			os.Exit(1)
		}
	}

	dbpool, err := db.New(ctx, cfg.PGDSN, db.PoolOptions{})
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr, "", 0)
	if err != nil {
		logger.Warn("redis ping", slog.Any("error", err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sessionManager := shared.NewSessionManager(redisClient, "invoice_manager_session", cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)
	metrics := observability.NewMetrics()

	dashboardService := dashboard.NewService(
		dashboard.NewRepository(dbpool),
		dashboard.NewCache(redisClient, cfg.DashboardCacheTTL),
		logger,
	)
	if err := dashboardService.Listen(ctx); err != nil {
		logger.Warn("dashboard invalidation listener", slog.Any("error", err))
	}
	notifier := app.NewCountingNotifier(dashboardService, metrics)

	authService := auth.NewService(auth.NewRepository(dbpool))
	authHandler := auth.NewHandler(logger, authService, sessionManager, csrfManager)
	if cfg.SeedDemoData {
		authHandler.OnRegister(func(ctx context.Context, user *auth.User) {
			owner, err := shared.NewOwner(strconv.FormatInt(user.ID, 10))
			if err != nil {
				return
			}
			if _, err := seed.Run(ctx, dbpool, owner); err != nil {
				logger.Warn("seed demo data", slog.String("owner_id", owner.ID()), slog.Any("error", err))
			}
		})
	}

	plans, err := billing.LoadPlans()
	if err != nil {
		logger.Error("load pricing plans", slog.Any("error", err))
		os.Exit(1)
	}
	var checkout billing.CheckoutProvider
	if cfg.StripeSecretKey != "" {
		checkout = billing.NewStripeCheckout(cfg.StripeSecretKey, cfg.CheckoutSuccessURL, cfg.CheckoutCancelURL)
	}
	billingHandler := billing.NewHandler(logger, plans, checkout, cfg.StripePriceID)

	clientsService := clients.NewService(clients.NewRepository(dbpool), notifier, logger)
	invoicesService := invoices.NewService(invoices.NewRepository(dbpool), notifier, logger)
	expensesService := expenses.NewService(expenses.NewRepository(dbpool), notifier, logger)
	insightsService := insights.NewService(
		insights.NewRepository(dbpool),
		insights.NewGeminiGenerator(cfg.GoogleAPIKey),
		cfg.InsightsModel,
		logger,
	).WithObserver(metrics)

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		SessionManager:   sessionManager,
		CSRFManager:      csrfManager,
		Identity:         authHandler.Identity(),
		Entitlements:     billing.NewSubscriptions(dbpool),
		AuthHandler:      authHandler,
		BillingHandler:   billingHandler,
		DashboardHandler: dashboard.NewHandler(logger, dashboardService),
		ClientsHandler:   clients.NewHandler(logger, clientsService),
		InvoicesHandler:  invoices.NewHandler(logger, invoicesService),
		ExpensesHandler:  expenses.NewHandler(logger, expensesService),
		InsightsHandler:  insightshttp.NewHandler(logger, insightsService),
		Metrics:          metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
