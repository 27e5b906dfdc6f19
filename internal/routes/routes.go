package routes

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"

	"github.com/bundler-sim/bundler_sim/internal/bundle"
	"github.com/bundler-sim/bundler_sim/internal/chain"
	"github.com/bundler-sim/bundler_sim/internal/config"
	"github.com/bundler-sim/bundler_sim/internal/funding"
	"github.com/bundler-sim/bundler_sim/internal/history"
	"github.com/bundler-sim/bundler_sim/internal/ledger"
	"github.com/bundler-sim/bundler_sim/internal/metrics"
	"github.com/bundler-sim/bundler_sim/internal/middleware"
	"github.com/bundler-sim/bundler_sim/internal/notification"
	"github.com/bundler-sim/bundler_sim/internal/simulator"
	"github.com/bundler-sim/bundler_sim/internal/stats"
	"github.com/bundler-sim/bundler_sim/internal/token"
	"github.com/bundler-sim/bundler_sim/internal/users"
	"github.com/bundler-sim/bundler_sim/internal/wallet"
)

const metricsNamespace = "bundler_sim"

// Deps aggregates shared dependencies required to wire routes. Cache is
// optional; without it idempotency and login rate limiting are disabled.
type Deps struct {
	Cfg    config.Config
	Cache  *redis.Client
	Logger *slog.Logger
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	variant := chain.Variant(d.Cfg.ChainVariant)
	generator, err := chain.NewGenerator(variant)
	if err != nil {
		return err
	}

	ledgerBackend := ledger.NewInMemory()
	operations := history.NewLog()
	promMetrics := metrics.New(metricsNamespace)

	deps := simulator.Deps{
		Ledger:    ledgerBackend,
		History:   operations,
		Generator: generator,
		Notifier:  notification.NewLoggerNotifier(d.Logger),
		Metrics:   promMetrics,
		Logger:    d.Logger,
	}
	if !d.Cfg.SimulateDelays {
		deps.Pacer = simulator.NoPacer{}
	}
	engine, err := simulator.New(d.Cfg.Simulation, deps)
	if err != nil {
		return fmt.Errorf("build engine: %w", err)
	}

	walletSvc, err := wallet.NewService(wallet.NewMemoryRepository(), ledgerBackend, generator, nil, wallet.Policy(d.Cfg.BalancePolicy))
	if err != nil {
		return fmt.Errorf("build wallet service: %w", err)
	}

	tokens := token.NewRegistry()
	tokenSvc := token.NewService(engine, tokens)

	userSvc := users.NewService(users.NewMemoryRepository())
	if err := userSvc.SeedUsers(context.Background(), seeds(d.Cfg.Users)); err != nil {
		return fmt.Errorf("seed users: %w", err)
	}

	// Middlewares
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} -  ${latency} ${method} ${path}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: d.Cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Idempotency-Key, X-Request-ID, X-Admin-Session",
	}))
	app.Use(middleware.Audit(d.Logger))
	if d.Cache != nil {
		app.Use(middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger))
	}

	RegisterHealthRoutes(app, d, variant)
	app.Get("/metrics", MetricsHandler(promMetrics))

	api := app.Group("/api")
	api.Get("/statistics", stats.NewHandler(stats.NewService(operations, tokens)).Get)
	fundingHandler := funding.NewHandler(engine, d.Logger)
	RegisterWalletRoutes(api, wallet.NewHandler(walletSvc, d.Logger), fundingHandler)
	RegisterTreasuryRoutes(api, fundingHandler)
	RegisterBundleRoutes(api, bundle.NewHandler(engine, d.Logger))
	RegisterTokenRoutes(api, token.NewHandler(tokenSvc, d.Logger))
	RegisterOperationRoutes(api, history.NewHandler(operations))
	RegisterUserRoutes(api, users.NewHandler(userSvc, d.Logger), userSvc,
		middleware.LoginRateLimit(d.Cache, d.Cfg.LoginRateLimit, d.Logger))

	RegisterFrontend(app, d.Cfg.FrontendPath)
	return nil
}

func seeds(in []config.SeedUser) []users.Seed {
	out := make([]users.Seed, 0, len(in))
	for _, u := range in {
		out = append(out, users.Seed{Username: u.Username, PIN: u.PIN, Role: u.Role})
	}
	return out
}
