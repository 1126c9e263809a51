// Package bootstrap assembles the application from configuration.
package bootstrap

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"c2_console/internal/c2"
	"c2_console/internal/core"
	"c2_console/internal/mock"
	"c2_console/internal/orders"
	"c2_console/internal/quote"
	"c2_console/internal/session"
	sigbuild "c2_console/internal/signal"
	"c2_console/internal/valuation"
	"c2_console/pkg/concurrency"
	"c2_console/pkg/telemetry"

	"golang.org/x/sync/errgroup"
)

// App holds the wired components for one process. Everything hangs off the
// session; the rest is kept for shutdown and for commands that talk to the
// platform directly (discover).
type App struct {
	Cfg     *Config
	Logger  core.ILogger
	Session *session.Session
	Gateway *c2.Gateway

	pool          *concurrency.WorkerPool
	telemetry     *telemetry.Telemetry
	metricsServer *telemetry.MetricsServer
}

// NewApp loads configuration and wires the full component graph: gateway,
// price oracle, valuation pool, order manager, signal builder and session.
func NewApp(configPath string) (*App, error) {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	logger, err := InitLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}

	app := &App{Cfg: cfg, Logger: logger}

	tel, err := telemetry.Setup("c2_console")
	if err != nil {
		return nil, fmt.Errorf("telemetry: %w", err)
	}
	app.telemetry = tel

	if cfg.Telemetry.EnableMetrics {
		app.metricsServer = telemetry.NewMetricsServer(cfg.Telemetry.MetricsPort, logger)
		app.metricsServer.Start()
	}

	gateway := c2.NewGateway(
		cfg.Collective2.BaseURL,
		cfg.Collective2.APIKey.Reveal(),
		cfg.Collective2.StrategyID,
		cfg.APITimeout(),
		logger,
	)
	app.Gateway = gateway

	var source core.PriceSource
	switch cfg.Quotes.Provider {
	case "mock":
		source = mock.NewMockPriceSource(nil)
	default:
		source = quote.NewYahooSource(logger)
	}

	oracle := quote.NewOracle(source, quote.OracleOptions{
		StaleTTL:       cfg.StaleTTL(),
		FallbackChains: cfg.Quotes.FallbackChains,
		FetchTimeout:   cfg.QuoteTimeout(),
	}, logger)

	app.pool = concurrency.NewWorkerPool(concurrency.PoolConfig{
		Name:        "valuation",
		MaxWorkers:  cfg.Valuation.PoolSize,
		MaxCapacity: cfg.Valuation.PoolBuffer,
	}, logger)

	valuator := valuation.NewValuator(oracle, app.pool, logger)

	manager := orders.NewManager(gateway, gateway, cfg.Collective2.StrategyID, orders.Options{
		SubmitRatePerMin:    cfg.Orders.SubmitRatePerMin,
		AssumeAtomicReplace: cfg.Orders.AssumeAtomicReplace,
	}, logger)

	builder := sigbuild.NewBuilder(manager, logger)

	app.Session = session.New(
		gateway,
		valuator,
		builder,
		manager,
		cfg.Collective2.StrategyID,
		cfg.Monitor.SecurityType,
		logger,
	)

	return app, nil
}

// RequireStrategy fails when no strategy ID is configured. Commands that
// operate on a strategy call this before touching the platform.
func (a *App) RequireStrategy() error {
	if a.Cfg.Collective2.StrategyID <= 0 {
		return fmt.Errorf("collective2.strategy_id is not set; run 'discover' to list the strategies your API key manages")
	}
	return nil
}

// Runner is a component that runs until its context is cancelled.
type Runner interface {
	Run(ctx context.Context) error
}

// Run drives the given runners until they finish or a termination signal
// arrives. The first runner error cancels the rest.
func (a *App) Run(runners ...Runner) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	for _, runner := range runners {
		r := runner
		g.Go(func() error {
			return r.Run(ctx)
		})
	}

	if err := g.Wait(); err != nil && err != context.Canceled {
		a.Logger.Error("Application stopped with error", "error", err)
		return err
	}
	return nil
}

// Shutdown releases the worker pool, metrics listener and meter provider.
func (a *App) Shutdown() {
	if a.pool != nil {
		a.pool.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if a.metricsServer != nil {
		if err := a.metricsServer.Stop(ctx); err != nil {
			a.Logger.Warn("Metrics server shutdown failed", "error", err)
		}
	}
	if a.telemetry != nil {
		if err := a.telemetry.Shutdown(ctx); err != nil {
			a.Logger.Warn("Telemetry shutdown failed", "error", err)
		}
	}
}
