// Package cmd defines the CLI commands for the harvester executable.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pageharvest/harvester/internal/config"
	"github.com/pageharvest/harvester/internal/crawler"
	"github.com/pageharvest/harvester/internal/logging"
	"github.com/pageharvest/harvester/internal/report"
	"github.com/pageharvest/harvester/internal/storage/memory"
	"github.com/pageharvest/harvester/internal/storage/postgres"
)

var cfgFile string

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "harvester",
		Short: "A concurrent rendering web crawler",
		Long: `harvester crawls a site starting from one seed URL, rendering each
page in a headless browser, scoring outbound links for selective deep
traversal, and persisting every visited page for reporting.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path")

	cmd.AddCommand(newCrawlCmd())
	cmd.AddCommand(newServeCmd())
	return cmd
}

// Execute is the main entry point.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "harvester: %v\n", err)
		os.Exit(1)
	}
}

// runtime bundles the services every subcommand needs.
type runtime struct {
	cfg    config.Config
	logger *zap.Logger
	engine *crawler.Engine
	stores func()
}

// buildRuntime loads config, the logger, storage, and the crawl engine.
func buildRuntime(ctx context.Context, headful bool) (*runtime, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	zap.ReplaceGlobals(logger)

	store, closeStore, err := buildStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	renderer, err := crawler.NewChromedpRenderer(crawler.RendererConfig{
		UserAgent:  cfg.Crawler.UserAgent,
		Headful:    headful || cfg.Crawler.Headful,
		NavTimeout: cfg.NavTimeout(),
		DomainQPS:  cfg.Crawler.DomainQPS,
	}, logger)
	if err != nil {
		closeStore()
		return nil, fmt.Errorf("init renderer: %w", err)
	}

	engine := crawler.NewEngine(
		crawler.Config{
			Workers:       cfg.Crawler.Workers,
			NavTimeout:    cfg.NavTimeout(),
			LinkLimit:     cfg.Crawler.LinkLimit,
			ResultsBuffer: cfg.Crawler.ResultsBuffer,
			MaxDepth:      cfg.Crawler.MaxDepth,
		},
		renderer,
		store,
		nil,
		report.NewWriter(logger),
		logger,
	)

	return &runtime{cfg: cfg, logger: logger, engine: engine, stores: closeStore}, nil
}

func (rt *runtime) close() {
	if err := rt.engine.Close(); err != nil {
		rt.logger.Warn("close engine failed", zap.Error(err))
	}
	rt.stores()
	_ = rt.logger.Sync() //nolint:errcheck // best-effort flush
}

func buildStore(ctx context.Context, cfg config.Config, logger *zap.Logger) (crawler.ResultStore, func(), error) {
	if cfg.DB.DSN == "" {
		logger.Info("no database configured; using in-memory store")
		return memory.NewPageStore(), func() {}, nil
	}
	store, err := postgres.NewPageStore(ctx, cfg.DB.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("connect database: %w", err)
	}
	if err := store.EnsureSchema(ctx); err != nil {
		store.Close()
		return nil, nil, err
	}
	return store, store.Close, nil
}
