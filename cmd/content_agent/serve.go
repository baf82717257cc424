package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jonathan/brand-content-engine/internal/analysis"
	"github.com/jonathan/brand-content-engine/internal/config"
	"github.com/jonathan/brand-content-engine/internal/db"
	"github.com/jonathan/brand-content-engine/internal/fetch"
	"github.com/jonathan/brand-content-engine/internal/generation"
	"github.com/jonathan/brand-content-engine/internal/logger"
	"github.com/jonathan/brand-content-engine/internal/server"
	"github.com/jonathan/brand-content-engine/internal/server/ratelimit"
	"github.com/jonathan/brand-content-engine/internal/templates"
	"github.com/jonathan/brand-content-engine/internal/visual"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start an HTTP server exposing brand voice, prompt template, content generation
and website analysis endpoints. Without DATABASE_URL tenants are kept in memory;
without REDIS_ADDR analysis jobs and fetched pages are kept in memory; without
GEMINI_API_KEY every generation endpoint runs in mock mode.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("port") {
		cfg.Port = servePort
	}
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := newLLMClient(ctx, cfg, log)
	if err != nil {
		return err
	}
	if client != nil {
		defer client.Close()
	}

	var checks []func(context.Context) error

	var tenants server.TenantStore
	if cfg.DatabaseURL != "" {
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer database.Close()
		tenants = database
		checks = append(checks, database.Ping)
	} else {
		log.Warn("DATABASE_URL not set, tenants are stored in memory")
		tenants = templates.NewMemoryStore()
	}

	jobs, pages, err := analysisStores(ctx, cfg, log, &checks)
	if err != nil {
		return err
	}

	var browser analysis.Browser
	if cfg.Analysis.UseBrowser {
		browser = fetch.NewBrowser(log)
	}
	fetcher := fetch.NewCachedFetcher(pages, &fetch.CachedFetcherConfig{CacheTTL: cfg.Analysis.PageCacheTTL}, log)
	site := analysis.NewSiteAnalyzer(fetcher, browser, visual.NewAnalyzer(client, log), cfg.ExcerptLength, log)
	tracker := analysis.NewTracker(jobs, site, log, analysis.WithEvictDelay(cfg.Analysis.EvictDelay))
	go tracker.RunSweeper(ctx, cfg.Analysis.SweepInterval)

	manager := templates.NewManager(tenants, client, log, templates.WithExcerptLength(cfg.ExcerptLength))
	srv := server.New(server.Config{Port: cfg.Port, AnalysisTimeout: cfg.Analysis.WallClock}, server.Deps{
		Tenants:   tenants,
		Templates: manager,
		Pipeline:  generation.New(client, manager, log, generation.WithExcerptLength(cfg.ExcerptLength)),
		Tracker:   tracker,
		Limiter:   ratelimit.NewLimiter(ratelimit.FromConfig(cfg.RateLimit)),
		Ready: func(ctx context.Context) error {
			for _, check := range checks {
				if err := check(ctx); err != nil {
					return err
				}
			}
			return nil
		},
	}, log)

	if err := srv.Start(ctx); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	tracker.Wait()
	return nil
}

// analysisStores picks Redis-backed job and page stores when configured so
// several server replicas share analysis state.
func analysisStores(ctx context.Context, cfg *config.Config, log *logger.Logger, checks *[]func(context.Context) error) (analysis.Store, fetch.PageCache, error) {
	if cfg.RedisAddr == "" {
		log.Warn("REDIS_ADDR not set, analysis jobs are stored in memory")
		return analysis.NewMemoryStore(), fetch.NewMemoryPageCache(), nil
	}
	rdb, err := db.ConnectRedis(ctx, cfg.RedisAddr)
	if err != nil {
		return nil, nil, err
	}
	*checks = append(*checks, func(ctx context.Context) error { return rdb.Ping(ctx).Err() })
	return analysis.NewRedisStore(rdb, ""), fetch.NewRedisPageCache(rdb, ""), nil
}
