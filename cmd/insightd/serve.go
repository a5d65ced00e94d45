package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/saurabhrpi/startup-ecosystem-intelligence/internal/config"
	dbRedis "github.com/saurabhrpi/startup-ecosystem-intelligence/internal/db/redis"
	logpkg "github.com/saurabhrpi/startup-ecosystem-intelligence/internal/logger"
	"github.com/saurabhrpi/startup-ecosystem-intelligence/internal/metrics"
	"github.com/saurabhrpi/startup-ecosystem-intelligence/internal/repository/respcache"
	chiTransport "github.com/saurabhrpi/startup-ecosystem-intelligence/internal/transport/chi"
	openaiNarrator "github.com/saurabhrpi/startup-ecosystem-intelligence/internal/transport/openai"
	"github.com/saurabhrpi/startup-ecosystem-intelligence/internal/transport/upstream"
	healthuc "github.com/saurabhrpi/startup-ecosystem-intelligence/internal/usecase/health"
	searchuc "github.com/saurabhrpi/startup-ecosystem-intelligence/internal/usecase/search"
	"github.com/saurabhrpi/startup-ecosystem-intelligence/internal/version"
)

func newServeCmd() *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), port)
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 0, "override http.port")
	return cmd
}

func runServe(parent context.Context, portOverride int) error {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if portOverride > 0 {
		cfg.HTTP.Port = portOverride
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting insight API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("upstream", cfg.Upstream.BaseURL),
		zap.Bool("cache", cfg.Cache.Enabled),
		zap.Bool("narrator", cfg.NarratorEnabled()),
	)

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Register pipeline metrics explicitly (no init())
	metrics.RegisterPipelineMetrics()

	client, err := upstream.New(&upstream.Config{
		BaseURL: cfg.Upstream.BaseURL,
		APIKey:  cfg.Upstream.APIKey,
		Timeout: cfg.Upstream.Timeout(),
		Logger:  logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create upstream client: %w", err)
	}

	components := []healthuc.Component{{Name: "upstream", Pinger: client, Required: true}}

	var searcher searchuc.Upstream = client
	if cfg.Cache.Enabled {
		store, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:     cfg.Cache.Addrs,
			Username:  cfg.Cache.Username,
			Password:  cfg.Cache.Password,
			DB:        cfg.Cache.DB,
			KeyPrefix: cfg.Cache.KeyPrefix,
		})
		if err != nil {
			return fmt.Errorf("failed to create cache store: %w", err)
		}
		defer store.Close()

		readyTimeout := time.Duration(cfg.Cache.ReadinessTimeout) * time.Second
		if err := store.WaitForReady(ctx, readyTimeout); err != nil {
			// The cache is optional; searches fall through to the ranking service.
			logger.Warn("Cache not ready", zap.Error(err))
		} else {
			logger.Info("Connected to cache", zap.Strings("addrs", cfg.Cache.Addrs))
		}

		searcher = respcache.New(client, store, cfg.Cache.TTL(), cfg.Upstream.Timeout(), metrics.ResponseCacheTotal, logger)
		components = append(components, healthuc.Component{Name: "cache", Pinger: store})
	}

	// Pass nil interface (not typed nil pointer!) if the narrator is not configured.
	var narrator searchuc.Narrator
	if cfg.NarratorEnabled() {
		narrator = openaiNarrator.NewNarrator(&openaiNarrator.Config{
			APIKey:      cfg.Narrator.APIKey,
			BaseURL:     cfg.Narrator.BaseURL,
			Model:       cfg.Narrator.Model,
			Temperature: cfg.Narrator.Temperature,
			MaxTokens:   cfg.Narrator.MaxTokens,
			Logger:      logger,
		})
		logger.Info("Narrator enabled", zap.String("model", cfg.Narrator.Model))
	}

	searchSvc := searchuc.New(searcher, narrator)
	healthSvc := healthuc.New(components...)

	server := chiTransport.NewServer(searchSvc, healthSvc, logger)
	limiter := chiTransport.NewLimiter(cfg.RateLimit.RPM, cfg.RateLimit.Burst)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      chiTransport.NewRouter(server, limiter, logger),
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("HTTP server error: %w", err)
		}
	case <-ctx.Done():
		logger.Info("Received shutdown signal")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
	return nil
}
