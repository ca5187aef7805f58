package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/efreitasn/tradeledger/internal/config"
	"github.com/efreitasn/tradeledger/internal/handler"
	"github.com/efreitasn/tradeledger/internal/logging"
	"github.com/efreitasn/tradeledger/internal/query"
	"github.com/efreitasn/tradeledger/internal/service"
	"github.com/efreitasn/tradeledger/internal/store"
	"github.com/sirupsen/logrus"
)

func main() {
	healthcheck := flag.Bool("healthcheck", false, "Run health check against running server")
	flag.Parse()

	// Handle -healthcheck flag: HTTP GET to localhost:PORT/healthz, exit 0/1.
	if *healthcheck {
		port := os.Getenv("PORT")
		if port == "" {
			port = "8080"
		}
		resp, err := http.Get(fmt.Sprintf("http://localhost:%s/healthz", port))
		if err != nil || resp.StatusCode != http.StatusOK {
			os.Exit(1)
		}
		os.Exit(0)
	}

	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load config")
	}

	logger, logCloser, err := logging.New(logging.Options{
		Level:      cfg.LogLevel,
		Format:     cfg.LogFormat,
		File:       cfg.LogFile,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		MaxAgeDays: cfg.LogMaxAgeDays,
	})
	if err != nil {
		logrus.WithError(err).Fatal("failed to set up logging")
	}
	defer logCloser.Close()

	// Storage.
	st, err := openStore(cfg, logger)
	if err != nil {
		logger.WithError(err).WithField("driver", cfg.StorageDriver).Fatal("failed to open store")
	}
	defer st.Close()

	// Services.
	composer, err := query.NewComposer(query.Defaults{
		Offset:  0,
		Limit:   cfg.DefaultPageLimit,
		SortKey: cfg.DefaultSortKey,
	})
	if err != nil {
		logger.WithError(err).Fatal("invalid listing defaults")
	}
	tradeSvc := service.NewTradeService(st, composer, logger)
	seedSvc := service.NewSeedService(st, logger, nil)

	if cfg.SeedOnStart > 0 {
		n, err := seedSvc.Generate(context.Background(), cfg.SeedOnStart)
		if err != nil {
			logger.WithError(err).WithField("generated", n).Fatal("startup seed failed")
		}
	}

	// Router.
	router := handler.NewRouter(tradeSvc, seedSvc, handler.RouterConfig{
		CORSOrigin:    cfg.CORSOrigin,
		SeedBatchSize: cfg.SeedBatchSize,
	}, logger)

	// Configure HTTP server.
	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	// Start HTTP server in a goroutine.
	go func() {
		logger.WithFields(logrus.Fields{
			"addr":   addr,
			"driver": cfg.StorageDriver,
		}).Info("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("server error")
		}
	}()

	// Wait for SIGINT/SIGTERM.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.WithField("signal", sig.String()).Info("shutdown signal received")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("server shutdown error")
	}

	logger.Info("server stopped")
}

func openStore(cfg *config.Config, log *logrus.Logger) (store.Store, error) {
	if cfg.StorageDriver == config.DriverMemory {
		return store.NewMemoryStore(), nil
	}
	return store.OpenSQL(cfg.StorageDriver, cfg.DatabaseDSN, log)
}
