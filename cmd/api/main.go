package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"dtiestoque.org/internal/auth"
	"dtiestoque.org/internal/config"
	"dtiestoque.org/internal/httpapi"
	"dtiestoque.org/internal/inventory"
	"dtiestoque.org/internal/migrate"
	"dtiestoque.org/internal/obs"
	"dtiestoque.org/internal/store/pg"
)

var (
	version = "1.0.0"
	commit  = ""
)

func main() {
	logger := obs.Logger()
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}
	if err := obs.SetLevel(cfg.LogLevel); err != nil {
		logger.Fatal("invalid log level", zap.String("level", cfg.LogLevel), zap.Error(err))
	}
	obs.InitBuildInfo(version, commit)

	var (
		users     auth.UserStore
		equipment inventory.Store
		db        *sql.DB
	)
	if cfg.InMemory() {
		logger.Warn("ESTOQUE_PG_DSN not set; using in-memory storage")
		users = auth.NewMemoryUserStore()
		equipment = inventory.NewInMemory()
	} else {
		store, err := pg.Open(cfg.PGDSN, cfg.DBConnLimit)
		if err != nil {
			logger.Fatal("open database", zap.Error(err))
		}
		db = store.DB()
		if cfg.AutoMigrate {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			err := migrate.NewManager(db, migrate.WithLogger(logger)).Up(ctx)
			cancel()
			if err != nil {
				logger.Fatal("apply migrations", zap.Error(err))
			}
		}
		users, equipment = store, store
	}

	issuer, err := auth.NewIssuer(cfg.AuthSecret, auth.WithTTL(cfg.TokenTTL), auth.WithIssuerName(cfg.AuthIssuer))
	if err != nil {
		logger.Fatal("token issuer", zap.Error(err))
	}
	authSvc, err := auth.NewService(users, issuer)
	if err != nil {
		logger.Fatal("auth service", zap.Error(err))
	}

	api := httpapi.New(httpapi.ReadyProbe{DB: db}, version, authSvc, equipment, equipment,
		httpapi.WithRateLimit(cfg.RateBurst, cfg.RatePerSec),
		httpapi.WithMaxBodyBytes(cfg.MaxBodyBytes),
		httpapi.WithCORSOrigins(cfg.CORSOrigins...),
	)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.Handler(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	logger.Info("starting dti-estoque api",
		zap.String("version", version),
		zap.String("addr", srv.Addr),
		zap.Bool("in_memory", cfg.InMemory()),
	)

	// graceful shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
	if db != nil {
		_ = db.Close()
	}
	logger.Info("stopped")
}
