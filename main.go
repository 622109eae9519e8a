package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"zackiepharma/m/internal/api"
	"zackiepharma/m/internal/config"
	"zackiepharma/m/internal/database"
	"zackiepharma/m/internal/jobs"
	"zackiepharma/m/internal/logging"
	"zackiepharma/m/internal/migrations"
	"zackiepharma/m/internal/seed"
	"zackiepharma/m/internal/store"
)

func main() {
	cfg := config.Load()
	logger := logging.Init(cfg.LogMode, cfg.LogLevel, cfg.LogFile)
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(cfg.DatabaseDSN)
	if err != nil {
		zap.L().Fatal("database", zap.Error(err))
	}
	defer db.Close()

	if err := migrations.Run(ctx, db); err != nil {
		zap.L().Fatal("migrations", zap.Error(err))
	}

	if cfg.SeedProductsCSV != "" {
		n, err := seed.LoadProducts(ctx, db, cfg.SeedProductsCSV)
		if err != nil {
			zap.L().Error("seed products", zap.String("file", cfg.SeedProductsCSV), zap.Error(err))
		} else {
			zap.L().Info("seeded products", zap.Int("count", n))
		}
	}

	s := store.New(db)
	created, err := seed.EnsureAdmin(ctx, s, cfg.AdminUsername, cfg.AdminPassword)
	if err != nil {
		zap.L().Fatal("bootstrap admin", zap.Error(err))
	}
	if created {
		zap.L().Info("created bootstrap admin", zap.String("username", cfg.AdminUsername))
	}

	scheduler, err := jobs.Schedule(jobs.NewLowStockNotifier(s, cfg.LowStockThreshold), cfg.LowStockCron)
	if err != nil {
		zap.L().Fatal("low stock job", zap.String("spec", cfg.LowStockCron), zap.Error(err))
	}
	scheduler.Start()
	defer scheduler.Stop()

	handler := api.New(s, api.Options{
		Secret:      cfg.Secret,
		SessionKey:  cfg.SessionKey,
		CORSOrigins: cfg.CORSOrigins,
	})
	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           handler.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zap.L().Info("Zackie Pharma POS server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.L().Fatal("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zap.L().Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zap.L().Error("graceful shutdown", zap.Error(err))
	}
}
