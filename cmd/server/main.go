package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"calabash/config"
	"calabash/internal/database"
	"calabash/internal/router"
	"calabash/internal/store"

	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	var logger *zap.Logger
	var err error
	if cfg.Server.Env == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	// A missing database is survivable: the gateway degrades to memory-only
	// storage and keeps taking orders.
	var durable store.Durable
	db, err := database.NewDB(&cfg.Database)
	if err != nil {
		logger.Warn("database unavailable, starting with in-memory storage only", zap.Error(err))
	} else if err := database.AutoMigrate(db); err != nil {
		logger.Warn("migration failed, starting with in-memory storage only", zap.Error(err))
	} else {
		durable = store.NewDurable(db)
		logger.Info("database connected")
	}
	gateway := store.NewGateway(durable, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go gateway.Run(ctx)

	engine := router.Setup(cfg, gateway, logger)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}
