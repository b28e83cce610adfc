package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mckaywrigley/takeoff-notes-app-complete/internal/backup"
	"github.com/mckaywrigley/takeoff-notes-app-complete/internal/billing"
	"github.com/mckaywrigley/takeoff-notes-app-complete/internal/database"
	"github.com/mckaywrigley/takeoff-notes-app-complete/internal/logging"
	"github.com/mckaywrigley/takeoff-notes-app-complete/internal/server"
)

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	logger := logging.Setup(env("TAKEOFF_LOG_LEVEL", "info"))

	port := env("TAKEOFF_PORT", "8080")
	dbPath := env("TAKEOFF_DB_PATH", "takeoff.db")
	baseURL := env("TAKEOFF_BASE_URL", "http://localhost:"+port)

	db, err := database.Open(dbPath)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	billingCfg := billing.Config{
		SecretKey:     os.Getenv("STRIPE_SECRET_KEY"),
		WebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),
		ProPriceID:    os.Getenv("STRIPE_PRO_PRICE_ID"),
		SuccessURL:    baseURL + "/notes",
		CancelURL:     baseURL + "/pricing",
	}

	backupInterval := 24 * time.Hour
	if v := os.Getenv("TAKEOFF_BACKUP_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			backupInterval = d
		} else {
			logger.Warn("invalid backup interval, using default", "value", v)
		}
	}
	backupCfg := backup.Config{
		Endpoint:   os.Getenv("TAKEOFF_S3_ENDPOINT"),
		Bucket:     os.Getenv("TAKEOFF_S3_BUCKET"),
		Region:     env("TAKEOFF_S3_REGION", "auto"),
		AccessKey:  os.Getenv("TAKEOFF_S3_ACCESS_KEY"),
		SecretKey:  os.Getenv("TAKEOFF_S3_SECRET_KEY"),
		Passphrase: os.Getenv("TAKEOFF_BACKUP_PASSPHRASE"),
		Interval:   backupInterval,
		DBPath:     dbPath,
	}

	srv := server.New(db, billingCfg, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	backupMgr := backup.NewManager(backupCfg, db, logger.With("component", "backup"))
	backupMgr.Start(ctx)
	defer backupMgr.Stop()

	// Periodic housekeeping for expired sessions and stale rate limit entries.
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n, err := srv.SessionStore().DeleteExpired(); err != nil {
					logger.Error("session cleanup failed", "error", err)
				} else if n > 0 {
					logger.Info("expired sessions removed", "count", n)
				}
				srv.RateLimiter().Cleanup()
			}
		}
	}()

	httpServer := &http.Server{
		Addr:         ":" + port,
		Handler:      srv.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		fmt.Printf("Takeoff running at http://localhost:%s\n", port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("\nShutting down...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
		os.Exit(1)
	}
}
