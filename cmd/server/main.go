package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopbill/billing-app/internal/config"
	"github.com/shopbill/billing-app/internal/db"
	"github.com/shopbill/billing-app/internal/logger"
	"github.com/shopbill/billing-app/internal/pdf"
	"github.com/shopbill/billing-app/internal/server"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

var migrateOnlyFlag = flag.Bool("migrate-only", false, "Run DB migrations and exit")

func main() {
	flag.Parse()
	_ = godotenv.Load()
	cfg := config.Load()
	logger.Setup(cfg.LogLevel, cfg.LogFormat)

	if migrateOnlyFlag != nil && *migrateOnlyFlag {
		if _, err := db.ConnectAndMigrate(); err != nil {
			log.Fatal().Err(err).Msg("migrate-only failed")
		}
		log.Info().Msg("migrations completed; exiting as requested")
		return
	}

	dbConn, err := db.ConnectAndMigrate()
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}

	if err := os.MkdirAll(cfg.MediaDir, 0o755); err != nil {
		log.Fatal().Err(err).Str("dir", cfg.MediaDir).Msg("media dir setup failed")
	}
	renderer := pdf.NewRenderer(cfg.MediaDir)

	handler := server.New(dbConn, renderer, cfg.MediaDir)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("env", cfg.Env).Str("addr", srv.Addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutdown signal received")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("error during shutdown")
	}
	log.Info().Msg("server gracefully stopped")
}
