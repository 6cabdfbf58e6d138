package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"user-grid/backend/global"
	"user-grid/backend/initialize"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to the yaml config file")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := initialize.Build(ctx, *configPath)
	if err != nil {
		global.Logger.Fatal().Err(err).Msg("init failed")
	}
	defer app.Close()

	srv := &http.Server{
		Addr:              app.Cfg.HTTP.Addr(),
		Handler:           app.Router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		global.Logger.Info().Str("addr", srv.Addr).Str("db", app.Cfg.DB.Driver).Bool("cache", app.Redis != nil).Msg("users API listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			global.Logger.Error().Err(err).Msg("http server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		global.Logger.Error().Err(err).Msg("shutdown")
	}
	global.Logger.Info().Msg("server stopped")
}
