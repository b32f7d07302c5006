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

	"github.com/rs/zerolog/log"

	"github.com/samalone/trmnl-tides/pkg/cache"
	"github.com/samalone/trmnl-tides/pkg/config"
	"github.com/samalone/trmnl-tides/pkg/handlers"
	"github.com/samalone/trmnl-tides/pkg/noaa"
	"github.com/samalone/trmnl-tides/pkg/tides"
)

func main() {
	env, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	flag.StringVar(&env.Host, "host", env.Host, "address to listen on")
	flag.StringVar(&env.Port, "port", env.Port, "port to listen on")
	flag.Parse()

	env.InitializeLogging()

	svc := tides.NewService(
		noaa.NewClient(env.NOAAOptions()),
		cache.NewZones(env.ZoneCacheSize, env.ZoneCacheTTL),
	)
	env.ApplyDefaults(svc)

	srv := &http.Server{
		Handler:      handlers.NewRouter(env.Prefix, svc),
		Addr:         env.Addr(),
		WriteTimeout: env.WriteTimeout(),
		ReadTimeout:  15 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("prefix", env.Prefix).Msg("Listening and serving")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server stopped")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error during shutdown")
	}
}
