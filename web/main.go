// Package main provides the web server for interactive photon transport runs.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/df07/go-twostream-rt/web/server"
)

func main() {
	port := flag.Int("port", 8080, "Port to serve on")
	staticDir := flag.String("static", "web/static", "Directory with the web UI, empty disables it")
	rateLimit := flag.Int("rate-limit", 120, "Max requests per minute per client IP, 0 disables limiting")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	level := zerolog.InfoLevel
	if *debug {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(os.Stdout).
		Level(level).
		With().
		Timestamp().
		Str("service", "twostream-web").
		Logger()

	srv := server.NewServer(server.Config{
		Port:            *port,
		StaticDir:       *staticDir,
		RateLimit:       *rateLimit,
		RateLimitWindow: time.Minute,
	}, log)

	httpServer := &http.Server{
		Addr:        fmt.Sprintf(":%d", *port),
		Handler:     srv.Router(),
		ReadTimeout: 15 * time.Second,
		// No write timeout: event streams stay open for the whole run
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		log.Info().
			Str("addr", httpServer.Addr).
			Str("url", fmt.Sprintf("http://localhost:%d", *port)).
			Msg("server listening")

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}
