package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prudhvinik1/tablesync/internal/config"
	"github.com/prudhvinik1/tablesync/internal/dispatch"
	"github.com/prudhvinik1/tablesync/internal/room"
	"github.com/prudhvinik1/tablesync/internal/server"
	"github.com/prudhvinik1/tablesync/internal/services"
	"github.com/prudhvinik1/tablesync/internal/transport/ws"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "failed to load .env: %v\n", err)
	}

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Warn().Str("level", cfg.LogLevel).Msg("unknown log level, using info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize room storage
	registry := room.Open(ctx, cfg)
	defer func() {
		if err := registry.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close room store")
		}
	}()

	auth := services.NewAuthService(cfg.RoomSecretHash, cfg.DMPasswordHash, cfg.JWTSecret, cfg.JWTExpiry)
	router := dispatch.NewRouter(registry, dispatch.NewConnections(), auth)
	hub := ws.NewHub(router, ws.Options{
		ReadLimit:         cfg.WSReadLimit,
		MessagesPerSecond: cfg.WSMessagesPerSecond,
		Burst:             cfg.WSBurst,
	})

	// Initialize HTTP Server
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.ServerPort),
		Handler:           server.New(auth, registry, router, hub).Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return hub.Run(gctx)
	})
	g.Go(func() error {
		log.Info().Str("port", cfg.ServerPort).Str("store", registry.Backend()).Msg("starting server")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// graceful shutdown
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("server error")
	}
	log.Info().Msg("server stopped gracefully")
}
