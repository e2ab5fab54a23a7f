package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"knightd/internal/config"
	"knightd/internal/core/auth"
	"knightd/internal/core/status"
	"knightd/internal/logger"
	"knightd/internal/storage/sqlite"
	"knightd/internal/transport/rest"
	"knightd/internal/transport/websocket"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	log := logger.New(cfg)

	if cfg.JWTSecret == "" {
		log.Error("JWT_SECRET is missing in .env or system vars")
		return
	}

	db, err := sqlite.NewDB(cfg.DBPath, log)
	if err != nil {
		log.Error("sqlite connect failed", "error", err)
		return
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("sqlite close failed", "error", err)
		}
	}()

	hub := websocket.NewHub(log)
	go hub.Run()

	userRepo := sqlite.NewUserRepository(db)
	authService := auth.NewService(userRepo, cfg)
	statusService := status.NewService(cfg, hub, log)

	router := rest.NewRouter(cfg, &rest.RouterDeps{
		WS:     websocket.NewHandler(hub, cfg, log),
		Status: rest.NewStatusHandler(statusService),
		Auth:   rest.NewAuthHandler(authService, cfg),
	})

	srv := rest.NewServer(router, cfg.Address)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("starting http server", "address", cfg.Address)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("server error", "error", err)
	}

	log.Info("server stopped")
}
