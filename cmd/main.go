package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/linkin-purry/chat-service/config"
	"github.com/linkin-purry/chat-service/internal/postgres"
	"github.com/linkin-purry/chat-service/internal/security"
	"github.com/linkin-purry/chat-service/internal/service"
	httpx "github.com/linkin-purry/chat-service/internal/transport/http"
	"github.com/linkin-purry/chat-service/internal/transport/ws"
	"github.com/linkin-purry/chat-service/pkg/logger"
)

func main() {
	// --- config ---
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger.Init(logger.Config{
		Env:       logger.Env(cfg.Logging.Env),
		Service:   cfg.Logging.Service,
		Version:   cfg.Logging.Version,
		Backend:   logger.Backend(cfg.Logging.Backend),
		AddSource: cfg.Logging.AddSource,
		Debug:     cfg.Logging.Debug,
	})
	slog.Info("starting chat-service",
		"env", cfg.Logging.Env, "version", cfg.Logging.Version)

	// --- postgres ---
	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, postgres.Config{
		DSN:             cfg.Postgres.DSN,
		ApplicationName: cfg.Logging.Service,
	})
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	// --- repos ---
	chatRepo := postgres.NewChatRepository(pool)
	subRepo := postgres.NewSubscriptionRepository(pool)
	userRepo := postgres.NewUserRepository(pool)

	// --- services ---
	codec := security.NewJWTCodec(cfg.Auth.Secret, cfg.TokenTTLDuration())
	chatSvc := service.NewChatService(chatRepo, userRepo)
	subSvc := service.NewSubscriptionService(subRepo)
	pushSvc := service.NewPushService(subRepo, service.VAPID{
		PublicKey:  cfg.Push.VAPIDPublicKey,
		PrivateKey: cfg.Push.VAPIDPrivateKey,
		Subscriber: cfg.Push.Subscriber,
	})

	// --- WS hub & router ---
	hub := ws.NewHub()
	wsServer := ws.NewServer(hub, codec, chatSvc, pushSvc, cfg.Push.MessagesURL)

	// --- HTTP ---
	handler := httpx.NewHandler(chatSvc, subSvc, pushSvc, cfg.Push.VAPIDPublicKey, cfg.Push.MessagesURL)
	router := httpx.NewRouter(handler, codec, wsServer)
	httpSrv := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)

	go func() {
		slog.Info("http listen", "addr", cfg.HTTP.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// --- graceful shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		slog.Info("shutdown signal", "sig", sig)
	case err := <-errCh:
		slog.Error("server error", "err", err)
	}

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = httpSrv.Shutdown(ctxShutdown)
	slog.Info("stopped")
}
