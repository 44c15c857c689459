package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/vivahdesk/leadbot/backend/internal/config"
	"github.com/vivahdesk/leadbot/backend/internal/handler"
	"github.com/vivahdesk/leadbot/backend/internal/service/conversation"
	"github.com/vivahdesk/leadbot/backend/internal/service/notify"
	"github.com/vivahdesk/leadbot/backend/internal/store"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	if err := godotenv.Load(); err != nil {
		logger.Info("no .env file, using system environment only")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	sessions := buildStore(ctx, cfg, logger)
	dispatcher := buildDispatcher(cfg.Notify, logger)
	defer dispatcher.Wait()

	conv := conversation.NewService(sessions, dispatcher, logger)
	router := handler.NewRouter(conv, logger, "web")

	startServer(ctx, cfg.Server, router, logger)
}

// buildStore selects the Redis-backed store when configured, otherwise the
// in-memory store with its idle reaper.
func buildStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) store.Store {
	if cfg.Redis.Enabled() {
		rs := store.NewRedisStore(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
			store.WithRedisTTL(cfg.Session.TTL))

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := rs.Ping(pingCtx); err != nil {
			logger.Fatal("failed to connect to redis", zap.Error(err))
		}
		logger.Info("using redis session store", zap.String("addr", cfg.Redis.Addr))
		return rs
	}

	ms := store.NewMemoryStore(
		store.WithIdleTTL(cfg.Session.TTL),
		store.WithMemoryLogger(logger),
	)
	ms.StartReaper(ctx, cfg.Session.ReapInterval)
	logger.Info("using in-memory session store",
		zap.Duration("ttl", cfg.Session.TTL))
	return ms
}

// buildDispatcher assembles the configured lead sinks. Either sink may be
// absent; with neither configured completed leads are dropped silently.
func buildDispatcher(cfg config.NotifyConfig, logger *zap.Logger) *notify.Dispatcher {
	var sinks []notify.Sink

	if cfg.SheetURL != "" {
		sinks = append(sinks, notify.NewSheetSink(cfg.SheetURL))
		logger.Info("lead sheet sink enabled")
	}

	recipients, err := notify.ParseRecipients(cfg.Recipients)
	if err != nil {
		logger.Fatal("failed to parse WHATSAPP_RECIPIENTS", zap.Error(err))
	}
	if len(recipients) > 0 {
		sinks = append(sinks, notify.NewRelaySink(recipients))
		logger.Info("whatsapp relay sink enabled", zap.Int("recipients", len(recipients)))
	}

	if len(sinks) == 0 {
		logger.Info("no lead sinks configured, notifications disabled")
	}

	return notify.NewDispatcher(sinks, cfg.Timeout, logger)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler, logger *zap.Logger) {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	logger.Info("leadbot backend listening", zap.String("addr", serverCfg.Addr))
	if err := runServer(ctx, srv); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
