package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"genie/assistant"
	"genie/config"
	"genie/conversation"
	"genie/handlers"
	"genie/locale"
	"genie/observability"
	"genie/router"
	"genie/session"
	"genie/store"
)

const shutdownTimeout = 10 * time.Second

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the WebSocket gateway and the conversation router",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return serve(ctx, cfg)
	},
}

func newEngine(cfg *config.Config) (*assistant.Engine, error) {
	policy, err := cfg.Policy()
	if err != nil {
		return nil, err
	}
	formatter, err := locale.NewCurrencyFormatter(cfg.Currency)
	if err != nil {
		return nil, err
	}
	return assistant.NewEngine(formatter, assistant.WithPolicy(policy))
}

func serve(ctx context.Context, cfg *config.Config) error {
	log := observability.Logger()

	engine, err := newEngine(cfg)
	if err != nil {
		return err
	}

	rdb, err := openRedis(ctx, cfg.RedisURL)
	if err != nil {
		return err
	}
	defer rdb.Close()
	log.Info("connected to redis")

	events := router.NewRedisEvents(rdb)
	opts := cfg.ConversationOptions()
	sessions := session.NewManager(func(id string) *conversation.Conversation {
		return conversation.New(id, engine, router.NewSessionListener(events, id), opts)
	}, cfg.SessionIdleTTL)
	defer sessions.Close()

	r := router.New(rdb, events, sessions, store.NewRedis(rdb), cfg.ActivityLimit)
	if err := r.EnsureConsumerGroup(ctx); err != nil {
		return err
	}
	go r.ConsumeLoop(ctx)
	go sessions.Run(ctx)

	ws := handlers.NewWSHandler(handlers.NewRedisBus(rdb), cfg.AllowedOrigins, cfg.RateLimitRPS, cfg.RateLimitBurst)
	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           handlers.NewMux(ws, sessions, func(ctx context.Context) error { return rdb.Ping(ctx).Err() }),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("genie listening", "port", cfg.Port, "currency", cfg.Currency)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warn("graceful shutdown failed", "error", err)
		return server.Close()
	}
	return nil
}
