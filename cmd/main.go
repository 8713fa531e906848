/*
Package main is the entry point for the Convlo server.

It loads configuration, initializes the global logger, opens the configured
chat store, serves HTTP and shuts down gracefully on SIGINT or SIGTERM.
*/
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"convlo/internal/app/chat"
	"convlo/internal/app/db"
	"convlo/internal/app/user"
	"convlo/internal/configs"
	"convlo/internal/handler"
	"convlo/internal/pkg/logx"
)

func main() {
	// Load configuration from environment variables
	cfg, err := configs.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logx.InitGlobalLogger(cfg.IsDevelopment())
	logx.Logger().Info().
		Str("environment", cfg.Environment).
		Int("port", cfg.Port).
		Strs("allowed_origins", cfg.AllowedOrigins).
		Str("store_driver", cfg.StoreDriver).
		Bool("trust_proxy", cfg.TrustProxy).
		Str("membership_policy", cfg.MembershipPolicy).
		Str("creator_leave_policy", cfg.CreatorLeavePolicy).
		Msg("Configuration loaded successfully")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		users user.Directory
		store chat.Store
	)

	switch cfg.StoreDriver {
	case configs.StoreDriverPostgres:
		pool, err := db.NewPool(ctx, cfg.DatabaseDSN)
		if err != nil {
			logx.Fatal(err, "Failed to connect to database")
		}
		defer pool.Close()

		users = user.NewPostgresDirectory(pool)
		store = chat.NewPostgresStore(pool)
	default:
		logx.Warn("Using in-memory store; data is lost on restart")
		dir := user.NewMemoryDirectory()
		users = dir
		store = chat.NewMemoryStore(dir)
	}

	manager := chat.NewManager(store, users, chat.CreatorLeavePolicy(cfg.CreatorLeavePolicy))

	router, stopLimiters := handler.Router(&handler.AppDeps{
		Config:     cfg,
		Users:      users,
		Chats:      manager,
		Authorizer: chat.NewAuthorizer(chat.MembershipPolicy(cfg.MembershipPolicy), manager),
	})
	defer stopLimiters()

	serverAddr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logx.Info(fmt.Sprintf("Convlo Server starting on http://localhost%s", serverAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logx.Fatal(err, "Server failed to start")
		}
	}()

	<-ctx.Done()
	logx.Info("Received shutdown signal. Starting graceful shutdown...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logx.Error(err, "Server forced to shutdown")
	}

	logx.Info("Server gracefully stopped.")
}
