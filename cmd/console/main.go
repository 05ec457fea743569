package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"folioadmin/internal/collaborator"
	"folioadmin/internal/config"
	"folioadmin/internal/console"
	"folioadmin/internal/consul"
	"folioadmin/internal/logger"
	"folioadmin/internal/session"
	"folioadmin/internal/web"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	_ "github.com/joho/godotenv/autoload"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	// Initialize structured logger
	log := logger.New(cfg.App.LogLevel, cfg.App.LogFormat)
	logger.SetDefault(log)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	slog.Info("Starting portfolio console",
		"port", cfg.Server.Port,
		"environment", cfg.App.Environment,
		"token_store", cfg.TokenStore.Backend,
	)

	ctx := context.Background()

	// Durable token store
	store, err := session.OpenStore(ctx, cfg.TokenStore)
	if err != nil {
		slog.Error("Failed to open token store", "backend", cfg.TokenStore.Backend, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	// Consul is only needed for discovery or self-registration
	var consulClient *consul.Client
	if cfg.API.ServiceName != "" || cfg.Consul.Register {
		consulClient, err = consul.NewClientWithToken(cfg.Consul.Addr, cfg.Consul.Token)
		if err != nil {
			slog.Error("Failed to create Consul client", "error", err)
			os.Exit(1)
		}
		slog.Info("Connected to Consul", "addr", cfg.Consul.Addr)
	}

	var resolver collaborator.Resolver = collaborator.StaticResolver(cfg.API.BaseURL)
	if cfg.API.ServiceName != "" {
		resolver = collaborator.NewConsulResolver(consulClient, cfg.API.ServiceName)
		slog.Info("Resolving collaborator through Consul", "service", cfg.API.ServiceName)
	}
	api := collaborator.NewClient(resolver, cfg.API.Timeout, log)

	sessions := session.NewManager(store, cfg.TokenStore.Key, api, log)
	if _, ok, err := sessions.Restore(ctx); err != nil {
		slog.Warn("Failed to restore session token", "error", err)
	} else if ok {
		slog.Info("Restored session token")
	}

	con := console.New(api, sessions, log)

	router, err := web.SetupRouter(sessions, con, web.RouterConfig{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		Logger:         log,
	})
	if err != nil {
		slog.Error("Failed to set up router", "error", err)
		os.Exit(1)
	}

	// Create HTTP server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in a goroutine
	go func() {
		slog.Info("Console listening", "port", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	var (
		registrar consul.ServiceRegistrar = consulClient
		serviceID string
	)
	if cfg.Consul.Register {
		serviceID = register(registrar, cfg)
	}

	// Wait for interrupt signal to gracefully shut down
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down console")

	if serviceID != "" {
		if err := registrar.Deregister(serviceID); err != nil {
			slog.Warn("Failed to deregister from Consul", "error", err)
		}
	}

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Console stopped")
}

// register announces this instance to Consul and returns its service id,
// or "" when registration failed.
func register(registrar consul.ServiceRegistrar, cfg *config.Config) string {
	port, err := strconv.Atoi(cfg.Server.Port)
	if err != nil {
		slog.Warn("Skipping Consul registration: port is not numeric", "port", cfg.Server.Port)
		return ""
	}

	id := "folio-console-" + uuid.New().String()
	if err := registrar.Register(consul.ConsoleRegistration(id, cfg.Consul.ServiceAddress, port)); err != nil {
		slog.Warn("Failed to register with Consul", "error", err)
		return ""
	}
	slog.Info("Registered with Consul", "service_id", id)
	return id
}
