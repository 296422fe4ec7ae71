package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mbaadvisor/internal/ai"
	"mbaadvisor/internal/chat"
	"mbaadvisor/internal/config"
	"mbaadvisor/internal/errors"
	"mbaadvisor/internal/observability"
	"mbaadvisor/internal/schools"
)

// NewServices builds the components behind the API. The returned cleanup
// stops watchers and flushes telemetry; call it after the server has stopped.
func NewServices(ctx context.Context, cfg *config.Config, version string, logger *errors.Logger) (Services, func(context.Context), error) {
	var cleanups []func(context.Context)
	cleanup := func(ctx context.Context) {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i](ctx)
		}
	}
	fail := func(err error) (Services, func(context.Context), error) {
		cleanup(ctx)
		return Services{}, nil, err
	}

	om, err := observability.NewObservabilityManager(observability.GetObservabilityConfig(cfg, version), cfg)
	if err != nil {
		return fail(fmt.Errorf("failed to initialize observability: %w", err))
	}
	cleanups = append(cleanups, func(ctx context.Context) {
		if err := om.Shutdown(ctx); err != nil {
			logger.LogError(err, "Failed to shutdown observability")
		}
	})

	registry, stopWatcher, err := newSchoolRegistry(cfg.Schools, logger)
	if err != nil {
		return fail(err)
	}
	cleanups = append(cleanups, func(context.Context) { stopWatcher() })

	services := Services{Schools: registry, Observability: om}

	if keyErr := cfg.RequireAIKey(); keyErr != nil {
		logger.Warn("AI provider not configured, chat and advice endpoints are disabled", "reason", keyErr.Error())
		return services, cleanup, nil
	}

	aiService, err := ai.NewService(ctx, cfg, logger)
	if err != nil {
		return fail(err)
	}
	cleanups = append(cleanups, func(context.Context) {
		if err := aiService.Close(); err != nil {
			logger.LogError(err, "Failed to close AI service")
		}
	})

	store, err := newSessionStore(ctx, cfg.Chat, logger)
	if err != nil {
		return fail(err)
	}
	cleanups = append(cleanups, func(context.Context) {
		if err := store.Close(); err != nil {
			logger.LogError(err, "Failed to close session store")
		}
	})

	services.AI = aiService
	services.Advisor = chat.NewAdvisor(aiService.Provider, aiService.Prompts, store, cfg.Chat, logger,
		chat.WithTracker(om))

	return services, cleanup, nil
}

// newSchoolRegistry loads the catalog and, when configured, watches its file
func newSchoolRegistry(cfg config.SchoolsConfig, logger *errors.Logger) (*schools.Registry, func(), error) {
	catalog, err := schools.LoadCatalogOrDefault(cfg.CatalogFile)
	if err != nil {
		return nil, nil, err
	}
	registry := schools.NewRegistry(catalog)

	if !cfg.Watch || cfg.CatalogFile == "" {
		return registry, func() {}, nil
	}

	watcher := schools.NewCatalogWatcher(cfg.CatalogFile, registry, cfg.DebounceDelay, nil, logger)
	if err := watcher.Start(); err != nil {
		return nil, nil, err
	}
	return registry, func() {
		if err := watcher.Stop(); err != nil {
			logger.LogError(err, "Failed to stop catalog watcher")
		}
	}, nil
}

// newSessionStore opens the configured store and checks Redis is reachable
func newSessionStore(ctx context.Context, cfg config.ChatConfig, logger *errors.Logger) (chat.Store, error) {
	store, err := chat.NewStore(cfg)
	if err != nil {
		return nil, err
	}
	if redisStore, ok := store.(*chat.RedisStore); ok {
		if err := redisStore.Ping(ctx); err != nil {
			_ = redisStore.Close()
			return nil, err
		}
		logger.Info("Chat sessions stored in Redis", "addr", cfg.Redis.Addr)
	}
	return store, nil
}

// Start serves HTTP until SIGINT or SIGTERM
func (s *Server) Start() error {
	httpServer := s.setupHTTPServer()

	vaultWatcher, err := s.startVaultWatcher()
	if err != nil {
		return err
	}
	if vaultWatcher != nil {
		defer func() {
			if err := vaultWatcher.Stop(); err != nil {
				s.Logger.LogError(err, "Failed to stop vault watcher")
			}
		}()
	}

	s.displayServerInfo()

	return s.startWithGracefulShutdown(httpServer)
}

// setupHTTPServer creates and configures the HTTP server
func (s *Server) setupHTTPServer() *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf("%s:%s", s.Host, s.Port),
		Handler:      s.Handler(),
		ReadTimeout:  s.ReadTimeout,
		WriteTimeout: s.WriteTimeout,
		IdleTimeout:  s.IdleTimeout,
	}
}

func (s *Server) tlsEnabled() bool {
	return s.TLSCertFile != "" && s.TLSKeyFile != ""
}

// startVaultWatcher polls Vault for rotated API keys when configured
func (s *Server) startVaultWatcher() (*VaultWatcher, error) {
	vaultCfg := s.AppConfig.Vault
	if !vaultCfg.Enabled || vaultCfg.Secrets.APIKeys == "" || vaultCfg.WatchInterval <= 0 {
		return nil, nil
	}

	client, err := config.NewVaultClient(vaultCfg, s.Logger)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, nil
	}

	watcher := NewVaultWatcher(client, vaultCfg.Secrets.APIKeys, vaultCfg.WatchInterval, s.rotateAPIKeys, s.Logger)
	if err := watcher.Start(); err != nil {
		return nil, err
	}
	return watcher, nil
}

// rotateAPIKeys installs keys fetched by the Vault watcher. On error the
// current keys stay in place.
func (s *Server) rotateAPIKeys(keys []string, err error) {
	if err != nil {
		return
	}
	s.SetAPIKeys(keys)
	s.Logger.Info("Server API keys updated", "count", s.APIKeyCount())
}

// startWithGracefulShutdown starts the HTTP server and handles graceful shutdown
func (s *Server) startWithGracefulShutdown(server *http.Server) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	serverErrors := make(chan error, 1)

	go func() {
		s.Logger.Info("Starting HTTP server",
			"address", server.Addr,
			"tls_enabled", s.tlsEnabled())

		var err error
		if s.tlsEnabled() {
			err = server.ListenAndServeTLS(s.TLSCertFile, s.TLSKeyFile)
		} else {
			err = server.ListenAndServe()
		}

		if err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server failed to start: %w", err)
	case sig := <-quit:
		s.Logger.Info("Received shutdown signal, starting graceful shutdown",
			"signal", sig.String())

		return s.performGracefulShutdown(server)
	}
}

// performGracefulShutdown handles the graceful shutdown process
func (s *Server) performGracefulShutdown(server *http.Server) error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	s.cleanupRateLimiter()

	s.Logger.Info("Shutting down HTTP server...")
	if err := server.Shutdown(shutdownCtx); err != nil {
		s.Logger.LogError(err, "Failed to shutdown server gracefully, forcing close")
		return server.Close()
	}

	s.Logger.Info("Server shutdown completed successfully")
	return nil
}

// cleanupRateLimiter cleans up the rate limiter resources
func (s *Server) cleanupRateLimiter() {
	if s.RateLimiter != nil {
		s.RateLimiter.Close()
		s.Logger.Info("Rate limiter cleaned up")
	}
}
