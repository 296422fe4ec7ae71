package cli

import (
	"context"
	"fmt"
	"time"

	"mbaadvisor/internal/server"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start an HTTP server exposing profile scoring, school search and the chat assistant.

Available endpoints:
- POST /profile/analyze: Score a profile
- POST /profile/update: Apply field updates to a profile and rescore it
- POST /profile/advice: Score a profile and ask the model for advice
- GET /schools: Search the school catalog
- POST /schools/compare: Compare up to three schools
- POST /chat: Send a chat message
- DELETE /chat/{id}: Clear a chat session
- GET /config/ui: Chat client copy
- GET /health: Health check endpoint
- GET /stats: Server statistics and rate limiting info

TLS is enabled when both --cert-file and --key-file are set.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringP("port", "p", "", "Port to listen on (default from config)")
	serveCmd.Flags().String("host", "", "Host to bind to (default from config)")
	serveCmd.Flags().String("cert-file", "", "Server certificate file (PEM, overrides config)")
	serveCmd.Flags().String("key-file", "", "Server private key file (PEM, overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	overrides := map[string]*string{
		"port":      &cfg.Server.Port,
		"host":      &cfg.Server.Host,
		"cert-file": &cfg.Server.TLSCertFile,
		"key-file":  &cfg.Server.TLSKeyFile,
	}
	for name, target := range overrides {
		if cmd.Flags().Changed(name) {
			value, _ := cmd.Flags().GetString(name)
			*target = value
		}
	}

	// Validate again after applying overrides
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid server configuration: %w", err)
	}

	services, cleanup, err := server.NewServices(cmd.Context(), cfg, Version, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		cleanup(ctx)
	}()

	return server.NewServer(cfg, server.ServerConfigFrom(cfg, Version), services, logger).Start()
}
