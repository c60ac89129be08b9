package main

import (
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/assessor/internal/server"
	"github.com/jackzampolin/assessor/internal/svcctx"
)

var (
	serveHost string
	servePort string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the assessor server",
	Long: `Start the assessor HTTP server.

The server provides:
  - /          - Web form for interactive queries
  - /health    - Basic server health check
  - /recommend - POST {"query": "...", "max_recommendations": 5}
  - /catalog   - The assessment catalog
  - /status    - Provider, circuit breaker and request counters
  - /metrics   - Prometheus metrics

Provider settings in the config file are reloaded while the server runs.

Examples:
  assessor serve                    # Start on the configured port (default 8000)
  assessor serve --port 3000        # Start on custom port
  assessor serve --host 0.0.0.0     # Bind to all interfaces`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		mgr, h, err := loadConfig(true)
		if err != nil {
			return err
		}
		cfg := mgr.Get()

		logger, err := newLogger(os.Stdout, cfg)
		if err != nil {
			return err
		}
		mgr.SetLogger(logger)
		if f := mgr.ConfigFile(); f != "" {
			logger.Info("loaded config", "file", f)
		}

		svcs, err := svcctx.Build(cfg, svcctx.Options{
			Logger:              logger,
			FallbackCatalogPath: h.CatalogPath(),
		})
		if err != nil {
			return err
		}

		host := cfg.Server.Host
		if cmd.Flags().Changed("host") {
			host = serveHost
		}
		port := strconv.Itoa(cfg.Server.Port)
		if cmd.Flags().Changed("port") {
			port = servePort
		}

		srv, err := server.New(server.Config{
			Host:          host,
			Port:          port,
			Services:      svcs,
			ConfigManager: mgr,
			Logger:        logger,
		})
		if err != nil {
			return err
		}
		if mgr.ConfigFile() != "" {
			mgr.WatchConfig()
		}

		// Start server (blocks until shutdown)
		return srv.Start(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Host to bind to (default: server.host, 127.0.0.1)")
	serveCmd.Flags().StringVar(&servePort, "port", "", "Port to listen on (default: server.port, 8000)")

	rootCmd.AddCommand(serveCmd)
}
