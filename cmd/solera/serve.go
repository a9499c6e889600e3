package main

import (
	"fmt"
	"os"

	"github.com/solera-market/solera/internal/server"
	"github.com/spf13/cobra"
)

var servePort int

// @title Solera API
// @version 1.0
// @description Multivendor liquor marketplace backend API
// @host localhost:8470
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the Solera API server",
	Long: `Start the Solera marketplace API server.

Examples:
  solera serve                  # Run with config file / env defaults
  solera serve --port 8080      # Override port

Environment variables:
  SOLERA_SERVER_PORT                  Server port (default: 8470)
  SOLERA_DATABASE_DRIVER              Database driver: sqlite, postgres
  SOLERA_DATABASE_DSN                 Database connection string
  SOLERA_AUTH_JWT_SECRET              JWT signing secret
  SOLERA_SECURITY_ENCRYPTION_SECRET   Secret for setting encryption (required in production)
  SOLERA_BUS_TYPE                     Invalidation bus: memory, valkey
  SOLERA_AUTH_ADMIN_USERNAME          Bootstrap admin username
  SOLERA_AUTH_ADMIN_PASSWORD          Bootstrap admin password`,
	Run: runServe,
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port to run server on (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) {
	cfg := server.Config{
		Port:    servePort,
		Version: Version,
	}

	if err := server.RunWithSignalHandling(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
