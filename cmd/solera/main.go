package main

import (
	"os"

	"github.com/spf13/cobra"
)

// Version is set via ldflags at build time
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:   "solera",
	Short: "Solera - Multivendor liquor marketplace backend",
	Long:  `Solera runs the marketplace API server and provides operator tooling for platform settings, CMS pages and users.`,
	Example: `  # Run the API server
  solera serve

  # Inspect and change platform settings
  solera settings list
  solera settings set platform_name '"Barrel & Vine"' --public
  solera settings set-secret stripe.secret_key --category stripe

  # Bootstrap an operator account
  solera admin create-user --username ops --email ops@example.com --admin`,
}

func init() {
	rootCmd.AddGroup(
		&cobra.Group{ID: "server", Title: "Server Commands:"},
		&cobra.Group{ID: "admin", Title: "Operator Commands:"},
	)

	serveCmd.GroupID = "server"
	settingsCmd.GroupID = "admin"
	pagesCmd.GroupID = "admin"
	adminCmd.GroupID = "admin"

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(pagesCmd)
	rootCmd.AddCommand(adminCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
