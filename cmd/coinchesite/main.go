package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container
)

// rootCmd is the coinchesite entry point.
var rootCmd = &cobra.Command{
	Use:   "coinchesite",
	Short: "Deploy the Coinche de l'Espace site",
	Long: `Create or update the Coinche de l'Espace pages, bind the home page and
create the navigation menu once, in a local SQLite store or a WordPress site.

Configuration is read from COINCHE_* environment variables.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(serveCmd, deployCmd, themeCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}
