package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/maheshrc27/influence-api/internal/cli"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "influencectl",
		Short: "Operator tools for the influence API",
		Long:  `influencectl runs migrations, inspects and refreshes platform tokens, triggers ingestion and probes a running server.`,
	}

	rootCmd.AddCommand(
		cli.NewMigrateCommand(),
		cli.NewTokensCommand(),
		cli.NewIngestCommand(),
		cli.NewHealthcheckCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
