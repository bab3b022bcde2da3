package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ibis1225/pet-ai/internal/interfaces/cli/migrate"
	"github.com/ibis1225/pet-ai/internal/interfaces/cli/server"
	"github.com/ibis1225/pet-ai/internal/interfaces/cli/token"
	"github.com/ibis1225/pet-ai/internal/shared/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "petai",
		Short: "Pet AI - pet consultation intake service",
		Long:  `Pet AI runs the consultation intake API, database migrations and admin token tooling.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
		token.NewCommand(),
		&cobra.Command{
			Use:   "version",
			Short: "Print build information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintln(cmd.OutOrStdout(), version.String())
			},
		},
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
