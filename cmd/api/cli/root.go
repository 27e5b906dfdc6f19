package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

const (
	Major  = "1"
	Minor  = "0"
	Fix    = "0"
	Verbal = "Simulation"
)

var rootCmd = &cobra.Command{ //nolint:gochecknoglobals
	Use:           "bundler-sim",
	Long:          "Bundler Sim - simulated multi-wallet bundling backend",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

// Run executes the root command. With no subcommand it serves the API.
func Run() error {
	if err := rootCmd.Execute(); err != nil {
		return fmt.Errorf("error executing root command: %w", err)
	}
	return nil
}

var versionCmd = &cobra.Command{ //nolint:gochecknoglobals
	Use:   "version",
	Short: "Describes version.",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "Version: %s.%s.%s %s\n", Major, Minor, Fix, Verbal)
	},
}

func init() { //nolint:gochecknoinits
	rootCmd.AddCommand(versionCmd)
}
