package main

import (
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"
)

const version = "0.1.0"

func main() {
	// stdout carries encoded output
	pterm.SetDefaultOutput(os.Stderr)
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var verbosity int

	rootCmd := &cobra.Command{
		Use:          "appclassdoc",
		Short:        "API documentation for PeopleSoft application classes",
		Version:      version,
		SilenceUsage: true,
	}
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		commonlog.Configure(verbosity, nil)
	}
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "increase log verbosity")

	rootCmd.AddCommand(newBuildCmd())
	rootCmd.AddCommand(newDumpCmd())
	rootCmd.AddCommand(newParseCmd())
	rootCmd.AddCommand(newPackagesCmd())
	rootCmd.AddCommand(newLSPCmd())

	return rootCmd
}
