package main

import (
	"github.com/spf13/cobra"

	"github.com/dhamidi/appclassdoc/codebase"
)

func newLSPCmd() *cobra.Command {
	var includePrivate bool

	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server",
		RunE: func(cmd *cobra.Command, args []string) error {
			server := codebase.NewLSPServer(version, includePrivate)
			return server.RunStdio()
		},
	}
	cmd.Flags().BoolVarP(&includePrivate, "private", "p", false, "include private members")

	return cmd
}
