package main

import (
	"github.com/spf13/cobra"

	"github.com/dhamidi/appclassdoc/appclass"
	"github.com/dhamidi/appclassdoc/format"
)

func newDumpCmd() *cobra.Command {
	var outputFormat string
	var includePrivate bool

	cmd := &cobra.Command{
		Use:   "dump <file>",
		Short: "Print the documentation of a single application class",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			encoder, err := format.NewEncoder(outputFormat, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			corpus := appclass.NewCorpus()
			class, err := appclass.ClassFromFile(args[0], corpus, appclass.IncludePrivate(includePrivate))
			if err != nil {
				return err
			}
			corpus.Resolve()
			return encoder.Encode(class)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "line", "output format (json, yaml, line)")
	cmd.Flags().BoolVarP(&includePrivate, "private", "p", false, "include private members")

	return cmd
}
