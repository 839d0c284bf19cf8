package main

import (
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/dhamidi/appclassdoc/peoplecode/parser"
)

func newParseCmd() *cobra.Command {
	var outputFormat string
	var includeComments bool
	var includePositions bool

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a PeopleCode file and dump its syntax tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return errors.Wrap(err, "opening source file")
			}
			defer f.Close()

			opts := []parser.Option{parser.WithFile(args[0])}
			if includeComments {
				opts = append(opts, parser.WithComments())
			}
			if includePositions {
				opts = append(opts, parser.WithPositions())
			}
			p := parser.ParseProgram(f, opts...)
			node := p.Finish()
			if node == nil {
				return errors.Newf("%s: empty or unreadable source", args[0])
			}

			out := cmd.OutOrStdout()
			switch outputFormat {
			case "json":
				data, err := p.MarshalTree(node)
				if err != nil {
					return errors.Wrap(err, "encoding tree")
				}
				fmt.Fprintln(out, string(data))
			case "tree":
				fmt.Fprint(out, p.TreeString(node))
			default:
				return errors.Newf("unknown format: %s", outputFormat)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "tree", "output format (json, tree)")
	cmd.Flags().BoolVar(&includeComments, "comments", true, "include comments in the output")
	cmd.Flags().BoolVar(&includePositions, "positions", false, "include token positions in the output")

	return cmd
}
