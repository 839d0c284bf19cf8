package main

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/dhamidi/appclassdoc/store"
)

func newPackagesCmd() *cobra.Command {
	var runID string
	var plain bool

	cmd := &cobra.Command{
		Use:   "packages <db>",
		Short: "List the packages and classes of a saved run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			db, err := store.Open(ctx, args[0])
			if err != nil {
				return err
			}
			defer db.Close()

			var run store.Run
			if runID != "" {
				run, err = db.Run(ctx, runID)
			} else {
				run, err = db.LatestRun(ctx)
			}
			if err != nil {
				return err
			}
			packages, err := db.Packages(ctx, run.ID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if plain {
				for _, pkg := range packages {
					fmt.Fprintf(out, "%s%s\n", strings.Repeat("  ", pkg.Level-1), pkg.Name)
					for _, cls := range pkg.Classes {
						fmt.Fprintf(out, "%s  %s %s\n", strings.Repeat("  ", pkg.Level-1), cls.Kind, cls.Name)
					}
				}
				return nil
			}

			data := pterm.TableData{{"Package", "Level", "Classes"}}
			for _, pkg := range packages {
				names := make([]string, len(pkg.Classes))
				for i, cls := range pkg.Classes {
					names[i] = cls.Name
				}
				data = append(data, []string{pkg.Name, fmt.Sprint(pkg.Level), strings.Join(names, ", ")})
			}
			pterm.Info.Printf("run %s: %d classes, %d failures\n", run.ID, run.Classes, run.Failures)
			return pterm.DefaultTable.WithHasHeader().WithWriter(out).WithData(data).Render()
		},
	}

	cmd.Flags().StringVar(&runID, "run", "", "run identifier (default latest)")
	cmd.Flags().BoolVar(&plain, "plain", false, "print an indented list instead of a table")

	return cmd
}
