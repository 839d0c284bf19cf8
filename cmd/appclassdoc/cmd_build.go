package main

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/dhamidi/appclassdoc/codebase"
	"github.com/dhamidi/appclassdoc/config"
	"github.com/dhamidi/appclassdoc/format"
	"github.com/dhamidi/appclassdoc/store"
)

func newBuildCmd() *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:   "build [source...]",
		Short: "Document every application class below the given sources",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := []config.Option{config.WithFlags(cmd.Flags())}
			if configFile != "" {
				opts = append(opts, config.WithFile(configFile))
			}
			cfg, err := config.Load(opts...)
			if err != nil {
				return err
			}
			if len(args) > 0 {
				cfg.Sources = args
			}
			return runBuild(cmd.Context(), cfg, cmd.OutOrStdout())
		},
	}

	def := config.Default()
	cmd.Flags().StringVarP(&configFile, "config", "c", "", "configuration file (default ./appclassdoc.yaml)")
	cmd.Flags().BoolP("private", "p", def.IncludePrivate, "include private members")
	cmd.Flags().StringP("format", "f", def.Format, "output format (json, yaml, line)")
	cmd.Flags().StringP("output", "o", def.Output, "write output to this file instead of stdout")
	cmd.Flags().String("db", def.Database, "also save the run to this SQLite database")
	cmd.Flags().IntP("workers", "j", def.Workers, "number of files built in parallel")

	return cmd
}

func runBuild(ctx context.Context, cfg *config.Config, stdout io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if len(cfg.Sources) == 0 {
		return errors.New("no sources to document")
	}
	started := time.Now()

	files, err := codebase.Discover(cfg.Sources, cfg.Extensions)
	if err != nil {
		return err
	}
	result, err := codebase.Build(ctx, files, codebase.BuildOptions{
		IncludePrivate: cfg.IncludePrivate,
		Workers:        cfg.Workers,
	})
	if err != nil {
		return err
	}

	out := stdout
	if cfg.Output != "" {
		f, err := os.Create(cfg.Output)
		if err != nil {
			return errors.Wrap(err, "creating output file")
		}
		defer f.Close()
		out = f
	}
	encoder, err := format.NewEncoder(cfg.Format, out)
	if err != nil {
		return err
	}
	if err := encoder.EncodeCorpus(result.Corpus); err != nil {
		return errors.Wrap(err, "encoding corpus")
	}

	if cfg.Database != "" {
		db, err := store.Open(ctx, cfg.Database)
		if err != nil {
			return err
		}
		defer db.Close()
		run, err := db.Save(ctx, result.Corpus, store.Run{
			Root:      strings.Join(cfg.Sources, string(os.PathListSeparator)),
			StartedAt: started,
			Failures:  len(result.Failures),
		})
		if err != nil {
			return err
		}
		pterm.Info.Printf("saved run %s to %s\n", run.ID, db.Path())
	}

	for _, f := range result.Failures {
		pterm.Warning.Printf("%s: %s\n", f.Path, f.Err)
	}
	pterm.Success.Printf("%d classes from %d files, %d failures in %s\n",
		len(result.Classes), result.Files, len(result.Failures), result.Elapsed.Round(time.Millisecond))
	return nil
}
