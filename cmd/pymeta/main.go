// Copyright 2026 The pymeta Authors
// SPDX-License-Identifier: Apache-2.0

// pymeta scans a directory tree for Python packaging descriptors and
// emits the normalized package records it finds.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/ossmeta/pymeta/pkg/pypi/datafile"
)

// Config holds all configuration for the scan command.
type Config struct {
	Root     string
	Output   string
	MaxDepth int
}

// Validate ensures the configuration is valid.
func (c Config) Validate() error {
	if c.Root == "" {
		return errors.New("a directory to scan is required")
	}
	if c.MaxDepth < 0 {
		return errors.New("max-depth must be non-negative")
	}
	return nil
}

type scanSummary struct {
	records  int
	failures int
	byFormat map[string]int
}

func scan(cfg Config, out io.Writer) (scanSummary, error) {
	summary := scanSummary{byFormat: make(map[string]int)}
	fs := osfs.New(cfg.Root)
	enc := json.NewEncoder(out)
	err := util.Walk(fs, "/", func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel := strings.TrimPrefix(p, "/")
		if info.IsDir() {
			if cfg.MaxDepth > 0 && rel != "" && strings.Count(rel, "/")+1 >= cfg.MaxDepth {
				return filepath.SkipDir
			}
			return nil
		}
		handler, ok := datafile.HandlerFor(rel)
		if !ok {
			return nil
		}
		records, err := handler.Parse(fs, p)
		if err != nil {
			log.Printf("skipping %s: %v", path.Join(cfg.Root, rel), err)
			summary.failures++
			return nil
		}
		for _, rec := range records {
			if err := enc.Encode(rec); err != nil {
				return errors.Wrap(err, "encoding record")
			}
			summary.records++
			summary.byFormat[rec.DatasourceID]++
		}
		return nil
	})
	return summary, err
}

func printSummary(w io.Writer, summary scanSummary) {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	fmt.Fprintf(w, "%s %d package record(s)\n", green("found"), summary.records)
	formats := make([]string, 0, len(summary.byFormat))
	for format := range summary.byFormat {
		formats = append(formats, format)
	}
	sort.Strings(formats)
	for _, format := range formats {
		fmt.Fprintf(w, "  %s: %d\n", format, summary.byFormat[format])
	}
	if summary.failures > 0 {
		fmt.Fprintf(w, "%s %d file(s) failed to parse\n", red("warning:"), summary.failures)
	}
}

func scanCommand() *cobra.Command {
	cfg := Config{}
	cmd := &cobra.Command{
		Use:   "scan [flags] <dir>",
		Short: "Scan a directory tree for Python packaging descriptors",
		Long: `Scan a directory tree for Python packaging descriptors.

scan walks the tree rooted at <dir>, routes each recognized descriptor
(PKG-INFO, METADATA, wheels, eggs, sdists, setup.py, setup.cfg,
pyproject.toml, Pipfile, Pipfile.lock, requirements files, conda
environment files) to its parser, and writes one JSON record per
package to the output, newline-delimited.

Examples:
  # Scan a source checkout
  pymeta scan ./project

  # Write records to a file, limiting walk depth
  pymeta scan --output records.ndjson --max-depth 3 ./project`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.Root = args[0]
			if err := cfg.Validate(); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if cfg.Output != "" && cfg.Output != "-" {
				f, err := os.Create(cfg.Output)
				if err != nil {
					return errors.Wrapf(err, "creating %s", cfg.Output)
				}
				defer f.Close()
				out = f
			}
			summary, err := scan(cfg, out)
			if err != nil {
				return err
			}
			printSummary(cmd.ErrOrStderr(), summary)
			return nil
		},
	}
	cmd.Flags().StringVarP(&cfg.Output, "output", "o", "", "write records to this file instead of stdout")
	cmd.Flags().IntVar(&cfg.MaxDepth, "max-depth", 0, "limit directory recursion depth (0 = unlimited)")
	return cmd
}

func formatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List the supported descriptor formats",
		Run: func(cmd *cobra.Command, _ []string) {
			w := cmd.OutOrStdout()
			for _, h := range datafile.Handlers() {
				fmt.Fprintf(w, "%-22s %s (%s)\n", h.DatasourceID, h.Description, strings.Join(h.PathPatterns, ", "))
			}
		},
	}
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("pymeta: ")
	root := &cobra.Command{
		Use:           "pymeta",
		Short:         "Normalize Python packaging metadata",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(scanCommand())
	root.AddCommand(formatsCommand())
	if err := root.Execute(); err != nil {
		log.Fatal(err)
	}
}
