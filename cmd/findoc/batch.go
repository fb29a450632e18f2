package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/findoc-reader/internal/export"
	"github.com/joseph-ayodele/findoc-reader/internal/ingest"
	processor "github.com/joseph-ayodele/findoc-reader/internal/pipeline"
)

var (
	batchFormat        string
	batchOut           string
	batchIncludeHidden bool
	batchWorkers       int
)

var batchCmd = &cobra.Command{
	Use:   "batch <dir>",
	Short: "Extract every supported file under a directory",
	Long: `Walk a directory and extract every supported file on its own. Each file
yields one result; documents are never merged.

Examples:
  findoc batch ./inbox
  findoc batch ./inbox --format xlsx --out results.xlsx`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().StringVar(&batchFormat, "format", "jsonl", "output format: jsonl or xlsx")
	batchCmd.Flags().StringVarP(&batchOut, "out", "o", "", "output file (default: stdout for jsonl, results.xlsx for xlsx)")
	batchCmd.Flags().BoolVar(&batchIncludeHidden, "include-hidden", false, "also process dot files and dot directories")
	batchCmd.Flags().IntVar(&batchWorkers, "workers", 0, "worker count (default: batch.workers from config)")
}

func runBatch(cmd *cobra.Command, args []string) error {
	format := strings.ToLower(batchFormat)
	if format != "jsonl" && format != "xlsx" {
		return fmt.Errorf("unknown format %q: want jsonl or xlsx", batchFormat)
	}
	a, err := setup(cmd)
	if err != nil {
		return err
	}
	if batchWorkers > 0 {
		a.cfg.Batch.Workers = batchWorkers
	}

	ing := ingest.NewFSIngestor(a.processor, a.cfg.Batch, a.cfg.Server.MaxUploadBytes, a.logger)
	results, stats, err := ing.IngestDirectory(cmd.Context(), args[0], !batchIncludeHidden)
	if err != nil {
		return err
	}

	if format == "jsonl" {
		err = writeOutput(cmd.OutOrStdout(), batchOut, func(w io.Writer) error {
			return writeJSONL(w, results)
		})
	} else {
		err = writeResultsXLSX(cmd, a, results)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "scanned=%d matched=%d succeeded=%d empty=%d failed=%d\n",
		stats.Scanned, stats.Matched, stats.Succeeded, stats.Empty, stats.Failed)
	return nil
}

func writeJSONL(w io.Writer, results []processor.Result) error {
	enc := json.NewEncoder(w)
	for _, r := range results {
		if err := enc.Encode(r); err != nil {
			return err
		}
	}
	return nil
}

func writeResultsXLSX(cmd *cobra.Command, a *app, results []processor.Result) error {
	rows := make([]export.Row, 0, len(results))
	for _, r := range results {
		rows = append(rows, export.Row{
			File:   r.File,
			Format: string(r.Format),
			Status: string(r.Status),
			Error:  r.Error,
			Fields: r.Fields,
		})
	}
	data, err := export.NewService(a.logger).ResultsXLSX(rows)
	if err != nil {
		return err
	}
	out := batchOut
	if out == "" {
		out = "results.xlsx"
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}
