package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/findoc-reader/internal/export"
	"github.com/joseph-ayodele/findoc-reader/internal/ingest"
)

var (
	extractFormat string
	extractOut    string
)

var extractCmd = &cobra.Command{
	Use:   "extract <file>",
	Short: "Extract the fields of one term sheet or chat",
	Long: `Extract the fields of a single file. The extension picks the pipeline:
.docx/.xlsx use the line-scan extractor, .txt/.chat/.log the chat mapper.

Examples:
  findoc extract terms.docx
  findoc extract desk.txt --format xlsx --out desk.xlsx`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().StringVar(&extractFormat, "format", "json", "output format: json or xlsx")
	extractCmd.Flags().StringVarP(&extractOut, "out", "o", "", "output file (default: stdout for json, <name>.xlsx for xlsx)")
}

func runExtract(cmd *cobra.Command, args []string) error {
	format := strings.ToLower(extractFormat)
	if format != "json" && format != "xlsx" {
		return fmt.Errorf("unknown format %q: want json or xlsx", extractFormat)
	}
	a, err := setup(cmd)
	if err != nil {
		return err
	}

	ing := ingest.NewFSIngestor(a.processor, a.cfg.Batch, a.cfg.Server.MaxUploadBytes, a.logger)
	res, err := ing.IngestPath(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	if format == "json" {
		return writeOutput(cmd.OutOrStdout(), extractOut, func(w io.Writer) error {
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc.Encode(res.Fields)
		})
	}

	data, err := export.NewService(a.logger).FieldSetXLSX(args[0], res.Fields)
	if err != nil {
		return err
	}
	out := extractOut
	if out == "" {
		base := filepath.Base(args[0])
		out = strings.TrimSuffix(base, filepath.Ext(base)) + ".xlsx"
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}

// writeOutput runs write against path, or against stdout when path is empty.
func writeOutput(stdout io.Writer, path string, write func(io.Writer) error) error {
	if path == "" {
		return write(stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
