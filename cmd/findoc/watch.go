package main

import (
	"encoding/json"
	"time"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/findoc-reader/internal/ingest"
)

var (
	watchDebounce      time.Duration
	watchInitial       bool
	watchIncludeHidden bool
)

var watchCmd = &cobra.Command{
	Use:   "watch <dir> [dir...]",
	Short: "Extract files as they appear in watched directories",
	Long: `Watch directories recursively and print one JSON result line for every
supported file that is created or rewritten. Stops on SIGINT/SIGTERM.

Examples:
  findoc watch ./inbox
  findoc watch ./inbox ./chats --initial --debounce 500ms`,
	Args: cobra.MinimumNArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 250*time.Millisecond, "coalesce bursts of writes to the same file")
	watchCmd.Flags().BoolVar(&watchInitial, "initial", false, "also process files already present")
	watchCmd.Flags().BoolVar(&watchIncludeHidden, "include-hidden", false, "also watch dot files and dot directories")
}

func runWatch(cmd *cobra.Command, args []string) error {
	a, err := setup(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	events, errs, err := ingest.StartWatcher(ctx, ingest.WatchConfig{
		Roots:       args,
		InitialScan: watchInitial,
		SkipHidden:  !watchIncludeHidden,
		Debounce:    watchDebounce,
		Logger:      a.logger,
	})
	if err != nil {
		return err
	}

	ing := ingest.NewFSIngestor(a.processor, a.cfg.Batch, a.cfg.Server.MaxUploadBytes, a.logger)
	enc := json.NewEncoder(cmd.OutOrStdout())
	for {
		select {
		case path, ok := <-events:
			if !ok {
				return nil
			}
			res, _ := ing.IngestPath(ctx, path)
			if err := enc.Encode(res); err != nil {
				return err
			}
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			a.logger.Warn("watch.error", "err", err)
		}
	}
}
