// Command findoc extracts financial fields from term sheets and trader chats.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/findoc-reader/internal/common"
	"github.com/joseph-ayodele/findoc-reader/internal/ner"
	processor "github.com/joseph-ayodele/findoc-reader/internal/pipeline"
)

var (
	configPath   string
	logLevel     string
	splitParties bool

	version = "dev"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "findoc",
	Short: "Extract financial fields from term sheets and trader chats",
	Long: `findoc reads .docx/.xlsx term sheets and .txt/.chat/.log trader chats and
prints the canonical financial fields found in them. Missing fields are null.`,
	Version:      version,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file (FINDOC_* env vars override it)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&splitParties, "split-parties", false, "resolve Party A and Party B separately in documents")

	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(fieldsCmd)
}

// app is what every subcommand needs: config, logger and a wired processor.
type app struct {
	cfg       *common.Config
	logger    *slog.Logger
	processor *processor.Processor
}

func setup(cmd *cobra.Command) (*app, error) {
	cfg, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg.Log.Format = "json"
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger := common.NewLogger(cfg.Log, cmd.ErrOrStderr())

	model, err := ner.Load(cfg.Labeler.LexiconPath, logger)
	if err != nil {
		return nil, fmt.Errorf("load lexicon: %w", err)
	}
	proc, err := processor.New(logger, model, processor.Options{
		SplitParties: splitParties || cfg.Document.SplitParties,
	})
	if err != nil {
		return nil, err
	}
	return &app{cfg: cfg, logger: logger, processor: proc}, nil
}
