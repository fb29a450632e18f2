// Command findocd serves the upload API and the gRPC health service.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joseph-ayodele/findoc-reader/internal/common"
	"github.com/joseph-ayodele/findoc-reader/internal/metrics"
	"github.com/joseph-ayodele/findoc-reader/internal/ner"
	processor "github.com/joseph-ayodele/findoc-reader/internal/pipeline"
	"github.com/joseph-ayodele/findoc-reader/internal/server"
)

func main() {
	configPath := flag.String("config", os.Getenv("FINDOC_CONFIG"), "YAML config file")
	flag.Parse()

	cfg, err := common.LoadConfig(*configPath)
	if err != nil {
		slog.Error("config.load.failed", "path", *configPath, "err", err)
		os.Exit(2)
	}
	logger := common.NewLogger(cfg.Log, os.Stdout)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("findocd.failed", "err", err)
		os.Exit(1)
	}
}

func run(cfg *common.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The label model is built once and shared by every request.
	start := time.Now()
	model, err := ner.Load(cfg.Labeler.LexiconPath, logger)
	if err != nil {
		return err
	}
	logger.Info("ner.model.ready", "lexicon", cfg.Labeler.LexiconPath, "elapsed_ms", time.Since(start).Milliseconds())

	m := metrics.New()
	proc, err := processor.New(logger, model, processor.Options{
		SplitParties: cfg.Document.SplitParties,
		Metrics:      m,
	})
	if err != nil {
		return err
	}

	httpSrv, err := server.NewHTTPServer(proc, m, cfg.Server, logger)
	if err != nil {
		return err
	}
	lis, err := net.Listen("tcp", cfg.Server.GRPCAddr)
	if err != nil {
		return err
	}
	healthSrv := server.NewHealthServer(logger)

	errCh := make(chan error, 2)
	go func() { errCh <- httpSrv.Start(cfg.Server.HTTPAddr) }()
	go func() { errCh <- healthSrv.Serve(lis) }()

	select {
	case <-ctx.Done():
		logger.Info("findocd.shutdown", "reason", ctx.Err())
	case err = <-errCh:
		if err != nil {
			logger.Error("findocd.serve.failed", "err", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	healthSrv.Stop()
	if shutdownErr := httpSrv.Shutdown(shutdownCtx); shutdownErr != nil && !errors.Is(shutdownErr, context.Canceled) {
		logger.Warn("http.shutdown.failed", "err", shutdownErr)
	}
	logger.Info("findocd.stopped")
	return err
}
