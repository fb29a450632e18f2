package main

import (
	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/findoc-reader/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the extraction tools over MCP stdio",
	Long: `Run a Model Context Protocol server on stdin/stdout exposing
findoc_extract_chat, findoc_extract_document and findoc_fields. Logs go to stderr.`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func runMCP(cmd *cobra.Command, _ []string) error {
	a, err := setup(cmd)
	if err != nil {
		return err
	}
	srv := mcp.NewServer(mcp.ServerConfig{
		Processor:      a.processor,
		Version:        version,
		MaxUploadBytes: a.cfg.Server.MaxUploadBytes,
		Logger:         a.logger,
	})
	a.logger.Info("mcp.start", "transport", "stdio")
	return mcp.ServeStdio(srv)
}
