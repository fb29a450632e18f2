// Package mcp exposes the extraction pipelines as Model Context Protocol
// tools over stdio.
package mcp

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/joseph-ayodele/findoc-reader/constants"
	"github.com/joseph-ayodele/findoc-reader/internal/common"
	processor "github.com/joseph-ayodele/findoc-reader/internal/pipeline"
)

// ServerConfig holds configuration for the MCP server.
type ServerConfig struct {
	Processor      *processor.Processor
	Version        string // reported in the server info
	MaxUploadBytes int64
	Logger         *slog.Logger
}

// NewServer creates an MCP server with the findoc tools registered.
func NewServer(cfg ServerConfig) *server.MCPServer {
	ver := cfg.Version
	if ver == "" {
		ver = "dev"
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = constants.DefaultMaxUploadBytes
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	s := server.NewMCPServer(
		"findoc-reader",
		ver,
		server.WithToolCapabilities(false),
	)

	registerExtractChatTool(s, cfg)
	registerExtractDocumentTool(s, cfg)
	registerFieldsTool(s, cfg.Processor)
	return s
}

// ServeStdio blocks serving s on stdin/stdout.
func ServeStdio(s *server.MCPServer) error {
	return server.ServeStdio(s)
}

func registerExtractChatTool(s *server.MCPServer, cfg ServerConfig) {
	tool := mcp.NewTool("findoc_extract_chat",
		mcp.WithDescription("Extract Counterparty, Notional, ISIN, Underlying, Maturity, Bid, Offer and PaymentFrequency from a trader chat transcript. Missing fields are null."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("Raw chat text"),
		),
		mcp.WithString("name",
			mcp.Description("Source name used in logs (default: mcp-chat)"),
		),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		text, err := req.RequireString("text")
		if err != nil {
			return mcp.NewToolResultError("text is required"), nil
		}
		if int64(len(text)) > cfg.MaxUploadBytes {
			return mcp.NewToolResultError(fmt.Sprintf("text exceeds %d bytes", cfg.MaxUploadBytes)), nil
		}
		name := "mcp-chat"
		if n, err := req.RequireString("name"); err == nil && strings.TrimSpace(n) != "" {
			name = n
		}

		fs, err := cfg.Processor.ProcessChat(ctx, name, text)
		if err != nil {
			return toolError(cfg.Logger, "findoc_extract_chat", err), nil
		}
		return jsonResult(fs)
	})
}

func registerExtractDocumentTool(s *server.MCPServer, cfg ServerConfig) {
	tool := mcp.NewTool("findoc_extract_document",
		mcp.WithDescription("Extract term sheet fields from a .docx or .xlsx file given as base64. Missing fields are null."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithString("filename",
			mcp.Required(),
			mcp.Description("File name; the extension selects the reader (.docx or .xlsx)"),
		),
		mcp.WithString("content_base64",
			mcp.Required(),
			mcp.Description("File content, standard base64"),
		),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		filename, err := req.RequireString("filename")
		if err != nil {
			return mcp.NewToolResultError("filename is required"), nil
		}
		encoded, err := req.RequireString("content_base64")
		if err != nil {
			return mcp.NewToolResultError("content_base64 is required"), nil
		}
		data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
		if err != nil {
			return mcp.NewToolResultError("content_base64 is not valid base64"), nil
		}

		name := filepath.Base(filename)
		upload := common.Upload{Name: name, Size: int64(len(data))}
		if err := common.ValidateUpload(upload, constants.DocumentExtensions, cfg.MaxUploadBytes, "Please upload a DOCX file."); err != nil {
			return mcp.NewToolResultError(common.PublicMessage(err)), nil
		}

		fs, err := cfg.Processor.ProcessDocument(ctx, name, data)
		if err != nil {
			return toolError(cfg.Logger, "findoc_extract_document", err), nil
		}
		return jsonResult(fs)
	})
}

func registerFieldsTool(s *server.MCPServer, p *processor.Processor) {
	tool := mcp.NewTool("findoc_fields",
		mcp.WithDescription("List the output keys of both pipelines: document aliases and chat rules."),
		mcp.WithString("field", mcp.Description("Only this key, matched loosely (\"payment frequency\")")),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		tables := p.FieldTables()
		if name, err := req.RequireString("field"); err == nil && strings.TrimSpace(name) != "" {
			var ok bool
			if tables, ok = tables.Filter(name); !ok {
				return mcp.NewToolResultError(fmt.Sprintf("unknown field %q", name)), nil
			}
		}
		return jsonResult(tables)
	})
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func toolError(logger *slog.Logger, tool string, err error) *mcp.CallToolResult {
	logger.Warn("mcp.tool.failed", "tool", tool, "err", err)
	return mcp.NewToolResultError(common.PublicMessage(err))
}
