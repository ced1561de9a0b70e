package mcpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/kirillkom/pdf-summarizer/internal/core/domain"
	"github.com/kirillkom/pdf-summarizer/internal/core/ports"
)

const (
	SummarizeToolName = "summarize_pdf"
	TemplatesToolName = "list_summary_templates"
)

// Tools exposes the summarizer as MCP tools.
type Tools struct {
	summarizer     ports.DocumentSummarizer
	catalog        ports.TemplateCatalog
	maxUploadBytes int64
	logger         *slog.Logger
}

func NewTools(summarizer ports.DocumentSummarizer, catalog ports.TemplateCatalog, maxUploadBytes int64, logger *slog.Logger) *Tools {
	if logger == nil {
		logger = slog.Default()
	}
	return &Tools{
		summarizer:     summarizer,
		catalog:        catalog,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

// NewServer builds an MCP server with every tool registered.
func (t *Tools) NewServer(version string) *mcpserver.MCPServer {
	srv := mcpserver.NewMCPServer("pdf-summarizer", version,
		mcpserver.WithToolCapabilities(false),
		mcpserver.WithRecovery(),
	)
	srv.AddTool(t.SummarizeDefinition(), t.HandleSummarize)
	srv.AddTool(t.TemplatesDefinition(), t.HandleTemplates)
	return srv
}

func (t *Tools) SummarizeDefinition() mcp.Tool {
	return mcp.NewTool(
		SummarizeToolName,
		mcp.WithDescription("Summarize a local PDF file into Markdown. Extracts the text, applies a style and language template and asks the configured LLM for a summary."),
		mcp.WithString("file_path",
			mcp.Required(),
			mcp.Description("Path to the PDF file to summarize"),
		),
		mcp.WithString("language",
			mcp.Description("Summary language: EN, ID, CN, JP or KR (default EN)"),
		),
		mcp.WithString("style",
			mcp.Description("Summary style: professional or simple (default professional)"),
		),
	)
}

func (t *Tools) TemplatesDefinition() mcp.Tool {
	return mcp.NewTool(
		TemplatesToolName,
		mcp.WithDescription("List the summary styles and languages supported by summarize_pdf."),
	)
}

func (t *Tools) HandleSummarize(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("file_path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	data, err := t.readFile(path)
	if err != nil {
		return toolError(err), nil
	}

	summary, err := t.summarizer.Summarize(ctx, ports.SummarizeRequest{
		Document: domain.Document{Filename: filepath.Base(path), Data: data},
		Language: request.GetString("language", ""),
		Style:    request.GetString("style", ""),
	})
	if err != nil {
		t.logger.WarnContext(ctx, "mcp_tool_failed", "tool", SummarizeToolName, "kind", domain.KindCode(err), "error", err)
		return toolError(err), nil
	}
	return mcp.NewToolResultText(summary.Text), nil
}

func (t *Tools) HandleTemplates(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	payload, err := json.Marshal(map[string]any{
		"styles":           t.catalog.Styles(),
		"languages":        t.catalog.Languages(),
		"default_style":    domain.DefaultStyle,
		"default_language": domain.DefaultLanguage,
	})
	if err != nil {
		return nil, fmt.Errorf("encode template catalog: %w", err)
	}
	return mcp.NewToolResultText(string(payload)), nil
}

func (t *Tools) readFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fileError("open file", err)
	}
	defer f.Close()

	reader := io.Reader(f)
	if t.maxUploadBytes > 0 {
		reader = io.LimitReader(f, t.maxUploadBytes+1)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fileError("read file", err)
	}
	return data, nil
}

// fileError reports a missing file as no input and any other failure as a bad path.
func fileError(operation string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return domain.WrapError(domain.ErrNoInput, operation, err)
	}
	return domain.WrapError(domain.ErrInvalidInput, operation, err)
}

func toolError(err error) *mcp.CallToolResult {
	return mcp.NewToolResultError(fmt.Sprintf("%s: %v", domain.KindCode(err), err))
}
