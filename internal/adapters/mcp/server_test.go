package mcpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kirillkom/pdf-summarizer/internal/core/domain"
	"github.com/kirillkom/pdf-summarizer/internal/core/ports"
	"github.com/kirillkom/pdf-summarizer/internal/core/prompt"
)

type summarizerFake struct {
	err error
	got ports.SummarizeRequest
}

func (f *summarizerFake) Summarize(_ context.Context, req ports.SummarizeRequest) (*domain.Summary, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Summary{Text: "## Summary\n- point\n"}, nil
}

func newTools(fake *summarizerFake, limit int64) *Tools {
	return NewTools(fake, prompt.Builtin(), limit, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func callRequest(name string, args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()

	require.NotEmpty(t, result.Content)
	text, ok := mcp.AsTextContent(result.Content[0])
	require.True(t, ok, "expected text content")
	return text.Text
}

func writePDF(t *testing.T, name string, data []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestSummarizeDefinition(t *testing.T) {
	def := newTools(&summarizerFake{}, 0).SummarizeDefinition()
	assert.Equal(t, SummarizeToolName, def.Name)
	assert.Contains(t, def.InputSchema.Required, "file_path")
	assert.Contains(t, def.InputSchema.Properties, "language")
	assert.Contains(t, def.InputSchema.Properties, "style")

	style, ok := def.InputSchema.Properties["style"].(map[string]any)
	require.True(t, ok)
	assert.NotContains(t, style, "enum")
}

func TestHandleSummarizeReturnsMarkdown(t *testing.T) {
	fake := &summarizerFake{}
	path := writePDF(t, "report.pdf", []byte("%PDF-1.4 body"))

	result, err := newTools(fake, 1<<20).HandleSummarize(context.Background(), callRequest(SummarizeToolName, map[string]any{
		"file_path": path,
		"language":  "JP",
		"style":     "simple",
	}))
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Equal(t, "## Summary\n- point\n", resultText(t, result))

	assert.Equal(t, "report.pdf", fake.got.Document.Filename)
	assert.Equal(t, []byte("%PDF-1.4 body"), fake.got.Document.Data)
	assert.Equal(t, "JP", fake.got.Language)
	assert.Equal(t, "simple", fake.got.Style)
}

func TestHandleSummarizeRequiresPath(t *testing.T) {
	result, err := newTools(&summarizerFake{}, 0).HandleSummarize(context.Background(), callRequest(SummarizeToolName, map[string]any{}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestHandleSummarizeMissingFile(t *testing.T) {
	result, err := newTools(&summarizerFake{}, 0).HandleSummarize(context.Background(), callRequest(SummarizeToolName, map[string]any{
		"file_path": filepath.Join(t.TempDir(), "missing.pdf"),
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "no_input")
}

func TestHandleSummarizeDirectoryPathIsInvalidInput(t *testing.T) {
	fake := &summarizerFake{}
	result, err := newTools(fake, 0).HandleSummarize(context.Background(), callRequest(SummarizeToolName, map[string]any{
		"file_path": t.TempDir(),
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	text := resultText(t, result)
	assert.Contains(t, text, "invalid_input")
	assert.NotContains(t, text, "no_input")
}

func TestHandleSummarizeReportsErrorKind(t *testing.T) {
	fake := &summarizerFake{err: domain.WrapError(domain.ErrGenerationFailed, "generate summary", errors.New("quota exceeded"))}
	path := writePDF(t, "a.pdf", []byte("%PDF-"))

	result, err := newTools(fake, 0).HandleSummarize(context.Background(), callRequest(SummarizeToolName, map[string]any{"file_path": path}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	text := resultText(t, result)
	assert.Contains(t, text, "generation_failed")
	assert.Contains(t, text, "quota exceeded")
}

func TestHandleSummarizeCapsRead(t *testing.T) {
	fake := &summarizerFake{}
	path := writePDF(t, "big.pdf", make([]byte, 4096))

	_, err := newTools(fake, 100).HandleSummarize(context.Background(), callRequest(SummarizeToolName, map[string]any{"file_path": path}))
	require.NoError(t, err)
	assert.Len(t, fake.got.Document.Data, 101)
}

func TestHandleTemplates(t *testing.T) {
	result, err := newTools(&summarizerFake{}, 0).HandleTemplates(context.Background(), callRequest(TemplatesToolName, nil))
	require.NoError(t, err)

	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &payload))
	assert.ElementsMatch(t, []any{"professional", "simple"}, payload["styles"])
	assert.Equal(t, "EN", payload["default_language"])
}

func TestNewServerRegistersTools(t *testing.T) {
	srv := newTools(&summarizerFake{}, 0).NewServer("test")
	resp := srv.HandleMessage(context.Background(), json.RawMessage(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`))

	raw, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.Contains(t, string(raw), SummarizeToolName)
	assert.Contains(t, string(raw), TemplatesToolName)
}
