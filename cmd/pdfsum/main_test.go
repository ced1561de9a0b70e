package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kirillkom/pdf-summarizer/internal/core/domain"
	"github.com/kirillkom/pdf-summarizer/internal/core/prompt"
)

func TestTemplatesCommand(t *testing.T) {
	t.Setenv("PROMPT_TEMPLATES_FILE", "")
	var out bytes.Buffer
	require.NoError(t, newCommand(&out).Run(context.Background(), []string{"pdfsum", "templates"}))

	assert.Contains(t, out.String(), "professional, simple (default professional)")
	assert.Contains(t, out.String(), "KR")
}

func TestTemplatesCommandUsesTemplatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "templates.yaml")
	require.NoError(t, os.WriteFile(path, []byte("professional:\n  EN: \"Summarize:\\n\"\n  DE: \"Zusammenfassen:\\n\"\n"), 0o600))
	t.Setenv("PROMPT_TEMPLATES_FILE", path)

	var out bytes.Buffer
	require.NoError(t, newCommand(&out).Run(context.Background(), []string{"pdfsum", "templates"}))

	assert.Equal(t, "styles:    professional (default professional)\nlanguages: DE, EN (default EN)\n", out.String())
}

func TestTemplatesCommandFailsOnMissingFile(t *testing.T) {
	t.Setenv("PROMPT_TEMPLATES_FILE", filepath.Join(t.TempDir(), "missing.yaml"))

	var out bytes.Buffer
	err := newCommand(&out).Run(context.Background(), []string{"pdfsum", "templates"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load prompt templates")
}

func TestSummarizeRequiresOneFile(t *testing.T) {
	var out bytes.Buffer
	err := newCommand(&out).Run(context.Background(), []string{"pdfsum"})
	require.Error(t, err)
	assert.Empty(t, out.String())
}

func TestPrintTemplates(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, printTemplates(&out, prompt.Builtin()))
	assert.Equal(t, "styles:    professional, simple (default professional)\nlanguages: CN, EN, ID, JP, KR (default EN)\n", out.String())
}

func TestDescribeAddsKindCode(t *testing.T) {
	err := describe(domain.NewError(domain.ErrEmptyExtraction, "extract text", "no page yielded text"))
	assert.Contains(t, err.Error(), "empty_extraction: ")
	assert.True(t, domain.IsKind(err, domain.ErrEmptyExtraction))

	assert.EqualError(t, describe(context.Canceled), "interrupted")
	plain := errors.New("boom")
	assert.Equal(t, plain, describe(plain))
}
