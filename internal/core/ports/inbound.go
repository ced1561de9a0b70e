package ports

import (
	"context"

	"github.com/kirillkom/pdf-summarizer/internal/core/domain"
)

// SummarizeRequest carries one upload plus optional style and language keys.
type SummarizeRequest struct {
	Document domain.Document
	Language string
	Style    string
	Model    string
}

// DocumentSummarizer is the inbound contract shared by the HTTP, MCP and CLI adapters.
type DocumentSummarizer interface {
	Summarize(ctx context.Context, req SummarizeRequest) (*domain.Summary, error)
}

// TemplateCatalog lists the supported summary styles and languages.
type TemplateCatalog interface {
	Styles() []domain.Style
	Languages() []domain.Language
}
