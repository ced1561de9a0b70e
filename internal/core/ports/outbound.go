package ports

import (
	"context"
	"time"

	"github.com/kirillkom/pdf-summarizer/internal/core/domain"
)

// TextExtractor pulls plain text out of raw document bytes.
type TextExtractor interface {
	Extract(ctx context.Context, data []byte) (domain.Extraction, error)
}

// TextGenerator is the remote generation capability: prompt in, text out.
type TextGenerator interface {
	Generate(ctx context.Context, model, prompt string) (string, error)
}

// SummaryObserver receives pipeline outcomes for metrics.
type SummaryObserver interface {
	ObserveExtraction(pages, skipped int)
	ObservePrompt(chars int)
	ObserveSummary(kind string, duration time.Duration)
}
