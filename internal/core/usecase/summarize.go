package usecase

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/kirillkom/pdf-summarizer/internal/core/domain"
	"github.com/kirillkom/pdf-summarizer/internal/core/ports"
	"github.com/kirillkom/pdf-summarizer/internal/core/prompt"
)

var pdfMagic = []byte("%PDF-")

type SummarizeConfig struct {
	Model          string
	MaxChars       int
	MaxUploadBytes int64
}

// SummarizeUseCase runs validate -> extract -> compose -> generate for one
// document. It holds no per-request state and is safe for concurrent use.
type SummarizeUseCase struct {
	cfg       SummarizeConfig
	templates *prompt.Store
	extractor ports.TextExtractor
	generator ports.TextGenerator
	observer  ports.SummaryObserver
	logger    *slog.Logger
}

func NewSummarizeUseCase(
	cfg SummarizeConfig,
	templates *prompt.Store,
	extractor ports.TextExtractor,
	generator ports.TextGenerator,
	observer ports.SummaryObserver,
	logger *slog.Logger,
) *SummarizeUseCase {
	if templates == nil {
		templates = prompt.Builtin()
	}
	if observer == nil {
		observer = nopObserver{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SummarizeUseCase{
		cfg:       cfg,
		templates: templates,
		extractor: extractor,
		generator: generator,
		observer:  observer,
		logger:    logger,
	}
}

func (uc *SummarizeUseCase) Summarize(ctx context.Context, req ports.SummarizeRequest) (*domain.Summary, error) {
	start := time.Now()
	summary, err := uc.run(ctx, req)
	uc.observer.ObserveSummary(domain.KindCode(err), time.Since(start))
	if err != nil {
		uc.logger.WarnContext(ctx, "summarize_failed",
			"filename", sanitizeFilename(req.Document.Filename),
			"size", req.Document.Size(),
			"kind", domain.KindCode(err),
			"error", err,
		)
		return nil, err
	}

	uc.logger.InfoContext(ctx, "summarize_completed",
		"filename", sanitizeFilename(req.Document.Filename),
		"pages", summary.Pages,
		"skipped_pages", len(summary.SkippedPages),
		"style", summary.Style,
		"language", summary.Language,
		"model", summary.Model,
		"truncated", summary.Truncated,
		"duration_ms", float64(time.Since(start).Microseconds()) / 1000.0,
	)
	return summary, nil
}

func (uc *SummarizeUseCase) run(ctx context.Context, req ports.SummarizeRequest) (*domain.Summary, error) {
	if err := uc.validate(req.Document); err != nil {
		return nil, err
	}

	extraction, err := uc.extractor.Extract(ctx, req.Document.Data)
	if err != nil {
		if domain.IsKind(err, domain.ErrMalformedDocument) || isContextDone(err) {
			return nil, err
		}
		return nil, domain.WrapError(domain.ErrMalformedDocument, "extract text", err)
	}
	uc.observer.ObserveExtraction(extraction.Pages, len(extraction.SkippedPages))
	if strings.TrimSpace(extraction.Text) == "" {
		return nil, domain.NewError(domain.ErrEmptyExtraction, "extract text", "no page yielded text")
	}

	tpl := uc.templates.Resolve(req.Style, req.Language)
	promptText, truncated := prompt.Compose(tpl, extraction.Text, uc.cfg.MaxChars)
	uc.observer.ObservePrompt(utf8.RuneCountInString(promptText) - utf8.RuneCountInString(tpl.Text))

	model := req.Model
	if model == "" {
		model = uc.cfg.Model
	}
	text, err := uc.generator.Generate(ctx, model, promptText)
	if err != nil {
		return nil, domain.WrapError(domain.ErrGenerationFailed, "generate summary", err)
	}

	return &domain.Summary{
		Text:         text,
		Style:        tpl.Style,
		Language:     tpl.Language,
		Model:        model,
		Truncated:    truncated,
		Pages:        extraction.Pages,
		SkippedPages: extraction.SkippedPages,
	}, nil
}

func (uc *SummarizeUseCase) validate(doc domain.Document) error {
	if len(doc.Data) == 0 {
		return domain.NewError(domain.ErrNoInput, "validate upload", "document is empty")
	}
	if doc.Filename != "" && !strings.EqualFold(filepath.Ext(doc.Filename), ".pdf") {
		return domain.NewError(domain.ErrUnsupportedFormat, "validate upload", "only PDF files are allowed: "+filepath.Base(doc.Filename))
	}
	if uc.cfg.MaxUploadBytes > 0 && int64(len(doc.Data)) > uc.cfg.MaxUploadBytes {
		return domain.NewError(domain.ErrDocumentTooLarge, "validate upload", "document exceeds the upload limit")
	}
	if !bytes.HasPrefix(doc.Data, pdfMagic) {
		return domain.NewError(domain.ErrUnsupportedFormat, "validate upload", "file is not a PDF (invalid signature)")
	}
	return nil
}

func isContextDone(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

type nopObserver struct{}

func (nopObserver) ObserveExtraction(int, int)           {}
func (nopObserver) ObservePrompt(int)                    {}
func (nopObserver) ObserveSummary(string, time.Duration) {}

// sanitizeFilename keeps client-supplied names safe to log.
func sanitizeFilename(name string) string {
	if name == "" {
		return ""
	}
	base := filepath.Base(name)
	base = strings.ReplaceAll(base, " ", "_")
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r
		case r >= 'A' && r <= 'Z':
			return r
		case r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, base)
}
