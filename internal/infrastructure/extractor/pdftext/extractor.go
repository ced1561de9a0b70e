package pdftext

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/kirillkom/pdf-summarizer/internal/core/domain"
)

var errNullPage = errors.New("page object missing")

// pageSource is the per-page view of a parsed document.
type pageSource interface {
	NumPage() int
	PageText(n int) (string, error)
}

type Extractor struct {
	logger *slog.Logger
	strict bool
}

// New returns an extractor. With strict set, documents are validated with
// pdfcpu before text extraction.
func New(logger *slog.Logger, strict bool) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{logger: logger, strict: strict}
}

// Extract concatenates the non-empty text of every page in page order,
// each fragment followed by a newline. Page text is kept as returned. A document whose pages all yield no
// text produces an empty Text and no error.
func (e *Extractor) Extract(ctx context.Context, data []byte) (domain.Extraction, error) {
	if e.strict {
		if err := validateStrict(data); err != nil {
			return domain.Extraction{}, domain.WrapError(domain.ErrMalformedDocument, "validate pdf", err)
		}
	}

	pages, err := openPages(data)
	if err != nil {
		return domain.Extraction{}, domain.WrapError(domain.ErrMalformedDocument, "parse pdf", err)
	}
	return e.collect(ctx, pages)
}

func (e *Extractor) collect(ctx context.Context, pages pageSource) (domain.Extraction, error) {
	total := pages.NumPage()
	out := domain.Extraction{Pages: total, SkippedPages: []int{}}

	var b strings.Builder
	for n := 1; n <= total; n++ {
		if err := ctx.Err(); err != nil {
			return domain.Extraction{}, err
		}

		text, err := pages.PageText(n)
		if err != nil || text == "" {
			out.SkippedPages = append(out.SkippedPages, n)
			attrs := []any{"page", n, "pages", total}
			if err != nil {
				attrs = append(attrs, "error", err)
			}
			e.logger.WarnContext(ctx, "pdf_page_without_text", attrs...)
			continue
		}
		b.WriteString(text)
		b.WriteByte('\n')
	}

	out.Text = b.String()
	return out, nil
}

type readerPages struct {
	reader *pdf.Reader
	count  int
}

// openPages parses the cross-reference table and page tree. The pdf package
// panics on some corrupt inputs, so panics are turned into errors.
func openPages(data []byte) (_ pageSource, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf reader panic: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}
	return readerPages{reader: reader, count: reader.NumPage()}, nil
}

func (p readerPages) NumPage() int {
	return p.count
}

func (p readerPages) PageText(n int) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("page %d: %v", n, r)
		}
	}()

	page := p.reader.Page(n)
	if page.V.IsNull() {
		return "", errNullPage
	}
	return page.GetPlainText(nil)
}
