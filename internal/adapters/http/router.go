package httpadapter

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/kirillkom/pdf-summarizer/internal/config"
	"github.com/kirillkom/pdf-summarizer/internal/core/domain"
	"github.com/kirillkom/pdf-summarizer/internal/core/ports"
	"github.com/kirillkom/pdf-summarizer/internal/observability/metrics"
)

const (
	// multipartOverhead covers boundaries, headers and the small text fields.
	multipartOverhead  = 64 << 10
	multipartMemoryMax = 8 << 20
	defaultUploadLimit = 3 << 20
)

type Router struct {
	summarizer  ports.DocumentSummarizer
	catalog     ports.TemplateCatalog
	httpMetrics *metrics.HTTPServerMetrics
	logger      *slog.Logger

	maxUploadBytes     int64
	rateLimitRPS       float64
	rateLimitBurst     int
	maxInFlight        int
	backpressureWait   time.Duration
	corsAllowedOrigins []string
}

func NewRouter(
	cfg config.Config,
	summarizer ports.DocumentSummarizer,
	catalog ports.TemplateCatalog,
	httpMetrics *metrics.HTTPServerMetrics,
	logger *slog.Logger,
) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	maxUpload := cfg.MaxUploadBytes
	if maxUpload <= 0 {
		maxUpload = defaultUploadLimit
	}
	return &Router{
		summarizer:         summarizer,
		catalog:            catalog,
		httpMetrics:        httpMetrics,
		logger:             logger,
		maxUploadBytes:     maxUpload,
		rateLimitRPS:       cfg.APIRateLimitRPS,
		rateLimitBurst:     cfg.APIRateLimitBurst,
		maxInFlight:        cfg.APIMaxInFlight,
		backpressureWait:   cfg.APIBackpressureWait,
		corsAllowedOrigins: cfg.CORSAllowedOrigins,
	}
}

func (rt *Router) Handler() (http.Handler, error) {
	apiRouter, err := loadOpenAPIRouter()
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", rt.healthz)
	mux.HandleFunc("GET /openapi.yaml", rt.openAPISpec)
	mux.HandleFunc("GET /v1/templates", rt.listTemplates)
	mux.HandleFunc("POST /v1/summaries", rt.summarize)
	mux.HandleFunc("POST /summarize", rt.summarize)
	if rt.httpMetrics != nil {
		mux.Handle("GET /metrics", rt.httpMetrics.Handler())
	}

	var handler http.Handler = mux
	handler = openAPIValidationMiddleware(handler, apiRouter)
	handler = backpressureMiddleware(handler, rt.maxInFlight, rt.backpressureWait)
	handler = rateLimitMiddleware(handler, rt.rateLimitRPS, rt.rateLimitBurst)
	handler = corsMiddleware(handler, rt.corsAllowedOrigins)
	if rt.httpMetrics != nil {
		handler = rt.httpMetrics.Middleware("api", handler)
	}
	handler = accessLogMiddleware(rt.logger, handler)
	handler = requestIDMiddleware(handler)
	handler = recoverMiddleware(rt.logger, handler)
	return handler, nil
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) openAPISpec(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(openAPIDocument)
}

type templateCatalogResponse struct {
	Styles          []domain.Style    `json:"styles"`
	Languages       []domain.Language `json:"languages"`
	DefaultStyle    domain.Style      `json:"default_style"`
	DefaultLanguage domain.Language   `json:"default_language"`
}

func (rt *Router) listTemplates(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, templateCatalogResponse{
		Styles:          rt.catalog.Styles(),
		Languages:       rt.catalog.Languages(),
		DefaultStyle:    domain.DefaultStyle,
		DefaultLanguage: domain.DefaultLanguage,
	})
}

func (rt *Router) summarize(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, rt.maxUploadBytes+multipartOverhead)
	if err := r.ParseMultipartForm(multipartMemoryMax); err != nil {
		writeError(w, uploadError(err))
		return
	}
	defer func() {
		_ = r.MultipartForm.RemoveAll()
	}()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, uploadError(err))
		return
	}
	defer file.Close()

	data, err := readUpload(file, rt.maxUploadBytes)
	if err != nil {
		writeError(w, err)
		return
	}

	summary, err := rt.summarizer.Summarize(r.Context(), ports.SummarizeRequest{
		Document: domain.Document{Filename: header.Filename, Data: data},
		Language: r.FormValue("language"),
		Style:    r.FormValue("style"),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// readUpload reads at most limit+1 bytes so that an oversized file is reported
// by the use case without buffering the rest of it.
func readUpload(file multipart.File, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(file, limit+1))
	if err != nil {
		return nil, uploadError(err)
	}
	return data, nil
}

func uploadError(err error) error {
	var maxBytesErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxBytesErr), errors.Is(err, multipart.ErrMessageTooLarge):
		return domain.WrapError(domain.ErrDocumentTooLarge, "read upload", err)
	case errors.Is(err, http.ErrMissingFile):
		return domain.NewError(domain.ErrNoInput, "read upload", "multipart field 'file' is required")
	case errors.Is(err, http.ErrNotMultipart):
		return domain.WrapError(domain.ErrNoInput, "read upload", fmt.Errorf("expected multipart/form-data: %w", err))
	default:
		return domain.WrapError(domain.ErrInvalidInput, "read upload", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
