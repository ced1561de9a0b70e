package bootstrap

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/kirillkom/pdf-summarizer/internal/config"
	"github.com/kirillkom/pdf-summarizer/internal/core/ports"
	"github.com/kirillkom/pdf-summarizer/internal/core/prompt"
	"github.com/kirillkom/pdf-summarizer/internal/core/usecase"
	"github.com/kirillkom/pdf-summarizer/internal/infrastructure/extractor/pdftext"
	"github.com/kirillkom/pdf-summarizer/internal/infrastructure/llm/gemini"
	"github.com/kirillkom/pdf-summarizer/internal/infrastructure/llm/ollama"
	"github.com/kirillkom/pdf-summarizer/internal/infrastructure/llm/openai"
	"github.com/kirillkom/pdf-summarizer/internal/infrastructure/resilience"
	"github.com/kirillkom/pdf-summarizer/internal/observability/logging"
	"github.com/kirillkom/pdf-summarizer/internal/observability/metrics"
)

type App struct {
	Config config.Config
	Logger *slog.Logger

	Registry    *prometheus.Registry
	HTTPMetrics *metrics.HTTPServerMetrics

	Templates   *prompt.Store
	SummarizeUC ports.DocumentSummarizer

	closeFn func()
}

type Options struct {
	Service string
	// LogOutput defaults to stdout. Use stderr when stdout carries a protocol.
	LogOutput io.Writer
}

func New(ctx context.Context, cfg config.Config, opts Options) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger, logCloser, err := logging.New(logging.Options{
		Service:    opts.Service,
		Level:      cfg.LogLevel,
		Output:     opts.LogOutput,
		File:       cfg.LogFile,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		MaxAgeDays: cfg.LogMaxAgeDays,
	})
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	templates := prompt.Builtin()
	if cfg.PromptTemplatesFile != "" {
		templates, err = prompt.LoadFile(cfg.PromptTemplatesFile)
		if err != nil {
			_ = logCloser.Close()
			return nil, fmt.Errorf("load prompt templates: %w", err)
		}
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	summaryMetrics := metrics.NewSummaryMetrics(opts.Service, registry)

	generator, err := newGenerator(ctx, cfg)
	if err != nil {
		_ = logCloser.Close()
		return nil, err
	}
	generator = summaryMetrics.InstrumentGenerator(cfg.LLMProvider, generator)
	executor := resilience.NewExecutor(resilience.Config{
		CallTimeout:         cfg.LLMTimeout,
		BreakerEnabled:      cfg.BreakerEnabled,
		BreakerMinRequests:  cfg.BreakerMinRequests,
		BreakerFailureRatio: cfg.BreakerFailureRatio,
		BreakerOpenTimeout:  cfg.BreakerOpenTimeout,
	}, logger)
	generator = resilience.NewGenerator(generator, executor, "llm."+cfg.LLMProvider+".generate")

	extractor := pdftext.New(logger, cfg.PDFStrictValidation)
	summarizeUC := usecase.NewSummarizeUseCase(
		usecase.SummarizeConfig{
			Model:          cfg.LLMModel,
			MaxChars:       cfg.SummaryMaxChars,
			MaxUploadBytes: cfg.MaxUploadBytes,
		},
		templates,
		extractor,
		generator,
		summaryMetrics,
		logger,
	)

	logger.Info("bootstrap_completed",
		"provider", cfg.LLMProvider,
		"model", cfg.LLMModel,
		"summary_max_chars", cfg.SummaryMaxChars,
		"strict_pdf", cfg.PDFStrictValidation,
		"templates_file", cfg.PromptTemplatesFile,
	)

	return &App{
		Config:      cfg,
		Logger:      logger,
		Registry:    registry,
		HTTPMetrics: metrics.NewHTTPServerMetrics(opts.Service, registry),
		Templates:   templates,
		SummarizeUC: summarizeUC,
		closeFn: func() {
			_ = logCloser.Close()
		},
	}, nil
}

func newGenerator(ctx context.Context, cfg config.Config) (ports.TextGenerator, error) {
	switch cfg.LLMProvider {
	case config.ProviderGemini:
		gen, err := gemini.New(ctx, cfg.GeminiAPIKey, cfg.GeminiBaseURL)
		if err != nil {
			return nil, fmt.Errorf("init gemini client: %w", err)
		}
		return gen, nil
	case config.ProviderOpenAI:
		return openai.New(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL), nil
	case config.ProviderOllama:
		return ollama.New(cfg.OllamaURL, cfg.LLMTimeout), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.LLMProvider)
	}
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
