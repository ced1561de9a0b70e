package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
)

var defaultModels = map[string]string{
	ProviderGemini: "gemini-2.5-flash",
	ProviderOpenAI: "gpt-5-mini",
	ProviderOllama: "llama3.1:8b",
}

type Config struct {
	APIPort  string `env:"API_PORT"  envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	LogFile       string `env:"LOG_FILE"`
	LogMaxSizeMB  int    `env:"LOG_MAX_SIZE_MB"  envDefault:"10"`
	LogMaxBackups int    `env:"LOG_MAX_BACKUPS"  envDefault:"3"`
	LogMaxAgeDays int    `env:"LOG_MAX_AGE_DAYS" envDefault:"28"`

	LLMProvider   string        `env:"LLM_PROVIDER" envDefault:"gemini"`
	LLMModel      string        `env:"LLM_MODEL"`
	LLMTimeout    time.Duration `env:"LLM_TIMEOUT"  envDefault:"2m"`
	GeminiAPIKey  string        `env:"GEMINI_API_KEY"`
	GeminiBaseURL string        `env:"GEMINI_BASE_URL"`
	OpenAIAPIKey  string        `env:"OPENAI_API_KEY"`
	OpenAIBaseURL string        `env:"OPENAI_BASE_URL"`
	OllamaURL     string        `env:"OLLAMA_URL" envDefault:"http://localhost:11434"`

	// SummaryMaxChars caps the document text forwarded to the generator, in characters.
	SummaryMaxChars     int    `env:"SUMMARY_MAX_CHARS"     envDefault:"15000"`
	MaxUploadBytes      int64  `env:"MAX_UPLOAD_BYTES"      envDefault:"3145728"`
	PDFStrictValidation bool   `env:"PDF_STRICT_VALIDATION" envDefault:"false"`
	PromptTemplatesFile string `env:"PROMPT_TEMPLATES_FILE"`

	BreakerEnabled      bool          `env:"BREAKER_ENABLED"       envDefault:"true"`
	BreakerMinRequests  uint32        `env:"BREAKER_MIN_REQUESTS"  envDefault:"10"`
	BreakerFailureRatio float64       `env:"BREAKER_FAILURE_RATIO" envDefault:"0.5"`
	BreakerOpenTimeout  time.Duration `env:"BREAKER_OPEN_TIMEOUT"  envDefault:"30s"`

	APIRateLimitRPS     float64       `env:"API_RATE_LIMIT_RPS"    envDefault:"0"`
	APIRateLimitBurst   int           `env:"API_RATE_LIMIT_BURST"  envDefault:"1"`
	APIMaxInFlight      int           `env:"API_MAX_IN_FLIGHT"     envDefault:"32"`
	APIBackpressureWait time.Duration `env:"API_BACKPRESSURE_WAIT" envDefault:"50ms"`
	CORSAllowedOrigins  []string      `env:"CORS_ALLOWED_ORIGINS"  envDefault:"*" envSeparator:","`

	MCPHTTPAddr string `env:"MCP_HTTP_ADDR" envDefault:":8090"`
}

// Load reads the optional dotenv files and then the process environment.
// Variables already set in the environment win over dotenv values.
func Load(dotenvFiles ...string) (Config, error) {
	if err := loadDotEnv(dotenvFiles...); err != nil {
		return Config{}, err
	}

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("parse env config: %w", err)
	}
	cfg.LLMProvider = strings.ToLower(strings.TrimSpace(cfg.LLMProvider))
	if cfg.LLMModel == "" {
		cfg.LLMModel = defaultModels[cfg.LLMProvider]
	}
	return cfg, nil
}

func loadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, file := range files {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", file, err)
		}
	}
	return nil
}

// Validate checks the settings the selected provider needs.
func (c Config) Validate() error {
	var errs []error
	switch c.LLMProvider {
	case ProviderGemini:
		if c.GeminiAPIKey == "" {
			errs = append(errs, errors.New("GEMINI_API_KEY is required for provider gemini"))
		}
	case ProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			errs = append(errs, errors.New("OPENAI_API_KEY is required for provider openai"))
		}
	case ProviderOllama:
		if c.OllamaURL == "" {
			errs = append(errs, errors.New("OLLAMA_URL is required for provider ollama"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown LLM_PROVIDER %q", c.LLMProvider))
	}
	if c.SummaryMaxChars <= 0 {
		errs = append(errs, errors.New("SUMMARY_MAX_CHARS must be positive"))
	}
	if c.MaxUploadBytes <= 0 {
		errs = append(errs, errors.New("MAX_UPLOAD_BYTES must be positive"))
	}
	return errors.Join(errs...)
}
