package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func missingDotEnv(t *testing.T) string {
	return filepath.Join(t.TempDir(), "absent.env")
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "")
	t.Setenv("LLM_MODEL", "")
	t.Setenv("SUMMARY_MAX_CHARS", "")
	t.Setenv("MAX_UPLOAD_BYTES", "")

	cfg, err := Load(missingDotEnv(t))
	require.NoError(t, err)

	assert.Equal(t, ProviderGemini, cfg.LLMProvider)
	assert.Equal(t, "gemini-2.5-flash", cfg.LLMModel)
	assert.Equal(t, 15000, cfg.SummaryMaxChars)
	assert.Equal(t, int64(3<<20), cfg.MaxUploadBytes)
	assert.Equal(t, 2*time.Minute, cfg.LLMTimeout)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.True(t, cfg.BreakerEnabled)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "Ollama")
	t.Setenv("LLM_MODEL", "")
	t.Setenv("SUMMARY_MAX_CHARS", "12000")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,https://app.example.com")
	t.Setenv("BREAKER_OPEN_TIMEOUT", "5s")

	cfg, err := Load(missingDotEnv(t))
	require.NoError(t, err)

	assert.Equal(t, ProviderOllama, cfg.LLMProvider)
	assert.Equal(t, "llama3.1:8b", cfg.LLMModel)
	assert.Equal(t, 12000, cfg.SummaryMaxChars)
	assert.Equal(t, []string{"http://localhost:3000", "https://app.example.com"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 5*time.Second, cfg.BreakerOpenTimeout)
}

func TestLoadReadsDotEnvWithoutOverridingEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("PDFSUM_TEST_DOTENV_KEY=from-file\nAPI_PORT=9999\n"), 0o600))
	t.Setenv("API_PORT", "7070")
	t.Cleanup(func() { _ = os.Unsetenv("PDFSUM_TEST_DOTENV_KEY") })

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "7070", cfg.APIPort)
	assert.Equal(t, "from-file", os.Getenv("PDFSUM_TEST_DOTENV_KEY"))
}

func TestLoadRejectsBadNumber(t *testing.T) {
	t.Setenv("SUMMARY_MAX_CHARS", "lots")
	_, err := Load(missingDotEnv(t))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Config{LLMProvider: ProviderGemini, SummaryMaxChars: 15000, MaxUploadBytes: 1}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GEMINI_API_KEY")

	cfg.GeminiAPIKey = "key"
	assert.NoError(t, cfg.Validate())

	cfg.LLMProvider = "bard"
	assert.ErrorContains(t, cfg.Validate(), "unknown LLM_PROVIDER")

	cfg = Config{LLMProvider: ProviderOllama, OllamaURL: "http://localhost:11434", SummaryMaxChars: 0, MaxUploadBytes: 1}
	assert.ErrorContains(t, cfg.Validate(), "SUMMARY_MAX_CHARS")
}
