// Package config loads all runtime configuration from the environment.
// Credentials are never prompted for interactively; missing required keys
// fail fast at startup.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config carries every knob the batch driver needs.
type Config struct {
	OutputDir    string
	SKUBriefPath string

	DiffusionURL    string
	DiffusionAPIKey string

	UploadEnabled      bool
	S3Bucket           string
	S3Region           string
	S3OutputDir        string
	S3EndpointURL      string
	AWSAccessKeyID     string
	AWSSecretAccessKey string

	EmbeddingsProvider string // "openai", "ollama", or "" to disable
	EmbeddingsModel    string
	OpenAIAPIKey       string
	OllamaURL          string

	SimilarityThreshold float64
	SemanticThreshold   float64
	OCRLanguages        []string

	LogLevel slog.Level
}

// Load reads .env (if present) and the environment, applies defaults, and
// validates required keys.
func Load() (Config, error) {
	// A missing .env is fine; the environment may already be populated.
	_ = godotenv.Load()

	cfg := Config{
		OutputDir:           getEnv("OUTPUT_DIR", "output"),
		SKUBriefPath:        getEnv("SKU_BRIEF_PATH", "input/sku_brief.json"),
		DiffusionURL:        strings.TrimSpace(os.Getenv("DIFFUSION_URL")),
		DiffusionAPIKey:     strings.TrimSpace(os.Getenv("DIFFUSION_API_KEY")),
		UploadEnabled:       getEnvBool("UPLOAD_ENABLED", false),
		S3Bucket:            strings.TrimSpace(os.Getenv("S3_BUCKET_NAME")),
		S3Region:            strings.TrimSpace(os.Getenv("S3_REGION")),
		S3OutputDir:         getEnv("S3_OUTPUT_DIR", "output"),
		S3EndpointURL:       strings.TrimSpace(os.Getenv("S3_ENDPOINT_URL")),
		AWSAccessKeyID:      strings.TrimSpace(os.Getenv("AWS_ACCESS_KEY_ID")),
		AWSSecretAccessKey:  strings.TrimSpace(os.Getenv("AWS_SECRET_ACCESS_KEY")),
		EmbeddingsProvider:  strings.ToLower(getEnv("EMBEDDINGS_PROVIDER", "")),
		EmbeddingsModel:     getEnv("EMBEDDINGS_MODEL", ""),
		OpenAIAPIKey:        strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
		OllamaURL:           getEnv("OLLAMA_URL", "http://127.0.0.1:11434"),
		SimilarityThreshold: getEnvFloat("MATCH_SIMILARITY_THRESHOLD", 0.2),
		SemanticThreshold:   getEnvFloat("MATCH_SEMANTIC_THRESHOLD", 0.5),
		OCRLanguages:        splitCSV(getEnv("OCR_LANGUAGES", "eng")),
		LogLevel:            parseLevel(getEnv("LABELKIT_LOG_LEVEL", "INFO")),
	}

	if cfg.DiffusionURL == "" {
		return Config{}, errors.New("DIFFUSION_URL is required")
	}
	if cfg.UploadEnabled {
		if err := cfg.validateS3(); err != nil {
			return Config{}, err
		}
	}
	switch cfg.EmbeddingsProvider {
	case "", "openai", "ollama":
	default:
		return Config{}, fmt.Errorf("unsupported EMBEDDINGS_PROVIDER: %q", cfg.EmbeddingsProvider)
	}
	if cfg.EmbeddingsProvider == "openai" && cfg.OpenAIAPIKey == "" {
		return Config{}, errors.New("OPENAI_API_KEY is required when EMBEDDINGS_PROVIDER=openai")
	}

	return cfg, nil
}

func (c Config) validateS3() error {
	missing := make([]string, 0, 4)
	if c.S3Bucket == "" {
		missing = append(missing, "S3_BUCKET_NAME")
	}
	if c.S3Region == "" {
		missing = append(missing, "S3_REGION")
	}
	if c.AWSAccessKeyID == "" {
		missing = append(missing, "AWS_ACCESS_KEY_ID")
	}
	if c.AWSSecretAccessKey == "" {
		missing = append(missing, "AWS_SECRET_ACCESS_KEY")
	}
	if len(missing) > 0 {
		return fmt.Errorf("UPLOAD_ENABLED=true but missing: %s", strings.Join(missing, ", "))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvFloat(key string, fallback float64) float64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
