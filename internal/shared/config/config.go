package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Known placeholder values that must never reach a provider. Shipping
// these in a .env template is common, so they are treated as unconfigured.
var placeholderKeys = map[string]struct{}{
	"your-openai-api-key-here": {},
	"your-gemini-api-key-here": {},
	"changeme":                 {},
}

// Config holds application configuration.
type Config struct {
	Port            string
	CORSAllowOrigin []string
	UploadDir       string
	TemplateDir     string
	SampleDir       string
	DatabaseURL     string
	Env             string

	AnalysisStrategy string
	OpenAIAPIKey     string
	OpenAIModel      string
	GeminiAPIKey     string
	GeminiModel      string
	ChecklistTimeout time.Duration
	FreeformTimeout  time.Duration
	SessionTTL       time.Duration
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	env := normalizeEnv(getEnv("ENV", "dev"))
	dbURL := os.Getenv("DATABASE_URL")

	if env == "production" && dbURL == "" {
		log.Printf("DATABASE_URL is required in production")
	}

	return Config{
		Port:             getEnv("PORT", "8080"),
		CORSAllowOrigin:  splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")),
		UploadDir:        getEnv("UPLOAD_DIR", "./uploads"),
		TemplateDir:      getEnv("TEMPLATE_DIR", "./templates"),
		SampleDir:        getEnv("SAMPLE_DIR", "./samples"),
		DatabaseURL:      dbURL,
		Env:              env,
		AnalysisStrategy: normalizeStrategy(getEnv("ANALYSIS_STRATEGY", "checklist")),
		OpenAIAPIKey:     os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:      getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		GeminiAPIKey:     os.Getenv("GEMINI_API_KEY"),
		GeminiModel:      getEnv("GEMINI_MODEL", "gemini-pro"),
		ChecklistTimeout: getEnvSeconds("CHECKLIST_TIMEOUT_SECONDS", 30*time.Second),
		FreeformTimeout:  getEnvSeconds("FREEFORM_TIMEOUT_SECONDS", 20*time.Second),
		SessionTTL:       getEnvSeconds("SESSION_TTL_SECONDS", 30*time.Minute),
	}
}

// CredentialConfigured reports whether the given API key is usable: present
// and not a known placeholder.
func CredentialConfigured(key string) bool {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return false
	}
	_, placeholder := placeholderKeys[strings.ToLower(trimmed)]
	return !placeholder
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvSeconds(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed <= 0 {
		log.Printf("config env %s invalid seconds value %q, using default", key, raw)
		return def
	}
	return time.Duration(parsed) * time.Second
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	case "development", "dev":
		return "dev"
	default:
		return "dev"
	}
}

func normalizeStrategy(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "freeform":
		return "freeform"
	default:
		return "checklist"
	}
}
