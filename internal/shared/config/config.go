package config

import (
	"log"
	"os"
	"strconv"
	"strings"
)

// Config holds application configuration.
type Config struct {
	Port            string
	CORSAllowOrigin []string
	DatabaseURL     string
	RedisURL        string
	Env             string

	// ProjectName becomes the issuer of share tokens.
	ProjectName          string
	ShareTokenSecret     string
	ShareTokenTTLSeconds int
	ShareBaseURL         string

	SMTPHost     string
	SMTPPort     string
	SMTPUser     string
	SMTPPassword string
	EmailFrom    string

	SMSGatewayURL string
	SMSAPIKey     string
	SMSOriginator string

	WorkerBatchSize int
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
		Port:                 getEnv("PORT", "8080"),
		CORSAllowOrigin:      splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")),
		DatabaseURL:          dbURL,
		RedisURL:             getEnv("REDIS_URL", ""),
		Env:                  env,
		ProjectName:          getEnv("PROJECT_NAME", "esign"),
		ShareTokenSecret:     getEnv("SHARE_TOKEN_SECRET", ""),
		ShareTokenTTLSeconds: getEnvInt("SHARE_TOKEN_TTL_SECONDS", 7*24*3600),
		ShareBaseURL:         getEnv("SHARE_BASE_URL", "http://localhost:8080"),
		SMTPHost:             getEnv("SMTP_HOST", ""),
		SMTPPort:             getEnv("SMTP_PORT", "587"),
		SMTPUser:             getEnv("SMTP_USER", ""),
		SMTPPassword:         getEnv("SMTP_PASSWORD", ""),
		EmailFrom:            getEnv("EMAIL_FROM", "no-reply@localhost"),
		SMSGatewayURL:        getEnv("SMS_GATEWAY_URL", ""),
		SMSAPIKey:            getEnv("SMS_API_KEY", ""),
		SMSOriginator:        getEnv("SMS_ORIGINATOR", "esign"),
		WorkerBatchSize:      getEnvInt("WORKER_BATCH_SIZE", 32),
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("config: %s invalid int %q, using default %d", key, raw, def)
		return def
	}
	return val
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
