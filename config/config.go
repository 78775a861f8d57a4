package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port   string
	Env    string
	AppURL string
	DBUrl  string
	// Supabase identity
	SupabaseUrl       string
	SupabaseKey       string
	SupabaseJWTSecret string
	AuthMode          string // "jwt" verifies locally, "remote" asks Supabase
	// Redis/Upstash Configuration
	UpstashRedisURL      string
	UpstashRedisPassword string
	FingerprintSalt      string
	CacheBackend         string // "redis", "postgres" or "memory"
	// LLM
	LLMProvider  string
	LLMModel     string
	GeminiAPIKey string
	OpenAIAPIKey string
	// Job search aggregator
	JobSearchAPIURL  string
	JobSearchAPIKey  string
	JobSearchAPIHost string
	JobSearchTimeout time.Duration
	// Stripe
	StripeSecretKey     string
	StripeWebhookSecret string
	StripePricePro      string
	StripePriceMax      string
	// SMTP Configuration
	SMTPHost      string
	SMTPPort      string
	SMTPUsername  string
	SMTPPassword  string
	SMTPFromEmail string
	InboxDomain   string
	// Upload archive (S3-compatible)
	S3Provider        string
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3Region          string
	S3Bucket          string
	S3Endpoint        string
	// Upload screening and request guards
	ClamAVAddress    string
	UploadsPerMinute int
	UploadsPerDay    int
	BurstPerMinute   int
	RunMigrations    bool
	// Client IP resolution. Empty means X-Forwarded-For is ignored and the socket
	// address is used.
	TrustedProxies  []string
	TrustedPlatform string
	// PDF rendering
	ChromePath string
}

func LoadConfig() (*Config, error) {
	// Load .env file (only effective locally; ignored in production when absent)
	_ = godotenv.Load()

	cfg := &Config{
		Port:   getEnv("PORT", "8080"),
		Env:    normalizeEnv(getEnv("ENV", "development")),
		AppURL: strings.TrimRight(getEnv("APP_URL", "http://localhost:3000"), "/"),
		DBUrl:  getEnv("DATABASE_URL", ""),
		// Strip trailing slash to avoid double slashes (e.g. .co//auth)
		SupabaseUrl:       strings.TrimRight(getEnv("SUPABASE_URL", ""), "/"),
		SupabaseKey:       getEnv("SUPABASE_KEY", getEnv("SUPABASE_ANON_KEY", "")),
		SupabaseJWTSecret: getEnv("SUPABASE_JWT_SECRET", ""),
		AuthMode:          strings.ToLower(getEnv("AUTH_MODE", "jwt")),

		UpstashRedisURL:      getEnv("UPSTASH_REDIS_URL", ""),
		UpstashRedisPassword: getEnv("UPSTASH_REDIS_PASSWORD", ""),
		FingerprintSalt:      getEnv("FINGERPRINT_SALT", ""),
		CacheBackend:         strings.ToLower(getEnv("CACHE_BACKEND", "redis")),

		LLMProvider:  strings.ToLower(getEnv("LLM_PROVIDER", "gemini")),
		LLMModel:     getEnv("LLM_MODEL", ""),
		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		OpenAIAPIKey: getEnv("OPENAI_API_KEY", ""),

		JobSearchAPIURL:  strings.TrimRight(getEnv("JOB_SEARCH_API_URL", "https://jsearch.p.rapidapi.com"), "/"),
		JobSearchAPIKey:  getEnv("JOB_SEARCH_API_KEY", ""),
		JobSearchAPIHost: getEnv("JOB_SEARCH_API_HOST", "jsearch.p.rapidapi.com"),
		JobSearchTimeout: getEnvDuration("JOB_SEARCH_TIMEOUT", 20*time.Second),

		StripeSecretKey:     getEnv("STRIPE_SECRET_KEY", ""),
		StripeWebhookSecret: getEnv("STRIPE_WEBHOOK_SECRET", ""),
		StripePricePro:      getEnv("STRIPE_PRICE_PRO", ""),
		StripePriceMax:      getEnv("STRIPE_PRICE_MAX", ""),

		SMTPHost:      getEnv("SMTP_HOST", "smtp-relay.brevo.com"),
		SMTPPort:      getEnv("SMTP_PORT", "587"),
		SMTPUsername:  getEnv("SMTP_USERNAME", ""),
		SMTPPassword:  getEnv("SMTP_PASSWORD", ""),
		SMTPFromEmail: getEnv("SMTP_FROM_EMAIL", "noreply@resumeai.app"),
		InboxDomain:   strings.ToLower(getEnv("INBOX_DOMAIN", "inbox.resumeai.app")),

		S3Provider:        getEnv("S3_PROVIDER", "aws"),
		S3AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
		S3SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
		S3Region:          getEnv("S3_REGION", "us-east-1"),
		S3Bucket:          getEnv("S3_UPLOAD_BUCKET", ""),
		S3Endpoint:        getEnv("S3_ENDPOINT", ""),

		ClamAVAddress:    getEnv("CLAMAV_ADDRESS", ""),
		UploadsPerMinute: getEnvInt("UPLOADS_PER_MINUTE", 5),
		UploadsPerDay:    getEnvInt("UPLOADS_PER_DAY", 30),
		BurstPerMinute:   getEnvInt("BURST_PER_MINUTE", 60),
		RunMigrations:    getEnvBool("RUN_MIGRATIONS", false),

		TrustedProxies:  getEnvList("TRUSTED_PROXIES"),
		TrustedPlatform: getEnv("TRUSTED_PLATFORM", ""),

		ChromePath: getEnv("CHROME_PATH", ""),
	}

	if cfg.DBUrl == "" {
		log.Println("WARNING: DATABASE_URL is missing. Profiles, alerts and inbox will be unavailable.")
	}
	if cfg.UpstashRedisURL == "" {
		log.Println("WARNING: UPSTASH_REDIS_URL not configured. Usage counters will use in-memory fallback.")
	}
	if cfg.FingerprintSalt == "" {
		log.Println("WARNING: FINGERPRINT_SALT not configured. Using an unsalted fingerprint digest.")
	}
	if cfg.StripeWebhookSecret == "" {
		log.Println("WARNING: STRIPE_WEBHOOK_SECRET not configured. Webhook signatures will NOT be verified (unsafe for production).")
	}

	return cfg, nil
}

// SMTPConfigured reports whether outbound email can be sent.
func (c *Config) SMTPConfigured() bool {
	return c.SMTPHost != "" && c.SMTPUsername != "" && c.SMTPPassword != ""
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}

// getEnvInt returns an integer environment variable or fallback if not set/invalid
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

// getEnvList splits a comma-separated variable, dropping empty items.
func getEnvList(key string) []string {
	var out []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// getEnvDuration accepts Go durations ("20s") or plain seconds ("20").
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return fallback
	}
	if d, err := time.ParseDuration(value); err == nil && d > 0 {
		return d
	}
	if secs := getEnvInt(key, 0); secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return fallback
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	default:
		return "development"
	}
}
