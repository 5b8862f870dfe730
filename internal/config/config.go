// Package config provides application configuration loaded from environment
// variables with defaults and validation. It centralizes application settings
// such as server timeouts, logging, database paths, scanner and email
// collaborator credentials, rate limiting, and observability.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// CORSConfig defines Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string
}

// SecurityConfig defines security-related settings such as HSTS.
type SecurityConfig struct {
	EnableHSTS bool
	HSTSMaxAge time.Duration
}

// OTELConfig defines OpenTelemetry observability settings.
type OTELConfig struct {
	Enabled     bool    // OTEL_ENABLED
	Endpoint    string  // OTEL_EXPORTER_OTLP_ENDPOINT (e.g. "otel:4317")
	Insecure    bool    // OTEL_EXPORTER_OTLP_INSECURE (true if no TLS)
	ServiceName string  // OTEL_SERVICE_NAME (e.g. "go-phishsim-backend")
	SampleRatio float64 // OTEL_TRACES_SAMPLER_ARG in [0..1]
}

// ScannerConfig defines the URL-reputation scanner collaborator settings.
type ScannerConfig struct {
	BaseURL      string        // SCANNER_BASE_URL
	APIKey       string        // SCANNER_API_KEY (opaque secret)
	HTTPTimeout  time.Duration // SCANNER_HTTP_TIMEOUT, per-request transport cap
	PollInterval time.Duration // SCAN_POLL_INTERVAL, pause between status polls
	MaxWait      time.Duration // SCAN_MAX_WAIT, ceiling on total scan wait
	ContentURL   string        // CONTENT_SCAN_URL, email content-scan endpoint
}

// EmailConfig defines the notification-delivery collaborator settings.
type EmailConfig struct {
	BaseURL     string        // EMAIL_BASE_URL
	ServiceID   string        // EMAIL_SERVICE_ID
	PublicKey   string        // EMAIL_PUBLIC_KEY
	PrivateKey  string        // EMAIL_PRIVATE_KEY (opaque secret)
	HTTPTimeout time.Duration // EMAIL_HTTP_TIMEOUT
	ReceiptTTL  time.Duration // EMAIL_RECEIPT_TTL, replay window for retries
}

// Config holds all configuration values for the application.
type Config struct {
	// Server
	Port              string        // just the number
	ReadTimeout       time.Duration // e.g. 15s
	ReadHeaderTimeout time.Duration // e.g. 10s
	WriteTimeout      time.Duration // must exceed Scanner.MaxWait (blocking scans)
	IdleTimeout       time.Duration // e.g. 60s
	MaxHeaderBytes    int           // bytes
	GinMode           string        // debug|release|test

	// Logging / Docs
	LogLevel       string // debug|info|warn|error|fatal|panic
	LogPretty      bool   // pretty console logs in dev
	SwaggerEnabled bool   // enable Swagger UI route

	// App
	DBPath string // SQLite path

	// Collaborators
	Scanner ScannerConfig
	Email   EmailConfig

	// Rate limiting
	RateRPS   float64 // tokens per second (>= 0)
	RateBurst int     // bucket size (>= 1)

	// Web protection
	CORS     CORSConfig
	Security SecurityConfig

	// Observability
	OTEL OTELConfig
}

// MustLoad loads the configuration and panics if validation fails.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads configuration from environment variables,
// applies defaults, normalizes values, and validates the result.
func Load() (Config, error) {
	cfg := Config{
		// Server
		Port:              getenv("PORT", "3001"),
		ReadTimeout:       getdur("READ_TIMEOUT", 15*time.Second),
		ReadHeaderTimeout: getdur("READ_HEADER_TIMEOUT", 10*time.Second),
		WriteTimeout:      getdur("WRITE_TIMEOUT", 90*time.Second),
		IdleTimeout:       getdur("IDLE_TIMEOUT", 60*time.Second),
		MaxHeaderBytes:    getint("MAX_HEADER_BYTES", 1<<20),
		GinMode:           strings.ToLower(getenv("GIN_MODE", "release")),

		// Logging / Docs
		LogLevel:       strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogPretty:      getbool("LOG_PRETTY", false),
		SwaggerEnabled: getbool("SWAGGER_ENABLED", false),

		// App
		DBPath: getenv("DB_PATH", "phishsim.db"),

		// Collaborators
		Scanner: ScannerConfig{
			BaseURL:      getenv("SCANNER_BASE_URL", "https://developers.checkphish.ai"),
			APIKey:       getenv("SCANNER_API_KEY", ""),
			HTTPTimeout:  getdur("SCANNER_HTTP_TIMEOUT", 15*time.Second),
			PollInterval: getdur("SCAN_POLL_INTERVAL", time.Second),
			MaxWait:      getdur("SCAN_MAX_WAIT", 60*time.Second),
			ContentURL:   getenv("CONTENT_SCAN_URL", ""),
		},
		Email: EmailConfig{
			BaseURL:     getenv("EMAIL_BASE_URL", "https://api.emailjs.com"),
			ServiceID:   getenv("EMAIL_SERVICE_ID", ""),
			PublicKey:   getenv("EMAIL_PUBLIC_KEY", ""),
			PrivateKey:  getenv("EMAIL_PRIVATE_KEY", ""),
			HTTPTimeout: getdur("EMAIL_HTTP_TIMEOUT", 15*time.Second),
			ReceiptTTL:  getdur("EMAIL_RECEIPT_TTL", 24*time.Hour),
		},

		// Rate limiting
		RateRPS:   getfloat("RATE_RPS", 5.0),
		RateBurst: getint("RATE_BURST", 10),

		// Web protection
		CORS: CORSConfig{
			AllowedOrigins: splitCSV(getenv("CORS_ALLOWED_ORIGINS", "")),
		},
		Security: SecurityConfig{
			EnableHSTS: getbool("ENABLE_HSTS", false),
			HSTSMaxAge: getdur("HSTS_MAX_AGE", 180*24*time.Hour),
		},

		// Observability (OpenTelemetry)
		OTEL: OTELConfig{
			Enabled:     getbool("OTEL_ENABLED", false),
			Endpoint:    getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			Insecure:    getbool("OTEL_EXPORTER_OTLP_INSECURE", true),
			ServiceName: getenv("OTEL_SERVICE_NAME", "go-phishsim-backend"),
			SampleRatio: getfloat("OTEL_TRACES_SAMPLER_ARG", 1.0),
		},
	}

	// --- normalization ---
	if cfg.LogLevel == "warning" {
		cfg.LogLevel = "warn"
	}
	switch cfg.GinMode {
	case "debug", "release", "test":
	default:
		cfg.GinMode = "release"
	}

	// --- validation ---
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error", "fatal", "panic":
	default:
		return cfg, errors.New("LOG_LEVEL must be one of: debug, info, warn, error, fatal, panic")
	}
	if strings.TrimSpace(cfg.Port) == "" {
		return cfg, errors.New("PORT must not be empty")
	}
	if cfg.ReadTimeout <= 0 || cfg.ReadHeaderTimeout <= 0 || cfg.WriteTimeout <= 0 || cfg.IdleTimeout <= 0 {
		return cfg, errors.New("timeouts must be positive durations")
	}
	if cfg.MaxHeaderBytes <= 0 {
		return cfg, errors.New("MAX_HEADER_BYTES must be > 0")
	}
	if strings.TrimSpace(cfg.DBPath) == "" {
		return cfg, errors.New("DB_PATH must not be empty")
	}
	if strings.TrimSpace(cfg.Scanner.BaseURL) == "" {
		return cfg, errors.New("SCANNER_BASE_URL must not be empty")
	}
	if cfg.Scanner.PollInterval <= 0 {
		return cfg, errors.New("SCAN_POLL_INTERVAL must be > 0")
	}
	if cfg.Scanner.MaxWait <= 0 {
		return cfg, errors.New("SCAN_MAX_WAIT must be > 0")
	}
	if cfg.WriteTimeout <= cfg.Scanner.MaxWait {
		// /scan-url holds the connection for up to MaxWait.
		return cfg, errors.New("WRITE_TIMEOUT must exceed SCAN_MAX_WAIT")
	}
	if strings.TrimSpace(cfg.Email.BaseURL) == "" {
		return cfg, errors.New("EMAIL_BASE_URL must not be empty")
	}
	if cfg.Email.ReceiptTTL <= 0 {
		return cfg, errors.New("EMAIL_RECEIPT_TTL must be > 0")
	}
	if cfg.RateRPS < 0 {
		return cfg, errors.New("RATE_RPS must be >= 0")
	}
	if cfg.RateBurst < 1 {
		return cfg, errors.New("RATE_BURST must be >= 1")
	}
	if cfg.Security.HSTSMaxAge < 0 {
		return cfg, errors.New("HSTS_MAX_AGE must be >= 0")
	}
	if cfg.OTEL.SampleRatio < 0 || cfg.OTEL.SampleRatio > 1 {
		return cfg, errors.New("OTEL_TRACES_SAMPLER_ARG must be in [0,1]")
	}

	return cfg, nil
}

// ---- helpers (no external deps) ----

func getenv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		return v
	}
	return def
}

func getfloat(k string, def float64) float64 {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getint(k string, def int) int {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return def
}

func getdur(k string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		t := strings.TrimSpace(p)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}
