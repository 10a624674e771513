package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	AppAddr            string   `mapstructure:"APP_ADDR"`
	DatabaseDSN        string   `mapstructure:"DB_DSN"`
	NotionToken        string   `mapstructure:"NOTION_TOKEN"`
	NotionBaseURL      string   `mapstructure:"NOTION_BASE_URL"`
	NotionVersion      string   `mapstructure:"NOTION_VERSION"`
	OpenLibraryBaseURL string   `mapstructure:"OPENLIBRARY_BASE_URL"`
	OpenLibraryRPS     int      `mapstructure:"OPENLIBRARY_RPS"`
	OpenLibraryRetries int      `mapstructure:"OPENLIBRARY_MAX_RETRIES"`
	UserAgent          string   `mapstructure:"USER_AGENT"`
	InternalSecret     string   `mapstructure:"INTERNAL_SECRET"`
	CORSOrigins        []string `mapstructure:"CORS_ORIGINS"`
	RateLimitRPS       float64  `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst     int      `mapstructure:"RATE_LIMIT_BURST"`
	MaxBodyBytes       int64    `mapstructure:"MAX_BODY_BYTES"`
	LogLevel           string   `mapstructure:"LOG_LEVEL"`
	LogFormat          string   `mapstructure:"LOG_FORMAT"`
	EnableHSTS         bool     `mapstructure:"ENABLE_HSTS"`
	TrustProxy         bool     `mapstructure:"TRUST_PROXY"`
}

var keys = []string{
	"APP_ADDR", "DB_DSN", "NOTION_TOKEN", "NOTION_BASE_URL", "NOTION_VERSION",
	"OPENLIBRARY_BASE_URL", "OPENLIBRARY_RPS", "OPENLIBRARY_MAX_RETRIES", "USER_AGENT",
	"INTERNAL_SECRET", "CORS_ORIGINS", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST",
	"MAX_BODY_BYTES", "LOG_LEVEL", "LOG_FORMAT", "ENABLE_HSTS", "TRUST_PROXY",
}

// LoadEnvFiles reads .env and .env.local without overriding variables that
// are already set by the runtime.
func LoadEnvFiles() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")
}

// Load builds the configuration from the environment and applies defaults.
func Load() (*Config, error) {
	LoadEnvFiles()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("APP_ADDR", ":8080")
	v.SetDefault("NOTION_BASE_URL", "https://api.notion.com")
	v.SetDefault("NOTION_VERSION", "2022-06-28")
	v.SetDefault("OPENLIBRARY_BASE_URL", "https://openlibrary.org")
	v.SetDefault("OPENLIBRARY_RPS", 1)
	v.SetDefault("OPENLIBRARY_MAX_RETRIES", 3)
	v.SetDefault("USER_AGENT", "bookregistry/1.0")
	v.SetDefault("CORS_ORIGINS", "")
	v.SetDefault("RATE_LIMIT_RPS", 5)
	v.SetDefault("RATE_LIMIT_BURST", 10)
	v.SetDefault("MAX_BODY_BYTES", 1<<20)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("ENABLE_HSTS", false)
	v.SetDefault("TRUST_PROXY", false)

	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.CORSOrigins = splitList(v.GetString("CORS_ORIGINS"))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// AuditEnabled reports whether registration attempts are persisted.
func (c *Config) AuditEnabled() bool {
	return c.DatabaseDSN != ""
}

func (c *Config) Validate() error {
	if c.RateLimitRPS <= 0 {
		return fmt.Errorf("RATE_LIMIT_RPS must be positive, got %v", c.RateLimitRPS)
	}
	if c.RateLimitBurst <= 0 {
		return fmt.Errorf("RATE_LIMIT_BURST must be positive, got %d", c.RateLimitBurst)
	}
	if c.OpenLibraryRPS <= 0 {
		return fmt.Errorf("OPENLIBRARY_RPS must be positive, got %d", c.OpenLibraryRPS)
	}
	if c.OpenLibraryRetries < 0 {
		return fmt.Errorf("OPENLIBRARY_MAX_RETRIES must not be negative, got %d", c.OpenLibraryRetries)
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("MAX_BODY_BYTES must be positive, got %d", c.MaxBodyBytes)
	}
	switch c.LogFormat {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.LogFormat)
	}
	return nil
}

// RedactedDSN hides the credentials of the database DSN for logging.
func (c *Config) RedactedDSN() string {
	return redactDSN(c.DatabaseDSN)
}

func redactDSN(dsn string) string {
	const marker = "://"
	start := strings.Index(dsn, marker)
	if start < 0 {
		return dsn
	}
	start += len(marker)
	end := strings.Index(dsn[start:], "@")
	if end < 0 {
		return dsn
	}
	return dsn[:start] + "***" + dsn[start+end:]
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
