package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds everything the service reads from the environment.
type Config struct {
	Server   ServerConfig
	DB       DBConfig
	Storage  StorageConfig
	Admin    AdminConfig
	Google   GoogleConfig
	OpenAI   OpenAIConfig
	Mail     MailConfig
	Catalog  CatalogConfig
	Settings SettingsConfig

	SessionKey  string
	CORSOrigins []string
	LogLevel    string
	AppEnv      string
}

type ServerConfig struct {
	Host            string
	Port            string
	BaseURL         string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

type DBConfig struct {
	DSN string
}

type StorageConfig struct {
	Dir       string
	PublicURL string
}

type AdminConfig struct {
	User          string
	Pass          string
	JWTSecret     string
	AllowedEmails []string
	TokenTTL      time.Duration
}

type GoogleConfig struct {
	ClientID     string
	ClientSecret string
}

// Enabled reports whether Google sign-in for the back office is configured.
func (g GoogleConfig) Enabled() bool {
	return g.ClientID != "" && g.ClientSecret != ""
}

// OpenAIConfig enables rewriting of scraped product copy.
type OpenAIConfig struct {
	APIKey string
	Model  string
}

// MailConfig is the SMTP relay for order and contact notifications. Mail is
// off unless a host and sender are set.
type MailConfig struct {
	Host   string
	Port   int
	User   string
	Pass   string
	From   string
	Notify string
}

func (m MailConfig) Enabled() bool {
	return m.Host != "" && m.From != ""
}

type CatalogConfig struct {
	RefreshInterval time.Duration
	FetchTimeout    time.Duration
}

type SettingsConfig struct {
	RefreshInterval time.Duration
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host:            getEnv("HOST", "0.0.0.0"),
			Port:            getEnv("PORT", "8080"),
			BaseURL:         getEnv("BASE_URL", "http://localhost:8080"),
			ReadTimeout:     getEnvAsDuration("READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getEnvAsDuration("WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		DB: DBConfig{DSN: databaseDSN()},
		Storage: StorageConfig{
			Dir:       getEnv("STORAGE_DIR", "uploads"),
			PublicURL: getEnv("STORAGE_PUBLIC_URL", "/uploads"),
		},
		Admin: AdminConfig{
			User:          getEnv("ADMIN_USER", "admin"),
			Pass:          getEnv("ADMIN_PASS", "admin123"),
			JWTSecret:     firstEnv("dev-admin-secret", "JWT_ADMIN_SECRET", "SECRET_KEY"),
			AllowedEmails: lowerAll(getEnvAsSlice("ADMIN_ALLOWED_EMAILS", nil)),
			TokenTTL:      getEnvAsDuration("ADMIN_TOKEN_TTL", 6*time.Hour),
		},
		Google: GoogleConfig{
			ClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
			ClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		},
		OpenAI: OpenAIConfig{
			APIKey: os.Getenv("OPENAI_API_KEY"),
			Model:  getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		},
		Mail: MailConfig{
			Host:   os.Getenv("SMTP_HOST"),
			Port:   getEnvAsInt("SMTP_PORT", 587),
			User:   os.Getenv("SMTP_USER"),
			Pass:   os.Getenv("SMTP_PASS"),
			From:   os.Getenv("MAIL_FROM"),
			Notify: os.Getenv("MAIL_NOTIFY"),
		},
		Catalog: CatalogConfig{
			RefreshInterval: getEnvAsDuration("CATALOG_REFRESH_INTERVAL", 5*time.Minute),
			FetchTimeout:    getEnvAsDuration("CATALOG_FETCH_TIMEOUT", 10*time.Second),
		},
		Settings: SettingsConfig{
			RefreshInterval: getEnvAsDuration("SETTINGS_REFRESH_INTERVAL", time.Minute),
		},
		SessionKey:  getEnv("SESSION_KEY", "dev-insecure"),
		CORSOrigins: getEnvAsSlice("CORS_ORIGINS", []string{"*"}),
		LogLevel:    strings.ToLower(getEnv("LOG_LEVEL", "info")),
		AppEnv:      strings.ToLower(getEnv("APP_ENV", "development")),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if c.DB.DSN == "" {
		return fmt.Errorf("database DSN is required")
	}
	if c.Catalog.RefreshInterval <= 0 || c.Settings.RefreshInterval <= 0 {
		return fmt.Errorf("refresh intervals must be positive")
	}
	if c.Catalog.FetchTimeout <= 0 {
		return fmt.Errorf("CATALOG_FETCH_TIMEOUT must be positive")
	}
	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}
	if c.IsProduction() {
		if c.SessionKey == "dev-insecure" {
			return fmt.Errorf("SESSION_KEY must be set in production")
		}
		if c.Admin.JWTSecret == "dev-admin-secret" {
			return fmt.Errorf("JWT_ADMIN_SECRET must be set in production")
		}
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production" || c.AppEnv == "prod"
}

func (c *Config) Addr() string {
	return c.Server.Host + ":" + c.Server.Port
}

// databaseDSN prefers DB_DSN and otherwise assembles one from the discrete
// DB_* variables, falling back to the POSTGRES_* names used by the container image.
func databaseDSN() string {
	if dsn := strings.TrimSpace(os.Getenv("DB_DSN")); dsn != "" {
		return dsn
	}
	host := getEnv("DB_HOST", "localhost")
	port := getEnv("DB_PORT", "5432")
	user := firstEnv("postgres", "DB_USER", "POSTGRES_USER")
	pass := firstEnv("postgres", "DB_PASSWORD", "POSTGRES_PASSWORD")
	name := firstEnv("petalkids", "DB_NAME", "POSTGRES_DB")
	ssl := getEnv("DB_SSLMODE", "disable")
	return "host=" + host + " user=" + user + " password=" + pass + " dbname=" + name + " port=" + port + " sslmode=" + ssl
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func firstEnv(defaultValue string, keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return n
	}
	return defaultValue
}

// getEnvAsDuration accepts Go duration strings ("90s") or a bare number of seconds.
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(valueStr); err == nil {
		return d
	}
	if n, err := strconv.Atoi(valueStr); err == nil {
		return time.Duration(n) * time.Second
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	out := []string{}
	for _, v := range strings.Split(valueStr, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func lowerAll(in []string) []string {
	for i := range in {
		in[i] = strings.ToLower(in[i])
	}
	return in
}
