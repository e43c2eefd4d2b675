package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DB_DSN", "")
	t.Setenv("DB_HOST", "db")
	t.Setenv("POSTGRES_USER", "shop")
	t.Setenv("APP_ENV", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 5*time.Minute, cfg.Catalog.RefreshInterval)
	assert.Contains(t, cfg.DB.DSN, "host=db")
	assert.Contains(t, cfg.DB.DSN, "user=shop")
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://x")
	t.Setenv("CATALOG_REFRESH_INTERVAL", "90s")
	t.Setenv("CATALOG_FETCH_TIMEOUT", "3")
	t.Setenv("ADMIN_ALLOWED_EMAILS", " Ops@Shop.test ,, owner@shop.test")
	t.Setenv("CORS_ORIGINS", "https://a.test,https://b.test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres://x", cfg.DB.DSN)
	assert.Equal(t, 90*time.Second, cfg.Catalog.RefreshInterval)
	assert.Equal(t, 3*time.Second, cfg.Catalog.FetchTimeout)
	assert.Equal(t, []string{"ops@shop.test", "owner@shop.test"}, cfg.Admin.AllowedEmails)
	assert.Len(t, cfg.CORSOrigins, 2)
}

func TestLoad_Mail(t *testing.T) {
	t.Setenv("DB_DSN", "memory")
	t.Setenv("APP_ENV", "")
	t.Setenv("SMTP_HOST", "")
	t.Setenv("MAIL_FROM", "shop@petalkids.in")
	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.Mail.Enabled())
	assert.Equal(t, 587, cfg.Mail.Port)

	t.Setenv("SMTP_HOST", "smtp.test")
	t.Setenv("SMTP_PORT", "2525")
	cfg, err = Load()
	require.NoError(t, err)
	assert.True(t, cfg.Mail.Enabled())
	assert.Equal(t, 2525, cfg.Mail.Port)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "missing port", mutate: func(c *Config) { c.Server.Port = "" }, wantErr: true},
		{name: "bad log level", mutate: func(c *Config) { c.LogLevel = "loud" }, wantErr: true},
		{name: "zero refresh", mutate: func(c *Config) { c.Catalog.RefreshInterval = 0 }, wantErr: true},
		{name: "production with dev session key", mutate: func(c *Config) { c.AppEnv = "production" }, wantErr: true},
		{name: "production with secrets", mutate: func(c *Config) {
			c.AppEnv = "prod"
			c.SessionKey = "s3cret"
			c.Admin.JWTSecret = "jwt"
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Config{
				Server:     ServerConfig{Port: "8080"},
				DB:         DBConfig{DSN: "dsn"},
				Admin:      AdminConfig{JWTSecret: "dev-admin-secret"},
				Catalog:    CatalogConfig{RefreshInterval: time.Minute, FetchTimeout: time.Second},
				Settings:   SettingsConfig{RefreshInterval: time.Minute},
				SessionKey: "dev-insecure",
				LogLevel:   "info",
				AppEnv:     "development",
			}
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
