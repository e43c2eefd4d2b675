package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phenrril/petalkids/internal/config"
	"github.com/phenrril/petalkids/internal/domain"
)

func memoryConfig(t *testing.T) *config.Config {
	return &config.Config{
		Server:     config.ServerConfig{BaseURL: "http://localhost:8080", WriteTimeout: 10 * time.Second},
		DB:         config.DBConfig{DSN: MemoryDSN},
		Storage:    config.StorageConfig{Dir: t.TempDir(), PublicURL: "/uploads"},
		Admin:      config.AdminConfig{User: "admin", Pass: "pw", JWTSecret: "s", TokenTTL: time.Hour},
		Catalog:    config.CatalogConfig{RefreshInterval: time.Minute, FetchTimeout: time.Second},
		Settings:   config.SettingsConfig{RefreshInterval: time.Minute},
		SessionKey: "k",
		AppEnv:     "development",
	}
}

func TestNewApp_MemoryMode(t *testing.T) {
	a, err := NewApp(memoryConfig(t), nil)
	require.NoError(t, err)
	assert.Nil(t, a.OAuthConfig, "google sign-in stays off without credentials")
	require.NoError(t, a.MigrateAndSeed(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	a.Start(ctx)

	srv := httptest.NewServer(a.HTTPHandler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	var health map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	assert.EqualValues(t, len(sampleProducts()), health["products"])

	resp2, err := http.Get(srv.URL + "/api/products?age=5-6")
	require.NoError(t, err)
	defer resp2.Body.Close()
	var list []domain.Product
	require.NoError(t, json.NewDecoder(resp2.Body).Decode(&list))
	require.Len(t, list, 2)
	assert.Equal(t, "rainbow-tee", list[0].ID)
	assert.Equal(t, "denim-pinafore", list[1].ID)

	resp3, err := http.Get(srv.URL + "/api/discounts/code/magic10")
	require.NoError(t, err)
	resp3.Body.Close()
	assert.Equal(t, http.StatusOK, resp3.StatusCode)
}

func TestNewApp_GoogleRedirect(t *testing.T) {
	cfg := memoryConfig(t)
	cfg.Server.BaseURL = "https://shop.example.com/"
	cfg.Google = config.GoogleConfig{ClientID: "id", ClientSecret: "secret"}

	a, err := NewApp(cfg, nil)
	require.NoError(t, err)
	require.NotNil(t, a.OAuthConfig)
	assert.Equal(t, "https://shop.example.com/auth/google/callback", a.OAuthConfig.RedirectURL)
}

func TestSampleCatalog(t *testing.T) {
	seen := map[string]bool{}
	for _, p := range sampleProducts() {
		assert.False(t, seen[p.ID], "duplicate id %s", p.ID)
		seen[p.ID] = true
		assert.NotEmpty(t, p.Name)
		assert.True(t, p.Price.IsPositive(), p.ID)
		for size := range p.Stock {
			assert.True(t, p.OffersSize(size), "%s stocks unknown size %s", p.ID, size)
		}
	}
}
