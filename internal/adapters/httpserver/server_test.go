package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/phenrril/petalkids/internal/adapters/repo/memory"
	"github.com/phenrril/petalkids/internal/cart"
	"github.com/phenrril/petalkids/internal/catalog"
	"github.com/phenrril/petalkids/internal/discount"
	"github.com/phenrril/petalkids/internal/domain"
	"github.com/phenrril/petalkids/internal/settings"
	"github.com/phenrril/petalkids/internal/usecase"
)

// flakyOrders lets a test take the order store down.
type flakyOrders struct {
	*memory.OrderRepo
	down bool
}

func (f *flakyOrders) Save(ctx context.Context, o *domain.Order) error {
	if f.down {
		return errors.New("connection refused")
	}
	return f.OrderRepo.Save(ctx, o)
}

// countingCodes records how often checkout reaches the discount store.
type countingCodes struct {
	discount.Source
	n atomic.Int64
}

func (c *countingCodes) LookupCode(ctx context.Context, code string) (*domain.DiscountCode, error) {
	c.n.Add(1)
	return c.Source.LookupCode(ctx, code)
}

type fixture struct {
	t      *testing.T
	srv    *httptest.Server
	client *http.Client

	products *memory.ProductRepo
	orders   *flakyOrders
	codes    *memory.DiscountRepo
	lookups  *countingCodes
	store    *catalog.Store
}

func seedProducts() []domain.Product {
	old := time.Now().Add(-time.Hour)
	return []domain.Product{
		{
			ID: "gown", Name: "Rose Gown", Description: "Layered tulle party gown",
			Price: decimal.NewFromInt(1997), Category: "Ages 7-8", Type: "Gown", Occasion: "Party",
			Sizes: []string{"7-8Y", "9-10Y"}, Colors: []string{"Pink", "Ivory"}, Stock: map[string]int{"7-8Y": 2},
			IsNewArrival: true, CreatedAt: old.Add(2 * time.Minute),
		},
		{
			ID: "tee", Name: "Rainbow Tee", Description: "Soft cotton tee",
			Price: decimal.NewFromInt(450), Category: "Ages 9-10", Type: "Top", Occasion: "Casual",
			Colors: []string{"White"}, IsTrending: true, CreatedAt: old.Add(time.Minute),
		},
		{
			ID: "frock", Name: "Floral Frock", Description: "Cotton frock with pink roses",
			Price: decimal.NewFromInt(899), Category: "Ages 7-8", Type: "Dress", Occasion: "Birthday",
			Colors: []string{"Pink"}, CreatedAt: old,
		},
	}
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	products := memory.NewProductRepo(seedProducts()...)
	orders := &flakyOrders{OrderRepo: memory.NewOrderRepo()}
	codes := memory.NewDiscountRepo(
		domain.DiscountCode{Code: "MAGIC10", Type: domain.DiscountPercent, Value: decimal.NewFromInt(10)},
		domain.DiscountCode{Code: "WELCOME5", Type: domain.DiscountAmount, Value: decimal.NewFromInt(5)},
	)
	audience := memory.NewAudienceRepo()

	productUC := &usecase.ProductUC{Products: products}
	discountUC := &usecase.DiscountUC{Codes: codes}
	store := catalog.NewStore(productUC, time.Second)
	store.Refresh(context.Background())
	lookups := &countingCodes{Source: discountUC}

	h := New(Options{
		Products:    productUC,
		Orders:      &usecase.OrderUC{Orders: orders, Discounts: codes},
		Discounts:   discountUC,
		Audience:    &usecase.AudienceUC{Repo: audience},
		Collections: &usecase.CollectionUC{Collections: memory.NewCollectionRepo(products), Products: products},
		Media:       &usecase.MediaUC{Storage: &memStorage{}},
		Catalog:     store,
		Settings:    settings.NewProvider(memory.NewSettingsRepo()),
		Resolver:    discount.NewResolver(lookups),
		Cart:        cart.NewCodec("test-session-key", false),
		AdminUser:   "admin",
		AdminPass:   "secret",
		AdminSecret: "test-admin-secret",
		AdminTTL:    time.Hour,
	})
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &fixture{
		t: t, srv: srv, client: &http.Client{Jar: jar},
		products: products, orders: orders, codes: codes, lookups: lookups, store: store,
	}
}

// do sends a JSON request and decodes a JSON response into out when given.
func (f *fixture) do(method, path string, body any, out any, headers ...string) int {
	f.t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(f.t, err)
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, f.srv.URL+path, rd)
	require.NoError(f.t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp, err := f.client.Do(req)
	require.NoError(f.t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(f.t, json.NewDecoder(resp.Body).Decode(out), "%s %s", method, path)
	}
	return resp.StatusCode
}

func (f *fixture) login() string {
	f.t.Helper()
	var out struct {
		Token string `json:"token"`
	}
	code := f.do(http.MethodPost, "/api/auth/admin-login", map[string]string{"user": "admin", "pass": "secret"}, &out)
	require.Equal(f.t, http.StatusOK, code)
	require.NotEmpty(f.t, out.Token)
	return out.Token
}

type memStorage struct{ n int }

func (m *memStorage) SaveImage(_ context.Context, name string, _ []byte) (string, error) {
	m.n++
	return "/uploads/" + name, nil
}

func (m *memStorage) Delete(context.Context, string) error { return nil }

func ids(list []domain.Product) []string {
	out := make([]string, len(list))
	for i, p := range list {
		out[i] = p.ID
	}
	return out
}
