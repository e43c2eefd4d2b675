package httpserver

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phenrril/petalkids/internal/domain"
)

func TestHealth(t *testing.T) {
	f := newFixture(t)
	var body map[string]any
	require.Equal(t, http.StatusOK, f.do(http.MethodGet, "/health", nil, &body))
	assert.Equal(t, "ok", body["status"])
	assert.EqualValues(t, 3, body["products"])
}

func TestProducts_Filters(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"no filters keeps catalog order", "", []string{"gown", "tee", "frock"}},
		{"All sentinel is ignored", "?age=All&type=all&color=All", []string{"gown", "tee", "frock"}},
		{"age matches category label", "?age=7-8", []string{"gown", "frock"}},
		{"colour is case-insensitive", "?color=pink", []string{"gown", "frock"}},
		{"size", "?size=9-10Y", []string{"gown"}},
		{"type label", "?type=Dress", []string{"frock"}},
		{"query tokens are ANDed", "?q=cotton+pink", []string{"frock"}},
		{"budget band", "?budget=under999", []string{"tee", "frock"}},
		{"explicit price range", "?min=800&max=2000", []string{"gown", "frock"}},
		{"combined", "?age=7-8&budget=1500-1999", []string{"gown"}},
		{"nothing matches", "?q=unicorn", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var list []domain.Product
			require.Equal(t, http.StatusOK, f.do(http.MethodGet, "/api/products"+tt.query, nil, &list))
			assert.Equal(t, tt.want, ids(list))
		})
	}

	var errBody errorBody
	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodGet, "/api/products?min=abc", nil, &errBody))
}

func TestProducts_Lists(t *testing.T) {
	f := newFixture(t)
	var list []domain.Product
	require.Equal(t, http.StatusOK, f.do(http.MethodGet, "/api/products/new-arrivals", nil, &list))
	assert.Equal(t, []string{"gown"}, ids(list))
	require.Equal(t, http.StatusOK, f.do(http.MethodGet, "/api/products/trending", nil, &list))
	assert.Equal(t, []string{"tee"}, ids(list))
}

func TestProductByIDAndReviews(t *testing.T) {
	f := newFixture(t)

	var rv domain.Review
	require.Equal(t, http.StatusCreated, f.do(http.MethodPost, "/api/products/gown/reviews",
		map[string]any{"name": "Meera", "rating": 5, "comment": "Twirls beautifully"}, &rv))
	assert.Equal(t, "Meera", rv.Name)

	var errBody errorBody
	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodPost, "/api/products/gown/reviews",
		map[string]any{"rating": 9}, &errBody))
	assert.Equal(t, "rating", errBody.Field)

	var p domain.Product
	require.Equal(t, http.StatusOK, f.do(http.MethodGet, "/api/products/gown", nil, &p))
	assert.Equal(t, "Rose Gown", p.Name)
	assert.Len(t, p.Reviews, 1)

	assert.Equal(t, http.StatusNotFound, f.do(http.MethodGet, "/api/products/nope", nil, nil))
}

func TestCollectionsSettingsBudgets(t *testing.T) {
	f := newFixture(t)

	var list []domain.Product
	require.Equal(t, http.StatusOK, f.do(http.MethodGet, "/api/collections/party", nil, &list))
	assert.Empty(t, list)
	assert.Equal(t, http.StatusNotFound, f.do(http.MethodGet, "/api/collections/winter", nil, nil))

	var s domain.SiteSettings
	require.Equal(t, http.StatusOK, f.do(http.MethodGet, "/api/settings", nil, &s))
	assert.NotEmpty(t, s.Hero.Title)
	assert.Len(t, s.Budgets, 6)

	var bands []domain.BudgetBand
	require.Equal(t, http.StatusOK, f.do(http.MethodGet, "/api/budgets", nil, &bands))
	assert.Equal(t, "under499", bands[0].Slug)
}

func TestDiscountLookup(t *testing.T) {
	f := newFixture(t)
	var d discountInfo
	require.Equal(t, http.StatusOK, f.do(http.MethodGet, "/api/discounts/code/magic10", nil, &d))
	assert.Equal(t, "MAGIC10", d.Code)
	assert.Equal(t, domain.DiscountPercent, d.Type)

	var errBody errorBody
	assert.Equal(t, http.StatusNotFound, f.do(http.MethodGet, "/api/discounts/code/NOPE", nil, &errBody))
	assert.Equal(t, "discountCode", errBody.Field)
}
