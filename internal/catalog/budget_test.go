package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phenrril/petalkids/internal/domain"
)

func TestBandRange(t *testing.T) {
	bands := []domain.BudgetBand{
		{Label: "Under 599", Slug: "under599", Min: decimal.Zero, Max: decimal.NewFromInt(599)},
		{Label: "Premium", Slug: "2000plus", Min: decimal.NewFromInt(2000), Max: decimal.NewFromInt(9999)},
	}

	r, ok := BandRange(bands, "under599")
	require.True(t, ok)
	assert.True(t, r.Max.Equal(decimal.NewFromInt(599)))

	r, ok = BandRange(bands, "2000plus")
	require.True(t, ok)
	assert.True(t, r.Max.Equal(decimal.NewFromInt(9999)), "configured band wins over the built-in one")

	r, ok = BandRange(nil, "1000-1499")
	require.True(t, ok)
	assert.True(t, r.Min.Equal(decimal.NewFromInt(1000)))
	assert.True(t, r.Max.Equal(decimal.NewFromInt(1499)))

	r, ok = BandRange(nil, "2000plus")
	require.True(t, ok)
	assert.True(t, r.Max.Equal(decimal.NewFromInt(3000)))

	_, ok = BandRange(bands, "nope")
	assert.False(t, ok)
	_, ok = BandRange(bands, "")
	assert.False(t, ok)
}
