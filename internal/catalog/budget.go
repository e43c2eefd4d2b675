package catalog

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/phenrril/petalkids/internal/domain"
)

// legacyBands are used when the site settings do not define the requested slug.
var legacyBands = map[string]PriceRange{
	"under499":  {Min: decimal.Zero, Max: decimal.NewFromInt(499)},
	"under799":  {Min: decimal.Zero, Max: decimal.NewFromInt(799)},
	"under999":  {Min: decimal.Zero, Max: decimal.NewFromInt(999)},
	"1000-1499": {Min: decimal.NewFromInt(1000), Max: decimal.NewFromInt(1499)},
	"1500-1999": {Min: decimal.NewFromInt(1500), Max: decimal.NewFromInt(1999)},
	"2000plus":  {Min: decimal.NewFromInt(2000), Max: decimal.NewFromInt(3000)},
}

// BandRange maps a budget slug to its price range.
func BandRange(bands []domain.BudgetBand, slug string) (PriceRange, bool) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return PriceRange{}, false
	}
	for _, b := range bands {
		if strings.EqualFold(b.Slug, slug) {
			return PriceRange{Min: b.Min, Max: b.Max}, true
		}
	}
	r, ok := legacyBands[strings.ToLower(slug)]
	return r, ok
}
