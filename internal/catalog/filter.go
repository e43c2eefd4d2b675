package catalog

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/phenrril/petalkids/internal/domain"
)

// PriceRange is inclusive on both ends.
type PriceRange struct {
	Min decimal.Decimal
	Max decimal.Decimal
}

// Contains reports whether v lies between Min and Max.
func (r PriceRange) Contains(v decimal.Decimal) bool {
	return v.GreaterThanOrEqual(r.Min) && v.LessThanOrEqual(r.Max)
}

// Criteria narrows a catalog. A nil field does not filter on that dimension.
type Criteria struct {
	Price    *PriceRange
	Age      *string
	Type     *string
	Occasion *string
	Color    *string
	Size     *string
	Query    string
}

// Active counts the criteria that will be evaluated.
func (c Criteria) Active() int {
	n := 0
	for _, on := range []bool{c.Price != nil, c.Age != nil, c.Type != nil, c.Occasion != nil, c.Color != nil, c.Size != nil, strings.TrimSpace(c.Query) != ""} {
		if on {
			n++
		}
	}
	return n
}

// Filter returns the products matching every active criterion, in their
// original order.
func Filter(products []domain.Product, c Criteria) []domain.Product {
	tokens := strings.Fields(strings.ToLower(c.Query))
	out := make([]domain.Product, 0, len(products))
	for i := range products {
		if c.matches(&products[i], tokens) {
			out = append(out, products[i])
		}
	}
	return out
}

func (c Criteria) matches(p *domain.Product, tokens []string) bool {
	if c.Price != nil && !c.Price.Contains(p.Price) {
		return false
	}
	// Age bands are only encoded in the category label ("Ages 7-10").
	if c.Age != nil && !strings.Contains(p.Category, *c.Age) {
		return false
	}
	if c.Type != nil && !labelOrCategory(p.Type, p.Category, *c.Type) {
		return false
	}
	if c.Occasion != nil && !labelOrCategory(p.Occasion, p.Category, *c.Occasion) {
		return false
	}
	if c.Color != nil {
		joined := strings.ToLower(strings.Join(p.Colors, ","))
		if !strings.Contains(joined, strings.ToLower(*c.Color)) {
			return false
		}
	}
	if c.Size != nil && !p.OffersSize(*c.Size) {
		return false
	}
	if len(tokens) > 0 {
		text := strings.ToLower(p.Name + " " + p.Description + " " + p.Materials)
		for _, tok := range tokens {
			if !strings.Contains(text, tok) {
				return false
			}
		}
	}
	return true
}

func labelOrCategory(label, category, want string) bool {
	if label != "" && strings.EqualFold(label, want) {
		return true
	}
	return want != "" && strings.Contains(category, want)
}
