package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Product struct {
	ID            string           `gorm:"primaryKey;size:64" json:"id"`
	Name          string           `gorm:"size:180" json:"name"`
	Description   string           `gorm:"type:text" json:"description"`
	Materials     string           `gorm:"type:text" json:"materials,omitempty"`
	Care          string           `gorm:"type:text" json:"care,omitempty"`
	SKU           string           `gorm:"size:100;index" json:"sku,omitempty"`
	Price         decimal.Decimal  `gorm:"type:decimal(12,2)" json:"price"`
	OriginalPrice *decimal.Decimal `gorm:"type:decimal(12,2)" json:"originalPrice,omitempty"`
	Image         string           `gorm:"size:512" json:"image"`
	Images        []string         `gorm:"type:jsonb;serializer:json" json:"images,omitempty"`
	Category      string           `gorm:"size:100;index" json:"category,omitempty"`
	Type          string           `gorm:"size:60" json:"type,omitempty"`
	Occasion      string           `gorm:"size:60" json:"occasion,omitempty"`
	Sizes         []string         `gorm:"type:jsonb;serializer:json" json:"sizes,omitempty"`
	Colors        []string         `gorm:"type:jsonb;serializer:json" json:"color,omitempty"`
	Stock         map[string]int   `gorm:"type:jsonb;serializer:json" json:"stock,omitempty"`
	IsNewArrival  bool             `gorm:"default:false;index" json:"isNewArrival"`
	IsTrending    bool             `gorm:"default:false;index" json:"isTrending"`
	Reviews       []Review         `gorm:"constraint:OnDelete:CASCADE" json:"reviews,omitempty"`
	CreatedAt     time.Time        `json:"createdAt"`
	UpdatedAt     time.Time        `json:"updatedAt"`
}

// HasSizes reports whether the product exposes a size list at all.
func (p *Product) HasSizes() bool {
	return len(p.Sizes) > 0
}

func (p *Product) OffersSize(size string) bool {
	for _, s := range p.Sizes {
		if s == size {
			return true
		}
	}
	return false
}

// StockFor returns the units on hand for a size. The second value is false
// when the product does not track stock for that size.
func (p *Product) StockFor(size string) (int, bool) {
	if p.Stock == nil {
		return 0, false
	}
	n, ok := p.Stock[size]
	return n, ok
}

// AverageRating is 0 when there are no reviews.
func (p *Product) AverageRating() float64 {
	if len(p.Reviews) == 0 {
		return 0
	}
	sum := 0
	for _, r := range p.Reviews {
		sum += r.Rating
	}
	return float64(sum) / float64(len(p.Reviews))
}

type Review struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"-"`
	ProductID string    `gorm:"size:64;index" json:"-"`
	Name      string    `gorm:"size:140" json:"name"`
	Rating    int       `gorm:"not null" json:"rating"`
	Comment   string    `gorm:"type:text" json:"comment"`
	Date      time.Time `json:"date"`
}

func ValidRating(r int) bool {
	return r >= 1 && r <= 5
}

// Collection names for the curated product lists managed from the back office.
const (
	CollectionArrivals        = "arrivals"
	CollectionAge             = "age"
	CollectionOccasion        = "occasion"
	CollectionStyle           = "style"
	CollectionParty           = "party"
	CollectionCasual          = "casual"
	CollectionSeasonal        = "seasonal"
	CollectionSpecialOccasion = "special-occasion"
)

var collections = map[string]struct{}{
	CollectionArrivals:        {},
	CollectionAge:             {},
	CollectionOccasion:        {},
	CollectionStyle:           {},
	CollectionParty:           {},
	CollectionCasual:          {},
	CollectionSeasonal:        {},
	CollectionSpecialOccasion: {},
}

func KnownCollection(name string) bool {
	_, ok := collections[name]
	return ok
}

type CollectionEntry struct {
	Collection string `gorm:"primaryKey;size:40"`
	Position   int    `gorm:"primaryKey"`
	ProductID  string `gorm:"size:64;index"`
}

// ProductDraft is product copy read off a supplier page, to be reviewed in
// the back office before it becomes a Product. Empty fields were not found.
type ProductDraft struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Price       *decimal.Decimal  `json:"price,omitempty"`
	Materials   string            `json:"materials,omitempty"`
	Care        string            `json:"care,omitempty"`
	Attributes  map[string]string `json:"attributes,omitempty"`
	Images      []string          `json:"images"`
}
