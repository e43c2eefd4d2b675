package app

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/phenrril/petalkids/internal/domain"
)

func sampleCodes() []domain.DiscountCode {
	return []domain.DiscountCode{
		{Code: "MAGIC10", Type: domain.DiscountPercent, Value: decimal.NewFromInt(10)},
		{Code: "WELCOME5", Type: domain.DiscountAmount, Value: decimal.NewFromInt(5)},
	}
}

func price(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func sampleProducts() []domain.Product {
	// newest first once listed
	base := time.Date(2024, 10, 1, 9, 0, 0, 0, time.UTC)
	was := price(2499)
	return []domain.Product{
		{
			ID: "tulle-party-gown", Name: "Blush Tulle Party Gown", Price: price(1999), OriginalPrice: &was,
			Description: "Layered tulle skirt with a satin bodice and a bow at the back.",
			Materials:   "Polyester tulle, cotton lining", Care: "Hand wash cold",
			Category: "Ages 7-8", Type: "Gown", Occasion: "Party",
			Sizes: []string{"5-6Y", "7-8Y", "9-10Y"}, Colors: []string{"Pink"},
			Stock:        map[string]int{"5-6Y": 4, "7-8Y": 6, "9-10Y": 2},
			Image:        "/uploads/tulle-party-gown.jpg",
			IsNewArrival: true, CreatedAt: base.Add(5 * time.Hour),
		},
		{
			ID: "floral-cotton-frock", Name: "Floral Cotton Frock", Price: price(899),
			Description: "Breathable printed cotton frock for warm days.",
			Materials:   "100% cotton", Care: "Machine wash",
			Category: "Ages 3-4", Type: "Dress", Occasion: "Casual",
			Sizes: []string{"2-3Y", "3-4Y"}, Colors: []string{"Yellow", "White"},
			Image:      "/uploads/floral-cotton-frock.jpg",
			IsTrending: true, CreatedAt: base.Add(4 * time.Hour),
		},
		{
			ID: "festive-lehenga", Name: "Festive Mirror-work Lehenga", Price: price(2899),
			Description: "Three-piece lehenga set with mirror work and a net dupatta.",
			Category:    "Ages 9-10", Type: "Lehenga", Occasion: "Festive",
			Sizes: []string{"9-10Y", "11-12Y"}, Colors: []string{"Red", "Gold"},
			Image:        "/uploads/festive-lehenga.jpg",
			IsNewArrival: true, IsTrending: true, CreatedAt: base.Add(3 * time.Hour),
		},
		{
			ID: "rainbow-tee", Name: "Rainbow Print Tee", Price: price(449),
			Description: "Soft jersey tee with a rainbow print.",
			Materials:   "Cotton jersey", Care: "Machine wash",
			Category: "Ages 5-6", Type: "Top", Occasion: "Casual",
			Colors: []string{"White"},
			Image:  "/uploads/rainbow-tee.jpg", CreatedAt: base.Add(2 * time.Hour),
		},
		{
			ID: "velvet-birthday-dress", Name: "Velvet Birthday Dress", Price: price(1499),
			Description: "Velvet dress with puff sleeves and a sequin collar.",
			Category:    "Ages 1-2", Type: "Dress", Occasion: "Birthday",
			Sizes: []string{"12-18M", "18-24M"}, Colors: []string{"Navy"},
			Image: "/uploads/velvet-birthday-dress.jpg", CreatedAt: base.Add(time.Hour),
		},
		{
			ID: "denim-pinafore", Name: "Denim Pinafore", Price: price(1199),
			Description: "Light denim pinafore with embroidered pockets.",
			Category:    "Ages 5-6", Type: "Dress", Occasion: "Casual",
			Colors: []string{"Blue"},
			Image:  "/uploads/denim-pinafore.jpg", CreatedAt: base,
		},
	}
}
