package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/phenrril/petalkids/internal/domain"
)

var ErrMissingID = errors.New("product has no id")

// wireProduct is the loose shape product documents arrive in from imports and
// older exports: the id may sit under "_id" or "id" as a number or a string,
// sizes under "size" or "sizes", and color may be a single string or a list.
type wireProduct struct {
	MongoID       json.RawMessage  `json:"_id"`
	ID            json.RawMessage  `json:"id"`
	Name          string           `json:"name"`
	Description   string           `json:"description"`
	Materials     string           `json:"materials"`
	Care          string           `json:"care"`
	SKU           string           `json:"sku"`
	Price         decimal.Decimal  `json:"price"`
	OriginalPrice *decimal.Decimal `json:"originalPrice"`
	Image         string           `json:"image"`
	Images        []string         `json:"images"`
	Category      string           `json:"category"`
	Type          string           `json:"type"`
	Occasion      string           `json:"occasion"`
	Size          []string         `json:"size"`
	Sizes         []string         `json:"sizes"`
	Color         json.RawMessage  `json:"color"`
	Stock         map[string]int   `json:"stock"`
	IsNewArrival  bool             `json:"isNewArrival"`
	IsTrending    bool             `json:"isTrending"`
	Reviews       []wireReview     `json:"reviews"`
}

type wireReview struct {
	Name    string `json:"name"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
	Date    string `json:"date"`
}

// DecodeProduct normalises one product document into the canonical shape.
func DecodeProduct(data []byte) (domain.Product, error) {
	var w wireProduct
	if err := json.Unmarshal(data, &w); err != nil {
		return domain.Product{}, fmt.Errorf("decode product: %w", err)
	}
	return w.normalize()
}

// DecodeProducts accepts a JSON array of product documents.
func DecodeProducts(data []byte) ([]domain.Product, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	out := make([]domain.Product, 0, len(raws))
	for i, raw := range raws {
		p, err := DecodeProduct(raw)
		if err != nil {
			return nil, fmt.Errorf("product %d: %w", i, err)
		}
		out = append(out, p)
	}
	return out, nil
}

func (w wireProduct) normalize() (domain.Product, error) {
	id := scalarString(w.ID)
	if id == "" {
		id = scalarString(w.MongoID)
	}
	if id == "" {
		return domain.Product{}, ErrMissingID
	}
	if w.Price.IsNegative() {
		return domain.Product{}, fmt.Errorf("product %s: negative price", id)
	}

	sizes := w.Sizes
	if len(sizes) == 0 {
		sizes = w.Size
	}

	p := domain.Product{
		ID:            id,
		Name:          strings.TrimSpace(w.Name),
		Description:   w.Description,
		Materials:     w.Materials,
		Care:          w.Care,
		SKU:           w.SKU,
		Price:         w.Price,
		OriginalPrice: w.OriginalPrice,
		Image:         w.Image,
		Images:        w.Images,
		Category:      w.Category,
		Type:          w.Type,
		Occasion:      w.Occasion,
		Sizes:         sizes,
		Colors:        stringList(w.Color),
		Stock:         w.Stock,
		IsNewArrival:  w.IsNewArrival,
		IsTrending:    w.IsTrending,
	}
	if p.Image == "" && len(p.Images) > 0 {
		p.Image = p.Images[0]
	}
	for _, r := range w.Reviews {
		if !domain.ValidRating(r.Rating) {
			continue
		}
		p.Reviews = append(p.Reviews, domain.Review{
			ID:        uuid.New(),
			ProductID: id,
			Name:      r.Name,
			Rating:    r.Rating,
			Comment:   r.Comment,
			Date:      parseDate(r.Date),
		})
	}
	return p, nil
}

// scalarString renders a JSON number or string as an opaque identifier.
func scalarString(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		if i, err := n.Int64(); err == nil {
			return strconv.FormatInt(i, 10)
		}
		return n.String()
	}
	return ""
}

func stringList(raw json.RawMessage) []string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return list
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil && s != "" {
		return []string{s}
	}
	return nil
}

func parseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
