package httpserver

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/phenrril/petalkids/internal/catalog"
	"github.com/phenrril/petalkids/internal/domain"
	"github.com/phenrril/petalkids/internal/usecase"
)

// criteriaFromQuery reads the storefront filters. "All" and empty values
// leave a dimension unfiltered.
func (s *Server) criteriaFromQuery(q url.Values) (catalog.Criteria, error) {
	c := catalog.Criteria{
		Age:      choice(q.Get("age")),
		Type:     choice(q.Get("type")),
		Occasion: choice(q.Get("occasion")),
		Color:    choice(q.Get("color")),
		Size:     choice(q.Get("size")),
		Query:    strings.TrimSpace(q.Get("q")),
	}
	if slug := strings.TrimSpace(q.Get("budget")); slug != "" && !strings.EqualFold(slug, "all") {
		if band, ok := s.settings.Band(slug); ok {
			c.Price = &band
		}
	}
	minS, maxS := strings.TrimSpace(q.Get("min")), strings.TrimSpace(q.Get("max"))
	if minS != "" || maxS != "" {
		pr := catalog.PriceRange{Min: decimal.Zero, Max: decimal.New(1, 9)}
		if c.Price != nil {
			pr = *c.Price
		}
		if minS != "" {
			v, err := decimal.NewFromString(minS)
			if err != nil {
				return c, fmt.Errorf("%w: min must be a number", errBadRequest)
			}
			pr.Min = v
		}
		if maxS != "" {
			v, err := decimal.NewFromString(maxS)
			if err != nil {
				return c, fmt.Errorf("%w: max must be a number", errBadRequest)
			}
			pr.Max = v
		}
		c.Price = &pr
	}
	return c, nil
}

func choice(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" || strings.EqualFold(v, "all") {
		return nil
	}
	return &v
}

func (s *Server) apiProducts(w http.ResponseWriter, r *http.Request) {
	c, err := s.criteriaFromQuery(r.URL.Query())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	base := s.catalog.Products()
	if cat := strings.TrimSpace(r.URL.Query().Get("category")); cat != "" {
		base = s.catalog.ByCategory(cat)
	}
	writeJSON(w, http.StatusOK, catalog.Filter(base, c))
}

func (s *Server) apiNewArrivals(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.catalog.NewArrivals())
}

func (s *Server) apiTrending(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.catalog.Trending())
}

// apiProductByID reads through to the repository so reviews are current and
// falls back to the cached catalog when the repository is unavailable.
func (s *Server) apiProductByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	p, err := s.products.Get(r.Context(), id)
	if err == nil {
		writeJSON(w, http.StatusOK, p)
		return
	}
	if !errors.Is(err, domain.ErrNotFound) {
		if cached, ok := s.catalog.Find(id); ok {
			writeJSON(w, http.StatusOK, cached)
			return
		}
	}
	s.fail(w, r, err)
}

func (s *Server) apiAddReview(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name    string `json:"name"`
		Rating  int    `json:"rating"`
		Comment string `json:"comment"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	rv, err := s.products.AddReview(r.Context(), chi.URLParam(r, "id"), req.Name, req.Rating, req.Comment)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, rv)
}

func (s *Server) apiCollection(w http.ResponseWriter, r *http.Request) {
	list, err := s.collections.Get(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		if errors.Is(err, usecase.ErrUnknownCollection) {
			writeError(w, http.StatusNotFound, err.Error(), "")
			return
		}
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) apiSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.settings.Get())
}

func (s *Server) apiBudgets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.settings.Budgets())
}

type discountInfo struct {
	Code  string              `json:"code"`
	Type  domain.DiscountType `json:"type"`
	Value decimal.Decimal     `json:"value"`
}

// apiDiscountLookup tells the storefront whether a code exists and is usable.
// Pricing stays with the checkout endpoints.
func (s *Server) apiDiscountLookup(w http.ResponseWriter, r *http.Request) {
	d, err := s.discounts.LookupCode(r.Context(), chi.URLParam(r, "code"))
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		s.fail(w, r, err)
		return
	}
	if d == nil || !d.Usable(timeNow()) {
		writeError(w, http.StatusNotFound, "invalid discount code", "discountCode")
		return
	}
	writeJSON(w, http.StatusOK, discountInfo{Code: d.Code, Type: d.Type, Value: d.Value})
}
