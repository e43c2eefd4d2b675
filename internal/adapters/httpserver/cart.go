package httpserver

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/phenrril/petalkids/internal/cart"
	"github.com/phenrril/petalkids/internal/checkout"
	"github.com/phenrril/petalkids/internal/domain"
	"github.com/phenrril/petalkids/internal/usecase"
)

type cartView struct {
	Lines []cart.Line     `json:"lines"`
	Units int             `json:"units"`
	Total decimal.Decimal `json:"total"`
}

func viewOf(l *cart.Ledger) cartView {
	return cartView{Lines: l.Lines(), Units: l.Units(), Total: l.Total()}
}

// lineParam undoes the escaping of the "#" in sized line ids.
func lineParam(r *http.Request) string {
	id := chi.URLParam(r, "id")
	if u, err := url.PathUnescape(id); err == nil {
		return u
	}
	return id
}

func (s *Server) apiCart(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, viewOf(s.cart.Read(r)))
}

func (s *Server) apiCartAdd(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID string `json:"productId"`
		Size      string `json:"size"`
		Qty       *int   `json:"qty"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	qty := 1
	if req.Qty != nil {
		qty = *req.Qty
	}
	if qty <= 0 {
		s.fail(w, r, cart.ErrInvalidQuantity)
		return
	}
	if strings.TrimSpace(req.ProductID) == "" {
		s.fail(w, r, cart.ErrMissingProductID)
		return
	}
	l := s.cart.Read(r)
	item, err := s.products.CartItem(r.Context(), req.ProductID, req.Size, qty, l)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := l.Add(item, qty); err != nil {
		s.fail(w, r, err)
		return
	}
	s.cart.Write(w, l)
	writeJSON(w, http.StatusOK, viewOf(l))
}

func (s *Server) apiCartUpdate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Qty int `json:"qty"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	l := s.cart.Read(r)
	id := lineParam(r)
	if ln, ok := l.Line(id); ok && req.Qty > ln.Quantity {
		// raising a quantity is checked against stock; lines whose product
		// has gone away are left alone
		if _, err := s.products.CartItem(r.Context(), ln.ProductID, ln.Size, req.Qty-ln.Quantity, l); errors.Is(err, usecase.ErrOutOfStock) {
			s.fail(w, r, err)
			return
		}
	}
	if !l.UpdateQuantity(id, req.Qty) {
		s.fail(w, r, domain.ErrNotFound)
		return
	}
	s.cart.Write(w, l)
	writeJSON(w, http.StatusOK, viewOf(l))
}

func (s *Server) apiCartRemove(w http.ResponseWriter, r *http.Request) {
	l := s.cart.Read(r)
	l.Remove(lineParam(r))
	s.cart.Write(w, l)
	writeJSON(w, http.StatusOK, viewOf(l))
}

func (s *Server) apiCartClear(w http.ResponseWriter, r *http.Request) {
	s.cart.Clear(w)
	writeJSON(w, http.StatusOK, viewOf(cart.New()))
}

func (s *Server) apiCheckoutDiscount(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code string `json:"code"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	agg := checkout.New(s.cart.Read(r), s.resolver, s.orders)
	totals, err := agg.ApplyDiscount(r.Context(), req.Code)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":  err.Error(),
			"field":  "discountCode",
			"totals": totals,
		})
		return
	}
	writeJSON(w, http.StatusOK, totals)
}

type checkoutRequest struct {
	checkout.Form
	DiscountCode string `json:"discountCode"`
}

// apiCheckout places the order for the cart in the cookie. The cookie is only
// cleared once the order is stored.
func (s *Server) apiCheckout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	agg := checkout.New(s.cart.Read(r), s.resolver, s.orders)
	agg.Form = req.Form
	// The form is checked before the code so bad input never reaches the data layer.
	if err := agg.Validate(); err != nil {
		s.fail(w, r, err)
		return
	}
	if code := strings.TrimSpace(req.DiscountCode); code != "" {
		if _, err := agg.ApplyDiscount(r.Context(), code); err != nil {
			s.fail(w, r, &checkout.ValidationError{Field: "discountCode", Err: err})
			return
		}
	}
	payload := agg.Payload()
	id, err := agg.Submit(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.cart.Clear(w)
	if req.ContactOptIn && s.audience != nil {
		if _, err := s.audience.Subscribe(r.Context(), req.Email); err != nil {
			log.Warn().Err(err).Str("order_id", id).Msg("newsletter opt-in not recorded")
		}
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"orderId":        id,
		"subtotal":       payload.Subtotal,
		"discountCode":   payload.DiscountCode,
		"discountAmount": payload.DiscountAmount,
		"total":          payload.Total,
	})
}

func (s *Server) apiDelivery(w http.ResponseWriter, r *http.Request) {
	est, err := checkout.EstimateDelivery(strings.TrimSpace(chi.URLParam(r, "pin")))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, est)
}

func (s *Server) apiOrder(w http.ResponseWriter, r *http.Request) {
	o, err := s.orders.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}
