package checkout

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/phenrril/petalkids/internal/cart"
	"github.com/phenrril/petalkids/internal/discount"
	"github.com/phenrril/petalkids/internal/domain"
)

// State is where a checkout is in its lifecycle.
type State int

const (
	Editing State = iota
	Validating
	Submitted
)

func (s State) String() string {
	switch s {
	case Editing:
		return "editing"
	case Validating:
		return "validating"
	case Submitted:
		return "submitted"
	}
	return "unknown"
}

// Form is the customer input collected at checkout.
type Form struct {
	Email        string                 `json:"email"`
	Shipping     domain.ShippingAddress `json:"shipping"`
	ContactOptIn bool                   `json:"contactOptIn"`
}

// OrderSink persists a finished checkout and returns the new order id.
type OrderSink interface {
	CreateOrder(ctx context.Context, p domain.OrderPayload) (string, error)
}

// Resolver prices a discount code against a subtotal.
type Resolver interface {
	Resolve(ctx context.Context, code string, subtotal decimal.Decimal) (discount.Applied, error)
}

// Totals is the price breakdown shown before the order is placed.
type Totals struct {
	Subtotal     decimal.Decimal `json:"subtotal"`
	DiscountCode string          `json:"discountCode,omitempty"`
	Discount     decimal.Decimal `json:"discount"`
	Total        decimal.Decimal `json:"total"`
}

// Aggregator drives one checkout over a cart ledger. Like the ledger it is
// owned by a single request.
type Aggregator struct {
	ledger   *cart.Ledger
	resolver Resolver
	sink     OrderSink

	state   State
	Form    Form
	applied *discount.Applied
	orderID string
}

// New starts a checkout in the Editing state.
func New(l *cart.Ledger, r Resolver, sink OrderSink) *Aggregator {
	return &Aggregator{ledger: l, resolver: r, sink: sink, state: Editing}
}

// State reports the current lifecycle state.
func (a *Aggregator) State() State { return a.state }

// OrderID is the id returned by the sink, empty until Submit succeeds.
func (a *Aggregator) OrderID() string { return a.orderID }

// ApplyDiscount resolves code against the current subtotal. An invalid code
// drops whatever code was applied before.
func (a *Aggregator) ApplyDiscount(ctx context.Context, code string) (Totals, error) {
	applied, err := a.resolver.Resolve(ctx, code, a.ledger.Total())
	if err != nil {
		a.applied = nil
		return a.Totals(), err
	}
	a.applied = &applied
	return a.Totals(), nil
}

// ClearDiscount removes the applied code.
func (a *Aggregator) ClearDiscount() { a.applied = nil }

// Totals is unrounded; rounding happens when the payload is built.
func (a *Aggregator) Totals() Totals {
	sub := a.ledger.Total()
	t := Totals{Subtotal: sub, Discount: decimal.Zero, Total: sub}
	if a.applied != nil {
		t.DiscountCode = a.applied.Code
		t.Discount = a.applied.Clamped(sub)
		t.Total = sub.Sub(t.Discount)
	}
	return t
}

// Validate checks the form in order and reports the first failure.
func (a *Aggregator) Validate() error {
	if strings.TrimSpace(a.Form.Email) == "" {
		return &ValidationError{Field: "email", Err: ErrEmailRequired}
	}
	if a.ledger.IsEmpty() {
		return &ValidationError{Err: ErrCartEmpty}
	}
	s := a.Form.Shipping
	required := []struct {
		field, value string
	}{
		{"firstName", s.FirstName},
		{"lastName", s.LastName},
		{"address", s.Address},
		{"city", s.City},
		{"postcode", s.Postcode},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return &ValidationError{Field: r.field, Err: ErrShippingIncomplete}
		}
	}
	return nil
}

// Submit validates, re-prices any applied code and hands the payload to the
// sink in a single call. On success the cart is cleared.
func (a *Aggregator) Submit(ctx context.Context) (string, error) {
	if a.state == Submitted {
		return a.orderID, ErrAlreadySubmitted
	}
	a.state = Validating
	if err := a.Validate(); err != nil {
		a.state = Editing
		return "", err
	}
	if a.applied != nil {
		if _, err := a.ApplyDiscount(ctx, a.applied.Code); err != nil {
			a.state = Editing
			return "", &ValidationError{Field: "discountCode", Err: err}
		}
	}

	payload := a.Payload()
	id, err := a.sink.CreateOrder(ctx, payload)
	if err != nil {
		a.state = Editing
		return "", &SubmitError{Err: err}
	}
	a.ledger.Clear()
	a.applied = nil
	a.orderID = id
	a.state = Submitted
	return id, nil
}

// Payload builds the order document from the current cart and form. Money is
// rounded to cents and the total is derived from the rounded figures, so
// subtotal minus discount always equals total.
func (a *Aggregator) Payload() domain.OrderPayload {
	t := a.Totals()
	sub := t.Subtotal.Round(2)
	off := t.Discount.Round(2)
	items := make([]domain.OrderLine, 0, a.ledger.Len())
	for _, ln := range a.ledger.Lines() {
		items = append(items, domain.OrderLine{
			ProductID: ln.ProductID,
			Name:      ln.Name,
			Price:     ln.UnitPrice,
			Quantity:  ln.Quantity,
			Image:     ln.Image,
		})
	}
	return domain.OrderPayload{
		Email:          strings.TrimSpace(a.Form.Email),
		Items:          items,
		Subtotal:       sub,
		DiscountCode:   t.DiscountCode,
		DiscountAmount: off,
		Total:          sub.Sub(off),
		Shipping:       a.Form.Shipping,
		ContactOptIn:   a.Form.ContactOptIn,
	}
}

// IsValidation reports whether err is a user-correctable input problem.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve) || errors.Is(err, discount.ErrInvalidCode) || errors.Is(err, ErrInvalidPostalCode)
}
