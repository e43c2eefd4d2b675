package discount

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/phenrril/petalkids/internal/domain"
)

var ErrInvalidCode = errors.New("invalid discount code")

var hundred = decimal.NewFromInt(100)

// Source looks a code up in the discount table. It returns domain.ErrNotFound
// for unknown codes.
type Source interface {
	LookupCode(ctx context.Context, code string) (*domain.DiscountCode, error)
}

// Applied is a resolved code and the raw amount it is worth against the
// subtotal it was resolved for.
type Applied struct {
	Code   string
	Type   domain.DiscountType
	Amount decimal.Decimal
}

// Clamped caps the amount at subtotal so a total never goes negative.
func (a Applied) Clamped(subtotal decimal.Decimal) decimal.Decimal {
	return Clamp(a.Amount, subtotal)
}

// Clamp returns min(amount, subtotal), floored at zero.
func Clamp(amount, subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.IsNegative() {
		subtotal = decimal.Zero
	}
	amount = decimal.Max(amount, decimal.Zero)
	return decimal.Min(amount, subtotal)
}

// Resolver holds no state of its own; every call goes to the source.
type Resolver struct {
	src Source
	now func() time.Time
}

// NewResolver looks codes up in src.
func NewResolver(src Source) *Resolver {
	return &Resolver{src: src, now: time.Now}
}

// Resolve validates code and prices it against subtotal. Unknown, expired or
// exhausted codes and lookup failures all come back as ErrInvalidCode.
func (r *Resolver) Resolve(ctx context.Context, code string, subtotal decimal.Decimal) (Applied, error) {
	norm := domain.NormalizeCode(code)
	if norm == "" {
		return Applied{}, ErrInvalidCode
	}
	dc, err := r.src.LookupCode(ctx, norm)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			log.Warn().Err(err).Str("code", norm).Msg("discount lookup failed")
		}
		return Applied{}, ErrInvalidCode
	}
	if dc == nil || !dc.Usable(r.now()) {
		return Applied{}, ErrInvalidCode
	}

	var amount decimal.Decimal
	switch dc.Type {
	case domain.DiscountPercent:
		amount = subtotal.Mul(dc.Value).Div(hundred)
	case domain.DiscountAmount:
		amount = dc.Value
	default:
		return Applied{}, ErrInvalidCode
	}
	return Applied{Code: norm, Type: dc.Type, Amount: amount}, nil
}
