package usecase

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/phenrril/petalkids/internal/domain"
)

var hundred = decimal.NewFromInt(100)

type DiscountUC struct {
	Codes domain.DiscountRepo
}

// LookupCode is the read side used by the discount resolver.
func (uc *DiscountUC) LookupCode(ctx context.Context, code string) (*domain.DiscountCode, error) {
	code = domain.NormalizeCode(code)
	if code == "" {
		return nil, domain.ErrNotFound
	}
	return uc.Codes.FindByCode(ctx, code)
}

func (uc *DiscountUC) List(ctx context.Context) ([]domain.DiscountCode, error) {
	return uc.Codes.List(ctx)
}

// Save creates or replaces a code. The use counter of an existing code is kept.
func (uc *DiscountUC) Save(ctx context.Context, d *domain.DiscountCode) error {
	d.Code = domain.NormalizeCode(d.Code)
	if d.Code == "" {
		return fmt.Errorf("%w: code is required", ErrInvalidDiscount)
	}
	switch d.Type {
	case domain.DiscountPercent:
		if !d.Value.IsPositive() || d.Value.GreaterThan(hundred) {
			return fmt.Errorf("%w: percent must be within (0, 100]", ErrInvalidDiscount)
		}
	case domain.DiscountAmount:
		if !d.Value.IsPositive() {
			return fmt.Errorf("%w: amount must be positive", ErrInvalidDiscount)
		}
	default:
		return fmt.Errorf("%w: type must be percent or amount", ErrInvalidDiscount)
	}
	if d.MaxUses < 0 {
		return fmt.Errorf("%w: max uses must not be negative", ErrInvalidDiscount)
	}
	if existing, err := uc.Codes.FindByCode(ctx, d.Code); err == nil {
		d.Uses = existing.Uses
		d.CreatedAt = existing.CreatedAt
	}
	return uc.Codes.Save(ctx, d)
}

func (uc *DiscountUC) Delete(ctx context.Context, code string) error {
	return uc.Codes.Delete(ctx, domain.NormalizeCode(code))
}
