package usecase

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/phenrril/petalkids/internal/domain"
)

type OrderUC struct {
	Orders    domain.OrderRepo
	Discounts domain.DiscountRepo
	Notifier  domain.Notifier
}

// CreateOrder persists a checkout payload as a pending order. A redeemed code
// has its use counter bumped; failing to do so does not fail the order.
func (uc *OrderUC) CreateOrder(ctx context.Context, p domain.OrderPayload) (string, error) {
	o := domain.NewOrderFromPayload(p)
	if err := uc.Orders.Save(ctx, o); err != nil {
		return "", err
	}
	if p.DiscountCode != "" && uc.Discounts != nil {
		if err := uc.Discounts.IncrementUses(ctx, p.DiscountCode); err != nil {
			log.Error().Err(err).Str("order_id", o.ID.String()).Str("code", p.DiscountCode).Msg("discount usage not recorded")
		}
	}
	log.Info().Str("order_id", o.ID.String()).Str("total", o.Total.StringFixed(2)).Int("items", len(o.Items)).Msg("order created")
	if uc.Notifier != nil {
		uc.Notifier.OrderPlaced(o)
	}
	return o.ID.String(), nil
}

func (uc *OrderUC) Get(ctx context.Context, id string) (*domain.Order, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrNotFound
	}
	return uc.Orders.FindByID(ctx, id)
}

func (uc *OrderUC) List(ctx context.Context) ([]domain.Order, error) {
	return uc.Orders.List(ctx)
}

// UpdateStatus moves an order to status. An empty tracking number keeps the
// current one.
func (uc *OrderUC) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus, tracking string) (*domain.Order, error) {
	status = domain.OrderStatus(strings.ToLower(strings.TrimSpace(string(status))))
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	o, err := uc.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	o.Status = status
	if t := strings.TrimSpace(tracking); t != "" {
		o.TrackingNumber = t
	}
	if err := uc.Orders.Save(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}
