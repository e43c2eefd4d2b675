package domain

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("not found")

type ProductRepo interface {
	List(ctx context.Context, f ProductFilter) ([]Product, error)
	FindByID(ctx context.Context, id string) (*Product, error)
	Save(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id string) error
	AddReview(ctx context.Context, r *Review) error
}

// ProductFilter narrows repository listings; the storefront filter engine
// works on the loaded catalog instead.
type ProductFilter struct {
	NewArrival *bool
	Trending   *bool
	Category   string
}

type OrderRepo interface {
	Save(ctx context.Context, o *Order) error
	FindByID(ctx context.Context, id string) (*Order, error)
	List(ctx context.Context) ([]Order, error)
}

type DiscountRepo interface {
	FindByCode(ctx context.Context, code string) (*DiscountCode, error)
	List(ctx context.Context) ([]DiscountCode, error)
	Save(ctx context.Context, d *DiscountCode) error
	Delete(ctx context.Context, code string) error
	IncrementUses(ctx context.Context, code string) error
}

type SettingsRepo interface {
	GetSiteSettings(ctx context.Context) (*SiteSettings, error)
	SaveSiteSettings(ctx context.Context, s *SiteSettings) error
}

type CollectionRepo interface {
	Products(ctx context.Context, name string) ([]Product, error)
	Replace(ctx context.Context, name string, productIDs []string) error
}

type AudienceRepo interface {
	SaveSubscriber(ctx context.Context, s *Subscriber) error
	FindSubscriber(ctx context.Context, email string) (*Subscriber, error)
	ListSubscribers(ctx context.Context) ([]Subscriber, error)
	SaveMessage(ctx context.Context, m *ContactMessage) error
	ListMessages(ctx context.Context) ([]ContactMessage, error)
}

// FileStorage persists uploaded media and returns a publicly resolvable reference.
type FileStorage interface {
	SaveImage(ctx context.Context, name string, data []byte) (string, error)
	Delete(ctx context.Context, ref string) error
}

// Notifier tells people about store events. Delivery failures are the
// notifier's concern; callers do not wait on them.
type Notifier interface {
	OrderPlaced(o *Order)
	ContactReceived(m *ContactMessage)
}
