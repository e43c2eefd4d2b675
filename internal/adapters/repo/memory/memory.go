// Package memory holds map-backed repositories. They serve the test suites
// and the DB_DSN=memory development mode.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/phenrril/petalkids/internal/domain"
)

type ProductRepo struct {
	mu       sync.RWMutex
	products map[string]domain.Product
}

func NewProductRepo(seed ...domain.Product) *ProductRepo {
	r := &ProductRepo{products: map[string]domain.Product{}}
	for _, p := range seed {
		r.products[p.ID] = p
	}
	return r
}

func (r *ProductRepo) List(_ context.Context, f domain.ProductFilter) ([]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []domain.Product{}
	for _, p := range r.products {
		if f.NewArrival != nil && p.IsNewArrival != *f.NewArrival {
			continue
		}
		if f.Trending != nil && p.IsTrending != *f.Trending {
			continue
		}
		if f.Category != "" && p.Category != f.Category {
			continue
		}
		out = append(out, p)
	}
	sortProducts(out)
	return out, nil
}

func (r *ProductRepo) FindByID(_ context.Context, id string) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

func (r *ProductRepo) Save(_ context.Context, p *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	if old, ok := r.products[p.ID]; ok && p.Reviews == nil {
		p.Reviews = old.Reviews
	}
	r.products[p.ID] = *p
	return nil
}

func (r *ProductRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.products, id)
	return nil
}

func (r *ProductRepo) AddReview(_ context.Context, rv *domain.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[rv.ProductID]
	if !ok {
		return domain.ErrNotFound
	}
	p.Reviews = append(append([]domain.Review{}, p.Reviews...), *rv)
	r.products[p.ID] = p
	return nil
}

// sortProducts puts the newest first, ties broken by id.
func sortProducts(list []domain.Product) {
	sort.SliceStable(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].ID < list[j].ID
	})
}

type OrderRepo struct {
	mu     sync.RWMutex
	orders map[string]domain.Order
}

func NewOrderRepo() *OrderRepo {
	return &OrderRepo{orders: map[string]domain.Order{}}
}

func (r *OrderRepo) Save(_ context.Context, o *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	if o.CreatedAt.IsZero() {
		o.CreatedAt = now
	}
	o.UpdatedAt = now
	r.orders[o.ID.String()] = *o
	return nil
}

func (r *OrderRepo) FindByID(_ context.Context, id string) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &o, nil
}

func (r *OrderRepo) List(_ context.Context) ([]domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Order, 0, len(r.orders))
	for _, o := range r.orders {
		out = append(out, o)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

type DiscountRepo struct {
	mu    sync.RWMutex
	codes map[string]domain.DiscountCode
}

func NewDiscountRepo(seed ...domain.DiscountCode) *DiscountRepo {
	r := &DiscountRepo{codes: map[string]domain.DiscountCode{}}
	for _, d := range seed {
		d.Code = domain.NormalizeCode(d.Code)
		r.codes[d.Code] = d
	}
	return r
}

func (r *DiscountRepo) FindByCode(_ context.Context, code string) (*domain.DiscountCode, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.codes[domain.NormalizeCode(code)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &d, nil
}

func (r *DiscountRepo) List(_ context.Context) ([]domain.DiscountCode, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.DiscountCode, 0, len(r.codes))
	for _, d := range r.codes {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (r *DiscountRepo) Save(_ context.Context, d *domain.DiscountCode) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now()
	}
	r.codes[d.Code] = *d
	return nil
}

func (r *DiscountRepo) Delete(_ context.Context, code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	code = domain.NormalizeCode(code)
	if _, ok := r.codes[code]; !ok {
		return domain.ErrNotFound
	}
	delete(r.codes, code)
	return nil
}

func (r *DiscountRepo) IncrementUses(_ context.Context, code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	code = domain.NormalizeCode(code)
	d, ok := r.codes[code]
	if !ok {
		return domain.ErrNotFound
	}
	d.Uses++
	r.codes[code] = d
	return nil
}

type SettingsRepo struct {
	mu sync.RWMutex
	s  *domain.SiteSettings
}

func NewSettingsRepo() *SettingsRepo { return &SettingsRepo{} }

func (r *SettingsRepo) GetSiteSettings(context.Context) (*domain.SiteSettings, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.s == nil {
		return nil, domain.ErrNotFound
	}
	cp := *r.s
	return &cp, nil
}

func (r *SettingsRepo) SaveSiteSettings(_ context.Context, s *domain.SiteSettings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *s
	r.s = &cp
	return nil
}

// CollectionRepo resolves stored ids through the product repo; ids whose
// product is gone are skipped.
type CollectionRepo struct {
	products *ProductRepo

	mu    sync.RWMutex
	lists map[string][]string
}

func NewCollectionRepo(products *ProductRepo) *CollectionRepo {
	return &CollectionRepo{products: products, lists: map[string][]string{}}
}

func (r *CollectionRepo) Products(ctx context.Context, name string) ([]domain.Product, error) {
	r.mu.RLock()
	ids := append([]string(nil), r.lists[name]...)
	r.mu.RUnlock()

	out := []domain.Product{}
	for _, id := range ids {
		p, err := r.products.FindByID(ctx, id)
		if err != nil {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

func (r *CollectionRepo) Replace(_ context.Context, name string, productIDs []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lists[name] = append([]string(nil), productIDs...)
	return nil
}

type AudienceRepo struct {
	mu       sync.RWMutex
	subs     map[string]domain.Subscriber
	messages []domain.ContactMessage
}

func NewAudienceRepo() *AudienceRepo {
	return &AudienceRepo{subs: map[string]domain.Subscriber{}}
}

func (r *AudienceRepo) SaveSubscriber(_ context.Context, s *domain.Subscriber) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s.Email = strings.ToLower(s.Email)
	r.subs[s.Email] = *s
	return nil
}

func (r *AudienceRepo) FindSubscriber(_ context.Context, email string) (*domain.Subscriber, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.subs[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &s, nil
}

func (r *AudienceRepo) ListSubscribers(context.Context) ([]domain.Subscriber, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Subscriber, 0, len(r.subs))
	for _, s := range r.subs {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SubscribedAt.After(out[j].SubscribedAt) })
	return out, nil
}

func (r *AudienceRepo) SaveMessage(_ context.Context, m *domain.ContactMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, *m)
	return nil
}

func (r *AudienceRepo) ListMessages(context.Context) ([]domain.ContactMessage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.ContactMessage, len(r.messages))
	for i, m := range r.messages {
		out[len(out)-1-i] = m
	}
	return out, nil
}
