package catalog

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/phenrril/petalkids/internal/domain"
)

// Source is the data layer the store loads from.
type Source interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	ListNewArrivals(ctx context.Context) ([]domain.Product, error)
	ListTrending(ctx context.Context) ([]domain.Product, error)
}

// Store holds the current catalog snapshot. Readers get copies of the slice
// headers; the products themselves are never mutated after a refresh.
type Store struct {
	src          Source
	fetchTimeout time.Duration

	mu       sync.RWMutex
	products []domain.Product
	arrivals []domain.Product
	trending []domain.Product
	loadedAt time.Time

	subMu  sync.Mutex
	nextID int
	subs   map[int]chan struct{}
}

// NewStore returns an empty store. Call Refresh or Run to load it.
func NewStore(src Source, fetchTimeout time.Duration) *Store {
	if fetchTimeout <= 0 {
		fetchTimeout = 10 * time.Second
	}
	return &Store{src: src, fetchTimeout: fetchTimeout, subs: map[int]chan struct{}{}}
}

// Refresh reloads the three catalogs in parallel. A failing fetch keeps the
// previously published list for that catalog, or an empty one before the
// first successful load. The others are still published.
func (s *Store) Refresh(ctx context.Context) {
	var products, arrivals, trending []domain.Product
	var productsOK, arrivalsOK, trendingOK bool

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		products, productsOK = s.fetch(gctx, "products", s.src.ListProducts)
		return nil
	})
	g.Go(func() error {
		arrivals, arrivalsOK = s.fetch(gctx, "new_arrivals", s.src.ListNewArrivals)
		return nil
	})
	g.Go(func() error {
		trending, trendingOK = s.fetch(gctx, "trending", s.src.ListTrending)
		return nil
	})
	_ = g.Wait()

	s.mu.Lock()
	s.products = keepOnFailure(s.products, products, productsOK)
	s.arrivals = keepOnFailure(s.arrivals, arrivals, arrivalsOK)
	s.trending = keepOnFailure(s.trending, trending, trendingOK)
	s.loadedAt = time.Now()
	products, arrivals, trending = s.products, s.arrivals, s.trending
	s.mu.Unlock()

	log.Debug().Int("products", len(products)).Int("new_arrivals", len(arrivals)).Int("trending", len(trending)).Msg("catalog refreshed")
	s.notify()
}

func keepOnFailure(prev, next []domain.Product, ok bool) []domain.Product {
	if ok {
		return next
	}
	if prev == nil {
		return []domain.Product{}
	}
	return prev
}

func (s *Store) fetch(ctx context.Context, name string, fn func(context.Context) ([]domain.Product, error)) ([]domain.Product, bool) {
	ctx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()
	list, err := fn(ctx)
	if err != nil {
		log.Warn().Err(err).Str("catalog", name).Msg("catalog fetch failed")
		return nil, false
	}
	if list == nil {
		list = []domain.Product{}
	}
	return list, true
}

// Run refreshes on every tick until ctx is done.
func (s *Store) Run(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.Refresh(ctx)
		}
	}
}

// Products returns the full catalog from the last refresh.
func (s *Store) Products() []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.products
}

// NewArrivals returns the products flagged as new arrivals.
func (s *Store) NewArrivals() []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.arrivals
}

// Trending returns the products flagged as trending.
func (s *Store) Trending() []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.trending
}

// LoadedAt is the time of the last refresh, zero before the first one.
func (s *Store) LoadedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadedAt
}

// ByCategory returns the products whose category or type equals name, ignoring case.
func (s *Store) ByCategory(name string) []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []domain.Product{}
	for _, p := range s.products {
		if strings.EqualFold(p.Category, name) || strings.EqualFold(p.Type, name) {
			out = append(out, p)
		}
	}
	return out
}

// Find looks a product up by id in the snapshot.
func (s *Store) Find(id string) (domain.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.products {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Product{}, false
}

// Subscribe returns a channel that receives a value after each refresh and a
// function that unregisters it. Notifications coalesce when the reader lags.
func (s *Store) Subscribe() (<-chan struct{}, func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	id := s.nextID
	s.nextID++
	ch := make(chan struct{}, 1)
	s.subs[id] = ch
	return ch, func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		if c, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(c)
		}
	}
}

func (s *Store) notify() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
