package settings

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/phenrril/petalkids/internal/catalog"
	"github.com/phenrril/petalkids/internal/domain"
)

// Provider owns the canonical in-memory copy of the site settings. Readers
// always get a complete document: whatever the store has, merged over Defaults.
type Provider struct {
	repo domain.SettingsRepo

	mu      sync.RWMutex
	current domain.SiteSettings
}

// NewProvider starts with Defaults until the first Refresh.
func NewProvider(repo domain.SettingsRepo) *Provider {
	return &Provider{repo: repo, current: Defaults()}
}

// Get returns the current settings document.
func (p *Provider) Get() domain.SiteSettings {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.current
}

// Budgets returns the configured price bands.
func (p *Provider) Budgets() []domain.BudgetBand {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.current.Budgets
}

// Band maps a budget slug to a price range using the current bands.
func (p *Provider) Band(slug string) (catalog.PriceRange, bool) {
	return catalog.BandRange(p.Budgets(), slug)
}

// Refresh reloads from the store. On failure the previous copy is kept.
func (p *Provider) Refresh(ctx context.Context) error {
	loaded, err := p.repo.GetSiteSettings(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			p.set(Defaults())
			return nil
		}
		return err
	}
	p.set(Merge(Defaults(), *loaded))
	return nil
}

// Save persists s and publishes it immediately.
func (p *Provider) Save(ctx context.Context, s domain.SiteSettings) (domain.SiteSettings, error) {
	if err := p.repo.SaveSiteSettings(ctx, &s); err != nil {
		return domain.SiteSettings{}, err
	}
	merged := Merge(Defaults(), s)
	p.set(merged)
	return merged, nil
}

// Run refreshes on every tick until ctx is done.
func (p *Provider) Run(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if err := p.Refresh(ctx); err != nil {
				log.Warn().Err(err).Msg("site settings refresh failed")
			}
		}
	}
}

func (p *Provider) set(s domain.SiteSettings) {
	p.mu.Lock()
	p.current = s
	p.mu.Unlock()
}
