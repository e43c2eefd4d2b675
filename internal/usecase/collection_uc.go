package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/phenrril/petalkids/internal/domain"
)

type CollectionUC struct {
	Collections domain.CollectionRepo
	Products    domain.ProductRepo
}

func (uc *CollectionUC) Get(ctx context.Context, name string) ([]domain.Product, error) {
	if !domain.KnownCollection(name) {
		return nil, ErrUnknownCollection
	}
	return uc.Collections.Products(ctx, name)
}

// Replace sets the ordered product list of a collection. Every id must
// exist; duplicates keep their first position.
func (uc *CollectionUC) Replace(ctx context.Context, name string, ids []string) ([]domain.Product, error) {
	if !domain.KnownCollection(name) {
		return nil, ErrUnknownCollection
	}
	seen := map[string]bool{}
	clean := make([]string, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if _, err := uc.Products.FindByID(ctx, id); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, fmt.Errorf("%w: unknown product %s", ErrInvalidProduct, id)
			}
			return nil, err
		}
		clean = append(clean, id)
	}
	if err := uc.Collections.Replace(ctx, name, clean); err != nil {
		return nil, err
	}
	return uc.Collections.Products(ctx, name)
}
