package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/phenrril/petalkids/internal/domain"
)

type CollectionRepo struct{ db *gorm.DB }

func NewCollectionRepo(db *gorm.DB) *CollectionRepo { return &CollectionRepo{db: db} }

// Products returns the collection's products in display order. Entries whose
// product was deleted drop out through the join.
func (r *CollectionRepo) Products(ctx context.Context, name string) ([]domain.Product, error) {
	products := []domain.Product{}
	err := r.db.WithContext(ctx).
		Model(&domain.Product{}).
		Select("products.*").
		Joins("INNER JOIN collection_entries ON products.id = collection_entries.product_id").
		Where("collection_entries.collection = ?", name).
		Order("collection_entries.position asc").
		Preload("Reviews", reviewsByDate).
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (r *CollectionRepo) Replace(ctx context.Context, name string, productIDs []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("collection = ?", name).Delete(&domain.CollectionEntry{}).Error; err != nil {
			return err
		}
		if len(productIDs) == 0 {
			return nil
		}
		entries := make([]domain.CollectionEntry, len(productIDs))
		for i, id := range productIDs {
			entries[i] = domain.CollectionEntry{Collection: name, Position: i, ProductID: id}
		}
		return tx.Create(&entries).Error
	})
}
