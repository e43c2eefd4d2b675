package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/phenrril/petalkids/internal/domain"
)

type ProductRepo struct{ db *gorm.DB }

func NewProductRepo(db *gorm.DB) *ProductRepo { return &ProductRepo{db: db} }

func reviewsByDate(db *gorm.DB) *gorm.DB { return db.Order("date asc") }

func (r *ProductRepo) List(ctx context.Context, f domain.ProductFilter) ([]domain.Product, error) {
	list := []domain.Product{}
	q := r.db.WithContext(ctx).Model(&domain.Product{})
	if f.NewArrival != nil {
		q = q.Where("is_new_arrival = ?", *f.NewArrival)
	}
	if f.Trending != nil {
		q = q.Where("is_trending = ?", *f.Trending)
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if err := q.Order("created_at desc").Order("id asc").Preload("Reviews", reviewsByDate).Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *ProductRepo) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	var p domain.Product
	if err := r.db.WithContext(ctx).Preload("Reviews", reviewsByDate).First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// Save upserts the product row. Reviews are only written through AddReview.
func (r *ProductRepo) Save(ctx context.Context, p *domain.Product) error {
	return r.db.WithContext(ctx).Omit("Reviews").Save(p).Error
}

func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&domain.Product{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		if err := tx.Where("product_id = ?", id).Delete(&domain.Review{}).Error; err != nil {
			return err
		}
		return tx.Where("product_id = ?", id).Delete(&domain.CollectionEntry{}).Error
	})
}

func (r *ProductRepo) AddReview(ctx context.Context, rv *domain.Review) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&domain.Product{}).Where("id = ?", rv.ProductID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return domain.ErrNotFound
		}
		return tx.Create(rv).Error
	})
}
