package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/phenrril/petalkids/internal/domain"
)

type OrderRepo struct{ db *gorm.DB }

func NewOrderRepo(db *gorm.DB) *OrderRepo { return &OrderRepo{db: db} }

// Save writes the order and replaces its items in one transaction.
func (r *OrderRepo) Save(ctx context.Context, o *domain.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(o).Error; err != nil {
			return err
		}
		if err := tx.Where("order_id = ?", o.ID).Delete(&domain.OrderItem{}).Error; err != nil {
			return err
		}
		if len(o.Items) == 0 {
			return nil
		}
		for i := range o.Items {
			o.Items[i].OrderID = o.ID
		}
		return tx.Create(&o.Items).Error
	})
}

func (r *OrderRepo) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	var o domain.Order
	if err := r.db.WithContext(ctx).Preload("Items").First(&o, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepo) List(ctx context.Context) ([]domain.Order, error) {
	list := []domain.Order{}
	if err := r.db.WithContext(ctx).Preload("Items").Order("created_at desc").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}
