package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/phenrril/petalkids/internal/domain"
)

type DiscountRepo struct{ db *gorm.DB }

func NewDiscountRepo(db *gorm.DB) *DiscountRepo { return &DiscountRepo{db: db} }

func (r *DiscountRepo) FindByCode(ctx context.Context, code string) (*domain.DiscountCode, error) {
	var d domain.DiscountCode
	if err := r.db.WithContext(ctx).First(&d, "code = ?", domain.NormalizeCode(code)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

func (r *DiscountRepo) List(ctx context.Context) ([]domain.DiscountCode, error) {
	list := []domain.DiscountCode{}
	if err := r.db.WithContext(ctx).Order("code asc").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *DiscountRepo) Save(ctx context.Context, d *domain.DiscountCode) error {
	d.Code = domain.NormalizeCode(d.Code)
	return r.db.WithContext(ctx).Save(d).Error
}

func (r *DiscountRepo) Delete(ctx context.Context, code string) error {
	res := r.db.WithContext(ctx).Delete(&domain.DiscountCode{}, "code = ?", domain.NormalizeCode(code))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// IncrementUses bumps the counter in SQL so concurrent orders do not lose
// updates.
func (r *DiscountRepo) IncrementUses(ctx context.Context, code string) error {
	res := r.db.WithContext(ctx).Model(&domain.DiscountCode{}).
		Where("code = ?", domain.NormalizeCode(code)).
		UpdateColumn("uses", gorm.Expr("uses + ?", 1))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
