package postgres

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/phenrril/petalkids/internal/domain"
)

type AudienceRepo struct{ db *gorm.DB }

func NewAudienceRepo(db *gorm.DB) *AudienceRepo { return &AudienceRepo{db: db} }

func (r *AudienceRepo) SaveSubscriber(ctx context.Context, s *domain.Subscriber) error {
	s.Email = strings.ToLower(s.Email)
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *AudienceRepo) FindSubscriber(ctx context.Context, email string) (*domain.Subscriber, error) {
	var s domain.Subscriber
	e := strings.ToLower(strings.TrimSpace(email))
	if e == "" {
		return nil, domain.ErrNotFound
	}
	if err := r.db.WithContext(ctx).First(&s, "LOWER(email) = ?", e).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *AudienceRepo) ListSubscribers(ctx context.Context) ([]domain.Subscriber, error) {
	list := []domain.Subscriber{}
	if err := r.db.WithContext(ctx).Order("subscribed_at desc").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *AudienceRepo) SaveMessage(ctx context.Context, m *domain.ContactMessage) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *AudienceRepo) ListMessages(ctx context.Context) ([]domain.ContactMessage, error) {
	list := []domain.ContactMessage{}
	if err := r.db.WithContext(ctx).Order("created_at desc").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}
