package usecase

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/phenrril/petalkids/internal/domain"
)

var emailRe = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)

// ValidEmail applies the storefront's e-mail shape check.
func ValidEmail(email string) bool {
	return emailRe.MatchString(strings.TrimSpace(email))
}

type AudienceUC struct {
	Repo     domain.AudienceRepo
	Notifier domain.Notifier
}

// Subscribe is idempotent; a previously unsubscribed address is reactivated.
func (uc *AudienceUC) Subscribe(ctx context.Context, email string) (*domain.Subscriber, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !ValidEmail(email) {
		return nil, ErrInvalidEmail
	}
	s, err := uc.Repo.FindSubscriber(ctx, email)
	switch {
	case err == nil:
		if s.Active {
			return s, nil
		}
		s.Active = true
		s.SubscribedAt = time.Now()
	case errors.Is(err, domain.ErrNotFound):
		s = &domain.Subscriber{ID: uuid.New(), Email: email, Active: true, SubscribedAt: time.Now()}
	default:
		return nil, err
	}
	if err := uc.Repo.SaveSubscriber(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

func (uc *AudienceUC) Unsubscribe(ctx context.Context, email string) error {
	s, err := uc.Repo.FindSubscriber(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return err
	}
	if !s.Active {
		return nil
	}
	s.Active = false
	return uc.Repo.SaveSubscriber(ctx, s)
}

func (uc *AudienceUC) Contact(ctx context.Context, name, email, message string) (*domain.ContactMessage, error) {
	name, email, message = strings.TrimSpace(name), strings.TrimSpace(email), strings.TrimSpace(message)
	if name == "" || message == "" {
		return nil, ErrInvalidMessage
	}
	if !ValidEmail(email) {
		return nil, ErrInvalidEmail
	}
	m := &domain.ContactMessage{ID: uuid.New(), Name: name, Email: email, Message: message, CreatedAt: time.Now()}
	if err := uc.Repo.SaveMessage(ctx, m); err != nil {
		return nil, err
	}
	if uc.Notifier != nil {
		uc.Notifier.ContactReceived(m)
	}
	return m, nil
}

func (uc *AudienceUC) Subscribers(ctx context.Context) ([]domain.Subscriber, error) {
	return uc.Repo.ListSubscribers(ctx)
}

func (uc *AudienceUC) Messages(ctx context.Context) ([]domain.ContactMessage, error) {
	return uc.Repo.ListMessages(ctx)
}
