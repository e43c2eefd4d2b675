package domain

import (
	"time"

	"github.com/google/uuid"
)

type Subscriber struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"-"`
	Email        string    `gorm:"size:140;uniqueIndex" json:"email"`
	Active       bool      `gorm:"not null;default:true" json:"active"`
	SubscribedAt time.Time `json:"subscribedAt"`
}

type ContactMessage struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"size:140" json:"name"`
	Email     string    `gorm:"size:140" json:"email"`
	Message   string    `gorm:"type:text" json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}
