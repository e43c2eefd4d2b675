package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type DiscountType string

const (
	DiscountPercent DiscountType = "percent"
	DiscountAmount  DiscountType = "amount"
)

type DiscountCode struct {
	Code      string          `gorm:"primaryKey;size:40" json:"code"`
	Type      DiscountType    `gorm:"type:varchar(10);not null" json:"type"`
	Value     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"value"`
	MaxUses   int             `gorm:"default:0" json:"maxUses,omitempty"`
	Uses      int             `gorm:"default:0" json:"uses"`
	ExpiresAt *time.Time      `json:"expiresAt,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}

// NormalizeCode is the canonical form codes are stored and looked up under.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Usable reports whether the code can still be redeemed at t.
func (d *DiscountCode) Usable(t time.Time) bool {
	if d.ExpiresAt != nil && t.After(*d.ExpiresAt) {
		return false
	}
	if d.MaxUses > 0 && d.Uses >= d.MaxUses {
		return false
	}
	return true
}
