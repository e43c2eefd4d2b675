package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

type ShippingAddress struct {
	FirstName string `gorm:"size:80" json:"firstName"`
	LastName  string `gorm:"size:80" json:"lastName"`
	Company   string `gorm:"size:120" json:"company,omitempty"`
	Address   string `gorm:"size:255" json:"address"`
	Address2  string `gorm:"size:255" json:"address2,omitempty"`
	City      string `gorm:"size:80" json:"city"`
	State     string `gorm:"size:80" json:"state,omitempty"`
	Postcode  string `gorm:"size:20" json:"postcode"`
	Country   string `gorm:"size:80" json:"country,omitempty"`
	Phone     string `gorm:"size:50" json:"phone,omitempty"`
}

// OrderLine is one cart line frozen into an order.
type OrderLine struct {
	ProductID string          `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"qty"`
	Image     string          `json:"image,omitempty"`
}

// OrderPayload is what checkout hands to the order sink.
type OrderPayload struct {
	Email          string          `json:"email"`
	Items          []OrderLine     `json:"items"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountCode   string          `json:"discountCode,omitempty"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	Total          decimal.Decimal `json:"total"`
	Shipping       ShippingAddress `json:"shipping"`
	ContactOptIn   bool            `json:"contactOptIn"`
}

type Order struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Status         OrderStatus     `gorm:"type:varchar(30);index" json:"status"`
	Items          []OrderItem     `gorm:"constraint:OnDelete:CASCADE" json:"items"`
	Email          string          `gorm:"size:140;index" json:"email"`
	Shipping       ShippingAddress `gorm:"embedded;embeddedPrefix:ship_" json:"shipping"`
	ContactOptIn   bool            `gorm:"not null;default:false" json:"contactOptIn"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"subtotal"`
	DiscountCode   string          `gorm:"size:40" json:"discountCode,omitempty"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"discountAmount"`
	Total          decimal.Decimal `gorm:"type:decimal(12,2)" json:"total"`
	TrackingNumber string          `gorm:"size:80" json:"trackingNumber,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type OrderItem struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey" json:"-"`
	OrderID   uuid.UUID       `gorm:"type:uuid;index" json:"-"`
	ProductID string          `gorm:"size:64;index" json:"id"`
	Title     string          `gorm:"size:180" json:"name"`
	Qty       int             `gorm:"not null" json:"qty"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(12,2)" json:"price"`
	Image     string          `gorm:"size:512" json:"image,omitempty"`
}

// NewOrderFromPayload assigns ids and the initial status.
func NewOrderFromPayload(p OrderPayload) *Order {
	o := &Order{
		ID:             uuid.New(),
		Status:         OrderStatusPending,
		Email:          p.Email,
		Shipping:       p.Shipping,
		ContactOptIn:   p.ContactOptIn,
		Subtotal:       p.Subtotal,
		DiscountCode:   p.DiscountCode,
		DiscountAmount: p.DiscountAmount,
		Total:          p.Total,
	}
	for _, l := range p.Items {
		o.Items = append(o.Items, OrderItem{
			ID:        uuid.New(),
			OrderID:   o.ID,
			ProductID: l.ProductID,
			Title:     l.Name,
			Qty:       l.Quantity,
			UnitPrice: l.Price,
			Image:     l.Image,
		})
	}
	return o
}
