package models

import (
	"time"
)

// Order is one checkout unit. TotalAmount is kept equal to the sum of its
// line items' total_price by database triggers (see database/migrations).
type Order struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	OrderNumber     string          `gorm:"type:varchar(64);uniqueIndex;not null" json:"order_number"`
	UserID          uint            `gorm:"not null;index" json:"user_id"`
	User            User            `gorm:"foreignKey:UserID" json:"-"`
	TotalAmount     float64         `gorm:"type:decimal(12,2);not null;default:0.00" json:"total_amount"`
	Status          string          `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	PaymentStatus   string          `gorm:"type:varchar(20);not null;default:'pending'" json:"payment_status"`
	PaymentMethod   string          `gorm:"type:varchar(20)" json:"payment_method,omitempty"`
	MidtransOrderID string          `gorm:"type:varchar(64);index" json:"midtrans_order_id,omitempty"`
	SnapToken       string          `gorm:"type:varchar(255)" json:"snap_token,omitempty"`
	CreatedAt       time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"not null" json:"updated_at"`
	LineItems       []OrderLineItem `gorm:"foreignKey:OrderID" json:"line_items"`
}
