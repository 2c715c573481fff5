package models

import (
	"time"
)

// Payment is one settlement attempt against an order. Append-only: an order
// may accumulate several attempts (a failed gateway attempt followed by a
// successful cash payment, for example).
type Payment struct {
	ID            uint       `json:"id" gorm:"primaryKey"`
	OrderID       uint       `json:"order_id" gorm:"not null;index"`
	Order         Order      `json:"-" gorm:"foreignKey:OrderID"`
	Method        string     `json:"method" gorm:"type:varchar(20);not null;default:'cash'"`
	Status        string     `json:"status" gorm:"type:varchar(20);not null;default:'pending'"`
	TransactionID string     `json:"transaction_id" gorm:"type:varchar(100)"`
	Amount        float64    `json:"amount" gorm:"type:decimal(12,2);not null"`
	PaymentTime   *time.Time `json:"payment_time"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}
