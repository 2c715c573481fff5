package models

import "time"

// CashPayment is the cash-desk audit row behind a cash Payment: what the
// cashier received and what change was handed back.
type CashPayment struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	PaymentID      uint      `gorm:"not null;index" json:"payment_id"`
	Payment        Payment   `gorm:"foreignKey:PaymentID" json:"-"`
	OrderID        uint      `gorm:"not null;index" json:"order_id"`
	ReceivedAmount float64   `gorm:"type:decimal(12,2);not null" json:"received_amount"`
	ChangeAmount   float64   `gorm:"type:decimal(12,2);not null" json:"change_amount"`
	CashierID      *uint     `gorm:"index" json:"cashier_id,omitempty"`
	Cashier        *User     `gorm:"foreignKey:CashierID" json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
