package models

import "time"

// BatchOrder maps one synthetic batch payment id onto the real orders it
// pays for. Written before the gateway transaction is created so the mapping
// survives a crash between gateway success and token fan-out.
type BatchOrder struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	BatchOrderID string    `gorm:"type:varchar(64);not null;index" json:"batch_order_id"`
	OrderNumber  string    `gorm:"type:varchar(64);not null;index" json:"order_number"`
	Order        Order     `gorm:"foreignKey:OrderNumber;references:OrderNumber;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
