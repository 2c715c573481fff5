package models

import "time"

// OrderLineItem is one (menu item, child, delivery date) line of an order.
// Menu name and child name are denormalized at checkout time so the order
// history survives later menu or child edits.
type OrderLineItem struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	OrderID      uint      `gorm:"not null;index;constraint:OnDelete:CASCADE" json:"order_id"`
	MenuItemID   *uint     `gorm:"index;constraint:OnDelete:RESTRICT" json:"menu_item_id,omitempty"`
	MenuItem     *MenuItem `gorm:"foreignKey:MenuItemID" json:"-"`
	MenuName     string    `gorm:"type:varchar(100);not null" json:"menu_name"`
	ChildID      *uint     `gorm:"index" json:"child_id,omitempty"`
	ChildName    string    `gorm:"type:varchar(100);not null" json:"child_name"`
	ChildClass   string    `gorm:"type:varchar(50)" json:"child_class"`
	Quantity     int       `gorm:"not null;default:1" json:"quantity"`
	UnitPrice    float64   `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	TotalPrice   float64   `gorm:"type:decimal(12,2);not null" json:"total_price"`
	DeliveryDate time.Time `gorm:"type:date;not null;index" json:"delivery_date"`
	OrderDate    time.Time `gorm:"type:date;not null" json:"order_date"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
