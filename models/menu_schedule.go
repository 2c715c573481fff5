package models

import "time"

// MenuSchedule marks a menu item as orderable for one delivery date.
type MenuSchedule struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	MenuItemID   uint      `gorm:"not null;index" json:"menu_item_id"`
	MenuItem     MenuItem  `gorm:"foreignKey:MenuItemID" json:"menu_item"`
	ScheduleDate time.Time `gorm:"type:date;not null;index" json:"schedule_date"`
	Quota        int       `gorm:"not null;default:0" json:"quota"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
