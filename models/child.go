package models

import "time"

// Child belongs to a parent user; orders deliver to a (child, date) pair.
type Child struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID" json:"-"`
	Name      string    `gorm:"type:varchar(100);not null" json:"name"`
	Class     string    `gorm:"type:varchar(50)" json:"class"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
