package models

import "time"

// Group bundles user lists; it never owns reminders directly
type Group struct {
	GroupID   string    `gorm:"primaryKey" json:"group_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name string `gorm:"not null" json:"name"`

	// Relationships; deleting a group keeps its lists ungrouped
	Lists []List `gorm:"foreignKey:GroupID;references:GroupID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`
}
