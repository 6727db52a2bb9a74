package models

import "time"

// Notification is a pending one-shot local notification for a reminder.
// Rows are removed when they fire or are cancelled.
type Notification struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	ReminderID string    `gorm:"not null;index" json:"reminder_id"`
	Title      string    `gorm:"not null" json:"title"`
	FireAt     time.Time `gorm:"not null;index" json:"fire_at"`

	// Relationships
	Reminder *Reminder `gorm:"foreignKey:ReminderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}
