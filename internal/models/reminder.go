package models

import "time"

// Reminder status values
const (
	StatusPending   = 0
	StatusCompleted = 1
)

// Priority values accepted by the editing surfaces
const (
	PriorityNone   = "None"
	PriorityLow    = "Low"
	PriorityMedium = "Medium"
	PriorityHigh   = "High"
)

// Reminder represents a single reminder item attached to a user list
type Reminder struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Title   string          `gorm:"not null" json:"title"`
	Note    string          `json:"note,omitempty"`
	Details ReminderDetails `gorm:"embedded" json:"details"`
	ListID  string          `gorm:"not null;index" json:"list_id"`
	Status  int             `gorm:"not null;default:0" json:"status"` // 0=pending, 1=completed

	// Position inside the owning list
	SortOrder int `gorm:"not null;default:0" json:"sort_order"`
}

// ReminderDetails holds the optional attributes edited on the details screen
type ReminderDetails struct {
	Date      string `json:"date,omitempty"` // DD/MM/YYYY
	Time      string `json:"time,omitempty"` // HH:MM, 24h
	Tag       string `json:"tag,omitempty"`
	Location  bool   `gorm:"not null;default:false" json:"location"`
	Flagged   bool   `gorm:"not null;default:false" json:"flagged"`
	Messaging bool   `gorm:"not null;default:false" json:"messaging"`
	Priority  string `json:"priority,omitempty"`
	PhotoURI  string `json:"photo_uri,omitempty"`
	URL       string `json:"url,omitempty"`
}

// Completed reports whether the reminder has been marked done
func (r Reminder) Completed() bool {
	return r.Status == StatusCompleted
}

// HasSchedule reports whether a date or a time is set
func (d ReminderDetails) HasSchedule() bool {
	return d.Date != "" || d.Time != ""
}

// PriorityMarks renders the priority as the "!"-prefix shown before titles
func (d ReminderDetails) PriorityMarks() string {
	switch d.Priority {
	case PriorityLow:
		return "!"
	case PriorityMedium:
		return "!!"
	case PriorityHigh:
		return "!!!"
	default:
		return ""
	}
}
