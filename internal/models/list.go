package models

import "time"

// List is either a user list or one of the seeded smart lists
type List struct {
	ListID    string    `gorm:"primaryKey" json:"list_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name      string  `gorm:"not null" json:"name"`
	Icon      string  `gorm:"not null" json:"icon"`
	Color     string  `gorm:"not null" json:"color"`
	SmartList bool    `gorm:"not null;default:false" json:"smart_list"`
	GroupID   *string `gorm:"index" json:"group_id,omitempty"`
	SortOrder int     `gorm:"not null;default:0" json:"sort_order"`

	// Relationships; deleting a list deletes its reminders
	Reminders []Reminder `gorm:"foreignKey:ListID;references:ListID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}

// InGroup reports whether the list belongs to the given group
func (l List) InGroup(groupID string) bool {
	return l.GroupID != nil && *l.GroupID == groupID
}
