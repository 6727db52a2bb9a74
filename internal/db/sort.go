package db

import (
	"sort"

	"github.com/balkashynov/remindr/internal/models"
)

// sortReminders orders the collection the way LoadAll reads it: sort_order, then created_at
func sortReminders(reminders []models.Reminder) {
	sort.SliceStable(reminders, func(i, j int) bool {
		if reminders[i].SortOrder != reminders[j].SortOrder {
			return reminders[i].SortOrder < reminders[j].SortOrder
		}
		return reminders[i].CreatedAt.Before(reminders[j].CreatedAt)
	})
}
