package db

import (
	"context"
	"fmt"
	"sync"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/balkashynov/remindr/internal/models"
	"github.com/balkashynov/remindr/internal/smart"
)

// ListStore persists lists (smart and user lists) and mirrors them in memory
type ListStore struct {
	db        *gorm.DB
	reminders *ReminderStore

	mu    sync.RWMutex
	lists []models.List
}

// NewListStore creates a list store. Deleting a list also drops its
// reminders from the given reminder store's collection.
func NewListStore(db *gorm.DB, reminders *ReminderStore) *ListStore {
	return &ListStore{db: db, reminders: reminders}
}

// LoadAll replaces the in-memory collection with the persisted one
func (s *ListStore) LoadAll(ctx context.Context) ([]models.List, error) {
	var lists []models.List
	if err := s.db.WithContext(ctx).Order("sort_order ASC, created_at ASC").Find(&lists).Error; err != nil {
		return nil, fmt.Errorf("failed to load lists: %w", err)
	}

	s.mu.Lock()
	s.lists = lists
	s.mu.Unlock()

	return cloneLists(lists), nil
}

// Insert saves a new list
func (s *ListStore) Insert(ctx context.Context, l *models.List) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if l.SortOrder == 0 {
		l.SortOrder = len(s.lists)
	}

	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(l).Error; err != nil {
		return fmt.Errorf("failed to insert list: %w", err)
	}

	s.lists = append(s.lists, *l)
	return nil
}

// Update overwrites name, icon, color, group and position of a user list.
// A user list can not become a smart list.
func (s *ListStore) Update(ctx context.Context, l *models.List) error {
	if smart.IsReserved(l.ListID) {
		return ErrProtectedList
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(l.ListID)
	if idx < 0 {
		return fmt.Errorf("list %s: %w", l.ListID, ErrListNotFound)
	}

	result := s.db.WithContext(ctx).
		Model(l).
		Select("Name", "Icon", "Color", "GroupID", "SortOrder").
		Updates(l)
	if result.Error != nil {
		return fmt.Errorf("failed to update list: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("list %s: %w", l.ListID, ErrListNotFound)
	}

	l.CreatedAt = s.lists[idx].CreatedAt
	l.SmartList = s.lists[idx].SmartList
	s.lists[idx] = *l
	return nil
}

// SetGroup moves a list into a group, or out of any group when groupID is nil
func (s *ListStore) SetGroup(ctx context.Context, listID string, groupID *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(listID)
	if idx < 0 {
		return fmt.Errorf("list %s: %w", listID, ErrListNotFound)
	}
	if s.lists[idx].SmartList {
		return ErrProtectedList
	}

	result := s.db.WithContext(ctx).Model(&models.List{}).Where("list_id = ?", listID).Update("group_id", groupID)
	if result.Error != nil {
		return fmt.Errorf("failed to update group of list: %w", result.Error)
	}

	s.lists[idx].GroupID = groupID
	return nil
}

// Delete removes a user list together with all of its reminders.
// The five smart lists are rejected with ErrProtectedList and left untouched.
func (s *ListStore) Delete(ctx context.Context, listID string) ([]string, error) {
	if smart.IsReserved(listID) {
		return nil, ErrProtectedList
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Same statements as ReminderStore.DeleteByListID, in one transaction with the list row
	var removed []string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ids, err := deleteRemindersOfList(tx, listID)
		if err != nil {
			return err
		}
		removed = ids
		result := tx.Delete(&models.List{}, "list_id = ?", listID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("list %s: %w", listID, ErrListNotFound)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to delete list: %w", err)
	}

	if idx := s.indexOf(listID); idx >= 0 {
		s.lists = append(s.lists[:idx], s.lists[idx+1:]...)
	}
	if s.reminders != nil {
		s.reminders.forget(removed...)
	}

	return removed, nil
}

// Snapshot returns a copy of the in-memory collection
func (s *ListStore) Snapshot() []models.List {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneLists(s.lists)
}

// Get looks a list up in the in-memory collection
func (s *ListStore) Get(listID string) (models.List, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if idx := s.indexOf(listID); idx >= 0 {
		return s.lists[idx], true
	}
	return models.List{}, false
}

// detachGroup clears the group of the given lists after the row store did so
func (s *ListStore) detachGroup(listIDs ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range listIDs {
		if idx := s.indexOf(id); idx >= 0 {
			s.lists[idx].GroupID = nil
		}
	}
}

func (s *ListStore) indexOf(listID string) int {
	for i := range s.lists {
		if s.lists[i].ListID == listID {
			return i
		}
	}
	return -1
}

func cloneLists(in []models.List) []models.List {
	if in == nil {
		return nil
	}
	out := make([]models.List, len(in))
	copy(out, in)
	return out
}
