package db

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/balkashynov/remindr/internal/models"
)

// ReminderStore persists reminders and mirrors them in memory.
// Every mutation is written to the row store first and mirrored only once it succeeded.
type ReminderStore struct {
	db *gorm.DB

	mu        sync.RWMutex
	reminders []models.Reminder
}

// NewReminderStore creates a store over an opened database
func NewReminderStore(db *gorm.DB) *ReminderStore {
	return &ReminderStore{db: db}
}

// LoadAll replaces the in-memory collection with the persisted one
func (s *ReminderStore) LoadAll(ctx context.Context) ([]models.Reminder, error) {
	var reminders []models.Reminder
	if err := s.db.WithContext(ctx).Order("sort_order ASC, created_at ASC").Find(&reminders).Error; err != nil {
		return nil, fmt.Errorf("failed to load reminders: %w", err)
	}

	s.mu.Lock()
	s.reminders = reminders
	s.mu.Unlock()

	return cloneReminders(reminders), nil
}

// Insert saves a new reminder and appends it to the collection
func (s *ReminderStore) Insert(ctx context.Context, r *models.Reminder) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r.SortOrder == 0 {
		r.SortOrder = s.nextSortOrder()
	}

	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(r).Error; err != nil {
		return fmt.Errorf("failed to insert reminder: %w", err)
	}

	s.reminders = append(s.reminders, *r)
	return nil
}

// Update overwrites every field of an existing reminder
func (s *ReminderStore) Update(ctx context.Context, r *models.Reminder) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(r.ID)
	if idx < 0 {
		return fmt.Errorf("reminder %s: %w", r.ID, ErrReminderNotFound)
	}

	result := s.db.WithContext(ctx).
		Model(r).
		Select("*").
		Omit("CreatedAt", clause.Associations).
		Updates(r)
	if result.Error != nil {
		return fmt.Errorf("failed to update reminder: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("reminder %s: %w", r.ID, ErrReminderNotFound)
	}

	r.CreatedAt = s.reminders[idx].CreatedAt
	s.reminders[idx] = *r
	return nil
}

// Delete removes a single reminder
func (s *ReminderStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := s.db.WithContext(ctx).Delete(&models.Reminder{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete reminder: %w", result.Error)
	}
	if result.RowsAffected == 0 && s.indexOf(id) < 0 {
		return fmt.Errorf("reminder %s: %w", id, ErrReminderNotFound)
	}

	s.forgetLocked(id)
	return nil
}

// SetStatus writes only the status column, and only when it differs from the
// stored one. The collection entry is then refreshed from the row, so fields
// edited by another process are picked up instead of overwritten. changed is
// false when the row already had that status.
func (s *ReminderStore) SetStatus(ctx context.Context, id string, status int) (changed bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := s.db.WithContext(ctx).
		Model(&models.Reminder{}).
		Where("id = ? AND status <> ?", id, status).
		Update("status", status)
	if result.Error != nil {
		return false, fmt.Errorf("failed to update reminder status: %w", result.Error)
	}

	var row models.Reminder
	err = s.db.WithContext(ctx).First(&row, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		s.forgetLocked(id)
		return false, fmt.Errorf("reminder %s: %w", id, ErrReminderNotFound)
	}
	if err != nil {
		return false, fmt.Errorf("failed to reload reminder: %w", err)
	}

	s.putLocked(row)
	return result.RowsAffected > 0, nil
}

// DeleteByListID removes every reminder of a list and returns their ids
func (s *ReminderStore) DeleteByListID(ctx context.Context, listID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed, err := deleteRemindersOfList(s.db.WithContext(ctx), listID)
	if err != nil {
		return nil, fmt.Errorf("failed to delete reminders of list: %w", err)
	}

	s.forgetLocked(removed...)
	return removed, nil
}

// DeleteAll removes every reminder and returns how many rows went away
func (s *ReminderStore) DeleteAll(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := s.db.WithContext(ctx).Where("1 = 1").Delete(&models.Reminder{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete reminders: %w", result.Error)
	}

	s.reminders = nil
	return int(result.RowsAffected), nil
}

// deleteRemindersOfList runs on db, which may be a transaction
func deleteRemindersOfList(db *gorm.DB, listID string) ([]string, error) {
	var ids []string
	if err := db.Model(&models.Reminder{}).Where("list_id = ?", listID).Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	if err := db.Delete(&models.Reminder{}, "list_id = ?", listID).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// Reorder persists ids[i] at position i and re-sorts the collection
func (s *ReminderStore) Reorder(ctx context.Context, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, id := range ids {
			if err := tx.Model(&models.Reminder{}).Where("id = ?", id).Update("sort_order", i).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to reorder reminders: %w", err)
	}

	positions := make(map[string]int, len(ids))
	for i, id := range ids {
		positions[id] = i
	}
	for i := range s.reminders {
		if pos, ok := positions[s.reminders[i].ID]; ok {
			s.reminders[i].SortOrder = pos
		}
	}
	sortReminders(s.reminders)
	return nil
}

// Snapshot returns a copy of the in-memory collection in display order
func (s *ReminderStore) Snapshot() []models.Reminder {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneReminders(s.reminders)
}

// Get looks a reminder up in the in-memory collection
func (s *ReminderStore) Get(id string) (models.Reminder, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if idx := s.indexOf(id); idx >= 0 {
		return s.reminders[idx], true
	}
	return models.Reminder{}, false
}

// forget drops reminders from the collection after the row store removed them
func (s *ReminderStore) forget(ids ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.forgetLocked(ids...)
}

func (s *ReminderStore) forgetLocked(ids ...string) {
	if len(ids) == 0 {
		return
	}
	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}

	kept := s.reminders[:0]
	for _, r := range s.reminders {
		if _, ok := drop[r.ID]; !ok {
			kept = append(kept, r)
		}
	}
	s.reminders = kept
}

// putLocked replaces the entry with the same id, or adds it in display order
func (s *ReminderStore) putLocked(r models.Reminder) {
	if idx := s.indexOf(r.ID); idx >= 0 {
		s.reminders[idx] = r
		return
	}
	s.reminders = append(s.reminders, r)
	sortReminders(s.reminders)
}

func (s *ReminderStore) indexOf(id string) int {
	for i := range s.reminders {
		if s.reminders[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *ReminderStore) nextSortOrder() int {
	next := 1
	for _, r := range s.reminders {
		if r.SortOrder >= next {
			next = r.SortOrder + 1
		}
	}
	return next
}

func cloneReminders(in []models.Reminder) []models.Reminder {
	if in == nil {
		return nil
	}
	out := make([]models.Reminder, len(in))
	copy(out, in)
	return out
}
