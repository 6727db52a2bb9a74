package db

import (
	"context"
	"fmt"
	"sync"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/balkashynov/remindr/internal/models"
)

// GroupStore persists groups and mirrors them in memory
type GroupStore struct {
	db    *gorm.DB
	lists *ListStore

	mu     sync.RWMutex
	groups []models.Group
}

// NewGroupStore creates a group store. Deleting a group detaches its
// member lists in the given list store's collection.
func NewGroupStore(db *gorm.DB, lists *ListStore) *GroupStore {
	return &GroupStore{db: db, lists: lists}
}

// LoadAll replaces the in-memory collection with the persisted one
func (s *GroupStore) LoadAll(ctx context.Context) ([]models.Group, error) {
	var groups []models.Group
	if err := s.db.WithContext(ctx).Order("created_at ASC").Find(&groups).Error; err != nil {
		return nil, fmt.Errorf("failed to load groups: %w", err)
	}

	s.mu.Lock()
	s.groups = groups
	s.mu.Unlock()

	return cloneGroups(groups), nil
}

// Insert saves a new group
func (s *GroupStore) Insert(ctx context.Context, g *models.Group) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(g).Error; err != nil {
		return fmt.Errorf("failed to add group: %w", err)
	}

	s.groups = append(s.groups, *g)
	return nil
}

// Update renames a group
func (s *GroupStore) Update(ctx context.Context, g *models.Group) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(g.GroupID)
	if idx < 0 {
		return fmt.Errorf("group %s: %w", g.GroupID, ErrGroupNotFound)
	}

	result := s.db.WithContext(ctx).Model(g).Select("Name").Updates(g)
	if result.Error != nil {
		return fmt.Errorf("failed to update group: %w", result.Error)
	}

	g.CreatedAt = s.groups[idx].CreatedAt
	s.groups[idx] = *g
	return nil
}

// Delete removes a group. Member lists survive with their group cleared;
// their ids are returned.
func (s *GroupStore) Delete(ctx context.Context, groupID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var members []string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.List{}).Where("group_id = ?", groupID).Pluck("list_id", &members).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.List{}).Where("group_id = ?", groupID).Update("group_id", nil).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Group{}, "group_id = ?", groupID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("group %s: %w", groupID, ErrGroupNotFound)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to delete group: %w", err)
	}

	if idx := s.indexOf(groupID); idx >= 0 {
		s.groups = append(s.groups[:idx], s.groups[idx+1:]...)
	}
	if s.lists != nil {
		s.lists.detachGroup(members...)
	}

	return members, nil
}

// Snapshot returns a copy of the in-memory collection
func (s *GroupStore) Snapshot() []models.Group {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneGroups(s.groups)
}

// Get looks a group up in the in-memory collection
func (s *GroupStore) Get(groupID string) (models.Group, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if idx := s.indexOf(groupID); idx >= 0 {
		return s.groups[idx], true
	}
	return models.Group{}, false
}

func (s *GroupStore) indexOf(groupID string) int {
	for i := range s.groups {
		if s.groups[i].GroupID == groupID {
			return i
		}
	}
	return -1
}

func cloneGroups(in []models.Group) []models.Group {
	if in == nil {
		return nil
	}
	out := make([]models.Group, len(in))
	copy(out, in)
	return out
}
