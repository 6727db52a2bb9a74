package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/balkashynov/remindr/internal/db"
	"github.com/balkashynov/remindr/internal/models"
	"github.com/balkashynov/remindr/internal/smart"
)

// Defaults for lists created without an icon or color
const (
	DefaultListIcon  = "list"
	DefaultListColor = "#007AFF"
)

// ListInput carries the editable attributes of a user list
type ListInput struct {
	Name  string `validate:"required,max=100"`
	Icon  string `validate:"max=50"`
	Color string `validate:"omitempty,hexcolor"`
}

// ListSummary is a list together with the size of its view
type ListSummary struct {
	models.List
	Count int `json:"count"`
}

// GroupSummary is a group with its member lists
type GroupSummary struct {
	models.Group
	Lists []ListSummary `json:"lists"`
}

// Overview is the home screen: smart lists, groups, then ungrouped user lists
type Overview struct {
	Smart     []ListSummary  `json:"smart"`
	Groups    []GroupSummary `json:"groups"`
	Ungrouped []ListSummary  `json:"ungrouped"`
}

func (in ListInput) normalized() ListInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Icon = strings.TrimSpace(in.Icon)
	in.Color = strings.TrimSpace(in.Color)
	if in.Icon == "" {
		in.Icon = DefaultListIcon
	}
	if in.Color == "" {
		in.Color = DefaultListColor
	}
	return in
}

// CreateList adds a user list, optionally inside a group
func (a *App) CreateList(ctx context.Context, in ListInput, groupID string) (*models.List, error) {
	in = in.normalized()
	if err := a.validateStruct(in); err != nil {
		return nil, err
	}

	list := &models.List{
		ListID: uuid.NewString(),
		Name:   in.Name,
		Icon:   in.Icon,
		Color:  in.Color,
	}
	if groupID != "" {
		if _, ok := a.groups.Get(groupID); !ok {
			return nil, fmt.Errorf("%w: %s", db.ErrGroupNotFound, groupID)
		}
		list.GroupID = &groupID
	}

	if err := a.lists.Insert(ctx, list); err != nil {
		return nil, err
	}

	a.log.Infow("list created", "list", list.ListID, "name", list.Name)
	return list, nil
}

// UpdateList changes name, icon and color of a user list
func (a *App) UpdateList(ctx context.Context, listID string, in ListInput) (*models.List, error) {
	if smart.IsReserved(listID) {
		return nil, ErrProtectedList
	}

	list, ok := a.lists.Get(listID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", db.ErrListNotFound, listID)
	}

	in = in.normalized()
	if err := a.validateStruct(in); err != nil {
		return nil, err
	}

	list.Name = in.Name
	list.Icon = in.Icon
	list.Color = in.Color
	if err := a.lists.Update(ctx, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// RenameList changes only the name of a user list
func (a *App) RenameList(ctx context.Context, listID, name string) (*models.List, error) {
	if smart.IsReserved(listID) {
		return nil, ErrProtectedList
	}

	list, ok := a.lists.Get(listID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", db.ErrListNotFound, listID)
	}
	return a.UpdateList(ctx, listID, ListInput{Name: name, Icon: list.Icon, Color: list.Color})
}

// DeleteList removes a user list with all of its reminders and their
// pending notifications. Smart lists are refused with ErrProtectedList.
func (a *App) DeleteList(ctx context.Context, listID string) (int, error) {
	if smart.IsReserved(listID) {
		return 0, ErrProtectedList
	}
	if _, ok := a.lists.Get(listID); !ok {
		return 0, fmt.Errorf("%w: %s", db.ErrListNotFound, listID)
	}

	for _, rem := range smart.FilterAt(a.reminders.Snapshot(), listID, a.now()) {
		if _, err := a.reconciler.CancelFor(ctx, rem.ID); err != nil {
			a.log.Warnw("failed to cancel notifications", "reminder", rem.ID, "error", err)
		}
	}

	removed, err := a.lists.Delete(ctx, listID)
	if err != nil {
		return 0, err
	}

	a.log.Infow("list deleted", "list", listID, "reminders", len(removed))
	return len(removed), nil
}

// AssignList moves a user list into a group; an empty groupID ungroups it
func (a *App) AssignList(ctx context.Context, listID, groupID string) error {
	if smart.IsReserved(listID) {
		return ErrProtectedList
	}

	var target *string
	if groupID != "" {
		if _, ok := a.groups.Get(groupID); !ok {
			return fmt.Errorf("%w: %s", db.ErrGroupNotFound, groupID)
		}
		target = &groupID
	}
	return a.lists.SetGroup(ctx, listID, target)
}

// Lists returns every list with the number of reminders its view holds
func (a *App) Lists() []ListSummary {
	reminders := a.reminders.Snapshot()
	now := a.now()

	lists := a.lists.Snapshot()
	out := make([]ListSummary, len(lists))
	for i, l := range lists {
		out[i] = ListSummary{List: l, Count: smart.Count(reminders, l.ListID, now)}
	}
	return out
}

// Overview arranges the lists the way the home screen shows them
func (a *App) Overview() Overview {
	var ov Overview

	byGroup := make(map[string][]ListSummary)
	for _, s := range a.Lists() {
		switch {
		case s.SmartList:
			ov.Smart = append(ov.Smart, s)
		case s.GroupID != nil:
			byGroup[*s.GroupID] = append(byGroup[*s.GroupID], s)
		default:
			ov.Ungrouped = append(ov.Ungrouped, s)
		}
	}

	for _, g := range a.groups.Snapshot() {
		ov.Groups = append(ov.Groups, GroupSummary{Group: g, Lists: byGroup[g.GroupID]})
	}
	return ov
}

// ResolveList finds a list by id, then by case-insensitive name
func (a *App) ResolveList(ref string) (models.List, error) {
	ref = strings.TrimSpace(ref)
	if list, ok := a.lists.Get(ref); ok {
		return list, nil
	}
	for _, l := range a.lists.Snapshot() {
		if strings.EqualFold(l.Name, ref) {
			return l, nil
		}
	}
	return models.List{}, fmt.Errorf("%w: %s", db.ErrListNotFound, ref)
}

// CreateGroup adds a group and moves the given lists into it
func (a *App) CreateGroup(ctx context.Context, name string, listIDs ...string) (*models.Group, error) {
	in := struct {
		Name string `validate:"required,max=100"`
	}{Name: strings.TrimSpace(name)}
	if err := a.validateStruct(in); err != nil {
		return nil, err
	}

	for _, id := range listIDs {
		list, ok := a.lists.Get(id)
		if !ok {
			return nil, fmt.Errorf("%w: %s", db.ErrListNotFound, id)
		}
		if list.SmartList {
			return nil, ErrProtectedList
		}
	}

	group := &models.Group{GroupID: uuid.NewString(), Name: in.Name}
	if err := a.groups.Insert(ctx, group); err != nil {
		return nil, err
	}

	for _, id := range listIDs {
		if err := a.lists.SetGroup(ctx, id, &group.GroupID); err != nil {
			return group, err
		}
	}

	a.log.Infow("group created", "group", group.GroupID, "lists", len(listIDs))
	return group, nil
}

// RenameGroup changes the name of a group
func (a *App) RenameGroup(ctx context.Context, groupID, name string) (*models.Group, error) {
	group, ok := a.groups.Get(groupID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", db.ErrGroupNotFound, groupID)
	}

	in := struct {
		Name string `validate:"required,max=100"`
	}{Name: strings.TrimSpace(name)}
	if err := a.validateStruct(in); err != nil {
		return nil, err
	}

	group.Name = in.Name
	if err := a.groups.Update(ctx, &group); err != nil {
		return nil, err
	}
	return &group, nil
}

// DeleteGroup removes a group; its lists stay and become ungrouped
func (a *App) DeleteGroup(ctx context.Context, groupID string) ([]string, error) {
	return a.groups.Delete(ctx, groupID)
}

// ResolveGroup finds a group by id, then by case-insensitive name
func (a *App) ResolveGroup(ref string) (models.Group, error) {
	ref = strings.TrimSpace(ref)
	if g, ok := a.groups.Get(ref); ok {
		return g, nil
	}
	for _, g := range a.groups.Snapshot() {
		if strings.EqualFold(g.Name, ref) {
			return g, nil
		}
	}
	return models.Group{}, fmt.Errorf("%w: %s", db.ErrGroupNotFound, ref)
}
