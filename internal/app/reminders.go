package app

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/balkashynov/remindr/internal/db"
	"github.com/balkashynov/remindr/internal/models"
	"github.com/balkashynov/remindr/internal/parser"
	"github.com/balkashynov/remindr/internal/smart"
)

// ReminderInput carries every editable field of a reminder. Empty values mean
// the field is switched off.
type ReminderInput struct {
	Title     string `validate:"required,max=500"`
	Note      string `validate:"max=5000"`
	ListID    string `validate:"required"`
	Date      string
	Time      string
	Tag       string `validate:"max=50"`
	Location  bool
	Flagged   bool
	Messaging bool
	Priority  string `validate:"omitempty,oneof=None Low Medium High"`
	PhotoURI  string
	URL       string `validate:"omitempty,url"`
}

// InputFrom builds an input holding the reminder's current values
func InputFrom(r models.Reminder) ReminderInput {
	return ReminderInput{
		Title:     r.Title,
		Note:      r.Note,
		ListID:    r.ListID,
		Date:      r.Details.Date,
		Time:      r.Details.Time,
		Tag:       r.Details.Tag,
		Location:  r.Details.Location,
		Flagged:   r.Details.Flagged,
		Messaging: r.Details.Messaging,
		Priority:  r.Details.Priority,
		PhotoURI:  r.Details.PhotoURI,
		URL:       r.Details.URL,
	}
}

// normalize trims the input and canonicalises date and time
func (a *App) normalize(in ReminderInput) (ReminderInput, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Note = strings.TrimSpace(in.Note)
	in.ListID = strings.TrimSpace(in.ListID)
	in.Tag = strings.TrimPrefix(strings.TrimSpace(in.Tag), "#")
	in.URL = strings.TrimSpace(in.URL)

	if in.Priority != "" {
		p, ok := parser.NormalizePriority(in.Priority)
		if !ok {
			return in, fmt.Errorf("%w: priority must be one of: None Low Medium High", ErrInvalidInput)
		}
		in.Priority = p
	}
	if in.Priority == models.PriorityNone {
		in.Priority = ""
	}

	if d := strings.TrimSpace(in.Date); d != "" {
		date, err := parser.ParseDateInput(d, a.now())
		if err != nil {
			return in, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		in.Date = date
	} else {
		in.Date = ""
	}

	if t := strings.TrimSpace(in.Time); t != "" {
		clock, err := parser.NormalizeTime(t)
		if err != nil {
			return in, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		in.Time = clock
	} else {
		in.Time = ""
	}

	return in, a.validateStruct(in)
}

// checkTargetList makes sure reminders only land in existing user lists
func (a *App) checkTargetList(listID string) error {
	list, ok := a.lists.Get(listID)
	if !ok {
		return fmt.Errorf("%w: %s", db.ErrListNotFound, listID)
	}
	if list.SmartList {
		return fmt.Errorf("%w: %s is a smart list", ErrNotUserList, list.Name)
	}
	return nil
}

func applyInput(r *models.Reminder, in ReminderInput) {
	r.Title = in.Title
	r.Note = in.Note
	r.ListID = in.ListID
	r.Details = models.ReminderDetails{
		Date:      in.Date,
		Time:      in.Time,
		Tag:       in.Tag,
		Location:  in.Location,
		Flagged:   in.Flagged,
		Messaging: in.Messaging,
		Priority:  in.Priority,
		PhotoURI:  in.PhotoURI,
		URL:       in.URL,
	}
}

// CreateReminder stores a new pending reminder and schedules its notification
func (a *App) CreateReminder(ctx context.Context, in ReminderInput) (*models.Reminder, error) {
	in, err := a.normalize(in)
	if err != nil {
		return nil, err
	}
	if err := a.checkTargetList(in.ListID); err != nil {
		return nil, err
	}

	rem := &models.Reminder{
		ID:     uuid.NewString(),
		Status: models.StatusPending,
	}
	applyInput(rem, in)

	if err := a.reminders.Insert(ctx, rem); err != nil {
		return nil, err
	}

	if _, _, err := a.reconciler.Schedule(ctx, *rem); err != nil {
		a.log.Warnw("failed to schedule notification", "reminder", rem.ID, "error", err)
	}

	a.log.Infow("reminder created", "reminder", rem.ID, "list", rem.ListID)
	return rem, nil
}

// UpdateReminder replaces the editable fields of a reminder and reschedules it
func (a *App) UpdateReminder(ctx context.Context, id string, in ReminderInput) (*models.Reminder, error) {
	current, ok := a.reminders.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", db.ErrReminderNotFound, id)
	}

	in, err := a.normalize(in)
	if err != nil {
		return nil, err
	}
	if in.ListID != current.ListID {
		if err := a.checkTargetList(in.ListID); err != nil {
			return nil, err
		}
	}

	updated := current
	applyInput(&updated, in)
	if err := a.reminders.Update(ctx, &updated); err != nil {
		return nil, err
	}

	if updated.Completed() {
		if _, err := a.reconciler.CancelFor(ctx, id); err != nil {
			a.log.Warnw("failed to cancel notifications", "reminder", id, "error", err)
		}
	} else if _, _, err := a.reconciler.Reschedule(ctx, updated); err != nil {
		a.log.Warnw("failed to reschedule notification", "reminder", id, "error", err)
	}

	return &updated, nil
}

// SetCompleted marks a reminder done or pending. Completing cancels pending
// notifications, reopening schedules again when the moment is still ahead.
func (a *App) SetCompleted(ctx context.Context, id string, done bool) (*models.Reminder, error) {
	if _, ok := a.reminders.Get(id); !ok {
		return nil, fmt.Errorf("%w: %s", db.ErrReminderNotFound, id)
	}

	status := models.StatusPending
	if done {
		status = models.StatusCompleted
	}
	changed, err := a.reminders.SetStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}
	rem, _ := a.reminders.Get(id)
	if !changed {
		return &rem, nil
	}

	if done {
		_, err := a.reconciler.CancelFor(ctx, id)
		if err != nil {
			a.log.Warnw("failed to cancel notifications", "reminder", id, "error", err)
		}
	} else if _, _, err := a.reconciler.Reschedule(ctx, rem); err != nil {
		a.log.Warnw("failed to reschedule notification", "reminder", id, "error", err)
	}

	return &rem, nil
}

// ToggleFlag flips the flagged attribute
func (a *App) ToggleFlag(ctx context.Context, id string) (*models.Reminder, error) {
	rem, ok := a.reminders.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", db.ErrReminderNotFound, id)
	}

	rem.Details.Flagged = !rem.Details.Flagged
	if err := a.reminders.Update(ctx, &rem); err != nil {
		return nil, err
	}
	return &rem, nil
}

// DeleteReminder cancels pending notifications and removes the reminder
func (a *App) DeleteReminder(ctx context.Context, id string) error {
	if _, ok := a.reminders.Get(id); !ok {
		return fmt.Errorf("%w: %s", db.ErrReminderNotFound, id)
	}

	if _, err := a.reconciler.CancelFor(ctx, id); err != nil {
		a.log.Warnw("failed to cancel notifications", "reminder", id, "error", err)
	}
	return a.reminders.Delete(ctx, id)
}

// ClearCompleted removes the completed reminders visible in a list and
// returns how many went away
func (a *App) ClearCompleted(ctx context.Context, listID string) (int, error) {
	if _, ok := a.lists.Get(listID); !ok {
		return 0, fmt.Errorf("%w: %s", db.ErrListNotFound, listID)
	}

	var errs []error
	removed := 0
	for _, rem := range smart.FilterAt(a.reminders.Snapshot(), listID, a.now()) {
		if !rem.Completed() {
			continue
		}
		if err := a.DeleteReminder(ctx, rem.ID); err != nil {
			errs = append(errs, err)
			continue
		}
		removed++
	}
	return removed, errors.Join(errs...)
}

// EmptyList removes every reminder of a user list and keeps the list
func (a *App) EmptyList(ctx context.Context, listID string) (int, error) {
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

	removed, err := a.reminders.DeleteByListID(ctx, listID)
	if err != nil {
		return 0, err
	}
	a.log.Infow("list emptied", "list", listID, "reminders", len(removed))
	return len(removed), nil
}

// DeleteAllReminders removes every reminder of every list
func (a *App) DeleteAllReminders(ctx context.Context) (int, error) {
	pending, err := a.notifier.Pending(ctx)
	if err != nil {
		a.log.Warnw("failed to read pending notifications", "error", err)
	}
	for _, n := range pending {
		if err := a.notifier.Cancel(ctx, n.ID); err != nil {
			a.log.Warnw("failed to cancel notification", "handle", n.ID, "error", err)
		}
	}

	removed, err := a.reminders.DeleteAll(ctx)
	if err != nil {
		return 0, err
	}
	a.log.Infow("all reminders deleted", "reminders", removed)
	return removed, nil
}

// MoveReminder moves a reminder to a zero-based position inside its list
func (a *App) MoveReminder(ctx context.Context, id string, position int) error {
	rem, ok := a.reminders.Get(id)
	if !ok {
		return fmt.Errorf("%w: %s", db.ErrReminderNotFound, id)
	}

	siblings := smart.FilterAt(a.reminders.Snapshot(), rem.ListID, a.now())
	ids := make([]string, 0, len(siblings))
	for _, s := range siblings {
		if s.ID != id {
			ids = append(ids, s.ID)
		}
	}

	if position < 0 {
		position = 0
	}
	if position > len(ids) {
		position = len(ids)
	}
	ids = append(ids[:position], append([]string{id}, ids[position:]...)...)

	return a.reminders.Reorder(ctx, ids)
}

// View returns what a list shows: the smart filter applied to the reminder
// collection, with completed reminders hidden unless asked for. The Done list
// always shows its completed reminders.
func (a *App) View(listID string, showCompleted bool) ([]models.Reminder, error) {
	if _, ok := a.lists.Get(listID); !ok {
		return nil, fmt.Errorf("%w: %s", db.ErrListNotFound, listID)
	}

	view := smart.FilterAt(a.reminders.Snapshot(), listID, a.now())
	if showCompleted || listID == smart.Done {
		return view, nil
	}

	visible := make([]models.Reminder, 0, len(view))
	for _, r := range view {
		if !r.Completed() {
			visible = append(visible, r)
		}
	}
	return visible, nil
}

// Search finds reminders whose title, note or tag contains the query,
// best matches first
func (a *App) Search(query string) []models.Reminder {
	q := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(query, "#")))
	if q == "" {
		return nil
	}

	type hit struct {
		rem   models.Reminder
		score int
	}

	var hits []hit
	for _, r := range a.reminders.Snapshot() {
		if score := matchScore(r, q); score > 0 {
			hits = append(hits, hit{rem: r, score: score})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].score > hits[j].score
	})

	results := make([]models.Reminder, len(hits))
	for i, h := range hits {
		results[i] = h.rem
	}
	return results
}

func matchScore(r models.Reminder, q string) int {
	title := strings.ToLower(r.Title)
	switch {
	case title == q:
		return 100
	case strings.HasPrefix(title, q):
		return 80
	case strings.Contains(title, q):
		return 60
	case strings.EqualFold(r.Details.Tag, q):
		return 50
	case strings.Contains(strings.ToLower(r.Details.Tag), q):
		return 40
	case strings.Contains(strings.ToLower(r.Note), q):
		return 20
	}
	return 0
}

// ResolveReminder finds a reminder by id or by a unique id prefix
func (a *App) ResolveReminder(ref string) (models.Reminder, error) {
	ref = strings.TrimSpace(ref)
	if rem, ok := a.reminders.Get(ref); ok {
		return rem, nil
	}

	var found []models.Reminder
	for _, r := range a.reminders.Snapshot() {
		if ref != "" && strings.HasPrefix(r.ID, ref) {
			found = append(found, r)
		}
	}
	switch len(found) {
	case 1:
		return found[0], nil
	case 0:
		return models.Reminder{}, fmt.Errorf("%w: %s", db.ErrReminderNotFound, ref)
	default:
		return models.Reminder{}, fmt.Errorf("%w: %q matches %d reminders", ErrInvalidInput, ref, len(found))
	}
}
