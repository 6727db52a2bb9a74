// Package notify is the local notification subsystem: one-shot notifications
// keyed by reminder id, persisted while pending and delivered by timers.
package notify

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/balkashynov/remindr/internal/models"
)

// Delivery describes a notification that fired
type Delivery struct {
	Handle     string
	ReminderID string
	Title      string
	FiredAt    time.Time
}

// Notifier is what the reminder lifecycle needs from the notification subsystem
type Notifier interface {
	Schedule(ctx context.Context, reminderID, title string, fireAt time.Time) (string, error)
	Pending(ctx context.Context) ([]models.Notification, error)
	Cancel(ctx context.Context, handle string) error
	Subscribe(fn func(Delivery)) (unsubscribe func())
}

// Local delivers notifications in-process. Pending rows live in the
// notifications table; timers are only armed between Start and Stop.
type Local struct {
	db  *gorm.DB
	log *zap.SugaredLogger
	now func() time.Time

	mu      sync.Mutex
	started bool
	timers  map[string]*time.Timer
	subs    map[int]func(Delivery)
	nextSub int
}

var _ Notifier = (*Local)(nil)

// NewLocal creates a notifier backed by the given database
func NewLocal(db *gorm.DB, log *zap.SugaredLogger) *Local {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Local{
		db:     db,
		log:    log,
		now:    time.Now,
		timers: make(map[string]*time.Timer),
		subs:   make(map[int]func(Delivery)),
	}
}

// Schedule registers a one-shot notification and returns its handle
func (n *Local) Schedule(ctx context.Context, reminderID, title string, fireAt time.Time) (string, error) {
	row := models.Notification{
		ID:         uuid.NewString(),
		ReminderID: reminderID,
		Title:      title,
		FireAt:     fireAt,
	}
	if err := n.db.WithContext(ctx).Omit(clause.Associations).Create(&row).Error; err != nil {
		return "", fmt.Errorf("failed to schedule notification: %w", err)
	}

	n.mu.Lock()
	if n.started {
		n.armLocked(row)
	}
	n.mu.Unlock()

	n.log.Debugw("notification scheduled", "handle", row.ID, "reminder", reminderID, "fire_at", fireAt)
	return row.ID, nil
}

// Pending lists notifications that have not fired or been cancelled, soonest first
func (n *Local) Pending(ctx context.Context) ([]models.Notification, error) {
	var rows []models.Notification
	if err := n.db.WithContext(ctx).Order("fire_at ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list pending notifications: %w", err)
	}
	return rows, nil
}

// Cancel drops a pending notification. Unknown handles are not an error.
func (n *Local) Cancel(ctx context.Context, handle string) error {
	n.mu.Lock()
	if t, ok := n.timers[handle]; ok {
		t.Stop()
		delete(n.timers, handle)
	}
	n.mu.Unlock()

	if err := n.db.WithContext(ctx).Delete(&models.Notification{}, "id = ?", handle).Error; err != nil {
		return fmt.Errorf("failed to cancel notification: %w", err)
	}
	return nil
}

// Subscribe registers fn for every delivery until unsubscribe is called
func (n *Local) Subscribe(fn func(Delivery)) func() {
	n.mu.Lock()
	id := n.nextSub
	n.nextSub++
	n.subs[id] = fn
	n.mu.Unlock()

	return func() {
		n.mu.Lock()
		delete(n.subs, id)
		n.mu.Unlock()
	}
}

// Start arms timers for every pending notification still in the future.
// Overdue rows are left for the lifecycle's pending check.
func (n *Local) Start(ctx context.Context) error {
	pending, err := n.Pending(ctx)
	if err != nil {
		return err
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	n.started = true
	now := n.now()
	for _, row := range pending {
		if row.FireAt.After(now) {
			n.armLocked(row)
		}
	}

	n.log.Infow("notifier started", "pending", len(pending), "armed", len(n.timers))
	return nil
}

// Rescan reconciles the armed timers with the pending rows: rows another
// process scheduled since Start get a timer, timers whose row was cancelled
// elsewhere are dropped. It returns how many timers were armed. Before Start
// it does nothing.
func (n *Local) Rescan(ctx context.Context) (int, error) {
	pending, err := n.Pending(ctx)
	if err != nil {
		return 0, err
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	if !n.started {
		return 0, nil
	}

	live := make(map[string]struct{}, len(pending))
	armed := 0
	now := n.now()
	for _, row := range pending {
		live[row.ID] = struct{}{}
		if _, ok := n.timers[row.ID]; ok || !row.FireAt.After(now) {
			continue
		}
		n.armLocked(row)
		armed++
	}
	for handle, t := range n.timers {
		if _, ok := live[handle]; !ok {
			t.Stop()
			delete(n.timers, handle)
		}
	}
	return armed, nil
}

// Stop disarms all timers; pending rows stay persisted
func (n *Local) Stop() {
	n.mu.Lock()
	defer n.mu.Unlock()

	for handle, t := range n.timers {
		t.Stop()
		delete(n.timers, handle)
	}
	n.started = false
}

func (n *Local) armLocked(row models.Notification) {
	if _, ok := n.timers[row.ID]; ok {
		return
	}
	delay := row.FireAt.Sub(n.now())
	if delay < 0 {
		delay = 0
	}
	handle := row.ID
	n.timers[handle] = time.AfterFunc(delay, func() { n.fire(handle) })
}

func (n *Local) fire(handle string) {
	n.mu.Lock()
	delete(n.timers, handle)
	n.mu.Unlock()

	ctx := context.Background()

	var row models.Notification
	err := n.db.WithContext(ctx).First(&row, "id = ?", handle).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// cancelled, or its reminder was deleted
		return
	}
	if err != nil {
		n.log.Errorw("failed to load notification", "handle", handle, "error", err)
		return
	}

	// the process whose delete removes the row delivers it
	result := n.db.WithContext(ctx).Delete(&models.Notification{}, "id = ?", handle)
	if result.Error != nil {
		n.log.Errorw("failed to remove delivered notification", "handle", handle, "error", result.Error)
		return
	}
	if result.RowsAffected == 0 {
		return
	}

	d := Delivery{
		Handle:     row.ID,
		ReminderID: row.ReminderID,
		Title:      row.Title,
		FiredAt:    n.now(),
	}
	n.log.Infow("notification delivered", "handle", d.Handle, "reminder", d.ReminderID)

	n.mu.Lock()
	subs := make([]func(Delivery), 0, len(n.subs))
	for _, fn := range n.subs {
		subs = append(subs, fn)
	}
	n.mu.Unlock()

	for _, fn := range subs {
		n.deliver(fn, d)
	}
}

// deliver isolates subscribers from each other
func (n *Local) deliver(fn func(Delivery), d Delivery) {
	defer func() {
		if r := recover(); r != nil {
			n.log.Errorw("notification subscriber panicked", "reminder", d.ReminderID, "panic", r)
		}
	}()
	fn(d)
}
