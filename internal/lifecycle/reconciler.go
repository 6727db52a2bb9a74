// Package lifecycle keeps reminder completion consistent with the clock and
// with notification delivery.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/balkashynov/remindr/internal/db"
	"github.com/balkashynov/remindr/internal/models"
	"github.com/balkashynov/remindr/internal/notify"
	"github.com/balkashynov/remindr/internal/parser"
)

// DefaultInterval is how often the overdue sweep runs
const DefaultInterval = 30 * time.Second

// Repository is the slice of the reminder store the reconciler works through.
// Other processes may write the same rows, so the reconciler reloads before a
// sweep and completes with a status-only write.
type Repository interface {
	LoadAll(ctx context.Context) ([]models.Reminder, error)
	Snapshot() []models.Reminder
	SetStatus(ctx context.Context, id string, status int) (bool, error)
}

// rescanner is implemented by notifiers that can pick up notifications
// scheduled by other processes
type rescanner interface {
	Rescan(ctx context.Context) (int, error)
}

// Reconciler schedules notifications for reminders and marks reminders
// completed when their notification fires or their time has passed.
type Reconciler struct {
	reminders Repository
	notifier  notify.Notifier
	log       *zap.SugaredLogger
	interval  time.Duration
	now       func() time.Time
}

// Option configures a Reconciler
type Option func(*Reconciler)

// WithInterval sets the overdue sweep period
func WithInterval(d time.Duration) Option {
	return func(r *Reconciler) {
		if d > 0 {
			r.interval = d
		}
	}
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(r *Reconciler) {
		if now != nil {
			r.now = now
		}
	}
}

// New creates a reconciler
func New(reminders Repository, notifier notify.Notifier, log *zap.SugaredLogger, opts ...Option) *Reconciler {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	r := &Reconciler{
		reminders: reminders,
		notifier:  notifier,
		log:       log,
		interval:  DefaultInterval,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SweepResult summarises one overdue sweep
type SweepResult struct {
	Checked   int
	Completed int
	Failed    int
	Cancelled int
}

// Schedule registers a notification for a reminder whose date and time are
// both set and lie strictly in the future. Anything else is a silent no-op.
func (r *Reconciler) Schedule(ctx context.Context, rem models.Reminder) (string, bool, error) {
	at, ok := parser.ScheduleOf(rem.Details)
	if !ok || !at.After(r.now()) {
		return "", false, nil
	}

	handle, err := r.notifier.Schedule(ctx, rem.ID, rem.Title, at)
	if err != nil {
		return "", false, err
	}

	r.log.Debugw("reminder scheduled", "reminder", rem.ID, "at", at)
	return handle, true, nil
}

// Reschedule drops the reminder's pending notifications and schedules it again
func (r *Reconciler) Reschedule(ctx context.Context, rem models.Reminder) (string, bool, error) {
	if _, err := r.CancelFor(ctx, rem.ID); err != nil {
		return "", false, err
	}
	return r.Schedule(ctx, rem)
}

// CancelFor cancels every pending notification of a reminder and returns how many there were
func (r *Reconciler) CancelFor(ctx context.Context, reminderID string) (int, error) {
	pending, err := r.notifier.Pending(ctx)
	if err != nil {
		return 0, err
	}

	cancelled := 0
	for _, n := range pending {
		if n.ReminderID != reminderID {
			continue
		}
		if err := r.notifier.Cancel(ctx, n.ID); err != nil {
			return cancelled, err
		}
		cancelled++
	}
	return cancelled, nil
}

// HandleDelivered marks the reminder of a fired notification completed.
// Unknown or already completed reminders are ignored.
func (r *Reconciler) HandleDelivered(ctx context.Context, reminderID string) {
	defer func() {
		if p := recover(); p != nil {
			r.log.Errorw("delivery handling panicked", "reminder", reminderID, "panic", p)
		}
	}()

	changed, err := r.complete(ctx, reminderID)
	if err != nil {
		r.log.Errorw("failed to complete delivered reminder", "reminder", reminderID, "error", err)
		return
	}
	if changed {
		r.log.Infow("reminder completed by notification", "reminder", reminderID)
	}
}

// Sweep completes every pending reminder whose date and time are at or before
// the current minute and cancels notifications still queued for it.
// Reminders are handled one after another; a failure only skips that reminder.
func (r *Reconciler) Sweep(ctx context.Context) SweepResult {
	now := r.now().Truncate(time.Minute)

	reminders, err := r.reminders.LoadAll(ctx)
	if err != nil {
		r.log.Warnw("failed to reload reminders, sweeping the cached ones", "error", err)
		reminders = r.reminders.Snapshot()
	}

	var result SweepResult
	for _, rem := range reminders {
		if ctx.Err() != nil {
			break
		}
		if rem.Completed() {
			continue
		}
		at, ok := parser.ScheduleOf(rem.Details)
		if !ok {
			continue
		}
		result.Checked++
		if at.After(now) {
			continue
		}

		if err := r.sweepOne(ctx, rem.ID, &result); err != nil {
			result.Failed++
			r.log.Errorw("failed to complete overdue reminder", "reminder", rem.ID, "error", err)
		}
	}

	if result.Completed > 0 || result.Failed > 0 {
		r.log.Infow("overdue sweep finished",
			"checked", result.Checked,
			"completed", result.Completed,
			"failed", result.Failed,
			"cancelled", result.Cancelled)
	}
	return result
}

func (r *Reconciler) sweepOne(ctx context.Context, reminderID string, result *SweepResult) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v", p)
		}
	}()

	changed, err := r.complete(ctx, reminderID)
	if err != nil {
		return err
	}
	if changed {
		result.Completed++
	}

	cancelled, err := r.CancelFor(ctx, reminderID)
	result.Cancelled += cancelled
	return err
}

// CheckPending handles notifications whose fire time passed while nobody was
// listening: their reminders are completed and the notifications cancelled.
func (r *Reconciler) CheckPending(ctx context.Context) {
	pending, err := r.notifier.Pending(ctx)
	if err != nil {
		r.log.Errorw("failed to read pending notifications", "error", err)
		return
	}

	now := r.now()
	for _, n := range pending {
		if n.FireAt.After(now) {
			continue
		}
		if _, err := r.complete(ctx, n.ReminderID); err != nil {
			r.log.Errorw("failed to complete reminder of stale notification", "reminder", n.ReminderID, "error", err)
			continue
		}
		if err := r.notifier.Cancel(ctx, n.ID); err != nil {
			r.log.Errorw("failed to cancel stale notification", "handle", n.ID, "error", err)
		}
	}
}

// Run listens for deliveries and sweeps on every tick until ctx is cancelled
func (r *Reconciler) Run(ctx context.Context) error {
	if r.interval <= 0 {
		return fmt.Errorf("sweep interval must be positive, got %s", r.interval)
	}

	unsubscribe := r.notifier.Subscribe(func(d notify.Delivery) {
		r.HandleDelivered(ctx, d.ReminderID)
	})
	defer unsubscribe()

	r.log.Infow("reconciler started", "interval", r.interval)

	// Run immediately on start
	r.CheckPending(ctx)
	r.Sweep(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.log.Info("reconciler shutting down")
			return nil
		case <-ticker.C:
			r.rescan(ctx)
			r.Sweep(ctx)
		}
	}
}

// rescan arms notifications other processes scheduled since the last tick
func (r *Reconciler) rescan(ctx context.Context) {
	rs, ok := r.notifier.(rescanner)
	if !ok {
		return
	}
	if armed, err := rs.Rescan(ctx); err != nil {
		r.log.Warnw("failed to rescan notifications", "error", err)
	} else if armed > 0 {
		r.log.Debugw("armed new notifications", "count", armed)
	}
}

// complete sets status 1 on the stored reminder without touching its other
// fields. changed is false for a missing or already completed reminder.
func (r *Reconciler) complete(ctx context.Context, reminderID string) (changed bool, err error) {
	changed, err = r.reminders.SetStatus(ctx, reminderID, models.StatusCompleted)
	if errors.Is(err, db.ErrReminderNotFound) {
		r.log.Debugw("reminder no longer exists", "reminder", reminderID)
		return false, nil
	}
	return changed, err
}
