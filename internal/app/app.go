// Package app is the composition root: it wires the stores, the notifier and
// the reconciler together and exposes the operations the CLI, TUI and MCP
// surfaces call.
package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/balkashynov/remindr/internal/db"
	"github.com/balkashynov/remindr/internal/lifecycle"
	"github.com/balkashynov/remindr/internal/notify"
)

// Errors returned by App operations, on top of the db store errors
var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrNotUserList   = errors.New("reminders can only be added to a standard list")
	ErrProtectedList = db.ErrProtectedList
)

// Options tune an App
type Options struct {
	SweepInterval time.Duration
	Now           func() time.Time
}

// App holds one shared instance of every store for the lifetime of the process
type App struct {
	reminders  *db.ReminderStore
	lists      *db.ListStore
	groups     *db.GroupStore
	notifier   notify.Notifier
	reconciler *lifecycle.Reconciler
	validate   *validator.Validate
	log        *zap.SugaredLogger
	now        func() time.Time
}

// New wires an App over an opened database and a notifier
func New(gdb *gorm.DB, notifier notify.Notifier, log *zap.SugaredLogger, opts Options) *App {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	reminders := db.NewReminderStore(gdb)
	lists := db.NewListStore(gdb, reminders)
	groups := db.NewGroupStore(gdb, lists)

	return &App{
		reminders: reminders,
		lists:     lists,
		groups:    groups,
		notifier:  notifier,
		reconciler: lifecycle.New(reminders, notifier, log.Named("lifecycle"),
			lifecycle.WithInterval(opts.SweepInterval),
			lifecycle.WithClock(now)),
		validate: validator.New(),
		log:      log,
		now:      now,
	}
}

// Load fills every in-memory collection from the row store
func (a *App) Load(ctx context.Context) error {
	if _, err := a.groups.LoadAll(ctx); err != nil {
		return err
	}
	if _, err := a.lists.LoadAll(ctx); err != nil {
		return err
	}
	if _, err := a.reminders.LoadAll(ctx); err != nil {
		return err
	}
	return nil
}

// Reconcile handles stale notifications and runs one overdue sweep
func (a *App) Reconcile(ctx context.Context) lifecycle.SweepResult {
	a.reconciler.CheckPending(ctx)
	return a.reconciler.Sweep(ctx)
}

// Reconciler returns the lifecycle reconciler for long-running hosts
func (a *App) Reconciler() *lifecycle.Reconciler { return a.reconciler }

// Notifier returns the notification subsystem the App schedules with
func (a *App) Notifier() notify.Notifier { return a.notifier }

// ReminderStore returns the reminder store
func (a *App) ReminderStore() *db.ReminderStore { return a.reminders }

// ListStore returns the list store
func (a *App) ListStore() *db.ListStore { return a.lists }

// GroupStore returns the group store
func (a *App) GroupStore() *db.GroupStore { return a.groups }

// Now is the App's clock
func (a *App) Now() time.Time { return a.now() }

// validateStruct runs validator tags and turns failures into ErrInvalidInput
func (a *App) validateStruct(v any) error {
	err := a.validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, field+" is required")
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s characters", field, fe.Param()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of: %s", field, fe.Param()))
		case "hexcolor":
			msgs = append(msgs, field+" must be a hex color like #FF9500")
		case "url":
			msgs = append(msgs, field+" must be a valid URL")
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s", field, fe.Tag()))
		}
	}
	return fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(msgs, ", "))
}
