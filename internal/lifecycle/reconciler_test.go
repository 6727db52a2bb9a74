package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/balkashynov/remindr/internal/db"
	"github.com/balkashynov/remindr/internal/models"
	"github.com/balkashynov/remindr/internal/notify"
)

type fakeRepo struct {
	mu        sync.Mutex
	order     []string
	reminders map[string]models.Reminder
	updates   int
	failOn    map[string]error
	panicOn   map[string]bool
}

func newFakeRepo(rems ...models.Reminder) *fakeRepo {
	r := &fakeRepo{
		reminders: make(map[string]models.Reminder),
		failOn:    make(map[string]error),
		panicOn:   make(map[string]bool),
	}
	for _, rem := range rems {
		r.order = append(r.order, rem.ID)
		r.reminders[rem.ID] = rem
	}
	return r
}

func (f *fakeRepo) Snapshot() []models.Reminder {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Reminder, 0, len(f.order))
	for _, id := range f.order {
		if r, ok := f.reminders[id]; ok {
			out = append(out, r)
		}
	}
	return out
}

func (f *fakeRepo) LoadAll(context.Context) ([]models.Reminder, error) {
	return f.Snapshot(), nil
}

func (f *fakeRepo) Get(id string) (models.Reminder, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.reminders[id]
	return r, ok
}

func (f *fakeRepo) SetStatus(_ context.Context, id string, status int) (bool, error) {
	if f.panicOn[id] {
		panic("corrupt record")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failOn[id]; err != nil {
		return false, err
	}
	r, ok := f.reminders[id]
	if !ok {
		return false, fmt.Errorf("reminder %s: %w", id, db.ErrReminderNotFound)
	}
	if r.Status == status {
		return false, nil
	}
	r.Status = status
	f.reminders[id] = r
	f.updates++
	return true, nil
}

func (f *fakeRepo) status(id string) int {
	r, _ := f.Get(id)
	return r.Status
}

type fakeNotifier struct {
	mu      sync.Mutex
	next    int
	pending map[string]models.Notification
	subs    []func(notify.Delivery)
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{pending: make(map[string]models.Notification)}
}

func (f *fakeNotifier) Schedule(_ context.Context, reminderID, title string, fireAt time.Time) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.next++
	handle := fmt.Sprintf("n%d", f.next)
	f.pending[handle] = models.Notification{ID: handle, ReminderID: reminderID, Title: title, FireAt: fireAt}
	return handle, nil
}

func (f *fakeNotifier) Pending(context.Context) ([]models.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Notification, 0, len(f.pending))
	for _, n := range f.pending {
		out = append(out, n)
	}
	return out, nil
}

func (f *fakeNotifier) Cancel(_ context.Context, handle string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.pending, handle)
	return nil
}

func (f *fakeNotifier) Subscribe(fn func(notify.Delivery)) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subs = append(f.subs, fn)
	return func() {}
}

func (f *fakeNotifier) fire(handle string) {
	f.mu.Lock()
	n := f.pending[handle]
	delete(f.pending, handle)
	subs := append([]func(notify.Delivery){}, f.subs...)
	f.mu.Unlock()

	for _, fn := range subs {
		fn(notify.Delivery{Handle: handle, ReminderID: n.ReminderID, Title: n.Title, FiredAt: n.FireAt})
	}
}

func (f *fakeNotifier) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.pending)
}

func clock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func at(day, month, year, hour, minute int) time.Time {
	return time.Date(year, time.Month(month), day, hour, minute, 0, 0, time.Local)
}

func scheduled(id, date, clock string) models.Reminder {
	return models.Reminder{
		ID:      id,
		Title:   "reminder " + id,
		ListID:  "work",
		Details: models.ReminderDetails{Date: date, Time: clock},
	}
}

// a reminder saved before its moment gets a future notification and stays pending
func TestScheduleFuture(t *testing.T) {
	rem := scheduled("a", "15/03/2025", "09:00")
	repo := newFakeRepo(rem)
	n := newFakeNotifier()
	r := New(repo, n, nil, WithClock(clock(at(14, 3, 2025, 12, 0))))

	handle, ok, err := r.Schedule(context.Background(), rem)
	if err != nil || !ok || handle == "" {
		t.Fatalf("Schedule = %q, %v, %v", handle, ok, err)
	}

	pending, _ := n.Pending(context.Background())
	if len(pending) != 1 || !pending[0].FireAt.Equal(at(15, 3, 2025, 9, 0)) {
		t.Errorf("unexpected pending %+v", pending)
	}
	if repo.status("a") != models.StatusPending || repo.updates != 0 {
		t.Error("scheduling must not touch the reminder")
	}
}

// a reminder whose moment already passed gets no notification
func TestSchedulePastIsNoop(t *testing.T) {
	n := newFakeNotifier()
	r := New(newFakeRepo(), n, nil, WithClock(clock(at(14, 3, 2025, 12, 0))))

	cases := []models.Reminder{
		scheduled("past", "15/03/2020", "09:00"),
		scheduled("now", "14/03/2025", "12:00"),
		scheduled("date only", "15/03/2025", ""),
		scheduled("time only", "", "09:00"),
		scheduled("bad date", "31/02/2025", "09:00"),
	}
	for _, rem := range cases {
		_, ok, err := r.Schedule(context.Background(), rem)
		if ok || err != nil {
			t.Errorf("%s: Schedule = %v, %v; want no-op", rem.ID, ok, err)
		}
	}
	if n.count() != 0 {
		t.Errorf("expected no notifications, got %d", n.count())
	}
}

// the sweep completes overdue reminders and cancels their notifications
func TestSweepCompletesOverdue(t *testing.T) {
	ctx := context.Background()
	rem := scheduled("a", "15/03/2025", "09:00")
	repo := newFakeRepo(rem, scheduled("future", "20/03/2025", "09:00"), models.Reminder{ID: "plain", ListID: "work"})
	n := newFakeNotifier()

	now := at(14, 3, 2025, 12, 0)
	r := New(repo, n, nil, WithClock(func() time.Time { return now }))
	if _, _, err := r.Schedule(ctx, rem); err != nil {
		t.Fatal(err)
	}

	now = at(16, 3, 2025, 0, 0)
	result := r.Sweep(ctx)

	if repo.status("a") != models.StatusCompleted {
		t.Error("overdue reminder should be completed")
	}
	if repo.status("future") != models.StatusPending || repo.status("plain") != models.StatusPending {
		t.Error("other reminders must stay pending")
	}
	if n.count() != 0 {
		t.Errorf("notification should be cancelled, %d left", n.count())
	}
	if result.Completed != 1 || result.Cancelled != 1 || result.Checked != 2 || result.Failed != 0 {
		t.Errorf("unexpected result %+v", result)
	}
}

func TestSweepMinuteGranularity(t *testing.T) {
	repo := newFakeRepo(scheduled("a", "15/03/2025", "09:00"))
	r := New(repo, newFakeNotifier(), nil,
		WithClock(clock(at(15, 3, 2025, 9, 0).Add(30*time.Second))))

	r.Sweep(context.Background())
	if repo.status("a") != models.StatusCompleted {
		t.Error("a reminder due this minute is overdue")
	}
}

func TestSweepIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo(scheduled("a", "15/03/2025", "09:00"))
	r := New(repo, newFakeNotifier(), nil, WithClock(clock(at(16, 3, 2025, 0, 0))))

	first := r.Sweep(ctx)
	second := r.Sweep(ctx)

	if first.Completed != 1 {
		t.Errorf("first sweep: %+v", first)
	}
	if second.Completed != 0 || second.Failed != 0 {
		t.Errorf("second sweep changed something: %+v", second)
	}
	if repo.updates != 1 {
		t.Errorf("expected a single write, got %d", repo.updates)
	}
	if repo.status("a") != models.StatusCompleted {
		t.Error("status should remain completed")
	}
}

func TestSweepIsolatesFailures(t *testing.T) {
	repo := newFakeRepo(
		scheduled("broken", "01/03/2025", "09:00"),
		scheduled("corrupt", "01/03/2025", "09:00"),
		scheduled("fine", "01/03/2025", "09:00"),
	)
	repo.failOn["broken"] = errors.New("disk full")
	repo.panicOn["corrupt"] = true

	r := New(repo, newFakeNotifier(), nil, WithClock(clock(at(16, 3, 2025, 0, 0))))
	result := r.Sweep(context.Background())

	if repo.status("fine") != models.StatusCompleted {
		t.Error("a bad record must not stop the sweep")
	}
	if result.Failed != 2 || result.Completed != 1 {
		t.Errorf("unexpected result %+v", result)
	}
}

func TestDeliveryCompletesReminder(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rem := scheduled("a", "15/03/2025", "09:00")
	repo := newFakeRepo(rem)
	n := newFakeNotifier()
	r := New(repo, n, nil, WithClock(clock(at(14, 3, 2025, 12, 0))), WithInterval(time.Hour))

	handle, _, err := r.Schedule(ctx, rem)
	if err != nil {
		t.Fatal(err)
	}

	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	// wait for Run to subscribe
	deadline := time.Now().Add(2 * time.Second)
	for {
		n.mu.Lock()
		subscribed := len(n.subs) > 0
		n.mu.Unlock()
		if subscribed || time.Now().After(deadline) {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	n.fire(handle)
	if repo.status("a") != models.StatusCompleted {
		t.Error("delivered reminder should be completed")
	}

	// a second delivery for the same reminder is a no-op
	r.HandleDelivered(ctx, "a")
	if repo.updates != 1 {
		t.Errorf("expected one write, got %d", repo.updates)
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("Run returned %v", err)
	}
}

func TestHandleDeliveredIgnoresMisses(t *testing.T) {
	repo := newFakeRepo()
	r := New(repo, newFakeNotifier(), nil)

	r.HandleDelivered(context.Background(), "deleted")
	if repo.updates != 0 {
		t.Error("nothing should be written for a missing reminder")
	}
}

func TestCheckPendingCompletesStale(t *testing.T) {
	ctx := context.Background()
	stale := scheduled("stale", "15/03/2025", "09:00")
	fresh := scheduled("fresh", "20/03/2025", "09:00")
	repo := newFakeRepo(stale, fresh)
	n := newFakeNotifier()

	now := at(14, 3, 2025, 12, 0)
	r := New(repo, n, nil, WithClock(func() time.Time { return now }))
	for _, rem := range []models.Reminder{stale, fresh} {
		if _, _, err := r.Schedule(ctx, rem); err != nil {
			t.Fatal(err)
		}
	}

	now = at(16, 3, 2025, 8, 0)
	r.CheckPending(ctx)

	if repo.status("stale") != models.StatusCompleted {
		t.Error("stale reminder should be completed")
	}
	if repo.status("fresh") != models.StatusPending {
		t.Error("future reminder must stay pending")
	}
	pending, _ := n.Pending(ctx)
	if len(pending) != 1 || pending[0].ReminderID != "fresh" {
		t.Errorf("unexpected pending %+v", pending)
	}
}

func TestRescheduleReplacesNotification(t *testing.T) {
	ctx := context.Background()
	rem := scheduled("a", "15/03/2025", "09:00")
	n := newFakeNotifier()
	r := New(newFakeRepo(rem), n, nil, WithClock(clock(at(14, 3, 2025, 12, 0))))

	if _, _, err := r.Schedule(ctx, rem); err != nil {
		t.Fatal(err)
	}
	rem.Details.Time = "10:00"
	if _, ok, err := r.Reschedule(ctx, rem); err != nil || !ok {
		t.Fatalf("Reschedule = %v, %v", ok, err)
	}

	pending, _ := n.Pending(ctx)
	if len(pending) != 1 || !pending[0].FireAt.Equal(at(15, 3, 2025, 10, 0)) {
		t.Errorf("unexpected pending %+v", pending)
	}

	rem.Details.Date = ""
	if _, ok, _ := r.Reschedule(ctx, rem); ok {
		t.Error("no schedule without a date")
	}
	if n.count() != 0 {
		t.Error("old notification should be gone")
	}
}

func TestRunRejectsBadInterval(t *testing.T) {
	r := New(newFakeRepo(), newFakeNotifier(), nil)
	r.interval = 0
	if err := r.Run(context.Background()); err == nil {
		t.Error("expected an error for a zero interval")
	}
}

var _ Repository = (*db.ReminderStore)(nil)

func realStore(t *testing.T) (*db.ReminderStore, *gorm.DB) {
	t.Helper()
	ctx := context.Background()
	gdb, err := db.Open(filepath.Join(t.TempDir(), "reconcile.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close(gdb) })

	reminders := db.NewReminderStore(gdb)
	lists := db.NewListStore(gdb, reminders)
	if _, err := lists.LoadAll(ctx); err != nil {
		t.Fatal(err)
	}
	if err := lists.Insert(ctx, &models.List{ListID: "work", Name: "Work", Icon: "list", Color: "#007AFF"}); err != nil {
		t.Fatal(err)
	}
	return reminders, gdb
}

func exec(t *testing.T, gdb *gorm.DB, query string, args ...any) {
	t.Helper()
	if err := gdb.Exec(query, args...).Error; err != nil {
		t.Fatal(err)
	}
}

// rows changed by another process after this one loaded them are swept as stored
func TestSweepUsesStoredRows(t *testing.T) {
	ctx := context.Background()
	store, gdb := realStore(t)
	for _, id := range []string{"moved", "renamed"} {
		rem := scheduled(id, "14/03/2025", "09:00")
		if err := store.Insert(ctx, &rem); err != nil {
			t.Fatal(err)
		}
	}

	exec(t, gdb, "UPDATE reminders SET title = ?, date = ? WHERE id = ?", "moved to friday", "21/03/2025", "moved")
	exec(t, gdb, "UPDATE reminders SET title = ? WHERE id = ?", "renamed elsewhere", "renamed")

	r := New(store, newFakeNotifier(), nil, WithClock(clock(at(14, 3, 2025, 10, 0))))
	result := r.Sweep(ctx)
	if result.Completed != 1 || result.Failed != 0 {
		t.Errorf("unexpected result %+v", result)
	}

	fresh := db.NewReminderStore(gdb)
	if _, err := fresh.LoadAll(ctx); err != nil {
		t.Fatal(err)
	}

	moved, _ := fresh.Get("moved")
	if moved.Completed() || moved.Title != "moved to friday" || moved.Details.Date != "21/03/2025" {
		t.Errorf("moved reminder was overwritten: %+v", moved)
	}
	renamed, _ := fresh.Get("renamed")
	if !renamed.Completed() || renamed.Title != "renamed elsewhere" {
		t.Errorf("renamed reminder: %+v", renamed)
	}
	if cached, _ := store.Get("moved"); cached.Details.Date != "21/03/2025" {
		t.Errorf("store kept the stale copy: %+v", cached)
	}
}

// a delivery for a reminder deleted by another process completes nothing
func TestDeliveryForRowDeletedElsewhere(t *testing.T) {
	ctx := context.Background()
	store, gdb := realStore(t)
	rem := scheduled("a", "15/03/2025", "09:00")
	if err := store.Insert(ctx, &rem); err != nil {
		t.Fatal(err)
	}
	exec(t, gdb, "DELETE FROM reminders WHERE id = ?", "a")

	r := New(store, newFakeNotifier(), nil)
	r.HandleDelivered(ctx, "a")

	if _, ok := store.Get("a"); ok {
		t.Error("deleted reminder should leave the collection")
	}
}
