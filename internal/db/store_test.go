package db

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"gorm.io/gorm"

	"github.com/balkashynov/remindr/internal/models"
	"github.com/balkashynov/remindr/internal/smart"
)

type stores struct {
	db        *gorm.DB
	reminders *ReminderStore
	lists     *ListStore
	groups    *GroupStore
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = Close(gdb) })
	return gdb
}

func newStores(t *testing.T) stores {
	t.Helper()
	gdb := openTestDB(t)
	reminders := NewReminderStore(gdb)
	lists := NewListStore(gdb, reminders)
	groups := NewGroupStore(gdb, lists)

	ctx := context.Background()
	if _, err := groups.LoadAll(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := lists.LoadAll(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := reminders.LoadAll(ctx); err != nil {
		t.Fatal(err)
	}
	return stores{db: gdb, reminders: reminders, lists: lists, groups: groups}
}

func (s stores) addList(t *testing.T, id string, groupID *string) {
	t.Helper()
	l := &models.List{ListID: id, Name: id, Icon: "list", Color: "#007AFF", GroupID: groupID}
	if err := s.lists.Insert(context.Background(), l); err != nil {
		t.Fatalf("insert list %s: %v", id, err)
	}
}

func (s stores) addReminder(t *testing.T, id, listID string) {
	t.Helper()
	r := &models.Reminder{ID: id, Title: "title " + id, ListID: listID}
	if err := s.reminders.Insert(context.Background(), r); err != nil {
		t.Fatalf("insert reminder %s: %v", id, err)
	}
}

func countRows(t *testing.T, gdb *gorm.DB, model any, query string, args ...any) int64 {
	t.Helper()
	var n int64
	if err := gdb.Model(model).Where(query, args...).Count(&n).Error; err != nil {
		t.Fatal(err)
	}
	return n
}

func TestOpenSeedsSmartListsOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.db")
	for i := 0; i < 2; i++ {
		gdb, err := Open(path)
		if err != nil {
			t.Fatalf("Open #%d: %v", i, err)
		}
		if n := countRows(t, gdb, &models.List{}, "smart_list = ?", true); n != 5 {
			t.Errorf("open #%d: expected 5 smart lists, got %d", i, n)
		}
		if err := Close(gdb); err != nil {
			t.Fatal(err)
		}
	}
}

func TestReminderStoreRoundTrip(t *testing.T) {
	s := newStores(t)
	ctx := context.Background()
	s.addList(t, "work", nil)
	s.addReminder(t, "r1", "work")
	s.addReminder(t, "r2", "work")

	r, ok := s.reminders.Get("r1")
	if !ok {
		t.Fatal("r1 not in collection")
	}
	r.Details.Date = "15/03/2025"
	r.Details.Flagged = true
	if err := s.reminders.Update(ctx, &r); err != nil {
		t.Fatalf("Update: %v", err)
	}

	// a fresh store sees what was persisted
	fresh := NewReminderStore(s.db)
	loaded, err := fresh.LoadAll(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded) != 2 {
		t.Fatalf("expected 2 reminders, got %d", len(loaded))
	}
	if loaded[0].ID != "r1" || loaded[0].Details.Date != "15/03/2025" || !loaded[0].Details.Flagged {
		t.Errorf("unexpected first reminder: %+v", loaded[0])
	}

	// clearing a field must persist the zero value
	r.Details.Flagged = false
	r.Details.Date = ""
	if err := s.reminders.Update(ctx, &r); err != nil {
		t.Fatal(err)
	}
	if _, err := fresh.LoadAll(ctx); err != nil {
		t.Fatal(err)
	}
	got, _ := fresh.Get("r1")
	if got.Details.Flagged || got.Details.Date != "" {
		t.Errorf("cleared fields came back: %+v", got.Details)
	}
}

func TestReminderStoreMisses(t *testing.T) {
	s := newStores(t)
	ctx := context.Background()

	missing := &models.Reminder{ID: "ghost", Title: "x", ListID: "work"}
	if err := s.reminders.Update(ctx, missing); !errors.Is(err, ErrReminderNotFound) {
		t.Errorf("Update missing: got %v", err)
	}
	if err := s.reminders.Delete(ctx, "ghost"); !errors.Is(err, ErrReminderNotFound) {
		t.Errorf("Delete missing: got %v", err)
	}
}

func TestReminderStoreRejectsUnknownList(t *testing.T) {
	s := newStores(t)
	r := &models.Reminder{ID: "r1", Title: "x", ListID: "nowhere"}
	if err := s.reminders.Insert(context.Background(), r); err == nil {
		t.Fatal("expected foreign key violation")
	}
	if len(s.reminders.Snapshot()) != 0 {
		t.Error("failed insert must not reach the collection")
	}
}

func TestReminderStoreReorder(t *testing.T) {
	s := newStores(t)
	s.addList(t, "work", nil)
	s.addReminder(t, "a", "work")
	s.addReminder(t, "b", "work")
	s.addReminder(t, "c", "work")

	if err := s.reminders.Reorder(context.Background(), []string{"c", "a", "b"}); err != nil {
		t.Fatal(err)
	}

	snap := s.reminders.Snapshot()
	order := []string{snap[0].ID, snap[1].ID, snap[2].ID}
	if order[0] != "c" || order[1] != "a" || order[2] != "b" {
		t.Errorf("unexpected order %v", order)
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	s := newStores(t)
	s.addList(t, "work", nil)
	s.addReminder(t, "a", "work")

	snap := s.reminders.Snapshot()
	snap[0].Title = "mutated"
	if r, _ := s.reminders.Get("a"); r.Title == "mutated" {
		t.Error("snapshot shares memory with the store")
	}
}

// deleting a smart list is refused and changes nothing
func TestDeleteReservedList(t *testing.T) {
	s := newStores(t)
	s.addList(t, "work", nil)
	s.addReminder(t, "r1", "work")

	for _, id := range []string{smart.All, smart.Today, smart.Scheduled, smart.Flagged, smart.Done} {
		removed, err := s.lists.Delete(context.Background(), id)
		if !errors.Is(err, ErrProtectedList) {
			t.Errorf("delete %s: got %v, want ErrProtectedList", id, err)
		}
		if removed != nil {
			t.Errorf("delete %s removed %v", id, removed)
		}
		if _, ok := s.lists.Get(id); !ok {
			t.Errorf("%s vanished from the collection", id)
		}
	}

	if n := countRows(t, s.db, &models.List{}, "smart_list = ?", true); n != 5 {
		t.Errorf("expected 5 smart lists in the row store, got %d", n)
	}
	if len(s.reminders.Snapshot()) != 1 {
		t.Error("reminders changed")
	}

	l, _ := s.lists.Get(smart.Today)
	l.Name = "Renamed"
	if err := s.lists.Update(context.Background(), &l); !errors.Is(err, ErrProtectedList) {
		t.Errorf("rename today: got %v", err)
	}
}

// deleting a group keeps its lists ungrouped and their reminders untouched
func TestDeleteGroupReparentsLists(t *testing.T) {
	s := newStores(t)
	ctx := context.Background()

	g := &models.Group{GroupID: "g1", Name: "Home"}
	if err := s.groups.Insert(ctx, g); err != nil {
		t.Fatal(err)
	}
	s.addList(t, "l1", &g.GroupID)
	s.addList(t, "l2", nil)
	s.addReminder(t, "r1", "l1")

	members, err := s.groups.Delete(ctx, "g1")
	if err != nil {
		t.Fatalf("Delete group: %v", err)
	}
	if len(members) != 1 || members[0] != "l1" {
		t.Errorf("unexpected members %v", members)
	}

	l1, ok := s.lists.Get("l1")
	if !ok || l1.GroupID != nil {
		t.Errorf("l1 in memory: ok=%v group=%v", ok, l1.GroupID)
	}
	if n := countRows(t, s.db, &models.List{}, "list_id = ? AND group_id IS NULL", "l1"); n != 1 {
		t.Error("l1 row should persist with a null group")
	}
	if _, ok := s.groups.Get("g1"); ok {
		t.Error("g1 still in collection")
	}
	if _, ok := s.reminders.Get("r1"); !ok {
		t.Error("r1 should be untouched")
	}

	if _, err := s.groups.Delete(ctx, "g1"); !errors.Is(err, ErrGroupNotFound) {
		t.Errorf("second delete: got %v", err)
	}
}

// deleting a user list removes its reminders from rows and memory
func TestDeleteListCascades(t *testing.T) {
	s := newStores(t)
	ctx := context.Background()
	s.addList(t, "l1", nil)
	s.addList(t, "l2", nil)
	s.addReminder(t, "a", "l1")
	s.addReminder(t, "b", "l1")
	s.addReminder(t, "c", "l2")

	removed, err := s.lists.Delete(ctx, "l1")
	if err != nil {
		t.Fatalf("Delete list: %v", err)
	}
	if len(removed) != 2 {
		t.Errorf("expected 2 removed reminders, got %v", removed)
	}

	if n := countRows(t, s.db, &models.Reminder{}, "list_id = ?", "l1"); n != 0 {
		t.Errorf("%d reminder rows of l1 left", n)
	}
	for _, r := range s.reminders.Snapshot() {
		if r.ListID == "l1" {
			t.Errorf("reminder %s of l1 left in memory", r.ID)
		}
	}
	if _, ok := s.reminders.Get("c"); !ok {
		t.Error("reminder of l2 should survive")
	}
	if _, ok := s.lists.Get("l1"); ok {
		t.Error("l1 still in collection")
	}

	if _, err := s.lists.Delete(ctx, "l1"); !errors.Is(err, ErrListNotFound) {
		t.Errorf("second delete: got %v", err)
	}
}

func TestSetGroup(t *testing.T) {
	s := newStores(t)
	ctx := context.Background()
	g := &models.Group{GroupID: "g1", Name: "Work"}
	if err := s.groups.Insert(ctx, g); err != nil {
		t.Fatal(err)
	}
	s.addList(t, "l1", nil)

	if err := s.lists.SetGroup(ctx, "l1", &g.GroupID); err != nil {
		t.Fatal(err)
	}
	if l, _ := s.lists.Get("l1"); !l.InGroup("g1") {
		t.Error("l1 should be in g1")
	}
	if err := s.lists.SetGroup(ctx, smart.Today, &g.GroupID); !errors.Is(err, ErrProtectedList) {
		t.Errorf("grouping a smart list: got %v", err)
	}
	if err := s.lists.SetGroup(ctx, "missing", nil); !errors.Is(err, ErrListNotFound) {
		t.Errorf("missing list: got %v", err)
	}
}

// SetStatus writes the status column only and refreshes the entry from the row
func TestSetStatusKeepsOtherColumns(t *testing.T) {
	s := newStores(t)
	ctx := context.Background()
	s.addList(t, "work", nil)
	s.addReminder(t, "r1", "work")

	// edited by another process after this store loaded it
	if err := s.db.Exec("UPDATE reminders SET title = ?, date = ? WHERE id = ?", "edited", "20/03/2025", "r1").Error; err != nil {
		t.Fatal(err)
	}

	changed, err := s.reminders.SetStatus(ctx, "r1", models.StatusCompleted)
	if err != nil || !changed {
		t.Fatalf("SetStatus = %v, %v", changed, err)
	}
	if n := countRows(t, s.db, &models.Reminder{}, "id = ? AND title = ? AND date = ? AND status = ?",
		"r1", "edited", "20/03/2025", models.StatusCompleted); n != 1 {
		t.Error("status write clobbered the other columns")
	}
	if r, _ := s.reminders.Get("r1"); r.Title != "edited" || !r.Completed() {
		t.Errorf("collection not refreshed: %+v", r)
	}

	changed, err = s.reminders.SetStatus(ctx, "r1", models.StatusCompleted)
	if err != nil || changed {
		t.Errorf("second SetStatus = %v, %v; want no change", changed, err)
	}

	if _, err := s.reminders.SetStatus(ctx, "ghost", models.StatusCompleted); !errors.Is(err, ErrReminderNotFound) {
		t.Errorf("missing reminder: got %v", err)
	}

	if err := s.db.Exec("DELETE FROM reminders WHERE id = ?", "r1").Error; err != nil {
		t.Fatal(err)
	}
	if _, err := s.reminders.SetStatus(ctx, "r1", models.StatusPending); !errors.Is(err, ErrReminderNotFound) {
		t.Errorf("row deleted elsewhere: got %v", err)
	}
	if _, ok := s.reminders.Get("r1"); ok {
		t.Error("row deleted elsewhere should leave the collection")
	}
}

func TestDeleteByListID(t *testing.T) {
	s := newStores(t)
	ctx := context.Background()
	s.addList(t, "l1", nil)
	s.addList(t, "l2", nil)
	s.addReminder(t, "a", "l1")
	s.addReminder(t, "b", "l1")
	s.addReminder(t, "c", "l2")

	removed, err := s.reminders.DeleteByListID(ctx, "l1")
	if err != nil {
		t.Fatal(err)
	}
	if len(removed) != 2 {
		t.Errorf("expected 2 removed ids, got %v", removed)
	}
	if n := countRows(t, s.db, &models.Reminder{}, "list_id = ?", "l1"); n != 0 {
		t.Errorf("%d rows of l1 left", n)
	}
	if snap := s.reminders.Snapshot(); len(snap) != 1 || snap[0].ID != "c" {
		t.Errorf("unexpected collection %+v", snap)
	}
	if _, ok := s.lists.Get("l1"); !ok {
		t.Error("the list itself must stay")
	}

	removed, err = s.reminders.DeleteByListID(ctx, "l1")
	if err != nil || len(removed) != 0 {
		t.Errorf("emptying an empty list = %v, %v", removed, err)
	}
}

func TestDeleteAll(t *testing.T) {
	s := newStores(t)
	ctx := context.Background()
	s.addList(t, "l1", nil)
	s.addList(t, "l2", nil)
	s.addReminder(t, "a", "l1")
	s.addReminder(t, "b", "l2")

	n, err := s.reminders.DeleteAll(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("DeleteAll = %d, want 2", n)
	}
	if c := countRows(t, s.db, &models.Reminder{}, "1 = 1"); c != 0 {
		t.Errorf("%d rows left", c)
	}
	if len(s.reminders.Snapshot()) != 0 {
		t.Error("collection should be empty")
	}
	if len(s.lists.Snapshot()) != 7 {
		t.Error("lists must stay")
	}
}

func TestListUpdateKeepsKind(t *testing.T) {
	s := newStores(t)
	ctx := context.Background()
	s.addList(t, "work", nil)

	l, _ := s.lists.Get("work")
	l.Name = "Office"
	l.SmartList = true
	if err := s.lists.Update(ctx, &l); err != nil {
		t.Fatal(err)
	}

	if n := countRows(t, s.db, &models.List{}, "list_id = ? AND name = ? AND smart_list = ?", "work", "Office", false); n != 1 {
		t.Error("row should be renamed and stay a user list")
	}
	if got, _ := s.lists.Get("work"); got.SmartList || got.Name != "Office" {
		t.Errorf("collection entry %+v", got)
	}
	if _, err := s.lists.Delete(ctx, "work"); err != nil {
		t.Errorf("user list should stay deletable: %v", err)
	}
}
