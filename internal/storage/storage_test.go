package storage

import (
	"database/sql"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"taskpad/internal/task"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "taskpad.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreItems(t *testing.T) {
	store := newTestStore(t)

	if _, ok, err := store.GetItem("tasks"); err != nil || ok {
		t.Fatalf("GetItem on empty store = ok:%v err:%v", ok, err)
	}
	if err := store.SetItem("tasks", "[]"); err != nil {
		t.Fatalf("SetItem: %v", err)
	}
	if err := store.SetItem("tasks", `[{"id":1}]`); err != nil {
		t.Fatalf("SetItem overwrite: %v", err)
	}
	v, ok, err := store.GetItem("tasks")
	if err != nil || !ok {
		t.Fatalf("GetItem = ok:%v err:%v", ok, err)
	}
	if v != `[{"id":1}]` {
		t.Errorf("value = %q", v)
	}
	if _, ok, _ := store.UpdatedAt("tasks"); !ok {
		t.Error("expected updated_at to be recorded")
	}

	if err := store.RemoveItem("tasks"); err != nil {
		t.Fatalf("RemoveItem: %v", err)
	}
	if _, ok, _ := store.GetItem("tasks"); ok {
		t.Error("expected key to be removed")
	}
	if err := store.RemoveItem("tasks"); err != nil {
		t.Errorf("RemoveItem on missing key: %v", err)
	}
}

func TestStoreUpgradesOldSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.db")
	db, err := sql.Open("sqlite", sqliteDSN(path))
	if err != nil {
		t.Fatalf("sql.Open: %v", err)
	}
	if _, err := db.Exec(`CREATE TABLE items (key TEXT PRIMARY KEY, value TEXT NOT NULL);`); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO items (key, value) VALUES ('tasks', '[]');`); err != nil {
		t.Fatalf("insert: %v", err)
	}
	db.Close()

	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	v, ok, err := store.GetItem("tasks")
	if err != nil || !ok || v != "[]" {
		t.Fatalf("GetItem after upgrade = %q ok:%v err:%v", v, ok, err)
	}
	if err := store.SetItem("doneTasks", "[]"); err != nil {
		t.Fatalf("SetItem after upgrade: %v", err)
	}
}

func TestOpenRejectsEmptyPath(t *testing.T) {
	if _, err := Open(""); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestAdapterProbe(t *testing.T) {
	mem := NewMemory()
	a := NewAdapter(mem, nil)
	if !a.Probe() {
		t.Fatal("expected probe to succeed")
	}
	if mem.Len() != 0 {
		t.Errorf("probe left %d keys behind", mem.Len())
	}

	failing := NewMemory()
	failing.SetFailing(true)
	b := NewAdapter(failing, nil)
	if b.Probe() {
		t.Fatal("expected probe to fail")
	}
	if b.Available() {
		t.Error("adapter should be unavailable after failed probe")
	}
}

func TestAdapterRoundTrip(t *testing.T) {
	a := NewAdapter(newTestStore(t), nil)
	in := []task.Task{
		{ID: 1, Title: "Pay rent", DueDate: task.NewDate(2024, time.January, 1), Priority: task.PriorityHigh, Category: task.CategoryPersonal},
		{ID: 2, Title: "Call mom", TimeOfDay: "18:00", Priority: task.PriorityLow, Category: task.CategoryPersonal, Recurrence: task.RecurrenceWeekly},
	}
	if err := a.Save(KeyActive, in); err != nil {
		t.Fatalf("Save: %v", err)
	}
	out := a.Load(KeyActive)
	if len(out) != len(in) {
		t.Fatalf("Load returned %d tasks, want %d", len(out), len(in))
	}
	for i := range in {
		if out[i] != in[i] {
			t.Errorf("task %d = %+v, want %+v", i, out[i], in[i])
		}
	}
}

func TestAdapterLoadMalformed(t *testing.T) {
	cases := map[string]string{
		"not json":         "{oops",
		"not an array":     `{"id":1}`,
		"bad priority":     `[{"id":1,"title":"a","priority":"Urgent","category":"Work","completed":false}]`,
		"empty priority":   `[{"id":1,"title":"a","priority":"","category":"Work","completed":false}]`,
		"null category":    `[{"id":1,"title":"a","priority":"Low","category":null,"completed":false}]`,
		"missing title":    `[{"id":1,"priority":"Low","category":"Work","completed":false}]`,
		"missing priority": `[{"id":1,"title":"legacy","category":"Work","completed":false},{"id":2,"title":"b","priority":"High","category":"Work","completed":false}]`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			mem := NewMemory()
			mem.SetItem(KeyActive, raw)
			a := NewAdapter(mem, nil)
			if got := a.Load(KeyActive); len(got) != 0 {
				t.Errorf("Load = %v, want empty", got)
			}
		})
	}
}

func TestAdapterLoadMissingKey(t *testing.T) {
	a := NewAdapter(NewMemory(), nil)
	if got := a.Load(KeyDone); got != nil {
		t.Errorf("Load = %v, want nil", got)
	}
}

func TestAdapterSaveFailureDisables(t *testing.T) {
	mem := NewMemory()
	a := NewAdapter(mem, nil)
	mem.SetFailing(true)

	if err := a.Save(KeyActive, nil); err == nil {
		t.Fatal("expected first failed save to return an error")
	}
	if a.Available() {
		t.Fatal("adapter should be unavailable")
	}
	if err := a.Save(KeyActive, nil); err != nil {
		t.Errorf("later saves should be no-ops, got %v", err)
	}

	mem.SetFailing(false)
	if err := a.Save(KeyActive, []task.Task{{ID: 1, Title: "x", Priority: task.PriorityLow, Category: task.CategoryWork}}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if mem.Len() != 0 {
		t.Error("disabled adapter must not write")
	}
}

func TestAdapterSaveEmptyWritesArray(t *testing.T) {
	mem := NewMemory()
	a := NewAdapter(mem, nil)
	if err := a.Save(KeyDone, nil); err != nil {
		t.Fatalf("Save: %v", err)
	}
	v, ok, _ := mem.GetItem(KeyDone)
	if !ok || v != "[]" {
		t.Errorf("stored %q ok:%v, want []", v, ok)
	}
}

func TestOpenErrorNamesPath(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "not-a-dir")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(blocker, "taskpad.db")
	_, err := Open(path)
	if err == nil {
		t.Fatal("expected error when the parent is a file")
	}
	if !strings.Contains(err.Error(), path) {
		t.Errorf("error %q does not name %s", err, path)
	}
}

func TestStoreCloseTwice(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "taskpad.db"))
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
}

func TestSqliteDSN(t *testing.T) {
	if got := sqliteDSN("file:custom.db?mode=ro"); got != "file:custom.db?mode=ro" {
		t.Errorf("URI rewritten to %q", got)
	}

	dsn := sqliteDSN(filepath.Join(t.TempDir(), "taskpad.db"))
	u, err := url.Parse(dsn)
	if err != nil {
		t.Fatalf("parse %q: %v", dsn, err)
	}
	if u.Scheme != "file" || !filepath.IsAbs(u.Path) {
		t.Errorf("dsn = %q", dsn)
	}
	q := u.Query()
	if q.Get("mode") != "rwc" || q.Get("_pragma") != "busy_timeout(5000)" {
		t.Errorf("query = %v", q)
	}
}
