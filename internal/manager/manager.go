// Package manager holds the active and done task sequences and applies the
// lifecycle rules for moving tasks between them. Every mutation is written
// through to storage before it returns.
//
// A Manager is not safe for concurrent use; callers drive it from a single
// goroutine.
package manager

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"taskpad/internal/storage"
	"taskpad/internal/task"
)

// ErrStaleDueDate rejects recovering a task whose due date has passed.
var ErrStaleDueDate = errors.New("cannot recover task with past date")

// Persister is the part of storage.Adapter the manager depends on.
type Persister interface {
	Probe() bool
	Load(key string) []task.Task
	Save(key string, tasks []task.Task) error
}

var _ Persister = (*storage.Adapter)(nil)

type Manager struct {
	store  Persister
	notify Notifier
	now    func() time.Time
	ids    IDGenerator
	log    *slog.Logger

	active []task.Task
	done   []task.Task

	storageWarned bool
}

type Option func(*Manager)

func WithNotifier(n Notifier) Option {
	return func(m *Manager) { m.notify = n }
}

func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

func WithIDGenerator(g IDGenerator) Option {
	return func(m *Manager) { m.ids = g }
}

func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) { m.log = l }
}

// New probes storage, loads both sequences and normalizes them so that
// membership and the completed flag agree.
func New(store Persister, opts ...Option) *Manager {
	m := &Manager{
		store:  store,
		notify: discardNotifier{},
		now:    time.Now,
		log:    slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.ids == nil {
		m.ids = &ClockIDs{Now: m.now}
	}

	if !store.Probe() {
		m.warnStorage()
		return m
	}
	m.active, m.done = normalize(store.Load(storage.KeyActive), store.Load(storage.KeyDone))
	for _, t := range m.active {
		m.ids.Observe(t.ID)
	}
	for _, t := range m.done {
		m.ids.Observe(t.ID)
	}
	m.log.Debug("tasks loaded", "active", len(m.active), "done", len(m.done))
	return m
}

// normalize drops duplicate ids (first occurrence wins, active before done)
// and forces completed to match the sequence holding the task.
func normalize(active, done []task.Task) ([]task.Task, []task.Task) {
	seen := make(map[int64]struct{}, len(active)+len(done))
	keep := func(in []task.Task, completed bool) []task.Task {
		out := make([]task.Task, 0, len(in))
		for _, t := range in {
			if _, dup := seen[t.ID]; dup {
				continue
			}
			seen[t.ID] = struct{}{}
			t.Completed = completed
			out = append(out, t)
		}
		return out
	}
	a := keep(active, false)
	d := keep(done, true)
	return a, d
}

// Active returns a copy of the active sequence.
func (m *Manager) Active() []task.Task {
	return slices.Clone(m.active)
}

// Done returns a copy of the done sequence.
func (m *Manager) Done() []task.Task {
	return slices.Clone(m.done)
}

// Find looks id up in active, then done.
func (m *Manager) Find(id int64) (task.Task, bool) {
	if i := indexOf(m.active, id); i >= 0 {
		return m.active[i], true
	}
	if i := indexOf(m.done, id); i >= 0 {
		return m.done[i], true
	}
	return task.Task{}, false
}

// Today is the current calendar date according to the manager's clock.
func (m *Manager) Today() task.Date {
	return task.DateOf(m.now())
}

// Add appends a new active task. Blank titles and unknown enum values are
// rejected before anything is stored.
func (m *Manager) Add(d task.Draft) (task.Task, error) {
	t := d.Task(0)
	if err := t.Check(); err != nil {
		return task.Task{}, err
	}
	t.ID = m.ids.Next()
	t.Completed = false
	m.active = append(slices.Clone(m.active), t)
	m.persist()
	m.log.Debug("task added", "id", t.ID, "title", t.Title)
	m.notify.Notify("Task added successfully", SeveritySuccess, "")
	return t, nil
}

// Edit replaces the record with t.ID in place. It reports false when no
// sequence holds the id. Records that could not be read back after saving
// are rejected.
func (m *Manager) Edit(t task.Task) (bool, error) {
	ai, di := indexOf(m.active, t.ID), indexOf(m.done, t.ID)
	if ai < 0 && di < 0 {
		return false, nil
	}
	t.Title = strings.TrimSpace(t.Title)
	if err := t.Check(); err != nil {
		return false, err
	}
	if ai >= 0 {
		t.Completed = false
		m.active = replaceAt(m.active, ai, t)
	} else {
		t.Completed = true
		m.done = replaceAt(m.done, di, t)
	}
	m.persist()
	m.log.Debug("task edited", "id", t.ID)
	m.notify.Notify("Task updated", SeveritySuccess, "")
	return true, nil
}

// Complete moves id from active to done. Completing a task that is not
// active does nothing.
func (m *Manager) Complete(id int64) bool {
	i := indexOf(m.active, id)
	if i < 0 {
		return false
	}
	t := m.active[i]
	t.Completed = true
	m.active = removeAt(m.active, i)
	m.done = append(slices.Clone(m.done), t)
	m.persist()
	m.log.Debug("task completed", "id", id)
	m.notify.Notify("Task marked as done", SeverityInfo, "")
	return true
}

// Recover moves id from done back to active. A task due before today is
// left in done and ErrStaleDueDate is returned; its date must be edited
// first.
func (m *Manager) Recover(id int64) (bool, error) {
	i := indexOf(m.done, id)
	if i < 0 {
		return false, nil
	}
	t := m.done[i]
	if t.HasDueDate() && t.DueDate.Before(m.Today()) {
		m.notify.Notify("Cannot recover task with past date", SeverityError, "Please edit the task date before recovering.")
		return false, fmt.Errorf("%w: due %s", ErrStaleDueDate, t.DueDate)
	}
	t.Completed = false
	m.done = removeAt(m.done, i)
	if indexOf(m.active, id) < 0 {
		m.active = append(slices.Clone(m.active), t)
	}
	m.persist()
	m.log.Debug("task recovered", "id", id)
	m.notify.Notify("Task recovered", SeveritySuccess, "")
	return true, nil
}

// Delete removes id from both sequences. It reports whether anything was
// removed.
func (m *Manager) Delete(id int64) bool {
	ai, di := indexOf(m.active, id), indexOf(m.done, id)
	if ai < 0 && di < 0 {
		return false
	}
	if ai >= 0 {
		m.active = removeAt(m.active, ai)
	}
	if di >= 0 {
		m.done = removeAt(m.done, di)
	}
	m.persist()
	m.log.Debug("task deleted", "id", id)
	m.notify.Notify("Task deleted", SeverityWarning, "")
	return true
}

func (m *Manager) persist() {
	if err := m.store.Save(storage.KeyActive, m.active); err != nil {
		m.log.Error("save active tasks", "error", err)
		m.warnStorage()
		return
	}
	if err := m.store.Save(storage.KeyDone, m.done); err != nil {
		m.log.Error("save done tasks", "error", err)
		m.warnStorage()
	}
}

func (m *Manager) warnStorage() {
	if m.storageWarned {
		return
	}
	m.storageWarned = true
	m.notify.Notify("Storage Error", SeverityError, "Unable to access local storage. Your tasks may not be saved.")
}

func indexOf(tasks []task.Task, id int64) int {
	return slices.IndexFunc(tasks, func(t task.Task) bool { return t.ID == id })
}

// replaceAt, removeAt and the append sites above always build a new slice
// so a snapshot handed out earlier never observes later mutations.
func replaceAt(tasks []task.Task, i int, t task.Task) []task.Task {
	out := slices.Clone(tasks)
	out[i] = t
	return out
}

func removeAt(tasks []task.Task, i int) []task.Task {
	out := make([]task.Task, 0, len(tasks)-1)
	out = append(out, tasks[:i]...)
	return append(out, tasks[i+1:]...)
}
