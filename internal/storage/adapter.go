package storage

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"taskpad/internal/task"
)

// Keys of the two persisted sequences.
const (
	KeyActive = "tasks"
	KeyDone   = "doneTasks"
)

// Adapter serializes task sequences to a KV. Once the backing store has
// been found unusable every Save becomes a no-op for the rest of the
// session; the caller warns the user once.
type Adapter struct {
	kv        KV
	log       *slog.Logger
	available bool
}

func NewAdapter(kv KV, log *slog.Logger) *Adapter {
	if log == nil {
		log = slog.Default()
	}
	return &Adapter{kv: kv, log: log, available: true}
}

// Probe writes and removes a sentinel key. It never returns an error; any
// failure marks the adapter unavailable.
func (a *Adapter) Probe() bool {
	key := "__probe_" + uuid.NewString() + "__"
	if err := a.kv.SetItem(key, key); err != nil {
		a.disable("probe write", err)
		return false
	}
	if err := a.kv.RemoveItem(key); err != nil {
		a.disable("probe remove", err)
		return false
	}
	return true
}

func (a *Adapter) Available() bool {
	return a.available
}

// Load returns the stored sequence for key. Missing, unreadable or
// malformed values all yield an empty sequence.
func (a *Adapter) Load(key string) []task.Task {
	if !a.available {
		return nil
	}
	raw, ok, err := a.kv.GetItem(key)
	if err != nil {
		a.log.Warn("storage read failed", "key", key, "error", err)
		return nil
	}
	if !ok || raw == "" {
		return nil
	}
	var tasks []task.Task
	if err := json.Unmarshal([]byte(raw), &tasks); err != nil {
		a.log.Warn("discarding malformed stored tasks", "key", key, "error", err)
		return nil
	}
	for _, t := range tasks {
		if err := t.Check(); err != nil {
			a.log.Warn("discarding malformed stored tasks", "key", key, "id", t.ID, "error", err)
			return nil
		}
	}
	return tasks
}

// Save overwrites key with the full sequence. The first write failure is
// returned and disables the adapter.
func (a *Adapter) Save(key string, tasks []task.Task) error {
	if !a.available {
		return nil
	}
	if tasks == nil {
		tasks = []task.Task{}
	}
	data, err := json.Marshal(tasks)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := a.kv.SetItem(key, string(data)); err != nil {
		a.disable("save "+key, err)
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

func (a *Adapter) disable(op string, err error) {
	if a.available {
		a.log.Warn("storage unavailable, continuing in memory", "op", op, "error", err)
	}
	a.available = false
}
