// Package order derives sorted and filtered views from task sequences.
// Every function is pure: inputs are never modified and results are fresh
// slices.
package order

import (
	"slices"
	"time"

	"taskpad/internal/task"
)

const (
	DefaultHorizonDays    = 3
	DefaultImportantLimit = 5
	DefaultUrgentWindow   = 24 * time.Hour
)

// SortChronological orders tasks with a due date before tasks without one,
// earlier dates first. Ties fall back to High priority first and then to
// creation order (id). The sort is stable.
func SortChronological(tasks []task.Task) []task.Task {
	out := slices.Clone(tasks)
	slices.SortStableFunc(out, compareChronological)
	return out
}

func compareChronological(a, b task.Task) int {
	aDue, bDue := a.HasDueDate(), b.HasDueDate()
	switch {
	case aDue && !bDue:
		return -1
	case !aDue && bDue:
		return 1
	case aDue && bDue:
		if a.DueDate.Before(b.DueDate) {
			return -1
		}
		if b.DueDate.Before(a.DueDate) {
			return 1
		}
	}
	aHigh, bHigh := a.Priority == task.PriorityHigh, b.Priority == task.PriorityHigh
	if aHigh != bHigh {
		if aHigh {
			return -1
		}
		return 1
	}
	switch {
	case a.ID < b.ID:
		return -1
	case a.ID > b.ID:
		return 1
	}
	return 0
}

// SelectImportant keeps open tasks that are High priority or due within
// horizonDays of now, taken in chronological order and truncated to limit.
func SelectImportant(tasks []task.Task, now time.Time, horizonDays, limit int) []task.Task {
	if limit <= 0 {
		return nil
	}
	horizon := now.AddDate(0, 0, horizonDays)
	var out []task.Task
	for _, t := range SortChronological(tasks) {
		if t.Completed {
			continue
		}
		if t.Priority == task.PriorityHigh || dueBy(t, horizon) {
			out = append(out, t)
			if len(out) == limit {
				break
			}
		}
	}
	return out
}

// ClassifyUrgent keeps open High priority tasks whose due date falls within
// window of now. Both conditions must hold.
func ClassifyUrgent(tasks []task.Task, now time.Time, window time.Duration) []task.Task {
	limit := now.Add(window)
	var out []task.Task
	for _, t := range SortChronological(tasks) {
		if t.Completed || t.Priority != task.PriorityHigh {
			continue
		}
		if dueBy(t, limit) {
			out = append(out, t)
		}
	}
	return out
}

// dueBy reports whether t's due date, taken as the start of that day in
// limit's location, is not after limit.
func dueBy(t task.Task, limit time.Time) bool {
	if !t.HasDueDate() {
		return false
	}
	return !t.DueDate.In(limit.Location()).After(limit)
}
