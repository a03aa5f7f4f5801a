// Package task defines the task record shared by storage, the manager and
// the views, together with the enums and civil date it is built from.
package task

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrEmptyTitle   = errors.New("title cannot be empty")
	ErrPastDueDate  = errors.New("due date is in the past")
	ErrInvalidTime  = errors.New("time of day must be HH:MM")
	ErrUnknownValue = errors.New("unknown value")
)

type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

type Category string

const (
	CategoryWork     Category = "Work"
	CategoryPersonal Category = "Personal"
	CategoryErrands  Category = "Errands"
)

// Recurrence is informational only; completing a recurring task does not
// schedule another one.
type Recurrence string

const (
	RecurrenceNone    Recurrence = ""
	RecurrenceDaily   Recurrence = "Daily"
	RecurrenceWeekly  Recurrence = "Weekly"
	RecurrenceMonthly Recurrence = "Monthly"
)

var (
	priorities  = []Priority{PriorityLow, PriorityMedium, PriorityHigh}
	categories  = []Category{CategoryWork, CategoryPersonal, CategoryErrands}
	recurrences = []Recurrence{RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly}
)

// Task is a single to-do item. Records are treated as values: the manager
// never hands out a pointer into its sequences.
type Task struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	DueDate     Date       `json:"dueDate,omitzero"`
	TimeOfDay   string     `json:"timeOfDay,omitempty"`
	Location    string     `json:"location,omitempty"`
	Priority    Priority   `json:"priority"`
	Category    Category   `json:"category"`
	Recurrence  Recurrence `json:"recurrence,omitempty"`
	Completed   bool       `json:"completed"`
}

// Draft carries the user-editable fields of a task before it has an id.
type Draft struct {
	Title       string
	Description string
	DueDate     Date
	TimeOfDay   string
	Location    string
	Priority    Priority
	Category    Category
	Recurrence  Recurrence
}

// NewDraft returns a draft with the form defaults applied.
func NewDraft(title string) Draft {
	return Draft{
		Title:    title,
		Priority: PriorityMedium,
		Category: CategoryWork,
	}
}

// Validate applies the checks the add/edit forms perform before saving.
func (d Draft) Validate(today Date) error {
	if strings.TrimSpace(d.Title) == "" {
		return ErrEmptyTitle
	}
	if err := CheckDueDate(d.DueDate, today); err != nil {
		return err
	}
	return ValidateTimeOfDay(d.TimeOfDay)
}

// Task builds an active task record from the draft.
func (d Draft) Task(id int64) Task {
	t := Task{
		ID:          id,
		Title:       strings.TrimSpace(d.Title),
		Description: d.Description,
		DueDate:     d.DueDate,
		TimeOfDay:   d.TimeOfDay,
		Location:    d.Location,
		Priority:    d.Priority,
		Category:    d.Category,
		Recurrence:  d.Recurrence,
	}
	if t.Priority == "" {
		t.Priority = PriorityMedium
	}
	if t.Category == "" {
		t.Category = CategoryWork
	}
	return t
}

// Draft returns the editable fields of t.
func (t Task) Draft() Draft {
	return Draft{
		Title:       t.Title,
		Description: t.Description,
		DueDate:     t.DueDate,
		TimeOfDay:   t.TimeOfDay,
		Location:    t.Location,
		Priority:    t.Priority,
		Category:    t.Category,
		Recurrence:  t.Recurrence,
	}
}

// WithDraft returns a copy of t with the editable fields replaced.
func (t Task) WithDraft(d Draft) Task {
	next := d.Task(t.ID)
	next.Completed = t.Completed
	return next
}

// Check reports whether t can be stored and read back: a non-empty title
// and known enum values. Absent or null JSON fields never reach
// UnmarshalText, so a decoded record must be checked as well.
func (t Task) Check() error {
	if strings.TrimSpace(t.Title) == "" {
		return ErrEmptyTitle
	}
	if !t.Priority.Valid() {
		return fmt.Errorf("priority %q: %w", string(t.Priority), ErrUnknownValue)
	}
	if !t.Category.Valid() {
		return fmt.Errorf("category %q: %w", string(t.Category), ErrUnknownValue)
	}
	if !t.Recurrence.Valid() {
		return fmt.Errorf("recurrence %q: %w", string(t.Recurrence), ErrUnknownValue)
	}
	return nil
}

func (t Task) HasDueDate() bool {
	return !t.DueDate.IsZero()
}

// CheckDueDate rejects due dates strictly before today. A zero date passes.
func CheckDueDate(due, today Date) error {
	if due.IsZero() {
		return nil
	}
	if due.Before(today) {
		return fmt.Errorf("%w: %s", ErrPastDueDate, due)
	}
	return nil
}

// ValidateTimeOfDay accepts an empty string or a 24h "HH:MM" value.
func ValidateTimeOfDay(v string) error {
	if v == "" {
		return nil
	}
	if _, err := time.Parse("15:04", v); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidTime, v)
	}
	return nil
}

func (p Priority) Valid() bool {
	for _, v := range priorities {
		if p == v {
			return true
		}
	}
	return false
}

func (p *Priority) UnmarshalText(b []byte) error {
	v := Priority(b)
	if !v.Valid() {
		return fmt.Errorf("priority %q: %w", string(b), ErrUnknownValue)
	}
	*p = v
	return nil
}

// ParsePriority matches case-insensitively, as typed by a user.
func ParsePriority(v string) (Priority, error) {
	v = strings.TrimSpace(v)
	for _, p := range priorities {
		if strings.EqualFold(v, string(p)) {
			return p, nil
		}
	}
	return "", fmt.Errorf("priority %q: %w (want Low, Medium or High)", v, ErrUnknownValue)
}

func (c Category) Valid() bool {
	for _, v := range categories {
		if c == v {
			return true
		}
	}
	return false
}

func (c *Category) UnmarshalText(b []byte) error {
	v := Category(b)
	if !v.Valid() {
		return fmt.Errorf("category %q: %w", string(b), ErrUnknownValue)
	}
	*c = v
	return nil
}

func ParseCategory(v string) (Category, error) {
	v = strings.TrimSpace(v)
	for _, c := range categories {
		if strings.EqualFold(v, string(c)) {
			return c, nil
		}
	}
	return "", fmt.Errorf("category %q: %w (want Work, Personal or Errands)", v, ErrUnknownValue)
}

func (r Recurrence) Valid() bool {
	if r == RecurrenceNone {
		return true
	}
	for _, v := range recurrences {
		if r == v {
			return true
		}
	}
	return false
}

func (r *Recurrence) UnmarshalText(b []byte) error {
	v := Recurrence(b)
	if !v.Valid() {
		return fmt.Errorf("recurrence %q: %w", string(b), ErrUnknownValue)
	}
	*r = v
	return nil
}

// ParseRecurrence accepts an empty string or "none" for no recurrence.
func ParseRecurrence(v string) (Recurrence, error) {
	v = strings.TrimSpace(v)
	if v == "" || strings.EqualFold(v, "none") {
		return RecurrenceNone, nil
	}
	for _, r := range recurrences {
		if strings.EqualFold(v, string(r)) {
			return r, nil
		}
	}
	return "", fmt.Errorf("recurrence %q: %w (want Daily, Weekly or Monthly)", v, ErrUnknownValue)
}
