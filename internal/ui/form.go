package ui

import (
	"fmt"
	"strings"

	"taskpad/internal/task"
)

const (
	fieldTitle = iota
	fieldDescription
	fieldDue
	fieldTime
	fieldLocation
	fieldPriority
	fieldCategory
	fieldRecurrence
	numFields
)

func formFields() []string {
	return []string{
		"title",
		"description",
		"due date (YYYY-MM-DD)",
		"time (HH:MM)",
		"location",
		"priority (Low/Medium/High)",
		"category (Work/Personal/Errands)",
		"recurrence (Daily/Weekly/Monthly/none)",
	}
}

// formState backs both the add and the edit form. taskID is zero when
// adding.
type formState struct {
	taskID int64
	values [numFields]string
	index  int
}

func newAddForm() *formState {
	d := task.NewDraft("")
	return &formState{values: draftValues(d)}
}

func newEditForm(t task.Task) *formState {
	return &formState{taskID: t.ID, values: draftValues(t.Draft())}
}

func draftValues(d task.Draft) [numFields]string {
	var v [numFields]string
	v[fieldTitle] = d.Title
	v[fieldDescription] = d.Description
	v[fieldDue] = d.DueDate.String()
	v[fieldTime] = d.TimeOfDay
	v[fieldLocation] = d.Location
	v[fieldPriority] = string(d.Priority)
	v[fieldCategory] = string(d.Category)
	v[fieldRecurrence] = string(d.Recurrence)
	return v
}

func (f formState) editing() bool {
	return f.taskID != 0
}

func (f formState) currentLabel() string {
	return formFields()[f.index]
}

func (f formState) currentValue() string {
	return f.values[f.index]
}

func (f *formState) setCurrentValue(v string) {
	f.values[f.index] = v
}

func (f formState) last() bool {
	return f.index >= numFields-1
}

// draft parses the form into a draft without checking it against today.
func (f formState) draft() (task.Draft, error) {
	d := task.Draft{
		Title:       strings.TrimSpace(f.values[fieldTitle]),
		Description: strings.TrimSpace(f.values[fieldDescription]),
		TimeOfDay:   strings.TrimSpace(f.values[fieldTime]),
		Location:    strings.TrimSpace(f.values[fieldLocation]),
	}
	if due := strings.TrimSpace(f.values[fieldDue]); due != "" {
		parsed, err := task.ParseDate(due)
		if err != nil {
			return d, fmt.Errorf("due date invalid: %w", err)
		}
		d.DueDate = parsed
	}
	p, err := task.ParsePriority(f.values[fieldPriority])
	if err != nil {
		return d, err
	}
	d.Priority = p
	c, err := task.ParseCategory(f.values[fieldCategory])
	if err != nil {
		return d, err
	}
	d.Category = c
	r, err := task.ParseRecurrence(f.values[fieldRecurrence])
	if err != nil {
		return d, err
	}
	d.Recurrence = r
	return d, nil
}

func wrapIndex(idx, n int) int {
	if n <= 0 {
		return 0
	}
	idx %= n
	if idx < 0 {
		idx += n
	}
	return idx
}
