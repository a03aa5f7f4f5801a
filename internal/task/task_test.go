package task

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestTaskJSONShape(t *testing.T) {
	tk := Task{
		ID:       1704067200000,
		Title:    "Pay rent",
		DueDate:  NewDate(2024, time.January, 1),
		Priority: PriorityHigh,
		Category: CategoryPersonal,
	}
	data, err := json.Marshal(tk)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	got := string(data)
	want := `{"id":1704067200000,"title":"Pay rent","dueDate":"2024-01-01","priority":"High","category":"Personal","completed":false}`
	if got != want {
		t.Errorf("json = %s\nwant   %s", got, want)
	}
}

func TestTaskJSONOmitsZeroDueDate(t *testing.T) {
	data, err := json.Marshal(Task{ID: 1, Title: "x", Priority: PriorityLow, Category: CategoryWork})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if strings.Contains(string(data), "dueDate") {
		t.Errorf("expected dueDate to be omitted, got %s", data)
	}
}

func TestTaskUnmarshalBlankOptionalFields(t *testing.T) {
	raw := `{"id":7,"title":"Groceries","description":"","dueDate":"","timeOfDay":"","location":"","priority":"Medium","category":"Errands","recurrence":"","completed":false}`
	var tk Task
	if err := json.Unmarshal([]byte(raw), &tk); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if tk.HasDueDate() {
		t.Errorf("expected no due date, got %v", tk.DueDate)
	}
	if tk.Recurrence != RecurrenceNone {
		t.Errorf("Recurrence = %q, want none", tk.Recurrence)
	}
}

func TestTaskUnmarshalRejectsUnknownEnums(t *testing.T) {
	cases := map[string]string{
		"priority":   `{"id":1,"title":"a","priority":"Urgent","category":"Work","completed":false}`,
		"category":   `{"id":1,"title":"a","priority":"Low","category":"Hobby","completed":false}`,
		"recurrence": `{"id":1,"title":"a","priority":"Low","category":"Work","recurrence":"Yearly","completed":false}`,
		"dueDate":    `{"id":1,"title":"a","priority":"Low","category":"Work","dueDate":"01/02/2024","completed":false}`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			var tk Task
			if err := json.Unmarshal([]byte(raw), &tk); err == nil {
				t.Errorf("expected error for bad %s", name)
			}
		})
	}
}

func TestDateOrdering(t *testing.T) {
	a := NewDate(2024, time.February, 28)
	b := NewDate(2024, time.February, 29)
	c := NewDate(2025, time.January, 1)
	if !a.Before(b) || !b.Before(c) || !a.Before(c) {
		t.Error("expected a < b < c")
	}
	if b.Before(b) {
		t.Error("date must not be before itself")
	}
	if !c.After(a) {
		t.Error("expected c after a")
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-02-29")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	if d != NewDate(2024, time.February, 29) {
		t.Errorf("got %v", d)
	}
	if _, err := ParseDate("2023-02-29"); err == nil {
		t.Error("expected error for non-existent date")
	}
}

func TestDraftValidate(t *testing.T) {
	today := NewDate(2024, time.January, 5)
	tests := []struct {
		name  string
		draft Draft
		want  error
	}{
		{"ok", Draft{Title: "a", DueDate: today, TimeOfDay: "09:30"}, nil},
		{"no due date", Draft{Title: "a"}, nil},
		{"blank title", Draft{Title: "  "}, ErrEmptyTitle},
		{"past due", Draft{Title: "a", DueDate: NewDate(2024, time.January, 4)}, ErrPastDueDate},
		{"bad time", Draft{Title: "a", TimeOfDay: "25:00"}, ErrInvalidTime},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.draft.Validate(today)
			if tt.want == nil && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestDraftDefaults(t *testing.T) {
	tk := Draft{Title: "  trim me  "}.Task(3)
	if tk.Title != "trim me" {
		t.Errorf("Title = %q", tk.Title)
	}
	if tk.Priority != PriorityMedium || tk.Category != CategoryWork {
		t.Errorf("defaults = %s/%s, want Medium/Work", tk.Priority, tk.Category)
	}
}

func TestWithDraftKeepsIdentity(t *testing.T) {
	orig := Task{ID: 9, Title: "old", Priority: PriorityLow, Category: CategoryWork, Completed: true}
	d := orig.Draft()
	d.Title = "new"
	next := orig.WithDraft(d)
	if next.ID != 9 || !next.Completed || next.Title != "new" {
		t.Errorf("WithDraft = %+v", next)
	}
	if orig.Title != "old" {
		t.Error("original record was modified")
	}
}

func TestParseEnums(t *testing.T) {
	if p, err := ParsePriority("high"); err != nil || p != PriorityHigh {
		t.Errorf("ParsePriority(high) = %q, %v", p, err)
	}
	if c, err := ParseCategory("ERRANDS"); err != nil || c != CategoryErrands {
		t.Errorf("ParseCategory(ERRANDS) = %q, %v", c, err)
	}
	if r, err := ParseRecurrence("none"); err != nil || r != RecurrenceNone {
		t.Errorf("ParseRecurrence(none) = %q, %v", r, err)
	}
	if _, err := ParsePriority("critical"); err == nil {
		t.Error("expected error for unknown priority")
	}
}

func TestTaskCheck(t *testing.T) {
	valid := Task{ID: 1, Title: "a", Priority: PriorityLow, Category: CategoryWork}
	tests := []struct {
		name string
		edit func(*Task)
		want error
	}{
		{"valid", func(*Task) {}, nil},
		{"blank title", func(t *Task) { t.Title = " " }, ErrEmptyTitle},
		{"missing priority", func(t *Task) { t.Priority = "" }, ErrUnknownValue},
		{"unknown priority", func(t *Task) { t.Priority = "Urgent" }, ErrUnknownValue},
		{"missing category", func(t *Task) { t.Category = "" }, ErrUnknownValue},
		{"unknown recurrence", func(t *Task) { t.Recurrence = "Hourly" }, ErrUnknownValue},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tk := valid
			tt.edit(&tk)
			err := tk.Check()
			if tt.want == nil && err != nil {
				t.Fatalf("Check() = %v", err)
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Fatalf("Check() = %v, want %v", err, tt.want)
			}
		})
	}
}
