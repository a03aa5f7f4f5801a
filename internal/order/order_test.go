package order

import (
	"slices"
	"testing"
	"time"

	"taskpad/internal/task"
)

func mk(id int64, due string, p task.Priority) task.Task {
	t := task.Task{ID: id, Title: "t", Priority: p, Category: task.CategoryWork}
	if due != "" {
		d, err := task.ParseDate(due)
		if err != nil {
			panic(err)
		}
		t.DueDate = d
	}
	return t
}

func ids(tasks []task.Task) []int64 {
	out := make([]int64, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func TestSortChronological(t *testing.T) {
	tests := []struct {
		name string
		in   []task.Task
		want []int64
	}{
		{
			name: "due dates before missing",
			in:   []task.Task{mk(1, "", task.PriorityHigh), mk(2, "2024-03-01", task.PriorityLow)},
			want: []int64{2, 1},
		},
		{
			name: "earlier date first",
			in:   []task.Task{mk(1, "2024-03-05", task.PriorityLow), mk(2, "2024-03-01", task.PriorityLow), mk(3, "2024-02-28", task.PriorityLow)},
			want: []int64{3, 2, 1},
		},
		{
			name: "no due date high before low",
			in:   []task.Task{mk(1, "", task.PriorityLow), mk(2, "", task.PriorityHigh)},
			want: []int64{2, 1},
		},
		{
			name: "same date falls back to priority then id",
			in:   []task.Task{mk(5, "2024-03-01", task.PriorityLow), mk(4, "2024-03-01", task.PriorityMedium), mk(6, "2024-03-01", task.PriorityHigh)},
			want: []int64{6, 4, 5},
		},
		{
			name: "medium and low tie on id",
			in:   []task.Task{mk(9, "", task.PriorityLow), mk(3, "", task.PriorityMedium)},
			want: []int64{3, 9},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(SortChronological(tt.in))
			if !slices.Equal(got, tt.want) {
				t.Errorf("order = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSortChronologicalIdempotentAndPure(t *testing.T) {
	in := []task.Task{
		mk(4, "", task.PriorityLow),
		mk(1, "2024-05-01", task.PriorityMedium),
		mk(3, "", task.PriorityHigh),
		mk(2, "2024-04-01", task.PriorityLow),
	}
	before := ids(in)
	once := SortChronological(in)
	twice := SortChronological(once)
	if !slices.Equal(ids(once), ids(twice)) {
		t.Errorf("sorting twice changed order: %v vs %v", ids(once), ids(twice))
	}
	if !slices.Equal(ids(in), before) {
		t.Error("input slice was reordered")
	}
}

func TestSortChronologicalStable(t *testing.T) {
	// Equal keys only arise with duplicate ids; their input order must hold.
	a := mk(1, "", task.PriorityLow)
	a.Title = "first"
	b := mk(1, "", task.PriorityLow)
	b.Title = "second"
	got := SortChronological([]task.Task{a, b})
	if got[0].Title != "first" || got[1].Title != "second" {
		t.Errorf("stable order lost: %q, %q", got[0].Title, got[1].Title)
	}
}

func TestSelectImportant(t *testing.T) {
	now := time.Date(2024, time.January, 5, 10, 0, 0, 0, time.UTC)
	done := mk(1, "2024-01-05", task.PriorityHigh)
	done.Completed = true
	in := []task.Task{
		done,
		mk(2, "2024-01-06", task.PriorityLow),  // within 3 days
		mk(3, "2024-01-08", task.PriorityLow),  // midnight of day 3 is inside the horizon
		mk(4, "2024-01-09", task.PriorityLow),  // outside
		mk(5, "", task.PriorityHigh),           // high, no date
		mk(6, "2024-02-01", task.PriorityHigh), // high, far
		mk(7, "", task.PriorityMedium),         // neither
	}
	got := SelectImportant(in, now, DefaultHorizonDays, DefaultImportantLimit)
	want := []int64{2, 3, 6, 5}
	if !slices.Equal(ids(got), want) {
		t.Fatalf("important = %v, want %v", ids(got), want)
	}
	for _, tk := range got {
		if tk.Completed {
			t.Errorf("completed task %d selected", tk.ID)
		}
	}
}

func TestSelectImportantLimit(t *testing.T) {
	now := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	var in []task.Task
	for i := int64(1); i <= 8; i++ {
		in = append(in, mk(i, "", task.PriorityHigh))
	}
	got := SelectImportant(in, now, 3, 5)
	if !slices.Equal(ids(got), []int64{1, 2, 3, 4, 5}) {
		t.Errorf("important = %v", ids(got))
	}
	if SelectImportant(in, now, 3, 0) != nil {
		t.Error("limit 0 should select nothing")
	}
}

func TestClassifyUrgent(t *testing.T) {
	now := time.Date(2024, time.January, 5, 12, 0, 0, 0, time.UTC)
	done := mk(5, "2024-01-05", task.PriorityHigh)
	done.Completed = true
	in := []task.Task{
		mk(1, "2024-01-06", task.PriorityHigh),   // midnight tomorrow, inside 24h
		mk(2, "2024-01-06", task.PriorityMedium), // not high
		mk(3, "", task.PriorityHigh),             // no date
		mk(4, "2024-01-07", task.PriorityHigh),   // beyond 24h
		done,
		mk(6, "2024-01-02", task.PriorityHigh), // overdue counts
	}
	got := ClassifyUrgent(in, now, DefaultUrgentWindow)
	if !slices.Equal(ids(got), []int64{6, 1}) {
		t.Errorf("urgent = %v, want [6 1]", ids(got))
	}
}

func TestBucketByDateLeapDay(t *testing.T) {
	leap := mk(1, "2024-02-29", task.PriorityLow)
	other := mk(2, "2024-03-29", task.PriorityLow)
	none := mk(3, "", task.PriorityLow)
	buckets := BucketByDate([]task.Task{leap, other, none}, 2024, time.February)
	if len(buckets) != 29 {
		t.Fatalf("got %d buckets, want 29", len(buckets))
	}
	for _, b := range buckets {
		switch b.Day {
		case 29:
			if len(b.Tasks) != 1 || b.Tasks[0].ID != 1 {
				t.Errorf("day 29 = %v, want [1]", ids(b.Tasks))
			}
		default:
			if len(b.Tasks) != 0 {
				t.Errorf("day %d = %v, want empty", b.Day, ids(b.Tasks))
			}
		}
	}
}

func TestBucketByDateKeepsInputOrder(t *testing.T) {
	in := []task.Task{mk(3, "2024-06-10", task.PriorityLow), mk(1, "2024-06-10", task.PriorityHigh)}
	b := BucketByDate(in, 2024, time.June)
	if !slices.Equal(ids(b[9].Tasks), []int64{3, 1}) {
		t.Errorf("day 10 = %v", ids(b[9].Tasks))
	}
}

func TestDaysInMonth(t *testing.T) {
	tests := []struct {
		year  int
		month time.Month
		want  int
	}{
		{2024, time.February, 29},
		{2023, time.February, 28},
		{2024, time.April, 30},
		{2024, time.December, 31},
	}
	for _, tt := range tests {
		if got := DaysInMonth(tt.year, tt.month); got != tt.want {
			t.Errorf("DaysInMonth(%d, %s) = %d, want %d", tt.year, tt.month, got, tt.want)
		}
	}
}

func TestLeadingBlanks(t *testing.T) {
	// 1 February 2024 was a Thursday; 1 September 2024 a Sunday.
	if got := LeadingBlanks(2024, time.February); got != 4 {
		t.Errorf("Feb 2024 = %d, want 4", got)
	}
	if got := LeadingBlanks(2024, time.September); got != 0 {
		t.Errorf("Sep 2024 = %d, want 0", got)
	}
}
