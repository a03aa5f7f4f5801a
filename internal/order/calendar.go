package order

import (
	"time"

	"taskpad/internal/task"
)

// DayBucket holds the tasks due on one day of a month.
type DayBucket struct {
	Day   int
	Tasks []task.Task
}

// BucketByDate returns one bucket per day of the month, in day order. A
// task lands in the bucket whose calendar date equals its due date.
func BucketByDate(tasks []task.Task, year int, month time.Month) []DayBucket {
	n := DaysInMonth(year, month)
	buckets := make([]DayBucket, n)
	for i := range buckets {
		buckets[i].Day = i + 1
	}
	for _, t := range tasks {
		if !t.HasDueDate() || t.DueDate.Year != year || t.DueDate.Month != month {
			continue
		}
		d := t.DueDate.Day
		if d < 1 || d > n {
			continue
		}
		buckets[d-1].Tasks = append(buckets[d-1].Tasks, t)
	}
	return buckets
}

func DaysInMonth(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// LeadingBlanks is the number of empty cells before day 1 in a grid whose
// weeks start on Sunday.
func LeadingBlanks(year int, month time.Month) int {
	return int(time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Weekday())
}
