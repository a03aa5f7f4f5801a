package manager

import "time"

// IDGenerator hands out task ids. Implementations must return strictly
// increasing values.
type IDGenerator interface {
	Next() int64
	// Observe tells the generator about an id already in use.
	Observe(id int64)
}

// ClockIDs derives ids from the wall clock in milliseconds, bumping past
// the previous id when two tasks are created within the same millisecond.
type ClockIDs struct {
	Now  func() time.Time
	last int64
}

func (g *ClockIDs) Next() int64 {
	now := time.Now
	if g.Now != nil {
		now = g.Now
	}
	id := now().UnixMilli()
	if id <= g.last {
		id = g.last + 1
	}
	g.last = id
	return id
}

func (g *ClockIDs) Observe(id int64) {
	if id > g.last {
		g.last = id
	}
}

// SequentialIDs counts up from 1. Useful where ids must be predictable.
type SequentialIDs struct {
	last int64
}

func (g *SequentialIDs) Next() int64 {
	g.last++
	return g.last
}

func (g *SequentialIDs) Observe(id int64) {
	if id > g.last {
		g.last = id
	}
}
