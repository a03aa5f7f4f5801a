package ui

import (
	"taskpad/internal/manager"
)

// StatusSink collects manager notifications for the status line. It is
// created before the manager so startup warnings are not lost.
type StatusSink struct {
	title   string
	sev     manager.Severity
	message string
	seq     int
}

var _ manager.Notifier = (*StatusSink)(nil)

func NewStatusSink() *StatusSink {
	return &StatusSink{}
}

func (s *StatusSink) Notify(title string, sev manager.Severity, message string) {
	s.title = title
	s.sev = sev
	s.message = message
	s.seq++
}

// Line renders the latest notification, or "" if there has been none.
func (s *StatusSink) Line() string {
	if s.seq == 0 {
		return ""
	}
	if s.message == "" {
		return s.title
	}
	return s.title + ": " + s.message
}

func (s *StatusSink) Severity() manager.Severity {
	return s.sev
}

// Seq increases on every notification.
func (s *StatusSink) Seq() int {
	return s.seq
}
