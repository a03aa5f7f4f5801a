package manager

import (
	"context"
	"log/slog"
)

type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Notifier receives user-visible feedback about store events.
type Notifier interface {
	Notify(title string, sev Severity, message string)
}

// NotifierFunc adapts a function to a Notifier.
type NotifierFunc func(title string, sev Severity, message string)

func (f NotifierFunc) Notify(title string, sev Severity, message string) {
	f(title, sev, message)
}

// Notifiers fans a notification out to every element in order.
type Notifiers []Notifier

func (ns Notifiers) Notify(title string, sev Severity, message string) {
	for _, n := range ns {
		n.Notify(title, sev, message)
	}
}

// LogNotifier writes notifications to a structured logger.
type LogNotifier struct {
	Log *slog.Logger
}

func (n LogNotifier) Notify(title string, sev Severity, message string) {
	log := n.Log
	if log == nil {
		log = slog.Default()
	}
	level := slog.LevelInfo
	switch sev {
	case SeverityWarning:
		level = slog.LevelWarn
	case SeverityError:
		level = slog.LevelError
	}
	args := []any{"severity", string(sev)}
	if message != "" {
		args = append(args, "message", message)
	}
	log.Log(context.Background(), level, title, args...)
}

type discardNotifier struct{}

func (discardNotifier) Notify(string, Severity, string) {}
