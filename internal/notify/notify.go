// Package notify holds Notification Sink implementations for the ledger.
package notify

import (
	"log/slog"
)

// Log reports notifications through a structured logger.
type Log struct {
	logger *slog.Logger
}

func NewLog(logger *slog.Logger) *Log {
	if logger == nil {
		logger = slog.Default()
	}

	return &Log{logger: logger}
}

func (l *Log) Error(msg string, err error) {
	l.logger.Error(msg, "error", err)
}

func (l *Log) Success(msg string) {
	l.logger.Info(msg)
}

// Sink is the interface implemented by every notifier in this package.
type Sink interface {
	Error(msg string, err error)
	Success(msg string)
}

// Multi forwards every notification to all of its sinks, in order.
type Multi []Sink

func (m Multi) Error(msg string, err error) {
	for _, s := range m {
		s.Error(msg, err)
	}
}

func (m Multi) Success(msg string) {
	for _, s := range m {
		s.Success(msg)
	}
}

// Func adapts a pair of functions to a Sink. Either may be nil.
type Func struct {
	OnError   func(msg string, err error)
	OnSuccess func(msg string)
}

func (f Func) Error(msg string, err error) {
	if f.OnError != nil {
		f.OnError(msg, err)
	}
}

func (f Func) Success(msg string) {
	if f.OnSuccess != nil {
		f.OnSuccess(msg)
	}
}
