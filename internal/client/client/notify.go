package client

import (
	"context"
	"errors"
)

type Level int

const (
	LevelInfo Level = iota
	LevelError
)

func (l Level) String() string {
	if l == LevelError {
		return "error"
	}
	return "info"
}

// Notification is a user-facing, dismissible message.
type Notification struct {
	Level   Level
	Message string
}

type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

type NotifierFunc func(ctx context.Context, n Notification)

func (f NotifierFunc) Notify(ctx context.Context, n Notification) { f(ctx, n) }

// Navigator switches the current screen. With replace set the previous
// screen is dropped from history.
type Navigator interface {
	Navigate(path string, replace bool)
}

type NavigatorFunc func(path string, replace bool)

func (f NavigatorFunc) Navigate(path string, replace bool) { f(path, replace) }

type nopNotifier struct{}

func (nopNotifier) Notify(context.Context, Notification) {}

type nopNavigator struct{}

func (nopNavigator) Navigate(string, bool) {}

// reportedError marks an error the user was already notified about.
type reportedError struct{ error }

func (e reportedError) Unwrap() error { return e.error }

// Reported reports whether err was already shown through the Notifier, so
// front ends do not print it twice.
func Reported(err error) bool {
	var r reportedError
	return errors.As(err, &r)
}
