package config

import "time"

// Config for application setup
type Config interface {
	BadgerPath() (string, error)
	PushoverAPIToken() (string, error)
	// LogLevel name, info when unset
	LogLevel() string
	// Location reminders and "today" are computed in, time.Local when unset
	Location() (*time.Location, error)
}

// DefaultLogLevel when none is configured
const DefaultLogLevel = "info"

func loadLocation(name string) (*time.Location, error) {
	if name == "" {
		return time.Local, nil
	}

	return time.LoadLocation(name)
}
