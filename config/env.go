package config

import (
	"errors"
	"fmt"
	"os"
	"time"
)

const (
	// BadgerPathEnv name
	BadgerPathEnv = "BADGER_PATH"
	// PushoverAPITokenEnv name
	PushoverAPITokenEnv = "PUSHOVER_API_TOKEN"
	// LogLevelEnv name
	LogLevelEnv = "LOG_LEVEL"
	// TimezoneEnv name, an IANA zone such as America/Chicago
	TimezoneEnv = "MEDITRACKR_TIMEZONE"
)

var (
	// ErrEnvVariableNotSet occurs when an environment variable is not set
	ErrEnvVariableNotSet = errors.New("environment variable is not set")
)

// Env variable Config implementation
type Env struct {
}

// BadgerPath for the database directory
func (e *Env) BadgerPath() (string, error) {
	val, ok := os.LookupEnv(BadgerPathEnv)
	if !ok {
		return "", fmt.Errorf(
			"unable to get badger path from env variable %s: %w",
			BadgerPathEnv,
			ErrEnvVariableNotSet,
		)
	}

	return val, nil
}

// PushoverAPIToken getter
func (e *Env) PushoverAPIToken() (string, error) {
	val, ok := os.LookupEnv(PushoverAPITokenEnv)
	if !ok {
		return "", fmt.Errorf(
			"unable to get pushover API token from env variable %s: %w",
			PushoverAPITokenEnv,
			ErrEnvVariableNotSet,
		)
	}

	return val, nil
}

// LogLevel getter
func (e *Env) LogLevel() string {
	if val := os.Getenv(LogLevelEnv); val != "" {
		return val
	}

	return DefaultLogLevel
}

// Location getter
func (e *Env) Location() (*time.Location, error) {
	loc, err := loadLocation(os.Getenv(TimezoneEnv))
	if err != nil {
		return nil, fmt.Errorf("invalid timezone in env variable %s: %w", TimezoneEnv, err)
	}

	return loc, nil
}
