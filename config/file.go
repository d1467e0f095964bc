package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// File is a YAML Config. Environment variables override values from the file.
type File struct {
	Badger struct {
		Path string `yaml:"path"`
	} `yaml:"badger"`

	Pushover struct {
		APIToken string `yaml:"api_token"`
	} `yaml:"pushover"`

	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`

	Timezone string `yaml:"timezone"`

	env Env
}

// LoadFile reads a YAML config from path
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	f := &File{}
	if err = yaml.Unmarshal(data, f); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return f, nil
}

// Save writes the config as YAML to path
func (f *File) Save(path string) error {
	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0600)
}

// BadgerPath for the database directory
func (f *File) BadgerPath() (string, error) {
	if val, err := f.env.BadgerPath(); err == nil {
		return val, nil
	}

	if f.Badger.Path == "" {
		return "", fmt.Errorf("badger path is not set in the config file or %s: %w", BadgerPathEnv, ErrEnvVariableNotSet)
	}

	return f.Badger.Path, nil
}

// PushoverAPIToken getter
func (f *File) PushoverAPIToken() (string, error) {
	if val, err := f.env.PushoverAPIToken(); err == nil {
		return val, nil
	}

	if f.Pushover.APIToken == "" {
		return "", fmt.Errorf("pushover API token is not set in the config file or %s: %w", PushoverAPITokenEnv, ErrEnvVariableNotSet)
	}

	return f.Pushover.APIToken, nil
}

// LogLevel getter
func (f *File) LogLevel() string {
	if val := os.Getenv(LogLevelEnv); val != "" {
		return val
	}

	if f.Logging.Level != "" {
		return f.Logging.Level
	}

	return DefaultLogLevel
}

// Location getter
func (f *File) Location() (*time.Location, error) {
	name := os.Getenv(TimezoneEnv)
	if name == "" {
		name = f.Timezone
	}

	loc, err := loadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", name, err)
	}

	return loc, nil
}
