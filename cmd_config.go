package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"git.0xdad.com/tblyler/meditrackr/config"
)

var (
	initBadgerPath    string
	initPushoverToken string
	initLogLevel      string
	initTimezone      string
	initForce         bool
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the YAML config file",
	// config commands never touch the database
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger = zap.NewNop()
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a config file for use with --config",
	Long: `Writes a YAML config file from the given flags. An existing file is
only replaced with --force.

Example:
  meditrackr config init ~/.config/meditrackr.yaml \
    --badger-path ~/.local/share/meditrackr --pushover-token TOKEN`,
	Args: cobra.ExactArgs(1),
	RunE: runConfigInit,
}

func init() {
	flags := configInitCmd.Flags()
	flags.StringVar(&initBadgerPath, "badger-path", "", "Database directory")
	flags.StringVar(&initPushoverToken, "pushover-token", "", "Pushover application API token")
	flags.StringVar(&initLogLevel, "log-level", config.DefaultLogLevel, "Log level")
	flags.StringVar(&initTimezone, "timezone", "", "IANA timezone for schedules (default: local)")
	flags.BoolVar(&initForce, "force", false, "Replace an existing file")

	configCmd.AddCommand(configInitCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := args[0]

	if initBadgerPath == "" {
		return errors.New("--badger-path is required")
	}

	if _, err := zapcore.ParseLevel(initLogLevel); err != nil {
		return fmt.Errorf("invalid log level %q: %w", initLogLevel, err)
	}

	if initTimezone != "" {
		if _, err := time.LoadLocation(initTimezone); err != nil {
			return fmt.Errorf("invalid timezone %q: %w", initTimezone, err)
		}
	}

	if !initForce {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists, use --force to replace it", path)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}

	f := &config.File{}
	f.Badger.Path = initBadgerPath
	f.Pushover.APIToken = initPushoverToken
	f.Logging.Level = initLogLevel
	f.Timezone = initTimezone

	if err := f.Save(path); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", path, err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), "wrote", path)
	return nil
}
