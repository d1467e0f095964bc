package main

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"time"
	_ "time/tzdata"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"git.0xdad.com/tblyler/meditrackr/config"
	"git.0xdad.com/tblyler/meditrackr/db"
	"git.0xdad.com/tblyler/meditrackr/medication"
)

var (
	configPath string
	verbose    bool
	username   string

	cfg      config.Config
	logger   *zap.Logger
	database *db.DB
	loc      = time.Local

	input io.Reader = os.Stdin
	now             = time.Now
)

var rootCmd = &cobra.Command{
	Use:   "meditrackr",
	Short: "Track medications, doses taken and adherence",
	Long: `meditrackr keeps a per user list of medications and the doses taken.

It shows what is due on a date, how closely the schedule was followed over
a range of dates, and with "run" sends Pushover reminders when doses are due.

Settings come from the environment (BADGER_PATH, PUSHOVER_API_TOKEN,
LOG_LEVEL, MEDITRACKR_TIMEZONE) or from a YAML file passed with --config.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if database != nil {
			if err := database.Close(); err != nil && logger != nil {
				logger.Error("failed to close database", zap.Error(err))
			}

			database = nil
		}

		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func setup(cmd *cobra.Command, args []string) error {
	if configPath != "" {
		f, err := config.LoadFile(configPath)
		if err != nil {
			return err
		}

		cfg = f
	} else {
		cfg = &config.Env{}
	}

	level, err := zapcore.ParseLevel(cfg.LogLevel())
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.LogLevel(), err)
	}

	zapConfig := zap.NewProductionConfig()
	zapConfig.Level = zap.NewAtomicLevelAt(level)
	if verbose {
		zapConfig.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	logger, err = zapConfig.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	loc, err = cfg.Location()
	if err != nil {
		return fmt.Errorf("failed to load timezone: %w", err)
	}

	if database != nil {
		return nil
	}

	badgerPath, err := cfg.BadgerPath()
	if err != nil {
		return err
	}

	b, err := db.NewBadger(badgerPath)
	if err != nil {
		return err
	}

	logger.Debug("opened database", zap.String("path", badgerPath))
	database = db.New(b)

	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file (default: environment variables)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&username, "user", "u", "", "Username (prompted for when not set)")

	rootCmd.AddCommand(userCmd)
	rootCmd.AddCommand(medicationCmd)
	rootCmd.AddCommand(takeCmd)
	rootCmd.AddCommand(scheduleCmd)
	rootCmd.AddCommand(adherenceCmd)
	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(pharmacyCmd)
	rootCmd.AddCommand(providerCmd)
	rootCmd.AddCommand(periodCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var inputScanner *bufio.Scanner

// prompt for a line on stdin, failing on an empty answer
func prompt(cmd *cobra.Command, question string) (string, error) {
	if inputScanner == nil {
		inputScanner = bufio.NewScanner(input)
	}

	fmt.Fprint(cmd.OutOrStdout(), question+": ")
	inputScanner.Scan()

	answer := string(bytes.TrimSpace(inputScanner.Bytes()))
	if answer == "" {
		return "", fmt.Errorf("failed to get %s from STDIN prompt: %v", question, inputScanner.Err())
	}

	return answer, nil
}

// currentUser from --user, prompting when it was not given
func currentUser(cmd *cobra.Command) (*db.User, error) {
	name := username
	if name == "" {
		var err error
		if name, err = prompt(cmd, "username"); err != nil {
			return nil, err
		}
	}

	user, err := database.GetUser(name)
	if err != nil {
		return nil, fmt.Errorf("failed to lookup username %s: %w", name, err)
	}

	return user, nil
}

func today() medication.Date {
	return medication.DateOf(now().In(loc))
}

// dateArg parses a YYYY-MM-DD argument, today when empty
func dateArg(value string) (medication.Date, error) {
	if value == "" || value == "today" {
		return today(), nil
	}

	return medication.ParseDate(value)
}
