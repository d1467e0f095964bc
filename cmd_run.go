package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"git.0xdad.com/tblyler/meditrackr/notify"
)

var (
	syncInterval time.Duration
	snoozeDelay  time.Duration
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Send Pushover reminders for due doses until interrupted",
	Long: `Schedules a reminder for every timed dose of every user's medications
and sends it through Pushover when it is due, unless the dose was already
marked taken. A reminder is sent once more after --snooze when the dose is
still not taken; --snooze 0 turns that off. Medication changes are picked up
every --sync interval.`,
	RunE: runReminders,
}

func init() {
	runCmd.Flags().DurationVar(&syncInterval, "sync", time.Minute, "How often to reload medications")
	runCmd.Flags().DurationVar(&snoozeDelay, "snooze", notify.DefaultSnooze, "Repeat an unanswered reminder after this long")
}

func runReminders(cmd *cobra.Command, args []string) error {
	token, err := cfg.PushoverAPIToken()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scheduler := notify.NewScheduler(database, notify.NewPushover(token), logger, loc)
	scheduler.SetSnooze(snoozeDelay)

	logger.Info("starting reminders",
		zap.Duration("sync", syncInterval),
		zap.Duration("snooze", snoozeDelay),
		zap.String("timezone", loc.String()),
	)

	if err = scheduler.Run(ctx, syncInterval); err != nil {
		return err
	}

	logger.Info("stopped reminders")
	return nil
}
