// Package notify sends dose reminders for scheduled medications.
package notify

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/gregdel/pushover"

	"git.0xdad.com/tblyler/meditrackr/db"
	"git.0xdad.com/tblyler/meditrackr/medication"
)

var (
	// ErrNoDevices occurs when a user has no pushover device tokens
	ErrNoDevices = errors.New("user has no pushover devices")
)

// Reminder for one dose
type Reminder struct {
	User       *db.User
	Medication *medication.Medication
	Slot       medication.TimeSlot
	Date       medication.Date
	Snoozed    bool
}

// Title of the reminder message
func (r Reminder) Title() string {
	return fmt.Sprintf("Time for %s!", r.Medication.Name)
}

// Body of the reminder message
func (r Reminder) Body() string {
	return fmt.Sprintf("%s - %s", r.Medication.Dosage, r.Slot.Display())
}

// Notifier delivers reminders
type Notifier interface {
	Notify(ctx context.Context, reminder Reminder) error
}

// Pushover delivers reminders to every pushover device of the user
type Pushover struct {
	app *pushover.Pushover
}

// NewPushover notifier using the application API token
func NewPushover(apiToken string) *Pushover {
	return &Pushover{app: pushover.New(apiToken)}
}

// Notify sends the reminder to each of the user's devices
func (p *Pushover) Notify(ctx context.Context, reminder Reminder) error {
	devices := reminder.User.PushoverDeviceTokens
	if len(devices) == 0 {
		return fmt.Errorf("failed to notify %s: %w", reminder.User.Name, ErrNoDevices)
	}

	names := make([]string, 0, len(devices))
	for name := range devices {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return err
		}

		message := pushover.NewMessageWithTitle(reminder.Body(), reminder.Title())
		if reminder.Snoozed {
			message.Title += " (snoozed)"
		}

		_, err := p.app.SendMessage(message, pushover.NewRecipient(devices[name]))
		if err != nil {
			return fmt.Errorf("failed to send pushover message to %s device %s: %w", reminder.User.Name, name, err)
		}
	}

	return nil
}
