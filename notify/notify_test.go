package notify

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"git.0xdad.com/tblyler/meditrackr/db"
	"git.0xdad.com/tblyler/meditrackr/medication"
)

func TestReminderText(t *testing.T) {
	r := Reminder{
		Medication: &medication.Medication{Name: "Eliquis", Dosage: "5mg"},
		Slot:       medication.TimeSlot{Kind: medication.SlotTimed, Time: "21:00"},
	}

	assert.Equal(t, "Time for Eliquis!", r.Title())
	assert.Equal(t, "5mg - 21:00", r.Body(), "falls back to the time without a label")
}

func TestPushoverRequiresDevices(t *testing.T) {
	p := NewPushover("app-token")

	err := p.Notify(context.Background(), Reminder{
		User:       &db.User{Name: "alice"},
		Medication: &medication.Medication{Name: "Eliquis", Dosage: "5mg"},
	})
	assert.ErrorIs(t, err, ErrNoDevices)
}
