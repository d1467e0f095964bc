package medication

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Frequency governs which calendar dates a medication is due
type Frequency string

const (
	// Daily medications are due on every active date
	Daily Frequency = "daily"
	// Weekly medications are due on their WeeklyDays
	Weekly Frequency = "weekly"
	// AsNeededFrequency medications are available every active date but never due
	AsNeededFrequency Frequency = "as-needed"
)

// Type of medication
type Type string

const (
	// Prescription medication
	Prescription Type = "rx"
	// OverTheCounter medication
	OverTheCounter Type = "otc"
)

var (
	// ErrInvalidMedication is wrapped by every Validate failure
	ErrInvalidMedication = errors.New("invalid medication")
)

// Medication a user tracks, with its ledger of taken doses
type Medication struct {
	ID          ID         `json:"id"`
	Name        string     `json:"name"`
	GenericName string     `json:"genericName,omitempty"`
	Dosage      string     `json:"dosage"`
	Frequency   Frequency  `json:"frequency"`
	WeeklyDays  []int      `json:"weeklyDays,omitempty"`
	Times       []TimeSlot `json:"times"`
	StartDate   Date       `json:"startDate"`
	EndDate     Date       `json:"endDate"`
	Notes       string     `json:"notes,omitempty"`
	Indication  string     `json:"indication,omitempty"`
	ProviderID  ID         `json:"provider,omitempty"`
	PharmacyID  ID         `json:"pharmacy,omitempty"`
	Type        Type       `json:"type"`
	TakenLog    Ledger     `json:"takenLog"`
	CreatedAt   time.Time  `json:"createdAt"`
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidMedication, fmt.Sprintf(format, args...))
}

// Validate the medication the way the entry form does
func (m *Medication) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return invalid("name is required")
	}

	if strings.TrimSpace(m.Dosage) == "" {
		return invalid("dosage is required")
	}

	switch m.Type {
	case Prescription, OverTheCounter:
	default:
		return invalid("unknown type %q", m.Type)
	}

	if m.StartDate.IsZero() {
		return invalid("start date is required")
	}

	if !m.EndDate.IsZero() && m.EndDate.Before(m.StartDate) {
		return invalid("end date %s is before start date %s", m.EndDate, m.StartDate)
	}

	switch m.Frequency {
	case Daily:
	case Weekly:
		if len(m.WeeklyDays) == 0 {
			return invalid("weekly medications need at least one day of the week")
		}

		for _, day := range m.WeeklyDays {
			if day < 0 || day > 6 {
				return invalid("day of the week %d is out of range 0-6", day)
			}
		}
	case AsNeededFrequency:
		if strings.TrimSpace(m.Notes) == "" && !m.hasInstructions() {
			return invalid("as-needed medications need notes describing when to take them")
		}

		return nil
	default:
		return invalid("unknown frequency %q", m.Frequency)
	}

	if len(m.Times) == 0 {
		return invalid("at least one time to take is required")
	}

	for _, slot := range m.Times {
		if slot.IsAsNeeded() {
			return invalid("%s medications cannot have as-needed time slots", m.Frequency)
		}

		if _, _, err := ParseClock(slot.Time); err != nil {
			return invalid("%v", err)
		}
	}

	return nil
}

func (m *Medication) hasInstructions() bool {
	for _, slot := range m.Times {
		if strings.TrimSpace(slot.Instructions) != "" {
			return true
		}
	}

	return false
}

// IsActiveOn reports whether date falls inside the start and end dates
func (m *Medication) IsActiveOn(date Date) bool {
	if m.StartDate.IsZero() || date.Before(m.StartDate) {
		return false
	}

	return m.EndDate.IsZero() || !date.After(m.EndDate)
}

// TakesOnWeekday reports whether a weekly medication lists the weekday
func (m *Medication) TakesOnWeekday(weekday int) bool {
	for _, day := range m.WeeklyDays {
		if day == weekday {
			return true
		}
	}

	return false
}

// IsTaken reports whether the dose at clock on date was marked taken
func (m *Medication) IsTaken(date Date, clock string) bool {
	return m.TakenLog.Has(KeyFor(date, clock))
}

// ToggleTaken flips the dose and returns whether it is now taken
func (m *Medication) ToggleTaken(date Date, clock string) bool {
	if m.TakenLog == nil {
		m.TakenLog = Ledger{}
	}

	return m.TakenLog.Toggle(KeyFor(date, clock))
}

// Slot finds the time slot for clock
func (m *Medication) Slot(clock string) (TimeSlot, bool) {
	for _, slot := range m.Times {
		if slot.Time == clock {
			return slot, true
		}
	}

	return TimeSlot{}, false
}

// Normalize fills defaults left out by older stored records
func (m *Medication) Normalize() {
	if m.Type == "" {
		m.Type = Prescription
	}

	if m.TakenLog == nil {
		m.TakenLog = Ledger{}
	}

	if m.Frequency == AsNeededFrequency && len(m.Times) == 0 && strings.TrimSpace(m.Notes) != "" {
		m.Times = []TimeSlot{AsNeeded("As needed", m.Notes)}
	}
}
