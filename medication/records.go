package medication

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidRecord is wrapped by pharmacy, provider, time period and daily log validation
	ErrInvalidRecord = errors.New("invalid record")
)

// Pharmacy a user fills prescriptions at
type Pharmacy struct {
	ID        ID     `json:"id"`
	Name      string `json:"name"`
	Address   string `json:"address"`
	Phone     string `json:"phone"`
	IsDefault bool   `json:"isDefault"`
}

// Validate required pharmacy fields
func (p *Pharmacy) Validate() error {
	return required(
		field{"pharmacy name", p.Name},
		field{"address", p.Address},
		field{"phone number", p.Phone},
	)
}

// Provider prescribing medications
type Provider struct {
	ID        ID     `json:"id"`
	Name      string `json:"name"`
	Specialty string `json:"specialty,omitempty"`
	Address   string `json:"address,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// Validate required provider fields
func (p *Provider) Validate() error {
	return required(field{"provider name", p.Name})
}

type field struct {
	name  string
	value string
}

func required(fields ...field) error {
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return fmt.Errorf("%w: %s is required", ErrInvalidRecord, f.name)
		}
	}

	return nil
}

// TimePeriod is a named time of day preset used to fill time slots
type TimePeriod struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Time     string `json:"time"`
	Color    string `json:"color"`
	IsCustom bool   `json:"isCustom"`
}

// Slot converts the preset into a timed slot
func (p TimePeriod) Slot() TimeSlot {
	return TimeSlot{Kind: SlotTimed, Label: p.Name, Time: p.Time, Custom: p.IsCustom}
}

// Validate the preset's name and clock
func (p *TimePeriod) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: time period name is required", ErrInvalidRecord)
	}

	if _, _, err := ParseClock(p.Time); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}

	return nil
}

// DefaultTimePeriods every user starts with
func DefaultTimePeriods() []TimePeriod {
	return []TimePeriod{
		{ID: 1, Name: "Morning", Time: "08:00", Color: "yellow"},
		{ID: 2, Name: "Midday", Time: "12:00", Color: "orange"},
		{ID: 3, Name: "Afternoon", Time: "15:00", Color: "sky"},
		{ID: 4, Name: "Evening", Time: "18:00", Color: "blue"},
		{ID: 5, Name: "Night", Time: "21:00", Color: "purple"},
		{ID: 6, Name: "Bedtime", Time: "22:00", Color: "violet"},
	}
}

// FindTimePeriod by name
func FindTimePeriod(periods []TimePeriod, name string) (TimePeriod, bool) {
	for _, period := range periods {
		if strings.EqualFold(period.Name, name) {
			return period, true
		}
	}

	return TimePeriod{}, false
}

// MaxLevel is the highest pain or emotion level
const MaxLevel = 4

// DailyLog is a user's pain and mood record for one date
type DailyLog struct {
	Pain     *int   `json:"pain"`
	Emotions *int   `json:"emotions"`
	Symptoms string `json:"symptoms"`
	Notes    string `json:"notes"`
}

// Validate level ranges
func (l *DailyLog) Validate() error {
	for name, level := range map[string]*int{"pain": l.Pain, "emotions": l.Emotions} {
		if level != nil && (*level < 0 || *level > MaxLevel) {
			return fmt.Errorf("%w: %s level %d is out of range 0-%d", ErrInvalidRecord, name, *level, MaxLevel)
		}
	}

	return nil
}

// Merge overlays the set fields of update onto l
func (l DailyLog) Merge(update DailyLog) DailyLog {
	if update.Pain != nil {
		l.Pain = update.Pain
	}

	if update.Emotions != nil {
		l.Emotions = update.Emotions
	}

	if update.Symptoms != "" {
		l.Symptoms = update.Symptoms
	}

	if update.Notes != "" {
		l.Notes = update.Notes
	}

	return l
}

// DailyLogFields that Without can clear
var DailyLogFields = []string{"pain", "emotions", "symptoms", "notes"}

// Without returns l with the named fields unset
func (l DailyLog) Without(fields ...string) (DailyLog, error) {
	for _, name := range fields {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "pain":
			l.Pain = nil
		case "emotions":
			l.Emotions = nil
		case "symptoms":
			l.Symptoms = ""
		case "notes":
			l.Notes = ""
		default:
			return l, fmt.Errorf("%w: unknown daily log field %q, want one of %s", ErrInvalidRecord, name, strings.Join(DailyLogFields, ", "))
		}
	}

	return l, nil
}

// IsEmpty reports whether nothing was logged
func (l DailyLog) IsEmpty() bool {
	return l.Pain == nil && l.Emotions == nil && l.Symptoms == "" && l.Notes == ""
}

// Level is a helper for building DailyLog levels
func Level(n int) *int {
	return &n
}
