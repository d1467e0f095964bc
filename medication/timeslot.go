package medication

import (
	"encoding/json"
	"fmt"
)

// SlotKind tags the TimeSlot variant
type SlotKind string

const (
	// SlotTimed is a dose at a fixed time of day
	SlotTimed SlotKind = "timed"
	// SlotAsNeeded is an instruction for a dose taken only when needed
	SlotAsNeeded SlotKind = "as-needed"
)

// TimeSlot is one moment in a day a medication may be taken.
//
// Timed slots carry an HH:MM Time. As-needed slots carry Instructions and may
// leave Time empty; the empty string is still used as the ledger key for them.
type TimeSlot struct {
	Kind         SlotKind
	Label        string
	Time         string
	Custom       bool
	Instructions string
}

// Timed slot at clock (HH:MM)
func Timed(label string, clock string) TimeSlot {
	return TimeSlot{Kind: SlotTimed, Label: label, Time: clock}
}

// CustomTimed slot that was not picked from a time period preset
func CustomTimed(clock string) TimeSlot {
	return TimeSlot{Kind: SlotTimed, Label: "Custom", Time: clock, Custom: true}
}

// AsNeeded slot with free text instructions
func AsNeeded(label string, instructions string) TimeSlot {
	return TimeSlot{Kind: SlotAsNeeded, Label: label, Instructions: instructions}
}

// IsAsNeeded reports whether the slot is an as-needed instruction
func (s TimeSlot) IsAsNeeded() bool {
	return s.Kind == SlotAsNeeded
}

// Display name for the slot, falling back to its time
func (s TimeSlot) Display() string {
	if s.Label != "" {
		return s.Label
	}

	return s.Time
}

type timeSlotJSON struct {
	Label        string `json:"label,omitempty"`
	Time         string `json:"time"`
	IsCustom     bool   `json:"isCustom"`
	AsNeeded     bool   `json:"asNeeded,omitempty"`
	Instructions string `json:"instructions,omitempty"`
}

// MarshalJSON always writes the canonical object form
func (s TimeSlot) MarshalJSON() ([]byte, error) {
	return json.Marshal(timeSlotJSON{
		Label:        s.Label,
		Time:         s.Time,
		IsCustom:     s.Custom,
		AsNeeded:     s.IsAsNeeded(),
		Instructions: s.Instructions,
	})
}

// UnmarshalJSON reads a bare "HH:MM" string or any of the object shapes that
// have been stored over time.
func (s *TimeSlot) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var clock string
		if err := json.Unmarshal(data, &clock); err != nil {
			return err
		}

		*s = TimeSlot{Kind: SlotTimed, Time: clock}
		return nil
	}

	var raw timeSlotJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("time slot must be a string or object: %w", err)
	}

	kind := SlotTimed
	if raw.AsNeeded || raw.Instructions != "" {
		kind = SlotAsNeeded
	}

	*s = TimeSlot{
		Kind:         kind,
		Label:        raw.Label,
		Time:         raw.Time,
		Custom:       raw.IsCustom,
		Instructions: raw.Instructions,
	}

	return nil
}
