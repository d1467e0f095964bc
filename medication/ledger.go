package medication

import (
	"encoding/json"
	"fmt"
	"sort"
)

// DoseKey identifies one dose in a medication's ledger. Two keys are equal when
// both fields are equal; an empty Time is a distinct, valid key.
type DoseKey struct {
	Date string `json:"date"`
	Time string `json:"time"`
}

// KeyFor builds the ledger key for a dose
func KeyFor(date Date, clock string) DoseKey {
	return DoseKey{Date: date.String(), Time: clock}
}

func (k DoseKey) String() string {
	return k.Date + "-" + k.Time
}

func (k DoseKey) less(o DoseKey) bool {
	if k.Date != o.Date {
		return k.Date < o.Date
	}

	return k.Time < o.Time
}

// Ledger is the set of doses marked taken for a single medication
type Ledger map[DoseKey]struct{}

// NewLedger containing keys
func NewLedger(keys ...DoseKey) Ledger {
	l := make(Ledger, len(keys))
	for _, key := range keys {
		l[key] = struct{}{}
	}

	return l
}

// Has reports whether the dose was marked taken
func (l Ledger) Has(key DoseKey) bool {
	_, ok := l[key]
	return ok
}

// Toggle flips the dose and returns whether it is now taken
func (l Ledger) Toggle(key DoseKey) bool {
	if l.Has(key) {
		delete(l, key)
		return false
	}

	l[key] = struct{}{}
	return true
}

// Len of the ledger
func (l Ledger) Len() int {
	return len(l)
}

// Keys in date then time order
func (l Ledger) Keys() []DoseKey {
	keys := make([]DoseKey, 0, len(l))
	for key := range l {
		keys = append(keys, key)
	}

	sort.Slice(keys, func(i, j int) bool {
		return keys[i].less(keys[j])
	})

	return keys
}

// Clone returns an independent copy
func (l Ledger) Clone() Ledger {
	return NewLedger(l.Keys()...)
}

// MarshalJSON writes a sorted list of {date, time} objects
func (l Ledger) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.Keys())
}

// UnmarshalJSON reads {date, time} objects and the legacy "YYYY-MM-DD-HH:MM"
// strings, where the time part may be empty.
func (l *Ledger) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("taken log must be a list: %w", err)
	}

	ledger := make(Ledger, len(raw))
	for _, item := range raw {
		var key DoseKey

		if len(item) > 0 && item[0] == '"' {
			var legacy string
			if err := json.Unmarshal(item, &legacy); err != nil {
				return err
			}

			key, err := parseLegacyKey(legacy)
			if err != nil {
				return err
			}

			ledger[key] = struct{}{}
			continue
		}

		if err := json.Unmarshal(item, &key); err != nil {
			return fmt.Errorf("invalid taken log entry %s: %w", string(item), err)
		}

		ledger[key] = struct{}{}
	}

	*l = ledger
	return nil
}

func parseLegacyKey(entry string) (DoseKey, error) {
	if len(entry) < len(DateLayout)+1 || entry[len(DateLayout)] != '-' {
		return DoseKey{}, fmt.Errorf("invalid taken log entry %q", entry)
	}

	date := entry[:len(DateLayout)]
	if _, err := ParseDate(date); err != nil {
		return DoseKey{}, fmt.Errorf("invalid taken log entry %q: %w", entry, err)
	}

	return DoseKey{Date: date, Time: entry[len(DateLayout)+1:]}, nil
}
