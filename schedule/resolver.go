// Package schedule resolves which doses of a medication are due on a date and
// aggregates taken doses into adherence statistics.
package schedule

import (
	"sort"

	"git.0xdad.com/tblyler/meditrackr/medication"
)

// Entry is one due (or as-needed available) dose on a date
type Entry struct {
	Date       medication.Date
	Time       string
	Label      string
	Taken      bool
	AsNeeded   bool
	Medication *medication.Medication
}

// Key returns the ledger key for the entry
func (e Entry) Key() medication.DoseKey {
	return medication.KeyFor(e.Date, e.Time)
}

// ForDate lists the doses of m for date. Inactive dates, weekly medications off
// their days and unknown frequencies all resolve to nothing.
func ForDate(m *medication.Medication, date medication.Date) []Entry {
	if m == nil || !m.IsActiveOn(date) {
		return nil
	}

	switch m.Frequency {
	case medication.AsNeededFrequency:
		return entries(m, date, true)

	case medication.Daily:
		return entries(m, date, false)

	case medication.Weekly:
		if !m.TakesOnWeekday(date.Weekday()) {
			return nil
		}

		return entries(m, date, false)
	}

	return nil
}

// ForDateString is ForDate for a YYYY-MM-DD string; malformed dates resolve to nothing
func ForDateString(m *medication.Medication, date string) []Entry {
	d, err := medication.ParseDate(date)
	if err != nil {
		return nil
	}

	return ForDate(m, d)
}

// ForDay resolves every medication for date, ordered by time then medication name
func ForDay(medications []*medication.Medication, date medication.Date) []Entry {
	var out []Entry
	for _, m := range medications {
		out = append(out, ForDate(m, date)...)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Time != out[j].Time {
			return out[i].Time < out[j].Time
		}

		return out[i].Medication.Name < out[j].Medication.Name
	})

	return out
}

func entries(m *medication.Medication, date medication.Date, asNeeded bool) []Entry {
	out := make([]Entry, 0, len(m.Times))
	for _, slot := range m.Times {
		out = append(out, Entry{
			Date:       date,
			Time:       slot.Time,
			Label:      slot.Label,
			Taken:      m.IsTaken(date, slot.Time),
			AsNeeded:   asNeeded,
			Medication: m,
		})
	}

	return out
}
