package schedule

import (
	"git.0xdad.com/tblyler/meditrackr/medication"
)

// Stats summarize adherence over a date range
type Stats struct {
	TotalScheduled int `json:"totalScheduled"`
	TotalTaken     int `json:"totalTaken"`
	Percentage     int `json:"percentage"`
}

func (s *Stats) add(entries []Entry) {
	for _, entry := range entries {
		if entry.AsNeeded {
			continue
		}

		s.TotalScheduled++
		if entry.Taken {
			s.TotalTaken++
		}
	}
}

func (s *Stats) finish() Stats {
	s.Percentage = Percent(s.TotalTaken, s.TotalScheduled)
	return *s
}

// Percent rounds taken/scheduled*100 half up, 0 when nothing was scheduled
func Percent(taken int, scheduled int) int {
	if scheduled <= 0 {
		return 0
	}

	return (taken*200 + scheduled) / (scheduled * 2)
}

// Dates lists every day from start to end inclusive, nil when end is before start
func Dates(start medication.Date, end medication.Date) []medication.Date {
	if start.IsZero() || end.IsZero() || end.Before(start) {
		return nil
	}

	var out []medication.Date
	for d := start; !d.After(end); d = d.AddDays(1) {
		out = append(out, d)
	}

	return out
}

// Adherence counts scheduled and taken doses for medications between start and
// end inclusive. As-needed doses are never counted.
func Adherence(medications []*medication.Medication, start medication.Date, end medication.Date) Stats {
	var stats Stats
	for _, date := range Dates(start, end) {
		for _, m := range medications {
			stats.add(ForDate(m, date))
		}
	}

	return stats.finish()
}

// AdherenceStrings is Adherence for YYYY-MM-DD strings; malformed input yields zero stats
func AdherenceStrings(medications []*medication.Medication, start string, end string) Stats {
	startDate, err := medication.ParseDate(start)
	if err != nil {
		return Stats{}
	}

	endDate, err := medication.ParseDate(end)
	if err != nil {
		return Stats{}
	}

	return Adherence(medications, startDate, endDate)
}

// MedicationAdherence is Adherence restricted to a single medication
func MedicationAdherence(m *medication.Medication, start medication.Date, end medication.Date) Stats {
	return Adherence([]*medication.Medication{m}, start, end)
}

// Day groups the scheduled doses of one medication on one date
type Day struct {
	Date    medication.Date
	Entries []Entry
}

// History lists the dates between start and end on which m had scheduled doses,
// leaving out as-needed entries, along with per medication stats.
func History(m *medication.Medication, start medication.Date, end medication.Date) ([]Day, Stats) {
	var (
		days  []Day
		stats Stats
	)

	for _, date := range Dates(start, end) {
		var scheduled []Entry
		for _, entry := range ForDate(m, date) {
			if !entry.AsNeeded {
				scheduled = append(scheduled, entry)
			}
		}

		if len(scheduled) == 0 {
			continue
		}

		stats.add(scheduled)
		days = append(days, Day{Date: date, Entries: scheduled})
	}

	return days, stats.finish()
}
