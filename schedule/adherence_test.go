package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.0xdad.com/tblyler/meditrackr/medication"
)

func TestAdherence_Arithmetic(t *testing.T) {
	m := daily("08:00", "20:00")
	start, end := date("2024-06-01"), date("2024-06-10")

	// mark 15 of the 20 doses: both doses on days 1-7, the morning dose on day 8
	taken := 0
	for _, d := range Dates(start, end) {
		for _, clock := range []string{"08:00", "20:00"} {
			if taken < 15 {
				m.ToggleTaken(d, clock)
				taken++
			}
		}
	}

	got := Adherence([]*medication.Medication{m}, start, end)
	assert.Equal(t, Stats{TotalScheduled: 20, TotalTaken: 15, Percentage: 75}, got)
}

func TestAdherence_AsNeededNeverCounted(t *testing.T) {
	prn := daily()
	prn.Frequency = medication.AsNeededFrequency
	prn.Times = []medication.TimeSlot{medication.AsNeeded("Pain", "as needed")}
	prn.ToggleTaken(date("2024-06-02"), "")

	got := Adherence([]*medication.Medication{prn}, date("2024-06-01"), date("2024-06-30"))
	assert.Equal(t, Stats{}, got)

	withDaily := Adherence([]*medication.Medication{prn, daily("08:00")}, date("2024-06-01"), date("2024-06-04"))
	assert.Equal(t, Stats{TotalScheduled: 4}, withDaily)
}

func TestAdherence_Empty(t *testing.T) {
	assert.Equal(t, Stats{}, AdherenceStrings(nil, "2024-01-01", "2024-01-31"))
	assert.Equal(t, Stats{}, AdherenceStrings([]*medication.Medication{daily("08:00")}, "2024-01-31", "2024-01-01"))
	assert.Equal(t, Stats{}, AdherenceStrings([]*medication.Medication{daily("08:00")}, "yesterday", "2024-01-01"))
}

func TestAdherence_RespectsWindowAndWeekdays(t *testing.T) {
	m := daily("08:00")
	m.Frequency = medication.Weekly
	m.WeeklyDays = []int{1, 3}
	m.StartDate = date("2024-06-05")
	m.EndDate = date("2024-06-30")

	// June 2024: Mondays 3,10,17,24 and Wednesdays 5,12,19,26; the 3rd is before start
	got := Adherence([]*medication.Medication{m}, date("2024-06-01"), date("2024-07-15"))
	assert.Equal(t, 7, got.TotalScheduled)
}

func TestPercent(t *testing.T) {
	tests := []struct {
		taken, scheduled, want int
	}{
		{0, 0, 0},
		{1, 2, 50},
		{1, 3, 33},
		{2, 3, 67},
		{1, 8, 13},
		{3, 8, 38},
		{1, 200, 1},
		{1, 201, 0},
		{7, 7, 100},
	}

	for _, test := range tests {
		assert.Equal(t, test.want, Percent(test.taken, test.scheduled), "%d/%d", test.taken, test.scheduled)
	}
}

func TestHistory(t *testing.T) {
	m := daily("08:00")
	m.Frequency = medication.Weekly
	m.WeeklyDays = []int{0}
	m.ToggleTaken(date("2024-06-09"), "08:00")

	days, stats := History(m, date("2024-06-01"), date("2024-06-30"))
	require.Len(t, days, 5)
	assert.Equal(t, "2024-06-02", days[0].Date.String())
	assert.True(t, days[1].Entries[0].Taken)
	assert.Equal(t, Stats{TotalScheduled: 5, TotalTaken: 1, Percentage: 20}, stats)
	assert.Equal(t, stats, MedicationAdherence(m, date("2024-06-01"), date("2024-06-30")))
}

func TestDates(t *testing.T) {
	got := Dates(date("2024-02-27"), date("2024-03-01"))
	require.Len(t, got, 4)
	assert.Equal(t, "2024-02-29", got[2].String())

	assert.Len(t, Dates(date("2024-03-01"), date("2024-03-01")), 1)
	assert.Nil(t, Dates(date("2024-03-02"), date("2024-03-01")))
}
