package schedule

import (
	"sort"

	"git.0xdad.com/tblyler/meditrackr/medication"
)

// Group is every entry sharing a time of day
type Group struct {
	Time    string
	Label   string
	Custom  bool
	Entries []Entry
}

// GroupByTime buckets entries by their time string in time order. The group
// label and custom flag come from the first entry seen for that time.
func GroupByTime(entries []Entry) []Group {
	index := map[string]int{}
	var groups []Group

	for _, entry := range entries {
		i, ok := index[entry.Time]
		if !ok {
			group := Group{Time: entry.Time, Label: entry.Label}
			if slot, found := entry.Medication.Slot(entry.Time); found {
				group.Custom = slot.Custom
			}

			i = len(groups)
			index[entry.Time] = i
			groups = append(groups, group)
		}

		groups[i].Entries = append(groups[i].Entries, entry)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Time < groups[j].Time
	})

	return groups
}

var presetDays = map[string]int{
	"last-week":     7,
	"last-month":    30,
	"last-3-months": 90,
	"last-6-months": 180,
	"last-year":     365,
}

// DefaultPreset is used for unknown preset names
const DefaultPreset = "last-month"

// Preset returns the start and end of a named range ending on today
func Preset(name string, today medication.Date) (medication.Date, medication.Date) {
	days, ok := presetDays[name]
	if !ok {
		days = presetDays[DefaultPreset]
	}

	return today.AddDays(-days), today
}

// PresetNames in ascending range length
func PresetNames() []string {
	return []string{"last-week", "last-month", "last-3-months", "last-6-months", "last-year"}
}
