package medication

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDaily() *Medication {
	return &Medication{
		Name:      "Lipitor",
		Dosage:    "10mg",
		Frequency: Daily,
		Times:     []TimeSlot{Timed("Morning", "08:00")},
		StartDate: MustParseDate("2024-01-01"),
		Type:      Prescription,
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(m *Medication)
		wantErr bool
	}{
		{name: "valid daily", mutate: func(m *Medication) {}},
		{name: "missing name", mutate: func(m *Medication) { m.Name = " " }, wantErr: true},
		{name: "missing dosage", mutate: func(m *Medication) { m.Dosage = "" }, wantErr: true},
		{name: "unknown frequency", mutate: func(m *Medication) { m.Frequency = "hourly" }, wantErr: true},
		{name: "unknown type", mutate: func(m *Medication) { m.Type = "herbal" }, wantErr: true},
		{name: "missing start date", mutate: func(m *Medication) { m.StartDate = Date{} }, wantErr: true},
		{
			name:    "end before start",
			mutate:  func(m *Medication) { m.EndDate = MustParseDate("2023-12-31") },
			wantErr: true,
		},
		{name: "end equals start", mutate: func(m *Medication) { m.EndDate = m.StartDate }},
		{name: "no times", mutate: func(m *Medication) { m.Times = nil }, wantErr: true},
		{
			name:    "bad clock",
			mutate:  func(m *Medication) { m.Times = []TimeSlot{Timed("Morning", "8am")} },
			wantErr: true,
		},
		{
			name:    "weekly without days",
			mutate:  func(m *Medication) { m.Frequency = Weekly },
			wantErr: true,
		},
		{
			name: "weekly day out of range",
			mutate: func(m *Medication) {
				m.Frequency = Weekly
				m.WeeklyDays = []int{7}
			},
			wantErr: true,
		},
		{
			name: "weekly with days",
			mutate: func(m *Medication) {
				m.Frequency = Weekly
				m.WeeklyDays = []int{1, 3}
			},
		},
		{
			name: "as-needed without notes",
			mutate: func(m *Medication) {
				m.Frequency = AsNeededFrequency
				m.Times = nil
			},
			wantErr: true,
		},
		{
			name: "as-needed with instructions",
			mutate: func(m *Medication) {
				m.Frequency = AsNeededFrequency
				m.Times = []TimeSlot{AsNeeded("Pain", "every 6 hours if needed")}
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			m := validDaily()
			test.mutate(m)

			err := m.Validate()
			if test.wantErr {
				assert.ErrorIs(t, err, ErrInvalidMedication)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestIsActiveOn(t *testing.T) {
	m := validDaily()
	m.StartDate = MustParseDate("2024-03-01")
	m.EndDate = MustParseDate("2024-03-10")

	assert.False(t, m.IsActiveOn(MustParseDate("2024-02-28")))
	assert.True(t, m.IsActiveOn(MustParseDate("2024-03-01")))
	assert.True(t, m.IsActiveOn(MustParseDate("2024-03-10")))
	assert.False(t, m.IsActiveOn(MustParseDate("2024-03-15")))

	m.EndDate = Date{}
	assert.True(t, m.IsActiveOn(MustParseDate("2030-01-01")))
}

func TestToggleTaken(t *testing.T) {
	m := validDaily()
	day := MustParseDate("2024-06-15")

	assert.False(t, m.IsTaken(day, "08:00"))
	assert.True(t, m.ToggleTaken(day, "08:00"))
	assert.True(t, m.IsTaken(day, "08:00"))
	assert.False(t, m.ToggleTaken(day, "08:00"))
	assert.False(t, m.IsTaken(day, "08:00"))
}

func TestMedicationJSONLegacyShapes(t *testing.T) {
	raw := `{
		"id": 1718000000000,
		"name": "Advil",
		"dosage": "200mg",
		"frequency": "daily",
		"times": ["08:00", {"label": "Evening", "time": "18:00", "isCustom": false}],
		"startDate": "2024-01-01T00:00:00.000Z",
		"endDate": "",
		"takenLog": ["2024-01-02-08:00", "2024-01-02-18:00"]
	}`

	var m Medication
	require.NoError(t, json.Unmarshal([]byte(raw), &m))
	m.Normalize()

	assert.Equal(t, ID("1718000000000"), m.ID)
	assert.Equal(t, Prescription, m.Type)
	assert.Equal(t, "2024-01-01", m.StartDate.String())
	assert.True(t, m.EndDate.IsZero())
	require.Len(t, m.Times, 2)
	assert.Equal(t, TimeSlot{Kind: SlotTimed, Time: "08:00"}, m.Times[0])
	assert.Equal(t, Timed("Evening", "18:00"), m.Times[1])
	assert.True(t, m.IsTaken(MustParseDate("2024-01-02"), "18:00"))
	assert.NoError(t, m.Validate())

	data, err := json.Marshal(&m)
	require.NoError(t, err)

	var again Medication
	require.NoError(t, json.Unmarshal(data, &again))
	assert.Equal(t, m.TakenLog, again.TakenLog)
	assert.Equal(t, m.Times, again.Times)
}

func TestNormalizeAsNeededNotes(t *testing.T) {
	m := Medication{Frequency: AsNeededFrequency, Notes: "for headaches"}
	m.Normalize()

	require.Len(t, m.Times, 1)
	assert.True(t, m.Times[0].IsAsNeeded())
	assert.Equal(t, "", m.Times[0].Time)
}
