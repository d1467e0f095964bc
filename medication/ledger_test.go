package medication

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerToggleTwiceRestores(t *testing.T) {
	keys := []DoseKey{
		{Date: "2024-01-01", Time: "08:00"},
		{Date: "2024-01-01", Time: ""},
		{Date: "2024-12-31", Time: "23:59"},
	}

	for _, key := range keys {
		l := NewLedger()
		before := l.Has(key)

		l.Toggle(key)
		assert.NotEqual(t, before, l.Has(key), "one toggle flips %v", key)

		l.Toggle(key)
		assert.Equal(t, before, l.Has(key), "two toggles restore %v", key)
	}
}

func TestLedgerEmptyTimeIsDistinct(t *testing.T) {
	l := NewLedger(DoseKey{Date: "2024-01-01", Time: ""})

	assert.True(t, l.Has(DoseKey{Date: "2024-01-01"}))
	assert.False(t, l.Has(DoseKey{Date: "2024-01-01", Time: "08:00"}))
	assert.False(t, l.Has(DoseKey{Date: "2024-01-02"}))
}

func TestLedgerJSON(t *testing.T) {
	l := NewLedger(
		DoseKey{Date: "2024-01-02", Time: "08:00"},
		DoseKey{Date: "2024-01-01", Time: "18:00"},
		DoseKey{Date: "2024-01-01", Time: ""},
	)

	data, err := json.Marshal(l)
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"date": "2024-01-01", "time": ""},
		{"date": "2024-01-01", "time": "18:00"},
		{"date": "2024-01-02", "time": "08:00"}
	]`, string(data))

	var decoded Ledger
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, l, decoded)
}

func TestLedgerLegacyStrings(t *testing.T) {
	var l Ledger
	require.NoError(t, json.Unmarshal([]byte(`["2024-01-01-08:00", "2024-01-01-"]`), &l))

	assert.Equal(t, 2, l.Len())
	assert.True(t, l.Has(DoseKey{Date: "2024-01-01", Time: "08:00"}))
	assert.True(t, l.Has(DoseKey{Date: "2024-01-01", Time: ""}))

	assert.Error(t, json.Unmarshal([]byte(`["garbage"]`), &l))
}

func TestLedgerClone(t *testing.T) {
	l := NewLedger(DoseKey{Date: "2024-01-01", Time: "08:00"})
	c := l.Clone()
	c.Toggle(DoseKey{Date: "2024-01-01", Time: "08:00"})

	assert.Equal(t, 1, l.Len())
	assert.Equal(t, 0, c.Len())
}

func TestTimeSlotJSON(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want TimeSlot
	}{
		{name: "bare string", raw: `"09:30"`, want: TimeSlot{Kind: SlotTimed, Time: "09:30"}},
		{
			name: "preset object",
			raw:  `{"label": "Morning", "time": "08:00", "isCustom": false}`,
			want: Timed("Morning", "08:00"),
		},
		{
			name: "custom object",
			raw:  `{"label": "Custom", "time": "09:00", "isCustom": true}`,
			want: CustomTimed("09:00"),
		},
		{
			name: "as-needed object",
			raw:  `{"label": "Pain", "time": "", "asNeeded": true, "instructions": "max 3 a day"}`,
			want: AsNeeded("Pain", "max 3 a day"),
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var got TimeSlot
			require.NoError(t, json.Unmarshal([]byte(test.raw), &got))
			assert.Equal(t, test.want, got)
		})
	}
}
