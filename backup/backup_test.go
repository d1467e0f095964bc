package backup

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.0xdad.com/tblyler/meditrackr/db"
	"git.0xdad.com/tblyler/meditrackr/medication"
)

var exportedAt = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func newUser(t *testing.T, d *db.DB, name string) *db.User {
	t.Helper()

	user := &db.User{Name: name}
	require.NoError(t, d.AddUser(user))

	return user
}

func seed(t *testing.T, d *db.DB, user *db.User) *medication.Medication {
	t.Helper()

	pharmacy := &medication.Pharmacy{Name: "Corner Drug", Address: "1 Main St", Phone: "555-0100"}
	require.NoError(t, d.AddPharmacy(user, pharmacy))
	require.NoError(t, d.SetDefaultPharmacy(user, pharmacy.ID))

	provider := &medication.Provider{Name: "Dr. Ruiz", Specialty: "Cardiology", Address: "2 Oak Ave", Phone: "555-0101"}
	require.NoError(t, d.AddProvider(user, provider))

	m := &medication.Medication{
		Name:       "Eliquis",
		Dosage:     "5mg",
		Frequency:  medication.Daily,
		Times:      []medication.TimeSlot{medication.Timed("Morning", "08:00"), medication.Timed("Evening", "20:00")},
		StartDate:  medication.MustParseDate("2024-06-01"),
		Type:       medication.Prescription,
		PharmacyID: pharmacy.ID,
		ProviderID: provider.ID,
	}
	require.NoError(t, d.AddMedication(user, m))

	_, err := d.ToggleTaken(user, m.ID, medication.MustParseDate("2024-06-10"), "08:00")
	require.NoError(t, err)

	_, err = d.UpdateDailyLog(user, medication.MustParseDate("2024-06-10"), medication.DailyLog{Pain: medication.Level(2), Notes: "tired"})
	require.NoError(t, err)

	return m
}

func TestExportImportRoundTrip(t *testing.T) {
	d := db.New(db.NewMemory())
	alice := newUser(t, d, "alice")
	original := seed(t, d, alice)

	b, err := Export(d, alice, exportedAt)
	require.NoError(t, err)
	assert.Equal(t, AppVersion, b.AppVersion)
	assert.Equal(t, "alice", b.User.Name)
	require.Len(t, b.Medications, 1)

	buf := &bytes.Buffer{}
	require.NoError(t, Write(buf, b))

	read, err := Read(buf)
	require.NoError(t, err)

	bob := newUser(t, d, "bob")
	require.NoError(t, Import(d, bob, read))

	meds, err := d.ListMedicationsForUser(bob)
	require.NoError(t, err)
	require.Len(t, meds, 1)

	got := meds[0]
	assert.Equal(t, original.ID, got.ID)
	assert.Equal(t, original.PharmacyID, got.PharmacyID)
	assert.Equal(t, original.ProviderID, got.ProviderID)
	assert.True(t, got.IsTaken(medication.MustParseDate("2024-06-10"), "08:00"))
	assert.False(t, got.IsTaken(medication.MustParseDate("2024-06-10"), "20:00"))

	pharmacies, err := d.ListPharmacies(bob)
	require.NoError(t, err)
	require.Len(t, pharmacies, 1)
	assert.True(t, pharmacies[0].IsDefault)
	assert.Equal(t, original.PharmacyID, pharmacies[0].ID)

	providers, err := d.ListProviders(bob)
	require.NoError(t, err)
	require.Len(t, providers, 1)

	periods, err := d.ListTimePeriods(bob)
	require.NoError(t, err)
	assert.Equal(t, medication.DefaultTimePeriods(), periods)

	log, err := d.GetDailyLog(bob, medication.MustParseDate("2024-06-10"))
	require.NoError(t, err)
	require.NotNil(t, log.Pain)
	assert.Equal(t, 2, *log.Pain)
	assert.Equal(t, "tired", log.Notes)
}

func TestImportReplacesExistingData(t *testing.T) {
	d := db.New(db.NewMemory())
	alice := newUser(t, d, "alice")
	seed(t, d, alice)

	empty := &Bundle{}
	empty.nonNil()

	require.NoError(t, Import(d, alice, empty))

	meds, err := d.ListMedicationsForUser(alice)
	require.NoError(t, err)
	assert.Empty(t, meds)

	pharmacies, err := d.ListPharmacies(alice)
	require.NoError(t, err)
	assert.Empty(t, pharmacies)

	logs, err := d.ListDailyLogs(alice)
	require.NoError(t, err)
	assert.Empty(t, logs)

	periods, err := d.ListTimePeriods(alice)
	require.NoError(t, err)
	assert.Len(t, periods, len(medication.DefaultTimePeriods()), "no periods in the bundle means the defaults")
}

func TestFailedImportKeepsExistingData(t *testing.T) {
	for name, doc := range map[string]string{
		"bad time period": `{"medications": [], "pharmacies": [], "providers": [],
			"timePeriods": [{"id": 1, "name": "Morning", "time": "8am"}]}`,
		"bad daily log date": `{"medications": [], "pharmacies": [], "providers": [], "timePeriods": [],
			"dailyLogs": {"June 2nd": {"pain": 1}}}`,
		"pain out of range": `{"medications": [], "pharmacies": [], "providers": [], "timePeriods": [],
			"dailyLogs": {"2024-06-02": {"pain": 9}}}`,
		"medication without dosage": `{"pharmacies": [], "providers": [], "timePeriods": [],
			"medications": [{"id": "x", "name": "Metformin", "frequency": "daily", "times": ["08:00"], "startDate": "2024-06-01"}]}`,
	} {
		t.Run(name, func(t *testing.T) {
			d := db.New(db.NewMemory())
			alice := newUser(t, d, "alice")
			original := seed(t, d, alice)

			b, err := Read(strings.NewReader(doc))
			require.NoError(t, err)

			assert.Error(t, Import(d, alice, b))

			meds, err := d.ListMedicationsForUser(alice)
			require.NoError(t, err)
			require.Len(t, meds, 1)
			assert.Equal(t, original.ID, meds[0].ID)
			assert.True(t, meds[0].IsTaken(medication.MustParseDate("2024-06-10"), "08:00"))

			pharmacies, err := d.ListPharmacies(alice)
			require.NoError(t, err)
			assert.Len(t, pharmacies, 1)

			providers, err := d.ListProviders(alice)
			require.NoError(t, err)
			assert.Len(t, providers, 1)

			logs, err := d.ListDailyLogs(alice)
			require.NoError(t, err)
			assert.Contains(t, logs, "2024-06-10")
		})
	}
}

func TestReadRejectsMissingLists(t *testing.T) {
	for name, doc := range map[string]string{
		"not json":            `{`,
		"missing medications": `{"pharmacies": [], "providers": [], "timePeriods": []}`,
		"medications object":  `{"medications": {}, "pharmacies": [], "providers": [], "timePeriods": []}`,
		"providers null":      `{"medications": [], "pharmacies": [], "providers": null, "timePeriods": []}`,
		"missing timePeriods": `{"medications": [], "pharmacies": [], "providers": []}`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Read(strings.NewReader(doc))
			assert.ErrorIs(t, err, ErrInvalidBundle)
		})
	}
}

func TestReadLegacyShapes(t *testing.T) {
	doc := `{
		"user": {"id": "1", "name": "alice"},
		"medications": [
			{
				"id": 1712345678901,
				"name": "Metformin",
				"dosage": "500mg",
				"frequency": "daily",
				"times": ["08:00", {"label": "Evening", "time": "18:00", "isCustom": false}],
				"startDate": "2024-06-01T00:00:00.000Z",
				"endDate": "",
				"takenLog": ["2024-06-02-08:00", "2024-06-02-18:00"]
			},
			{
				"id": "tylenol",
				"name": "Tylenol",
				"dosage": "500mg",
				"frequency": "as-needed",
				"times": [],
				"notes": "for headaches",
				"startDate": "2024-06-01",
				"type": "otc"
			}
		],
		"pharmacies": [],
		"providers": [],
		"timePeriods": [],
		"dailyLogs": {"2024-06-02": {"pain": 1}}
	}`

	b, err := Read(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, b.Medications, 2)

	metformin := b.Medications[0]
	assert.Equal(t, medication.ID("1712345678901"), metformin.ID)
	assert.Equal(t, medication.Prescription, metformin.Type, "missing type defaults to prescription")
	assert.Equal(t, "2024-06-01", metformin.StartDate.String())
	assert.True(t, metformin.EndDate.IsZero())
	require.Len(t, metformin.Times, 2)
	assert.Equal(t, "08:00", metformin.Times[0].Time)
	assert.Equal(t, "Evening", metformin.Times[1].Label)
	assert.Equal(t, 2, metformin.TakenLog.Len())

	tylenol := b.Medications[1]
	require.Len(t, tylenol.Times, 1)
	assert.True(t, tylenol.Times[0].IsAsNeeded())

	d := db.New(db.NewMemory())
	alice := newUser(t, d, "alice")
	require.NoError(t, Import(d, alice, b))

	m, err := d.GetMedication(alice, "1712345678901")
	require.NoError(t, err)
	assert.True(t, m.IsTaken(medication.MustParseDate("2024-06-02"), "18:00"))
}
