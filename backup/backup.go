// Package backup exports a user's data to a JSON bundle and restores it.
package backup

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"git.0xdad.com/tblyler/meditrackr/db"
	"git.0xdad.com/tblyler/meditrackr/medication"
)

// AppVersion written into every bundle
const AppVersion = "1.0.0"

var (
	// ErrInvalidBundle occurs when a bundle is missing a required list
	ErrInvalidBundle = errors.New("invalid backup bundle")
)

// BundleUser identifies who a bundle was exported for
type BundleUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// Bundle is the flat JSON backup document
type Bundle struct {
	User        BundleUser                     `json:"user"`
	Medications []*medication.Medication       `json:"medications"`
	Pharmacies  []medication.Pharmacy          `json:"pharmacies"`
	Providers   []medication.Provider          `json:"providers"`
	TimePeriods []medication.TimePeriod        `json:"timePeriods"`
	DailyLogs   map[string]medication.DailyLog `json:"dailyLogs"`
	ExportDate  time.Time                      `json:"exportDate"`
	AppVersion  string                         `json:"appVersion"`
}

var requiredLists = []string{"medications", "pharmacies", "providers", "timePeriods"}

// Export everything the user owns
func Export(d *db.DB, user *db.User, now time.Time) (*Bundle, error) {
	b := &Bundle{
		User:       BundleUser{ID: user.ID.String(), Name: user.Name, Email: user.Email},
		ExportDate: now.UTC(),
		AppVersion: AppVersion,
	}

	var err error
	if b.Medications, err = d.ListMedicationsForUser(user); err != nil {
		return nil, fmt.Errorf("failed to export medications: %w", err)
	}

	if b.Pharmacies, err = d.ListPharmacies(user); err != nil {
		return nil, fmt.Errorf("failed to export pharmacies: %w", err)
	}

	if b.Providers, err = d.ListProviders(user); err != nil {
		return nil, fmt.Errorf("failed to export providers: %w", err)
	}

	if b.TimePeriods, err = d.ListTimePeriods(user); err != nil {
		return nil, fmt.Errorf("failed to export time periods: %w", err)
	}

	if b.DailyLogs, err = d.ListDailyLogs(user); err != nil {
		return nil, fmt.Errorf("failed to export daily logs: %w", err)
	}

	b.nonNil()

	return b, nil
}

func (b *Bundle) nonNil() {
	if b.Medications == nil {
		b.Medications = []*medication.Medication{}
	}

	if b.Pharmacies == nil {
		b.Pharmacies = []medication.Pharmacy{}
	}

	if b.Providers == nil {
		b.Providers = []medication.Provider{}
	}

	if b.TimePeriods == nil {
		b.TimePeriods = []medication.TimePeriod{}
	}

	if b.DailyLogs == nil {
		b.DailyLogs = map[string]medication.DailyLog{}
	}
}

// Write the bundle as indented JSON
func Write(w io.Writer, b *Bundle) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	if err := enc.Encode(b); err != nil {
		return fmt.Errorf("failed to write backup: %w", err)
	}

	return nil
}

// Read a bundle, checking that the required lists are present arrays
func Read(r io.Reader) (*Bundle, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read backup: %w", err)
	}

	var fields map[string]json.RawMessage
	if err = json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBundle, err)
	}

	for _, name := range requiredLists {
		raw, ok := fields[name]
		if !ok || !bytes.HasPrefix(bytes.TrimSpace(raw), []byte("[")) {
			return nil, fmt.Errorf("%w: %s must be a list", ErrInvalidBundle, name)
		}
	}

	b := &Bundle{}
	if err = json.Unmarshal(data, b); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBundle, err)
	}

	for _, m := range b.Medications {
		m.Normalize()
	}

	b.nonNil()

	return b, nil
}

// Import replaces the user's data with the bundle's, keeping record ids so
// medications still point at their pharmacy and provider. The bundle is
// checked in full first; a bad bundle leaves the user's data untouched.
func Import(d *db.DB, user *db.User, b *Bundle) error {
	data := &db.UserData{
		Medications: b.Medications,
		Pharmacies:  b.Pharmacies,
		Providers:   b.Providers,
		TimePeriods: b.TimePeriods,
		DailyLogs:   b.DailyLogs,
	}

	for _, m := range data.Medications {
		if m.ID == "" {
			m.ID = medication.NewID()
		}
	}

	for i := range data.Pharmacies {
		if data.Pharmacies[i].ID == "" {
			data.Pharmacies[i].ID = medication.NewID()
		}
	}

	for i := range data.Providers {
		if data.Providers[i].ID == "" {
			data.Providers[i].ID = medication.NewID()
		}
	}

	if len(data.TimePeriods) == 0 {
		data.TimePeriods = medication.DefaultTimePeriods()
	}

	if err := d.ReplaceUserData(user, data); err != nil {
		return fmt.Errorf("failed to import backup: %w", err)
	}

	return nil
}
