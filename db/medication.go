package db

import (
	"fmt"
	"sort"
	"strings"

	"git.0xdad.com/tblyler/meditrackr/medication"
)

const (
	kindMedication = "medication"
	kindPharmacy   = "pharmacy"
	kindProvider   = "provider"
	kindDailyLog   = "dailylog"
	kindPeriods    = "timeperiods"
)

func medicationKey(user *User, id medication.ID) []byte {
	return append(userPrefix(kindMedication, user), []byte(id)...)
}

// AddMedication validates the medication, assigns it an id and an empty ledger
func (d *DB) AddMedication(user *User, m *medication.Medication) error {
	if err := m.Validate(); err != nil {
		return err
	}

	m.ID = medication.NewID()
	m.TakenLog = medication.Ledger{}
	m.CreatedAt = d.now()

	return d.store.Update(func(tx Txn) error {
		return setJSON(tx, medicationKey(user, m.ID), m)
	})
}

// UpdateMedication replaces every field of the stored medication except its id,
// ledger and creation time
func (d *DB) UpdateMedication(user *User, m *medication.Medication) error {
	if err := m.Validate(); err != nil {
		return err
	}

	return d.store.Update(func(tx Txn) error {
		key := medicationKey(user, m.ID)

		existing := &medication.Medication{}
		if err := getJSON(tx, key, existing); err != nil {
			return fmt.Errorf("failed to get medication %s: %w", m.ID, err)
		}

		m.TakenLog = existing.TakenLog
		m.CreatedAt = existing.CreatedAt
		m.Normalize()

		return setJSON(tx, key, m)
	})
}

// GetMedication by id
func (d *DB) GetMedication(user *User, id medication.ID) (m *medication.Medication, err error) {
	err = d.store.View(func(tx Txn) error {
		m = &medication.Medication{}
		if err := getJSON(tx, medicationKey(user, id), m); err != nil {
			return fmt.Errorf("failed to get medication %s: %w", id, err)
		}

		m.Normalize()
		return nil
	})

	if err != nil {
		return nil, err
	}

	return m, nil
}

// RemoveMedication and its ledger
func (d *DB) RemoveMedication(user *User, id medication.ID) error {
	return d.store.Update(func(tx Txn) error {
		key := medicationKey(user, id)
		if _, err := tx.Get(key); err != nil {
			return fmt.Errorf("failed to remove medication %s: %w", id, err)
		}

		return tx.Delete(key)
	})
}

// ListMedicationsForUser sorted by name
func (d *DB) ListMedicationsForUser(user *User) (medications []*medication.Medication, err error) {
	err = d.store.View(func(tx Txn) error {
		medications, err = listJSON[*medication.Medication](tx, userPrefix(kindMedication, user))
		return err
	})

	if err != nil {
		return nil, err
	}

	for _, m := range medications {
		m.Normalize()
	}

	sort.SliceStable(medications, func(i, j int) bool {
		return strings.ToLower(medications[i].Name) < strings.ToLower(medications[j].Name)
	})

	return medications, nil
}

// FindMedication by id, or failing that by case-insensitive name
func (d *DB) FindMedication(user *User, ref string) (*medication.Medication, error) {
	medications, err := d.ListMedicationsForUser(user)
	if err != nil {
		return nil, err
	}

	for _, m := range medications {
		if string(m.ID) == ref {
			return m, nil
		}
	}

	for _, m := range medications {
		if strings.EqualFold(m.Name, ref) {
			return m, nil
		}
	}

	return nil, fmt.Errorf("medication %s: %w", ref, ErrNotFound)
}

// ToggleTaken flips the dose in the medication's ledger and returns whether it
// is now taken. Unknown medications are left alone and reported as ErrNotFound.
func (d *DB) ToggleTaken(user *User, id medication.ID, date medication.Date, clock string) (taken bool, err error) {
	err = d.store.Update(func(tx Txn) error {
		key := medicationKey(user, id)

		m := &medication.Medication{}
		if err := getJSON(tx, key, m); err != nil {
			return fmt.Errorf("failed to toggle dose for medication %s: %w", id, err)
		}

		taken = m.ToggleTaken(date, clock)

		return setJSON(tx, key, m)
	})

	return
}
