package db

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"git.0xdad.com/tblyler/meditrackr/medication"
)

var (
	// ErrLastTimePeriod occurs when removing a user's only time period
	ErrLastTimePeriod = errors.New("cannot remove the last time period")
)

func pharmacyKey(user *User, id medication.ID) []byte {
	return append(userPrefix(kindPharmacy, user), []byte(id)...)
}

func providerKey(user *User, id medication.ID) []byte {
	return append(userPrefix(kindProvider, user), []byte(id)...)
}

func timePeriodsKey(user *User) []byte {
	return []byte(kindPeriods + ":" + user.ID.String())
}

// AddPharmacy with a new id; new pharmacies are never the default
func (d *DB) AddPharmacy(user *User, p *medication.Pharmacy) error {
	if err := p.Validate(); err != nil {
		return err
	}

	p.ID = medication.NewID()
	p.IsDefault = false

	return d.store.Update(func(tx Txn) error {
		return setJSON(tx, pharmacyKey(user, p.ID), p)
	})
}

// UpdatePharmacy keeps the stored default flag
func (d *DB) UpdatePharmacy(user *User, p *medication.Pharmacy) error {
	if err := p.Validate(); err != nil {
		return err
	}

	return d.store.Update(func(tx Txn) error {
		key := pharmacyKey(user, p.ID)

		existing := &medication.Pharmacy{}
		if err := getJSON(tx, key, existing); err != nil {
			return fmt.Errorf("failed to get pharmacy %s: %w", p.ID, err)
		}

		p.IsDefault = existing.IsDefault
		return setJSON(tx, key, p)
	})
}

// RemovePharmacy by id
func (d *DB) RemovePharmacy(user *User, id medication.ID) error {
	return d.store.Update(func(tx Txn) error {
		return removeExisting(tx, pharmacyKey(user, id))
	})
}

// ListPharmacies sorted by name
func (d *DB) ListPharmacies(user *User) (pharmacies []medication.Pharmacy, err error) {
	err = d.store.View(func(tx Txn) error {
		pharmacies, err = listJSON[medication.Pharmacy](tx, userPrefix(kindPharmacy, user))
		return err
	})

	sort.SliceStable(pharmacies, func(i, j int) bool {
		return strings.ToLower(pharmacies[i].Name) < strings.ToLower(pharmacies[j].Name)
	})

	return
}

// SetDefaultPharmacy makes id the only default pharmacy
func (d *DB) SetDefaultPharmacy(user *User, id medication.ID) error {
	return d.store.Update(func(tx Txn) error {
		if _, err := tx.Get(pharmacyKey(user, id)); err != nil {
			return fmt.Errorf("failed to set default pharmacy %s: %w", id, err)
		}

		pharmacies, err := listJSON[medication.Pharmacy](tx, userPrefix(kindPharmacy, user))
		if err != nil {
			return err
		}

		for _, p := range pharmacies {
			p.IsDefault = p.ID == id
			if err := setJSON(tx, pharmacyKey(user, p.ID), p); err != nil {
				return err
			}
		}

		return nil
	})
}

// AddProvider with a new id
func (d *DB) AddProvider(user *User, p *medication.Provider) error {
	if err := p.Validate(); err != nil {
		return err
	}

	p.ID = medication.NewID()

	return d.store.Update(func(tx Txn) error {
		return setJSON(tx, providerKey(user, p.ID), p)
	})
}

// UpdateProvider replaces a stored provider
func (d *DB) UpdateProvider(user *User, p *medication.Provider) error {
	if err := p.Validate(); err != nil {
		return err
	}

	return d.store.Update(func(tx Txn) error {
		key := providerKey(user, p.ID)
		if _, err := tx.Get(key); err != nil {
			return fmt.Errorf("failed to get provider %s: %w", p.ID, err)
		}

		return setJSON(tx, key, p)
	})
}

// RemoveProvider by id
func (d *DB) RemoveProvider(user *User, id medication.ID) error {
	return d.store.Update(func(tx Txn) error {
		return removeExisting(tx, providerKey(user, id))
	})
}

// ListProviders sorted by name
func (d *DB) ListProviders(user *User) (providers []medication.Provider, err error) {
	err = d.store.View(func(tx Txn) error {
		providers, err = listJSON[medication.Provider](tx, userPrefix(kindProvider, user))
		return err
	})

	sort.SliceStable(providers, func(i, j int) bool {
		return strings.ToLower(providers[i].Name) < strings.ToLower(providers[j].Name)
	})

	return
}

func removeExisting(tx Txn, key []byte) error {
	if _, err := tx.Get(key); err != nil {
		return err
	}

	return tx.Delete(key)
}

func listTimePeriods(tx Txn, user *User) ([]medication.TimePeriod, error) {
	var periods []medication.TimePeriod

	err := getJSON(tx, timePeriodsKey(user), &periods)
	if errors.Is(err, ErrNotFound) {
		return medication.DefaultTimePeriods(), nil
	}

	return periods, err
}

// ListTimePeriods for the user, the defaults until the user changes them
func (d *DB) ListTimePeriods(user *User) (periods []medication.TimePeriod, err error) {
	err = d.store.View(func(tx Txn) error {
		periods, err = listTimePeriods(tx, user)
		return err
	})

	return
}

// SetTimePeriods replaces every time period
func (d *DB) SetTimePeriods(user *User, periods []medication.TimePeriod) error {
	for i := range periods {
		if err := periods[i].Validate(); err != nil {
			return err
		}
	}

	return d.store.Update(func(tx Txn) error {
		return setJSON(tx, timePeriodsKey(user), periods)
	})
}

// AddTimePeriod appends a custom 09:00 period with the next free id
func (d *DB) AddTimePeriod(user *User) (period medication.TimePeriod, err error) {
	err = d.store.Update(func(tx Txn) error {
		periods, err := listTimePeriods(tx, user)
		if err != nil {
			return err
		}

		next := 0
		for _, p := range periods {
			if p.ID > next {
				next = p.ID
			}
		}

		period = medication.TimePeriod{ID: next + 1, Name: "Custom", Time: "09:00", Color: "amber", IsCustom: true}

		return setJSON(tx, timePeriodsKey(user), append(periods, period))
	})

	return
}

// UpdateTimePeriod replaces the period with the same id
func (d *DB) UpdateTimePeriod(user *User, period medication.TimePeriod) error {
	if err := period.Validate(); err != nil {
		return err
	}

	return d.store.Update(func(tx Txn) error {
		periods, err := listTimePeriods(tx, user)
		if err != nil {
			return err
		}

		found := false
		for i := range periods {
			if periods[i].ID == period.ID {
				periods[i] = period
				found = true
			}
		}

		if !found {
			return fmt.Errorf("time period %d: %w", period.ID, ErrNotFound)
		}

		return setJSON(tx, timePeriodsKey(user), periods)
	})
}

// RemoveTimePeriod by id, refusing to remove the last one
func (d *DB) RemoveTimePeriod(user *User, id int) error {
	return d.store.Update(func(tx Txn) error {
		periods, err := listTimePeriods(tx, user)
		if err != nil {
			return err
		}

		if len(periods) <= 1 {
			return ErrLastTimePeriod
		}

		kept := periods[:0]
		for _, p := range periods {
			if p.ID != id {
				kept = append(kept, p)
			}
		}

		if len(kept) == len(periods) {
			return fmt.Errorf("time period %d: %w", id, ErrNotFound)
		}

		return setJSON(tx, timePeriodsKey(user), kept)
	})
}
