package db

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"git.0xdad.com/tblyler/meditrackr/medication"
)

// User information
type User struct {
	ID                   uuid.UUID         `json:"id"`
	Name                 string            `json:"name"`
	Email                string            `json:"email,omitempty"`
	PushoverDeviceTokens map[string]string `json:"pushover_device_tokens"`
	CreatedAt            time.Time         `json:"created_at"`
}

func (u *User) badgerKey() []byte {
	return badgerKeyForUsername(u.Name)
}

func badgerKeyForUsername(username string) []byte {
	return append([]byte("user:"), []byte(username)...)
}

// prefix for every record owned by the user under kind
func userPrefix(kind string, user *User) []byte {
	return []byte(kind + ":" + user.ID.String() + ":")
}

// DB stores users and their per-user records in a Store
type DB struct {
	store Store
	now   func() time.Time
}

// New DB backed by store
func New(store Store) *DB {
	return &DB{store: store, now: time.Now}
}

// Close the underlying store
func (d *DB) Close() error {
	return d.store.Close()
}

// AddUser to the database
func (d *DB) AddUser(user *User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}

	if user.CreatedAt.IsZero() {
		user.CreatedAt = d.now()
	}

	return d.store.Update(func(tx Txn) error {
		key := user.badgerKey()
		if _, err := tx.Get(key); err == nil {
			return fmt.Errorf("user %s: %w", user.Name, ErrExists)
		} else if !errors.Is(err, ErrNotFound) {
			return err
		}

		return setJSON(tx, key, user)
	})
}

// GetUser from the database
func (d *DB) GetUser(username string) (user *User, err error) {
	err = d.store.View(func(tx Txn) error {
		user = &User{}
		if err := getJSON(tx, badgerKeyForUsername(username), user); err != nil {
			return fmt.Errorf("failed to get user value for username %s: %w", username, err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return user, nil
}

// ListUsers from the database
func (d *DB) ListUsers() (users []*User, err error) {
	err = d.store.View(func(tx Txn) error {
		users, err = listJSON[*User](tx, []byte("user:"))
		return err
	})

	return
}

// RemoveUser and every record the user owns
func (d *DB) RemoveUser(user *User) error {
	return d.store.Update(func(tx Txn) error {
		if err := clearUserData(tx, user); err != nil {
			return err
		}

		return tx.Delete(user.badgerKey())
	})
}

func clearUserData(tx Txn, user *User) error {
	for _, kind := range []string{kindMedication, kindPharmacy, kindProvider, kindDailyLog} {
		if err := deletePrefix(tx, userPrefix(kind, user)); err != nil {
			return err
		}
	}

	return tx.Delete(timePeriodsKey(user))
}

// UserData is every record a user owns, as replaced by ReplaceUserData
type UserData struct {
	Medications []*medication.Medication
	Pharmacies  []medication.Pharmacy
	Providers   []medication.Provider
	TimePeriods []medication.TimePeriod
	// DailyLogs keyed by YYYY-MM-DD
	DailyLogs   map[string]medication.DailyLog
}

// Validate every record before anything is written. Records must carry ids.
func (data *UserData) Validate() error {
	for _, m := range data.Medications {
		if m.ID == "" {
			return fmt.Errorf("medication %s has no id", m.Name)
		}

		m.Normalize()
		if err := m.Validate(); err != nil {
			return fmt.Errorf("medication %s: %w", m.Name, err)
		}
	}

	for i := range data.Pharmacies {
		if data.Pharmacies[i].ID == "" {
			return fmt.Errorf("pharmacy %s has no id", data.Pharmacies[i].Name)
		}
	}

	for i := range data.Providers {
		if data.Providers[i].ID == "" {
			return fmt.Errorf("provider %s has no id", data.Providers[i].Name)
		}
	}

	for i := range data.TimePeriods {
		if err := data.TimePeriods[i].Validate(); err != nil {
			return fmt.Errorf("time period %d: %w", data.TimePeriods[i].ID, err)
		}
	}

	for date, log := range data.DailyLogs {
		if _, err := medication.ParseDate(date); err != nil {
			return fmt.Errorf("daily log %q: %w", date, err)
		}

		if err := log.Validate(); err != nil {
			return fmt.Errorf("daily log %s: %w", date, err)
		}
	}

	return nil
}

// ReplaceUserData swaps everything the user owns for data in one transaction.
// Nothing changes when data is invalid or a write fails.
func (d *DB) ReplaceUserData(user *User, data *UserData) error {
	if err := data.Validate(); err != nil {
		return err
	}

	return d.store.Update(func(tx Txn) error {
		if err := clearUserData(tx, user); err != nil {
			return fmt.Errorf("failed to clear existing data: %w", err)
		}

		for _, m := range data.Medications {
			if err := setJSON(tx, medicationKey(user, m.ID), m); err != nil {
				return err
			}
		}

		for _, p := range data.Pharmacies {
			if err := setJSON(tx, pharmacyKey(user, p.ID), p); err != nil {
				return err
			}
		}

		for _, p := range data.Providers {
			if err := setJSON(tx, providerKey(user, p.ID), p); err != nil {
				return err
			}
		}

		if len(data.TimePeriods) > 0 {
			if err := setJSON(tx, timePeriodsKey(user), data.TimePeriods); err != nil {
				return err
			}
		}

		for date, log := range data.DailyLogs {
			day, err := medication.ParseDate(date)
			if err != nil {
				return err
			}

			if err = setJSON(tx, dailyLogKey(user, day), log); err != nil {
				return err
			}
		}

		return nil
	})
}
