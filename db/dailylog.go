package db

import (
	"errors"
	"strings"

	"git.0xdad.com/tblyler/meditrackr/medication"
)

func dailyLogKey(user *User, date medication.Date) []byte {
	return append(userPrefix(kindDailyLog, user), []byte(date.String())...)
}

// GetDailyLog for date, an empty log when nothing was recorded
func (d *DB) GetDailyLog(user *User, date medication.Date) (log medication.DailyLog, err error) {
	err = d.store.View(func(tx Txn) error {
		err := getJSON(tx, dailyLogKey(user, date), &log)
		if errors.Is(err, ErrNotFound) {
			return nil
		}

		return err
	})

	return
}

// UpdateDailyLog clears the named fields of the log for date, then merges the
// set fields of update into it. A log left empty is removed.
func (d *DB) UpdateDailyLog(user *User, date medication.Date, update medication.DailyLog, fields ...string) (log medication.DailyLog, err error) {
	if err = update.Validate(); err != nil {
		return
	}

	if _, err = (medication.DailyLog{}).Without(fields...); err != nil {
		return
	}

	err = d.store.Update(func(tx Txn) error {
		key := dailyLogKey(user, date)

		err := getJSON(tx, key, &log)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return err
		}

		if log, err = log.Without(fields...); err != nil {
			return err
		}

		log = log.Merge(update)
		if log.IsEmpty() {
			return tx.Delete(key)
		}

		return setJSON(tx, key, log)
	})

	return
}

// ListDailyLogs keyed by YYYY-MM-DD
func (d *DB) ListDailyLogs(user *User) (logs map[string]medication.DailyLog, err error) {
	logs = map[string]medication.DailyLog{}
	prefix := userPrefix(kindDailyLog, user)

	err = d.store.View(func(tx Txn) error {
		return tx.Iterate(prefix, func(key []byte, value []byte) error {
			var log medication.DailyLog
			if err := unmarshal(key, value, &log); err != nil {
				return err
			}

			logs[strings.TrimPrefix(string(key), string(prefix))] = log
			return nil
		})
	})

	return
}
