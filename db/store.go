package db

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrNotFound occurs when a key or record does not exist
	ErrNotFound = errors.New("not found")
	// ErrExists occurs when adding a record whose key is already taken
	ErrExists = errors.New("already exists")
)

// Store is the key-value storage the DB persists records in
type Store interface {
	// View runs fn in a read-only transaction
	View(fn func(tx Txn) error) error
	// Update runs fn in a read-write transaction, committed only when fn returns nil
	Update(fn func(tx Txn) error) error
	Close() error
}

// Txn is a single Store transaction
type Txn interface {
	// Get returns ErrNotFound for missing keys
	Get(key []byte) ([]byte, error)
	Set(key []byte, value []byte) error
	Delete(key []byte) error
	// Iterate calls fn for every key with prefix in key order
	Iterate(prefix []byte, fn func(key []byte, value []byte) error) error
}

func getJSON(tx Txn, key []byte, v interface{}) error {
	data, err := tx.Get(key)
	if err != nil {
		return err
	}

	return unmarshal(key, data, v)
}

func unmarshal(key []byte, value []byte, v interface{}) error {
	if err := json.Unmarshal(value, v); err != nil {
		return fmt.Errorf("failed to unmarshal value for key %s: %w", string(key), err)
	}

	return nil
}

func setJSON(tx Txn, key []byte, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to JSON marshal value for key %s: %w", string(key), err)
	}

	return tx.Set(key, data)
}

func deletePrefix(tx Txn, prefix []byte) error {
	var keys [][]byte
	err := tx.Iterate(prefix, func(key []byte, _ []byte) error {
		keys = append(keys, append([]byte(nil), key...))
		return nil
	})
	if err != nil {
		return err
	}

	for _, key := range keys {
		if err = tx.Delete(key); err != nil {
			return fmt.Errorf("failed to delete key %s: %w", string(key), err)
		}
	}

	return nil
}

func listJSON[T any](tx Txn, prefix []byte) ([]T, error) {
	var out []T
	err := tx.Iterate(prefix, func(key []byte, value []byte) error {
		var v T
		if err := unmarshal(key, value, &v); err != nil {
			return err
		}

		out = append(out, v)
		return nil
	})

	return out, err
}
