package db

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dgraph-io/badger"
)

// Badger db implementation
type Badger struct {
	db       *badger.DB
	cancelGC func()
	wg       sync.WaitGroup
}

// NewBadger creates a new badger instance for the given path
func NewBadger(dbPath string) (*Badger, error) {
	db, err := badger.Open(badger.DefaultOptions(dbPath).WithLogger(nil))
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db at path %s: %w", dbPath, err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	b := &Badger{
		db:       db,
		cancelGC: cancel,
	}

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()

		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				for b.db.RunValueLogGC(0.5) == nil && ctx.Err() == nil {
				}

			case <-ctx.Done():
				return
			}
		}
	}()

	return b, nil
}

// Close the database
func (b *Badger) Close() error {
	b.cancelGC()
	b.wg.Wait()

	return b.db.Close()
}

// View runs fn in a read-only badger transaction
func (b *Badger) View(fn func(tx Txn) error) error {
	return b.db.View(func(tx *badger.Txn) error {
		return fn(badgerTxn{tx: tx})
	})
}

// Update runs fn in a read-write badger transaction
func (b *Badger) Update(fn func(tx Txn) error) error {
	return b.db.Update(func(tx *badger.Txn) error {
		return fn(badgerTxn{tx: tx})
	})
}

type badgerTxn struct {
	tx *badger.Txn
}

func (t badgerTxn) Get(key []byte) ([]byte, error) {
	item, err := t.tx.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("key %s: %w", string(key), ErrNotFound)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get key %s: %w", string(key), err)
	}

	return item.ValueCopy(nil)
}

func (t badgerTxn) Set(key []byte, value []byte) error {
	return t.tx.Set(key, value)
}

func (t badgerTxn) Delete(key []byte) error {
	return t.tx.Delete(key)
}

func (t badgerTxn) Iterate(prefix []byte, fn func(key []byte, value []byte) error) error {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix

	it := t.tx.NewIterator(opts)
	defer it.Close()

	for it.Rewind(); it.Valid(); it.Next() {
		item := it.Item()

		err := item.Value(func(val []byte) error {
			return fn(item.Key(), val)
		})

		if err != nil {
			return err
		}
	}

	return nil
}
