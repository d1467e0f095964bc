package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.0xdad.com/tblyler/meditrackr/medication"
)

func TestBadgerPersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	b, err := NewBadger(dir)
	require.NoError(t, err)

	d := New(b)
	user := &User{Name: "alice", PushoverDeviceTokens: map[string]string{"default": "token"}}
	require.NoError(t, d.AddUser(user))

	m := testMedication()
	require.NoError(t, d.AddMedication(user, m))

	day := medication.MustParseDate("2024-06-15")
	_, err = d.ToggleTaken(user, m.ID, day, "08:00")
	require.NoError(t, err)
	require.NoError(t, d.Close())

	b, err = NewBadger(dir)
	require.NoError(t, err)

	d = New(b)
	defer d.Close()

	got, err := d.GetUser("alice")
	require.NoError(t, err)
	assert.Equal(t, "token", got.PushoverDeviceTokens["default"])

	meds, err := d.ListMedicationsForUser(got)
	require.NoError(t, err)
	require.Len(t, meds, 1)
	assert.True(t, meds[0].IsTaken(day, "08:00"))
}

func TestBadgerTxn(t *testing.T) {
	b, err := NewBadger(t.TempDir())
	require.NoError(t, err)
	defer b.Close()

	require.NoError(t, b.Update(func(tx Txn) error {
		for _, key := range []string{"a:1", "a:2", "b:1"} {
			if err := tx.Set([]byte(key), []byte(key)); err != nil {
				return err
			}
		}

		return nil
	}))

	require.NoError(t, b.View(func(tx Txn) error {
		_, err := tx.Get([]byte("missing"))
		assert.ErrorIs(t, err, ErrNotFound)

		var keys []string
		err = tx.Iterate([]byte("a:"), func(key []byte, _ []byte) error {
			keys = append(keys, string(key))
			return nil
		})
		assert.Equal(t, []string{"a:1", "a:2"}, keys)

		return err
	}))
}

func TestMemoryUpdateRollsBack(t *testing.T) {
	m := NewMemory()

	err := m.Update(func(tx Txn) error {
		require.NoError(t, tx.Set([]byte("k"), []byte("v")))
		return ErrExists
	})
	assert.ErrorIs(t, err, ErrExists)

	require.NoError(t, m.View(func(tx Txn) error {
		_, err := tx.Get([]byte("k"))
		assert.ErrorIs(t, err, ErrNotFound)

		assert.Error(t, tx.Set([]byte("k"), []byte("v")))
		return nil
	}))
}
