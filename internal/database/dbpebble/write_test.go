package dbpebble

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertTransferableRejectsDuplicate(t *testing.T) {
	s := newTestStore(t)
	alice := owner(t, "bc1qalice")
	l := transferable(alice, "ordi", 1, 10)

	err := s.Update(func(w *Writer) error {
		require.NoError(t, w.InsertTransferable(alice, &l))
		return w.InsertTransferable(alice, &l)
	})
	assert.ErrorIs(t, err, ErrDuplicateInscription)

	// the failed update was never committed
	require.NoError(t, s.View(func(r *Reader) error {
		logs, err := r.GetTransferable(alice)
		require.NoError(t, err)
		assert.Empty(t, logs)
		return nil
	}))
}

func TestRemoveTransferable(t *testing.T) {
	s := newTestStore(t)
	alice := owner(t, "bc1qalice")
	l1 := transferable(alice, "ordi", 1, 10)
	l2 := transferable(alice, "ordi", 2, 20)
	seed(t, s, func(w *Writer) {
		require.NoError(t, w.InsertTransferable(alice, &l1))
		require.NoError(t, w.InsertTransferable(alice, &l2))
	})

	seed(t, s, func(w *Writer) {
		require.NoError(t, w.RemoveTransferable(alice, "ordi", l1.InscriptionId))
		// unknown id is a no-op
		require.NoError(t, w.RemoveTransferable(alice, "ordi", inscription(9, 9)))

		logs, err := w.Reader().GetTransferableByTick(alice, "ordi")
		require.NoError(t, err)
		assert.Len(t, logs, 1)
	})

	seed(t, s, func(w *Writer) {
		require.NoError(t, w.RemoveTransferable(alice, "ordi", l2.InscriptionId))
	})

	txn := s.BeginSnapshot()
	defer txn.Close()
	tb, err := txn.OpenTable(TableTransferableLog)
	require.NoError(t, err)
	_, ok, err := tb.Get(ScriptTickKey(alice, "ordi"))
	require.NoError(t, err)
	assert.False(t, ok, "empty batch must be deleted")
}

func TestOpenStoreOnDisk(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "pebble")
	s, err := OpenStore(dir)
	require.NoError(t, err)

	alice := owner(t, "bc1qalice")
	b := balance("ordi", 7, 0)
	require.NoError(t, s.Update(func(w *Writer) error {
		return w.UpdateBalance(alice, &b)
	}))
	require.NoError(t, s.Close())

	s, err = OpenStore(dir)
	require.NoError(t, err)
	defer s.Close()
	require.NoError(t, s.View(func(r *Reader) error {
		got, err := r.GetBalance(alice, "ordi")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, b, *got)
		return nil
	}))
}
