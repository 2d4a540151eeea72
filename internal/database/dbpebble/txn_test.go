package dbpebble

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/pebble"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenTableUnknown(t *testing.T) {
	s := newTestStore(t)
	for _, txn := range []*Txn{s.BeginSnapshot(), s.BeginInProgress()} {
		_, err := txn.OpenTable("BRC20_NOPE")
		var tableErr *TableError
		require.True(t, errors.As(err, &tableErr), "%s: %v", txn.Kind(), err)
		assert.Equal(t, "BRC20_NOPE", tableErr.Table)
		assert.ErrorIs(t, err, ErrUnknownTable)
		require.NoError(t, txn.Close())
	}
}

func TestOpenTableMissingFromCatalog(t *testing.T) {
	db, err := pebble.Open("", &pebble.Options{FS: newMemFS()})
	require.NoError(t, err)
	defer db.Close()
	s := NewStore(db)

	snap := s.BeginSnapshot()
	defer snap.Close()
	_, err = snap.OpenTable(TableBalances)
	assert.ErrorIs(t, err, ErrTableMissing)

	require.NoError(t, s.EnsureTables())
	// the old snapshot still predates the catalog
	_, err = snap.OpenTable(TableBalances)
	assert.ErrorIs(t, err, ErrTableMissing)

	fresh := s.BeginSnapshot()
	defer fresh.Close()
	_, err = fresh.OpenTable(TableBalances)
	assert.NoError(t, err)

	// a second call is a no-op
	require.NoError(t, s.EnsureTables())
}

func TestOpenTableAfterClose(t *testing.T) {
	s := newTestStore(t)
	txn := s.BeginSnapshot()
	tb, err := txn.OpenTable(TableToken)
	require.NoError(t, err)
	require.NoError(t, txn.Close())
	require.NoError(t, txn.Close())

	_, err = txn.OpenTable(TableToken)
	var tableErr *TableError
	assert.True(t, errors.As(err, &tableErr))
	assert.ErrorIs(t, err, ErrTxnClosed)

	_, _, err = tb.Get([]byte("6f726469"))
	var storageErr *StorageError
	assert.True(t, errors.As(err, &storageErr))
	assert.ErrorIs(t, err, ErrTxnClosed)

	_, err = tb.Range(nil, nil)
	assert.ErrorIs(t, err, ErrTxnClosed)
}

func TestRangeIterAfterClose(t *testing.T) {
	s := newTestStore(t)
	seed(t, s, func(w *Writer) {
		require.NoError(t, w.PutRaw(TableToken, []byte("a"), []byte{1}))
		require.NoError(t, w.PutRaw(TableToken, []byte("b"), []byte{2}))
	})

	txn := s.BeginSnapshot()
	tb, err := txn.OpenTable(TableToken)
	require.NoError(t, err)
	it, err := tb.Range(nil, nil)
	require.NoError(t, err)
	require.True(t, it.Next())
	assert.Equal(t, []byte("a"), it.Key())

	require.NoError(t, txn.Close())
	assert.False(t, it.Next())
	assert.ErrorIs(t, it.Err(), ErrTxnClosed)
	assert.ErrorIs(t, it.Close(), ErrTxnClosed)
}

func TestTableGetAndRange(t *testing.T) {
	s := newTestStore(t)
	seed(t, s, func(w *Writer) {
		for _, k := range []string{"a", "b", "c", "d"} {
			require.NoError(t, w.PutRaw(TableEvents, []byte(k), []byte("v"+k)))
		}
		// neighbours in other tables must not leak into the scan
		require.NoError(t, w.PutRaw(TableToken, []byte("b"), []byte("token")))
		require.NoError(t, w.PutRaw(TableTransferableLog, []byte("a"), []byte("log")))
	})

	for _, txn := range []*Txn{s.BeginSnapshot(), s.BeginInProgress()} {
		tb, err := txn.OpenTable(TableEvents)
		require.NoError(t, err)

		val, ok, err := tb.Get([]byte("b"))
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, []byte("vb"), val)

		val, ok, err = tb.Get([]byte("zz"))
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Nil(t, val)

		assert.Equal(t, []string{"a", "b", "c", "d"}, collectKeys(t, tb, nil, nil), txn.Kind().String())
		assert.Equal(t, []string{"b", "c"}, collectKeys(t, tb, []byte("b"), []byte("d")), txn.Kind().String())
		assert.Empty(t, collectKeys(t, tb, []byte("x"), nil))
		require.NoError(t, txn.Close())
	}
}

func collectKeys(t *testing.T, tb *Table, lower, upper []byte) []string {
	t.Helper()
	it, err := tb.Range(lower, upper)
	require.NoError(t, err)
	defer it.Close()
	var keys []string
	for it.Next() {
		keys = append(keys, string(it.Key()))
	}
	require.NoError(t, it.Err())
	return keys
}

func TestInProgressSeesOwnWrites(t *testing.T) {
	s := newTestStore(t)
	before := s.BeginSnapshot()
	defer before.Close()

	txn := s.BeginInProgress()
	w, err := NewWriter(txn)
	require.NoError(t, err)
	require.NoError(t, w.PutRaw(TableToken, []byte("k"), []byte("v")))

	tb, err := txn.OpenTable(TableToken)
	require.NoError(t, err)
	_, ok, err := tb.Get([]byte("k"))
	require.NoError(t, err)
	assert.True(t, ok, "in-progress txn must read its pending write")

	require.NoError(t, txn.Commit())
	assert.True(t, txn.Closed())
	assert.ErrorIs(t, txn.Commit(), ErrTxnClosed)

	tb, err = before.OpenTable(TableToken)
	require.NoError(t, err)
	_, ok, err = tb.Get([]byte("k"))
	require.NoError(t, err)
	assert.False(t, ok, "snapshot taken before the commit must not see it")

	after := s.BeginSnapshot()
	defer after.Close()
	tb, err = after.OpenTable(TableToken)
	require.NoError(t, err)
	_, ok, err = tb.Get([]byte("k"))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSnapshotIsReadOnly(t *testing.T) {
	s := newTestStore(t)
	txn := s.BeginSnapshot()
	defer txn.Close()

	_, err := NewWriter(txn)
	assert.ErrorIs(t, err, ErrReadOnly)
	assert.ErrorIs(t, txn.Commit(), ErrReadOnly)
}

func TestCloseDiscardsPendingWrites(t *testing.T) {
	s := newTestStore(t)
	txn := s.BeginInProgress()
	w, err := NewWriter(txn)
	require.NoError(t, err)
	require.NoError(t, w.PutRaw(TableToken, []byte("k"), []byte("v")))
	require.NoError(t, txn.Close())

	snap := s.BeginSnapshot()
	defer snap.Close()
	tb, err := snap.OpenTable(TableToken)
	require.NoError(t, err)
	_, ok, err := tb.Get([]byte("k"))
	require.NoError(t, err)
	assert.False(t, ok)
}
