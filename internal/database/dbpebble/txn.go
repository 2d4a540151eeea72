package dbpebble

import (
	"io"
	"sync/atomic"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/pebble"
)

type TxnKind uint8

const (
	// Snapshot is a read-only point in time view of the store. It may be
	// shared between goroutines.
	Snapshot TxnKind = iota
	// InProgress is an indexed write batch. Reads see its pending writes.
	// It belongs to a single goroutine.
	InProgress
)

func (k TxnKind) String() string {
	if k == InProgress {
		return "in-progress"
	}
	return "snapshot"
}

// Txn is one of the two transaction kinds. Exactly one of snap and batch is
// set, matching kind.
type Txn struct {
	kind   TxnKind
	snap   *pebble.Snapshot
	batch  *pebble.Batch
	closed atomic.Bool
}

func newSnapshotTxn(snap *pebble.Snapshot) *Txn {
	return &Txn{kind: Snapshot, snap: snap}
}

func newInProgressTxn(batch *pebble.Batch) *Txn {
	return &Txn{kind: InProgress, batch: batch}
}

func (t *Txn) Kind() TxnKind {
	return t.kind
}

func (t *Txn) Closed() bool {
	return t.closed.Load()
}

// OpenTable returns the accessor for a table registered in the store's
// catalog. The table is only valid until the txn is released.
func (t *Txn) OpenTable(name string) (*Table, error) {
	if t.closed.Load() {
		return nil, &TableError{Table: name, Err: ErrTxnClosed}
	}
	prefix, ok := TablePrefix(name)
	if !ok {
		return nil, &TableError{Table: name, Err: ErrUnknownTable}
	}

	val, closer, err := t.get(KeyCatalog(name))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, &TableError{Table: name, Err: ErrTableMissing}
		}
		return nil, &TableError{Table: name, Err: err}
	}
	defer closer.Close()
	if len(val) != 1 || val[0] != prefix {
		return nil, &TableError{
			Table: name,
			Err:   errors.Newf("catalog maps table to prefix %x, expected %02x", val, prefix),
		}
	}

	return &Table{txn: t, name: name, prefix: prefix}, nil
}

func (t *Txn) get(key []byte) ([]byte, io.Closer, error) {
	switch t.kind {
	case Snapshot:
		return t.snap.Get(key)
	case InProgress:
		return t.batch.Get(key)
	default:
		panic("unreachable txn kind")
	}
}

func (t *Txn) newIter(o *pebble.IterOptions) (*pebble.Iterator, error) {
	switch t.kind {
	case Snapshot:
		return t.snap.NewIter(o)
	case InProgress:
		return t.batch.NewIter(o)
	default:
		panic("unreachable txn kind")
	}
}

func (t *Txn) set(key, value []byte) error {
	if t.kind != InProgress {
		return ErrReadOnly
	}
	if t.closed.Load() {
		return ErrTxnClosed
	}
	return t.batch.Set(key, value, nil)
}

func (t *Txn) delete(key []byte) error {
	if t.kind != InProgress {
		return ErrReadOnly
	}
	if t.closed.Load() {
		return ErrTxnClosed
	}
	return t.batch.Delete(key, nil)
}

// Commit applies the pending writes of an InProgress txn and releases it.
func (t *Txn) Commit() error {
	if t.kind != InProgress {
		return ErrReadOnly
	}
	if t.closed.Load() {
		return ErrTxnClosed
	}
	if err := t.batch.Commit(pebble.Sync); err != nil {
		return err
	}
	return t.Close()
}

// Close releases the txn. Uncommitted writes are discarded. Calling Close
// more than once is a no-op.
func (t *Txn) Close() error {
	if !t.closed.CompareAndSwap(false, true) {
		return nil
	}
	switch t.kind {
	case Snapshot:
		return t.snap.Close()
	default:
		return t.batch.Close()
	}
}
