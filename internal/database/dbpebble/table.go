package dbpebble

import (
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/pebble"
)

// Table is a view of one table inside a txn. Keys passed in and returned are
// table relative.
type Table struct {
	txn    *Txn
	name   string
	prefix byte
}

func (tb *Table) Name() string {
	return tb.name
}

// Get returns a copy of the value stored under key. A missing key is not an
// error.
func (tb *Table) Get(key []byte) ([]byte, bool, error) {
	if tb.txn.closed.Load() {
		return nil, false, &StorageError{Op: "get", Table: tb.name, Err: ErrTxnClosed}
	}
	val, closer, err := tb.txn.get(prefixed(tb.prefix, key))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, false, nil
		}
		return nil, false, &StorageError{Op: "get", Table: tb.name, Err: err}
	}
	defer closer.Close()

	out := make([]byte, len(val))
	copy(out, val)
	return out, true, nil
}

// Range iterates keys in [lower, upper) in ascending order. A nil bound
// stands for the start or end of the table. The iterator must be closed
// before the txn is released.
func (tb *Table) Range(lower, upper []byte) (*RangeIter, error) {
	if tb.txn.closed.Load() {
		return nil, &StorageError{Op: "range", Table: tb.name, Err: ErrTxnClosed}
	}
	lb, ub := BoundsTable(tb.prefix)
	if lower != nil {
		lb = prefixed(tb.prefix, lower)
	}
	if upper != nil {
		ub = prefixed(tb.prefix, upper)
	}

	it, err := tb.txn.newIter(&pebble.IterOptions{LowerBound: lb, UpperBound: ub})
	if err != nil {
		return nil, &StorageError{Op: "range", Table: tb.name, Err: err}
	}
	return &RangeIter{table: tb, it: it}, nil
}

func (tb *Table) put(key, value []byte) error {
	if err := tb.txn.set(prefixed(tb.prefix, key), value); err != nil {
		return &StorageError{Op: "put", Table: tb.name, Err: err}
	}
	return nil
}

func (tb *Table) remove(key []byte) error {
	if err := tb.txn.delete(prefixed(tb.prefix, key)); err != nil {
		return &StorageError{Op: "delete", Table: tb.name, Err: err}
	}
	return nil
}

// RangeIter is a lazy ascending scan.
//
//	it, err := table.Range(lb, ub)
//	defer it.Close()
//	for it.Next() { ... it.Key(), it.Value() ... }
//	err = it.Err()
type RangeIter struct {
	table   *Table
	it      *pebble.Iterator
	started bool
	err     error
	closed  bool
}

func (r *RangeIter) Next() bool {
	if r.err != nil || r.closed {
		return false
	}
	if r.table.txn.closed.Load() {
		r.err = &StorageError{Op: "range", Table: r.table.name, Err: ErrTxnClosed}
		return false
	}

	var ok bool
	if !r.started {
		r.started = true
		ok = r.it.First()
	} else {
		ok = r.it.Next()
	}
	if !ok {
		if err := r.it.Error(); err != nil {
			r.err = &StorageError{Op: "range", Table: r.table.name, Err: err}
		}
	}
	return ok
}

// Key is the table relative key of the current entry. The slice is only
// valid until the next call to Next.
func (r *RangeIter) Key() []byte {
	return r.it.Key()[1:]
}

// Value of the current entry, valid until the next call to Next.
func (r *RangeIter) Value() []byte {
	return r.it.Value()
}

func (r *RangeIter) Err() error {
	return r.err
}

func (r *RangeIter) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	if r.table.txn.closed.Load() {
		// a snapshot iterator holds its own read state and can still be
		// released; a batch iterator points into memory the batch gave back
		if r.table.txn.kind == Snapshot {
			_ = r.it.Close()
		}
		return ErrTxnClosed
	}
	return r.it.Close()
}
