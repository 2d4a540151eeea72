package dbpebble

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

var (
	ErrUnknownTable = errors.New("unknown table")
	ErrTableMissing = errors.New("table does not exist")
	ErrTxnClosed    = errors.New("transaction already released")
	ErrReadOnly     = errors.New("transaction is read only")
	ErrMalformedKey = errors.New("malformed owner tick key")
)

// TableError reports a table that cannot be opened in the current txn. It is
// a configuration problem and not worth retrying.
type TableError struct {
	Table string
	Err   error
}

func (e *TableError) Error() string {
	return fmt.Sprintf("open table %s: %v", e.Table, e.Err)
}

func (e *TableError) Unwrap() error { return e.Err }

// StorageError wraps failures reported by pebble on get or iteration.
type StorageError struct {
	Op    string
	Table string
	Err   error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Table, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// DecodeError means the bytes stored under Key do not form the record type
// expected for Table.
type DecodeError struct {
	Table string
	Key   []byte
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s key %q: %v", e.Table, e.Key, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
