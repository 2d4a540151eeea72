// Package dblevel reads ledgers kept in goleveldb, the store used before the
// move to pebble. Keys use the same prefix layout as dbpebble.
package dblevel

import (
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"

	"github.com/setavenger/brc20-ledger/internal/logging"
)

// OpenDBConnection opens the leveldb at path read-only.
func OpenDBConnection(path string) (*leveldb.DB, error) {
	db, err := leveldb.OpenFile(path, &opt.Options{ReadOnly: true, ErrorIfMissing: true})
	if err != nil {
		logging.L.Err(err).Str("path", path).Msg("error opening db connection")
		return nil, err
	}
	return db, nil
}
