package dbpebble

import (
	"github.com/cockroachdb/pebble"

	"github.com/setavenger/brc20-ledger/internal/config"
	"github.com/setavenger/brc20-ledger/internal/logging"
)

func OpenDB() (*pebble.DB, error) {
	return OpenDBAt(config.DBPath)
}

func OpenDBAt(dbPath string) (*pebble.DB, error) {
	opts := (&pebble.Options{}).EnsureDefaults()
	cache := pebble.NewCache(config.PebbleCacheMB << 20)
	defer cache.Unref()
	opts.Cache = cache
	opts.BytesPerSync = 1 << 20 // smoother background flushes (1 MiB)

	db, err := pebble.Open(dbPath, opts)
	if err != nil {
		logging.L.Err(err).Str("path", dbPath).Msg("error opening pebble db")
		return nil, err
	}
	return db, nil
}

// OpenStore opens the pebble db at dbPath and makes sure every ledger table
// is registered.
func OpenStore(dbPath string) (*Store, error) {
	db, err := OpenDBAt(dbPath)
	if err != nil {
		return nil, err
	}
	s := NewStore(db)
	if err := s.EnsureTables(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}
