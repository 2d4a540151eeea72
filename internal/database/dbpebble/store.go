package dbpebble

import (
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/pebble"

	"github.com/setavenger/brc20-ledger/internal/logging"
)

type Store struct {
	DB *pebble.DB
}

func NewStore(db *pebble.DB) *Store {
	return &Store{DB: db}
}

// EnsureTables writes the catalog entry of every ledger table that is not
// registered yet.
func (s *Store) EnsureTables() error {
	b := s.DB.NewBatch()
	defer b.Close()

	for _, name := range TableNames() {
		key := KeyCatalog(name)
		_, closer, err := s.DB.Get(key)
		if err == nil {
			closer.Close()
			continue
		}
		if !errors.Is(err, pebble.ErrNotFound) {
			logging.L.Err(err).Str("table", name).Msg("failed to read catalog")
			return err
		}
		prefix, _ := TablePrefix(name)
		if err := b.Set(key, []byte{prefix}, nil); err != nil {
			return err
		}
		logging.L.Debug().Str("table", name).Msg("registered table")
	}

	if b.Empty() {
		return nil
	}
	return b.Commit(pebble.Sync)
}

// BeginSnapshot opens a read-only txn over the current state.
func (s *Store) BeginSnapshot() *Txn {
	return newSnapshotTxn(s.DB.NewSnapshot())
}

// BeginInProgress opens a read-write txn. Nothing is visible to other txns
// until Commit.
func (s *Store) BeginInProgress() *Txn {
	return newInProgressTxn(s.DB.NewIndexedBatch())
}

// View runs fn with a reader over a fresh snapshot.
func (s *Store) View(fn func(r *Reader) error) error {
	txn := s.BeginSnapshot()
	defer txn.Close()
	return fn(NewReader(txn))
}

// Update runs fn inside an InProgress txn and commits when fn succeeds.
func (s *Store) Update(fn func(w *Writer) error) error {
	txn := s.BeginInProgress()
	defer txn.Close()

	w, err := NewWriter(txn)
	if err != nil {
		return err
	}
	if err := fn(w); err != nil {
		return err
	}
	return txn.Commit()
}

func (s *Store) Close() error {
	return s.DB.Close()
}
