package dblevel

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/setavenger/brc20-ledger/internal/brc20"
	"github.com/setavenger/brc20-ledger/internal/database/dbpebble"
	"github.com/setavenger/brc20-ledger/internal/logging"
)

type ImportOptions struct {
	// BatchSize is the number of keys per committed pebble txn.
	BatchSize int
	// Verify decodes every value first and skips the ones that do not
	// decode for their table.
	Verify bool
}

type ImportStats struct {
	Copied  map[string]int
	Skipped map[string]int
}

func (s ImportStats) Total() int {
	n := 0
	for _, c := range s.Copied {
		n += c
	}
	return n
}

// ImportLedger copies every ledger table from a consistent snapshot of src
// into dst.
func ImportLedger(src *leveldb.DB, dst *dbpebble.Store, opts ImportOptions) (ImportStats, error) {
	stats := ImportStats{Copied: map[string]int{}, Skipped: map[string]int{}}
	if opts.BatchSize <= 0 {
		return stats, errors.Newf("invalid batch size %d", opts.BatchSize)
	}

	snap, err := src.GetSnapshot()
	if err != nil {
		logging.L.Err(err).Msg("error taking leveldb snapshot")
		return stats, err
	}
	defer snap.Release()

	iter := snap.NewIterator(&util.Range{
		Start: []byte{dbpebble.KBalances},
		Limit: []byte{dbpebble.KTransferableLog + 1},
	}, nil)
	defer iter.Release()

	start := time.Now()
	txn := dst.BeginInProgress()
	defer func() { _ = txn.Close() }()
	w, err := dbpebble.NewWriter(txn)
	if err != nil {
		return stats, err
	}

	pending := 0
	for iter.Next() {
		key := iter.Key()
		table, ok := dbpebble.TableByPrefix(key[0])
		if !ok {
			continue
		}
		if opts.Verify {
			if err := verifyValue(table, iter.Value()); err != nil {
				logging.L.Warn().Err(err).Str("table", table).Hex("key", key).Msg("skipping undecodable value")
				stats.Skipped[table]++
				continue
			}
		}
		if err := w.PutRaw(table, key[1:], iter.Value()); err != nil {
			return stats, err
		}
		stats.Copied[table]++
		pending++

		if pending >= opts.BatchSize {
			if err := txn.Commit(); err != nil {
				logging.L.Err(err).Msg("failed to commit import batch")
				return stats, err
			}
			logging.L.Info().Int("copied", stats.Total()).Dur("elapsed", time.Since(start)).Msg("import progress")
			txn = dst.BeginInProgress()
			if w, err = dbpebble.NewWriter(txn); err != nil {
				return stats, err
			}
			pending = 0
		}
	}
	if err := iter.Error(); err != nil {
		logging.L.Err(err).Msg("error iterating over leveldb")
		return stats, err
	}

	if err := txn.Commit(); err != nil {
		logging.L.Err(err).Msg("failed to commit import batch")
		return stats, err
	}
	logging.L.Info().Int("copied", stats.Total()).Dur("elapsed", time.Since(start)).Msg("import done")
	return stats, nil
}

func verifyValue(table string, value []byte) error {
	var err error
	switch table {
	case dbpebble.TableBalances:
		_, err = brc20.DecodeBalance(value)
	case dbpebble.TableToken:
		_, err = brc20.DecodeTokenInfo(value)
	case dbpebble.TableEvents:
		_, err = brc20.DecodeReceipts(value)
	case dbpebble.TableTransferableLog:
		_, err = brc20.DecodeTransferableLogs(value)
	}
	return err
}
