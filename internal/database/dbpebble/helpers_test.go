package dbpebble

import (
	"testing"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/setavenger/brc20-ledger/internal/brc20"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := pebble.Open("", &pebble.Options{FS: vfs.NewMem()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	s := NewStore(db)
	require.NoError(t, s.EnsureTables())
	return s
}

func owner(t *testing.T, s string) brc20.ScriptKey {
	t.Helper()
	k, err := brc20.NewAddressScriptKey(s)
	require.NoError(t, err)
	return k
}

func inscription(seed byte, index uint32) brc20.InscriptionId {
	var h chainhash.Hash
	for i := range h {
		h[i] = seed ^ byte(i)
	}
	return brc20.InscriptionId{Txid: h, Index: index}
}

func balance(tick string, overall, transferable uint64) brc20.Balance {
	return brc20.Balance{
		Tick:         brc20.Tick(tick),
		Overall:      *uint256.NewInt(overall),
		Transferable: *uint256.NewInt(transferable),
	}
}

func transferable(o brc20.ScriptKey, tick string, seed byte, amount uint64) brc20.TransferableLog {
	return brc20.TransferableLog{
		InscriptionId:     inscription(seed, 0),
		InscriptionNumber: int64(seed),
		Amount:            *uint256.NewInt(amount),
		Tick:              brc20.Tick(tick),
		Owner:             o,
	}
}

// seed commits fn through an InProgress txn.
func seed(t *testing.T, s *Store, fn func(w *Writer)) {
	t.Helper()
	require.NoError(t, s.Update(func(w *Writer) error {
		fn(w)
		return nil
	}))
}

func newMemFS() vfs.FS {
	return vfs.NewMem()
}
