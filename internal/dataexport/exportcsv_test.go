package dataexport

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/setavenger/brc20-ledger/internal/brc20"
	"github.com/setavenger/brc20-ledger/internal/database/dbpebble"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return records
}

func TestExportAll(t *testing.T) {
	db, err := pebble.Open("", &pebble.Options{FS: vfs.NewMem()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	store := dbpebble.NewStore(db)
	require.NoError(t, store.EnsureTables())

	alice, err := brc20.NewAddressScriptKey("bc1alice")
	require.NoError(t, err)
	bob := brc20.NewScriptHashKey([20]byte{0x01})

	var txid chainhash.Hash
	txid[0] = 0x42
	id := brc20.InscriptionId{Txid: txid, Index: 0}

	require.NoError(t, store.Update(func(w *dbpebble.Writer) error {
		for _, o := range []brc20.ScriptKey{alice, bob} {
			if err := w.UpdateBalance(o, &brc20.Balance{Tick: "ordi", Overall: *uint256.NewInt(10), Transferable: *uint256.NewInt(4)}); err != nil {
				return err
			}
		}
		if err := w.InsertTokenInfo(&brc20.TokenInfo{Tick: "ordi", InscriptionId: id, Supply: *uint256.NewInt(100), Decimal: 18, DeployBy: alice}); err != nil {
			return err
		}
		if err := w.InsertTransferable(bob, &brc20.TransferableLog{InscriptionId: id, Amount: *uint256.NewInt(4), Tick: "ordi", Owner: bob}); err != nil {
			return err
		}
		return w.SaveTransactionReceipts(&txid, []brc20.ActionReceipt{{
			InscriptionId: id,
			Op:            brc20.EventMint,
			From:          alice,
			To:            alice,
			Event:         &brc20.Event{Type: brc20.EventMint, Tick: "ordi", Amount: *uint256.NewInt(10)},
		}})
	}))

	dir := t.TempDir()
	require.NoError(t, store.View(func(r *dbpebble.Reader) error {
		if err := ExportAll(r, dir); err != nil {
			return err
		}
		var missing chainhash.Hash
		return ExportReceipts(r, []chainhash.Hash{txid, missing}, filepath.Join(dir, "receipts.csv"))
	}))

	balances := readCSV(t, filepath.Join(dir, "balances.csv"))
	require.Len(t, balances, 3)
	assert.Equal(t, []string{"owner", "tick", "overall", "transferable", "available"}, balances[0])
	// hex owners sort before bech32 ones
	assert.Equal(t, []string{bob.String(), "ordi", "10", "4", "6"}, balances[1])
	assert.Equal(t, []string{"bc1alice", "ordi", "10", "4", "6"}, balances[2])

	tokens := readCSV(t, filepath.Join(dir, "tokens.csv"))
	require.Len(t, tokens, 2)
	assert.Equal(t, "ordi", tokens[1][0])
	assert.Equal(t, id.String(), tokens[1][1])
	assert.Equal(t, "18", tokens[1][6])
	assert.Equal(t, "bc1alice", tokens[1][7])

	transferable := readCSV(t, filepath.Join(dir, "transferable.csv"))
	require.Len(t, transferable, 2)
	assert.Equal(t, []string{bob.String(), "ordi", id.String(), "0", "4"}, transferable[1])

	receipts := readCSV(t, filepath.Join(dir, "receipts.csv"))
	require.Len(t, receipts, 2)
	assert.Equal(t, []string{txid.String(), id.String(), "mint", "bc1alice", "bc1alice", "ordi", "10", ""}, receipts[1])
}
