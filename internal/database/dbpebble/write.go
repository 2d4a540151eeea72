package dbpebble

import (
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/cockroachdb/errors"

	"github.com/setavenger/brc20-ledger/internal/brc20"
	"github.com/setavenger/brc20-ledger/internal/logging"
)

var ErrDuplicateInscription = errors.New("inscription already in transferable batch")

// Writer stores ledger records through an InProgress txn. Nothing is visible
// outside the txn until it is committed.
type Writer struct {
	txn    *Txn
	reader *Reader
}

func NewWriter(txn *Txn) (*Writer, error) {
	if txn.Kind() != InProgress {
		return nil, ErrReadOnly
	}
	return &Writer{txn: txn, reader: NewReader(txn)}, nil
}

// Reader reads through the same txn, including unflushed writes.
func (w *Writer) Reader() *Reader {
	return w.reader
}

func (w *Writer) put(table string, key, value []byte) error {
	tb, err := w.txn.OpenTable(table)
	if err != nil {
		return err
	}
	if err := tb.put(key, value); err != nil {
		logging.L.Err(err).Str("table", table).Msg("insert failed")
		return err
	}
	return nil
}

func (w *Writer) remove(table string, key []byte) error {
	tb, err := w.txn.OpenTable(table)
	if err != nil {
		return err
	}
	if err := tb.remove(key); err != nil {
		logging.L.Err(err).Str("table", table).Msg("delete failed")
		return err
	}
	return nil
}

// PutRaw stores an already encoded value under a table relative key.
func (w *Writer) PutRaw(table string, key, value []byte) error {
	return w.put(table, key, value)
}

// UpdateBalance overwrites the balance of owner for b.Tick.
func (w *Writer) UpdateBalance(owner brc20.ScriptKey, b *brc20.Balance) error {
	val, err := brc20.EncodeBalance(b)
	if err != nil {
		logging.L.Err(err).Str("owner", owner.String()).Str("tick", b.Tick.String()).Msg("failed to encode balance")
		return err
	}
	return w.put(TableBalances, ScriptTickKey(owner, b.Tick), val)
}

func (w *Writer) InsertTokenInfo(info *brc20.TokenInfo) error {
	val, err := brc20.EncodeTokenInfo(info)
	if err != nil {
		logging.L.Err(err).Str("tick", info.Tick.String()).Msg("failed to encode token info")
		return err
	}
	return w.put(TableToken, TickKey(info.Tick), val)
}

// SaveTransactionReceipts replaces the receipt batch of txid.
func (w *Writer) SaveTransactionReceipts(txid *chainhash.Hash, receipts []brc20.ActionReceipt) error {
	val, err := brc20.EncodeReceipts(receipts)
	if err != nil {
		logging.L.Err(err).Stringer("txid", txid).Msg("failed to encode receipts")
		return err
	}
	return w.put(TableEvents, TxidKey(txid), val)
}

// InsertTransferable appends log to the (owner, log.Tick) batch. An id that
// is already in the batch is rejected.
func (w *Writer) InsertTransferable(owner brc20.ScriptKey, log *brc20.TransferableLog) error {
	logs, err := w.reader.GetTransferableByTick(owner, log.Tick)
	if err != nil {
		return err
	}
	if findInscription(logs, log.InscriptionId) != nil {
		return errors.Wrapf(ErrDuplicateInscription, "%s", log.InscriptionId)
	}
	logs = append(logs, *log)
	return w.putTransferables(owner, log.Tick, logs)
}

// RemoveTransferable drops the inscription from the (owner, tick) batch and
// deletes the key once the batch is empty. Removing an unknown id is a no-op.
func (w *Writer) RemoveTransferable(owner brc20.ScriptKey, tick brc20.Tick, id brc20.InscriptionId) error {
	logs, err := w.reader.GetTransferableByTick(owner, tick)
	if err != nil {
		return err
	}
	kept := logs[:0]
	for _, l := range logs {
		if l.InscriptionId != id {
			kept = append(kept, l)
		}
	}
	if len(kept) == len(logs) {
		return nil
	}
	if len(kept) == 0 {
		return w.remove(TableTransferableLog, ScriptTickKey(owner, tick))
	}
	return w.putTransferables(owner, tick, kept)
}

func (w *Writer) putTransferables(owner brc20.ScriptKey, tick brc20.Tick, logs []brc20.TransferableLog) error {
	val, err := brc20.EncodeTransferableLogs(logs)
	if err != nil {
		logging.L.Err(err).Str("owner", owner.String()).Str("tick", tick.String()).Msg("failed to encode transferable logs")
		return err
	}
	return w.put(TableTransferableLog, ScriptTickKey(owner, tick), val)
}
