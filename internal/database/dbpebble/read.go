package dbpebble

import (
	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/setavenger/brc20-ledger/internal/brc20"
)

// Reader answers ledger queries through one txn. It behaves the same for
// Snapshot and InProgress txns and keeps no state between calls.
type Reader struct {
	txn *Txn
}

var _ brc20.LedgerReader = (*Reader)(nil)

func NewReader(txn *Txn) *Reader {
	return &Reader{txn: txn}
}

func (r *Reader) Txn() *Txn {
	return r.txn
}

// getRecord decodes the value under key, or returns ok=false if absent.
func getRecord[T any](r *Reader, table string, key []byte, decode func([]byte) (T, error)) (rec T, ok bool, err error) {
	tb, err := r.txn.OpenTable(table)
	if err != nil {
		return rec, false, err
	}
	val, ok, err := tb.Get(key)
	if err != nil || !ok {
		return rec, false, err
	}
	rec, err = decode(val)
	if err != nil {
		return rec, false, &DecodeError{Table: table, Key: key, Err: err}
	}
	return rec, true, nil
}

// scan decodes every value in [lower, upper) and hands it to fn in key order.
func scan[T any](r *Reader, table string, lower, upper []byte, decode func([]byte) (T, error), fn func(T)) error {
	return scanKeyed(r, table, lower, upper, decode, func(_ []byte, rec T) error {
		fn(rec)
		return nil
	})
}

// scanKeyed is scan with the table relative key. The key is only valid
// until fn returns. An error from fn stops the scan and is returned as is.
func scanKeyed[T any](r *Reader, table string, lower, upper []byte, decode func([]byte) (T, error), fn func(key []byte, rec T) error) error {
	tb, err := r.txn.OpenTable(table)
	if err != nil {
		return err
	}
	it, err := tb.Range(lower, upper)
	if err != nil {
		return err
	}
	defer it.Close()

	for it.Next() {
		rec, err := decode(it.Value())
		if err != nil {
			key := append([]byte(nil), it.Key()...)
			return &DecodeError{Table: table, Key: key, Err: err}
		}
		if err := fn(it.Key(), rec); err != nil {
			return err
		}
	}
	return it.Err()
}

func (r *Reader) GetBalance(owner brc20.ScriptKey, tick brc20.Tick) (*brc20.Balance, error) {
	b, _, err := getRecord(r, TableBalances, ScriptTickKey(owner, tick), brc20.DecodeBalance)
	return b, err
}

func (r *Reader) GetBalances(owner brc20.ScriptKey) ([]brc20.Balance, error) {
	lb, ub := BoundsScriptTick(owner)
	balances := make([]brc20.Balance, 0)
	err := scan(r, TableBalances, lb, ub, brc20.DecodeBalance, func(b *brc20.Balance) {
		balances = append(balances, *b)
	})
	if err != nil {
		return nil, err
	}
	return balances, nil
}

func (r *Reader) GetTokenInfo(tick brc20.Tick) (*brc20.TokenInfo, error) {
	info, _, err := getRecord(r, TableToken, TickKey(tick), brc20.DecodeTokenInfo)
	return info, err
}

func (r *Reader) GetTokensInfo() ([]brc20.TokenInfo, error) {
	tokens := make([]brc20.TokenInfo, 0)
	err := scan(r, TableToken, nil, nil, brc20.DecodeTokenInfo, func(t *brc20.TokenInfo) {
		tokens = append(tokens, *t)
	})
	if err != nil {
		return nil, err
	}
	return tokens, nil
}

func (r *Reader) GetTransactionReceipts(txid *chainhash.Hash) ([]brc20.ActionReceipt, error) {
	receipts, ok, err := getRecord(r, TableEvents, TxidKey(txid), brc20.DecodeReceipts)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []brc20.ActionReceipt{}, nil
	}
	return receipts, nil
}

// GetTransferable concatenates the owner's batches in tick key order.
func (r *Reader) GetTransferable(owner brc20.ScriptKey) ([]brc20.TransferableLog, error) {
	lb, ub := BoundsScriptTick(owner)
	logs := make([]brc20.TransferableLog, 0)
	err := scan(r, TableTransferableLog, lb, ub, brc20.DecodeTransferableLogs, func(batch []brc20.TransferableLog) {
		logs = append(logs, batch...)
	})
	if err != nil {
		return nil, err
	}
	return logs, nil
}

func (r *Reader) GetTransferableByTick(owner brc20.ScriptKey, tick brc20.Tick) ([]brc20.TransferableLog, error) {
	logs, ok, err := getRecord(r, TableTransferableLog, ScriptTickKey(owner, tick), brc20.DecodeTransferableLogs)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []brc20.TransferableLog{}, nil
	}
	return logs, nil
}

// GetTransferableByID returns the first log of the (owner, tick) batch with
// the inscription id.
func (r *Reader) GetTransferableByID(owner brc20.ScriptKey, tick brc20.Tick, id brc20.InscriptionId) (*brc20.TransferableLog, error) {
	logs, err := r.GetTransferableByTick(owner, tick)
	if err != nil {
		return nil, err
	}
	return findInscription(logs, id), nil
}

// GetTransferableByInscription looks for the inscription across all of the
// owner's ticks.
func (r *Reader) GetTransferableByInscription(owner brc20.ScriptKey, id brc20.InscriptionId) (*brc20.TransferableLog, error) {
	logs, err := r.GetTransferable(owner)
	if err != nil {
		return nil, err
	}
	return findInscription(logs, id), nil
}

func findInscription(logs []brc20.TransferableLog, id brc20.InscriptionId) *brc20.TransferableLog {
	for i := range logs {
		if logs[i].InscriptionId == id {
			found := logs[i]
			return &found
		}
	}
	return nil
}

// ForEachBalance walks the balances of every owner in key order. owner is the
// textual owner taken from the key.
func (r *Reader) ForEachBalance(fn func(owner string, b *brc20.Balance) error) error {
	return scanKeyed(r, TableBalances, nil, nil, brc20.DecodeBalance, func(key []byte, b *brc20.Balance) error {
		owner, _, ok := SplitScriptTickKey(key)
		if !ok {
			return &DecodeError{Table: TableBalances, Key: append([]byte(nil), key...), Err: ErrMalformedKey}
		}
		return fn(owner, b)
	})
}

// ForEachTransferable walks every transferable batch of every owner.
func (r *Reader) ForEachTransferable(fn func(owner string, logs []brc20.TransferableLog) error) error {
	return scanKeyed(r, TableTransferableLog, nil, nil, brc20.DecodeTransferableLogs, func(key []byte, logs []brc20.TransferableLog) error {
		owner, _, ok := SplitScriptTickKey(key)
		if !ok {
			return &DecodeError{Table: TableTransferableLog, Key: append([]byte(nil), key...), Err: ErrMalformedKey}
		}
		return fn(owner, logs)
	})
}
