package dbpebble

import (
	"bytes"

	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/setavenger/brc20-ledger/internal/brc20"
)

/*

0x00 catalog          key = [00][table name]                   val = [1 prefix]
0x01 balances         key = [01][owner][00][hex(lower(tick))]  val = Balance
0x02 token            key = [02][hex(lower(tick))]             val = TokenInfo
0x03 events           key = [03][txid display hex]             val = []ActionReceipt
0x04 transferable_log key = [04][owner][00][hex(lower(tick))]  val = []TransferableLog

Owner strings never contain 0x00 and tick hex only uses 0-9a-f, so for one
owner every tick key lies in [owner 00, owner 00 FF).

*/

const (
	// SeparatorByte splits owner and tick in composite keys.
	SeparatorByte byte = 0x00
	// MaxTickSentinel sorts after every hex digit.
	MaxTickSentinel byte = 0xFF
)

// ---------------- Keys ----------------
// Keys below are table relative; the Table adds the prefix.

func ScriptTickKey(owner brc20.ScriptKey, tick brc20.Tick) []byte {
	return scriptTickKey(owner.String(), tick.Hex())
}

func scriptTickKey(owner, tickHex string) []byte {
	k := make([]byte, 0, len(owner)+1+len(tickHex))
	k = append(k, owner...)
	k = append(k, SeparatorByte)
	return append(k, tickHex...)
}

// MinScriptTickKey is the smallest key of owner across all ticks.
func MinScriptTickKey(owner brc20.ScriptKey) []byte {
	return minScriptTickKey(owner.String())
}

func minScriptTickKey(owner string) []byte {
	k := make([]byte, 0, len(owner)+1)
	k = append(k, owner...)
	return append(k, SeparatorByte)
}

// MaxScriptTickKey sorts after every key of owner and before any other
// owner's keys. Use it as an exclusive upper bound.
func MaxScriptTickKey(owner brc20.ScriptKey) []byte {
	return maxScriptTickKey(owner.String())
}

func maxScriptTickKey(owner string) []byte {
	k := make([]byte, 0, len(owner)+2)
	k = append(k, owner...)
	return append(k, SeparatorByte, MaxTickSentinel)
}

func BoundsScriptTick(owner brc20.ScriptKey) (lb, ub []byte) {
	s := owner.String()
	return minScriptTickKey(s), maxScriptTickKey(s)
}

// SplitScriptTickKey is the inverse of ScriptTickKey on the textual owner.
func SplitScriptTickKey(key []byte) (owner, tickHex string, ok bool) {
	i := bytes.IndexByte(key, SeparatorByte)
	if i <= 0 {
		return "", "", false
	}
	return string(key[:i]), string(key[i+1:]), true
}

func TickKey(tick brc20.Tick) []byte {
	return []byte(tick.Hex())
}

func TxidKey(txid *chainhash.Hash) []byte {
	return []byte(txid.String())
}

// ---------------- Physical keys ----------------

func KeyCatalog(name string) []byte {
	k := make([]byte, 1+len(name))
	k[0] = KCatalog
	copy(k[1:], name)
	return k
}

func prefixed(prefix byte, key []byte) []byte {
	k := make([]byte, 1+len(key))
	k[0] = prefix
	copy(k[1:], key)
	return k
}

// BoundsTable spans every key of the table with the given prefix.
func BoundsTable(prefix byte) (lb, ub []byte) {
	return []byte{prefix}, []byte{prefix + 1}
}
