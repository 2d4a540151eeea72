package brc20

import (
	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// LedgerReader is the query surface over committed BRC-20 state. Absent
// records are reported as nil or an empty slice, never as an error.
type LedgerReader interface {
	GetBalance(owner ScriptKey, tick Tick) (*Balance, error)
	GetBalances(owner ScriptKey) ([]Balance, error)
	GetTokenInfo(tick Tick) (*TokenInfo, error)
	GetTokensInfo() ([]TokenInfo, error)
	GetTransactionReceipts(txid *chainhash.Hash) ([]ActionReceipt, error)
	GetTransferable(owner ScriptKey) ([]TransferableLog, error)
	GetTransferableByTick(owner ScriptKey, tick Tick) ([]TransferableLog, error)
	GetTransferableByID(owner ScriptKey, tick Tick, id InscriptionId) (*TransferableLog, error)
	GetTransferableByInscription(owner ScriptKey, id InscriptionId) (*TransferableLog, error)
}
