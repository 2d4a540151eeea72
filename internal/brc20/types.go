package brc20

import (
	"github.com/holiman/uint256"
)

type Balance struct {
	Tick         Tick
	Overall      uint256.Int
	Transferable uint256.Int
}

// Available is the part of the balance not locked in transfer inscriptions.
func (b *Balance) Available() *uint256.Int {
	if b.Overall.Lt(&b.Transferable) {
		return new(uint256.Int)
	}
	return new(uint256.Int).Sub(&b.Overall, &b.Transferable)
}

type TokenInfo struct {
	Tick              Tick
	InscriptionId     InscriptionId
	InscriptionNumber int64
	Supply            uint256.Int
	Minted            uint256.Int
	LimitPerMint      uint256.Int
	Decimal           uint8
	DeployBy          ScriptKey
	DeployedNumber    uint64
	DeployedTimestamp uint32
	LatestMintNumber  uint64
}

// TransferableLog is an inscribed transfer that has not been sent yet.
type TransferableLog struct {
	InscriptionId     InscriptionId
	InscriptionNumber int64
	Amount            uint256.Int
	Tick              Tick
	Owner             ScriptKey
}

type EventType uint8

const (
	EventDeploy EventType = iota + 1
	EventMint
	EventInscribeTransfer
	EventTransfer
)

func (t EventType) String() string {
	switch t {
	case EventDeploy:
		return "deploy"
	case EventMint:
		return "mint"
	case EventInscribeTransfer:
		return "inscribeTransfer"
	case EventTransfer:
		return "transfer"
	default:
		return "unknown"
	}
}

func (t EventType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Event is the successful outcome of an action. Only the fields of its Type
// are meaningful: Deploy uses Supply, LimitPerMint and Decimal; the others use
// Amount, and Mint/Transfer may carry Msg.
type Event struct {
	Type         EventType
	Tick         Tick
	Supply       uint256.Int
	LimitPerMint uint256.Int
	Decimal      uint8
	Amount       uint256.Int
	Msg          string
}

type ActionReceipt struct {
	InscriptionId     InscriptionId
	InscriptionNumber int64
	OldSatPoint       SatPoint
	NewSatPoint       SatPoint
	Op                EventType
	From              ScriptKey
	To                ScriptKey
	// Event is set when the action succeeded, Err otherwise.
	Event *Event
	Err   string
}

func (r *ActionReceipt) Succeeded() bool {
	return r.Err == "" && r.Event != nil
}
