package server

import (
	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"

	"github.com/setavenger/brc20-ledger/internal/brc20"
)

// Amounts are rendered as base unit integers. The *_display fields apply the
// token's decimals and are omitted when the token is unknown.

type InfoResponse struct {
	Network string   `json:"network"`
	Tables  []string `json:"tables"`
}

type BalanceResponse struct {
	Tick                string `json:"tick"`
	OverallBalance      string `json:"overall_balance"`
	TransferableBalance string `json:"transferable_balance"`
	AvailableBalance    string `json:"available_balance"`
	Decimal             *uint8 `json:"decimal,omitempty"`
	OverallDisplay      string `json:"overall_display,omitempty"`
	AvailableDisplay    string `json:"available_display,omitempty"`
}

type TokenResponse struct {
	Tick              string              `json:"tick"`
	InscriptionId     brc20.InscriptionId `json:"inscription_id"`
	InscriptionNumber int64               `json:"inscription_number"`
	Supply            string              `json:"supply"`
	Minted            string              `json:"minted"`
	LimitPerMint      string              `json:"limit_per_mint"`
	Decimal           uint8               `json:"decimal"`
	DeployBy          brc20.ScriptKey     `json:"deploy_by"`
	DeployedNumber    uint64              `json:"deployed_number"`
	DeployedTimestamp uint32              `json:"deployed_timestamp"`
	LatestMintNumber  uint64              `json:"latest_mint_number"`
	SupplyDisplay     string              `json:"supply_display"`
	MintedDisplay     string              `json:"minted_display"`
}

type EventResponse struct {
	Type         brc20.EventType `json:"type"`
	Tick         string          `json:"tick"`
	Supply       string          `json:"supply,omitempty"`
	LimitPerMint string          `json:"limit_per_mint,omitempty"`
	Decimal      *uint8          `json:"decimal,omitempty"`
	Amount       string          `json:"amount,omitempty"`
	Msg          string          `json:"msg,omitempty"`
}

type ReceiptResponse struct {
	InscriptionId     brc20.InscriptionId `json:"inscription_id"`
	InscriptionNumber int64               `json:"inscription_number"`
	OldSatPoint       brc20.SatPoint      `json:"old_satpoint"`
	NewSatPoint       brc20.SatPoint      `json:"new_satpoint"`
	Op                brc20.EventType     `json:"op"`
	From              brc20.ScriptKey     `json:"from"`
	To                brc20.ScriptKey     `json:"to"`
	Valid             bool                `json:"valid"`
	Event             *EventResponse      `json:"event,omitempty"`
	Error             string              `json:"error,omitempty"`
}

type TransferableResponse struct {
	InscriptionId     brc20.InscriptionId `json:"inscription_id"`
	InscriptionNumber int64               `json:"inscription_number"`
	Amount            string              `json:"amount"`
	Tick              string              `json:"tick"`
	Owner             brc20.ScriptKey     `json:"owner"`
}

func displayAmount(amount *uint256.Int, decimals uint8) string {
	return decimal.NewFromBigInt(amount.ToBig(), -int32(decimals)).String()
}

func NewBalanceResponse(b *brc20.Balance, token *brc20.TokenInfo) BalanceResponse {
	available := b.Available()
	resp := BalanceResponse{
		Tick:                b.Tick.String(),
		OverallBalance:      b.Overall.Dec(),
		TransferableBalance: b.Transferable.Dec(),
		AvailableBalance:    available.Dec(),
	}
	if token != nil {
		d := token.Decimal
		resp.Decimal = &d
		resp.OverallDisplay = displayAmount(&b.Overall, d)
		resp.AvailableDisplay = displayAmount(available, d)
	}
	return resp
}

func NewTokenResponse(t *brc20.TokenInfo) TokenResponse {
	return TokenResponse{
		Tick:              t.Tick.String(),
		InscriptionId:     t.InscriptionId,
		InscriptionNumber: t.InscriptionNumber,
		Supply:            t.Supply.Dec(),
		Minted:            t.Minted.Dec(),
		LimitPerMint:      t.LimitPerMint.Dec(),
		Decimal:           t.Decimal,
		DeployBy:          t.DeployBy,
		DeployedNumber:    t.DeployedNumber,
		DeployedTimestamp: t.DeployedTimestamp,
		LatestMintNumber:  t.LatestMintNumber,
		SupplyDisplay:     displayAmount(&t.Supply, t.Decimal),
		MintedDisplay:     displayAmount(&t.Minted, t.Decimal),
	}
}

func NewReceiptResponse(r *brc20.ActionReceipt) ReceiptResponse {
	resp := ReceiptResponse{
		InscriptionId:     r.InscriptionId,
		InscriptionNumber: r.InscriptionNumber,
		OldSatPoint:       r.OldSatPoint,
		NewSatPoint:       r.NewSatPoint,
		Op:                r.Op,
		From:              r.From,
		To:                r.To,
		Valid:             r.Succeeded(),
		Error:             r.Err,
	}
	if ev := r.Event; ev != nil && r.Succeeded() {
		e := &EventResponse{Type: ev.Type, Tick: ev.Tick.String(), Msg: ev.Msg}
		switch ev.Type {
		case brc20.EventDeploy:
			d := ev.Decimal
			e.Supply = ev.Supply.Dec()
			e.LimitPerMint = ev.LimitPerMint.Dec()
			e.Decimal = &d
		default:
			e.Amount = ev.Amount.Dec()
		}
		resp.Event = e
	}
	return resp
}

func NewTransferableResponse(l *brc20.TransferableLog) TransferableResponse {
	return TransferableResponse{
		InscriptionId:     l.InscriptionId,
		InscriptionNumber: l.InscriptionNumber,
		Amount:            l.Amount.Dec(),
		Tick:              l.Tick.String(),
		Owner:             l.Owner,
	}
}
