package brc20

import (
	"testing"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testInscriptionId(t *testing.T, seed byte, index uint32) InscriptionId {
	t.Helper()
	var h chainhash.Hash
	for i := range h {
		h[i] = seed + byte(i)
	}
	return InscriptionId{Txid: h, Index: index}
}

func testAddressKey(t *testing.T, s string) ScriptKey {
	t.Helper()
	k, err := NewAddressScriptKey(s)
	require.NoError(t, err)
	return k
}

func TestBalanceRoundTrip(t *testing.T) {
	in := &Balance{
		Tick:         "ordi",
		Overall:      *uint256.NewInt(100),
		Transferable: *uint256.NewInt(40),
	}
	data, err := EncodeBalance(in)
	require.NoError(t, err)

	out, err := DecodeBalance(data)
	require.NoError(t, err)
	assert.Equal(t, in, out)
	assert.Equal(t, uint64(60), out.Available().Uint64())
}

func TestBalanceMaxAmount(t *testing.T) {
	max := new(uint256.Int).Sub(new(uint256.Int).Lsh(uint256.NewInt(1), 128), uint256.NewInt(1))
	in := &Balance{Tick: "ordi", Overall: *max}
	data, err := EncodeBalance(in)
	require.NoError(t, err)
	out, err := DecodeBalance(data)
	require.NoError(t, err)
	assert.True(t, out.Overall.Eq(max))

	tooBig := new(uint256.Int).Lsh(uint256.NewInt(1), 128)
	_, err = EncodeBalance(&Balance{Tick: "ordi", Overall: *tooBig})
	assert.ErrorIs(t, err, ErrAmountOverflow)
}

func TestTokenInfoRoundTrip(t *testing.T) {
	var h [ScriptHashLength]byte
	h[0] = 0xab
	in := &TokenInfo{
		Tick:              "OrDi",
		InscriptionId:     testInscriptionId(t, 1, 0),
		InscriptionNumber: -7,
		Supply:            *uint256.NewInt(21_000_000),
		Minted:            *uint256.NewInt(1000),
		LimitPerMint:      *uint256.NewInt(1000),
		Decimal:           18,
		DeployBy:          NewScriptHashKey(h),
		DeployedNumber:    779832,
		DeployedTimestamp: 1678248991,
		LatestMintNumber:  779900,
	}
	data, err := EncodeTokenInfo(in)
	require.NoError(t, err)
	out, err := DecodeTokenInfo(data)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestTransferableLogsRoundTrip(t *testing.T) {
	owner := testAddressKey(t, "bc1qowner")
	in := []TransferableLog{
		{InscriptionId: testInscriptionId(t, 1, 0), InscriptionNumber: 1, Amount: *uint256.NewInt(5), Tick: "ordi", Owner: owner},
		{InscriptionId: testInscriptionId(t, 2, 3), InscriptionNumber: 2, Amount: *uint256.NewInt(9), Tick: "ordi", Owner: owner},
	}
	data, err := EncodeTransferableLogs(in)
	require.NoError(t, err)
	out, err := DecodeTransferableLogs(data)
	require.NoError(t, err)
	assert.Equal(t, in, out)

	data, err = EncodeTransferableLogs(nil)
	require.NoError(t, err)
	out, err = DecodeTransferableLogs(data)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestReceiptsRoundTrip(t *testing.T) {
	from := testAddressKey(t, "bc1qfrom")
	to := testAddressKey(t, "bc1qto")
	sp := SatPoint{Outpoint: wire.OutPoint{Hash: chainhash.Hash{1}, Index: 2}, Offset: 3}
	in := []ActionReceipt{
		{
			InscriptionId: testInscriptionId(t, 1, 0), InscriptionNumber: 10,
			OldSatPoint: sp, NewSatPoint: sp, Op: EventDeploy, From: from, To: to,
			Event: &Event{Type: EventDeploy, Tick: "ordi", Supply: *uint256.NewInt(21), LimitPerMint: *uint256.NewInt(1), Decimal: 18},
		},
		{
			InscriptionId: testInscriptionId(t, 2, 0), InscriptionNumber: 11,
			OldSatPoint: sp, NewSatPoint: sp, Op: EventMint, From: from, To: to,
			Event: &Event{Type: EventMint, Tick: "ordi", Amount: *uint256.NewInt(1), Msg: "amount exceeds limit"},
		},
		{
			InscriptionId: testInscriptionId(t, 3, 0), InscriptionNumber: 12,
			OldSatPoint: sp, NewSatPoint: sp, Op: EventInscribeTransfer, From: from, To: to,
			Event: &Event{Type: EventInscribeTransfer, Tick: "ordi", Amount: *uint256.NewInt(1)},
		},
		{
			InscriptionId: testInscriptionId(t, 4, 1), InscriptionNumber: 13,
			OldSatPoint: sp, NewSatPoint: sp, Op: EventTransfer, From: from, To: to,
			Err: "insufficient balance",
		},
	}
	data, err := EncodeReceipts(in)
	require.NoError(t, err)
	out, err := DecodeReceipts(data)
	require.NoError(t, err)
	assert.Equal(t, in, out)
	assert.True(t, out[0].Succeeded())
	assert.False(t, out[3].Succeeded())
}

func TestDecodeMalformed(t *testing.T) {
	data, err := EncodeBalance(&Balance{Tick: "ordi"})
	require.NoError(t, err)

	_, err = DecodeBalance(data[:len(data)-1])
	assert.ErrorIs(t, err, ErrTruncated)

	_, err = DecodeBalance(append(append([]byte{}, data...), 0x00))
	assert.ErrorIs(t, err, ErrTrailingBytes)

	bad := append([]byte{}, data...)
	bad[0] = 9
	_, err = DecodeBalance(bad)
	assert.ErrorIs(t, err, ErrBadVersion)

	_, err = DecodeBalance(nil)
	assert.ErrorIs(t, err, ErrTruncated)

	// a batch claiming more entries than it carries
	_, err = DecodeTransferableLogs([]byte{recordVersion, 0xff, 0xff, 0xff, 0xff})
	assert.ErrorIs(t, err, ErrTruncated)
}
