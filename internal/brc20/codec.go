package brc20

import (
	"encoding/binary"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/cockroachdb/errors"
	"github.com/holiman/uint256"
)

// recordVersion prefixes every stored value.
const recordVersion = 1

const (
	sizeAmount = 16
	maxString  = 1<<16 - 1
)

var (
	ErrTruncated      = errors.New("record truncated")
	ErrTrailingBytes  = errors.New("trailing bytes after record")
	ErrBadVersion     = errors.New("unsupported record version")
	ErrBadTag         = errors.New("unknown tag")
	ErrAmountOverflow = errors.New("amount exceeds 128 bits")
	ErrStringTooLong  = errors.New("string exceeds 65535 bytes")
)

// ---------------- encoder ----------------

type encoder struct {
	buf []byte
	err error
}

func newEncoder() *encoder {
	e := &encoder{buf: make([]byte, 0, 128)}
	e.u8(recordVersion)
	return e
}

func (e *encoder) u8(v uint8) { e.buf = append(e.buf, v) }

func (e *encoder) u16(v uint16) { e.buf = binary.BigEndian.AppendUint16(e.buf, v) }

func (e *encoder) u32(v uint32) { e.buf = binary.BigEndian.AppendUint32(e.buf, v) }

func (e *encoder) u64(v uint64) { e.buf = binary.BigEndian.AppendUint64(e.buf, v) }

func (e *encoder) i64(v int64) { e.u64(uint64(v)) }

func (e *encoder) str(s string) {
	if len(s) > maxString {
		e.fail(errors.Wrapf(ErrStringTooLong, "length %d", len(s)))
		return
	}
	e.u16(uint16(len(s)))
	e.buf = append(e.buf, s...)
}

func (e *encoder) amount(v *uint256.Int) {
	if v.BitLen() > 8*sizeAmount {
		e.fail(errors.Wrapf(ErrAmountOverflow, "%s", v.Dec()))
		return
	}
	b := v.Bytes32()
	e.buf = append(e.buf, b[32-sizeAmount:]...)
}

func (e *encoder) hash(h *chainhash.Hash) { e.buf = append(e.buf, h[:]...) }

func (e *encoder) fail(err error) {
	if e.err == nil {
		e.err = err
	}
}

func (e *encoder) inscriptionId(id *InscriptionId) {
	e.hash(&id.Txid)
	e.u32(id.Index)
}

func (e *encoder) satPoint(sp *SatPoint) {
	e.hash(&sp.Outpoint.Hash)
	e.u32(sp.Outpoint.Index)
	e.u64(sp.Offset)
}

func (e *encoder) scriptKey(k *ScriptKey) {
	e.u8(uint8(k.kind))
	switch k.kind {
	case ScriptKeyHash:
		e.buf = append(e.buf, k.hash[:]...)
	default:
		e.str(k.address)
	}
}

func (e *encoder) bytes() ([]byte, error) {
	if e.err != nil {
		return nil, e.err
	}
	return e.buf, nil
}

// ---------------- decoder ----------------

// decoder keeps the first error; later reads return zero values.
type decoder struct {
	data []byte
	off  int
	err  error
}

func newDecoder(data []byte) *decoder {
	d := &decoder{data: data}
	if v := d.u8(); d.err == nil && v != recordVersion {
		d.fail(errors.Wrapf(ErrBadVersion, "got %d", v))
	}
	return d
}

func (d *decoder) fail(err error) {
	if d.err == nil {
		d.err = err
	}
}

func (d *decoder) take(n int) []byte {
	if d.err != nil {
		return nil
	}
	if n < 0 || len(d.data)-d.off < n {
		d.fail(errors.Wrapf(ErrTruncated, "need %d bytes at offset %d, have %d", n, d.off, len(d.data)-d.off))
		return nil
	}
	b := d.data[d.off : d.off+n]
	d.off += n
	return b
}

func (d *decoder) u8() uint8 {
	b := d.take(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (d *decoder) u16() uint16 {
	b := d.take(2)
	if b == nil {
		return 0
	}
	return binary.BigEndian.Uint16(b)
}

func (d *decoder) u32() uint32 {
	b := d.take(4)
	if b == nil {
		return 0
	}
	return binary.BigEndian.Uint32(b)
}

func (d *decoder) u64() uint64 {
	b := d.take(8)
	if b == nil {
		return 0
	}
	return binary.BigEndian.Uint64(b)
}

func (d *decoder) i64() int64 { return int64(d.u64()) }

func (d *decoder) str() string {
	n := d.u16()
	return string(d.take(int(n)))
}

func (d *decoder) amount(v *uint256.Int) {
	b := d.take(sizeAmount)
	if b == nil {
		return
	}
	v.SetBytes(b)
}

func (d *decoder) hash(h *chainhash.Hash) {
	copy(h[:], d.take(chainhash.HashSize))
}

func (d *decoder) inscriptionId(id *InscriptionId) {
	d.hash(&id.Txid)
	id.Index = d.u32()
}

func (d *decoder) satPoint(sp *SatPoint) {
	d.hash(&sp.Outpoint.Hash)
	sp.Outpoint.Index = d.u32()
	sp.Offset = d.u64()
}

func (d *decoder) scriptKey(k *ScriptKey) {
	kind := ScriptKeyKind(d.u8())
	switch kind {
	case ScriptKeyAddress:
		*k = ScriptKey{kind: kind, address: d.str()}
	case ScriptKeyHash:
		*k = ScriptKey{kind: kind}
		copy(k.hash[:], d.take(ScriptHashLength))
	default:
		d.fail(errors.Wrapf(ErrBadTag, "script key kind %d", kind))
	}
}

// count reads a batch length and rejects values that cannot fit in the
// remaining bytes, so a corrupt length does not trigger a huge allocation.
func (d *decoder) count(minEntrySize int) int {
	n := int(d.u32())
	if d.err == nil && n*minEntrySize > len(d.data)-d.off {
		d.fail(errors.Wrapf(ErrTruncated, "%d entries cannot fit in %d bytes", n, len(d.data)-d.off))
		return 0
	}
	return n
}

func (d *decoder) finish() error {
	if d.err == nil && d.off != len(d.data) {
		d.fail(errors.Wrapf(ErrTrailingBytes, "%d bytes", len(d.data)-d.off))
	}
	return d.err
}

// ---------------- records ----------------

func EncodeBalance(b *Balance) ([]byte, error) {
	e := newEncoder()
	e.str(string(b.Tick))
	e.amount(&b.Overall)
	e.amount(&b.Transferable)
	return e.bytes()
}

func DecodeBalance(data []byte) (*Balance, error) {
	d := newDecoder(data)
	b := new(Balance)
	b.Tick = Tick(d.str())
	d.amount(&b.Overall)
	d.amount(&b.Transferable)
	if err := d.finish(); err != nil {
		return nil, err
	}
	return b, nil
}

func EncodeTokenInfo(t *TokenInfo) ([]byte, error) {
	e := newEncoder()
	e.str(string(t.Tick))
	e.inscriptionId(&t.InscriptionId)
	e.i64(t.InscriptionNumber)
	e.amount(&t.Supply)
	e.amount(&t.Minted)
	e.amount(&t.LimitPerMint)
	e.u8(t.Decimal)
	e.scriptKey(&t.DeployBy)
	e.u64(t.DeployedNumber)
	e.u32(t.DeployedTimestamp)
	e.u64(t.LatestMintNumber)
	return e.bytes()
}

func DecodeTokenInfo(data []byte) (*TokenInfo, error) {
	d := newDecoder(data)
	t := new(TokenInfo)
	t.Tick = Tick(d.str())
	d.inscriptionId(&t.InscriptionId)
	t.InscriptionNumber = d.i64()
	d.amount(&t.Supply)
	d.amount(&t.Minted)
	d.amount(&t.LimitPerMint)
	t.Decimal = d.u8()
	d.scriptKey(&t.DeployBy)
	t.DeployedNumber = d.u64()
	t.DeployedTimestamp = d.u32()
	t.LatestMintNumber = d.u64()
	if err := d.finish(); err != nil {
		return nil, err
	}
	return t, nil
}

// inscription id + number + amount + tick length + owner kind
const minTransferableLogSize = chainhash.HashSize + 4 + 8 + sizeAmount + 2 + 1

func EncodeTransferableLogs(logs []TransferableLog) ([]byte, error) {
	e := newEncoder()
	e.u32(uint32(len(logs)))
	for i := range logs {
		l := &logs[i]
		e.inscriptionId(&l.InscriptionId)
		e.i64(l.InscriptionNumber)
		e.amount(&l.Amount)
		e.str(string(l.Tick))
		e.scriptKey(&l.Owner)
	}
	return e.bytes()
}

func DecodeTransferableLogs(data []byte) ([]TransferableLog, error) {
	d := newDecoder(data)
	n := d.count(minTransferableLogSize)
	logs := make([]TransferableLog, n)
	for i := 0; i < n && d.err == nil; i++ {
		l := &logs[i]
		d.inscriptionId(&l.InscriptionId)
		l.InscriptionNumber = d.i64()
		d.amount(&l.Amount)
		l.Tick = Tick(d.str())
		d.scriptKey(&l.Owner)
	}
	if err := d.finish(); err != nil {
		return nil, err
	}
	return logs, nil
}

const (
	resultOk  = 0
	resultErr = 1
)

// inscription id + number + two satpoints + op + two key kinds + result tag
const minReceiptSize = chainhash.HashSize + 4 + 8 + 2*(chainhash.HashSize+4+8) + 1 + 2 + 1

func EncodeReceipts(receipts []ActionReceipt) ([]byte, error) {
	e := newEncoder()
	e.u32(uint32(len(receipts)))
	for i := range receipts {
		r := &receipts[i]
		e.inscriptionId(&r.InscriptionId)
		e.i64(r.InscriptionNumber)
		e.satPoint(&r.OldSatPoint)
		e.satPoint(&r.NewSatPoint)
		e.u8(uint8(r.Op))
		e.scriptKey(&r.From)
		e.scriptKey(&r.To)
		if r.Err != "" || r.Event == nil {
			e.u8(resultErr)
			e.str(r.Err)
			continue
		}
		e.u8(resultOk)
		e.event(r.Event)
	}
	return e.bytes()
}

func (e *encoder) event(ev *Event) {
	e.u8(uint8(ev.Type))
	e.str(string(ev.Tick))
	switch ev.Type {
	case EventDeploy:
		e.amount(&ev.Supply)
		e.amount(&ev.LimitPerMint)
		e.u8(ev.Decimal)
	case EventMint, EventTransfer:
		e.amount(&ev.Amount)
		e.str(ev.Msg)
	case EventInscribeTransfer:
		e.amount(&ev.Amount)
	default:
		e.fail(errors.Wrapf(ErrBadTag, "event type %d", ev.Type))
	}
}

func DecodeReceipts(data []byte) ([]ActionReceipt, error) {
	d := newDecoder(data)
	n := d.count(minReceiptSize)
	receipts := make([]ActionReceipt, n)
	for i := 0; i < n && d.err == nil; i++ {
		r := &receipts[i]
		d.inscriptionId(&r.InscriptionId)
		r.InscriptionNumber = d.i64()
		d.satPoint(&r.OldSatPoint)
		d.satPoint(&r.NewSatPoint)
		r.Op = EventType(d.u8())
		d.scriptKey(&r.From)
		d.scriptKey(&r.To)
		switch tag := d.u8(); tag {
		case resultOk:
			r.Event = d.event()
		case resultErr:
			r.Err = d.str()
		default:
			d.fail(errors.Wrapf(ErrBadTag, "receipt result %d", tag))
		}
	}
	if err := d.finish(); err != nil {
		return nil, err
	}
	return receipts, nil
}

func (d *decoder) event() *Event {
	ev := &Event{Type: EventType(d.u8())}
	ev.Tick = Tick(d.str())
	switch ev.Type {
	case EventDeploy:
		d.amount(&ev.Supply)
		d.amount(&ev.LimitPerMint)
		ev.Decimal = d.u8()
	case EventMint, EventTransfer:
		d.amount(&ev.Amount)
		ev.Msg = d.str()
	case EventInscribeTransfer:
		d.amount(&ev.Amount)
	default:
		d.fail(errors.Wrapf(ErrBadTag, "event type %d", ev.Type))
	}
	return ev
}
