package brc20

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/cockroachdb/errors"
)

var ErrInvalidInscriptionId = errors.New("invalid inscription id")

type InscriptionId struct {
	Txid  chainhash.Hash
	Index uint32
}

func ParseInscriptionId(s string) (InscriptionId, error) {
	sep := strings.LastIndexByte(s, 'i')
	if sep != chainhash.MaxHashStringSize {
		return InscriptionId{}, errors.Wrapf(ErrInvalidInscriptionId, "%q", s)
	}
	txid, err := chainhash.NewHashFromStr(s[:sep])
	if err != nil {
		return InscriptionId{}, errors.Wrapf(ErrInvalidInscriptionId, "%q: %v", s, err)
	}
	index, err := strconv.ParseUint(s[sep+1:], 10, 32)
	if err != nil {
		return InscriptionId{}, errors.Wrapf(ErrInvalidInscriptionId, "%q: %v", s, err)
	}
	return InscriptionId{Txid: *txid, Index: uint32(index)}, nil
}

func (id InscriptionId) String() string {
	return fmt.Sprintf("%si%d", id.Txid, id.Index)
}

func (id InscriptionId) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// SatPoint locates a single sat: an outpoint and the offset inside it.
type SatPoint struct {
	Outpoint wire.OutPoint
	Offset   uint64
}

func (sp SatPoint) String() string {
	return fmt.Sprintf("%s:%d", sp.Outpoint, sp.Offset)
}

func (sp SatPoint) MarshalText() ([]byte, error) {
	return []byte(sp.String()), nil
}
