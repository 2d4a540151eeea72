package brc20

import (
	"encoding/hex"
	"strings"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"
	"github.com/cockroachdb/errors"
)

var ErrInvalidScriptKey = errors.New("invalid script key")

const ScriptHashLength = 20

type ScriptKeyKind uint8

const (
	ScriptKeyAddress ScriptKeyKind = iota
	ScriptKeyHash
)

// ScriptKey identifies the owner of a balance. Outputs that resolve to a
// standard address are keyed by the address, everything else by the hash160
// of the script.
type ScriptKey struct {
	kind    ScriptKeyKind
	address string
	hash    [ScriptHashLength]byte
}

// NewAddressScriptKey wraps an already encoded address. The string is not
// checked against a network.
func NewAddressScriptKey(address string) (ScriptKey, error) {
	if address == "" || strings.IndexByte(address, 0x00) >= 0 {
		return ScriptKey{}, errors.Wrapf(ErrInvalidScriptKey, "address %q", address)
	}
	return ScriptKey{kind: ScriptKeyAddress, address: address}, nil
}

func NewScriptHashKey(hash [ScriptHashLength]byte) ScriptKey {
	return ScriptKey{kind: ScriptKeyHash, hash: hash}
}

// ScriptKeyFromScript derives the owner key of an output script.
func ScriptKeyFromScript(pkScript []byte, params *chaincfg.Params) ScriptKey {
	class, addrs, _, err := txscript.ExtractPkScriptAddrs(pkScript, params)
	if err == nil && len(addrs) == 1 {
		switch class {
		case txscript.PubKeyHashTy, txscript.ScriptHashTy,
			txscript.WitnessV0PubKeyHashTy, txscript.WitnessV0ScriptHashTy,
			txscript.WitnessV1TaprootTy:
			return ScriptKey{kind: ScriptKeyAddress, address: addrs[0].EncodeAddress()}
		}
	}
	var h [ScriptHashLength]byte
	copy(h[:], btcutil.Hash160(pkScript))
	return NewScriptHashKey(h)
}

// ParseScriptKey reads the textual form produced by String: an address valid
// for params, or 40 hex characters of a script hash.
func ParseScriptKey(s string, params *chaincfg.Params) (ScriptKey, error) {
	if addr, err := btcutil.DecodeAddress(s, params); err == nil && addr.IsForNet(params) {
		return ScriptKey{kind: ScriptKeyAddress, address: addr.EncodeAddress()}, nil
	}
	if len(s) == hex.EncodedLen(ScriptHashLength) {
		raw, err := hex.DecodeString(s)
		if err == nil {
			var h [ScriptHashLength]byte
			copy(h[:], raw)
			return NewScriptHashKey(h), nil
		}
	}
	return ScriptKey{}, errors.Wrapf(ErrInvalidScriptKey, "%q is neither an address nor a script hash", s)
}

func (k ScriptKey) Kind() ScriptKeyKind {
	return k.kind
}

func (k ScriptKey) IsZero() bool {
	return k.kind == ScriptKeyAddress && k.address == ""
}

func (k ScriptKey) String() string {
	if k.kind == ScriptKeyHash {
		return hex.EncodeToString(k.hash[:])
	}
	return k.address
}

func (k ScriptKey) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}
