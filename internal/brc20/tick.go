package brc20

import (
	"encoding/hex"
	"strings"

	"github.com/cockroachdb/errors"
)

const (
	OriginalTickLength     = 4
	SelfIssuanceTickLength = 5
)

var ErrInvalidTick = errors.New("invalid tick")

// Tick is the BRC-20 token name as inscribed. Comparisons and storage keys use
// the lowercase form.
type Tick string

func NewTick(s string) (Tick, error) {
	n := len(s)
	if n != OriginalTickLength && n != SelfIssuanceTickLength {
		return "", errors.Wrapf(ErrInvalidTick, "%q is %d bytes", s, n)
	}
	return Tick(s), nil
}

func (t Tick) Lower() Tick {
	return Tick(strings.ToLower(string(t)))
}

// Hex is the lowercase hex of the lowercased tick bytes. Keys built from it
// only use the alphabet 0-9a-f.
func (t Tick) Hex() string {
	return hex.EncodeToString([]byte(t.Lower()))
}

func (t Tick) String() string {
	return string(t)
}

// Equal compares ticks case-insensitively.
func (t Tick) Equal(other Tick) bool {
	return t.Lower() == other.Lower()
}
