package dbpebble

import (
	"bytes"
	"encoding/hex"
	"math/rand"
	"reflect"
	"testing"
	"testing/quick"

	"github.com/stretchr/testify/assert"
)

// genOwner builds a non-empty owner string without the separator byte.
type genOwner string

func (genOwner) Generate(r *rand.Rand, size int) reflect.Value {
	n := 1 + r.Intn(size+1)
	b := make([]byte, n)
	for i := range b {
		// owners are printable address or hex strings; sharing prefixes
		// between generated owners is what the test needs, so keep the
		// alphabet small
		b[i] = "abc0123xyz"[r.Intn(10)]
	}
	return reflect.ValueOf(genOwner(b))
}

type genTickHex string

func (genTickHex) Generate(r *rand.Rand, _ int) reflect.Value {
	n := 4 + r.Intn(2)
	b := make([]byte, n)
	r.Read(b)
	return reflect.ValueOf(genTickHex(hex.EncodeToString(b)))
}

func inRange(k, lb, ub []byte) bool {
	return bytes.Compare(lb, k) <= 0 && bytes.Compare(k, ub) < 0
}

func TestScriptTickBoundsContainOwnKeys(t *testing.T) {
	f := func(o genOwner, t1, t2 genTickHex) bool {
		lb, ub := minScriptTickKey(string(o)), maxScriptTickKey(string(o))
		k1 := scriptTickKey(string(o), string(t1))
		k2 := scriptTickKey(string(o), string(t2))
		if !inRange(k1, lb, ub) || !inRange(k2, lb, ub) {
			return false
		}
		// key order follows tick order
		return bytes.Compare(k1, k2) == bytes.Compare([]byte(t1), []byte(t2))
	}
	assert.NoError(t, quick.Check(f, &quick.Config{MaxCount: 2000}))
}

func TestScriptTickBoundsExcludeOtherOwners(t *testing.T) {
	f := func(o1, o2 genOwner, tick genTickHex) bool {
		if o1 == o2 {
			return true
		}
		lb, ub := minScriptTickKey(string(o1)), maxScriptTickKey(string(o1))
		return !inRange(scriptTickKey(string(o2), string(tick)), lb, ub)
	}
	assert.NoError(t, quick.Check(f, &quick.Config{MaxCount: 5000}))
}

func TestScriptTickBoundsPrefixOwners(t *testing.T) {
	lb, ub := minScriptTickKey("abc"), maxScriptTickKey("abc")
	for _, other := range []string{"ab", "abc0", "abcd", "abd", "aba"} {
		k := scriptTickKey(other, "6f726469")
		assert.False(t, inRange(k, lb, ub), "key of %q inside range of abc", other)
	}
	assert.True(t, inRange(scriptTickKey("abc", ""), lb, ub))
	assert.True(t, inRange(scriptTickKey("abc", "ffffffffff"), lb, ub))
}

func TestTickKeyIsCaseInsensitive(t *testing.T) {
	assert.Equal(t, TickKey("ORDI"), TickKey("ordi"))
	assert.Equal(t, []byte("6f726469"), TickKey("OrDi"))
}

func TestSplitScriptTickKey(t *testing.T) {
	f := func(o genOwner, tick genTickHex) bool {
		owner, tickHex, ok := SplitScriptTickKey(scriptTickKey(string(o), string(tick)))
		return ok && owner == string(o) && tickHex == string(tick)
	}
	assert.NoError(t, quick.Check(f, nil))

	_, _, ok := SplitScriptTickKey([]byte("\x00abcd"))
	assert.False(t, ok)
	_, _, ok = SplitScriptTickKey([]byte("noseparator"))
	assert.False(t, ok)
}
