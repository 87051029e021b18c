package extract

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
)

// orderCodePrefix tags every generated order code.
const orderCodePrefix = "DH-"

// DeriveOrderCode produces the stable identifier for a logical order
// from its normalized date and customer name. The code is a fixed
// 8-hex-digit prefix of the md5 digest of the lowercased pair, so
// identical pairs always reproduce the identical code across runs.
// Collisions between distinct pairs are a tolerated risk at this width.
func DeriveOrderCode(date, customer string) string {
	combined := strings.ToLower(date + "-" + customer)
	sum := md5.Sum([]byte(combined))
	return orderCodePrefix + strings.ToUpper(hex.EncodeToString(sum[:])[:8])
}

// KeyIndex maps (normalized date, normalized customer) pairs to order
// codes within a single extraction pass. It exists so order-code reuse
// is scoped to the pass instead of living in process-wide state.
type KeyIndex struct {
	codes map[string]string
}

// NewKeyIndex returns an empty index for one extraction pass.
func NewKeyIndex() *KeyIndex {
	return &KeyIndex{codes: make(map[string]string)}
}

// Resolve returns the order code for the pair, deriving and memoizing
// it on first sight.
func (ix *KeyIndex) Resolve(date, customer string) string {
	key := date + "-" + customer
	if code, ok := ix.codes[key]; ok {
		return code
	}
	code := DeriveOrderCode(date, customer)
	ix.codes[key] = code
	return code
}

// Len reports how many distinct orders the pass has seen.
func (ix *KeyIndex) Len() int {
	return len(ix.codes)
}
