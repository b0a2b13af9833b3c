package hash

import (
	"github.com/cespare/xxhash/v2"
	"github.com/cockroachdb/errors"
	"github.com/mitchellh/hashstructure/v2"
)

// ErrHashInput is returned when a value cannot be hashed, either because it
// contains an unsupported kind (func, chan, unsafe pointer) or because it is
// cyclic. Check with errors.Is.
var ErrHashInput = errors.New("hash: input is not hashable")

var crockfordAlphabet = []byte("0123456789abcdefghjkmnpqrstvwxyz")

// encodedLen is the number of base32 characters needed to render a uint64.
const encodedLen = 13

// Hasher computes short, deterministic identifiers for structured values.
// The zero value is usable; a salt only namespaces hashes between independent
// cache instances and never varies within one process configuration.
type Hasher struct {
	salt string
}

// New returns a Hasher using the given salt.
func New(salt string) Hasher {
	return Hasher{salt: salt}
}

// Hash computes a stable identifier for value. Structurally equal values hash
// identically across calls and across process runs; map key order is ignored.
// Values containing funcs, chans, unsafe pointers, or reference cycles return
// an error wrapping ErrHashInput.
func (h Hasher) Hash(value any) (string, error) {
	if err := validate(value); err != nil {
		return "", err
	}
	sum, err := hashstructure.Hash([2]any{h.salt, value}, hashstructure.FormatV2, &hashstructure.HashOptions{
		Hasher: xxhash.New(),
	})
	if err != nil {
		return "", errors.WithDetail(ErrHashInput, err.Error())
	}
	return encode(sum), nil
}

// Hash computes a stable identifier for value using an unsalted Hasher.
func Hash(value any) (string, error) {
	return Hasher{}.Hash(value)
}

// encode renders a uint64 as lowercase Crockford base32, most significant
// bits first.
func encode(v uint64) string {
	var out [encodedLen]byte
	for i := encodedLen - 1; i >= 0; i-- {
		out[i] = crockfordAlphabet[v&31]
		v >>= 5
	}
	return string(out[:])
}
