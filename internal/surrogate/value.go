package surrogate

import (
	"fmt"
	"strconv"
	"strings"
)

// Mode selects how surrogates are produced.
type Mode int

const (
	// ModeShuffle assigns sequential integers and permutes them with a seed.
	ModeShuffle Mode = iota
	// ModeHash assigns a salted, optionally truncated SHA1 digest.
	ModeHash
)

// ParseMode converts a configuration value into a Mode.
func ParseMode(value string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "shuffle", "numbers", "number":
		return ModeShuffle, nil
	case "hash", "sha1":
		return ModeHash, nil
	default:
		return ModeShuffle, fmt.Errorf("%w: %q (want shuffle or hash)", ErrInvalidMode, value)
	}
}

func (m Mode) String() string {
	switch m {
	case ModeShuffle:
		return "shuffle"
	case ModeHash:
		return "hash"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Value is the stand-in emitted for a token: an integer in shuffle mode or a
// digest string in hash mode. The zero Value renders as "0".
type Value struct {
	number int
	digest string
	hashed bool
}

// Number wraps an integer surrogate.
func Number(n int) Value { return Value{number: n} }

// Digest wraps a hash surrogate.
func Digest(s string) Value { return Value{digest: s, hashed: true} }

// Int returns the integer surrogate and whether v holds one.
func (v Value) Int() (int, bool) {
	if v.hashed {
		return 0, false
	}
	return v.number, true
}

func (v Value) String() string {
	if v.hashed {
		return v.digest
	}
	return strconv.Itoa(v.number)
}
