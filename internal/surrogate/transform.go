package surrogate

import (
	"fmt"
	"math/bits"
	"math/rand/v2"
)

// shuffleStream fixes the PCG stream so the permutation depends on the seed alone.
const shuffleStream = 0x9e3779b97f4a7c15

// Shuffle returns a snapshot whose integer surrogates are a seeded permutation
// of the integers currently assigned, reassigned by arena row. The same seed
// and the same discovery order always yield the same mapping.
func Shuffle(t *Table, seed int64) (*Table, error) {
	if t.mode != ModeShuffle {
		return nil, fmt.Errorf("shuffle %s table: %w", t.mode, ErrModeMismatch)
	}

	values := make([]Value, len(t.entries))
	for i, e := range t.entries {
		values[i] = e.Surrogate
	}
	permute(values, seed)

	next := t.Clone()
	for i := range next.entries {
		next.entries[i].Surrogate = values[i]
	}
	return next, nil
}

// permute is a Fisher-Yates shuffle over a PCG source. Bounded draws use
// Lemire's multiply-and-reject method locally so the sequence does not depend
// on math/rand helpers whose algorithms may change between releases.
func permute(values []Value, seed int64) {
	src := rand.NewPCG(uint64(seed), shuffleStream)
	for i := len(values) - 1; i > 0; i-- {
		j := boundedDraw(src, uint64(i+1))
		values[i], values[j] = values[j], values[i]
	}
}

func boundedDraw(src *rand.PCG, n uint64) uint64 {
	hi, lo := bits.Mul64(src.Uint64(), n)
	if lo < n {
		threshold := -n % n
		for lo < threshold {
			hi, lo = bits.Mul64(src.Uint64(), n)
		}
	}
	return hi
}
