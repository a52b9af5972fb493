// Package shuffle produces random permutations of track sequences.
package shuffle

import "math/rand/v2"

// Source is the randomness a shuffle draws from. *rand.Rand satisfies it.
type Source interface {
	IntN(n int) int
}

type globalSource struct{}

func (globalSource) IntN(n int) int { return rand.IntN(n) }

// Default draws from the process-wide generator.
func Default() Source {
	return globalSource{}
}

// Slice returns a Fisher-Yates permutation of a copy of in. in is left untouched.
// A nil source falls back to Default.
func Slice[T any](in []T, r Source) []T {
	if r == nil {
		r = Default()
	}

	out := make([]T, len(in))
	copy(out, in)

	for i := len(out) - 1; i > 0; i-- {
		j := r.IntN(i + 1)
		out[i], out[j] = out[j], out[i]
	}

	return out
}
