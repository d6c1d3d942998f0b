// Package nshuffle provides shuffles whose result leaves no value in its
// original position. It is meant for Secret Santa style draws, where nobody
// may draw their own name, but works with a slice of any comparable type.
//
// Both shuffles use rejection sampling: the whole slice is shuffled by the
// Rand source and the result is rejected if any position still holds an
// equal value. Inputs for which no such permutation exists (a single
// element, for example) are not detected; with the default options the call
// never returns. Use WithMaxAttempts or WithContext to bound it.
package nshuffle

import (
	"errors"
	"fmt"
)

var (
	// ErrExhausted is returned when the attempt budget or the context ends
	// before a valid permutation was drawn.
	ErrExhausted = errors.New("nshuffle: no valid permutation found")
	// ErrLengthMismatch is returned by ExtendedShuffle when source and prior
	// differ in length.
	ErrLengthMismatch = errors.New("nshuffle: source and prior lengths differ")
)

// Shuffle returns a copy of s shuffled so that no index holds a value equal
// to the value of s at that index.
func Shuffle[T comparable](r Rand, s []T, opts ...Option) ([]T, error) {
	return draw(r, s, func(v []T) bool { return anyEqual(v, s) }, opts)
}

// ExtendedShuffle returns a copy of s shuffled so that no index holds a
// value equal to s or to p at that index. It is used to stop anyone drawing
// the same name as in the previous round.
func ExtendedShuffle[T comparable](r Rand, s, p []T, opts ...Option) ([]T, error) {
	if len(s) != len(p) {
		return nil, fmt.Errorf("%w: %d != %d", ErrLengthMismatch, len(s), len(p))
	}
	return draw(r, s, func(v []T) bool { return anyEqual2(v, s, p) }, opts)
}

func draw[T comparable](r Rand, s []T, bad func([]T) bool, opts []Option) ([]T, error) {
	o := newOptions(opts)
	v := make([]T, len(s))
	copy(v, s)

	for attempts := 0; bad(v); attempts++ {
		if o.maxAttempts > 0 && attempts >= o.maxAttempts {
			return nil, fmt.Errorf("%w after %d attempts", ErrExhausted, attempts)
		}
		if err := o.ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w after %d attempts: %w", ErrExhausted, attempts, err)
		}
		r.Shuffle(len(v), func(i, j int) {
			v[i], v[j] = v[j], v[i]
		})
	}
	return v, nil
}

func anyEqual[T comparable](a, b []T) bool {
	for i := range a {
		if a[i] == b[i] {
			return true
		}
	}
	return false
}

func anyEqual2[T comparable](a, b, c []T) bool {
	for i := range a {
		if a[i] == b[i] || a[i] == c[i] {
			return true
		}
	}
	return false
}
