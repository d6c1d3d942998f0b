package nshuffle

import (
	"math/rand"
	"sync"
)

// Rand is a source of uniformly random permutations. *rand.Rand from both
// math/rand and math/rand/v2 satisfy it.
//
// A Rand is used by one call at a time; wrap it with Locked to share it
// between goroutines.
type Rand interface {
	Shuffle(n int, swap func(i, j int))
}

// NewSeeded returns a deterministic Rand. Two sources with the same seed
// produce the same results.
func NewSeeded(seed int64) Rand {
	return rand.New(rand.NewSource(seed))
}

type lockedRand struct {
	mu sync.Mutex
	r  Rand
}

// Locked wraps r so it can be shared between goroutines.
func Locked(r Rand) Rand {
	return &lockedRand{r: r}
}

func (l *lockedRand) Shuffle(n int, swap func(i, j int)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.r.Shuffle(n, swap)
}
