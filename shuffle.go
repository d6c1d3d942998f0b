package main

import (
	"errors"

	"github.com/ProsperityMC/santa-shuffle/nshuffle"
	"github.com/charmbracelet/log"
)

// priorAttempts bounds the draw avoiding last round's pairs when the config
// leaves maxAttempts unbounded, since that draw may have no solution.
const priorAttempts = 10000

// countingRand counts the permutations drawn through it.
type countingRand struct {
	r     nshuffle.Rand
	draws int
}

func (c *countingRand) Shuffle(n int, swap func(i, j int)) {
	c.draws++
	c.r.Shuffle(n, swap)
}

// AssignIndices returns a permutation of [0,n) where nobody gets their own
// index. When prior is set, index i also never gets prior[i] unless no such
// permutation was found within the attempt budget, in which case the prior
// round is ignored. maxAttempts <= 0 leaves the plain draw unbounded, the
// draw avoiding prior is always bounded.
func AssignIndices(r nshuffle.Rand, n int, prior []int, maxAttempts int) ([]int, error) {
	a := make([]int, n)
	for i := range a {
		a[i] = i
	}
	c := &countingRand{r: r}

	if prior != nil {
		limit := maxAttempts
		if limit <= 0 {
			limit = priorAttempts
		}
		s, err := nshuffle.ExtendedShuffle(c, a, prior, nshuffle.WithMaxAttempts(limit))
		if err == nil {
			log.Debug("Drew round avoiding last round", "players", n, "attempts", c.draws)
			return s, nil
		}
		if !errors.Is(err, nshuffle.ErrExhausted) {
			return nil, err
		}
		log.Warn("Could not avoid last round's pairs, drawing without them", "players", n, "attempts", c.draws, "err", err)
		c.draws = 0
	}

	s, err := nshuffle.Shuffle(c, a, nshuffle.WithMaxAttempts(maxAttempts))
	if err != nil {
		return nil, err
	}
	log.Debug("Drew round", "players", n, "attempts", c.draws)
	return s, nil
}

// ShufflePlayers returns the player each entry of a has to give a gift to.
// prior holds the index each player drew in the previous round or -1.
func ShufflePlayers(a []Player, seed int64, prior []int, maxAttempts int) ([]Player, error) {
	l := len(a)
	n, err := AssignIndices(nshuffle.NewSeeded(seed), l, prior, maxAttempts)
	if err != nil {
		return nil, err
	}
	b := make([]Player, l)
	for i := range b {
		b[i] = a[n[i]]
	}
	return b, nil
}
