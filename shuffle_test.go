package main

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"testing"
	"time"

	"github.com/ProsperityMC/santa-shuffle/nshuffle"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/require"
)

func isInvalid(t *testing.T, a []int) {
	t.Helper()
	if hasDuplicates(a) {
		t.Log(a)
		t.Fatal("List has duplicates")
	}
	if i, y := hasSamePosition(a); y {
		t.Log(a)
		t.Fatalf("Number %d should not stay in the same position", i)
	}
}

func hasDuplicates(a []int) bool {
	b := make([]int, len(a))
	for i := range a {
		b[a[i]]++
		if b[a[i]] > 1 {
			return true
		}
	}
	return false
}

func hasSamePosition(a []int) (int, bool) {
	for k, v := range a {
		if k == v {
			return k, true
		}
	}
	return 0, false
}

func TestAssignIndices(t *testing.T) {
	for i := int64(0); i < math.MaxInt16; i++ {
		t.Run(fmt.Sprint(i), func(t *testing.T) {
			a, err := AssignIndices(nshuffle.NewSeeded(i), 16, nil, 0)
			require.NoError(t, err)
			isInvalid(t, a)
		})
	}
}

func FuzzAssignIndices(f *testing.F) {
	f.Fuzz(func(t *testing.T, seed int64) {
		a, err := AssignIndices(nshuffle.NewSeeded(seed), 16, nil, 0)
		require.NoError(t, err)
		isInvalid(t, a)
	})
}

func TestAssignIndicesAvoidsPrior(t *testing.T) {
	prior := []int{1, 2, 3, 4, 0}
	for seed := int64(0); seed < 500; seed++ {
		a, err := AssignIndices(nshuffle.NewSeeded(seed), 5, prior, 0)
		require.NoError(t, err)
		isInvalid(t, a)
		for i := range a {
			require.NotEqual(t, prior[i], a[i], "index %d drew the same as last round", i)
		}
	}
}

func TestAssignIndicesFallsBack(t *testing.T) {
	// two players can only swap, which is what they did last round
	a, err := AssignIndices(nshuffle.NewSeeded(1), 2, []int{1, 0}, 20)
	require.NoError(t, err)
	require.Equal(t, []int{1, 0}, a)
}

func TestAssignIndicesUnboundedFallsBack(t *testing.T) {
	done := make(chan []int, 1)
	go func() {
		a, err := AssignIndices(nshuffle.NewSeeded(1), 2, []int{1, 0}, 0)
		if err != nil {
			t.Error(err)
		}
		done <- a
	}()

	select {
	case a := <-done:
		require.Equal(t, []int{1, 0}, a)
	case <-time.After(10 * time.Second):
		t.Fatal("drawing around an impossible prior round did not return")
	}
}

func TestAssignIndicesLogsAttempts(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	log.SetLevel(log.DebugLevel)
	t.Cleanup(func() {
		log.SetOutput(os.Stderr)
		log.SetLevel(log.InfoLevel)
	})

	_, err := AssignIndices(nshuffle.NewSeeded(3), 6, nil, 0)
	require.NoError(t, err)
	_, err = AssignIndices(nshuffle.NewSeeded(3), 2, []int{1, 0}, 5)
	require.NoError(t, err)

	out := buf.String()
	require.Contains(t, out, "Drew round")
	require.Contains(t, out, "attempts=5")
	require.Contains(t, out, "Could not avoid last round's pairs")
}

func TestAssignIndicesExhausted(t *testing.T) {
	_, err := AssignIndices(nshuffle.NewSeeded(1), 1, nil, 20)
	require.ErrorIs(t, err, nshuffle.ErrExhausted)
}

func TestShufflePlayers(t *testing.T) {
	players := []Player{
		{DiscordId: "1", PlayerData: PlayerData{DiscordUser: "alice", McUser: "Alice"}},
		{DiscordId: "2", PlayerData: PlayerData{DiscordUser: "bob", McUser: "Bob"}},
		{DiscordId: "3", PlayerData: PlayerData{DiscordUser: "carol", McUser: "Carol"}},
		{DiscordId: "4", PlayerData: PlayerData{DiscordUser: "dave", McUser: "Dave"}},
	}
	a, err := ShufflePlayers(players, 1234, nil, 0)
	require.NoError(t, err)
	require.ElementsMatch(t, players, a)
	for i := range players {
		require.NotEqual(t, players[i], a[i])
	}

	b, err := ShufflePlayers(players, 1234, nil, 0)
	require.NoError(t, err)
	require.Equal(t, a, b, "the same seed must give the same round")
}
