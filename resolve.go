package main

import "github.com/charmbracelet/log"

// resolvePlayers draws the current round and maps each player's discord id
// to the player they give a gift to. With fewer than conf.MinPlayers
// players everyone maps to an empty Player.
func resolvePlayers(store *Store, conf Config) (map[string]Player, error) {
	players, err := store.Players()
	if err != nil {
		return nil, err
	}
	a := make(map[string]Player, len(players))

	// prevent shuffle crashes
	if len(players) < conf.MinPlayers {
		for _, p := range players {
			a[p.DiscordId] = Player{}
		}
		return a, nil
	}

	last, err := store.LatestAssignments()
	if err != nil {
		return nil, err
	}
	prior := priorIndices(players, last)

	shuffled, err := ShufflePlayers(players, conf.Seed, prior, conf.MaxAttempts)
	if err != nil {
		return nil, err
	}
	for i, p := range players {
		a[p.DiscordId] = shuffled[i]
	}
	log.Debug("Resolved players", "players", len(players), "avoidingPrior", prior != nil)
	return a, nil
}

// priorIndices turns last round's giver to receiver ids into the index each
// player drew, or -1 for pairs that no longer exist. It returns nil when no
// current player has a prior pair.
func priorIndices(players []Player, last map[string]string) []int {
	if len(last) == 0 {
		return nil
	}
	index := make(map[string]int, len(players))
	for i, p := range players {
		index[p.DiscordId] = i
	}

	prior := make([]int, len(players))
	found := false
	for i, p := range players {
		prior[i] = -1
		if j, ok := index[last[p.DiscordId]]; ok {
			prior[i] = j
			found = true
		}
	}
	if !found {
		return nil
	}
	return prior
}

// archiveCurrentRound resolves the current draw and stores it as a round.
func archiveCurrentRound(store *Store, conf Config) error {
	resolved, err := resolvePlayers(store, conf)
	if err != nil {
		return err
	}
	assign := make(map[string]string, len(resolved))
	for giver, receiver := range resolved {
		if receiver.DiscordId == "" {
			continue
		}
		assign[giver] = receiver.DiscordId
	}
	if len(assign) == 0 {
		log.Warn("Not enough players to archive a round", "players", len(resolved), "minPlayers", conf.MinPlayers)
		return nil
	}
	id, err := store.ArchiveRound(assign)
	if err != nil {
		return err
	}
	log.Info("Archived round", "round", id, "pairs", len(assign))
	return nil
}
