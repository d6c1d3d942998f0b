package main

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

type PlayerData struct {
	DiscordUser string
	McUser      string
}

// Player is a registered player in registration order.
type Player struct {
	DiscordId string
	PlayerData
}

type Store struct {
	db *sql.DB
}

const schema = `CREATE TABLE IF NOT EXISTS players
(
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    mc_user      TEXT UNIQUE NOT NULL,
    discord_id   TEXT UNIQUE NOT NULL,
    discord_user TEXT UNIQUE NOT NULL
);
CREATE TABLE IF NOT EXISTS rounds
(
    id         TEXT PRIMARY KEY,
    created_at DATETIME NOT NULL
);
CREATE TABLE IF NOT EXISTS assignments
(
    round_id    TEXT NOT NULL REFERENCES rounds (id),
    giver_id    TEXT NOT NULL,
    receiver_id TEXT NOT NULL,
    PRIMARY KEY (round_id, giver_id)
);`

func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	// keeps ":memory:" databases alive across calls
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialise database: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) AddPlayer(discordId string, data PlayerData) error {
	_, err := s.db.Exec(`INSERT INTO players (mc_user, discord_id, discord_user) VALUES (?, ?, ?)`, data.McUser, discordId, data.DiscordUser)
	return err
}

func (s *Store) Players() ([]Player, error) {
	rows, err := s.db.Query("SELECT discord_id, discord_user, mc_user FROM players ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	players := make([]Player, 0)
	for rows.Next() {
		var p Player
		if err := rows.Scan(&p.DiscordId, &p.DiscordUser, &p.McUser); err != nil {
			return nil, err
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

// ArchiveRound stores a finished draw as a new round so the next draw can
// avoid repeating its pairs. assign maps giver to receiver discord ids.
func (s *Store) ArchiveRound(assign map[string]string) (uuid.UUID, error) {
	id := uuid.New()
	tx, err := s.db.Begin()
	if err != nil {
		return uuid.Nil, err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`INSERT INTO rounds (id, created_at) VALUES (?, ?)`, id.String(), time.Now().UTC()); err != nil {
		return uuid.Nil, err
	}
	for giver, receiver := range assign {
		if _, err := tx.Exec(`INSERT INTO assignments (round_id, giver_id, receiver_id) VALUES (?, ?, ?)`, id.String(), giver, receiver); err != nil {
			return uuid.Nil, err
		}
	}
	return id, tx.Commit()
}

// LatestAssignments returns the giver to receiver pairs of the newest round,
// or an empty map before the first round is archived.
func (s *Store) LatestAssignments() (map[string]string, error) {
	a := make(map[string]string)
	var round string
	err := s.db.QueryRow(`SELECT id FROM rounds ORDER BY created_at DESC, rowid DESC LIMIT 1`).Scan(&round)
	if errors.Is(err, sql.ErrNoRows) {
		return a, nil
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(`SELECT giver_id, receiver_id FROM assignments WHERE round_id = ?`, round)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var giver, receiver string
		if err := rows.Scan(&giver, &receiver); err != nil {
			return nil, err
		}
		a[giver] = receiver
	}
	return a, rows.Err()
}
