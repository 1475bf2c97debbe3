package records

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Game modes.
const (
	ModeNormal = "normal"
	ModeDaily  = "daily"
)

// ErrGameNotFound is returned by RecordTurn when no game with that id
// belongs to the owner.
var ErrGameNotFound = errors.New("game not found")

// Owner identifies who a game row belongs to: a signed-in user or an
// anonymous cookie id. A new row gets exactly one of them. When matching
// existing rows both may be set, and either one matching is enough.
type Owner struct {
	UserID      string
	AnonymousID string
}

// GameRow is a stored game summary. Only outcome metrics are kept; the
// secret and the candidate set are never written.
type GameRow struct {
	ID              string  `json:"id"`
	Mode            string  `json:"mode"`
	Status          string  `json:"status"`
	Attempts        int     `json:"attempts"`
	Possibilities   int     `json:"possibilities"`
	InformationGain float64 `json:"informationGain"`
	StartedAt       string  `json:"startedAt"`
	FinishedAt      string  `json:"finishedAt,omitempty"`
}

// Key collapses the owner to a single player id.
func (o Owner) Key() string {
	if o.UserID != "" {
		return o.UserID
	}
	return o.AnonymousID
}

// Keys lists every non-empty id of the owner, user first.
func (o Owner) Keys() []string {
	var keys []string
	for _, k := range []string{o.UserID, o.AnonymousID} {
		if k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// StartGame inserts the summary row for a new session and counts it for the user.
func (s *Store) StartGame(ctx context.Context, id, mode string, owner Owner, startedAt time.Time) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO games (id, user_id, anonymous_id, mode, status, started_at) VALUES (?,?,?,?,?,?)`,
		id, nullable(owner.UserID), nullable(owner.AnonymousID), mode, "awaiting_guess",
		startedAt.UTC().Format(time.RFC3339)); err != nil {
		return err
	}
	if owner.UserID != "" {
		if _, err := tx.ExecContext(ctx,
			`UPDATE users SET games_played = games_played + 1 WHERE id=?`, owner.UserID); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// RecordTurn updates the running summary after an accepted guess. Only a
// row owned by owner is touched; otherwise ErrGameNotFound. When won, the
// game is closed and the owning user's wins/best are bumped.
func (s *Store) RecordTurn(ctx context.Context, id string, owner Owner, attempts, possibilities int, gain float64, won bool) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	const owned = ` WHERE id=? AND (user_id=? OR anonymous_id=?)`
	uid, aid := nullable(owner.UserID), nullable(owner.AnonymousID)

	res, err := tx.ExecContext(ctx,
		`UPDATE games SET attempts=?, possibilities=?, information_gain=?`+owned,
		attempts, possibilities, gain, id, uid, aid)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return ErrGameNotFound
	}
	if won {
		if _, err := tx.ExecContext(ctx, `UPDATE games SET status='won', finished_at=?`+owned,
			time.Now().UTC().Format(time.RFC3339), id, uid, aid); err != nil {
			return err
		}
		var userID sql.NullString
		if err := tx.QueryRowContext(ctx, `SELECT user_id FROM games WHERE id=?`, id).Scan(&userID); err != nil {
			return err
		}
		if userID.Valid {
			if _, err := tx.ExecContext(ctx,
				`UPDATE users SET wins = wins + 1,
				 best_attempts = CASE WHEN best_attempts IS NULL OR best_attempts > ? THEN ? ELSE best_attempts END
				 WHERE id=?`, attempts, attempts, userID.String); err != nil {
				return err
			}
		}
	}
	return tx.Commit()
}

// ClaimAnonGames transfers anonymous games to a user account after auth.
func (s *Store) ClaimAnonGames(ctx context.Context, anonID, userID string) error {
	if anonID == "" || userID == "" {
		return nil
	}
	_, err := s.db.ExecContext(ctx, `UPDATE games SET user_id=?, anonymous_id=NULL WHERE anonymous_id=?`, userID, anonID)
	return err
}

// GamesByUser returns the user's most recent games.
func (s *Store) GamesByUser(ctx context.Context, userID string, limit int) ([]GameRow, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, mode, status, attempts, possibilities, information_gain, started_at, COALESCE(finished_at,'')
		 FROM games WHERE user_id=? ORDER BY started_at DESC LIMIT ?`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []GameRow{}
	for rows.Next() {
		var g GameRow
		if err := rows.Scan(&g.ID, &g.Mode, &g.Status, &g.Attempts, &g.Possibilities,
			&g.InformationGain, &g.StartedAt, &g.FinishedAt); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}
