// internal/records/records.go
//
// Ledger of solved riddles.
// Responsibilities:
//   - Insert one row per solve (uuid id, counters, points, timestamps).
//   - Top N by points (ties: earliest solve first) and the running total.
//
// The ledger is a results log only; sessions are never restored from it.

package records

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/robalobadob/riddler/internal/game"
)

// Record is one solved riddle.
type Record struct {
	ID         string          `json:"id"`
	Difficulty game.Difficulty `json:"difficulty"`
	Attempts   int             `json:"attempts"`
	HintsUsed  int             `json:"hintsUsed"`
	Points     int             `json:"points"`
	Riddle     string          `json:"riddle"`
	StartedAt  time.Time       `json:"startedAt"`
	SolvedAt   time.Time       `json:"solvedAt"`
}

// FromSession builds the record for a session that was just solved.
func FromSession(s *game.Session, points int, solvedAt time.Time) Record {
	return Record{
		Difficulty: s.Difficulty,
		Attempts:   s.Attempts,
		HintsUsed:  s.HintsUsed,
		Points:     points,
		Riddle:     s.CurrentRiddle,
		StartedAt:  s.StartedAt,
		SolvedAt:   solvedAt.UTC(),
	}
}

// Store is the SQLite-backed ledger.
type Store struct{ db *sql.DB }

// Open opens the ledger at path and applies pending migrations.
func Open(path string) (*Store, error) {
	db, err := openDB(path)
	if err != nil {
		return nil, errors.Wrapf(err, "records: open %s", path)
	}
	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "records: migrate")
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Insert appends r, assigning an ID when it has none.
func (s *Store) Insert(ctx context.Context, r Record) (Record, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO solved_riddles
			(id, difficulty, attempts, hints_used, points, riddle, started_at, solved_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, int(r.Difficulty), r.Attempts, r.HintsUsed, r.Points, r.Riddle,
		r.StartedAt.UTC().Format(time.RFC3339Nano), r.SolvedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return Record{}, errors.Wrap(err, "records: insert")
	}
	return r, nil
}

// Top returns the best solves, highest points first, earliest first on ties.
// A non-positive limit means 20.
func (s *Store) Top(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, difficulty, attempts, hints_used, points, riddle, started_at, solved_at
		FROM solved_riddles
		ORDER BY points DESC, solved_at ASC
		LIMIT ?`, limit)
	if err != nil {
		return nil, errors.Wrap(err, "records: query")
	}
	defer rows.Close()

	out := make([]Record, 0, limit)
	for rows.Next() {
		var (
			r                 Record
			diff              int
			started, finished string
		)
		if err := rows.Scan(&r.ID, &diff, &r.Attempts, &r.HintsUsed, &r.Points, &r.Riddle, &started, &finished); err != nil {
			return nil, errors.Wrap(err, "records: scan")
		}
		r.Difficulty = game.Difficulty(diff)
		if r.StartedAt, err = time.Parse(time.RFC3339Nano, started); err != nil {
			return nil, errors.Wrap(err, "records: parse started_at")
		}
		if r.SolvedAt, err = time.Parse(time.RFC3339Nano, finished); err != nil {
			return nil, errors.Wrap(err, "records: parse solved_at")
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Total returns the sum of points over every solve.
func (s *Store) Total(ctx context.Context) (int, error) {
	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COALESCE(SUM(points), 0) FROM solved_riddles`).Scan(&total); err != nil {
		return 0, errors.Wrap(err, "records: total")
	}
	return total, nil
}
