package persist

import (
	"context"
	"fmt"
	"time"

	"github.com/l1jgo/arena/internal/core/clock"
)

// ProfileRepo stores per-system timing samples grouped into runs.
type ProfileRepo struct {
	db *DB
}

func NewProfileRepo(db *DB) *ProfileRepo {
	return &ProfileRepo{db: db}
}

// StartRun opens a new run and returns its id.
func (r *ProfileRepo) StartRun(ctx context.Context, label string, tick time.Duration) (int64, error) {
	var id int64
	err := r.db.Pool.QueryRow(ctx,
		`INSERT INTO profile_runs (label, tick_us) VALUES ($1, $2) RETURNING id`,
		label, tick.Microseconds(),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("start profile run: %w", err)
	}
	return id, nil
}

// SaveSamples writes one flush worth of samples atomically.
func (r *ProfileRepo) SaveSamples(ctx context.Context, runID int64, frame uint64, samples []clock.Sample) error {
	if len(samples) == 0 {
		return nil
	}
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("samples begin: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, s := range samples {
		if _, err := tx.Exec(ctx,
			`INSERT INTO profile_samples (run_id, frame, system, calls, total_us, max_us)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			runID, int64(frame), s.Name, s.Count, s.Total.Microseconds(), s.Max.Microseconds(),
		); err != nil {
			return fmt.Errorf("samples insert %s: %w", s.Name, err)
		}
	}
	return tx.Commit(ctx)
}

// Totals aggregates every flush of a run per system, heaviest first.
func (r *ProfileRepo) Totals(ctx context.Context, runID int64) ([]clock.Sample, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT system, SUM(calls)::BIGINT, SUM(total_us)::BIGINT, MAX(max_us)
		 FROM profile_samples WHERE run_id = $1
		 GROUP BY system ORDER BY SUM(total_us) DESC, system`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []clock.Sample
	for rows.Next() {
		var (
			s              clock.Sample
			totalUS, maxUS int64
		)
		if err := rows.Scan(&s.Name, &s.Count, &totalUS, &maxUS); err != nil {
			return nil, err
		}
		s.Total = time.Duration(totalUS) * time.Microsecond
		s.Max = time.Duration(maxUS) * time.Microsecond
		out = append(out, s)
	}
	return out, rows.Err()
}
