package usage

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// postgresStore implements Store on the interaction_usage table. The upsert
// increments and reads back in one statement, so the count is race-free.
type postgresStore struct {
	pool *pgxpool.Pool
}

func (s *postgresStore) Increment(ctx context.Context, scope string, day time.Time) (int64, error) {
	var count int64
	err := s.pool.QueryRow(ctx, `
		INSERT INTO interaction_usage (scope, day, count)
		VALUES ($1, $2, 1)
		ON CONFLICT (scope, day)
		DO UPDATE SET count = interaction_usage.count + 1
		RETURNING count`,
		scope, DayKey(day),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("increment usage counter: %w", err)
	}
	return count, nil
}

func (s *postgresStore) Get(ctx context.Context, scope string, day time.Time) (int64, error) {
	var count int64
	err := s.pool.QueryRow(ctx,
		`SELECT count FROM interaction_usage WHERE scope = $1 AND day = $2`,
		scope, DayKey(day),
	).Scan(&count)
	if err == pgx.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get usage counter: %w", err)
	}
	return count, nil
}

func (s *postgresStore) Close() error {
	return nil
}
