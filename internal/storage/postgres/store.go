// Package postgres implements the horoscope Store over a relational
// schema: one table per kind, a composite primary key per table, and
// INSERT ... ON CONFLICT DO UPDATE as the atomic upsert primitive.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/zodiacal/horoscope-api/internal/contracts"
)

// queries holds the prepared SQL text for one kind's table. The
// identifiers are compile-time constants, never request input.
type queries struct {
	upsert string
	get    string
	list   string
}

func buildQueries(table, dateCol, textCol string) queries {
	return queries{
		upsert: fmt.Sprintf(`
			INSERT INTO %[1]s (sign_id, %[2]s, sign_name, symbol, %[3]s)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (sign_id, %[2]s) DO UPDATE SET
				sign_name = EXCLUDED.sign_name,
				symbol = EXCLUDED.symbol,
				%[3]s = EXCLUDED.%[3]s,
				updated_at = now()
			RETURNING (xmax = 0)
		`, table, dateCol, textCol),
		get: fmt.Sprintf(`
			SELECT sign_id, sign_name, symbol, %[3]s, %[2]s
			FROM %[1]s
			WHERE sign_id = $1 AND %[2]s = $2
		`, table, dateCol, textCol),
		list: fmt.Sprintf(`
			SELECT sign_id, sign_name, symbol, %[3]s, %[2]s
			FROM %[1]s
			WHERE %[2]s = $1
			ORDER BY sign_id ASC
		`, table, dateCol, textCol),
	}
}

var kindQueries = map[contracts.Kind]queries{
	contracts.KindDaily:  buildQueries("daily_horoscopes", "horoscope_date", "daily_horoscope"),
	contracts.KindWeekly: buildQueries("weekly_horoscopes", "week_start_date", "weekly_horoscope"),
}

// Store implements contracts.Store on a pgx connection pool.
// ⭐ SSOT: all relational horoscope persistence goes through here.
type Store struct {
	pool *pgxpool.Pool
}

// New wraps an already-connected pool. The Store takes ownership;
// Close releases it.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) Upsert(ctx context.Context, kind contracts.Kind, key contracts.Key, fields contracts.Fields) (contracts.Outcome, error) {
	q := kindQueries[kind]

	// xmax = 0 only on freshly inserted rows, which distinguishes
	// create from update in a single round trip.
	var inserted bool
	err := s.pool.QueryRow(ctx, q.upsert,
		key.SignID, key.Date, fields.SignName, fields.Symbol, fields.Text,
	).Scan(&inserted)
	if err != nil {
		return "", contracts.NewStoreError("upsert", err)
	}

	if inserted {
		return contracts.OutcomeCreated, nil
	}
	return contracts.OutcomeUpdated, nil
}

func (s *Store) Get(ctx context.Context, kind contracts.Kind, key contracts.Key) (*contracts.Record, error) {
	q := kindQueries[kind]

	var rec contracts.Record
	err := s.pool.QueryRow(ctx, q.get, key.SignID, key.Date).Scan(
		&rec.SignID, &rec.SignName, &rec.Symbol, &rec.Text, &rec.Date,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, contracts.NewNotFoundError(kind, key.SignID, key.Date.Format(contracts.DateLayout))
	}
	if err != nil {
		return nil, contracts.NewStoreError("get", err)
	}

	rec.Date = rec.Date.UTC()
	return &rec, nil
}

func (s *Store) ListByPeriod(ctx context.Context, kind contracts.Kind, period time.Time) ([]contracts.Record, error) {
	q := kindQueries[kind]

	rows, err := s.pool.Query(ctx, q.list, period)
	if err != nil {
		return nil, contracts.NewStoreError("list", err)
	}
	defer rows.Close()

	recs := make([]contracts.Record, 0)
	for rows.Next() {
		var rec contracts.Record
		if err := rows.Scan(&rec.SignID, &rec.SignName, &rec.Symbol, &rec.Text, &rec.Date); err != nil {
			return nil, contracts.NewStoreError("list", err)
		}
		rec.Date = rec.Date.UTC()
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, contracts.NewStoreError("list", err)
	}
	return recs, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *Store) Close() {
	s.pool.Close()
}
