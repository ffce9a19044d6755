package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS daily_horoscopes (
    sign_id         INTEGER NOT NULL,
    horoscope_date  DATE NOT NULL,
    sign_name       TEXT NOT NULL,
    symbol          TEXT NOT NULL,
    daily_horoscope TEXT NOT NULL DEFAULT '',
    created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
    PRIMARY KEY (sign_id, horoscope_date)
);

CREATE TABLE IF NOT EXISTS weekly_horoscopes (
    sign_id          INTEGER NOT NULL,
    week_start_date  DATE NOT NULL,
    sign_name        TEXT NOT NULL,
    symbol           TEXT NOT NULL,
    weekly_horoscope TEXT NOT NULL DEFAULT '',
    created_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
    PRIMARY KEY (sign_id, week_start_date)
);
`

// EnsureSchema creates the horoscope tables when they do not exist
// yet. Run once at startup before serving requests.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, schema)
	return err
}
