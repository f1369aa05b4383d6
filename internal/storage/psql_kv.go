package storage

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/2beens/fitperso/internal/telemetry/tracing"
)

const psqlSchema = `
	CREATE TABLE IF NOT EXISTS fitperso_state (
		key        TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)
`

type PsqlKV struct {
	db *pgxpool.Pool
}

func NewPsqlKV(db *pgxpool.Pool) *PsqlKV {
	return &PsqlKV{
		db: db,
	}
}

func (kv *PsqlKV) EnsureSchema(ctx context.Context) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "storage.psql.ensure-schema")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	_, err = kv.db.Exec(ctx, psqlSchema)
	return err
}

func (kv *PsqlKV) Get(ctx context.Context, key string) (_ string, _ bool, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "storage.psql.get")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	var value string
	err = kv.db.
		QueryRow(ctx, `
			SELECT value
			FROM fitperso_state
			WHERE key = $1
		`, key).
		Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (kv *PsqlKV) Set(ctx context.Context, key, value string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "storage.psql.set")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	_, err = kv.db.Exec(ctx, `
		INSERT INTO fitperso_state (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
	`, key, value)
	return err
}

// Close is a no-op, the pool is owned by the server.
func (kv *PsqlKV) Close() error {
	return nil
}
