// Package postgres implements ports.Store against a Postgres kg_api
// schema, grounded on the teacher's internal/repository layering
// (retry.go's exponential-backoff shape, the get-create-get race pattern
// from unit_of_work.go) translated from DynamoDB onto pgx/sqlx — spec.md
// §6's relational store requirement the teacher's DynamoDB backend
// cannot satisfy (see DESIGN.md "Dropped teacher dependencies").
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"go.uber.org/zap"
)

// Pool wraps a pgxpool.Pool and a parallel sqlx.DB over the same DSN.
// Every store query and transaction, Store.ExecuteCypher included, runs
// through SQLX; PG is opened, pinged and closed alongside it but not
// otherwise queried.
type Pool struct {
	PG    *pgxpool.Pool
	SQLX  *sqlx.DB
	logger *zap.Logger
}

// Open establishes both connections against dsn.
func Open(ctx context.Context, dsn string, maxConns int32, logger *zap.Logger) (*Pool, error) {
	pgCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parsing postgres dsn: %w", err)
	}
	if maxConns > 0 {
		pgCfg.MaxConns = maxConns
	}
	pg, err := pgxpool.NewWithConfig(ctx, pgCfg)
	if err != nil {
		return nil, fmt.Errorf("opening pgx pool: %w", err)
	}
	if err := pg.Ping(ctx); err != nil {
		pg.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}

	sdb, err := sqlx.Open("postgres", dsn)
	if err != nil {
		pg.Close()
		return nil, fmt.Errorf("opening sqlx connection: %w", err)
	}
	if maxConns > 0 {
		sdb.SetMaxOpenConns(int(maxConns))
	}
	if err := sdb.PingContext(ctx); err != nil {
		pg.Close()
		sdb.Close()
		return nil, fmt.Errorf("pinging postgres via sqlx: %w", err)
	}

	return &Pool{PG: pg, SQLX: sdb, logger: logger}, nil
}

// Close releases both connections.
func (p *Pool) Close() {
	p.PG.Close()
	p.SQLX.Close()
}
