package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Querier is the thin execution surface a provider backend exposes. The
// SQLStore builds all statements with squirrel and runs them through one of
// these.
type Querier interface {
	Exec(ctx context.Context, query string, args ...any) (lastInsertID int64, err error)
	Query(ctx context.Context, query string, args ...any) ([]map[string]any, error)
	Ping(ctx context.Context) error
	Close() error
}

// pgxQuerier runs statements on a pgx connection pool.
type pgxQuerier struct {
	pool *pgxpool.Pool
}

func newPgxQuerier(ctx context.Context, url string) (*pgxQuerier, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	return &pgxQuerier{pool: pool}, nil
}

func (q *pgxQuerier) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	// Postgres reports new keys via RETURNING, never via the exec result.
	_, err := q.pool.Exec(ctx, query, args...)
	return 0, err
}

func (q *pgxQuerier) Query(ctx context.Context, query string, args ...any) ([]map[string]any, error) {
	rows, err := q.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	var out []map[string]any
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, err
		}
		record := make(map[string]any, len(fields))
		for i, fd := range fields {
			record[string(fd.Name)] = values[i]
		}
		out = append(out, record)
	}
	return out, rows.Err()
}

func (q *pgxQuerier) Ping(ctx context.Context) error {
	return q.pool.Ping(ctx)
}

func (q *pgxQuerier) Close() error {
	q.pool.Close()
	return nil
}

// sqlQuerier runs statements on a database/sql handle. Used for the mysql,
// sqlite and lib/pq providers.
type sqlQuerier struct {
	db *sql.DB
}

func newSQLQuerier(driverName, url string) (*sqlQuerier, error) {
	db, err := sql.Open(driverName, url)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}
	return &sqlQuerier{db: db}, nil
}

func (q *sqlQuerier) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	result, err := q.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		// Drivers without LastInsertId support (lib/pq) land here.
		return 0, nil
	}
	return id, nil
}

func (q *sqlQuerier) Query(ctx context.Context, query string, args ...any) ([]map[string]any, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var out []map[string]any
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		record := make(map[string]any, len(columns))
		for i, col := range columns {
			if b, ok := values[i].([]byte); ok {
				record[col] = string(b)
			} else {
				record[col] = values[i]
			}
		}
		out = append(out, record)
	}
	return out, rows.Err()
}

func (q *sqlQuerier) Ping(ctx context.Context) error {
	return q.db.PingContext(ctx)
}

func (q *sqlQuerier) Close() error {
	return q.db.Close()
}
