package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is what the carpool Postgres store needs from a *pgxpool.Pool. The
// store functions take it as a parameter so tests can script replies to
// individual config, user, car and passenger queries.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(context.Context) error
	Close()
}

// FakeDB answers each call through the matching Fn field. A call with no
// Fn set panics and names the statement, so a store test fails on the
// first query it did not script. Close is always safe.
type FakeDB struct {
	ExecFn     func(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryFn    func(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRowFn func(ctx context.Context, sql string, args ...any) pgx.Row
	PingFn     func(ctx context.Context) error
	CloseFn    func()
}

func unscripted(method, sql string) string {
	return fmt.Sprintf("database: unscripted %s: %s", method, sql)
}

func (f *FakeDB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if f.ExecFn == nil {
		panic(unscripted("Exec", sql))
	}
	return f.ExecFn(ctx, sql, args...)
}

func (f *FakeDB) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if f.QueryFn == nil {
		panic(unscripted("Query", sql))
	}
	return f.QueryFn(ctx, sql, args...)
}

func (f *FakeDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if f.QueryRowFn == nil {
		panic(unscripted("QueryRow", sql))
	}
	return f.QueryRowFn(ctx, sql, args...)
}

// Ping backs the /api/health check in tests that start the service
// against a fake pool.
func (f *FakeDB) Ping(ctx context.Context) error {
	if f.PingFn == nil {
		panic(unscripted("Ping", ""))
	}
	return f.PingFn(ctx)
}

func (f *FakeDB) Close() {
	if f.CloseFn != nil {
		f.CloseFn()
	}
}
