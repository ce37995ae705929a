package store

import (
	"context"
	"reflect"

	"carpool/internal/database"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

/* ---------- 假實作 ---------- */

// fakeRow copies values into Scan destinations by position.
type fakeRow struct {
	scanErr error
	values  []any
}

func (r *fakeRow) Scan(dest ...any) error {
	if r.scanErr != nil {
		return r.scanErr
	}
	if len(dest) != len(r.values) {
		panic("fakeRow.Scan: unexpected dest count")
	}
	for i, v := range r.values {
		reflect.ValueOf(dest[i]).Elem().Set(reflect.ValueOf(v))
	}
	return nil
}

// fakeRows implements pgx.Rows over a fixed table.
type fakeRows struct {
	data    [][]any
	idx     int
	scanErr error
	err     error
	closed  bool
}

func (r *fakeRows) Close()                                       { r.closed = true }
func (r *fakeRows) Err() error                                   { return r.err }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) Next() bool                                   { return r.idx < len(r.data) }
func (r *fakeRows) Scan(dest ...any) error {
	if r.scanErr != nil {
		return r.scanErr
	}
	row := &fakeRow{values: r.data[r.idx]}
	r.idx++
	return row.Scan(dest...)
}
func (r *fakeRows) Values() ([]any, error) { return nil, nil }
func (r *fakeRows) RawValues() [][]byte    { return nil }
func (r *fakeRows) Conn() *pgx.Conn        { return nil }

// recordingDB captures the SQL and args of the last call.
type recordingDB struct {
	database.FakeDB
	lastSQL  string
	lastArgs []any
}

func newRowDB(row pgx.Row) *recordingDB {
	db := &recordingDB{}
	db.QueryRowFn = func(_ context.Context, sql string, args ...any) pgx.Row {
		db.lastSQL, db.lastArgs = sql, args
		return row
	}
	return db
}

func newRowsDB(rows pgx.Rows, err error) *recordingDB {
	db := &recordingDB{}
	db.QueryFn = func(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
		db.lastSQL, db.lastArgs = sql, args
		return rows, err
	}
	return db
}

func newExecDB(tag string, err error) *recordingDB {
	db := &recordingDB{}
	db.ExecFn = func(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
		db.lastSQL, db.lastArgs = sql, args
		return pgconn.NewCommandTag(tag), err
	}
	return db
}
