package repository

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"vehicle-booking/internal/data/entity"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type sqlCall struct {
	sql  string
	args []any
}

// fakeDB scripts pgx responses by statement. Queries inside a transaction
// return txRows, queries on the pool return poolRows.
type fakeDB struct {
	mu sync.Mutex

	txRows   []*entity.Booking
	poolRows []*entity.Booking
	row      *entity.Booking // QueryRow result, nil means no rows
	queryErr error

	lockErr   error
	insertErr error
	execErr   error
	tag       string

	calls      []sqlCall
	committed  bool
	rolledBack bool
}

func (db *fakeDB) record(sql string, args []any) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.calls = append(db.calls, sqlCall{sql: sql, args: args})
}

// statements returns the recorded calls whose SQL contains fragment.
func (db *fakeDB) statements(fragment string) []sqlCall {
	db.mu.Lock()
	defer db.mu.Unlock()

	var out []sqlCall
	for _, c := range db.calls {
		if strings.Contains(c.sql, fragment) {
			out = append(out, c)
		}
	}
	return out
}

func (db *fakeDB) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	db.record(sql, args)
	if db.queryErr != nil {
		return nil, db.queryErr
	}
	return &fakeRows{bookings: db.poolRows}, nil
}

func (db *fakeDB) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	db.record(sql, args)
	return fakeRow{booking: db.row}
}

func (db *fakeDB) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	db.record(sql, args)
	if db.execErr != nil {
		return pgconn.CommandTag{}, db.execErr
	}
	return pgconn.NewCommandTag(db.tag), nil
}

func (db *fakeDB) Begin(context.Context) (pgx.Tx, error) {
	return &fakeTx{db: db}, nil
}

func (db *fakeDB) Ping(context.Context) error { return nil }
func (db *fakeDB) Close()                     {}

// fakeTx overrides the pgx.Tx methods the repositories call. Anything else
// panics on the nil embedded interface.
type fakeTx struct {
	pgx.Tx
	db   *fakeDB
	done bool
}

func (tx *fakeTx) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	tx.db.record(sql, args)
	switch {
	case strings.Contains(sql, "pg_advisory_xact_lock"):
		if tx.db.lockErr != nil {
			return pgconn.CommandTag{}, tx.db.lockErr
		}
		return pgconn.NewCommandTag("SELECT 1"), nil
	case strings.Contains(sql, "INSERT INTO bookings"):
		if tx.db.insertErr != nil {
			return pgconn.CommandTag{}, tx.db.insertErr
		}
		return pgconn.NewCommandTag("INSERT 0 1"), nil
	}
	return pgconn.CommandTag{}, fmt.Errorf("unexpected statement in tx: %s", sql)
}

func (tx *fakeTx) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	tx.db.record(sql, args)
	if tx.db.queryErr != nil {
		return nil, tx.db.queryErr
	}
	return &fakeRows{bookings: tx.db.txRows}, nil
}

func (tx *fakeTx) Commit(context.Context) error {
	tx.done = true
	tx.db.committed = true
	return nil
}

func (tx *fakeTx) Rollback(context.Context) error {
	if !tx.done {
		tx.db.rolledBack = true
	}
	tx.done = true
	return nil
}

type fakeRows struct {
	pgx.Rows
	bookings []*entity.Booking
	pos      int
}

func (r *fakeRows) Next() bool {
	r.pos++
	return r.pos <= len(r.bookings)
}

func (r *fakeRows) Scan(dest ...any) error { return fillBooking(dest, r.bookings[r.pos-1]) }
func (r *fakeRows) Err() error             { return nil }
func (r *fakeRows) Close()                 {}

type fakeRow struct {
	booking *entity.Booking
}

func (r fakeRow) Scan(dest ...any) error {
	if r.booking == nil {
		return pgx.ErrNoRows
	}
	return fillBooking(dest, r.booking)
}

// fillBooking writes b into dest in bookingColumns order.
func fillBooking(dest []any, b *entity.Booking) error {
	if len(dest) != 12 {
		return fmt.Errorf("expected 12 booking columns, got %d", len(dest))
	}
	*dest[0].(*uuid.UUID) = b.ID
	*dest[1].(*string) = b.Resource
	*dest[2].(*uuid.UUID) = b.OwnerID
	*dest[3].(*string) = b.OwnerLabel
	*dest[4].(*time.Time) = b.StartTime
	*dest[5].(*time.Time) = b.EndTime
	*dest[6].(*string) = b.Purpose
	*dest[7].(**string) = b.Notes
	*dest[8].(*entity.BookingStatus) = b.Status
	*dest[9].(**time.Time) = b.CancelledAt
	*dest[10].(*time.Time) = b.CreatedAt
	*dest[11].(*time.Time) = b.UpdatedAt
	return nil
}
