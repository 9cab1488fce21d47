package record

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

var recordModels = []any{
	(*LeadRecord)(nil),
	(*FeedbackRecord)(nil),
	(*BookingRecord)(nil),
}

// OpenPostgres connects to Postgres and makes sure one table per record kind exists.
func OpenPostgres(ctx context.Context, dsn string, timeout time.Duration) (*bun.DB, error) {
	db, err := newPostgresDB(dsn, timeout)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	for _, model := range recordModels {
		if _, err := createTableQuery(db, model).Exec(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("create record table: %w", err)
		}
	}
	return db, nil
}

func newPostgresDB(dsn string, timeout time.Duration) (*bun.DB, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, errors.New("postgres dsn is required")
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	sqldb := sql.OpenDB(pgdriver.NewConnector(
		pgdriver.WithDSN(dsn),
		pgdriver.WithTimeout(timeout),
	))
	return bun.NewDB(sqldb, pgdialect.New()), nil
}

func createTableQuery(db bun.IDB, model any) *bun.CreateTableQuery {
	return db.NewCreateTable().Model(model).IfNotExists()
}

// PostgresSink appends records of one kind as single-row INSERTs.
type PostgresSink struct {
	kind Kind
	db   bun.IDB
}

func NewPostgresSink(kind Kind, db bun.IDB) *PostgresSink {
	return &PostgresSink{kind: kind, db: db}
}

// NewPostgresSinks builds the three sinks over one shared connection pool.
func NewPostgresSinks(db bun.IDB) Sinks {
	return Sinks{
		Leads:    NewPostgresSink(KindLead, db),
		Feedback: NewPostgresSink(KindFeedback, db),
		Bookings: NewPostgresSink(KindBooking, db),
	}
}

func (s *PostgresSink) Append(ctx context.Context, rec Record) error {
	if rec == nil {
		return errors.New("record is nil")
	}
	if rec.Kind() != s.kind {
		return fmt.Errorf("%w: sink=%s record=%s", ErrKindMismatch, s.kind, rec.Kind())
	}
	if _, err := s.insertQuery(rec).Exec(ctx); err != nil {
		return fmt.Errorf("insert %s record: %w", s.kind, err)
	}
	return nil
}

func (s *PostgresSink) insertQuery(rec Record) *bun.InsertQuery {
	return s.db.NewInsert().Model(rec)
}
