package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/country-pulse/country-ratings/internal/store"
)

// ErrStorageUnavailable indicates the database could not be reached. The
// condition is transient; callers may retry, this layer never does.
var ErrStorageUnavailable = errors.New("repository: storage unavailable")

// ErrAggregationFailure indicates a grouping query executed but failed to
// produce a valid result. Not retried here.
var ErrAggregationFailure = errors.New("repository: aggregation failed")

// DB is the slice of pgxpool.Pool the repositories rely on. pgxmock
// satisfies it too, which keeps the error-classification paths testable
// without a running database.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository aggregates all domain-specific repositories.
type Repository struct {
	Ratings *RatingsRepository
}

// New constructs a Repository backed by the provided store.
func New(st *store.Store) *Repository {
	return NewWithDB(st.Pool())
}

// NewWithDB constructs repositories directly from a database handle.
func NewWithDB(db DB) *Repository {
	return &Repository{
		Ratings: &RatingsRepository{db: db},
	}
}

// unreachable reports whether err looks like a connection-level failure
// rather than a query-level one.
func unreachable(err error) bool {
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return true
	}
	return pgconn.Timeout(err) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled)
}

func classifyWriteErr(op string, err error) error {
	if unreachable(err) {
		return fmt.Errorf("%s: %w: %v", op, ErrStorageUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func classifyAggregateErr(op string, err error) error {
	if unreachable(err) {
		return fmt.Errorf("%s: %w: %v", op, ErrStorageUnavailable, err)
	}
	return fmt.Errorf("%s: %w: %v", op, ErrAggregationFailure, err)
}
