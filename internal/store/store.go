// Package store provides persistence for conversation records.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/avo-labs/conversation-logger/internal/model"
)

// ErrNotFound is returned when a lookup matches zero rows.
var ErrNotFound = errors.New("record not found")

// ListFilter describes the optional predicates for listing records. Only
// non-nil fields contribute to the WHERE clause; they combine conjunctively.
type ListFilter struct {
	// Subject matches LOWER(sujet) exactly.
	Subject *string
	// Day matches the UTC calendar day of the record timestamp.
	Day *time.Time
	// UserName matches as a case-insensitive substring.
	UserName *string

	Limit  int
	Offset int
}

// Store is the persistence contract for conversation records.
type Store interface {
	// Insert writes one record and returns the generated id.
	Insert(ctx context.Context, rec model.Record) (int64, error)
	// List returns matching records ordered by timestamp descending with id
	// as tie-break, plus the total count for the same predicate.
	List(ctx context.Context, f ListFilter) ([]model.Record, int, error)
	// Get returns the record with the given id, additionally scoped to a
	// case-insensitive subject match when subject is non-nil.
	Get(ctx context.Context, id int64, subject *string) (model.Record, error)
	// Ping verifies database connectivity.
	Ping(ctx context.Context) error
	Close()
}
