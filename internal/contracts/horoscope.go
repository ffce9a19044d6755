// Package contracts defines the shared types and store interfaces used
// across the horoscope service.
//
// ⭐ SSOT: every storage backend implements the Store interface defined
// here, and every layer above storage speaks in these types. Nothing
// outside this package defines record shapes.
package contracts

import (
	"context"
	"time"
)

// Kind selects between the two horoscope collections.
type Kind string

const (
	// KindDaily keys records by their exact calendar date.
	KindDaily Kind = "daily"

	// KindWeekly keys records by the Monday of their week.
	KindWeekly Kind = "weekly"
)

// ParseKind maps a request parameter to a Kind. Only the exact string
// "weekly" selects the weekly collection; everything else, including
// the empty string, falls back to daily.
func ParseKind(s string) Kind {
	if s == string(KindWeekly) {
		return KindWeekly
	}
	return KindDaily
}

// Key identifies exactly one record within a collection: one sign, one
// period. For daily records Date is the calendar date; for weekly
// records it is the Monday the week starts on. Date is always midnight
// UTC.
type Key struct {
	SignID int
	Date   time.Time
}

// Fields carries the mutable payload of a record. Key fields never
// change on upsert; these do.
type Fields struct {
	SignName string
	Symbol   string
	Text     string
}

// Record is a stored horoscope row as read back from a backend.
type Record struct {
	SignID   int
	SignName string
	Symbol   string
	Text     string
	Date     time.Time
}

// Outcome reports what an upsert did.
type Outcome string

const (
	OutcomeCreated Outcome = "created"
	OutcomeUpdated Outcome = "updated"
)

// Store is the persistence contract for horoscope records. Implemented
// by the postgres, mongo and memory backends.
//
// Upsert writes fields under (kind, key): insert when the key is new,
// overwrite the payload when it already exists. Calling it twice with
// the same arguments leaves the store in the same state as calling it
// once.
//
// Get returns the record under (kind, key), or a NotFoundError when no
// record exists there.
//
// ListByPeriod returns every record in the kind's collection for the
// given period date, ordered by sign id ascending. An empty period is
// an empty slice, not an error.
type Store interface {
	Upsert(ctx context.Context, kind Kind, key Key, fields Fields) (Outcome, error)
	Get(ctx context.Context, kind Kind, key Key) (*Record, error)
	ListByPeriod(ctx context.Context, kind Kind, period time.Time) ([]Record, error)

	// Ping verifies the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases backend resources. Safe to call once at shutdown.
	Close()
}

// DateLayout is the wire and storage format for period dates.
const DateLayout = "2006-01-02"
