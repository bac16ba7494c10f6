// Package record provides field-value providers backed by concrete
// data sources: an in-memory record for tests and single evaluations,
// and a SQLite store for persistent multi-record use.
package record

import (
	"errors"

	"github.com/randalmurphal/branchlogic/pkg/branchlogic/resolve"
)

// Store persists field values for many records and hands out
// per-record provider views. Implementations must be safe for
// concurrent use.
type Store interface {
	// Save stores a field value for a record. Overwrites any existing
	// value for (recordID, event, field). Use event "" for the
	// record's current/default event.
	Save(recordID, event, field, value string) error

	// SaveCheckbox stores the selected state of one checkbox option.
	SaveCheckbox(recordID, event, field, option string, selected bool) error

	// Record returns a provider view over a single record, suitable
	// for passing to resolve.Substitute.
	Record(recordID string) resolve.Provider

	// DeleteRecord removes all values for a record.
	// Returns nil if the record has no values.
	DeleteRecord(recordID string) error

	// Close releases any resources (connections, files).
	Close() error
}

// ErrStoreClosed indicates the store has been closed.
var ErrStoreClosed = errors.New("record store closed")
