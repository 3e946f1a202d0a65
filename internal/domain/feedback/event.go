// Package feedback defines the append-only relevance feedback event.
// Events are never updated or deleted; the current total for a document
// is a derived aggregate recomputed on read, not a mutable counter.
package feedback

import (
	"fmt"
	"time"
)

// Event is one recorded feedback signal against a document.
type Event struct {
	documentID string
	queryText  string
	delta      int64
	createdAt  time.Time
}

// New validates and creates an Event. Delta may be negative or zero; a
// zero delta is a harmless no-op row in the log. No dedup and no
// magnitude cap here: those are caller-side policy.
func New(documentID, queryText string, delta int64) (Event, error) {
	if documentID == "" {
		return Event{}, fmt.Errorf("document ID is required")
	}

	return Event{
		documentID: documentID,
		queryText:  queryText,
		delta:      delta,
		createdAt:  time.Now().UTC(),
	}, nil
}

// Reconstruct creates an Event without validation (storage hydration).
func Reconstruct(documentID, queryText string, delta int64, createdAt time.Time) Event {
	return Event{documentID: documentID, queryText: queryText, delta: delta, createdAt: createdAt}
}

// DocumentID returns the referenced document identifier.
func (e *Event) DocumentID() string { return e.documentID }

// QueryText returns the query that produced the signal.
func (e *Event) QueryText() string { return e.queryText }

// Delta returns the signed feedback delta.
func (e *Event) Delta() int64 { return e.delta }

// CreatedAt returns the submission timestamp.
func (e *Event) CreatedAt() time.Time { return e.createdAt }
