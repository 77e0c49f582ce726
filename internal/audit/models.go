// Package audit records every name disclosure decision for compliance.
// Entries are append-only: nothing in this service updates or deletes them.
package audit

import (
	"context"
	"time"

	"github.com/google/uuid"

	"moniker/pkg/domain"
)

// Entry is one immutable disclosure record. Exactly one Entry is created per
// top-level resolution call, independent of which tier resolved or whether an
// error occurred.
//
// Source and FallbackReason are plain strings rather than resolution types so
// this package stays import-free of the engine.
type Entry struct {
	ID          uuid.UUID
	TargetID    domain.IdentityID
	RequesterID *domain.IdentityID

	Source   string
	NameText string
	NameID   *domain.NameID

	ContextID      *domain.ContextID
	ConsentID      *domain.ConsentID
	FallbackReason string
	Error          string

	RequestID  string
	OccurredAt time.Time
}

// Store persists audit entries. Append-only; the list operations exist for
// the compliance review API, not for the engine.
type Store interface {
	Append(ctx context.Context, entry Entry) error
	ListByTarget(ctx context.Context, target domain.IdentityID, limit int) ([]Entry, error)
	ListRecent(ctx context.Context, limit int) ([]Entry, error)
}
