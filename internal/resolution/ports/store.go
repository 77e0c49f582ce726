package ports

//go:generate mockgen -source=store.go -destination=../mocks/store_mock.go -package=mocks

import (
	"context"
	"time"

	"moniker/pkg/domain"
)

// DirectoryStore is the read contract the engine requires of the
// dashboard-owned store. Implementations return sentinel.ErrNotFound
// (wrapped) for empty reads so resolvers can distinguish "no data" from
// store failure.
type DirectoryStore interface {
	// ActiveConsent returns the logically-relevant consent from target to
	// requester: status GRANTED and unexpired at read time. When the consent
	// is not scoped to a context, the target's permanent default context is
	// substituted so the caller always knows which assignment to read.
	ActiveConsent(ctx context.Context, target, requester domain.IdentityID) (*ConsentGrant, error)

	// ContextAssignment returns the name variant assigned to the context
	// with the given name, scoped to contexts owned by target. Exact name
	// match.
	ContextAssignment(ctx context.Context, target domain.IdentityID, contextName string) (*AssignedName, error)

	// PreferredName returns the target's name variant flagged is_preferred.
	// At most one exists per identity (enforced by the dashboard).
	PreferredName(ctx context.Context, target domain.IdentityID) (*PreferredName, error)
}

// ConsentGrant is the active-consent row (port model, not a DB model).
type ConsentGrant struct {
	ConsentID   domain.ConsentID
	ContextID   domain.ContextID
	ContextName string
	GrantedAt   time.Time
	ExpiresAt   *time.Time
}

// AssignedName is the context-assignment row.
type AssignedName struct {
	NameID      domain.NameID
	Text        string
	ContextID   domain.ContextID
	ContextName string
}

// PreferredName is the preferred-name row.
type PreferredName struct {
	NameID domain.NameID
	Text   string
}
