// Package postgres implements the DirectoryStore against the
// dashboard-owned relational schema. This store is pure I/O; the
// active-consent filter lives in SQL, everything else belongs to the
// resolvers.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"moniker/internal/resolution/ports"
	"moniker/pkg/domain"
	"moniker/pkg/platform/sentinel"
)

// Store is the PostgreSQL-backed DirectoryStore.
type Store struct {
	db *sql.DB
}

// New constructs the store over an open database handle.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// ActiveConsent returns the most recently granted, unexpired GRANTED consent
// from target to requester. Unscoped consents resolve through the target's
// permanent default context via COALESCE.
func (s *Store) ActiveConsent(ctx context.Context, target, requester domain.IdentityID) (*ports.ConsentGrant, error) {
	query := `
		SELECT c.id,
		       COALESCE(sc.id, dc.id),
		       COALESCE(sc.name, dc.name, ''),
		       c.granted_at,
		       c.expires_at
		FROM consents c
		LEFT JOIN contexts sc ON sc.id = c.context_id
		LEFT JOIN contexts dc ON dc.identity_id = c.target_id AND dc.is_permanent
		WHERE c.target_id = $1
		  AND c.requester_id = $2
		  AND c.status = 'GRANTED'
		  AND (c.expires_at IS NULL OR c.expires_at > now())
		ORDER BY c.granted_at DESC
		LIMIT 1
	`
	var (
		grant     ports.ConsentGrant
		consentID uuid.UUID
		contextID uuid.NullUUID
		expiresAt sql.NullTime
	)
	err := s.db.QueryRowContext(ctx, query, uuid.UUID(target), uuid.UUID(requester)).
		Scan(&consentID, &contextID, &grant.ContextName, &grant.GrantedAt, &expiresAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("query active consent: %w", err)
	}

	grant.ConsentID = domain.ConsentID(consentID)
	if contextID.Valid {
		grant.ContextID = domain.ContextID(contextID.UUID)
	}
	if expiresAt.Valid {
		t := expiresAt.Time
		grant.ExpiresAt = &t
	}
	return &grant, nil
}

// ContextAssignment returns the name variant assigned to target's context
// with the given name.
func (s *Store) ContextAssignment(ctx context.Context, target domain.IdentityID, contextName string) (*ports.AssignedName, error) {
	query := `
		SELECT nv.id, nv.display_text, cx.id, cx.name
		FROM contexts cx
		JOIN context_assignments ca ON ca.context_id = cx.id
		JOIN name_variants nv ON nv.id = ca.name_id
		WHERE cx.identity_id = $1 AND cx.name = $2
		LIMIT 1
	`
	var (
		assigned  ports.AssignedName
		nameID    uuid.UUID
		contextID uuid.UUID
	)
	err := s.db.QueryRowContext(ctx, query, uuid.UUID(target), contextName).
		Scan(&nameID, &assigned.Text, &contextID, &assigned.ContextName)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("query context assignment: %w", err)
	}

	assigned.NameID = domain.NameID(nameID)
	assigned.ContextID = domain.ContextID(contextID)
	return &assigned, nil
}

// PreferredName returns the target's name variant flagged is_preferred.
func (s *Store) PreferredName(ctx context.Context, target domain.IdentityID) (*ports.PreferredName, error) {
	query := `
		SELECT id, display_text
		FROM name_variants
		WHERE identity_id = $1 AND is_preferred
		LIMIT 1
	`
	var (
		pref   ports.PreferredName
		nameID uuid.UUID
	)
	err := s.db.QueryRowContext(ctx, query, uuid.UUID(target)).Scan(&nameID, &pref.Text)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("query preferred name: %w", err)
	}

	pref.NameID = domain.NameID(nameID)
	return &pref, nil
}
