// Package postgres persists audit entries in the append-only audit_entries
// table. Nothing here updates or deletes; the list queries serve the
// compliance review API.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"moniker/internal/audit"
	"moniker/pkg/domain"
)

// Store is the PostgreSQL-backed audit store.
type Store struct {
	db *sql.DB
}

// New constructs the store over an open database handle.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Append inserts one audit entry.
func (s *Store) Append(ctx context.Context, entry audit.Entry) error {
	query := `
		INSERT INTO audit_entries (
			id, target_id, requester_id, source, name_text, name_id,
			context_id, consent_id, fallback_reason, error, request_id, occurred_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := s.db.ExecContext(ctx, query,
		entry.ID,
		uuid.UUID(entry.TargetID),
		nullableID(entry.RequesterID),
		entry.Source,
		entry.NameText,
		nullableName(entry.NameID),
		nullableContext(entry.ContextID),
		nullableConsent(entry.ConsentID),
		nullString(entry.FallbackReason),
		nullString(entry.Error),
		nullString(entry.RequestID),
		entry.OccurredAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

// ListByTarget returns up to limit entries for target, most recent first.
func (s *Store) ListByTarget(ctx context.Context, target domain.IdentityID, limit int) ([]audit.Entry, error) {
	query := selectColumns + `
		WHERE target_id = $1
		ORDER BY occurred_at DESC
		LIMIT $2
	`
	rows, err := s.db.QueryContext(ctx, query, uuid.UUID(target), limit)
	if err != nil {
		return nil, fmt.Errorf("query audit entries: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

// ListRecent returns up to limit entries across all targets, most recent
// first.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]audit.Entry, error) {
	query := selectColumns + `
		ORDER BY occurred_at DESC
		LIMIT $1
	`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent audit entries: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

const selectColumns = `
	SELECT id, target_id, requester_id, source, name_text, name_id,
	       context_id, consent_id, fallback_reason, error, request_id, occurred_at
	FROM audit_entries
`

func scanEntries(rows *sql.Rows) ([]audit.Entry, error) {
	var entries []audit.Entry
	for rows.Next() {
		var (
			entry       audit.Entry
			targetID    uuid.UUID
			requesterID uuid.NullUUID
			nameID      uuid.NullUUID
			contextID   uuid.NullUUID
			consentID   uuid.NullUUID
			reason      sql.NullString
			errText     sql.NullString
			requestID   sql.NullString
		)
		if err := rows.Scan(
			&entry.ID, &targetID, &requesterID, &entry.Source, &entry.NameText,
			&nameID, &contextID, &consentID, &reason, &errText, &requestID,
			&entry.OccurredAt,
		); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}

		entry.TargetID = domain.IdentityID(targetID)
		if requesterID.Valid {
			id := domain.IdentityID(requesterID.UUID)
			entry.RequesterID = &id
		}
		if nameID.Valid {
			id := domain.NameID(nameID.UUID)
			entry.NameID = &id
		}
		if contextID.Valid {
			id := domain.ContextID(contextID.UUID)
			entry.ContextID = &id
		}
		if consentID.Valid {
			id := domain.ConsentID(consentID.UUID)
			entry.ConsentID = &id
		}
		entry.FallbackReason = reason.String
		entry.Error = errText.String
		entry.RequestID = requestID.String
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit entries: %w", err)
	}
	return entries, nil
}

func nullableID(id *domain.IdentityID) uuid.NullUUID {
	if id == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: uuid.UUID(*id), Valid: true}
}

func nullableName(id *domain.NameID) uuid.NullUUID {
	if id == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: uuid.UUID(*id), Valid: true}
}

func nullableContext(id *domain.ContextID) uuid.NullUUID {
	if id == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: uuid.UUID(*id), Valid: true}
}

func nullableConsent(id *domain.ConsentID) uuid.NullUUID {
	if id == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: uuid.UUID(*id), Valid: true}
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
