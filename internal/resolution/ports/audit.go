package ports

//go:generate mockgen -source=audit.go -destination=../mocks/audit_mock.go -package=mocks

import (
	"context"

	"moniker/internal/audit"
)

// AuditSink defines the interface for recording disclosure decisions.
// This matches audit.Recorder but is defined here to maintain hexagonal
// boundaries.
type AuditSink interface {
	Record(ctx context.Context, entry audit.Entry) error
}
