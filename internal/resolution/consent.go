package resolution

import (
	"context"
	"errors"
	"fmt"
	"time"

	"moniker/pkg/domain"
	"moniker/pkg/platform/sentinel"
)

// resolveByConsent is tier 1. A nil, nil return means "no active consent"
// (or no assignment behind it) and causes fall-through; a non-nil error is a
// store failure the engine degrades and counts.
func (e *Engine) resolveByConsent(ctx context.Context, target, requester domain.IdentityID, requestedContext string) (*NameResolution, error) {
	start := time.Now()
	grant, err := e.store.ActiveConsent(ctx, target, requester)
	e.metrics.ObserveTierLatency("consent", time.Since(start))

	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("active consent lookup: %w", err)
	}

	// The consent's context decides which assignment is disclosed. A grant
	// whose context carries no assignment degrades gracefully to the next
	// tier rather than failing the call.
	assigned, err := e.store.ContextAssignment(ctx, target, grant.ContextName)
	if errors.Is(err, sentinel.ErrNotFound) {
		if e.logger != nil {
			e.logger.DebugContext(ctx, "consent context has no assignment",
				"target_id", target,
				"consent_id", grant.ConsentID,
				"context_name", grant.ContextName,
			)
		}
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("consent assignment lookup: %w", err)
	}

	return &NameResolution{
		Name:   assigned.Text,
		Source: SourceConsent,
		Metadata: &ConsentMetadata{
			ConsentID:        grant.ConsentID,
			ContextID:        assigned.ContextID,
			ContextName:      assigned.ContextName,
			NameID:           assigned.NameID,
			RequestedContext: requestedContext,
			HadRequester:     true,
		},
	}, nil
}
