package resolution

import (
	"context"
	"errors"
	"fmt"
	"time"

	"moniker/pkg/domain"
	"moniker/pkg/platform/sentinel"
)

// resolveByContext is tier 2: exact context-name match scoped to contexts
// owned by the target. nil, nil when no such context exists or it carries no
// assignment.
func (e *Engine) resolveByContext(ctx context.Context, target domain.IdentityID, contextName string) (*NameResolution, error) {
	start := time.Now()
	assigned, err := e.store.ContextAssignment(ctx, target, contextName)
	e.metrics.ObserveTierLatency("context", time.Since(start))

	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("context assignment lookup: %w", err)
	}

	return &NameResolution{
		Name:   assigned.Text,
		Source: SourceContext,
		Metadata: &ContextMetadata{
			ContextID:        assigned.ContextID,
			ContextName:      assigned.ContextName,
			NameID:           assigned.NameID,
			RequestedContext: contextName,
		},
	}, nil
}
