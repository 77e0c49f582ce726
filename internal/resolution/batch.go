package resolution

import (
	"context"

	"golang.org/x/sync/errgroup"

	"moniker/pkg/domain"
)

// batchConcurrency bounds parallel store reads per batch.
const batchConcurrency = 4

// ResolveBatch resolves one target against several context names. Each item
// is a fully independent Resolve call: its own tiers, its own audit entry,
// no cross-item state. Resolve is total, so one context degrading can never
// abort the others.
func (e *Engine) ResolveBatch(ctx context.Context, target domain.IdentityID, contextNames []string) []NameResolution {
	results := make([]NameResolution, len(contextNames))

	g := new(errgroup.Group)
	g.SetLimit(batchConcurrency)
	for i, name := range contextNames {
		g.Go(func() error {
			results[i] = e.Resolve(ctx, Request{TargetID: target, ContextName: name})
			return nil
		})
	}
	// No goroutine returns an error; Wait is just the join point.
	_ = g.Wait()

	return results
}
