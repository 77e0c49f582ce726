package resolution

import (
	"context"
	"errors"
	"strings"
	"time"

	"moniker/pkg/platform/sentinel"
)

// resolveFallback is tier 3 and is total: it cannot return nil and does not
// let a store failure escape. This terminal safety net is the reason the
// whole engine can guarantee an answer for every call.
func (e *Engine) resolveFallback(ctx context.Context, req Request, tiers tierOutcome) NameResolution {
	meta := &FallbackMetadata{
		Reason:           tiers.reason(),
		RequestedContext: strings.TrimSpace(req.ContextName),
		HadRequester:     req.HadRequester(),
		Degraded:         tiers.degraded,
	}

	start := time.Now()
	pref, err := e.store.PreferredName(ctx, req.TargetID)
	e.metrics.ObserveTierLatency("fallback", time.Since(start))

	switch {
	case err == nil:
		nameID := pref.NameID
		meta.NameID = &nameID
		return NameResolution{
			Name:     pref.Text,
			Source:   SourcePreferredFallback,
			Metadata: meta,
		}

	case errors.Is(err, sentinel.ErrNotFound):
		meta.Reason = ReasonPreferredNameMissing

	default:
		// Degraded-but-valid: the caller still gets the placeholder, the
		// failure travels in metadata and metrics.
		meta.Error = err.Error()
		meta.Degraded = true
		e.metrics.IncStoreError("fallback")
		if e.logger != nil {
			e.logger.ErrorContext(ctx, "preferred name lookup failed",
				"target_id", req.TargetID,
				"error", err,
			)
		}
	}

	return NameResolution{
		Name:     AnonymousName,
		Source:   SourcePreferredFallback,
		Metadata: meta,
	}
}
