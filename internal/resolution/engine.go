package resolution

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"moniker/internal/audit"
	"moniker/internal/resolution/metrics"
	"moniker/internal/resolution/ports"
	"moniker/pkg/requestcontext"
)

// Engine orchestrates the three resolver tiers in strict priority order and
// records exactly one audit entry per call. It holds no mutable state;
// concurrent Resolve calls are safe.
type Engine struct {
	store   ports.DirectoryStore
	audit   ports.AuditSink
	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer
}

// Option configures the Engine.
type Option func(*Engine)

// WithLogger sets a logger for degraded-path reporting.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithMetrics sets the metrics collector.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// NewEngine constructs the resolution engine with its two required ports.
func NewEngine(store ports.DirectoryStore, sink ports.AuditSink, opts ...Option) *Engine {
	e := &Engine{
		store:  store,
		audit:  sink,
		tracer: otel.Tracer("moniker/resolution"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// tierOutcome tracks what the non-terminal tiers did so the fallback can
// explain itself and outages stay observable.
type tierOutcome struct {
	consentTried bool
	contextTried bool
	degraded     bool
}

func (t tierOutcome) reason() FallbackReason {
	switch {
	case t.consentTried && t.contextTried:
		return ReasonNeitherResolved
	case t.consentTried:
		return ReasonNoActiveConsent
	case t.contextTried:
		return ReasonNoContextAssignment
	default:
		return ReasonNoRequesterNoContext
	}
}

// Resolve selects the disclosable name for req.TargetID. It is total: every
// call path terminates in a valid NameResolution and never in an error. The
// tier order consent > context > fallback is fixed; an explicit
// cross-identity grant outranks a same-identity context preference, which
// outranks the unopinionated default.
func (e *Engine) Resolve(ctx context.Context, req Request) (res NameResolution) {
	start := time.Now()
	ctx, span := e.tracer.Start(ctx, "resolution.Resolve",
		trace.WithAttributes(
			attribute.Bool("resolution.had_requester", req.HadRequester()),
			attribute.Bool("resolution.had_context", strings.TrimSpace(req.ContextName) != ""),
		))
	defer span.End()

	// The recover guard is what makes Resolve total even against resolver
	// bugs or panicking store drivers. The terminal result still gets its
	// audit entry.
	defer func() {
		if r := recover(); r != nil {
			if e.logger != nil {
				e.logger.ErrorContext(ctx, "resolution panic degraded to error fallback",
					"target_id", req.TargetID,
					"panic", r,
				)
			}
			res = NameResolution{
				Name:   AnonymousName,
				Source: SourceErrorFallback,
				Metadata: &ErrorMetadata{
					Error:            fmt.Sprintf("%v", r),
					RequestedContext: strings.TrimSpace(req.ContextName),
					HadRequester:     req.HadRequester(),
				},
			}
			e.finish(ctx, span, req, &res, start)
		}
	}()

	res = e.resolveTiers(ctx, req)
	e.finish(ctx, span, req, &res, start)
	return res
}

// resolveTiers walks the priority chain. Store failures in tiers 1 and 2
// degrade to fall-through (the caller still gets an answer) but are logged
// and counted so an outage never masquerades silently as a quiet day.
func (e *Engine) resolveTiers(ctx context.Context, req Request) NameResolution {
	var tiers tierOutcome
	contextName := strings.TrimSpace(req.ContextName)

	if req.HadRequester() {
		tiers.consentTried = true
		res, err := e.resolveByConsent(ctx, req.TargetID, *req.RequesterID, contextName)
		if err != nil {
			tiers.degraded = true
			e.metrics.IncStoreError("consent")
			if e.logger != nil {
				e.logger.ErrorContext(ctx, "consent tier degraded",
					"target_id", req.TargetID,
					"requester_id", *req.RequesterID,
					"error", err,
				)
			}
		}
		if res != nil {
			return *res
		}
	}

	if contextName != "" {
		tiers.contextTried = true
		res, err := e.resolveByContext(ctx, req.TargetID, contextName)
		if err != nil {
			tiers.degraded = true
			e.metrics.IncStoreError("context")
			if e.logger != nil {
				e.logger.ErrorContext(ctx, "context tier degraded",
					"target_id", req.TargetID,
					"context_name", contextName,
					"error", err,
				)
			}
		}
		if res != nil {
			return *res
		}
	}

	return e.resolveFallback(ctx, req, tiers)
}

// finish stamps the shared metadata, emits telemetry, and writes the single
// audit entry. Called exactly once per Resolve, on both the normal and the
// recovered path.
func (e *Engine) finish(ctx context.Context, span trace.Span, req Request, res *NameResolution, start time.Time) {
	now := requestcontext.Now(ctx)
	elapsed := time.Since(start)
	res.Metadata.stamp(now, elapsed)

	span.SetAttributes(attribute.String("resolution.source", string(res.Source)))
	e.metrics.IncOutcome(string(res.Source))
	e.metrics.ObserveResolveLatency(elapsed)

	// Compliance write. A caller abandoning the request must not skip it,
	// so the entry is written on a cancellation-free context.
	entry := entryFromResolution(req, *res, now, requestcontext.RequestID(ctx))
	if err := e.recordAudit(context.WithoutCancel(ctx), entry); err != nil {
		e.metrics.IncAuditFailure()
		if e.logger != nil {
			e.logger.ErrorContext(ctx, "audit write failed; resolution unaffected",
				"target_id", req.TargetID,
				"source", res.Source,
				"error", err,
			)
		}
	}
}

// recordAudit shields the caller from a panicking sink the same way the
// Resolve boundary shields against panicking store drivers. Audit failures
// of any kind are counted and logged, never propagated.
func (e *Engine) recordAudit(ctx context.Context, entry audit.Entry) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("audit sink panic: %v", r)
		}
	}()
	return e.audit.Record(ctx, entry)
}

// entryFromResolution flattens the metadata union into the audit record.
func entryFromResolution(req Request, res NameResolution, now time.Time, requestID string) audit.Entry {
	entry := audit.Entry{
		TargetID:    req.TargetID,
		RequesterID: req.RequesterID,
		Source:      string(res.Source),
		NameText:    res.Name,
		RequestID:   requestID,
		OccurredAt:  now,
	}

	switch m := res.Metadata.(type) {
	case *ConsentMetadata:
		nameID, contextID, consentID := m.NameID, m.ContextID, m.ConsentID
		entry.NameID = &nameID
		entry.ContextID = &contextID
		entry.ConsentID = &consentID
	case *ContextMetadata:
		nameID, contextID := m.NameID, m.ContextID
		entry.NameID = &nameID
		entry.ContextID = &contextID
	case *FallbackMetadata:
		entry.NameID = m.NameID
		entry.FallbackReason = string(m.Reason)
		entry.Error = m.Error
	case *ErrorMetadata:
		entry.Error = m.Error
	}
	return entry
}
