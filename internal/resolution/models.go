// Package resolution implements the name resolution engine: the
// priority-ordered decision procedure that selects which name variant of a
// target identity may be disclosed to a requester, and records every
// decision.
package resolution

import (
	"time"

	"moniker/pkg/domain"
)

// AnonymousName is the terminal safety-net answer. Returned when no
// preferred name exists or the engine had to degrade past every tier.
const AnonymousName = "Anonymous User"

// Source identifies which priority tier produced the final answer.
type Source string

const (
	// SourceConsent: an explicit cross-identity grant selected the name.
	SourceConsent Source = "consent_based"
	// SourceContext: the target's own context assignment selected the name.
	SourceContext Source = "context_specific"
	// SourcePreferredFallback: the unopinionated default (preferred name,
	// or the anonymous placeholder when none exists).
	SourcePreferredFallback Source = "preferred_fallback"
	// SourceErrorFallback: the engine boundary caught a failure it could
	// not degrade through normal tiers.
	SourceErrorFallback Source = "error_fallback"
)

// FallbackReason explains why resolution reached tier 3.
type FallbackReason string

const (
	// ReasonNoRequesterNoContext: nothing to try before the fallback.
	ReasonNoRequesterNoContext FallbackReason = "no_requester_no_context"
	// ReasonNoActiveConsent: a requester was supplied but no active consent
	// (or no assignment behind it) resolved.
	ReasonNoActiveConsent FallbackReason = "no_active_consent"
	// ReasonNoContextAssignment: a context name was supplied but no owned
	// context with that name carries an assignment.
	ReasonNoContextAssignment FallbackReason = "no_context_assignment"
	// ReasonNeitherResolved: both optional inputs were supplied and neither
	// tier produced a name.
	ReasonNeitherResolved FallbackReason = "neither_consent_nor_context_resolved"
	// ReasonPreferredNameMissing: tier 3 itself found no preferred name and
	// answered with the anonymous placeholder.
	ReasonPreferredNameMissing FallbackReason = "preferred_name_missing"
)

// NameResolution is the engine's single result type. Every call path
// terminates in a valid NameResolution; the engine never returns an error.
type NameResolution struct {
	Name     string   `json:"name"`
	Source   Source   `json:"source"`
	Metadata Metadata `json:"metadata"`
}

// Metadata is a tagged union: one concrete type per source so invalid field
// combinations are unrepresentable. All variants embed MetadataBase.
type Metadata interface {
	// Base returns the fields shared by every variant.
	Base() MetadataBase
	// stamp is called once by the engine after a result is chosen.
	stamp(ts time.Time, elapsed time.Duration)
}

// MetadataBase carries the fields common to every resolution outcome.
type MetadataBase struct {
	ResolutionTimestamp time.Time `json:"resolution_timestamp"`
	ResponseTimeMS      int64     `json:"response_time_ms"`
}

func (b *MetadataBase) Base() MetadataBase { return *b }

func (b *MetadataBase) stamp(ts time.Time, elapsed time.Duration) {
	b.ResolutionTimestamp = ts
	b.ResponseTimeMS = elapsed.Milliseconds()
}

// ConsentMetadata accompanies SourceConsent results.
type ConsentMetadata struct {
	MetadataBase
	ConsentID        domain.ConsentID `json:"consent_id"`
	ContextID        domain.ContextID `json:"context_id"`
	ContextName      string           `json:"context_name"`
	NameID           domain.NameID    `json:"name_id"`
	RequestedContext string           `json:"requested_context,omitempty"`
	HadRequester     bool             `json:"had_requester"`
}

// ContextMetadata accompanies SourceContext results.
type ContextMetadata struct {
	MetadataBase
	ContextID        domain.ContextID `json:"context_id"`
	ContextName      string           `json:"context_name"`
	NameID           domain.NameID    `json:"name_id"`
	RequestedContext string           `json:"requested_context"`
}

// FallbackMetadata accompanies SourcePreferredFallback results.
type FallbackMetadata struct {
	MetadataBase
	Reason           FallbackReason `json:"fallback_reason"`
	NameID           *domain.NameID `json:"name_id,omitempty"`
	RequestedContext string         `json:"requested_context,omitempty"`
	HadRequester     bool           `json:"had_requester"`
	// Degraded marks that an earlier tier failed on a store error rather
	// than a clean miss. The answer is still valid; the outage is visible
	// here and in metrics instead of being masked entirely.
	Degraded bool `json:"degraded,omitempty"`
	// Error carries the tier-3 store failure when the preferred-name read
	// itself broke and the anonymous placeholder was returned.
	Error string `json:"error,omitempty"`
}

// ErrorMetadata accompanies SourceErrorFallback results.
type ErrorMetadata struct {
	MetadataBase
	Error            string `json:"error"`
	RequestedContext string `json:"requested_context,omitempty"`
	HadRequester     bool   `json:"had_requester"`
}

// Request carries the engine inputs. TargetID is required; RequesterID and
// ContextName are optional and independently meaningful.
type Request struct {
	TargetID    domain.IdentityID
	RequesterID *domain.IdentityID
	ContextName string
}

// HadRequester reports whether a requester was supplied.
func (r Request) HadRequester() bool { return r.RequesterID != nil }
