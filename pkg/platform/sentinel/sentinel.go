package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores return these (optionally
// wrapped) so services can branch with errors.Is without string matching.
//
// These represent factual states about resources, not validation failures:
// - ErrNotFound: row does not exist (no consent, no assignment, no preferred name)
// - ErrExpired: a time-bound resource is past its expiry
// - ErrUnavailable: store or broker temporarily unreachable
//
// For validation errors (bad input, missing fields), use pkg/domain-errors.
var (
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrExpired     = errors.New("expired")
	ErrUnavailable = errors.New("unavailable")
)
