package handler

import (
	"strings"

	"moniker/internal/resolution"
	"moniker/pkg/domain"
	dErrors "moniker/pkg/domain-errors"
)

const (
	maxContextNameLen = 255
	maxBatchContexts  = 50
)

// ResolveRequest is the HTTP request body for POST /v1/resolve.
type ResolveRequest struct {
	TargetID    string `json:"target_id"`
	RequesterID string `json:"requester_id,omitempty"`
	ContextName string `json:"context_name,omitempty"`

	// Parsed values (populated by Validate)
	parsedTarget    domain.IdentityID
	parsedRequester *domain.IdentityID
}

// Validate validates and parses the request.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *ResolveRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}

	target, err := domain.ParseIdentityID(strings.TrimSpace(r.TargetID))
	if err != nil {
		return dErrors.New(dErrors.CodeValidation, "target_id must be a valid identity id")
	}
	r.parsedTarget = target

	if s := strings.TrimSpace(r.RequesterID); s != "" {
		requester, err := domain.ParseIdentityID(s)
		if err != nil {
			return dErrors.New(dErrors.CodeValidation, "requester_id must be a valid identity id")
		}
		r.parsedRequester = &requester
	}

	if len(r.ContextName) > maxContextNameLen {
		return dErrors.New(dErrors.CodeValidation, "context_name is too long")
	}

	return nil
}

// DomainRequest returns the validated engine request.
func (r *ResolveRequest) DomainRequest() resolution.Request {
	return resolution.Request{
		TargetID:    r.parsedTarget,
		RequesterID: r.parsedRequester,
		ContextName: r.ContextName,
	}
}

// ResolveBatchRequest is the HTTP request body for POST /v1/resolve/batch.
type ResolveBatchRequest struct {
	TargetID     string   `json:"target_id"`
	ContextNames []string `json:"context_names"`

	parsedTarget domain.IdentityID
}

// Validate validates and parses the request.
func (r *ResolveBatchRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}

	target, err := domain.ParseIdentityID(strings.TrimSpace(r.TargetID))
	if err != nil {
		return dErrors.New(dErrors.CodeValidation, "target_id must be a valid identity id")
	}
	r.parsedTarget = target

	if len(r.ContextNames) == 0 {
		return dErrors.New(dErrors.CodeValidation, "context_names must not be empty")
	}
	if len(r.ContextNames) > maxBatchContexts {
		return dErrors.New(dErrors.CodeValidation, "too many context names in one batch")
	}
	for _, name := range r.ContextNames {
		if len(name) > maxContextNameLen {
			return dErrors.New(dErrors.CodeValidation, "context name is too long")
		}
	}

	return nil
}
