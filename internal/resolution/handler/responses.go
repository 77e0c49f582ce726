package handler

import (
	"moniker/internal/resolution"
)

// ResolveResponse is the HTTP response for POST /v1/resolve. Metadata
// marshals per its concrete variant, so consent results carry consent
// fields, fallback results carry the fallback reason, and so on.
type ResolveResponse struct {
	Name     string              `json:"name"`
	Source   string              `json:"source"`
	Metadata resolution.Metadata `json:"metadata"`
}

// FromResolution converts an engine result to an HTTP response.
func FromResolution(res resolution.NameResolution) ResolveResponse {
	return ResolveResponse{
		Name:     res.Name,
		Source:   string(res.Source),
		Metadata: res.Metadata,
	}
}

// ResolveBatchResponse is the HTTP response for POST /v1/resolve/batch.
// Results are positionally aligned with the requested context names.
type ResolveBatchResponse struct {
	Results []ResolveResponse `json:"results"`
}

// FromBatch converts a batch of engine results to an HTTP response.
func FromBatch(results []resolution.NameResolution) ResolveBatchResponse {
	out := ResolveBatchResponse{Results: make([]ResolveResponse, len(results))}
	for i, res := range results {
		out.Results[i] = FromResolution(res)
	}
	return out
}
