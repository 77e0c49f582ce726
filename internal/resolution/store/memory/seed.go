package memory

import (
	"time"

	"moniker/pkg/domain"
)

// SeedResult exposes the identities created by Seed so callers (the dev
// server, tests) can exercise the engine against known data.
type SeedResult struct {
	Target    domain.IdentityID
	Requester domain.IdentityID
}

// Seed populates the store with a small demo dataset: a target whose
// preferred name is "Alex", a "Work" context disclosing "Alexander Smith",
// and a consent for one requester scoped to a "Personal" context disclosing
// "Al".
func Seed(s *Store) SeedResult {
	target := domain.NewIdentityID()
	requester := domain.NewIdentityID()

	workCtx := domain.NewContextID()
	personalCtx := domain.NewContextID()
	defaultCtx := domain.NewContextID()

	s.AddContext(target, workCtx, "Work", false)
	s.AddContext(target, personalCtx, "Personal", false)
	s.AddContext(target, defaultCtx, "Default", true)

	s.AssignName(target, "Work", domain.NewNameID(), "Alexander Smith")
	s.AssignName(target, "Personal", domain.NewNameID(), "Al")

	s.SetPreferred(target, domain.NewNameID(), "Alex")

	s.AddConsent(Consent{
		ID:          domain.NewConsentID(),
		TargetID:    target,
		RequesterID: requester,
		ContextName: "Personal",
		Status:      domain.ConsentGranted,
		GrantedAt:   time.Now(),
	})

	return SeedResult{Target: target, Requester: requester}
}
