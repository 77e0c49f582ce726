// Package memory provides the in-memory DirectoryStore used by unit tests
// and the server's seeded dev mode.
package memory

import (
	"context"
	"sync"
	"time"

	"moniker/internal/resolution/ports"
	"moniker/pkg/domain"
	"moniker/pkg/platform/sentinel"
	"moniker/pkg/requestcontext"
)

// Consent is a raw consent row. The store applies the active-consent filter
// (status GRANTED, unexpired) at read time, mirroring the SQL contract.
type Consent struct {
	ID          domain.ConsentID
	TargetID    domain.IdentityID
	RequesterID domain.IdentityID
	// ContextName scopes the consent; empty means unscoped, which resolves
	// through the target's permanent default context.
	ContextName string
	Status      domain.ConsentStatus
	GrantedAt   time.Time
	ExpiresAt   *time.Time
}

type contextRow struct {
	id        domain.ContextID
	name      string
	permanent bool
}

type assignmentRow struct {
	nameID domain.NameID
	text   string
}

type contextKey struct {
	target domain.IdentityID
	name   string
}

// Store is a thread-safe in-memory DirectoryStore.
type Store struct {
	mu          sync.RWMutex
	consents    []Consent
	contexts    map[contextKey]contextRow
	assignments map[contextKey]assignmentRow
	preferred   map[domain.IdentityID]ports.PreferredName
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		contexts:    make(map[contextKey]contextRow),
		assignments: make(map[contextKey]assignmentRow),
		preferred:   make(map[domain.IdentityID]ports.PreferredName),
	}
}

// AddConsent registers a raw consent row.
func (s *Store) AddConsent(c Consent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.consents = append(s.consents, c)
}

// AddContext registers a context owned by target.
func (s *Store) AddContext(target domain.IdentityID, id domain.ContextID, name string, permanent bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contexts[contextKey{target, name}] = contextRow{id: id, name: name, permanent: permanent}
}

// AssignName maps an existing context of target to a name variant.
func (s *Store) AssignName(target domain.IdentityID, contextName string, nameID domain.NameID, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assignments[contextKey{target, contextName}] = assignmentRow{nameID: nameID, text: text}
}

// SetPreferred sets the target's preferred name variant.
func (s *Store) SetPreferred(target domain.IdentityID, nameID domain.NameID, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.preferred[target] = ports.PreferredName{NameID: nameID, Text: text}
}

// ActiveConsent returns the most recently granted effective consent from
// target to requester. Expiry is evaluated against the request time so
// tests can pin the clock via requestcontext.WithTime.
func (s *Store) ActiveConsent(ctx context.Context, target, requester domain.IdentityID) (*ports.ConsentGrant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := requestcontext.Now(ctx)
	var best *Consent
	for i := range s.consents {
		c := &s.consents[i]
		if c.TargetID != target || c.RequesterID != requester {
			continue
		}
		if !c.Status.IsEffective() {
			continue
		}
		if c.ExpiresAt != nil && !c.ExpiresAt.After(now) {
			continue
		}
		if best == nil || c.GrantedAt.After(best.GrantedAt) {
			best = c
		}
	}
	if best == nil {
		return nil, sentinel.ErrNotFound
	}

	contextName := best.ContextName
	if contextName == "" {
		contextName = s.permanentContextName(target)
	}
	grant := &ports.ConsentGrant{
		ConsentID:   best.ID,
		ContextName: contextName,
		GrantedAt:   best.GrantedAt,
		ExpiresAt:   best.ExpiresAt,
	}
	if row, ok := s.contexts[contextKey{target, contextName}]; ok {
		grant.ContextID = row.id
	}
	return grant, nil
}

func (s *Store) permanentContextName(target domain.IdentityID) string {
	for key, row := range s.contexts {
		if key.target == target && row.permanent {
			return row.name
		}
	}
	return ""
}

// ContextAssignment returns the name assigned to target's context with the
// given name. Exact match; no assignment means sentinel.ErrNotFound.
func (s *Store) ContextAssignment(_ context.Context, target domain.IdentityID, contextName string) (*ports.AssignedName, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	key := contextKey{target, contextName}
	row, ok := s.contexts[key]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	assigned, ok := s.assignments[key]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &ports.AssignedName{
		NameID:      assigned.nameID,
		Text:        assigned.text,
		ContextID:   row.id,
		ContextName: row.name,
	}, nil
}

// PreferredName returns the target's preferred name variant.
func (s *Store) PreferredName(_ context.Context, target domain.IdentityID) (*ports.PreferredName, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pref, ok := s.preferred[target]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	p := pref
	return &p, nil
}
