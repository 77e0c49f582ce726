// Package cache decorates a DirectoryStore with a Redis read-through cache
// for preferred-name lookups.
//
// Only tier 3 is cacheable: consent and context reads must stay
// point-in-time because expiry and revocation take effect at read time. A
// preferred name changes rarely and a short TTL bounds staleness.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"moniker/internal/platform/redis"
	"moniker/internal/resolution/ports"
	"moniker/pkg/domain"
)

// Store wraps an inner DirectoryStore with a preferred-name cache. Cache
// failures are never surfaced: a broken Redis degrades to the inner store.
type Store struct {
	inner  ports.DirectoryStore
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// New constructs the caching decorator. The client must be non-nil; callers
// with no Redis configured should use the inner store directly.
func New(inner ports.DirectoryStore, client *redis.Client, ttl time.Duration, logger *slog.Logger) *Store {
	return &Store{inner: inner, client: client, ttl: ttl, logger: logger}
}

// ActiveConsent delegates to the inner store. Never cached.
func (s *Store) ActiveConsent(ctx context.Context, target, requester domain.IdentityID) (*ports.ConsentGrant, error) {
	return s.inner.ActiveConsent(ctx, target, requester)
}

// ContextAssignment delegates to the inner store. Never cached.
func (s *Store) ContextAssignment(ctx context.Context, target domain.IdentityID, contextName string) (*ports.AssignedName, error) {
	return s.inner.ContextAssignment(ctx, target, contextName)
}

// PreferredName reads through the cache.
func (s *Store) PreferredName(ctx context.Context, target domain.IdentityID) (*ports.PreferredName, error) {
	key := cacheKey(target)

	if payload, err := s.client.Get(ctx, key).Bytes(); err == nil {
		var pref ports.PreferredName
		if err := json.Unmarshal(payload, &pref); err == nil {
			return &pref, nil
		}
		// Corrupt entry: fall through and overwrite.
	} else if !isMiss(err) && s.logger != nil {
		s.logger.DebugContext(ctx, "preferred name cache read failed",
			"target_id", target,
			"error", err,
		)
	}

	pref, err := s.inner.PreferredName(ctx, target)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(pref); err == nil {
		if err := s.client.Set(ctx, key, payload, s.ttl).Err(); err != nil && s.logger != nil {
			s.logger.DebugContext(ctx, "preferred name cache write failed",
				"target_id", target,
				"error", err,
			)
		}
	}
	return pref, nil
}

func cacheKey(target domain.IdentityID) string {
	return fmt.Sprintf("moniker:preferred:%s", target)
}

func isMiss(err error) bool {
	return errors.Is(err, redis.Nil)
}
