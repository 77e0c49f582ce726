package audit_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moniker/internal/audit"
	"moniker/internal/audit/store/memory"
	"moniker/pkg/domain"
)

type capturePublisher struct {
	published []audit.Entry
}

func (p *capturePublisher) Publish(_ context.Context, entry audit.Entry) {
	p.published = append(p.published, entry)
}

type failingStore struct {
	audit.Store
}

func (failingStore) Append(context.Context, audit.Entry) error {
	return errors.New("disk full")
}

func TestRecorder_Record(t *testing.T) {
	ctx := context.Background()

	t.Run("fills id and timestamp when absent", func(t *testing.T) {
		store := memory.New()
		rec := audit.NewRecorder(store)

		err := rec.Record(ctx, audit.Entry{
			TargetID: domain.NewIdentityID(),
			Source:   "preferred_fallback",
			NameText: "Alex",
		})
		require.NoError(t, err)

		entries := store.All()
		require.Len(t, entries, 1)
		assert.NotEqual(t, uuid.Nil, entries[0].ID)
		assert.False(t, entries[0].OccurredAt.IsZero())
	})

	t.Run("preserves a caller-supplied id and timestamp", func(t *testing.T) {
		store := memory.New()
		rec := audit.NewRecorder(store)
		id := uuid.New()
		at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

		err := rec.Record(ctx, audit.Entry{
			ID:         id,
			TargetID:   domain.NewIdentityID(),
			Source:     "consent_based",
			NameText:   "Al",
			OccurredAt: at,
		})
		require.NoError(t, err)

		entries := store.All()
		require.Len(t, entries, 1)
		assert.Equal(t, id, entries[0].ID)
		assert.Equal(t, at, entries[0].OccurredAt)
	})

	t.Run("publishes the stored entry", func(t *testing.T) {
		store := memory.New()
		pub := &capturePublisher{}
		rec := audit.NewRecorder(store, audit.WithPublisher(pub))

		err := rec.Record(ctx, audit.Entry{
			TargetID: domain.NewIdentityID(),
			Source:   "context_specific",
			NameText: "Alexander Smith",
		})
		require.NoError(t, err)

		require.Len(t, pub.published, 1)
		assert.Equal(t, store.All()[0].ID, pub.published[0].ID,
			"the published entry carries the persisted id")
	})

	t.Run("store failure skips publishing and surfaces the error", func(t *testing.T) {
		pub := &capturePublisher{}
		rec := audit.NewRecorder(failingStore{}, audit.WithPublisher(pub))

		err := rec.Record(ctx, audit.Entry{
			TargetID: domain.NewIdentityID(),
			Source:   "preferred_fallback",
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "disk full")
		assert.Empty(t, pub.published)
	})
}
