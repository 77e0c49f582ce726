package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moniker/internal/audit"
	"moniker/internal/audit/store/memory"
	"moniker/pkg/domain"
)

func appendEntry(t *testing.T, s *memory.Store, target domain.IdentityID, at time.Time) audit.Entry {
	t.Helper()
	entry := audit.Entry{
		ID:         uuid.New(),
		TargetID:   target,
		Source:     "preferred_fallback",
		NameText:   "Alex",
		OccurredAt: at,
	}
	require.NoError(t, s.Append(context.Background(), entry))
	return entry
}

func TestListByTarget(t *testing.T) {
	s := memory.New()
	target := domain.NewIdentityID()
	other := domain.NewIdentityID()
	base := time.Now()

	first := appendEntry(t, s, target, base)
	appendEntry(t, s, other, base.Add(time.Second))
	second := appendEntry(t, s, target, base.Add(2*time.Second))

	got, err := s.ListByTarget(context.Background(), target, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, second.ID, got[0].ID, "most recent first")
	assert.Equal(t, first.ID, got[1].ID)

	got, err = s.ListByTarget(context.Background(), target, 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, second.ID, got[0].ID)
}

func TestListRecent(t *testing.T) {
	s := memory.New()
	base := time.Now()

	var ids []uuid.UUID
	for i := 0; i < 5; i++ {
		e := appendEntry(t, s, domain.NewIdentityID(), base.Add(time.Duration(i)*time.Second))
		ids = append(ids, e.ID)
	}

	got, err := s.ListRecent(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, ids[4], got[0].ID)
	assert.Equal(t, ids[2], got[2].ID)
}
