package resolution_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"moniker/internal/audit"
	auditmemory "moniker/internal/audit/store/memory"
	"moniker/internal/resolution"
	"moniker/internal/resolution/mocks"
	"moniker/internal/resolution/ports"
	"moniker/internal/resolution/store/memory"
	"moniker/pkg/domain"
	"moniker/pkg/requestcontext"
)

// fixture is the scenario from the compliance acceptance checklist: target
// prefers "Alex", context "Work" discloses "Alexander Smith", and one
// requester holds a consent scoped to "Personal" disclosing "Al".
type fixture struct {
	engine     *resolution.Engine
	store      *memory.Store
	auditStore *auditmemory.Store
	target     domain.IdentityID
	requester  domain.IdentityID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memory.New()
	auditStore := auditmemory.New()
	f := &fixture{
		store:      store,
		auditStore: auditStore,
		target:     domain.NewIdentityID(),
		requester:  domain.NewIdentityID(),
	}

	store.AddContext(f.target, domain.NewContextID(), "Work", false)
	store.AddContext(f.target, domain.NewContextID(), "Personal", false)
	store.AssignName(f.target, "Work", domain.NewNameID(), "Alexander Smith")
	store.AssignName(f.target, "Personal", domain.NewNameID(), "Al")
	store.SetPreferred(f.target, domain.NewNameID(), "Alex")
	store.AddConsent(memory.Consent{
		ID:          domain.NewConsentID(),
		TargetID:    f.target,
		RequesterID: f.requester,
		ContextName: "Personal",
		Status:      domain.ConsentGranted,
		GrantedAt:   time.Now(),
	})

	f.engine = resolution.NewEngine(store, audit.NewRecorder(auditStore))
	return f
}

func (f *fixture) resolve(req resolution.Request) resolution.NameResolution {
	return f.engine.Resolve(context.Background(), req)
}

func TestResolve_PriorityOrdering(t *testing.T) {
	t.Run("no inputs falls back to preferred name", func(t *testing.T) {
		f := newFixture(t)

		res := f.resolve(resolution.Request{TargetID: f.target})

		assert.Equal(t, "Alex", res.Name)
		assert.Equal(t, resolution.SourcePreferredFallback, res.Source)

		meta, ok := res.Metadata.(*resolution.FallbackMetadata)
		require.True(t, ok)
		assert.Equal(t, resolution.ReasonNoRequesterNoContext, meta.Reason)
		assert.False(t, meta.HadRequester)
	})

	t.Run("context name resolves the assigned variant", func(t *testing.T) {
		f := newFixture(t)

		res := f.resolve(resolution.Request{TargetID: f.target, ContextName: "Work"})

		assert.Equal(t, "Alexander Smith", res.Name)
		assert.Equal(t, resolution.SourceContext, res.Source)

		meta, ok := res.Metadata.(*resolution.ContextMetadata)
		require.True(t, ok)
		assert.Equal(t, "Work", meta.ContextName)
		assert.Equal(t, "Work", meta.RequestedContext)
	})

	t.Run("consent resolves through its own context", func(t *testing.T) {
		f := newFixture(t)

		res := f.resolve(resolution.Request{TargetID: f.target, RequesterID: &f.requester})

		assert.Equal(t, "Al", res.Name)
		assert.Equal(t, resolution.SourceConsent, res.Source)

		meta, ok := res.Metadata.(*resolution.ConsentMetadata)
		require.True(t, ok)
		assert.Equal(t, "Personal", meta.ContextName)
		assert.True(t, meta.HadRequester)
	})

	t.Run("consent outranks a matching context assignment", func(t *testing.T) {
		f := newFixture(t)

		res := f.resolve(resolution.Request{
			TargetID:    f.target,
			RequesterID: &f.requester,
			ContextName: "Work",
		})

		assert.Equal(t, "Al", res.Name)
		assert.Equal(t, resolution.SourceConsent, res.Source,
			"an explicit cross-identity grant must outrank a same-identity context preference")
	})

	t.Run("whitespace context name is treated as absent", func(t *testing.T) {
		f := newFixture(t)

		res := f.resolve(resolution.Request{TargetID: f.target, ContextName: "   "})

		assert.Equal(t, resolution.SourcePreferredFallback, res.Source)
	})
}

func TestResolve_ConsentExpiry(t *testing.T) {
	t.Run("expired consent falls through", func(t *testing.T) {
		store := memory.New()
		target := domain.NewIdentityID()
		requester := domain.NewIdentityID()
		expired := time.Now().Add(-time.Hour)

		store.AddContext(target, domain.NewContextID(), "Personal", false)
		store.AssignName(target, "Personal", domain.NewNameID(), "Al")
		store.SetPreferred(target, domain.NewNameID(), "Alex")
		store.AddConsent(memory.Consent{
			ID:          domain.NewConsentID(),
			TargetID:    target,
			RequesterID: requester,
			ContextName: "Personal",
			Status:      domain.ConsentGranted,
			GrantedAt:   expired.Add(-time.Hour),
			ExpiresAt:   &expired,
		})

		engine := resolution.NewEngine(store, audit.NewRecorder(auditmemory.New()))
		res := engine.Resolve(context.Background(), resolution.Request{
			TargetID:    target,
			RequesterID: &requester,
		})

		assert.Equal(t, resolution.SourcePreferredFallback, res.Source)
		assert.Equal(t, "Alex", res.Name)

		meta, ok := res.Metadata.(*resolution.FallbackMetadata)
		require.True(t, ok)
		assert.Equal(t, resolution.ReasonNoActiveConsent, meta.Reason)
	})

	t.Run("expiry is evaluated against the request time", func(t *testing.T) {
		f := newFixture(t)
		expiry := time.Now().Add(time.Minute)
		f.store.AddConsent(memory.Consent{
			ID:          domain.NewConsentID(),
			TargetID:    f.target,
			RequesterID: f.requester,
			ContextName: "Work",
			Status:      domain.ConsentGranted,
			GrantedAt:   time.Now().Add(time.Second),
			ExpiresAt:   &expiry,
		})

		// At a pinned time past the expiry the newer Work-scoped consent is
		// inactive and the original Personal-scoped one wins again.
		ctx := requestcontext.WithTime(context.Background(), expiry.Add(time.Second))
		res := f.engine.Resolve(ctx, resolution.Request{TargetID: f.target, RequesterID: &f.requester})

		assert.Equal(t, resolution.SourceConsent, res.Source)
		assert.Equal(t, "Al", res.Name)
	})

	t.Run("revoked consent is never active", func(t *testing.T) {
		store := memory.New()
		target := domain.NewIdentityID()
		requester := domain.NewIdentityID()

		store.SetPreferred(target, domain.NewNameID(), "Alex")
		store.AddConsent(memory.Consent{
			ID:          domain.NewConsentID(),
			TargetID:    target,
			RequesterID: requester,
			ContextName: "Personal",
			Status:      domain.ConsentRevoked,
			GrantedAt:   time.Now(),
		})

		engine := resolution.NewEngine(store, audit.NewRecorder(auditmemory.New()))
		res := engine.Resolve(context.Background(), resolution.Request{
			TargetID:    target,
			RequesterID: &requester,
		})

		assert.Equal(t, resolution.SourcePreferredFallback, res.Source)
	})
}

func TestResolve_FallbackReasons(t *testing.T) {
	tests := []struct {
		name    string
		request func(f *fixture) resolution.Request
		want    resolution.FallbackReason
	}{
		{
			name: "requester without consent",
			request: func(f *fixture) resolution.Request {
				stranger := domain.NewIdentityID()
				return resolution.Request{TargetID: f.target, RequesterID: &stranger}
			},
			want: resolution.ReasonNoActiveConsent,
		},
		{
			name: "context without assignment",
			request: func(f *fixture) resolution.Request {
				return resolution.Request{TargetID: f.target, ContextName: "Gaming"}
			},
			want: resolution.ReasonNoContextAssignment,
		},
		{
			name: "both supplied, neither resolved",
			request: func(f *fixture) resolution.Request {
				stranger := domain.NewIdentityID()
				return resolution.Request{
					TargetID:    f.target,
					RequesterID: &stranger,
					ContextName: "Gaming",
				}
			},
			want: resolution.ReasonNeitherResolved,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			res := f.resolve(tt.request(f))

			assert.Equal(t, "Alex", res.Name)
			assert.Equal(t, resolution.SourcePreferredFallback, res.Source)
			meta, ok := res.Metadata.(*resolution.FallbackMetadata)
			require.True(t, ok)
			assert.Equal(t, tt.want, meta.Reason)
		})
	}
}

func TestResolve_AnonymousSafetyNet(t *testing.T) {
	store := memory.New()
	target := domain.NewIdentityID()

	engine := resolution.NewEngine(store, audit.NewRecorder(auditmemory.New()))
	res := engine.Resolve(context.Background(), resolution.Request{TargetID: target})

	assert.Equal(t, resolution.AnonymousName, res.Name)
	assert.Equal(t, resolution.SourcePreferredFallback, res.Source)

	meta, ok := res.Metadata.(*resolution.FallbackMetadata)
	require.True(t, ok)
	assert.Equal(t, resolution.ReasonPreferredNameMissing, meta.Reason)
	assert.Nil(t, meta.NameID)
}

func TestResolve_ExactlyOnceAudit(t *testing.T) {
	t.Run("every outcome writes one entry", func(t *testing.T) {
		f := newFixture(t)

		f.resolve(resolution.Request{TargetID: f.target})
		f.resolve(resolution.Request{TargetID: f.target, ContextName: "Work"})
		f.resolve(resolution.Request{TargetID: f.target, RequesterID: &f.requester})
		f.resolve(resolution.Request{TargetID: f.target, ContextName: "Gaming"})

		entries := f.auditStore.All()
		require.Len(t, entries, 4)
		assert.Equal(t, string(resolution.SourcePreferredFallback), entries[0].Source)
		assert.Equal(t, string(resolution.SourceContext), entries[1].Source)
		assert.Equal(t, string(resolution.SourceConsent), entries[2].Source)
		assert.Equal(t, string(resolution.SourcePreferredFallback), entries[3].Source)
	})

	t.Run("consent entries carry consent and context ids", func(t *testing.T) {
		f := newFixture(t)

		f.resolve(resolution.Request{TargetID: f.target, RequesterID: &f.requester})

		entries := f.auditStore.All()
		require.Len(t, entries, 1)
		entry := entries[0]
		assert.Equal(t, f.target, entry.TargetID)
		require.NotNil(t, entry.RequesterID)
		assert.Equal(t, f.requester, *entry.RequesterID)
		assert.NotNil(t, entry.ConsentID)
		assert.NotNil(t, entry.NameID)
		assert.Equal(t, "Al", entry.NameText)
	})

	t.Run("panicking sink is swallowed like any audit failure", func(t *testing.T) {
		store := memory.New()
		target := domain.NewIdentityID()
		store.SetPreferred(target, domain.NewNameID(), "Alex")

		engine := resolution.NewEngine(store, panickingSink{})

		var res resolution.NameResolution
		require.NotPanics(t, func() {
			res = engine.Resolve(context.Background(), resolution.Request{TargetID: target})
		})
		assert.Equal(t, "Alex", res.Name)
		assert.Equal(t, resolution.SourcePreferredFallback, res.Source)
	})

	t.Run("panicking sink on the error path is also contained", func(t *testing.T) {
		// Both guards fire here: the store panic degrades to error_fallback
		// and the audit panic on that terminal result is swallowed too.
		engine := resolution.NewEngine(panickingStore{}, panickingSink{})

		var res resolution.NameResolution
		require.NotPanics(t, func() {
			res = engine.Resolve(context.Background(), resolution.Request{
				TargetID: domain.NewIdentityID(),
			})
		})
		assert.Equal(t, resolution.AnonymousName, res.Name)
		assert.Equal(t, resolution.SourceErrorFallback, res.Source)
	})

	t.Run("audit failure never changes the resolution", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := memory.New()
		target := domain.NewIdentityID()
		store.SetPreferred(target, domain.NewNameID(), "Alex")

		sink := mocks.NewMockAuditSink(ctrl)
		sink.EXPECT().
			Record(gomock.Any(), gomock.Any()).
			Return(errors.New("audit store down")).
			Times(1)

		engine := resolution.NewEngine(store, sink)
		res := engine.Resolve(context.Background(), resolution.Request{TargetID: target})

		assert.Equal(t, "Alex", res.Name)
		assert.Equal(t, resolution.SourcePreferredFallback, res.Source)
	})
}

func TestResolve_StoreFailureDegradation(t *testing.T) {
	t.Run("consent tier store error falls through, marked degraded", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		target := domain.NewIdentityID()
		requester := domain.NewIdentityID()

		store := mocks.NewMockDirectoryStore(ctrl)
		store.EXPECT().
			ActiveConsent(gomock.Any(), target, requester).
			Return(nil, errors.New("connection refused"))
		store.EXPECT().
			PreferredName(gomock.Any(), target).
			Return(&ports.PreferredName{NameID: domain.NewNameID(), Text: "Alex"}, nil)

		auditStore := auditmemory.New()
		engine := resolution.NewEngine(store, audit.NewRecorder(auditStore))

		res := engine.Resolve(context.Background(), resolution.Request{
			TargetID:    target,
			RequesterID: &requester,
		})

		assert.Equal(t, "Alex", res.Name)
		assert.Equal(t, resolution.SourcePreferredFallback, res.Source)
		meta, ok := res.Metadata.(*resolution.FallbackMetadata)
		require.True(t, ok)
		assert.True(t, meta.Degraded)
		assert.Len(t, auditStore.All(), 1)
	})

	t.Run("every tier failing still yields the placeholder", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		target := domain.NewIdentityID()
		requester := domain.NewIdentityID()
		down := errors.New("store unavailable")

		store := mocks.NewMockDirectoryStore(ctrl)
		store.EXPECT().ActiveConsent(gomock.Any(), target, requester).Return(nil, down)
		store.EXPECT().ContextAssignment(gomock.Any(), target, "Work").Return(nil, down)
		store.EXPECT().PreferredName(gomock.Any(), target).Return(nil, down)

		auditStore := auditmemory.New()
		engine := resolution.NewEngine(store, audit.NewRecorder(auditStore))

		res := engine.Resolve(context.Background(), resolution.Request{
			TargetID:    target,
			RequesterID: &requester,
			ContextName: "Work",
		})

		assert.Equal(t, resolution.AnonymousName, res.Name)
		assert.Equal(t, resolution.SourcePreferredFallback, res.Source)
		meta, ok := res.Metadata.(*resolution.FallbackMetadata)
		require.True(t, ok)
		assert.True(t, meta.Degraded)
		assert.Contains(t, meta.Error, "store unavailable")

		require.Len(t, auditStore.All(), 1, "degraded paths still audit exactly once")
	})

	t.Run("consent grant without assignment falls through to context", func(t *testing.T) {
		f := newFixture(t)
		// A grant scoped to a context that has no assignment behind it.
		f.store.AddContext(f.target, domain.NewContextID(), "Empty", false)
		stranger := domain.NewIdentityID()
		f.store.AddConsent(memory.Consent{
			ID:          domain.NewConsentID(),
			TargetID:    f.target,
			RequesterID: stranger,
			ContextName: "Empty",
			Status:      domain.ConsentGranted,
			GrantedAt:   time.Now(),
		})

		res := f.resolve(resolution.Request{
			TargetID:    f.target,
			RequesterID: &stranger,
			ContextName: "Work",
		})

		assert.Equal(t, "Alexander Smith", res.Name)
		assert.Equal(t, resolution.SourceContext, res.Source)
	})
}

// panickingSink simulates an audit adapter bug: the write is best-effort, so
// even a panic there must stay inside the engine.
type panickingSink struct{}

func (panickingSink) Record(context.Context, audit.Entry) error {
	panic("sink bug")
}

// panickingStore simulates a driver bug: the engine boundary must convert it
// into the error_fallback terminal result, audit included.
type panickingStore struct{}

func (panickingStore) ActiveConsent(context.Context, domain.IdentityID, domain.IdentityID) (*ports.ConsentGrant, error) {
	panic("driver bug")
}

func (panickingStore) ContextAssignment(context.Context, domain.IdentityID, string) (*ports.AssignedName, error) {
	panic("driver bug")
}

func (panickingStore) PreferredName(context.Context, domain.IdentityID) (*ports.PreferredName, error) {
	panic("driver bug")
}

func TestResolve_Totality(t *testing.T) {
	auditStore := auditmemory.New()
	engine := resolution.NewEngine(panickingStore{}, audit.NewRecorder(auditStore))
	requester := domain.NewIdentityID()

	res := engine.Resolve(context.Background(), resolution.Request{
		TargetID:    domain.NewIdentityID(),
		RequesterID: &requester,
	})

	assert.Equal(t, resolution.AnonymousName, res.Name)
	assert.Equal(t, resolution.SourceErrorFallback, res.Source)

	meta, ok := res.Metadata.(*resolution.ErrorMetadata)
	require.True(t, ok)
	assert.Contains(t, meta.Error, "driver bug")
	assert.True(t, meta.HadRequester)

	entries := auditStore.All()
	require.Len(t, entries, 1, "the terminal error path still audits exactly once")
	assert.Equal(t, string(resolution.SourceErrorFallback), entries[0].Source)
	assert.Contains(t, entries[0].Error, "driver bug")
}

func TestResolve_MetadataStamping(t *testing.T) {
	f := newFixture(t)

	res := f.resolve(resolution.Request{TargetID: f.target})

	base := res.Metadata.Base()
	assert.False(t, base.ResolutionTimestamp.IsZero())
	assert.GreaterOrEqual(t, base.ResponseTimeMS, int64(0))
}
