package gallery

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/photocore/eventgallery/internal/gateway"
	"github.com/photocore/eventgallery/internal/storage"
)

type shareFixture struct {
	gate    *ShareGate
	auth    *fakeAuth
	store   *storage.Store
	notices *NoticeLog
}

func newShareFixture(t *testing.T, fa *fakeAuth, store *storage.Store, preview bool) *shareFixture {
	t.Helper()
	if store == nil {
		var err error
		store, err = storage.NewMemoryStore()
		require.NoError(t, err)
		t.Cleanup(func() { store.Close() })
	}

	notices := NewNoticeLog(10)
	gate := NewShareGate(ShareGateConfig{
		Auth:         fa,
		Grants:       store,
		GrantKey:     storage.GrantKey("viewer-1", "g1"),
		GrantTTL:     time.Hour,
		State:        NewState(StateOptions{PageSize: 10, Preview: preview, PageTitle: "Gala"}),
		URLs:         NewURLBuilder("https://api.example.com", "g1", "Gala"),
		Notifier:     notices,
		Placeholders: PlaceholderAssets("/placeholder", "Gala", 10),
	})
	return &shareFixture{gate: gate, auth: fa, store: store, notices: notices}
}

func TestShareGate_Success(t *testing.T) {
	f := newShareFixture(t, &fakeAuth{ids: seqIDs(25)}, nil, false)
	ctx := context.Background()

	assert.Equal(t, GateLocked, f.gate.Status())
	require.NoError(t, f.gate.HandleAccess(ctx, " 0901234567 ", "1234"))

	assert.Equal(t, GateAuthorized, f.gate.Status())
	snap := f.gate.State().Snapshot()
	assert.Equal(t, seqIDs(10), assetIDs(snap.Images))
	assert.Equal(t, 25, snap.Total)
	assert.Equal(t, 3, snap.TotalPages)

	f.gate.ShowPage(3)
	snap = f.gate.State().Snapshot()
	assert.Equal(t, []string{"21", "22", "23", "24", "25"}, assetIDs(snap.Images))

	f.gate.ShowPage(4)
	snap = f.gate.State().Snapshot()
	assert.Empty(t, snap.Images)
	assert.True(t, snap.NoResults)

	// Пагинация локальная
	assert.Equal(t, 1, f.auth.Calls())
}

func TestShareGate_Denied(t *testing.T) {
	f := newShareFixture(t, &fakeAuth{err: &gateway.StatusError{StatusCode: 401, Body: "bad code"}}, nil, false)

	err := f.gate.HandleAccess(context.Background(), "a@b.c", "0000")
	require.ErrorIs(t, err, ErrAccessDenied)
	assert.Equal(t, GateLocked, f.gate.Status())
	assert.Empty(t, f.gate.State().Images())

	got := f.notices.Drain()
	require.Len(t, got, 1)
	assert.Equal(t, NoticeError, got[0].Level)
}

func TestShareGate_BackendFailure(t *testing.T) {
	f := newShareFixture(t, &fakeAuth{err: errBackendDown}, nil, false)

	err := f.gate.HandleAccess(context.Background(), "a@b.c", "0000")
	require.ErrorIs(t, err, errBackendDown)
	assert.Equal(t, GateLocked, f.gate.Status())
}

func TestShareGate_NoAssets(t *testing.T) {
	f := newShareFixture(t, &fakeAuth{ids: []string{}}, nil, false)

	err := f.gate.HandleAccess(context.Background(), "a@b.c", "1234")
	require.ErrorIs(t, err, ErrNoAssets)
	assert.Equal(t, GateLocked, f.gate.Status())

	got := f.notices.Drain()
	require.Len(t, got, 1)
	assert.Equal(t, NoticeWarning, got[0].Level)
}

func TestShareGate_EmptyInput(t *testing.T) {
	f := newShareFixture(t, &fakeAuth{ids: seqIDs(3)}, nil, false)

	err := f.gate.HandleAccess(context.Background(), "  ", "1234")
	require.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, 0, f.auth.Calls())
}

func TestShareGate_AlreadyAuthorized(t *testing.T) {
	f := newShareFixture(t, &fakeAuth{ids: seqIDs(3)}, nil, false)
	ctx := context.Background()

	require.NoError(t, f.gate.HandleAccess(ctx, "a@b.c", "1234"))
	require.NoError(t, f.gate.HandleAccess(ctx, "a@b.c", "1234"))
	assert.Equal(t, 1, f.auth.Calls())

	err := f.gate.HandleAccess(ctx, "x@y.z", "9999")
	require.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, 1, f.auth.Calls())
	assert.Equal(t, seqIDs(3), f.gate.AssetIDs())
}

func TestShareGate_LockedShowPage(t *testing.T) {
	f := newShareFixture(t, &fakeAuth{ids: seqIDs(3)}, nil, false)

	f.gate.ShowPage(2)
	assert.Empty(t, f.gate.State().Images())
	assert.Equal(t, 1, f.gate.State().Query().Page)
}

func TestShareGate_RestoresGrant(t *testing.T) {
	first := newShareFixture(t, &fakeAuth{ids: seqIDs(12)}, nil, false)
	require.NoError(t, first.gate.HandleAccess(context.Background(), "a@b.c", "1234"))

	fa := &fakeAuth{ids: seqIDs(1)}
	second := newShareFixture(t, fa, first.store, false)

	assert.Equal(t, GateAuthorized, second.gate.Status())
	assert.Equal(t, seqIDs(12), second.gate.AssetIDs())
	assert.Len(t, second.gate.State().Images(), 10)

	// Тот же код принимается без обращения к бэкенду
	require.NoError(t, second.gate.HandleAccess(context.Background(), "a@b.c", "1234"))
	assert.Equal(t, 0, fa.Calls())
}

func TestShareGate_Preview(t *testing.T) {
	fa := &fakeAuth{ids: seqIDs(3)}
	f := newShareFixture(t, fa, nil, true)

	assert.Equal(t, GateAuthorized, f.gate.Status())
	images := f.gate.State().Images()
	require.Len(t, images, 10)
	assert.Equal(t, "/placeholder/1/thumbnail", images[0].Thumb)
	assert.Equal(t, 0, fa.Calls())
}
