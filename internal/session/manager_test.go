package session

import (
	"context"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/photocore/eventgallery/internal/config"
	"github.com/photocore/eventgallery/internal/gallery"
	"github.com/photocore/eventgallery/internal/gateway"
	"github.com/photocore/eventgallery/internal/storage"
)

type fakeBackend struct {
	mu        sync.Mutex
	listCalls int
	authCalls int
}

func (f *fakeBackend) BaseURL() string { return "https://api.example.com" }

func (f *fakeBackend) ListAll(ctx context.Context, uuid string, page, size int) (*gateway.AssetPage, error) {
	f.mu.Lock()
	f.listCalls++
	f.mu.Unlock()
	ids := make([]string, 0, size)
	for i := 1; i <= size; i++ {
		ids = append(ids, strconv.Itoa((page-1)*size+i))
	}
	return &gateway.AssetPage{IDs: ids, Total: 100, HasTotal: true}, nil
}

func (f *fakeBackend) ListByPerson(ctx context.Context, uuid, personID string, page, size int) (*gateway.AssetPage, error) {
	return &gateway.AssetPage{}, nil
}

func (f *fakeBackend) PersonStatistics(ctx context.Context, uuid, personID string) (*gateway.PersonStats, error) {
	return &gateway.PersonStats{}, nil
}

func (f *fakeBackend) SearchByKeyword(ctx context.Context, uuid, keyword string, page, count int) (*gateway.AssetPage, error) {
	return &gateway.AssetPage{}, nil
}

func (f *fakeBackend) ShareAuthenticate(ctx context.Context, uuid, contact, code string) ([]string, error) {
	f.mu.Lock()
	f.authCalls++
	f.mu.Unlock()
	return []string{"s1", "s2"}, nil
}

func (f *fakeBackend) ListCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listCalls
}

func newTestManager(t *testing.T) (*Manager, *fakeBackend) {
	t.Helper()
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Gallery.PageSize = 10
	cfg.Gallery.ProgressResetDelay = 0

	store, err := storage.NewMemoryStore()
	require.NoError(t, err)

	backend := &fakeBackend{}
	m := NewManager(backend, store, config.NewLive(cfg))
	t.Cleanup(func() {
		m.Close()
		store.Close()
	})
	return m, backend
}

func TestManager_MountSearch(t *testing.T) {
	m, backend := newTestManager(t)
	ctx := context.Background()

	s, err := m.Mount(ctx, "v1", KindSearch, Options{GalleryUUID: "g1", Title: "Party"})
	require.NoError(t, err)
	require.NotNil(t, s.Orchestrator)
	assert.Nil(t, s.Gate)
	assert.Len(t, s.State.Images(), 10)
	assert.Equal(t, "Party_1", s.State.Images()[0].Filename)
	assert.Equal(t, 1, backend.ListCalls())

	got, ok := m.Get("v1", KindSearch, "g1")
	require.True(t, ok)
	assert.Same(t, s, got)
}

func TestManager_ReloadStartsFresh(t *testing.T) {
	m, backend := newTestManager(t)
	ctx := context.Background()

	s, err := m.Mount(ctx, "v1", KindSearch, Options{GalleryUUID: "g1"})
	require.NoError(t, err)
	s.State.Selection().Toggle(s.State.Images()[0])
	require.NoError(t, s.Orchestrator.ChangePage(ctx, 3))
	require.NoError(t, s.Orchestrator.ChangeQuery(ctx, gallery.ModeKeyword, "cake", ""))

	again, err := m.Mount(ctx, "v1", KindSearch, Options{GalleryUUID: "g1"})
	require.NoError(t, err)
	assert.NotSame(t, s, again)
	assert.Equal(t, 0, again.State.SelectedCount())
	assert.Equal(t, gallery.ModeAll, again.State.Query().Mode)
	assert.Equal(t, 1, again.State.Query().Page)
	assert.Equal(t, "1", again.State.Images()[0].ID)
	assert.Equal(t, 3, backend.ListCalls())

	got, ok := m.Get("v1", KindSearch, "g1")
	require.True(t, ok)
	assert.Same(t, again, got)
	assert.Equal(t, 1, m.Count())
}

func TestManager_Isolation(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	a, err := m.Mount(ctx, "v1", KindSearch, Options{GalleryUUID: "g1"})
	require.NoError(t, err)
	b, err := m.Mount(ctx, "v2", KindSearch, Options{GalleryUUID: "g1"})
	require.NoError(t, err)
	c, err := m.Mount(ctx, "v1", KindShare, Options{GalleryUUID: "g1"})
	require.NoError(t, err)

	assert.NotSame(t, a, b)
	assert.NotNil(t, c.Gate)
	assert.Equal(t, 3, m.Count())

	_, ok := m.Get("v3", KindSearch, "g1")
	assert.False(t, ok)
}

func TestManager_OptionsChangeRemounts(t *testing.T) {
	m, backend := newTestManager(t)
	ctx := context.Background()

	first, err := m.Mount(ctx, "v1", KindSearch, Options{GalleryUUID: "g1"})
	require.NoError(t, err)

	second, err := m.Mount(ctx, "v1", KindSearch, Options{GalleryUUID: "g1", Private: true})
	require.NoError(t, err)
	assert.NotSame(t, first, second)
	assert.True(t, second.State.Private())
	assert.Equal(t, 1, backend.ListCalls(), "private gallery does not list all assets")
}

func TestManager_ShareGrantSurvivesRemount(t *testing.T) {
	m, backend := newTestManager(t)
	ctx := context.Background()

	s, err := m.Mount(ctx, "v1", KindShare, Options{GalleryUUID: "g1"})
	require.NoError(t, err)
	assert.True(t, s.State.Private())
	require.NoError(t, s.Gate.HandleAccess(ctx, "0912345678", "1234"))

	again, err := m.Mount(ctx, "v1", KindShare, Options{GalleryUUID: "g1", Title: "New title"})
	require.NoError(t, err)
	assert.NotSame(t, s, again)
	assert.Equal(t, gallery.GateAuthorized, again.Gate.Status())
	assert.Equal(t, []string{"s1", "s2"}, again.Gate.AssetIDs())
	assert.Equal(t, 1, backend.authCalls)
}

func TestManager_Validation(t *testing.T) {
	m, _ := newTestManager(t)

	_, err := m.Mount(context.Background(), "", KindSearch, Options{GalleryUUID: "g1"})
	assert.ErrorIs(t, err, gallery.ErrValidation)

	_, err = m.Mount(context.Background(), "v1", KindSearch, Options{GalleryUUID: " "})
	assert.ErrorIs(t, err, gallery.ErrValidation)

	_, err = ParseKind("admin")
	assert.ErrorIs(t, err, gallery.ErrValidation)
}

func TestSession_ExportSlot(t *testing.T) {
	s := &Session{}
	assert.True(t, s.BeginExport())
	assert.False(t, s.BeginExport())
	assert.True(t, s.Exporting())
	s.EndExport()
	assert.False(t, s.Exporting())
}
