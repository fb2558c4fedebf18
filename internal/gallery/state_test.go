package gallery

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestState_SetQueryResetsPage(t *testing.T) {
	s := NewState(StateOptions{PageSize: 10})
	assert.True(t, s.SetPage(4))

	assert.True(t, s.SetQuery(ModeKeyword, "cake", ""))
	assert.Equal(t, 1, s.Query().Page)

	assert.False(t, s.SetQuery(ModeKeyword, "cake", ""), "same source is not a change")
	assert.False(t, s.SetPage(1))
}

func TestState_GenerationGuard(t *testing.T) {
	s := NewState(StateOptions{PageSize: 10})

	old := s.BeginFetch(true)
	current := s.BeginFetch(true)

	assert.False(t, s.IsCurrent(old))
	assert.False(t, s.ReplaceImages(old, testAssets("a")))
	assert.False(t, s.AppendImages(old, testAssets("a"), "c"))
	assert.False(t, s.SetTotal(old, 5))
	assert.False(t, s.FinishFetch(old, false))
	assert.True(t, s.Loading())

	assert.True(t, s.ReplaceImages(current, testAssets("b")))
	assert.True(t, s.FinishFetch(current, false))
	assert.False(t, s.Loading())
	assert.Equal(t, PhaseLoaded, s.Phase())
}

func TestState_ProgressMonotonic(t *testing.T) {
	s := NewState(StateOptions{PageSize: 10})
	gen := s.BeginFetch(false)

	s.SetProgress(gen, 50)
	s.SetProgress(gen, 10)
	assert.Equal(t, 50, s.Progress())

	s.SetProgress(gen, 150)
	assert.Equal(t, 100, s.Progress())

	// Сброс только после завершения цикла
	s.ResetProgress(gen)
	assert.Equal(t, 100, s.Progress())

	s.FinishFetch(gen, false)
	s.ResetProgress(gen)
	assert.Equal(t, 0, s.Progress())
}

func TestState_TotalPages(t *testing.T) {
	assert.Equal(t, 1, totalPages(0, 10))
	assert.Equal(t, 1, totalPages(10, 10))
	assert.Equal(t, 3, totalPages(25, 10))
	assert.Equal(t, 1, totalPages(25, 0))
}

func TestState_SnapshotLabels(t *testing.T) {
	s := NewState(StateOptions{PageSize: 10})
	gen := s.BeginFetch(false)
	s.SetTotal(gen, 25)
	s.ReplaceImages(gen, testAssets("a"))
	s.FinishFetch(gen, false)
	s.SetPage(3)

	snap := s.Snapshot()
	assert.True(t, snap.ShowTotal)
	assert.Equal(t, "Showing 21-25 of 25", snap.TotalLabel)
	assert.False(t, snap.HasMore)

	s.SetQuery(ModeKeyword, "cake", "")
	gen = s.BeginFetch(false)
	s.AppendImages(gen, testAssets("k1"), "next")

	snap = s.Snapshot()
	assert.False(t, snap.ShowTotal)
	assert.Empty(t, snap.TotalLabel)
	assert.True(t, snap.HasMore)
}

func TestState_LocalPage(t *testing.T) {
	s := NewState(StateOptions{PageSize: 10})
	s.SetLocalPage(4, nil, 25)

	snap := s.Snapshot()
	assert.Equal(t, 4, snap.Page)
	assert.True(t, snap.NoResults)
	assert.Equal(t, 25, snap.Total)
	assert.NotNil(t, snap.Images)
}

func TestState_Subscribe(t *testing.T) {
	s := NewState(StateOptions{PageSize: 10})

	var events int
	cancel := s.Subscribe(func(Event) { events++ })
	s.SetPage(2)
	assert.Equal(t, 1, events)

	cancel()
	s.SetPage(3)
	assert.Equal(t, 1, events)
}
