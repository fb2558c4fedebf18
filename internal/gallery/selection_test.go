package gallery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAssets(ids ...string) []AssetMeta {
	return NewURLBuilder("https://api.example.com", "g1", "Party").Assets(ids)
}

func TestSelection_Toggle(t *testing.T) {
	s := NewSelection()
	a := testAssets("a")[0]

	assert.True(t, s.Toggle(a))
	assert.True(t, s.IsSelected("a"))
	assert.Equal(t, 1, s.Count())

	assert.False(t, s.Toggle(a))
	assert.False(t, s.IsSelected("a"))
	assert.Equal(t, 0, s.Count())
}

func TestSelection_SelectAllVisibleRoundTrip(t *testing.T) {
	s := NewSelection()
	other := testAssets("x")[0]
	s.Toggle(other)

	page := testAssets("a", "b", "c")
	s.Toggle(page[1])

	s.SelectAllVisible(page)
	assert.Equal(t, 4, s.Count())
	for _, a := range page {
		assert.True(t, s.IsSelected(a.ID))
	}

	s.SelectAllVisible(page)
	assert.Equal(t, 1, s.Count())
	assert.True(t, s.IsSelected("x"), "selection on other pages is kept")
}

func TestSelection_OrderAndThumbnails(t *testing.T) {
	s := NewSelection()
	assets := testAssets("e", "d", "c", "b", "a")
	for _, a := range assets {
		s.Toggle(a)
	}

	assert.Equal(t, []string{"e", "d", "c", "b", "a"}, s.IDs())

	thumbs := s.PreviewThumbnails(4)
	require.Len(t, thumbs, 4)
	assert.Equal(t, assets[0].Thumb, thumbs[0])
	assert.Equal(t, assets[3].Thumb, thumbs[3])

	entries := s.Entries()
	assert.Equal(t, "Party_e", entries[0].Entry.Filename)
	assert.Equal(t, assets[0].Download, entries[0].Entry.Download)
}

func TestSelection_Clear(t *testing.T) {
	s := NewSelection()
	s.SelectAllVisible(testAssets("a", "b"))
	s.Clear()

	assert.Equal(t, 0, s.Count())
	assert.Empty(t, s.IDs())
	assert.Empty(t, s.PreviewThumbnails(4))
}

func TestSelection_EmptyPage(t *testing.T) {
	s := NewSelection()
	s.SelectAllVisible(nil)
	assert.Equal(t, 0, s.Count())
}

func TestSelection_Remove(t *testing.T) {
	s := NewSelection()
	s.SelectAllVisible(testAssets("a", "b", "c"))
	s.Remove("a", "c", "missing")

	assert.Equal(t, []string{"b"}, s.IDs())
}
