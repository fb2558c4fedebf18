package gallery

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginate(t *testing.T) {
	ids := seqIDs(25)

	page, empty := Paginate(ids, 1, 10)
	assert.Equal(t, seqIDs(10), page)
	assert.False(t, empty)

	page, empty = Paginate(ids, 3, 10)
	assert.Equal(t, []string{"21", "22", "23", "24", "25"}, page)
	assert.False(t, empty)

	page, empty = Paginate(ids, 4, 10)
	assert.Empty(t, page)
	assert.True(t, empty)
}

func TestPaginate_EdgeCases(t *testing.T) {
	page, empty := Paginate(nil, 1, 10)
	assert.Empty(t, page)
	assert.True(t, empty)

	page, _ = Paginate(seqIDs(5), 0, 10)
	assert.Len(t, page, 5, "page below 1 is treated as the first page")

	_, empty = Paginate(seqIDs(5), 1, 0)
	assert.True(t, empty)
}

func TestPaginate_DoesNotAlias(t *testing.T) {
	ids := seqIDs(3)
	page, _ := Paginate(ids, 1, 3)
	page[0] = "changed"
	assert.Equal(t, "1", ids[0])
}
