package fibre

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func listIDs(l *list[*fibre]) []ID {
	var ids []ID
	for f := range l.All {
		ids = append(ids, f.id)
	}
	return ids
}

func newTestFibres(n int) []*fibre {
	fibres := make([]*fibre, n)
	for i := range fibres {
		fibres[i] = &fibre{id: ID(i + 1)}
	}
	return fibres
}

func TestList_fifo(t *testing.T) {
	var l list[*fibre]
	require.Nil(t, l.PopFront())
	for _, f := range newTestFibres(3) {
		l.PushBack(f)
	}
	assert.Equal(t, 3, l.Len())
	assert.Equal(t, []ID{1, 2, 3}, listIDs(&l))
	for _, want := range []ID{1, 2, 3} {
		f := l.PopFront()
		require.NotNil(t, f)
		assert.Equal(t, want, f.id)
		assert.Zero(t, f.link)
	}
	assert.Zero(t, l.Len())
	assert.Nil(t, l.PopFront())
}

func TestList_lifo(t *testing.T) {
	var l list[*fibre]
	for _, f := range newTestFibres(3) {
		l.PushFront(f)
	}
	assert.Equal(t, []ID{3, 2, 1}, listIDs(&l))
	assert.Equal(t, ID(3), l.PopFront().id)
	assert.Equal(t, ID(2), l.PopFront().id)
	l.PushFront(&fibre{id: 9})
	assert.Equal(t, []ID{9, 1}, listIDs(&l))
}
