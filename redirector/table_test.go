package redirector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTable(t *testing.T) {
	t.Run("valid entries", func(t *testing.T) {
		table, err := NewTable([]TableEntry{
			{Path: "/a", Target: "/b"},
			{Path: "/game/{id}", Target: "/g/{id}"},
			{Path: "/c", Params: []ParamTarget{{Param: "x", Target: "/x"}}},
		})
		require.NoError(t, err)
		assert.Equal(t, 3, table.Len())

		_, ok := table.Lookup("/a")
		assert.True(t, ok)

		_, ok = table.Lookup("/game/{id}")
		assert.False(t, ok, "pattern entries are not exact")

		entries := table.Entries()
		assert.Equal(t, "/game/{id}", entries[1].Path)
	})

	tests := []struct {
		name    string
		entries []TableEntry
		err     error
	}{
		{name: "relative path", entries: []TableEntry{{Path: "a", Target: "/b"}}, err: ErrInvalidEntry},
		{name: "no target", entries: []TableEntry{{Path: "/a"}}, err: ErrInvalidEntry},
		{name: "both targets", entries: []TableEntry{{Path: "/a", Target: "/b", Params: []ParamTarget{{Target: "/c"}}}}, err: ErrInvalidEntry},
		{name: "empty param target", entries: []TableEntry{{Path: "/a", Params: []ParamTarget{{Param: "x"}}}}, err: ErrInvalidEntry},
		{name: "bad pattern", entries: []TableEntry{{Path: "/a/{id:[}", Target: "/b"}}, err: ErrInvalidEntry},
		{name: "duplicate", entries: []TableEntry{{Path: "/a", Target: "/b"}, {Path: "/a", Target: "/c"}}, err: ErrDuplicateEntry},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTable(tt.entries)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestNilTable(t *testing.T) {
	var table *Table

	assert.Equal(t, 0, table.Len())
	assert.Nil(t, table.Entries())

	_, ok := table.Lookup("/a")
	assert.False(t, ok)

	_, _, ok = table.match("/a")
	assert.False(t, ok)
}

func TestTablePatternOrder(t *testing.T) {
	table, err := NewTable([]TableEntry{
		{Path: "/u/{id:int}", Target: "/user-by-id/{id}"},
		{Path: "/u/{name}", Target: "/user/{name}"},
	})
	require.NoError(t, err)

	e, vars, ok := table.match("/u/12")
	require.True(t, ok)
	assert.Equal(t, "/user-by-id/{id}", e.Target)
	v, _ := vars.Get("id")
	assert.Equal(t, "12", v)

	e, _, ok = table.match("/u/scott")
	require.True(t, ok)
	assert.Equal(t, "/user/{name}", e.Target)
}
