package redirector

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurrent(t *testing.T) {
	ctx := context.Background()

	var empty Current
	assert.Equal(t, NotFound(""), empty.Resolve(ctx, "/a", Query{}))

	first, err := NewTable([]TableEntry{{Path: "/a", Target: "/b"}})
	require.NoError(t, err)
	second, err := NewTable([]TableEntry{{Path: "/a", Target: "/c"}})
	require.NoError(t, err)

	c := NewCurrent(New(Config{Table: first}))
	assert.Equal(t, "/b", c.Resolve(ctx, "/a", Query{}).Target)

	old := c.Load()
	c.Store(New(Config{Table: second}))
	assert.Equal(t, "/c", c.Resolve(ctx, "/a", Query{}).Target)
	assert.Equal(t, "/b", old.Resolve(ctx, "/a", Query{}).Target)
}
