package route

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBraceIndices(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		expected  []int
		expectErr bool
	}{
		{name: "no braces", input: "/foo/bar", expected: nil},
		{name: "single variable", input: "/foo/{id}", expected: []int{5, 9}},
		{name: "two variables", input: "/{a}/{b}", expected: []int{1, 4, 5, 8}},
		{name: "variable with pattern", input: "/{id:[0-9]+}", expected: []int{1, 12}},
		{name: "nested braces", input: "/{id:[0-9]{2}}", expected: []int{1, 14}},
		{name: "unbalanced open", input: "/{id", expectErr: true},
		{name: "unbalanced close", input: "/id}", expectErr: true},
		{name: "empty string", input: "", expected: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idxs, err := braceIndices(tt.input)
			if tt.expectErr {
				assert.ErrorIs(t, err, ErrUnbalancedBraces)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expected, idxs)
			}
		})
	}
}

func TestCompile(t *testing.T) {
	t.Run("literal template", func(t *testing.T) {
		tpl, err := Compile("/gameList.php")
		require.NoError(t, err)

		vars, ok := tpl.Match("/gameList.php")
		assert.True(t, ok)
		assert.Empty(t, vars)

		_, ok = tpl.Match("/gameList.php/extra")
		assert.False(t, ok)
	})

	t.Run("default variable matches one segment", func(t *testing.T) {
		tpl, err := Compile("/user/{name}")
		require.NoError(t, err)

		vars, ok := tpl.Match("/user/Scott")
		require.True(t, ok)
		assert.Equal(t, map[string]string{"name": "Scott"}, vars)

		_, ok = tpl.Match("/user/Scott/games")
		assert.False(t, ok)
	})

	t.Run("macro constrains variable", func(t *testing.T) {
		tpl, err := Compile("/game/{id:int}")
		require.NoError(t, err)

		_, ok := tpl.Match("/game/abc")
		assert.False(t, ok)

		vars, ok := tpl.Match("/game/1234")
		require.True(t, ok)
		assert.Equal(t, "1234", vars["id"])
	})

	t.Run("matching is case sensitive", func(t *testing.T) {
		tpl := MustCompile("/Game/{id}")
		_, ok := tpl.Match("/game/1")
		assert.False(t, ok)
	})

	t.Run("regexp metacharacters in literal text", func(t *testing.T) {
		tpl := MustCompile("/viewtopic.php")
		_, ok := tpl.Match("/viewtopicXphp")
		assert.False(t, ok)
	})

	t.Run("capturing groups in pattern", func(t *testing.T) {
		tpl := MustCompile("/p/{kind:(game|hub)}/{id}")

		vars, ok := tpl.Match("/p/game/5")
		require.True(t, ok)
		assert.Equal(t, map[string]string{"kind": "game", "id": "5"}, vars)

		_, ok = tpl.Match("/p/user/5")
		assert.False(t, ok)

		u, err := tpl.URL(map[string]string{"kind": "hub", "id": "9"})
		require.NoError(t, err)
		assert.Equal(t, "/p/hub/9", u)
	})

	t.Run("alternation is anchored as a whole", func(t *testing.T) {
		tpl := MustCompile("/p/{kind:game|hub}")

		_, err := tpl.URL(map[string]string{"kind": "gamex"})
		assert.Error(t, err)

		u, err := tpl.URL(map[string]string{"kind": "hub"})
		require.NoError(t, err)
		assert.Equal(t, "/p/hub", u)
	})

	t.Run("missing name", func(t *testing.T) {
		_, err := Compile("/{:int}")
		assert.Error(t, err)
	})

	t.Run("duplicate variable", func(t *testing.T) {
		_, err := Compile("/{a}/{a}")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "duplicated variable")
	})

	t.Run("invalid pattern", func(t *testing.T) {
		_, err := Compile("/{a:[}")
		assert.Error(t, err)
	})

	t.Run("must compile panics", func(t *testing.T) {
		assert.Panics(t, func() { MustCompile("/{a") })
	})

	t.Run("var names in order", func(t *testing.T) {
		tpl := MustCompile("/forums/{category}/{forum}/create")
		assert.Equal(t, []string{"category", "forum"}, tpl.VarNames())
		assert.Equal(t, "/forums/{category}/{forum}/create", tpl.String())
	})
}

func TestTemplateURL(t *testing.T) {
	tpl := MustCompile("/forums/topic/{topic:int}")

	t.Run("builds path", func(t *testing.T) {
		u, err := tpl.URL(map[string]string{"topic": "500"})
		require.NoError(t, err)
		assert.Equal(t, "/forums/topic/500", u)
	})

	t.Run("extra values become query", func(t *testing.T) {
		u, err := tpl.URL(map[string]string{"topic": "500", "comment": "12345"})
		require.NoError(t, err)
		assert.Equal(t, "/forums/topic/500?comment=12345", u)
	})

	t.Run("missing variable", func(t *testing.T) {
		_, err := tpl.URL(map[string]string{"comment": "1"})
		assert.Error(t, err)
	})

	t.Run("variable fails pattern", func(t *testing.T) {
		_, err := tpl.URL(map[string]string{"topic": "abc"})
		assert.Error(t, err)
	})

	t.Run("escapes path values", func(t *testing.T) {
		u, err := MustCompile("/user/{name}").URL(map[string]string{"name": "a b"})
		require.NoError(t, err)
		assert.Equal(t, "/user/a%20b", u)
	})

	t.Run("percent in literal text", func(t *testing.T) {
		u, err := MustCompile("/100%/{id}").URL(map[string]string{"id": "1"})
		require.NoError(t, err)
		assert.Equal(t, "/100%/1", u)
	})
}

func TestHasVariables(t *testing.T) {
	assert.True(t, HasVariables("/user/{name}"))
	assert.False(t, HasVariables("/user/scott"))
	assert.False(t, HasVariables("/user/{name"))
}

func TestCleanPath(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", "/"},
		{"viewtopic.php", "/viewtopic.php"},
		{"/a/../b", "/b"},
		{"/a/./b/", "/a/b/"},
		{"//a//b", "/a/b"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanPath(tt.in))
		})
	}
}

func TestCompileRegexpCache(t *testing.T) {
	a, err := compileRegexp("^[0-9]+$")
	require.NoError(t, err)

	b, err := compileRegexp("^[0-9]+$")
	require.NoError(t, err)

	assert.Same(t, a, b)

	_, err = compileRegexp("[")
	assert.Error(t, err)
}

func TestExpandMacro(t *testing.T) {
	patt, re := expandMacro("int")
	assert.Equal(t, "[0-9]+", patt)
	require.NotNil(t, re)
	assert.True(t, re.MatchString("42"))

	patt, re = expandMacro("[a-z]+")
	assert.Equal(t, "[a-z]+", patt)
	assert.Nil(t, re)
}
