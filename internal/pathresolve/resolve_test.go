package pathresolve

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestResolver returns a Resolver whose filesystem view is limited to
// the given existing paths and whose environment is the given map.
func newTestResolver(existing []string, env map[string]string) *Resolver {
	exists := make(map[string]bool, len(existing))
	for _, p := range existing {
		exists[p] = true
	}
	return &Resolver{
		Home: "/home/user",
		LookupEnv: func(name string) (string, bool) {
			v, ok := env[name]
			return v, ok
		},
		Stat: func(path string) (os.FileInfo, error) {
			if exists[path] {
				return nil, nil
			}
			return nil, os.ErrNotExist
		},
	}
}

func TestResolveSplit(t *testing.T) {
	r := newTestResolver(nil, nil)

	tests := []struct {
		name           string
		literal        string
		expectedTarget string
		expectedPrefix string
	}{
		{name: "bare name", literal: "proj", expectedTarget: ".", expectedPrefix: "proj"},
		{name: "empty", literal: "", expectedTarget: ".", expectedPrefix: ""},
		{name: "trailing slash", literal: "proj/", expectedTarget: "proj", expectedPrefix: ""},
		{name: "nested partial", literal: "a/b/c", expectedTarget: "a/b", expectedPrefix: "c"},
		{name: "root", literal: "/", expectedTarget: "/", expectedPrefix: ""},
		{name: "root child", literal: "/usr", expectedTarget: "/", expectedPrefix: "usr"},
		{name: "absolute nested", literal: "/usr/lo", expectedTarget: "/usr", expectedPrefix: "lo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := r.Resolve(tt.literal)
			assert.Equal(t, tt.expectedTarget, res.Target)
			assert.Equal(t, tt.expectedPrefix, res.Prefix)
			assert.False(t, res.Done)
		})
	}
}

func TestResolveTilde(t *testing.T) {
	r := newTestResolver(nil, nil)

	res := r.Resolve("~/proj/sr")
	assert.True(t, res.TildeRelative)
	assert.Equal(t, "/home/user/proj/sr", res.Literal)
	assert.Equal(t, "/home/user/proj", res.Target)
	assert.Equal(t, "sr", res.Prefix)

	res = r.Resolve("~")
	assert.True(t, res.TildeRelative)
	assert.Equal(t, "/home/user", res.Literal)

	// ~name is a user reference, not the home directory; left untouched.
	res = r.Resolve("~other/x")
	assert.False(t, res.TildeRelative)
	assert.Equal(t, "~other/x", res.Literal)
}

func TestResolveEllipsisFastPath(t *testing.T) {
	r := newTestResolver(nil, nil)

	tests := []struct {
		literal  string
		expected string
	}{
		{literal: "..", expected: "../"},
		{literal: "a/b/..", expected: "a/b/../"},
		{literal: "/x/..", expected: "/x/../"},
	}
	for _, tt := range tests {
		res := r.Resolve(tt.literal)
		require.True(t, res.Done, "literal %q should complete immediately", tt.literal)
		assert.Equal(t, tt.expected, res.DonePath)
	}

	// A name that merely ends in two dots is not the shortcut.
	res := r.Resolve("notes..")
	assert.False(t, res.Done)
}

func TestResolveDollarAmbiguity(t *testing.T) {
	env := map[string]string{"PROJ": "/srv/projects"}

	t.Run("existing literal path wins over expansion", func(t *testing.T) {
		r := newTestResolver([]string{"$PROJ/app"}, env)
		res := r.Resolve("$PROJ/app")
		assert.Equal(t, "$PROJ/app", res.Literal)
	})

	t.Run("existing parent wins over expansion", func(t *testing.T) {
		r := newTestResolver([]string{"$PROJ"}, env)
		res := r.Resolve("$PROJ/ap")
		assert.Equal(t, "$PROJ/ap", res.Literal)
	})

	t.Run("nonexistent path expands", func(t *testing.T) {
		r := newTestResolver(nil, env)
		res := r.Resolve("$PROJ/ap")
		assert.Equal(t, "/srv/projects/ap", res.Literal)
		assert.Equal(t, "/srv/projects", res.Target)
		assert.Equal(t, "ap", res.Prefix)
	})

	t.Run("braced form expands", func(t *testing.T) {
		r := newTestResolver(nil, env)
		res := r.Resolve("${PROJ}/ap")
		assert.Equal(t, "/srv/projects/ap", res.Literal)
	})

	t.Run("unset variable expands to nothing", func(t *testing.T) {
		r := newTestResolver(nil, env)
		res := r.Resolve("$NOPE/x")
		assert.Equal(t, "/x", res.Literal)
	})

	t.Run("invalid name stays literal", func(t *testing.T) {
		r := newTestResolver(nil, env)
		res := r.Resolve("price$/x")
		assert.Equal(t, "price$/x", res.Literal)
	})

	dangerous := []string{"$(pwd)/x", "`pwd`/x", "$[1+1]/x", "${!ref}/x"}
	for _, lit := range dangerous {
		t.Run("never expands "+lit, func(t *testing.T) {
			r := newTestResolver(nil, env)
			res := r.Resolve(lit)
			assert.Equal(t, lit, res.Literal)
		})
	}
}

func TestResolveNormalization(t *testing.T) {
	r := newTestResolver(nil, nil)

	res := r.Resolve("a/b/../c/./d")
	assert.Equal(t, filepath.Clean("a/b/../c"), res.Target)
	assert.Equal(t, "d", res.Prefix)
}

func TestResolveDashDotSafety(t *testing.T) {
	r := newTestResolver(nil, nil)

	tests := []struct {
		name           string
		literal        string
		expectedTarget string
	}{
		{name: "leading dash gets anchored", literal: "-odd/x", expectedTarget: "./-odd"},
		{name: "hidden dir gets anchored", literal: ".config/x", expectedTarget: "./.config"},
		{name: "dot stays dot", literal: "x", expectedTarget: "."},
		{name: "absolute unchanged", literal: "/usr/x", expectedTarget: "/usr"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := r.Resolve(tt.literal)
			assert.Equal(t, tt.expectedTarget, res.Target)
		})
	}
}
