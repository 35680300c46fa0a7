package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultMatcher(t *testing.T) {
	matcher, err := NewMatcher(nil)
	require.NoError(t, err)

	ignored := []string{"sha256-abc123", "main", "main-latest", "master-4f2a", "v1.0.0.dev1", "1.0-arm64", "arm64v8-2.1"}
	for _, name := range ignored {
		assert.True(t, matcher.Match(name), "%s should be ignored", name)
	}

	kept := []string{"2.0.0", "latest", "mainline", "v1.0.0-devel", "amd64"}
	for _, name := range kept {
		assert.False(t, matcher.Match(name), "%s should be kept", name)
	}
}

func TestMatcherEmptyPatternsIgnoreNothing(t *testing.T) {
	matcher, err := NewMatcher([]string{})
	require.NoError(t, err)
	assert.False(t, matcher.Match("sha256-abc123"))
	assert.Empty(t, matcher.Patterns())
}

func TestGlobToRegexp(t *testing.T) {
	tests := []struct {
		pattern string
		name    string
		want    bool
	}{
		{"v?.0", "v1.0", true},
		{"v?.0", "v10.0", false},
		{"[0-9]*", "7.0.0", true},
		{"[!0-9]*", "7.0.0", false},
		{"[!0-9]*", "latest", true},
		{"rc[", "rc[", true},
		{"a.b", "axb", false},
		{"*-rc*", "1.2.0-rc1", true},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, MatchAny(tt.name, []string{tt.pattern}), "%s ~ %s", tt.pattern, tt.name)
	}
}
