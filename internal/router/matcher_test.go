package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPathMatcher(t *testing.T) {
	t.Parallel()

	tests := []struct {
		pattern  string
		wantType string
		wantErr  bool
	}{
		{pattern: "/api/backend/**", wantType: MatcherTypePattern},
		{pattern: "/api/*/health", wantType: MatcherTypePattern},
		{pattern: "/api/gateway/health", wantType: MatcherTypeExact},
		{pattern: "api/backend", wantErr: true},
		{pattern: "/api/**/users", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			t.Parallel()

			m, err := NewPathMatcher(tt.pattern)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, m.Type())
			assert.Equal(t, tt.pattern, m.Pattern())
		})
	}
}

func TestPathMatcher_Match(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		pattern string
		path    string
		want    bool
	}{
		{name: "multi wildcard nested", pattern: "/api/backend/**", path: "/api/backend/users/42", want: true},
		{name: "multi wildcard one segment", pattern: "/api/backend/**", path: "/api/backend/users", want: true},
		{name: "multi wildcard trailing slash", pattern: "/api/backend/**", path: "/api/backend/", want: true},
		{name: "multi wildcard bare prefix", pattern: "/api/backend/**", path: "/api/backend", want: true},
		{name: "multi wildcard shorter path", pattern: "/api/backend/**", path: "/api", want: false},
		{name: "multi wildcard partial segment", pattern: "/api/backend/**", path: "/api/backendx/users", want: false},
		{name: "multi wildcard other prefix", pattern: "/api/backend/**", path: "/api/gateway/health", want: false},
		{name: "duplicate slashes ignored", pattern: "/api/backend/**", path: "//api///backend/users", want: true},
		{name: "root multi wildcard", pattern: "/**", path: "/anything/at/all", want: true},
		{name: "root multi wildcard root", pattern: "/**", path: "/", want: true},
		{name: "single wildcard", pattern: "/api/*/health", path: "/api/gateway/health", want: true},
		{name: "single wildcard too deep", pattern: "/api/*/health", path: "/api/a/b/health", want: false},
		{name: "single wildcard needs a segment", pattern: "/api/*", path: "/api", want: false},
		{name: "exact", pattern: "/api/gateway/health", path: "/api/gateway/health", want: true},
		{name: "exact trailing slash", pattern: "/api/gateway/health", path: "/api/gateway/health/", want: true},
		{name: "exact longer", pattern: "/api/gateway/health", path: "/api/gateway/health/x", want: false},
		{name: "case sensitive", pattern: "/api/backend/**", path: "/API/backend/x", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m, err := NewPathMatcher(tt.pattern)
			require.NoError(t, err)
			assert.Equal(t, tt.want, m.Match(tt.path))
		})
	}
}

func TestMethodMatcher(t *testing.T) {
	t.Parallel()

	var anyMethod *MethodMatcher
	assert.True(t, anyMethod.Match("DELETE"))
	assert.Nil(t, anyMethod.Methods())

	m := NewMethodMatcher([]string{"get", "POST"})
	assert.True(t, m.Match("GET"))
	assert.True(t, m.Match("post"))
	assert.True(t, m.Match("HEAD"))
	assert.False(t, m.Match("DELETE"))
	assert.ElementsMatch(t, []string{"GET", "POST"}, m.Methods())

	assert.True(t, NewMethodMatcher(nil).Match("PATCH"))
}
