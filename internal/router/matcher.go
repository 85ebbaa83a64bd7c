package router

import (
	"strings"

	"github.com/imashi/lms-gateway/internal/util"
)

// Matcher type names reported by PathMatcher.Type.
const (
	MatcherTypeExact   = "exact"
	MatcherTypePattern = "pattern"
)

const (
	singleWildcard = "*"
	multiWildcard  = "**"
)

// PathMatcher is the interface for path matching.
type PathMatcher interface {
	Match(path string) bool
	Type() string
	Pattern() string
}

// NewPathMatcher compiles an Ant-style pattern. Patterns without
// wildcards produce an ExactMatcher.
func NewPathMatcher(pattern string) (PathMatcher, error) {
	if err := util.ValidatePathPattern(pattern); err != nil {
		return nil, err
	}
	if !strings.Contains(pattern, singleWildcard) {
		return NewExactMatcher(pattern), nil
	}
	return NewPatternMatcher(pattern), nil
}

// ExactMatcher matches one path, ignoring empty segments.
type ExactMatcher struct {
	pattern  string
	segments []string
}

// NewExactMatcher creates a new exact path matcher.
func NewExactMatcher(path string) *ExactMatcher {
	return &ExactMatcher{pattern: path, segments: splitPath(path)}
}

// Match checks if the path matches exactly.
func (m *ExactMatcher) Match(path string) bool {
	segments := splitPath(path)
	if len(segments) != len(m.segments) {
		return false
	}
	for i := range segments {
		if segments[i] != m.segments[i] {
			return false
		}
	}
	return true
}

// Type returns the matcher type.
func (m *ExactMatcher) Type() string {
	return MatcherTypeExact
}

// Pattern returns the pattern.
func (m *ExactMatcher) Pattern() string {
	return m.pattern
}

// PatternMatcher matches segment wildcards. A trailing "**" also
// matches the bare prefix, so /api/backend/** accepts /api/backend.
type PatternMatcher struct {
	pattern  string
	segments []string
	trailing bool
}

// NewPatternMatcher creates a wildcard matcher. The pattern must
// already satisfy util.ValidatePathPattern.
func NewPatternMatcher(pattern string) *PatternMatcher {
	segments := splitPath(pattern)
	m := &PatternMatcher{pattern: pattern}
	if n := len(segments); n > 0 && segments[n-1] == multiWildcard {
		m.trailing = true
		segments = segments[:n-1]
	}
	m.segments = segments
	return m
}

// Match checks the path segment by segment.
func (m *PatternMatcher) Match(path string) bool {
	segments := splitPath(path)
	if len(segments) < len(m.segments) {
		return false
	}
	if !m.trailing && len(segments) != len(m.segments) {
		return false
	}
	for i, want := range m.segments {
		if want != singleWildcard && want != segments[i] {
			return false
		}
	}
	return true
}

// Type returns the matcher type.
func (m *PatternMatcher) Type() string {
	return MatcherTypePattern
}

// Pattern returns the pattern.
func (m *PatternMatcher) Pattern() string {
	return m.pattern
}

// MethodMatcher matches HTTP methods. An empty set matches any method.
type MethodMatcher struct {
	methods map[string]bool
}

// NewMethodMatcher creates a new method matcher.
func NewMethodMatcher(methods []string) *MethodMatcher {
	m := &MethodMatcher{methods: make(map[string]bool, len(methods))}
	for _, method := range methods {
		m.methods[strings.ToUpper(method)] = true
	}
	return m
}

// Match checks if the method matches.
func (m *MethodMatcher) Match(method string) bool {
	if m == nil || len(m.methods) == 0 {
		return true
	}
	method = strings.ToUpper(method)

	// HEAD automatically matches GET
	if method == "HEAD" && m.methods["GET"] {
		return true
	}
	return m.methods[method]
}

// Methods returns the accepted methods in no particular order.
func (m *MethodMatcher) Methods() []string {
	if m == nil {
		return nil
	}
	out := make([]string, 0, len(m.methods))
	for method := range m.methods {
		out = append(out, method)
	}
	return out
}

// splitPath returns the non-empty segments of path.
func splitPath(path string) []string {
	return strings.FieldsFunc(path, func(r rune) bool { return r == '/' })
}
