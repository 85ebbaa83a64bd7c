package router

import "strings"

// StripPrefix removes the first parts non-empty segments from path.
// The result always starts with "/", and keeps a trailing slash from
// the input unless it collapses to "/". Duplicate slashes are folded.
//
//	StripPrefix("/api/backend/users/42", 2) == "/users/42"
//	StripPrefix("/api/backend/", 2)         == "/"
//	StripPrefix("/api/backend/users/", 2)   == "/users/"
//
// path is expected to be escaped, so encoded bytes pass through as-is.
func StripPrefix(path string, parts int) string {
	segments := splitPath(path)
	if parts < 0 {
		parts = 0
	}
	if parts > len(segments) {
		parts = len(segments)
	}

	var sb strings.Builder
	sb.Grow(len(path) + 1)
	sb.WriteByte('/')
	sb.WriteString(strings.Join(segments[parts:], "/"))

	if sb.Len() > 1 && strings.HasSuffix(path, "/") {
		sb.WriteByte('/')
	}
	return sb.String()
}
