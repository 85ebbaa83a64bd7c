package health

import (
	"io"
	"net/http"
)

// Reporter serves the fixed health message. It holds no state besides
// the message and is safe for concurrent use.
type Reporter struct {
	path    string
	message string
}

// NewReporter creates a reporter answering on path with message.
func NewReporter(path, message string) *Reporter {
	return &Reporter{path: path, message: message}
}

// Message returns the body written on every request.
func (r *Reporter) Message() string {
	return r.message
}

// Path returns the route the reporter is mounted on.
func (r *Reporter) Path() string {
	return r.path
}

// ServeHTTP writes 200 with the message as plain text.
func (r *Reporter) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set(HeaderContentType, ContentTypeText)
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, r.message)
}
