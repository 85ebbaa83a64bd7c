package middleware

// HTTP header constants.
const (
	// HeaderContentType is the Content-Type header name.
	HeaderContentType = "Content-Type"

	// HeaderXRequestID is the X-Request-ID header name.
	HeaderXRequestID = "X-Request-ID"
)

// ContentTypeJSON is the JSON content type.
const ContentTypeJSON = "application/json"

// ErrInternalServerError is the body written after a recovered panic.
const ErrInternalServerError = `{"error":"internal server error"}`

// maxRequestIDLength bounds client supplied request IDs.
const maxRequestIDLength = 128
