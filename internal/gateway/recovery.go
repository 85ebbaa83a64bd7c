package gateway

import (
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/imashi/lms-gateway/internal/observability"
)

const internalErrorBody = `{"error":"internal server error"}`

// recovery recovers handler panics on the engine and logs them.
// http.ErrAbortHandler is re-raised so net/http aborts the connection:
// the proxy uses it when an upstream fails after headers were sent, and
// the client must see a truncated response rather than a clean one.
func recovery(logger observability.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
				panic(rec)
			}

			logger.WithContext(c.Request.Context()).Error("panic recovered",
				observability.String("panic", fmt.Sprint(rec)),
				observability.String("method", c.Request.Method),
				observability.String("path", c.Request.URL.Path),
				observability.String("stack", string(debug.Stack())),
			)

			c.Abort()
			if !c.Writer.Written() {
				writeJSON(c.Writer, http.StatusInternalServerError, internalErrorBody)
			}
		}()

		c.Next()
	}
}
