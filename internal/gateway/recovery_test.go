package gateway

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/imashi/lms-gateway/internal/config"
	"github.com/imashi/lms-gateway/internal/middleware"
	"github.com/imashi/lms-gateway/internal/observability"
	"github.com/imashi/lms-gateway/internal/proxy"
	"github.com/imashi/lms-gateway/internal/router"
)

// abortingUpstream sends chunked headers and part of a body, then drops
// the connection.
func abortingUpstream(t *testing.T) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hj, ok := w.(http.Hijacker)
		if !ok {
			panic("hijacking not supported")
		}
		conn, buf, err := hj.Hijack()
		if err != nil {
			panic(err)
		}
		_, _ = buf.WriteString("HTTP/1.1 200 OK\r\n" +
			"Content-Type: text/plain\r\n" +
			"Transfer-Encoding: chunked\r\n\r\n" +
			"7\r\npartial\r\n")
		_ = buf.Flush()
		_ = conn.Close()
	}))
	t.Cleanup(srv.Close)
	return srv
}

// stallingUpstream flushes part of a body, then stalls until the client
// goes away.
func stallingUpstream(t *testing.T) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, "partial")
		w.(http.Flusher).Flush()

		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func routeHandler(t *testing.T, upstreamURL string, responseTimeout time.Duration) http.Handler {
	t.Helper()

	route := config.DefaultRoute()
	route.Upstream.URI = upstreamURL
	if responseTimeout > 0 {
		route.Upstream.ResponseTimeout = config.DurationPtr(responseTimeout)
	}
	r, err := router.New([]config.Route{route})
	require.NoError(t, err)
	return proxy.NewReverseProxy(r)
}

func TestGateway_TruncatedUpstreamResponseIsNotCompleted(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		upstream   func(t *testing.T) *httptest.Server
		timeout    time.Duration
		middleware []func(http.Handler) http.Handler
	}{
		{
			name:     "upstream drops connection mid-body",
			upstream: abortingUpstream,
		},
		{
			name:     "response timeout fires mid-body",
			upstream: stallingUpstream,
			timeout:  200 * time.Millisecond,
		},
		{
			name:       "with recovery middleware",
			upstream:   abortingUpstream,
			middleware: []func(http.Handler) http.Handler{middleware.Recovery(observability.NopLogger())},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			upstream := tt.upstream(t)
			gw, err := New(localConfig(),
				WithRouteHandler(routeHandler(t, upstream.URL, tt.timeout)),
				WithMiddleware(tt.middleware...),
			)
			require.NoError(t, err)
			require.NoError(t, gw.Start(context.Background()))
			t.Cleanup(func() { _ = gw.Stop(context.Background()) })

			client := &http.Client{Timeout: 5 * time.Second}
			resp, err := client.Get("http://" + gw.Address() + "/api/backend/stream")
			if err == nil {
				_, err = io.ReadAll(resp.Body)
				_ = resp.Body.Close()
			}
			assert.Error(t, err, "a truncated upstream body must surface as a client read error")
		})
	}
}

func TestGateway_RecoversHandlerPanic(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	logger := observability.NewLoggerFromZap(zap.New(core))

	gw, err := New(config.DefaultConfig(),
		WithLogger(logger),
		WithRouteHandler(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			panic("boom")
		})),
	)
	require.NoError(t, err)

	rec := serve(gw.Handler(), http.MethodGet, "/api/backend/users")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, internalErrorBody, rec.Body.String())

	entries := logs.FilterMessage("panic recovered").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "boom", entries[0].ContextMap()["panic"])
	assert.Equal(t, "/api/backend/users", entries[0].ContextMap()["path"])
}

func TestGateway_RepanicsAbortHandler(t *testing.T) {
	t.Parallel()

	gw, err := New(config.DefaultConfig(),
		WithRouteHandler(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			panic(http.ErrAbortHandler)
		})),
	)
	require.NoError(t, err)

	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		serve(gw.Handler(), http.MethodGet, "/api/backend/users")
	})
}
