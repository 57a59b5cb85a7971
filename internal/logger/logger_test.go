package logger

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContextWithLoggerIsStable(t *testing.T) {
	ctx, first := ContextWithLogger(context.Background())
	again, second := ContextWithLogger(ctx)

	assert.Equal(t, ctx, again)
	assert.Same(t, first, second)
	assert.NotEmpty(t, RequestIDFromContext(ctx))
}

func TestFromContextWithoutLogger(t *testing.T) {
	assert.NotNil(t, FromContext(context.Background()))
	assert.Empty(t, RequestIDFromContext(context.Background()))
}

func TestContextWithIdentityKeepsRequestID(t *testing.T) {
	ctx, _ := ContextWithLogger(context.Background())
	id := RequestIDFromContext(ctx)

	ctx = ContextWithIdentity(ctx, "ravi")
	assert.Equal(t, id, RequestIDFromContext(ctx))
	assert.Equal(t, "ravi", FromContext(ctx).Data[identityKey])
}

func TestAddRequestIDSetsHeader(t *testing.T) {
	var seen string
	h := AddRequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get("X-Request-ID"))
}
