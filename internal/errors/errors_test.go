package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPStatus_PerType(t *testing.T) {
	tests := []struct {
		name   string
		err    *Error
		status int
	}{
		{"validation", ValidationError("missing token"), http.StatusBadRequest},
		{"unauthorized", UnauthorizedError("origin not trusted"), http.StatusForbidden},
		{"not found", NotFoundError("unknown screen"), http.StatusNotFound},
		{"store", StoreError("store unavailable", errors.New("dial refused")), http.StatusServiceUnavailable},
		{"partial sync", PartialSyncError("group bindings stale", errors.New("sadd failed")), http.StatusInternalServerError},
		{"not implemented", NotImplementedError("status not implemented"), http.StatusNotImplemented},
		{"internal", InternalError("boom", nil), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, tt.err.HTTPStatus())
		})
	}
}

func TestPartialSync_DistinctFromInternal(t *testing.T) {
	partial := PartialSyncError("group bindings stale", nil)
	internal := InternalError("boom", nil)

	// Same status code, but the outward type must differ so operators can
	// detect drift between durable and broadcast state.
	assert.Equal(t, internal.HTTPStatus(), partial.HTTPStatus())
	assert.NotEqual(t, internal.ToResponse().Type, partial.ToResponse().Type)
	assert.Equal(t, TypePartialSync, partial.ToResponse().Type)
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := StoreError("write failed", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "store")
	assert.Contains(t, err.Error(), "connection reset")
}

func TestAsStructuredError(t *testing.T) {
	t.Run("nil stays nil", func(t *testing.T) {
		assert.Nil(t, AsStructuredError(nil))
	})

	t.Run("structured error passes through", func(t *testing.T) {
		original := ValidationError("missing channelID")
		got := AsStructuredError(fmt.Errorf("handler: %w", original))
		assert.Same(t, original, got)
	})

	t.Run("plain error becomes internal", func(t *testing.T) {
		got := AsStructuredError(errors.New("boom"))
		require.NotNil(t, got)
		assert.Equal(t, TypeInternal, got.Type)
	})
}

func TestWithField(t *testing.T) {
	err := NotFoundError("unknown screen").WithField("screen_id", "s-123")
	assert.Equal(t, "s-123", err.Context["screen_id"])
	assert.Equal(t, "s-123", err.ToResponse().Context["screen_id"])
}
