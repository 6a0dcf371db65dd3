package requestid

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddleware(t *testing.T) {
	var seen string
	h := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = FromContext(r.Context())
	}))

	t.Run("generates an id when absent", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

		id := rr.Header().Get(Header)
		_, err := uuid.Parse(id)
		require.NoError(t, err)
		assert.Equal(t, id, seen)
	})

	t.Run("keeps a well formed incoming id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(Header, "abc-123_x")
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)

		assert.Equal(t, "abc-123_x", rr.Header().Get(Header))
		assert.Equal(t, "abc-123_x", seen)
	})

	t.Run("replaces a malformed incoming id", func(t *testing.T) {
		for _, bad := range []string{"has space", "<script>", strings.Repeat("a", 129)} {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set(Header, bad)
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)

			assert.NotEqual(t, bad, rr.Header().Get(Header))
		}
	})
}

func TestFromContext_Empty(t *testing.T) {
	assert.Empty(t, FromContext(httptest.NewRequest(http.MethodGet, "/", nil).Context()))
}
