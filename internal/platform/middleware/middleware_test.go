package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "personnel/pkg/domain-errors"
	"personnel/pkg/requestcontext"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestRequestID(t *testing.T) {
	t.Run("generates id when absent", func(t *testing.T) {
		var seen string
		h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = requestcontext.RequestID(r.Context())
		}))

		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		require.NotEmpty(t, seen)
		assert.Equal(t, seen, w.Header().Get(RequestIDHeader))
	})

	t.Run("propagates inbound id", func(t *testing.T) {
		var seen string
		h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = requestcontext.RequestID(r.Context())
		}))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "req-123")
		h.ServeHTTP(httptest.NewRecorder(), req)

		assert.Equal(t, "req-123", seen)
	})
}

func TestDeviceInfoFromUserAgent(t *testing.T) {
	chrome := "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	info := DeviceInfoFromUserAgent(chrome)
	assert.Contains(t, info, "Chrome")
	assert.Contains(t, info, "Windows")

	assert.Equal(t, "unknown", DeviceInfoFromUserAgent(""))
}

type fakeValidator struct {
	claims *JWTClaims
	err    error
}

func (f *fakeValidator) ValidateToken(string) (*JWTClaims, error) {
	return f.claims, f.err
}

func TestRequireAuth(t *testing.T) {
	t.Run("missing header", func(t *testing.T) {
		h := RequireAuth(&fakeValidator{}, discard)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			t.Fatal("handler should not run")
		}))

		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("invalid token", func(t *testing.T) {
		v := &fakeValidator{err: dErrors.New(dErrors.CodeUnauthorized, "invalid token")}
		h := RequireAuth(v, discard)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			t.Fatal("handler should not run")
		}))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer bad")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("valid token sets context", func(t *testing.T) {
		v := &fakeValidator{claims: &JWTClaims{UserID: "hr-admin", Role: "admin"}}
		var userID, userRole string
		h := RequireAuth(v, discard)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID = requestcontext.UserID(r.Context())
			userRole = requestcontext.UserRole(r.Context())
		}))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer good")
		h.ServeHTTP(httptest.NewRecorder(), req)

		assert.Equal(t, "hr-admin", userID)
		assert.Equal(t, "admin", userRole)
	})
}
