package middleware

import (
	"log/slog"
	"net/http"

	"personnel/pkg/requestcontext"
	"personnel/pkg/secrets"
)

// RequireAdminKey guards the token-minting endpoint with a bcrypt-hashed
// admin API key presented in the X-Admin-Key header.
func RequireAdminKey(keyHash string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get("X-Admin-Key")
			if key == "" || secrets.Verify(key, keyHash) != nil {
				ctx := r.Context()
				logger.WarnContext(ctx, "admin key mismatch",
					"request_id", requestcontext.RequestID(ctx),
				)
				writeUnauthorized(w, "admin key required")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
