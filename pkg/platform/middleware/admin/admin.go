// Package admin guards operator endpoints with a shared token whose bcrypt
// hash is configured at startup.
package admin

import (
	"log/slog"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	dErrors "swissshield/pkg/domain-errors"
	"swissshield/pkg/platform/httputil"
	"swissshield/pkg/requestcontext"
)

// HeaderAdminToken carries the operator token.
const HeaderAdminToken = "X-Admin-Token"

// maxTokenLen is bcrypt's input limit.
const maxTokenLen = 72

// RequireAdminToken rejects requests whose X-Admin-Token does not match
// tokenHash. An empty hash disables every admin route.
func RequireAdminToken(tokenHash []byte, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get(HeaderAdminToken)
			if len(tokenHash) == 0 || token == "" || len(token) > maxTokenLen ||
				bcrypt.CompareHashAndPassword(tokenHash, []byte(token)) != nil {
				ctx := r.Context()
				logger.WarnContext(ctx, "admin token mismatch",
					"request_id", requestcontext.RequestID(ctx),
					"client_ip", requestcontext.ClientIP(ctx),
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "admin token required"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
