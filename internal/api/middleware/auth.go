package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/hollyoak/warden/internal/api/apierr"
)

// AdminAuthHeader is the shared-secret header admin endpoints require
const AdminAuthHeader = "x-admin-auth"

// AdminAuth creates middleware that matches the admin header against the
// configured secret. There are no per-user accounts; one secret guards
// the whole admin surface.
func AdminAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			provided := r.Header.Get(AdminAuthHeader)
			if secret == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(secret)) != 1 {
				apierr.WriteError(w, apierr.NewUnauthorizedError())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
