package middleware

import (
	"net/http"

	"github.com/unclebandit/jobseeker-backend/internal/auth"
)

// RejectFunc writes the response for a request that failed authentication.
// Each route decides its own status code.
type RejectFunc func(w http.ResponseWriter, r *http.Request, err error)

// RequireUser verifies the bearer token and stores the caller's user id in
// the request context.
func RequireUser(v auth.Verifier, reject RejectFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := auth.BearerToken(r)
			if err != nil {
				reject(w, r, err)
				return
			}
			userID, err := v.Verify(r.Context(), token)
			if err != nil {
				reject(w, r, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(auth.WithUserID(r.Context(), userID)))
		})
	}
}
