package handlers

import (
	"net/http"

	"golang.org/x/crypto/bcrypt"
)

// RequireAdmin guards mutating routes behind the configured admin password.
// The password travels in the X-Admin-Password header and is checked against
// a bcrypt hash. An empty configured hash disables the check entirely, the
// single-user local default.
func RequireAdmin(passwordHash string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if passwordHash == "" {
				next.ServeHTTP(w, r)
				return
			}

			password := r.Header.Get("X-Admin-Password")
			if password == "" {
				WriteAPIError(w, http.StatusUnauthorized, "missing_credentials", "X-Admin-Password header required")
				return
			}

			if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password)); err != nil {
				WriteAPIError(w, http.StatusUnauthorized, "invalid_credentials", "admin password does not match")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
