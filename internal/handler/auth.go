package handler

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	"golang.org/x/crypto/bcrypt"
)

// AdminUser is the basic auth user name for the admin routes.
const AdminUser = "admin"

// HashAdminPassword returns the bcrypt hash stored in Config.AdminPasswordHash.
func HashAdminPassword(password string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
}

// requireAdmin is middleware that checks HTTP basic auth credentials
// against the configured admin password hash.
func (h *Handler) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, password, ok := r.BasicAuth()
		if !ok {
			unauthorized(w)
			return
		}
		userOK := subtle.ConstantTimeCompare([]byte(user), []byte(AdminUser)) == 1
		if err := bcrypt.CompareHashAndPassword(h.config.AdminPasswordHash, []byte(password)); err != nil || !userOK {
			slog.Warn("admin login failed", "user", user, "client", clientIdentifier(r))
			unauthorized(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", `Basic realm="mockpaper admin", charset="UTF-8"`)
	http.Error(w, "unauthorized", http.StatusUnauthorized)
}
