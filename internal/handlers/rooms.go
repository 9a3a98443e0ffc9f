// internal/handlers/rooms.go
package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/mfigueroa/uno/internal/auth"
)

// HealthHandler reports liveness.
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// ListRoomsHandler ephemeral: we return the in-memory registry for debugging
func ListRoomsHandler(srv *Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie := r.Header.Get("Cookie")
		if !strings.Contains(cookie, "auth_token=") {
			http.Error(w, "missing auth_token", http.StatusUnauthorized)
			return
		}
		token := extractTokenFromCookie(cookie)
		if _, err := auth.AuthenticateJWT(token); err != nil {
			http.Error(w, "invalid token", http.StatusForbidden)
			return
		}

		rooms := srv.Registry.List()

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(rooms)
	}
}

func extractTokenFromCookie(cookie string) string {
	parts := strings.Split(cookie, "auth_token=")
	if len(parts) < 2 {
		return ""
	}
	token := parts[1]
	if idx := strings.Index(token, ";"); idx != -1 {
		token = token[:idx]
	}
	return token
}
