// internal/handlers/guest.go
package handlers

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/mfigueroa/uno/internal/auth"
)

// EnsureGuest resolves the player identity for a request. A valid
// auth_token cookie is honored; anything else gets a freshly minted guest
// id and a signed cookie. Must run before the websocket upgrade, while
// response headers can still be written.
func EnsureGuest(w http.ResponseWriter, r *http.Request) (uuid.UUID, error) {
	if cookie, err := r.Cookie("auth_token"); err == nil {
		if sub, err := auth.AuthenticateJWT(cookie.Value); err == nil {
			if id, parseErr := uuid.Parse(sub); parseErr == nil {
				return id, nil
			}
		}
		// Fall through: a bad or stale token is replaced, not rejected.
	}

	id := uuid.New()
	token, err := auth.CreateJWT(id.String())
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to mint guest token: %w", err)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     "auth_token",
		Value:    token,
		HttpOnly: true,
		Path:     "/",
		MaxAge:   auth.TOKEN_EXPIRE_TIME_SEC,
	})
	return id, nil
}
