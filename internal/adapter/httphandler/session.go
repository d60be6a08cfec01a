package httphandler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/niksmo/misslily/internal/core/port"
)

// POST   v1/admin/session JSON {"email", "password"} (200 OK, 401 Unauthorized)
// DELETE v1/admin/session (204 No content)

type SessionHandler struct {
	sessions     port.SessionManager
	secureCookie bool
}

func (h SessionHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	const op = "SessionHandler.SignIn"
	log := slog.With("op", op)

	var req SignInRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, log, err)
		return
	}

	sess, token, err := h.sessions.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, log, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/v1/admin",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteStrictMode,
	})
	writeJSON(w, http.StatusOK, SignInResponse{Token: token, ExpiresAt: sess.ExpiresAt})
}

func (h SessionHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	const op = "SessionHandler.SignOut"
	log := slog.With("op", op)

	if err := h.sessions.SignOut(r.Context(), sessionFrom(r)); err != nil {
		writeError(w, log, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Path:     "/v1/admin",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteStrictMode,
	})
	w.WriteHeader(http.StatusNoContent)
}
