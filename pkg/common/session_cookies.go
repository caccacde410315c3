package common

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
)

const SessionCookieName = "sfsid"

func NewSessionId() string {
	return uuid.NewString()
}

func SetSessionCookie(w http.ResponseWriter, r *http.Request, sessionId string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    sessionId,
		Domain:   strings.TrimPrefix(hostOnly(r.Host), "."),
		SameSite: http.SameSiteNoneMode,
		Secure:   true,
		HttpOnly: true,
		MaxAge:   maxAge,
		Path:     "/",
	})
}

// SessionIdFromCookie returns the session id stored in the cookie if it is a valid uuid.
func SessionIdFromCookie(r *http.Request) (string, bool) {
	c, err := r.Cookie(SessionCookieName)
	if err != nil {
		return "", false
	}
	if _, err := uuid.Parse(c.Value); err != nil {
		return "", false
	}
	return c.Value, true
}

func hostOnly(host string) string {
	if i := strings.LastIndexByte(host, ':'); i != -1 && !strings.Contains(host[i:], "]") {
		return host[:i]
	}
	return host
}
