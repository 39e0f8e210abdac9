package session

import (
	"net/http"
	"time"
)

// CookieName is the cookie that carries the session assertion.
const CookieName = "token"

// SetCookie attaches a session assertion to the response. The cookie is
// HTTP-only and same-site strict; the Secure attribute is only set in
// production-like environments so local HTTP development keeps working.
func SetCookie(w http.ResponseWriter, token string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		Secure:   secure,
		MaxAge:   int(TokenTTL / time.Second),
	})
}

// ClearCookie removes the session cookie. Attributes must match the ones used
// in SetCookie or browsers will keep the original cookie around.
func ClearCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		Secure:   secure,
		MaxAge:   -1,
	})
}
