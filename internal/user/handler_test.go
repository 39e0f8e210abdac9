package user

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/marketbay/service-account-go/internal/session"
)

func newTestHandler(t *testing.T, secureCookies bool) (*Handler, *fakeRepo, *session.Issuer) {
	t.Helper()
	issuer, err := session.NewIssuer("test-secret")
	require.NoError(t, err)
	repo := newFakeRepo()
	svc := NewService(repo, BcryptHasher{Cost: bcrypt.MinCost}, issuer)
	return NewHandler(svc, zap.NewNop().Sugar(), secureCookies), repo, issuer
}

func postJSON(t *testing.T, handler http.HandlerFunc, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	handler(rr, req)
	return rr
}

func sessionCookie(t *testing.T, rr *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rr.Result().Cookies() {
		if c.Name == session.CookieName {
			return c
		}
	}
	return nil
}

func messageOf(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body["message"]
}

func TestSignupHandler_Success(t *testing.T) {
	h, repo, issuer := newTestHandler(t, false)

	rr := postJSON(t, h.Signup, "/users/signup",
		`{"name":"Ann","email":"ann@x.com","password":"abcd1234","role":"customer"}`)

	require.Equal(t, http.StatusCreated, rr.Code)
	require.Equal(t, "Signup successful", messageOf(t, rr))
	require.Len(t, repo.users, 1)

	// token travels only in the cookie
	require.NotContains(t, rr.Body.String(), "token")

	c := sessionCookie(t, rr)
	require.NotNil(t, c, "session cookie must be set")
	require.True(t, c.HttpOnly)
	require.Equal(t, http.SameSiteStrictMode, c.SameSite)
	require.False(t, c.Secure, "secure flag stays off outside production")
	require.Equal(t, int(session.TokenTTL/time.Second), c.MaxAge)
	require.Equal(t, "/", c.Path)

	claims, err := issuer.Parse(c.Value)
	require.NoError(t, err)
	require.Equal(t, "ann@x.com", claims.Email)
	require.Equal(t, int64(1), claims.UserID)
}

func TestSignupHandler_SecureCookieInProduction(t *testing.T) {
	h, _, _ := newTestHandler(t, true)

	rr := postJSON(t, h.Signup, "/users/signup",
		`{"name":"Ann","email":"ann@x.com","password":"abcd1234","role":"customer"}`)

	require.Equal(t, http.StatusCreated, rr.Code)
	c := sessionCookie(t, rr)
	require.NotNil(t, c)
	require.True(t, c.Secure)
}

func TestSignupHandler_ValidationMessages(t *testing.T) {
	cases := []struct {
		name       string
		body       string
		wantStatus int
		wantMsg    string
	}{
		{"missing fields", `{"email":"ann@x.com"}`,
			http.StatusBadRequest, "Email, password, or name is missing"},
		{"bad email", `{"name":"Ann","email":"nope","password":"abcd1234","role":"customer"}`,
			http.StatusBadRequest, "Invalid email format"},
		{"weak password", `{"name":"Ann","email":"ann@x.com","password":"short","role":"customer"}`,
			http.StatusBadRequest, "Password must be at least 8 characters long and contain both letters and numbers"},
		{"bad role", `{"name":"Ann","email":"ann@x.com","password":"abcd1234","role":"wizard"}`,
			http.StatusBadRequest, "Invalid role"},
		{"malformed json", `{"name":`,
			http.StatusBadRequest, "Email, password, or name is missing"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h, repo, _ := newTestHandler(t, false)
			rr := postJSON(t, h.Signup, "/users/signup", tc.body)

			require.Equal(t, tc.wantStatus, rr.Code)
			require.Equal(t, tc.wantMsg, messageOf(t, rr))
			require.Empty(t, repo.users)
			require.Nil(t, sessionCookie(t, rr))
		})
	}
}

func TestSignupHandler_Duplicate(t *testing.T) {
	h, _, _ := newTestHandler(t, false)

	first := postJSON(t, h.Signup, "/users/signup",
		`{"name":"Ann","email":"ann@x.com","password":"abcd1234","role":"customer"}`)
	require.Equal(t, http.StatusCreated, first.Code)

	second := postJSON(t, h.Signup, "/users/signup",
		`{"name":"Ann Again","email":"ann@x.com","password":"wxyz5678","role":"vendor"}`)
	require.Equal(t, http.StatusConflict, second.Code)
	require.Equal(t, "User already exists", messageOf(t, second))
	require.Nil(t, sessionCookie(t, second))
}

func TestLoginHandler_IdenticalAuthError(t *testing.T) {
	h, _, _ := newTestHandler(t, false)

	rr := postJSON(t, h.Signup, "/users/signup",
		`{"name":"Ann","email":"ann@x.com","password":"abcd1234","role":"customer"}`)
	require.Equal(t, http.StatusCreated, rr.Code)

	wrongPassword := postJSON(t, h.Login, "/users/login",
		`{"email":"ann@x.com","password":"wrong-pass1"}`)
	unknownEmail := postJSON(t, h.Login, "/users/login",
		`{"email":"ghost@x.com","password":"abcd1234"}`)

	require.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	require.Equal(t, http.StatusUnauthorized, unknownEmail.Code)
	// byte-identical bodies so account existence cannot be probed
	require.Equal(t, wrongPassword.Body.String(), unknownEmail.Body.String())
	require.Equal(t, "Invalid credentials", messageOf(t, wrongPassword))
}

func TestLogoutHandler_AlwaysClearsCookie(t *testing.T) {
	h, _, _ := newTestHandler(t, false)

	// no session cookie on the request at all
	req := httptest.NewRequest(http.MethodPost, "/users/logout", nil)
	rr := httptest.NewRecorder()
	h.Logout(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "Logged out successfully", messageOf(t, rr))

	c := sessionCookie(t, rr)
	require.NotNil(t, c)
	require.Empty(t, c.Value)
	require.Negative(t, c.MaxAge)
	require.True(t, c.HttpOnly)
	require.Equal(t, http.SameSiteStrictMode, c.SameSite)
}

func TestSignupLoginRoundTrip(t *testing.T) {
	h, _, issuer := newTestHandler(t, false)

	signup := postJSON(t, h.Signup, "/users/signup",
		`{"name":"Ann","email":"ann@x.com","password":"abcd1234","role":"customer"}`)
	require.Equal(t, http.StatusCreated, signup.Code)
	require.NotNil(t, sessionCookie(t, signup))

	login := postJSON(t, h.Login, "/users/login",
		`{"email":"ann@x.com","password":"abcd1234"}`)
	require.Equal(t, http.StatusOK, login.Code)
	require.Equal(t, "Login successful", messageOf(t, login))

	c := sessionCookie(t, login)
	require.NotNil(t, c)
	claims, err := issuer.Parse(c.Value)
	require.NoError(t, err)
	require.Equal(t, "ann@x.com", claims.Email)
}

func TestUserCRUDHandlers(t *testing.T) {
	h, _, _ := newTestHandler(t, false)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /users", h.List)
	mux.HandleFunc("GET /users/{id}", h.Get)
	mux.HandleFunc("DELETE /users/{id}", h.Delete)

	signup := postJSON(t, h.Signup, "/users/signup",
		`{"name":"Ann","email":"ann@x.com","password":"abcd1234","role":"customer"}`)
	require.Equal(t, http.StatusCreated, signup.Code)

	// list: password hash must never be serialized
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/users", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Body.String(), `"ann@x.com"`)
	require.NotContains(t, rr.Body.String(), "password")

	// get by id
	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/users/1", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	// unknown id
	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/users/999", nil))
	require.Equal(t, http.StatusNotFound, rr.Code)
	require.Equal(t, "User not found", messageOf(t, rr))

	// delete, then delete again
	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/users/1", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/users/1", nil))
	require.Equal(t, http.StatusNotFound, rr.Code)
}
