package user

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/marketbay/service-account-go/internal/session"
)

// Handler exposes HTTP endpoints for user operations (signup / login / logout
// and plain CRUD).
type Handler struct {
	svc           *Service
	logger        *zap.SugaredLogger
	secureCookies bool
}

// NewHandler constructs a Handler. secureCookies controls the Secure
// attribute on session cookies and should be true in production-like
// environments.
func NewHandler(svc *Service, logger *zap.SugaredLogger, secureCookies bool) *Handler {
	return &Handler{svc: svc, logger: logger, secureCookies: secureCookies}
}

// SignupRequest request body for the signup endpoint.
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// LoginRequest login payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Debugw("invalid signup payload", "err", err)
		h.writeMessage(w, http.StatusBadRequest, "Email, password, or name is missing")
		return
	}
	token, id, err := h.svc.Signup(r.Context(), req.Name, req.Email, req.Password, req.Role)
	if err != nil {
		switch {
		case errors.Is(err, ErrMissingSignupFields):
			h.writeMessage(w, http.StatusBadRequest, "Email, password, or name is missing")
		case errors.Is(err, ErrInvalidRole):
			h.writeMessage(w, http.StatusBadRequest, "Invalid role")
		case errors.Is(err, ErrInvalidEmail):
			h.writeMessage(w, http.StatusBadRequest, "Invalid email format")
		case errors.Is(err, ErrWeakPassword):
			h.writeMessage(w, http.StatusBadRequest, "Password must be at least 8 characters long and contain both letters and numbers")
		case errors.Is(err, ErrEmailTaken):
			h.writeMessage(w, http.StatusConflict, "User already exists")
		default:
			h.logger.Errorw("signup failed", "err", err)
			h.writeMessage(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}
	h.logger.Infow("user signed up", "id", id)
	// the token travels only in the cookie, never in the body
	session.SetCookie(w, token, h.secureCookies)
	h.writeMessage(w, http.StatusCreated, "Signup successful")
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Debugw("invalid login payload", "err", err)
		h.writeMessage(w, http.StatusBadRequest, "Email or password is missing")
		return
	}
	token, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrMissingCredentials):
			h.writeMessage(w, http.StatusBadRequest, "Email or password is missing")
		case errors.Is(err, ErrInvalidEmail):
			h.writeMessage(w, http.StatusBadRequest, "Invalid email format")
		case errors.Is(err, ErrBadCredentials):
			// same message for unknown email and wrong password
			h.writeMessage(w, http.StatusUnauthorized, "Invalid credentials")
		default:
			h.logger.Errorw("login failed", "err", err)
			h.writeMessage(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}
	session.SetCookie(w, token, h.secureCookies)
	h.writeMessage(w, http.StatusOK, "Login successful")
}

// Logout clears the session cookie. Stateless: the assertion itself stays
// valid until expiry, there is no server-side revocation.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	session.ClearCookie(w, h.secureCookies)
	h.writeMessage(w, http.StatusOK, "Logged out successfully")
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.List(r.Context())
	if err != nil {
		h.logger.Errorw("list users failed", "err", err)
		h.writeMessage(w, http.StatusInternalServerError, "Failed to fetch users")
		return
	}
	h.writeJSON(w, http.StatusOK, users)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		h.writeMessage(w, http.StatusBadRequest, "Invalid user id")
		return
	}
	u, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			h.writeMessage(w, http.StatusNotFound, "User not found")
			return
		}
		h.logger.Errorw("get user failed", "err", err, "id", id)
		h.writeMessage(w, http.StatusInternalServerError, "Failed to fetch user")
		return
	}
	h.writeJSON(w, http.StatusOK, u)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		h.writeMessage(w, http.StatusBadRequest, "Invalid user id")
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			h.writeMessage(w, http.StatusNotFound, "User not found")
			return
		}
		h.logger.Errorw("delete user failed", "err", err, "id", id)
		h.writeMessage(w, http.StatusInternalServerError, "Failed to delete user")
		return
	}
	h.writeMessage(w, http.StatusOK, "User deleted successfully")
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (h *Handler) writeMessage(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, map[string]string{"message": msg})
}
