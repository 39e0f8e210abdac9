package category

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"
)

// Handler contains dependencies for handling category endpoints.
type Handler struct {
	svc    *Service
	logger *zap.SugaredLogger
}

// NewHandler constructs a new Handler.
func NewHandler(svc *Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// AddRequest is the payload for creating a category.
type AddRequest struct {
	Name string `json:"name"`
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.svc.List(r.Context())
	if err != nil {
		h.logger.Errorw("list categories failed", "err", err)
		h.writeMessage(w, http.StatusInternalServerError, "Failed to fetch categories")
		return
	}
	h.writeJSON(w, http.StatusOK, categories)
}

func (h *Handler) Add(w http.ResponseWriter, r *http.Request) {
	var req AddRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeMessage(w, http.StatusBadRequest, "Category name is missing")
		return
	}
	if _, err := h.svc.Add(r.Context(), req.Name); err != nil {
		if errors.Is(err, ErrNameRequired) {
			h.writeMessage(w, http.StatusBadRequest, "Category name is missing")
			return
		}
		h.logger.Errorw("add category failed", "err", err)
		h.writeMessage(w, http.StatusInternalServerError, "Failed to add category")
		return
	}
	h.writeMessage(w, http.StatusCreated, "Category added successfully")
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		h.writeMessage(w, http.StatusBadRequest, "Invalid category id")
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			h.writeMessage(w, http.StatusNotFound, "Category not found")
			return
		}
		h.logger.Errorw("delete category failed", "err", err, "id", id)
		h.writeMessage(w, http.StatusInternalServerError, "Failed to delete category")
		return
	}
	h.writeMessage(w, http.StatusOK, "Category deleted successfully")
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (h *Handler) writeMessage(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, map[string]string{"message": msg})
}
