package handlers

import (
	"log/slog"
	"net/http"

	"github.com/dine24/dine24-api/internal/models"
	"github.com/dine24/dine24-api/internal/service"
	"github.com/go-chi/chi/v5"
)

// SpecialHandler serves today's specials and their admin CRUD
type SpecialHandler struct {
	service *service.SpecialService
	logger  *slog.Logger
}

func NewSpecialHandler(service *service.SpecialService, logger *slog.Logger) *SpecialHandler {
	return &SpecialHandler{
		service: service,
		logger:  logger,
	}
}

// ListActive handles GET /api/specials
func (h *SpecialHandler) ListActive(w http.ResponseWriter, r *http.Request) {
	specials, err := h.service.Active(r.Context())
	if err != nil {
		writeServiceError(w, err, h.logger, "failed to list specials")
		return
	}
	WriteJSON(w, http.StatusOK, specials, h.logger)
}

// ListAll handles GET /api/admin/specials
func (h *SpecialHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	specials, err := h.service.All(r.Context())
	if err != nil {
		writeServiceError(w, err, h.logger, "failed to list specials")
		return
	}
	WriteJSON(w, http.StatusOK, specials, h.logger)
}

// Create handles POST /api/admin/specials
func (h *SpecialHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.DailySpecial
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.logger)
		return
	}

	sp, err := h.service.Create(r.Context(), req)
	if err != nil {
		writeServiceError(w, err, h.logger, "failed to create special")
		return
	}

	h.logger.Info("special created", "id", sp.ID, "menu_item_id", sp.MenuItemID)
	WriteJSON(w, http.StatusCreated, sp, h.logger)
}

// Update handles PUT /api/admin/specials/{id}
func (h *SpecialHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req models.DailySpecial
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.logger)
		return
	}

	sp, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		writeServiceError(w, err, h.logger, "failed to update special", "id", id)
		return
	}
	WriteJSON(w, http.StatusOK, sp, h.logger)
}

// Toggle handles POST /api/admin/specials/{id}/toggle
func (h *SpecialHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	sp, err := h.service.Toggle(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, h.logger, "failed to toggle special", "id", id)
		return
	}
	WriteJSON(w, http.StatusOK, sp, h.logger)
}

// Delete handles DELETE /api/admin/specials/{id}
func (h *SpecialHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err, h.logger, "failed to delete special", "id", id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
