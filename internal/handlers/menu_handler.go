package handlers

import (
	"log/slog"
	"net/http"

	"github.com/dine24/dine24-api/internal/models"
	"github.com/dine24/dine24-api/internal/service"
)

// MenuHandler handles the public menu endpoints
type MenuHandler struct {
	service *service.MenuService
	logger  *slog.Logger
}

// NewMenuHandler creates a new menu handler
func NewMenuHandler(service *service.MenuService, logger *slog.Logger) *MenuHandler {
	return &MenuHandler{
		service: service,
		logger:  logger,
	}
}

// ListMenu handles GET /api/menu?search=&category=&veg=
func (h *MenuHandler) ListMenu(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := models.MenuFilter{
		Search:   q.Get("search"),
		Category: q.Get("category"),
		Veg:      boolQuery(r, "veg"),
	}

	items, err := h.service.List(r.Context(), filter)
	if err != nil {
		writeServiceError(w, err, h.logger, "failed to list menu")
		return
	}

	WriteJSON(w, http.StatusOK, items, h.logger)
}

// ListCategories handles GET /api/menu/categories
func (h *MenuHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.Categories(r.Context())
	if err != nil {
		writeServiceError(w, err, h.logger, "failed to list categories")
		return
	}

	WriteJSON(w, http.StatusOK, categories, h.logger)
}

// GetMenuItem handles GET /api/menu/{id}
func (h *MenuHandler) GetMenuItem(w http.ResponseWriter, r *http.Request) {
	id, ok := int64Param(r, "id")
	if !ok {
		WriteError(w, http.StatusBadRequest, "Invalid ID supplied", h.logger)
		return
	}

	item, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, h.logger, "failed to get menu item", "id", id)
		return
	}

	WriteJSON(w, http.StatusOK, item, h.logger)
}
