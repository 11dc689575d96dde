package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/dine24/dine24-api/internal/auth"
	"github.com/dine24/dine24-api/internal/middleware"
	"github.com/dine24/dine24-api/internal/models"
	"github.com/dine24/dine24-api/internal/service"
	"github.com/go-chi/chi/v5"
)

// sessionManager logs the admin in and out
type sessionManager interface {
	Login(username, password string) (string, *auth.Session, error)
	Logout(token string) error
}

// AdminHandler serves the back office: login, menu, tables, reservations and
// the dashboard. Specials and coupons have their own handlers.
type AdminHandler struct {
	service  *service.AdminService
	sessions sessionManager
	logger   *slog.Logger
}

func NewAdminHandler(service *service.AdminService, sessions sessionManager, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		service:  service,
		sessions: sessions,
		logger:   logger,
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}

type statusRequest struct {
	Status string `json:"status"`
}

// Login handles POST /api/admin/login
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.logger)
		return
	}
	if req.Username == "" || req.Password == "" {
		WriteError(w, http.StatusBadRequest, "Username and password are required", h.logger)
		return
	}

	token, session, err := h.sessions.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			h.logger.Warn("admin login rejected", "username", req.Username)
			WriteError(w, http.StatusUnauthorized, "Invalid username or password", h.logger)
			return
		}
		h.logger.Error("admin login failed", "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.logger)
		return
	}

	h.logger.Info("admin logged in", "username", session.Username)
	WriteJSON(w, http.StatusOK, loginResponse{
		Token:     token,
		Username:  session.Username,
		Role:      session.Role,
		ExpiresAt: session.ExpiresAt,
	}, h.logger)
}

// Logout handles POST /api/admin/logout
func (h *AdminHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token := middleware.BearerToken(r)
	if token == "" {
		WriteError(w, http.StatusUnauthorized, "Unauthorized: admin token required", h.logger)
		return
	}

	if err := h.sessions.Logout(token); err != nil {
		h.logger.Info("admin logout rejected", "error", err)
		WriteError(w, http.StatusUnauthorized, "Unauthorized: invalid or expired token", h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListMenu handles GET /api/admin/menu
func (h *AdminHandler) ListMenu(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListMenu(r.Context())
	if err != nil {
		writeServiceError(w, err, h.logger, "failed to list menu")
		return
	}
	WriteJSON(w, http.StatusOK, items, h.logger)
}

// CreateMenuItem handles POST /api/admin/menu
func (h *AdminHandler) CreateMenuItem(w http.ResponseWriter, r *http.Request) {
	var req models.MenuItem
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.logger)
		return
	}

	item, err := h.service.CreateMenuItem(r.Context(), req)
	if err != nil {
		writeServiceError(w, err, h.logger, "failed to create menu item", "name", req.Name)
		return
	}

	h.logger.Info("menu item created", "id", item.ID, "name", item.Name)
	WriteJSON(w, http.StatusCreated, item, h.logger)
}

// UpdateMenuItem handles PUT /api/admin/menu/{id}
func (h *AdminHandler) UpdateMenuItem(w http.ResponseWriter, r *http.Request) {
	id, ok := int64Param(r, "id")
	if !ok {
		WriteError(w, http.StatusBadRequest, "Invalid ID supplied", h.logger)
		return
	}

	var req models.MenuItem
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.logger)
		return
	}

	item, err := h.service.UpdateMenuItem(r.Context(), id, req)
	if err != nil {
		writeServiceError(w, err, h.logger, "failed to update menu item", "id", id)
		return
	}
	WriteJSON(w, http.StatusOK, item, h.logger)
}

// DeleteMenuItem handles DELETE /api/admin/menu/{id}
func (h *AdminHandler) DeleteMenuItem(w http.ResponseWriter, r *http.Request) {
	id, ok := int64Param(r, "id")
	if !ok {
		WriteError(w, http.StatusBadRequest, "Invalid ID supplied", h.logger)
		return
	}

	if err := h.service.DeleteMenuItem(r.Context(), id); err != nil {
		writeServiceError(w, err, h.logger, "failed to delete menu item", "id", id)
		return
	}

	h.logger.Info("menu item deleted", "id", id)
	w.WriteHeader(http.StatusNoContent)
}

// ListTables handles GET /api/admin/tables
func (h *AdminHandler) ListTables(w http.ResponseWriter, r *http.Request) {
	tables, err := h.service.ListTables(r.Context())
	if err != nil {
		writeServiceError(w, err, h.logger, "failed to list tables")
		return
	}
	WriteJSON(w, http.StatusOK, tables, h.logger)
}

// CreateTable handles POST /api/admin/tables
func (h *AdminHandler) CreateTable(w http.ResponseWriter, r *http.Request) {
	var req models.RestaurantTable
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.logger)
		return
	}

	table, err := h.service.CreateTable(r.Context(), req)
	if err != nil {
		writeServiceError(w, err, h.logger, "failed to create table", "table", req.TableNumber)
		return
	}
	WriteJSON(w, http.StatusCreated, table, h.logger)
}

// ToggleTable handles POST /api/admin/tables/{number}/toggle
func (h *AdminHandler) ToggleTable(w http.ResponseWriter, r *http.Request) {
	number := chi.URLParam(r, "number")

	table, err := h.service.ToggleTable(r.Context(), number)
	if err != nil {
		writeServiceError(w, err, h.logger, "failed to toggle table", "table", number)
		return
	}

	h.logger.Info("table availability changed", "table", number, "available", table.IsAvailable)
	WriteJSON(w, http.StatusOK, table, h.logger)
}

// ListReservations handles GET /api/admin/reservations?status=
func (h *AdminHandler) ListReservations(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")

	reservations, err := h.service.ListReservations(r.Context(), status)
	if err != nil {
		writeServiceError(w, err, h.logger, "failed to list reservations", "status", status)
		return
	}
	WriteJSON(w, http.StatusOK, reservations, h.logger)
}

// GetReservation handles GET /api/admin/reservations/{id}
func (h *AdminHandler) GetReservation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	res, err := h.service.GetReservation(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, h.logger, "failed to get reservation", "reservation_id", id)
		return
	}
	WriteJSON(w, http.StatusOK, res, h.logger)
}

// UpdateReservationStatus handles PATCH /api/admin/reservations/{id}/status
func (h *AdminHandler) UpdateReservationStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req statusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.logger)
		return
	}

	res, err := h.service.UpdateReservationStatus(r.Context(), id, req.Status)
	if err != nil {
		writeServiceError(w, err, h.logger, "failed to update reservation status", "reservation_id", id)
		return
	}

	h.logger.Info("reservation status updated", "reservation_id", id, "status", res.Status)
	WriteJSON(w, http.StatusOK, res, h.logger)
}

// DeleteReservation handles DELETE /api/admin/reservations/{id}
func (h *AdminHandler) DeleteReservation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.service.DeleteReservation(r.Context(), id); err != nil {
		writeServiceError(w, err, h.logger, "failed to delete reservation", "reservation_id", id)
		return
	}

	h.logger.Info("reservation deleted", "reservation_id", id)
	w.WriteHeader(http.StatusNoContent)
}

// Dashboard handles GET /api/admin/dashboard
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.service.Dashboard(r.Context())
	if err != nil {
		writeServiceError(w, err, h.logger, "failed to build dashboard")
		return
	}
	WriteJSON(w, http.StatusOK, d, h.logger)
}
