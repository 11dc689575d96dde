package handlers

import (
	"log/slog"
	"net/http"

	"github.com/dine24/dine24-api/internal/bill"
	"github.com/dine24/dine24-api/internal/models"
	"github.com/dine24/dine24-api/internal/service"
	"github.com/go-chi/chi/v5"
)

// billRenderer renders the bill of a stored reservation
type billRenderer interface {
	Render(res *models.Reservation) (*bill.Document, error)
}

// ReservationHandler serves quick orders and customer reservation lookups
type ReservationHandler struct {
	service  *service.ReservationService
	renderer billRenderer
	logger   *slog.Logger
}

func NewReservationHandler(service *service.ReservationService, renderer billRenderer, logger *slog.Logger) *ReservationHandler {
	return &ReservationHandler{
		service:  service,
		renderer: renderer,
		logger:   logger,
	}
}

// QuickOrder handles POST /api/quick-order
func (h *ReservationHandler) QuickOrder(w http.ResponseWriter, r *http.Request) {
	var req service.QuickOrderRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.logger)
		return
	}

	result, err := h.service.QuickOrder(r.Context(), req)
	if err != nil {
		writeServiceError(w, err, h.logger, "quick order failed", "num_people", req.NumPeople)
		return
	}

	h.logger.Info("quick order placed",
		"reservation_id", result.Reservation.ID,
		"table", result.Table.TableNumber,
		"items_count", len(result.Reservation.Items),
	)
	WriteJSON(w, http.StatusCreated, result, h.logger)
}

// History handles GET /api/reservations/history?email=
func (h *ReservationHandler) History(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")

	reservations, err := h.service.History(r.Context(), email)
	if err != nil {
		writeServiceError(w, err, h.logger, "failed to load reservation history")
		return
	}
	WriteJSON(w, http.StatusOK, reservations, h.logger)
}

// Bill handles GET /api/reservations/{id}/bill
func (h *ReservationHandler) Bill(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	res, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, h.logger, "failed to load reservation", "reservation_id", id)
		return
	}

	doc, err := h.renderer.Render(res)
	if err != nil {
		h.logger.Error("failed to render bill", "reservation_id", id, "error", err)
		WriteError(w, http.StatusInternalServerError, "Failed to generate the bill. Please try again.", h.logger)
		return
	}

	WritePDF(w, doc.Filename, doc.Content, h.logger)
}
