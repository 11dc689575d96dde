package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dine24/dine24-api/internal/models"
	"github.com/dine24/dine24-api/internal/reservation"
	"github.com/go-chi/chi/v5"
)

// WizardHandler exposes the reservation wizard over HTTP. Each wizard is
// addressed by the id returned when it is started.
type WizardHandler struct {
	sessions *reservation.Sessions
	logger   *slog.Logger
}

func NewWizardHandler(sessions *reservation.Sessions, logger *slog.Logger) *WizardHandler {
	return &WizardHandler{
		sessions: sessions,
		logger:   logger,
	}
}

type startResponse struct {
	ID   string           `json:"id"`
	Step reservation.Step `json:"step"`
}

type tableRequest struct {
	TableNumber string `json:"table_number"`
}

type addItemRequest struct {
	MenuItemID int64 `json:"menu_item_id"`
}

type quantityRequest struct {
	Quantity *int `json:"quantity"`
}

type dishPreferences struct {
	Dietary string `json:"dietary"`
	Cuisine string `json:"cuisine"`
}

type applyRequest struct {
	Text string `json:"text"`
}

// wizard loads the wizard named in the URL or writes the error response
func (h *WizardHandler) wizard(w http.ResponseWriter, r *http.Request) (*reservation.Wizard, bool) {
	id := chi.URLParam(r, "id")
	wz, err := h.sessions.Get(id)
	if err != nil {
		writeServiceError(w, err, h.logger, "wizard lookup failed", "wizard_id", id)
		return nil, false
	}
	return wz, true
}

// Start handles POST /api/wizard
func (h *WizardHandler) Start(w http.ResponseWriter, r *http.Request) {
	var details models.ReservationDetails
	if err := decodeJSON(w, r, &details); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.logger)
		return
	}

	wz, err := h.sessions.Start(details)
	if err != nil {
		writeServiceError(w, err, h.logger, "failed to start wizard")
		return
	}

	h.logger.Info("wizard started", "wizard_id", wz.ID(), "num_people", details.NumPeople)
	WriteJSON(w, http.StatusCreated, startResponse{ID: wz.ID(), Step: wz.Step()}, h.logger)
}

// Get handles GET /api/wizard/{id}
func (h *WizardHandler) Get(w http.ResponseWriter, r *http.Request) {
	wz, ok := h.wizard(w, r)
	if !ok {
		return
	}
	WriteJSON(w, http.StatusOK, wz.State(), h.logger)
}

// Tables handles GET /api/wizard/{id}/tables
func (h *WizardHandler) Tables(w http.ResponseWriter, r *http.Request) {
	wz, ok := h.wizard(w, r)
	if !ok {
		return
	}

	options, err := wz.Tables(r.Context())
	if err != nil {
		writeServiceError(w, err, h.logger, "failed to load tables", "wizard_id", wz.ID())
		return
	}
	WriteJSON(w, http.StatusOK, options, h.logger)
}

// SelectTable handles POST /api/wizard/{id}/table
func (h *WizardHandler) SelectTable(w http.ResponseWriter, r *http.Request) {
	wz, ok := h.wizard(w, r)
	if !ok {
		return
	}

	var req tableRequest
	if err := decodeJSON(w, r, &req); err != nil || req.TableNumber == "" {
		WriteError(w, http.StatusBadRequest, "table_number is required", h.logger)
		return
	}

	selection, err := wz.SelectTable(r.Context(), req.TableNumber)
	if err != nil {
		writeServiceError(w, err, h.logger, "failed to select table", "wizard_id", wz.ID(), "table", req.TableNumber)
		return
	}
	WriteJSON(w, http.StatusOK, selection, h.logger)
}

// SuggestTable handles GET /api/wizard/{id}/ai/table
func (h *WizardHandler) SuggestTable(w http.ResponseWriter, r *http.Request) {
	wz, ok := h.wizard(w, r)
	if !ok {
		return
	}

	suggestion, err := wz.AISuggestTable(r.Context())
	if err != nil {
		writeServiceError(w, err, h.logger, "failed to suggest table", "wizard_id", wz.ID())
		return
	}
	WriteJSON(w, http.StatusOK, suggestion, h.logger)
}

// Cart handles GET /api/wizard/{id}/cart
func (h *WizardHandler) Cart(w http.ResponseWriter, r *http.Request) {
	wz, ok := h.wizard(w, r)
	if !ok {
		return
	}

	c, err := wz.Cart()
	if err != nil {
		writeServiceError(w, err, h.logger, "failed to load cart", "wizard_id", wz.ID())
		return
	}
	WriteJSON(w, http.StatusOK, c, h.logger)
}

// AddItem handles POST /api/wizard/{id}/cart
func (h *WizardHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	wz, ok := h.wizard(w, r)
	if !ok {
		return
	}

	var req addItemRequest
	if err := decodeJSON(w, r, &req); err != nil || req.MenuItemID <= 0 {
		WriteError(w, http.StatusBadRequest, "menu_item_id is required", h.logger)
		return
	}

	c, err := wz.AddItem(r.Context(), req.MenuItemID)
	if err != nil {
		writeServiceError(w, err, h.logger, "failed to add item", "wizard_id", wz.ID(), "menu_item_id", req.MenuItemID)
		return
	}
	WriteJSON(w, http.StatusOK, c, h.logger)
}

// SetQuantity handles PUT /api/wizard/{id}/cart/{itemId}
func (h *WizardHandler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	wz, ok := h.wizard(w, r)
	if !ok {
		return
	}
	itemID, ok := int64Param(r, "itemId")
	if !ok {
		WriteError(w, http.StatusBadRequest, "Invalid ID supplied", h.logger)
		return
	}

	var req quantityRequest
	if err := decodeJSON(w, r, &req); err != nil || req.Quantity == nil {
		WriteError(w, http.StatusBadRequest, "quantity is required", h.logger)
		return
	}

	c, err := wz.SetQuantity(itemID, *req.Quantity)
	if err != nil {
		writeServiceError(w, err, h.logger, "failed to update quantity", "wizard_id", wz.ID(), "menu_item_id", itemID)
		return
	}
	WriteJSON(w, http.StatusOK, c, h.logger)
}

// RemoveItem handles DELETE /api/wizard/{id}/cart/{itemId}
func (h *WizardHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	wz, ok := h.wizard(w, r)
	if !ok {
		return
	}
	itemID, ok := int64Param(r, "itemId")
	if !ok {
		WriteError(w, http.StatusBadRequest, "Invalid ID supplied", h.logger)
		return
	}

	c, err := wz.RemoveItem(itemID)
	if err != nil {
		writeServiceError(w, err, h.logger, "failed to remove item", "wizard_id", wz.ID(), "menu_item_id", itemID)
		return
	}
	WriteJSON(w, http.StatusOK, c, h.logger)
}

// SuggestDishes handles POST /api/wizard/{id}/ai/dishes
func (h *WizardHandler) SuggestDishes(w http.ResponseWriter, r *http.Request) {
	wz, ok := h.wizard(w, r)
	if !ok {
		return
	}

	var req dishPreferences
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.logger)
		return
	}

	suggestion, err := wz.AISuggestDishes(r.Context(), req.Dietary, req.Cuisine)
	if err != nil {
		writeServiceError(w, err, h.logger, "failed to suggest dishes", "wizard_id", wz.ID())
		return
	}
	WriteJSON(w, http.StatusOK, suggestion, h.logger)
}

// ApplySuggestion handles POST /api/wizard/{id}/ai/apply. An empty text
// applies the last suggestion the wizard received.
func (h *WizardHandler) ApplySuggestion(w http.ResponseWriter, r *http.Request) {
	wz, ok := h.wizard(w, r)
	if !ok {
		return
	}

	var req applyRequest
	if err := decodeJSON(w, r, &req); err != nil && !errors.Is(err, errEmptyBody) {
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.logger)
		return
	}

	applied, err := wz.ApplySuggestion(r.Context(), req.Text)
	if err != nil {
		writeServiceError(w, err, h.logger, "failed to apply suggestion", "wizard_id", wz.ID())
		return
	}
	WriteJSON(w, http.StatusOK, applied, h.logger)
}

// Skip handles POST /api/wizard/{id}/skip
func (h *WizardHandler) Skip(w http.ResponseWriter, r *http.Request) {
	wz, ok := h.wizard(w, r)
	if !ok {
		return
	}

	conf, err := wz.SkipOrdering(r.Context())
	if err != nil {
		writeServiceError(w, err, h.logger, "failed to confirm reservation", "wizard_id", wz.ID())
		return
	}
	h.confirmed(w, wz, conf)
}

// Confirm handles POST /api/wizard/{id}/confirm
func (h *WizardHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	wz, ok := h.wizard(w, r)
	if !ok {
		return
	}

	conf, err := wz.Confirm(r.Context(), true)
	if err != nil {
		writeServiceError(w, err, h.logger, "failed to confirm reservation", "wizard_id", wz.ID())
		return
	}
	h.confirmed(w, wz, conf)
}

func (h *WizardHandler) confirmed(w http.ResponseWriter, wz *reservation.Wizard, conf *reservation.Confirmation) {
	h.logger.Info("reservation confirmed",
		"wizard_id", wz.ID(),
		"reservation_id", conf.Reservation.ID,
		"table", conf.Reservation.TableNumber,
		"order_type", conf.Reservation.OrderType,
		"notices", len(conf.Notices),
	)
	WriteJSON(w, http.StatusCreated, conf, h.logger)
}

// Bill handles GET /api/wizard/{id}/bill
func (h *WizardHandler) Bill(w http.ResponseWriter, r *http.Request) {
	wz, ok := h.wizard(w, r)
	if !ok {
		return
	}

	doc, err := wz.Bill(r.Context())
	if err != nil {
		writeServiceError(w, err, h.logger, "failed to render bill", "wizard_id", wz.ID())
		return
	}
	WritePDF(w, doc.Filename, doc.Content, h.logger)
}
