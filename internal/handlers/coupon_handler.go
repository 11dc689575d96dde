package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/dine24/dine24-api/internal/coupon"
	"github.com/go-chi/chi/v5"
)

// couponCatalog is the interface for coupon lookup and administration
type couponCatalog interface {
	List() []coupon.Coupon
	Create(cp coupon.Coupon) (*coupon.Coupon, error)
	Update(code string, cp coupon.Coupon) (*coupon.Coupon, error)
	Delete(code string) error
	Validate(ctx context.Context, code string) (*coupon.Coupon, error)
	Stats() map[string]interface{}
}

// CouponHandler handles HTTP requests for coupons
type CouponHandler struct {
	catalog couponCatalog
	logger  *slog.Logger
}

// NewCouponHandler creates a new CouponHandler
func NewCouponHandler(catalog couponCatalog, logger *slog.Logger) *CouponHandler {
	return &CouponHandler{
		catalog: catalog,
		logger:  logger,
	}
}

// ValidateCoupon handles GET /api/coupons/{code}
// Reports whether the code can be used today
func (h *CouponHandler) ValidateCoupon(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	cp, err := h.catalog.Validate(r.Context(), code)
	if err != nil {
		message := "Coupon not found or invalid"
		switch {
		case errors.Is(err, coupon.ErrExpired):
			message = "Coupon has expired"
		case errors.Is(err, coupon.ErrInactive):
			message = "Coupon is not active"
		case errors.Is(err, coupon.ErrExhausted):
			message = "Coupon usage limit reached"
		}
		WriteJSON(w, http.StatusNotFound, map[string]interface{}{
			"valid":   false,
			"coupon":  code,
			"message": message,
		}, h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"valid":  true,
		"coupon": cp,
	}, h.logger)
}

// List handles GET /api/admin/coupons
func (h *CouponHandler) List(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, h.catalog.List(), h.logger)
}

// Create handles POST /api/admin/coupons
func (h *CouponHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req coupon.Coupon
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.logger)
		return
	}

	cp, err := h.catalog.Create(req)
	if err != nil {
		writeServiceError(w, err, h.logger, "failed to create coupon", "code", req.Code)
		return
	}
	h.logger.Info("coupon created", "code", cp.Code)
	WriteJSON(w, http.StatusCreated, cp, h.logger)
}

// Update handles PUT /api/admin/coupons/{code}
func (h *CouponHandler) Update(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	var req coupon.Coupon
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.logger)
		return
	}

	cp, err := h.catalog.Update(code, req)
	if err != nil {
		writeServiceError(w, err, h.logger, "failed to update coupon", "code", code)
		return
	}
	WriteJSON(w, http.StatusOK, cp, h.logger)
}

// Delete handles DELETE /api/admin/coupons/{code}
func (h *CouponHandler) Delete(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	if err := h.catalog.Delete(code); err != nil {
		writeServiceError(w, err, h.logger, "failed to delete coupon", "code", code)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetStats handles GET /api/admin/coupons/stats (for debugging/monitoring)
func (h *CouponHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, h.catalog.Stats(), h.logger)
}
