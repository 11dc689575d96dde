package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dine24/dine24-api/internal/coupon"
	"github.com/dine24/dine24-api/internal/repository"
	"github.com/dine24/dine24-api/internal/reservation"
	"github.com/dine24/dine24-api/internal/service"
	"github.com/dine24/dine24-api/internal/validation"
)

// errorStatus maps domain errors to an HTTP status and client message.
// ok is false for errors the client should not see.
func errorStatus(err error) (status int, message string, ok bool) {
	switch {
	case errors.Is(err, repository.ErrMenuItemNotFound):
		return http.StatusNotFound, "Menu item not found", true
	case errors.Is(err, repository.ErrTableNotFound), errors.Is(err, reservation.ErrTableNotFound):
		return http.StatusNotFound, "Table not found", true
	case errors.Is(err, repository.ErrReservationNotFound):
		return http.StatusNotFound, "Reservation not found", true
	case errors.Is(err, repository.ErrSpecialNotFound):
		return http.StatusNotFound, "Special not found", true
	case errors.Is(err, coupon.ErrNotFound):
		return http.StatusNotFound, "Coupon not found", true
	case errors.Is(err, reservation.ErrSessionNotFound):
		return http.StatusNotFound, "Reservation session not found or expired", true
	case errors.Is(err, reservation.ErrNotInCart):
		return http.StatusNotFound, "Item is not in the cart", true

	case errors.Is(err, repository.ErrDuplicateTable):
		return http.StatusConflict, "Table number already exists", true
	case errors.Is(err, service.ErrDuplicateName):
		return http.StatusConflict, "A menu item with this name already exists", true
	case errors.Is(err, coupon.ErrDuplicateCode):
		return http.StatusConflict, "Coupon code already exists", true
	case errors.Is(err, service.ErrNoTableAvailable):
		return http.StatusConflict, "No tables are free for your party right now. Please try a reservation for later.", true
	case errors.Is(err, reservation.ErrWrongStep):
		return http.StatusConflict, err.Error(), true

	case errors.Is(err, service.ErrInvalidMenuItem):
		return http.StatusBadRequest, "Invalid menu item", true
	case errors.Is(err, service.ErrInvalidQuantity):
		return http.StatusBadRequest, "Quantity must be positive", true
	case errors.Is(err, reservation.ErrEmptyCart):
		return http.StatusBadRequest, "Add at least one item or skip ordering", true
	}
	return http.StatusInternalServerError, "Internal server error", false
}

// writeServiceError writes the response for an error returned by a service
func writeServiceError(w http.ResponseWriter, err error, logger *slog.Logger, msg string, args ...any) {
	if result, ok := validation.AsResult(err); ok {
		logger.Info(msg, append(args, "error", err)...)
		WriteValidation(w, result, logger)
		return
	}

	status, message, known := errorStatus(err)
	if known {
		logger.Info(msg, append(args, "error", err)...)
	} else {
		logger.Error(msg, append(args, "error", err)...)
	}
	WriteError(w, status, message, logger)
}
