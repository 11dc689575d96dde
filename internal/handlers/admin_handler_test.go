package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dine24/dine24-api/internal/auth"
	"github.com/dine24/dine24-api/internal/middleware"
	"github.com/dine24/dine24-api/internal/models"
	"github.com/dine24/dine24-api/internal/repository"
	"github.com/dine24/dine24-api/internal/service"
	"github.com/dine24/dine24-api/internal/validation"
	"github.com/dine24/dine24-api/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAdminHandler(t *testing.T) (*AdminHandler, *auth.Manager, *repository.InMemoryStore) {
	t.Helper()
	hash, err := auth.HashPassword("s3cret-pass")
	require.NoError(t, err)

	manager := auth.NewManager(auth.Config{
		Username:     "admin",
		PasswordHash: hash,
		Secret:       "test-secret-at-least-16",
	})
	store := repository.NewSeededInMemoryStore()
	h := NewAdminHandler(service.NewAdminService(store, validation.New()), manager, logger.New("error"))
	return h, manager, store
}

func TestAdminHandler_Login(t *testing.T) {
	h, manager, _ := newAdminHandler(t)

	tests := []struct {
		name           string
		body           interface{}
		expectedStatus int
	}{
		{name: "valid credentials", body: loginRequest{Username: "admin", Password: "s3cret-pass"}, expectedStatus: http.StatusOK},
		{name: "wrong password", body: loginRequest{Username: "admin", Password: "guess"}, expectedStatus: http.StatusUnauthorized},
		{name: "unknown user", body: loginRequest{Username: "root", Password: "s3cret-pass"}, expectedStatus: http.StatusUnauthorized},
		{name: "missing password", body: loginRequest{Username: "admin"}, expectedStatus: http.StatusBadRequest},
		{name: "missing body", expectedStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			h.Login(w, newRequest(t, http.MethodPost, "/api/admin/login", tt.body))

			require.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus != http.StatusOK {
				return
			}
			var resp loginResponse
			decodeBody(t, w, &resp)
			assert.Equal(t, "admin", resp.Username)
			assert.Equal(t, auth.RoleAdmin, resp.Role)

			session, err := manager.Authenticate(resp.Token)
			require.NoError(t, err)
			assert.Equal(t, "admin", session.Username)
		})
	}
}

func TestAdminHandler_LogoutRevokesToken(t *testing.T) {
	h, manager, _ := newAdminHandler(t)

	token, _, err := manager.Login("admin", "s3cret-pass")
	require.NoError(t, err)

	protected := middleware.AdminAuth(manager)(http.HandlerFunc(h.Dashboard))

	req := newRequest(t, http.MethodGet, "/api/admin/dashboard", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	protected.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	req = newRequest(t, http.MethodPost, "/api/admin/logout", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	h.Logout(w, req)
	require.Equal(t, http.StatusNoContent, w.Code)

	req = newRequest(t, http.MethodGet, "/api/admin/dashboard", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	protected.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// a revoked token cannot log out twice
	req = newRequest(t, http.MethodPost, "/api/admin/logout", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	h.Logout(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	h.Logout(w, newRequest(t, http.MethodPost, "/api/admin/logout", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminHandler_MenuCRUD(t *testing.T) {
	h, _, _ := newAdminHandler(t)

	offer := int64(0)
	item := models.MenuItem{Name: "  Mango Kulfi ", Category: "Desserts", Price: 140, OfferPrice: &offer, Quantity: "1 stick", Rating: 4.4, IsVeg: true}

	w := httptest.NewRecorder()
	h.CreateMenuItem(w, newRequest(t, http.MethodPost, "/api/admin/menu", item))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created models.MenuItem
	decodeBody(t, w, &created)
	assert.Equal(t, "Mango Kulfi", created.Name)
	assert.Nil(t, created.OfferPrice)

	w = httptest.NewRecorder()
	h.CreateMenuItem(w, newRequest(t, http.MethodPost, "/api/admin/menu", item))
	assert.Equal(t, http.StatusConflict, w.Code)

	w = httptest.NewRecorder()
	h.CreateMenuItem(w, newRequest(t, http.MethodPost, "/api/admin/menu", models.MenuItem{Name: "Nothing"}))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	id := "14"
	update := created
	update.Price = 160
	w = httptest.NewRecorder()
	h.UpdateMenuItem(w, newRequest(t, http.MethodPut, "/api/admin/menu/"+id, update, "id", id))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var updated models.MenuItem
	decodeBody(t, w, &updated)
	assert.Equal(t, int64(160), updated.Price)

	// renaming onto an existing dish is rejected
	update.Name = "Rasmalai"
	w = httptest.NewRecorder()
	h.UpdateMenuItem(w, newRequest(t, http.MethodPut, "/api/admin/menu/"+id, update, "id", id))
	assert.Equal(t, http.StatusConflict, w.Code)

	w = httptest.NewRecorder()
	h.DeleteMenuItem(w, newRequest(t, http.MethodDelete, "/api/admin/menu/"+id, nil, "id", id))
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = httptest.NewRecorder()
	h.DeleteMenuItem(w, newRequest(t, http.MethodDelete, "/api/admin/menu/"+id, nil, "id", id))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	h.ListMenu(w, newRequest(t, http.MethodGet, "/api/admin/menu", nil))
	var all []models.MenuItem
	decodeBody(t, w, &all)
	assert.Len(t, all, 13)
}

func TestAdminHandler_Tables(t *testing.T) {
	h, _, _ := newAdminHandler(t)

	w := httptest.NewRecorder()
	h.CreateTable(w, newRequest(t, http.MethodPost, "/api/admin/tables", models.RestaurantTable{
		TableNumber: "R1", SeatingCapacity: 2, Section: models.SectionWindowSide, IsAvailable: true,
	}))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = httptest.NewRecorder()
	h.CreateTable(w, newRequest(t, http.MethodPost, "/api/admin/tables", models.RestaurantTable{
		TableNumber: "W1", SeatingCapacity: 2, Section: models.SectionWindowSide,
	}))
	assert.Equal(t, http.StatusConflict, w.Code)

	w = httptest.NewRecorder()
	h.ToggleTable(w, newRequest(t, http.MethodPost, "/api/admin/tables/R1/toggle", nil, "number", "R1"))
	require.Equal(t, http.StatusOK, w.Code)
	var table models.RestaurantTable
	decodeBody(t, w, &table)
	assert.False(t, table.IsAvailable)

	w = httptest.NewRecorder()
	h.ToggleTable(w, newRequest(t, http.MethodPost, "/api/admin/tables/X9/toggle", nil, "number", "X9"))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	h.ListTables(w, newRequest(t, http.MethodGet, "/api/admin/tables", nil))
	var tables []models.RestaurantTable
	decodeBody(t, w, &tables)
	assert.Len(t, tables, 10)
}

func TestAdminHandler_Reservations(t *testing.T) {
	h, _, store := newAdminHandler(t)
	res := storeReservation(t, store, "meera@example.com")

	w := httptest.NewRecorder()
	h.ListReservations(w, newRequest(t, http.MethodGet, "/api/admin/reservations?status=confirmed", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var list []models.Reservation
	decodeBody(t, w, &list)
	assert.Len(t, list, 1)

	w = httptest.NewRecorder()
	h.ListReservations(w, newRequest(t, http.MethodGet, "/api/admin/reservations?status=lost", nil))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = httptest.NewRecorder()
	h.UpdateReservationStatus(w, newRequest(t, http.MethodPatch, "/api/admin/reservations/"+res.ID+"/status",
		statusRequest{Status: models.StatusCompleted}, "id", res.ID))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var updated models.Reservation
	decodeBody(t, w, &updated)
	assert.Equal(t, models.StatusCompleted, updated.Status)

	w = httptest.NewRecorder()
	h.UpdateReservationStatus(w, newRequest(t, http.MethodPatch, "/api/admin/reservations/"+res.ID+"/status",
		statusRequest{Status: "eaten"}, "id", res.ID))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = httptest.NewRecorder()
	h.GetReservation(w, newRequest(t, http.MethodGet, "/api/admin/reservations/"+res.ID, nil, "id", res.ID))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	h.Dashboard(w, newRequest(t, http.MethodGet, "/api/admin/dashboard", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var d service.Dashboard
	decodeBody(t, w, &d)
	assert.Equal(t, 1, d.TotalReservations)
	assert.Equal(t, 1, d.ReservationsByStatus[models.StatusCompleted])
	assert.Equal(t, 13, d.MenuItems)

	w = httptest.NewRecorder()
	h.DeleteReservation(w, newRequest(t, http.MethodDelete, "/api/admin/reservations/"+res.ID, nil, "id", res.ID))
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = httptest.NewRecorder()
	h.GetReservation(w, newRequest(t, http.MethodGet, "/api/admin/reservations/"+res.ID, nil, "id", res.ID))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
