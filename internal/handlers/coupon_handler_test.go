package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dine24/dine24-api/internal/coupon"
	"github.com/dine24/dine24-api/internal/validation"
	"github.com/dine24/dine24-api/pkg/logger"
	"github.com/go-chi/chi/v5"
)

func newTestCatalog() *coupon.Catalog {
	return coupon.NewCatalog([]coupon.Coupon{
		{Code: "FEAST50", MinOrderWorth: 800, Discount: "50%", DiscountType: coupon.TypePercentage, ValidTill: "2999-12-31", MaxUsage: 10, Status: coupon.StatusActive},
		{Code: "OLDIE10", MinOrderWorth: 100, Discount: "10%", DiscountType: coupon.TypePercentage, ValidTill: "2000-01-01", Status: coupon.StatusActive},
		{Code: "PAUSED", MinOrderWorth: 100, Discount: "Rs.50", DiscountType: coupon.TypeFixed, ValidTill: "2999-12-31", Status: coupon.StatusInactive},
	}, validation.New())
}

func TestCouponHandler_ValidateCoupon(t *testing.T) {
	h := NewCouponHandler(newTestCatalog(), logger.New("error"))

	tests := []struct {
		name            string
		couponCode      string
		expectedStatus  int
		expectedValid   bool
		expectedMessage string
	}{
		{
			name:           "valid coupon",
			couponCode:     "FEAST50",
			expectedStatus: http.StatusOK,
			expectedValid:  true,
		},
		{
			name:           "valid coupon - lower case",
			couponCode:     "feast50",
			expectedStatus: http.StatusOK,
			expectedValid:  true,
		},
		{
			name:            "expired coupon",
			couponCode:      "OLDIE10",
			expectedStatus:  http.StatusNotFound,
			expectedMessage: "Coupon has expired",
		},
		{
			name:            "inactive coupon",
			couponCode:      "PAUSED",
			expectedStatus:  http.StatusNotFound,
			expectedMessage: "Coupon is not active",
		},
		{
			name:            "invalid coupon - does not exist",
			couponCode:      "NOTEXIST",
			expectedStatus:  http.StatusNotFound,
			expectedMessage: "Coupon not found or invalid",
		},
		{
			name:            "empty coupon code",
			couponCode:      "",
			expectedStatus:  http.StatusNotFound,
			expectedMessage: "Coupon not found or invalid",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/coupons/"+tt.couponCode, nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("code", tt.couponCode)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

			w := httptest.NewRecorder()
			h.ValidateCoupon(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d", tt.expectedStatus, w.Code)
			}

			var response map[string]interface{}
			if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}

			if valid, _ := response["valid"].(bool); valid != tt.expectedValid {
				t.Errorf("expected valid=%v, got %v", tt.expectedValid, response["valid"])
			}
			if tt.expectedMessage != "" && response["message"] != tt.expectedMessage {
				t.Errorf("expected message %q, got %v", tt.expectedMessage, response["message"])
			}
		})
	}
}

func TestCouponHandler_Admin(t *testing.T) {
	h := NewCouponHandler(newTestCatalog(), logger.New("error"))

	r := chi.NewRouter()
	r.Get("/coupons", h.List)
	r.Post("/coupons", h.Create)
	r.Put("/coupons/{code}", h.Update)
	r.Delete("/coupons/{code}", h.Delete)
	r.Get("/coupons/stats", h.GetStats)

	do := func(method, path string, body interface{}) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		if body != nil {
			_ = json.NewEncoder(&buf).Encode(body)
		}
		req := httptest.NewRequest(method, path, &buf)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	newCoupon := coupon.Coupon{Code: "weekend25", MinOrderWorth: 600, Discount: "25%", DiscountType: coupon.TypePercentage, ValidTill: "2999-01-01", Status: coupon.StatusActive}

	tests := []struct {
		name           string
		method         string
		path           string
		body           interface{}
		expectedStatus int
	}{
		{"create", http.MethodPost, "/coupons", newCoupon, http.StatusCreated},
		{"create duplicate", http.MethodPost, "/coupons", newCoupon, http.StatusConflict},
		{"create invalid", http.MethodPost, "/coupons", coupon.Coupon{Code: "X"}, http.StatusUnprocessableEntity},
		{"create bad body", http.MethodPost, "/coupons", nil, http.StatusBadRequest},
		{"update", http.MethodPut, "/coupons/WEEKEND25", newCoupon, http.StatusOK},
		{"update missing", http.MethodPut, "/coupons/NOPE123", newCoupon, http.StatusNotFound},
		{"list", http.MethodGet, "/coupons", nil, http.StatusOK},
		{"stats", http.MethodGet, "/coupons/stats", nil, http.StatusOK},
		{"delete", http.MethodDelete, "/coupons/WEEKEND25", nil, http.StatusNoContent},
		{"delete again", http.MethodDelete, "/coupons/WEEKEND25", nil, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(tt.method, tt.path, tt.body)
			if w.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d: %s", tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestCouponHandler_CreateInvalidListsFields(t *testing.T) {
	h := NewCouponHandler(newTestCatalog(), logger.New("error"))

	body, _ := json.Marshal(coupon.Coupon{Code: "OK123", Discount: "5%", DiscountType: "bogus", ValidTill: "tomorrow", Status: coupon.StatusActive})
	req := httptest.NewRequest(http.MethodPost, "/api/admin/coupons", bytes.NewReader(body))
	w := httptest.NewRecorder()
	h.Create(w, req)

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected status 422, got %d", w.Code)
	}

	var resp ValidationResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if _, ok := resp.Fields["discount_type"]; !ok {
		t.Errorf("expected discount_type in fields, got %v", resp.Fields)
	}
	if _, ok := resp.Fields["valid_till"]; !ok {
		t.Errorf("expected valid_till in fields, got %v", resp.Fields)
	}
}
