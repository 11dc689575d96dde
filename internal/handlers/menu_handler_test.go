package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dine24/dine24-api/internal/models"
	"github.com/dine24/dine24-api/internal/repository"
	"github.com/dine24/dine24-api/internal/service"
	"github.com/dine24/dine24-api/pkg/logger"
)

func newMenuHandler() *MenuHandler {
	store := repository.NewSeededInMemoryStore()
	return NewMenuHandler(service.NewMenuService(store), logger.New("error"))
}

func TestMenuHandler_ListMenu(t *testing.T) {
	h := newMenuHandler()

	tests := []struct {
		name          string
		query         string
		expectedCount int
	}{
		{name: "all items", query: "", expectedCount: 13},
		{name: "category", query: "?category=Breads", expectedCount: 2},
		{name: "category all", query: "?category=all", expectedCount: 13},
		{name: "search is case insensitive", query: "?search=NAAN", expectedCount: 2},
		{name: "non veg only", query: "?veg=false", expectedCount: 3},
		{name: "veg starters", query: "?veg=true&category=Starters", expectedCount: 2},
		{name: "no match", query: "?search=sushi", expectedCount: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := newRequest(t, http.MethodGet, "/api/menu"+tt.query, nil)
			w := httptest.NewRecorder()

			h.ListMenu(w, req)

			if w.Code != http.StatusOK {
				t.Fatalf("expected status 200, got %d", w.Code)
			}
			var items []models.MenuItem
			decodeBody(t, w, &items)
			if len(items) != tt.expectedCount {
				t.Errorf("expected %d items, got %d", tt.expectedCount, len(items))
			}
		})
	}
}

func TestMenuHandler_ListCategories(t *testing.T) {
	h := newMenuHandler()

	req := newRequest(t, http.MethodGet, "/api/menu/categories", nil)
	w := httptest.NewRecorder()
	h.ListCategories(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	var categories []string
	decodeBody(t, w, &categories)
	if len(categories) != 5 {
		t.Errorf("expected 5 categories, got %v", categories)
	}
}

func TestMenuHandler_GetMenuItem(t *testing.T) {
	h := newMenuHandler()

	tests := []struct {
		name           string
		id             string
		expectedStatus int
		expectedName   string
	}{
		{name: "existing item", id: "4", expectedStatus: http.StatusOK, expectedName: "Butter Chicken"},
		{name: "unknown item", id: "999", expectedStatus: http.StatusNotFound},
		{name: "invalid id", id: "abc", expectedStatus: http.StatusBadRequest},
		{name: "zero id", id: "0", expectedStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := newRequest(t, http.MethodGet, "/api/menu/"+tt.id, nil, "id", tt.id)
			w := httptest.NewRecorder()

			h.GetMenuItem(w, req)

			if w.Code != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d", tt.expectedStatus, w.Code)
			}
			if tt.expectedName != "" {
				var item models.MenuItem
				decodeBody(t, w, &item)
				if item.Name != tt.expectedName {
					t.Errorf("expected %q, got %q", tt.expectedName, item.Name)
				}
			}
		})
	}
}
