package service

import (
	"context"
	"sort"

	"github.com/dine24/dine24-api/internal/models"
	"github.com/dine24/dine24-api/internal/repository"
)

// MenuService handles read-side business logic for the menu
type MenuService struct {
	repo repository.MenuRepository
}

// NewMenuService creates a new menu service
func NewMenuService(repo repository.MenuRepository) *MenuService {
	return &MenuService{
		repo: repo,
	}
}

// List returns menu items matching filter, ordered by category then name
func (s *MenuService) List(ctx context.Context, filter models.MenuFilter) ([]models.MenuItem, error) {
	return s.repo.ListMenu(ctx, filter)
}

// Get returns a menu item by ID
func (s *MenuService) Get(ctx context.Context, id int64) (*models.MenuItem, error) {
	return s.repo.GetMenuItem(ctx, id)
}

// Categories returns the distinct categories in menu order
func (s *MenuService) Categories(ctx context.Context) ([]string, error) {
	items, err := s.repo.ListMenu(ctx, models.MenuFilter{})
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	categories := make([]string, 0)
	for _, item := range items {
		if !seen[item.Category] {
			seen[item.Category] = true
			categories = append(categories, item.Category)
		}
	}
	return categories, nil
}

// ByRating returns the whole menu, best rated first
func (s *MenuService) ByRating(ctx context.Context) ([]models.MenuItem, error) {
	items, err := s.repo.ListMenu(ctx, models.MenuFilter{})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Rating > items[j].Rating
	})
	return items, nil
}
