package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/dine24/dine24-api/internal/models"
	"github.com/dine24/dine24-api/internal/repository"
	"github.com/dine24/dine24-api/internal/validation"
)

// SpecialService manages daily specials
type SpecialService struct {
	specials  repository.SpecialRepository
	menu      repository.MenuRepository
	validator *validation.Validator
}

func NewSpecialService(specials repository.SpecialRepository, menu repository.MenuRepository, v *validation.Validator) *SpecialService {
	return &SpecialService{
		specials:  specials,
		menu:      menu,
		validator: v,
	}
}

// Active returns the active specials joined with their menu items.
// Specials whose menu item no longer exists are skipped.
func (s *SpecialService) Active(ctx context.Context) ([]models.SpecialView, error) {
	return s.views(ctx, true)
}

// All returns every special, active or not
func (s *SpecialService) All(ctx context.Context) ([]models.SpecialView, error) {
	return s.views(ctx, false)
}

func (s *SpecialService) views(ctx context.Context, activeOnly bool) ([]models.SpecialView, error) {
	specials, err := s.specials.ListSpecials(ctx, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("list specials: %w", err)
	}

	views := make([]models.SpecialView, 0, len(specials))
	for _, sp := range specials {
		item, err := s.menu.GetMenuItem(ctx, sp.MenuItemID)
		if errors.Is(err, repository.ErrMenuItemNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("load special item: %w", err)
		}
		views = append(views, NewSpecialView(sp, *item))
	}
	return views, nil
}

// NewSpecialView joins a special with its item and works out the price charged
func NewSpecialView(sp models.DailySpecial, item models.MenuItem) models.SpecialView {
	final := item.EffectivePrice()
	if sp.SpecialPrice != nil && *sp.SpecialPrice > 0 {
		final = *sp.SpecialPrice
	}
	return models.SpecialView{DailySpecial: sp, Item: item, FinalPrice: final}
}

// Create validates and stores a new special
func (s *SpecialService) Create(ctx context.Context, sp models.DailySpecial) (*models.DailySpecial, error) {
	if err := s.check(ctx, sp); err != nil {
		return nil, err
	}
	sp.ID = ""
	if err := s.specials.CreateSpecial(ctx, &sp); err != nil {
		return nil, err
	}
	return &sp, nil
}

// Update replaces an existing special
func (s *SpecialService) Update(ctx context.Context, id string, sp models.DailySpecial) (*models.DailySpecial, error) {
	if err := s.check(ctx, sp); err != nil {
		return nil, err
	}
	sp.ID = id
	if err := s.specials.UpdateSpecial(ctx, &sp); err != nil {
		return nil, err
	}
	return &sp, nil
}

// Toggle flips the active flag of a special
func (s *SpecialService) Toggle(ctx context.Context, id string) (*models.DailySpecial, error) {
	sp, err := s.specials.GetSpecial(ctx, id)
	if err != nil {
		return nil, err
	}
	sp.IsActive = !sp.IsActive
	if err := s.specials.UpdateSpecial(ctx, sp); err != nil {
		return nil, err
	}
	return sp, nil
}

func (s *SpecialService) Delete(ctx context.Context, id string) error {
	return s.specials.DeleteSpecial(ctx, id)
}

func (s *SpecialService) check(ctx context.Context, sp models.DailySpecial) error {
	if err := s.validator.Struct(sp); err != nil {
		return err
	}
	if _, err := s.menu.GetMenuItem(ctx, sp.MenuItemID); err != nil {
		if errors.Is(err, repository.ErrMenuItemNotFound) {
			return validation.Result{"menu_item_id": "menu item does not exist"}
		}
		return err
	}
	return nil
}
