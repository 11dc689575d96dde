package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/dine24/dine24-api/internal/models"
	"github.com/dine24/dine24-api/internal/repository"
	"github.com/dine24/dine24-api/internal/validation"
)

var (
	ErrDuplicateName = errors.New("a menu item with this name already exists")
)

// TopItemsLimit is how many best sellers the dashboard shows
const TopItemsLimit = 5

// AdminService implements the back-office operations on menu, tables and reservations
type AdminService struct {
	store     repository.Store
	validator *validation.Validator
}

func NewAdminService(store repository.Store, v *validation.Validator) *AdminService {
	return &AdminService{
		store:     store,
		validator: v,
	}
}

// normalizeMenuItem trims the name and treats a zero offer price as no offer
func normalizeMenuItem(item *models.MenuItem) {
	item.Name = strings.TrimSpace(item.Name)
	item.Category = strings.TrimSpace(item.Category)
	if item.OfferPrice != nil && *item.OfferPrice == 0 {
		item.OfferPrice = nil
	}
}

func (s *AdminService) ListMenu(ctx context.Context) ([]models.MenuItem, error) {
	return s.store.ListMenu(ctx, models.MenuFilter{})
}

// CreateMenuItem validates and stores a new menu item. Names must be unique.
func (s *AdminService) CreateMenuItem(ctx context.Context, item models.MenuItem) (*models.MenuItem, error) {
	normalizeMenuItem(&item)
	if err := s.validator.Struct(item); err != nil {
		return nil, err
	}

	if err := s.checkUniqueName(ctx, item.Name, 0); err != nil {
		return nil, err
	}

	item.ID = 0
	item.OrdersPlaced = 0
	if err := s.store.CreateMenuItem(ctx, &item); err != nil {
		return nil, fmt.Errorf("create menu item: %w", err)
	}
	return &item, nil
}

// UpdateMenuItem replaces the editable fields of an existing item
func (s *AdminService) UpdateMenuItem(ctx context.Context, id int64, item models.MenuItem) (*models.MenuItem, error) {
	normalizeMenuItem(&item)
	if err := s.validator.Struct(item); err != nil {
		return nil, err
	}

	if err := s.checkUniqueName(ctx, item.Name, id); err != nil {
		return nil, err
	}

	item.ID = id
	if err := s.store.UpdateMenuItem(ctx, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *AdminService) DeleteMenuItem(ctx context.Context, id int64) error {
	return s.store.DeleteMenuItem(ctx, id)
}

func (s *AdminService) checkUniqueName(ctx context.Context, name string, selfID int64) error {
	existing, err := s.store.FindMenuItemByName(ctx, name)
	if errors.Is(err, repository.ErrMenuItemNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("check menu name: %w", err)
	}
	if existing.ID != selfID {
		return ErrDuplicateName
	}
	return nil
}

func (s *AdminService) ListTables(ctx context.Context) ([]models.RestaurantTable, error) {
	return s.store.ListTables(ctx)
}

func (s *AdminService) CreateTable(ctx context.Context, table models.RestaurantTable) (*models.RestaurantTable, error) {
	table.TableNumber = strings.TrimSpace(table.TableNumber)
	if err := s.validator.Struct(table); err != nil {
		return nil, err
	}
	if err := s.store.CreateTable(ctx, &table); err != nil {
		return nil, err
	}
	return &table, nil
}

// ToggleTable flips the availability flag of a table
func (s *AdminService) ToggleTable(ctx context.Context, tableNumber string) (*models.RestaurantTable, error) {
	t, err := s.store.GetTable(ctx, tableNumber)
	if err != nil {
		return nil, err
	}
	t.IsAvailable = !t.IsAvailable
	if err := s.store.SetTableAvailability(ctx, tableNumber, t.IsAvailable); err != nil {
		return nil, err
	}
	return t, nil
}

func invalidStatus() validation.Result {
	return validation.Result{"status": "must be one of confirmed, pending, completed, cancelled"}
}

// ListReservations returns reservations newest first, optionally by status
func (s *AdminService) ListReservations(ctx context.Context, status string) ([]models.Reservation, error) {
	if status != "" && !models.ValidStatus(status) {
		return nil, invalidStatus()
	}
	return s.store.ListReservations(ctx, status)
}

func (s *AdminService) GetReservation(ctx context.Context, id string) (*models.Reservation, error) {
	return s.store.GetReservation(ctx, id)
}

func (s *AdminService) UpdateReservationStatus(ctx context.Context, id, status string) (*models.Reservation, error) {
	if !models.ValidStatus(status) {
		return nil, invalidStatus()
	}
	if err := s.store.UpdateReservationStatus(ctx, id, status); err != nil {
		return nil, err
	}
	return s.store.GetReservation(ctx, id)
}

func (s *AdminService) DeleteReservation(ctx context.Context, id string) error {
	return s.store.DeleteReservation(ctx, id)
}

// Dashboard summarises reservations, menu and specials for the back office
type Dashboard struct {
	TotalReservations    int                  `json:"total_reservations"`
	ReservationsByStatus map[string]int       `json:"reservations_by_status"`
	Revenue              int64                `json:"revenue"`
	ReservationItems     int                  `json:"reservation_items"`
	MenuItems            int                  `json:"menu_items"`
	ActiveSpecials       int                  `json:"active_specials"`
	TopItems             []models.MenuItem    `json:"top_items"`
	RecentReservations   []models.Reservation `json:"recent_reservations"`
}

// Dashboard computes the summary. Revenue excludes cancelled reservations.
func (s *AdminService) Dashboard(ctx context.Context) (*Dashboard, error) {
	reservations, err := s.store.ListReservations(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	menu, err := s.store.ListMenu(ctx, models.MenuFilter{})
	if err != nil {
		return nil, fmt.Errorf("list menu: %w", err)
	}
	specials, err := s.store.ListSpecials(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("list specials: %w", err)
	}

	d := &Dashboard{
		TotalReservations: len(reservations),
		ReservationsByStatus: map[string]int{
			models.StatusConfirmed: 0,
			models.StatusPending:   0,
			models.StatusCompleted: 0,
			models.StatusCancelled: 0,
		},
		MenuItems:      len(menu),
		ActiveSpecials: len(specials),
	}

	for _, r := range reservations {
		d.ReservationsByStatus[r.Status]++
		d.ReservationItems += len(r.Items)
		if r.Status != models.StatusCancelled {
			d.Revenue += r.TotalAmount
		}
	}

	sort.SliceStable(menu, func(i, j int) bool {
		return menu[i].OrdersPlaced > menu[j].OrdersPlaced
	})
	if len(menu) > TopItemsLimit {
		menu = menu[:TopItemsLimit]
	}
	d.TopItems = menu

	recent := reservations
	if len(recent) > TopItemsLimit {
		recent = recent[:TopItemsLimit]
	}
	d.RecentReservations = recent

	return d, nil
}
