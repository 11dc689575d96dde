package repository

import (
	"context"
	"errors"

	"github.com/dine24/dine24-api/internal/models"
)

var (
	ErrMenuItemNotFound    = errors.New("menu item not found")
	ErrTableNotFound       = errors.New("table not found")
	ErrReservationNotFound = errors.New("reservation not found")
	ErrSpecialNotFound     = errors.New("special not found")
	ErrDuplicateTable      = errors.New("table number already exists")
)

// MenuRepository defines data access for menu items
type MenuRepository interface {
	ListMenu(ctx context.Context, filter models.MenuFilter) ([]models.MenuItem, error)
	GetMenuItem(ctx context.Context, id int64) (*models.MenuItem, error)
	FindMenuItemByName(ctx context.Context, name string) (*models.MenuItem, error)
	CreateMenuItem(ctx context.Context, item *models.MenuItem) error
	UpdateMenuItem(ctx context.Context, item *models.MenuItem) error
	DeleteMenuItem(ctx context.Context, id int64) error
	IncrementOrdersPlaced(ctx context.Context, id int64, by int) error
}

// TableRepository defines data access for restaurant tables
type TableRepository interface {
	ListTables(ctx context.Context) ([]models.RestaurantTable, error)
	GetTable(ctx context.Context, tableNumber string) (*models.RestaurantTable, error)
	CreateTable(ctx context.Context, table *models.RestaurantTable) error
	SetTableAvailability(ctx context.Context, tableNumber string, available bool) error
}

// ReservationRepository defines data access for reservations and their items
type ReservationRepository interface {
	// CreateWithItems stores the reservation and its items in one write.
	// Either everything is stored or nothing is.
	CreateWithItems(ctx context.Context, res *models.Reservation, items []models.ReservationItem) error
	GetReservation(ctx context.Context, id string) (*models.Reservation, error)
	// ListReservations returns reservations newest first, with items.
	// An empty status matches every status.
	ListReservations(ctx context.Context, status string) ([]models.Reservation, error)
	ListReservationsByEmail(ctx context.Context, email string) ([]models.Reservation, error)
	// BookedTables returns the table numbers held by confirmed reservations
	// at exactly date and time.
	BookedTables(ctx context.Context, date, at string) ([]string, error)
	UpdateReservationStatus(ctx context.Context, id, status string) error
	DeleteReservation(ctx context.Context, id string) error
}

// SpecialRepository defines data access for daily specials
type SpecialRepository interface {
	ListSpecials(ctx context.Context, activeOnly bool) ([]models.DailySpecial, error)
	GetSpecial(ctx context.Context, id string) (*models.DailySpecial, error)
	CreateSpecial(ctx context.Context, special *models.DailySpecial) error
	UpdateSpecial(ctx context.Context, special *models.DailySpecial) error
	DeleteSpecial(ctx context.Context, id string) error
}

// Store groups every repository the application uses
type Store interface {
	MenuRepository
	TableRepository
	ReservationRepository
	SpecialRepository
}
