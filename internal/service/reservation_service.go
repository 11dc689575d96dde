package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/dine24/dine24-api/internal/models"
	"github.com/dine24/dine24-api/internal/pricing"
	"github.com/dine24/dine24-api/internal/repository"
	"github.com/dine24/dine24-api/internal/validation"
	"github.com/google/uuid"
)

var (
	ErrInvalidMenuItem  = errors.New("invalid menu item")
	ErrInvalidQuantity  = errors.New("quantity must be positive")
	ErrNoTableAvailable = errors.New("no table is available for this party size right now")
)

// QuickOrderPurpose is the purpose recorded on walk-in orders
const QuickOrderPurpose = "Quick Order"

// FollowUp runs best-effort work after a reservation has been stored, such as
// sending the confirmation email. It returns notices to show the customer and
// must never undo the reservation.
type FollowUp interface {
	AfterConfirm(ctx context.Context, res *models.Reservation) []string
}

// OrderLine is a requested menu item and quantity
type OrderLine struct {
	MenuItemID int64 `json:"menu_item_id"`
	Quantity   int   `json:"quantity"`
}

// QuickOrderRequest books the smallest free table right now
type QuickOrderRequest struct {
	Name      string      `json:"name" validate:"required"`
	Email     string      `json:"email" validate:"required,dineemail"`
	Phone     string      `json:"phone" validate:"required,phonelen"`
	NumPeople int         `json:"num_people" validate:"required,min=1"`
	Items     []OrderLine `json:"items"`
}

// QuickOrderResult is the stored reservation plus anything the customer should know
type QuickOrderResult struct {
	Reservation *models.Reservation     `json:"reservation"`
	Table       *models.RestaurantTable `json:"table"`
	Breakdown   pricing.Breakdown       `json:"breakdown"`
	Notices     []string                `json:"notices,omitempty"`
}

// ReservationService handles customer-facing reservation lookups and quick orders
type ReservationService struct {
	store     repository.Store
	tables    *TableService
	validator *validation.Validator
	followUp  FollowUp
	now       func() time.Time
}

// NewReservationService creates a reservation service. followUp may be nil.
func NewReservationService(store repository.Store, tables *TableService, v *validation.Validator, followUp FollowUp) *ReservationService {
	return &ReservationService{
		store:     store,
		tables:    tables,
		validator: v,
		followUp:  followUp,
		now:       time.Now,
	}
}

// PriceItems turns order lines into item snapshots and a price breakdown.
// Repeated menu items are merged into a single line.
func PriceItems(ctx context.Context, menu repository.MenuRepository, lines []OrderLine) ([]models.ReservationItem, pricing.Breakdown, error) {
	quantities := make(map[int64]int)
	order := make([]int64, 0, len(lines))
	for _, line := range lines {
		if line.Quantity <= 0 {
			return nil, pricing.Breakdown{}, ErrInvalidQuantity
		}
		if _, seen := quantities[line.MenuItemID]; !seen {
			order = append(order, line.MenuItemID)
		}
		quantities[line.MenuItemID] += line.Quantity
	}

	items := make([]models.ReservationItem, 0, len(order))
	priced := make([]pricing.Line, 0, len(order))
	for _, id := range order {
		menuItem, err := menu.GetMenuItem(ctx, id)
		if errors.Is(err, repository.ErrMenuItemNotFound) {
			return nil, pricing.Breakdown{}, ErrInvalidMenuItem
		}
		if err != nil {
			return nil, pricing.Breakdown{}, fmt.Errorf("load menu item: %w", err)
		}

		items = append(items, models.ReservationItem{
			MenuItemID: menuItem.ID,
			Name:       menuItem.Name,
			Quantity:   quantities[id],
			Price:      menuItem.EffectivePrice(),
		})
		priced = append(priced, pricing.Line{UnitPrice: menuItem.Price, OfferPrice: menuItem.OfferPrice, Quantity: quantities[id]})
	}

	return items, pricing.Quote(priced), nil
}

// QuickOrder books the smallest free table that seats the party, for now,
// with the given items in one write.
func (s *ReservationService) QuickOrder(ctx context.Context, req QuickOrderRequest) (*QuickOrderResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	items, breakdown, err := PriceItems(ctx, s.store, req.Items)
	if err != nil {
		return nil, err
	}

	now := s.now()
	date, at := now.Format("2006-01-02"), now.Format("15:04")

	statuses, err := s.tables.Availability(ctx, date, at, "")
	if err != nil {
		return nil, err
	}
	table := smallestFitting(FreeTables(statuses), req.NumPeople)
	if table == nil {
		return nil, ErrNoTableAvailable
	}

	res := &models.Reservation{
		ID:            uuid.New().String(),
		FullName:      req.Name,
		Email:         req.Email,
		Phone:         req.Phone,
		NumPeople:     req.NumPeople,
		Purpose:       QuickOrderPurpose,
		ArrivalDate:   date,
		ArrivalTime:   at,
		TableNumber:   table.TableNumber,
		TableCapacity: table.SeatingCapacity,
		OrderType:     models.OrderNow,
		TotalAmount:   breakdown.Total,
		Status:        models.StatusConfirmed,
	}
	if err := s.store.CreateWithItems(ctx, res, items); err != nil {
		return nil, fmt.Errorf("store quick order: %w", err)
	}

	result := &QuickOrderResult{Reservation: res, Table: table, Breakdown: breakdown}
	if s.followUp != nil {
		result.Notices = s.followUp.AfterConfirm(ctx, res)
	}
	return result, nil
}

func smallestFitting(tables []models.RestaurantTable, partySize int) *models.RestaurantTable {
	fitting := make([]models.RestaurantTable, 0, len(tables))
	for _, t := range tables {
		if t.SeatingCapacity >= partySize {
			fitting = append(fitting, t)
		}
	}
	if len(fitting) == 0 {
		return nil
	}
	sort.SliceStable(fitting, func(i, j int) bool {
		return fitting[i].SeatingCapacity < fitting[j].SeatingCapacity
	})
	return &fitting[0]
}

// History returns the reservations made with email, newest first
func (s *ReservationService) History(ctx context.Context, email string) ([]models.Reservation, error) {
	if !validation.ValidEmail(email) {
		return nil, validation.Result{"email": "Please enter a valid email address"}
	}
	return s.store.ListReservationsByEmail(ctx, email)
}

// Get returns a reservation with its items
func (s *ReservationService) Get(ctx context.Context, id string) (*models.Reservation, error) {
	return s.store.GetReservation(ctx, id)
}
