package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dine24/dine24-api/internal/models"
	"github.com/google/uuid"
)

// InMemoryStore implements Store with in-memory storage.
// It is used when no database is configured and in tests.
type InMemoryStore struct {
	mu sync.RWMutex

	menu       map[int64]models.MenuItem
	nextMenuID int64

	tables      map[string]models.RestaurantTable
	nextTableID int64

	reservations map[string]models.Reservation
	resOrder     []string

	specials     map[string]models.DailySpecial
	specialOrder []string

	now func() time.Time
}

// NewInMemoryStore creates an empty in-memory store
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		menu:         make(map[int64]models.MenuItem),
		tables:       make(map[string]models.RestaurantTable),
		reservations: make(map[string]models.Reservation),
		specials:     make(map[string]models.DailySpecial),
		now:          time.Now,
	}
}

// NewSeededInMemoryStore creates an in-memory store with a sample menu and floor plan
func NewSeededInMemoryStore() *InMemoryStore {
	s := NewInMemoryStore()
	ctx := context.Background()

	for _, item := range seedMenu() {
		item := item
		_ = s.CreateMenuItem(ctx, &item)
	}
	for _, table := range seedTables() {
		table := table
		_ = s.CreateTable(ctx, &table)
	}
	return s
}

func offer(v int64) *int64 { return &v }

func seedMenu() []models.MenuItem {
	return []models.MenuItem{
		{Name: "Paneer Tikka", Category: "Starters", Price: 280, OfferPrice: offer(240), Quantity: "8 pcs", Rating: 4.6, IsVeg: true, OrdersPlaced: 320},
		{Name: "Chicken 65", Category: "Starters", Price: 320, Quantity: "10 pcs", Rating: 4.4, OrdersPlaced: 275},
		{Name: "Veg Spring Rolls", Category: "Starters", Price: 220, Quantity: "6 pcs", Rating: 4.1, IsVeg: true, OrdersPlaced: 140},
		{Name: "Butter Chicken", Category: "Main Course", Price: 420, OfferPrice: offer(380), Quantity: "Full", Rating: 4.8, OrdersPlaced: 510},
		{Name: "Dal Makhani", Category: "Main Course", Price: 300, Quantity: "Full", Rating: 4.5, IsVeg: true, OrdersPlaced: 390},
		{Name: "Hyderabadi Biryani", Category: "Main Course", Price: 450, Quantity: "Full", Rating: 4.7, OrdersPlaced: 460},
		{Name: "Palak Paneer", Category: "Main Course", Price: 320, Quantity: "Full", Rating: 4.3, IsVeg: true, OrdersPlaced: 210},
		{Name: "Butter Naan", Category: "Breads", Price: 60, Quantity: "1 pc", Rating: 4.4, IsVeg: true, OrdersPlaced: 800},
		{Name: "Garlic Naan", Category: "Breads", Price: 80, Quantity: "1 pc", Rating: 4.5, IsVeg: true, OrdersPlaced: 620},
		{Name: "Gulab Jamun", Category: "Desserts", Price: 150, Quantity: "2 pcs", Rating: 4.6, IsVeg: true, OrdersPlaced: 300},
		{Name: "Rasmalai", Category: "Desserts", Price: 180, OfferPrice: offer(160), Quantity: "2 pcs", Rating: 4.5, IsVeg: true, OrdersPlaced: 190},
		{Name: "Masala Chai", Category: "Beverages", Price: 70, Quantity: "1 cup", Rating: 4.2, IsVeg: true, OrdersPlaced: 430},
		{Name: "Sweet Lassi", Category: "Beverages", Price: 120, Quantity: "1 glass", Rating: 4.3, IsVeg: true, OrdersPlaced: 260},
	}
}

func seedTables() []models.RestaurantTable {
	return []models.RestaurantTable{
		{TableNumber: "W1", SeatingCapacity: 2, Section: models.SectionWindowSide, IsAvailable: true},
		{TableNumber: "W2", SeatingCapacity: 2, Section: models.SectionWindowSide, IsAvailable: true},
		{TableNumber: "W3", SeatingCapacity: 4, Section: models.SectionWindowSide, IsAvailable: true},
		{TableNumber: "P1", SeatingCapacity: 6, Section: models.SectionPrivateCabin, IsAvailable: true},
		{TableNumber: "P2", SeatingCapacity: 8, Section: models.SectionPrivateCabin, IsAvailable: true},
		{TableNumber: "M1", SeatingCapacity: 4, Section: models.SectionMainHall, IsAvailable: true},
		{TableNumber: "M2", SeatingCapacity: 4, Section: models.SectionMainHall, IsAvailable: true},
		{TableNumber: "M3", SeatingCapacity: 6, Section: models.SectionMainHall, IsAvailable: true},
		{TableNumber: "M4", SeatingCapacity: 10, Section: models.SectionMainHall, IsAvailable: true},
	}
}

// ListMenu returns menu items matching filter ordered by category then name
func (s *InMemoryStore) ListMenu(ctx context.Context, filter models.MenuFilter) ([]models.MenuItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]models.MenuItem, 0, len(s.menu))
	for _, item := range s.menu {
		if filter.Matches(item) {
			items = append(items, item)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Category != items[j].Category {
			return items[i].Category < items[j].Category
		}
		return items[i].Name < items[j].Name
	})
	return items, nil
}

// GetMenuItem returns a menu item by its ID
func (s *InMemoryStore) GetMenuItem(ctx context.Context, id int64) (*models.MenuItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, exists := s.menu[id]
	if !exists {
		return nil, ErrMenuItemNotFound
	}
	return &item, nil
}

// FindMenuItemByName looks up a menu item by name, ignoring case and surrounding spaces
func (s *InMemoryStore) FindMenuItemByName(ctx context.Context, name string) (*models.MenuItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	name = strings.TrimSpace(name)
	for _, item := range s.menu {
		if strings.EqualFold(strings.TrimSpace(item.Name), name) {
			found := item
			return &found, nil
		}
	}
	return nil, ErrMenuItemNotFound
}

func (s *InMemoryStore) CreateMenuItem(ctx context.Context, item *models.MenuItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextMenuID++
	now := s.now().UTC()
	item.ID = s.nextMenuID
	item.CreatedAt = now
	item.UpdatedAt = now
	s.menu[item.ID] = *item
	return nil
}

func (s *InMemoryStore) UpdateMenuItem(ctx context.Context, item *models.MenuItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, exists := s.menu[item.ID]
	if !exists {
		return ErrMenuItemNotFound
	}
	item.CreatedAt = existing.CreatedAt
	item.OrdersPlaced = existing.OrdersPlaced
	item.UpdatedAt = s.now().UTC()
	s.menu[item.ID] = *item
	return nil
}

func (s *InMemoryStore) DeleteMenuItem(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.menu[id]; !exists {
		return ErrMenuItemNotFound
	}
	delete(s.menu, id)
	return nil
}

// IncrementOrdersPlaced adds by to the lifetime order count of a menu item
func (s *InMemoryStore) IncrementOrdersPlaced(ctx context.Context, id int64, by int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, exists := s.menu[id]
	if !exists {
		return ErrMenuItemNotFound
	}
	item.OrdersPlaced += int64(by)
	s.menu[id] = item
	return nil
}

// ListTables returns all tables ordered by section then table number
func (s *InMemoryStore) ListTables(ctx context.Context) ([]models.RestaurantTable, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tables := make([]models.RestaurantTable, 0, len(s.tables))
	for _, t := range s.tables {
		tables = append(tables, t)
	}
	sort.Slice(tables, func(i, j int) bool {
		if tables[i].Section != tables[j].Section {
			return tables[i].Section < tables[j].Section
		}
		return tables[i].TableNumber < tables[j].TableNumber
	})
	return tables, nil
}

func (s *InMemoryStore) GetTable(ctx context.Context, tableNumber string) (*models.RestaurantTable, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, exists := s.tables[tableNumber]
	if !exists {
		return nil, ErrTableNotFound
	}
	return &t, nil
}

func (s *InMemoryStore) CreateTable(ctx context.Context, table *models.RestaurantTable) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tables[table.TableNumber]; exists {
		return ErrDuplicateTable
	}
	s.nextTableID++
	table.ID = s.nextTableID
	table.CreatedAt = s.now().UTC()
	s.tables[table.TableNumber] = *table
	return nil
}

func (s *InMemoryStore) SetTableAvailability(ctx context.Context, tableNumber string, available bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, exists := s.tables[tableNumber]
	if !exists {
		return ErrTableNotFound
	}
	t.IsAvailable = available
	s.tables[tableNumber] = t
	return nil
}

// CreateWithItems stores a reservation together with its items
func (s *InMemoryStore) CreateWithItems(ctx context.Context, res *models.Reservation, items []models.ReservationItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	if res.ID == "" {
		res.ID = uuid.New().String()
	}
	res.CreatedAt = now
	res.UpdatedAt = now

	stored := make([]models.ReservationItem, len(items))
	for i, item := range items {
		if item.ID == "" {
			item.ID = uuid.New().String()
		}
		item.ReservationID = res.ID
		item.CreatedAt = now
		stored[i] = item
	}
	res.Items = stored

	s.reservations[res.ID] = cloneReservation(*res)
	s.resOrder = append(s.resOrder, res.ID)
	return nil
}

func (s *InMemoryStore) GetReservation(ctx context.Context, id string) (*models.Reservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res, exists := s.reservations[id]
	if !exists {
		return nil, ErrReservationNotFound
	}
	res = cloneReservation(res)
	return &res, nil
}

func (s *InMemoryStore) ListReservations(ctx context.Context, status string) ([]models.Reservation, error) {
	return s.listReservations(func(r models.Reservation) bool {
		return status == "" || r.Status == status
	}), nil
}

func (s *InMemoryStore) ListReservationsByEmail(ctx context.Context, email string) ([]models.Reservation, error) {
	return s.listReservations(func(r models.Reservation) bool {
		return strings.EqualFold(r.Email, email)
	}), nil
}

// listReservations walks the insertion order backwards so newest come first
func (s *InMemoryStore) listReservations(keep func(models.Reservation) bool) []models.Reservation {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]models.Reservation, 0)
	for i := len(s.resOrder) - 1; i >= 0; i-- {
		res, exists := s.reservations[s.resOrder[i]]
		if !exists || !keep(res) {
			continue
		}
		result = append(result, cloneReservation(res))
	}
	return result
}

func (s *InMemoryStore) BookedTables(ctx context.Context, date, at string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]bool)
	booked := make([]string, 0)
	for _, id := range s.resOrder {
		res, exists := s.reservations[id]
		if !exists || res.Status != models.StatusConfirmed {
			continue
		}
		if res.ArrivalDate == date && res.ArrivalTime == at && !seen[res.TableNumber] {
			seen[res.TableNumber] = true
			booked = append(booked, res.TableNumber)
		}
	}
	return booked, nil
}

func (s *InMemoryStore) UpdateReservationStatus(ctx context.Context, id, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, exists := s.reservations[id]
	if !exists {
		return ErrReservationNotFound
	}
	res.Status = status
	res.UpdatedAt = s.now().UTC()
	s.reservations[id] = res
	return nil
}

func (s *InMemoryStore) DeleteReservation(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.reservations[id]; !exists {
		return ErrReservationNotFound
	}
	delete(s.reservations, id)
	for i, rid := range s.resOrder {
		if rid == id {
			s.resOrder = append(s.resOrder[:i], s.resOrder[i+1:]...)
			break
		}
	}
	return nil
}

func cloneReservation(r models.Reservation) models.Reservation {
	if r.Items != nil {
		items := make([]models.ReservationItem, len(r.Items))
		copy(items, r.Items)
		r.Items = items
	}
	return r
}

// ListSpecials returns specials newest first
func (s *InMemoryStore) ListSpecials(ctx context.Context, activeOnly bool) ([]models.DailySpecial, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	specials := make([]models.DailySpecial, 0, len(s.specials))
	for i := len(s.specialOrder) - 1; i >= 0; i-- {
		sp, exists := s.specials[s.specialOrder[i]]
		if !exists || (activeOnly && !sp.IsActive) {
			continue
		}
		specials = append(specials, sp)
	}
	return specials, nil
}

func (s *InMemoryStore) GetSpecial(ctx context.Context, id string) (*models.DailySpecial, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sp, exists := s.specials[id]
	if !exists {
		return nil, ErrSpecialNotFound
	}
	return &sp, nil
}

func (s *InMemoryStore) CreateSpecial(ctx context.Context, special *models.DailySpecial) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	if special.ID == "" {
		special.ID = uuid.New().String()
	}
	special.CreatedAt = now
	special.UpdatedAt = now
	s.specials[special.ID] = *special
	s.specialOrder = append(s.specialOrder, special.ID)
	return nil
}

func (s *InMemoryStore) UpdateSpecial(ctx context.Context, special *models.DailySpecial) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, exists := s.specials[special.ID]
	if !exists {
		return ErrSpecialNotFound
	}
	special.CreatedAt = existing.CreatedAt
	special.UpdatedAt = s.now().UTC()
	s.specials[special.ID] = *special
	return nil
}

func (s *InMemoryStore) DeleteSpecial(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.specials[id]; !exists {
		return ErrSpecialNotFound
	}
	delete(s.specials, id)
	for i, sid := range s.specialOrder {
		if sid == id {
			s.specialOrder = append(s.specialOrder[:i], s.specialOrder[i+1:]...)
			break
		}
	}
	return nil
}
