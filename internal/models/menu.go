package models

import (
	"strings"
	"time"

	"github.com/dine24/dine24-api/internal/pricing"
)

// MenuItem represents a dish available on the menu
type MenuItem struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name" validate:"required"`
	Category     string    `json:"category" validate:"required"`
	Price        int64     `json:"price" validate:"gt=0"`
	OfferPrice   *int64    `json:"offer_price,omitempty" validate:"omitempty,gte=0"`
	Quantity     string    `json:"quantity" validate:"required"`
	Rating       float64   `json:"rating" validate:"gte=0,lte=5"`
	IsVeg        bool      `json:"is_veg"`
	OrdersPlaced int64     `json:"orders_placed"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// EffectivePrice is the price a customer pays for one unit
func (m MenuItem) EffectivePrice() int64 {
	return pricing.EffectivePrice(m.Price, m.OfferPrice)
}

// MenuFilter narrows a menu listing. Zero values match everything.
type MenuFilter struct {
	Search   string
	Category string
	Veg      *bool
}

// Matches reports whether item passes every set criterion
func (f MenuFilter) Matches(item MenuItem) bool {
	if f.Search != "" && !strings.Contains(strings.ToLower(item.Name), strings.ToLower(strings.TrimSpace(f.Search))) {
		return false
	}
	if f.Category != "" && !strings.EqualFold(f.Category, "all") && !strings.EqualFold(f.Category, item.Category) {
		return false
	}
	if f.Veg != nil && *f.Veg != item.IsVeg {
		return false
	}
	return true
}

// DailySpecial is a menu item offered at an override price
type DailySpecial struct {
	ID                 string    `json:"id"`
	MenuItemID         int64     `json:"menu_item_id" validate:"required,gt=0"`
	SpecialPrice       *int64    `json:"special_price,omitempty" validate:"omitempty,gt=0"`
	SpecialDescription string    `json:"special_description"`
	IsActive           bool      `json:"is_active"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// SpecialView is an active special joined with the item it promotes
type SpecialView struct {
	DailySpecial
	Item       MenuItem `json:"menu_item"`
	FinalPrice int64    `json:"final_price"`
}
