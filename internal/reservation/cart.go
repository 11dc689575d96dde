package reservation

import (
	"github.com/dine24/dine24-api/internal/models"
	"github.com/dine24/dine24-api/internal/pricing"
)

// CartLine is a menu item in the wizard's cart. Prices are captured when the
// item is first added.
type CartLine struct {
	MenuItemID int64  `json:"menu_item_id"`
	Name       string `json:"name"`
	Category   string `json:"category"`
	Price      int64  `json:"price"`
	OfferPrice *int64 `json:"offer_price,omitempty"`
	Quantity   int    `json:"quantity"`
}

// UnitPrice is the price charged per unit
func (l CartLine) UnitPrice() int64 {
	return pricing.EffectivePrice(l.Price, l.OfferPrice)
}

// Cart is the priced contents of a wizard's cart
type Cart struct {
	Lines         []CartLine        `json:"lines"`
	TotalQuantity int               `json:"total_quantity"`
	Breakdown     pricing.Breakdown `json:"breakdown"`
}

type cart struct {
	lines []CartLine
}

func (c *cart) index(menuItemID int64) int {
	for i, l := range c.lines {
		if l.MenuItemID == menuItemID {
			return i
		}
	}
	return -1
}

func (c *cart) add(item models.MenuItem) {
	if i := c.index(item.ID); i >= 0 {
		c.lines[i].Quantity++
		return
	}
	c.lines = append(c.lines, CartLine{
		MenuItemID: item.ID,
		Name:       item.Name,
		Category:   item.Category,
		Price:      item.Price,
		OfferPrice: item.OfferPrice,
		Quantity:   1,
	})
}

func (c *cart) remove(menuItemID int64) {
	if i := c.index(menuItemID); i >= 0 {
		c.lines = append(c.lines[:i], c.lines[i+1:]...)
	}
}

func (c *cart) snapshot() Cart {
	lines := make([]CartLine, len(c.lines))
	copy(lines, c.lines)

	priced := make([]pricing.Line, 0, len(lines))
	total := 0
	for _, l := range lines {
		priced = append(priced, pricing.Line{UnitPrice: l.Price, OfferPrice: l.OfferPrice, Quantity: l.Quantity})
		total += l.Quantity
	}
	return Cart{Lines: lines, TotalQuantity: total, Breakdown: pricing.Quote(priced)}
}

// items converts the cart into reservation item snapshots
func (c *cart) items() []models.ReservationItem {
	items := make([]models.ReservationItem, 0, len(c.lines))
	for _, l := range c.lines {
		items = append(items, models.ReservationItem{
			MenuItemID: l.MenuItemID,
			Name:       l.Name,
			Quantity:   l.Quantity,
			Price:      l.UnitPrice(),
		})
	}
	return items
}
