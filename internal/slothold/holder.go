// Package slothold keeps short-lived markers on table slots that a customer is
// in the middle of booking. A hold only hides the table from other customers'
// availability lists. It never blocks a booking.
package slothold

import (
	"context"
	"time"

	"github.com/dine24/dine24-api/internal/models"
)

// Holder places and inspects holds on table slots
type Holder interface {
	// Hold marks slot as held by owner for ttl. It returns false if another
	// owner already holds the slot. Holding a slot you already own refreshes it.
	Hold(ctx context.Context, slot models.Slot, owner string, ttl time.Duration) (bool, error)
	// Release drops the hold if owner still holds it
	Release(ctx context.Context, slot models.Slot, owner string) error
	// HeldBy returns the current owner of slot, if any
	HeldBy(ctx context.Context, slot models.Slot) (string, bool, error)
}
