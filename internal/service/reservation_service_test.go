package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dine24/dine24-api/internal/models"
	"github.com/dine24/dine24-api/internal/repository"
	"github.com/dine24/dine24-api/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingFollowUp struct {
	seen    []string
	notices []string
}

func (f *recordingFollowUp) AfterConfirm(ctx context.Context, res *models.Reservation) []string {
	f.seen = append(f.seen, res.ID)
	return f.notices
}

func newReservationService(t *testing.T) (*ReservationService, *repository.InMemoryStore, *recordingFollowUp) {
	t.Helper()
	store := repository.NewSeededInMemoryStore()
	follow := &recordingFollowUp{}
	svc := NewReservationService(store, NewTableService(store, store, nil), validation.New(), follow)
	svc.now = func() time.Time { return time.Date(2026, 10, 17, 13, 5, 0, 0, time.UTC) }
	return svc, store, follow
}

func quickOrder(people int, items ...OrderLine) QuickOrderRequest {
	return QuickOrderRequest{
		Name:      "Ravi Kumar",
		Email:     "ravi@example.com",
		Phone:     "9876543210",
		NumPeople: people,
		Items:     items,
	}
}

func TestReservationService_QuickOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("books the smallest fitting table and prices items", func(t *testing.T) {
		svc, store, follow := newReservationService(t)
		follow.notices = []string{"email failed"}

		result, err := svc.QuickOrder(ctx, quickOrder(3, OrderLine{MenuItemID: 1, Quantity: 2}, OrderLine{MenuItemID: 8, Quantity: 4}))
		require.NoError(t, err)

		res := result.Reservation
		assert.Equal(t, "M1", res.TableNumber)
		assert.Equal(t, 4, res.TableCapacity)
		assert.Equal(t, "2026-10-17", res.ArrivalDate)
		assert.Equal(t, "13:05", res.ArrivalTime)
		assert.Equal(t, QuickOrderPurpose, res.Purpose)
		assert.Equal(t, models.OrderNow, res.OrderType)
		assert.Equal(t, models.StatusConfirmed, res.Status)

		// 240*2 + 60*4 = 720, tax 130
		assert.Equal(t, int64(720), result.Breakdown.Subtotal)
		assert.Equal(t, int64(850), res.TotalAmount)
		assert.Equal(t, []string{"email failed"}, result.Notices)
		assert.Equal(t, []string{res.ID}, follow.seen)

		stored, err := store.GetReservation(ctx, res.ID)
		require.NoError(t, err)
		require.Len(t, stored.Items, 2)
		assert.Equal(t, int64(240), stored.Items[0].Price, "offer price is snapshotted")
	})

	t.Run("booked table is skipped", func(t *testing.T) {
		svc, store, _ := newReservationService(t)
		require.NoError(t, store.CreateWithItems(ctx, &models.Reservation{
			ArrivalDate: "2026-10-17", ArrivalTime: "13:05", TableNumber: "M1", Status: models.StatusConfirmed,
		}, nil))

		result, err := svc.QuickOrder(ctx, quickOrder(3))
		require.NoError(t, err)
		assert.Equal(t, "M2", result.Reservation.TableNumber)
		assert.Equal(t, int64(0), result.Reservation.TotalAmount)
	})

	t.Run("repeated items merge", func(t *testing.T) {
		svc, store, _ := newReservationService(t)
		result, err := svc.QuickOrder(ctx, quickOrder(2, OrderLine{MenuItemID: 12, Quantity: 1}, OrderLine{MenuItemID: 12, Quantity: 2}))
		require.NoError(t, err)

		stored, err := store.GetReservation(ctx, result.Reservation.ID)
		require.NoError(t, err)
		require.Len(t, stored.Items, 1)
		assert.Equal(t, 3, stored.Items[0].Quantity)
	})

	tests := []struct {
		name    string
		req     QuickOrderRequest
		wantErr error
	}{
		{"party too large", quickOrder(20), ErrNoTableAvailable},
		{"zero quantity", quickOrder(2, OrderLine{MenuItemID: 1, Quantity: 0}), ErrInvalidQuantity},
		{"negative quantity", quickOrder(2, OrderLine{MenuItemID: 1, Quantity: -1}), ErrInvalidQuantity},
		{"unknown item", quickOrder(2, OrderLine{MenuItemID: 999, Quantity: 1}), ErrInvalidMenuItem},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, follow := newReservationService(t)
			_, err := svc.QuickOrder(ctx, tt.req)
			assert.True(t, errors.Is(err, tt.wantErr), "expected %v, got %v", tt.wantErr, err)
			assert.Empty(t, follow.seen)
		})
	}

	t.Run("invalid contact details", func(t *testing.T) {
		svc, _, _ := newReservationService(t)
		req := quickOrder(2)
		req.Phone = "12345"

		_, err := svc.QuickOrder(ctx, req)
		res, ok := validation.AsResult(err)
		require.True(t, ok)
		assert.Contains(t, res, "phone")
	})
}

func TestReservationService_History(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newReservationService(t)

	require.NoError(t, store.CreateWithItems(ctx, &models.Reservation{Email: "ravi@example.com", Status: models.StatusConfirmed}, nil))
	require.NoError(t, store.CreateWithItems(ctx, &models.Reservation{Email: "someone@example.com", Status: models.StatusConfirmed}, nil))

	list, err := svc.History(ctx, "ravi@example.com")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = svc.History(ctx, "not-an-email")
	_, ok := validation.AsResult(err)
	assert.True(t, ok)
}
