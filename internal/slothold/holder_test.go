package slothold

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/dine24/dine24-api/internal/models"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var slot = models.Slot{Date: "2026-11-02", Time: "19:30", TableNumber: "W1"}

// exerciseHolder runs the behaviour every Holder must share
func exerciseHolder(t *testing.T, h Holder) {
	ctx := context.Background()

	ok, err := h.Hold(ctx, slot, "wizard-a", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	owner, held, err := h.HeldBy(ctx, slot)
	require.NoError(t, err)
	assert.True(t, held)
	assert.Equal(t, "wizard-a", owner)

	ok, err = h.Hold(ctx, slot, "wizard-b", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok, "second owner must not take the hold")

	ok, err = h.Hold(ctx, slot, "wizard-a", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok, "owner can refresh its own hold")

	// release by a stranger is a no-op
	require.NoError(t, h.Release(ctx, slot, "wizard-b"))
	owner, held, err = h.HeldBy(ctx, slot)
	require.NoError(t, err)
	assert.True(t, held)
	assert.Equal(t, "wizard-a", owner)

	require.NoError(t, h.Release(ctx, slot, "wizard-a"))
	_, held, err = h.HeldBy(ctx, slot)
	require.NoError(t, err)
	assert.False(t, held)

	other := slot
	other.TableNumber = "W2"
	ok, err = h.Hold(ctx, other, "wizard-b", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok, "holds are per table")
}

func TestMemoryHolder(t *testing.T) {
	exerciseHolder(t, NewMemoryHolder())
}

func TestMemoryHolder_Expiry(t *testing.T) {
	h := NewMemoryHolder()
	now := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	h.now = func() time.Time { return now }
	ctx := context.Background()

	ok, err := h.Hold(ctx, slot, "wizard-a", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	now = now.Add(2 * time.Minute)

	_, held, err := h.HeldBy(ctx, slot)
	require.NoError(t, err)
	assert.False(t, held)

	ok, err = h.Hold(ctx, slot, "wizard-b", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func newRedisHolder(t *testing.T) (*RedisHolder, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisHolder(client), mr
}

func TestRedisHolder(t *testing.T) {
	h, _ := newRedisHolder(t)
	exerciseHolder(t, h)
}

func TestRedisHolder_Expiry(t *testing.T) {
	h, mr := newRedisHolder(t)
	ctx := context.Background()

	ok, err := h.Hold(ctx, slot, "wizard-a", 30*time.Second)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, mr.Exists("dine24:hold:"+slot.Key()))

	mr.FastForward(31 * time.Second)

	_, held, err := h.HeldBy(ctx, slot)
	require.NoError(t, err)
	assert.False(t, held)
}
