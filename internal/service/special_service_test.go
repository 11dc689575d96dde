package service

import (
	"context"
	"testing"

	"github.com/dine24/dine24-api/internal/models"
	"github.com/dine24/dine24-api/internal/repository"
	"github.com/dine24/dine24-api/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpecialService(t *testing.T) {
	ctx := context.Background()
	store := repository.NewSeededInMemoryStore()
	svc := NewSpecialService(store, store, validation.New())

	// Paneer Tikka: price 280, offer 240
	withPrice, err := svc.Create(ctx, models.DailySpecial{MenuItemID: 1, SpecialPrice: price(199), SpecialDescription: "Lunch deal", IsActive: true})
	require.NoError(t, err)
	// Butter Chicken: price 420, offer 380
	_, err = svc.Create(ctx, models.DailySpecial{MenuItemID: 4, IsActive: true})
	require.NoError(t, err)
	inactive, err := svc.Create(ctx, models.DailySpecial{MenuItemID: 5})
	require.NoError(t, err)

	active, err := svc.Active(ctx)
	require.NoError(t, err)
	require.Len(t, active, 2)

	finals := map[int64]int64{}
	for _, v := range active {
		finals[v.MenuItemID] = v.FinalPrice
	}
	assert.Equal(t, int64(199), finals[1])
	assert.Equal(t, int64(380), finals[4], "falls back to the item's effective price")

	toggled, err := svc.Toggle(ctx, inactive.ID)
	require.NoError(t, err)
	assert.True(t, toggled.IsActive)

	_, err = svc.Create(ctx, models.DailySpecial{MenuItemID: 999, IsActive: true})
	res, ok := validation.AsResult(err)
	require.True(t, ok)
	assert.Contains(t, res, "menu_item_id")

	// specials of deleted items disappear from the public list
	require.NoError(t, store.DeleteMenuItem(ctx, 1))
	active, err = svc.Active(ctx)
	require.NoError(t, err)
	assert.Len(t, active, 2)
	for _, v := range active {
		assert.NotEqual(t, withPrice.ID, v.ID)
	}

	all, err := svc.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestMenuService(t *testing.T) {
	ctx := context.Background()
	svc := NewMenuService(repository.NewSeededInMemoryStore())

	categories, err := svc.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Beverages", "Breads", "Desserts", "Main Course", "Starters"}, categories)

	ranked, err := svc.ByRating(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, ranked)
	assert.Equal(t, "Butter Chicken", ranked[0].Name)
	for i := 1; i < len(ranked); i++ {
		assert.GreaterOrEqual(t, ranked[i-1].Rating, ranked[i].Rating)
	}

	_, err = svc.Get(ctx, 404)
	assert.ErrorIs(t, err, repository.ErrMenuItemNotFound)
}
