package database_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeremiapane/tableorder/database"
	"github.com/yeremiapane/tableorder/models"
	"github.com/yeremiapane/tableorder/testhelpers"
	"github.com/yeremiapane/tableorder/utils"
)

func TestTableNumberUniquePerRestaurant(t *testing.T) {
	db := testhelpers.NewDB(t)
	fx := testhelpers.Seed(t, db, 2)
	repo := database.NewTableRepo(db)
	ctx := context.Background()

	err := repo.Create(ctx, &models.Table{RestaurantID: fx.Restaurant.ID, TableNumber: 2, Capacity: 2, IsActive: true})
	assert.ErrorIs(t, err, utils.ErrConflict)

	other := &models.Restaurant{Name: "Elsewhere", Currency: "USD", TaxRate: testhelpers.Money("0.05"), IsActive: true}
	require.NoError(t, database.NewMenuRepo(db).CreateRestaurant(ctx, other))
	require.NoError(t, repo.Create(ctx, &models.Table{RestaurantID: other.ID, TableNumber: 2, Capacity: 2, IsActive: true}))
}

func TestFindAndUpdateSession(t *testing.T) {
	db := testhelpers.NewDB(t)
	fx := testhelpers.Seed(t, db, 3)
	repo := database.NewTableRepo(db)
	ctx := context.Background()

	table, err := repo.FindByNumber(ctx, fx.Restaurant.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, fx.Table(3).ID, table.ID)

	_, err = repo.FindByNumber(ctx, fx.Restaurant.ID, 30)
	assert.ErrorIs(t, err, utils.ErrNotFound)

	exp := now.Add(testSessionLength)
	updated, err := repo.UpdateSession(ctx, table.ID, true, &exp, "alice", now)
	require.NoError(t, err)
	assert.True(t, updated.SessionActive)
	require.NotNil(t, updated.SessionExpiresAt)
	assert.True(t, updated.SessionExpiresAt.Equal(exp))

	cleared, err := repo.UpdateSession(ctx, table.ID, false, nil, "", now)
	require.NoError(t, err)
	assert.False(t, cleared.SessionActive)
	assert.Nil(t, cleared.SessionExpiresAt)

	tables, err := repo.ListByRestaurant(ctx, fx.Restaurant.ID)
	require.NoError(t, err)
	require.Len(t, tables, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{tables[0].TableNumber, tables[1].TableNumber, tables[2].TableNumber})
}
