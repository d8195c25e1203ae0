// Package testhelpers opens throwaway SQLite stores and seeds the fixtures
// shared by the package tests.
package testhelpers

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yeremiapane/tableorder/database"
	"github.com/yeremiapane/tableorder/models"
)

var dbSeq atomic.Int64

// NewDB returns a migrated in-memory database private to t.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, dbSeq.Add(1))

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

func Money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// Fixture is a restaurant with tables numbered 1..n and a two item menu.
type Fixture struct {
	Restaurant *models.Restaurant
	Tables     []*models.Table
	Burger     *models.MenuItem
	Fries      *models.MenuItem
}

// Table returns the fixture table with the given number.
func (f *Fixture) Table(number int) *models.Table {
	for _, t := range f.Tables {
		if t.TableNumber == number {
			return t
		}
	}
	return nil
}

// Seed creates a restaurant taxed at 8.75% with tables 1..tables. The burger
// costs 10.00 with a required size (regular 0, large +2.00) and an optional
// bacon add-on (+1.50). Fries cost 7.00 and have no options.
func Seed(t testing.TB, db *gorm.DB, tables int) *Fixture {
	t.Helper()
	ctx := context.Background()

	menuRepo := database.NewMenuRepo(db)
	tableRepo := database.NewTableRepo(db)

	f := &Fixture{
		Restaurant: &models.Restaurant{
			Name:     "Test Kitchen",
			Currency: "USD",
			TaxRate:  Money("0.0875"),
			IsActive: true,
		},
	}
	require.NoError(t, menuRepo.CreateRestaurant(ctx, f.Restaurant))

	for n := 1; n <= tables; n++ {
		table := &models.Table{
			RestaurantID: f.Restaurant.ID,
			TableNumber:  n,
			Capacity:     4,
			IsActive:     true,
		}
		require.NoError(t, tableRepo.Create(ctx, table))
		f.Tables = append(f.Tables, table)
	}

	category := &models.MenuCategory{
		RestaurantID: f.Restaurant.ID,
		Name:         "Mains",
		DisplayOrder: 1,
		IsActive:     true,
	}
	require.NoError(t, menuRepo.CreateCategory(ctx, category))

	f.Burger = &models.MenuItem{
		RestaurantID: f.Restaurant.ID,
		CategoryID:   category.ID,
		Name:         "Burger",
		BasePrice:    Money("10.00"),
		ImageURL:     "/img/burger.jpg",
		PrepTime:     12,
		IsActive:     true,
		IsAvailable:  true,
		Options: []models.ItemOption{
			{OptionGroup: models.OptionGroupSize, OptionName: "regular", PriceModifier: Money("0"), IsRequired: true, IsActive: true, DisplayOrder: 1},
			{OptionGroup: models.OptionGroupSize, OptionName: "large", PriceModifier: Money("2.00"), IsRequired: true, IsActive: true, DisplayOrder: 2},
			{OptionGroup: models.OptionGroupAddons, OptionName: "bacon", PriceModifier: Money("1.50"), IsActive: true, DisplayOrder: 1},
		},
	}
	require.NoError(t, menuRepo.CreateMenuItem(ctx, f.Burger))

	f.Fries = &models.MenuItem{
		RestaurantID: f.Restaurant.ID,
		CategoryID:   category.ID,
		Name:         "Fries",
		BasePrice:    Money("7.00"),
		PrepTime:     5,
		IsActive:     true,
		IsAvailable:  true,
	}
	require.NoError(t, menuRepo.CreateMenuItem(ctx, f.Fries))

	return f
}
