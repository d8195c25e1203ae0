package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/yeremiapane/tableorder/models"
	"github.com/yeremiapane/tableorder/utils"
)

// Migrate creates or updates the schema of every persisted model.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Restaurant{},
		&models.Table{},
		&models.MenuCategory{},
		&models.MenuItem{},
		&models.ItemOption{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderItemOption{},
		&models.OrderStatusLog{},
	)
	if err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	utils.InfoLogger.Println("AutoMigrate completed.")
	return nil
}

const demoRestaurant = "Demo Bistro"

// Seed loads a demo restaurant with ten tables and a small menu. It does
// nothing when the demo restaurant already exists.
func Seed(ctx context.Context, db *gorm.DB) (*models.Restaurant, error) {
	var existing models.Restaurant
	err := db.WithContext(ctx).Where("name = ?", demoRestaurant).First(&existing).Error
	if err == nil {
		utils.InfoLogger.Printf("Seed skipped, restaurant %d already present", existing.ID)
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, translate(err, "look up demo restaurant")
	}

	restaurant := &models.Restaurant{
		Name:     demoRestaurant,
		Currency: "USD",
		TaxRate:  decimal.RequireFromString("0.0875"),
		IsActive: true,
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(restaurant).Error; err != nil {
			return err
		}

		for n := 1; n <= 10; n++ {
			table := &models.Table{
				RestaurantID: restaurant.ID,
				TableNumber:  n,
				Capacity:     4,
				Location:     "main floor",
				IsActive:     true,
			}
			if err := tx.Create(table).Error; err != nil {
				return err
			}
		}

		for i, cat := range demoMenu() {
			cat.RestaurantID = restaurant.ID
			cat.DisplayOrder = i + 1
			for j := range cat.Items {
				cat.Items[j].RestaurantID = restaurant.ID
			}
			if err := tx.Create(&cat).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, translate(err, "seed demo restaurant")
	}
	utils.InfoLogger.Printf("Seeded restaurant %d (%s)", restaurant.ID, restaurant.Name)
	return restaurant, nil
}

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func demoMenu() []models.MenuCategory {
	return []models.MenuCategory{
		{
			Name:     "Mains",
			IsActive: true,
			Items: []models.MenuItem{
				{
					Name:        "Classic Burger",
					Description: "Beef patty, cheddar, pickles",
					BasePrice:   money("10.00"),
					PrepTime:    15,
					IsActive:    true,
					IsAvailable: true,
					Options: []models.ItemOption{
						{OptionGroup: models.OptionGroupPreparation, OptionName: "medium", PriceModifier: money("0"), IsActive: true, DisplayOrder: 1},
						{OptionGroup: models.OptionGroupPreparation, OptionName: "well done", PriceModifier: money("0"), IsActive: true, DisplayOrder: 2},
						{OptionGroup: models.OptionGroupAddons, OptionName: "bacon", PriceModifier: money("1.50"), IsActive: true, DisplayOrder: 1},
						{OptionGroup: models.OptionGroupAddons, OptionName: "extra cheese", PriceModifier: money("1.00"), IsActive: true, DisplayOrder: 2},
					},
				},
				{
					Name:        "Margherita Pizza",
					Description: "Tomato, mozzarella, basil",
					BasePrice:   money("12.00"),
					PrepTime:    20,
					IsActive:    true,
					IsAvailable: true,
					Options: []models.ItemOption{
						{OptionGroup: models.OptionGroupSize, OptionName: "regular", PriceModifier: money("0"), IsRequired: true, IsActive: true, DisplayOrder: 1},
						{OptionGroup: models.OptionGroupSize, OptionName: "large", PriceModifier: money("4.00"), IsRequired: true, IsActive: true, DisplayOrder: 2},
					},
				},
			},
		},
		{
			Name:     "Drinks",
			IsActive: true,
			Items: []models.MenuItem{
				{
					Name:        "Lemonade",
					BasePrice:   money("3.50"),
					PrepTime:    2,
					IsActive:    true,
					IsAvailable: true,
					Options: []models.ItemOption{
						{OptionGroup: models.OptionGroupSize, OptionName: "small", PriceModifier: money("-0.50"), IsRequired: true, IsActive: true, DisplayOrder: 1},
						{OptionGroup: models.OptionGroupSize, OptionName: "regular", PriceModifier: money("0"), IsRequired: true, IsActive: true, DisplayOrder: 2},
					},
				},
				{
					Name:        "Espresso",
					BasePrice:   money("2.50"),
					PrepTime:    3,
					IsActive:    true,
					IsAvailable: true,
				},
			},
		},
	}
}
