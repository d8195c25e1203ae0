package database

import (
	"context"

	"gorm.io/gorm"

	"github.com/yeremiapane/tableorder/models"
)

type MenuRepo struct {
	db *gorm.DB
}

func NewMenuRepo(db *gorm.DB) *MenuRepo {
	return &MenuRepo{db: db}
}

func (r *MenuRepo) CreateRestaurant(ctx context.Context, restaurant *models.Restaurant) error {
	return translate(r.db.WithContext(ctx).Create(restaurant).Error, "create restaurant %q", restaurant.Name)
}

func (r *MenuRepo) FindRestaurant(ctx context.Context, id uint) (*models.Restaurant, error) {
	var restaurant models.Restaurant
	if err := r.db.WithContext(ctx).First(&restaurant, id).Error; err != nil {
		return nil, translate(err, "restaurant %d", id)
	}
	return &restaurant, nil
}

func (r *MenuRepo) CreateCategory(ctx context.Context, category *models.MenuCategory) error {
	return translate(r.db.WithContext(ctx).Create(category).Error, "create category %q", category.Name)
}

// CreateMenuItem stores the item together with its options.
func (r *MenuRepo) CreateMenuItem(ctx context.Context, item *models.MenuItem) error {
	return translate(r.db.WithContext(ctx).Create(item).Error, "create menu item %q", item.Name)
}

// FindMenuItems returns the restaurant's items with the given ids, keyed by id,
// together with all of their options. Items of other restaurants are left out.
func (r *MenuRepo) FindMenuItems(ctx context.Context, restaurantID uint, ids []uint) (map[uint]*models.MenuItem, error) {
	out := make(map[uint]*models.MenuItem, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var items []models.MenuItem
	err := r.db.WithContext(ctx).
		Preload("Options").
		Where("restaurant_id = ? AND id IN ?", restaurantID, ids).
		Find(&items).Error
	if err != nil {
		return nil, translate(err, "menu items of restaurant %d", restaurantID)
	}
	for i := range items {
		out[items[i].ID] = &items[i]
	}
	return out, nil
}

// CustomerMenu is the menu as customers see it: active categories holding
// active, available items with their active options. Empty categories are
// dropped.
func (r *MenuRepo) CustomerMenu(ctx context.Context, restaurantID uint) ([]models.MenuCategory, error) {
	var categories []models.MenuCategory
	err := r.db.WithContext(ctx).
		Where("restaurant_id = ? AND is_active = ?", restaurantID, true).
		Order("display_order ASC").Order("id ASC").
		Preload("Items", func(tx *gorm.DB) *gorm.DB {
			return tx.Where("is_active = ? AND is_available = ?", true, true).Order("name ASC")
		}).
		Preload("Items.Options", func(tx *gorm.DB) *gorm.DB {
			return tx.Where("is_active = ?", true).Order("option_group ASC").Order("display_order ASC")
		}).
		Find(&categories).Error
	if err != nil {
		return nil, translate(err, "menu of restaurant %d", restaurantID)
	}

	menu := categories[:0]
	for _, cat := range categories {
		if len(cat.Items) > 0 {
			menu = append(menu, cat)
		}
	}
	return menu, nil
}
