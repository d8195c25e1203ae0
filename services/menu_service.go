package services

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/yeremiapane/tableorder/cart"
	"github.com/yeremiapane/tableorder/models"
	"github.com/yeremiapane/tableorder/utils"
)

type MenuService struct {
	menus  MenuStore
	tables TableStore
}

func NewMenuService(menus MenuStore, tables TableStore) *MenuService {
	return &MenuService{menus: menus, tables: tables}
}

func (s *MenuService) Restaurant(ctx context.Context, restaurantID uint) (*models.Restaurant, error) {
	return s.menus.FindRestaurant(ctx, restaurantID)
}

// CustomerMenu returns active categories with only orderable items.
func (s *MenuService) CustomerMenu(ctx context.Context, restaurantID uint) (*models.Restaurant, []models.MenuCategory, error) {
	restaurant, err := s.menus.FindRestaurant(ctx, restaurantID)
	if err != nil {
		return nil, nil, err
	}
	categories, err := s.menus.CustomerMenu(ctx, restaurantID)
	if err != nil {
		return nil, nil, err
	}
	return restaurant, categories, nil
}

// CartLine is one line of a checkout request. UnitPrice is what the
// customer was shown; when set it must match the current menu price.
type CartLine struct {
	MenuItemID          uint                  `json:"menu_item_id" binding:"required"`
	Quantity            int                   `json:"quantity" binding:"required,min=1"`
	SelectedOptions     []cart.SelectedOption `json:"selected_options"`
	UnitPrice           *decimal.Decimal      `json:"unit_price"`
	SpecialInstructions string                `json:"special_instructions"`
}

// BuildCart assembles a cart for the table from checkout lines. Selections
// are validated against the current menu.
func (s *MenuService) BuildCart(ctx context.Context, restaurantID uint, tableNumber int, customerSessionID string, lines []CartLine) (*cart.Cart, error) {
	table, err := s.tables.FindByNumber(ctx, restaurantID, tableNumber)
	if err != nil {
		return nil, err
	}
	if customerSessionID == "" {
		customerSessionID = cart.NewSessionID()
	}
	c := cart.New(restaurantID, table.ID, table.TableNumber, customerSessionID)

	ids := make([]uint, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.MenuItemID)
	}
	items, err := s.menus.FindMenuItems(ctx, restaurantID, ids)
	if err != nil {
		return nil, err
	}

	for i, l := range lines {
		item, ok := items[l.MenuItemID]
		if !ok {
			return nil, fmt.Errorf("%w: menu item %d does not exist", utils.ErrInvalidCart, l.MenuItemID)
		}
		cand, err := cart.NewCandidate(item, l.Quantity, l.SelectedOptions, l.SpecialInstructions)
		if err != nil {
			return nil, err
		}
		// each line is checked before AddItem merges it into an earlier one
		if l.UnitPrice != nil && !l.UnitPrice.Equal(cand.UnitPrice) {
			return nil, fmt.Errorf("%w: %s costs %s, line %d says %s", utils.ErrInvalidCart,
				item.Name, cand.UnitPrice.StringFixed(utils.MoneyPlaces), i+1, l.UnitPrice.StringFixed(utils.MoneyPlaces))
		}
		if _, err := c.AddItem(cand); err != nil {
			return nil, err
		}
	}
	return c, nil
}
