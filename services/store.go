package services

import (
	"context"
	"time"

	"github.com/yeremiapane/tableorder/kds"
	"github.com/yeremiapane/tableorder/models"
)

// TableStore is the persistence the session authority needs.
type TableStore interface {
	FindByID(ctx context.Context, id uint) (*models.Table, error)
	FindByNumber(ctx context.Context, restaurantID uint, number int) (*models.Table, error)
	ListByRestaurant(ctx context.Context, restaurantID uint) ([]models.Table, error)
	UpdateSession(ctx context.Context, id uint, active bool, expiresAt *time.Time, activatedBy string, at time.Time) (*models.Table, error)
}

type OrderStore interface {
	Create(ctx context.Context, order *models.Order, createdBy string) error
	FindByID(ctx context.Context, id uint) (*models.Order, error)
	List(ctx context.Context, restaurantID uint, statuses []models.OrderStatus, oldestFirst bool) ([]models.Order, error)
	FindBySession(ctx context.Context, restaurantID uint, customerSessionID string) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id uint, expectedVersion int, change models.StatusChange) (*models.Order, error)
	FindItem(ctx context.Context, id uint) (*models.OrderItem, error)
	SetItemCompleted(ctx context.Context, id uint, completed bool, at time.Time) (*models.OrderItem, error)
	History(ctx context.Context, orderID uint) ([]models.OrderStatusLog, error)
}

type MenuStore interface {
	FindRestaurant(ctx context.Context, id uint) (*models.Restaurant, error)
	FindMenuItems(ctx context.Context, restaurantID uint, ids []uint) (map[uint]*models.MenuItem, error)
	CustomerMenu(ctx context.Context, restaurantID uint) ([]models.MenuCategory, error)
}

// Publisher receives lifecycle events after the store has accepted them.
type Publisher interface {
	Publish(ctx context.Context, ev kds.Event)
}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, kds.Event) {}
