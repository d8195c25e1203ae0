package database

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/yeremiapane/tableorder/models"
	"github.com/yeremiapane/tableorder/utils"
)

type OrderRepo struct {
	db *gorm.DB
}

func NewOrderRepo(db *gorm.DB) *OrderRepo {
	return &OrderRepo{db: db}
}

func withItems(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Table").
		Preload("Items", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("order_items.id ASC")
		}).
		Preload("Items.Options", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("order_item_options.id ASC")
		})
}

// Create inserts the order, its items and their options in one transaction
// and assigns the next order number of the restaurant. Either every row is
// written or none is.
func (r *OrderRepo) Create(ctx context.Context, order *models.Order, createdBy string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Order{}).
			Where("restaurant_id = ?", order.RestaurantID).
			Count(&count).Error; err != nil {
			return err
		}
		order.OrderNumber = fmt.Sprintf("%04d", count+1)

		if err := tx.Omit("Table").Create(order).Error; err != nil {
			return err
		}

		return tx.Create(&models.OrderStatusLog{
			OrderID:   order.ID,
			ToStatus:  order.Status,
			ChangedBy: createdBy,
			ChangedAt: order.CreatedAt,
		}).Error
	})
	return translate(err, "create order for table %d", order.TableID)
}

func (r *OrderRepo) FindByID(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	if err := withItems(r.db.WithContext(ctx)).First(&order, id).Error; err != nil {
		return nil, translate(err, "order %d", id)
	}
	return &order, nil
}

// List returns the restaurant's orders, optionally restricted to statuses.
func (r *OrderRepo) List(ctx context.Context, restaurantID uint, statuses []models.OrderStatus, oldestFirst bool) ([]models.Order, error) {
	q := withItems(r.db.WithContext(ctx)).Where("restaurant_id = ?", restaurantID)
	if len(statuses) > 0 {
		values := make([]string, len(statuses))
		for i, s := range statuses {
			values[i] = string(s)
		}
		q = q.Where("status IN ?", values)
	}
	if oldestFirst {
		q = q.Order("created_at ASC").Order("id ASC")
	} else {
		q = q.Order("created_at DESC").Order("id DESC")
	}

	var orders []models.Order
	if err := q.Find(&orders).Error; err != nil {
		return nil, translate(err, "orders of restaurant %d", restaurantID)
	}
	return orders, nil
}

func (r *OrderRepo) FindBySession(ctx context.Context, restaurantID uint, customerSessionID string) ([]models.Order, error) {
	var orders []models.Order
	err := withItems(r.db.WithContext(ctx)).
		Where("restaurant_id = ? AND customer_session_id = ?", restaurantID, customerSessionID).
		Order("created_at ASC").
		Find(&orders).Error
	if err != nil {
		return nil, translate(err, "orders of session %s", customerSessionID)
	}
	return orders, nil
}

// UpdateStatus applies change only if the stored version still equals
// expectedVersion, bumps the version and appends a status log row.
func (r *OrderRepo) UpdateStatus(ctx context.Context, id uint, expectedVersion int, change models.StatusChange) (*models.Order, error) {
	updates := map[string]interface{}{
		"status":     string(change.To),
		"version":    gorm.Expr("version + 1"),
		"updated_at": change.ChangedAt,
	}
	if change.ServedAt != nil {
		updates["served_at"] = *change.ServedAt
	}
	if change.PaidAt != nil {
		updates["paid_at"] = *change.PaidAt
	}
	if change.PaymentStatus != nil {
		updates["payment_status"] = string(*change.PaymentStatus)
	}
	if change.PaymentMethod != nil {
		updates["payment_method"] = string(*change.PaymentMethod)
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Order{}).
			Where("id = ? AND version = ?", id, expectedVersion).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("order %d at version %d: %w", id, expectedVersion, utils.ErrConcurrentModification)
		}
		return tx.Create(&models.OrderStatusLog{
			OrderID:    id,
			FromStatus: change.From,
			ToStatus:   change.To,
			ChangedBy:  change.ChangedBy,
			ChangedAt:  change.ChangedAt,
		}).Error
	})
	if err != nil {
		return nil, translate(err, "update status of order %d", id)
	}
	return r.FindByID(ctx, id)
}

func (r *OrderRepo) FindItem(ctx context.Context, id uint) (*models.OrderItem, error) {
	var item models.OrderItem
	if err := r.db.WithContext(ctx).Preload("Options").First(&item, id).Error; err != nil {
		return nil, translate(err, "order item %d", id)
	}
	return &item, nil
}

func (r *OrderRepo) SetItemCompleted(ctx context.Context, id uint, completed bool, at time.Time) (*models.OrderItem, error) {
	res := r.db.WithContext(ctx).
		Model(&models.OrderItem{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_completed": completed,
			"updated_at":   at,
		})
	if res.Error != nil {
		return nil, translate(res.Error, "update order item %d", id)
	}
	return r.FindItem(ctx, id)
}

func (r *OrderRepo) History(ctx context.Context, orderID uint) ([]models.OrderStatusLog, error) {
	var logs []models.OrderStatusLog
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("id ASC").
		Find(&logs).Error
	if err != nil {
		return nil, translate(err, "history of order %d", orderID)
	}
	return logs, nil
}
