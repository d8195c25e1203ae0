package kds

import (
	"time"

	"github.com/yeremiapane/tableorder/models"
)

type EventKind string

const (
	EventOrderCreated     EventKind = "order_created"
	EventOrderUpdated     EventKind = "order_updated"
	EventOrderItemUpdated EventKind = "order_item_updated"
	EventTableSession     EventKind = "table_session"
	// EventResync replaces events a slow subscriber could not queue.
	EventResync EventKind = "resync"
)

// Event tells subscribers that something changed for a restaurant. It only
// carries identifiers; subscribers refetch what they display.
type Event struct {
	Kind         EventKind `json:"event"`
	RestaurantID uint      `json:"restaurant_id"`
	OrderID      uint      `json:"order_id,omitempty"`
	OrderItemID  uint      `json:"order_item_id,omitempty"`
	TableID      uint      `json:"table_id,omitempty"`
	Status       string    `json:"status,omitempty"`
	At           time.Time `json:"at"`
}

func OrderCreated(o *models.Order) Event {
	return Event{
		Kind:         EventOrderCreated,
		RestaurantID: o.RestaurantID,
		OrderID:      o.ID,
		TableID:      o.TableID,
		Status:       string(o.Status),
		At:           o.CreatedAt,
	}
}

func OrderUpdated(o *models.Order) Event {
	return Event{
		Kind:         EventOrderUpdated,
		RestaurantID: o.RestaurantID,
		OrderID:      o.ID,
		TableID:      o.TableID,
		Status:       string(o.Status),
		At:           o.UpdatedAt,
	}
}

func OrderItemUpdated(restaurantID uint, item *models.OrderItem) Event {
	return Event{
		Kind:         EventOrderItemUpdated,
		RestaurantID: restaurantID,
		OrderID:      item.OrderID,
		OrderItemID:  item.ID,
		At:           item.UpdatedAt,
	}
}

func TableSession(t *models.Table) Event {
	state := "inactive"
	if t.SessionActive {
		state = "active"
	}
	return Event{
		Kind:         EventTableSession,
		RestaurantID: t.RestaurantID,
		TableID:      t.ID,
		Status:       state,
		At:           t.UpdatedAt,
	}
}
