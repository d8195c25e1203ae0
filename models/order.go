package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusNew        OrderStatus = "new"
	OrderStatusInProgress OrderStatus = "in_progress"
	OrderStatusReady      OrderStatus = "ready"
	OrderStatusServed     OrderStatus = "served"
	OrderStatusPaid       OrderStatus = "paid"
)

// orderFlow is the only forward path an order may take.
var orderFlow = []OrderStatus{
	OrderStatusNew,
	OrderStatusInProgress,
	OrderStatusReady,
	OrderStatusServed,
	OrderStatusPaid,
}

// Rank returns the position of s in the lifecycle, or -1 for unknown values.
func (s OrderStatus) Rank() int {
	for i, st := range orderFlow {
		if st == s {
			return i
		}
	}
	return -1
}

func (s OrderStatus) Valid() bool {
	return s.Rank() >= 0
}

// Next returns the strict successor of s. Paid orders have none.
func (s OrderStatus) Next() (OrderStatus, bool) {
	r := s.Rank()
	if r < 0 || r == len(orderFlow)-1 {
		return "", false
	}
	return orderFlow[r+1], true
}

// Terminal reports whether no further transition is possible.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusPaid
}

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "cash"
	PaymentMethodCard         PaymentMethod = "card"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodBankTransfer:
		return true
	}
	return false
}

// Order is one customer check for one table. Totals are frozen at submission.
type Order struct {
	ID                  uint            `gorm:"primaryKey" json:"id"`
	RestaurantID        uint            `gorm:"not null;index;uniqueIndex:idx_restaurant_order_number,priority:1" json:"restaurant_id"`
	TableID             uint            `gorm:"not null;index" json:"table_id"`
	Table               *Table          `gorm:"foreignKey:TableID" json:"table,omitempty"`
	OrderNumber         string          `gorm:"type:varchar(20);not null;uniqueIndex:idx_restaurant_order_number,priority:2" json:"order_number"`
	Status              OrderStatus     `gorm:"type:varchar(20);not null;index" json:"status"`
	PaymentStatus       PaymentStatus   `gorm:"type:varchar(20);not null" json:"payment_status"`
	PaymentMethod       *PaymentMethod  `gorm:"type:varchar(20)" json:"payment_method"`
	Subtotal            decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"subtotal"`
	TaxRate             decimal.Decimal `gorm:"type:decimal(6,4);not null" json:"tax_rate"`
	TaxAmount           decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"tax_amount"`
	TotalAmount         decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_amount"`
	SpecialInstructions string          `gorm:"type:text" json:"special_instructions"`
	CustomerSessionID   string          `gorm:"type:varchar(64);index" json:"customer_session_id"`
	Version             int             `gorm:"not null" json:"version"`
	CreatedAt           time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt           time.Time       `gorm:"not null" json:"updated_at"`
	ServedAt            *time.Time      `json:"served_at,omitempty"`
	PaidAt              *time.Time      `json:"paid_at,omitempty"`
	Items               []OrderItem     `gorm:"foreignKey:OrderID" json:"items"`
}

// AllItemsCompleted reports whether the kitchen has ticked every line.
func (o *Order) AllItemsCompleted() bool {
	if len(o.Items) == 0 {
		return false
	}
	for _, it := range o.Items {
		if !it.IsCompleted {
			return false
		}
	}
	return true
}

// StatusChange is the set of columns written by one lifecycle transition.
type StatusChange struct {
	From          OrderStatus
	To            OrderStatus
	PaymentStatus *PaymentStatus
	PaymentMethod *PaymentMethod
	ServedAt      *time.Time
	PaidAt        *time.Time
	ChangedBy     string
	ChangedAt     time.Time
}

// OrderStatusLog keeps one row per accepted transition.
type OrderStatusLog struct {
	ID         uint        `gorm:"primaryKey" json:"id"`
	OrderID    uint        `gorm:"not null;index" json:"order_id"`
	FromStatus OrderStatus `gorm:"type:varchar(20);not null" json:"from_status"`
	ToStatus   OrderStatus `gorm:"type:varchar(20);not null" json:"to_status"`
	ChangedBy  string      `gorm:"type:varchar(100)" json:"changed_by"`
	ChangedAt  time.Time   `gorm:"not null" json:"changed_at"`
}
