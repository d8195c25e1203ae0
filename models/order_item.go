package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItem snapshots the menu item's name, price and image so later menu
// edits do not rewrite history.
type OrderItem struct {
	ID                  uint              `gorm:"primaryKey" json:"id"`
	OrderID             uint              `gorm:"not null;index" json:"order_id"`
	MenuItemID          uint              `gorm:"not null;index" json:"menu_item_id"`
	MenuItemName        string            `gorm:"type:varchar(255);not null" json:"menu_item_name"`
	ImageURL            string            `gorm:"type:varchar(255)" json:"image_url"`
	BasePrice           decimal.Decimal   `gorm:"type:decimal(10,2);not null" json:"base_price"`
	Quantity            int               `gorm:"not null" json:"quantity"`
	UnitPrice           decimal.Decimal   `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	TotalPrice          decimal.Decimal   `gorm:"type:decimal(10,2);not null" json:"total_price"`
	SpecialInstructions string            `gorm:"type:text" json:"special_instructions"`
	IsCompleted         bool              `gorm:"not null" json:"is_completed"`
	Options             []OrderItemOption `gorm:"foreignKey:OrderItemID" json:"options"`
	CreatedAt           time.Time         `gorm:"not null" json:"created_at"`
	UpdatedAt           time.Time         `gorm:"not null" json:"updated_at"`
}

type OrderItemOption struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	OrderItemID   uint            `gorm:"not null;index" json:"order_item_id"`
	OptionGroup   OptionGroup     `gorm:"type:varchar(20);not null" json:"option_group"`
	OptionName    string          `gorm:"type:varchar(100);not null" json:"option_name"`
	PriceModifier decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price_modifier"`
}
