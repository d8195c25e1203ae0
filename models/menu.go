package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OptionGroup string

const (
	OptionGroupSize        OptionGroup = "size"
	OptionGroupPreparation OptionGroup = "preparation"
	OptionGroupAddons      OptionGroup = "addons"
)

func (g OptionGroup) Valid() bool {
	switch g {
	case OptionGroupSize, OptionGroupPreparation, OptionGroupAddons:
		return true
	}
	return false
}

// MultiSelect reports whether more than one option of the group may be chosen.
func (g OptionGroup) MultiSelect() bool {
	return g == OptionGroupAddons
}

type Restaurant struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	Name      string          `gorm:"type:varchar(255);not null" json:"name"`
	Currency  string          `gorm:"type:varchar(3);not null" json:"currency"`
	TaxRate   decimal.Decimal `gorm:"type:decimal(6,4);not null" json:"tax_rate"`
	IsActive  bool            `gorm:"not null" json:"is_active"`
	CreatedAt time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time       `gorm:"not null" json:"updated_at"`
}

type MenuCategory struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	RestaurantID uint       `gorm:"not null;index" json:"restaurant_id"`
	Name         string     `gorm:"type:varchar(100);not null" json:"name"`
	DisplayOrder int        `gorm:"not null" json:"display_order"`
	IsActive     bool       `gorm:"not null" json:"is_active"`
	Items        []MenuItem `gorm:"foreignKey:CategoryID" json:"items"`
	CreatedAt    time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"not null" json:"updated_at"`
}

type MenuItem struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	RestaurantID uint            `gorm:"not null;index" json:"restaurant_id"`
	CategoryID   uint            `gorm:"not null;index" json:"category_id"`
	Name         string          `gorm:"type:varchar(255);not null" json:"name"`
	Description  string          `gorm:"type:text" json:"description"`
	BasePrice    decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"base_price"`
	ImageURL     string          `gorm:"type:varchar(255)" json:"image_url"`
	PrepTime     int             `gorm:"not null" json:"prep_time"`
	IsActive     bool            `gorm:"not null" json:"is_active"`
	IsAvailable  bool            `gorm:"not null" json:"is_available"`
	Options      []ItemOption    `gorm:"foreignKey:MenuItemID" json:"options"`
	CreatedAt    time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"not null" json:"updated_at"`
}

// Orderable reports whether customers may currently pick the item.
func (m *MenuItem) Orderable() bool {
	return m.IsActive && m.IsAvailable
}

type ItemOption struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	MenuItemID    uint            `gorm:"not null;index" json:"menu_item_id"`
	OptionGroup   OptionGroup     `gorm:"type:varchar(20);not null" json:"option_group"`
	OptionName    string          `gorm:"type:varchar(100);not null" json:"option_name"`
	PriceModifier decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price_modifier"`
	IsRequired    bool            `gorm:"not null" json:"is_required"`
	IsActive      bool            `gorm:"not null" json:"is_active"`
	DisplayOrder  int             `gorm:"not null" json:"display_order"`
}
