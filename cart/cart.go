// Package cart holds the customer's unpersisted draft order. A Cart is owned
// by one customer session and is passed around explicitly; all money values
// derived from it are recomputed on every call.
package cart

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/yeremiapane/tableorder/models"
	"github.com/yeremiapane/tableorder/utils"
)

// DefaultTaxRate is used by callers that do not know the restaurant's rate.
var DefaultTaxRate = decimal.RequireFromString("0.0875")

type SelectedOption struct {
	OptionGroup   models.OptionGroup `json:"option_group"`
	OptionName    string             `json:"option_name"`
	PriceModifier decimal.Decimal    `json:"price_modifier"`
}

// Candidate is an item the customer wants to add.
type Candidate struct {
	MenuItemID          uint             `json:"menu_item_id"`
	Quantity            int              `json:"quantity"`
	SelectedOptions     []SelectedOption `json:"selected_options"`
	UnitPrice           decimal.Decimal  `json:"unit_price"`
	SpecialInstructions string           `json:"special_instructions"`
}

type Line struct {
	ID                  string           `json:"id"`
	MenuItemID          uint             `json:"menu_item_id"`
	Quantity            int              `json:"quantity"`
	SelectedOptions     []SelectedOption `json:"selected_options"`
	UnitPrice           decimal.Decimal  `json:"unit_price"`
	SpecialInstructions string           `json:"special_instructions"`
}

func (l Line) TotalPrice() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

type Cart struct {
	RestaurantID      uint
	TableID           uint
	TableNumber       int
	CustomerSessionID string

	lines     []Line
	newLineID func() string
}

// New returns an empty cart bound to a table and customer session.
func New(restaurantID, tableID uint, tableNumber int, customerSessionID string) *Cart {
	return &Cart{
		RestaurantID:      restaurantID,
		TableID:           tableID,
		TableNumber:       tableNumber,
		CustomerSessionID: customerSessionID,
		newLineID:         uuid.NewString,
	}
}

// NewSessionID returns a fresh opaque customer session token.
func NewSessionID() string {
	return uuid.NewString()
}

// AddItem merges cand into an existing line with the same menu item and the
// same option set, or appends a new line. It returns the id of the line that
// holds the candidate.
func (c *Cart) AddItem(cand Candidate) (string, error) {
	if cand.Quantity < 1 {
		return "", fmt.Errorf("%w: quantity must be at least 1, got %d", utils.ErrInvalidArgument, cand.Quantity)
	}

	key := optionKey(cand.SelectedOptions)
	for i := range c.lines {
		l := &c.lines[i]
		if l.MenuItemID == cand.MenuItemID && optionKey(l.SelectedOptions) == key {
			l.Quantity += cand.Quantity
			return l.ID, nil
		}
	}

	if c.newLineID == nil {
		c.newLineID = uuid.NewString
	}
	line := Line{
		ID:                  c.newLineID(),
		MenuItemID:          cand.MenuItemID,
		Quantity:            cand.Quantity,
		SelectedOptions:     copyOptions(cand.SelectedOptions),
		UnitPrice:           cand.UnitPrice,
		SpecialInstructions: cand.SpecialInstructions,
	}
	c.lines = append(c.lines, line)
	return line.ID, nil
}

// UpdateQuantity overwrites a line's quantity; qty <= 0 removes the line.
func (c *Cart) UpdateQuantity(lineID string, qty int) error {
	if qty <= 0 {
		if !c.RemoveItem(lineID) {
			return fmt.Errorf("cart line %s: %w", lineID, utils.ErrNotFound)
		}
		return nil
	}
	for i := range c.lines {
		if c.lines[i].ID == lineID {
			c.lines[i].Quantity = qty
			return nil
		}
	}
	return fmt.Errorf("cart line %s: %w", lineID, utils.ErrNotFound)
}

// RemoveItem drops a line and reports whether it existed.
func (c *Cart) RemoveItem(lineID string) bool {
	for i := range c.lines {
		if c.lines[i].ID == lineID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return true
		}
	}
	return false
}

// Clear empties the cart and detaches it from its table and session.
func (c *Cart) Clear() {
	c.lines = nil
	c.RestaurantID = 0
	c.TableID = 0
	c.TableNumber = 0
	c.CustomerSessionID = ""
}

// Lines returns a copy of the cart lines in insertion order.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	for i, l := range c.lines {
		l.SelectedOptions = copyOptions(l.SelectedOptions)
		out[i] = l
	}
	return out
}

func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

func (c *Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.lines {
		total = total.Add(l.TotalPrice())
	}
	return total
}

// Tax is the subtotal times rate, rounded to cents.
func (c *Cart) Tax(rate decimal.Decimal) decimal.Decimal {
	return utils.RoundMoney(c.Subtotal().Mul(rate))
}

func (c *Cart) Total(rate decimal.Decimal) decimal.Decimal {
	return c.Subtotal().Add(c.Tax(rate))
}

func (c *Cart) ItemCount() int {
	n := 0
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

// optionKey is an order-insensitive, content-based identity of an option set.
func optionKey(opts []SelectedOption) string {
	keys := make([]string, len(opts))
	for i, o := range opts {
		keys[i] = string(o.OptionGroup) + "\x1f" + o.OptionName + "\x1f" + o.PriceModifier.String()
	}
	sort.Strings(keys)
	return strings.Join(keys, "\x1e")
}

func copyOptions(opts []SelectedOption) []SelectedOption {
	if len(opts) == 0 {
		return nil
	}
	out := make([]SelectedOption, len(opts))
	copy(out, opts)
	return out
}
