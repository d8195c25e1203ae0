package cart

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeremiapane/tableorder/models"
	"github.com/yeremiapane/tableorder/utils"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newTestCart() *Cart {
	c := New(1, 7, 7, "session-1")
	n := 0
	c.newLineID = func() string {
		n++
		return fmt.Sprintf("line-%d", n)
	}
	return c
}

func TestAddItemMergesSameOptionSet(t *testing.T) {
	c := newTestCart()

	opts := []SelectedOption{
		{OptionGroup: models.OptionGroupSize, OptionName: "large", PriceModifier: dec("2.00")},
		{OptionGroup: models.OptionGroupAddons, OptionName: "cheese", PriceModifier: dec("1.00")},
	}
	reordered := []SelectedOption{opts[1], opts[0]}

	id1, err := c.AddItem(Candidate{MenuItemID: 10, Quantity: 2, SelectedOptions: opts, UnitPrice: dec("13")})
	require.NoError(t, err)
	id2, err := c.AddItem(Candidate{MenuItemID: 10, Quantity: 3, SelectedOptions: reordered, UnitPrice: dec("13")})
	require.NoError(t, err)

	assert.Equal(t, id1, id2)
	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 5, lines[0].Quantity)
	assert.Equal(t, 5, c.ItemCount())
}

func TestAddItemComparesOptionContent(t *testing.T) {
	c := newTestCart()

	_, err := c.AddItem(Candidate{MenuItemID: 10, Quantity: 1, UnitPrice: dec("10")})
	require.NoError(t, err)
	_, err = c.AddItem(Candidate{
		MenuItemID:      10,
		Quantity:        1,
		SelectedOptions: []SelectedOption{{OptionGroup: models.OptionGroupSize, OptionName: "large", PriceModifier: dec("2")}},
		UnitPrice:       dec("12"),
	})
	require.NoError(t, err)
	_, err = c.AddItem(Candidate{MenuItemID: 11, Quantity: 1, UnitPrice: dec("10")})
	require.NoError(t, err)

	assert.Len(t, c.Lines(), 3)
}

func TestAddItemRejectsNonPositiveQuantity(t *testing.T) {
	c := newTestCart()
	_, err := c.AddItem(Candidate{MenuItemID: 1, Quantity: 0, UnitPrice: dec("1")})
	assert.ErrorIs(t, err, utils.ErrInvalidArgument)
	assert.True(t, c.IsEmpty())
}

func TestUpdateQuantity(t *testing.T) {
	c := newTestCart()
	id, err := c.AddItem(Candidate{MenuItemID: 1, Quantity: 1, UnitPrice: dec("4.50")})
	require.NoError(t, err)

	require.NoError(t, c.UpdateQuantity(id, 4))
	assert.Equal(t, 4, c.Lines()[0].Quantity)
	assert.True(t, c.Subtotal().Equal(dec("18")))

	require.NoError(t, c.UpdateQuantity(id, 0))
	assert.True(t, c.IsEmpty())

	assert.ErrorIs(t, c.UpdateQuantity("missing", 2), utils.ErrNotFound)
}

func TestRemoveAndClear(t *testing.T) {
	c := newTestCart()
	a, _ := c.AddItem(Candidate{MenuItemID: 1, Quantity: 1, UnitPrice: dec("1")})
	_, _ = c.AddItem(Candidate{MenuItemID: 2, Quantity: 1, UnitPrice: dec("1")})

	assert.True(t, c.RemoveItem(a))
	assert.False(t, c.RemoveItem(a))
	assert.Len(t, c.Lines(), 1)

	c.Clear()
	assert.True(t, c.IsEmpty())
	assert.Zero(t, c.RestaurantID)
	assert.Zero(t, c.TableID)
	assert.Empty(t, c.CustomerSessionID)
}

func TestTotalsAreDerived(t *testing.T) {
	c := newTestCart()
	_, _ = c.AddItem(Candidate{MenuItemID: 1, Quantity: 2, UnitPrice: dec("10")})
	id, _ := c.AddItem(Candidate{MenuItemID: 2, Quantity: 1, UnitPrice: dec("7")})

	assert.Equal(t, "27", c.Subtotal().String())
	assert.Equal(t, "2.36", c.Tax(DefaultTaxRate).StringFixed(2))
	assert.Equal(t, "29.36", c.Total(DefaultTaxRate).StringFixed(2))

	require.NoError(t, c.UpdateQuantity(id, 2))
	assert.Equal(t, "34", c.Subtotal().String())
	assert.Equal(t, 4, c.ItemCount())
}

func TestLinesReturnsCopy(t *testing.T) {
	c := newTestCart()
	_, _ = c.AddItem(Candidate{
		MenuItemID:      1,
		Quantity:        1,
		SelectedOptions: []SelectedOption{{OptionGroup: models.OptionGroupSize, OptionName: "small"}},
		UnitPrice:       dec("1"),
	})

	lines := c.Lines()
	lines[0].Quantity = 99
	lines[0].SelectedOptions[0].OptionName = "huge"

	assert.Equal(t, 1, c.Lines()[0].Quantity)
	assert.Equal(t, "small", c.Lines()[0].SelectedOptions[0].OptionName)
}
