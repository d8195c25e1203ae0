package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeremiapane/tableorder/cart"
	"github.com/yeremiapane/tableorder/kds"
	"github.com/yeremiapane/tableorder/models"
	"github.com/yeremiapane/tableorder/services"
	"github.com/yeremiapane/tableorder/testhelpers"
	"github.com/yeremiapane/tableorder/utils"
)

var money = testhelpers.Money

func regular() []cart.SelectedOption {
	return []cart.SelectedOption{{OptionGroup: models.OptionGroupSize, OptionName: "regular"}}
}

// tableSevenCart is two regular burgers and one fries: 27.00 before tax.
func tableSevenCart(t *testing.T, e *engine, sessionID string) *cart.Cart {
	t.Helper()
	c, err := e.menu.BuildCart(context.Background(), e.fx.Restaurant.ID, 7, sessionID, []services.CartLine{
		{MenuItemID: e.fx.Burger.ID, Quantity: 2, SelectedOptions: regular()},
		{MenuItemID: e.fx.Fries.ID, Quantity: 1},
	})
	require.NoError(t, err)
	return c
}

func advance(t *testing.T, e *engine, orderID uint, to ...models.OrderStatus) *models.Order {
	t.Helper()
	var order *models.Order
	for _, st := range to {
		var err error
		order, err = e.orders.Transition(context.Background(), orderID, st, nil, "chef")
		require.NoError(t, err, "transition to %s", st)
	}
	return order
}

func TestTableSevenToPaid(t *testing.T) {
	e := newEngine(t, 7)
	ctx := context.Background()

	_, err := e.sessions.Activate(ctx, e.fx.Table(7).ID, "host", 2*time.Hour)
	require.NoError(t, err)

	c := tableSevenCart(t, e, "guest-7")
	assert.Equal(t, "27", c.Subtotal().String())
	assert.Equal(t, "2.36", c.Tax(e.fx.Restaurant.TaxRate).StringFixed(2))
	assert.Equal(t, "29.36", c.Total(e.fx.Restaurant.TaxRate).StringFixed(2))

	order, err := e.orders.Submit(ctx, c, "window seat")
	require.NoError(t, err)
	assert.True(t, c.IsEmpty(), "cart is cleared after submission")

	assert.Equal(t, "0001", order.OrderNumber)
	assert.Equal(t, models.OrderStatusNew, order.Status)
	assert.Equal(t, models.PaymentStatusPending, order.PaymentStatus)
	assert.Equal(t, "27.00", order.Subtotal.StringFixed(2))
	assert.Equal(t, "2.36", order.TaxAmount.StringFixed(2))
	assert.Equal(t, "29.36", order.TotalAmount.StringFixed(2))
	assert.Equal(t, "guest-7", order.CustomerSessionID)

	stored, err := e.orders.Order(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, stored.Items, 2)
	assert.Equal(t, "Burger", stored.Items[0].MenuItemName)
	assert.Equal(t, "20.00", stored.Items[0].TotalPrice.StringFixed(2))
	require.Len(t, stored.Items[0].Options, 1)
	assert.Equal(t, "regular", stored.Items[0].Options[0].OptionName)
	assert.True(t, stored.Subtotal.Add(stored.TaxAmount).Equal(stored.TotalAmount))

	e.clock.Advance(5 * time.Minute)
	served := advance(t, e, order.ID, models.OrderStatusInProgress, models.OrderStatusReady, models.OrderStatusServed)
	require.NotNil(t, served.ServedAt)
	assert.True(t, served.ServedAt.Equal(t0.Add(5*time.Minute)))
	assert.Equal(t, models.PaymentStatusPending, served.PaymentStatus)

	cash := models.PaymentMethodCash
	paid, err := e.orders.Transition(ctx, order.ID, models.OrderStatusPaid, &cash, "waiter")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPaid, paid.Status)
	assert.Equal(t, models.PaymentStatusPaid, paid.PaymentStatus)
	require.NotNil(t, paid.PaymentMethod)
	assert.Equal(t, models.PaymentMethodCash, *paid.PaymentMethod)
	require.NotNil(t, paid.PaidAt)
	assert.Equal(t, 5, paid.Version)
	assert.Equal(t, "29.36", paid.TotalAmount.StringFixed(2))

	history, err := e.orders.StatusHistory(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, history, 5)
	assert.Equal(t, models.OrderStatusNew, history[0].ToStatus)
	assert.Equal(t, models.OrderStatusServed, history[4].FromStatus)
	assert.Equal(t, models.OrderStatusPaid, history[4].ToStatus)
	assert.Equal(t, "waiter", history[4].ChangedBy)

	assert.Equal(t, []kds.EventKind{
		kds.EventTableSession,
		kds.EventOrderCreated,
		kds.EventOrderUpdated,
		kds.EventOrderUpdated,
		kds.EventOrderUpdated,
		kds.EventOrderUpdated,
	}, e.pub.kinds())
}

func TestSubmitRequiresOrderableTable(t *testing.T) {
	ctx := context.Background()

	t.Run("no session", func(t *testing.T) {
		e := newEngine(t, 7)
		_, err := e.orders.Submit(ctx, tableSevenCart(t, e, "s"), "")
		assert.ErrorIs(t, err, utils.ErrTableNotOrderable)
	})

	t.Run("expired session", func(t *testing.T) {
		e := newEngine(t, 7)
		_, err := e.sessions.Activate(ctx, e.fx.Table(7).ID, "host", time.Minute)
		require.NoError(t, err)
		c := tableSevenCart(t, e, "s")

		e.clock.Advance(time.Minute)
		_, err = e.orders.Submit(ctx, c, "")
		assert.ErrorIs(t, err, utils.ErrTableNotOrderable)
		assert.False(t, c.IsEmpty(), "failed submission keeps the cart")
	})
}

func TestSubmitEmptyCart(t *testing.T) {
	e := newEngine(t, 1)
	_, err := e.orders.Submit(context.Background(), cart.New(e.fx.Restaurant.ID, e.fx.Table(1).ID, 1, "s"), "")
	assert.ErrorIs(t, err, utils.ErrEmptyCart)

	_, err = e.orders.Submit(context.Background(), nil, "")
	assert.ErrorIs(t, err, utils.ErrEmptyCart)
}

func TestSubmitRepricesAgainstStore(t *testing.T) {
	ctx := context.Background()

	t.Run("stale client price", func(t *testing.T) {
		e := newEngine(t, 7)
		_, err := e.sessions.Activate(ctx, e.fx.Table(7).ID, "host", 0)
		require.NoError(t, err)

		stale := money("9.00")
		_, err = e.menu.BuildCart(ctx, e.fx.Restaurant.ID, 7, "s", []services.CartLine{
			{MenuItemID: e.fx.Burger.ID, Quantity: 1, SelectedOptions: regular(), UnitPrice: &stale},
		})
		assert.ErrorIs(t, err, utils.ErrInvalidCart)
	})

	t.Run("stale price on a merged line", func(t *testing.T) {
		e := newEngine(t, 7)
		current, stale := money("7.00"), money("0.01")
		_, err := e.menu.BuildCart(ctx, e.fx.Restaurant.ID, 7, "s", []services.CartLine{
			{MenuItemID: e.fx.Fries.ID, Quantity: 1, UnitPrice: &current},
			{MenuItemID: e.fx.Fries.ID, Quantity: 2, UnitPrice: &stale},
		})
		assert.ErrorIs(t, err, utils.ErrInvalidCart)

		c, err := e.menu.BuildCart(ctx, e.fx.Restaurant.ID, 7, "s", []services.CartLine{
			{MenuItemID: e.fx.Fries.ID, Quantity: 1, UnitPrice: &current},
			{MenuItemID: e.fx.Fries.ID, Quantity: 2, UnitPrice: &current},
		})
		require.NoError(t, err)
		require.Len(t, c.Lines(), 1)
		assert.Equal(t, 3, c.Lines()[0].Quantity)
	})

	t.Run("menu price changed", func(t *testing.T) {
		e := newEngine(t, 7)
		_, err := e.sessions.Activate(ctx, e.fx.Table(7).ID, "host", 0)
		require.NoError(t, err)
		c := tableSevenCart(t, e, "s")

		require.NoError(t, e.db.Model(&models.MenuItem{}).Where("id = ?", e.fx.Fries.ID).Update("base_price", money("7.50")).Error)

		_, err = e.orders.Submit(ctx, c, "")
		assert.ErrorIs(t, err, utils.ErrInvalidCart)
	})

	t.Run("item became unavailable", func(t *testing.T) {
		e := newEngine(t, 7)
		_, err := e.sessions.Activate(ctx, e.fx.Table(7).ID, "host", 0)
		require.NoError(t, err)
		c := tableSevenCart(t, e, "s")

		require.NoError(t, e.db.Model(&models.MenuItem{}).Where("id = ?", e.fx.Fries.ID).Update("is_available", false).Error)

		_, err = e.orders.Submit(ctx, c, "")
		assert.ErrorIs(t, err, utils.ErrInvalidCart)
	})

	t.Run("missing required option", func(t *testing.T) {
		e := newEngine(t, 7)
		c := cart.New(e.fx.Restaurant.ID, e.fx.Table(7).ID, 7, "s")
		_, err := c.AddItem(cart.Candidate{MenuItemID: e.fx.Burger.ID, Quantity: 1, UnitPrice: money("10")})
		require.NoError(t, err)
		_, err = e.sessions.Activate(ctx, e.fx.Table(7).ID, "host", 0)
		require.NoError(t, err)

		_, err = e.orders.Submit(ctx, c, "")
		assert.ErrorIs(t, err, utils.ErrInvalidCart)
	})
}

func TestItemPricesAndTotals(t *testing.T) {
	e := newEngine(t, 7)
	ctx := context.Background()
	_, err := e.sessions.Activate(ctx, e.fx.Table(7).ID, "host", 0)
	require.NoError(t, err)

	carts := [][]services.CartLine{
		{{MenuItemID: e.fx.Burger.ID, Quantity: 3, SelectedOptions: []cart.SelectedOption{
			{OptionGroup: models.OptionGroupSize, OptionName: "large"},
			{OptionGroup: models.OptionGroupAddons, OptionName: "bacon"},
		}}},
		{{MenuItemID: e.fx.Fries.ID, Quantity: 1}},
		{
			{MenuItemID: e.fx.Fries.ID, Quantity: 4},
			{MenuItemID: e.fx.Burger.ID, Quantity: 1, SelectedOptions: regular()},
		},
	}

	for i, lines := range carts {
		c, err := e.menu.BuildCart(ctx, e.fx.Restaurant.ID, 7, "s", lines)
		require.NoError(t, err)
		order, err := e.orders.Submit(ctx, c, "")
		require.NoError(t, err, "cart %d", i)

		stored, err := e.orders.Order(ctx, order.ID)
		require.NoError(t, err)

		subtotal := decimal.Zero
		for _, it := range stored.Items {
			unit := it.BasePrice
			for _, o := range it.Options {
				unit = unit.Add(o.PriceModifier)
			}
			assert.True(t, it.UnitPrice.Equal(unit), "unit price of %s", it.MenuItemName)
			assert.True(t, it.TotalPrice.Equal(it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity)))))
			subtotal = subtotal.Add(it.TotalPrice)
		}
		assert.True(t, stored.Subtotal.Equal(subtotal))
		assert.True(t, stored.TaxAmount.Equal(utils.RoundMoney(subtotal.Mul(stored.TaxRate))))
		assert.True(t, stored.TotalAmount.Equal(stored.Subtotal.Add(stored.TaxAmount)))
	}

	all, err := e.orders.Orders(ctx, e.fx.Restaurant.ID)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "0003", all[0].OrderNumber)
	assert.Equal(t, "0001", all[2].OrderNumber)
}

func TestTaxRateIsFrozen(t *testing.T) {
	e := newEngine(t, 7)
	ctx := context.Background()
	_, err := e.sessions.Activate(ctx, e.fx.Table(7).ID, "host", 0)
	require.NoError(t, err)

	order, err := e.orders.Submit(ctx, tableSevenCart(t, e, "s"), "")
	require.NoError(t, err)

	require.NoError(t, e.db.Model(&models.Restaurant{}).Where("id = ?", e.fx.Restaurant.ID).Update("tax_rate", money("0.2")).Error)

	stored, err := e.orders.Order(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "2.36", stored.TaxAmount.StringFixed(2))
	assert.Equal(t, "29.36", stored.TotalAmount.StringFixed(2))
}

func submitted(t *testing.T, e *engine) *models.Order {
	t.Helper()
	ctx := context.Background()
	_, err := e.sessions.Activate(ctx, e.fx.Table(7).ID, "host", 0)
	require.NoError(t, err)
	order, err := e.orders.Submit(ctx, tableSevenCart(t, e, "s"), "")
	require.NoError(t, err)
	return order
}

func TestTransitionOrdering(t *testing.T) {
	e := newEngine(t, 7)
	ctx := context.Background()
	order := submitted(t, e)

	_, err := e.orders.Transition(ctx, order.ID, models.OrderStatusReady, nil, "chef")
	require.ErrorIs(t, err, utils.ErrInvalidTransition)
	var te *utils.TransitionError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, "new", te.From)
	assert.Equal(t, "ready", te.To)

	_, err = e.orders.Transition(ctx, order.ID, models.OrderStatusNew, nil, "chef")
	assert.ErrorIs(t, err, utils.ErrInvalidTransition)

	got, err := e.orders.Transition(ctx, order.ID, models.OrderStatusInProgress, nil, "chef")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusInProgress, got.Status)

	_, err = e.orders.Transition(ctx, order.ID, models.OrderStatusNew, nil, "chef")
	assert.ErrorIs(t, err, utils.ErrInvalidTransition)

	_, err = e.orders.Transition(ctx, order.ID, models.OrderStatus("cooking"), nil, "chef")
	assert.ErrorIs(t, err, utils.ErrInvalidArgument)

	_, err = e.orders.Transition(ctx, 12345, models.OrderStatusReady, nil, "chef")
	assert.ErrorIs(t, err, utils.ErrNotFound)
}

func TestPaymentRequiresMethod(t *testing.T) {
	e := newEngine(t, 7)
	ctx := context.Background()
	order := submitted(t, e)
	advance(t, e, order.ID, models.OrderStatusInProgress, models.OrderStatusReady, models.OrderStatusServed)

	_, err := e.orders.Transition(ctx, order.ID, models.OrderStatusPaid, nil, "waiter")
	assert.ErrorIs(t, err, utils.ErrMissingPaymentMethod)

	bogus := models.PaymentMethod("bitcoin")
	_, err = e.orders.Transition(ctx, order.ID, models.OrderStatusPaid, &bogus, "waiter")
	assert.ErrorIs(t, err, utils.ErrInvalidArgument)

	stored, err := e.orders.Order(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusServed, stored.Status)
	assert.Nil(t, stored.PaidAt)

	card := models.PaymentMethodCard
	paid, err := e.orders.Transition(ctx, order.ID, models.OrderStatusPaid, &card, "waiter")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentMethodCard, *paid.PaymentMethod)

	_, err = e.orders.Transition(ctx, order.ID, models.OrderStatusPaid, &card, "waiter")
	assert.ErrorIs(t, err, utils.ErrInvalidTransition, "paid is terminal")
	assert.Contains(t, err.Error(), "already paid")
	var te *utils.TransitionError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, "paid", te.From)
}

func TestItemCompletionDoesNotAdvanceOrder(t *testing.T) {
	e := newEngine(t, 7)
	ctx := context.Background()
	order := submitted(t, e)
	advance(t, e, order.ID, models.OrderStatusInProgress)

	stored, err := e.orders.Order(ctx, order.ID)
	require.NoError(t, err)
	for _, it := range stored.Items {
		got, err := e.orders.SetItemCompletion(ctx, it.ID, true)
		require.NoError(t, err)
		assert.True(t, got.IsCompleted)
	}

	stored, err = e.orders.Order(ctx, order.ID)
	require.NoError(t, err)
	assert.True(t, stored.AllItemsCompleted())
	assert.Equal(t, models.OrderStatusInProgress, stored.Status)

	got, err := e.orders.SetItemCompletion(ctx, stored.Items[0].ID, false)
	require.NoError(t, err)
	assert.False(t, got.IsCompleted)

	_, err = e.orders.SetItemCompletion(ctx, 9999, true)
	assert.ErrorIs(t, err, utils.ErrNotFound)
}

func TestDashboardQueries(t *testing.T) {
	e := newEngine(t, 7)
	ctx := context.Background()

	first := submitted(t, e)
	e.clock.Advance(time.Minute)
	second, err := e.orders.Submit(ctx, tableSevenCart(t, e, "other"), "")
	require.NoError(t, err)
	e.clock.Advance(time.Minute)
	third, err := e.orders.Submit(ctx, tableSevenCart(t, e, "other"), "")
	require.NoError(t, err)

	advance(t, e, first.ID, models.OrderStatusInProgress, models.OrderStatusReady, models.OrderStatusServed)
	cash := models.PaymentMethodCash
	advance(t, e, third.ID, models.OrderStatusInProgress, models.OrderStatusReady, models.OrderStatusServed)
	_, err = e.orders.Transition(ctx, third.ID, models.OrderStatusPaid, &cash, "waiter")
	require.NoError(t, err)

	queue, err := e.orders.KitchenQueue(ctx, e.fx.Restaurant.ID)
	require.NoError(t, err)
	require.Len(t, queue, 1)
	assert.Equal(t, second.ID, queue[0].ID)

	awaiting, err := e.orders.AwaitingPayment(ctx, e.fx.Restaurant.ID)
	require.NoError(t, err)
	require.Len(t, awaiting, 1)
	assert.Equal(t, first.ID, awaiting[0].ID)

	paid, err := e.orders.Orders(ctx, e.fx.Restaurant.ID, models.OrderStatusPaid)
	require.NoError(t, err)
	require.Len(t, paid, 1)
	assert.Equal(t, third.ID, paid[0].ID)

	_, err = e.orders.Orders(ctx, e.fx.Restaurant.ID, models.OrderStatus("lost"))
	assert.ErrorIs(t, err, utils.ErrInvalidArgument)

	mine, err := e.orders.OrdersForSession(ctx, e.fx.Restaurant.ID, "other")
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, second.ID, mine[0].ID)

	_, err = e.orders.OrdersForSession(ctx, e.fx.Restaurant.ID, "")
	assert.ErrorIs(t, err, utils.ErrInvalidArgument)
}
