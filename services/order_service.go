package services

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/yeremiapane/tableorder/cart"
	"github.com/yeremiapane/tableorder/kds"
	"github.com/yeremiapane/tableorder/models"
	"github.com/yeremiapane/tableorder/utils"
)

const customerActor = "customer"

// OrderService owns order submission and the status state machine. The
// store arbitrates concurrent writers; OrderService never retries.
type OrderService struct {
	orders   OrderStore
	menus    MenuStore
	sessions *SessionService
	clock    Clock
	events   Publisher
}

func NewOrderService(orders OrderStore, menus MenuStore, sessions *SessionService, clock Clock, events Publisher) *OrderService {
	if clock == nil {
		clock = SystemClock{}
	}
	if events == nil {
		events = noopPublisher{}
	}
	return &OrderService{
		orders:   orders,
		menus:    menus,
		sessions: sessions,
		clock:    clock,
		events:   events,
	}
}

// Submit turns the cart into a NEW order. Every line is re-priced against
// the current menu and the restaurant's tax rate is frozen into the order.
// The cart is cleared once the order is stored.
func (s *OrderService) Submit(ctx context.Context, c *cart.Cart, instructions string) (*models.Order, error) {
	if c == nil || c.IsEmpty() {
		return nil, utils.ErrEmptyCart
	}

	restaurant, err := s.menus.FindRestaurant(ctx, c.RestaurantID)
	if err != nil {
		return nil, err
	}
	if !restaurant.IsActive {
		return nil, fmt.Errorf("restaurant %d is closed: %w", restaurant.ID, utils.ErrTableNotOrderable)
	}

	table, err := s.sessions.OrderableTable(ctx, restaurant.ID, c.TableNumber)
	if err != nil {
		return nil, err
	}
	if c.TableID != 0 && c.TableID != table.ID {
		return nil, fmt.Errorf("%w: cart is bound to table %d, not %d", utils.ErrInvalidCart, c.TableID, table.ID)
	}

	lines := c.Lines()
	ids := make([]uint, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.MenuItemID)
	}
	menuItems, err := s.menus.FindMenuItems(ctx, restaurant.ID, ids)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	items := make([]models.OrderItem, 0, len(lines))
	subtotal := decimal.Zero
	for _, l := range lines {
		item, err := reconcileLine(l, menuItems[l.MenuItemID], now)
		if err != nil {
			return nil, err
		}
		subtotal = subtotal.Add(item.TotalPrice)
		items = append(items, *item)
	}

	tax := utils.RoundMoney(subtotal.Mul(restaurant.TaxRate))
	order := &models.Order{
		RestaurantID:        restaurant.ID,
		TableID:             table.ID,
		Status:              models.OrderStatusNew,
		PaymentStatus:       models.PaymentStatusPending,
		Subtotal:            subtotal,
		TaxRate:             restaurant.TaxRate,
		TaxAmount:           tax,
		TotalAmount:         subtotal.Add(tax),
		SpecialInstructions: instructions,
		CustomerSessionID:   c.CustomerSessionID,
		Version:             1,
		CreatedAt:           now,
		UpdatedAt:           now,
		Items:               items,
	}

	if err := s.orders.Create(ctx, order, customerActor); err != nil {
		return nil, err
	}
	order.Table = table
	c.Clear()

	utils.InfoLogger.WithFields(logrus.Fields{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"table_number": table.TableNumber,
		"total":        order.TotalAmount.StringFixed(utils.MoneyPlaces),
	}).Info("order submitted")
	s.events.Publish(ctx, kds.OrderCreated(order))
	return order, nil
}

// reconcileLine re-prices a cart line from the stored menu item and fails
// when the cart's unit price disagrees.
func reconcileLine(l cart.Line, menuItem *models.MenuItem, now time.Time) (*models.OrderItem, error) {
	if menuItem == nil {
		return nil, fmt.Errorf("%w: menu item %d does not exist", utils.ErrInvalidCart, l.MenuItemID)
	}
	if !menuItem.Orderable() {
		return nil, fmt.Errorf("%w: %s is not available", utils.ErrInvalidCart, menuItem.Name)
	}
	if l.Quantity < 1 {
		return nil, fmt.Errorf("%w: %s has quantity %d", utils.ErrInvalidCart, menuItem.Name, l.Quantity)
	}

	unit, err := cart.PriceFor(menuItem, l.SelectedOptions)
	if err != nil {
		return nil, err
	}
	if !unit.Equal(l.UnitPrice) {
		return nil, fmt.Errorf("%w: %s costs %s, cart says %s",
			utils.ErrInvalidCart, menuItem.Name, unit.StringFixed(utils.MoneyPlaces), l.UnitPrice.StringFixed(utils.MoneyPlaces))
	}

	priced, err := cart.NewCandidate(menuItem, l.Quantity, l.SelectedOptions, l.SpecialInstructions)
	if err != nil {
		return nil, err
	}
	options := make([]models.OrderItemOption, len(priced.SelectedOptions))
	for i, o := range priced.SelectedOptions {
		options[i] = models.OrderItemOption{
			OptionGroup:   o.OptionGroup,
			OptionName:    o.OptionName,
			PriceModifier: o.PriceModifier,
		}
	}

	return &models.OrderItem{
		MenuItemID:          menuItem.ID,
		MenuItemName:        menuItem.Name,
		ImageURL:            menuItem.ImageURL,
		BasePrice:           menuItem.BasePrice,
		Quantity:            l.Quantity,
		UnitPrice:           unit,
		TotalPrice:          unit.Mul(decimal.NewFromInt(int64(l.Quantity))),
		SpecialInstructions: l.SpecialInstructions,
		Options:             options,
		CreatedAt:           now,
		UpdatedAt:           now,
	}, nil
}

// Transition moves the order to target, which must be the strict successor
// of its current status. Entering PAID requires a payment method.
func (s *OrderService) Transition(ctx context.Context, orderID uint, target models.OrderStatus, method *models.PaymentMethod, actor string) (*models.Order, error) {
	if !target.Valid() {
		return nil, fmt.Errorf("%w: unknown order status %q", utils.ErrInvalidArgument, target)
	}

	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.Status.Terminal() {
		return nil, fmt.Errorf("order %d is already %s: %w", orderID, order.Status,
			&utils.TransitionError{From: string(order.Status), To: string(target)})
	}
	next, ok := order.Status.Next()
	if !ok || next != target {
		return nil, &utils.TransitionError{From: string(order.Status), To: string(target)}
	}

	now := s.clock.Now()
	change := models.StatusChange{
		From:      order.Status,
		To:        target,
		ChangedBy: actor,
		ChangedAt: now,
	}
	switch target {
	case models.OrderStatusServed:
		change.ServedAt = &now
	case models.OrderStatusPaid:
		if method == nil || *method == "" {
			return nil, fmt.Errorf("order %d: %w", orderID, utils.ErrMissingPaymentMethod)
		}
		if !method.Valid() {
			return nil, fmt.Errorf("%w: unknown payment method %q", utils.ErrInvalidArgument, *method)
		}
		paid := models.PaymentStatusPaid
		m := *method
		change.PaidAt = &now
		change.PaymentStatus = &paid
		change.PaymentMethod = &m
	}

	updated, err := s.orders.UpdateStatus(ctx, orderID, order.Version, change)
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"order_id": updated.ID,
		"from":     change.From,
		"to":       change.To,
		"actor":    actor,
	}).Info("order status changed")
	s.events.Publish(ctx, kds.OrderUpdated(updated))
	return updated, nil
}

// SetItemCompletion toggles the kitchen's per-line flag. It is allowed in
// every order status and never moves the order itself.
func (s *OrderService) SetItemCompletion(ctx context.Context, orderItemID uint, completed bool) (*models.OrderItem, error) {
	item, err := s.orders.FindItem(ctx, orderItemID)
	if err != nil {
		return nil, err
	}
	order, err := s.orders.FindByID(ctx, item.OrderID)
	if err != nil {
		return nil, err
	}

	updated, err := s.orders.SetItemCompleted(ctx, orderItemID, completed, s.clock.Now())
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"order_id":      updated.OrderID,
		"order_item_id": updated.ID,
		"completed":     completed,
	}).Info("order item updated")
	s.events.Publish(ctx, kds.OrderItemUpdated(order.RestaurantID, updated))
	return updated, nil
}

func (s *OrderService) Order(ctx context.Context, orderID uint) (*models.Order, error) {
	return s.orders.FindByID(ctx, orderID)
}

// Orders lists the restaurant's orders newest first, optionally filtered.
func (s *OrderService) Orders(ctx context.Context, restaurantID uint, statuses ...models.OrderStatus) ([]models.Order, error) {
	for _, st := range statuses {
		if !st.Valid() {
			return nil, fmt.Errorf("%w: unknown order status %q", utils.ErrInvalidArgument, st)
		}
	}
	return s.orders.List(ctx, restaurantID, statuses, false)
}

// KitchenQueue is every order the kitchen still has to finish or hand over,
// oldest first.
func (s *OrderService) KitchenQueue(ctx context.Context, restaurantID uint) ([]models.Order, error) {
	return s.orders.List(ctx, restaurantID, []models.OrderStatus{
		models.OrderStatusNew,
		models.OrderStatusInProgress,
		models.OrderStatusReady,
	}, true)
}

// AwaitingPayment is every served order that has not been paid yet.
func (s *OrderService) AwaitingPayment(ctx context.Context, restaurantID uint) ([]models.Order, error) {
	served, err := s.orders.List(ctx, restaurantID, []models.OrderStatus{models.OrderStatusServed}, true)
	if err != nil {
		return nil, err
	}
	out := served[:0]
	for _, o := range served {
		if o.PaymentStatus == models.PaymentStatusPending {
			out = append(out, o)
		}
	}
	return out, nil
}

// OrdersForSession finds what a customer session already submitted, which
// callers use to detect a duplicate checkout.
func (s *OrderService) OrdersForSession(ctx context.Context, restaurantID uint, customerSessionID string) ([]models.Order, error) {
	if customerSessionID == "" {
		return nil, fmt.Errorf("%w: customer session id is required", utils.ErrInvalidArgument)
	}
	return s.orders.FindBySession(ctx, restaurantID, customerSessionID)
}

func (s *OrderService) StatusHistory(ctx context.Context, orderID uint) ([]models.OrderStatusLog, error) {
	if _, err := s.orders.FindByID(ctx, orderID); err != nil {
		return nil, err
	}
	return s.orders.History(ctx, orderID)
}
