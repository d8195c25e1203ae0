package controllers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/tableorder/middlewares"
	"github.com/yeremiapane/tableorder/models"
	"github.com/yeremiapane/tableorder/services"
	"github.com/yeremiapane/tableorder/utils"
)

type OrderController struct {
	Orders *services.OrderService
	Menu   *services.MenuService
}

func NewOrderController(orders *services.OrderService, menu *services.MenuService) *OrderController {
	return &OrderController{Orders: orders, Menu: menu}
}

type checkoutRequest struct {
	CustomerSessionID   string              `json:"customer_session_id"`
	SpecialInstructions string              `json:"special_instructions"`
	Items               []services.CartLine `json:"items" binding:"dive"`
}

type transitionRequest struct {
	Status        models.OrderStatus    `json:"status" binding:"required"`
	PaymentMethod *models.PaymentMethod `json:"payment_method"`
}

type itemCompletionRequest struct {
	IsCompleted *bool `json:"is_completed" binding:"required"`
}

// Checkout -> customer submits the cart of one table
func (oc *OrderController) Checkout(c *gin.Context) {
	restaurantID, err := uintParam(c, "restaurant_id")
	if err != nil {
		utils.RespondFailure(c, err)
		return
	}
	number, err := intParam(c, "table_number")
	if err != nil {
		utils.RespondFailure(c, err)
		return
	}
	var req checkoutRequest
	if !bindJSON(c, &req) {
		return
	}
	if len(req.Items) == 0 {
		utils.RespondFailure(c, utils.ErrEmptyCart)
		return
	}

	ctx := c.Request.Context()
	cart, err := oc.Menu.BuildCart(ctx, restaurantID, number, req.CustomerSessionID, req.Items)
	if err != nil {
		utils.RespondFailure(c, err)
		return
	}

	order, err := oc.Orders.Submit(ctx, cart, req.SpecialInstructions)
	if err != nil {
		utils.RespondFailure(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Order placed", order)
}

func (oc *OrderController) GetOrder(c *gin.Context) {
	orderID, err := uintParam(c, "order_id")
	if err != nil {
		utils.RespondFailure(c, err)
		return
	}

	order, err := oc.Orders.Order(c.Request.Context(), orderID)
	if err != nil {
		utils.RespondFailure(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order", order)
}

// SessionOrders -> what one customer session already placed
func (oc *OrderController) SessionOrders(c *gin.Context) {
	restaurantID, err := uintParam(c, "restaurant_id")
	if err != nil {
		utils.RespondFailure(c, err)
		return
	}

	orders, err := oc.Orders.OrdersForSession(c.Request.Context(), restaurantID, c.Param("session_id"))
	if err != nil {
		utils.RespondFailure(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Session orders", orders)
}

// ListOrders accepts ?status=new,in_progress to filter.
func (oc *OrderController) ListOrders(c *gin.Context) {
	restaurantID, err := uintParam(c, "restaurant_id")
	if err != nil {
		utils.RespondFailure(c, err)
		return
	}

	var statuses []models.OrderStatus
	if raw := c.Query("status"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			statuses = append(statuses, models.OrderStatus(strings.TrimSpace(s)))
		}
	}

	orders, err := oc.Orders.Orders(c.Request.Context(), restaurantID, statuses...)
	if err != nil {
		utils.RespondFailure(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of orders", orders)
}

func (oc *OrderController) KitchenQueue(c *gin.Context) {
	restaurantID, err := uintParam(c, "restaurant_id")
	if err != nil {
		utils.RespondFailure(c, err)
		return
	}

	orders, err := oc.Orders.KitchenQueue(c.Request.Context(), restaurantID)
	if err != nil {
		utils.RespondFailure(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Kitchen queue", orders)
}

func (oc *OrderController) AwaitingPayment(c *gin.Context) {
	restaurantID, err := uintParam(c, "restaurant_id")
	if err != nil {
		utils.RespondFailure(c, err)
		return
	}

	orders, err := oc.Orders.AwaitingPayment(c.Request.Context(), restaurantID)
	if err != nil {
		utils.RespondFailure(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Orders awaiting payment", orders)
}

func (oc *OrderController) Transition(c *gin.Context) {
	orderID, err := uintParam(c, "order_id")
	if err != nil {
		utils.RespondFailure(c, err)
		return
	}
	var req transitionRequest
	if !bindJSON(c, &req) {
		return
	}

	order, err := oc.Orders.Transition(c.Request.Context(), orderID, req.Status, req.PaymentMethod, middlewares.StaffName(c))
	if err != nil {
		utils.RespondFailure(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, fmt.Sprintf("Order is now %s", order.Status), order)
}

func (oc *OrderController) History(c *gin.Context) {
	orderID, err := uintParam(c, "order_id")
	if err != nil {
		utils.RespondFailure(c, err)
		return
	}

	history, err := oc.Orders.StatusHistory(c.Request.Context(), orderID)
	if err != nil {
		utils.RespondFailure(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order history", history)
}

// UpdateItem -> kitchen ticks a line off
func (oc *OrderController) UpdateItem(c *gin.Context) {
	itemID, err := uintParam(c, "item_id")
	if err != nil {
		utils.RespondFailure(c, err)
		return
	}
	var req itemCompletionRequest
	if !bindJSON(c, &req) {
		return
	}

	item, err := oc.Orders.SetItemCompletion(c.Request.Context(), itemID, *req.IsCompleted)
	if err != nil {
		utils.RespondFailure(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order item updated", item)
}
