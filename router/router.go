package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/tableorder/controllers"
	"github.com/yeremiapane/tableorder/kds"
	"github.com/yeremiapane/tableorder/middlewares"
	"github.com/yeremiapane/tableorder/services"
)

// Deps is everything the HTTP surface needs.
type Deps struct {
	Sessions      *services.SessionService
	Orders        *services.OrderService
	Menu          *services.MenuService
	Hub           *kds.Hub
	JWTSecret     []byte
	AllowedOrigin string
	// CheckoutLimiter throttles public checkout per client IP. Nil disables it.
	CheckoutLimiter *middlewares.RateLimiter
}

func SetupRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.LoggerMiddleware())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares(d.AllowedOrigin))

	menuCtrl := controllers.NewMenuController(d.Menu)
	sessionCtrl := controllers.NewSessionController(d.Sessions)
	orderCtrl := controllers.NewOrderController(d.Orders, d.Menu)
	kdsCtrl := controllers.NewKDSController(d.Hub, d.AllowedOrigin)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// Customer
	checkout := []gin.HandlerFunc{}
	if d.CheckoutLimiter != nil {
		checkout = append(checkout, d.CheckoutLimiter.RateLimit())
	}
	checkout = append(checkout, orderCtrl.Checkout)

	restaurants := r.Group("/restaurants/:restaurant_id")
	{
		restaurants.GET("/menu", menuCtrl.GetMenu)
		restaurants.GET("/tables/:table_number/session", sessionCtrl.GetTableSession)
		restaurants.POST("/tables/:table_number/orders", checkout...)
		restaurants.GET("/customer-sessions/:session_id/orders", orderCtrl.SessionOrders)
	}
	r.GET("/orders/:order_id", orderCtrl.GetOrder)

	// Staff
	staff := r.Group("/staff", middlewares.StaffAuth(d.JWTSecret))
	{
		floor := staff.Group("", middlewares.RequireRoles(middlewares.RoleStaff))
		floor.GET("/restaurants/:restaurant_id/sessions", sessionCtrl.ListSessions)
		floor.POST("/restaurants/:restaurant_id/sessions/activate", sessionCtrl.BulkActivate)
		floor.POST("/restaurants/:restaurant_id/sessions/deactivate", sessionCtrl.BulkDeactivate)
		floor.POST("/tables/:table_id/session/activate", sessionCtrl.Activate)
		floor.POST("/tables/:table_id/session/deactivate", sessionCtrl.Deactivate)
		floor.POST("/tables/:table_id/session/extend", sessionCtrl.Extend)
		floor.GET("/restaurants/:restaurant_id/awaiting-payment", orderCtrl.AwaitingPayment)

		crew := staff.Group("", middlewares.RequireRoles(middlewares.RoleStaff, middlewares.RoleChef))
		crew.GET("/restaurants/:restaurant_id/orders", orderCtrl.ListOrders)
		crew.GET("/restaurants/:restaurant_id/kitchen", orderCtrl.KitchenQueue)
		crew.POST("/orders/:order_id/transition", orderCtrl.Transition)
		crew.GET("/orders/:order_id/history", orderCtrl.History)
		crew.PATCH("/order-items/:item_id", orderCtrl.UpdateItem)
	}

	r.GET("/ws",
		middlewares.StaffAuth(d.JWTSecret),
		middlewares.RequireRoles(middlewares.RoleStaff, middlewares.RoleChef),
		kdsCtrl.KDSHandler,
	)

	return r
}
