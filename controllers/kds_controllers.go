package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/yeremiapane/tableorder/kds"
	"github.com/yeremiapane/tableorder/middlewares"
	"github.com/yeremiapane/tableorder/utils"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

type KDSController struct {
	Hub      *kds.Hub
	upgrader websocket.Upgrader
}

// NewKDSController accepts websocket upgrades from any origin when
// allowedOrigin is empty.
func NewKDSController(hub *kds.Hub, allowedOrigin string) *KDSController {
	return &KDSController{
		Hub: hub,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return allowedOrigin == "" || allowedOrigin == "*" || r.Header.Get("Origin") == allowedOrigin
			},
		},
	}
}

// KDSHandler -> streams a restaurant's lifecycle events to a dashboard
func (kc *KDSController) KDSHandler(c *gin.Context) {
	restaurantID, err := strconv.ParseUint(c.Query("restaurant_id"), 10, 64)
	if err != nil || restaurantID == 0 {
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}
	role := c.GetString(middlewares.ContextRole)

	ws, err := kc.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.ErrorLogger.Printf("websocket upgrade failed: %v", err)
		return
	}
	defer ws.Close()

	closed := make(chan struct{})
	sub := kc.Hub.Subscribe(uint(restaurantID), func(ev kds.Event) {
		_ = ws.SetWriteDeadline(time.Now().Add(writeWait))
		if err := ws.WriteJSON(ev); err != nil {
			utils.ErrorLogger.Printf("Error sending %s to %s dashboard: %v", ev.Kind, role, err)
			_ = ws.Close()
		}
	})
	defer sub.Unsubscribe()
	utils.InfoLogger.Printf("%s dashboard connected to restaurant %d", role, restaurantID)

	go func() {
		defer close(closed)
		_ = ws.SetReadDeadline(time.Now().Add(pongWait))
		ws.SetPongHandler(func(string) error {
			return ws.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-closed:
			utils.InfoLogger.Printf("%s dashboard left restaurant %d", role, restaurantID)
			return
		case <-ticker.C:
			if err := ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}
