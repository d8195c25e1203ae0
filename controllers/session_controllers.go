package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/tableorder/middlewares"
	"github.com/yeremiapane/tableorder/services"
	"github.com/yeremiapane/tableorder/utils"
)

type SessionController struct {
	Sessions *services.SessionService
}

func NewSessionController(sessions *services.SessionService) *SessionController {
	return &SessionController{Sessions: sessions}
}

// activateRequest carries no activator; the session is recorded against the
// staff name in the token.
type activateRequest struct {
	// DurationMinutes of zero opens a session without expiry.
	DurationMinutes int `json:"duration_minutes"`
}

type extendRequest struct {
	AdditionalMinutes int `json:"additional_minutes" binding:"required"`
}

// GetTableSession -> lets the customer page know whether it may take orders
func (sc *SessionController) GetTableSession(c *gin.Context) {
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

	view, err := sc.Sessions.TableSession(c.Request.Context(), restaurantID, number)
	if err != nil {
		utils.RespondFailure(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table session", view)
}

func (sc *SessionController) ListSessions(c *gin.Context) {
	restaurantID, err := uintParam(c, "restaurant_id")
	if err != nil {
		utils.RespondFailure(c, err)
		return
	}

	overview, err := sc.Sessions.Sessions(c.Request.Context(), restaurantID)
	if err != nil {
		utils.RespondFailure(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table sessions", overview)
}

func (sc *SessionController) Activate(c *gin.Context) {
	tableID, err := uintParam(c, "table_id")
	if err != nil {
		utils.RespondFailure(c, err)
		return
	}
	var req activateRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}

	table, err := sc.Sessions.Activate(c.Request.Context(), tableID, middlewares.StaffName(c), time.Duration(req.DurationMinutes)*time.Minute)
	if err != nil {
		utils.RespondFailure(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table session activated", table)
}

func (sc *SessionController) Deactivate(c *gin.Context) {
	tableID, err := uintParam(c, "table_id")
	if err != nil {
		utils.RespondFailure(c, err)
		return
	}

	table, err := sc.Sessions.Deactivate(c.Request.Context(), tableID)
	if err != nil {
		utils.RespondFailure(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table session deactivated", table)
}

func (sc *SessionController) Extend(c *gin.Context) {
	tableID, err := uintParam(c, "table_id")
	if err != nil {
		utils.RespondFailure(c, err)
		return
	}
	var req extendRequest
	if !bindJSON(c, &req) {
		return
	}

	table, err := sc.Sessions.Extend(c.Request.Context(), tableID, time.Duration(req.AdditionalMinutes)*time.Minute)
	if err != nil {
		utils.RespondFailure(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table session extended", table)
}

// BulkActivate answers 200 with per-table results even when some failed.
func (sc *SessionController) BulkActivate(c *gin.Context) {
	restaurantID, err := uintParam(c, "restaurant_id")
	if err != nil {
		utils.RespondFailure(c, err)
		return
	}
	var req activateRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}

	results, err := sc.Sessions.BulkActivate(c.Request.Context(), restaurantID, time.Duration(req.DurationMinutes)*time.Minute, middlewares.StaffName(c))
	if err != nil {
		utils.RespondFailure(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Bulk activation finished", results)
}

func (sc *SessionController) BulkDeactivate(c *gin.Context) {
	restaurantID, err := uintParam(c, "restaurant_id")
	if err != nil {
		utils.RespondFailure(c, err)
		return
	}

	results, err := sc.Sessions.BulkDeactivate(c.Request.Context(), restaurantID)
	if err != nil {
		utils.RespondFailure(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Bulk deactivation finished", results)
}
