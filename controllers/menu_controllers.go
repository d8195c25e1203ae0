package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/tableorder/services"
	"github.com/yeremiapane/tableorder/utils"
)

type MenuController struct {
	Menu *services.MenuService
}

func NewMenuController(menu *services.MenuService) *MenuController {
	return &MenuController{Menu: menu}
}

// GetMenu -> customer facing menu of one restaurant
func (mc *MenuController) GetMenu(c *gin.Context) {
	restaurantID, err := uintParam(c, "restaurant_id")
	if err != nil {
		utils.RespondFailure(c, err)
		return
	}

	restaurant, categories, err := mc.Menu.CustomerMenu(c.Request.Context(), restaurantID)
	if err != nil {
		utils.RespondFailure(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Menu", gin.H{
		"restaurant": restaurant,
		"categories": categories,
	})
}
