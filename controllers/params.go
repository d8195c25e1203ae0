package controllers

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/tableorder/utils"
)

func uintParam(c *gin.Context, name string) (uint, error) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", utils.ErrInvalidArgument, name)
	}
	return uint(v), nil
}

func intParam(c *gin.Context, name string) (int, error) {
	v, err := strconv.Atoi(c.Param(name))
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", utils.ErrInvalidArgument, name)
	}
	return v, nil
}

// bindJSON binds the request body and answers 400 on failure.
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		utils.RespondFailure(c, fmt.Errorf("%w: %v", utils.ErrInvalidArgument, err))
		return false
	}
	return true
}
