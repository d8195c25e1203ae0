package middlewares

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/tableorder/utils"
)

const (
	ContextRole      = "role"
	ContextStaffName = "staff_name"
)

// StaffAuth verifies the staff bearer token. Browsers cannot set headers on
// websocket upgrades, so a token query parameter is accepted as well.
func StaffAuth(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := c.Query("token")
		if header := c.GetHeader("Authorization"); header != "" {
			if !strings.HasPrefix(header, "Bearer ") {
				utils.RespondError(c, http.StatusUnauthorized, errors.New("authorization header must use the Bearer scheme"))
				c.Abort()
				return
			}
			tokenString = strings.TrimPrefix(header, "Bearer ")
		}

		if tokenString == "" {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("authorization token missing"))
			c.Abort()
			return
		}

		claims, err := utils.ValidateToken(secret, tokenString)
		if err != nil {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid or expired token"))
			c.Abort()
			return
		}

		c.Set(ContextStaffName, claims.StaffName)
		c.Set(ContextRole, claims.Role)
		c.Next()
	}
}

// StaffName is the authenticated actor label, used for audit fields.
func StaffName(c *gin.Context) string {
	name := c.GetString(ContextStaffName)
	if name == "" {
		return c.GetString(ContextRole)
	}
	return name
}
