package public

import (
	"github.com/boutique-next/internal/constants"
	"github.com/boutique-next/internal/models"

	handlershared "github.com/boutique-next/internal/http/handlers/shared"

	"github.com/gin-gonic/gin"
)

func getContextUintWithKeys(c *gin.Context, key, invalidKey, typeInvalidKey string) (uint, bool) {
	return handlershared.GetContextUintWithKeys(c, key, invalidKey, typeInvalidKey)
}

func getUserID(c *gin.Context) (uint, bool) {
	return getContextUintWithKeys(c, "user_id", "error.bad_request", "error.internal")
}

// getOptionalUser 读取可选登录用户，匿名访问时返回 nil。
func getOptionalUser(c *gin.Context) *models.User {
	value, exists := c.Get("user")
	if !exists {
		return nil
	}
	if user, ok := value.(*models.User); ok {
		return user
	}
	return nil
}

// getCartSessionID 读取购物车会话标识，由中间件保证存在。
func getCartSessionID(c *gin.Context) string {
	if sid := handlershared.GetContextString(c, "cart_session_id"); sid != "" {
		return sid
	}
	cookie, err := c.Cookie(constants.CartSessionCookie)
	if err != nil {
		return ""
	}
	return cookie
}
