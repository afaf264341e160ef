package admin

import (
	handlershared "github.com/boutique-next/internal/http/handlers/shared"

	"github.com/gin-gonic/gin"
)

func getContextUintWithKeys(c *gin.Context, key, invalidKey, typeInvalidKey string) (uint, bool) {
	return handlershared.GetContextUintWithKeys(c, key, invalidKey, typeInvalidKey)
}

// getAdminID 读取当前管理员的用户ID，由角色中间件保证已设置。
func getAdminID(c *gin.Context) (uint, bool) {
	return getContextUintWithKeys(c, "user_id", "error.bad_request", "error.internal")
}
