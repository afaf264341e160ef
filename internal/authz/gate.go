package authz

import (
	"strings"

	"github.com/boutique-next/internal/constants"
)

// NormalizeRole 归一化角色值，未知角色一律按普通用户处理
func NormalizeRole(role string) string {
	switch strings.ToLower(strings.TrimSpace(role)) {
	case constants.RoleAdmin:
		return constants.RoleAdmin
	default:
		return constants.RoleUser
	}
}

// IsAdmin 判断角色是否具有管理员权限
func IsAdmin(role string) bool {
	return NormalizeRole(role) == constants.RoleAdmin
}

// RequireAuthenticated 判断是否已登录（userID 非零）
func RequireAuthenticated(userID uint) bool {
	return userID > 0
}

// RequireAdmin 后台访问判定：已登录且角色为管理员
func RequireAdmin(userID uint, role string) bool {
	return RequireAuthenticated(userID) && IsAdmin(role)
}
