package admin

import (
	"strconv"
	"strings"

	handlershared "github.com/boutique-next/internal/http/handlers/shared"
	"github.com/boutique-next/internal/http/response"
	"github.com/boutique-next/internal/i18n"
	"github.com/boutique-next/internal/repository"

	"github.com/gin-gonic/gin"
)

// ListUsers 后台用户列表
func (h *Handler) ListUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	filter := repository.UserListFilter{
		Page:     page,
		PageSize: pageSize,
		Keyword:  c.Query("keyword"),
		Role:     c.Query("role"),
	}
	if raw := strings.TrimSpace(c.Query("is_active")); raw != "" {
		active := raw == "true" || raw == "1"
		filter.IsActive = &active
	}

	users, total, err := h.UserAuthService.ListUsers(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.SuccessWithPage(c, gin.H{"items": users}, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: handlershared.BuildTotalPage(total, pageSize),
	})
}

// GetUser 后台用户详情
func (h *Handler) GetUser(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	user, err := h.UserAuthService.GetByID(id)
	if err != nil {
		respondWithMappedError(c, err, userAdminErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, user)
}

// SetUserRole 设置用户角色（user/admin）
func (h *Handler) SetUserRole(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req struct {
		Role string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	user, err := h.UserAuthService.SetRole(c.Request.Context(), id, req.Role)
	if err != nil {
		respondWithMappedError(c, err, userAdminErrorRules, response.CodeInternal, "error.internal")
		return
	}
	requestLog(c).Infow("admin_user_role_changed", "target_user_id", id, "role", user.Role)
	response.SuccessWithMsg(c, i18n.T(i18n.ResolveLocale(c), "user.updated"), user)
}

// SetUserActive 启用/禁用用户
func (h *Handler) SetUserActive(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req struct {
		IsActive *bool `json:"is_active" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.IsActive == nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	user, err := h.UserAuthService.SetActive(c.Request.Context(), id, *req.IsActive)
	if err != nil {
		respondWithMappedError(c, err, userAdminErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.SuccessWithMsg(c, i18n.T(i18n.ResolveLocale(c), "user.updated"), user)
}

// DeleteUser 删除用户，禁止删除自己
func (h *Handler) DeleteUser(c *gin.Context) {
	operatorID, ok := getAdminID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := h.UserAuthService.DeleteUser(c.Request.Context(), id, operatorID); err != nil {
		respondWithMappedError(c, err, userAdminErrorRules, response.CodeInternal, "error.internal")
		return
	}
	requestLog(c).Infow("admin_user_deleted", "target_user_id", id, "operator_id", operatorID)
	response.SuccessWithMsg(c, i18n.T(i18n.ResolveLocale(c), "user.deleted"), gin.H{"deleted": true})
}
