package admin

import (
	"strconv"

	handlershared "github.com/boutique-next/internal/http/handlers/shared"
	"github.com/boutique-next/internal/http/response"
	"github.com/boutique-next/internal/i18n"
	"github.com/boutique-next/internal/repository"

	"github.com/gin-gonic/gin"
)

// ListOrders 后台订单列表
func (h *Handler) ListOrders(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	filter := repository.OrderListFilter{
		Page:         page,
		PageSize:     pageSize,
		CustomerName: c.Query("customer_name"),
	}
	if raw := c.Query("product_id"); raw != "" {
		if pid, err := strconv.ParseUint(raw, 10, 64); err == nil {
			filter.ProductID = uint(pid)
		}
	}

	orders, total, err := h.OrderService.List(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.SuccessWithPage(c, gin.H{"items": orders}, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: handlershared.BuildTotalPage(total, pageSize),
	})
}

// GetOrder 后台订单详情
func (h *Handler) GetOrder(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	order, err := h.OrderService.GetByID(id)
	if err != nil {
		respondWithMappedError(c, err, orderAdminErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, order)
}

// UpdateOrder 修正订单（数量或客户名称）
func (h *Handler) UpdateOrder(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req struct {
		Quantity     *int    `json:"quantity"`
		CustomerName *string `json:"customer_name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if req.Quantity == nil && req.CustomerName == nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	if req.Quantity != nil {
		if _, err := h.OrderService.UpdateQuantity(id, *req.Quantity); err != nil {
			respondWithMappedError(c, err, orderAdminErrorRules, response.CodeInternal, "error.internal")
			return
		}
	}
	if req.CustomerName != nil {
		if _, err := h.OrderService.UpdateCustomerName(id, *req.CustomerName); err != nil {
			respondWithMappedError(c, err, orderAdminErrorRules, response.CodeInternal, "error.internal")
			return
		}
	}
	order, err := h.OrderService.GetByID(id)
	if err != nil {
		respondWithMappedError(c, err, orderAdminErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.SuccessWithMsg(c, i18n.T(i18n.ResolveLocale(c), "order.updated"), order)
}

// DeleteOrder 删除订单
func (h *Handler) DeleteOrder(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := h.OrderService.Delete(id); err != nil {
		respondWithMappedError(c, err, orderAdminErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.SuccessWithMsg(c, i18n.T(i18n.ResolveLocale(c), "order.deleted"), gin.H{"deleted": true})
}

// DeleteAllOrders 清空全部订单
func (h *Handler) DeleteAllOrders(c *gin.Context) {
	deleted, err := h.OrderService.DeleteAll()
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	requestLog(c).Infow("admin_orders_purged", "count", deleted)
	response.SuccessWithMsg(c, i18n.T(i18n.ResolveLocale(c), "order.deleted"), gin.H{"deleted_count": deleted})
}
