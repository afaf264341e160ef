package admin

import (
	"github.com/boutique-next/internal/http/response"
	"github.com/boutique-next/internal/repository"

	"github.com/gin-gonic/gin"
)

// Dashboard 后台概览：商品/订单/用户计数
func (h *Handler) Dashboard(c *gin.Context) {
	_, productTotal, err := h.CatalogService.List(repository.ProductListFilter{Page: 1, PageSize: 1})
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	active := true
	_, activeTotal, err := h.CatalogService.List(repository.ProductListFilter{Page: 1, PageSize: 1, IsActive: &active})
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	orderTotal, err := h.OrderService.Count()
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	userTotal, err := h.UserAuthService.CountUsers()
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, gin.H{
		"products":        productTotal,
		"active_products": activeTotal,
		"orders":          orderTotal,
		"users":           userTotal,
	})
}
