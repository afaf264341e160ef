package public

import (
	"strconv"

	"github.com/boutique-next/internal/http/response"
	"github.com/boutique-next/internal/i18n"

	"github.com/gin-gonic/gin"
)

// AddToCartRequest 加购请求
type AddToCartRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity"`
}

// UpdateCartLineRequest 购物车行数量修改请求
type UpdateCartLineRequest struct {
	Quantity int `json:"quantity"`
}

// GetCart 获取购物车
func (h *Handler) GetCart(c *gin.Context) {
	sid := getCartSessionID(c)
	cart, err := h.CartService.Get(c.Request.Context(), sid)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, cart)
}

// AddToCart 添加商品到购物车，重复添加合并数量
func (h *Handler) AddToCart(c *gin.Context) {
	sid := getCartSessionID(c)
	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	cart, err := h.CartService.AddProduct(c.Request.Context(), sid, req.ProductID, req.Quantity)
	if err != nil {
		respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.SuccessWithMsg(c, i18n.T(i18n.ResolveLocale(c), "cart.added"), cart)
}

// UpdateCartLine 修改购物车行数量，0 表示移除
func (h *Handler) UpdateCartLine(c *gin.Context) {
	sid := getCartSessionID(c)
	productID, err := strconv.ParseUint(c.Param("productId"), 10, 64)
	if err != nil || productID == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	var req UpdateCartLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	cart, err := h.CartService.UpdateQuantity(c.Request.Context(), sid, uint(productID), req.Quantity)
	if err != nil {
		respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, cart)
}

// RemoveCartLine 移除购物车行
func (h *Handler) RemoveCartLine(c *gin.Context) {
	sid := getCartSessionID(c)
	productID, err := strconv.ParseUint(c.Param("productId"), 10, 64)
	if err != nil || productID == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	cart, err := h.CartService.RemoveProduct(c.Request.Context(), sid, uint(productID))
	if err != nil {
		respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, cart)
}

// ClearCart 清空购物车
func (h *Handler) ClearCart(c *gin.Context) {
	sid := getCartSessionID(c)
	if err := h.CartService.Clear(c.Request.Context(), sid); err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.SuccessWithMsg(c, i18n.T(i18n.ResolveLocale(c), "cart.cleared"), gin.H{"cleared": true})
}
