package public

import (
	"errors"
	"strconv"

	"github.com/boutique-next/internal/http/response"
	"github.com/boutique-next/internal/models"
	"github.com/boutique-next/internal/service"

	"github.com/gin-gonic/gin"
)

// ProductResponse 店面商品响应
type ProductResponse struct {
	ID          uint         `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Price       models.Money `json:"price"`
	Image       string       `json:"image"`
	Stock       int          `json:"stock"`
	InStock     bool         `json:"in_stock"`
}

func buildProductResponse(p models.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Image:       p.Image,
		Stock:       p.Stock,
		InStock:     p.Stock > 0,
	}
}

// ListProducts 店面商品列表（仅上架，按创建时间倒序）
func (h *Handler) ListProducts(c *gin.Context) {
	products, err := h.CatalogService.ListActive()
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	items := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		items = append(items, buildProductResponse(p))
	}
	response.Success(c, gin.H{"items": items})
}

// GetProduct 店面商品详情
func (h *Handler) GetProduct(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	product, err := h.CatalogService.GetByID(uint(id))
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			respondError(c, response.CodeNotFound, "error.product_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	if !product.IsActive {
		respondError(c, response.CodeNotFound, "error.product_not_found", nil)
		return
	}
	response.Success(c, buildProductResponse(*product))
}
