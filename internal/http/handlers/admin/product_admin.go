package admin

import (
	"strconv"
	"strings"

	handlershared "github.com/boutique-next/internal/http/handlers/shared"
	"github.com/boutique-next/internal/constants"
	"github.com/boutique-next/internal/http/response"
	"github.com/boutique-next/internal/i18n"
	"github.com/boutique-next/internal/models"
	"github.com/boutique-next/internal/repository"
	"github.com/boutique-next/internal/service"

	"github.com/gin-gonic/gin"
)

// ListProducts 后台商品列表（含下架商品）
func (h *Handler) ListProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	filter := repository.ProductListFilter{
		Page:     page,
		PageSize: pageSize,
		Search:   c.Query("search"),
	}
	if raw := strings.TrimSpace(c.Query("is_active")); raw != "" {
		active := raw == "true" || raw == "1"
		filter.IsActive = &active
	}

	products, total, err := h.CatalogService.List(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.SuccessWithPage(c, gin.H{"items": products}, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: handlershared.BuildTotalPage(total, pageSize),
	})
}

// GetProduct 后台商品详情
func (h *Handler) GetProduct(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	product, err := h.CatalogService.GetByID(id)
	if err != nil {
		respondWithMappedError(c, err, productAdminErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, product)
}

// CreateProduct 创建商品（multipart：nom/description/prix/stock/actif + image）
func (h *Handler) CreateProduct(c *gin.Context) {
	input, ok := h.bindProductForm(c, nil)
	if !ok {
		return
	}
	product, err := h.CatalogService.Create(*input)
	if err != nil {
		respondWithMappedError(c, err, productAdminErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.SuccessWithMsg(c, i18n.T(i18n.ResolveLocale(c), "product.created"), product)
}

// UpdateProduct 更新商品（multipart，image 可选，不传则保留原图）
func (h *Handler) UpdateProduct(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	existing, err := h.CatalogService.GetByID(id)
	if err != nil {
		respondWithMappedError(c, err, productAdminErrorRules, response.CodeInternal, "error.internal")
		return
	}
	input, ok := h.bindProductForm(c, existing)
	if !ok {
		return
	}
	product, err := h.CatalogService.Update(id, *input)
	if err != nil {
		respondWithMappedError(c, err, productAdminErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.SuccessWithMsg(c, i18n.T(i18n.ResolveLocale(c), "product.updated"), product)
}

// DeleteProduct 删除商品
func (h *Handler) DeleteProduct(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := h.CatalogService.Delete(id); err != nil {
		respondWithMappedError(c, err, productAdminErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.SuccessWithMsg(c, i18n.T(i18n.ResolveLocale(c), "product.deleted"), gin.H{"deleted": true})
}

// AdjustProductStock 调整库存（正负均可）
func (h *Handler) AdjustProductStock(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req struct {
		Delta int `json:"delta" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	product, err := h.CatalogService.AdjustStock(id, req.Delta)
	if err != nil {
		respondWithMappedError(c, err, productAdminErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, product)
}

// bindProductForm 解析后台商品表单。表单字段沿用店面历史命名：
// nom（名称）、description、prix（价格）、stock、actif（是否上架）。
func (h *Handler) bindProductForm(c *gin.Context, existing *models.Product) (*service.ProductInput, bool) {
	input := &service.ProductInput{}
	if existing != nil {
		input.Name = existing.Name
		input.Description = existing.Description
		input.Price = existing.Price
		input.Stock = existing.Stock
		input.IsActive = existing.IsActive
	}

	if v, exists := c.GetPostForm("nom"); exists {
		input.Name = v
	}
	if v, exists := c.GetPostForm("description"); exists {
		input.Description = v
	}
	if v, exists := c.GetPostForm("prix"); exists {
		price, err := models.NewMoneyFromString(strings.TrimSpace(v))
		if err != nil {
			respondError(c, response.CodeBadRequest, "error.invalid_price", nil)
			return nil, false
		}
		input.Price = price
	}
	if v, exists := c.GetPostForm("stock"); exists {
		stock, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil || stock < 0 {
			respondError(c, response.CodeBadRequest, "error.bad_request", nil)
			return nil, false
		}
		input.Stock = stock
	}
	if v, exists := c.GetPostForm("actif"); exists {
		input.IsActive = v == "1" || strings.EqualFold(v, "true") || strings.EqualFold(v, "on")
	} else if existing == nil {
		input.IsActive = true
	}

	if file, err := c.FormFile("image"); err == nil && file != nil {
		path, err := h.UploadService.SaveFile(file, constants.UploadSceneProduct)
		if err != nil {
			respondWithMappedError(c, err, productAdminErrorRules, response.CodeInternal, "error.internal")
			return nil, false
		}
		input.Image = path
	}
	return input, true
}

func parseIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return 0, false
	}
	return uint(id), true
}
