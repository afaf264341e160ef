package service

import (
	"errors"
	"strings"

	"github.com/boutique-next/internal/logger"
	"github.com/boutique-next/internal/models"
	"github.com/boutique-next/internal/repository"

	"gorm.io/gorm"
)

// ProductInput 商品创建/更新输入
type ProductInput struct {
	Name        string
	Description string
	Price       models.Money
	Stock       int
	IsActive    bool
	Image       string
}

// CatalogService 商品目录服务
type CatalogService struct {
	productRepo repository.ProductRepository
	uploads     *UploadService
}

// NewCatalogService 创建商品目录服务
func NewCatalogService(productRepo repository.ProductRepository, uploads *UploadService) *CatalogService {
	return &CatalogService{productRepo: productRepo, uploads: uploads}
}

// ListActive 店面商品列表（仅上架，按创建时间倒序）
func (s *CatalogService) ListActive() ([]models.Product, error) {
	return s.productRepo.ListActive()
}

// List 后台商品列表（含下架）
func (s *CatalogService) List(filter repository.ProductListFilter) ([]models.Product, int64, error) {
	return s.productRepo.List(filter)
}

// GetByID 按主键查询商品
func (s *CatalogService) GetByID(id uint) (*models.Product, error) {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

// Create 创建商品
func (s *CatalogService) Create(input ProductInput) (*models.Product, error) {
	if err := validateProductInput(&input); err != nil {
		return nil, err
	}
	// 价格为必填项，零值视为未填写
	if input.Price.IsZero() {
		return nil, ErrInvalidPrice
	}
	product := &models.Product{
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Stock:       input.Stock,
		IsActive:    input.IsActive,
		Image:       input.Image,
	}
	if err := s.productRepo.Create(product); err != nil {
		return nil, err
	}
	// IsActive 带列默认值，创建即下架的商品需要显式写回 false
	if !input.IsActive {
		product.IsActive = false
		if err := s.productRepo.Update(product); err != nil {
			return nil, err
		}
	}
	return product, nil
}

// Update 更新商品
func (s *CatalogService) Update(id uint, input ProductInput) (*models.Product, error) {
	if err := validateProductInput(&input); err != nil {
		return nil, err
	}
	product, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	product.Name = input.Name
	product.Description = input.Description
	product.Price = input.Price
	product.Stock = input.Stock
	product.IsActive = input.IsActive
	if input.Image != "" {
		product.Image = input.Image
	}
	if err := s.productRepo.Update(product); err != nil {
		return nil, err
	}
	return product, nil
}

// Delete 删除商品
func (s *CatalogService) Delete(id uint) error {
	product, err := s.GetByID(id)
	if err != nil {
		return err
	}
	if err := s.productRepo.Delete(id); err != nil {
		return err
	}
	// 图片清理为尽力而为，失败不影响删除结果
	if product.Image != "" && s.uploads != nil {
		if err := s.uploads.RemoveFile(product.Image); err != nil {
			logger.Warnw("product_image_remove_failed", "product_id", id, "image", product.Image, "error", err)
		}
	}
	return nil
}

// SetActive 上架/下架
func (s *CatalogService) SetActive(id uint, active bool) (*models.Product, error) {
	product, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	product.IsActive = active
	if err := s.productRepo.Update(product); err != nil {
		return nil, err
	}
	return product, nil
}

// AdjustStock 后台库存调整，结果库存不允许为负
func (s *CatalogService) AdjustStock(id uint, delta int) (*models.Product, error) {
	if delta == 0 {
		return s.GetByID(id)
	}
	affected, err := s.productRepo.AdjustStock(id, delta)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		product, getErr := s.GetByID(id)
		if getErr != nil {
			return nil, getErr
		}
		return nil, &InsufficientStockError{
			ProductID:   product.ID,
			ProductName: product.Name,
			Requested:   -delta,
			Available:   product.Stock,
		}
	}
	return s.GetByID(id)
}

func validateProductInput(input *ProductInput) error {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return ErrValidation
	}
	if input.Price.IsNegative() {
		return ErrInvalidPrice
	}
	if input.Stock < 0 {
		return ErrValidation
	}
	return nil
}
