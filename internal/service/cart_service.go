package service

import (
	"context"
	"errors"

	"github.com/boutique-next/internal/models"
	"github.com/boutique-next/internal/repository"

	"github.com/shopspring/decimal"
)

// CartLineDetail 购物车行详情（用于响应）。
// Available 为 false 表示商品已下架或不存在，该行不计入合计。
type CartLineDetail struct {
	ProductID uint         `json:"product_id"`
	Name      string       `json:"name"`
	UnitPrice models.Money `json:"unit_price"`
	Quantity  int          `json:"quantity"`
	LineTotal models.Money `json:"line_total"`
	Available bool         `json:"available"`
}

// CartDetail 购物车详情
type CartDetail struct {
	Lines         []CartLineDetail `json:"lines"`
	TotalQuantity int              `json:"total_quantity"`
	TotalAmount   models.Money     `json:"total_amount"`
}

// CartService 购物车服务
type CartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

// NewCartService 创建购物车服务
func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// Get 获取会话购物车详情
func (s *CartService) Get(ctx context.Context, sessionID string) (*CartDetail, error) {
	cart, err := s.cartRepo.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.buildCartDetail(cart), nil
}

// AddProduct 添加商品到购物车，已存在的行合并数量
func (s *CartService) AddProduct(ctx context.Context, sessionID string, productID uint, quantity int) (*CartDetail, error) {
	if quantity <= 0 {
		quantity = 1
	}
	product, err := s.lookupProduct(productID)
	if err != nil {
		return nil, err
	}
	if !product.IsActive {
		return nil, &ProductUnavailableError{ProductID: product.ID, ProductName: product.Name}
	}

	cart, err := s.cartRepo.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	merged := false
	requested := quantity
	for i := range cart.Lines {
		if cart.Lines[i].ProductID == productID {
			requested = cart.Lines[i].Quantity + quantity
			cart.Lines[i].Quantity = requested
			// 刷新快照，价格/名称以最新商品为准
			cart.Lines[i].Name = product.Name
			cart.Lines[i].UnitPrice = product.Price
			merged = true
			break
		}
	}
	if product.Stock < requested {
		return nil, &InsufficientStockError{
			ProductID:   product.ID,
			ProductName: product.Name,
			Requested:   requested,
			Available:   product.Stock,
		}
	}
	if !merged {
		cart.Lines = append(cart.Lines, models.CartLine{
			ProductID: product.ID,
			Name:      product.Name,
			UnitPrice: product.Price,
			Quantity:  quantity,
		})
	}

	if err := s.cartRepo.Save(ctx, cart); err != nil {
		return nil, err
	}
	return s.buildCartDetail(cart), nil
}

// UpdateQuantity 修改购物车行数量，数量为 0 时移除该行
func (s *CartService) UpdateQuantity(ctx context.Context, sessionID string, productID uint, quantity int) (*CartDetail, error) {
	if quantity < 0 {
		return nil, ErrInvalidQuantity
	}
	cart, err := s.cartRepo.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i := range cart.Lines {
		if cart.Lines[i].ProductID == productID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, ErrProductNotFound
	}

	if quantity == 0 {
		cart.Lines = append(cart.Lines[:idx], cart.Lines[idx+1:]...)
	} else {
		product, err := s.lookupProduct(productID)
		if err != nil {
			return nil, err
		}
		if product.Stock < quantity {
			return nil, &InsufficientStockError{
				ProductID:   product.ID,
				ProductName: product.Name,
				Requested:   quantity,
				Available:   product.Stock,
			}
		}
		cart.Lines[idx].Quantity = quantity
	}

	if err := s.cartRepo.Save(ctx, cart); err != nil {
		return nil, err
	}
	return s.buildCartDetail(cart), nil
}

// RemoveProduct 移除购物车行，行不存在时按幂等处理
func (s *CartService) RemoveProduct(ctx context.Context, sessionID string, productID uint) (*CartDetail, error) {
	detail, err := s.UpdateQuantity(ctx, sessionID, productID, 0)
	if errors.Is(err, ErrProductNotFound) {
		return s.Get(ctx, sessionID)
	}
	return detail, err
}

// Clear 清空购物车
func (s *CartService) Clear(ctx context.Context, sessionID string) error {
	return s.cartRepo.Clear(ctx, sessionID)
}

func (s *CartService) lookupProduct(productID uint) (*models.Product, error) {
	if productID == 0 {
		return nil, ErrProductNotFound
	}
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		if isRecordNotFound(err) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

// buildCartDetail 以最新商品数据渲染购物车。
// 已下架或已删除商品的行保留快照并标记不可用，合计只统计可用行。
func (s *CartService) buildCartDetail(cart *models.Cart) *CartDetail {
	detail := &CartDetail{Lines: make([]CartLineDetail, 0, len(cart.Lines))}
	total := models.Money{}
	for _, line := range cart.Lines {
		item := CartLineDetail{
			ProductID: line.ProductID,
			Name:      line.Name,
			UnitPrice: line.UnitPrice,
			Quantity:  line.Quantity,
		}
		if product, err := s.lookupProduct(line.ProductID); err == nil && product.IsActive {
			item.Available = true
			item.Name = product.Name
			item.UnitPrice = product.Price
		}
		item.LineTotal = models.NewMoneyFromDecimal(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
		detail.Lines = append(detail.Lines, item)
		if item.Available {
			detail.TotalQuantity += item.Quantity
			total = models.NewMoneyFromDecimal(total.Add(item.LineTotal.Decimal))
		}
	}
	detail.TotalAmount = total
	return detail
}
