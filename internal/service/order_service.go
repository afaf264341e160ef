package service

import (
	"github.com/boutique-next/internal/constants"
	"github.com/boutique-next/internal/models"
	"github.com/boutique-next/internal/repository"

	"github.com/shopspring/decimal"
)

// OrderService 订单服务
type OrderService struct {
	orderRepo repository.OrderRepository
}

// NewOrderService 创建订单服务
func NewOrderService(orderRepo repository.OrderRepository) *OrderService {
	return &OrderService{orderRepo: orderRepo}
}

// List 后台订单列表
func (s *OrderService) List(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	return s.orderRepo.List(filter)
}

// ListAll 全部订单（按下单时间倒序）
func (s *OrderService) ListAll() ([]models.Order, error) {
	return s.orderRepo.ListAll()
}

// ListByUser 用户自己的订单
func (s *OrderService) ListByUser(userID uint, page, pageSize int) ([]models.Order, int64, error) {
	if userID == 0 {
		return nil, 0, ErrOrderNotFound
	}
	return s.orderRepo.List(repository.OrderListFilter{
		Page:     page,
		PageSize: pageSize,
		UserID:   userID,
	})
}

// GetByID 按主键查询订单
func (s *OrderService) GetByID(id uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		if isRecordNotFound(err) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

// GetForUser 查询订单并校验归属
func (s *OrderService) GetForUser(id, userID uint) (*models.Order, error) {
	order, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if order.UserID == nil || *order.UserID != userID {
		return nil, ErrOrderAccessDenied
	}
	return order, nil
}

// UpdateQuantity 修正订单数量（后台），行金额按单价快照重算
func (s *OrderService) UpdateQuantity(id uint, quantity int) (*models.Order, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	order, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	order.Quantity = quantity
	order.TotalAmount = models.NewMoneyFromDecimal(order.UnitPrice.Mul(decimal.NewFromInt(int64(quantity))))
	if err := s.orderRepo.Update(order); err != nil {
		return nil, err
	}
	return order, nil
}

// UpdateQuantityForUser 用户修正自己订单的数量
func (s *OrderService) UpdateQuantityForUser(id, userID uint, quantity int) (*models.Order, error) {
	if _, err := s.GetForUser(id, userID); err != nil {
		return nil, err
	}
	return s.UpdateQuantity(id, quantity)
}

// DeleteForUser 用户删除自己的订单
func (s *OrderService) DeleteForUser(id, userID uint) error {
	if _, err := s.GetForUser(id, userID); err != nil {
		return err
	}
	return s.orderRepo.Delete(id)
}

// UpdateCustomerName 修正客户名称快照（后台）
func (s *OrderService) UpdateCustomerName(id uint, name string) (*models.Order, error) {
	if name == "" {
		name = constants.AnonymousCustomer
	}
	order, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	order.CustomerName = name
	if err := s.orderRepo.Update(order); err != nil {
		return nil, err
	}
	return order, nil
}

// Delete 删除订单（后台）
func (s *OrderService) Delete(id uint) error {
	if _, err := s.GetByID(id); err != nil {
		return err
	}
	return s.orderRepo.Delete(id)
}

// DeleteAll 删除全部订单（后台），返回删除行数
func (s *OrderService) DeleteAll() (int64, error) {
	return s.orderRepo.DeleteAll()
}

// Count 订单总数（后台仪表盘）
func (s *OrderService) Count() (int64, error) {
	return s.orderRepo.Count()
}
