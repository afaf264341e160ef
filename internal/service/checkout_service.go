package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/boutique-next/internal/constants"
	"github.com/boutique-next/internal/logger"
	"github.com/boutique-next/internal/models"
	"github.com/boutique-next/internal/queue"
	"github.com/boutique-next/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CheckoutInput 结算输入
type CheckoutInput struct {
	SessionID string
	User      *models.User
	Locale    string
}

// CheckoutResult 结算结果
type CheckoutResult struct {
	Orders       []models.Order `json:"orders"`
	CustomerName string         `json:"customer_name"`
	TotalAmount  models.Money   `json:"total_amount"`
}

// CheckoutService 结算服务
type CheckoutService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	orderRepo   repository.OrderRepository
	queueClient *queue.Client
}

// NewCheckoutService 创建结算服务
func NewCheckoutService(
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	orderRepo repository.OrderRepository,
	queueClient *queue.Client,
) *CheckoutService {
	return &CheckoutService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		orderRepo:   orderRepo,
		queueClient: queueClient,
	}
}

// Checkout 结算购物车：校验每行商品、条件扣减库存、逐行创建订单。
// 校验与扣减在同一事务内完成，任一行失败整体回滚，库存不变且不产生订单。
func (s *CheckoutService) Checkout(ctx context.Context, input CheckoutInput) (*CheckoutResult, error) {
	cart, err := s.cartRepo.Get(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}
	if cart.IsEmpty() {
		return nil, ErrEmptyCart
	}

	customerName := constants.AnonymousCustomer
	var userID *uint
	if input.User != nil && input.User.ID > 0 {
		customerName = input.User.FullName()
		id := input.User.ID
		userID = &id
	}

	now := time.Now()
	orders := make([]models.Order, 0, len(cart.Lines))

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		productRepo := s.productRepo.WithTx(tx)
		orderRepo := s.orderRepo.WithTx(tx)

		for _, line := range cart.Lines {
			if line.Quantity <= 0 {
				return ErrInvalidQuantity
			}
			product, err := productRepo.GetByID(line.ProductID)
			if err != nil {
				if isRecordNotFound(err) {
					return ErrProductNotFound
				}
				return err
			}
			if !product.IsActive {
				return &ProductUnavailableError{ProductID: product.ID, ProductName: product.Name}
			}

			affected, err := productRepo.DecrementStock(product.ID, line.Quantity)
			if err != nil {
				return err
			}
			if affected == 0 {
				return &InsufficientStockError{
					ProductID:   product.ID,
					ProductName: product.Name,
					Requested:   line.Quantity,
					Available:   product.Stock,
				}
			}

			order := models.Order{
				OrderNo:      generateOrderNo(),
				UserID:       userID,
				CustomerName: customerName,
				ProductID:    product.ID,
				ProductName:  product.Name,
				Quantity:     line.Quantity,
				UnitPrice:    product.Price,
				TotalAmount:  models.NewMoneyFromDecimal(product.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))),
				OrderedAt:    now,
			}
			if err := orderRepo.Create(&order); err != nil {
				return err
			}
			orders = append(orders, order)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if clearErr := s.cartRepo.Clear(ctx, input.SessionID); clearErr != nil {
		logger.Warnw("checkout_cart_clear_failed", "session_id", input.SessionID, "error", clearErr)
	}

	result := &CheckoutResult{
		Orders:       orders,
		CustomerName: customerName,
	}
	total := models.Money{}
	for _, o := range orders {
		total = models.NewMoneyFromDecimal(total.Add(o.TotalAmount.Decimal))
	}
	result.TotalAmount = total

	s.enqueueConfirmation(ctx, input, result)
	return result, nil
}

// enqueueConfirmation 投递订单确认邮件任务，失败仅记录日志不影响结算结果
func (s *CheckoutService) enqueueConfirmation(ctx context.Context, input CheckoutInput, result *CheckoutResult) {
	if s.queueClient == nil || !s.queueClient.Enabled() {
		return
	}
	if input.User == nil || strings.TrimSpace(input.User.Email) == "" {
		return
	}
	orderNos := make([]string, 0, len(result.Orders))
	for _, o := range result.Orders {
		orderNos = append(orderNos, o.OrderNo)
	}
	payload := queue.OrderConfirmationEmailPayload{
		Email:        input.User.Email,
		CustomerName: result.CustomerName,
		OrderNos:     orderNos,
		TotalAmount:  result.TotalAmount.String(),
		Locale:       input.Locale,
	}
	if err := s.queueClient.EnqueueOrderConfirmationEmail(ctx, payload); err != nil {
		logger.Warnw("order_confirmation_enqueue_failed", "email", input.User.Email, "error", err)
	}
}

func generateOrderNo() string {
	now := time.Now().Format("20060102150405")
	return fmt.Sprintf("BT%s%s", now, randNumeric(6))
}

func randNumeric(length int) string {
	var b strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			b.WriteString("0")
			continue
		}
		b.WriteString(fmt.Sprintf("%d", n.Int64()))
	}
	return b.String()
}
