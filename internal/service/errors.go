package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// 业务错误哨兵，handler 层按 errors.Is 映射为响应码
var (
	ErrProductNotFound     = errors.New("product not found")
	ErrProductNotAvailable = errors.New("product not available")
	ErrInsufficientStock   = errors.New("insufficient stock")
	ErrEmptyCart           = errors.New("cart is empty")
	ErrInvalidQuantity     = errors.New("invalid quantity")
	ErrInvalidPrice        = errors.New("invalid price")
	ErrOrderNotFound       = errors.New("order not found")
	ErrOrderAccessDenied   = errors.New("order access denied")
	ErrUserNotFound        = errors.New("user not found")
	ErrEmailTaken          = errors.New("email already taken")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrAccountDisabled     = errors.New("account disabled")
	ErrPasswordTooShort    = errors.New("password too short")
	ErrInvalidRole         = errors.New("invalid role")
	ErrSelfDelete          = errors.New("cannot delete own account")
	ErrUploadType          = errors.New("upload type not allowed")
	ErrUploadTooLarge      = errors.New("upload too large")
	ErrValidation          = errors.New("validation failed")
)

func isRecordNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// InsufficientStockError 库存不足错误，携带商品信息用于提示
type InsufficientStockError struct {
	ProductID   uint
	ProductName string
	Requested   int
	Available   int
}

// Error 实现 error 接口
func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %q (id=%d): requested %d, available %d",
		e.ProductName, e.ProductID, e.Requested, e.Available)
}

// Is 支持 errors.Is(err, ErrInsufficientStock)
func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// ProductUnavailableError 商品下架错误，携带商品信息用于提示
type ProductUnavailableError struct {
	ProductID   uint
	ProductName string
}

// Error 实现 error 接口
func (e *ProductUnavailableError) Error() string {
	return fmt.Sprintf("product %q (id=%d) is not available", e.ProductName, e.ProductID)
}

// Is 支持 errors.Is(err, ErrProductNotAvailable)
func (e *ProductUnavailableError) Is(target error) bool {
	return target == ErrProductNotAvailable
}
