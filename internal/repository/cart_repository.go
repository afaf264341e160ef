package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/boutique-next/internal/cache"
	"github.com/boutique-next/internal/models"
)

// CartRepository 购物车访问接口（按会话存取，不落库）
type CartRepository interface {
	Get(ctx context.Context, sessionID string) (*models.Cart, error)
	Save(ctx context.Context, cart *models.Cart) error
	Clear(ctx context.Context, sessionID string) error
}

// RedisCartRepository Redis 实现，购物车随 TTL 过期
type RedisCartRepository struct {
	ttl time.Duration
}

// NewRedisCartRepository 创建 Redis 购物车仓库
func NewRedisCartRepository(ttl time.Duration) *RedisCartRepository {
	if ttl <= 0 {
		ttl = 72 * time.Hour
	}
	return &RedisCartRepository{ttl: ttl}
}

func cartKey(sessionID string) string {
	return fmt.Sprintf("cart:%s", sessionID)
}

// Get 读取会话购物车，不存在时返回空购物车
func (r *RedisCartRepository) Get(ctx context.Context, sessionID string) (*models.Cart, error) {
	cart := &models.Cart{SessionID: sessionID}
	if sessionID == "" {
		return cart, nil
	}
	hit, err := cache.GetJSON(ctx, cartKey(sessionID), cart)
	if err != nil {
		return nil, err
	}
	if !hit {
		return &models.Cart{SessionID: sessionID}, nil
	}
	cart.SessionID = sessionID
	return cart, nil
}

// Save 写入会话购物车并刷新 TTL
func (r *RedisCartRepository) Save(ctx context.Context, cart *models.Cart) error {
	if cart == nil || cart.SessionID == "" {
		return nil
	}
	return cache.SetJSON(ctx, cartKey(cart.SessionID), cart, r.ttl)
}

// Clear 清空会话购物车
func (r *RedisCartRepository) Clear(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return cache.Del(ctx, cartKey(sessionID))
}
