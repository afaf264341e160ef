package repository

import (
	"context"
	"sync"
	"time"

	"github.com/boutique-next/internal/models"
)

// MemoryCartRepository 进程内实现，Redis 未启用时兜底，进程重启后购物车丢失
type MemoryCartRepository struct {
	mu    sync.RWMutex
	ttl   time.Duration
	carts map[string]memoryCartEntry
}

type memoryCartEntry struct {
	cart      models.Cart
	expiresAt time.Time
}

// NewMemoryCartRepository 创建内存购物车仓库
func NewMemoryCartRepository(ttl time.Duration) *MemoryCartRepository {
	if ttl <= 0 {
		ttl = 72 * time.Hour
	}
	return &MemoryCartRepository{
		ttl:   ttl,
		carts: make(map[string]memoryCartEntry),
	}
}

// Get 读取会话购物车，不存在或已过期时返回空购物车
func (r *MemoryCartRepository) Get(_ context.Context, sessionID string) (*models.Cart, error) {
	if sessionID == "" {
		return &models.Cart{SessionID: sessionID}, nil
	}
	r.mu.RLock()
	entry, ok := r.carts[sessionID]
	r.mu.RUnlock()
	if !ok || time.Now().After(entry.expiresAt) {
		return &models.Cart{SessionID: sessionID}, nil
	}

	// 返回副本，避免调用方修改共享状态
	cart := entry.cart
	cart.Lines = append([]models.CartLine(nil), entry.cart.Lines...)
	cart.SessionID = sessionID
	return &cart, nil
}

// Save 写入会话购物车并刷新 TTL
func (r *MemoryCartRepository) Save(_ context.Context, cart *models.Cart) error {
	if cart == nil || cart.SessionID == "" {
		return nil
	}
	stored := *cart
	stored.Lines = append([]models.CartLine(nil), cart.Lines...)

	r.mu.Lock()
	r.carts[cart.SessionID] = memoryCartEntry{
		cart:      stored,
		expiresAt: time.Now().Add(r.ttl),
	}
	r.mu.Unlock()
	return nil
}

// Clear 清空会话购物车
func (r *MemoryCartRepository) Clear(_ context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	r.mu.Lock()
	delete(r.carts, sessionID)
	r.mu.Unlock()
	return nil
}
