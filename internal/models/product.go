package models

import (
	"time"

	"gorm.io/gorm"
)

// Product 商品表
type Product struct {
	ID          uint           `gorm:"primarykey" json:"id"`                              // 主键
	Name        string         `gorm:"type:varchar(255);not null;index" json:"name"`      // 商品名称
	Description string         `gorm:"type:text" json:"description"`                      // 商品描述
	Price       Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price"` // 单价
	Image       string         `gorm:"type:varchar(255)" json:"image"`                    // 图片文件名
	Stock       int            `gorm:"not null;default:0" json:"stock"`                   // 库存数量
	IsActive    bool           `gorm:"default:true;index" json:"is_active"`               // 是否上架
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                           // 创建时间
	UpdatedAt   time.Time      `json:"updated_at"`                                        // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                                    // 软删除时间
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}

// Available 是否可加入购物车（上架且有库存）
func (p *Product) Available() bool {
	return p.IsActive && p.Stock > 0
}
