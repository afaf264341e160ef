package models

import (
	"time"

	"gorm.io/gorm"
)

// Order 订单表（每条购物车行结算为一条订单）
type Order struct {
	ID           uint           `gorm:"primarykey" json:"id"`                                      // 主键
	OrderNo      string         `gorm:"uniqueIndex;not null" json:"order_no"`                      // 订单编号
	UserID       *uint          `gorm:"index" json:"user_id,omitempty"`                            // 下单用户ID（匿名订单为空）
	CustomerName string         `gorm:"type:varchar(255);not null;index" json:"customer_name"`     // 客户名称快照
	ProductID    uint           `gorm:"index;not null" json:"product_id"`                          // 商品ID
	ProductName  string         `gorm:"type:varchar(255);not null" json:"product_name"`            // 商品名称快照
	Quantity     int            `gorm:"not null" json:"quantity"`                                  // 数量
	UnitPrice    Money          `gorm:"type:decimal(20,2);not null;default:0" json:"unit_price"`   // 下单时单价快照
	TotalAmount  Money          `gorm:"type:decimal(20,2);not null;default:0" json:"total_amount"` // 行总金额
	OrderedAt    time.Time      `gorm:"index;not null" json:"ordered_at"`                          // 下单时间
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`                                   // 创建时间
	UpdatedAt    time.Time      `json:"updated_at"`                                                // 更新时间
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`                                            // 软删除时间

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"` // 关联商品
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}
