package models

// CartLine 购物车行（仅存在于会话缓存，不落库）
type CartLine struct {
	ProductID uint   `json:"product_id"` // 商品ID
	Name      string `json:"name"`       // 加入时的商品名称快照
	UnitPrice Money  `json:"unit_price"` // 加入时的单价快照
	Quantity  int    `json:"quantity"`   // 数量
}

// LineTotal 行总金额
func (l CartLine) LineTotal() Money {
	return NewMoneyFromDecimal(l.UnitPrice.Mul(decimalFromInt(l.Quantity)))
}

// Cart 会话购物车
type Cart struct {
	SessionID string     `json:"session_id"` // 会话标识
	Lines     []CartLine `json:"lines"`      // 购物车行
}

// TotalQuantity 所有行的数量合计
func (c Cart) TotalQuantity() int {
	total := 0
	for _, l := range c.Lines {
		total += l.Quantity
	}
	return total
}

// TotalAmount 所有行的金额合计
func (c Cart) TotalAmount() Money {
	total := Money{}
	for _, l := range c.Lines {
		total = NewMoneyFromDecimal(total.Add(l.LineTotal().Decimal))
	}
	return total
}

// IsEmpty 购物车是否为空
func (c Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}
