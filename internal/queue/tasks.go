package queue

import (
	"encoding/json"

	"github.com/boutique-next/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskOrderConfirmationEmail 订单确认邮件任务
	TaskOrderConfirmationEmail = constants.TaskOrderConfirmationEmail
)

// OrderConfirmationEmailPayload 订单确认邮件任务载荷
type OrderConfirmationEmailPayload struct {
	Email        string   `json:"email"`
	CustomerName string   `json:"customer_name"`
	OrderNos     []string `json:"order_nos"`
	TotalAmount  string   `json:"total_amount"`
	Locale       string   `json:"locale"`
}

// NewOrderConfirmationEmailTask 构建订单确认邮件任务
func NewOrderConfirmationEmailTask(payload OrderConfirmationEmailPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderConfirmationEmail, data), nil
}
