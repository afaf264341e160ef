package worker

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/boutique-next/internal/logger"
	"github.com/boutique-next/internal/provider"
	"github.com/boutique-next/internal/queue"
	"github.com/boutique-next/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskOrderConfirmationEmail, c.handleOrderConfirmationEmail)
}

func (c *Consumer) handleOrderConfirmationEmail(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_order_confirmation_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.OrderConfirmationEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_order_confirmation_unmarshal_failed", "error", err)
		return err
	}
	email := strings.TrimSpace(payload.Email)
	if email == "" {
		logger.Debugw("worker_order_confirmation_skip_empty_receiver")
		return nil
	}
	if c.EmailService == nil {
		logger.Warnw("worker_order_confirmation_skip_email_service_nil", "email", email)
		return nil
	}

	err := c.EmailService.SendOrderConfirmation(email, service.OrderConfirmationInput{
		CustomerName: payload.CustomerName,
		OrderNos:     payload.OrderNos,
		TotalAmount:  payload.TotalAmount,
		Locale:       payload.Locale,
	})
	if err != nil {
		if errors.Is(err, service.ErrEmailServiceDisabled) || errors.Is(err, service.ErrEmailServiceNotConfigured) {
			logger.Debugw("worker_order_confirmation_skip_email_disabled", "email", email)
			return nil
		}
		logger.Warnw("worker_order_confirmation_send_failed", "email", email, "error", err)
		return err
	}
	logger.Infow("worker_order_confirmation_sent", "email", email, "orders", len(payload.OrderNos))
	return nil
}
