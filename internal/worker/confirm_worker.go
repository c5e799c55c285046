package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"github.com/guitarhaus/guitarhaus-api/internal/model"
	"github.com/guitarhaus/guitarhaus-api/internal/repository"
)

const (
	orderQueueName = "orders"
	dlxExchange    = "orders.dlx"
	dlqQueueName   = "orders.dlq"
	idempotencyTTL = 24 * time.Hour
)

// ConfirmWorker consumes freshly checked-out orders and advances them from
// pending to confirmed once payment capture succeeds. Stock was already
// decremented at checkout; this stage only touches order state.
type ConfirmWorker struct {
	channel     *amqp.Channel
	orderRepo   repository.OrderRepository
	redisClient *redis.Client
	log         *slog.Logger
	done        chan struct{}
}

func NewConfirmWorker(
	ch *amqp.Channel,
	orderRepo repository.OrderRepository,
	redisClient *redis.Client,
	log *slog.Logger,
) *ConfirmWorker {
	return &ConfirmWorker{
		channel:     ch,
		orderRepo:   orderRepo,
		redisClient: redisClient,
		log:         log,
		done:        make(chan struct{}),
	}
}

// SetupRabbitMQ declares exchanges, queues, and bindings (DLX/DLQ).
func SetupRabbitMQ(ch *amqp.Channel) error {
	if err := ch.ExchangeDeclare(dlxExchange, "direct", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare DLX: %w", err)
	}
	if _, err := ch.QueueDeclare(dlqQueueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare DLQ: %w", err)
	}
	if err := ch.QueueBind(dlqQueueName, orderQueueName, dlxExchange, false, nil); err != nil {
		return fmt.Errorf("bind DLQ: %w", err)
	}
	if _, err := ch.QueueDeclare(orderQueueName, true, false, false, false, amqp.Table{
		"x-dead-letter-exchange":    dlxExchange,
		"x-dead-letter-routing-key": orderQueueName,
	}); err != nil {
		return fmt.Errorf("declare order queue: %w", err)
	}
	if err := ch.Qos(1, 0, false); err != nil {
		return fmt.Errorf("set QoS: %w", err)
	}
	return nil
}

func (w *ConfirmWorker) Start(ctx context.Context) error {
	msgs, err := w.channel.Consume(orderQueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}

	go func() {
		for {
			select {
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				w.processMessage(ctx, msg)
			case <-w.done:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	w.log.Info("order confirmation worker started")
	return nil
}

func (w *ConfirmWorker) Stop() { close(w.done) }

func (w *ConfirmWorker) processMessage(ctx context.Context, msg amqp.Delivery) {
	var orderMsg model.OrderMessage
	if err := json.Unmarshal(msg.Body, &orderMsg); err != nil {
		w.log.Error("unmarshal order message", "error", err)
		_ = msg.Nack(false, false)
		return
	}

	log := w.log.With("order_id", orderMsg.OrderID, "customer_id", orderMsg.CustomerID)

	// Idempotency check via Redis
	idempotencyKey := "order_confirmed:" + orderMsg.OrderID.String()
	exists, err := w.redisClient.Exists(ctx, idempotencyKey).Result()
	if err != nil {
		log.Error("check idempotency key", "error", err)
		_ = msg.Nack(false, true)
		return
	}
	if exists > 0 {
		log.Info("order already confirmed, skipping")
		_ = msg.Ack(false)
		return
	}

	if err := w.confirmOrder(ctx, orderMsg.OrderID); err != nil {
		log.Error("confirm order failed", "error", err)
		_ = msg.Nack(false, false) // -> DLQ
		return
	}

	if err := w.redisClient.Set(ctx, idempotencyKey, "1", idempotencyTTL).Err(); err != nil {
		log.Error("set idempotency key", "error", err)
	}

	_ = msg.Ack(false)
	log.Info("order confirmed")
}

func (w *ConfirmWorker) confirmOrder(ctx context.Context, orderID uuid.UUID) error {
	order, err := w.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("get order: %w", err)
	}
	if order == nil {
		return fmt.Errorf("order not found: %s", orderID)
	}

	// An order can be cancelled between checkout and this message; the
	// conditional write leaves anything no longer pending untouched.
	confirmed, err := w.orderRepo.ConfirmPending(ctx, orderID)
	if err != nil {
		return fmt.Errorf("set confirmed: %w", err)
	}
	if !confirmed {
		return nil
	}

	// Cash on delivery is collected at the door; everything else is captured
	// when the order confirms.
	if order.PaymentMethod != model.PaymentMethodCashOnDelivery {
		if err := w.orderRepo.UpdatePaymentStatus(ctx, orderID, model.PaymentStatusPaid); err != nil {
			return fmt.Errorf("set paid: %w", err)
		}
	}
	return nil
}
