package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/shopspring/decimal"

	"github.com/guitarhaus/guitarhaus-api/internal/authz"
	"github.com/guitarhaus/guitarhaus-api/internal/config"
	"github.com/guitarhaus/guitarhaus-api/internal/dto"
	"github.com/guitarhaus/guitarhaus-api/internal/model"
	"github.com/guitarhaus/guitarhaus-api/internal/repository"
)

var (
	ErrEmptyCart         = errors.New("cart is empty")
	ErrOrderNotFound     = errors.New("order not found")
	ErrInvalidTransition = errors.New("order cannot be cancelled at this stage")
)

type OrderService struct {
	orderRepo  repository.OrderRepository
	cartRepo   repository.CartRepository
	guitarRepo repository.GuitarRepository
	checkout   config.CheckoutConfig
	amqpCh     *amqp.Channel
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	guitarRepo repository.GuitarRepository,
	checkout config.CheckoutConfig,
	amqpCh *amqp.Channel,
) *OrderService {
	return &OrderService{
		orderRepo:  orderRepo,
		cartRepo:   cartRepo,
		guitarRepo: guitarRepo,
		checkout:   checkout,
		amqpCh:     amqpCh,
	}
}

// Checkout converts the customer's cart into an order. The sequence is fixed:
// validate every line against live catalog state, persist the order snapshot,
// decrement stock, empty the cart. The order is created before any stock
// mutation so a crash mid-sequence can only leave an order whose stock and
// cart have not been touched yet. Stock decrements are independent per guitar
// and are not rolled back if a later one fails; the error still reaches the
// caller.
func (s *OrderService) Checkout(ctx context.Context, customerID uuid.UUID, req dto.CheckoutRequest) (*model.Order, error) {
	cart, err := s.cartRepo.GetByCustomer(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("get cart: %w", err)
	}
	if cart == nil || len(cart.Items) == 0 {
		return nil, ErrEmptyCart
	}

	// Re-validate each line against current catalog state, not the prices and
	// availability captured when the line was added.
	subtotal := decimal.Zero
	items := make([]model.OrderItem, 0, len(cart.Items))
	for _, line := range cart.Items {
		guitar, err := s.guitarRepo.GetByID(ctx, line.GuitarID)
		if err != nil {
			return nil, fmt.Errorf("get guitar: %w", err)
		}
		if guitar == nil {
			return nil, fmt.Errorf("guitar %s: %w", line.GuitarID, ErrGuitarNotFound)
		}
		if !guitar.IsAvailable {
			return nil, fmt.Errorf("%s: %w", guitar.Name, ErrGuitarUnavailable)
		}
		if guitar.Stock < line.Quantity {
			return nil, fmt.Errorf("%s: %w", guitar.Name, ErrInsufficientStock)
		}

		subtotal = subtotal.Add(line.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
		items = append(items, model.OrderItem{
			GuitarID: line.GuitarID,
			Quantity: line.Quantity,
			Price:    line.Price,
		})
	}

	tax := subtotal.Mul(s.checkout.TaxRate)
	shippingCost := s.checkout.ShippingFee
	if subtotal.GreaterThan(s.checkout.FreeShippingThreshold) {
		shippingCost = decimal.Zero
	}

	order := &model.Order{
		CustomerID:      customerID,
		Items:           items,
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   req.PaymentMethod,
		PaymentStatus:   model.PaymentStatusPending,
		Status:          model.OrderStatusPending,
		Subtotal:        subtotal,
		Tax:             tax,
		ShippingCost:    shippingCost,
		TotalAmount:     subtotal.Add(tax).Add(shippingCost),
		Notes:           req.Notes,
	}
	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	// Conditional decrements: each one re-checks stock in the same statement,
	// so a concurrent checkout loses here instead of overdrawing.
	for _, item := range order.Items {
		if err := s.guitarRepo.DecrementStock(ctx, item.GuitarID, item.Quantity); err != nil {
			if errors.Is(err, repository.ErrStockConflict) {
				return nil, fmt.Errorf("guitar %s: %w", item.GuitarID, ErrInsufficientStock)
			}
			return nil, fmt.Errorf("decrement stock: %w", err)
		}
	}

	cart.Items = nil
	cart.Recalculate()
	if err := s.cartRepo.Save(ctx, cart); err != nil {
		return nil, fmt.Errorf("clear cart: %w", err)
	}

	s.publishOrderCreated(ctx, order)
	return order, nil
}

func (s *OrderService) publishOrderCreated(ctx context.Context, order *model.Order) {
	if s.amqpCh == nil {
		return
	}
	msg, _ := json.Marshal(model.OrderMessage{OrderID: order.ID, CustomerID: order.CustomerID})
	_ = s.amqpCh.PublishWithContext(ctx, "", "orders", false, false, amqp.Publishing{
		ContentType:  "application/json",
		Body:         msg,
		DeliveryMode: amqp.Persistent,
	})
}

func (s *OrderService) GetByID(ctx context.Context, subject authz.Subject, orderID uuid.UUID) (*model.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if err := authz.CanAccess(subject, order.CustomerID); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *OrderService) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]model.Order, error) {
	return s.orderRepo.ListByCustomer(ctx, customerID)
}

func (s *OrderService) ListAll(ctx context.Context) ([]model.Order, error) {
	return s.orderRepo.ListAll(ctx)
}

// Cancel moves an order to cancelled. Only pending and confirmed orders can
// be cancelled; stock is restored only when the order had already reached
// confirmed, because that is the point its stock was considered committed.
// The original system evaluated this condition after the status was already
// set to cancelled, which made restoration unreachable; this checks the
// status read before the mutation.
func (s *OrderService) Cancel(ctx context.Context, subject authz.Subject, orderID uuid.UUID) (*model.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if err := authz.CanAccess(subject, order.CustomerID); err != nil {
		return nil, err
	}
	if order.Status != model.OrderStatusPending && order.Status != model.OrderStatusConfirmed {
		return nil, ErrInvalidTransition
	}

	wasConfirmed := order.Status == model.OrderStatusConfirmed

	if err := s.orderRepo.UpdateStatus(ctx, orderID, model.OrderStatusCancelled); err != nil {
		return nil, fmt.Errorf("cancel order: %w", err)
	}
	order.Status = model.OrderStatusCancelled

	if wasConfirmed {
		for _, item := range order.Items {
			if err := s.guitarRepo.RestoreStock(ctx, item.GuitarID, item.Quantity); err != nil {
				return nil, fmt.Errorf("restore stock: %w", err)
			}
		}
	}
	return order, nil
}

// UpdateStatus is the admin escape hatch: field-level writes with no
// transition-graph enforcement.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, req dto.UpdateOrderStatusRequest) (*model.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	if req.Status != nil {
		order.Status = *req.Status
	}
	if req.PaymentStatus != nil {
		order.PaymentStatus = *req.PaymentStatus
	}
	if req.TrackingNumber != nil {
		order.TrackingNumber = *req.TrackingNumber
	}
	if req.EstimatedDelivery != nil {
		order.EstimatedDelivery = req.EstimatedDelivery
	}

	if err := s.orderRepo.AdminUpdate(ctx, order); err != nil {
		return nil, fmt.Errorf("update order: %w", err)
	}
	return order, nil
}
