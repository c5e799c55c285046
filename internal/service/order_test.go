package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guitarhaus/guitarhaus-api/internal/authz"
	"github.com/guitarhaus/guitarhaus-api/internal/config"
	"github.com/guitarhaus/guitarhaus-api/internal/dto"
	"github.com/guitarhaus/guitarhaus-api/internal/model"
	"github.com/guitarhaus/guitarhaus-api/internal/repository"
)

type mockOrderRepo struct {
	orders map[uuid.UUID]*model.Order
}

func newMockOrderRepo() *mockOrderRepo {
	return &mockOrderRepo{orders: make(map[uuid.UUID]*model.Order)}
}

func (m *mockOrderRepo) Create(_ context.Context, order *model.Order) error {
	order.ID = uuid.New()
	order.CreatedAt = time.Now()
	order.UpdatedAt = time.Now()
	for i := range order.Items {
		order.Items[i].ID = uuid.New()
		order.Items[i].OrderID = order.ID
	}
	m.orders[order.ID] = order
	return nil
}

func (m *mockOrderRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Order, error) {
	order, ok := m.orders[id]
	if !ok {
		return nil, nil
	}
	cp := *order
	return &cp, nil
}

func (m *mockOrderRepo) ListByCustomer(_ context.Context, customerID uuid.UUID) ([]model.Order, error) {
	var out []model.Order
	for _, o := range m.orders {
		if o.CustomerID == customerID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (m *mockOrderRepo) ListAll(_ context.Context) ([]model.Order, error) {
	var out []model.Order
	for _, o := range m.orders {
		out = append(out, *o)
	}
	return out, nil
}

func (m *mockOrderRepo) UpdateStatus(_ context.Context, id uuid.UUID, status model.OrderStatus) error {
	if o, ok := m.orders[id]; ok {
		o.Status = status
	}
	return nil
}

func (m *mockOrderRepo) ConfirmPending(_ context.Context, id uuid.UUID) (bool, error) {
	o, ok := m.orders[id]
	if !ok || o.Status != model.OrderStatusPending {
		return false, nil
	}
	o.Status = model.OrderStatusConfirmed
	return true, nil
}

func (m *mockOrderRepo) UpdatePaymentStatus(_ context.Context, id uuid.UUID, status model.PaymentStatus) error {
	if o, ok := m.orders[id]; ok {
		o.PaymentStatus = status
	}
	return nil
}

func (m *mockOrderRepo) AdminUpdate(_ context.Context, order *model.Order) error {
	if o, ok := m.orders[order.ID]; ok {
		o.Status = order.Status
		o.PaymentStatus = order.PaymentStatus
		o.TrackingNumber = order.TrackingNumber
		o.EstimatedDelivery = order.EstimatedDelivery
	}
	return nil
}

func testCheckoutConfig() config.CheckoutConfig {
	return config.CheckoutConfig{
		TaxRate:               decimal.RequireFromString("0.10"),
		ShippingFee:           decimal.NewFromInt(50),
		FreeShippingThreshold: decimal.NewFromInt(1000),
	}
}

func testCheckoutRequest() dto.CheckoutRequest {
	return dto.CheckoutRequest{
		ShippingAddress: model.ShippingAddress{
			FullName: "Jamie Reed", Address: "12 Fret St", City: "Nashville",
			State: "TN", PostalCode: "37201", Country: "US", Phone: "555-0101",
		},
		PaymentMethod: model.PaymentMethodCreditCard,
	}
}

func customerSubject(id uuid.UUID) authz.Subject {
	return authz.Subject{CustomerID: id, Role: authz.RoleCustomer}
}

func TestOrderService_Checkout_EmptyCart(t *testing.T) {
	svc := NewOrderService(newMockOrderRepo(), newMockCartRepo(), newMockGuitarRepo(), testCheckoutConfig(), nil)
	_, err := svc.Checkout(context.Background(), uuid.New(), testCheckoutRequest())
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestOrderService_Checkout_TotalsBelowFreeShipping(t *testing.T) {
	guitars := newMockGuitarRepo()
	g := seedGuitar(guitars, 600, 5)
	carts := newMockCartRepo()
	cartSvc := NewCartService(carts, guitars)
	customerID := uuid.New()
	_, err := cartSvc.AddItem(context.Background(), customerID, g.ID, 1)
	require.NoError(t, err)

	svc := NewOrderService(newMockOrderRepo(), carts, guitars, testCheckoutConfig(), nil)
	order, err := svc.Checkout(context.Background(), customerID, testCheckoutRequest())
	require.NoError(t, err)

	assert.True(t, order.Subtotal.Equal(decimal.NewFromInt(600)))
	assert.True(t, order.Tax.Equal(decimal.NewFromInt(60)), "tax = %s", order.Tax)
	assert.True(t, order.ShippingCost.Equal(decimal.NewFromInt(50)))
	assert.True(t, order.TotalAmount.Equal(decimal.NewFromInt(710)), "total = %s", order.TotalAmount)
}

func TestOrderService_Checkout_FreeShippingAboveThreshold(t *testing.T) {
	guitars := newMockGuitarRepo()
	g := seedGuitar(guitars, 1200, 5)
	carts := newMockCartRepo()
	cartSvc := NewCartService(carts, guitars)
	customerID := uuid.New()
	_, err := cartSvc.AddItem(context.Background(), customerID, g.ID, 1)
	require.NoError(t, err)

	svc := NewOrderService(newMockOrderRepo(), carts, guitars, testCheckoutConfig(), nil)
	order, err := svc.Checkout(context.Background(), customerID, testCheckoutRequest())
	require.NoError(t, err)

	assert.True(t, order.ShippingCost.IsZero())
	assert.True(t, order.TotalAmount.Equal(decimal.NewFromInt(1320)), "total = %s", order.TotalAmount)
}

func TestOrderService_Checkout_DecrementsStockAndClearsCart(t *testing.T) {
	guitars := newMockGuitarRepo()
	g := seedGuitar(guitars, 500, 5)
	carts := newMockCartRepo()
	cartSvc := NewCartService(carts, guitars)
	customerID := uuid.New()
	_, err := cartSvc.AddItem(context.Background(), customerID, g.ID, 3)
	require.NoError(t, err)

	svc := NewOrderService(newMockOrderRepo(), carts, guitars, testCheckoutConfig(), nil)
	order, err := svc.Checkout(context.Background(), customerID, testCheckoutRequest())
	require.NoError(t, err)

	assert.Equal(t, 2, guitars.guitars[g.ID].Stock)
	assert.Equal(t, model.OrderStatusPending, order.Status)
	assert.Equal(t, model.PaymentStatusPending, order.PaymentStatus)

	cart, err := carts.GetByCustomer(context.Background(), customerID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.Zero(t, cart.ItemCount)
	assert.True(t, cart.TotalAmount.IsZero())
}

func TestOrderService_Checkout_StaleCartLine(t *testing.T) {
	guitars := newMockGuitarRepo()
	g := seedGuitar(guitars, 500, 5)
	carts := newMockCartRepo()
	cartSvc := NewCartService(carts, guitars)
	customerID := uuid.New()
	_, err := cartSvc.AddItem(context.Background(), customerID, g.ID, 3)
	require.NoError(t, err)

	// Stock drains between add-to-cart and checkout.
	guitars.guitars[g.ID].Stock = 1

	svc := NewOrderService(newMockOrderRepo(), carts, guitars, testCheckoutConfig(), nil)
	_, err = svc.Checkout(context.Background(), customerID, testCheckoutRequest())
	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.Equal(t, 1, guitars.guitars[g.ID].Stock)
}

// decrementConflictRepo passes validation but refuses the conditional
// decrement for one guitar, simulating a concurrent checkout winning the race
// between validation and the decrement loop.
type decrementConflictRepo struct {
	*mockGuitarRepo
	conflictID uuid.UUID
}

func (r *decrementConflictRepo) DecrementStock(ctx context.Context, id uuid.UUID, quantity int) error {
	if id == r.conflictID {
		return fmt.Errorf("guitar %s: %w", id, repository.ErrStockConflict)
	}
	return r.mockGuitarRepo.DecrementStock(ctx, id, quantity)
}

func TestOrderService_Checkout_DecrementConflictMidSequence(t *testing.T) {
	guitars := newMockGuitarRepo()
	first := seedGuitar(guitars, 400, 5)
	second := seedGuitar(guitars, 300, 5)
	carts := newMockCartRepo()
	cartSvc := NewCartService(carts, guitars)
	customerID := uuid.New()
	_, err := cartSvc.AddItem(context.Background(), customerID, first.ID, 2)
	require.NoError(t, err)
	_, err = cartSvc.AddItem(context.Background(), customerID, second.ID, 1)
	require.NoError(t, err)

	orders := newMockOrderRepo()
	conflicting := &decrementConflictRepo{mockGuitarRepo: guitars, conflictID: second.ID}
	svc := NewOrderService(orders, carts, conflicting, testCheckoutConfig(), nil)

	_, err = svc.Checkout(context.Background(), customerID, testCheckoutRequest())
	assert.ErrorIs(t, err, ErrInsufficientStock)

	// The order snapshot was persisted before the decrement loop and the first
	// line's decrement is not compensated.
	assert.Len(t, orders.orders, 1)
	assert.Equal(t, 3, guitars.guitars[first.ID].Stock)
	assert.Equal(t, 5, guitars.guitars[second.ID].Stock)

	// The cart-clear stage was never reached.
	cart, err := carts.GetByCustomer(context.Background(), customerID)
	require.NoError(t, err)
	assert.Len(t, cart.Items, 2)
}

func TestOrderService_Checkout_GuitarWithdrawn(t *testing.T) {
	guitars := newMockGuitarRepo()
	g := seedGuitar(guitars, 500, 5)
	carts := newMockCartRepo()
	cartSvc := NewCartService(carts, guitars)
	customerID := uuid.New()
	_, err := cartSvc.AddItem(context.Background(), customerID, g.ID, 1)
	require.NoError(t, err)

	guitars.guitars[g.ID].IsAvailable = false

	svc := NewOrderService(newMockOrderRepo(), carts, guitars, testCheckoutConfig(), nil)
	_, err = svc.Checkout(context.Background(), customerID, testCheckoutRequest())
	assert.ErrorIs(t, err, ErrGuitarUnavailable)
}

func TestOrderService_GetByID_Access(t *testing.T) {
	orders := newMockOrderRepo()
	owner := uuid.New()
	order := &model.Order{CustomerID: owner, Status: model.OrderStatusPending}
	require.NoError(t, orders.Create(context.Background(), order))

	svc := NewOrderService(orders, newMockCartRepo(), newMockGuitarRepo(), testCheckoutConfig(), nil)

	_, err := svc.GetByID(context.Background(), customerSubject(owner), order.ID)
	assert.NoError(t, err)

	_, err = svc.GetByID(context.Background(), customerSubject(uuid.New()), order.ID)
	assert.ErrorIs(t, err, authz.ErrForbidden)

	admin := authz.Subject{CustomerID: uuid.New(), Role: authz.RoleAdmin}
	_, err = svc.GetByID(context.Background(), admin, order.ID)
	assert.NoError(t, err)

	_, err = svc.GetByID(context.Background(), customerSubject(owner), uuid.New())
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestOrderService_Cancel_PendingNoRestore(t *testing.T) {
	guitars := newMockGuitarRepo()
	g := seedGuitar(guitars, 500, 2)
	orders := newMockOrderRepo()
	owner := uuid.New()
	order := &model.Order{
		CustomerID: owner,
		Status:     model.OrderStatusPending,
		Items:      []model.OrderItem{{GuitarID: g.ID, Quantity: 2, Price: g.Price}},
	}
	require.NoError(t, orders.Create(context.Background(), order))

	svc := NewOrderService(orders, newMockCartRepo(), guitars, testCheckoutConfig(), nil)
	cancelled, err := svc.Cancel(context.Background(), customerSubject(owner), order.ID)
	require.NoError(t, err)

	assert.Equal(t, model.OrderStatusCancelled, cancelled.Status)
	assert.Equal(t, 2, guitars.guitars[g.ID].Stock)
}

func TestOrderService_Cancel_ConfirmedRestoresStock(t *testing.T) {
	guitars := newMockGuitarRepo()
	g := seedGuitar(guitars, 500, 2)
	orders := newMockOrderRepo()
	owner := uuid.New()
	order := &model.Order{
		CustomerID: owner,
		Status:     model.OrderStatusConfirmed,
		Items:      []model.OrderItem{{GuitarID: g.ID, Quantity: 3, Price: g.Price}},
	}
	require.NoError(t, orders.Create(context.Background(), order))

	svc := NewOrderService(orders, newMockCartRepo(), guitars, testCheckoutConfig(), nil)
	cancelled, err := svc.Cancel(context.Background(), customerSubject(owner), order.ID)
	require.NoError(t, err)

	assert.Equal(t, model.OrderStatusCancelled, cancelled.Status)
	assert.Equal(t, 5, guitars.guitars[g.ID].Stock)
}

func TestOrderService_Cancel_InvalidTransition(t *testing.T) {
	orders := newMockOrderRepo()
	owner := uuid.New()
	svc := NewOrderService(orders, newMockCartRepo(), newMockGuitarRepo(), testCheckoutConfig(), nil)

	for _, status := range []model.OrderStatus{
		model.OrderStatusShipped, model.OrderStatusDelivered, model.OrderStatusCancelled,
	} {
		order := &model.Order{CustomerID: owner, Status: status}
		require.NoError(t, orders.Create(context.Background(), order))

		_, err := svc.Cancel(context.Background(), customerSubject(owner), order.ID)
		assert.ErrorIs(t, err, ErrInvalidTransition, "status %s", status)
	}
}

func TestOrderService_Cancel_Forbidden(t *testing.T) {
	orders := newMockOrderRepo()
	order := &model.Order{CustomerID: uuid.New(), Status: model.OrderStatusPending}
	require.NoError(t, orders.Create(context.Background(), order))

	svc := NewOrderService(orders, newMockCartRepo(), newMockGuitarRepo(), testCheckoutConfig(), nil)
	_, err := svc.Cancel(context.Background(), customerSubject(uuid.New()), order.ID)
	assert.ErrorIs(t, err, authz.ErrForbidden)
	assert.Equal(t, model.OrderStatusPending, orders.orders[order.ID].Status)
}

func TestOrderService_UpdateStatus_FieldLevel(t *testing.T) {
	orders := newMockOrderRepo()
	order := &model.Order{CustomerID: uuid.New(), Status: model.OrderStatusPending, PaymentStatus: model.PaymentStatusPending}
	require.NoError(t, orders.Create(context.Background(), order))

	svc := NewOrderService(orders, newMockCartRepo(), newMockGuitarRepo(), testCheckoutConfig(), nil)

	status := model.OrderStatusShipped
	tracking := "GH-123456"
	eta := time.Now().Add(72 * time.Hour)
	updated, err := svc.UpdateStatus(context.Background(), order.ID, dto.UpdateOrderStatusRequest{
		Status:            &status,
		TrackingNumber:    &tracking,
		EstimatedDelivery: &eta,
	})
	require.NoError(t, err)

	assert.Equal(t, model.OrderStatusShipped, updated.Status)
	assert.Equal(t, "GH-123456", updated.TrackingNumber)
	require.NotNil(t, updated.EstimatedDelivery)
	assert.Equal(t, model.PaymentStatusPending, updated.PaymentStatus)
}

func TestOrderService_UpdateStatus_NotFound(t *testing.T) {
	svc := NewOrderService(newMockOrderRepo(), newMockCartRepo(), newMockGuitarRepo(), testCheckoutConfig(), nil)
	_, err := svc.UpdateStatus(context.Background(), uuid.New(), dto.UpdateOrderStatusRequest{})
	assert.ErrorIs(t, err, ErrOrderNotFound)
}
