package worker

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guitarhaus/guitarhaus-api/internal/model"
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
	m.orders[order.ID] = order
	return nil
}

func (m *mockOrderRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Order, error) {
	o, ok := m.orders[id]
	if !ok {
		return nil, nil
	}
	cp := *o
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
	}
	return nil
}

func newTestWorker(repo *mockOrderRepo) *ConfirmWorker {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewConfirmWorker(nil, repo, nil, log)
}

func seedOrder(repo *mockOrderRepo, status model.OrderStatus, method model.PaymentMethod) *model.Order {
	order := &model.Order{
		CustomerID:    uuid.New(),
		Status:        status,
		PaymentStatus: model.PaymentStatusPending,
		PaymentMethod: method,
	}
	_ = repo.Create(context.Background(), order)
	return order
}

func TestConfirmWorker_ConfirmsPendingAndCapturesPayment(t *testing.T) {
	repo := newMockOrderRepo()
	order := seedOrder(repo, model.OrderStatusPending, model.PaymentMethodCreditCard)
	w := newTestWorker(repo)

	require.NoError(t, w.confirmOrder(context.Background(), order.ID))
	assert.Equal(t, model.OrderStatusConfirmed, repo.orders[order.ID].Status)
	assert.Equal(t, model.PaymentStatusPaid, repo.orders[order.ID].PaymentStatus)
}

func TestConfirmWorker_CashOnDeliveryStaysUnpaid(t *testing.T) {
	repo := newMockOrderRepo()
	order := seedOrder(repo, model.OrderStatusPending, model.PaymentMethodCashOnDelivery)
	w := newTestWorker(repo)

	require.NoError(t, w.confirmOrder(context.Background(), order.ID))
	assert.Equal(t, model.OrderStatusConfirmed, repo.orders[order.ID].Status)
	assert.Equal(t, model.PaymentStatusPending, repo.orders[order.ID].PaymentStatus)
}

func TestConfirmWorker_LeavesCancelledOrderAlone(t *testing.T) {
	repo := newMockOrderRepo()
	order := seedOrder(repo, model.OrderStatusCancelled, model.PaymentMethodCreditCard)
	w := newTestWorker(repo)

	// Cancelled between checkout and message delivery; the conditional write
	// must not resurrect it, and payment must not be captured.
	require.NoError(t, w.confirmOrder(context.Background(), order.ID))
	assert.Equal(t, model.OrderStatusCancelled, repo.orders[order.ID].Status)
	assert.Equal(t, model.PaymentStatusPending, repo.orders[order.ID].PaymentStatus)
}

func TestConfirmWorker_MissingOrder(t *testing.T) {
	w := newTestWorker(newMockOrderRepo())
	assert.Error(t, w.confirmOrder(context.Background(), uuid.New()))
}
