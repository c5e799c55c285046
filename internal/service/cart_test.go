package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guitarhaus/guitarhaus-api/internal/model"
)

type mockCartRepo struct {
	carts map[uuid.UUID]*model.Cart // keyed by customer
}

func newMockCartRepo() *mockCartRepo {
	return &mockCartRepo{carts: make(map[uuid.UUID]*model.Cart)}
}

func (m *mockCartRepo) GetOrCreate(_ context.Context, customerID uuid.UUID) (*model.Cart, error) {
	if cart, ok := m.carts[customerID]; ok {
		return cart, nil
	}
	cart := &model.Cart{ID: uuid.New(), CustomerID: customerID, TotalAmount: decimal.Zero, CreatedAt: time.Now()}
	m.carts[customerID] = cart
	return cart, nil
}

func (m *mockCartRepo) GetByCustomer(_ context.Context, customerID uuid.UUID) (*model.Cart, error) {
	cart, ok := m.carts[customerID]
	if !ok {
		return nil, nil
	}
	return cart, nil
}

func (m *mockCartRepo) Save(_ context.Context, cart *model.Cart) error {
	for i := range cart.Items {
		if cart.Items[i].ID == uuid.Nil {
			cart.Items[i].ID = uuid.New()
		}
		cart.Items[i].CartID = cart.ID
	}
	m.carts[cart.CustomerID] = cart
	return nil
}

func seedGuitar(repo *mockGuitarRepo, price int64, stock int) *model.Guitar {
	g := &model.Guitar{
		ID:          uuid.New(),
		Name:        "Telecaster",
		Brand:       "Fender",
		Category:    model.CategoryElectric,
		Price:       decimal.NewFromInt(price),
		Stock:       stock,
		IsAvailable: true,
	}
	repo.guitars[g.ID] = g
	return g
}

func TestCartService_AddItem_RecalculatesTotals(t *testing.T) {
	guitars := newMockGuitarRepo()
	g := seedGuitar(guitars, 500, 10)
	svc := NewCartService(newMockCartRepo(), guitars)
	customerID := uuid.New()

	cart, err := svc.AddItem(context.Background(), customerID, g.ID, 3)
	require.NoError(t, err)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.ItemCount)
	assert.True(t, cart.TotalAmount.Equal(decimal.NewFromInt(1500)),
		"total = %s", cart.TotalAmount)
}

func TestCartService_AddItem_MergesDuplicateLine(t *testing.T) {
	guitars := newMockGuitarRepo()
	g := seedGuitar(guitars, 500, 10)
	svc := NewCartService(newMockCartRepo(), guitars)
	customerID := uuid.New()

	_, err := svc.AddItem(context.Background(), customerID, g.ID, 2)
	require.NoError(t, err)

	// Price drops between the two adds; the merge refreshes the captured price.
	guitars.guitars[g.ID].Price = decimal.NewFromInt(400)

	cart, err := svc.AddItem(context.Background(), customerID, g.ID, 1)
	require.NoError(t, err)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.Items[0].Quantity)
	assert.True(t, cart.Items[0].Price.Equal(decimal.NewFromInt(400)))
	assert.True(t, cart.TotalAmount.Equal(decimal.NewFromInt(1200)))
}

func TestCartService_AddItem_GuitarNotFound(t *testing.T) {
	svc := NewCartService(newMockCartRepo(), newMockGuitarRepo())
	_, err := svc.AddItem(context.Background(), uuid.New(), uuid.New(), 1)
	assert.ErrorIs(t, err, ErrGuitarNotFound)
}

func TestCartService_AddItem_Unavailable(t *testing.T) {
	guitars := newMockGuitarRepo()
	g := seedGuitar(guitars, 500, 10)
	g.IsAvailable = false
	svc := NewCartService(newMockCartRepo(), guitars)

	_, err := svc.AddItem(context.Background(), uuid.New(), g.ID, 1)
	assert.ErrorIs(t, err, ErrGuitarUnavailable)
}

func TestCartService_AddItem_InsufficientStock(t *testing.T) {
	guitars := newMockGuitarRepo()
	g := seedGuitar(guitars, 500, 2)
	svc := NewCartService(newMockCartRepo(), guitars)

	_, err := svc.AddItem(context.Background(), uuid.New(), g.ID, 3)
	assert.ErrorIs(t, err, ErrInsufficientStock)
}

func TestCartService_UpdateItem_KeepsCapturedPrice(t *testing.T) {
	guitars := newMockGuitarRepo()
	g := seedGuitar(guitars, 500, 10)
	svc := NewCartService(newMockCartRepo(), guitars)
	customerID := uuid.New()

	cart, err := svc.AddItem(context.Background(), customerID, g.ID, 1)
	require.NoError(t, err)
	itemID := cart.Items[0].ID

	guitars.guitars[g.ID].Price = decimal.NewFromInt(900)

	cart, err = svc.UpdateItem(context.Background(), customerID, itemID, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, cart.Items[0].Quantity)
	assert.True(t, cart.Items[0].Price.Equal(decimal.NewFromInt(500)))
	assert.True(t, cart.TotalAmount.Equal(decimal.NewFromInt(2000)))
}

func TestCartService_UpdateItem_ChecksLiveStock(t *testing.T) {
	guitars := newMockGuitarRepo()
	g := seedGuitar(guitars, 500, 5)
	svc := NewCartService(newMockCartRepo(), guitars)
	customerID := uuid.New()

	cart, err := svc.AddItem(context.Background(), customerID, g.ID, 2)
	require.NoError(t, err)

	guitars.guitars[g.ID].Stock = 1

	_, err = svc.UpdateItem(context.Background(), customerID, cart.Items[0].ID, 3)
	assert.ErrorIs(t, err, ErrInsufficientStock)
}

func TestCartService_UpdateItem_NotFound(t *testing.T) {
	guitars := newMockGuitarRepo()
	g := seedGuitar(guitars, 500, 10)
	svc := NewCartService(newMockCartRepo(), guitars)
	customerID := uuid.New()

	_, err := svc.UpdateItem(context.Background(), customerID, uuid.New(), 1)
	assert.ErrorIs(t, err, ErrCartNotFound)

	_, err = svc.AddItem(context.Background(), customerID, g.ID, 1)
	require.NoError(t, err)

	_, err = svc.UpdateItem(context.Background(), customerID, uuid.New(), 1)
	assert.ErrorIs(t, err, ErrCartItemNotFound)
}

func TestCartService_RemoveItem(t *testing.T) {
	guitars := newMockGuitarRepo()
	first := seedGuitar(guitars, 500, 10)
	second := seedGuitar(guitars, 300, 10)
	svc := NewCartService(newMockCartRepo(), guitars)
	customerID := uuid.New()

	_, err := svc.AddItem(context.Background(), customerID, first.ID, 1)
	require.NoError(t, err)
	cart, err := svc.AddItem(context.Background(), customerID, second.ID, 2)
	require.NoError(t, err)
	require.Len(t, cart.Items, 2)

	var firstItemID uuid.UUID
	for _, item := range cart.Items {
		if item.GuitarID == first.ID {
			firstItemID = item.ID
		}
	}

	cart, err = svc.RemoveItem(context.Background(), customerID, firstItemID)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, second.ID, cart.Items[0].GuitarID)
	assert.Equal(t, 2, cart.ItemCount)
	assert.True(t, cart.TotalAmount.Equal(decimal.NewFromInt(600)))
}

func TestCartService_Clear(t *testing.T) {
	guitars := newMockGuitarRepo()
	g := seedGuitar(guitars, 500, 10)
	svc := NewCartService(newMockCartRepo(), guitars)
	customerID := uuid.New()

	_, err := svc.AddItem(context.Background(), customerID, g.ID, 2)
	require.NoError(t, err)

	cart, err := svc.Clear(context.Background(), customerID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.Zero(t, cart.ItemCount)
	assert.True(t, cart.TotalAmount.IsZero())
}

func TestCartService_Clear_NoCart(t *testing.T) {
	svc := NewCartService(newMockCartRepo(), newMockGuitarRepo())
	_, err := svc.Clear(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrCartNotFound)
}
