package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/guitarhaus/guitarhaus-api/internal/model"
	"github.com/guitarhaus/guitarhaus-api/internal/repository"
)

var (
	ErrCartNotFound      = errors.New("cart not found")
	ErrCartItemNotFound  = errors.New("cart item not found")
	ErrGuitarUnavailable = errors.New("guitar is not available")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// CartService owns the cart aggregate. Every mutation recalculates the derived
// totals and persists the whole cart atomically through CartRepository.Save.
type CartService struct {
	cartRepo   repository.CartRepository
	guitarRepo repository.GuitarRepository
}

func NewCartService(cartRepo repository.CartRepository, guitarRepo repository.GuitarRepository) *CartService {
	return &CartService{cartRepo: cartRepo, guitarRepo: guitarRepo}
}

func (s *CartService) GetCart(ctx context.Context, customerID uuid.UUID) (*model.Cart, error) {
	cart, err := s.cartRepo.GetOrCreate(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("get or create cart: %w", err)
	}
	return cart, nil
}

func (s *CartService) AddItem(ctx context.Context, customerID, guitarID uuid.UUID, quantity int) (*model.Cart, error) {
	guitar, err := s.guitarRepo.GetByID(ctx, guitarID)
	if err != nil {
		return nil, fmt.Errorf("get guitar: %w", err)
	}
	if guitar == nil {
		return nil, ErrGuitarNotFound
	}
	if !guitar.IsAvailable {
		return nil, ErrGuitarUnavailable
	}
	if guitar.Stock < quantity {
		return nil, ErrInsufficientStock
	}

	cart, err := s.cartRepo.GetOrCreate(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("get or create cart: %w", err)
	}

	// Same guitar twice merges into one line; the captured price is refreshed
	// to the guitar's current price on re-add.
	merged := false
	for i := range cart.Items {
		if cart.Items[i].GuitarID == guitarID {
			cart.Items[i].Quantity += quantity
			cart.Items[i].Price = guitar.Price
			merged = true
			break
		}
	}
	if !merged {
		cart.Items = append(cart.Items, model.CartItem{
			CartID:   cart.ID,
			GuitarID: guitarID,
			Quantity: quantity,
			Price:    guitar.Price,
		})
	}

	cart.Recalculate()
	if err := s.cartRepo.Save(ctx, cart); err != nil {
		return nil, fmt.Errorf("save cart: %w", err)
	}
	return cart, nil
}

func (s *CartService) UpdateItem(ctx context.Context, customerID, itemID uuid.UUID, quantity int) (*model.Cart, error) {
	cart, err := s.cartRepo.GetByCustomer(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("get cart: %w", err)
	}
	if cart == nil {
		return nil, ErrCartNotFound
	}

	idx := -1
	for i := range cart.Items {
		if cart.Items[i].ID == itemID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, ErrCartItemNotFound
	}

	// Stock is re-checked against the live guitar, not the cart snapshot.
	guitar, err := s.guitarRepo.GetByID(ctx, cart.Items[idx].GuitarID)
	if err != nil {
		return nil, fmt.Errorf("get guitar: %w", err)
	}
	if guitar == nil {
		return nil, ErrGuitarNotFound
	}
	if guitar.Stock < quantity {
		return nil, ErrInsufficientStock
	}

	// Quantity changes; the captured price does not.
	cart.Items[idx].Quantity = quantity

	cart.Recalculate()
	if err := s.cartRepo.Save(ctx, cart); err != nil {
		return nil, fmt.Errorf("save cart: %w", err)
	}
	return cart, nil
}

func (s *CartService) RemoveItem(ctx context.Context, customerID, itemID uuid.UUID) (*model.Cart, error) {
	cart, err := s.cartRepo.GetByCustomer(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("get cart: %w", err)
	}
	if cart == nil {
		return nil, ErrCartNotFound
	}

	idx := -1
	for i := range cart.Items {
		if cart.Items[i].ID == itemID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, ErrCartItemNotFound
	}
	cart.Items = append(cart.Items[:idx], cart.Items[idx+1:]...)

	cart.Recalculate()
	if err := s.cartRepo.Save(ctx, cart); err != nil {
		return nil, fmt.Errorf("save cart: %w", err)
	}
	return cart, nil
}

func (s *CartService) Clear(ctx context.Context, customerID uuid.UUID) (*model.Cart, error) {
	cart, err := s.cartRepo.GetByCustomer(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("get cart: %w", err)
	}
	if cart == nil {
		return nil, ErrCartNotFound
	}

	cart.Items = nil
	cart.Recalculate()
	if err := s.cartRepo.Save(ctx, cart); err != nil {
		return nil, fmt.Errorf("save cart: %w", err)
	}
	return cart, nil
}
