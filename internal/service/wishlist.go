package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/guitarhaus/guitarhaus-api/internal/model"
	"github.com/guitarhaus/guitarhaus-api/internal/repository"
)

var (
	ErrAlreadyInWishlist = errors.New("guitar already in wishlist")
	ErrNotInWishlist     = errors.New("guitar not found in wishlist")
)

type WishlistService struct {
	wishlistRepo repository.WishlistRepository
	guitarRepo   repository.GuitarRepository
}

func NewWishlistService(wishlistRepo repository.WishlistRepository, guitarRepo repository.GuitarRepository) *WishlistService {
	return &WishlistService{wishlistRepo: wishlistRepo, guitarRepo: guitarRepo}
}

func (s *WishlistService) List(ctx context.Context, customerID uuid.UUID) ([]model.WishlistItem, error) {
	return s.wishlistRepo.ListByCustomer(ctx, customerID)
}

func (s *WishlistService) Add(ctx context.Context, customerID, guitarID uuid.UUID) (*model.WishlistItem, error) {
	guitar, err := s.guitarRepo.GetByID(ctx, guitarID)
	if err != nil {
		return nil, fmt.Errorf("get guitar: %w", err)
	}
	if guitar == nil {
		return nil, ErrGuitarNotFound
	}

	existing, err := s.wishlistRepo.Get(ctx, customerID, guitarID)
	if err != nil {
		return nil, fmt.Errorf("check wishlist: %w", err)
	}
	if existing != nil {
		return nil, ErrAlreadyInWishlist
	}

	item := &model.WishlistItem{CustomerID: customerID, GuitarID: guitarID}
	if err := s.wishlistRepo.Add(ctx, item); err != nil {
		return nil, fmt.Errorf("add to wishlist: %w", err)
	}
	return item, nil
}

func (s *WishlistService) Remove(ctx context.Context, customerID, guitarID uuid.UUID) error {
	err := s.wishlistRepo.Remove(ctx, customerID, guitarID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotInWishlist
		}
		return fmt.Errorf("remove from wishlist: %w", err)
	}
	return nil
}

func (s *WishlistService) Check(ctx context.Context, customerID, guitarID uuid.UUID) (bool, error) {
	item, err := s.wishlistRepo.Get(ctx, customerID, guitarID)
	if err != nil {
		return false, fmt.Errorf("check wishlist: %w", err)
	}
	return item != nil, nil
}

func (s *WishlistService) Clear(ctx context.Context, customerID uuid.UUID) error {
	if err := s.wishlistRepo.Clear(ctx, customerID); err != nil {
		return fmt.Errorf("clear wishlist: %w", err)
	}
	return nil
}
