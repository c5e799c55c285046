package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/guitarhaus/guitarhaus-api/internal/authz"
	"github.com/guitarhaus/guitarhaus-api/internal/dto"
	"github.com/guitarhaus/guitarhaus-api/internal/model"
	"github.com/guitarhaus/guitarhaus-api/internal/repository"
)

var (
	ErrReviewNotFound  = errors.New("review not found")
	ErrDuplicateReview = errors.New("you have already reviewed this guitar")
)

// ReviewService keeps guitar.rating equal to the live mean of the guitar's
// reviews and guitar.numReviews equal to their count. Every create, update,
// and delete recomputes both over the full review set and writes them back.
type ReviewService struct {
	reviewRepo  repository.ReviewRepository
	guitarRepo  repository.GuitarRepository
	redisClient *redis.Client
}

func NewReviewService(reviewRepo repository.ReviewRepository, guitarRepo repository.GuitarRepository, redisClient *redis.Client) *ReviewService {
	return &ReviewService{reviewRepo: reviewRepo, guitarRepo: guitarRepo, redisClient: redisClient}
}

func (s *ReviewService) Add(ctx context.Context, customerID, guitarID uuid.UUID, req dto.AddReviewRequest) (*model.Review, error) {
	guitar, err := s.guitarRepo.GetByID(ctx, guitarID)
	if err != nil {
		return nil, fmt.Errorf("get guitar: %w", err)
	}
	if guitar == nil {
		return nil, ErrGuitarNotFound
	}

	existing, err := s.reviewRepo.GetByCustomerAndGuitar(ctx, customerID, guitarID)
	if err != nil {
		return nil, fmt.Errorf("check existing review: %w", err)
	}
	if existing != nil {
		return nil, ErrDuplicateReview
	}

	review := &model.Review{
		CustomerID: customerID,
		GuitarID:   guitarID,
		Rating:     req.Rating,
		Title:      req.Title,
		Comment:    req.Comment,
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}

	if err := s.syncGuitarRating(ctx, guitarID); err != nil {
		return nil, err
	}
	return review, nil
}

func (s *ReviewService) Update(ctx context.Context, subject authz.Subject, reviewID uuid.UUID, req dto.UpdateReviewRequest) (*model.Review, error) {
	review, err := s.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		return nil, fmt.Errorf("get review: %w", err)
	}
	if review == nil {
		return nil, ErrReviewNotFound
	}
	// Updates are owner-only; even admins do not edit someone else's words.
	if err := authz.CanModify(subject, review.CustomerID); err != nil {
		return nil, err
	}

	if req.Rating != nil {
		review.Rating = *req.Rating
	}
	if req.Title != nil {
		review.Title = *req.Title
	}
	if req.Comment != nil {
		review.Comment = *req.Comment
	}

	if err := s.reviewRepo.Update(ctx, review); err != nil {
		return nil, fmt.Errorf("update review: %w", err)
	}

	if err := s.syncGuitarRating(ctx, review.GuitarID); err != nil {
		return nil, err
	}
	return review, nil
}

func (s *ReviewService) Delete(ctx context.Context, subject authz.Subject, reviewID uuid.UUID) error {
	review, err := s.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		return fmt.Errorf("get review: %w", err)
	}
	if review == nil {
		return ErrReviewNotFound
	}
	if err := authz.CanAccess(subject, review.CustomerID); err != nil {
		return err
	}

	if err := s.reviewRepo.Delete(ctx, reviewID); err != nil {
		return fmt.Errorf("delete review: %w", err)
	}

	return s.syncGuitarRating(ctx, review.GuitarID)
}

func (s *ReviewService) ListByGuitar(ctx context.Context, guitarID uuid.UUID) ([]model.Review, error) {
	return s.reviewRepo.ListByGuitar(ctx, guitarID)
}

func (s *ReviewService) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]model.Review, error) {
	return s.reviewRepo.ListByCustomer(ctx, customerID)
}

func (s *ReviewService) syncGuitarRating(ctx context.Context, guitarID uuid.UUID) error {
	rating, count, err := s.reviewRepo.AggregateForGuitar(ctx, guitarID)
	if err != nil {
		return fmt.Errorf("aggregate reviews: %w", err)
	}
	if err := s.guitarRepo.UpdateRating(ctx, guitarID, rating, count); err != nil {
		return fmt.Errorf("write back rating: %w", err)
	}
	// The cached guitar carries the old rating; drop it.
	if s.redisClient != nil {
		s.redisClient.Del(ctx, guitarCacheKey(guitarID))
	}
	return nil
}
