package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/guitarhaus/guitarhaus-api/internal/dto"
	"github.com/guitarhaus/guitarhaus-api/internal/model"
	"github.com/guitarhaus/guitarhaus-api/internal/repository"
)

var ErrGuitarNotFound = errors.New("guitar not found")

const (
	guitarCacheTTL    = 60 * time.Second
	featuredListLimit = 10
)

func guitarCacheKey(id uuid.UUID) string { return "guitar:" + id.String() }

type GuitarService struct {
	guitarRepo  repository.GuitarRepository
	redisClient *redis.Client
}

func NewGuitarService(guitarRepo repository.GuitarRepository, redisClient *redis.Client) *GuitarService {
	return &GuitarService{guitarRepo: guitarRepo, redisClient: redisClient}
}

func (s *GuitarService) Create(ctx context.Context, req dto.CreateGuitarRequest) (*dto.GuitarResponse, error) {
	available := true
	if req.IsAvailable != nil {
		available = *req.IsAvailable
	}
	guitar := &model.Guitar{
		Name:        req.Name,
		Brand:       req.Brand,
		Category:    req.Category,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		IsAvailable: available,
		IsFeatured:  req.IsFeatured,
	}
	if err := s.guitarRepo.Create(ctx, guitar); err != nil {
		return nil, fmt.Errorf("create guitar: %w", err)
	}
	resp := toGuitarResponse(guitar)
	return &resp, nil
}

func (s *GuitarService) GetByID(ctx context.Context, id uuid.UUID) (*dto.GuitarResponse, error) {
	if s.redisClient != nil {
		if cached, err := s.redisClient.Get(ctx, guitarCacheKey(id)).Result(); err == nil {
			var resp dto.GuitarResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return &resp, nil
			}
		}
	}

	guitar, err := s.guitarRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get guitar: %w", err)
	}
	if guitar == nil {
		return nil, ErrGuitarNotFound
	}

	resp := toGuitarResponse(guitar)

	if s.redisClient != nil {
		if data, err := json.Marshal(resp); err == nil {
			s.redisClient.Set(ctx, guitarCacheKey(id), data, guitarCacheTTL)
		}
	}

	return &resp, nil
}

func (s *GuitarService) List(ctx context.Context, req dto.ListGuitarsRequest) (*dto.GuitarListResponse, error) {
	filter := repository.GuitarFilter{
		Category:  req.Category,
		Brand:     req.Brand,
		Available: req.Available,
		Search:    req.Search,
		Sort:      req.Sort,
		Order:     req.Order,
		Limit:     req.Limit,
		Offset:    (req.Page - 1) * req.Limit,
	}
	if req.MinPrice != nil {
		p, err := decimal.NewFromString(*req.MinPrice)
		if err != nil {
			return nil, fmt.Errorf("parse min price: %w", err)
		}
		filter.MinPrice = &p
	}
	if req.MaxPrice != nil {
		p, err := decimal.NewFromString(*req.MaxPrice)
		if err != nil {
			return nil, fmt.Errorf("parse max price: %w", err)
		}
		filter.MaxPrice = &p
	}

	guitars, total, err := s.guitarRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list guitars: %w", err)
	}

	items := make([]dto.GuitarResponse, 0, len(guitars))
	for i := range guitars {
		items = append(items, toGuitarResponse(&guitars[i]))
	}
	return &dto.GuitarListResponse{Guitars: items, Total: total, Page: req.Page, Limit: req.Limit}, nil
}

func (s *GuitarService) ListFeatured(ctx context.Context) ([]dto.GuitarResponse, error) {
	guitars, err := s.guitarRepo.ListFeatured(ctx, featuredListLimit)
	if err != nil {
		return nil, fmt.Errorf("list featured: %w", err)
	}
	items := make([]dto.GuitarResponse, 0, len(guitars))
	for i := range guitars {
		items = append(items, toGuitarResponse(&guitars[i]))
	}
	return items, nil
}

func (s *GuitarService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateGuitarRequest) (*dto.GuitarResponse, error) {
	guitar, err := s.guitarRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get guitar: %w", err)
	}
	if guitar == nil {
		return nil, ErrGuitarNotFound
	}

	if req.Name != nil {
		guitar.Name = *req.Name
	}
	if req.Brand != nil {
		guitar.Brand = *req.Brand
	}
	if req.Category != nil {
		guitar.Category = *req.Category
	}
	if req.Description != nil {
		guitar.Description = *req.Description
	}
	if req.Price != nil {
		guitar.Price = *req.Price
	}
	if req.Stock != nil {
		guitar.Stock = *req.Stock
	}
	if req.IsAvailable != nil {
		guitar.IsAvailable = *req.IsAvailable
	}
	if req.IsFeatured != nil {
		guitar.IsFeatured = *req.IsFeatured
	}

	if err := s.guitarRepo.Update(ctx, guitar); err != nil {
		return nil, fmt.Errorf("update guitar: %w", err)
	}

	s.invalidateCache(ctx, id)
	resp := toGuitarResponse(guitar)
	return &resp, nil
}

func (s *GuitarService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.guitarRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete guitar: %w", err)
	}
	s.invalidateCache(ctx, id)
	return nil
}

func (s *GuitarService) invalidateCache(ctx context.Context, id uuid.UUID) {
	if s.redisClient != nil {
		s.redisClient.Del(ctx, guitarCacheKey(id))
	}
}

func toGuitarResponse(g *model.Guitar) dto.GuitarResponse {
	return dto.GuitarResponse{
		ID:          g.ID,
		Name:        g.Name,
		Brand:       g.Brand,
		Category:    g.Category,
		Description: g.Description,
		Price:       g.Price,
		Stock:       g.Stock,
		IsAvailable: g.IsAvailable,
		IsFeatured:  g.IsFeatured,
		Rating:      g.Rating,
		NumReviews:  g.NumReviews,
		CreatedAt:   g.CreatedAt,
		UpdatedAt:   g.UpdatedAt,
	}
}
