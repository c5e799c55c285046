package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/guitarhaus/guitarhaus-api/internal/model"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *model.Review) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Review, error)
	GetByCustomerAndGuitar(ctx context.Context, customerID, guitarID uuid.UUID) (*model.Review, error)
	ListByGuitar(ctx context.Context, guitarID uuid.UUID) ([]model.Review, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]model.Review, error)
	Update(ctx context.Context, review *model.Review) error
	Delete(ctx context.Context, id uuid.UUID) error
	AggregateForGuitar(ctx context.Context, guitarID uuid.UUID) (float64, int, error)
}

type pgReviewRepo struct{ pool *pgxpool.Pool }

func NewReviewRepository(pool *pgxpool.Pool) ReviewRepository {
	return &pgReviewRepo{pool: pool}
}

const reviewColumns = `id, customer_id, guitar_id, rating, title, comment, images, is_verified, helpful, created_at, updated_at`

func scanReview(row pgx.Row, rv *model.Review) error {
	return row.Scan(
		&rv.ID, &rv.CustomerID, &rv.GuitarID, &rv.Rating, &rv.Title, &rv.Comment,
		&rv.Images, &rv.IsVerified, &rv.Helpful, &rv.CreatedAt, &rv.UpdatedAt,
	)
}

func (r *pgReviewRepo) Create(ctx context.Context, review *model.Review) error {
	review.ID = uuid.New()
	if review.Images == nil {
		review.Images = []string{}
	}
	query := `INSERT INTO reviews (id, customer_id, guitar_id, rating, title, comment, images, is_verified, helpful, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 0, NOW(), NOW())
			  RETURNING helpful, created_at, updated_at`
	err := r.pool.QueryRow(ctx, query,
		review.ID, review.CustomerID, review.GuitarID, review.Rating,
		review.Title, review.Comment, review.Images, review.IsVerified,
	).Scan(&review.Helpful, &review.CreatedAt, &review.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create review: %w", err)
	}
	return nil
}

func (r *pgReviewRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Review, error) {
	rv := &model.Review{}
	err := scanReview(r.pool.QueryRow(ctx,
		`SELECT `+reviewColumns+` FROM reviews WHERE id = $1`, id), rv)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get review: %w", err)
	}
	return rv, nil
}

func (r *pgReviewRepo) GetByCustomerAndGuitar(ctx context.Context, customerID, guitarID uuid.UUID) (*model.Review, error) {
	rv := &model.Review{}
	err := scanReview(r.pool.QueryRow(ctx,
		`SELECT `+reviewColumns+` FROM reviews WHERE customer_id = $1 AND guitar_id = $2`,
		customerID, guitarID), rv)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get review by pair: %w", err)
	}
	return rv, nil
}

func (r *pgReviewRepo) ListByGuitar(ctx context.Context, guitarID uuid.UUID) ([]model.Review, error) {
	return r.list(ctx, `SELECT `+reviewColumns+` FROM reviews WHERE guitar_id = $1 ORDER BY created_at DESC`, guitarID)
}

func (r *pgReviewRepo) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]model.Review, error) {
	return r.list(ctx, `SELECT `+reviewColumns+` FROM reviews WHERE customer_id = $1 ORDER BY created_at DESC`, customerID)
}

func (r *pgReviewRepo) list(ctx context.Context, query string, args ...any) ([]model.Review, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	var reviews []model.Review
	for rows.Next() {
		var rv model.Review
		if err := scanReview(rows, &rv); err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		reviews = append(reviews, rv)
	}
	return reviews, nil
}

func (r *pgReviewRepo) Update(ctx context.Context, review *model.Review) error {
	err := r.pool.QueryRow(ctx,
		`UPDATE reviews SET rating=$2, title=$3, comment=$4, updated_at=NOW() WHERE id=$1 RETURNING updated_at`,
		review.ID, review.Rating, review.Title, review.Comment,
	).Scan(&review.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		return fmt.Errorf("update review: %w", err)
	}
	return nil
}

func (r *pgReviewRepo) Delete(ctx context.Context, id uuid.UUID) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// AggregateForGuitar recomputes the mean rating and count over the full review
// set. Zero reviews yields (0, 0).
func (r *pgReviewRepo) AggregateForGuitar(ctx context.Context, guitarID uuid.UUID) (float64, int, error) {
	var rating float64
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(AVG(rating), 0), COUNT(*) FROM reviews WHERE guitar_id = $1`, guitarID,
	).Scan(&rating, &count)
	if err != nil {
		return 0, 0, fmt.Errorf("aggregate reviews: %w", err)
	}
	return rating, count, nil
}
