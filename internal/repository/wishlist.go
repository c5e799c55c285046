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

type WishlistRepository interface {
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]model.WishlistItem, error)
	Get(ctx context.Context, customerID, guitarID uuid.UUID) (*model.WishlistItem, error)
	Add(ctx context.Context, item *model.WishlistItem) error
	Remove(ctx context.Context, customerID, guitarID uuid.UUID) error
	Clear(ctx context.Context, customerID uuid.UUID) error
}

type pgWishlistRepo struct{ pool *pgxpool.Pool }

func NewWishlistRepository(pool *pgxpool.Pool) WishlistRepository {
	return &pgWishlistRepo{pool: pool}
}

func (r *pgWishlistRepo) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]model.WishlistItem, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, customer_id, guitar_id, added_at FROM wishlist_items WHERE customer_id = $1 ORDER BY added_at DESC`,
		customerID,
	)
	if err != nil {
		return nil, fmt.Errorf("list wishlist: %w", err)
	}
	defer rows.Close()

	var items []model.WishlistItem
	for rows.Next() {
		var item model.WishlistItem
		if err := rows.Scan(&item.ID, &item.CustomerID, &item.GuitarID, &item.AddedAt); err != nil {
			return nil, fmt.Errorf("scan wishlist item: %w", err)
		}
		items = append(items, item)
	}
	return items, nil
}

func (r *pgWishlistRepo) Get(ctx context.Context, customerID, guitarID uuid.UUID) (*model.WishlistItem, error) {
	item := &model.WishlistItem{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, customer_id, guitar_id, added_at FROM wishlist_items WHERE customer_id = $1 AND guitar_id = $2`,
		customerID, guitarID,
	).Scan(&item.ID, &item.CustomerID, &item.GuitarID, &item.AddedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get wishlist item: %w", err)
	}
	return item, nil
}

func (r *pgWishlistRepo) Add(ctx context.Context, item *model.WishlistItem) error {
	item.ID = uuid.New()
	err := r.pool.QueryRow(ctx,
		`INSERT INTO wishlist_items (id, customer_id, guitar_id, added_at) VALUES ($1, $2, $3, NOW()) RETURNING added_at`,
		item.ID, item.CustomerID, item.GuitarID,
	).Scan(&item.AddedAt)
	if err != nil {
		return fmt.Errorf("add wishlist item: %w", err)
	}
	return nil
}

func (r *pgWishlistRepo) Remove(ctx context.Context, customerID, guitarID uuid.UUID) error {
	ct, err := r.pool.Exec(ctx,
		`DELETE FROM wishlist_items WHERE customer_id = $1 AND guitar_id = $2`,
		customerID, guitarID,
	)
	if err != nil {
		return fmt.Errorf("remove wishlist item: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *pgWishlistRepo) Clear(ctx context.Context, customerID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM wishlist_items WHERE customer_id = $1`, customerID)
	if err != nil {
		return fmt.Errorf("clear wishlist: %w", err)
	}
	return nil
}
