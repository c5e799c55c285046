package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/guitarhaus/guitarhaus-api/internal/model"
)

type CartRepository interface {
	GetOrCreate(ctx context.Context, customerID uuid.UUID) (*model.Cart, error)
	GetByCustomer(ctx context.Context, customerID uuid.UUID) (*model.Cart, error)
	Save(ctx context.Context, cart *model.Cart) error
}

type pgCartRepo struct{ pool *pgxpool.Pool }

func NewCartRepository(pool *pgxpool.Pool) CartRepository {
	return &pgCartRepo{pool: pool}
}

func (r *pgCartRepo) GetOrCreate(ctx context.Context, customerID uuid.UUID) (*model.Cart, error) {
	cart, err := r.GetByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if cart != nil {
		return cart, nil
	}

	cart = &model.Cart{ID: uuid.New(), CustomerID: customerID}
	err = r.pool.QueryRow(ctx,
		`INSERT INTO carts (id, customer_id, total_amount, item_count, created_at, updated_at)
		 VALUES ($1, $2, 0, 0, NOW(), NOW()) RETURNING created_at, updated_at`,
		cart.ID, cart.CustomerID,
	).Scan(&cart.CreatedAt, &cart.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("create cart: %w", err)
	}
	return cart, nil
}

func (r *pgCartRepo) GetByCustomer(ctx context.Context, customerID uuid.UUID) (*model.Cart, error) {
	cart := &model.Cart{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, customer_id, total_amount, item_count, created_at, updated_at
		 FROM carts WHERE customer_id = $1`, customerID,
	).Scan(&cart.ID, &cart.CustomerID, &cart.TotalAmount, &cart.ItemCount, &cart.CreatedAt, &cart.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cart: %w", err)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, cart_id, guitar_id, quantity, price, created_at, updated_at
		 FROM cart_items WHERE cart_id = $1 ORDER BY created_at`, cart.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("get cart items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item model.CartItem
		if err := rows.Scan(&item.ID, &item.CartID, &item.GuitarID, &item.Quantity, &item.Price, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan cart item: %w", err)
		}
		cart.Items = append(cart.Items, item)
	}
	return cart, nil
}

// Save persists the whole aggregate in one transaction: derived totals on the
// carts row, line set replaced wholesale. A reader never sees a cart whose
// totals disagree with its lines.
func (r *pgCartRepo) Save(ctx context.Context, cart *model.Cart) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`UPDATE carts SET total_amount = $2, item_count = $3, updated_at = NOW() WHERE id = $1`,
		cart.ID, cart.TotalAmount, cart.ItemCount,
	)
	if err != nil {
		return fmt.Errorf("update cart totals: %w", err)
	}

	if _, err = tx.Exec(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cart.ID); err != nil {
		return fmt.Errorf("clear cart items: %w", err)
	}

	for i := range cart.Items {
		item := &cart.Items[i]
		if item.ID == uuid.Nil {
			item.ID = uuid.New()
		}
		// Each line keeps its original created_at across saves, so the load
		// order stays the order the lines were added in.
		if item.CreatedAt.IsZero() {
			item.CreatedAt = time.Now()
		}
		item.CartID = cart.ID
		_, err = tx.Exec(ctx,
			`INSERT INTO cart_items (id, cart_id, guitar_id, quantity, price, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, NOW())`,
			item.ID, item.CartID, item.GuitarID, item.Quantity, item.Price, item.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert cart item: %w", err)
		}
	}

	return tx.Commit(ctx)
}
