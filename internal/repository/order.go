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

type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]model.Order, error)
	ListAll(ctx context.Context) ([]model.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.OrderStatus) error
	ConfirmPending(ctx context.Context, id uuid.UUID) (bool, error)
	UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status model.PaymentStatus) error
	AdminUpdate(ctx context.Context, order *model.Order) error
}

type pgOrderRepo struct{ pool *pgxpool.Pool }

func NewOrderRepository(pool *pgxpool.Pool) OrderRepository {
	return &pgOrderRepo{pool: pool}
}

const orderColumns = `id, customer_id, ship_full_name, ship_address, ship_city, ship_state, ship_postal_code, ship_country, ship_phone,
	payment_method, payment_status, status, subtotal, tax, shipping_cost, total_amount,
	tracking_number, estimated_delivery, notes, created_at, updated_at`

func scanOrder(row pgx.Row, o *model.Order) error {
	return row.Scan(
		&o.ID, &o.CustomerID,
		&o.ShippingAddress.FullName, &o.ShippingAddress.Address, &o.ShippingAddress.City,
		&o.ShippingAddress.State, &o.ShippingAddress.PostalCode, &o.ShippingAddress.Country,
		&o.ShippingAddress.Phone,
		&o.PaymentMethod, &o.PaymentStatus, &o.Status,
		&o.Subtotal, &o.Tax, &o.ShippingCost, &o.TotalAmount,
		&o.TrackingNumber, &o.EstimatedDelivery, &o.Notes, &o.CreatedAt, &o.UpdatedAt,
	)
}

// Create persists the order header and its line snapshots in one transaction.
// Line items are write-once: no update path exists for them.
func (r *pgOrderRepo) Create(ctx context.Context, order *model.Order) error {
	order.ID = uuid.New()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`INSERT INTO orders (id, customer_id, ship_full_name, ship_address, ship_city, ship_state, ship_postal_code, ship_country, ship_phone,
			payment_method, payment_status, status, subtotal, tax, shipping_cost, total_amount, tracking_number, estimated_delivery, notes, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, NOW(), NOW())
		 RETURNING created_at, updated_at`,
		order.ID, order.CustomerID,
		order.ShippingAddress.FullName, order.ShippingAddress.Address, order.ShippingAddress.City,
		order.ShippingAddress.State, order.ShippingAddress.PostalCode, order.ShippingAddress.Country,
		order.ShippingAddress.Phone,
		order.PaymentMethod, order.PaymentStatus, order.Status,
		order.Subtotal, order.Tax, order.ShippingCost, order.TotalAmount,
		order.TrackingNumber, order.EstimatedDelivery, order.Notes,
	).Scan(&order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for i := range order.Items {
		order.Items[i].ID = uuid.New()
		order.Items[i].OrderID = order.ID
		_, err = tx.Exec(ctx,
			`INSERT INTO order_items (id, order_id, guitar_id, quantity, price)
			 VALUES ($1, $2, $3, $4, $5)`,
			order.Items[i].ID, order.Items[i].OrderID, order.Items[i].GuitarID,
			order.Items[i].Quantity, order.Items[i].Price,
		)
		if err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}

	return tx.Commit(ctx)
}

func (r *pgOrderRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	order := &model.Order{}
	err := scanOrder(r.pool.QueryRow(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1`, id), order)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, guitar_id, quantity, price FROM order_items WHERE order_id = $1`, id,
	)
	if err != nil {
		return nil, fmt.Errorf("get order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item model.OrderItem
		if err := rows.Scan(&item.ID, &item.GuitarID, &item.Quantity, &item.Price); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		item.OrderID = order.ID
		order.Items = append(order.Items, item)
	}
	return order, nil
}

func (r *pgOrderRepo) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]model.Order, error) {
	return r.list(ctx, `SELECT `+orderColumns+` FROM orders WHERE customer_id = $1 ORDER BY created_at DESC`, customerID)
}

func (r *pgOrderRepo) ListAll(ctx context.Context) ([]model.Order, error) {
	return r.list(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC`)
}

func (r *pgOrderRepo) list(ctx context.Context, query string, args ...any) ([]model.Order, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []model.Order
	for rows.Next() {
		var o model.Order
		if err := scanOrder(rows, &o); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, o)
	}
	return orders, nil
}

func (r *pgOrderRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status model.OrderStatus) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE orders SET status = $2, updated_at = NOW() WHERE id = $1`, id, status,
	)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	return nil
}

// ConfirmPending advances an order to confirmed only if it is still pending.
// The status check and the write are one statement, so a cancellation landing
// in between cannot be overwritten. Returns whether the transition happened.
func (r *pgOrderRepo) ConfirmPending(ctx context.Context, id uuid.UUID) (bool, error) {
	ct, err := r.pool.Exec(ctx,
		`UPDATE orders SET status = $2, updated_at = NOW() WHERE id = $1 AND status = $3`,
		id, model.OrderStatusConfirmed, model.OrderStatusPending,
	)
	if err != nil {
		return false, fmt.Errorf("confirm order: %w", err)
	}
	return ct.RowsAffected() > 0, nil
}

func (r *pgOrderRepo) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status model.PaymentStatus) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE orders SET payment_status = $2, updated_at = NOW() WHERE id = $1`, id, status,
	)
	if err != nil {
		return fmt.Errorf("update payment status: %w", err)
	}
	return nil
}

// AdminUpdate writes the admin-settable fields without transition checks.
func (r *pgOrderRepo) AdminUpdate(ctx context.Context, order *model.Order) error {
	err := r.pool.QueryRow(ctx,
		`UPDATE orders SET status=$2, payment_status=$3, tracking_number=$4, estimated_delivery=$5, updated_at=NOW()
		 WHERE id=$1 RETURNING updated_at`,
		order.ID, order.Status, order.PaymentStatus, order.TrackingNumber, order.EstimatedDelivery,
	).Scan(&order.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		return fmt.Errorf("admin update order: %w", err)
	}
	return nil
}
