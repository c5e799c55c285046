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

type CustomerRepository interface {
	Create(ctx context.Context, customer *model.Customer) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Customer, error)
	GetByEmail(ctx context.Context, email string) (*model.Customer, error)
	List(ctx context.Context) ([]model.Customer, error)
	Update(ctx context.Context, customer *model.Customer) error
}

type pgCustomerRepo struct{ pool *pgxpool.Pool }

func NewCustomerRepository(pool *pgxpool.Pool) CustomerRepository {
	return &pgCustomerRepo{pool: pool}
}

func (r *pgCustomerRepo) Create(ctx context.Context, customer *model.Customer) error {
	customer.ID = uuid.New()
	query := `INSERT INTO customers (id, email, password_hash, first_name, last_name, phone, image, role, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
			  RETURNING created_at, updated_at`
	err := r.pool.QueryRow(ctx, query,
		customer.ID, customer.Email, customer.Password, customer.FirstName,
		customer.LastName, customer.Phone, customer.Image, customer.Role,
	).Scan(&customer.CreatedAt, &customer.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create customer: %w", err)
	}
	return nil
}

func (r *pgCustomerRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Customer, error) {
	query := `SELECT id, email, password_hash, first_name, last_name, phone, image, role, created_at, updated_at
			  FROM customers WHERE id = $1`
	customer := &model.Customer{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&customer.ID, &customer.Email, &customer.Password, &customer.FirstName,
		&customer.LastName, &customer.Phone, &customer.Image, &customer.Role,
		&customer.CreatedAt, &customer.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get customer by id: %w", err)
	}
	return customer, nil
}

func (r *pgCustomerRepo) GetByEmail(ctx context.Context, email string) (*model.Customer, error) {
	query := `SELECT id, email, password_hash, first_name, last_name, phone, image, role, created_at, updated_at
			  FROM customers WHERE email = $1`
	customer := &model.Customer{}
	err := r.pool.QueryRow(ctx, query, email).Scan(
		&customer.ID, &customer.Email, &customer.Password, &customer.FirstName,
		&customer.LastName, &customer.Phone, &customer.Image, &customer.Role,
		&customer.CreatedAt, &customer.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get customer by email: %w", err)
	}
	return customer, nil
}

func (r *pgCustomerRepo) List(ctx context.Context) ([]model.Customer, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, email, password_hash, first_name, last_name, phone, image, role, created_at, updated_at
		 FROM customers ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()

	var customers []model.Customer
	for rows.Next() {
		var c model.Customer
		err := rows.Scan(
			&c.ID, &c.Email, &c.Password, &c.FirstName, &c.LastName,
			&c.Phone, &c.Image, &c.Role, &c.CreatedAt, &c.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		customers = append(customers, c)
	}
	return customers, nil
}

func (r *pgCustomerRepo) Update(ctx context.Context, customer *model.Customer) error {
	query := `UPDATE customers SET first_name=$2, last_name=$3, phone=$4, image=$5, updated_at=NOW()
			  WHERE id=$1 RETURNING updated_at`
	err := r.pool.QueryRow(ctx, query,
		customer.ID, customer.FirstName, customer.LastName, customer.Phone, customer.Image,
	).Scan(&customer.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		return fmt.Errorf("update customer: %w", err)
	}
	return nil
}
