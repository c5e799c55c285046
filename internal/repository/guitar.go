package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/guitarhaus/guitarhaus-api/internal/model"
)

// ErrStockConflict is returned when a conditional stock decrement finds less
// stock than requested. The decrement and the check happen in one statement,
// so concurrent checkouts cannot overdraw.
var ErrStockConflict = errors.New("insufficient stock")

// GuitarFilter is the catalog query surface: all fields optional.
type GuitarFilter struct {
	Category  string
	Brand     string
	MinPrice  *decimal.Decimal
	MaxPrice  *decimal.Decimal
	Available *bool
	Search    string
	Sort      string
	Order     string
	Limit     int
	Offset    int
}

type GuitarRepository interface {
	Create(ctx context.Context, guitar *model.Guitar) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Guitar, error)
	List(ctx context.Context, filter GuitarFilter) ([]model.Guitar, int, error)
	ListFeatured(ctx context.Context, limit int) ([]model.Guitar, error)
	Update(ctx context.Context, guitar *model.Guitar) error
	Delete(ctx context.Context, id uuid.UUID) error
	DecrementStock(ctx context.Context, id uuid.UUID, quantity int) error
	RestoreStock(ctx context.Context, id uuid.UUID, quantity int) error
	UpdateRating(ctx context.Context, id uuid.UUID, rating float64, numReviews int) error
}

type pgGuitarRepo struct{ pool *pgxpool.Pool }

func NewGuitarRepository(pool *pgxpool.Pool) GuitarRepository {
	return &pgGuitarRepo{pool: pool}
}

const guitarColumns = `id, name, brand, category, description, price, stock, is_available, is_featured, rating, num_reviews, created_at, updated_at`

func scanGuitar(row pgx.Row, g *model.Guitar) error {
	return row.Scan(
		&g.ID, &g.Name, &g.Brand, &g.Category, &g.Description, &g.Price, &g.Stock,
		&g.IsAvailable, &g.IsFeatured, &g.Rating, &g.NumReviews, &g.CreatedAt, &g.UpdatedAt,
	)
}

func (r *pgGuitarRepo) Create(ctx context.Context, guitar *model.Guitar) error {
	guitar.ID = uuid.New()
	query := `INSERT INTO guitars (id, name, brand, category, description, price, stock, is_available, is_featured, rating, num_reviews, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 0, 0, NOW(), NOW())
			  RETURNING rating, num_reviews, created_at, updated_at`
	err := r.pool.QueryRow(ctx, query,
		guitar.ID, guitar.Name, guitar.Brand, guitar.Category, guitar.Description,
		guitar.Price, guitar.Stock, guitar.IsAvailable, guitar.IsFeatured,
	).Scan(&guitar.Rating, &guitar.NumReviews, &guitar.CreatedAt, &guitar.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create guitar: %w", err)
	}
	return nil
}

func (r *pgGuitarRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Guitar, error) {
	g := &model.Guitar{}
	err := scanGuitar(r.pool.QueryRow(ctx,
		`SELECT `+guitarColumns+` FROM guitars WHERE id = $1`, id), g)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get guitar: %w", err)
	}
	return g, nil
}

func (r *pgGuitarRepo) List(ctx context.Context, filter GuitarFilter) ([]model.Guitar, int, error) {
	allowedSorts := map[string]bool{"name": true, "brand": true, "price": true, "rating": true, "created_at": true}
	sort := filter.Sort
	if !allowedSorts[sort] {
		sort = "created_at"
	}
	order := filter.Order
	if order != "asc" && order != "desc" {
		order = "desc"
	}

	where := ` WHERE 1=1`
	args := []any{}
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}
	if filter.Category != "" {
		where += ` AND category = ` + arg(filter.Category)
	}
	if filter.Brand != "" {
		where += ` AND brand = ` + arg(filter.Brand)
	}
	if filter.MinPrice != nil {
		where += ` AND price >= ` + arg(*filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		where += ` AND price <= ` + arg(*filter.MaxPrice)
	}
	if filter.Available != nil {
		where += ` AND is_available = ` + arg(*filter.Available)
	}
	if filter.Search != "" {
		p := arg(filter.Search)
		where += ` AND (name ILIKE '%' || ` + p + ` || '%' OR brand ILIKE '%' || ` + p + ` || '%' OR description ILIKE '%' || ` + p + ` || '%')`
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM guitars`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count guitars: %w", err)
	}

	query := `SELECT ` + guitarColumns + ` FROM guitars` + where +
		fmt.Sprintf(` ORDER BY %s %s LIMIT %s OFFSET %s`, sort, order, arg(filter.Limit), arg(filter.Offset))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list guitars: %w", err)
	}
	defer rows.Close()

	var guitars []model.Guitar
	for rows.Next() {
		var g model.Guitar
		if err := scanGuitar(rows, &g); err != nil {
			return nil, 0, fmt.Errorf("scan guitar: %w", err)
		}
		guitars = append(guitars, g)
	}
	return guitars, total, nil
}

func (r *pgGuitarRepo) ListFeatured(ctx context.Context, limit int) ([]model.Guitar, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+guitarColumns+` FROM guitars WHERE is_featured ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list featured guitars: %w", err)
	}
	defer rows.Close()

	var guitars []model.Guitar
	for rows.Next() {
		var g model.Guitar
		if err := scanGuitar(rows, &g); err != nil {
			return nil, fmt.Errorf("scan guitar: %w", err)
		}
		guitars = append(guitars, g)
	}
	return guitars, nil
}

func (r *pgGuitarRepo) Update(ctx context.Context, guitar *model.Guitar) error {
	query := `UPDATE guitars SET name=$2, brand=$3, category=$4, description=$5, price=$6, stock=$7, is_available=$8, is_featured=$9, updated_at=NOW()
			  WHERE id=$1 RETURNING updated_at`
	err := r.pool.QueryRow(ctx, query,
		guitar.ID, guitar.Name, guitar.Brand, guitar.Category, guitar.Description,
		guitar.Price, guitar.Stock, guitar.IsAvailable, guitar.IsFeatured,
	).Scan(&guitar.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		return fmt.Errorf("update guitar: %w", err)
	}
	return nil
}

func (r *pgGuitarRepo) Delete(ctx context.Context, id uuid.UUID) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM guitars WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete guitar: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *pgGuitarRepo) DecrementStock(ctx context.Context, id uuid.UUID, quantity int) error {
	ct, err := r.pool.Exec(ctx,
		`UPDATE guitars SET stock = stock - $2, updated_at = NOW() WHERE id = $1 AND stock >= $2`,
		id, quantity,
	)
	if err != nil {
		return fmt.Errorf("decrement stock: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("guitar %s: %w", id, ErrStockConflict)
	}
	return nil
}

func (r *pgGuitarRepo) RestoreStock(ctx context.Context, id uuid.UUID, quantity int) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE guitars SET stock = stock + $2, updated_at = NOW() WHERE id = $1`,
		id, quantity,
	)
	if err != nil {
		return fmt.Errorf("restore stock: %w", err)
	}
	return nil
}

func (r *pgGuitarRepo) UpdateRating(ctx context.Context, id uuid.UUID, rating float64, numReviews int) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE guitars SET rating = $2, num_reviews = $3, updated_at = NOW() WHERE id = $1`,
		id, rating, numReviews,
	)
	if err != nil {
		return fmt.Errorf("update rating: %w", err)
	}
	return nil
}
