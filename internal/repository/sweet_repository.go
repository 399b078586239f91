package repository

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/sweet-shop-service/internal/domain"
)

// SweetRepository encapsulates catalog persistence.
type SweetRepository interface {
	Create(ctx context.Context, sweet *domain.Sweet) error
	Update(ctx context.Context, sweet *domain.Sweet) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Sweet, error)
	List(ctx context.Context) ([]domain.Sweet, error)
	Search(ctx context.Context, term string) ([]domain.Sweet, error)
	// DecrementStock performs the atomic test-and-decrement: quantity
	// drops by one only when it is positive, in a single conditional
	// write. Returns pgx.ErrNoRows when no row qualified, i.e. the
	// sweet is absent or already sold out.
	DecrementStock(ctx context.Context, id string) (*domain.Sweet, error)
}

type sweetRepository struct {
	pool *pgxpool.Pool
}

// NewSweetRepository instantiates repository.
func NewSweetRepository(pool *pgxpool.Pool) SweetRepository {
	return &sweetRepository{pool: pool}
}

const sweetColumns = `id, name, category, price, quantity, created_at, updated_at`

func (r *sweetRepository) Create(ctx context.Context, sweet *domain.Sweet) error {
	const query = `
        INSERT INTO sweets (name, category, price, quantity)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		sweet.Name,
		sweet.Category,
		sweet.Price,
		sweet.Quantity,
	).Scan(&sweet.ID, &sweet.CreatedAt, &sweet.UpdatedAt)
}

func (r *sweetRepository) Update(ctx context.Context, sweet *domain.Sweet) error {
	const query = `
        UPDATE sweets SET name=$1, category=$2, price=$3, quantity=$4, updated_at=NOW()
        WHERE id=$5`
	cmd, err := r.pool.Exec(ctx, query,
		sweet.Name,
		sweet.Category,
		sweet.Price,
		sweet.Quantity,
		sweet.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *sweetRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM sweets WHERE id=$1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *sweetRepository) GetByID(ctx context.Context, id string) (*domain.Sweet, error) {
	const query = `SELECT ` + sweetColumns + ` FROM sweets WHERE id=$1`
	var sweet domain.Sweet
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&sweet.ID,
		&sweet.Name,
		&sweet.Category,
		&sweet.Price,
		&sweet.Quantity,
		&sweet.CreatedAt,
		&sweet.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &sweet, nil
}

func (r *sweetRepository) List(ctx context.Context) ([]domain.Sweet, error) {
	const query = `SELECT ` + sweetColumns + ` FROM sweets ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSweets(rows)
}

func (r *sweetRepository) Search(ctx context.Context, term string) ([]domain.Sweet, error) {
	const query = `SELECT ` + sweetColumns + ` FROM sweets
        WHERE LOWER(name) LIKE $1 OR LOWER(category) LIKE $1
        ORDER BY created_at DESC`
	pattern := "%" + strings.ToLower(strings.TrimSpace(term)) + "%"
	rows, err := r.pool.Query(ctx, query, pattern)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSweets(rows)
}

func (r *sweetRepository) DecrementStock(ctx context.Context, id string) (*domain.Sweet, error) {
	const query = `
        UPDATE sweets SET quantity = quantity - 1, updated_at = NOW()
        WHERE id=$1 AND quantity > 0
        RETURNING ` + sweetColumns
	var sweet domain.Sweet
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&sweet.ID,
		&sweet.Name,
		&sweet.Category,
		&sweet.Price,
		&sweet.Quantity,
		&sweet.CreatedAt,
		&sweet.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &sweet, nil
}

func scanSweets(rows pgx.Rows) ([]domain.Sweet, error) {
	result := []domain.Sweet{}
	for rows.Next() {
		var sweet domain.Sweet
		if err := rows.Scan(
			&sweet.ID,
			&sweet.Name,
			&sweet.Category,
			&sweet.Price,
			&sweet.Quantity,
			&sweet.CreatedAt,
			&sweet.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, sweet)
	}
	return result, rows.Err()
}
