package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"stockdesk/internal/domain"
	"stockdesk/internal/store"

	"github.com/google/uuid"
)

var ErrBrandNotFound = errors.New("brand not found")

// BrandRepository defines the interface for brand data access
type BrandRepository interface {
	Create(ctx context.Context, brand *domain.Brand) (*domain.Brand, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Brand, error)
	Update(ctx context.Context, id uuid.UUID, name string, description *string) (*domain.Brand, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]domain.Brand, error)
}

type brandRepository struct {
	store *store.Store
}

// NewBrandRepository creates a new instance of BrandRepository
func NewBrandRepository(st *store.Store) BrandRepository {
	return &brandRepository{store: st}
}

const brandColumns = `id, name, description, created_at, updated_at`

func (r *brandRepository) Create(ctx context.Context, brand *domain.Brand) (*domain.Brand, error) {
	stored := *brand
	stored.ID = uuid.New()
	now := time.Now().UTC()
	stored.CreatedAt = now
	stored.UpdatedAt = now

	err := r.store.Update(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO brands (`+brandColumns+`)
			VALUES ($1, $2, $3, $4, $5)
		`, stored.ID, stored.Name, stored.Description, stored.CreatedAt, stored.UpdatedAt)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create brand: %w", err)
	}

	return &stored, nil
}

func (r *brandRepository) Get(ctx context.Context, id uuid.UUID) (*domain.Brand, error) {
	var brand domain.Brand

	err := r.store.View(ctx, func(tx *sql.Tx) error {
		return tx.QueryRowContext(ctx, `SELECT `+brandColumns+` FROM brands WHERE id = $1`, id).Scan(
			&brand.ID, &brand.Name, &brand.Description, &brand.CreatedAt, &brand.UpdatedAt,
		)
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBrandNotFound
		}
		return nil, fmt.Errorf("failed to find brand by ID: %w", err)
	}

	return &brand, nil
}

func (r *brandRepository) Update(ctx context.Context, id uuid.UUID, name string, description *string) (*domain.Brand, error) {
	var brand domain.Brand

	err := r.store.Update(ctx, func(tx *sql.Tx) error {
		return tx.QueryRowContext(ctx, `
			UPDATE brands
			SET name = $2, description = $3, updated_at = $4
			WHERE id = $1
			RETURNING `+brandColumns+`
		`, id, name, description, time.Now().UTC()).Scan(
			&brand.ID, &brand.Name, &brand.Description, &brand.CreatedAt, &brand.UpdatedAt,
		)
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBrandNotFound
		}
		return nil, fmt.Errorf("failed to update brand: %w", err)
	}

	return &brand, nil
}

func (r *brandRepository) Delete(ctx context.Context, id uuid.UUID) error {
	err := r.store.Update(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `DELETE FROM brands WHERE id = $1`, id)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to delete brand: %w", err)
	}
	return nil
}

func (r *brandRepository) List(ctx context.Context) ([]domain.Brand, error) {
	var brands []domain.Brand

	err := r.store.View(ctx, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx, `SELECT `+brandColumns+` FROM brands ORDER BY name ASC`)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var b domain.Brand
			if err := rows.Scan(&b.ID, &b.Name, &b.Description, &b.CreatedAt, &b.UpdatedAt); err != nil {
				return err
			}
			brands = append(brands, b)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list brands: %w", err)
	}

	return brands, nil
}
