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

var ErrCategoryNotFound = errors.New("category not found")

// CategoryRepository defines the interface for category data access.
// Categories live and die independently of products: a product keeps a
// soft reference that may dangle after a category delete.
type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) (*domain.Category, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Category, error)
	Update(ctx context.Context, id uuid.UUID, name string, description *string, parentID *uuid.UUID) (*domain.Category, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]domain.Category, error)
	Tree(ctx context.Context) ([]*domain.CategoryNode, []domain.Category, error)
}

type categoryRepository struct {
	store *store.Store
}

// NewCategoryRepository creates a new instance of CategoryRepository
func NewCategoryRepository(st *store.Store) CategoryRepository {
	return &categoryRepository{store: st}
}

const categoryColumns = `id, name, description, parent_id, created_at, updated_at`

// Create assigns an identifier and both timestamps, then writes the
// category inside a read-write scope
func (r *categoryRepository) Create(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	stored := *category
	stored.ID = uuid.New()
	now := time.Now().UTC()
	stored.CreatedAt = now
	stored.UpdatedAt = now

	err := r.store.Update(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO categories (`+categoryColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, stored.ID, stored.Name, stored.Description, stored.ParentID, stored.CreatedAt, stored.UpdatedAt)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	return &stored, nil
}

// Get retrieves a category by ID
func (r *categoryRepository) Get(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	var category domain.Category

	err := r.store.View(ctx, func(tx *sql.Tx) error {
		return tx.QueryRowContext(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id).Scan(
			&category.ID, &category.Name, &category.Description, &category.ParentID,
			&category.CreatedAt, &category.UpdatedAt,
		)
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to find category by ID: %w", err)
	}

	return &category, nil
}

// Update replaces the mutable fields and restamps updated_at
func (r *categoryRepository) Update(ctx context.Context, id uuid.UUID, name string, description *string, parentID *uuid.UUID) (*domain.Category, error) {
	var category domain.Category

	err := r.store.Update(ctx, func(tx *sql.Tx) error {
		return tx.QueryRowContext(ctx, `
			UPDATE categories
			SET name = $2, description = $3, parent_id = $4, updated_at = $5
			WHERE id = $1
			RETURNING `+categoryColumns+`
		`, id, name, description, parentID, time.Now().UTC()).Scan(
			&category.ID, &category.Name, &category.Description, &category.ParentID,
			&category.CreatedAt, &category.UpdatedAt,
		)
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to update category: %w", err)
	}

	return &category, nil
}

// Delete removes the category; absent identifiers are a no-op. Child
// categories keep their parent reference and resurface as roots.
func (r *categoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	err := r.store.Update(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `UPDATE categories SET parent_id = NULL WHERE parent_id = $1`, id); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	return nil
}

// List retrieves all categories ordered by name
func (r *categoryRepository) List(ctx context.Context) ([]domain.Category, error) {
	var categories []domain.Category

	err := r.store.View(ctx, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx, `SELECT `+categoryColumns+` FROM categories ORDER BY name ASC`)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var c domain.Category
			if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.ParentID, &c.CreatedAt, &c.UpdatedAt); err != nil {
				return err
			}
			categories = append(categories, c)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	return categories, nil
}

// Tree returns the category forest plus any categories stranded on a
// parent cycle
func (r *categoryRepository) Tree(ctx context.Context) ([]*domain.CategoryNode, []domain.Category, error) {
	categories, err := r.List(ctx)
	if err != nil {
		return nil, nil, err
	}
	roots, cyclic := domain.BuildCategoryTree(categories)
	return roots, cyclic, nil
}
