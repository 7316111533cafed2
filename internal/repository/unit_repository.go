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

var ErrUnitNotFound = errors.New("unit not found")

// UnitRepository defines the interface for unit-of-measure data access.
// Products reference units as plain text, not enforced foreign keys.
type UnitRepository interface {
	Create(ctx context.Context, unit *domain.Unit) (*domain.Unit, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Unit, error)
	Update(ctx context.Context, id uuid.UUID, name string, abbreviation *string) (*domain.Unit, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]domain.Unit, error)
}

type unitRepository struct {
	store *store.Store
}

// NewUnitRepository creates a new instance of UnitRepository
func NewUnitRepository(st *store.Store) UnitRepository {
	return &unitRepository{store: st}
}

const unitColumns = `id, name, abbreviation, created_at, updated_at`

func (r *unitRepository) Create(ctx context.Context, unit *domain.Unit) (*domain.Unit, error) {
	stored := *unit
	stored.ID = uuid.New()
	now := time.Now().UTC()
	stored.CreatedAt = now
	stored.UpdatedAt = now

	err := r.store.Update(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO units (`+unitColumns+`)
			VALUES ($1, $2, $3, $4, $5)
		`, stored.ID, stored.Name, stored.Abbreviation, stored.CreatedAt, stored.UpdatedAt)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create unit: %w", err)
	}

	return &stored, nil
}

func (r *unitRepository) Get(ctx context.Context, id uuid.UUID) (*domain.Unit, error) {
	var unit domain.Unit

	err := r.store.View(ctx, func(tx *sql.Tx) error {
		return tx.QueryRowContext(ctx, `SELECT `+unitColumns+` FROM units WHERE id = $1`, id).Scan(
			&unit.ID, &unit.Name, &unit.Abbreviation, &unit.CreatedAt, &unit.UpdatedAt,
		)
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUnitNotFound
		}
		return nil, fmt.Errorf("failed to find unit by ID: %w", err)
	}

	return &unit, nil
}

func (r *unitRepository) Update(ctx context.Context, id uuid.UUID, name string, abbreviation *string) (*domain.Unit, error) {
	var unit domain.Unit

	err := r.store.Update(ctx, func(tx *sql.Tx) error {
		return tx.QueryRowContext(ctx, `
			UPDATE units
			SET name = $2, abbreviation = $3, updated_at = $4
			WHERE id = $1
			RETURNING `+unitColumns+`
		`, id, name, abbreviation, time.Now().UTC()).Scan(
			&unit.ID, &unit.Name, &unit.Abbreviation, &unit.CreatedAt, &unit.UpdatedAt,
		)
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUnitNotFound
		}
		return nil, fmt.Errorf("failed to update unit: %w", err)
	}

	return &unit, nil
}

func (r *unitRepository) Delete(ctx context.Context, id uuid.UUID) error {
	err := r.store.Update(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `DELETE FROM units WHERE id = $1`, id)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to delete unit: %w", err)
	}
	return nil
}

func (r *unitRepository) List(ctx context.Context) ([]domain.Unit, error) {
	var units []domain.Unit

	err := r.store.View(ctx, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx, `SELECT `+unitColumns+` FROM units ORDER BY name ASC`)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var u domain.Unit
			if err := rows.Scan(&u.ID, &u.Name, &u.Abbreviation, &u.CreatedAt, &u.UpdatedAt); err != nil {
				return err
			}
			units = append(units, u)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list units: %w", err)
	}

	return units, nil
}
