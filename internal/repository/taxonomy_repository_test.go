package repository

import (
	"context"
	"errors"
	"testing"

	"stockdesk/internal/domain"

	"github.com/google/uuid"
)

func TestCategoryRepository(t *testing.T) {
	clearCatalog(t)
	repo := NewCategoryRepository(testStore)
	ctx := context.Background()

	t.Run("create and fetch", func(t *testing.T) {
		created, err := repo.Create(ctx, &domain.Category{Name: "Electronics"})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if created.ID == uuid.Nil {
			t.Error("expected a generated ID")
		}

		got, err := repo.Get(ctx, created.ID)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if got.Name != "Electronics" {
			t.Errorf("name mismatch: %q", got.Name)
		}
	})

	t.Run("update rewrites fields", func(t *testing.T) {
		created, err := repo.Create(ctx, &domain.Category{Name: "Temp"})
		if err != nil {
			t.Fatalf("create: %v", err)
		}

		desc := "renamed category"
		updated, err := repo.Update(ctx, created.ID, "Renamed", &desc, nil)
		if err != nil {
			t.Fatalf("update: %v", err)
		}
		if updated.Name != "Renamed" || updated.Description == nil || *updated.Description != desc {
			t.Errorf("update not applied: %+v", updated)
		}
		if !updated.UpdatedAt.After(updated.CreatedAt) {
			t.Error("expected updated_at to advance")
		}
	})

	t.Run("update of unknown ID is not found", func(t *testing.T) {
		_, err := repo.Update(ctx, uuid.New(), "Ghost", nil, nil)
		if !errors.Is(err, ErrCategoryNotFound) {
			t.Errorf("expected ErrCategoryNotFound, got %v", err)
		}
	})

	t.Run("delete detaches children", func(t *testing.T) {
		parent, err := repo.Create(ctx, &domain.Category{Name: "Parent"})
		if err != nil {
			t.Fatalf("create parent: %v", err)
		}
		child, err := repo.Create(ctx, &domain.Category{Name: "Child", ParentID: &parent.ID})
		if err != nil {
			t.Fatalf("create child: %v", err)
		}

		if err := repo.Delete(ctx, parent.ID); err != nil {
			t.Fatalf("delete: %v", err)
		}

		got, err := repo.Get(ctx, child.ID)
		if err != nil {
			t.Fatalf("get child: %v", err)
		}
		if got.ParentID != nil {
			t.Error("expected child to be detached from deleted parent")
		}
	})
}

func TestCategoryTree(t *testing.T) {
	clearCatalog(t)
	repo := NewCategoryRepository(testStore)
	ctx := context.Background()

	root, err := repo.Create(ctx, &domain.Category{Name: "Hardware"})
	if err != nil {
		t.Fatalf("create root: %v", err)
	}
	child, err := repo.Create(ctx, &domain.Category{Name: "Cables", ParentID: &root.ID})
	if err != nil {
		t.Fatalf("create child: %v", err)
	}
	if _, err := repo.Create(ctx, &domain.Category{Name: "Adapters", ParentID: &child.ID}); err != nil {
		t.Fatalf("create grandchild: %v", err)
	}

	roots, cyclic, err := repo.Tree(ctx)
	if err != nil {
		t.Fatalf("tree: %v", err)
	}
	if len(cyclic) != 0 {
		t.Errorf("expected no cyclic categories, got %d", len(cyclic))
	}
	if len(roots) != 1 {
		t.Fatalf("expected one root, got %d", len(roots))
	}
	if roots[0].Category.Name != "Hardware" {
		t.Errorf("unexpected root %q", roots[0].Category.Name)
	}
	if len(roots[0].Children) != 1 || roots[0].Children[0].Category.Name != "Cables" {
		t.Fatalf("unexpected children: %+v", roots[0].Children)
	}
	if len(roots[0].Children[0].Children) != 1 {
		t.Error("expected the grandchild under Cables")
	}
}

func TestBrandRepository(t *testing.T) {
	clearCatalog(t)
	repo := NewBrandRepository(testStore)
	ctx := context.Background()

	created, err := repo.Create(ctx, &domain.Brand{Name: "Acme"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	desc := "tools and anvils"
	updated, err := repo.Update(ctx, created.ID, "Acme Corp", &desc)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Acme Corp" {
		t.Errorf("name mismatch: %q", updated.Name)
	}

	brands, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(brands) != 1 {
		t.Errorf("expected one brand, got %d", len(brands))
	}

	if err := repo.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.Get(ctx, created.ID); !errors.Is(err, ErrBrandNotFound) {
		t.Errorf("expected ErrBrandNotFound, got %v", err)
	}
}

func TestUnitRepository(t *testing.T) {
	clearCatalog(t)
	repo := NewUnitRepository(testStore)
	ctx := context.Background()

	abbr := "kg"
	created, err := repo.Create(ctx, &domain.Unit{Name: "Kilogram", Abbreviation: &abbr})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := repo.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Abbreviation == nil || *got.Abbreviation != "kg" {
		t.Errorf("abbreviation mismatch: %v", got.Abbreviation)
	}

	if err := repo.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.Get(ctx, created.ID); !errors.Is(err, ErrUnitNotFound) {
		t.Errorf("expected ErrUnitNotFound, got %v", err)
	}
}
