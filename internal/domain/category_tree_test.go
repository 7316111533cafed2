package domain

import (
	"testing"

	"github.com/google/uuid"
)

func TestBuildCategoryTree(t *testing.T) {
	rootID := uuid.New()
	childID := uuid.New()
	grandchildID := uuid.New()

	t.Run("builds a sorted forest", func(t *testing.T) {
		otherRootID := uuid.New()
		categories := []Category{
			{ID: otherRootID, Name: "Zoo Supplies"},
			{ID: rootID, Name: "Hardware"},
			{ID: childID, Name: "Cables", ParentID: &rootID},
			{ID: grandchildID, Name: "Adapters", ParentID: &childID},
		}

		roots, cyclic := BuildCategoryTree(categories)

		if len(cyclic) != 0 {
			t.Fatalf("expected no cyclic categories, got %d", len(cyclic))
		}
		if len(roots) != 2 {
			t.Fatalf("expected 2 roots, got %d", len(roots))
		}
		if roots[0].Name != "Hardware" || roots[1].Name != "Zoo Supplies" {
			t.Errorf("roots not sorted by name: %q, %q", roots[0].Name, roots[1].Name)
		}
		if len(roots[0].Children) != 1 || roots[0].Children[0].Name != "Cables" {
			t.Fatalf("unexpected children under Hardware: %+v", roots[0].Children)
		}
		if len(roots[0].Children[0].Children) != 1 || roots[0].Children[0].Children[0].Name != "Adapters" {
			t.Error("grandchild missing under Cables")
		}
	})

	t.Run("dangling parent becomes a root", func(t *testing.T) {
		missing := uuid.New()
		categories := []Category{
			{ID: uuid.New(), Name: "Orphan", ParentID: &missing},
		}

		roots, cyclic := BuildCategoryTree(categories)

		if len(cyclic) != 0 {
			t.Errorf("expected no cyclic categories, got %d", len(cyclic))
		}
		if len(roots) != 1 || roots[0].Name != "Orphan" {
			t.Errorf("expected the orphan as a root, got %+v", roots)
		}
	})

	t.Run("parent cycles are reported, not walked", func(t *testing.T) {
		aID := uuid.New()
		bID := uuid.New()
		categories := []Category{
			{ID: rootID, Name: "Hardware"},
			{ID: aID, Name: "Alpha", ParentID: &bID},
			{ID: bID, Name: "Beta", ParentID: &aID},
		}

		roots, cyclic := BuildCategoryTree(categories)

		if len(roots) != 1 || roots[0].Name != "Hardware" {
			t.Errorf("expected only Hardware as a root, got %+v", roots)
		}
		if len(cyclic) != 2 {
			t.Fatalf("expected both cycle members reported, got %d", len(cyclic))
		}
		if cyclic[0].Name != "Alpha" || cyclic[1].Name != "Beta" {
			t.Errorf("cyclic categories not sorted: %q, %q", cyclic[0].Name, cyclic[1].Name)
		}
	})

	t.Run("self reference is reported as cyclic", func(t *testing.T) {
		selfID := uuid.New()
		categories := []Category{
			{ID: selfID, Name: "Selfie", ParentID: &selfID},
		}

		roots, cyclic := BuildCategoryTree(categories)

		if len(roots) != 0 {
			t.Errorf("expected no roots, got %+v", roots)
		}
		if len(cyclic) != 1 || cyclic[0].Name != "Selfie" {
			t.Errorf("expected the self-parented category reported, got %+v", cyclic)
		}
	})

	t.Run("empty input yields empty forest", func(t *testing.T) {
		roots, cyclic := BuildCategoryTree(nil)
		if len(roots) != 0 || len(cyclic) != 0 {
			t.Errorf("expected nothing, got %d roots and %d cyclic", len(roots), len(cyclic))
		}
	})
}
