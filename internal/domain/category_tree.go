package domain

import (
	"sort"

	"github.com/google/uuid"
)

// CategoryNode is a category with its resolved children
type CategoryNode struct {
	Category
	Children []*CategoryNode `json:"children,omitempty"`
}

// BuildCategoryTree arranges flat categories into a forest using their
// parent references. A category whose parent is missing is treated as a
// root. Categories that sit on a parent cycle are never reachable from a
// root; they are returned separately so callers can surface the broken
// data instead of looping over it.
func BuildCategoryTree(categories []Category) (roots []*CategoryNode, cyclic []Category) {
	nodes := make(map[uuid.UUID]*CategoryNode, len(categories))
	for _, c := range categories {
		nodes[c.ID] = &CategoryNode{Category: c}
	}

	for _, node := range nodes {
		if node.ParentID == nil {
			roots = append(roots, node)
			continue
		}
		parent, ok := nodes[*node.ParentID]
		if !ok || parent == node {
			// dangling parent reference or direct self-cycle
			if ok {
				cyclic = append(cyclic, node.Category)
				continue
			}
			roots = append(roots, node)
			continue
		}
		parent.Children = append(parent.Children, node)
	}

	// Anything not reachable from a root sits on a parent cycle.
	visited := make(map[uuid.UUID]bool, len(nodes))
	var walk func(n *CategoryNode)
	walk = func(n *CategoryNode) {
		if visited[n.ID] {
			return
		}
		visited[n.ID] = true
		for _, child := range n.Children {
			walk(child)
		}
	}
	for _, root := range roots {
		walk(root)
	}
	for _, node := range nodes {
		if !visited[node.ID] && node.ParentID != nil && nodes[*node.ParentID] != node {
			cyclic = append(cyclic, node.Category)
		}
	}

	sortNodes(roots)
	sort.Slice(cyclic, func(i, j int) bool { return cyclic[i].Name < cyclic[j].Name })
	return roots, cyclic
}

func sortNodes(nodes []*CategoryNode) {
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].Name < nodes[j].Name })
	for _, n := range nodes {
		sortNodes(n.Children)
	}
}
