package api

import (
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortTree orders every level of the tree by name using the collation rules of
// tag, in place. Ties keep their backend order.
func SortTree(nodes []TreeNode, tag language.Tag) {
	sortLevel(nodes, collate.New(tag, collate.IgnoreCase, collate.Numeric))
}

func sortLevel(nodes []TreeNode, c *collate.Collator) {
	slices.SortStableFunc(nodes, func(a, b TreeNode) int {
		return c.CompareString(a.Name, b.Name)
	})
	for i := range nodes {
		sortLevel(nodes[i].Children, c)
	}
}

// Walk visits the tree depth first. fn receives each node with its depth.
// Returning false skips the node's children.
func Walk(nodes []TreeNode, fn func(n TreeNode, depth int) bool) {
	walk(nodes, 0, fn)
}

func walk(nodes []TreeNode, depth int, fn func(TreeNode, int) bool) {
	for _, n := range nodes {
		if fn(n, depth) {
			walk(n.Children, depth+1, fn)
		}
	}
}
