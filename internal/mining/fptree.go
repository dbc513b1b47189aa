// Basketrules - Association Rule Mining for Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketrules

package mining

const (
	rootNode = 0
	noItem   = -1
)

// fpNode is one item occurrence on a tree path. item is a column index of
// the encoded matrix.
type fpNode struct {
	item     int
	count    int
	parent   int
	children map[int]int
}

// fpTree is an arena-backed FP-tree. Node 0 is the root.
type fpTree struct {
	nodes []fpNode

	// header maps an item to the nodes holding it, in creation order.
	header map[int][]int

	// counts is the total count of each item across the tree.
	counts map[int]int
}

func newFPTree() *fpTree {
	return &fpTree{
		nodes:  []fpNode{{item: noItem, parent: noItem}},
		header: make(map[int][]int),
		counts: make(map[int]int),
	}
}

// insert walks path from the root, incrementing counts along the shared
// prefix and creating nodes where the path diverges.
func (t *fpTree) insert(path []int, count int) {
	cur := rootNode
	for _, item := range path {
		child, ok := t.nodes[cur].children[item]
		if !ok {
			child = len(t.nodes)
			t.nodes = append(t.nodes, fpNode{item: item, parent: cur})
			if t.nodes[cur].children == nil {
				t.nodes[cur].children = make(map[int]int)
			}
			t.nodes[cur].children[item] = child
			t.header[item] = append(t.header[item], child)
		}
		t.nodes[child].count += count
		t.counts[item] += count
		cur = child
	}
}

// prefixPath returns the items on the path from the root down to the parent
// of node, root first.
func (t *fpTree) prefixPath(node int) []int {
	var path []int
	for p := t.nodes[node].parent; p != rootNode && p != noItem; p = t.nodes[p].parent {
		path = append(path, t.nodes[p].item)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// singlePath returns the nodes below the root when the tree has no branches.
func (t *fpTree) singlePath() ([]int, bool) {
	var path []int
	cur := rootNode
	for {
		children := t.nodes[cur].children
		switch len(children) {
		case 0:
			return path, true
		case 1:
			for _, child := range children {
				cur = child
			}
			path = append(path, cur)
		default:
			return nil, false
		}
	}
}

func (t *fpTree) empty() bool {
	return len(t.nodes) == 1
}
