// Package merkle folds an ordered list of record digests into a single root.
//
// Trees are values: Build produces a fresh tree from the full digest list and
// nothing is ever updated in place. At every level nodes are paired left to
// right; a trailing odd node is paired with itself rather than promoted.
package merkle

import (
	"fmt"
	"strings"

	"vote-ledger/hashing"
)

// Node is one tree node. Leaves hold a record digest; internal nodes hold
// the digest of their children's digests.
type Node struct {
	Digest string `json:"digest"`
	Left   *Node  `json:"left,omitempty"`
	Right  *Node  `json:"right,omitempty"`
}

// IsLeaf reports whether n has no children.
func (n *Node) IsLeaf() bool {
	return n.Left == nil && n.Right == nil
}

func combine(left, right string) string {
	return hashing.Concat(left, right)
}

// Build returns the root of the tree over digests, or nil when digests is
// empty. A single digest is returned as a leaf unchanged.
func Build(digests []string) *Node {
	if len(digests) == 0 {
		return nil
	}

	nodes := make([]*Node, len(digests))
	for i, d := range digests {
		nodes[i] = &Node{Digest: d}
	}

	for len(nodes) > 1 {
		level := make([]*Node, 0, (len(nodes)+1)/2)
		for i := 0; i < len(nodes); i += 2 {
			left := nodes[i]
			if i+1 < len(nodes) {
				right := nodes[i+1]
				level = append(level, &Node{Digest: combine(left.Digest, right.Digest), Left: left, Right: right})
				continue
			}
			level = append(level, &Node{Digest: combine(left.Digest, left.Digest), Left: left})
		}
		nodes = level
	}

	return nodes[0]
}

// Root returns the root digest over digests, or "" when digests is empty.
func Root(digests []string) string {
	root := Build(digests)
	if root == nil {
		return ""
	}
	return root.Digest
}

// Levels returns every level of the tree bottom-up, starting with the leaves.
func Levels(digests []string) [][]string {
	if len(digests) == 0 {
		return nil
	}

	levels := [][]string{append([]string(nil), digests...)}
	current := levels[0]
	for len(current) > 1 {
		next := make([]string, 0, (len(current)+1)/2)
		for i := 0; i < len(current); i += 2 {
			if i+1 < len(current) {
				next = append(next, combine(current[i], current[i+1]))
			} else {
				next = append(next, combine(current[i], current[i]))
			}
		}
		levels = append(levels, next)
		current = next
	}
	return levels
}

// LeafCount counts the leaves under n.
func (n *Node) LeafCount() int {
	if n == nil {
		return 0
	}
	if n.IsLeaf() {
		return 1
	}
	return n.Left.LeafCount() + n.Right.LeafCount()
}

// Depth is the number of levels in the tree rooted at n.
func (n *Node) Depth() int {
	if n == nil {
		return 0
	}
	l, r := n.Left.Depth(), n.Right.Depth()
	if r > l {
		l = r
	}
	return l + 1
}

// Walk visits the tree in order (left, node, right), passing each node's
// depth below n.
func (n *Node) Walk(fn func(node *Node, depth int)) {
	n.walk(fn, 0)
}

func (n *Node) walk(fn func(node *Node, depth int), depth int) {
	if n == nil {
		return
	}
	n.Left.walk(fn, depth+1)
	fn(n, depth)
	n.Right.walk(fn, depth+1)
}

// Render draws the tree as indented lines, two spaces per level.
func (n *Node) Render() string {
	var sb strings.Builder
	n.Walk(func(node *Node, depth int) {
		fmt.Fprintf(&sb, "%sHash: %s\n", strings.Repeat(" ", depth*2), node.Digest)
	})
	return sb.String()
}
