// Package thread rebuilds nested comment forests from the flat rows the
// repository layer returns. It is pure: no I/O, no clock, no randomness.
package thread

import (
	"sort"

	"devhoc/internal/model"
)

// Node is a comment plus its resolved place in the thread. RootID is the id
// of the top-level ancestor (the node's own id when it is itself a root),
// never an intermediate reply.
type Node struct {
	model.Comment
	RootID  string  `json:"root_id"`
	Replies []*Node `json:"replies"`
}

// Build turns a flat set of comments into a forest of threads, newest first
// at every level. Input order is not significant and the input is never
// mutated. Every input record lands in exactly one position of exactly one
// tree.
//
// Parents are linked by id through an index, not by walking raw pointers.
// A dangling ParentID (deleted or not-yet-loaded parent), a comment citing
// itself, or a parent cycle in a corrupt snapshot all degrade to root
// placement instead of failing the build or producing an unwalkable tree.
func Build(records []model.Comment) []*Node {
	nodes := make(map[string]*Node, len(records))
	order := make([]string, 0, len(records))
	for i := range records {
		c := records[i]
		if _, ok := nodes[c.ID]; ok {
			// Duplicate id in the snapshot; keep the first occurrence.
			continue
		}
		nodes[c.ID] = &Node{Comment: c, RootID: c.ID, Replies: []*Node{}}
		order = append(order, c.ID)
	}

	roots := make([]*Node, 0, len(order))
	for _, id := range order {
		n := nodes[id]
		if n.ParentID == nil || *n.ParentID == "" || *n.ParentID == n.ID {
			roots = append(roots, n)
			continue
		}
		parent, ok := nodes[*n.ParentID]
		if !ok {
			// Dangling reference: surface the orphan as a root rather
			// than dropping it.
			roots = append(roots, n)
			continue
		}
		parent.Replies = append(parent.Replies, n)
	}

	// Stamp RootID and cut any back-edges. This must run after all links
	// exist because a reply can appear in the input before its parent.
	seen := make(map[string]bool, len(order))
	for _, root := range roots {
		resolve(root, root.ID, seen)
	}

	// Nodes still unseen sit on a parent cycle; promote one entry point per
	// cycle to a root and let resolve cut the edge that closes the loop.
	for _, id := range order {
		if !seen[id] {
			n := nodes[id]
			roots = append(roots, n)
			resolve(n, n.ID, seen)
		}
	}

	sortForest(roots)
	return roots
}

// resolve walks a thread top-down stamping the root's id on every node,
// dropping child edges that point back at already-visited nodes.
func resolve(n *Node, rootID string, seen map[string]bool) {
	seen[n.ID] = true
	n.RootID = rootID
	kept := n.Replies[:0]
	for _, child := range n.Replies {
		if seen[child.ID] {
			continue
		}
		kept = append(kept, child)
		resolve(child, rootID, seen)
	}
	n.Replies = kept
}

// sortForest orders siblings by CreatedAt descending at every level.
// Zero timestamps sort as oldest; ties break on id so output is stable
// across input orderings.
func sortForest(nodes []*Node) {
	sort.SliceStable(nodes, func(i, j int) bool {
		a, b := nodes[i].CreatedAt, nodes[j].CreatedAt
		if a.Equal(b) {
			return nodes[i].ID < nodes[j].ID
		}
		return a.After(b)
	})
	for _, n := range nodes {
		sortForest(n.Replies)
	}
}

// Count returns the total number of nodes in the forest.
func Count(forest []*Node) int {
	total := 0
	for _, n := range forest {
		total += 1 + Count(n.Replies)
	}
	return total
}

// Flatten returns every node in the forest in depth-first order.
func Flatten(forest []*Node) []*Node {
	var out []*Node
	for _, n := range forest {
		out = append(out, n)
		out = append(out, Flatten(n.Replies)...)
	}
	return out
}
