package cache

import "sort"

// WalkFunc receives each value-bearing entry during a Walk.
type WalkFunc func(path []string, value any)

// Walk visits every value-bearing entry in insertion order of first
// computation. It takes a snapshot under the lock and invokes fn outside it,
// and never mutates use counts or access times, so it is safe to call
// repeatedly (e.g. from server-side extraction).
func (e *Entity) Walk(fn WalkFunc) {
	type item struct {
		path  []string
		value any
		seq   uint64
	}

	e.mu.Lock()
	var items []item
	var visit func(n *node, path []string)
	visit = func(n *node, path []string) {
		if n.state == stateDone {
			items = append(items, item{path: append([]string(nil), path...), value: n.value, seq: n.seq})
		}
		for seg, c := range n.children {
			visit(c, append(path, seg))
		}
	}
	visit(e.root, nil)
	e.mu.Unlock()

	sort.Slice(items, func(i, j int) bool { return items[i].seq < items[j].seq })
	for _, it := range items {
		fn(it.path, it.value)
	}
}
