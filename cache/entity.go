package cache

import (
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
)

// ErrReentrantCompute is returned when an Update compute callback
// synchronously re-enters Update on the path it is already computing.
// Check with errors.Is.
var ErrReentrantCompute = errors.New("cache: re-entrant compute on a path already computing")

type entryState uint8

const (
	stateEmpty entryState = iota
	stateComputing
	stateDone
)

// node is a trie node keyed by path segments. Only leaf nodes carry a
// payload; intermediate nodes exist solely to hold children and the use
// counts of their subtree.
type node struct {
	children    map[string]*node
	state       entryState
	value       any
	useCount    int
	lastAccess  time.Time
	seq         uint64
	retain      bool
	onEvict     func(value any)
	cancelEvict func()
}

// Entity is a reference-counted hierarchical store mapping an ordered
// sequence of string keys to a cached value. Values are computed at most
// once per path, consumers acquire and release entries through OpUseCount,
// and a leaf whose count drops to zero is evicted after a deferred,
// cancellable delay.
//
// All methods are safe for concurrent use. Eviction callbacks run without
// the entity lock held.
type Entity struct {
	mu   sync.Mutex
	root *node
	cfg  config
	id   string
	seq  uint64
}

// New returns an empty Entity.
func New(opts ...Option) *Entity {
	return &Entity{
		root: &node{children: make(map[string]*node)},
		cfg:  applyOptions(opts),
		id:   uuid.NewString(),
	}
}

// ID returns the entity's unique instance identifier.
func (e *Entity) ID() string {
	return e.id
}

// Get returns the cached value for path if one is present. It never mutates
// the entry: no use-count or access-time changes happen through Get.
func (e *Entity) Get(path []string) (any, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	n := e.lookup(path)
	if n == nil || n.state != stateDone {
		return nil, false
	}
	return n.value, true
}

// Get returns the cached value for path asserted to type T.
func Get[T any](e *Entity, path []string) (T, bool) {
	v, ok := e.Get(path)
	if !ok {
		var zero T
		return zero, false
	}
	typed, ok := v.(T)
	if !ok {
		var zero T
		return zero, false
	}
	return typed, true
}

// Update returns the cached value for path, computing and storing it first
// when absent. compute runs at most once per path per generation; a compute
// callback may call Update on a different path, but re-entering the path it
// is computing returns ErrReentrantCompute. A compute error leaves the slot
// empty and propagates to the caller.
func (e *Entity) Update(path []string, compute func() (any, error), opts ...UpdateOption) (any, error) {
	uo := applyUpdateOptions(opts)

	e.mu.Lock()
	n := e.ensure(path)
	switch n.state {
	case stateDone:
		n.lastAccess = time.Now()
		v := n.value
		e.mu.Unlock()
		return v, nil
	case stateComputing:
		e.mu.Unlock()
		return nil, errors.WithDetailf(ErrReentrantCompute, "path %v", path)
	}
	n.state = stateComputing
	// The lock is released while compute runs so that nested Update calls on
	// other paths remain legal. The computing marker keeps this path claimed.
	e.mu.Unlock()

	v, err := compute()

	e.mu.Lock()
	if err != nil {
		n.state = stateEmpty
		e.prune(path)
		e.mu.Unlock()
		return nil, err
	}
	n.state = stateDone
	n.value = v
	n.lastAccess = time.Now()
	n.retain = uo.retain
	n.onEvict = uo.onEvict
	e.seq++
	n.seq = e.seq
	e.mu.Unlock()

	if e.cfg.logger != nil {
		e.cfg.logger.Trace("cache: computed entry for path %v", path)
	}
	return v, nil
}

// OpUseCount adjusts the consumer count of path and every ancestor node by
// delta (+1 or -1). Counts never go below zero. When a leaf's count reaches
// zero and the entry is not retained, eviction is scheduled after the
// configured clear delay; a subsequent increment before the delay fires
// cancels the pending eviction.
func (e *Entity) OpUseCount(path []string, delta int) {
	if len(path) == 0 {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	if delta > 0 {
		n := e.root
		for _, seg := range path {
			child, ok := n.children[seg]
			if !ok {
				child = &node{children: make(map[string]*node)}
				n.children[seg] = child
			}
			child.useCount += delta
			n = child
		}
		if n.cancelEvict != nil {
			n.cancelEvict()
			n.cancelEvict = nil
		}
		return
	}

	nodes := e.chain(path)
	if nodes == nil {
		return
	}
	for _, n := range nodes {
		if n.useCount > 0 {
			n.useCount += delta
		}
	}
	leaf := nodes[len(nodes)-1]
	if leaf.useCount == 0 && !leaf.retain && leaf.cancelEvict == nil {
		p := append([]string(nil), path...)
		leaf.cancelEvict = e.cfg.scheduler(e.cfg.clearDelay, func() {
			e.evict(p)
		})
	}
}

// UseCount returns the current consumer count for path.
func (e *Entity) UseCount(path []string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	n := e.lookup(path)
	if n == nil {
		return 0
	}
	return n.useCount
}

// Clear removes the entry at path and its whole subtree regardless of use
// counts, firing eviction callbacks for every removed value. A nil path
// empties the entity.
func (e *Entity) Clear(path []string) {
	var removed []*node
	e.mu.Lock()
	if len(path) == 0 {
		collect(e.root, &removed)
		e.root = &node{children: make(map[string]*node)}
	} else {
		nodes := e.chain(path)
		if nodes == nil {
			e.mu.Unlock()
			return
		}
		leaf := nodes[len(nodes)-1]
		collect(leaf, &removed)
		parent := e.root
		if len(nodes) > 1 {
			parent = nodes[len(nodes)-2]
		}
		delete(parent.children, path[len(path)-1])
		e.prune(path[:len(path)-1])
	}
	e.mu.Unlock()

	for _, n := range removed {
		if n.onEvict != nil {
			n.onEvict(n.value)
		}
	}
}

// Len returns the number of value-bearing entries.
func (e *Entity) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	var count int
	var visit func(*node)
	visit = func(n *node) {
		if n.state == stateDone {
			count++
		}
		for _, c := range n.children {
			visit(c)
		}
	}
	visit(e.root)
	return count
}

// evict removes the leaf at path if it is still unused, then prunes
// childless ancestors. Called from the scheduler after the clear delay.
func (e *Entity) evict(path []string) {
	e.mu.Lock()
	nodes := e.chain(path)
	if nodes == nil {
		e.mu.Unlock()
		return
	}
	leaf := nodes[len(nodes)-1]
	leaf.cancelEvict = nil
	if leaf.useCount > 0 || leaf.state == stateComputing || len(leaf.children) > 0 {
		e.mu.Unlock()
		return
	}
	parent := e.root
	if len(nodes) > 1 {
		parent = nodes[len(nodes)-2]
	}
	delete(parent.children, path[len(path)-1])
	e.prune(path[:len(path)-1])
	onEvict, value := leaf.onEvict, leaf.value
	e.mu.Unlock()

	if e.cfg.logger != nil {
		e.cfg.logger.Trace("cache: evicted entry for path %v", path)
	}
	if onEvict != nil {
		onEvict(value)
	}
}

// prune removes childless, payload-free nodes along path, deepest first.
// Caller must hold the lock.
func (e *Entity) prune(path []string) {
	for i := len(path); i > 0; i-- {
		nodes := e.chain(path[:i])
		if nodes == nil {
			return
		}
		n := nodes[len(nodes)-1]
		if len(n.children) > 0 || n.state == stateDone || n.useCount > 0 {
			return
		}
		parent := e.root
		if len(nodes) > 1 {
			parent = nodes[len(nodes)-2]
		}
		delete(parent.children, path[i-1])
	}
}

// lookup returns the node at path, or nil. Caller must hold the lock.
func (e *Entity) lookup(path []string) *node {
	n := e.root
	for _, seg := range path {
		child, ok := n.children[seg]
		if !ok {
			return nil
		}
		n = child
	}
	return n
}

// chain returns every node along path, leaf last, or nil if any segment is
// missing. Caller must hold the lock.
func (e *Entity) chain(path []string) []*node {
	nodes := make([]*node, 0, len(path))
	n := e.root
	for _, seg := range path {
		child, ok := n.children[seg]
		if !ok {
			return nil
		}
		nodes = append(nodes, child)
		n = child
	}
	return nodes
}

// ensure creates (if needed) and returns the node at path. Caller must hold
// the lock.
func (e *Entity) ensure(path []string) *node {
	n := e.root
	for _, seg := range path {
		child, ok := n.children[seg]
		if !ok {
			child = &node{children: make(map[string]*node)}
			n.children[seg] = child
		}
		n = child
	}
	return n
}

// collect gathers every value-bearing node in the subtree rooted at n,
// cancelling any pending evictions along the way. Caller must hold the lock.
func collect(n *node, out *[]*node) {
	if n.cancelEvict != nil {
		n.cancelEvict()
		n.cancelEvict = nil
	}
	if n.state == stateDone {
		*out = append(*out, n)
	}
	for _, c := range n.children {
		collect(c, out)
	}
}
