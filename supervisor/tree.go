package supervisor

import (
	"context"
	"sync"
	"time"

	"github.com/lguibr/actority/id"
)

// Tree is a registry of Supervisors keyed by SupervisorId, with parent
// pointers expressed as ids rather than owning references, so ancestry
// is a lookup rather than an owning graph and can never form a
// reference cycle.
type Tree struct {
	mu       sync.Mutex
	nodes    map[id.SupervisorId]*Supervisor
	parent   map[id.SupervisorId]id.SupervisorId
	hasPrnt  map[id.SupervisorId]bool
	children map[id.SupervisorId][]id.SupervisorId
	roots    []id.SupervisorId
}

// NewTree returns an empty supervisor registry.
func NewTree() *Tree {
	return &Tree{
		nodes:    make(map[id.SupervisorId]*Supervisor),
		parent:   make(map[id.SupervisorId]id.SupervisorId),
		hasPrnt:  make(map[id.SupervisorId]bool),
		children: make(map[id.SupervisorId][]id.SupervisorId),
	}
}

// Register adds sup to the tree. If parent is non-nil, sup is recorded
// as one of parent's children, in registration order; otherwise sup is
// a root. Returns an error if sup.ID() is already registered.
func (t *Tree) Register(sup *Supervisor, parent *id.SupervisorId) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	sid := sup.ID()
	if _, exists := t.nodes[sid]; exists {
		return ErrDuplicateChild
	}
	t.nodes[sid] = sup

	if parent == nil {
		t.roots = append(t.roots, sid)
		return nil
	}
	t.parent[sid] = *parent
	t.hasPrnt[sid] = true
	t.children[*parent] = append(t.children[*parent], sid)
	return nil
}

// Supervisor returns the registered Supervisor for sid, if any.
func (t *Tree) Supervisor(sid id.SupervisorId) (*Supervisor, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	sup, ok := t.nodes[sid]
	return sup, ok
}

// Parent returns sid's parent SupervisorId, if it has one.
func (t *Tree) Parent(sid id.SupervisorId) (id.SupervisorId, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.hasPrnt[sid] {
		return id.SupervisorId{}, false
	}
	return t.parent[sid], true
}

// Roots returns every supervisor registered without a parent, in
// registration order.
func (t *Tree) Roots() []id.SupervisorId {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]id.SupervisorId(nil), t.roots...)
}

// Children returns sid's direct child supervisors, in registration
// order.
func (t *Tree) Children(sid id.SupervisorId) []id.SupervisorId {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]id.SupervisorId(nil), t.children[sid]...)
}

// RemoveSubtree detaches sid and every descendant from the tree,
// returning the removed ids in the order they were removed (sid first,
// then its descendants depth-first). It does not stop the supervisors;
// call Stop on the returned ids first if a live shutdown is wanted.
func (t *Tree) RemoveSubtree(sid id.SupervisorId) []id.SupervisorId {
	t.mu.Lock()
	defer t.mu.Unlock()

	parentID, hadParent := t.parent[sid], t.hasPrnt[sid]
	var removed []id.SupervisorId
	var walk func(id.SupervisorId)
	walk = func(cur id.SupervisorId) {
		removed = append(removed, cur)
		for _, child := range t.children[cur] {
			walk(child)
		}
		delete(t.nodes, cur)
		delete(t.children, cur)
		delete(t.parent, cur)
		delete(t.hasPrnt, cur)
	}
	walk(sid)

	t.roots = removeID(t.roots, sid)
	if hadParent {
		t.children[parentID] = removeID(t.children[parentID], sid)
	}
	return removed
}

func removeID(list []id.SupervisorId, target id.SupervisorId) []id.SupervisorId {
	out := list[:0]
	for _, x := range list {
		if !x.Equal(target) {
			out = append(out, x)
		}
	}
	return out
}

// Shutdown stops every registered supervisor, proceeding top-down from
// each root and, within a node, in reverse registration order across
// its children.
func (t *Tree) Shutdown(ctx context.Context, timeout time.Duration) {
	for _, rootID := range t.Roots() {
		t.shutdownSubtree(ctx, rootID, timeout)
	}
}

func (t *Tree) shutdownSubtree(ctx context.Context, sid id.SupervisorId, timeout time.Duration) {
	if sup, ok := t.Supervisor(sid); ok {
		_ = sup.Stop(ctx, timeout)
	}
	kids := t.Children(sid)
	for i := len(kids) - 1; i >= 0; i-- {
		t.shutdownSubtree(ctx, kids[i], timeout)
	}
}
