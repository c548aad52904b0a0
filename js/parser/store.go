package parser

// appendLog is an append-only sequence whose copies share storage, so a
// copy costs O(1). A copy appends in place while it is at the end of the
// shared segment; once another copy has appended past its length it starts
// a new segment on top of the prefix it can see.
type appendLog[T any] struct {
	seg *logSegment[T]
	n   int
}

type logSegment[T any] struct {
	parent *logSegment[T]
	base   int
	items  []T
}

func logOf[T any](items ...T) appendLog[T] {
	var l appendLog[T]
	for _, v := range items {
		l.append(v)
	}
	return l
}

func (l appendLog[T]) Len() int { return l.n }

func (l *appendLog[T]) append(v T) {
	if l.seg == nil || l.n != l.seg.base+len(l.seg.items) {
		l.seg = &logSegment[T]{parent: l.seg, base: l.n}
	}
	l.seg.items = append(l.seg.items, v)
	l.n++
}

// Items returns a fresh slice holding the visible items in order.
func (l appendLog[T]) Items() []T {
	if l.n == 0 {
		return nil
	}
	out := make([]T, l.n)
	end := l.n
	for s := l.seg; end > 0; s = s.parent {
		copy(out[s.base:end], s.items[:end-s.base])
		end = s.base
	}
	return out
}

// overlay is a map read through a chain of layers. A fork gets an empty
// layer on top of the original's, so writes to the fork never reach the
// original. The original must not be written while a fork is in use;
// speculation keeps its start state idle until the attempt ends.
type overlay[K comparable, V any] struct {
	layer *overlayLayer[K, V]
}

type overlayLayer[K comparable, V any] struct {
	parent  *overlayLayer[K, V]
	entries map[K]overlayEntry[V]
}

type overlayEntry[V any] struct {
	value   V
	deleted bool
}

func (o overlay[K, V]) fork() overlay[K, V] {
	return overlay[K, V]{layer: &overlayLayer[K, V]{parent: o.layer}}
}

func (o overlay[K, V]) get(k K) (V, bool) {
	for l := o.layer; l != nil; l = l.parent {
		if e, ok := l.entries[k]; ok {
			return e.value, !e.deleted
		}
	}
	var zero V
	return zero, false
}

// local returns k only when it was written to the top layer.
func (o overlay[K, V]) local(k K) (V, bool) {
	if o.layer != nil {
		if e, ok := o.layer.entries[k]; ok && !e.deleted {
			return e.value, true
		}
	}
	var zero V
	return zero, false
}

func (o *overlay[K, V]) set(k K, v V) {
	o.put(k, overlayEntry[V]{value: v})
}

func (o *overlay[K, V]) delete(k K) {
	o.put(k, overlayEntry[V]{deleted: true})
}

func (o *overlay[K, V]) put(k K, e overlayEntry[V]) {
	if o.layer == nil {
		o.layer = &overlayLayer[K, V]{}
	}
	if o.layer.entries == nil {
		o.layer.entries = make(map[K]overlayEntry[V])
	}
	o.layer.entries[k] = e
}

// settle folds the top layer into base's layer when it sits directly on
// it, keeping the chain as deep as the speculation nesting. base's state
// must be dead: setState calls it with the state being replaced.
func (o *overlay[K, V]) settle(base overlay[K, V]) {
	if o.layer == nil || base.layer == nil || o.layer.parent != base.layer {
		return
	}
	if len(o.layer.entries) > 0 && base.layer.entries == nil {
		base.layer.entries = make(map[K]overlayEntry[V], len(o.layer.entries))
	}
	for k, e := range o.layer.entries {
		base.layer.entries[k] = e
	}
	o.layer = base.layer
}

// flatten resolves every layer into one map.
func (o overlay[K, V]) flatten() map[K]V {
	var layers []*overlayLayer[K, V]
	for l := o.layer; l != nil; l = l.parent {
		layers = append(layers, l)
	}
	out := make(map[K]V)
	for i := len(layers) - 1; i >= 0; i-- {
		for k, e := range layers[i].entries {
			if e.deleted {
				delete(out, k)
			} else {
				out[k] = e.value
			}
		}
	}
	return out
}

// nodeStack is a persistent stack: copies share cells, and push or pop on
// one copy never changes another.
type nodeStack struct {
	top *stackCell
}

type stackCell struct {
	node *Node
	next *stackCell
}

func stackOf(nodes ...*Node) nodeStack {
	var s nodeStack
	for _, n := range nodes {
		s.push(n)
	}
	return s
}

func (s nodeStack) peek() *Node {
	if s.top == nil {
		return nil
	}
	return s.top.node
}

func (s *nodeStack) push(n *Node) {
	s.top = &stackCell{node: n, next: s.top}
}

func (s *nodeStack) pop() *Node {
	c := s.top
	s.top = c.next
	return c.node
}

// replace swaps old for n, copying the cells above it. Entries start at
// strictly increasing offsets from bottom to top, so the walk stops below
// old's start.
func (s *nodeStack) replace(old, n *Node) {
	var above []*Node
	for c := s.top; c != nil; c = c.next {
		if c.node == old {
			rest := &stackCell{node: n, next: c.next}
			for i := len(above) - 1; i >= 0; i-- {
				rest = &stackCell{node: above[i], next: rest}
			}
			s.top = rest
			return
		}
		if c.node.Span.Start.Index < old.Span.Start.Index {
			return
		}
		above = append(above, c.node)
	}
}

// nodes returns the stack from bottom to top.
func (s nodeStack) nodes() []*Node {
	var out []*Node
	for c := s.top; c != nil; c = c.next {
		out = append(out, c.node)
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}
