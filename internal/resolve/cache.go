package resolve

import (
	"sync"

	"weft/internal/host"
)

// ShapeCache deduplicates shapes per originating host class. Reads may
// come from concurrently compiling functions; the check-then-insert on
// interning is a single writer critical section, so nominal class
// registration in the type interner is serialized through it.
type ShapeCache struct {
	mu      sync.RWMutex
	byClass map[host.Class][]*Shape
}

func NewShapeCache() *ShapeCache {
	return &ShapeCache{byClass: make(map[host.Class][]*Shape)}
}

// Intern freezes the builder into a shape, unless a structurally equal
// shape for the same host class is already cached; then the cached shape
// is returned and the builder is discarded. Either way the builder is
// spent afterwards.
func (c *ShapeCache) Intern(b *ShapeBuilder) (*Shape, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, s := range c.byClass[b.class] {
		eq, err := b.equalsShape(s)
		if err != nil {
			return nil, err
		}
		if eq {
			b.discard()
			return s, nil
		}
	}
	s := b.materialize()
	c.byClass[b.class] = append(c.byClass[b.class], s)
	return s, nil
}

// Lookup returns the cached shapes for a host class, in insertion order.
func (c *ShapeCache) Lookup(class host.Class) []*Shape {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.byClass[class]
}
