package primitives

import "sync"

// BufferSlot is a move-only handle over one exclusively-owned slot of a
// BufferPool's backing store. Callers must call Release exactly once;
// Release is idempotent so a deferred double-release is harmless.
type BufferSlot struct {
	pool   *BufferPool
	index  int
	bytes  []byte
	active bool
}

func (s *BufferSlot) Bytes() []byte { return s.bytes }

// Release returns the slot to its pool, waking one waiter.
func (s *BufferSlot) Release() {
	if !s.active {
		return
	}
	s.active = false
	s.pool.release(s.index)
}

// BufferPool is a single contiguous byte store pre-divided into slotCount
// equal slots, generalized from the teacher's ECS row-recycling idiom
// (archetype.recycled free-list in ecs.go) into a condition-variable-backed
// blocking pool (spec.md §4.15, a shared-state island per §5).
type BufferPool struct {
	mu        sync.Mutex
	cond      *sync.Cond
	store     []byte
	slotSize  int
	free      []int
	borrowed  map[int]bool
}

func NewBufferPool(slotCount, slotSize int) *BufferPool {
	p := &BufferPool{
		store:    make([]byte, slotCount*slotSize),
		slotSize: slotSize,
		free:     make([]int, slotCount),
		borrowed: make(map[int]bool),
	}
	for i := range p.free {
		p.free[i] = i
	}
	p.cond = sync.NewCond(&p.mu)
	return p
}

// Borrow blocks until a slot is free.
func (p *BufferPool) Borrow() *BufferSlot {
	p.mu.Lock()
	for len(p.free) == 0 {
		p.cond.Wait()
	}
	idx := p.free[len(p.free)-1]
	p.free = p.free[:len(p.free)-1]
	p.borrowed[idx] = true
	p.mu.Unlock()

	return &BufferSlot{pool: p, index: idx, bytes: p.slotBytes(idx), active: true}
}

// TryBorrow returns nil if the pool is exhausted instead of blocking.
func (p *BufferPool) TryBorrow() *BufferSlot {
	p.mu.Lock()
	if len(p.free) == 0 {
		p.mu.Unlock()
		return nil
	}
	idx := p.free[len(p.free)-1]
	p.free = p.free[:len(p.free)-1]
	p.borrowed[idx] = true
	p.mu.Unlock()

	return &BufferSlot{pool: p, index: idx, bytes: p.slotBytes(idx), active: true}
}

func (p *BufferPool) slotBytes(idx int) []byte {
	start := idx * p.slotSize
	return p.store[start : start+p.slotSize]
}

func (p *BufferPool) release(idx int) {
	p.mu.Lock()
	delete(p.borrowed, idx)
	p.free = append(p.free, idx)
	p.mu.Unlock()
	p.cond.Signal()
}
