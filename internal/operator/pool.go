// Package operator implements the fixed pool of operator identifiers
// {1..N} the dispatcher hands out to in-flight calls.
package operator

import "sync"

// Pool holds the set of free operator ids. Acquired ids live inside
// dispatched CDRs until their holder calls Release.
type Pool struct {
	mu    sync.Mutex
	free  []uint64
	total uint64
}

// New returns a Pool with n operators, all initially free. New(0) yields
// a pool with no operators, from which TryAcquire always fails.
func New(n uint64) *Pool {
	p := &Pool{}
	p.resizeLocked(n)
	return p
}

// TryAcquire returns a free operator id, or ok=false if none are free.
func (p *Pool) TryAcquire() (id uint64, ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.free) == 0 {
		return 0, false
	}
	last := len(p.free) - 1
	id = p.free[last]
	p.free = p.free[:last]
	return id, true
}

// Release returns id to the free set. Per spec, a release for an id
// beyond the current capacity is dropped silently: this is how a
// shrink converges without forcibly reclaiming operators still
// servicing a call.
func (p *Pool) Release(id uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if id > p.total {
		return
	}
	p.free = append(p.free, id)
}

// Resize grows or shrinks the pool to n operators (n >= 1).
//
// Growing appends the newly available ids to the free set. Shrinking
// removes any free id above the new capacity; ids currently acquired
// (in-flight) above the new capacity are not reclaimed here — their
// eventual Release is dropped by the id > capacity rule above, so the
// pool naturally converges without aborting in-flight work.
func (p *Pool) Resize(n uint64) bool {
	if n < 1 {
		return false
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.resizeLocked(n)
	return true
}

func (p *Pool) resizeLocked(n uint64) {
	switch {
	case n > p.total:
		for id := p.total + 1; id <= n; id++ {
			p.free = append(p.free, id)
		}
	case n < p.total:
		kept := p.free[:0]
		for _, id := range p.free {
			if id <= n {
				kept = append(kept, id)
			}
		}
		p.free = kept
	}
	p.total = n
}

// Free returns the number of currently unacquired operators.
func (p *Pool) Free() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.free)
}

// Capacity returns the configured number of operators.
func (p *Pool) Capacity() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.total
}
