package mempool

import "github.com/pkg/errors"

// Malloc is the pluggable system allocator a Pool asks for its backing
// buffer. Tests inject a failing Malloc to exercise the out-of-memory
// path without needing to actually exhaust the heap.
type Malloc func(size int) []byte

func defaultMalloc(size int) []byte {
	return make([]byte, size)
}

// Pool binds a backing buffer, a region list, a gap index and summary
// metadata into one unit, and exposes the allocate/free/inspect
// operations. A Pool is not safe for concurrent use; see Synchronized.
type Pool struct {
	buf    []byte
	policy Policy
	closed bool

	nodes     []region
	deadSlots []regionIdx
	head      regionIdx

	gaps    []gapEntry
	numGaps int

	allocSize int
	numAllocs int
	usedNodes int
}

// Open allocates a backing buffer of exactly size bytes and registers a
// new pool with that placement policy. It fails with ErrOutOfMemory if
// the backing buffer could not be acquired, and with
// ErrSizeMustBePositive if size <= 0.
func Open(size int, policy Policy) (*Pool, error) {
	return OpenWithAllocator(size, policy, defaultMalloc)
}

// OpenWithAllocator is Open with an explicit backing allocator, letting
// callers simulate allocation failure (malloc returning nil) or supply
// pre-zeroed / pooled memory of their own. A malloc that returns a
// buffer shorter than the requested size also fails with
// ErrOutOfMemory, rather than letting the pool claim a size it can't
// back.
func OpenWithAllocator(size int, policy Policy, malloc Malloc) (*Pool, error) {
	if !registryInitialized {
		return nil, ErrNotInitialized
	}
	if size <= 0 {
		return nil, ErrSizeMustBePositive
	}
	buf := malloc(size)
	if buf == nil || len(buf) < size {
		return nil, ErrOutOfMemory
	}

	p := &Pool{
		buf:       buf,
		policy:    policy,
		nodes:     make([]region, nodeStoreInitCapacity),
		deadSlots: make([]regionIdx, 0, nodeStoreInitCapacity-1),
	}
	for i := 1; i < nodeStoreInitCapacity; i++ {
		p.deadSlots = append(p.deadSlots, regionIdx(i))
	}
	p.nodes[0] = region{base: 0, size: size, allocated: false, live: true, prev: noRegion, next: noRegion}
	p.head = 0
	p.usedNodes = 1

	p.gaps = make([]gapEntry, 0, gapIndexInitCapacity)
	p.insertGap(0)

	register(p)
	return p, nil
}

// Close requires the pool to be in its initial state — exactly one gap
// and zero live allocations — and releases it. It fails with ErrNotFreed
// otherwise, leaving the pool open and operable. Close on an
// already-closed pool fails with ErrPoolClosed.
func Close(p *Pool) error {
	if !registryInitialized {
		return ErrNotInitialized
	}
	if p.closed {
		return ErrPoolClosed
	}
	if p.numGaps != 1 || p.numAllocs != 0 {
		return errors.Wrap(ErrNotFreed, "pool has live allocations or more than one gap")
	}
	unregister(p)
	p.closed = true
	p.buf = nil
	p.nodes = nil
	p.deadSlots = nil
	p.gaps = nil
	p.head = noRegion
	p.numGaps = 0
	p.usedNodes = 0
	return nil
}

// Allocation is a live allocation's handle: it exposes only the base
// offset and size of the range it covers. Bytes additionally gives
// convenient access to the backing memory itself.
type Allocation struct {
	pool *Pool
	idx  regionIdx
	gen  int
	base int
	size int
}

// Base returns the allocation's offset within its pool's backing buffer.
func (a *Allocation) Base() int { return a.base }

// Size returns the allocation's size in bytes.
func (a *Allocation) Size() int { return a.size }

// Bytes returns the backing memory for this allocation, or nil if the
// handle is no longer live — it was already freed, its pool's node
// store has since recycled its slot for an unrelated allocation, or the
// pool has been closed. This reads pool state directly and does not
// itself take any lock: a pool wrapped with Synchronized must be read
// through SynchronizedPool.Bytes instead, the same way its other
// operations must go through the wrapper rather than the raw Pool.
func (a *Allocation) Bytes() []byte {
	if _, ok := a.pool.liveNode(a); !ok {
		return nil
	}
	return a.pool.buf[a.base : a.base+a.size]
}

// liveNode reports whether a still refers to a live, unrecycled
// allocation of p, and returns the backing node if so. Shared by Free
// and Bytes so both agree on what counts as a stale handle.
func (p *Pool) liveNode(a *Allocation) (*region, bool) {
	if p.closed || a == nil || a.pool != p || int(a.idx) >= len(p.nodes) {
		return nil, false
	}
	target := p.node(a.idx)
	if !target.live || !target.allocated || target.base != a.base || target.gen != a.gen {
		return nil, false
	}
	return target, true
}

// Allocate selects a free region per the pool's placement policy,
// splits off any remainder, and returns a handle to the newly live
// allocation. It fails with ErrNoGap if no region is large enough, and
// with ErrPoolClosed if the pool has already been closed.
func (p *Pool) Allocate(size int) (*Allocation, error) {
	if p.closed {
		return nil, ErrPoolClosed
	}
	if size <= 0 {
		return nil, ErrSizeMustBePositive
	}
	if p.numGaps == 0 {
		return nil, ErrNoGap
	}

	var chosen regionIdx
	switch p.policy {
	case BestFit:
		chosen = p.bestFitGap(size)
	default:
		chosen = p.firstFitGap(size)
	}
	if chosen == noRegion {
		return nil, ErrNoGap
	}

	chosenNode := p.node(chosen)
	remainder := chosenNode.size - size
	p.removeGap(chosen)

	chosenNode.allocated = true
	chosenNode.size = size

	if remainder > 0 {
		newIdx := p.claimSlot()
		// claimSlot may have grown p.nodes, invalidating chosenNode; the
		// node store holds structs, so fetch by index again rather than
		// reuse the stale pointer.
		chosenNode = p.node(chosen)
		newNode := p.node(newIdx)
		newNode.base = chosenNode.base + size
		newNode.size = remainder
		newNode.allocated = false
		newNode.live = true

		p.spliceAfter(chosen, newIdx)
		p.insertGap(newIdx)
		p.usedNodes++
	}

	p.numAllocs++
	p.allocSize += size

	return &Allocation{pool: p, idx: chosen, gen: chosenNode.gen, base: chosenNode.base, size: size}, nil
}

// Free flips a live allocation back into a gap and coalesces it with any
// immediately adjacent free neighbors. It fails with ErrPoolClosed if
// the pool has already been closed, and with ErrNotFreed if the handle
// is not a live allocation of this pool, leaving the pool unchanged.
func (p *Pool) Free(a *Allocation) error {
	if p.closed {
		return ErrPoolClosed
	}
	target, ok := p.liveNode(a)
	if !ok {
		return ErrNotFreed
	}

	p.numAllocs--
	p.allocSize -= target.size
	target.allocated = false
	target.gen++

	survivor := a.idx

	// Merge with successor first: keeps the analysis local and adds at
	// most one new gap entry overall.
	if next := target.next; next != noRegion {
		nextNode := p.node(next)
		if !nextNode.allocated {
			p.removeGap(next)
			target.size += nextNode.size
			p.unlink(next)
			p.releaseSlot(next)
			p.usedNodes--
		}
	}

	// Re-fetch: unlink/releaseSlot above may not reallocate p.nodes, but
	// keep this defensive against future changes to those helpers.
	target = p.node(survivor)

	if prev := target.prev; prev != noRegion {
		prevNode := p.node(prev)
		if !prevNode.allocated {
			p.removeGap(prev)
			prevNode.size += target.size
			p.unlink(survivor)
			p.releaseSlot(survivor)
			p.usedNodes--
			survivor = prev
		}
	}

	p.insertGap(survivor)
	return nil
}

// Inspect produces a newly allocated sequence of (size, allocated) pairs
// corresponding to the region list in address order. Ownership transfers
// to the caller; the snapshot never aliases internal pool state.
func (p *Pool) Inspect() []Segment {
	return p.segments()
}

// TotalSize returns the pool's fixed backing-buffer size.
func (p *Pool) TotalSize() int { return len(p.buf) }

// AllocatedSize returns the number of bytes currently allocated.
func (p *Pool) AllocatedSize() int { return p.allocSize }

// NumAllocs returns the number of live allocations.
func (p *Pool) NumAllocs() int { return p.numAllocs }

// NumGaps returns the number of free regions.
func (p *Pool) NumGaps() int { return p.numGaps }

// UsedNodes returns the number of live region nodes tracked by the pool.
func (p *Pool) UsedNodes() int { return p.usedNodes }

// PolicyInUse returns the placement policy the pool was opened with.
func (p *Pool) PolicyInUse() Policy { return p.policy }

// Closed reports whether the pool has already been passed to Close.
// Close resets NumGaps to 0, the same value a completely full pool
// reports, so NumGaps alone cannot tell a full-but-open pool apart from
// a closed one.
func (p *Pool) Closed() bool { return p.closed }
