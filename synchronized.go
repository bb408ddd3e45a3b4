package mempool

import "sync"

// SynchronizedPool is a mutex-guarded decorator over Pool, for callers
// who want single-pool thread-safety without requiring it of the core
// allocator. Pool itself is never internally locked: no operation
// suspends or blocks, and serializing calls is the caller's job unless
// it opts into this wrapper. Allocation handles returned by a
// SynchronizedPool carry no lock of their own, so reading one's bytes
// also goes through the wrapper — via Bytes below — rather than calling
// Allocation.Bytes directly.
type SynchronizedPool struct {
	lock sync.Mutex
	pool *Pool
}

// Synchronized wraps pool in a mutex-guarded decorator. The underlying
// Pool must not be used directly once wrapped, or the mutex protection
// is meaningless.
func Synchronized(pool *Pool) *SynchronizedPool {
	return &SynchronizedPool{pool: pool}
}

func (s *SynchronizedPool) Allocate(size int) (*Allocation, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.pool.Allocate(size)
}

func (s *SynchronizedPool) Free(a *Allocation) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.pool.Free(a)
}

// Bytes returns a's backing memory under lock, or nil if the handle is
// no longer live. Calling a.Bytes() directly on a handle from a
// SynchronizedPool races with concurrent Allocate/Free/Close on the
// same pool; this method is the safe way to read it.
func (s *SynchronizedPool) Bytes(a *Allocation) []byte {
	s.lock.Lock()
	defer s.lock.Unlock()
	return a.Bytes()
}

func (s *SynchronizedPool) Inspect() []Segment {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.pool.Inspect()
}

func (s *SynchronizedPool) TotalSize() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.pool.TotalSize()
}

func (s *SynchronizedPool) AllocatedSize() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.pool.AllocatedSize()
}

func (s *SynchronizedPool) NumAllocs() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.pool.NumAllocs()
}

func (s *SynchronizedPool) NumGaps() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.pool.NumGaps()
}

// Close closes the wrapped pool under lock. The *SynchronizedPool must
// not be used again afterward.
func (s *SynchronizedPool) Close() error {
	s.lock.Lock()
	defer s.lock.Unlock()
	return Close(s.pool)
}
