package mempool

import "github.com/pkg/errors"

// Sentinel errors returned by the public operations. Idiomatic Go
// prefers a nil error for success and a distinguishable sentinel
// otherwise, rather than a status-code enum, so that's the shape used
// here — callers compare with errors.Is rather than switching on a code.
var (
	// ErrCalledAgain is returned by Init and Shutdown when the registry
	// lifecycle is violated (e.g. Init called twice in a row).
	ErrCalledAgain = errors.New("mempool: called again")

	// ErrNotInitialized is returned by Open and Close when called before
	// a successful Init.
	ErrNotInitialized = errors.New("mempool: registry not initialized")

	// ErrNotFreed is returned by Close on a pool that still has live
	// allocations or more than one gap, and by Free when the given
	// allocation is not recognized as live in the pool.
	ErrNotFreed = errors.New("mempool: not freed")

	// ErrPoolClosed is returned by Close, Allocate and Free on a *Pool
	// that has already been passed to Close.
	ErrPoolClosed = errors.New("mempool: pool is closed")

	// ErrNoGap is returned by Allocate when no free region is large
	// enough to satisfy the request.
	ErrNoGap = errors.New("mempool: no gap large enough")

	// ErrOutOfMemory is returned by Open when the backing allocator
	// returns nil or a buffer shorter than the requested size. The
	// internal node and gap stores are allocated with make and are not
	// covered by this check.
	ErrOutOfMemory = errors.New("mempool: out of memory")

	// ErrSizeMustBePositive is returned by Open and Allocate when given
	// a non-positive size.
	ErrSizeMustBePositive = errors.New("mempool: size must be positive")
)
