package mempool

// The registry is process-wide mutable state: its Init/Shutdown/Open/
// Close operations are not internally synchronized, and the caller is
// responsible for serializing them. It's a slice of tombstoned pointers
// rather than a manually managed, manually resized array — Go's append
// already grows a slice by amortized doubling, which covers the same
// 0.75-fill-factor/2x-growth shape without any hand-rolled resize math.
const registryInitCapacity = 20

var (
	registry            []*Pool
	registryInitialized bool
)

// Init allocates the registry. It fails with ErrCalledAgain if already
// initialized. No other operation may be called before a successful
// Init.
func Init() error {
	if registryInitialized {
		return ErrCalledAgain
	}
	registry = make([]*Pool, 0, registryInitCapacity)
	registryInitialized = true
	return nil
}

// Shutdown releases the registry. It fails with ErrCalledAgain if not
// initialized. It is the caller's responsibility to have closed every
// pool first — Shutdown does not implicitly close pools.
func Shutdown() error {
	if !registryInitialized {
		return ErrCalledAgain
	}
	registry = nil
	registryInitialized = false
	return nil
}

// register appends the pool to the registry. Closed-pool tombstones are
// never reused by a later Open — the simplest correct policy.
func register(p *Pool) {
	registry = append(registry, p)
}

// unregister tombstones the pool's registry slot.
func unregister(p *Pool) {
	for i, entry := range registry {
		if entry == p {
			registry[i] = nil
			return
		}
	}
}

// OpenPools returns the number of non-tombstoned entries in the
// registry, for diagnostics and tests.
func OpenPools() int {
	n := 0
	for _, entry := range registry {
		if entry != nil {
			n++
		}
	}
	return n
}
