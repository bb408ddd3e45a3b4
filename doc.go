// Package mempool implements a user-space memory pool allocator.
//
// A Pool carves caller-requested byte ranges out of a single backing
// buffer under a chosen placement policy (first-fit or best-fit),
// splitting and coalescing free regions as allocations come and go.
// Multiple pools are tracked by a process-wide registry with its own
// Init/Shutdown lifecycle.
//
// The allocator does not relocate live allocations, does not defragment
// beyond immediate-neighbor coalescing, and enforces no alignment beyond
// byte granularity. It is not safe for concurrent use on the same pool;
// see Synchronized for an opt-in wrapper.
package mempool
