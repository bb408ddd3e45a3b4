// Command mempool-bench is a thin driver over the mempool library: it
// opens one pool, runs a scripted sequence of allocate/free operations
// against it, and prints the resulting Inspect snapshot. It is outer
// tooling, not part of the allocator core — the mempool package never
// imports this command or its dependencies.
package main

func main() {
	execute()
}
