package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	poolSize   int
	policyName string
	verbose    bool
)

var logger = slog.New(slog.NewTextHandler(os.Stderr, nil))

var rootCmd = &cobra.Command{
	Use:   "mempool-bench",
	Short: "Run a scripted allocate/free workload against a mempool.Pool",
	Long: `mempool-bench opens a single mempool.Pool and replays a script of
allocate/free/inspect operations read from a file or stdin, then prints
the pool's final Inspect snapshot and summary counters.

Script lines:
  alloc <size>   allocate <size> bytes, remembering the handle by order
  free <n>       free the n'th still-live allocation (0-indexed)
  inspect        print the current (size, allocated) segments

Example:
  mempool-bench run --size 4096 --policy best-fit script.txt`,
	Version: "0.1.0",
}

func init() {
	rootCmd.PersistentFlags().
		BoolVarP(&verbose, "verbose", "v", false, "log each operation as it runs")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
