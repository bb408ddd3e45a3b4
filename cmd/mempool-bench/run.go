package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mempoolgo/mempool"
)

func init() {
	cmd := newRunCmd()
	cmd.Flags().IntVar(&poolSize, "size", 4096, "backing buffer size in bytes")
	cmd.Flags().StringVar(&policyName, "policy", "best-fit", "placement policy: first-fit or best-fit")
	rootCmd.AddCommand(cmd)
}

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run [script]",
		Short: "Replay a script of allocate/free operations against a pool",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var r io.Reader = os.Stdin
			if len(args) == 1 {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("opening script: %w", err)
				}
				defer f.Close()
				r = f
			}
			return runScript(r)
		},
	}
}

func parsePolicy(name string) (mempool.Policy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "first-fit", "firstfit", "first":
		return mempool.FirstFit, nil
	case "best-fit", "bestfit", "best":
		return mempool.BestFit, nil
	default:
		return 0, fmt.Errorf("unknown policy %q", name)
	}
}

func runScript(r io.Reader) error {
	policy, err := parsePolicy(policyName)
	if err != nil {
		return err
	}

	if err := mempool.Init(); err != nil {
		return fmt.Errorf("init: %w", err)
	}
	defer mempool.Shutdown()

	pool, err := mempool.Open(poolSize, policy)
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}
	defer func() {
		if err := mempool.Close(pool); err != nil {
			logger.Info("pool left with outstanding state at exit", "error", err)
		}
	}()

	var live []*mempool.Allocation

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		switch fields[0] {
		case "alloc":
			if len(fields) != 2 {
				return fmt.Errorf("line %d: alloc requires a size", lineNo)
			}
			size, err := strconv.Atoi(fields[1])
			if err != nil {
				return fmt.Errorf("line %d: %w", lineNo, err)
			}
			a, err := pool.Allocate(size)
			if err != nil {
				if verbose {
					logger.Info("alloc failed", "size", size, "error", err)
				}
				continue
			}
			live = append(live, a)
			if verbose {
				logger.Info("alloc", "size", size, "base", a.Base())
			}
		case "free":
			if len(fields) != 2 {
				return fmt.Errorf("line %d: free requires an index", lineNo)
			}
			n, err := strconv.Atoi(fields[1])
			if err != nil {
				return fmt.Errorf("line %d: %w", lineNo, err)
			}
			if n < 0 || n >= len(live) {
				return fmt.Errorf("line %d: no live allocation at index %d", lineNo, n)
			}
			if err := pool.Free(live[n]); err != nil {
				return fmt.Errorf("line %d: free: %w", lineNo, err)
			}
			live = append(live[:n], live[n+1:]...)
			if verbose {
				logger.Info("free", "index", n)
			}
		case "inspect":
			printInspect(pool)
		default:
			return fmt.Errorf("line %d: unknown command %q", lineNo, fields[0])
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading script: %w", err)
	}

	fmt.Printf("final: allocs=%d gaps=%d allocated=%d/%d\n",
		pool.NumAllocs(), pool.NumGaps(), pool.AllocatedSize(), pool.TotalSize())
	printInspect(pool)
	return nil
}

func printInspect(pool *mempool.Pool) {
	for i, seg := range pool.Inspect() {
		state := "free"
		if seg.Allocated {
			state = "allocated"
		}
		fmt.Printf("  [%d] %8d bytes  %s\n", i, seg.Size, state)
	}
}
