package mempool

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSynchronizedPoolConcurrentAllocateFree(t *testing.T) {
	require.NoError(t, Init())
	defer Shutdown()

	pool, err := Open(1<<16, BestFit)
	require.NoError(t, err)
	sp := Synchronized(pool)

	var wg sync.WaitGroup
	const goroutines = 8
	const perGoroutine = 32
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perGoroutine; i++ {
				a, err := sp.Allocate(16)
				if err != nil {
					return
				}
				sp.Free(a)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 0, sp.NumAllocs())
	require.NoError(t, sp.Close())
}

func TestSynchronizedPoolConcurrentBytesAndFree(t *testing.T) {
	require.NoError(t, Init())
	defer Shutdown()

	pool, err := Open(1<<16, FirstFit)
	require.NoError(t, err)
	sp := Synchronized(pool)

	var wg sync.WaitGroup
	const goroutines = 8
	const perGoroutine = 32
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perGoroutine; i++ {
				a, err := sp.Allocate(16)
				if err != nil {
					return
				}
				if b := sp.Bytes(a); b != nil {
					b[0] = 1
				}
				sp.Free(a)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 0, sp.NumAllocs())
	require.NoError(t, sp.Close())
}
