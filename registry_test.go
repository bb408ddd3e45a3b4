package mempool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitCalledTwiceFails(t *testing.T) {
	require.NoError(t, Init())
	defer Shutdown()
	assert.ErrorIs(t, Init(), ErrCalledAgain)
}

func TestShutdownWithoutInitFails(t *testing.T) {
	assert.ErrorIs(t, Shutdown(), ErrCalledAgain)
}

func TestShutdownTwiceFails(t *testing.T) {
	require.NoError(t, Init())
	require.NoError(t, Shutdown())
	assert.ErrorIs(t, Shutdown(), ErrCalledAgain)
}

func TestOpenBeforeInitFails(t *testing.T) {
	_, err := Open(100, FirstFit)
	assert.ErrorIs(t, err, ErrNotInitialized)
}

func TestOpenRegistersAndCloseTombstones(t *testing.T) {
	require.NoError(t, Init())
	defer Shutdown()

	p, err := Open(100, FirstFit)
	require.NoError(t, err)
	assert.Equal(t, 1, OpenPools())

	require.NoError(t, Close(p))
	assert.Equal(t, 0, OpenPools())
}

func TestRegistryGrowsPastInitialCapacityWithoutReusingTombstones(t *testing.T) {
	require.NoError(t, Init())
	defer Shutdown()

	pools := make([]*Pool, 0, registryInitCapacity+5)
	for i := 0; i < registryInitCapacity+5; i++ {
		p, err := Open(8, FirstFit)
		require.NoError(t, err)
		pools = append(pools, p)
	}
	assert.Equal(t, registryInitCapacity+5, OpenPools())
	assert.GreaterOrEqual(t, len(registry), registryInitCapacity+5)

	for _, p := range pools {
		require.NoError(t, Close(p))
	}
	assert.Equal(t, 0, OpenPools())
	assert.Equal(t, registryInitCapacity+5, len(registry), "closed slots remain as tombstones, never compacted")
}
