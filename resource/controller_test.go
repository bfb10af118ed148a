package resource

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestController_MemoryBudget(t *testing.T) {
	c := NewController(Config{MemoryLimitBytes: 100})

	require.True(t, c.TryAcquire(60))
	require.Equal(t, int64(60), c.Usage())

	// Over the limit.
	require.False(t, c.TryAcquire(50))
	require.Equal(t, int64(60), c.Usage())

	// Exactly to the limit.
	require.True(t, c.TryAcquire(40))
	require.Equal(t, int64(100), c.Usage())
	require.False(t, c.TryAcquire(1))

	c.Release(100)
	require.Equal(t, int64(0), c.Usage())
	require.True(t, c.TryAcquire(100))
}

func TestController_TrackingOnly(t *testing.T) {
	c := NewController(Config{})

	// No limit configured: everything is granted, usage still tracked.
	require.True(t, c.TryAcquire(1<<40))
	require.Equal(t, int64(1<<40), c.Usage())

	c.Release(1 << 40)
	require.Equal(t, int64(0), c.Usage())
}

func TestController_NilSafe(t *testing.T) {
	var c *Controller

	require.True(t, c.TryAcquire(1<<40))
	c.Release(1 << 40)
	require.Equal(t, int64(0), c.Usage())
	require.NoError(t, c.AcquireIO(context.Background(), 1<<20))
}

func TestController_ZeroAndNegative(t *testing.T) {
	c := NewController(Config{MemoryLimitBytes: 10})

	require.True(t, c.TryAcquire(0))
	require.True(t, c.TryAcquire(-5))
	require.Equal(t, int64(0), c.Usage())

	c.Release(0)
	c.Release(-5)
	require.Equal(t, int64(0), c.Usage())
}

func TestController_AcquireIO(t *testing.T) {
	c := NewController(Config{IOLimitBytesPerSec: 1 << 20})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	// Well under the burst: must not block noticeably.
	require.NoError(t, c.AcquireIO(ctx, 1024))

	// Unlimited controller never blocks.
	u := NewController(Config{})
	require.NoError(t, u.AcquireIO(ctx, 1<<30))
}
