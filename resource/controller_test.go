package resource

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestController_RevivalThrottling(t *testing.T) {
	c := NewController(Config{MaxRevivalsPerSecond: 1000, RevivalBurst: 2})

	require.NoError(t, c.AcquireRevival(context.Background()))
	require.NoError(t, c.AcquireRevival(context.Background()))
	assert.Equal(t, int64(2), c.ActiveRevivals())

	c.ReleaseRevival()
	assert.Equal(t, int64(1), c.ActiveRevivals())

	c.ReleaseRevival()
	assert.Equal(t, int64(0), c.ActiveRevivals())
}

func TestController_UnlimitedRevivals(t *testing.T) {
	c := NewController(Config{})

	require.NoError(t, c.AcquireRevival(context.Background()))
	assert.Equal(t, int64(0), c.ActiveRevivals(), "unthrottled controller doesn't track in-flight count")
}

func TestController_EvictionSweepConcurrency(t *testing.T) {
	c := NewController(Config{MaxConcurrentEvictionSweeps: 1})

	require.NoError(t, c.AcquireEvictionSweep(context.Background()))
	assert.False(t, c.TryAcquireEvictionSweep())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	err := c.AcquireEvictionSweep(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	c.ReleaseEvictionSweep()
	assert.True(t, c.TryAcquireEvictionSweep())
}

func TestController_NilIsUnlimited(t *testing.T) {
	var c *Controller
	require.NoError(t, c.AcquireRevival(context.Background()))
	require.NoError(t, c.AcquireEvictionSweep(context.Background()))
	assert.True(t, c.TryAcquireEvictionSweep())
	c.ReleaseRevival()
	c.ReleaseEvictionSweep()
}
