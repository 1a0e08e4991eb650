package resource

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestController_Budget(t *testing.T) {
	c := NewController(Config{MemoryLimitBytes: 100})
	assert.Equal(t, int64(100), c.Limit())

	require.NoError(t, c.Reserve(50))
	require.NoError(t, c.Reserve(40))
	assert.Equal(t, int64(90), c.Reserved())

	err := c.Reserve(20)
	require.ErrorIs(t, err, ErrBudgetExceeded)
	assert.Contains(t, err.Error(), "need 20 bytes, 90 of 100 reserved")
	assert.Equal(t, int64(90), c.Reserved(), "refused reservation takes nothing")

	c.Release(50)
	assert.Equal(t, int64(40), c.Reserved())
	require.NoError(t, c.Reserve(20))
	assert.Equal(t, int64(60), c.Reserved())
}

func TestController_Unlimited(t *testing.T) {
	c := NewController(Config{})
	assert.Zero(t, c.Limit())

	require.NoError(t, c.Reserve(1<<40))
	c.Release(1 << 39)
	assert.Equal(t, int64(1<<39), c.Reserved())
	assert.Zero(t, c.ReadBurst())
}

func TestController_IgnoresNonPositive(t *testing.T) {
	c := NewController(Config{MemoryLimitBytes: 10})
	require.NoError(t, c.Reserve(0))
	require.NoError(t, c.Reserve(-5))
	c.Release(-5)
	assert.Zero(t, c.Reserved())
}

func TestController_NilSafe(t *testing.T) {
	var c *Controller

	require.NoError(t, c.Reserve(1<<40))
	c.Release(1)
	assert.Zero(t, c.Reserved())
	assert.Zero(t, c.Limit())
	require.NoError(t, c.WaitRead(context.Background(), 1<<20))
	assert.Zero(t, c.ReadBurst())

	r := strings.NewReader("abc")
	assert.Same(t, r, c.Throttle(context.Background(), r))
}

func TestController_WaitRead(t *testing.T) {
	c := NewController(Config{IOLimitBytesPerSec: 1024})
	assert.Equal(t, 1024, c.ReadBurst())

	// The bucket starts full.
	require.NoError(t, c.WaitRead(t.Context(), 1024))

	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	assert.Error(t, c.WaitRead(ctx, 512))
}

func TestThrottle(t *testing.T) {
	data := strings.Repeat("0123456789", 50)
	c := NewController(Config{IOLimitBytesPerSec: 1 << 20})

	got, err := io.ReadAll(c.Throttle(t.Context(), strings.NewReader(data)))
	require.NoError(t, err)
	assert.Equal(t, data, string(got))
}

func TestThrottle_CapsReadsAtBurst(t *testing.T) {
	c := NewController(Config{IOLimitBytesPerSec: 64})
	r := c.Throttle(t.Context(), bytes.NewReader(make([]byte, 256)))

	buf := make([]byte, 256)
	n, err := r.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, 64, n)
}

func TestThrottle_Canceled(t *testing.T) {
	c := NewController(Config{IOLimitBytesPerSec: 64})
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, err := c.Throttle(ctx, strings.NewReader("abc")).Read(make([]byte, 3))
	require.ErrorIs(t, err, context.Canceled)
}
