package settle

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettleValue(t *testing.T) {
	task := Go(context.Background(), 0, func(context.Context) (int, error) {
		return 42, nil
	})

	got, err := task.Settle()
	require.NoError(t, err)
	assert.Equal(t, 42, got)
}

func TestSettleFallbackOnError(t *testing.T) {
	boom := errors.New("peer down")
	task := Go(context.Background(), "fallback", func(context.Context) (string, error) {
		return "partial", boom
	})

	got, err := task.Settle()
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, "fallback", got)
}

func TestSettleFallbackOnPanic(t *testing.T) {
	task := Go(context.Background(), []string{}, func(context.Context) ([]string, error) {
		panic("unexpected")
	})

	got, err := task.Settle()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "task panicked")
	assert.Equal(t, []string{}, got)
}

// TestSettleTasksRunConcurrently : les tâches démarrent toutes avant le
// premier Settle, sinon l'agrégation redeviendrait séquentielle.
func TestSettleTasksRunConcurrently(t *testing.T) {
	var started atomic.Int32
	gate := make(chan struct{})

	fn := func(context.Context) (int, error) {
		started.Add(1)
		<-gate
		return 1, nil
	}

	ctx := context.Background()
	t1 := Go(ctx, 0, fn)
	t2 := Go(ctx, 0, fn)
	t3 := Go(ctx, 0, fn)

	require.Eventually(t, func() bool { return started.Load() == 3 },
		time.Second, 5*time.Millisecond)
	close(gate)

	for _, task := range []*Task[int]{t1, t2, t3} {
		got, err := task.Settle()
		require.NoError(t, err)
		assert.Equal(t, 1, got)
	}
}

func TestSettleIsIdempotent(t *testing.T) {
	task := Go(context.Background(), 0, func(context.Context) (int, error) {
		return 7, nil
	})

	first, err := task.Settle()
	require.NoError(t, err)
	second, err := task.Settle()
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
