package postgres

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLazy_ConcurrentFirstCallersShareOneValue(t *testing.T) {
	var created atomic.Int32
	l := NewLazy(func(context.Context) (*int, error) {
		created.Add(1)
		time.Sleep(10 * time.Millisecond)
		v := 42
		return &v, nil
	})

	const callers = 50
	results := make([]*int, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := l.Get(context.Background())
			assert.NoError(t, err)
			results[i] = v
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), created.Load())
	for _, v := range results {
		assert.Same(t, results[0], v)
	}
}

func TestLazy_FailureIsRetried(t *testing.T) {
	calls := 0
	l := NewLazy(func(context.Context) (string, error) {
		calls++
		if calls == 1 {
			return "", errors.New("database unreachable")
		}
		return "pool", nil
	})

	_, err := l.Get(context.Background())
	require.Error(t, err)

	v, err := l.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "pool", v)

	_, _ = l.Get(context.Background())
	assert.Equal(t, 2, calls)
}
