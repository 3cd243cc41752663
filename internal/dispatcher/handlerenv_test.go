package dispatcher

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandlerEnvCallRunsOnItsOwnGoroutine(t *testing.T) {
	env := NewHandlerEnv()
	defer env.Close()

	var ran int32
	err := env.Call(func() { atomic.StoreInt32(&ran, 1) })
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&ran))
}

func TestHandlerEnvRunsEveryConcurrentCall(t *testing.T) {
	env := NewHandlerEnv()
	defer env.Close()

	var order []int
	var mu sync.Mutex
	for i := 0; i < 5; i++ {
		i := i
		go func() {
			_ = env.Call(func() {
				mu.Lock()
				order = append(order, i)
				mu.Unlock()
			})
		}()
	}

	time.Sleep(50 * time.Millisecond)
	assert.Len(t, order, 5)
}

func TestHandlerEnvCallFromOwnGoroutinePanics(t *testing.T) {
	env := NewHandlerEnv()
	defer env.Close()

	panicked := make(chan any, 1)
	_ = env.Call(func() {
		defer func() { panicked <- recover() }()
		_ = env.Call(func() {})
	})

	select {
	case r := <-panicked:
		assert.NotNil(t, r)
	case <-time.After(time.Second):
		t.Fatal("reentrant Call did not panic")
	}
}

func TestHandlerEnvCallAfterCloseReturnsErrClosed(t *testing.T) {
	env := NewHandlerEnv()
	env.Close()

	err := env.Call(func() {})
	assert.ErrorIs(t, err, ErrClosed)
}

func TestHandlerEnvCallSurvivesPanicInFn(t *testing.T) {
	env := NewHandlerEnv()
	defer env.Close()

	err := env.Call(func() { panic("handler misbehaved") })
	assert.Error(t, err)

	// The environment must still be usable afterward.
	var ran bool
	require.NoError(t, env.Call(func() { ran = true }))
	assert.True(t, ran)
}
