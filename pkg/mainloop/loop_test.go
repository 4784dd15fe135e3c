package mainloop

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoopRunsTasksInOrder(t *testing.T) {
	loop := New()
	var order []int

	for i := 0; i < 5; i++ {
		i := i
		require.True(t, loop.Post(func() { order = append(order, i) }))
	}

	assert.Equal(t, 5, loop.RunPending())
	assert.Equal(t, []int{0, 1, 2, 3, 4}, order)
	assert.Equal(t, 0, loop.RunPending())
}

func TestLoopRunUntilStopped(t *testing.T) {
	loop := New()
	finished := make(chan struct{})
	executed := make(chan struct{})

	go func() {
		loop.Run(context.Background())
		close(finished)
	}()

	loop.Post(func() { close(executed) })

	select {
	case <-executed:
	case <-time.After(time.Second):
		t.Fatal("task was not executed")
	}

	loop.Stop()
	loop.Stop()

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("loop did not stop")
	}

	assert.False(t, loop.Post(func() {}))
}

func TestLoopRunStopsOnContext(t *testing.T) {
	loop := New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	loop.Run(ctx)
}

func TestLoopSurvivesPanics(t *testing.T) {
	loop := New()
	ran := false

	loop.Post(func() { panic("boom") })
	loop.Post(func() { ran = true })

	assert.Equal(t, 2, loop.RunPending())
	assert.True(t, ran)
}
