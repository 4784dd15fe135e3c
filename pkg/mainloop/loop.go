// Package mainloop provides the primary execution context. User facing side effects such as
// notifications are posted here from background work and run one at a time on the loop goroutine.
package mainloop

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/panics"
)

const defaultQueueSize = 64

type Loop struct {
	tasks chan func()

	done     chan struct{}
	stopOnce sync.Once
}

func New() *Loop {
	return &Loop{
		tasks: make(chan func(), defaultQueueSize),
		done:  make(chan struct{}),
	}
}

// Post queues a task for the loop goroutine. Returns false once the loop has been stopped.
func (l *Loop) Post(task func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}

	select {
	case l.tasks <- task:
		return true
	case <-l.done:
		return false
	}
}

// Run executes posted tasks until ctx is cancelled or Stop is called
func (l *Loop) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-l.done:
			return
		case task := <-l.tasks:
			l.execute(task)
		}
	}
}

// RunPending executes whatever is already queued and returns
func (l *Loop) RunPending() int {
	executed := 0

	for {
		select {
		case task := <-l.tasks:
			l.execute(task)
			executed++
		default:
			return executed
		}
	}
}

func (l *Loop) execute(task func()) {
	var catcher panics.Catcher
	catcher.Try(task)

	if recovered := catcher.Recovered(); recovered != nil {
		log.Error().Err(recovered.AsError()).Msg("Main loop task panicked")
	}
}

func (l *Loop) Stop() {
	l.stopOnce.Do(func() {
		close(l.done)
	})
}
