package wizard

import (
	"sync"
	"time"
)

type taskState int

const (
	taskPending taskState = iota
	taskFired
	taskCancelled
)

// Task is a one-shot deferred callback that can be cancelled until it fires.
type Task struct {
	mu    sync.Mutex
	timer *time.Timer
	state taskState
	done  chan struct{}
}

// Schedule runs fn once after d unless the task is cancelled first.
func Schedule(d time.Duration, fn func()) *Task {
	t := &Task{done: make(chan struct{})}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.timer = time.AfterFunc(d, func() { t.run(fn) })
	return t
}

func (t *Task) run(fn func()) {
	t.mu.Lock()
	if t.state != taskPending {
		t.mu.Unlock()
		return
	}
	t.state = taskFired
	t.mu.Unlock()

	defer close(t.done)
	fn()
}

// Cancel stops the task.  It returns false when fn already started.
func (t *Task) Cancel() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != taskPending {
		return false
	}
	t.state = taskCancelled
	t.timer.Stop()
	close(t.done)
	return true
}

// Done is closed once fn has returned or the task was cancelled.
func (t *Task) Done() <-chan struct{} { return t.done }
