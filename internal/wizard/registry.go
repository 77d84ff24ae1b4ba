package wizard

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// ErrNotStarted is returned when a session has no booking in progress.
var ErrNotStarted = errors.New("no booking in progress")

// Session pairs a machine with the presenter subscribed to it.
type Session struct {
	Machine   *Machine
	Presenter *Presenter

	touched time.Time // guarded by Registry.mu
}

// View returns the presenter's current view.
func (s *Session) View() View { return s.Presenter.View() }

// Registry holds the wizard of each browser session.  Wizards untouched
// for longer than the idle limit are torn down by Evict.
type Registry struct {
	mu  sync.Mutex
	m   map[string]*Session
	now func() time.Time
}

func NewRegistry() *Registry {
	return &Registry{m: make(map[string]*Session), now: time.Now}
}

// Start installs a fresh wizard for sid, tearing down any previous one.
func (r *Registry) Start(sid string, m *Machine) *Session {
	p := &Presenter{}
	m.Subscribe(p.Update)
	s := &Session{Machine: m, Presenter: p}

	r.mu.Lock()
	s.touched = r.now()
	old := r.m[sid]
	r.m[sid] = s
	r.mu.Unlock()

	if old != nil {
		old.Machine.Teardown()
	}
	return s
}

// Get returns the wizard of sid and marks it as used.
func (r *Registry) Get(sid string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.m[sid]
	if !ok {
		return nil, ErrNotStarted
	}
	s.touched = r.now()
	return s, nil
}

// Len reports how many wizards are held.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.m)
}

// Evict tears down every wizard not used within idle and returns how many
// were removed.
func (r *Registry) Evict(idle time.Duration) int {
	cutoff := r.now().Add(-idle)
	var stale []*Session
	r.mu.Lock()
	for sid, s := range r.m {
		if s.touched.Before(cutoff) {
			stale = append(stale, s)
			delete(r.m, sid)
		}
	}
	r.mu.Unlock()
	for _, s := range stale {
		s.Machine.Teardown()
	}
	return len(stale)
}

// Sweep calls Evict every interval until ctx is done.
func (r *Registry) Sweep(ctx context.Context, every, idle time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := r.Evict(idle); n > 0 {
				slog.Debug("evicted idle booking wizards", "count", n)
			}
		}
	}
}

// Discard tears down and forgets the wizard of sid.  It reports whether
// one existed.
func (r *Registry) Discard(sid string) bool {
	r.mu.Lock()
	s, ok := r.m[sid]
	delete(r.m, sid)
	r.mu.Unlock()
	if ok {
		s.Machine.Teardown()
	}
	return ok
}

// Close tears down every wizard.
func (r *Registry) Close() {
	r.mu.Lock()
	all := r.m
	r.m = make(map[string]*Session)
	r.mu.Unlock()
	for _, s := range all {
		s.Machine.Teardown()
	}
}
