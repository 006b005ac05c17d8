package client

import (
	"context"
	"sync"
	"time"
)

// State is what a view renders from a Poller.
type State[T any] struct {
	Data      T
	Loading   bool
	Err       error
	UpdatedAt time.Time
}

// Poller fetches a value immediately and then on every tick of its interval.
// Fetches run concurrently, so a slow response never delays the next tick.
// Results are applied in issue order: a response that arrives after a newer
// one has been applied is dropped.
type Poller[T any] struct {
	fetch    func(context.Context) (T, error)
	interval time.Duration
	onUpdate func(State[T])

	mu      sync.Mutex
	state   State[T]
	issued  uint64
	applied uint64
	wg      sync.WaitGroup

	// notifyMu serializes onUpdate. apply releases mu before taking it, so
	// callbacks may call State.
	notifyMu sync.Mutex
	notified uint64
}

// NewPoller creates a Poller. A zero interval fetches once.
func NewPoller[T any](interval time.Duration, fetch func(context.Context) (T, error)) *Poller[T] {
	return &Poller[T]{
		fetch:    fetch,
		interval: interval,
		state:    State[T]{Loading: true},
	}
}

// OnUpdate registers a callback invoked after each applied result. It must
// be set before Run. Calls never overlap and arrive in issue order; a
// callback for a result older than one already delivered is skipped.
func (p *Poller[T]) OnUpdate(fn func(State[T])) {
	p.onUpdate = fn
}

// State returns a snapshot of the current state.
func (p *Poller[T]) State() State[T] {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Run polls until ctx is canceled and then waits for in-flight fetches.
func (p *Poller[T]) Run(ctx context.Context) {
	defer p.wg.Wait()

	p.Refresh(ctx)
	if p.interval <= 0 {
		return
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.Refresh(ctx)
		}
	}
}

// Refresh starts a fetch now without waiting for it.
func (p *Poller[T]) Refresh(ctx context.Context) {
	p.mu.Lock()
	p.issued++
	seq := p.issued
	p.mu.Unlock()

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		data, err := p.fetch(ctx)
		p.apply(seq, data, err)
	}()
}

// Wait blocks until every started fetch has been applied or dropped.
func (p *Poller[T]) Wait() {
	p.wg.Wait()
}

func (p *Poller[T]) apply(seq uint64, data T, err error) {
	p.mu.Lock()
	if seq < p.applied {
		p.mu.Unlock()
		return
	}
	p.applied = seq
	if err != nil {
		// Keep the last good data so the view does not blank out.
		p.state.Err = err
	} else {
		p.state.Data = data
		p.state.Err = nil
		p.state.UpdatedAt = time.Now()
	}
	p.state.Loading = false
	snapshot := p.state
	p.mu.Unlock()

	p.notify(seq, snapshot)
}

func (p *Poller[T]) notify(seq uint64, st State[T]) {
	if p.onUpdate == nil {
		return
	}
	p.notifyMu.Lock()
	defer p.notifyMu.Unlock()
	if seq < p.notified {
		return
	}
	p.notified = seq
	p.onUpdate(st)
}
