package importjob

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrWaiterRequired indicates a notifier cannot be constructed without a waiter.
var ErrWaiterRequired = errors.New("notifier waiter is required")

// Waiter blocks until something about the given job may have changed. A nil
// error means a change signal arrived; callers must re-fetch and tolerate
// spurious wakeups.
type Waiter interface {
	WaitForJobNotification(ctx context.Context, jobID string) error
}

// Notifier fans job-change wakeups out to any number of observers of the same
// job. Wakeup channels are edge-triggered with a buffer of one: duplicate
// signals coalesce, and observers re-read the job record on every wakeup.
type Notifier interface {
	Subscribe(jobID string) (func(), <-chan struct{})
	StopAll()
}

// NotifierOptions configure the default notifier implementation.
type NotifierOptions struct {
	Waiter     Waiter
	WaitWindow time.Duration
	Backoff    time.Duration
}

// DefaultNotifier is the default implementation of Notifier. One listen loop
// runs per watched job and stops when its last observer unsubscribes.
type DefaultNotifier struct {
	waiter     Waiter
	waitWindow time.Duration
	backoff    time.Duration

	mu        sync.Mutex
	subs      map[string]map[chan struct{}]struct{}
	listeners map[string]context.CancelFunc
}

// NewNotifier constructs the default notifier implementation.
func NewNotifier(opts NotifierOptions) (*DefaultNotifier, error) {
	if opts.Waiter == nil {
		return nil, ErrWaiterRequired
	}

	waitWindow := opts.WaitWindow
	if waitWindow <= 0 {
		waitWindow = time.Minute
	}

	backoff := opts.Backoff
	if backoff <= 0 {
		backoff = 250 * time.Millisecond
	}

	return &DefaultNotifier{
		waiter:     opts.Waiter,
		waitWindow: waitWindow,
		backoff:    backoff,
		subs:       make(map[string]map[chan struct{}]struct{}),
		listeners:  make(map[string]context.CancelFunc),
	}, nil
}

// Subscribe registers an observer for one job and returns its unsubscribe
// function alongside the wakeup channel.
func (n *DefaultNotifier) Subscribe(jobID string) (func(), <-chan struct{}) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if _, ok := n.listeners[jobID]; !ok {
		ctx, cancel := context.WithCancel(context.Background())
		n.listeners[jobID] = cancel
		go n.listenLoop(ctx, jobID)
	}

	ch := make(chan struct{}, 1)
	if n.subs[jobID] == nil {
		n.subs[jobID] = make(map[chan struct{}]struct{})
	}
	n.subs[jobID][ch] = struct{}{}

	unsub := func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		subscribers := n.subs[jobID]
		if subscribers == nil {
			return
		}
		if _, ok := subscribers[ch]; !ok {
			return
		}
		delete(subscribers, ch)
		drainAndClose(ch)
		if len(subscribers) == 0 {
			n.stopListener(jobID)
			delete(n.subs, jobID)
		}
	}

	return unsub, ch
}

// StopAll cancels every listen loop and closes every observer channel.
func (n *DefaultNotifier) StopAll() {
	n.mu.Lock()
	defer n.mu.Unlock()

	for jobID, cancel := range n.listeners {
		cancel()
		delete(n.listeners, jobID)
	}
	for jobID, subscribers := range n.subs {
		for ch := range subscribers {
			drainAndClose(ch)
		}
		delete(n.subs, jobID)
	}
}

func (n *DefaultNotifier) stopListener(jobID string) {
	cancel, ok := n.listeners[jobID]
	if !ok {
		return
	}
	cancel()
	delete(n.listeners, jobID)
}

func (n *DefaultNotifier) listenLoop(ctx context.Context, jobID string) {
	for ctx.Err() == nil {
		waitCtx, cancel := context.WithTimeout(ctx, n.waitWindow)
		err := n.waiter.WaitForJobNotification(waitCtx, jobID)
		cancel()

		n.broadcast(jobID)

		if err != nil && ctx.Err() == nil {
			timer := time.NewTimer(n.backoff)
			select {
			case <-ctx.Done():
				if !timer.Stop() {
					<-timer.C
				}
				return
			case <-timer.C:
			}
		}
	}
}

func (n *DefaultNotifier) broadcast(jobID string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	for ch := range n.subs[jobID] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// drainAndClose removes any buffered wakeups before closing the channel so
// receivers observe a closed channel immediately.
func drainAndClose(ch chan struct{}) {
	for {
		select {
		case <-ch:
		default:
			close(ch)
			return
		}
	}
}

var _ Notifier = (*DefaultNotifier)(nil)
