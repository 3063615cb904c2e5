package snapshot

import (
	"context"
	"io"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/puzpuzpuz/xsync/v3"

	"rpi-dashboard/pkg/telemetry"
)

type Options struct {
	Name string

	// Interval between timer-driven refreshes. Zero means the cache only
	// refreshes on Start and on explicit triggers.
	Interval    time.Duration
	AutoRefresh bool

	// Timeout bounds a single fetch. Zero means no timeout beyond Stop.
	Timeout time.Duration

	ErrorMessage string
	Logger       *log.Logger
	Publisher    telemetry.TelemetryPublisher
	Clock        telemetry.Clock
}

// Cache holds the most recent successfully fetched copy of remote state and
// the refresh state machine around it. complete is the only place that
// mutates the held snapshot, and only the most recently issued request may
// publish its result.
type Cache[T any] struct {
	name      string
	fetch     FetchFunc[T]
	opts      Options
	logger    *log.Logger
	publisher telemetry.TelemetryPublisher
	clock     telemetry.Clock

	mu          sync.Mutex
	state       State[T]
	seq         uint64
	inflight    context.CancelFunc
	started     bool
	stopped     bool
	autoRefresh bool

	tickerCancel context.CancelFunc
	tickerDone   chan struct{}

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	listeners *xsync.MapOf[uint64, func(State[T])]
	nextID    atomic.Uint64
	notifyMu  sync.Mutex
}

type request struct {
	seq     uint64
	trigger telemetry.Trigger
	done    chan error
}

func New[T any](fetch FetchFunc[T], opts Options) *Cache[T] {
	if opts.ErrorMessage == "" {
		opts.ErrorMessage = DefaultErrorMessage
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard, "", 0)
	}
	if opts.Publisher == nil {
		opts.Publisher = telemetry.NewNoopPublisher()
	}
	if opts.Clock == nil {
		opts.Clock = telemetry.RealClock{}
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Cache[T]{
		name:        opts.Name,
		fetch:       fetch,
		opts:        opts,
		logger:      opts.Logger,
		publisher:   opts.Publisher,
		clock:       opts.Clock,
		state:       State[T]{Status: StatusLoading},
		autoRefresh: opts.AutoRefresh && opts.Interval > 0,
		ctx:         ctx,
		cancel:      cancel,
		listeners:   xsync.NewMapOf[uint64, func(State[T])](),
	}
}

func (c *Cache[T]) Name() string { return c.name }

// State returns a copy of the current state.
func (c *Cache[T]) State() State[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Cache[T]) AutoRefresh() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.autoRefresh
}

// Start issues the initial fetch and, when auto refresh is on, acquires the
// periodic ticker. Calling Start twice, or after Stop, does nothing.
func (c *Cache[T]) Start() {
	c.mu.Lock()
	if c.started || c.stopped {
		c.mu.Unlock()
		return
	}
	c.started = true
	auto := c.autoRefresh
	if auto {
		c.startTickerLocked()
	}
	req, ok := c.issueLocked(telemetry.TriggerMount)
	c.mu.Unlock()

	if c.opts.Interval > 0 {
		c.publisher.Publish(telemetry.NewAutoRefreshChanged(c.name, auto))
	}
	if ok {
		c.afterIssue(req)
	}
}

// Stop releases the ticker, cancels any in-flight fetch and waits for every
// goroutine to exit. Late completions are dropped and listeners are never
// called after Stop returns. Safe to call more than once, or before Start.
func (c *Cache[T]) Stop() {
	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		return
	}
	c.stopped = true
	c.inflight = nil
	c.tickerCancel = nil
	c.tickerDone = nil
	c.mu.Unlock()

	c.cancel()
	c.wg.Wait()

	// Wait out a notify that read the state before stopped was set.
	c.notifyMu.Lock()
	c.listeners.Clear()
	c.notifyMu.Unlock()
}

// Trigger starts a refresh without waiting for it. Any refresh already in
// flight is cancelled and its result will be discarded.
func (c *Cache[T]) Trigger() {
	c.trigger(telemetry.TriggerUser)
}

// Refresh issues a refresh and waits for it. It returns the fetch error, or
// ErrSuperseded/ErrStopped when the result was discarded.
func (c *Cache[T]) Refresh(ctx context.Context) error {
	done, ok := c.trigger(telemetry.TriggerUser)
	if !ok {
		return ErrStopped
	}
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// SetAutoRefresh turns the periodic trigger on or off. A change releases the
// current ticker, acquires a new one when enabled, and refreshes immediately.
func (c *Cache[T]) SetAutoRefresh(on bool) {
	c.mu.Lock()
	if c.stopped || c.opts.Interval <= 0 || c.autoRefresh == on {
		c.mu.Unlock()
		return
	}
	c.autoRefresh = on
	var wait chan struct{}
	if c.tickerCancel != nil {
		c.tickerCancel()
		wait = c.tickerDone
		c.tickerCancel = nil
		c.tickerDone = nil
	}
	started := c.started
	c.mu.Unlock()

	// The old ticker may be blocked in tick on c.mu.
	if wait != nil {
		<-wait
	}
	c.publisher.Publish(telemetry.NewAutoRefreshChanged(c.name, on))
	c.logger.Printf("%s auto refresh set to %t", c.name, on)

	if !started {
		return
	}

	c.mu.Lock()
	if c.autoRefresh && !c.stopped && c.tickerCancel == nil {
		c.startTickerLocked()
	}
	c.mu.Unlock()

	c.trigger(telemetry.TriggerToggle)
}

// Subscribe registers fn to be called with the new state after every
// transition. fn runs on the goroutine that caused the transition and must
// not call back into the cache synchronously.
func (c *Cache[T]) Subscribe(fn func(State[T])) (unsubscribe func()) {
	id := c.nextID.Add(1)
	c.listeners.Store(id, fn)
	return func() { c.listeners.Delete(id) }
}

func (c *Cache[T]) trigger(kind telemetry.Trigger) (<-chan error, bool) {
	c.mu.Lock()
	req, ok := c.issueLocked(kind)
	c.mu.Unlock()
	if !ok {
		return nil, false
	}
	c.afterIssue(req)
	return req.done, true
}

// issueLocked assigns the next sequence number, cancels the superseded
// request and launches the fetch. c.mu must be held.
func (c *Cache[T]) issueLocked(kind telemetry.Trigger) (request, bool) {
	if c.stopped {
		return request{}, false
	}
	if c.inflight != nil {
		c.inflight()
	}

	c.seq++
	req := request{seq: c.seq, trigger: kind, done: make(chan error, 1)}

	var rctx context.Context
	var cancel context.CancelFunc
	if c.opts.Timeout > 0 {
		rctx, cancel = context.WithTimeout(c.ctx, c.opts.Timeout)
	} else {
		rctx, cancel = context.WithCancel(c.ctx)
	}
	rctx = context.WithValue(rctx, seqKey{}, req.seq)
	c.inflight = cancel

	c.state.Status = StatusLoading
	c.state.Seq = req.seq

	c.wg.Add(1)
	go c.run(rctx, cancel, req)
	return req, true
}

func (c *Cache[T]) afterIssue(req request) {
	c.publisher.Publish(telemetry.NewRefreshIssued(c.name, req.seq, req.trigger))
	c.notify()
}

func (c *Cache[T]) run(ctx context.Context, cancel context.CancelFunc, req request) {
	defer c.wg.Done()
	defer cancel()

	start := c.clock.Now()
	data, err := c.fetch(ctx)
	req.done <- c.complete(req.seq, data, err, c.clock.Now().Sub(start))
}

// complete is the single mutation point for the held snapshot.
func (c *Cache[T]) complete(seq uint64, data T, err error, latency time.Duration) error {
	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		c.publisher.Publish(telemetry.NewRefreshDiscarded(c.name, seq, "stopped"))
		return ErrStopped
	}
	if seq != c.seq {
		c.mu.Unlock()
		c.publisher.Publish(telemetry.NewRefreshDiscarded(c.name, seq, "superseded"))
		return ErrSuperseded
	}

	c.inflight = nil
	if err != nil {
		c.state.Status = StatusFailed
		c.state.Message = c.opts.ErrorMessage
		c.state.Err = err
	} else {
		c.state = State[T]{
			Status:   StatusIdle,
			Data:     data,
			HasData:  true,
			Seq:      seq,
			LoadedAt: c.clock.Now(),
		}
	}
	c.mu.Unlock()

	if err != nil {
		c.logger.Printf("%s refresh #%d failed after %s: %v", c.name, seq, latency, err)
		c.publisher.Publish(telemetry.NewRefreshFailed(c.name, seq, err, latency))
	} else {
		c.publisher.Publish(telemetry.NewRefreshSucceeded(c.name, seq, latency))
	}
	c.notify()
	return err
}

// startTickerLocked acquires the periodic trigger. c.mu must be held.
func (c *Cache[T]) startTickerLocked() {
	tctx, cancel := context.WithCancel(c.ctx)
	done := make(chan struct{})
	c.tickerCancel = cancel
	c.tickerDone = done

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer close(done)

		ticker := time.NewTicker(c.opts.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-tctx.Done():
				return
			case <-ticker.C:
				c.tick()
			}
		}
	}()
}

// tick is a timer-driven trigger. It is coalesced when a refresh is still in
// flight; user triggers supersede instead.
func (c *Cache[T]) tick() {
	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		return
	}
	if c.inflight != nil {
		c.mu.Unlock()
		c.publisher.Publish(telemetry.NewRefreshCoalesced(c.name))
		return
	}
	req, ok := c.issueLocked(telemetry.TriggerTimer)
	c.mu.Unlock()
	if ok {
		c.afterIssue(req)
	}
}

func (c *Cache[T]) notify() {
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()

	c.mu.Lock()
	stopped := c.stopped
	st := c.state
	c.mu.Unlock()
	if stopped {
		return
	}

	c.listeners.Range(func(_ uint64, fn func(State[T])) bool {
		fn(st)
		return true
	})
}
