package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/benefitflow/ichra-engine/pkg/logger"
	"github.com/benefitflow/ichra-engine/pkg/metrics"
)

// State is the controller's observable lifecycle state.
type State int32

const (
	// Idle means the controller holds the last-computed result and no pass
	// is in flight.
	Idle State = iota
	// Recomputing means a pass is in flight (or pending behind the debounce
	// window).
	Recomputing
)

const defaultDebounce = 50 * time.Millisecond

// Controller is the single component with any notion of "current" state. It
// owns the last-known inputs and output, coalesces bursts of input changes
// into a single recomputation, cancels superseded in-flight passes, and
// atomically replaces the published result on completion. Partial results
// are never exposed.
type Controller struct {
	engine   *Engine
	debounce time.Duration
	log      logger.Logger

	inputCh  chan Inputs
	waitCh   chan chan struct{}
	shutdown chan struct{}
	done     chan struct{}

	state atomic.Int32

	mu     sync.RWMutex
	latest *Result
}

// ControllerOption configures a Controller.
type ControllerOption func(*Controller)

// WithDebounce sets the input-coalescing window. Zero disables coalescing:
// every change starts a pass immediately (still superseding any in-flight
// one).
func WithDebounce(d time.Duration) ControllerOption {
	return func(c *Controller) {
		c.debounce = d
	}
}

// NewController creates a controller around an engine. Call Start before
// sending input changes.
func NewController(e *Engine, opts ...ControllerOption) *Controller {
	c := &Controller{
		engine:   e,
		debounce: defaultDebounce,
		log:      logger.Named("controller"),
		inputCh:  make(chan Inputs),
		waitCh:   make(chan chan struct{}),
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start launches the single-writer event loop. The loop runs until ctx is
// canceled or Shutdown is called.
func (c *Controller) Start(ctx context.Context) {
	go c.run(ctx)
}

// OnInputsChanged hands the controller a fresh input snapshot. Bursts of
// calls within the debounce window coalesce into one pass; the latest
// snapshot always wins.
func (c *Controller) OnInputsChanged(in Inputs) {
	select {
	case c.inputCh <- in:
	case <-c.done:
	}
}

// Latest returns the most recently completed result, if any. Superseded
// passes never publish here.
func (c *Controller) Latest() (*Result, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.latest, c.latest != nil
}

// CurrentState reports whether the controller is idle or recomputing.
func (c *Controller) CurrentState() State {
	return State(c.state.Load())
}

// WaitIdle blocks until no pass is pending or in flight, or ctx is done.
// Intended for callers that change inputs and then read Latest.
func (c *Controller) WaitIdle(ctx context.Context) error {
	ready := make(chan struct{})
	select {
	case c.waitCh <- ready:
	case <-c.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Shutdown stops the event loop, canceling any in-flight pass.
func (c *Controller) Shutdown(ctx context.Context) error {
	close(c.shutdown)
	select {
	case <-c.done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("controller shutdown timed out: %w", ctx.Err())
	}
}

type passResult struct {
	gen     uint64
	id      uuid.UUID
	res     *Result
	err     error
	started time.Time
}

// run is the single-writer event loop. All scheduling state (pending
// inputs, debounce timer, in-flight generation) lives on this goroutine;
// nothing else reads or writes it.
func (c *Controller) run(ctx context.Context) {
	defer close(c.done)

	var (
		pending    *Inputs
		timer      *time.Timer
		timerC     <-chan time.Time
		gen        uint64
		inFlight   bool
		cancelPass context.CancelFunc
		waiters    []chan struct{}
	)
	results := make(chan passResult)

	cancelInFlight := func() {
		if cancelPass != nil {
			cancelPass()
			cancelPass = nil
		}
	}
	defer cancelInFlight()

	stopTimer := func() {
		if timer != nil {
			timer.Stop()
			timer = nil
			timerC = nil
		}
	}

	launch := func(in Inputs) {
		cancelInFlight()
		gen++
		inFlight = true
		passCtx, cancel := context.WithCancel(ctx)
		cancelPass = cancel
		id := uuid.New()
		c.log.Debug(ctx, "starting pass",
			logger.String("pass_id", id.String()),
			logger.Int("members", len(in.Members)),
			logger.Int("plans", len(in.Catalog)),
		)
		go func(g uint64, id uuid.UUID, in Inputs) {
			started := time.Now()
			res, err := c.engine.Recompute(passCtx, in)
			select {
			case results <- passResult{gen: g, id: id, res: res, err: err, started: started}:
			case <-c.done:
			}
		}(gen, id, in)
	}

	notifyIfIdle := func() {
		if pending == nil && timer == nil && !inFlight {
			c.state.Store(int32(Idle))
			for _, w := range waiters {
				close(w)
			}
			waiters = nil
		}
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-c.shutdown:
			return

		case in := <-c.inputCh:
			pending = &in
			c.state.Store(int32(Recomputing))
			stopTimer()
			if c.debounce <= 0 {
				launch(*pending)
				pending = nil
				continue
			}
			timer = time.NewTimer(c.debounce)
			timerC = timer.C

		case <-timerC:
			timer = nil
			timerC = nil
			if pending != nil {
				launch(*pending)
				pending = nil
			}

		case pr := <-results:
			if pr.gen != gen {
				// A newer pass superseded this one; discard, never merge.
				metrics.RecordSuperseded()
				c.log.Debug(ctx, "discarding superseded pass", logger.String("pass_id", pr.id.String()))
				continue
			}
			inFlight = false
			cancelPass = nil
			switch {
			case pr.err != nil && errors.Is(pr.err, context.Canceled):
				metrics.RecordSuperseded()
			case pr.err != nil:
				metrics.RecordError()
				c.log.Error(ctx, "pass failed",
					logger.String("pass_id", pr.id.String()),
					logger.Error(pr.err),
				)
			default:
				metrics.RecordRecompute(time.Since(pr.started).Seconds())
				metrics.RecordDataIssues(len(pr.res.Issues))
				c.mu.Lock()
				c.latest = pr.res
				c.mu.Unlock()
				c.log.Info(ctx, "pass completed",
					logger.String("pass_id", pr.id.String()),
					logger.Int("resolved", pr.res.Summary.ResolvedCount),
					logger.Int("unresolved", pr.res.Summary.UnresolvedCount),
					logger.Int("issues", len(pr.res.Issues)),
				)
			}
			notifyIfIdle()

		case w := <-c.waitCh:
			waiters = append(waiters, w)
			notifyIfIdle()
		}
	}
}
