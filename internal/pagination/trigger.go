// Package pagination turns scroll observations into "load the next page"
// notifications for an infinitely scrolling feed.
//
// A Trigger keeps the latest visible-edge index and the latest total count in
// two independent slots. Whenever either slot changes it combines them into a
// ScrollSignal, drops the pair if it equals the previously evaluated one, and
// calls its sink once if the pair is NearBottom. The trigger only listens
// between Start and Stop, which the host calls as its screen is shown and
// hidden.
package pagination

import (
	"sync"

	"github.com/rs/zerolog"
	"go.uber.org/atomic"
)

// AdvanceFunc receives a zero-payload "fetch the next page" notification.
// It runs while the trigger holds its lock and must not call back into the
// trigger.
type AdvanceFunc func()

// State is a snapshot of the trigger for inspection.
type State struct {
	Active      bool
	LastEmitted *ScrollSignal
}

// subscription holds everything that lives between Start and Stop.
type subscription struct {
	edge     int
	total    int
	hasEdge  bool
	hasTotal bool

	last    ScrollSignal // last pair that was evaluated
	hasLast bool

	lastEmitted *ScrollSignal
}

// Trigger is the pagination state machine. The zero value is not usable; use New.
type Trigger struct {
	mu       sync.Mutex
	sub      *subscription
	advance  AdvanceFunc
	logger   zerolog.Logger
	advances *atomic.Int64
}

// Option configures a Trigger.
type Option func(*Trigger)

// WithLogger sets the logger used for debug traces.
func WithLogger(logger zerolog.Logger) Option {
	return func(t *Trigger) {
		t.logger = logger
	}
}

// New creates a stopped trigger delivering advances to fn.
func New(fn AdvanceFunc, opts ...Option) *Trigger {
	t := &Trigger{
		advance:  fn,
		logger:   zerolog.Nop(),
		advances: atomic.NewInt64(0),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Start (re)creates the subscription with both slots unset. Calling Start on a
// running trigger discards its state, the same as Stop followed by Start.
func (t *Trigger) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sub = &subscription{}
	t.logger.Debug().Msg("pagination trigger started")
}

// Stop releases the subscription and discards its state. It is safe to call
// without a prior Start and any number of times. Once Stop returns no advance
// is delivered until the next Start.
func (t *Trigger) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.sub == nil {
		return
	}
	t.sub = nil
	t.logger.Debug().Msg("pagination trigger stopped")
}

// Active reports whether the trigger is between Start and Stop.
func (t *Trigger) Active() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.sub != nil
}

// Observe feeds one scroll/layout pass. It reports whether an advance was
// delivered for this observation.
func (t *Trigger) Observe(s ScrollSignal) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.sub == nil {
		return false
	}
	t.sub.edge, t.sub.hasEdge = s.VisibleEdgeIndex, true
	t.sub.total, t.sub.hasTotal = s.TotalCount, true
	return t.evaluate()
}

// ObserveVisibleEdge updates only the visible-edge slot.
func (t *Trigger) ObserveVisibleEdge(index int) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.sub == nil {
		return false
	}
	t.sub.edge, t.sub.hasEdge = index, true
	return t.evaluate()
}

// ObserveTotalCount updates only the total-count slot.
func (t *Trigger) ObserveTotalCount(count int) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.sub == nil {
		return false
	}
	t.sub.total, t.sub.hasTotal = count, true
	return t.evaluate()
}

// State returns a snapshot of the current subscription.
func (t *Trigger) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.sub == nil {
		return State{}
	}
	st := State{Active: true}
	if t.sub.lastEmitted != nil {
		emitted := *t.sub.lastEmitted
		st.LastEmitted = &emitted
	}
	return st
}

// Advances returns how many advances were delivered over the trigger's life.
func (t *Trigger) Advances() int64 {
	return t.advances.Load()
}

// evaluate runs with t.mu held and t.sub non-nil.
func (t *Trigger) evaluate() bool {
	sub := t.sub
	if !sub.hasEdge || !sub.hasTotal {
		return false
	}

	pair := ScrollSignal{VisibleEdgeIndex: sub.edge, TotalCount: sub.total}
	if sub.hasLast && sub.last == pair {
		return false
	}
	sub.last, sub.hasLast = pair, true

	if !NearBottom(pair) {
		return false
	}

	sub.lastEmitted = &pair
	t.advances.Inc()
	t.logger.Debug().Int("edge", pair.VisibleEdgeIndex).Int("total", pair.TotalCount).Msg("advance")
	if t.advance != nil {
		t.advance()
	}
	return true
}
