// Package activation drives which slots of the wall are highlighted.
//
// A Controller owns one randomized ticker for the selected layer. Every tick
// draws a slot ordinal, toggles it in the layer's active set and evicts the
// earliest inserted ordinal while the set is over its cap. Switching layers
// stops the old ticker before anything else happens and clears every set,
// so at most one ticker is ever live.
package activation

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/keilerkonzept/sponsorwall/internal/domain"
)

var (
	ErrNoPolicy          = errors.New("layer has no activation policy")
	ErrOrdinalOutOfRange = errors.New("slot ordinal out of range")
)

// Policy is the activation behaviour of one layer.
type Policy struct {
	Period time.Duration
	Cap    int
	Slots  int
}

// DefaultPolicies returns the stock periods and caps. The static layer has
// no entry and therefore never activates anything.
func DefaultPolicies() map[domain.Layer]Policy {
	return map[domain.Layer]Policy{
		domain.LayerHologram: {Period: 3 * time.Second, Cap: 3, Slots: 24},
		domain.LayerAR:       {Period: 2500 * time.Millisecond, Cap: 4, Slots: 16},
		domain.LayerSpinning: {Period: 2 * time.Second, Cap: 6, Slots: 24},
	}
}

// Event describes the outcome of one tick.
type Event struct {
	Layer    domain.Layer
	Ordinal  int
	Inserted bool
	Evicted  []int
	Active   []int
}

// Listener is called after every tick, outside the controller's lock. It
// runs on the ticker goroutine and must not block.
type Listener func(Event)

type Option func(*Controller)

func WithClock(clock clockwork.Clock) Option {
	return func(c *Controller) {
		if clock != nil {
			c.clock = clock
		}
	}
}

func WithRand(rng *rand.Rand) Option {
	return func(c *Controller) {
		if rng != nil {
			c.rng = rng
		}
	}
}

// WithPolicies replaces the default policies.
func WithPolicies(p map[domain.Layer]Policy) Option {
	return func(c *Controller) { c.policies = p }
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func WithListener(l Listener) Option {
	return func(c *Controller) { c.listener = l }
}

type Controller struct {
	clock    clockwork.Clock
	policies map[domain.Layer]Policy
	logger   *zap.Logger
	listener Listener

	// transition serializes Enter and Stop so a new ticker is never started
	// before the previous one has fully stopped.
	transition sync.Mutex

	mu      sync.Mutex
	rng     *rand.Rand
	layer   domain.Layer
	sets    map[domain.Layer]*OrderedSet
	running *run
}

type run struct {
	layer  domain.Layer
	cancel context.CancelFunc
	done   chan struct{}
}

func NewController(opts ...Option) *Controller {
	c := &Controller{
		clock:    clockwork.NewRealClock(),
		policies: DefaultPolicies(),
		logger:   zap.NewNop(),
		rng:      rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
	for _, opt := range opts {
		opt(c)
	}

	normalized := make(map[domain.Layer]Policy, len(c.policies))
	for l, p := range c.policies {
		if p.Cap < 1 {
			p.Cap = 1
		}
		if p.Slots < 1 {
			p.Slots = 1
		}
		normalized[l] = p
	}
	c.policies = normalized
	c.sets = make(map[domain.Layer]*OrderedSet, len(normalized))
	for l := range normalized {
		c.sets[l] = NewOrderedSet()
	}
	return c
}

// Enter makes l the current layer: the running ticker is cancelled and
// awaited, all active sets are cleared, and a ticker with l's period is
// started when l has a policy.
func (c *Controller) Enter(l domain.Layer) {
	c.transition.Lock()
	defer c.transition.Unlock()

	c.halt()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.layer = l
	c.clearLocked()

	c.startLocked()
}

// startLocked starts the ticker of the current layer if it has a policy.
func (c *Controller) startLocked() {
	l := c.layer
	p, ok := c.policies[l]
	if !ok || p.Period <= 0 {
		c.logger.Debug("no activation timer for layer", zap.String("layer", l.Mode()))
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	r := &run{layer: l, cancel: cancel, done: make(chan struct{})}
	c.running = r
	ticker := c.clock.NewTicker(p.Period)
	go c.loop(ctx, r, ticker)

	c.logger.Debug("activation timer started",
		zap.String("layer", l.Mode()),
		zap.Duration("period", p.Period),
		zap.Int("cap", p.Cap),
		zap.Int("slots", p.Slots))
}

// Pause cancels the running ticker but keeps the active sets.
func (c *Controller) Pause() {
	c.transition.Lock()
	defer c.transition.Unlock()
	c.halt()
}

// Resume restarts the ticker of the current layer after Pause. It does
// nothing while a ticker is running.
func (c *Controller) Resume() {
	c.transition.Lock()
	defer c.transition.Unlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running != nil {
		return
	}
	c.startLocked()
}

// Stop cancels the running ticker and clears every set. The current layer
// is kept; Enter starts it again.
func (c *Controller) Stop() {
	c.transition.Lock()
	defer c.transition.Unlock()

	c.halt()
	c.mu.Lock()
	c.clearLocked()
	c.mu.Unlock()
}

// Draw applies one tick to the current layer with a caller-chosen ordinal.
func (c *Controller) Draw(ordinal int) (Event, error) {
	c.mu.Lock()
	l := c.layer
	p, ok := c.policies[l]
	if !ok {
		c.mu.Unlock()
		return Event{}, fmt.Errorf("%w: %s", ErrNoPolicy, l.Mode())
	}
	if ordinal < 1 || ordinal > p.Slots {
		c.mu.Unlock()
		return Event{}, fmt.Errorf("%w: %d not in [1, %d]", ErrOrdinalOutOfRange, ordinal, p.Slots)
	}
	ev := c.applyLocked(l, p, ordinal)
	c.mu.Unlock()

	c.notify(ev)
	return ev, nil
}

func (c *Controller) Layer() domain.Layer {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.layer
}

// Running reports whether a ticker is live.
func (c *Controller) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running != nil
}

func (c *Controller) Policy(l domain.Layer) (Policy, bool) {
	p, ok := c.policies[l]
	return p, ok
}

// Active returns l's active ordinals in insertion order.
func (c *Controller) Active(l domain.Layer) []int {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.sets[l]
	if !ok {
		return nil
	}
	return s.Values()
}

func (c *Controller) IsActive(l domain.Layer, ordinal int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.sets[l]
	return ok && s.Contains(ordinal)
}

func (c *Controller) halt() {
	c.mu.Lock()
	r := c.running
	c.running = nil
	c.mu.Unlock()
	if r == nil {
		return
	}
	r.cancel()
	<-r.done
	c.logger.Debug("activation timer stopped", zap.String("layer", r.layer.Mode()))
}

func (c *Controller) loop(ctx context.Context, r *run, ticker clockwork.Ticker) {
	defer close(r.done)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			c.tick(r)
		}
	}
}

func (c *Controller) tick(r *run) {
	c.mu.Lock()
	if c.running != r {
		// Lost a race with halt; the layer is already gone.
		c.mu.Unlock()
		return
	}
	p := c.policies[r.layer]
	ordinal := c.rng.IntN(p.Slots) + 1
	ev := c.applyLocked(r.layer, p, ordinal)
	c.mu.Unlock()

	c.notify(ev)
}

func (c *Controller) applyLocked(l domain.Layer, p Policy, ordinal int) Event {
	s := c.sets[l]
	ev := Event{Layer: l, Ordinal: ordinal, Inserted: s.Toggle(ordinal)}
	for s.Len() > p.Cap {
		v, _ := s.EvictOldest()
		ev.Evicted = append(ev.Evicted, v)
	}
	ev.Active = s.Values()
	return ev
}

func (c *Controller) clearLocked() {
	for _, s := range c.sets {
		s.Clear()
	}
}

func (c *Controller) notify(ev Event) {
	if c.listener != nil {
		c.listener(ev)
	}
}
