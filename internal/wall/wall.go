// Package wall composes the sponsor wall: it owns the selected layer and
// slot, merges backend data with the static registry, and tracks the spin
// animation of the spinning layer.
package wall

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/keilerkonzept/sponsorwall/internal/content"
	"github.com/keilerkonzept/sponsorwall/internal/domain"
	"github.com/keilerkonzept/sponsorwall/internal/store"
)

var ErrSlotOutOfRange = errors.New("slot outside the current grid")

const pulsePeriod = time.Second

// Activator is the part of the activation controller the wall drives.
type Activator interface {
	Enter(domain.Layer)
	Active(domain.Layer) []int
}

type Option func(*Wall)

func WithClock(clock clockwork.Clock) Option {
	return func(w *Wall) {
		if clock != nil {
			w.clock = clock
		}
	}
}

func WithRand(rng *rand.Rand) Option {
	return func(w *Wall) {
		if rng != nil {
			w.rng = rng
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(w *Wall) {
		if logger != nil {
			w.logger = logger
		}
	}
}

type Wall struct {
	registry  *content.Registry
	activator Activator
	clock     clockwork.Clock
	logger    *zap.Logger

	mu       sync.Mutex
	rng      *rand.Rand
	layer    domain.Layer
	selected int
	spins    map[int]*spin
}

// New returns a wall showing the static layer. Call SelectLayer to start
// the activation timer of another layer.
func New(reg *content.Registry, activator Activator, opts ...Option) *Wall {
	w := &Wall{
		registry:  reg,
		activator: activator,
		clock:     clockwork.NewRealClock(),
		logger:    zap.NewNop(),
		rng:       rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		layer:     domain.LayerStatic,
		spins:     make(map[int]*spin),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func (w *Wall) Layer() domain.Layer {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.layer
}

// Selected returns the selected slot ordinal, if any.
func (w *Wall) Selected() (int, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.selected, w.selected != 0
}

// SelectLayer switches the wall to l. The selection and every spin are
// dropped, and the activator restarts with empty active sets.
func (w *Wall) SelectLayer(l domain.Layer) error {
	if !l.Valid() {
		return fmt.Errorf("%w: %d", domain.ErrUnknownLayer, int(l))
	}
	w.mu.Lock()
	prev := w.layer
	w.activator.Enter(l)
	w.layer = l
	w.selected = 0
	clear(w.spins)
	w.mu.Unlock()

	w.logger.Info("layer selected",
		zap.String("from", prev.Mode()),
		zap.String("to", l.Mode()))
	return nil
}

// SelectSlot marks ordinal as selected. On the spinning layer it also starts
// a spin of that slot.
func (w *Wall) SelectSlot(ordinal int) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	shape := Shape(w.layer)
	if !shape.Contains(ordinal) {
		return fmt.Errorf("%w: %d not in [1, %d] on %s", ErrSlotOutOfRange, ordinal, shape.Slots, w.layer.Mode())
	}
	w.selected = ordinal
	if w.layer == domain.LayerSpinning {
		s := w.spinLocked(ordinal)
		s.begin(w.clock.Now())
	}
	return nil
}

func (w *Wall) ClearSelection() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.selected = 0
}

// Animate advances the spin animation to now. Slots that joined the active
// set since the last call schedule their first spin after their stagger
// delay; slots that left stop rolling for new spins.
func (w *Wall) Animate(now time.Time) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.layer != domain.LayerSpinning {
		return
	}

	active := make(map[int]bool)
	for _, n := range w.activator.Active(domain.LayerSpinning) {
		active[n] = true
		s := w.spinLocked(n)
		if s.activeSince.IsZero() {
			s.activate(now, staggerDelay(n), w.rng)
		}
	}
	for n, s := range w.spins {
		if !active[n] && !s.activeSince.IsZero() {
			s.deactivate()
		}
		s.step(now, w.rng)
	}
}

func (w *Wall) spinLocked(ordinal int) *spin {
	s, ok := w.spins[ordinal]
	if !ok {
		s = &spin{}
		w.spins[ordinal] = s
	}
	return s
}

// Cell is one rendered position of the grid.
type Cell struct {
	Ordinal    int
	Row, Col   int
	Resolution Resolution
	Content    content.SlotContent
	HasContent bool
	Product    content.Product
	HasProduct bool
	Active     bool
	Selected   bool
	Delay      time.Duration
	// Pulse alternates every second for active cells, shifted by Delay.
	Pulse bool
	Spin  SpinFrame
}

type Grid struct {
	Layer  domain.Layer
	Shape  GridShape
	Cells  []Cell
	Active []int
}

// Cell returns the cell of ordinal.
func (g Grid) Cell(ordinal int) (Cell, bool) {
	if ordinal < 1 || ordinal > len(g.Cells) {
		return Cell{}, false
	}
	return g.Cells[ordinal-1], true
}

// Rows splits the cells into grid rows.
func (g Grid) Rows() [][]Cell {
	rows := make([][]Cell, 0, g.Shape.Rows)
	for i := 0; i < len(g.Cells); i += g.Shape.Cols {
		rows = append(rows, g.Cells[i:min(i+g.Shape.Cols, len(g.Cells))])
	}
	return rows
}

// Grid composes the current layer from snap at instant now.
func (w *Wall) Grid(snap store.Snapshot, now time.Time) Grid {
	w.mu.Lock()
	layer, selected := w.layer, w.selected
	frames := make(map[int]SpinFrame, len(w.spins))
	for n, s := range w.spins {
		frames[n] = s.frame(now)
	}
	w.mu.Unlock()

	shape := Shape(layer)
	active := w.activator.Active(layer)
	isActive := make(map[int]bool, len(active))
	for _, n := range active {
		isActive[n] = true
	}

	g := Grid{Layer: layer, Shape: shape, Active: active, Cells: make([]Cell, 0, shape.Slots)}
	for n := 1; n <= shape.Slots; n++ {
		c := w.cell(layer, n, snap)
		c.Row, c.Col = shape.Position(n)
		c.Active = isActive[n]
		c.Selected = n == selected
		c.Delay = staggerDelay(n)
		c.Pulse = c.Active && pulseOn(now, c.Delay)
		c.Spin = frames[n]
		g.Cells = append(g.Cells, c)
	}
	return g
}

func (w *Wall) cell(layer domain.Layer, ordinal int, snap store.Snapshot) Cell {
	c := Cell{
		Ordinal:    ordinal,
		Resolution: Resolve(ordinal, snap.Slots.Items, snap.Companies.Items, w.registry),
	}
	if w.registry != nil {
		c.Content, c.HasContent = w.registry.Content(layer, ordinal)
		if layer == domain.LayerAR {
			c.Product, c.HasProduct = w.registry.Product(ordinal)
		}
	}
	return c
}

// Detail is the content panel of the selected slot.
type Detail struct {
	Cell
	Layer     domain.Layer
	Info      content.LayerInfo
	Bids      []domain.Bid
	Analytics []domain.Analytics
}

// Detail returns the panel of the selected slot, or false when nothing is
// selected. Bids and analytics are listed only when the backend knows the
// slot.
func (w *Wall) Detail(snap store.Snapshot, now time.Time) (Detail, bool) {
	w.mu.Lock()
	selected := w.selected
	w.mu.Unlock()
	if selected == 0 {
		return Detail{}, false
	}

	g := w.Grid(snap, now)
	cell, ok := g.Cell(selected)
	if !ok {
		return Detail{}, false
	}
	d := Detail{Cell: cell, Layer: g.Layer}
	if w.registry != nil {
		d.Info, _ = w.registry.LayerInfo(g.Layer)
	}
	if s := cell.Resolution.Slot; s != nil && s.ID != "" {
		d.Bids = snap.BidsForSlot(s.ID)
		d.Analytics = snap.AnalyticsForSlot(s.ID)
	}
	return d, true
}

func staggerDelay(ordinal int) time.Duration {
	return time.Duration(ordinal-1) * StaggerInterval
}

func pulseOn(now time.Time, delay time.Duration) bool {
	phase := now.Add(-delay).UnixMilli() / pulsePeriod.Milliseconds()
	return phase%2 == 0
}
