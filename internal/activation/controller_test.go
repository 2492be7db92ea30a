package activation

import (
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"github.com/keilerkonzept/sponsorwall/internal/domain"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestController(t *testing.T, clock clockwork.Clock, opts ...Option) *Controller {
	t.Helper()
	base := []Option{
		WithClock(clock),
		WithRand(rand.New(rand.NewPCG(1, 2))),
		WithLogger(zaptest.NewLogger(t)),
	}
	c := NewController(append(base, opts...)...)
	t.Cleanup(c.Stop)
	return c
}

type eventLog struct {
	mu     sync.Mutex
	events []Event
}

func (l *eventLog) listen(ev Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, ev)
}

func (l *eventLog) len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.events)
}

func (l *eventLog) all() []Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Event(nil), l.events...)
}

func TestDraw_SizeNeverExceedsCap(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 7))
	for n := 1; n <= 30; n += 3 {
		for limit := 1; limit <= 8; limit++ {
			c := newTestController(t, clockwork.NewFakeClock(), WithPolicies(map[domain.Layer]Policy{
				domain.LayerHologram: {Cap: limit, Slots: n},
			}))
			c.Enter(domain.LayerHologram)
			for range 200 {
				_, err := c.Draw(rng.IntN(n) + 1)
				require.NoError(t, err)
				active := c.Active(domain.LayerHologram)
				require.LessOrEqual(t, len(active), limit, "n=%d cap=%d", n, limit)
				for _, v := range active {
					require.True(t, v >= 1 && v <= n, "ordinal %d outside [1,%d]", v, n)
				}
			}
		}
	}
}

func TestDraw_SameOrdinalTwiceRemovesIt(t *testing.T) {
	c := newTestController(t, clockwork.NewFakeClock())
	c.Enter(domain.LayerHologram)

	ev, err := c.Draw(5)
	require.NoError(t, err)
	assert.True(t, ev.Inserted)
	assert.Equal(t, []int{5}, ev.Active)

	ev, err = c.Draw(5)
	require.NoError(t, err)
	assert.False(t, ev.Inserted)
	assert.Empty(t, ev.Active)
	assert.False(t, c.IsActive(domain.LayerHologram, 5))
}

func TestDraw_EvictsEarliestInserted(t *testing.T) {
	c := newTestController(t, clockwork.NewFakeClock())
	c.Enter(domain.LayerHologram) // cap 3

	for _, v := range []int{4, 8, 15} {
		_, err := c.Draw(v)
		require.NoError(t, err)
	}
	ev, err := c.Draw(16)
	require.NoError(t, err)
	assert.Equal(t, []int{4}, ev.Evicted)
	assert.Equal(t, []int{8, 15, 16}, c.Active(domain.LayerHologram))

	// Removing and re-adding moves 8 to the back of the queue.
	_, _ = c.Draw(8)
	_, _ = c.Draw(8)
	ev, _ = c.Draw(23)
	assert.Equal(t, []int{15}, ev.Evicted)
	assert.Equal(t, []int{16, 8, 23}, c.Active(domain.LayerHologram))
}

func TestDraw_Rejects(t *testing.T) {
	c := newTestController(t, clockwork.NewFakeClock())

	c.Enter(domain.LayerStatic)
	_, err := c.Draw(1)
	assert.ErrorIs(t, err, ErrNoPolicy)

	c.Enter(domain.LayerAR)
	_, err = c.Draw(0)
	assert.ErrorIs(t, err, ErrOrdinalOutOfRange)
	_, err = c.Draw(17)
	assert.ErrorIs(t, err, ErrOrdinalOutOfRange)
	_, err = c.Draw(16)
	assert.NoError(t, err)
}

func TestEnter_ClearsEverySet(t *testing.T) {
	c := newTestController(t, clockwork.NewFakeClock())

	for _, l := range []domain.Layer{domain.LayerHologram, domain.LayerAR, domain.LayerSpinning} {
		c.Enter(l)
		_, err := c.Draw(2)
		require.NoError(t, err)
		_, err = c.Draw(3)
		require.NoError(t, err)
		require.Len(t, c.Active(l), 2)
	}

	for _, next := range domain.Layers {
		c.Enter(next)
		for _, l := range domain.Layers {
			assert.Empty(t, c.Active(l), "entering %s must clear %s", next.Mode(), l.Mode())
		}
	}
}

func TestEnter_StaticHasNoTimer(t *testing.T) {
	clock := clockwork.NewFakeClock()
	c := newTestController(t, clock)

	c.Enter(domain.LayerStatic)
	assert.False(t, c.Running())
	clock.Advance(time.Minute)
	assert.Empty(t, c.Active(domain.LayerStatic))
	assert.Equal(t, domain.LayerStatic, c.Layer())
}

func TestTimer_TicksAtLayerPeriod(t *testing.T) {
	clock := clockwork.NewFakeClock()
	var log eventLog
	c := newTestController(t, clock, WithListener(log.listen))

	c.Enter(domain.LayerHologram)
	require.True(t, c.Running())

	clock.Advance(2 * time.Second)
	assert.Never(t, func() bool { return log.len() > 0 }, 50*time.Millisecond, 5*time.Millisecond)

	for i := 1; i <= 5; i++ {
		clock.Advance(time.Second)
		require.Eventually(t, func() bool { return log.len() == i }, time.Second, time.Millisecond)
		clock.Advance(2 * time.Second)
	}
	for _, ev := range log.all() {
		assert.Equal(t, domain.LayerHologram, ev.Layer)
		assert.LessOrEqual(t, len(ev.Active), 3)
	}
}

func TestTimer_OnlyCurrentLayerTicks(t *testing.T) {
	clock := clockwork.NewFakeClock()
	var log eventLog
	c := newTestController(t, clock, WithListener(log.listen))

	c.Enter(domain.LayerAR)
	c.Enter(domain.LayerSpinning)

	clock.Advance(2 * time.Second)
	require.Eventually(t, func() bool { return log.len() == 1 }, time.Second, time.Millisecond)
	clock.Advance(500 * time.Millisecond)
	assert.Never(t, func() bool { return log.len() > 1 }, 50*time.Millisecond, 5*time.Millisecond)

	for _, ev := range log.all() {
		assert.Equal(t, domain.LayerSpinning, ev.Layer)
	}
	assert.Empty(t, c.Active(domain.LayerAR))
}

func TestStop_CancelsTimerAndClears(t *testing.T) {
	clock := clockwork.NewFakeClock()
	var log eventLog
	c := newTestController(t, clock, WithListener(log.listen))

	c.Enter(domain.LayerSpinning)
	clock.Advance(2 * time.Second)
	require.Eventually(t, func() bool { return log.len() == 1 }, time.Second, time.Millisecond)
	require.Len(t, c.Active(domain.LayerSpinning), 1)

	c.Stop()
	assert.False(t, c.Running())
	assert.Empty(t, c.Active(domain.LayerSpinning))

	clock.Advance(10 * time.Second)
	assert.Never(t, func() bool { return log.len() > 1 }, 50*time.Millisecond, 5*time.Millisecond)

	// Stop is idempotent.
	c.Stop()
}

func TestNewController_NormalizesPolicies(t *testing.T) {
	c := newTestController(t, clockwork.NewFakeClock(), WithPolicies(map[domain.Layer]Policy{
		domain.LayerHologram: {Period: time.Second, Cap: 0, Slots: -4},
	}))
	p, ok := c.Policy(domain.LayerHologram)
	require.True(t, ok)
	assert.Equal(t, Policy{Period: time.Second, Cap: 1, Slots: 1}, p)

	_, ok = c.Policy(domain.LayerSpinning)
	assert.False(t, ok)
}

func TestDefaultPolicies(t *testing.T) {
	p := DefaultPolicies()
	assert.Equal(t, 3, p[domain.LayerHologram].Cap)
	assert.Equal(t, 4, p[domain.LayerAR].Cap)
	assert.Equal(t, 6, p[domain.LayerSpinning].Cap)
	_, ok := p[domain.LayerStatic]
	assert.False(t, ok)
}

func TestPauseResume_KeepsActiveSet(t *testing.T) {
	clock := clockwork.NewFakeClock()
	var log eventLog
	c := newTestController(t, clock, WithListener(log.listen))

	c.Enter(domain.LayerAR)
	_, err := c.Draw(3)
	require.NoError(t, err)
	_, err = c.Draw(9)
	require.NoError(t, err)

	c.Pause()
	assert.False(t, c.Running())
	assert.Equal(t, []int{3, 9}, c.Active(domain.LayerAR))
	clock.Advance(10 * time.Second)
	assert.Never(t, func() bool { return log.len() > 2 }, 50*time.Millisecond, 5*time.Millisecond)

	c.Resume()
	c.Resume()
	assert.True(t, c.Running())
	assert.Equal(t, []int{3, 9}, c.Active(domain.LayerAR))
	clock.Advance(2500 * time.Millisecond)
	require.Eventually(t, func() bool { return log.len() == 3 }, time.Second, time.Millisecond)
}

func TestResume_StaticLayerStaysIdle(t *testing.T) {
	c := newTestController(t, clockwork.NewFakeClock())
	c.Enter(domain.LayerStatic)
	c.Pause()
	c.Resume()
	assert.False(t, c.Running())
}
