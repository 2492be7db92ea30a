package wall

import (
	"math"
	"math/rand/v2"
	"time"
)

const (
	SpinDuration    = 3 * time.Second
	SpinDegrees     = 360.0
	glowCycle       = time.Second
	orbitCycle      = 2 * time.Second
	orbitRadius     = 60.0
	rollMin         = 8 * time.Second
	rollSpread      = 12 * time.Second
	autoSpinChance  = 0.3
	StaggerInterval = 100 * time.Millisecond

	particleCount    = 8
	particleDelayMax = 2 * time.Second
	floatCycle       = 3 * time.Second
	floatRise        = 10.0
)

// Landing spot of the AR object once a spin has finished, in percent of
// the slot box.
var landing = [2]float64{70, 30}

// SpinFrame is the animation state of one spinning slot at an instant.
// Orbit coordinates are percentages of the slot box with (50, 50) at the
// centre.
type SpinFrame struct {
	Spinning  bool
	Progress  float64
	Rotation  float64
	Glow      float64
	OrbitX    float64
	OrbitY    float64
	Landed    bool
	// Particles float over the slot while it is in the active set.
	Particles []Particle
}

// Particle is a hologram particle position in percent of the slot box.
type Particle struct {
	X, Y float64
}

type particle struct {
	x, y  float64
	delay time.Duration
}

type spin struct {
	// Zero while the slot is not in the active set.
	activeSince time.Time
	initialAt   time.Time
	initialDone bool
	nextRoll    time.Time
	rollEvery   time.Duration

	start  time.Time
	base   float64
	landed bool

	particles []particle
}

func (s *spin) spinning() bool { return !s.start.IsZero() }

func (s *spin) begin(at time.Time) {
	if s.spinning() {
		return
	}
	s.start = at
}

// settle finishes the running spin once its duration has passed.
func (s *spin) settle(now time.Time) {
	if !s.spinning() || now.Sub(s.start) < SpinDuration {
		return
	}
	s.base = math.Mod(s.base+SpinDegrees, SpinDegrees)
	s.start = time.Time{}
	s.landed = true
}

func (s *spin) activate(now time.Time, delay time.Duration, rng *rand.Rand) {
	s.activeSince = now
	s.initialAt = now.Add(delay)
	s.initialDone = false
	s.rollEvery = rollMin + time.Duration(rng.Int64N(int64(rollSpread)))
	s.nextRoll = now.Add(s.rollEvery)
	if s.particles == nil {
		s.particles = make([]particle, particleCount)
		for i := range s.particles {
			s.particles[i] = particle{
				x:     rng.Float64() * 100,
				y:     rng.Float64() * 100,
				delay: time.Duration(rng.Int64N(int64(particleDelayMax))),
			}
		}
	}
}

func (s *spin) deactivate() {
	s.activeSince = time.Time{}
}

// step runs the auto-spin schedule up to now: the first spin after the
// stagger delay, then a 30% roll every rollEvery.
func (s *spin) step(now time.Time, rng *rand.Rand) {
	s.settle(now)
	if s.activeSince.IsZero() {
		return
	}
	if !s.initialDone && !now.Before(s.initialAt) {
		s.initialDone = true
		s.begin(s.initialAt)
		s.settle(now)
	}
	for !now.Before(s.nextRoll) {
		at := s.nextRoll
		s.nextRoll = s.nextRoll.Add(s.rollEvery)
		if rng.Float64() < autoSpinChance {
			s.settle(at)
			s.begin(at)
		}
		s.settle(now)
	}
}

func (s *spin) frame(now time.Time) SpinFrame {
	var f SpinFrame
	if s.spinning() {
		f = spinFrameAt(max(now.Sub(s.start), 0), s.base)
	} else {
		f = SpinFrame{Rotation: s.base, Landed: s.landed}
		if s.landed {
			f.OrbitX, f.OrbitY = landing[0], landing[1]
		}
	}
	if !s.activeSince.IsZero() {
		f.Particles = make([]Particle, len(s.particles))
		for i, p := range s.particles {
			f.Particles[i] = p.at(now.Sub(s.activeSince))
		}
	}
	return f
}

// at lifts the particle along a half sine per float cycle, starting after
// its delay.
func (p particle) at(elapsed time.Duration) Particle {
	t := elapsed - p.delay
	if t <= 0 {
		return Particle{X: p.x, Y: p.y}
	}
	phase := float64(t%floatCycle) / float64(floatCycle)
	return Particle{X: p.x, Y: max(p.y-floatRise*math.Sin(math.Pi*phase), 0)}
}

// spinFrameAt computes the frame of a spin that started elapsed ago from
// rotation base.
func spinFrameAt(elapsed time.Duration, base float64) SpinFrame {
	progress := math.Min(float64(elapsed)/float64(SpinDuration), 1)
	ease := 1 - math.Pow(1-progress, 3)

	glow := float64(elapsed%glowCycle) / float64(glowCycle) * 100
	angle := float64(elapsed%orbitCycle) / float64(orbitCycle) * 2 * math.Pi

	return SpinFrame{
		Spinning: true,
		Progress: progress,
		Rotation: base + SpinDegrees*ease,
		Glow:     glow,
		OrbitX:   50 + math.Cos(angle)*orbitRadius,
		OrbitY:   50 + math.Sin(angle)*orbitRadius,
	}
}
