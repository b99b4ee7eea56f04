package particles

import (
	"log/slog"
	"math"
	"math/rand"
	"time"
)

// AreaPerParticle is the viewport area, in square units, allotted to each particle.
const AreaPerParticle = 10000

type Option func(*Field)

func WithRand(rng *rand.Rand) Option {
	return func(f *Field) {
		f.rng = rng
	}
}

// Field owns every particle on screen. It is not safe for concurrent use;
// the render loop is its only caller.
type Field struct {
	vp        Viewport
	particles []Particle
	rng       *rand.Rand
}

func NewField(opts ...Option) *Field {
	f := &Field{}
	for _, opt := range opts {
		opt(f)
	}
	if f.rng == nil {
		f.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return f
}

// Count returns floor(w*h/AreaPerParticle), or 0 for an empty viewport.
func Count(w, h float64) int {
	return int(math.Floor(Viewport{Width: w, Height: h}.Area() / AreaPerParticle))
}

// Seed replaces every particle with a fresh set sized to the new viewport.
func (f *Field) Seed(w, h float64) {
	f.vp = Viewport{Width: w, Height: h}
	n := Count(w, h)

	particles := make([]Particle, n)
	for i := range particles {
		particles[i] = newParticle(f.vp, f.rng)
	}
	f.particles = particles

	slog.Debug("Seeded particle field", "width", w, "height", h, "count", n)
}

// Tick clears s, then updates and draws each particle in a single pass.
func (f *Field) Tick(s Surface, dark bool) {
	s.Clear()
	for i := range f.particles {
		p := &f.particles[i]
		p.Update(f.vp, f.rng)
		p.Draw(s, dark)
	}
}

func (f *Field) Len() int {
	return len(f.particles)
}

func (f *Field) Viewport() Viewport {
	return f.vp
}

// Particles returns a copy of the current particles.
func (f *Field) Particles() []Particle {
	out := make([]Particle, len(f.particles))
	copy(out, f.particles)
	return out
}
