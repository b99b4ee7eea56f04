package particles

import "math/rand"

const (
	minSpeed   = -1.0
	maxSpeed   = 1.0
	minRadius  = 1.0
	maxRadius  = 4.0
	minOpacity = 0.2
	maxOpacity = 0.7
)

// Particle is a single animated point.
type Particle struct {
	X, Y           float64
	SpeedX, SpeedY float64
	Radius         float64
	Opacity        float64
}

func newParticle(vp Viewport, rng *rand.Rand) Particle {
	var p Particle
	p.Reset(vp, rng)
	return p
}

// Reset places the particle at a random position inside vp and draws new
// velocity, radius and opacity.
func (p *Particle) Reset(vp Viewport, rng *rand.Rand) {
	p.X = rng.Float64() * vp.Width
	p.Y = rng.Float64() * vp.Height
	p.SpeedX = uniform(rng, minSpeed, maxSpeed)
	p.SpeedY = uniform(rng, minSpeed, maxSpeed)
	p.Radius = uniform(rng, minRadius, maxRadius)
	p.Opacity = uniform(rng, minOpacity, maxOpacity)
}

// Update advances the particle one frame. Leaving the viewport on either axis
// re-randomizes the whole particle.
func (p *Particle) Update(vp Viewport, rng *rand.Rand) {
	p.X += p.SpeedX
	p.Y += p.SpeedY

	if !vp.Contains(p.X, p.Y) {
		p.Reset(vp, rng)
	}
}

func (p *Particle) Draw(s Surface, dark bool) {
	c := Black
	if dark {
		c = White
	}
	s.FillCircle(p.X, p.Y, p.Radius, c.WithAlpha(p.Opacity))
}

// uniform returns a value in [lo, hi).
func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}
