package ui

import (
	"math"
	"time"

	"github.com/charmbracelet/harmonica"
)

const (
	shakeFrequency = 18.0 // angular frequency, rad/s
	shakeDamping   = 0.15
	shakeImpulse   = 40.0 // cells per second
)

// shaker swings the submit button sideways on an underdamped spring after a
// rejected submit.
type shaker struct {
	spring   harmonica.Spring
	pos, vel float64
	seen     uint64
}

func newShaker(frameInterval time.Duration) *shaker {
	fps := 60
	if frameInterval > 0 && frameInterval <= time.Second {
		fps = int(time.Second / frameInterval)
	}
	return &shaker{spring: harmonica.NewSpring(harmonica.FPS(fps), shakeFrequency, shakeDamping)}
}

// kick starts a swing when gen is a shake the shaker has not seen yet.
func (s *shaker) kick(gen uint64) {
	if gen == s.seen {
		return
	}
	s.seen = gen
	s.vel = shakeImpulse
}

// step advances one frame and returns the column offset.
func (s *shaker) step() int {
	s.pos, s.vel = s.spring.Update(s.pos, s.vel, 0)
	return int(math.Round(s.pos))
}
