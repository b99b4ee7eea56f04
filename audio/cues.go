// Package audio plays short feedback cues for session events.
package audio

import (
	"fmt"
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
)

const sampleRate = beep.SampleRate(44100)

type Cue int

const (
	CueConnected Cue = iota
	CueSuccess
	CueFailure
	CueShake
	cueCount
)

func (c Cue) String() string {
	switch c {
	case CueConnected:
		return "connected"
	case CueSuccess:
		return "success"
	case CueFailure:
		return "failure"
	case CueShake:
		return "shake"
	default:
		return fmt.Sprintf("cue(%d)", int(c))
	}
}

type note struct {
	freq     float64
	duration time.Duration
}

// Rising for good news, falling or flat and low for bad news.
var cueNotes = [cueCount][]note{
	CueConnected: {{660, 80 * time.Millisecond}, {880, 120 * time.Millisecond}},
	CueSuccess:   {{880, 70 * time.Millisecond}, {1320, 140 * time.Millisecond}},
	CueFailure:   {{440, 120 * time.Millisecond}, {220, 200 * time.Millisecond}},
	CueShake:     {{140, 150 * time.Millisecond}},
}

// Duration is the total length of a cue.
func Duration(c Cue) time.Duration {
	if c < 0 || c >= cueCount {
		return 0
	}
	var d time.Duration
	for _, n := range cueNotes[c] {
		d += n.duration
	}
	return d
}

// NewCueStreamer builds the streamer for c at the given volume in [0, 1].
func NewCueStreamer(c Cue, volume float64) (beep.Streamer, error) {
	if c < 0 || c >= cueCount {
		return nil, fmt.Errorf("unknown cue %d", int(c))
	}

	parts := make([]beep.Streamer, 0, len(cueNotes[c]))
	for _, n := range cueNotes[c] {
		tone, err := generators.SineTone(sampleRate, n.freq)
		if err != nil {
			return nil, fmt.Errorf("cue %s: %w", c, err)
		}
		samples := sampleRate.N(n.duration)
		parts = append(parts, newFade(beep.Take(samples, tone), samples))
	}
	return withVolume(beep.Seq(parts...), volume), nil
}

// fade ramps the last fifth of a note down to avoid clicks.
type fade struct {
	s        beep.Streamer
	pos      int
	total    int
	releaseN int
}

func newFade(s beep.Streamer, total int) beep.Streamer {
	return &fade{s: s, total: total, releaseN: total / 5}
}

func (f *fade) Stream(samples [][2]float64) (int, bool) {
	n, ok := f.s.Stream(samples)
	start := f.total - f.releaseN
	for i := 0; i < n; i++ {
		if f.releaseN > 0 && f.pos >= start {
			vol := float64(f.total-f.pos) / float64(f.releaseN)
			samples[i][0] *= vol
			samples[i][1] *= vol
		}
		f.pos++
	}
	return n, ok
}

func (f *fade) Err() error { return f.s.Err() }

// math.Log2(0) is -Inf, so zero volume is a silent stream
func withVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(math.Min(vol, 1))}
}
