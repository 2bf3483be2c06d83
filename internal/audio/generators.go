package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

const (
	jumpDuration  = 120 * time.Millisecond
	gemDuration   = 350 * time.Millisecond
	sparkDuration = 180 * time.Millisecond
	musicStep     = 200 * time.Millisecond
)

// musicRiff is one bar of the background bass line in A minor, in Hz.
var musicRiff = []float64{110, 110, 164.81, 130.81, 110, 146.83, 130.81, 98}

// sweep is a sine tone gliding linearly from one frequency to another.
type sweep struct {
	rate       beep.SampleRate
	from, to   float64
	phase      float64
	pos, total int
}

func newSweep(rate beep.SampleRate, from, to float64, d time.Duration) *sweep {
	return &sweep{rate: rate, from: from, to: to, total: rate.N(d)}
}

func (s *sweep) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if s.pos >= s.total {
			return i, i > 0
		}
		progress := float64(s.pos) / float64(s.total)
		freq := s.from + (s.to-s.from)*progress
		val := math.Sin(2 * math.Pi * s.phase)

		samples[i][0] = val
		samples[i][1] = val

		s.phase += freq / float64(s.rate)
		s.phase -= math.Floor(s.phase)
		s.pos++
	}
	return len(samples), true
}

func (s *sweep) Err() error { return nil }

// decay multiplies a stream by exp(-rate*t).
type decay struct {
	streamer beep.Streamer
	sr       beep.SampleRate
	rate     float64
	pos      int
}

func (d *decay) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = d.streamer.Stream(samples)
	for i := 0; i < n; i++ {
		env := math.Exp(-d.rate * float64(d.pos) / float64(d.sr))
		samples[i][0] *= env
		samples[i][1] *= env
		d.pos++
	}
	return n, ok
}

func (d *decay) Err() error { return d.streamer.Err() }

// crackle is low-passed noise from a fixed LCG seed, so every spark sounds
// the same.
type crackle struct {
	seed       int64
	last       float64
	pos, total int
}

func (c *crackle) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if c.pos >= c.total {
			return i, i > 0
		}
		c.seed = (c.seed*1103515245 + 12345) & 0x7fffffff
		noise := float64(c.seed)/float64(0x7fffffff)*2 - 1
		c.last = 0.6*c.last + 0.4*noise

		samples[i][0] = c.last
		samples[i][1] = c.last
		c.pos++
	}
	return len(samples), true
}

func (c *crackle) Err() error { return nil }

// withVolume scales a stream linearly. Zero or less is silent.
func withVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

// JumpSound is a quick upward chirp.
func JumpSound(rate beep.SampleRate, vol float64) beep.Streamer {
	tone := &decay{streamer: newSweep(rate, 300, 900, jumpDuration), sr: rate, rate: 12}
	return withVolume(tone, 0.4*vol)
}

// GemSound is a two-partial bell (A5 with its octave).
func GemSound(rate beep.SampleRate, vol float64) beep.Streamer {
	fund := &decay{streamer: newSweep(rate, 880, 880, gemDuration), sr: rate, rate: 9}
	over := &decay{streamer: newSweep(rate, 1760, 1760, gemDuration), sr: rate, rate: 14}
	mixed := beep.Mix(withVolume(fund, 0.7), withVolume(over, 0.3))
	return withVolume(mixed, 0.5*vol)
}

// SparkSound is a burst of filtered noise.
func SparkSound(rate beep.SampleRate, vol float64) beep.Streamer {
	noise := &crackle{seed: 7, total: rate.N(sparkDuration)}
	return withVolume(&decay{streamer: noise, sr: rate, rate: 20}, 0.3*vol)
}

// musicLoop replays the riff forever, rebuilding a bar whenever the last
// one runs out.
type musicLoop struct {
	rate beep.SampleRate
	bar  beep.Streamer
}

func (m *musicLoop) Stream(samples [][2]float64) (n int, ok bool) {
	for n < len(samples) {
		if m.bar == nil {
			m.bar = musicBar(m.rate)
		}
		got, more := m.bar.Stream(samples[n:])
		n += got
		if !more || got == 0 {
			m.bar = nil
		}
	}
	return n, true
}

func (m *musicLoop) Err() error { return nil }

func musicBar(rate beep.SampleRate) beep.Streamer {
	notes := make([]beep.Streamer, len(musicRiff))
	for i, freq := range musicRiff {
		notes[i] = &decay{streamer: newSweep(rate, freq, freq, musicStep), sr: rate, rate: 6}
	}
	return beep.Seq(notes...)
}

// MusicLoop is the endless background bass line. It never ends on its own;
// stop it by clearing the mixer.
func MusicLoop(rate beep.SampleRate, vol float64) beep.Streamer {
	return withVolume(&musicLoop{rate: rate}, 0.15*vol)
}
