// Package audio plays synthesized sound effects for the skater game through
// the beep speaker. All sounds are generated at runtime; no assets are read.
package audio

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/vovakirdan/tui-skater/internal/core"
	"github.com/vovakirdan/tui-skater/internal/skater"
)

const sampleRate = beep.SampleRate(44100)

// SoundManager implements skater.Effects with audible cues. Until
// Initialize succeeds every method is a silent no-op, so a machine without
// an audio device still runs the game.
type SoundManager struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	volume      float64
	initialized bool
}

// NewSoundManager creates a sound manager at the given master volume (0..1).
func NewSoundManager(volume float64) *SoundManager {
	return &SoundManager{
		mixer:  &beep.Mixer{},
		volume: volume,
	}
}

// Initialize opens the speaker and starts the mixer.
func (sm *SoundManager) Initialize() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		return err
	}

	speaker.Play(sm.mixer)
	sm.initialized = true
	return nil
}

// Cleanup stops every playing sound.
func (sm *SoundManager) Cleanup() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}

	speaker.Lock()
	sm.mixer.Clear()
	speaker.Unlock()
	sm.initialized = false
}

func (sm *SoundManager) play(s beep.Streamer) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}

	speaker.Lock()
	sm.mixer.Add(s)
	speaker.Unlock()
}

// StartMusic starts the background loop. Cleanup stops it with the effects.
func (sm *SoundManager) StartMusic() {
	sm.play(MusicLoop(sampleRate, sm.volume))
}

// Jumped plays a rising chirp.
func (sm *SoundManager) Jumped() {
	sm.play(JumpSound(sampleRate, sm.volume))
}

// GemCollected plays a bell.
func (sm *SoundManager) GemCollected() {
	sm.play(GemSound(sampleRate, sm.volume))
}

// Sparked plays a short crackle when the board hits a brick.
func (sm *SoundManager) Sparked(core.Vec) {
	sm.play(SparkSound(sampleRate, sm.volume))
}

var _ skater.Effects = (*SoundManager)(nil)
