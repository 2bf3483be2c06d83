package core

// Action is a semantic input intent, abstracted from physical keys.
type Action int

const (
	ActionNone Action = iota
	ActionTap         // Space, Up, Enter - start when idle, jump while running
	ActionQuit        // Q, Ctrl+C
	ActionCapture     // Ctrl+S - dump the current frame to disk
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionTap:
		return "Tap"
	case ActionQuit:
		return "Quit"
	case ActionCapture:
		return "Capture"
	default:
		return "Unknown"
	}
}

// RuntimeConfig describes the terminal the game is shown on and how fast it ticks.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Frames per second
	Seed     int64 // 0 means seed from the clock
}

// DefaultRuntimeConfig returns an 80x24, 60 fps configuration.
func DefaultRuntimeConfig() RuntimeConfig {
	return RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60}
}
