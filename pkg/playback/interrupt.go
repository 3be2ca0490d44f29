package playback

import "sync/atomic"

// Interrupt is the shared stop flag observed cooperatively by the engine.
// Set is idempotent and safe to call concurrently with the engine's polling;
// at most one poll interval of audio plays after it is raised.
type Interrupt struct {
	flag atomic.Bool
}

// NewInterrupt creates a cleared interrupt flag.
func NewInterrupt() *Interrupt {
	return &Interrupt{}
}

// Set raises the flag.
func (i *Interrupt) Set() {
	i.flag.Store(true)
}

// Clear lowers the flag. The engine clears it before each new clip, so an
// interrupt raised while idle never cancels a future clip.
func (i *Interrupt) Clear() {
	i.flag.Store(false)
}

// IsSet reports whether the flag is raised.
func (i *Interrupt) IsSet() bool {
	return i.flag.Load()
}
