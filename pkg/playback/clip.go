// Package playback is the clip scheduling and interruption engine.
//
// Clips arrive from the feed connectors on a bounded queue and are played one
// at a time, so at most one device session is ever active. An interrupt flag,
// raised by the control surface, stops the current clip within one poll
// interval; the engine then records how much of the clip's text was actually
// spoken.
package playback

import "github.com/google/uuid"

// Clip is one unit of synthesized speech scheduled for playback:
// the source text and the WAV bytes rendered from it.
// A clip is immutable once built and consumed exactly once - either played
// by the engine or discarded unplayed by an interrupt drain.
type Clip struct {
	ID    uuid.UUID
	Text  string
	Audio []byte
}

// NewClip builds a clip with a fresh ID for log correlation.
func NewClip(text string, audio []byte) *Clip {
	return &Clip{
		ID:    uuid.New(),
		Text:  text,
		Audio: audio,
	}
}
