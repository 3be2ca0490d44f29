// Package audioio provides audio output for decoded speech clips.
//
// Two backends are available:
//   - oto (ebitengine/oto) - real speaker output, cross-platform
//   - mock - CI/testing without hardware, with failure injection
//
// The playback engine owns the single active device session; audioio does not
// serialize callers itself.
package audioio

import (
	"context"
	"errors"
	"io"

	"github.com/teslashibe/reachy-audio/pkg/wav"
)

// ErrTransient indicates a device-level failure that may succeed on retry.
var ErrTransient = errors.New("audioio: transient device failure")

// Session is one in-flight playback started by Device.Play.
type Session interface {
	// Stop halts playback immediately. Safe to call more than once.
	Stop() error
}

// Device drives the physical audio output.
type Device interface {
	// Play starts non-blocking playback of the clip and returns a handle
	// for stopping it.
	Play(a *wav.Audio) (Session, error)

	// PlayBlocking plays the clip to completion before returning.
	// Used as the recovery path after a transient Play failure.
	PlayBlocking(ctx context.Context, a *wav.Audio) error

	// Drain force-stops any output and lets the device settle.
	Drain() error

	// Name returns the backend name (e.g. "oto", "mock").
	Name() string

	// Close releases all resources.
	io.Closer
}

// Stats contains playback statistics for a device.
type Stats struct {
	// Plays is the number of non-blocking playback starts.
	Plays int64 `json:"plays"`

	// BlockingPlays is the number of blocking recovery playbacks.
	BlockingPlays int64 `json:"blocking_plays"`

	// Stops is the number of sessions stopped before completion.
	Stops int64 `json:"stops"`

	// Drains is the number of force-stop drains.
	Drains int64 `json:"drains"`

	// Backend is the name of the audio backend.
	Backend string `json:"backend"`
}

// DeviceWithStats extends Device with statistics.
type DeviceWithStats interface {
	Device
	Stats() Stats
}
