package audioio

import (
	"fmt"
	"log/slog"
)

// New creates an audio device for the named backend.
// "auto" selects the real speaker output; "mock" is for tests and CI.
func New(backend string, logger *slog.Logger) (Device, error) {
	if logger == nil {
		logger = slog.Default()
	}

	switch backend {
	case "auto", "oto", "":
		return NewOtoDevice(logger)
	case "mock":
		return NewMockDevice(logger), nil
	default:
		return nil, fmt.Errorf("unsupported audio backend: %q", backend)
	}
}
