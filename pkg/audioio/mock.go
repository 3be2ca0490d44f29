package audioio

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/teslashibe/reachy-audio/pkg/wav"
)

// MockDevice is a mock audio output for testing.
// It tracks every session and can inject transient failures.
type MockDevice struct {
	logger *slog.Logger

	mu       sync.Mutex
	closed   bool
	failures int
	sessions []*MockSession

	// Instant makes PlayBlocking return immediately instead of sleeping
	// for the clip duration.
	Instant bool

	plays         atomic.Int64
	blockingPlays atomic.Int64
	stops         atomic.Int64
	drains        atomic.Int64
}

// NewMockDevice creates a new mock audio device.
func NewMockDevice(logger *slog.Logger) *MockDevice {
	if logger == nil {
		logger = slog.Default()
	}
	return &MockDevice{logger: logger}
}

// FailNext makes the next n Play/PlayBlocking calls fail with ErrTransient.
func (m *MockDevice) FailNext(n int) {
	m.mu.Lock()
	m.failures = n
	m.mu.Unlock()
}

func (m *MockDevice) takeFailure() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failures > 0 {
		m.failures--
		return true
	}
	return false
}

// Play starts a mock session.
func (m *MockDevice) Play(a *wav.Audio) (Session, error) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil, io.ErrClosedPipe
	}
	m.mu.Unlock()

	if m.takeFailure() {
		return nil, ErrTransient
	}

	sess := &MockSession{Audio: a, device: m}
	m.mu.Lock()
	m.sessions = append(m.sessions, sess)
	m.mu.Unlock()

	m.plays.Add(1)
	m.logger.Debug("mock device: play", "frames", a.Frames(), "sample_rate", a.SampleRate)
	return sess, nil
}

// PlayBlocking simulates playing the clip to completion.
func (m *MockDevice) PlayBlocking(ctx context.Context, a *wav.Audio) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return io.ErrClosedPipe
	}
	instant := m.Instant
	m.mu.Unlock()

	if m.takeFailure() {
		return ErrTransient
	}

	m.blockingPlays.Add(1)

	if !instant {
		d := time.Duration(a.Duration() * float64(time.Second))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(d):
		}
	}
	return nil
}

// Drain force-stops every live session.
func (m *MockDevice) Drain() error {
	m.mu.Lock()
	sessions := make([]*MockSession, len(m.sessions))
	copy(sessions, m.sessions)
	m.mu.Unlock()

	for _, s := range sessions {
		s.Stop()
	}
	m.drains.Add(1)
	return nil
}

// Name returns "mock".
func (m *MockDevice) Name() string {
	return "mock"
}

// Close releases resources.
func (m *MockDevice) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Sessions returns every session started so far, in order.
func (m *MockDevice) Sessions() []*MockSession {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*MockSession, len(m.sessions))
	copy(out, m.sessions)
	return out
}

// Stats returns device statistics.
func (m *MockDevice) Stats() Stats {
	return Stats{
		Plays:         m.plays.Load(),
		BlockingPlays: m.blockingPlays.Load(),
		Stops:         m.stops.Load(),
		Drains:        m.drains.Load(),
		Backend:       "mock",
	}
}

// Ensure MockDevice implements DeviceWithStats.
var _ DeviceWithStats = (*MockDevice)(nil)

// MockSession is one mock playback, recording whether it was stopped.
type MockSession struct {
	Audio  *wav.Audio
	device *MockDevice

	mu      sync.Mutex
	stopped bool
}

// Stop marks the session stopped.
func (s *MockSession) Stop() error {
	s.mu.Lock()
	already := s.stopped
	s.stopped = true
	s.mu.Unlock()

	if !already {
		s.device.stops.Add(1)
	}
	return nil
}

// Stopped reports whether Stop was called.
func (s *MockSession) Stopped() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopped
}
