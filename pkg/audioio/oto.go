package audioio

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/teslashibe/reachy-audio/pkg/wav"
)

// The oto context is created once with a fixed format; clips are converted
// to it before playback.
const (
	otoSampleRate = 48000
	otoChannels   = 2
)

// OtoDevice plays clips through the system speaker via ebitengine/oto.
type OtoDevice struct {
	ctx    *oto.Context
	logger *slog.Logger

	mu     sync.Mutex
	closed bool
}

// NewOtoDevice initializes the speaker output.
func NewOtoDevice(logger *slog.Logger) (*OtoDevice, error) {
	if logger == nil {
		logger = slog.Default()
	}

	op := &oto.NewContextOptions{
		SampleRate:   otoSampleRate,
		ChannelCount: otoChannels,
		Format:       oto.FormatSignedInt16LE,
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("oto context: %w", err)
	}
	<-ready

	logger.Info("speaker output ready", "backend", "oto",
		"sample_rate", otoSampleRate, "channels", otoChannels)

	return &OtoDevice{ctx: ctx, logger: logger}, nil
}

// prepare converts a clip to the context's fixed format.
func (d *OtoDevice) prepare(a *wav.Audio) []byte {
	samples := a.Samples
	channels := a.Channels

	if channels > otoChannels {
		// Keep the first two channels of anything exotic.
		folded := make([]float32, 0, (len(samples)/channels)*otoChannels)
		for f := 0; f+channels <= len(samples); f += channels {
			folded = append(folded, samples[f], samples[f+1])
		}
		samples = folded
		channels = otoChannels
	}
	if channels == 1 {
		samples = MonoToStereo(samples)
		channels = otoChannels
	}
	samples = ResampleFrames(samples, channels, a.SampleRate, otoSampleRate)
	return SamplesToPCM16(samples)
}

func (d *OtoDevice) newPlayer(a *wav.Audio) (*oto.Player, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil, io.ErrClosedPipe
	}
	p := d.ctx.NewPlayer(bytes.NewReader(d.prepare(a)))
	p.Play()
	return p, nil
}

// Play starts non-blocking playback.
func (d *OtoDevice) Play(a *wav.Audio) (Session, error) {
	p, err := d.newPlayer(a)
	if err != nil {
		return nil, err
	}
	return &otoSession{p: p}, nil
}

// PlayBlocking plays the clip to completion.
func (d *OtoDevice) PlayBlocking(ctx context.Context, a *wav.Audio) error {
	p, err := d.newPlayer(a)
	if err != nil {
		return err
	}
	defer p.Close()

	for p.IsPlaying() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(10 * time.Millisecond):
		}
	}
	return nil
}

// Drain suspends and resumes the context, discarding any stuck output.
func (d *OtoDevice) Drain() error {
	if err := d.ctx.Suspend(); err != nil {
		return fmt.Errorf("suspend: %w", err)
	}
	if err := d.ctx.Resume(); err != nil {
		return fmt.Errorf("resume: %w", err)
	}
	return nil
}

// Name returns "oto".
func (d *OtoDevice) Name() string {
	return "oto"
}

// Close stops accepting new playback.
// The oto context itself cannot be torn down; it lives for the process.
func (d *OtoDevice) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	return nil
}

var _ Device = (*OtoDevice)(nil)

type otoSession struct {
	p    *oto.Player
	once sync.Once
	err  error
}

// Stop closes the player, halting output immediately.
func (s *otoSession) Stop() error {
	s.once.Do(func() {
		s.err = s.p.Close()
	})
	return s.err
}
