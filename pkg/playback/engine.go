package playback

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/teslashibe/reachy-audio/pkg/audioio"
	"github.com/teslashibe/reachy-audio/pkg/wav"
)

const (
	// defaultPollInterval bounds how long a raised interrupt can go unseen.
	defaultPollInterval = 50 * time.Millisecond

	// defaultSettleDelay gives the device time to recover between the
	// failed first attempt and the blocking retry.
	defaultSettleDelay = 50 * time.Millisecond
)

// DecodeFunc turns a clip's raw bytes into playable audio.
type DecodeFunc func([]byte) (*wav.Audio, error)

// outcome is the terminal state of one playback attempt.
type outcome int

const (
	outcomeCompleted outcome = iota
	outcomeInterrupted
	outcomeFailed
)

func (o outcome) String() string {
	switch o {
	case outcomeCompleted:
		return "completed"
	case outcomeInterrupted:
		return "interrupted"
	default:
		return "failed"
	}
}

// Engine pulls clips off the queue one at a time and drives the output
// device, polling the interrupt flag during playback.
//
// Per clip: Idle -> Decoding -> Playing -> (Interrupted | Completed | Failed)
// -> Idle. A transient device failure gets exactly one recovery attempt: the
// device is drained, allowed to settle, and the clip replayed with a blocking
// call. After every attempt the spoken-text cell is overwritten.
type Engine struct {
	queue     *Queue
	device    audioio.Device
	interrupt *Interrupt
	spoken    *SpokenText
	logger    *slog.Logger

	decode       DecodeFunc
	pollInterval time.Duration
	settleDelay  time.Duration
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithDecoder replaces the WAV decoder.
func WithDecoder(decode DecodeFunc) EngineOption {
	return func(e *Engine) { e.decode = decode }
}

// WithPollInterval changes the interrupt polling interval.
func WithPollInterval(d time.Duration) EngineOption {
	return func(e *Engine) { e.pollInterval = d }
}

// WithSettleDelay changes the pause before the blocking retry.
func WithSettleDelay(d time.Duration) EngineOption {
	return func(e *Engine) { e.settleDelay = d }
}

// NewEngine creates a playback engine.
func NewEngine(queue *Queue, device audioio.Device, interrupt *Interrupt, spoken *SpokenText, logger *slog.Logger, opts ...EngineOption) *Engine {
	if logger == nil {
		logger = slog.Default()
	}

	e := &Engine{
		queue:        queue,
		device:       device,
		interrupt:    interrupt,
		spoken:       spoken,
		logger:       logger,
		decode:       wav.Decode,
		pollInterval: defaultPollInterval,
		settleDelay:  defaultSettleDelay,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run plays clips until the context ends. Per-clip errors are logged and
// contained; only context cancellation returns.
func (e *Engine) Run(ctx context.Context) error {
	e.logger.Info("playback engine started", "device", e.device.Name())
	for {
		clip, err := e.queue.Dequeue(ctx)
		if err != nil {
			e.logger.Info("playback engine stopped")
			return err
		}

		// A new clip always starts uninterrupted, even if an interrupt
		// was raised while idle.
		e.interrupt.Clear()
		e.playClip(ctx, clip)
	}
}

func (e *Engine) playClip(ctx context.Context, clip *Clip) {
	logger := e.logger.With("clip", clip.ID)

	audio, err := e.decode(clip.Audio)
	if err != nil {
		// Structurally invalid audio cannot succeed on retry.
		logger.Warn("skipping undecodable clip", "err", err)
		e.spoken.Set("")
		return
	}

	duration := audio.Duration()
	words := strings.Fields(clip.Text)
	logger.Info("playing clip",
		"duration_s", duration,
		"sample_rate", audio.SampleRate,
		"channels", audio.Channels,
		"words", len(words),
	)

	start, result := e.drive(ctx, audio)

	elapsed := time.Since(start).Seconds()
	if elapsed > duration {
		elapsed = duration
	}
	spoken := JoinWords(SpokenWords(elapsed, duration, words))
	e.spoken.Set(spoken)

	logger.Info("playback finished",
		"outcome", result.String(),
		"elapsed_s", elapsed,
		"spoken", spoken,
	)
}

// drive runs the two-attempt playback state machine and returns the
// (possibly backdated) start timestamp along with the outcome.
func (e *Engine) drive(ctx context.Context, audio *wav.Audio) (time.Time, outcome) {
	sess, err := e.device.Play(audio)
	if err == nil {
		start := time.Now()
		return start, e.poll(ctx, sess, start, audio.Duration())
	}

	e.logger.Warn("device error, resetting output", "err", err)
	if derr := e.device.Drain(); derr != nil {
		e.logger.Warn("device drain failed", "err", derr)
	}
	e.sleep(ctx, e.settleDelay)

	// Second attempt blocks: it either plays the clip fully or fails this
	// clip for good. Either way the start is backdated so the elapsed time
	// spans the whole clip.
	err = e.device.PlayBlocking(ctx, audio)
	start := time.Now().Add(-time.Duration(audio.Duration() * float64(time.Second)))
	if err != nil {
		e.logger.Error("device failure, giving up on clip", "err", err)
		return start, outcomeFailed
	}
	return start, outcomeCompleted
}

// poll watches the interrupt flag and the clock until one of them ends the
// session.
func (e *Engine) poll(ctx context.Context, sess audioio.Session, start time.Time, duration float64) outcome {
	for {
		if e.interrupt.IsSet() {
			if err := sess.Stop(); err != nil {
				e.logger.Warn("stop after interrupt failed", "err", err)
			}
			return outcomeInterrupted
		}
		if time.Since(start).Seconds() >= duration {
			return outcomeCompleted
		}

		select {
		case <-ctx.Done():
			sess.Stop()
			return outcomeInterrupted
		case <-time.After(e.pollInterval):
		}
	}
}

func (e *Engine) sleep(ctx context.Context, d time.Duration) {
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}
