// Package agent assembles and supervises the audio playback agent: the
// control surface, the playback engine, and both feed connectors, sharing
// one clip queue, one interrupt flag, and one spoken-text cell.
package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"

	"github.com/teslashibe/reachy-audio/internal/config"
	"github.com/teslashibe/reachy-audio/pkg/audioio"
	"github.com/teslashibe/reachy-audio/pkg/control"
	"github.com/teslashibe/reachy-audio/pkg/feed"
	"github.com/teslashibe/reachy-audio/pkg/playback"
)

// ErrBindFailed marks a control-port bind failure, usually the port already
// being taken. Callers treat it as a distinct fatal startup condition.
var ErrBindFailed = errors.New("control port bind failed")

// Agent is the assembled audio playback agent.
type Agent struct {
	cfg    config.Config
	logger *slog.Logger

	device  audioio.Device
	queue   *playback.Queue
	stop    *playback.Interrupt
	spoken  *playback.SpokenText
	engine  *playback.Engine
	control *control.Server
	primary *feed.Connector
	lecture *feed.Connector
}

// New builds an agent from the configuration. The audio device is opened
// here so a missing backend fails before anything connects.
func New(cfg config.Config, logger *slog.Logger) (*Agent, error) {
	if logger == nil {
		logger = slog.Default()
	}

	device, err := audioio.New(cfg.AudioBackend, logger)
	if err != nil {
		return nil, fmt.Errorf("open audio device: %w", err)
	}

	queue := playback.NewQueue(cfg.QueueCapacity)
	stop := playback.NewInterrupt()
	spoken := playback.NewSpokenText()

	return &Agent{
		cfg:     cfg,
		logger:  logger,
		device:  device,
		queue:   queue,
		stop:    stop,
		spoken:  spoken,
		engine:  playback.NewEngine(queue, device, stop, spoken, logger),
		control: control.NewServer(queue, stop, spoken, logger),
		primary: feed.New(cfg.PrimaryFeedURL, feed.LabelPrimary, cfg.RobotID, queue, logger),
		lecture: feed.New(cfg.LectureFeedURL, feed.LabelLecture, cfg.RobotID, queue, logger),
	}, nil
}

// Run binds the control port, then runs every component until the context
// ends or the control server fails. The control port is bound before the
// engine or connectors start so a taken port aborts cleanly.
func (a *Agent) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.cfg.ListenAddr())
	if err != nil {
		a.device.Close()
		return fmt.Errorf("%w: %s: %v", ErrBindFailed, a.cfg.ListenAddr(), err)
	}
	a.logger.Info("control surface listening", "addr", ln.Addr().String())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	serveErr := make(chan error, 1)
	go func() {
		if err := a.control.Serve(ln); err != nil {
			serveErr <- err
		}
	}()

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		a.engine.Run(ctx)
	}()
	go func() {
		defer wg.Done()
		a.primary.Run(ctx)
	}()
	go func() {
		defer wg.Done()
		a.lecture.Run(ctx)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		runErr = ctx.Err()
	case err := <-serveErr:
		runErr = fmt.Errorf("control server: %w", err)
		cancel()
	}

	if err := a.control.Shutdown(); err != nil {
		a.logger.Warn("control server shutdown failed", "err", err)
	}
	wg.Wait()
	if err := a.device.Close(); err != nil {
		a.logger.Warn("audio device close failed", "err", err)
	}

	a.logger.Info("agent stopped")
	return runErr
}

// Queue exposes the clip queue, for tests and local tooling.
func (a *Agent) Queue() *playback.Queue {
	return a.queue
}

// Spoken exposes the spoken-text cell, for tests and local tooling.
func (a *Agent) Spoken() *playback.SpokenText {
	return a.spoken
}
