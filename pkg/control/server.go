// Package control exposes the local HTTP surface the recording process uses
// to steer playback: one endpoint interrupts whatever is playing, the other
// reports how much of the last clip was spoken.
package control

import (
	"log/slog"
	"net"

	"github.com/gofiber/fiber/v2"

	"github.com/teslashibe/reachy-audio/pkg/playback"
)

// Messages recognized in the request body's "message" field.
const (
	MsgStartSpeaking     = "Start speaking"
	MsgRecordingComplete = "Recording Complete"
)

// request is the body both endpoints accept.
type request struct {
	Message string `json:"message"`
}

// Server is the playback control server.
type Server struct {
	app    *fiber.App
	queue  *playback.Queue
	stop   *playback.Interrupt
	spoken *playback.SpokenText
	logger *slog.Logger
}

// NewServer wires the control endpoints to the shared playback state.
func NewServer(queue *playback.Queue, stop *playback.Interrupt, spoken *playback.SpokenText, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		queue:  queue,
		stop:   stop,
		spoken: spoken,
		logger: logger,
	}

	app := fiber.New(fiber.Config{
		AppName:               "reachy-audio control",
		DisableStartupMessage: true,
	})
	app.Post("/", s.handleStartSpeaking)
	app.Post("/recording", s.handleRecordingEnd)

	s.app = app
	return s
}

// handleStartSpeaking interrupts the current clip and flushes everything
// queued behind it, so the next answer plays immediately.
func (s *Server) handleStartSpeaking(c *fiber.Ctx) error {
	var req request
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	if req.Message != MsgStartSpeaking {
		return nil
	}

	s.stop.Set()
	dropped := s.queue.Drain()
	s.logger.Info("interrupting playback", "flushed_clips", dropped)
	return c.SendString("true")
}

// handleRecordingEnd reports the spoken prefix of the last clip. The body is
// advisory; the reply carries the current value either way.
func (s *Server) handleRecordingEnd(c *fiber.Ctx) error {
	var req request
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	if req.Message == MsgRecordingComplete {
		s.logger.Info("recording complete, mic closed")
	}
	return c.SendString(s.spoken.Get())
}

// Serve accepts connections on ln until Shutdown. The caller owns binding
// the listener, so an in-use port surfaces before anything else starts.
func (s *Server) Serve(ln net.Listener) error {
	return s.app.Listener(ln)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// App exposes the fiber app for tests.
func (s *Server) App() *fiber.App {
	return s.app
}
