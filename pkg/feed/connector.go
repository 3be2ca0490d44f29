// Package feed maintains the websocket connections that deliver synthesized
// speech clips. Each connector owns one feed: it dials, registers when it is
// the primary, pushes inbound clips onto the shared queue, and reconnects
// with exponential backoff for as long as its context lives.
package feed

import (
	"context"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gorilla/websocket"

	"github.com/teslashibe/reachy-audio/pkg/playback"
	"github.com/teslashibe/reachy-audio/pkg/protocol"
)

// Feed labels. The primary feed registers after connecting and filters
// inbound messages by robot identity; the lecture feed does neither.
const (
	LabelPrimary = "primary"
	LabelLecture = "lecture"
)

// registerClient is the role announced on the primary feed.
const registerClient = "audio"

// Connector consumes one feed and keeps the connection alive.
type Connector struct {
	url     string
	label   string
	robotID string
	queue   *playback.Queue
	logger  *slog.Logger

	dialer  *websocket.Dialer
	bo      *backoff.ExponentialBackOff
	retries int
}

// New creates a connector for one feed. robotID is only consulted when
// label is LabelPrimary.
func New(url, label, robotID string, queue *playback.Queue, logger *slog.Logger) *Connector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Connector{
		url:     url,
		label:   label,
		robotID: robotID,
		queue:   queue,
		logger:  logger.With("feed", label),
		dialer: &websocket.Dialer{
			HandshakeTimeout: 10 * time.Second,
		},
		bo: newBackoff(),
	}
}

// newBackoff builds the reconnect schedule: 2s doubling to a 60s ceiling,
// with no jitter and no overall deadline.
func newBackoff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 2 * time.Second
	b.RandomizationFactor = 0
	b.Multiplier = 2
	b.MaxInterval = 60 * time.Second
	b.MaxElapsedTime = 0
	b.Reset()
	return b
}

// Run dials and consumes the feed until the context ends, reconnecting after
// every failure. It only returns the context's error.
func (c *Connector) Run(ctx context.Context) error {
	for {
		err := c.session(ctx)
		if ctx.Err() != nil {
			c.logger.Info("feed connector stopped")
			return ctx.Err()
		}

		c.retries++
		wait := c.bo.NextBackOff()
		c.logger.Warn("feed disconnected, reconnecting",
			"err", err,
			"retry", c.retries,
			"wait", wait,
		)

		select {
		case <-ctx.Done():
			c.logger.Info("feed connector stopped")
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}

// session runs one connection from dial to disconnect.
func (c *Connector) session(ctx context.Context) error {
	conn, _, err := c.dialer.DialContext(ctx, c.url, nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	c.retries = 0
	c.bo.Reset()
	c.logger.Info("feed connected", "url", c.url)

	if c.label == LabelPrimary {
		if err := c.register(conn); err != nil {
			return err
		}
	}

	// ReadMessage has no context form; close the connection to unblock it
	// when the context ends.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			deadline := time.Now().Add(time.Second)
			conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
			conn.Close()
		case <-done:
		}
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		c.handle(data)
	}
}

// register announces this client's role before consuming messages.
func (c *Connector) register(conn *websocket.Conn) error {
	msg, err := protocol.NewRegister(registerClient).Bytes()
	if err != nil {
		return err
	}
	return conn.WriteMessage(websocket.TextMessage, msg)
}

// handle processes one inbound frame. Malformed frames and drops are logged;
// nothing here tears down the connection.
func (c *Connector) handle(data []byte) {
	msg, err := protocol.ParseFeedMessage(data)
	if err != nil {
		c.logger.Warn("dropping malformed feed message", "err", err)
		return
	}

	// The backend multiplexes robots on the primary feed; everything not
	// addressed to us is someone else's speech.
	if c.label == LabelPrimary && msg.RobotID != c.robotID {
		return
	}

	if msg.Text != "" {
		c.logger.Info("feed message", "text", msg.Text)
	}
	if len(msg.Audio) == 0 {
		return
	}

	clip := playback.NewClip(msg.Text, msg.Audio)
	if !c.queue.Enqueue(clip) {
		c.logger.Warn("clip queue full, dropping clip", "clip", clip.ID, "bytes", len(msg.Audio))
		return
	}
	c.logger.Debug("clip queued", "clip", clip.ID, "bytes", len(msg.Audio))
}
