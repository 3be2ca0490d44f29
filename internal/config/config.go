// Package config provides environment-driven configuration for the audio agent.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds the agent configuration. Every field can be set through the
// environment; feed URLs default to the local backend for the configured robot.
type Config struct {
	// RobotID is this agent's identity, used to filter primary-feed messages.
	RobotID string `env:"ROBOT_ID" envDefault:"robot_1"`

	// HTTPPort is the control surface listening port.
	// Override via ROBOT_HTTP_PORT to avoid clashes with other local services.
	HTTPPort int `env:"ROBOT_HTTP_PORT" envDefault:"5000"`

	// PrimaryFeedURL is the websocket URL of the primary feed.
	// Empty means derive from RobotID against the local backend.
	PrimaryFeedURL string `env:"PRIMARY_FEED_URL"`

	// LectureFeedURL is the websocket URL of the lecture audio feed.
	LectureFeedURL string `env:"LECTURE_FEED_URL"`

	// QueueCapacity bounds the clip queue; clips arriving on a full queue
	// are dropped.
	QueueCapacity int `env:"CLIP_QUEUE_CAPACITY" envDefault:"32"`

	// AudioBackend selects the output device backend: auto, oto, or mock.
	AudioBackend string `env:"AUDIO_BACKEND" envDefault:"auto"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load parses the configuration from the environment and fills in
// derived defaults.
func Load() (Config, error) {
	cfg, err := FromEnv()
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Finalize(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// FromEnv parses the environment without deriving feed URLs or validating,
// so callers can layer overrides (flags) on top before Finalize.
func FromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Finalize derives defaulted fields and validates the result.
func (c *Config) Finalize() error {
	c.applyDefaults()
	return c.Validate()
}

func (c *Config) applyDefaults() {
	if c.PrimaryFeedURL == "" {
		c.PrimaryFeedURL = fmt.Sprintf("ws://localhost:8000/ws/%s/before/lecture", c.RobotID)
	}
	if c.LectureFeedURL == "" {
		c.LectureFeedURL = fmt.Sprintf("ws://localhost:8000/ws/%s/lesson_audio", c.RobotID)
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.RobotID == "" {
		return fmt.Errorf("robot id must not be empty")
	}
	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		return fmt.Errorf("http port out of range: %d", c.HTTPPort)
	}
	if c.QueueCapacity <= 0 {
		return fmt.Errorf("queue capacity must be positive, got %d", c.QueueCapacity)
	}
	switch c.AudioBackend {
	case "auto", "oto", "mock":
	default:
		return fmt.Errorf("unknown audio backend: %q", c.AudioBackend)
	}
	return nil
}

// ListenAddr returns the control surface bind address. The surface is
// loopback-only; nothing off-robot should steer playback.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("localhost:%d", c.HTTPPort)
}
