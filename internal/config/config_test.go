package config

import (
	"strings"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.RobotID != "robot_1" {
		t.Errorf("RobotID = %q, want robot_1", cfg.RobotID)
	}
	if cfg.HTTPPort != 5000 {
		t.Errorf("HTTPPort = %d, want 5000", cfg.HTTPPort)
	}
	if cfg.QueueCapacity != 32 {
		t.Errorf("QueueCapacity = %d, want 32", cfg.QueueCapacity)
	}
	if cfg.AudioBackend != "auto" {
		t.Errorf("AudioBackend = %q, want auto", cfg.AudioBackend)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("ROBOT_ID", "robot_7")
	t.Setenv("ROBOT_HTTP_PORT", "6100")
	t.Setenv("AUDIO_BACKEND", "mock")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.RobotID != "robot_7" {
		t.Errorf("RobotID = %q", cfg.RobotID)
	}
	if cfg.HTTPPort != 6100 {
		t.Errorf("HTTPPort = %d", cfg.HTTPPort)
	}
	if cfg.AudioBackend != "mock" {
		t.Errorf("AudioBackend = %q", cfg.AudioBackend)
	}
}

func TestLoad_DerivesFeedURLs(t *testing.T) {
	t.Setenv("ROBOT_ID", "robot_9")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.PrimaryFeedURL != "ws://localhost:8000/ws/robot_9/before/lecture" {
		t.Errorf("PrimaryFeedURL = %q", cfg.PrimaryFeedURL)
	}
	if cfg.LectureFeedURL != "ws://localhost:8000/ws/robot_9/lesson_audio" {
		t.Errorf("LectureFeedURL = %q", cfg.LectureFeedURL)
	}
}

func TestLoad_ExplicitFeedURLsKept(t *testing.T) {
	t.Setenv("PRIMARY_FEED_URL", "ws://backend:9000/primary")
	t.Setenv("LECTURE_FEED_URL", "ws://backend:9000/lecture")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.PrimaryFeedURL != "ws://backend:9000/primary" {
		t.Errorf("PrimaryFeedURL = %q", cfg.PrimaryFeedURL)
	}
	if cfg.LectureFeedURL != "ws://backend:9000/lecture" {
		t.Errorf("LectureFeedURL = %q", cfg.LectureFeedURL)
	}
}

func TestFinalize_Validation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty robot id", func(c *Config) { c.RobotID = "" }},
		{"port zero", func(c *Config) { c.HTTPPort = 0 }},
		{"port too large", func(c *Config) { c.HTTPPort = 70000 }},
		{"queue capacity zero", func(c *Config) { c.QueueCapacity = 0 }},
		{"unknown backend", func(c *Config) { c.AudioBackend = "pulse" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Config{
				RobotID:       "robot_1",
				HTTPPort:      5000,
				QueueCapacity: 32,
				AudioBackend:  "auto",
			}
			tc.mutate(&cfg)
			if err := cfg.Finalize(); err == nil {
				t.Error("Finalize accepted invalid config")
			}
		})
	}
}

func TestListenAddr(t *testing.T) {
	cfg := Config{HTTPPort: 5000}
	if got := cfg.ListenAddr(); !strings.HasSuffix(got, ":5000") {
		t.Errorf("ListenAddr = %q", got)
	}
}
