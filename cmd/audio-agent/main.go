// Audio playback agent for Reachy: consumes synthesized speech clips from
// the lesson backend over websockets, plays them on the robot's speaker,
// and exposes a local HTTP surface for barge-in interruption.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/teslashibe/reachy-audio/internal/config"
	"github.com/teslashibe/reachy-audio/internal/log"
	"github.com/teslashibe/reachy-audio/pkg/agent"
)

func main() {
	cfg, err := parseFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Configuration error: %v\n", err)
		os.Exit(1)
	}

	log.Init(cfg.LogLevel)

	a, err := agent.New(cfg, log.L())
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Initialization failed: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	fmt.Printf("🚀 Audio agent for %s – control surface on http://%s\n", cfg.RobotID, cfg.ListenAddr())

	if err := a.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		if errors.Is(err, agent.ErrBindFailed) {
			fmt.Fprintf(os.Stderr, "❌ Port %d already in use – choose another via $ROBOT_HTTP_PORT\n", cfg.HTTPPort)
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "❌ Runtime error: %v\n", err)
		os.Exit(1)
	}
}

// parseFlags layers command line flags over the environment configuration.
func parseFlags() (config.Config, error) {
	cfg, err := config.FromEnv()
	if err != nil {
		return config.Config{}, err
	}

	robot := flag.String("robot", "", "Robot identity (overrides ROBOT_ID)")
	port := flag.Int("port", 0, "Control surface port (overrides ROBOT_HTTP_PORT)")
	primaryURL := flag.String("primary-url", "", "Primary feed websocket URL")
	lectureURL := flag.String("lecture-url", "", "Lecture feed websocket URL")
	backend := flag.String("backend", "", "Audio backend: auto, oto, mock")
	debug := flag.Bool("debug", false, "Enable verbose debug logging")
	flag.Parse()

	if *robot != "" {
		cfg.RobotID = *robot
	}
	if *port != 0 {
		cfg.HTTPPort = *port
	}
	if *primaryURL != "" {
		cfg.PrimaryFeedURL = *primaryURL
	}
	if *lectureURL != "" {
		cfg.LectureFeedURL = *lectureURL
	}
	if *backend != "" {
		cfg.AudioBackend = *backend
	}
	if *debug {
		cfg.LogLevel = "debug"
	}

	if err := cfg.Finalize(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}
