// feed-sim is a stand-in lesson backend for local development: it serves
// both websocket feeds and pushes short synthesized tone clips so the audio
// agent can be exercised without the real backend.
package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"github.com/teslashibe/reachy-audio/internal/log"
	"github.com/teslashibe/reachy-audio/pkg/protocol"
	"github.com/teslashibe/reachy-audio/pkg/wav"
)

const (
	toneSampleRate = 16000
	toneSeconds    = 1.5
)

func main() {
	port := flag.Int("port", 8000, "Listening port")
	interval := flag.Duration("interval", 5*time.Second, "Delay between clips")
	flag.Parse()

	log.Init("info")

	app := fiber.New(fiber.Config{
		AppName:               "feed-sim",
		DisableStartupMessage: true,
	})

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	app.Get("/ws/:robot/before/lecture", websocket.New(func(c *websocket.Conn) {
		servePrimary(c, c.Params("robot"), *interval)
	}))
	app.Get("/ws/:robot/lesson_audio", websocket.New(func(c *websocket.Conn) {
		serveLecture(c, c.Params("robot"), *interval)
	}))

	fmt.Printf("🎹 Feed simulator on ws://localhost:%d\n", *port)
	if err := app.Listen(fmt.Sprintf(":%d", *port)); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
}

// servePrimary expects a registration frame, then streams addressed clips.
func servePrimary(c *websocket.Conn, robot string, interval time.Duration) {
	var reg protocol.RegisterMessage
	if err := c.ReadJSON(&reg); err != nil {
		log.Warn("primary client sent no registration", "err", err)
		return
	}
	log.Info("primary client registered", "robot", robot, "client", reg.Data.Client)

	freqs := []float64{440, 523.25, 659.25}
	for i := 0; ; i++ {
		msg := protocol.FeedMessage{
			RobotID: robot,
			Text:    fmt.Sprintf("primary tone number %d for %s", i+1, robot),
			Audio:   tone(freqs[i%len(freqs)]),
		}
		if err := c.WriteJSON(msg); err != nil {
			log.Info("primary client gone", "robot", robot, "err", err)
			return
		}
		time.Sleep(interval)
	}
}

// serveLecture streams unaddressed clips with no handshake.
func serveLecture(c *websocket.Conn, robot string, interval time.Duration) {
	log.Info("lecture client connected", "robot", robot)

	for i := 0; ; i++ {
		msg := protocol.FeedMessage{
			Text:  fmt.Sprintf("lecture tone number %d", i+1),
			Audio: tone(330),
		}
		if err := c.WriteJSON(msg); err != nil {
			log.Info("lecture client gone", "robot", robot, "err", err)
			return
		}
		time.Sleep(interval)
	}
}

// tone synthesizes a faded sine clip as WAV bytes.
func tone(freq float64) []byte {
	n := int(toneSeconds * toneSampleRate)
	samples := make([]float32, n)
	for i := range samples {
		t := float64(i) / toneSampleRate
		fade := 1.0
		if edge := toneSeconds - t; edge < 0.05 {
			fade = edge / 0.05
		} else if t < 0.05 {
			fade = t / 0.05
		}
		samples[i] = float32(0.4 * fade * math.Sin(2*math.Pi*freq*t))
	}
	return wav.Encode(toneSampleRate, 1, samples)
}
