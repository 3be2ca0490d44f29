// Package protocol defines the JSON messages exchanged with the speech backend.
// Inbound feed messages carry synthesized clips; the only outbound message is
// the registration sent on the primary feed after each connect.
package protocol

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"
)

// FeedMessage is the inbound envelope on both feeds.
// All fields are optional; a message without audio carries no clip.
type FeedMessage struct {
	RobotID string    `json:"robot_id,omitempty"`
	Text    string    `json:"text,omitempty"`
	Audio   AudioData `json:"audio,omitempty"`
}

// ParseFeedMessage parses a raw feed frame.
func ParseFeedMessage(data []byte) (*FeedMessage, error) {
	var msg FeedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("parse feed message: %w", err)
	}
	return &msg, nil
}

// AudioData is a clip's WAV bytes as they appear on the wire.
// The backend sends either a JSON array of byte values or a base64 string;
// both decode to the same raw bytes.
type AudioData []byte

// UnmarshalJSON accepts a JSON array of integers in [0,255], a base64
// string, or null.
func (a *AudioData) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || string(data) == "null" {
		*a = nil
		return nil
	}

	switch data[0] {
	case '[':
		var values []int
		if err := json.Unmarshal(data, &values); err != nil {
			return fmt.Errorf("audio array: %w", err)
		}
		buf := make([]byte, len(values))
		for i, v := range values {
			if v < 0 || v > 255 {
				return fmt.Errorf("audio array: value %d at index %d out of byte range", v, i)
			}
			buf[i] = byte(v)
		}
		*a = buf
		return nil

	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("audio string: %w", err)
		}
		buf, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return fmt.Errorf("audio base64: %w", err)
		}
		*a = buf
		return nil

	default:
		return fmt.Errorf("audio: unsupported JSON form")
	}
}

// MarshalJSON emits the array-of-bytes wire form.
func (a AudioData) MarshalJSON() ([]byte, error) {
	values := make([]int, len(a))
	for i, b := range a {
		values[i] = int(b)
	}
	return json.Marshal(values)
}

// RegisterMessage announces this client's role to the backend.
// Sent once per successful primary-feed connect, before consuming messages.
type RegisterMessage struct {
	Type string       `json:"type"`
	Data RegisterData `json:"data"`
	TS   float64      `json:"ts"`
}

// RegisterData identifies the client role.
type RegisterData struct {
	Client string `json:"client"`
}

// NewRegister builds a registration message stamped with the current time
// in unix seconds.
func NewRegister(client string) RegisterMessage {
	return RegisterMessage{
		Type: "register",
		Data: RegisterData{Client: client},
		TS:   float64(time.Now().UnixNano()) / float64(time.Second),
	}
}

// Bytes returns the JSON-encoded message.
func (m RegisterMessage) Bytes() ([]byte, error) {
	return json.Marshal(m)
}
