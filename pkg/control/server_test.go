package control

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/teslashibe/reachy-audio/pkg/playback"
)

func newTestServer() (*Server, *playback.Queue, *playback.Interrupt, *playback.SpokenText) {
	queue := playback.NewQueue(8)
	stop := playback.NewInterrupt()
	spoken := playback.NewSpokenText()
	return NewServer(queue, stop, spoken, nil), queue, stop, spoken
}

func post(t *testing.T, s *Server, path, body string) (int, string) {
	t.Helper()
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := s.App().Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(data)
}

func TestStartSpeaking(t *testing.T) {
	s, queue, stop, _ := newTestServer()

	queue.Enqueue(playback.NewClip("stale one", nil))
	queue.Enqueue(playback.NewClip("stale two", nil))

	status, body := post(t, s, "/", `{"message":"Start speaking"}`)
	if status != 200 {
		t.Errorf("status = %d, want 200", status)
	}
	if body != "true" {
		t.Errorf("body = %q, want true", body)
	}
	if !stop.IsSet() {
		t.Error("interrupt not raised")
	}
	if queue.Len() != 0 {
		t.Errorf("queue len = %d, want 0 after drain", queue.Len())
	}
}

func TestStartSpeaking_OtherMessageIsNoOp(t *testing.T) {
	s, queue, stop, _ := newTestServer()
	queue.Enqueue(playback.NewClip("keep me", nil))

	status, body := post(t, s, "/", `{"message":"something else"}`)
	if status != 200 {
		t.Errorf("status = %d, want 200", status)
	}
	if body != "" {
		t.Errorf("body = %q, want empty", body)
	}
	if stop.IsSet() {
		t.Error("interrupt raised for unrecognized message")
	}
	if queue.Len() != 1 {
		t.Error("queue drained for unrecognized message")
	}
}

func TestStartSpeaking_BadBody(t *testing.T) {
	s, _, stop, _ := newTestServer()

	status, _ := post(t, s, "/", `not json`)
	if status != 400 {
		t.Errorf("status = %d, want 400", status)
	}
	if stop.IsSet() {
		t.Error("interrupt raised for bad body")
	}
}

func TestRecordingEnd_ReportsSpokenText(t *testing.T) {
	s, _, _, spoken := newTestServer()
	spoken.Set("hello wor")

	status, body := post(t, s, "/recording", `{"message":"Recording Complete"}`)
	if status != 200 {
		t.Errorf("status = %d, want 200", status)
	}
	if body != "hello wor" {
		t.Errorf("body = %q, want %q", body, "hello wor")
	}
}

func TestRecordingEnd_AnyMessageGetsText(t *testing.T) {
	s, _, _, spoken := newTestServer()
	spoken.Set("partial text")

	// The reply carries the spoken text whatever the body says.
	_, body := post(t, s, "/recording", `{"message":"unrelated"}`)
	if body != "partial text" {
		t.Errorf("body = %q, want %q", body, "partial text")
	}

	_, body = post(t, s, "/recording", `{}`)
	if body != "partial text" {
		t.Errorf("body = %q, want %q", body, "partial text")
	}
}

func TestRecordingEnd_EmptyBeforeFirstClip(t *testing.T) {
	s, _, _, _ := newTestServer()

	status, body := post(t, s, "/recording", `{"message":"Recording Complete"}`)
	if status != 200 {
		t.Errorf("status = %d, want 200", status)
	}
	if body != "" {
		t.Errorf("body = %q, want empty", body)
	}
}
