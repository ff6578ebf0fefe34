// ABOUTME: Tests for the synthesis client
// ABOUTME: Uses httptest servers for REST and WebSocket transports
package synth

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"

	"github.com/Cadence-Audio/cadence-go/pkg/audio"
	"github.com/Cadence-Audio/cadence-go/pkg/audio/decode"
)

func testServerAddr(t *testing.T, srv *httptest.Server) string {
	t.Helper()
	return strings.TrimPrefix(srv.URL, "http://")
}

func TestSynthesize(t *testing.T) {
	// -1 and 256 as s16le
	payload := base64.StdEncoding.EncodeToString([]byte{0xFF, 0xFF, 0x00, 0x01})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/synthesize" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Error("expected a request ID header")
		}

		var req Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if req.Text != "hello" {
			t.Errorf("expected text %q, got %q", "hello", req.Text)
		}

		json.NewEncoder(w).Encode(Response{
			AudioContent: payload,
			SampleRate:   24000,
			Channels:     1,
		})
	}))
	defer srv.Close()

	client := NewClient(Config{ServerAddr: testServerAddr(t, srv)})

	clip, err := client.Synthesize(context.Background(), "hello")
	if err != nil {
		t.Fatalf("synthesize failed: %v", err)
	}

	if len(clip.Samples) != 2 {
		t.Fatalf("expected 2 samples, got %d", len(clip.Samples))
	}
	if clip.Samples[0] != -1 || clip.Samples[1] != 256 {
		t.Errorf("expected samples [-1 256], got %v", clip.Samples)
	}
	if clip.Format.SampleRate != 24000 {
		t.Errorf("expected sample rate 24000, got %d", clip.Format.SampleRate)
	}
}

func TestSynthesizeServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "voice not found", http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClient(Config{ServerAddr: testServerAddr(t, srv)})

	_, err := client.Synthesize(context.Background(), "hello")
	if err == nil {
		t.Fatal("expected error for HTTP 404")
	}
	if !strings.Contains(err.Error(), "voice not found") {
		t.Errorf("expected cause message in error, got %v", err)
	}
}

func TestSynthesizeMalformedPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(Response{AudioContent: "!!!not base64!!!"})
	}))
	defer srv.Close()

	client := NewClient(Config{ServerAddr: testServerAddr(t, srv)})

	_, err := client.Synthesize(context.Background(), "hello")
	if !errors.Is(err, decode.ErrInvalidEncoding) {
		t.Errorf("expected ErrInvalidEncoding, got %v", err)
	}
}

func TestSynthesizeRejectsEmptyText(t *testing.T) {
	client := NewClient(Config{ServerAddr: "localhost:0"})

	if _, err := client.Synthesize(context.Background(), ""); err == nil {
		t.Error("expected error for empty text")
	}
}

func TestSynthesizeStream(t *testing.T) {
	upgrader := websocket.Upgrader{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/synthesize/stream" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Fatalf("upgrade failed: %v", err)
		}
		defer conn.Close()

		var req Request
		if err := conn.ReadJSON(&req); err != nil {
			t.Fatalf("failed to read request: %v", err)
		}

		// Two binary chunks, then the final status frame
		conn.WriteMessage(websocket.BinaryMessage, []byte{0x01, 0x00})
		conn.WriteMessage(websocket.BinaryMessage, []byte{0xFF, 0xFF})
		conn.WriteJSON(StreamStatus{Final: true})
	}))
	defer srv.Close()

	client := NewClient(Config{ServerAddr: testServerAddr(t, srv)})

	clip, err := client.SynthesizeStream(context.Background(), "hello")
	if err != nil {
		t.Fatalf("stream synthesize failed: %v", err)
	}

	if len(clip.Samples) != 2 {
		t.Fatalf("expected 2 samples, got %d", len(clip.Samples))
	}
	if clip.Samples[0] != 1 || clip.Samples[1] != -1 {
		t.Errorf("expected samples [1 -1], got %v", clip.Samples)
	}
	if clip.Format.SampleRate != audio.DefaultSampleRate {
		t.Errorf("expected default sample rate, got %d", clip.Format.SampleRate)
	}
}

func TestSynthesizeStreamProviderError(t *testing.T) {
	upgrader := websocket.Upgrader{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Fatalf("upgrade failed: %v", err)
		}
		defer conn.Close()

		var req Request
		conn.ReadJSON(&req)
		conn.WriteJSON(StreamStatus{Error: "quota exceeded"})
	}))
	defer srv.Close()

	client := NewClient(Config{ServerAddr: testServerAddr(t, srv)})

	_, err := client.SynthesizeStream(context.Background(), "hello")
	if err == nil || !strings.Contains(err.Error(), "quota exceeded") {
		t.Errorf("expected provider error, got %v", err)
	}
}
