// ABOUTME: WebSocket streaming transport for synthesis
// ABOUTME: Accumulates binary PCM frames until the provider signals completion
package synth

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/url"

	"github.com/gorilla/websocket"

	"github.com/Cadence-Audio/cadence-go/pkg/audio"
	"github.com/Cadence-Audio/cadence-go/pkg/audio/decode"
)

// StreamStatus is the provider's text-frame control message. A frame
// with Final set ends the stream.
type StreamStatus struct {
	Final bool   `json:"final"`
	Error string `json:"error,omitempty"`
}

// SynthesizeStream requests synthesis over WebSocket and accumulates
// the binary PCM frames into one clip. Providers that stream chunks
// keep time-to-first-byte low; the caller still gets a complete buffer.
func (c *Client) SynthesizeStream(ctx context.Context, text string) (audio.Clip, error) {
	if text == "" {
		return audio.Clip{}, fmt.Errorf("nothing to synthesize")
	}

	u := url.URL{Scheme: "ws", Host: c.config.ServerAddr, Path: "/v1/synthesize/stream"}
	log.Printf("Connecting to %s", u.String())

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return audio.Clip{}, fmt.Errorf("dial failed: %w", err)
	}
	defer conn.Close()

	req := Request{Text: text, Voice: c.config.Voice, SampleRate: audio.DefaultSampleRate}
	if err := conn.WriteJSON(req); err != nil {
		return audio.Clip{}, fmt.Errorf("failed to send request: %w", err)
	}

	// Close the connection when the context is cancelled so the read
	// loop below unblocks
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	var pcm []byte
	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return audio.Clip{}, fmt.Errorf("synthesis cancelled: %w", ctx.Err())
			}
			return audio.Clip{}, fmt.Errorf("stream read failed: %w", err)
		}

		switch msgType {
		case websocket.BinaryMessage:
			pcm = append(pcm, data...)

		case websocket.TextMessage:
			var status StreamStatus
			if err := json.Unmarshal(data, &status); err != nil {
				return audio.Clip{}, fmt.Errorf("malformed status frame: %w", err)
			}
			if status.Error != "" {
				return audio.Clip{}, fmt.Errorf("provider error: %s", status.Error)
			}
			if status.Final {
				samples, err := decode.Samples(pcm)
				if err != nil {
					return audio.Clip{}, err
				}
				log.Printf("Stream complete: %d samples", len(samples))
				return audio.NewClip(samples, audio.DefaultFormat()), nil
			}
		}
	}
}
