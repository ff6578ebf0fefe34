// ABOUTME: HTTP client for the speech synthesis provider
// ABOUTME: Sends text, receives base64 PCM, decodes to a playable clip
package synth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/Cadence-Audio/cadence-go/pkg/audio"
	"github.com/Cadence-Audio/cadence-go/pkg/audio/decode"
)

// Config holds synthesis client configuration
type Config struct {
	ServerAddr string // host:port of the synthesis server
	APIKey     string // optional bearer token
	Voice      string // provider voice identifier
	Timeout    time.Duration
}

// Request is the synthesis request body
type Request struct {
	Text       string `json:"text"`
	Voice      string `json:"voice,omitempty"`
	SampleRate int    `json:"sample_rate,omitempty"`
}

// Response is the synthesis response body. AudioContent is base64
// little-endian signed 16-bit PCM unless Codec says otherwise.
type Response struct {
	AudioContent string `json:"audio_content"`
	Codec        string `json:"codec,omitempty"`
	SampleRate   int    `json:"sample_rate,omitempty"`
	Channels     int    `json:"channels,omitempty"`
}

// Client talks to a synthesis server
type Client struct {
	config Config
	client *http.Client
}

// NewClient creates a synthesis client
func NewClient(config Config) *Client {
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}

	return &Client{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
	}
}

// Synthesize sends text to the provider and returns the decoded clip
func (c *Client) Synthesize(ctx context.Context, text string) (audio.Clip, error) {
	if text == "" {
		return audio.Clip{}, fmt.Errorf("nothing to synthesize")
	}

	body, err := json.Marshal(Request{
		Text:       text,
		Voice:      c.config.Voice,
		SampleRate: audio.DefaultSampleRate,
	})
	if err != nil {
		return audio.Clip{}, fmt.Errorf("failed to encode request: %w", err)
	}

	url := fmt.Sprintf("http://%s/v1/synthesize", c.config.ServerAddr)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return audio.Clip{}, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.New().String())
	if c.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	}

	log.Printf("Synthesizing %d chars via %s", len(text), c.config.ServerAddr)

	resp, err := c.client.Do(req)
	if err != nil {
		return audio.Clip{}, fmt.Errorf("synthesis request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return audio.Clip{}, fmt.Errorf("synthesis failed: HTTP %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	}

	var out Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return audio.Clip{}, fmt.Errorf("failed to decode response: %w", err)
	}

	return c.decodePayload(out)
}

// decodePayload turns a provider response into a PCM16 clip
func (c *Client) decodePayload(out Response) (audio.Clip, error) {
	data, err := decode.FromBase64(out.AudioContent)
	if err != nil {
		return audio.Clip{}, err
	}

	format := audio.Format{
		Codec:      out.Codec,
		SampleRate: out.SampleRate,
		Channels:   out.Channels,
	}
	if format.Codec == "" {
		format.Codec = "pcm"
	}
	if format.SampleRate == 0 {
		format.SampleRate = audio.DefaultSampleRate
	}
	if format.Channels == 0 {
		format.Channels = audio.DefaultChannels
	}

	dec, err := decode.New(format)
	if err != nil {
		return audio.Clip{}, err
	}
	defer dec.Close()

	return dec.Decode(data)
}
