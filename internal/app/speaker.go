// ABOUTME: Speaker application orchestration
// ABOUTME: Coordinates synthesis, decoding, and the playback engine
package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/Cadence-Audio/cadence-go/internal/player"
	"github.com/Cadence-Audio/cadence-go/internal/synth"
	"github.com/Cadence-Audio/cadence-go/pkg/audio"
	"github.com/Cadence-Audio/cadence-go/pkg/audio/output"
	"github.com/Cadence-Audio/cadence-go/pkg/audio/resample"
	"github.com/Cadence-Audio/cadence-go/pkg/audio/wav"
)

// Config holds speaker configuration
type Config struct {
	ServerAddr string
	APIKey     string
	Voice      string
	Rate       float64 // playback speed multiplier
	Pitch      float64 // pitch offset in semitones
	Stream     bool    // use the WebSocket streaming transport

	// Output overrides the default device, mainly for tests
	Output output.Output

	// OnFinished is called when playback reaches the end of a clip
	OnFinished func()

	// OnError is called for asynchronous playback errors
	OnError func(error)
}

// Speaker turns text into audible speech with adjustable rate and pitch
type Speaker struct {
	config Config
	synth  *synth.Client
	engine *player.Engine
	out    output.Output

	mu    sync.Mutex
	last  audio.Clip
	rate  float64
	pitch float64
}

// New creates a speaker
func New(config Config) (*Speaker, error) {
	if config.Rate == 0 {
		config.Rate = 1.0
	}

	out := config.Output
	if out == nil {
		out = output.NewOto()
	}

	engine, err := player.NewEngine(player.Config{
		Output:     out,
		OnFinished: config.OnFinished,
		OnError:    config.OnError,
	})
	if err != nil {
		return nil, err
	}

	return &Speaker{
		config: config,
		synth: synth.NewClient(synth.Config{
			ServerAddr: config.ServerAddr,
			APIKey:     config.APIKey,
			Voice:      config.Voice,
		}),
		engine: engine,
		out:    out,
		rate:   config.Rate,
		pitch:  config.Pitch,
	}, nil
}

// Speak synthesizes text and plays it with the current rate and pitch
func (s *Speaker) Speak(ctx context.Context, text string) error {
	var clip audio.Clip
	var err error

	if s.config.Stream {
		clip, err = s.synth.SynthesizeStream(ctx, text)
	} else {
		clip, err = s.synth.Synthesize(ctx, text)
	}
	if err != nil {
		return err
	}

	log.Printf("Synthesized clip: %s", clip.String())

	clip, err = resample.Conform(clip, audio.DefaultFormat())
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.last = clip
	rate, pitch := s.rate, s.pitch
	s.mu.Unlock()

	return s.engine.Play(clip, rate, pitch)
}

// Replay plays the last synthesized clip again with the current rate
// and pitch. Parameter changes take effect here, not mid-stream.
func (s *Speaker) Replay() error {
	s.mu.Lock()
	clip := s.last
	rate, pitch := s.rate, s.pitch
	s.mu.Unlock()

	if len(clip.Samples) == 0 {
		return fmt.Errorf("nothing to replay")
	}

	return s.engine.Play(clip, rate, pitch)
}

// PlayFile loads a WAV file and plays it with the current rate and pitch
func (s *Speaker) PlayFile(path string) error {
	clip, err := wav.DecodeFile(path)
	if err != nil {
		return err
	}

	// Files on disk may carry any rate or channel layout.
	clip, err = resample.Conform(clip, audio.DefaultFormat())
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.last = clip
	rate, pitch := s.rate, s.pitch
	s.mu.Unlock()

	return s.engine.Play(clip, rate, pitch)
}

// Stop halts playback
func (s *Speaker) Stop() {
	s.engine.Stop()
}

// State returns "playing" or "idle"
func (s *Speaker) State() string {
	return s.engine.State()
}

// SetRate sets the playback speed multiplier for the next play
func (s *Speaker) SetRate(rate float64) {
	s.mu.Lock()
	s.rate = rate
	s.mu.Unlock()
}

// SetPitch sets the pitch offset in semitones for the next play
func (s *Speaker) SetPitch(semitones float64) {
	s.mu.Lock()
	s.pitch = semitones
	s.mu.Unlock()
}

// Rate returns the current speed multiplier
func (s *Speaker) Rate() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rate
}

// Pitch returns the current pitch offset in semitones
func (s *Speaker) Pitch() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pitch
}

// SetVolume sets output volume when the device supports it
func (s *Speaker) SetVolume(volume int) {
	if oto, ok := s.out.(*output.Oto); ok {
		oto.SetVolume(volume)
	}
}

// SaveWAV writes the last synthesized clip to a WAV file
func (s *Speaker) SaveWAV(path string) error {
	s.mu.Lock()
	clip := s.last
	s.mu.Unlock()

	if len(clip.Samples) == 0 {
		return fmt.Errorf("nothing to save")
	}

	buf, err := wav.Encode(clip)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, buf, 0644); err != nil {
		return fmt.Errorf("failed to write wav file: %w", err)
	}

	log.Printf("Saved %d bytes to %s", len(buf), path)
	return nil
}

// Close stops playback and releases the output device
func (s *Speaker) Close() {
	s.engine.Stop()
	s.out.Close()
}
