// ABOUTME: Playback transform engine with single-session transport
// ABOUTME: Manages play/stop state and one-shot completion notification
package player

import (
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"

	"github.com/Cadence-Audio/cadence-go/pkg/audio"
	"github.com/Cadence-Audio/cadence-go/pkg/audio/decode"
	"github.com/Cadence-Audio/cadence-go/pkg/audio/output"
)

// writeChunk is the device write granularity: 100ms of 24kHz mono s16le.
// Stop latency is bounded by one chunk.
const writeChunk = 4800

// Config holds engine configuration
type Config struct {
	// Output is the device the engine renders to. The engine owns it
	// for the duration of a session; callers must not write to it
	// concurrently.
	Output output.Output

	// OnFinished is called exactly once when a session reaches the end
	// of its clip. Never called after Stop.
	OnFinished func()

	// OnError is called when a session fails mid-stream
	OnError func(error)
}

// Engine renders clips to an output device under independently
// controlled rate and pitch. At most one session is active at a time;
// starting a new one tears the old one down first.
type Engine struct {
	output     output.Output
	onFinished func()
	onError    func(error)

	// transport serializes Play and Stop so session handover is atomic
	// from the caller's perspective
	transport sync.Mutex

	// mu guards session and done
	mu      sync.Mutex
	session *session

	// done is the exit channel of the most recent session goroutine.
	// halt waits on it even after the session pointer is cleared, so a
	// naturally completing session delivers its finished notification
	// before a preempting Play installs the next one.
	done chan struct{}
}

// session is one in-flight rendering of a clip
type session struct {
	id      string
	stop    chan struct{} // closed to request teardown
	done    chan struct{} // closed when the session goroutine exits
	stopped bool          // guarded by Engine.mu; suppresses finished
}

// NewEngine creates a playback engine that renders to the given output
func NewEngine(cfg Config) (*Engine, error) {
	if cfg.Output == nil {
		return nil, fmt.Errorf("engine requires an output device")
	}

	return &Engine{
		output:     cfg.Output,
		onFinished: cfg.OnFinished,
		onError:    cfg.OnError,
	}, nil
}

// Play starts rendering the clip at the given rate multiplier and
// pitch offset in semitones. Any active session is stopped first, with
// its finished notification suppressed.
func (e *Engine) Play(clip audio.Clip, rate, semitones float64) error {
	if len(clip.Samples) == 0 {
		return fmt.Errorf("%w: empty clip", decode.ErrMalformedAudio)
	}
	if !clip.Format.Valid() {
		return fmt.Errorf("%w: sample rate %d, channels %d",
			decode.ErrMalformedAudio, clip.Format.SampleRate, clip.Format.Channels)
	}

	pcm, err := Render(clip, rate, semitones)
	if err != nil {
		return err
	}

	e.transport.Lock()
	defer e.transport.Unlock()

	e.halt()

	if err := e.output.Open(clip.Format.SampleRate, clip.Format.Channels); err != nil {
		return fmt.Errorf("failed to open output: %w", err)
	}

	s := &session{
		id:   uuid.New().String(),
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}

	e.mu.Lock()
	e.session = s
	e.done = s.done
	e.mu.Unlock()

	log.Printf("Playback started: session=%s %s rate=%.2f pitch=%+.1f",
		s.id[:8], clip.String(), rate, semitones)

	go e.run(s, pcm)

	return nil
}

// Stop halts any active session. Idempotent; a stopped session never
// fires the finished notification.
func (e *Engine) Stop() {
	e.transport.Lock()
	defer e.transport.Unlock()

	e.halt()
}

// State returns "playing" while a session is active, "idle" otherwise
func (e *Engine) State() string {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session != nil {
		return "playing"
	}
	return "idle"
}

// halt tears down the active session, if any, and waits for the last
// session goroutine to fully exit. Caller must hold transport.
func (e *Engine) halt() {
	e.mu.Lock()
	s := e.session
	done := e.done
	if s != nil {
		s.stopped = true
		close(s.stop)
		e.session = nil
	}
	e.mu.Unlock()

	if done != nil {
		<-done
	}

	if s != nil {
		// Interrupted mid-clip: drop whatever the device already
		// buffered so no stale tail plays behind the next session
		if err := e.output.Reset(); err != nil {
			log.Printf("Failed to drop buffered audio: %v", err)
		}
		log.Printf("Playback stopped: session=%s", s.id[:8])
	}
}

// run streams rendered bytes to the device on a session goroutine
func (e *Engine) run(s *session, pcm []byte) {
	defer close(s.done)

	for off := 0; off < len(pcm); off += writeChunk {
		select {
		case <-s.stop:
			return
		default:
		}

		end := off + writeChunk
		if end > len(pcm) {
			end = len(pcm)
		}

		if err := e.output.Write(pcm[off:end]); err != nil {
			e.fail(s, err)
			return
		}
	}

	// Natural completion: fire finished unless this session was stopped
	// or superseded in the meantime
	e.mu.Lock()
	finished := e.session == s && !s.stopped
	if finished {
		e.session = nil
	}
	e.mu.Unlock()

	if finished {
		log.Printf("Playback finished: session=%s", s.id[:8])
		if e.onFinished != nil {
			e.onFinished()
		}
	}
}

// fail clears a broken session and reports the error
func (e *Engine) fail(s *session, err error) {
	e.mu.Lock()
	if e.session == s {
		e.session = nil
	}
	e.mu.Unlock()

	if e.onError != nil {
		e.onError(err)
	} else {
		log.Printf("Playback error: session=%s: %v", s.id[:8], err)
	}
}
