// ABOUTME: Oto-based audio output implementation
// ABOUTME: Streams s16le PCM with software volume control using oto
package output

import (
	"encoding/binary"
	"fmt"
	"io"
	"log"

	"github.com/ebitengine/oto/v3"
)

// Oto output implementation using the oto library
type Oto struct {
	otoCtx     *oto.Context
	player     *oto.Player
	pipeReader *io.PipeReader
	pipeWriter *io.PipeWriter
	sampleRate int
	channels   int
	volume     int
	muted      bool
	ready      bool
}

// NewOto creates a new Oto output
func NewOto() *Oto {
	return &Oto{
		volume: 100,
		muted:  false,
	}
}

// Open initializes the output device
func (o *Oto) Open(sampleRate, channels int) error {
	if o.otoCtx != nil {
		// oto only allows one context per process, so a format change
		// has to keep the existing one
		if o.sampleRate != sampleRate || o.channels != channels {
			log.Printf("Warning: format change (%dHz %dch -> %dHz %dch) ignored, oto context cannot be reinitialized",
				o.sampleRate, o.channels, sampleRate, channels)
		}

		if o.ready {
			return nil
		}

		// Reopening after Close: the context survives suspended, the
		// pipe and player do not
		if err := o.otoCtx.Resume(); err != nil {
			return fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
		}
		o.startPlayer()
		return nil
	}

	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: channels,
		Format:       oto.FormatSignedInt16LE,
	}

	ctx, readyChan, err := oto.NewContext(op)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
	}

	<-readyChan

	o.otoCtx = ctx
	o.sampleRate = sampleRate
	o.channels = channels
	o.startPlayer()

	log.Printf("Audio output initialized: %dHz, %d channels", sampleRate, channels)

	return nil
}

// startPlayer wires a fresh pipe into a persistent player for
// continuous streaming
func (o *Oto) startPlayer() {
	o.pipeReader, o.pipeWriter = io.Pipe()
	o.player = o.otoCtx.NewPlayer(o.pipeReader)
	o.player.Play()
	o.ready = true
}

// Reset discards buffered audio by replacing the pipe and player.
// The device context stays open.
func (o *Oto) Reset() error {
	if !o.ready {
		return nil
	}

	o.pipeWriter.Close()
	o.player.Close()
	o.pipeReader.Close()
	o.startPlayer()

	return nil
}

// Write streams s16le PCM bytes to the device, blocking until written
func (o *Oto) Write(pcm []byte) error {
	if !o.ready {
		return fmt.Errorf("%w: output not initialized", ErrDeviceUnavailable)
	}

	out := applyVolume(pcm, o.volume, o.muted)

	if _, err := o.pipeWriter.Write(out); err != nil {
		return fmt.Errorf("pipe write failed: %w", err)
	}

	return nil
}

// Close releases output resources
func (o *Oto) Close() error {
	if o.pipeWriter != nil {
		o.pipeWriter.Close()
		o.pipeWriter = nil
	}
	if o.player != nil {
		o.player.Close()
		o.player = nil
	}
	if o.pipeReader != nil {
		o.pipeReader.Close()
		o.pipeReader = nil
	}
	if o.otoCtx != nil {
		o.otoCtx.Suspend()
	}
	o.ready = false
	return nil
}

// SetVolume sets the volume (0-100)
func (o *Oto) SetVolume(volume int) {
	if volume < 0 {
		volume = 0
	}
	if volume > 100 {
		volume = 100
	}
	o.volume = volume
}

// SetMuted sets mute state
func (o *Oto) SetMuted(muted bool) {
	o.muted = muted
}

// GetVolume returns current volume
func (o *Oto) GetVolume() int {
	return o.volume
}

// IsMuted returns mute state
func (o *Oto) IsMuted() bool {
	return o.muted
}

// applyVolume scales s16le PCM bytes by the volume multiplier
func applyVolume(pcm []byte, volume int, muted bool) []byte {
	multiplier := getVolumeMultiplier(volume, muted)
	if multiplier == 1.0 {
		return pcm
	}

	out := make([]byte, len(pcm))
	for i := 0; i+1 < len(pcm); i += 2 {
		sample := int16(binary.LittleEndian.Uint16(pcm[i:]))
		scaled := int16(float64(sample) * multiplier)
		binary.LittleEndian.PutUint16(out[i:], uint16(scaled))
	}
	return out
}

// getVolumeMultiplier calculates volume multiplier
func getVolumeMultiplier(volume int, muted bool) float64 {
	if muted {
		return 0.0
	}
	return float64(volume) / 100.0
}
