// ABOUTME: Audio type definitions
// ABOUTME: Defines PCM formats and decoded clips
package audio

import (
	"fmt"
	"time"
)

const (
	// DefaultSampleRate is the rate synthesis providers deliver PCM at.
	DefaultSampleRate = 24000

	// DefaultChannels is mono, the only channel layout providers emit.
	DefaultChannels = 1

	// BytesPerSample for signed 16-bit PCM.
	BytesPerSample = 2
)

// Format describes a PCM stream format
type Format struct {
	Codec      string // "pcm", "mp3", "flac", "opus"
	SampleRate int
	Channels   int
}

// DefaultFormat returns the provider-side PCM format (24kHz mono s16le)
func DefaultFormat() Format {
	return Format{Codec: "pcm", SampleRate: DefaultSampleRate, Channels: DefaultChannels}
}

// Valid reports whether the format has usable rate and channel values
func (f Format) Valid() bool {
	return f.SampleRate > 0 && f.Channels > 0
}

// Clip represents decoded PCM audio, interleaved by channel
type Clip struct {
	Samples []int16
	Format  Format
}

// NewClip wraps samples in a clip with the given format
func NewClip(samples []int16, format Format) Clip {
	return Clip{Samples: samples, Format: format}
}

// Duration returns the playback time of the clip at rate 1.0
func (c Clip) Duration() time.Duration {
	if !c.Format.Valid() {
		return 0
	}
	frames := len(c.Samples) / c.Format.Channels
	return time.Duration(frames) * time.Second / time.Duration(c.Format.SampleRate)
}

// Frames returns the number of sample frames (samples per channel)
func (c Clip) Frames() int {
	if c.Format.Channels <= 0 {
		return 0
	}
	return len(c.Samples) / c.Format.Channels
}

// String describes the clip for logging
func (c Clip) String() string {
	return fmt.Sprintf("%d samples @ %dHz %dch (%v)",
		len(c.Samples), c.Format.SampleRate, c.Format.Channels, c.Duration())
}
