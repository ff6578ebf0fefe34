// ABOUTME: Opus audio decoder
// ABOUTME: Decodes Opus packets to PCM16 clips
package decode

import (
	"fmt"

	"gopkg.in/hraban/opus.v2"

	"github.com/Cadence-Audio/cadence-go/pkg/audio"
)

// maxOpusFrame is the largest Opus frame: 120ms at 48kHz
const maxOpusFrame = 5760

// OpusDecoder decodes Opus provider payloads
type OpusDecoder struct {
	decoder *opus.Decoder
	format  audio.Format
}

// NewOpus creates a new Opus decoder
func NewOpus(format audio.Format) (Decoder, error) {
	if format.Codec != "opus" {
		return nil, fmt.Errorf("invalid codec for Opus decoder: %s", format.Codec)
	}

	dec, err := opus.NewDecoder(format.SampleRate, format.Channels)
	if err != nil {
		return nil, fmt.Errorf("failed to create opus decoder: %w", err)
	}

	return &OpusDecoder{decoder: dec, format: format}, nil
}

// Decode converts one Opus packet to a clip
func (d *OpusDecoder) Decode(data []byte) (audio.Clip, error) {
	pcm := make([]int16, maxOpusFrame*d.format.Channels)

	n, err := d.decoder.Decode(data, pcm)
	if err != nil {
		return audio.Clip{}, fmt.Errorf("opus decode failed: %w", err)
	}

	format := audio.Format{
		Codec:      "pcm",
		SampleRate: d.format.SampleRate,
		Channels:   d.format.Channels,
	}
	return audio.NewClip(pcm[:n*d.format.Channels], format), nil
}

// Close releases decoder resources
func (d *OpusDecoder) Close() error {
	return nil
}
