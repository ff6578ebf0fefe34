// ABOUTME: MP3 audio decoder
// ABOUTME: Decodes complete MP3 payloads to PCM16 clips
package decode

import (
	"bytes"
	"fmt"
	"io"

	"github.com/hajimehoshi/go-mp3"

	"github.com/Cadence-Audio/cadence-go/pkg/audio"
)

// MP3Decoder decodes MP3 provider payloads
type MP3Decoder struct{}

// NewMP3 creates a new MP3 decoder
func NewMP3(format audio.Format) (Decoder, error) {
	if format.Codec != "mp3" {
		return nil, fmt.Errorf("invalid codec for MP3 decoder: %s", format.Codec)
	}
	return &MP3Decoder{}, nil
}

// Decode converts a complete MP3 payload to a clip.
// go-mp3 always emits 16-bit little-endian stereo.
func (d *MP3Decoder) Decode(data []byte) (audio.Clip, error) {
	dec, err := mp3.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return audio.Clip{}, fmt.Errorf("failed to create mp3 decoder: %w", err)
	}

	pcm, err := io.ReadAll(dec)
	if err != nil {
		return audio.Clip{}, fmt.Errorf("mp3 decode error: %w", err)
	}

	samples, err := Samples(pcm)
	if err != nil {
		return audio.Clip{}, err
	}

	format := audio.Format{
		Codec:      "pcm",
		SampleRate: dec.SampleRate(),
		Channels:   2,
	}
	return audio.NewClip(samples, format), nil
}

// Close releases decoder resources
func (d *MP3Decoder) Close() error {
	return nil
}
