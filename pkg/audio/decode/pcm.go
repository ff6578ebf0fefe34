// ABOUTME: PCM byte-stream decoder
// ABOUTME: Decodes base64 payloads and raw bytes to little-endian int16 samples
package decode

import (
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/Cadence-Audio/cadence-go/pkg/audio"
)

var (
	// ErrInvalidEncoding indicates malformed base64 input
	ErrInvalidEncoding = errors.New("invalid base64 encoding")

	// ErrMalformedAudio indicates a byte buffer that cannot be read as PCM16
	ErrMalformedAudio = errors.New("malformed audio payload")
)

// FromBase64 decodes a base64 payload into raw bytes
func FromBase64(s string) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEncoding, err)
	}
	return data, nil
}

// Samples reinterprets a byte buffer as little-endian signed 16-bit samples.
// The buffer length must be even; a trailing incomplete sample is rejected.
func Samples(data []byte) ([]int16, error) {
	if len(data)%2 != 0 {
		return nil, fmt.Errorf("%w: odd byte length %d", ErrMalformedAudio, len(data))
	}

	samples := make([]int16, len(data)/2)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(data[i*2:]))
	}
	return samples, nil
}

// PCMDecoder decodes raw PCM16 payloads
type PCMDecoder struct {
	format audio.Format
}

// NewPCM creates a new PCM decoder
func NewPCM(format audio.Format) (Decoder, error) {
	if format.Codec != "pcm" {
		return nil, fmt.Errorf("invalid codec for PCM decoder: %s", format.Codec)
	}
	if !format.Valid() {
		return nil, fmt.Errorf("%w: sample rate %d, channels %d",
			ErrMalformedAudio, format.SampleRate, format.Channels)
	}

	return &PCMDecoder{format: format}, nil
}

// Decode converts PCM bytes to a clip
func (d *PCMDecoder) Decode(data []byte) (audio.Clip, error) {
	if len(data) == 0 {
		return audio.Clip{}, fmt.Errorf("%w: empty payload", ErrMalformedAudio)
	}

	samples, err := Samples(data)
	if err != nil {
		return audio.Clip{}, err
	}

	return audio.NewClip(samples, d.format), nil
}

// Close releases resources
func (d *PCMDecoder) Close() error {
	return nil
}
