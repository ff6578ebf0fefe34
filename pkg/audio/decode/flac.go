// ABOUTME: FLAC audio decoder
// ABOUTME: Decodes complete FLAC payloads to PCM16 clips
package decode

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/mewkiz/flac"

	"github.com/Cadence-Audio/cadence-go/pkg/audio"
)

// FLACDecoder decodes FLAC provider payloads
type FLACDecoder struct{}

// NewFLAC creates a new FLAC decoder
func NewFLAC(format audio.Format) (Decoder, error) {
	if format.Codec != "flac" {
		return nil, fmt.Errorf("invalid codec for FLAC decoder: %s", format.Codec)
	}
	return &FLACDecoder{}, nil
}

// Decode converts a complete FLAC payload to a clip, interleaving
// subframe channels and scaling samples to 16-bit
func (d *FLACDecoder) Decode(data []byte) (audio.Clip, error) {
	stream, err := flac.New(bytes.NewReader(data))
	if err != nil {
		return audio.Clip{}, fmt.Errorf("failed to parse flac stream: %w", err)
	}
	defer stream.Close()

	shift, err := bitShift16(int(stream.Info.BitsPerSample))
	if err != nil {
		return audio.Clip{}, err
	}

	channels := int(stream.Info.NChannels)
	var samples []int16

	for {
		frame, err := stream.ParseNext()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return audio.Clip{}, fmt.Errorf("flac decode error: %w", err)
		}

		n := len(frame.Subframes[0].Samples)
		for i := 0; i < n; i++ {
			for ch := 0; ch < channels; ch++ {
				samples = append(samples, scale16(frame.Subframes[ch].Samples[i], shift))
			}
		}
	}

	format := audio.Format{
		Codec:      "pcm",
		SampleRate: int(stream.Info.SampleRate),
		Channels:   channels,
	}
	return audio.NewClip(samples, format), nil
}

// Close releases decoder resources
func (d *FLACDecoder) Close() error {
	return nil
}

// bitShift16 returns the right-shift that maps the source bit depth
// onto 16-bit samples. Negative means shift left.
func bitShift16(bits int) (int, error) {
	switch bits {
	case 8:
		return -8, nil
	case 16:
		return 0, nil
	case 24:
		return 8, nil
	case 32:
		return 16, nil
	default:
		return 0, fmt.Errorf("unsupported flac bit depth: %d", bits)
	}
}

func scale16(v int32, shift int) int16 {
	if shift < 0 {
		return int16(v << uint(-shift))
	}
	return int16(v >> uint(shift))
}
