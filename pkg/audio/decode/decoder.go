// ABOUTME: Decoder interface definition
// ABOUTME: Common interface for provider audio payload decoders
package decode

import (
	"fmt"

	"github.com/Cadence-Audio/cadence-go/pkg/audio"
)

// Decoder converts a complete provider payload into a PCM16 clip
type Decoder interface {
	// Decode converts encoded audio data to a clip
	Decode(data []byte) (audio.Clip, error)

	// Close releases decoder resources
	Close() error
}

// New creates a decoder for the specified format
func New(format audio.Format) (Decoder, error) {
	switch format.Codec {
	case "pcm":
		return NewPCM(format)
	case "mp3":
		return NewMP3(format)
	case "flac":
		return NewFLAC(format)
	case "opus":
		return NewOpus(format)
	default:
		return nil, fmt.Errorf("unsupported codec: %s", format.Codec)
	}
}
