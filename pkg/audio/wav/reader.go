// ABOUTME: WAV file reader built on go-audio
// ABOUTME: Loads arbitrary PCM WAV files into 16-bit clips
package wav

import (
	"fmt"
	"io"
	"os"

	goaudio "github.com/go-audio/audio"
	gowav "github.com/go-audio/wav"

	"github.com/Cadence-Audio/cadence-go/pkg/audio"
)

// Decode reads a PCM WAV stream into a clip. Unlike DecodeHeader it
// accepts any chunk layout go-audio understands, not just our canonical
// 44-byte output.
func Decode(r io.ReadSeeker) (audio.Clip, error) {
	dec := gowav.NewDecoder(r)
	dec.ReadInfo()
	if !dec.IsValidFile() {
		return audio.Clip{}, fmt.Errorf("%w: not a PCM wav stream", ErrInvalidFormat)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return audio.Clip{}, fmt.Errorf("failed to read wav payload: %w", err)
	}

	return clipFromIntBuffer(buf, int(dec.BitDepth))
}

// DecodeFile reads a WAV file from disk into a clip
func DecodeFile(path string) (audio.Clip, error) {
	f, err := os.Open(path)
	if err != nil {
		return audio.Clip{}, fmt.Errorf("failed to open wav file: %w", err)
	}
	defer f.Close()

	return Decode(f)
}

// clipFromIntBuffer converts a go-audio buffer to 16-bit samples,
// scaling other PCM widths down or up as needed
func clipFromIntBuffer(buf *goaudio.IntBuffer, bitDepth int) (audio.Clip, error) {
	if buf == nil || buf.Format == nil {
		return audio.Clip{}, fmt.Errorf("%w: empty pcm buffer", ErrInvalidFormat)
	}

	shift := uint(0)
	switch bitDepth {
	case 16:
	case 24:
		shift = 8
	case 32:
		shift = 16
	default:
		return audio.Clip{}, fmt.Errorf("%w: unsupported bit depth %d", ErrInvalidFormat, bitDepth)
	}

	samples := make([]int16, len(buf.Data))
	for i, v := range buf.Data {
		samples[i] = int16(v >> shift)
	}

	format := audio.Format{
		Codec:      "pcm",
		SampleRate: buf.Format.SampleRate,
		Channels:   buf.Format.NumChannels,
	}
	return audio.NewClip(samples, format), nil
}
