// ABOUTME: WAV container encoder for PCM16 clips
// ABOUTME: Writes the 44-byte RIFF header and little-endian payload
package wav

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/Cadence-Audio/cadence-go/pkg/audio"
)

// ErrInvalidFormat is returned when the clip format cannot produce a valid header
var ErrInvalidFormat = errors.New("invalid wav format")

// HeaderSize is the fixed RIFF/fmt/data header length for uncompressed PCM
const HeaderSize = 44

const (
	formatPCM     = 1
	bitsPerSample = 16
	fmtChunkSize  = 16
)

// Encode serializes a PCM16 clip into a complete WAV file buffer.
// The output is 44 + 2*len(samples) bytes. Sample values are copied
// verbatim and never inspected.
func Encode(clip audio.Clip) ([]byte, error) {
	if !clip.Format.Valid() {
		return nil, fmt.Errorf("%w: sample rate %d, channels %d",
			ErrInvalidFormat, clip.Format.SampleRate, clip.Format.Channels)
	}

	dataSize := len(clip.Samples) * audio.BytesPerSample
	buf := make([]byte, HeaderSize+dataSize)

	sampleRate := uint32(clip.Format.SampleRate)
	channels := uint16(clip.Format.Channels)
	blockAlign := channels * audio.BytesPerSample
	byteRate := sampleRate * uint32(blockAlign)

	copy(buf[0:4], "RIFF")
	binary.LittleEndian.PutUint32(buf[4:8], uint32(36+dataSize))
	copy(buf[8:12], "WAVE")

	copy(buf[12:16], "fmt ")
	binary.LittleEndian.PutUint32(buf[16:20], fmtChunkSize)
	binary.LittleEndian.PutUint16(buf[20:22], formatPCM)
	binary.LittleEndian.PutUint16(buf[22:24], channels)
	binary.LittleEndian.PutUint32(buf[24:28], sampleRate)
	binary.LittleEndian.PutUint32(buf[28:32], byteRate)
	binary.LittleEndian.PutUint16(buf[32:34], blockAlign)
	binary.LittleEndian.PutUint16(buf[34:36], bitsPerSample)

	copy(buf[36:40], "data")
	binary.LittleEndian.PutUint32(buf[40:44], uint32(dataSize))

	for i, sample := range clip.Samples {
		binary.LittleEndian.PutUint16(buf[HeaderSize+i*2:], uint16(sample))
	}

	return buf, nil
}

// DecodeHeader reads the format and sample count back from an encoded buffer.
// It only understands the canonical 44-byte layout Encode produces.
func DecodeHeader(buf []byte) (audio.Format, int, error) {
	if len(buf) < HeaderSize {
		return audio.Format{}, 0, fmt.Errorf("%w: buffer too short (%d bytes)", ErrInvalidFormat, len(buf))
	}

	if string(buf[0:4]) != "RIFF" || string(buf[8:12]) != "WAVE" {
		return audio.Format{}, 0, fmt.Errorf("%w: missing RIFF/WAVE markers", ErrInvalidFormat)
	}
	if string(buf[12:16]) != "fmt " || string(buf[36:40]) != "data" {
		return audio.Format{}, 0, fmt.Errorf("%w: missing fmt/data chunks", ErrInvalidFormat)
	}

	if code := binary.LittleEndian.Uint16(buf[20:22]); code != formatPCM {
		return audio.Format{}, 0, fmt.Errorf("%w: format code %d (want %d)", ErrInvalidFormat, code, formatPCM)
	}
	if bits := binary.LittleEndian.Uint16(buf[34:36]); bits != bitsPerSample {
		return audio.Format{}, 0, fmt.Errorf("%w: %d bits per sample (want %d)", ErrInvalidFormat, bits, bitsPerSample)
	}

	format := audio.Format{
		Codec:      "pcm",
		SampleRate: int(binary.LittleEndian.Uint32(buf[24:28])),
		Channels:   int(binary.LittleEndian.Uint16(buf[22:24])),
	}

	dataSize := binary.LittleEndian.Uint32(buf[40:44])
	return format, int(dataSize) / audio.BytesPerSample, nil
}
