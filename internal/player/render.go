// ABOUTME: Rate and pitch transform for decoded clips
// ABOUTME: Uses sonic time-stretching so the two controls stay independent
package player

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"

	sonic "github.com/nakat-t/sonic-go"

	"github.com/Cadence-Audio/cadence-go/pkg/audio"
)

// CentsPerSemitone converts the public semitone control to the cents
// value the pitch shifter works in
const CentsPerSemitone = 100

// pitchRatio converts a semitone offset to the frequency ratio sonic
// expects. +12 semitones doubles frequency, -12 halves it.
func pitchRatio(semitones float64) float64 {
	cents := semitones * CentsPerSemitone
	return math.Pow(2, cents/1200)
}

// Render applies the rate and pitch transform to a clip and returns
// s16le bytes ready for the output device. Rate stretches time without
// changing pitch; semitones shift pitch without changing duration.
// Values outside the tested ranges (0.5-2.0, ±12) are passed through
// to sonic unclamped.
func Render(clip audio.Clip, rate, semitones float64) ([]byte, error) {
	src := pcmBytes(clip.Samples)

	// Identity parameters emit the input verbatim
	if rate == 1.0 && semitones == 0 {
		return src, nil
	}

	var out bytes.Buffer
	transformer, err := sonic.NewTransformer(&out, clip.Format.SampleRate, sonic.AudioFormatPCM,
		sonic.WithSpeed(float32(rate)),
		sonic.WithPitch(float32(pitchRatio(semitones))),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create transformer: %w", err)
	}

	if _, err := transformer.Write(src); err != nil {
		return nil, fmt.Errorf("transform failed: %w", err)
	}
	transformer.Flush()

	return out.Bytes(), nil
}

// pcmBytes serializes samples to little-endian 16-bit bytes
func pcmBytes(samples []int16) []byte {
	out := make([]byte, len(samples)*2)
	for i, sample := range samples {
		binary.LittleEndian.PutUint16(out[i*2:], uint16(sample))
	}
	return out
}
