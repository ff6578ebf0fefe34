// ABOUTME: Linear-interpolation sample rate conversion for decoded clips
// ABOUTME: Conforms arbitrary-format audio to the playback pipeline format
package resample

import (
	"fmt"

	"github.com/Cadence-Audio/cadence-go/pkg/audio"
)

// Resampler converts interleaved s16 audio between sample rates using
// linear interpolation.
type Resampler struct {
	inputRate  int
	outputRate int
	channels   int
	ratio      float64
	position   float64
}

// New creates a resampler for the given rates and channel count.
func New(inputRate, outputRate, channels int) *Resampler {
	return &Resampler{
		inputRate:  inputRate,
		outputRate: outputRate,
		channels:   channels,
		ratio:      float64(inputRate) / float64(outputRate),
	}
}

// Resample fills output with interpolated frames drawn from input and
// returns the number of samples written. Both slices hold interleaved
// samples; the fractional read position carries across calls.
func (r *Resampler) Resample(input []int16, output []int16) int {
	if len(input) == 0 {
		return 0
	}

	inputFrames := len(input) / r.channels
	outputFrames := len(output) / r.channels

	outIdx := 0
	for outIdx < outputFrames {
		inputPos := r.position
		inputIdx := int(inputPos)
		if inputIdx >= inputFrames-1 {
			break
		}

		frac := inputPos - float64(inputIdx)
		for ch := 0; ch < r.channels; ch++ {
			s1 := float64(input[inputIdx*r.channels+ch])
			s2 := float64(input[(inputIdx+1)*r.channels+ch])
			output[outIdx*r.channels+ch] = int16(s1*(1.0-frac) + s2*frac)
		}

		outIdx++
		r.position += r.ratio
	}

	// Keep only the fractional part for the next chunk.
	r.position -= float64(int(r.position))

	return outIdx * r.channels
}

// Reset clears the fractional read position.
func (r *Resampler) Reset() {
	r.position = 0.0
}

// Conform converts a clip to the target format, downmixing to mono and
// resampling as needed. Clips already matching the target are returned
// unchanged.
func Conform(clip audio.Clip, target audio.Format) (audio.Clip, error) {
	if !clip.Format.Valid() {
		return audio.Clip{}, fmt.Errorf("conform: invalid source format %+v", clip.Format)
	}
	if !target.Valid() {
		return audio.Clip{}, fmt.Errorf("conform: invalid target format %+v", target)
	}
	if clip.Format.SampleRate == target.SampleRate && clip.Format.Channels == target.Channels {
		return clip, nil
	}

	samples := clip.Samples
	channels := clip.Format.Channels
	if channels != target.Channels {
		if target.Channels != 1 {
			return audio.Clip{}, fmt.Errorf("conform: unsupported channel conversion %d -> %d", channels, target.Channels)
		}
		samples = downmix(samples, channels)
		channels = 1
	}

	if clip.Format.SampleRate != target.SampleRate {
		r := New(clip.Format.SampleRate, target.SampleRate, channels)
		outFrames := int(float64(len(samples)/channels) * float64(target.SampleRate) / float64(clip.Format.SampleRate))
		out := make([]int16, outFrames*channels)
		n := r.Resample(samples, out)
		samples = out[:n]
	}

	return audio.Clip{
		Samples: samples,
		Format: audio.Format{
			Codec:      clip.Format.Codec,
			SampleRate: target.SampleRate,
			Channels:   target.Channels,
		},
	}, nil
}

// downmix averages interleaved channels into a mono stream.
func downmix(samples []int16, channels int) []int16 {
	frames := len(samples) / channels
	out := make([]int16, frames)
	for f := 0; f < frames; f++ {
		var sum int
		for ch := 0; ch < channels; ch++ {
			sum += int(samples[f*channels+ch])
		}
		out[f] = int16(sum / channels)
	}
	return out
}
