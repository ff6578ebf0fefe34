// ABOUTME: Audio output interface definition
// ABOUTME: Minimal open/write/close capability for playback backends
package output

import "errors"

// ErrDeviceUnavailable indicates the output device could not be
// acquired or initialized
var ErrDeviceUnavailable = errors.New("audio device unavailable")

// Output represents an audio output device. Writes block until the
// device has accepted the bytes, so teardown after the last write is
// always synchronous.
type Output interface {
	// Open initializes the device for s16le PCM at the given format
	Open(sampleRate, channels int) error

	// Write streams little-endian 16-bit PCM bytes to the device
	Write(pcm []byte) error

	// Reset discards audio buffered in the device path without
	// releasing the device. Called when playback is torn down
	// mid-clip so a stale tail never plays behind the next session.
	Reset() error

	// Close releases device resources
	Close() error
}
