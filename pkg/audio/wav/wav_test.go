// ABOUTME: Tests for the WAV container encoder
// ABOUTME: Verifies header layout, byte order, and round-trip framing
package wav

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	gowav "github.com/go-audio/wav"

	"github.com/Cadence-Audio/cadence-go/pkg/audio"
)

func TestEncodeFraming(t *testing.T) {
	tests := []struct {
		name    string
		samples int
	}{
		{"empty", 0},
		{"one sample", 1},
		{"one second", 24000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clip := audio.NewClip(make([]int16, tt.samples), audio.DefaultFormat())

			buf, err := Encode(clip)
			if err != nil {
				t.Fatalf("encode failed: %v", err)
			}

			wantLen := HeaderSize + tt.samples*2
			if len(buf) != wantLen {
				t.Errorf("expected %d bytes, got %d", wantLen, len(buf))
			}

			fileSize := binary.LittleEndian.Uint32(buf[4:8])
			if fileSize != uint32(36+tt.samples*2) {
				t.Errorf("expected file size field %d, got %d", 36+tt.samples*2, fileSize)
			}

			dataSize := binary.LittleEndian.Uint32(buf[40:44])
			if dataSize != uint32(tt.samples*2) {
				t.Errorf("expected data size field %d, got %d", tt.samples*2, dataSize)
			}
		})
	}
}

func TestEncodeMarkers(t *testing.T) {
	clip := audio.NewClip([]int16{0, 1, 2, 3}, audio.DefaultFormat())

	buf, err := Encode(clip)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	markers := []struct {
		offset int
		want   string
	}{
		{0, "RIFF"},
		{8, "WAVE"},
		{12, "fmt "},
		{36, "data"},
	}

	for _, m := range markers {
		got := string(buf[m.offset : m.offset+4])
		if got != m.want {
			t.Errorf("offset %d: expected %q, got %q", m.offset, m.want, got)
		}
	}
}

func TestEncodeFormatFields(t *testing.T) {
	clip := audio.NewClip(nil, audio.Format{SampleRate: 24000, Channels: 1})

	buf, err := Encode(clip)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	if v := binary.LittleEndian.Uint32(buf[16:20]); v != 16 {
		t.Errorf("expected fmt chunk size 16, got %d", v)
	}
	if v := binary.LittleEndian.Uint16(buf[20:22]); v != 1 {
		t.Errorf("expected PCM format code 1, got %d", v)
	}
	if v := binary.LittleEndian.Uint16(buf[22:24]); v != 1 {
		t.Errorf("expected 1 channel, got %d", v)
	}
	if v := binary.LittleEndian.Uint32(buf[24:28]); v != 24000 {
		t.Errorf("expected sample rate 24000, got %d", v)
	}
	if v := binary.LittleEndian.Uint32(buf[28:32]); v != 48000 {
		t.Errorf("expected byte rate 48000, got %d", v)
	}
	if v := binary.LittleEndian.Uint16(buf[32:34]); v != 2 {
		t.Errorf("expected block align 2, got %d", v)
	}
	if v := binary.LittleEndian.Uint16(buf[34:36]); v != 16 {
		t.Errorf("expected 16 bits per sample, got %d", v)
	}
}

func TestEncodeByteOrder(t *testing.T) {
	tests := []struct {
		name   string
		sample int16
		want   [2]byte
	}{
		{"negative one", -1, [2]byte{0xFF, 0xFF}},
		{"two fifty six", 256, [2]byte{0x00, 0x01}},
		{"zero", 0, [2]byte{0x00, 0x00}},
		{"min", -32768, [2]byte{0x00, 0x80}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clip := audio.NewClip([]int16{tt.sample}, audio.DefaultFormat())

			buf, err := Encode(clip)
			if err != nil {
				t.Fatalf("encode failed: %v", err)
			}

			if buf[44] != tt.want[0] || buf[45] != tt.want[1] {
				t.Errorf("expected payload %02X %02X, got %02X %02X",
					tt.want[0], tt.want[1], buf[44], buf[45])
			}
		})
	}
}

func TestEncodeRejectsInvalidFormat(t *testing.T) {
	tests := []struct {
		name   string
		format audio.Format
	}{
		{"zero sample rate", audio.Format{SampleRate: 0, Channels: 1}},
		{"negative sample rate", audio.Format{SampleRate: -24000, Channels: 1}},
		{"zero channels", audio.Format{SampleRate: 24000, Channels: 0}},
		{"negative channels", audio.Format{SampleRate: 24000, Channels: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Encode(audio.NewClip([]int16{1, 2}, tt.format))
			if !errors.Is(err, ErrInvalidFormat) {
				t.Errorf("expected ErrInvalidFormat, got %v", err)
			}
		})
	}
}

func TestDecodeHeaderRoundTrip(t *testing.T) {
	format := audio.Format{SampleRate: 24000, Channels: 1}
	samples := []int16{100, -100, 32767, -32768, 0}
	clip := audio.NewClip(samples, format)

	buf, err := Encode(clip)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	got, count, err := DecodeHeader(buf)
	if err != nil {
		t.Fatalf("decode header failed: %v", err)
	}

	if got.SampleRate != format.SampleRate {
		t.Errorf("expected sample rate %d, got %d", format.SampleRate, got.SampleRate)
	}
	if got.Channels != format.Channels {
		t.Errorf("expected %d channels, got %d", format.Channels, got.Channels)
	}
	if count != len(samples) {
		t.Errorf("expected %d samples, got %d", len(samples), count)
	}
}

func TestDecodeHeaderRejectsGarbage(t *testing.T) {
	tests := []struct {
		name string
		buf  []byte
	}{
		{"short", []byte{1, 2, 3}},
		{"wrong marker", bytes.Repeat([]byte{0x42}, 64)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := DecodeHeader(tt.buf); !errors.Is(err, ErrInvalidFormat) {
				t.Errorf("expected ErrInvalidFormat, got %v", err)
			}
		})
	}
}

// TestEncodeParsesExternally cross-checks the encoder against an
// independent RIFF reader.
func TestEncodeParsesExternally(t *testing.T) {
	samples := []int16{0, 1000, -1000, 32767, -32768, 42}
	clip := audio.NewClip(samples, audio.DefaultFormat())

	buf, err := Encode(clip)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	dec := gowav.NewDecoder(bytes.NewReader(buf))
	dec.ReadInfo()
	if !dec.IsValidFile() {
		t.Fatal("external decoder rejected encoded output")
	}

	if dec.SampleRate != 24000 {
		t.Errorf("expected sample rate 24000, got %d", dec.SampleRate)
	}
	if dec.NumChans != 1 {
		t.Errorf("expected 1 channel, got %d", dec.NumChans)
	}
	if dec.BitDepth != 16 {
		t.Errorf("expected bit depth 16, got %d", dec.BitDepth)
	}

	pcm, err := dec.FullPCMBuffer()
	if err != nil {
		t.Fatalf("external decoder failed to read payload: %v", err)
	}
	if len(pcm.Data) != len(samples) {
		t.Fatalf("expected %d samples, got %d", len(samples), len(pcm.Data))
	}
	for i, want := range samples {
		if pcm.Data[i] != int(want) {
			t.Errorf("sample %d: expected %d, got %d", i, want, pcm.Data[i])
		}
	}
}
