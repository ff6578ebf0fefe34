// ABOUTME: Entry point for the cadence-encode tool
// ABOUTME: Converts base64 or raw PCM payloads into WAV files
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/Cadence-Audio/cadence-go/pkg/audio"
	"github.com/Cadence-Audio/cadence-go/pkg/audio/decode"
	"github.com/Cadence-Audio/cadence-go/pkg/audio/wav"
)

var (
	inFile     = flag.String("in", "", "Input file (default: stdin)")
	outFile    = flag.String("out", "out.wav", "Output WAV file")
	raw        = flag.Bool("raw", false, "Input is raw s16le bytes, not base64")
	sampleRate = flag.Int("sample-rate", audio.DefaultSampleRate, "Sample rate in Hz")
	channels   = flag.Int("channels", audio.DefaultChannels, "Channel count")
)

func main() {
	flag.Parse()

	var in io.Reader = os.Stdin
	if *inFile != "" {
		f, err := os.Open(*inFile)
		if err != nil {
			log.Fatalf("failed to open input: %v", err)
		}
		defer f.Close()
		in = f
	}

	payload, err := io.ReadAll(in)
	if err != nil {
		log.Fatalf("failed to read input: %v", err)
	}

	data := payload
	if !*raw {
		data, err = decode.FromBase64(strings.TrimSpace(string(payload)))
		if err != nil {
			log.Fatalf("failed to decode input: %v", err)
		}
	}

	samples, err := decode.Samples(data)
	if err != nil {
		log.Fatalf("failed to read samples: %v", err)
	}

	format := audio.Format{Codec: "pcm", SampleRate: *sampleRate, Channels: *channels}
	buf, err := wav.Encode(audio.NewClip(samples, format))
	if err != nil {
		log.Fatalf("failed to encode wav: %v", err)
	}

	if err := os.WriteFile(*outFile, buf, 0644); err != nil {
		log.Fatalf("failed to write output: %v", err)
	}

	fmt.Printf("Wrote %s: %d samples, %d bytes\n", *outFile, len(samples), len(buf))
}
