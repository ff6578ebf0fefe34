// ABOUTME: Entry point for the Cadence speech player
// ABOUTME: Parses CLI flags and starts the speaker application
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Cadence-Audio/cadence-go/internal/app"
	"github.com/Cadence-Audio/cadence-go/internal/discovery"
	"github.com/Cadence-Audio/cadence-go/internal/ui"
	"github.com/Cadence-Audio/cadence-go/internal/version"
)

var (
	serverAddr = flag.String("server", "", "Synthesis server address (skip mDNS discovery)")
	voice      = flag.String("voice", "", "Provider voice identifier")
	apiKey     = flag.String("api-key", "", "Provider API key (default: CADENCE_API_KEY env)")
	rate       = flag.Float64("rate", 1.0, "Playback speed multiplier (tested range 0.5-2.0)")
	pitch      = flag.Float64("pitch", 0, "Pitch offset in semitones (tested range -12..12)")
	text       = flag.String("text", "", "Speak this text once and exit")
	outFile    = flag.String("out", "", "Also save the synthesized clip to this WAV file")
	wavFile    = flag.String("wav", "", "Play a local WAV file instead of synthesizing")
	stream     = flag.Bool("stream", false, "Use the WebSocket streaming transport")
	logFile    = flag.String("log-file", "cadence-speaker.log", "Log file path")
	noTUI      = flag.Bool("no-tui", false, "Disable TUI, use streaming logs instead")
)

func main() {
	flag.Parse()

	oneShot := *text != "" || *wavFile != ""
	useTUI := !*noTUI && !oneShot

	// Set up logging
	f, err := os.OpenFile(*logFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		log.Fatalf("error opening log file: %v", err)
	}
	defer func() { _ = f.Close() }()

	if useTUI {
		// TUI mode: log only to file
		log.SetOutput(f)
	} else {
		log.SetOutput(io.MultiWriter(os.Stdout, f))
	}

	key := *apiKey
	if key == "" {
		key = os.Getenv("CADENCE_API_KEY")
	}

	log.Printf("Starting %s %s", version.Product, version.Version)

	// Find a synthesis server unless one was given
	address := *serverAddr
	if address == "" && *wavFile == "" {
		log.Printf("Starting synthesis server discovery...")
		disc := discovery.NewManager()
		disc.Browse()

		select {
		case server := <-disc.Servers():
			address = fmt.Sprintf("%s:%d", server.Host, server.Port)
			log.Printf("Discovered synthesis server at %s", address)
		case <-time.After(10 * time.Second):
			log.Fatalf("No synthesis server found after 10 seconds")
		}
		disc.Stop()
	}

	// TUI setup
	var tuiProg *tea.Program
	var ctrl *ui.Control

	if useTUI {
		ctrl = ui.NewControl()
		tuiProg, err = ui.Run(ctrl, *rate, *pitch)
		if err != nil {
			log.Fatalf("Failed to start TUI: %v", err)
		}
	}

	updateTUI := func(msg ui.StatusMsg) {
		if tuiProg != nil {
			tuiProg.Send(msg)
		}
	}

	finished := make(chan struct{}, 1)

	speaker, err := app.New(app.Config{
		ServerAddr: address,
		APIKey:     key,
		Voice:      *voice,
		Rate:       *rate,
		Pitch:      *pitch,
		Stream:     *stream,
		OnFinished: func() {
			updateTUI(ui.StatusMsg{State: "idle"})
			select {
			case finished <- struct{}{}:
			default:
			}
		},
		OnError: func(err error) {
			log.Printf("Playback error: %v", err)
			updateTUI(ui.StatusMsg{State: "idle", Err: err.Error()})
		},
	})
	if err != nil {
		log.Fatalf("Failed to create speaker: %v", err)
	}
	defer speaker.Close()

	if oneShot {
		runOnce(speaker, finished)
		return
	}

	// Bridge TUI commands to the speaker
	go handleCommands(speaker, ctrl, updateTUI)

	// Handle shutdown signals. Exactly one receiver drains the channel
	// in each mode, so a single signal always tears the process down.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	if tuiProg != nil {
		go awaitShutdown(sigChan, speaker, tuiProg)
		if _, err := tuiProg.Run(); err != nil {
			log.Fatalf("TUI error: %v", err)
		}
		return
	}

	// Headless interactive mode has nothing to drive it; block here
	awaitShutdown(sigChan, speaker, nil)
}

// awaitShutdown blocks until a shutdown signal arrives, then tears the
// application down
func awaitShutdown(sigChan <-chan os.Signal, speaker *app.Speaker, tuiProg *tea.Program) {
	<-sigChan
	log.Printf("Shutting down...")
	speaker.Close()
	if tuiProg != nil {
		tuiProg.Quit()
	}
}

// runOnce speaks a single text or file, waits for completion, and exits
func runOnce(speaker *app.Speaker, finished chan struct{}) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	var err error
	if *wavFile != "" {
		err = speaker.PlayFile(*wavFile)
	} else {
		err = speaker.Speak(ctx, *text)
	}
	if err != nil {
		log.Fatalf("Speak failed: %v", err)
	}

	if *outFile != "" && *wavFile == "" {
		if err := speaker.SaveWAV(*outFile); err != nil {
			log.Fatalf("Save failed: %v", err)
		}
	}

	select {
	case <-finished:
	case <-time.After(5 * time.Minute):
		log.Printf("Playback timed out")
	}
}

// handleCommands applies TUI commands to the speaker
func handleCommands(speaker *app.Speaker, ctrl *ui.Control, updateTUI func(ui.StatusMsg)) {
	if ctrl == nil {
		return
	}

	for cmd := range ctrl.Commands {
		switch {
		case cmd.Quit:
			speaker.Close()
			return

		case cmd.Speak != "":
			go func(text string) {
				ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
				defer cancel()

				if err := speaker.Speak(ctx, text); err != nil {
					log.Printf("Speak failed: %v", err)
					updateTUI(ui.StatusMsg{Err: err.Error()})
					return
				}
				updateTUI(ui.StatusMsg{State: "playing", ClipInfo: text})
			}(cmd.Speak)

		case cmd.Replay:
			if err := speaker.Replay(); err != nil {
				updateTUI(ui.StatusMsg{Err: err.Error()})
			} else {
				updateTUI(ui.StatusMsg{State: "playing"})
			}

		case cmd.Stop:
			speaker.Stop()
			updateTUI(ui.StatusMsg{State: "idle"})

		case cmd.SetRate != nil:
			speaker.SetRate(*cmd.SetRate)

		case cmd.SetPitch != nil:
			speaker.SetPitch(*cmd.SetPitch)

		case cmd.SetVolume != nil:
			speaker.SetVolume(*cmd.SetVolume)
		}
	}
}
