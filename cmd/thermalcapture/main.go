// Command thermalcapture is a thin test harness over the flirone package:
// it opens a live or offline stream and reports frames and diagnostics as
// they arrive. Palette mapping, fusion, and on-screen display are out of
// scope for both the library and this tool (SPEC_FULL.md §1).
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/e7canasta/flirone-core"
)

const version = "v0.1.0"

func main() {
	live := flag.Bool("live", false, "Open the live USB device instead of replaying a capture")
	offlineDir := flag.String("offline-dir", "", "Directory of captured chunk_*.txt files to replay")
	repeat := flag.Int("repeat", 0, "Offline replay passes: 0 = once, N>0 = N passes, -1 = infinite")
	recordDir := flag.String("record-dir", "", "Tee the live stream's chunks to this directory")
	maxFrames := flag.Int("max-frames", 0, "Stop after this many frames (0 = unlimited)")
	statsInterval := flag.Int("stats-interval", 10, "Seconds between diagnostics reports")
	debug := flag.Bool("debug", false, "Enable debug logging")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("thermalcapture %s\n", version)
		os.Exit(0)
	}

	logLevel := slog.LevelInfo
	if *debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))

	if !*live && *offlineDir == "" {
		fmt.Fprintln(os.Stderr, "Error: either -live or -offline-dir is required")
		flag.PrintDefaults()
		os.Exit(1)
	}

	var stream *flirone.Stream
	var err error
	if *live {
		stream, err = flirone.OpenLive(flirone.LiveOptions{RecordDir: *recordDir})
	} else {
		stream, err = flirone.OpenOffline(*offlineDir, flirone.OfflineOptions{Repeat: *repeat})
	}
	if err != nil {
		log.Fatalf("Failed to open stream: %v", err)
	}
	defer stream.Close()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	done := make(chan struct{})
	go func() {
		<-sigChan
		fmt.Println("\nReceived interrupt, closing stream...")
		stream.Close()
		close(done)
	}()

	statsTicker := time.NewTicker(time.Duration(*statsInterval) * time.Second)
	defer statsTicker.Stop()

	frameCount := 0
	startedAt := time.Now()

	for {
		select {
		case <-done:
			return
		case <-statsTicker.C:
			printDiagnostics(stream.Diagnostics(), frameCount, time.Since(startedAt))
		default:
		}

		frame, err := stream.NextFrame()
		if errors.Is(err, flirone.ErrEndOfStream) {
			fmt.Println("End of stream.")
			break
		}
		if err != nil {
			log.Fatalf("Stream error: %v", err)
		}

		frameCount++
		fmt.Printf("[%s] frame idx=%-6d thermal=%v visible=%v telemetry=%v edge_mask=%v legacy_agc=%v\n",
			time.Now().Format("15:04:05"),
			frame.Idx,
			frame.Thermal != nil,
			frame.Visible != nil,
			frame.Telemetry != nil,
			frame.EdgeMask != nil,
			frame.LegacyAGC != nil,
		)
		frame.Close()

		if *maxFrames > 0 && frameCount >= *maxFrames {
			fmt.Printf("Reached max-frames (%d), stopping.\n", *maxFrames)
			break
		}
	}

	printDiagnostics(stream.Diagnostics(), frameCount, time.Since(startedAt))
}

func printDiagnostics(d flirone.Diagnostics, frameCount int, uptime time.Duration) {
	fmt.Printf("--- diagnostics (uptime %s) ---\n", uptime.Round(time.Second))
	fmt.Printf("frames emitted:     %d\n", frameCount)
	fmt.Printf("thermal desyncs:    %d\n", d.DesyncThermal)
	fmt.Printf("visible desyncs:    %d\n", d.DesyncVisible)
	fmt.Printf("telemetry desyncs:  %d\n", d.DesyncTelemetry)
	fmt.Printf("edge mask desyncs:  %d\n", d.DesyncEdgeMask)
	fmt.Printf("legacy agc frames:  %d\n", d.AgcLegacyFrames)
	fmt.Printf("unknown chunks:     %d\n", d.UnknownChunks)
}
