package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/handiism/youtube-player/internal/app"
	"github.com/handiism/youtube-player/internal/captions"
	"github.com/handiism/youtube-player/internal/config"
	"github.com/handiism/youtube-player/internal/download"
	ioutils "github.com/handiism/youtube-player/internal/io"
	"github.com/handiism/youtube-player/internal/logging"
	"github.com/handiism/youtube-player/internal/model"
	"github.com/handiism/youtube-player/internal/player"
)

func main() {
	// Command line flags
	var (
		urlFlag      = flag.String("url", "", "YouTube video URL or ID")
		outputFlag   = flag.String("output", "", "Output directory (overrides config)")
		configFlag   = flag.String("config", config.DefaultPath(), "Path to config file")
		captionsFlag = flag.Bool("captions", false, "Also save captions as SubRip")
		langFlag     = flag.String("lang", "", "Preferred caption language (overrides config)")
		playFlag     = flag.Bool("play", false, "Play the video with the configured player instead of downloading")
		verboseFlag  = flag.Bool("verbose", false, "Show verbose output")
	)

	flag.Parse()

	input := *urlFlag
	if input == "" && flag.NArg() > 0 {
		input = flag.Arg(0)
	}
	if input == "" {
		fmt.Println("YouTube Player - Play and download YouTube videos")
		fmt.Println()
		fmt.Println("Usage:")
		fmt.Println("  ytplayer-dl -url <URL> [options]")
		fmt.Println("  ytplayer-dl <URL> [options]")
		fmt.Println()
		fmt.Println("For interactive mode, use: ytplayer-tui")
		fmt.Println()
		flag.PrintDefaults()
		os.Exit(1)
	}

	settings, err := config.Load(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	// Apply flags
	if *outputFlag != "" {
		settings.DownloadsPath = *outputFlag
	}
	if *langFlag != "" {
		settings.CaptionLanguage = *langFlag
	}
	if *verboseFlag {
		settings.LogLevel = "debug"
	}

	// Handle interrupts
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\nInterrupted, cancelling...")
		cancel()
	}()

	logger := logging.New(settings.LogLevel, os.Stderr, logging.FormatText)

	var sink player.Sink = player.NewMemorySink()
	if *playFlag {
		sink = player.NewExecSink(settings.PlayerCommand, settings.PlayerArgs, logging.Component(logger, "sink"))
	}
	a := app.New(settings, logger, sink)

	id, err := a.Client.ExtractID(input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Captions go next to the video, or into the downloads folder when only
	// playing.
	base := filepath.Join(settings.DownloadsPath, ioutils.SanitizeFileName(string(id)))
	if *playFlag {
		if err := play(ctx, a, id); err != nil {
			exit(ctx, err)
		}
	} else {
		path, err := fetch(ctx, a, id)
		if err != nil {
			exit(ctx, err)
		}
		base = strings.TrimSuffix(path, filepath.Ext(path))
	}

	if *captionsFlag {
		if err := saveCaptions(ctx, a, id, base); err != nil {
			exit(ctx, err)
		}
	}
}

func exit(ctx context.Context, err error) {
	if ctx.Err() != nil || errors.Is(err, model.ErrCancelled) {
		fmt.Println("\nCancelled.")
		os.Exit(130)
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

// play drives the scheduler until playback has started, then waits for the
// player process to exit.
func play(ctx context.Context, a *app.App, id model.Identifier) error {
	started := false
	a.Player.PlayByID(ctx, id, func(id model.Identifier) {
		started = true
		fmt.Printf("▶ Playing %s\n", id)
	})

	if err := a.Scheduler.Run(ctx, a.Settings.FrameInterval()); err != nil {
		return err
	}
	if !started {
		return fmt.Errorf("playback of %s did not start", id)
	}

	if sink, ok := a.Sink.(*player.ExecSink); ok {
		go func() {
			<-ctx.Done()
			sink.Stop()
		}()
		sink.Wait()
	}
	return nil
}

// fetch downloads id and returns the created file's path.
func fetch(ctx context.Context, a *app.App, id model.Identifier) (string, error) {
	fmt.Printf("📥 Downloading %s to %s\n", id, a.Settings.DownloadsPath)

	pending := a.StartDownload(ctx, download.Request{
		DestinationFolder: a.Settings.DownloadsPath,
		ID:                id,
		Progress: func(f float64) {
			fmt.Printf("\r   %5.1f%%", f*100)
		},
	})
	path, err := pending.Wait(ctx)
	fmt.Println()
	if err != nil {
		return "", err
	}
	if path == "" {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", errors.New("download failed, see log output")
	}

	fmt.Printf("✅ Saved %s\n", path)
	return path, nil
}

func saveCaptions(ctx context.Context, a *app.App, id model.Identifier, base string) error {
	track, err := a.StartCaptions(ctx, id).Wait(ctx)
	if err != nil {
		return err
	}
	if track == nil {
		fmt.Println("ℹ️  No captions available")
		return nil
	}

	if err := ioutils.EnsureDir(filepath.Dir(base)); err != nil {
		return err
	}
	path := captions.FileName(base, track)
	if err := ioutils.CreateScoped(path, func(f *os.File) error {
		return captions.WriteSRT(f, track)
	}); err != nil {
		return err
	}

	fmt.Printf("✅ Saved captions %s (%d cues)\n", path, len(track.Cues))
	return nil
}
