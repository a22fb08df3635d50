// Command sakura opens a window that types out a greeting as blooming
// cherry-blossom petals.
//
// Usage:
//
//	sakura [-config sakura.yaml] [-text "520/I love you"] [-device auto|desktop|mobile]
//	       [-audio track.mp3] [-autoplay steps.json] [-debug]
//
// Before the text is fully revealed any click, tap or key release skips to
// the end; afterwards the text can be edited by typing. Dragging orbits the
// camera around the text. F8 saves a
// screenshot, F9 toggles the music, F10 mutes, PageUp/PageDown change the
// volume and Escape quits.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/phanxgames/sakura"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "sakura:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("sakura", flag.ContinueOnError)
	var (
		configPath   = fs.String("config", "", "YAML config file")
		text         = fs.String("text", "", "greeting script (overrides config)")
		device       = fs.String("device", "", "device class: auto, desktop or mobile")
		audioPath    = fs.String("audio", "", "background track (.mp3 or .wav)")
		autoplayPath = fs.String("autoplay", "", "JSON autoplay script")
		exitAfter    = fs.Bool("exit", false, "quit when the autoplay script finishes")
		debug        = fs.Bool("debug", false, "show the stats overlay and log at debug level")
		seed         = fs.Uint64("seed", 0, "random seed (0 = random)")
		dumpConfig   = fs.Bool("dump-config", false, "print the effective config as YAML and exit")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := sakura.LoadConfig(*configPath)
	if err != nil {
		return err
	}
	applyFlags(&cfg, *text, *device, *audioPath, *debug, *seed)
	if err := cfg.Validate(); err != nil {
		return err
	}
	if *dumpConfig {
		out, err := cfg.Marshal()
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(out)
		return err
	}

	logger, closer := newLogger(cfg.Logging, os.Stderr)
	defer closer.Close()
	slog.SetDefault(logger)
	sakura.SetLogger(logger)

	var opts sakura.GameOptions
	if *autoplayPath != "" {
		data, err := os.ReadFile(*autoplayPath)
		if err != nil {
			return fmt.Errorf("read autoplay script: %w", err)
		}
		ap, err := sakura.LoadAutoplay(data)
		if err != nil {
			return err
		}
		opts.Autoplay = ap
		opts.QuitWhenDone = *exitAfter
	}

	g, err := sakura.NewGame(cfg, opts)
	if err != nil {
		return err
	}
	return sakura.Run(g)
}

// applyFlags layers non-empty flag values over cfg.
func applyFlags(cfg *sakura.Config, text, device, audioPath string, debug bool, seed uint64) {
	if text != "" {
		cfg.Script.Text = text
	}
	if device != "" {
		cfg.Display.Device = device
	}
	if audioPath != "" {
		cfg.Audio.Path = audioPath
	}
	if debug {
		cfg.Debug = true
		cfg.Logging.Level = "debug"
	}
	if seed != 0 {
		cfg.Seed = seed
	}
}
