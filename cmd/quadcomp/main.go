// Command quadcomp renders a YAML frame description with the software
// compositor and writes the result as PNG.
//
// Usage:
//
//	quadcomp -frame frame.yaml -out frame.png [-config settings.toml] [-watch]
//
// With -watch the frame is re-rendered every time the description changes,
// until interrupted.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gogpu/compositor"
)

func main() {
	var (
		frame   = flag.String("frame", "frame.yaml", "frame description")
		out     = flag.String("out", "frame.png", "output PNG file")
		config  = flag.String("config", "", "TOML settings file")
		hud     = flag.Bool("hud", false, "draw the statistics overlay")
		debug   = flag.Bool("debug-colors", false, "draw debug clear and fallback colors")
		watch   = flag.Bool("watch", false, "re-render when the frame description changes")
		verbose = flag.Bool("v", false, "log debug messages")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	compositor.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	settings := compositor.DefaultSettings()
	if *config != "" {
		var err error
		if settings, err = compositor.LoadSettings(*config); err != nil {
			log.Fatalf("quadcomp: %v", err)
		}
	}
	settings.ShowHUD = settings.ShowHUD || *hud
	settings.DebugColors = settings.DebugColors || *debug

	a, err := newApp(settings, *out)
	if err != nil {
		log.Fatalf("quadcomp: %v", err)
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.render(ctx, *frame); err != nil {
		if !*watch {
			log.Fatalf("quadcomp: %v", err)
		}
		log.Printf("quadcomp: %v", err)
	}
	if *watch {
		if err := a.watch(ctx, *frame); err != nil {
			log.Fatalf("quadcomp: %v", err)
		}
	}
}
