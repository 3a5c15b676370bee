//go:build !nogpu

// Command hello draws a solid green sphere on a pale yellow background.
package main

import (
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/gogpu/wgpu/hal/noop"

	"github.com/gogpu/hellomesh"
)

func main() {
	var (
		width    = flag.Uint("width", 600, "drawable width")
		height   = flag.Uint("height", 600, "drawable height")
		snapshot = flag.String("snapshot", "hello.png", "save the presented frame (.png, .bmp, .tif); empty to skip")
		kind     = flag.String("surface", "", "surface kind from the surface registry (default best available)")
		useNoop  = flag.Bool("noop", false, "render on the noop backend instead of Vulkan")
		verbose  = flag.Bool("v", false, "log pipeline stages")
	)
	flag.Parse()

	if *verbose {
		hellomesh.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	cfg := hellomesh.HelloConfig()
	cfg.Width, cfg.Height = uint32(*width), uint32(*height) //nolint:gosec // flag values are pixel sizes
	cfg.SnapshotPath = *snapshot

	opts := []hellomesh.Option{hellomesh.WithSurface(hellomesh.RegisteredSurface(*kind))}
	if *useNoop {
		opts = append(opts, hellomesh.WithBackend(&noop.API{}))
	}
	if err := hellomesh.Run(cfg, opts...); err != nil {
		log.Fatalf("hello: %v", err)
	}
	if *snapshot != "" {
		log.Printf("Frame saved to %s (%dx%d)\n", *snapshot, cfg.Width, cfg.Height)
	}
}
