//go:build !nogpu

// Command primitive draws a red wireframe cone and exports it to a scene
// file in a shared directory.
package main

import (
	"errors"
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/gogpu/wgpu/hal/noop"

	"github.com/gogpu/hellomesh"
	"github.com/gogpu/hellomesh/export"
)

func main() {
	var (
		format    = flag.String("format", "usda", "export format (gltf, glb, usda, obj); empty to skip")
		exportDir = flag.String("export-dir", "", "export directory (default <user cache dir>/hellomesh/shared)")
		snapshot  = flag.String("snapshot", "", "save the presented frame (.png, .bmp, .tif)")
		kind      = flag.String("surface", "", "surface kind from the surface registry (default best available)")
		useNoop   = flag.Bool("noop", false, "render on the noop backend instead of Vulkan")
		verbose   = flag.Bool("v", false, "log pipeline stages")
	)
	flag.Parse()

	if *verbose {
		hellomesh.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	cfg := hellomesh.PrimitiveConfig()
	cfg.ExportFormat = *format
	cfg.ExportDir = *exportDir
	cfg.SnapshotPath = *snapshot

	opts := []hellomesh.Option{hellomesh.WithSurface(hellomesh.RegisteredSurface(*kind))}
	if *useNoop {
		opts = append(opts, hellomesh.WithBackend(&noop.API{}))
	}

	p := hellomesh.New(cfg, opts...)
	err := p.Run()
	path := p.ExportPath()
	if cerr := p.Close(); err == nil {
		err = cerr
	}
	if errors.Is(err, export.ErrUnsupportedFormat) {
		log.Fatalf("primitive: %v (supported: %v)", err, export.DefaultRegistry().Extensions())
	}
	if err != nil {
		log.Fatalf("primitive: %v", err)
	}
	if path != "" {
		log.Printf("Cone exported to %s\n", path)
	}
}
