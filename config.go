//go:build !nogpu

package hellomesh

import (
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/hellomesh/device"
	"github.com/gogpu/hellomesh/export"
	"github.com/gogpu/hellomesh/frame"
	"github.com/gogpu/hellomesh/mesh"
	"github.com/gogpu/hellomesh/pipeline"
	"github.com/gogpu/hellomesh/shader"
	"github.com/gogpu/hellomesh/surface"
)

// Config describes what a Playground renders.
type Config struct {
	// Name labels GPU objects and names the exported file.
	Name string

	// Width and Height are the drawable size in pixels.
	Width, Height uint32

	// ClearColor fills the drawable before drawing.
	ClearColor gputypes.Color

	// Mesh is the primitive to generate.
	Mesh mesh.Descriptor

	// Shader names the WGSL resource in the shader store. A zero
	// ShaderVersion selects the newest version.
	Shader        string
	ShaderVersion int

	VertexFunction   string
	FragmentFunction string

	FillMode pipeline.FillMode

	// ExportFormat is the file extension to export the mesh to, for
	// example "usda". Empty disables export.
	ExportFormat string

	// ExportDir is where the exported file is written. Empty means
	// <user cache dir>/hellomesh/shared.
	ExportDir string

	// SnapshotPath saves the presented frame when the surface supports
	// it. The extension selects PNG, BMP or TIFF.
	SnapshotPath string
}

// DefaultConfig returns a 600x600 frame cleared to pale yellow showing a
// solid sphere.
func DefaultConfig() Config {
	return Config{
		Name:       "hellomesh",
		Width:      600,
		Height:     600,
		ClearColor: gputypes.Color{R: 1, G: 1, B: 0.8, A: 1},
		Mesh: mesh.Descriptor{
			Kind:     mesh.Sphere,
			Extent:   [3]float32{0.75, 0.75, 0.75},
			Segments: [2]uint32{100, 100},
		},
		Shader:           "hello",
		ShaderVersion:    1,
		VertexFunction:   "vertex_main",
		FragmentFunction: "fragment_main",
		FillMode:         pipeline.FillSolid,
	}
}

// HelloConfig returns the green sphere playground.
func HelloConfig() Config {
	cfg := DefaultConfig()
	cfg.Name = "hello"
	return cfg
}

// PrimitiveConfig returns the red wireframe cone playground, which also
// exports the cone as USDA.
func PrimitiveConfig() Config {
	cfg := DefaultConfig()
	cfg.Name = "primitive"
	cfg.Mesh = mesh.Descriptor{
		Kind:     mesh.Cone,
		Extent:   [3]float32{1, 1, 1},
		Segments: [2]uint32{10, 10},
		Cap:      true,
	}
	cfg.Shader = "primitive"
	cfg.FillMode = pipeline.FillLines
	cfg.ExportFormat = "usda"
	return cfg
}

// SurfaceFactory creates the display surface once the device is known.
type SurfaceFactory func(dev *device.Device, width, height uint32) (frame.Surface, error)

// OffscreenSurface renders into a texture in the device's surface format.
func OffscreenSurface(dev *device.Device, width, height uint32) (frame.Surface, error) {
	o, err := surface.NewOffscreen(dev.HAL(), width, height, dev.SurfaceFormat())
	if err != nil {
		return nil, err
	}
	return o, nil
}

// RegisteredSurface creates the surface kind registered under name in the
// surface registry. An empty name picks the best available kind.
func RegisteredSurface(name string) SurfaceFactory {
	return func(dev *device.Device, width, height uint32) (frame.Surface, error) {
		opts := surface.Options{
			Device: dev.HAL(),
			Width:  width,
			Height: height,
			Format: dev.SurfaceFormat(),
		}
		if name == "" {
			return surface.New(opts)
		}
		return surface.NewByName(name, opts)
	}
}

// Option configures the collaborators of a Playground.
//
// Example:
//
//	p := hellomesh.New(cfg, hellomesh.WithBackend(&noop.API{}))
type Option func(*options)

type options struct {
	backend   device.Backend
	provider  gpucontext.DeviceProvider
	compiler  shader.Compiler
	shaders   *shader.Store
	surface   SurfaceFactory
	exporters *export.Registry
}

func defaultOptions() options {
	return options{
		compiler:  shader.NagaCompiler{},
		shaders:   shader.DefaultStore(),
		surface:   RegisteredSurface(""),
		exporters: export.DefaultRegistry(),
	}
}

// WithBackend opens the device on b instead of the registered Vulkan backend.
func WithBackend(b device.Backend) Option {
	return func(o *options) {
		o.backend = b
	}
}

// WithDeviceProvider borrows the device and queue of a host application.
// It takes precedence over WithBackend.
func WithDeviceProvider(p gpucontext.DeviceProvider) Option {
	return func(o *options) {
		o.provider = p
	}
}

// WithCompiler sets the shader compiler. Defaults to shader.NagaCompiler.
func WithCompiler(c shader.Compiler) Option {
	return func(o *options) {
		o.compiler = c
	}
}

// WithShaderStore sets where shader sources are loaded from. Defaults to
// the shaders built into the binary.
func WithShaderStore(s *shader.Store) Option {
	return func(o *options) {
		o.shaders = s
	}
}

// WithSurface sets the display surface factory. Defaults to the best
// surface kind in the surface registry.
func WithSurface(f SurfaceFactory) Option {
	return func(o *options) {
		o.surface = f
	}
}

// WithExporters sets the export registry. Defaults to export.DefaultRegistry.
func WithExporters(r *export.Registry) Option {
	return func(o *options) {
		o.exporters = r
	}
}
