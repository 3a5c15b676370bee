//go:build !nogpu

package hellomesh_test

import (
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"testing/fstest"

	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/hellomesh"
	"github.com/gogpu/hellomesh/device"
	"github.com/gogpu/hellomesh/export"
	"github.com/gogpu/hellomesh/frame"
	"github.com/gogpu/hellomesh/internal/gputest"
	"github.com/gogpu/hellomesh/mesh"
	"github.com/gogpu/hellomesh/pipeline"
	"github.com/gogpu/hellomesh/shader"
	"github.com/gogpu/hellomesh/surface"
)

// testOptions run a playground on the noop backend without depending on
// the SPIR-V backend.
func testOptions(extra ...hellomesh.Option) []hellomesh.Option {
	return append([]hellomesh.Option{
		hellomesh.WithBackend(gputest.Backend()),
		hellomesh.WithCompiler(shader.SourceCompiler{}),
	}, extra...)
}

func smallConfig(cfg hellomesh.Config) hellomesh.Config {
	cfg.Width, cfg.Height = 32, 32
	return cfg
}

func runPlayground(t *testing.T, cfg hellomesh.Config, opts ...hellomesh.Option) (*hellomesh.Playground, error) {
	t.Helper()
	p := hellomesh.New(cfg, testOptions(opts...)...)
	err := p.Run()
	t.Cleanup(func() {
		if err := p.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	})
	return p, err
}

func TestPrimitiveConeWireframe(t *testing.T) {
	cfg := smallConfig(hellomesh.PrimitiveConfig())
	cfg.ExportDir = t.TempDir()

	p, err := runPlayground(t, cfg)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if !slices.Equal(p.Completed(), hellomesh.Stages()) {
		t.Errorf("Completed() = %v, want %v", p.Completed(), hellomesh.Stages())
	}
	if p.Mesh().Kind != mesh.Cone {
		t.Errorf("mesh kind = %v, want cone", p.Mesh().Kind)
	}
	if p.GPUMesh().VertexCount() == 0 {
		t.Error("vertex buffer is empty")
	}
	subs := p.GPUMesh().Submeshes()
	if len(subs) == 0 || subs[0].IndexCount == 0 {
		t.Fatal("no indices uploaded")
	}
	if p.Pipeline() == nil {
		t.Fatal("pipeline not built")
	}

	f := p.Frame()
	if f.Draws() != 1 {
		t.Fatalf("Draws() = %d, want 1", f.Draws())
	}
	draw := f.DrawCalls()[0]
	if draw.Mode != pipeline.FillLines {
		t.Errorf("draw mode = %v, want lines", draw.Mode)
	}
	if draw.Submesh != subs[0].Name {
		t.Errorf("draw submesh = %q, want %q", draw.Submesh, subs[0].Name)
	}

	want := filepath.Join(cfg.ExportDir, "primitive.usda")
	if p.ExportPath() != want {
		t.Errorf("ExportPath() = %q, want %q", p.ExportPath(), want)
	}
	if _, err := os.Stat(want); err != nil {
		t.Errorf("export not written: %v", err)
	}
}

func TestExportFormatWithDot(t *testing.T) {
	cfg := smallConfig(hellomesh.PrimitiveConfig())
	cfg.ExportDir = t.TempDir()
	cfg.ExportFormat = ".USDA"

	p, err := runPlayground(t, cfg)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := filepath.Join(cfg.ExportDir, "primitive.usda")
	if p.ExportPath() != want {
		t.Errorf("ExportPath() = %q, want %q", p.ExportPath(), want)
	}
	if _, err := os.Stat(want); err != nil {
		t.Errorf("export not written: %v", err)
	}
}

func TestHelloSnapshot(t *testing.T) {
	cfg := smallConfig(hellomesh.HelloConfig())
	cfg.Mesh.Segments = [2]uint32{8, 8}
	cfg.SnapshotPath = filepath.Join(t.TempDir(), "hello.png")

	p, err := runPlayground(t, cfg)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if p.ExportPath() != "" {
		t.Errorf("ExportPath() = %q, want none", p.ExportPath())
	}
	if d := p.Frame().DrawCalls()[0]; d.Mode != pipeline.FillSolid {
		t.Errorf("draw mode = %v, want fill", d.Mode)
	}

	file, err := os.Open(cfg.SnapshotPath)
	if err != nil {
		t.Fatalf("snapshot not written: %v", err)
	}
	defer file.Close()
	img, err := png.DecodeConfig(file)
	if err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if img.Width != 32 || img.Height != 32 {
		t.Errorf("snapshot size = %dx%d, want 32x32", img.Width, img.Height)
	}
}

func TestLatestShaderVersion(t *testing.T) {
	cfg := smallConfig(hellomesh.PrimitiveConfig())
	cfg.ShaderVersion = 0
	cfg.ExportFormat = ""

	p, err := runPlayground(t, cfg)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := p.Library().Label; got != "primitive.v2" {
		t.Errorf("library label = %q, want primitive.v2", got)
	}
}

func TestHostedSurface(t *testing.T) {
	cfg := smallConfig(hellomesh.PrimitiveConfig())
	cfg.ExportFormat = ""

	var hosted *surface.Hosted
	factory := func(dev *device.Device, w, h uint32) (frame.Surface, error) {
		target, err := surface.NewOffscreen(dev.HAL(), w, h, dev.SurfaceFormat())
		if err != nil {
			return nil, err
		}
		t.Cleanup(target.Destroy)
		hosted = surface.NewHosted(target.Format(), func() (hal.TextureView, uint32, uint32) {
			width, height := target.Size()
			return target.View(), width, height
		})
		return hosted, nil
	}

	p, err := runPlayground(t, cfg, hellomesh.WithSurface(factory))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if p.Surface() != frame.Surface(hosted) {
		t.Error("playground did not use the hosted surface")
	}
	if hosted.Presents() != 1 {
		t.Errorf("Presents() = %d, want 1", hosted.Presents())
	}
}

type failingBackend struct{}

func (failingBackend) CreateInstance(*hal.InstanceDescriptor) (hal.Instance, error) {
	return nil, errBackend
}

var errBackend = errors.New("no adapter")

func TestStageFailures(t *testing.T) {
	badShader := fstest.MapFS{
		// Reads location 3, which the mesh layout does not supply.
		"extra.v1.wgsl": {Data: []byte(`
struct VertexIn {
    @location(0) position: vec3<f32>,
    @location(3) tangent: vec3<f32>,
}

@vertex
fn vertex_main(vertex_in: VertexIn) -> @builtin(position) vec4<f32> {
    return vec4<f32>(vertex_in.position, 1.0);
}

@fragment
fn fragment_main() -> @location(0) vec4<f32> {
    return vec4<f32>(1.0);
}
`)},
	}
	badShader["aliased.v1.wgsl"] = &fstest.MapFile{Data: []byte(`
struct VertexIn {
    @location(0) position: vec3<f32>,
    @location(5) weight: vec4<f32>,
}

alias VIn = VertexIn;

@vertex
fn vertex_main(v: VIn) -> @builtin(position) vec4<f32> {
    return vec4<f32>(v.position, v.weight.x);
}

@fragment
fn fragment_main() -> @location(0) vec4<f32> {
    return vec4<f32>(1.0);
}
`)}
	noDrawable := func(dev *device.Device, _, _ uint32) (frame.Surface, error) {
		return surface.NewHosted(dev.SurfaceFormat(), nil), nil
	}
	errSurface := errors.New("window closed")

	tests := []struct {
		name    string
		mutate  func(*hellomesh.Config)
		opts    []hellomesh.Option
		stage   hellomesh.Stage
		wantErr error
	}{
		{
			name:    "backend",
			opts:    []hellomesh.Option{hellomesh.WithBackend(failingBackend{})},
			stage:   hellomesh.StageDevice,
			wantErr: errBackend,
		},
		{
			name: "surface",
			opts: []hellomesh.Option{hellomesh.WithSurface(func(*device.Device, uint32, uint32) (frame.Surface, error) {
				return nil, errSurface
			})},
			stage:   hellomesh.StageDevice,
			wantErr: errSurface,
		},
		{
			name:    "zero segments",
			mutate:  func(c *hellomesh.Config) { c.Mesh.Segments = [2]uint32{0, 10} },
			stage:   hellomesh.StageMesh,
			wantErr: mesh.ErrInvalidSegments,
		},
		{
			name:    "missing shader",
			mutate:  func(c *hellomesh.Config) { c.Shader = "missing" },
			stage:   hellomesh.StageShader,
			wantErr: shader.ErrNotFound,
		},
		{
			name:    "missing entry point",
			mutate:  func(c *hellomesh.Config) { c.VertexFunction = "main" },
			stage:   hellomesh.StageShader,
			wantErr: shader.ErrNoEntryPoint,
		},
		{
			name: "layout mismatch",
			mutate: func(c *hellomesh.Config) {
				c.Shader = "extra"
			},
			opts:    []hellomesh.Option{hellomesh.WithShaderStore(shader.NewStore(badShader))},
			stage:   hellomesh.StagePipeline,
			wantErr: pipeline.ErrMissingAttribute,
		},
		{
			name:    "aliased layout mismatch",
			mutate:  func(c *hellomesh.Config) { c.Shader = "aliased" },
			opts:    []hellomesh.Option{hellomesh.WithShaderStore(shader.NewStore(badShader))},
			stage:   hellomesh.StagePipeline,
			wantErr: pipeline.ErrMissingAttribute,
		},
		{
			name:    "no drawable",
			opts:    []hellomesh.Option{hellomesh.WithSurface(noDrawable)},
			stage:   hellomesh.StageSubmit,
			wantErr: frame.ErrNoDrawable,
		},
		{
			name:    "snapshot unsupported",
			mutate:  func(c *hellomesh.Config) { c.SnapshotPath = filepath.Join(t.TempDir(), "out.png") },
			opts:    []hellomesh.Option{hellomesh.WithSurface(hostedOffscreen(t))},
			stage:   hellomesh.StagePresent,
			wantErr: hellomesh.ErrNoSnapshot,
		},
		{
			name:    "unsupported export",
			mutate:  func(c *hellomesh.Config) { c.ExportFormat = "fbx" },
			stage:   hellomesh.StageExport,
			wantErr: export.ErrUnsupportedFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := smallConfig(hellomesh.PrimitiveConfig())
			cfg.ExportDir = filepath.Join(t.TempDir(), "shared")
			if tt.mutate != nil {
				tt.mutate(&cfg)
			}

			p, err := runPlayground(t, cfg, tt.opts...)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Run() error = %v, want %v", err, tt.wantErr)
			}
			var se *hellomesh.StageError
			if !errors.As(err, &se) {
				t.Fatalf("Run() error %T is not a *StageError", err)
			}
			if se.Stage != tt.stage {
				t.Errorf("failed at %v, want %v", se.Stage, tt.stage)
			}
			if got := len(p.Completed()); got != int(tt.stage) {
				t.Errorf("%d stages completed, want %d", got, int(tt.stage))
			}
			if _, err := os.Stat(cfg.ExportDir); !os.IsNotExist(err) {
				t.Errorf("export directory exists after failure: %v", err)
			}
		})
	}
}

// hostedOffscreen returns a surface factory for a hosted surface, which
// cannot save snapshots.
func hostedOffscreen(t *testing.T) hellomesh.SurfaceFactory {
	return func(dev *device.Device, w, h uint32) (frame.Surface, error) {
		target, err := surface.NewOffscreen(dev.HAL(), w, h, dev.SurfaceFormat())
		if err != nil {
			return nil, err
		}
		t.Cleanup(target.Destroy)
		return surface.NewHosted(target.Format(), func() (hal.TextureView, uint32, uint32) {
			return target.View(), w, h
		}), nil
	}
}

func TestRunTwice(t *testing.T) {
	cfg := smallConfig(hellomesh.PrimitiveConfig())
	cfg.ExportFormat = ""

	p, err := runPlayground(t, cfg)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if err := p.Run(); !errors.Is(err, hellomesh.ErrAlreadyRun) {
		t.Errorf("second Run() = %v, want ErrAlreadyRun", err)
	}
	if err := p.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}

func TestRun(t *testing.T) {
	cfg := smallConfig(hellomesh.PrimitiveConfig())
	cfg.ExportDir = t.TempDir()
	if err := hellomesh.Run(cfg, testOptions()...); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if _, err := os.Stat(filepath.Join(cfg.ExportDir, "primitive.usda")); err != nil {
		t.Errorf("export not written: %v", err)
	}
}

func TestStageString(t *testing.T) {
	want := []string{"device", "mesh", "upload", "shader", "pipeline", "submit", "present", "export"}
	for i, s := range hellomesh.Stages() {
		if s.String() != want[i] {
			t.Errorf("Stage(%d).String() = %q, want %q", i, s, want[i])
		}
	}
	if got := hellomesh.Stage(42).String(); got != "Stage(42)" {
		t.Errorf("unknown stage = %q", got)
	}

	err := &hellomesh.StageError{Stage: hellomesh.StageShader, Err: shader.ErrCompile}
	if err.Error() != "hellomesh: shader: "+shader.ErrCompile.Error() {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestRegisteredSurface(t *testing.T) {
	cfg := smallConfig(hellomesh.PrimitiveConfig())
	cfg.ExportFormat = ""

	p, err := runPlayground(t, cfg, hellomesh.WithSurface(hellomesh.RegisteredSurface("offscreen")))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	o, ok := p.Surface().(*surface.Offscreen)
	if !ok {
		t.Fatalf("surface is %T, want *surface.Offscreen", p.Surface())
	}
	if o.Presents() != 1 {
		t.Errorf("Presents() = %d, want 1", o.Presents())
	}

	_, err = runPlayground(t, cfg, hellomesh.WithSurface(hellomesh.RegisteredSurface("window")))
	var notFound *surface.BackendNotFoundError
	if !errors.As(err, &notFound) {
		t.Errorf("Run() error = %v, want BackendNotFoundError", err)
	}
}
