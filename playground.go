//go:build !nogpu

package hellomesh

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gogpu/hellomesh/device"
	"github.com/gogpu/hellomesh/export"
	"github.com/gogpu/hellomesh/frame"
	"github.com/gogpu/hellomesh/gpumesh"
	"github.com/gogpu/hellomesh/internal/logging"
	"github.com/gogpu/hellomesh/mesh"
	"github.com/gogpu/hellomesh/pipeline"
	"github.com/gogpu/hellomesh/shader"
)

// Stage is one step of a playground run.
type Stage int

const (
	StageDevice Stage = iota
	StageMesh
	StageUpload
	StageShader
	StagePipeline
	StageSubmit
	StagePresent
	StageExport
)

// Stages returns every stage in run order.
func Stages() []Stage {
	return []Stage{StageDevice, StageMesh, StageUpload, StageShader, StagePipeline, StageSubmit, StagePresent, StageExport}
}

var stageNames = [...]string{"device", "mesh", "upload", "shader", "pipeline", "submit", "present", "export"}

// String returns the stage name.
func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return fmt.Sprintf("Stage(%d)", int(s))
	}
	return stageNames[s]
}

// StageError reports the stage a run stopped at.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("hellomesh: %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

var (
	// ErrAlreadyRun is returned when Run is called a second time.
	ErrAlreadyRun = errors.New("hellomesh: playground already ran")

	// ErrNoSnapshot is returned when a snapshot is requested from a surface
	// that cannot save one.
	ErrNoSnapshot = errors.New("hellomesh: surface cannot save snapshots")
)

// snapshotter is implemented by surfaces that keep the presented image.
type snapshotter interface {
	Save(path string) error
}

// destroyer is implemented by surfaces that own GPU resources.
type destroyer interface {
	Destroy()
}

// Playground renders one frame of a generated mesh. It runs once and keeps
// every resource it created until Close.
type Playground struct {
	cfg Config
	o   options

	device   *device.Device
	surface  frame.Surface
	mesh     *mesh.Mesh
	gpuMesh  *gpumesh.Mesh
	library  *shader.Library
	vertex   *shader.Function
	fragment *shader.Function
	pipeline *pipeline.State
	frame    *frame.Frame

	exportPath string
	completed  []Stage
	ran        bool
	closed     bool
}

// New returns a playground for cfg. Nothing is created until Run.
func New(cfg Config, opts ...Option) *Playground {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Playground{cfg: cfg, o: o}
}

// Run executes every stage in order and stops at the first failure,
// returned as a *StageError.
func (p *Playground) Run() error {
	if p.ran {
		return ErrAlreadyRun
	}
	p.ran = true

	steps := []struct {
		stage Stage
		run   func() error
	}{
		{StageDevice, p.acquireDevice},
		{StageMesh, p.generateMesh},
		{StageUpload, p.uploadMesh},
		{StageShader, p.compileShader},
		{StagePipeline, p.buildPipeline},
		{StageSubmit, p.submitFrame},
		{StagePresent, p.presentFrame},
		{StageExport, p.exportMesh},
	}
	log := logging.Logger()
	for _, step := range steps {
		if err := step.run(); err != nil {
			log.Debug("hellomesh: stage failed", "playground", p.cfg.Name, "stage", step.stage, "err", err)
			return &StageError{Stage: step.stage, Err: err}
		}
		p.completed = append(p.completed, step.stage)
		log.Info("hellomesh: stage complete", "playground", p.cfg.Name, "stage", step.stage)
	}
	return nil
}

func (p *Playground) acquireDevice() error {
	var err error
	switch {
	case p.o.provider != nil:
		p.device, err = device.FromProvider(p.o.provider)
	case p.o.backend != nil:
		p.device, err = device.Acquire(device.WithBackend(p.o.backend))
	default:
		p.device, err = device.Acquire()
	}
	if err != nil {
		return err
	}

	s, err := p.o.surface(p.device, p.cfg.Width, p.cfg.Height)
	if err != nil {
		return fmt.Errorf("create surface: %w", err)
	}
	p.surface = s
	return nil
}

func (p *Playground) generateMesh() error {
	m, err := mesh.Generate(p.cfg.Mesh)
	if err != nil {
		return err
	}
	p.mesh = m
	logging.Logger().Debug("hellomesh: mesh generated", "kind", m.Kind,
		"vertices", m.VertexCount(), "indices", m.IndexCount())
	return nil
}

func (p *Playground) uploadMesh() error {
	g, err := gpumesh.New(p.device.HAL(), p.device.Queue(), p.mesh)
	if err != nil {
		return err
	}
	p.gpuMesh = g
	return nil
}

func (p *Playground) compileShader() error {
	var (
		src     string
		version = p.cfg.ShaderVersion
		err     error
	)
	if version == 0 {
		src, version, err = p.o.shaders.Latest(p.cfg.Shader)
	} else {
		src, err = p.o.shaders.Load(p.cfg.Shader, version)
	}
	if err != nil {
		return err
	}

	lib, err := p.o.compiler.Compile(fmt.Sprintf("%s.v%d", p.cfg.Shader, version), src)
	if err != nil {
		return err
	}
	vertex, err := lib.Function(p.cfg.VertexFunction)
	if err != nil {
		return err
	}
	fragment, err := lib.Function(p.cfg.FragmentFunction)
	if err != nil {
		return err
	}
	p.library, p.vertex, p.fragment = lib, vertex, fragment
	return nil
}

func (p *Playground) buildPipeline() error {
	s, err := pipeline.New(p.device.HAL(), pipeline.Descriptor{
		Label:       p.cfg.Name,
		Vertex:      p.vertex,
		Fragment:    p.fragment,
		Buffers:     p.gpuMesh.Layout(),
		ColorFormat: p.surface.Format(),
	})
	if err != nil {
		return err
	}
	p.pipeline = s
	return nil
}

func (p *Playground) submitFrame() error {
	f, err := frame.Begin(p.device.HAL(), p.device.Queue(), p.surface,
		frame.WithClearColor(p.cfg.ClearColor),
		frame.WithLabel(p.cfg.Name))
	if err != nil {
		return err
	}
	p.frame = f

	// gpumesh.New guarantees at least one submesh; only the first is drawn.
	sm := p.gpuMesh.Submeshes()[0]
	err = f.Encode(func(e *frame.RenderEncoder) error {
		if err := e.SetPipeline(p.pipeline); err != nil {
			return err
		}
		if err := e.SetMesh(p.gpuMesh); err != nil {
			return err
		}
		if err := e.SetTriangleFillMode(p.cfg.FillMode); err != nil {
			return err
		}
		return e.DrawIndexed(sm)
	})
	if err != nil {
		f.Discard()
		return err
	}
	if err := f.Present(f.Drawable()); err != nil {
		f.Discard()
		return err
	}
	return f.Commit()
}

func (p *Playground) presentFrame() error {
	if err := p.frame.Close(); err != nil {
		return err
	}
	if p.cfg.SnapshotPath == "" {
		return nil
	}
	s, ok := p.surface.(snapshotter)
	if !ok {
		return fmt.Errorf("%w: %T", ErrNoSnapshot, p.surface)
	}
	return s.Save(p.cfg.SnapshotPath)
}

func (p *Playground) exportMesh() error {
	if p.cfg.ExportFormat == "" {
		return nil
	}
	if !p.o.exporters.CanExport(p.cfg.ExportFormat) {
		return fmt.Errorf("%w: %q", export.ErrUnsupportedFormat, p.cfg.ExportFormat)
	}
	dir := p.cfg.ExportDir
	if dir == "" {
		cache, err := os.UserCacheDir()
		if err != nil {
			return fmt.Errorf("%w: %w", export.ErrExport, err)
		}
		dir = filepath.Join(cache, "hellomesh", "shared")
	}
	path := filepath.Join(dir, p.cfg.Name+"."+export.Extension(p.cfg.ExportFormat))
	if err := p.o.exporters.Export(export.NewAsset(p.cfg.Name, p.mesh), path); err != nil {
		return err
	}
	p.exportPath = path
	return nil
}

// Close releases all resources in reverse creation order. Safe to call
// more than once.
func (p *Playground) Close() error {
	if p.closed {
		return nil
	}
	p.closed = true

	var err error
	if p.frame != nil {
		err = p.frame.Close()
	}
	p.pipeline.Destroy()
	p.gpuMesh.Destroy()
	if d, ok := p.surface.(destroyer); ok {
		d.Destroy()
	}
	p.device.Destroy()
	if err != nil {
		logging.Logger().Warn("hellomesh: release frame", "err", err)
	}
	return err
}

// Config returns the playground configuration.
func (p *Playground) Config() Config { return p.cfg }

// Completed returns the stages that finished, in order.
func (p *Playground) Completed() []Stage { return p.completed }

// Device returns the GPU device, or nil before StageDevice.
func (p *Playground) Device() *device.Device { return p.device }

// Surface returns the display surface.
func (p *Playground) Surface() frame.Surface { return p.surface }

// Mesh returns the generated mesh.
func (p *Playground) Mesh() *mesh.Mesh { return p.mesh }

// GPUMesh returns the uploaded mesh.
func (p *Playground) GPUMesh() *gpumesh.Mesh { return p.gpuMesh }

// Library returns the compiled shader library.
func (p *Playground) Library() *shader.Library { return p.library }

// Pipeline returns the render pipeline state.
func (p *Playground) Pipeline() *pipeline.State { return p.pipeline }

// Frame returns the submitted frame.
func (p *Playground) Frame() *frame.Frame { return p.frame }

// ExportPath returns the file written by StageExport, or "".
func (p *Playground) ExportPath() string { return p.exportPath }

// Run creates a playground for cfg, runs it and releases it.
func Run(cfg Config, opts ...Option) error {
	p := New(cfg, opts...)
	runErr := p.Run()
	closeErr := p.Close()
	if runErr != nil {
		return runErr
	}
	return closeErr
}
