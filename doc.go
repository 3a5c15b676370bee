// Package hellomesh renders a generated mesh with a minimal GPU pipeline.
//
// # Overview
//
// A Playground runs a fixed sequence of stages exactly once:
//
//	device -> mesh -> upload -> shader -> pipeline -> submit -> present [-> export]
//
// Each stage either produces its resource or stops the run. The first
// failure is returned as a *StageError naming the stage, so callers can use
// errors.As to find where the run ended and errors.Is to match the cause.
//
// # Quick Start
//
//	// Green sphere, rendered offscreen and saved as PNG.
//	cfg := hellomesh.HelloConfig()
//	cfg.SnapshotPath = "hello.png"
//	if err := hellomesh.Run(cfg); err != nil {
//		log.Fatal(err)
//	}
//
//	// Red wireframe cone, also exported to <cache>/hellomesh/shared/primitive.usda.
//	if err := hellomesh.Run(hellomesh.PrimitiveConfig()); err != nil {
//		log.Fatal(err)
//	}
//
// # Collaborators
//
// The GPU backend, shader compiler, shader store, display surface and
// exporters are injected with options. Tests run the whole pipeline on the
// wgpu noop backend:
//
//	err := hellomesh.Run(cfg,
//		hellomesh.WithBackend(&noop.API{}),
//		hellomesh.WithCompiler(shader.SourceCompiler{}))
//
// A host application that already owns a device passes it with
// WithDeviceProvider and supplies its window view with WithSurface.
//
// # Packages
//
//   - device: GPU device and queue acquisition
//   - mesh: procedural primitives (sphere, cone, cylinder, box, plane)
//   - gpumesh: vertex and index buffers with a derived vertex layout
//   - shader: WGSL compilation, entry point reflection, embedded shaders
//   - pipeline: validated render pipeline state
//   - frame: command encoding, submission and presentation
//   - surface: offscreen and host-provided render targets, selected by name
//     through a registry
//   - export: glTF, GLB, USDA and OBJ writers
package hellomesh
