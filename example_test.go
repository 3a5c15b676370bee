//go:build !nogpu

package hellomesh_test

import (
	"fmt"

	"github.com/gogpu/hellomesh"
	"github.com/gogpu/hellomesh/internal/gputest"
	"github.com/gogpu/hellomesh/shader"
)

func ExampleRun() {
	cfg := hellomesh.PrimitiveConfig()
	cfg.ExportFormat = ""

	err := hellomesh.Run(cfg,
		hellomesh.WithBackend(gputest.Backend()),
		hellomesh.WithCompiler(shader.SourceCompiler{}),
	)
	fmt.Println(err)
	// Output: <nil>
}

func ExamplePlayground_Completed() {
	cfg := hellomesh.HelloConfig()
	cfg.Width, cfg.Height = 16, 16
	cfg.Mesh.Segments = [2]uint32{4, 4}

	p := hellomesh.New(cfg,
		hellomesh.WithBackend(gputest.Backend()),
		hellomesh.WithCompiler(shader.SourceCompiler{}),
	)
	defer p.Close()
	if err := p.Run(); err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(p.Completed())
	// Output: [device mesh upload shader pipeline submit present export]
}
