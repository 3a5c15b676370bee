// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package export

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/gogpu/hellomesh/mesh"
)

// writeFile creates path and hands a buffered writer to write.
func writeFile(path string, write func(w *bufio.Writer) error) (err error) {
	f, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	w := bufio.NewWriter(f)
	if err := write(w); err != nil {
		return err
	}
	return w.Flush()
}

func ftoa(f float32) string {
	return strconv.FormatFloat(float64(f), 'g', -1, 32)
}

// stripMarks folds accented letters to their base letter.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// identifier turns name into a valid USD prim name.
func identifier(name string) string {
	if folded, _, err := transform.String(stripMarks, name); err == nil {
		name = folded
	}
	var b strings.Builder
	for i, r := range name {
		switch {
		case r == '_' || unicode.IsLetter(r) && r < unicode.MaxASCII:
			b.WriteRune(r)
		case unicode.IsDigit(r) && r < unicode.MaxASCII:
			if i == 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "mesh"
	}
	return b.String()
}

// USDA writes Universal Scene Description text files.
type USDA struct{}

// Export implements Exporter.
func (USDA) Export(a *Asset, path string) error {
	return writeFile(path, func(w *bufio.Writer) error {
		return WriteUSDA(w, a)
	})
}

// WriteUSDA writes a as a USD text layer with one Mesh prim per mesh,
// grouped under an Xform named after the asset.
func WriteUSDA(w io.Writer, a *Asset) error {
	root := identifier(a.Name)
	bw := &errWriter{w: w}
	bw.printf("#usda 1.0\n(\n    defaultPrim = %q\n    metersPerUnit = 1\n    upAxis = \"Y\"\n)\n\n", root)
	bw.printf("def Xform %q\n{\n", root)
	used := make(map[string]bool)
	for _, m := range a.Meshes {
		if m == nil || m.VertexCount() == 0 {
			continue
		}
		base := identifier(m.Name)
		name := base
		for n := 1; used[name]; n++ {
			name = fmt.Sprintf("%s_%d", base, n)
		}
		used[name] = true
		writeUSDMesh(bw, name, m)
	}
	bw.printf("}\n")
	return bw.err
}

func writeUSDMesh(w *errWriter, name string, m *mesh.Mesh) {
	var indices []uint32
	for i := range m.Submeshes {
		indices = append(indices, m.Submeshes[i].Indices...)
	}

	w.printf("    def Mesh %q\n    {\n", name)
	w.printf("        uniform bool doubleSided = 0\n")

	w.printf("        int[] faceVertexCounts = [")
	for i := 0; i < len(indices)/3; i++ {
		w.sep(i)
		w.printf("3")
	}
	w.printf("]\n")

	w.printf("        int[] faceVertexIndices = [")
	for i, idx := range indices {
		w.sep(i)
		w.printf("%d", idx)
	}
	w.printf("]\n")

	w.printf("        normal3f[] normals = [")
	for i, v := range m.Vertices {
		w.sep(i)
		w.printf("(%s, %s, %s)", ftoa(v.Normal[0]), ftoa(v.Normal[1]), ftoa(v.Normal[2]))
	}
	w.printf("] (\n            interpolation = \"vertex\"\n        )\n")

	w.printf("        point3f[] points = [")
	for i, v := range m.Vertices {
		w.sep(i)
		w.printf("(%s, %s, %s)", ftoa(v.Position[0]), ftoa(v.Position[1]), ftoa(v.Position[2]))
	}
	w.printf("]\n")

	w.printf("        texCoord2f[] primvars:st = [")
	for i, v := range m.Vertices {
		w.sep(i)
		w.printf("(%s, %s)", ftoa(v.UV[0]), ftoa(v.UV[1]))
	}
	w.printf("] (\n            interpolation = \"vertex\"\n        )\n")

	w.printf("        uniform token orientation = \"rightHanded\"\n")
	w.printf("        uniform token subdivisionScheme = \"none\"\n")
	w.printf("    }\n")
}

// OBJ writes Wavefront OBJ files.
type OBJ struct{}

// Export implements Exporter.
func (OBJ) Export(a *Asset, path string) error {
	return writeFile(path, func(w *bufio.Writer) error {
		return WriteOBJ(w, a)
	})
}

// WriteOBJ writes a as Wavefront OBJ with one object per mesh and one group
// per submesh.
func WriteOBJ(w io.Writer, a *Asset) error {
	bw := &errWriter{w: w}
	bw.printf("# %s\n", a.Name)
	base := 1
	for _, m := range a.Meshes {
		if m == nil || m.VertexCount() == 0 {
			continue
		}
		bw.printf("o %s\n", identifier(m.Name))
		for _, v := range m.Vertices {
			bw.printf("v %s %s %s\n", ftoa(v.Position[0]), ftoa(v.Position[1]), ftoa(v.Position[2]))
		}
		for _, v := range m.Vertices {
			bw.printf("vt %s %s\n", ftoa(v.UV[0]), ftoa(v.UV[1]))
		}
		for _, v := range m.Vertices {
			bw.printf("vn %s %s %s\n", ftoa(v.Normal[0]), ftoa(v.Normal[1]), ftoa(v.Normal[2]))
		}
		for i := range m.Submeshes {
			sm := &m.Submeshes[i]
			bw.printf("g %s\n", identifier(sm.Name))
			for t := 0; t+2 < len(sm.Indices); t += 3 {
				i0, i1, i2 := base+int(sm.Indices[t]), base+int(sm.Indices[t+1]), base+int(sm.Indices[t+2])
				bw.printf("f %d/%d/%d %d/%d/%d %d/%d/%d\n", i0, i0, i0, i1, i1, i1, i2, i2, i2)
			}
		}
		base += m.VertexCount()
	}
	return bw.err
}

// errWriter keeps the first write error so formatting code stays linear.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}

func (e *errWriter) sep(i int) {
	if i > 0 {
		e.printf(", ")
	}
}
