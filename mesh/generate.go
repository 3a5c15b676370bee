// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package mesh

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// builder accumulates vertices and counter-clockwise triangles.
type builder struct {
	vertices []Vertex
	indices  []uint32
}

func (b *builder) add(p, n mgl32.Vec3, uv mgl32.Vec2) uint32 {
	b.vertices = append(b.vertices, Vertex{Position: p, Normal: n, UV: uv})
	return uint32(len(b.vertices) - 1) //nolint:gosec // bounded by validate
}

// grid emits triangles for a (rows+1) x (cols+1) vertex grid starting at
// base. Column direction crossed with row direction must point outward.
func (b *builder) grid(base uint32, rows, cols uint32) {
	for i := uint32(0); i < rows; i++ {
		for j := uint32(0); j < cols; j++ {
			a := base + i*(cols+1) + j
			c := a + cols + 1
			b.indices = append(b.indices, a, a+1, c+1, a, c+1, c)
		}
	}
}

// flip reverses normals and winding.
func (b *builder) flip() {
	for i := range b.vertices {
		b.vertices[i].Normal = b.vertices[i].Normal.Mul(-1)
	}
	for i := 0; i+2 < len(b.indices); i += 3 {
		b.indices[i+1], b.indices[i+2] = b.indices[i+2], b.indices[i+1]
	}
}

func half(d Descriptor) (float32, float32, float32) {
	return d.Extent[0] / 2, d.Extent[1] / 2, d.Extent[2] / 2
}

func angle(j, n uint32) (float32, float32) {
	phi := 2 * math.Pi * float64(j) / float64(n)
	return float32(math.Cos(phi)), float32(math.Sin(phi))
}

func safeNormalize(v mgl32.Vec3, fallback mgl32.Vec3) mgl32.Vec3 {
	if v.Len() < 1e-12 {
		return fallback
	}
	return v.Normalize()
}

// sphere builds a UV sphere (ellipsoid when the extent is not uniform).
// Rows run from the north pole down, columns around +Y.
func (b *builder) sphere(d Descriptor) {
	rx, ry, rz := half(d)
	radial, vertical := d.Segments[0], d.Segments[1]
	base := uint32(len(b.vertices)) //nolint:gosec // bounded by validate
	for i := uint32(0); i <= vertical; i++ {
		theta := math.Pi * float64(i) / float64(vertical)
		st, ct := float32(math.Sin(theta)), float32(math.Cos(theta))
		for j := uint32(0); j <= radial; j++ {
			cp, sp := angle(j, radial)
			p := mgl32.Vec3{rx * st * cp, ry * ct, rz * st * sp}
			n := safeNormalize(mgl32.Vec3{p[0] / (rx * rx), p[1] / (ry * ry), p[2] / (rz * rz)}, mgl32.Vec3{0, ct, 0})
			uv := mgl32.Vec2{float32(j) / float32(radial), float32(i) / float32(vertical)}
			b.add(p, n, uv)
		}
	}
	b.grid(base, vertical, radial)
}

// cone builds a cone with its apex at +Y and its base at -Y.
func (b *builder) cone(d Descriptor) {
	rx, hy, rz := half(d)
	radial, vertical := d.Segments[0], d.Segments[1]
	height := 2 * hy
	base := uint32(len(b.vertices)) //nolint:gosec // bounded by validate
	for i := uint32(0); i <= vertical; i++ {
		t := float32(i) / float32(vertical)
		y := hy - t*height
		for j := uint32(0); j <= radial; j++ {
			cp, sp := angle(j, radial)
			p := mgl32.Vec3{t * rx * cp, y, t * rz * sp}
			n := safeNormalize(mgl32.Vec3{cp * height / rx, 1, sp * height / rz}, mgl32.Vec3{0, 1, 0})
			b.add(p, n, mgl32.Vec2{float32(j) / float32(radial), t})
		}
	}
	b.grid(base, vertical, radial)
	if d.Cap {
		b.disc(rx, -hy, rz, radial, false)
	}
}

// cylinder builds an open or capped cylinder along Y.
func (b *builder) cylinder(d Descriptor) {
	rx, hy, rz := half(d)
	radial, vertical := d.Segments[0], d.Segments[1]
	base := uint32(len(b.vertices)) //nolint:gosec // bounded by validate
	for i := uint32(0); i <= vertical; i++ {
		t := float32(i) / float32(vertical)
		y := hy - t*2*hy
		for j := uint32(0); j <= radial; j++ {
			cp, sp := angle(j, radial)
			p := mgl32.Vec3{rx * cp, y, rz * sp}
			n := safeNormalize(mgl32.Vec3{cp / rx, 0, sp / rz}, mgl32.Vec3{1, 0, 0})
			b.add(p, n, mgl32.Vec2{float32(j) / float32(radial), t})
		}
	}
	b.grid(base, vertical, radial)
	if d.Cap {
		b.disc(rx, hy, rz, radial, true)
		b.disc(rx, -hy, rz, radial, false)
	}
}

// disc emits a triangle fan cap at height y facing +Y (up) or -Y.
func (b *builder) disc(rx, y, rz float32, radial uint32, up bool) {
	n := mgl32.Vec3{0, -1, 0}
	if up {
		n = mgl32.Vec3{0, 1, 0}
	}
	center := b.add(mgl32.Vec3{0, y, 0}, n, mgl32.Vec2{0.5, 0.5})
	for j := uint32(0); j <= radial; j++ {
		cp, sp := angle(j, radial)
		b.add(mgl32.Vec3{rx * cp, y, rz * sp}, n, mgl32.Vec2{0.5 + 0.5*cp, 0.5 + 0.5*sp})
	}
	for j := uint32(0); j < radial; j++ {
		p0, p1 := center+1+j, center+2+j
		if up {
			b.indices = append(b.indices, center, p1, p0)
		} else {
			b.indices = append(b.indices, center, p0, p1)
		}
	}
}

// face emits a subdivided quad. u x v must equal the outward normal.
func (b *builder) face(origin, u, v mgl32.Vec3, cols, rows uint32) {
	n := u.Cross(v).Normalize()
	base := uint32(len(b.vertices)) //nolint:gosec // bounded by validate
	for i := uint32(0); i <= rows; i++ {
		tv := float32(i) / float32(rows)
		for j := uint32(0); j <= cols; j++ {
			tu := float32(j) / float32(cols)
			p := origin.Add(u.Mul(tu)).Add(v.Mul(tv))
			b.add(p, n, mgl32.Vec2{tu, 1 - tv})
		}
	}
	b.grid(base, rows, cols)
}

func (b *builder) box(d Descriptor) {
	hx, hy, hz := half(d)
	h, v := d.Segments[0], d.Segments[1]
	// +X, -X
	b.face(mgl32.Vec3{hx, -hy, hz}, mgl32.Vec3{0, 0, -2 * hz}, mgl32.Vec3{0, 2 * hy, 0}, h, v)
	b.face(mgl32.Vec3{-hx, -hy, -hz}, mgl32.Vec3{0, 0, 2 * hz}, mgl32.Vec3{0, 2 * hy, 0}, h, v)
	// +Y, -Y
	b.face(mgl32.Vec3{-hx, hy, hz}, mgl32.Vec3{2 * hx, 0, 0}, mgl32.Vec3{0, 0, -2 * hz}, h, h)
	b.face(mgl32.Vec3{-hx, -hy, -hz}, mgl32.Vec3{2 * hx, 0, 0}, mgl32.Vec3{0, 0, 2 * hz}, h, h)
	// +Z, -Z
	b.face(mgl32.Vec3{-hx, -hy, hz}, mgl32.Vec3{2 * hx, 0, 0}, mgl32.Vec3{0, 2 * hy, 0}, h, v)
	b.face(mgl32.Vec3{hx, -hy, -hz}, mgl32.Vec3{-2 * hx, 0, 0}, mgl32.Vec3{0, 2 * hy, 0}, h, v)
}

func (b *builder) plane(d Descriptor) {
	hx, _, hz := half(d)
	b.face(mgl32.Vec3{-hx, 0, hz}, mgl32.Vec3{2 * hx, 0, 0}, mgl32.Vec3{0, 0, -2 * hz}, d.Segments[0], d.Segments[1])
}
