// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package export

import (
	"encoding/base64"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/gogpu/hellomesh/mesh"
)

const dataURIPrefix = "data:application/octet-stream;base64,"

// GLTF writes glTF 2.0 files. Text files embed their buffer as a data URI
// so the export is a single file.
type GLTF struct {
	// Binary selects the .glb container.
	Binary bool
}

// Export implements Exporter.
func (g GLTF) Export(a *Asset, path string) error {
	doc := Document(a)
	if g.Binary {
		return gltf.SaveBinary(doc, path)
	}
	for _, b := range doc.Buffers {
		if b.URI == "" {
			b.URI = dataURIPrefix + base64.StdEncoding.EncodeToString(b.Data)
		}
	}
	return gltf.Save(doc, path)
}

// Document builds a glTF document with one node and mesh per asset mesh
// and one triangle primitive per submesh.
func Document(a *Asset) *gltf.Document {
	doc := gltf.NewDocument()
	for _, m := range a.Meshes {
		if m == nil || m.VertexCount() == 0 {
			continue
		}
		positions := make([][3]float32, len(m.Vertices))
		normals := make([][3]float32, len(m.Vertices))
		uvs := make([][2]float32, len(m.Vertices))
		for i, v := range m.Vertices {
			positions[i] = v.Position
			normals[i] = v.Normal
			uvs[i] = v.UV
		}
		pos := modeler.WritePosition(doc, positions)
		nrm := modeler.WriteNormal(doc, normals)
		tex := modeler.WriteTextureCoord(doc, uvs)

		gm := &gltf.Mesh{Name: m.Name}
		for i := range m.Submeshes {
			sm := &m.Submeshes[i]
			gm.Primitives = append(gm.Primitives, &gltf.Primitive{
				Mode:    gltf.PrimitiveTriangles,
				Indices: gltf.Index(modeler.WriteIndices(doc, indexData(sm))),
				Attributes: map[string]int{
					gltf.POSITION:   pos,
					gltf.NORMAL:     nrm,
					gltf.TEXCOORD_0: tex,
				},
			})
		}
		doc.Meshes = append(doc.Meshes, gm)
		doc.Nodes = append(doc.Nodes, &gltf.Node{Name: m.Name, Mesh: gltf.Index(len(doc.Meshes) - 1)})
		doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, len(doc.Nodes)-1)
	}
	return doc
}

// indexData returns the indices in the submesh's index width.
func indexData(sm *mesh.Submesh) any {
	if sm.IndexType == mesh.IndexUint16 {
		idx := make([]uint16, len(sm.Indices))
		for i, v := range sm.Indices {
			idx[i] = uint16(v) //nolint:gosec // IndexUint16 only chosen when all indices fit
		}
		return idx
	}
	return sm.Indices
}
