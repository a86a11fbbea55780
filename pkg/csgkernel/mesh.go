package csgkernel

// Mesh is a triangle mesh suitable for rendering. All arrays are flat:
// Vertices and Normals carry 3 floats per vertex, Indices 3 uint32s per
// triangle.
type Mesh struct {
	Vertices []float32
	Normals  []float32
	Indices  []uint32
	PartName string
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int { return len(m.Vertices) / 3 }

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int { return len(m.Indices) / 3 }

// IsEmpty reports whether the mesh carries no geometry.
func (m *Mesh) IsEmpty() bool { return len(m.Vertices) == 0 }
