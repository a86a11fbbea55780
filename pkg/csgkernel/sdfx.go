package csgkernel

import (
	"fmt"
	"math"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

var _ Kernel = (*SdfxKernel)(nil)

// defaultMeshCells controls marching-cubes tessellation resolution.
const defaultMeshCells = 200

type sdfxSolid struct{ s sdf.SDF3 }

func (s *sdfxSolid) BoundingBox() (min, max [3]float64) {
	bb := s.s.BoundingBox()
	return [3]float64{bb.Min.X, bb.Min.Y, bb.Min.Z}, [3]float64{bb.Max.X, bb.Max.Y, bb.Max.Z}
}

// SdfxKernel implements Kernel using github.com/deadsy/sdfx.
type SdfxKernel struct{}

// NewSdfxKernel returns a new SdfxKernel.
func NewSdfxKernel() *SdfxKernel { return &SdfxKernel{} }

func unwrap(s Solid) sdf.SDF3 { return s.(*sdfxSolid).s }
func wrap(s sdf.SDF3) Solid   { return &sdfxSolid{s: s} }

// Box creates a box with its minimum corner at the origin, so a translate
// applied afterward places that corner rather than the box's center.
func (k *SdfxKernel) Box(x, y, z float64) Solid {
	s, err := sdf.Box3D(v3.Vec{X: x, Y: y, Z: z}, 0)
	if err != nil {
		panic(fmt.Sprintf("csgkernel: sdfx.Box3D: %v", err))
	}
	m := sdf.Translate3d(v3.Vec{X: x / 2, Y: y / 2, Z: z / 2})
	return wrap(sdf.Transform3D(s, m))
}

// Cylinder creates a cylinder of the given height and radius.
func (k *SdfxKernel) Cylinder(height, radius float64) Solid {
	s, err := sdf.Cylinder3D(height, radius, 0)
	if err != nil {
		panic(fmt.Sprintf("csgkernel: sdfx.Cylinder3D: %v", err))
	}
	return wrap(s)
}

// Sphere creates a sphere of the given radius.
func (k *SdfxKernel) Sphere(radius float64) Solid {
	s, err := sdf.Sphere3D(radius)
	if err != nil {
		panic(fmt.Sprintf("csgkernel: sdfx.Sphere3D: %v", err))
	}
	return wrap(s)
}

func (k *SdfxKernel) Union(a, b Solid) Solid        { return wrap(sdf.Union3D(unwrap(a), unwrap(b))) }
func (k *SdfxKernel) Difference(a, b Solid) Solid   { return wrap(sdf.Difference3D(unwrap(a), unwrap(b))) }
func (k *SdfxKernel) Intersection(a, b Solid) Solid { return wrap(sdf.Intersect3D(unwrap(a), unwrap(b))) }

func (k *SdfxKernel) Translate(s Solid, x, y, z float64) Solid {
	m := sdf.Translate3d(v3.Vec{X: x, Y: y, Z: z})
	return wrap(sdf.Transform3D(unwrap(s), m))
}

func (k *SdfxKernel) Rotate(s Solid, x, y, z float64) Solid {
	xr, yr, zr := x*math.Pi/180, y*math.Pi/180, z*math.Pi/180
	m := sdf.RotateZ(zr).Mul(sdf.RotateY(yr)).Mul(sdf.RotateX(xr))
	return wrap(sdf.Transform3D(unwrap(s), m))
}

// ToMesh converts a solid to a triangle mesh using marching cubes.
func (k *SdfxKernel) ToMesh(s Solid) (*Mesh, error) {
	sdf3 := unwrap(s)
	renderer := render.NewMarchingCubesUniform(defaultMeshCells)
	triangles := render.ToTriangles(sdf3, renderer)

	vertices := make([]float32, 0, len(triangles)*9)
	normals := make([]float32, 0, len(triangles)*9)
	indices := make([]uint32, 0, len(triangles)*3)

	for i, tri := range triangles {
		n := tri.Normal()
		nx, ny, nz := float32(n.X), float32(n.Y), float32(n.Z)
		for j := 0; j < 3; j++ {
			v := tri[j]
			vertices = append(vertices, float32(v.X), float32(v.Y), float32(v.Z))
			normals = append(normals, nx, ny, nz)
			indices = append(indices, uint32(i*3+j))
		}
	}
	return &Mesh{Vertices: vertices, Normals: normals, Indices: indices}, nil
}
