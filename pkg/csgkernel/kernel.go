// Package csgkernel renders a materialized *ast.AstTree into triangle
// meshes through an abstract CSG geometry kernel, the same split the
// teacher draws between pkg/kernel's interface and pkg/kernel/sdfx's
// implementation — generalized here to walk an AST instead of a design
// graph and to support boolean combination via the tree's CsgOp nodes.
package csgkernel

// Solid is an opaque handle to a geometry kernel solid.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Kernel is the abstract CSG geometry kernel interface. SdfxKernel is the
// only implementation; the interface exists so render.go never imports
// deadsy/sdfx directly, matching how the teacher's tessellate package only
// ever sees kernel.Kernel.
type Kernel interface {
	Box(x, y, z float64) Solid
	Cylinder(height, radius float64) Solid
	Sphere(radius float64) Solid

	Union(a, b Solid) Solid
	Difference(a, b Solid) Solid
	Intersection(a, b Solid) Solid

	Translate(s Solid, x, y, z float64) Solid
	Rotate(s Solid, x, y, z float64) Solid // Euler angles, degrees

	ToMesh(s Solid) (*Mesh, error)
}
