package csgkernel

import (
	"fmt"

	"github.com/chazu/astvc/pkg/ast"
)

// Render walks tree and produces one mesh per independent solid it finds:
// each Primitive, Transform, or CsgOp reachable from Root or a Group
// becomes exactly one mesh; Group recurses transparently, matching the
// teacher's handleGroup. Parameter and Material children are metadata, read
// by their parent rather than walked as independent nodes.
func Render(tree *ast.AstTree, k Kernel) ([]*Mesh, error) {
	if tree == nil {
		return nil, nil
	}
	root, ok := tree.GetNode(ast.RootID)
	if !ok {
		return nil, nil
	}
	return walkMeshes(tree, k, root)
}

// walkMeshes visits n's children, producing one mesh per subtree rooted at
// a Primitive/Transform/CsgOp node and recursing transparently through
// Group children.
func walkMeshes(tree *ast.AstTree, k Kernel, n *ast.AstNode) ([]*Mesh, error) {
	var meshes []*Mesh
	for _, cid := range n.Children {
		c, ok := tree.GetNode(cid)
		if !ok {
			continue
		}
		switch c.Kind {
		case ast.KindGroup, ast.KindRoot:
			sub, err := walkMeshes(tree, k, c)
			if err != nil {
				return nil, err
			}
			meshes = append(meshes, sub...)

		case ast.KindParameter, ast.KindMaterial, ast.KindKeyframe:
			// metadata, not independent geometry

		case ast.KindPrimitive, ast.KindTransform, ast.KindCsgOp:
			solid, err := walkSolid(tree, k, c)
			if err != nil {
				return nil, fmt.Errorf("csgkernel: node %d (%s): %w", c.ID, c.Label, err)
			}
			mesh, err := k.ToMesh(solid)
			if err != nil {
				return nil, fmt.Errorf("csgkernel: ToMesh for node %d: %w", c.ID, err)
			}
			mesh.PartName = c.Label
			meshes = append(meshes, mesh)

		default:
			return nil, fmt.Errorf("csgkernel: unexpected node kind %s at id %d", c.Kind, c.ID)
		}
	}
	return meshes, nil
}

// walkSolid produces the single Solid a Primitive, Transform, or CsgOp node
// represents, recursing into Transform/CsgOp's structural children.
func walkSolid(tree *ast.AstTree, k Kernel, n *ast.AstNode) (Solid, error) {
	switch n.Kind {
	case ast.KindPrimitive:
		return primitiveSolid(tree, k, n)
	case ast.KindTransform:
		return transformSolid(tree, k, n)
	case ast.KindCsgOp:
		return csgOpSolid(tree, k, n)
	default:
		return nil, fmt.Errorf("node %d: expected geometry node, got %s", n.ID, n.Kind)
	}
}

// params collects n's Parameter children into a label->float64 map.
func params(tree *ast.AstTree, n *ast.AstNode) map[string]float64 {
	out := make(map[string]float64, len(n.Children))
	for _, cid := range n.Children {
		c, ok := tree.GetNode(cid)
		if !ok || c.Kind != ast.KindParameter {
			continue
		}
		if c.Value.Tag == ast.TagFloat {
			out[c.Label] = c.Value.Float
		} else if c.Value.Tag == ast.TagInt {
			out[c.Label] = float64(c.Value.Int)
		}
	}
	return out
}

// structuralChildren returns n's children that are not Parameter, Material,
// or Keyframe — the nodes an enclosing Transform or CsgOp actually operates
// on.
func structuralChildren(tree *ast.AstTree, n *ast.AstNode) []*ast.AstNode {
	var out []*ast.AstNode
	for _, cid := range n.Children {
		c, ok := tree.GetNode(cid)
		if !ok {
			continue
		}
		switch c.Kind {
		case ast.KindParameter, ast.KindMaterial, ast.KindKeyframe:
			continue
		default:
			out = append(out, c)
		}
	}
	return out
}

func primitiveSolid(tree *ast.AstTree, k Kernel, n *ast.AstNode) (Solid, error) {
	p := params(tree, n)
	switch n.Label {
	case "box":
		return k.Box(p["x"], p["y"], p["z"]), nil
	case "cylinder":
		return k.Cylinder(p["height"], p["radius"]), nil
	case "sphere":
		return k.Sphere(p["radius"]), nil
	default:
		return nil, fmt.Errorf("unknown primitive kind %q", n.Label)
	}
}

func transformSolid(tree *ast.AstTree, k Kernel, n *ast.AstNode) (Solid, error) {
	p := params(tree, n)
	children := structuralChildren(tree, n)
	if len(children) != 1 {
		return nil, fmt.Errorf("transform node %d: expected exactly one structural child, got %d", n.ID, len(children))
	}
	inner, err := walkSolid(tree, k, children[0])
	if err != nil {
		return nil, err
	}

	switch n.Label {
	case "translate":
		return k.Translate(inner, p["x"], p["y"], p["z"]), nil
	case "rotate":
		return k.Rotate(inner, p["x"], p["y"], p["z"]), nil
	default:
		return nil, fmt.Errorf("unknown transform kind %q", n.Label)
	}
}

func csgOpSolid(tree *ast.AstTree, k Kernel, n *ast.AstNode) (Solid, error) {
	children := structuralChildren(tree, n)
	if len(children) != 2 {
		return nil, fmt.Errorf("csg-op node %d: expected exactly two operands, got %d", n.ID, len(children))
	}
	a, err := walkSolid(tree, k, children[0])
	if err != nil {
		return nil, err
	}
	b, err := walkSolid(tree, k, children[1])
	if err != nil {
		return nil, err
	}

	switch n.Label {
	case "union":
		return k.Union(a, b), nil
	case "difference":
		return k.Difference(a, b), nil
	case "intersection":
		return k.Intersection(a, b), nil
	default:
		return nil, fmt.Errorf("unknown csg-op %q", n.Label)
	}
}
