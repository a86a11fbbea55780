package script

import (
	"fmt"
	"sort"
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/astvc/pkg/ast"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

const kwPrefix = "__kw_"

// appendIndex clamps to "last position" in AstTree.Move regardless of how
// many children the target already has.
const appendIndex = 1 << 30

// preprocessSource rewrites source before handing it to zygomys:
//   - :keyword tokens become "__kw_keyword" string literals, so builtins can
//     recognize keyword arguments without registering every keyword name as
//     a global symbol.
//   - kebab-case identifiers (csg-op) become underscore form (csg_op), since
//     zygomys parses a bare hyphen between identifier characters as the
//     subtraction operator.
//
// Both rewrites skip over string and backtick literals and turn ';' line
// comments into zygomys's native '//' form.
func preprocessSource(source string) string {
	b := []byte(source)
	out := make([]byte, 0, len(b)+len(b)/4)
	i := 0
	for i < len(b) {
		switch {
		case b[i] == '"':
			j := i + 1
			for j < len(b) && b[j] != '"' {
				if b[j] == '\\' && j+1 < len(b) {
					j += 2
					continue
				}
				j++
			}
			if j < len(b) {
				j++
			}
			out = append(out, b[i:j]...)
			i = j

		case b[i] == '`':
			j := i + 1
			for j < len(b) && b[j] != '`' {
				j++
			}
			if j < len(b) {
				j++
			}
			out = append(out, b[i:j]...)
			i = j

		case b[i] == ';':
			out = append(out, '/', '/')
			i++
			for i < len(b) && b[i] == ';' {
				i++
			}
			j := i
			for j < len(b) && b[j] != '\n' {
				j++
			}
			out = append(out, b[i:j]...)
			i = j

		case b[i] == ':' && i+1 < len(b) && b[i+1] != '=' && isLetter(b[i+1]):
			j := i + 1
			for j < len(b) && isKWChar(b[j]) {
				j++
			}
			out = append(out, '"')
			out = append(out, kwPrefix...)
			out = append(out, b[i+1:j]...)
			out = append(out, '"')
			i = j

		case b[i] == '-' && i > 0 && i+1 < len(b) && isIdentChar(b[i-1]) && isLetter(b[i+1]):
			out = append(out, '_')
			i++

		default:
			out = append(out, b[i])
			i++
		}
	}
	return string(out)
}

func isLetter(c byte) bool     { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }
func isKWChar(c byte) bool     { return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_' }
func isIdentChar(c byte) bool  { return isLetter(c) || (c >= '0' && c <= '9') || c == '_' }

// ---------------------------------------------------------------------------
// Custom Sexp values that carry Go data between builtins
// ---------------------------------------------------------------------------

// sexpNodeRef wraps the id of a node already added to the tree, letting one
// builtin's result be passed as another's argument.
type sexpNodeRef struct {
	id   ast.NodeId
	name string
}

func (n *sexpNodeRef) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(noderef %q %d)", n.name, uint64(n.id))
}
func (n *sexpNodeRef) Type() *zygo.RegisteredType { return nil }

// sexpVec3 carries three floats between a vec3 call and whatever consumes
// it (transform); it never becomes a tree node itself.
type sexpVec3 struct{ x, y, z float64 }

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %.3f %.3f %.3f)", v.x, v.y, v.z)
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword/positional argument parsing
// ---------------------------------------------------------------------------

type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		if name, ok := isKW(args[i]); ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				result.kw[name] = zygo.SexpNull
				i++
			}
			continue
		}
		result.positional = append(result.positional, args[i])
		i++
	}
	return result
}

// sortedKeys returns kw's keys in lexical order, so a builtin that walks a
// keyword-argument map produces the same Parameter child order on every
// call — the engine's "fresh environment per Evaluate" determinism
// guarantee extends to child ordering too, not just to values.
func sortedKeys(kw map[string]zygo.Sexp) []string {
	keys := make([]string, 0, len(kw))
	for k := range kw {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok || !strings.HasPrefix(str.S, kwPrefix) {
		return "", false
	}
	return str.S[len(kwPrefix):], true
}

func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T", s)
}

func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return strings.TrimPrefix(str.S, kwPrefix), nil
	}
	return "", fmt.Errorf("expected string, got %T", s)
}

func toNodeRef(s zygo.Sexp) (ast.NodeId, string, error) {
	if ref, ok := s.(*sexpNodeRef); ok {
		return ref.id, ref.name, nil
	}
	return 0, "", fmt.Errorf("expected node reference, got %T", s)
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs every DSL form into env, populating tree as each
// form runs. Every builtin's node starts out parented at ast.RootID (the
// only id guaranteed to exist before it runs its own children) and is
// reparented with tree.Move once its actual parent form is known — group,
// csg-op, and transform all do this to their positional node-ref arguments.
func registerBuiltins(env *zygo.Zlisp, tree *ast.AstTree) {

	// (material "steel")
	env.AddFunction("material", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("material requires exactly one name argument")
		}
		matName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("material: %w", err)
		}
		id, err := tree.AddNodeWithValue(ast.KindMaterial, matName, ast.TextValue(matName), ast.RootID)
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpNodeRef{id: id, name: matName}, nil
	})

	// (param "radius" 1.5)
	env.AddFunction("param", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("param requires a name and a value")
		}
		paramName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("param: name: %w", err)
		}
		var value ast.NodeValue
		switch v := args[1].(type) {
		case *zygo.SexpStr:
			value = ast.TextValue(v.S)
		default:
			f, err := toFloat64(args[1])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("param: value: %w", err)
			}
			value = ast.FloatValue(f)
		}
		id, err := tree.AddNodeWithValue(ast.KindParameter, paramName, value, ast.RootID)
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpNodeRef{id: id, name: paramName}, nil
	})

	// (vec3 1 2 3)
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("vec3 requires exactly 3 arguments, got %d", len(args))
		}
		x, err := toFloat64(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: x: %w", err)
		}
		y, err := toFloat64(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: y: %w", err)
		}
		z, err := toFloat64(args[2])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: z: %w", err)
		}
		return &sexpVec3{x: x, y: y, z: z}, nil
	})

	// (primitive "sphere" :radius 1.0 namedParam...)
	env.AddFunction("primitive", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 1 {
			return zygo.SexpNull, fmt.Errorf("primitive requires a kind argument")
		}
		kind, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("primitive: kind: %w", err)
		}
		pa := parseArgs(args[1:])

		id, err := tree.AddNodeWithValue(ast.KindPrimitive, kind, ast.IdentValue(kind), ast.RootID)
		if err != nil {
			return zygo.SexpNull, err
		}
		for _, kwName := range sortedKeys(pa.kw) {
			f, err := toFloat64(pa.kw[kwName])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("primitive: %s: %w", kwName, err)
			}
			if _, err := tree.AddNodeWithValue(ast.KindParameter, kwName, ast.FloatValue(f), id); err != nil {
				return zygo.SexpNull, err
			}
		}
		for _, p := range pa.positional {
			childID, _, err := toNodeRef(p)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("primitive: param: %w", err)
			}
			if err := tree.Move(childID, id, appendIndex); err != nil {
				return zygo.SexpNull, err
			}
		}
		return &sexpNodeRef{id: id, name: kind}, nil
	})

	// (csg_op "union" a b): written csg-op in source, rewritten by
	// preprocessSource since zygomys cannot parse a bare hyphen there.
	env.AddFunction("csg_op", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 3 {
			return zygo.SexpNull, fmt.Errorf("csg-op requires an operator and at least two operands")
		}
		op, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("csg-op: operator: %w", err)
		}
		id, err := tree.AddNodeWithValue(ast.KindCsgOp, op, ast.None, ast.RootID)
		if err != nil {
			return zygo.SexpNull, err
		}
		for i, a := range args[1:] {
			childID, _, err := toNodeRef(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("csg-op: operand %d: %w", i, err)
			}
			if err := tree.Move(childID, id, appendIndex); err != nil {
				return zygo.SexpNull, err
			}
		}
		return &sexpNodeRef{id: id, name: op}, nil
	})

	// (group "scene" a b ...)
	env.AddFunction("group", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 1 {
			return zygo.SexpNull, fmt.Errorf("group requires a name argument")
		}
		groupName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("group: name: %w", err)
		}
		id, err := tree.AddNodeWithValue(ast.KindGroup, groupName, ast.None, ast.RootID)
		if err != nil {
			return zygo.SexpNull, err
		}
		for i, a := range args[1:] {
			childID, _, err := toNodeRef(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("group: member %d: %w", i, err)
			}
			if err := tree.Move(childID, id, appendIndex); err != nil {
				return zygo.SexpNull, err
			}
		}
		return &sexpNodeRef{id: id, name: groupName}, nil
	})

	// (transform :translate (vec3 0 0 1) child)
	env.AddFunction("transform", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 1 {
			return zygo.SexpNull, fmt.Errorf("transform requires exactly one child argument")
		}
		var kind string
		var vec *sexpVec3
		for k, v := range pa.kw {
			kind = k
			vv, ok := v.(*sexpVec3)
			if !ok {
				return zygo.SexpNull, fmt.Errorf("transform: %s: expected vec3, got %T", k, v)
			}
			vec = vv
			break
		}
		if vec == nil {
			return zygo.SexpNull, fmt.Errorf("transform requires one of :translate, :rotate, :scale")
		}

		id, err := tree.AddNodeWithValue(ast.KindTransform, kind, ast.None, ast.RootID)
		if err != nil {
			return zygo.SexpNull, err
		}
		for _, axis := range []struct {
			name string
			v    float64
		}{{"x", vec.x}, {"y", vec.y}, {"z", vec.z}} {
			if _, err := tree.AddNodeWithValue(ast.KindParameter, axis.name, ast.FloatValue(axis.v), id); err != nil {
				return zygo.SexpNull, err
			}
		}

		childID, _, err := toNodeRef(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("transform: child: %w", err)
		}
		if err := tree.Move(childID, id, appendIndex); err != nil {
			return zygo.SexpNull, err
		}
		return &sexpNodeRef{id: id, name: kind}, nil
	})
}
