// Package vertexops is the catalogue of concrete graph.VertexKind values
// named by SPEC_FULL.md §6's add_vertex kind enum. Each is a trivial
// specialization of the generic compute-vertex contract (graph.Op over
// graph.VertexKind) — the menagerie spec.md calls out as "out of scope"
// for the core, pulled in here because a complete repo needs a home for
// unit.add_vertex's kind argument to point at.
package vertexops

import "github.com/tgsim/tgsim/graph"

// numeric coerces v to a float64 for arithmetic, panicking on a type this
// package doesn't know how to treat as a number.
func numeric(v any) float64 {
	switch n := v.(type) {
	case int:
		return float64(n)
	case int8:
		return float64(n)
	case int16:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case uint:
		return float64(n)
	case uint8:
		return float64(n)
	case uint16:
		return float64(n)
	case uint32:
		return float64(n)
	case uint64:
		return float64(n)
	case float32:
		return float64(n)
	case float64:
		return n
	default:
		panic("vertexops: value is not numeric")
	}
}

// likeType converts f back to like's concrete Go type, so a u8 vertex's
// output stays a u8 rather than widening to float64 on every hop.
func likeType(like any, f float64) any {
	switch like.(type) {
	case int:
		return int(f)
	case int8:
		return int8(f)
	case int16:
		return int16(f)
	case int32:
		return int32(f)
	case int64:
		return int64(f)
	case uint:
		return uint(f)
	case uint8:
		return uint8(f)
	case uint16:
		return uint16(f)
	case uint32:
		return uint32(f)
	case uint64:
		return uint64(f)
	case float32:
		return float32(f)
	case float64:
		return f
	default:
		panic("vertexops: value is not numeric")
	}
}

func boolOf(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	default:
		return numeric(v) != 0
	}
}

func binaryNumeric(name string, f func(a, b float64) float64) graph.VertexKind {
	return graph.VertexKind{
		Name:       name,
		NumInputs:  2,
		NumOutputs: 1,
		Op: func(inputs []any) []any {
			a, b := inputs[0], inputs[1]
			return []any{likeType(a, f(numeric(a), numeric(b)))}
		},
	}
}

func binaryBitwise(name string, f func(a, b int64) int64) graph.VertexKind {
	return graph.VertexKind{
		Name:       name,
		NumInputs:  2,
		NumOutputs: 1,
		Op: func(inputs []any) []any {
			a, b := inputs[0], inputs[1]
			return []any{likeType(a, float64(f(int64(numeric(a)), int64(numeric(b)))))}
		},
	}
}

func binaryLogic(name string, f func(a, b bool) bool) graph.VertexKind {
	return graph.VertexKind{
		Name:       name,
		NumInputs:  2,
		NumOutputs: 1,
		Op: func(inputs []any) []any {
			return []any{f(boolOf(inputs[0]), boolOf(inputs[1]))}
		},
	}
}

func comparison(name string, f func(a, b float64) bool) graph.VertexKind {
	return graph.VertexKind{
		Name:       name,
		NumInputs:  2,
		NumOutputs: 1,
		Op: func(inputs []any) []any {
			return []any{f(numeric(inputs[0]), numeric(inputs[1]))}
		},
	}
}

// Add, Sub, Mul and Div are the binary arithmetic kinds.
var (
	Add = binaryNumeric("add", func(a, b float64) float64 { return a + b })
	Sub = binaryNumeric("sub", func(a, b float64) float64 { return a - b })
	Mul = binaryNumeric("mul", func(a, b float64) float64 { return a * b })
	Div = binaryNumeric("div", func(a, b float64) float64 { return a / b })
)

// BitAnd, BitOr and BitXor are the binary bitwise kinds.
var (
	BitAnd = binaryBitwise("bitand", func(a, b int64) int64 { return a & b })
	BitOr  = binaryBitwise("bitor", func(a, b int64) int64 { return a | b })
	BitXor = binaryBitwise("bitxor", func(a, b int64) int64 { return a ^ b })
)

// LogicAnd and LogicOr are the binary boolean kinds; LogicNot is unary.
var (
	LogicAnd = binaryLogic("logicand", func(a, b bool) bool { return a && b })
	LogicOr  = binaryLogic("logicor", func(a, b bool) bool { return a || b })
	LogicNot = graph.VertexKind{
		Name:       "logicnot",
		NumInputs:  1,
		NumOutputs: 1,
		Op: func(inputs []any) []any {
			return []any{!boolOf(inputs[0])}
		},
	}
)

// GEqual, LEqual, Equal, NotEqual, Greater and Less are the comparison
// kinds; each publishes a bool.
var (
	GEqual   = comparison("gequal", func(a, b float64) bool { return a >= b })
	LEqual   = comparison("lequal", func(a, b float64) bool { return a <= b })
	Equal    = comparison("equal", func(a, b float64) bool { return a == b })
	NotEqual = comparison("notequal", func(a, b float64) bool { return a != b })
	Greater  = comparison("greater", func(a, b float64) bool { return a > b })
	Less     = comparison("less", func(a, b float64) bool { return a < b })
)

// PostInc and PostDec publish the input's value unmodified, matching the
// post-increment/decrement convention spec.md scenario 4 relies on: the
// vertex's own activation sees the pre-mutation value, the mutated value
// being whatever a successor that reads it next activation would see.
var (
	PostInc = graph.VertexKind{
		Name:       "postinc",
		NumInputs:  1,
		NumOutputs: 1,
		Op: func(inputs []any) []any {
			return []any{inputs[0]}
		},
	}
	PostDec = graph.VertexKind{
		Name:       "postdec",
		NumInputs:  1,
		NumOutputs: 1,
		Op: func(inputs []any) []any {
			return []any{inputs[0]}
		},
	}
)

// Ternary publishes inputs[1] when inputs[0] is true, else inputs[2].
var Ternary = graph.VertexKind{
	Name:       "ternary",
	NumInputs:  3,
	NumOutputs: 1,
	Op: func(inputs []any) []any {
		if boolOf(inputs[0]) {
			return []any{inputs[1]}
		}
		return []any{inputs[2]}
	},
}

// Assign publishes its single input unmodified, modeling a plain
// store/copy vertex with no arithmetic of its own.
var Assign = graph.VertexKind{
	Name:       "assign",
	NumInputs:  1,
	NumOutputs: 1,
	Op: func(inputs []any) []any {
		return []any{inputs[0]}
	},
}

// Cast returns a VertexKind that converts its single numeric input to the
// Go type of zero (e.g. Cast(uint8(0)) truncates to a u8), modeling the
// source's templated type-cast vertex with a runtime-configured target.
func Cast(zero any) graph.VertexKind {
	return graph.VertexKind{
		Name:       "cast",
		NumInputs:  1,
		NumOutputs: 1,
		Op: func(inputs []any) []any {
			return []any{likeType(zero, numeric(inputs[0]))}
		},
	}
}

// Select returns a VertexKind modeling a numChoices-way multiplexer:
// input 0 is the index, inputs 1..numChoices are the candidates, and the
// single output publishes the selected candidate. It is the
// variable-arity counterpart to Ternary's fixed 3-input form.
func Select(numChoices int) graph.VertexKind {
	if numChoices < 1 {
		panic("vertexops: Select requires at least one choice")
	}

	return graph.VertexKind{
		Name:       "select",
		NumInputs:  numChoices + 1,
		NumOutputs: 1,
		Op: func(inputs []any) []any {
			idx := int(numeric(inputs[0]))
			if idx < 0 || idx >= numChoices {
				panic("vertexops: select index out of range")
			}
			return []any{inputs[1+idx]}
		},
	}
}
