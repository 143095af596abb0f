// This project is licensed under the MIT License (see LICENSE).

package script

// BinOp identifies an elementwise binary operator.
type BinOp int

const (
	OpAdd BinOp = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpAnd
	OpOr
)

func broadcastLen(a, b *Value) (int, error) {
	la, lb := a.Len(), b.Len()
	if la == lb {
		return la, nil
	}
	if la == 1 {
		return lb, nil
	}
	if lb == 1 {
		return la, nil
	}
	return 0, typeMismatch("operands of length %d and %d are not compatible for broadcasting", la, lb)
}

func isArith(op BinOp) bool {
	return op == OpAdd || op == OpSub || op == OpMul || op == OpDiv || op == OpMod
}

func isCompare(op BinOp) bool {
	switch op {
	case OpEq, OpNe, OpLt, OpLe, OpGt, OpGe:
		return true
	default:
		return false
	}
}

// Binary evaluates an elementwise binary operator over a and b, applying
// the broadcast, promotion, and coercion rules of the value model.
func Binary(op BinOp, a, b *Value) (*Value, error) {
	if op == OpAnd || op == OpOr {
		return binaryLogical(op, a, b)
	}

	if a.IsNull() || b.IsNull() {
		return nil, typeMismatch("operator has a NULL operand")
	}

	n, err := broadcastLen(a, b)
	if err != nil {
		return nil, err
	}

	if a.Kind == KindString || b.Kind == KindString {
		if op != OpAdd && !isCompare(op) {
			return nil, typeMismatch("operator does not support string operands")
		}
		return binaryString(op, a, b, n)
	}

	if !isNumericOrLogical(a.Kind) || !isNumericOrLogical(b.Kind) {
		return nil, typeMismatch("operator requires numeric or logical operands, got %s and %s", a.Kind, b.Kind)
	}

	if isArith(op) && (op == OpAdd || op == OpSub) && a.Kind == KindLogical && b.Kind == KindLogical {
		return nil, typeMismatch("'+' and '-' are not defined between two logical operands")
	}

	if isCompare(op) {
		return binaryCompare(op, a, b, n)
	}

	if a.Kind == KindFloat || b.Kind == KindFloat {
		return binaryFloat(op, a, b, n)
	}
	return binaryInt(op, a, b, n)
}

func at(v *Value, i int) int {
	if v.Len() == 1 {
		return 0
	}
	return i
}

func binaryString(op BinOp, a, b *Value, n int) (*Value, error) {
	if isCompare(op) {
		return binaryCompare(op, a, b, n)
	}
	out := make([]string, n)
	for i := 0; i < n; i++ {
		out[i] = a.ElementString(at(a, i)) + b.ElementString(at(b, i))
	}
	return NewString(out...), nil
}

func binaryFloat(op BinOp, a, b *Value, n int) (*Value, error) {
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		x, y := a.AsFloat64(at(a, i)), b.AsFloat64(at(b, i))
		switch op {
		case OpAdd:
			out[i] = x + y
		case OpSub:
			out[i] = x - y
		case OpMul:
			out[i] = x * y
		case OpDiv:
			out[i] = x / y
		case OpMod:
			out[i] = mod(x, y)
		}
	}
	return NewFloat(out...), nil
}

func mod(x, y float64) float64 {
	r := x - y*float64(int64(x/y))
	return r
}

func binaryInt(op BinOp, a, b *Value, n int) (*Value, error) {
	out := make([]int64, n)
	for i := 0; i < n; i++ {
		x, y := a.AsInt64(at(a, i)), b.AsInt64(at(b, i))
		switch op {
		case OpAdd:
			out[i] = x + y
		case OpSub:
			out[i] = x - y
		case OpMul:
			out[i] = x * y
		case OpDiv:
			if y == 0 {
				return nil, typeMismatch("integer division by zero")
			}
			out[i] = x / y
		case OpMod:
			if y == 0 {
				return nil, typeMismatch("integer modulo by zero")
			}
			out[i] = x % y
		}
	}
	return NewInt(out...), nil
}

func binaryCompare(op BinOp, a, b *Value, n int) (*Value, error) {
	out := make([]bool, n)
	useString := a.Kind == KindString || b.Kind == KindString
	for i := 0; i < n; i++ {
		var cmp int
		if useString {
			x, y := a.ElementString(at(a, i)), b.ElementString(at(b, i))
			switch {
			case x < y:
				cmp = -1
			case x > y:
				cmp = 1
			default:
				cmp = 0
			}
		} else {
			x, y := a.AsFloat64(at(a, i)), b.AsFloat64(at(b, i))
			switch {
			case x < y:
				cmp = -1
			case x > y:
				cmp = 1
			default:
				cmp = 0
			}
		}
		switch op {
		case OpEq:
			out[i] = cmp == 0
		case OpNe:
			out[i] = cmp != 0
		case OpLt:
			out[i] = cmp < 0
		case OpLe:
			out[i] = cmp <= 0
		case OpGt:
			out[i] = cmp > 0
		case OpGe:
			out[i] = cmp >= 0
		}
	}
	return NewLogical(out...), nil
}

func binaryLogical(op BinOp, a, b *Value) (*Value, error) {
	if a.IsNull() || b.IsNull() {
		return nil, typeMismatch("logical operator has a NULL operand")
	}
	n, err := broadcastLen(a, b)
	if err != nil {
		return nil, err
	}
	out := make([]bool, n)
	for i := 0; i < n; i++ {
		x, y := a.AsBool(at(a, i)), b.AsBool(at(b, i))
		if op == OpAnd {
			out[i] = x && y
		} else {
			out[i] = x || y
		}
	}
	return NewLogical(out...), nil
}

// Not applies elementwise logical negation.
func Not(a *Value) (*Value, error) {
	if a.IsNull() {
		return nil, typeMismatch("'!' has a NULL operand")
	}
	out := make([]bool, a.Len())
	for i := range out {
		out[i] = !a.AsBool(i)
	}
	return NewLogical(out...), nil
}

// UnaryNeg negates a numeric vector; unary + / - requires a numeric
// operand.
func UnaryNeg(a *Value) (*Value, error) {
	switch a.Kind {
	case KindInt:
		out := make([]int64, a.Len())
		for i, x := range a.Ints {
			out[i] = -x
		}
		return NewInt(out...), nil
	case KindFloat:
		out := make([]float64, a.Len())
		for i, x := range a.Floats {
			out[i] = -x
		}
		return NewFloat(out...), nil
	default:
		return nil, typeMismatch("unary '-' requires a numeric operand, got %s", a.Kind)
	}
}

// UnaryPos validates and passes through a numeric operand.
func UnaryPos(a *Value) (*Value, error) {
	if a.Kind != KindInt && a.Kind != KindFloat {
		return nil, typeMismatch("unary '+' requires a numeric operand, got %s", a.Kind)
	}
	return a, nil
}
