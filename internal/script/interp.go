// This project is licensed under the MIT License (see LICENSE).

package script

import (
	"github.com/jcrd/slimcore/internal/apperr"
)

// UserFunc is a closure over the symbol table snapshot active when a
// callback was declared.
type UserFunc struct {
	Decl     *FuncDecl
	Closure  *SymbolTable
}

// Interpreter evaluates an AST over a SymbolTable. It holds no engine
// state directly; engine-specific global functions are added to Builtins
// through RegisterBuiltin, and
// engine objects flow through as Value.Objects elements, dispatched via
// MemberAccessor/MethodCallable (object_access.go). This keeps the
// interpreter importable by internal/engine without a cyclic dependency.
type Interpreter struct {
	Builtins  map[string]*builtin
	UserFuncs map[string]*UserFunc

	maxCallDepth int
	callDepth    int
}

func NewInterpreter() *Interpreter {
	return &Interpreter{
		Builtins:     Builtins(),
		UserFuncs:    map[string]*UserFunc{},
		maxCallDepth: 256,
	}
}

// RegisterBuiltin adds or overrides a builtin under name; used by
// internal/engine to expose Sim-level global functions (addSubpop, ...)
// through the same dispatch path as the core vector builtins.
func (in *Interpreter) RegisterBuiltin(name string, sig *FunctionSignature, fn func([]*Value) (*Value, error)) {
	in.Builtins[name] = &builtin{Sig: sig, Fn: fn}
}

// Run evaluates a sequence of top-level statements, returning the value
// of the last expression statement, if any.
func (in *Interpreter) Run(stmts []Node, sym *SymbolTable) (*Value, error) {
	var last *Value = NewNull()
	for _, s := range stmts {
		v, err := in.eval(s, sym)
		if err != nil {
			if _, ok := asCtrl(err); ok {
				return nil, apperr.New(apperr.InvalidInput, "break/next/return outside of a loop or function")
			}
			return nil, err
		}
		if v != nil {
			last = v
		}
	}
	return last, nil
}

func (in *Interpreter) eval(n Node, sym *SymbolTable) (*Value, error) {
	switch node := n.(type) {
	case *IntLit:
		return NewInt(node.Value), nil
	case *FloatLit:
		return NewFloat(node.Value), nil
	case *StringLit:
		return NewString(node.Value), nil
	case *LogicalLit:
		return NewLogical(node.Value), nil
	case *NullLit:
		return NewNull(), nil
	case *Ident:
		return sym.GetValue(node.Name)
	case *UnaryExpr:
		return in.evalUnary(node, sym)
	case *BinaryExpr:
		return in.evalBinary(node, sym)
	case *RangeExpr:
		return in.evalRange(node, sym)
	case *AssignExpr:
		return in.evalAssign(node, sym)
	case *MemberExpr:
		return in.evalMember(node, sym)
	case *IndexExpr:
		return in.evalIndex(node, sym)
	case *CallExpr:
		return in.evalCall(node, sym)
	case *ExprStmt:
		return in.eval(node.X, sym)
	case *BlockStmt:
		return in.evalBlock(node, sym)
	case *IfStmt:
		return in.evalIf(node, sym)
	case *ForStmt:
		return in.evalFor(node, sym)
	case *WhileStmt:
		return in.evalWhile(node, sym)
	case *BreakStmt:
		return nil, &ctrlSignal{kind: ctrlBreak}
	case *NextStmt:
		return nil, &ctrlSignal{kind: ctrlNext}
	case *ReturnStmt:
		var v *Value = NewNull()
		if node.Value != nil {
			var err error
			v, err = in.eval(node.Value, sym)
			if err != nil {
				return nil, err
			}
		}
		return nil, &ctrlSignal{kind: ctrlReturn, value: v}
	case *FuncDecl:
		in.UserFuncs[node.Name] = &UserFunc{Decl: node, Closure: sym.Snapshot()}
		r := NewNull()
		r.Invisible = true
		return r, nil
	default:
		line, col := n.Pos()
		return nil, apperr.New(apperr.InvalidInput, "cannot evaluate node").WithPos(line, col)
	}
}

func (in *Interpreter) evalUnary(node *UnaryExpr, sym *SymbolTable) (*Value, error) {
	x, err := in.eval(node.X, sym)
	if err != nil {
		return nil, err
	}
	switch node.Op {
	case TokMinus:
		return UnaryNeg(x)
	case TokPlus:
		return UnaryPos(x)
	case TokNot:
		return Not(x)
	}
	return nil, apperr.New(apperr.InvalidInput, "unknown unary operator")
}

var tokToOp = map[TokenType]BinOp{
	TokPlus: OpAdd, TokMinus: OpSub, TokStar: OpMul, TokSlash: OpDiv, TokPercent: OpMod,
	TokEq: OpEq, TokNe: OpNe, TokLt: OpLt, TokLe: OpLe, TokGt: OpGt, TokGe: OpGe,
	TokAnd: OpAnd, TokOr: OpOr,
}

func (in *Interpreter) evalBinary(node *BinaryExpr, sym *SymbolTable) (*Value, error) {
	x, err := in.eval(node.X, sym)
	if err != nil {
		return nil, err
	}
	y, err := in.eval(node.Y, sym)
	if err != nil {
		return nil, err
	}
	op, ok := tokToOp[node.Op]
	if !ok {
		return nil, apperr.New(apperr.InvalidInput, "unknown binary operator")
	}
	return Binary(op, x, y)
}

func (in *Interpreter) evalRange(node *RangeExpr, sym *SymbolTable) (*Value, error) {
	from, err := in.eval(node.From, sym)
	if err != nil {
		return nil, err
	}
	to, err := in.eval(node.To, sym)
	if err != nil {
		return nil, err
	}
	return Seq(from, to, nil)
}

func (in *Interpreter) evalAssign(node *AssignExpr, sym *SymbolTable) (*Value, error) {
	v, err := in.eval(node.Value, sym)
	if err != nil {
		return nil, err
	}
	v.Invisible = false

	switch target := node.Target.(type) {
	case *Ident:
		if err := sym.SetValue(target.Name, v); err != nil {
			return nil, err
		}
	case *MemberExpr:
		obj, err := in.evalObjectSingleton(target.X, sym)
		if err != nil {
			return nil, err
		}
		sa, ok := obj.(SettableMember)
		if !ok {
			return nil, apperr.New(apperr.SignatureMismatch, "%s has no settable member %q", obj.Class(), target.Name)
		}
		if err := sa.SetMember(target.Name, v); err != nil {
			return nil, err
		}
	default:
		return nil, apperr.New(apperr.InvalidInput, "invalid assignment target")
	}

	r := v.Copy()
	r.Invisible = true
	return r, nil
}

func (in *Interpreter) evalObjectSingleton(n Node, sym *SymbolTable) (Object, error) {
	v, err := in.eval(n, sym)
	if err != nil {
		return nil, err
	}
	if v.Kind != KindObject || v.Len() != 1 {
		return nil, apperr.New(apperr.TypeMismatch, "expected a single object value")
	}
	return v.Objects[0], nil
}

func (in *Interpreter) evalMember(node *MemberExpr, sym *SymbolTable) (*Value, error) {
	v, err := in.eval(node.X, sym)
	if err != nil {
		return nil, err
	}
	if v.Kind != KindObject {
		return nil, apperr.New(apperr.TypeMismatch, "'.' requires an object operand, got %s", v.Kind)
	}
	if v.Len() == 1 {
		return getMember(v.Objects[0], node.Name)
	}
	// Vectorized member access across an object vector, per Eidos semantics.
	parts := make([]*Value, v.Len())
	for i, o := range v.Objects {
		p, err := getMember(o, node.Name)
		if err != nil {
			return nil, err
		}
		parts[i] = p
	}
	return C(parts...)
}

func (in *Interpreter) evalIndex(node *IndexExpr, sym *SymbolTable) (*Value, error) {
	v, err := in.eval(node.X, sym)
	if err != nil {
		return nil, err
	}
	idx, err := in.eval(node.Index, sym)
	if err != nil {
		return nil, err
	}
	if idx.Kind == KindLogical {
		return indexByLogical(v, idx)
	}
	return indexByInt(v, idx)
}

func (in *Interpreter) evalCall(node *CallExpr, sym *SymbolTable) (*Value, error) {
	if member, ok := node.Callee.(*MemberExpr); ok {
		obj, err := in.evalObjectSingleton(member.X, sym)
		if err != nil {
			return nil, err
		}
		args, err := in.evalArgs(node.Args, sym)
		if err != nil {
			return nil, err
		}
		return callMethod(obj, member.Name, args)
	}

	ident, ok := node.Callee.(*Ident)
	if !ok {
		return nil, apperr.New(apperr.InvalidInput, "call target is not callable")
	}

	args, err := in.evalArgs(node.Args, sym)
	if err != nil {
		return nil, err
	}

	if v, handled, err := callBuiltin(in.Builtins, ident.Name, args); handled {
		return v, err
	}

	if fn, ok := in.UserFuncs[ident.Name]; ok {
		return in.CallUser(fn, args)
	}

	return nil, apperr.New(apperr.UndefinedSymbol, "undefined function %q", ident.Name)
}

// CallUser invokes a user-defined callback closure with positional args
// bound to its declared parameter names, returning the callback's return
// value (or NULL if it falls off the end without a return statement).
func (in *Interpreter) CallUser(fn *UserFunc, args []*Value) (*Value, error) {
	in.callDepth++
	defer func() { in.callDepth-- }()
	if in.callDepth > in.maxCallDepth {
		return nil, apperr.New(apperr.CallbackLimit, "call depth exceeded %d while invoking %q", in.maxCallDepth, fn.Decl.Name)
	}

	local := fn.Closure.Snapshot()
	for i, p := range fn.Decl.Params {
		if i < len(args) {
			if err := local.SetValue(p, args[i]); err != nil {
				return nil, err
			}
		}
	}

	v, err := in.eval(fn.Decl.Body, local)
	if err != nil {
		if c, ok := asCtrl(err); ok && c.kind == ctrlReturn {
			return c.value, nil
		}
		return nil, err
	}
	return v, nil
}

func (in *Interpreter) evalArgs(nodes []Node, sym *SymbolTable) ([]*Value, error) {
	args := make([]*Value, len(nodes))
	for i, n := range nodes {
		v, err := in.eval(n, sym)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return args, nil
}

func (in *Interpreter) evalBlock(node *BlockStmt, sym *SymbolTable) (*Value, error) {
	var last *Value = NewNull()
	for _, s := range node.Stmts {
		v, err := in.eval(s, sym)
		if err != nil {
			return nil, err
		}
		if v != nil {
			last = v
		}
	}
	return last, nil
}

func (in *Interpreter) evalIf(node *IfStmt, sym *SymbolTable) (*Value, error) {
	cond, err := in.eval(node.Cond, sym)
	if err != nil {
		return nil, err
	}
	if cond.Len() == 0 {
		return nil, apperr.New(apperr.TypeMismatch, "if() condition must not be empty")
	}
	if cond.AsBool(0) {
		return in.eval(node.Then, sym)
	}
	if node.Else != nil {
		return in.eval(node.Else, sym)
	}
	return NewNull(), nil
}

func (in *Interpreter) evalFor(node *ForStmt, sym *SymbolTable) (*Value, error) {
	iter, err := in.eval(node.Iter, sym)
	if err != nil {
		return nil, err
	}
	for i := 0; i < iter.Len(); i++ {
		elem := elementAt(iter, i)
		if err := sym.SetValue(node.Var, elem); err != nil {
			return nil, err
		}
		_, err := in.eval(node.Body, sym)
		if err != nil {
			if c, ok := asCtrl(err); ok {
				if c.kind == ctrlBreak {
					break
				}
				if c.kind == ctrlNext {
					continue
				}
			}
			return nil, err
		}
	}
	return NewNull(), nil
}

func (in *Interpreter) evalWhile(node *WhileStmt, sym *SymbolTable) (*Value, error) {
	for {
		cond, err := in.eval(node.Cond, sym)
		if err != nil {
			return nil, err
		}
		if cond.Len() == 0 || !cond.AsBool(0) {
			break
		}
		_, err = in.eval(node.Body, sym)
		if err != nil {
			if c, ok := asCtrl(err); ok {
				if c.kind == ctrlBreak {
					break
				}
				if c.kind == ctrlNext {
					continue
				}
			}
			return nil, err
		}
	}
	return NewNull(), nil
}

func elementAt(v *Value, i int) *Value {
	switch v.Kind {
	case KindLogical:
		return NewLogical(v.Logicals[i])
	case KindInt:
		return NewInt(v.Ints[i])
	case KindFloat:
		return NewFloat(v.Floats[i])
	case KindString:
		return NewString(v.Strings[i])
	case KindObject:
		return NewObject(v.Objects[i])
	default:
		return NewNull()
	}
}

func indexByInt(v *Value, idx *Value) (*Value, error) {
	out := &Value{Kind: v.Kind}
	for i := 0; i < idx.Len(); i++ {
		k := int(idx.AsInt64(i))
		if k < 0 || k >= v.Len() {
			return nil, apperr.New(apperr.RangeError, "index %d out of range for vector of length %d", k, v.Len())
		}
		appendElement(out, v, k)
	}
	return out, nil
}

func indexByLogical(v *Value, mask *Value) (*Value, error) {
	if mask.Len() != v.Len() {
		return nil, apperr.New(apperr.TypeMismatch, "logical index length %d does not match vector length %d", mask.Len(), v.Len())
	}
	out := &Value{Kind: v.Kind}
	for i := 0; i < v.Len(); i++ {
		if mask.Logicals[i] {
			appendElement(out, v, i)
		}
	}
	return out, nil
}

func appendElement(out, src *Value, i int) {
	switch src.Kind {
	case KindLogical:
		out.Logicals = append(out.Logicals, src.Logicals[i])
	case KindInt:
		out.Ints = append(out.Ints, src.Ints[i])
	case KindFloat:
		out.Floats = append(out.Floats, src.Floats[i])
	case KindString:
		out.Strings = append(out.Strings, src.Strings[i])
	case KindObject:
		out.Objects = append(out.Objects, src.Objects[i])
	}
}
