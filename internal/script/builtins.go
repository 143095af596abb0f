// This project is licensed under the MIT License (see LICENSE).

package script

type builtin struct {
	Sig *FunctionSignature
	Fn  func(args []*Value) (*Value, error)
}

// Builtins is the fixed table of core vector builtins named in spec
// section 6: seq, rep, rev, c, size, sum, mean, sd, min, max. Additional
// engine-exposed global functions (addSubpop, addNewMutation, ...) are
// registered into a copy of this table by internal/engine, keeping the
// script package itself free of any engine dependency.
func Builtins() map[string]*builtin {
	return map[string]*builtin{
		"seq": {
			Sig: &FunctionSignature{Name: "seq", ReturnMask: MaskInt | MaskFloat, Args: []ArgSpec{
				{Name: "from", Mask: MaskNumeric, Singleton: true},
				{Name: "to", Mask: MaskNumeric, Singleton: true},
				{Name: "by", Mask: MaskNumeric | MaskNull, Optional: true, Singleton: true},
			}},
			Fn: func(args []*Value) (*Value, error) {
				var by *Value
				if len(args) > 2 {
					by = args[2]
				}
				return Seq(args[0], args[1], by)
			},
		},
		"rep": {
			Sig: &FunctionSignature{Name: "rep", ReturnMask: MaskAny, Args: []ArgSpec{
				{Name: "x", Mask: MaskAny},
				{Name: "count", Mask: MaskInt, Singleton: true},
			}},
			Fn: func(args []*Value) (*Value, error) {
				return Rep(args[0], int(args[1].Ints[0])), nil
			},
		},
		"rev": {
			Sig: &FunctionSignature{Name: "rev", ReturnMask: MaskAny, Args: []ArgSpec{
				{Name: "x", Mask: MaskAny},
			}},
			Fn: func(args []*Value) (*Value, error) {
				return Rev(args[0]), nil
			},
		},
		"c": {
			Sig: &FunctionSignature{Name: "c", ReturnMask: MaskAny, Args: []ArgSpec{}},
			Fn: func(args []*Value) (*Value, error) {
				return C(args...)
			},
		},
		"size": {
			Sig: &FunctionSignature{Name: "size", ReturnMask: MaskInt, Args: []ArgSpec{
				{Name: "x", Mask: MaskAny},
			}},
			Fn: func(args []*Value) (*Value, error) {
				return Size(args[0]), nil
			},
		},
		"sum": {
			Sig: &FunctionSignature{Name: "sum", ReturnMask: MaskInt | MaskFloat, Args: []ArgSpec{
				{Name: "x", Mask: MaskNumeric | MaskLogical},
			}},
			Fn: func(args []*Value) (*Value, error) {
				return Sum(args[0])
			},
		},
		"mean": {
			Sig: &FunctionSignature{Name: "mean", ReturnMask: MaskFloat, Args: []ArgSpec{
				{Name: "x", Mask: MaskNumeric | MaskLogical},
			}},
			Fn: func(args []*Value) (*Value, error) {
				return Mean(args[0])
			},
		},
		"sd": {
			Sig: &FunctionSignature{Name: "sd", ReturnMask: MaskFloat, Args: []ArgSpec{
				{Name: "x", Mask: MaskNumeric | MaskLogical},
			}},
			Fn: func(args []*Value) (*Value, error) {
				return SD(args[0])
			},
		},
		"min": {
			Sig: &FunctionSignature{Name: "min", ReturnMask: MaskNumeric | MaskString, Args: []ArgSpec{
				{Name: "x", Mask: MaskNumeric | MaskString},
			}},
			Fn: func(args []*Value) (*Value, error) {
				return Min(args[0])
			},
		},
		"max": {
			Sig: &FunctionSignature{Name: "max", ReturnMask: MaskNumeric | MaskString, Args: []ArgSpec{
				{Name: "x", Mask: MaskNumeric | MaskString},
			}},
			Fn: func(args []*Value) (*Value, error) {
				return Max(args[0])
			},
		},
	}
}

func callBuiltin(tbl map[string]*builtin, name string, args []*Value) (*Value, bool, error) {
	b, ok := tbl[name]
	if !ok {
		return nil, false, nil
	}
	if name == "c" {
		return mustC(args)
	}
	if err := b.Sig.CheckArgs(args); err != nil {
		return nil, true, err
	}
	v, err := b.Fn(args)
	return v, true, err
}

func mustC(args []*Value) (*Value, bool, error) {
	v, err := C(args...)
	return v, true, err
}
