// This project is licensed under the MIT License (see LICENSE).

package script

import (
	"fmt"

	"github.com/jcrd/slimcore/internal/apperr"
)

// KindMask is a bitmask over Kind, used by FunctionSignature to describe
// which value types an argument or return value may take.
type KindMask int

const (
	MaskNull    KindMask = 1 << KindNull
	MaskLogical KindMask = 1 << KindLogical
	MaskInt     KindMask = 1 << KindInt
	MaskFloat   KindMask = 1 << KindFloat
	MaskString  KindMask = 1 << KindString
	MaskObject  KindMask = 1 << KindObject

	MaskNumeric = MaskInt | MaskFloat
	MaskAny     = MaskNull | MaskLogical | MaskInt | MaskFloat | MaskString | MaskObject
)

func (m KindMask) allows(k Kind) bool {
	return m&(1<<k) != 0
}

// ArgSpec describes one formal parameter of a builtin or user-callable
// method: its allowed type mask, whether it may be omitted (Optional), and
// whether it must be a single-element vector (Singleton).
type ArgSpec struct {
	Name      string
	Mask      KindMask
	Optional  bool
	Singleton bool
}

// FunctionSignature describes a builtin; dispatch checks arity and
// per-argument type masks before the body ever runs, failing with
// SignatureMismatch naming the function. User-declared functions carry no
// FunctionSignature: CallUser binds arguments by position without arity
// or type checks, leaving parameters without an argument unbound.
type FunctionSignature struct {
	Name       string
	ReturnMask KindMask
	Args       []ArgSpec
}

// CheckArgs validates args against the signature's arity and type masks.
func (sig *FunctionSignature) CheckArgs(args []*Value) error {
	required := 0
	for _, a := range sig.Args {
		if !a.Optional {
			required++
		}
	}
	if len(args) < required || len(args) > len(sig.Args) {
		return apperr.New(apperr.SignatureMismatch, "%s() expects between %d and %d arguments, got %d",
			sig.Name, required, len(sig.Args), len(args))
	}
	for i, a := range sig.Args {
		if i >= len(args) {
			break
		}
		v := args[i]
		if !a.Mask.allows(v.Kind) {
			return apperr.New(apperr.SignatureMismatch, "%s(): argument %q has type %s, which is not permitted here",
				sig.Name, argName(a, i), v.Kind)
		}
		if a.Singleton && !v.IsSingleton() && v.Kind != KindNull {
			return apperr.New(apperr.SignatureMismatch, "%s(): argument %q must be a single value, got length %d",
				sig.Name, argName(a, i), v.Len())
		}
	}
	return nil
}

func argName(a ArgSpec, i int) string {
	if a.Name != "" {
		return a.Name
	}
	return fmt.Sprintf("#%d", i+1)
}
