// This project is licensed under the MIT License (see LICENSE).

// Package script implements the embedded scripting language: the typed
// vector value model, the symbol table, the lexer/parser/AST, and the
// tree-walking interpreter used to evaluate initialization code and
// per-generation callbacks.
package script

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jcrd/slimcore/internal/apperr"
)

// Kind is the tag of a polymorphic script Value.
type Kind int

const (
	KindNull Kind = iota
	KindLogical
	KindInt
	KindFloat
	KindString
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "NULL"
	case KindLogical:
		return "logical"
	case KindInt:
		return "integer"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Object is satisfied by every engine type exposed to scripts (Chromosome,
// Genome, Mutation, MutationType, GenomicElement, GenomicElementType,
// Subpopulation, Substitution, Sim). This interface only gives the Object
// kind an element type and a class name for diagnostics; the interpreter
// dispatches member and method access through the separate
// MemberAccessor, MethodCallable and SettableMember interfaces
// (object_access.go).
type Object interface {
	Class() string
}

// Value is a tagged, length-carrying vector, the sole value representation
// in the script language: every literal, every intermediate, and every
// symbol-table binding is a Value.
type Value struct {
	Kind     Kind
	Logicals []bool
	Ints     []int64
	Floats   []float64
	Strings  []string
	Objects  []Object

	// Invisible marks a value produced by an assignment or a void-returning
	// call; it is copied into the symbol table on store but never
	// observable through a bare lookup.
	Invisible bool
}

func NewNull() *Value                 { return &Value{Kind: KindNull} }
func NewLogical(v ...bool) *Value     { return &Value{Kind: KindLogical, Logicals: v} }
func NewInt(v ...int64) *Value        { return &Value{Kind: KindInt, Ints: v} }
func NewFloat(v ...float64) *Value    { return &Value{Kind: KindFloat, Floats: v} }
func NewString(v ...string) *Value    { return &Value{Kind: KindString, Strings: v} }
func NewObject(v ...Object) *Value    { return &Value{Kind: KindObject, Objects: v} }

// Len reports the vector length; NULL always has length 0.
func (v *Value) Len() int {
	switch v.Kind {
	case KindLogical:
		return len(v.Logicals)
	case KindInt:
		return len(v.Ints)
	case KindFloat:
		return len(v.Floats)
	case KindString:
		return len(v.Strings)
	case KindObject:
		return len(v.Objects)
	default:
		return 0
	}
}

func (v *Value) IsNull() bool      { return v.Kind == KindNull }
func (v *Value) IsSingleton() bool { return v.Len() == 1 }

// Copy returns a shallow copy of v with Invisible cleared, used when a
// value is stored into the symbol table.
func (v *Value) Copy() *Value {
	c := &Value{Kind: v.Kind}
	c.Logicals = append(c.Logicals, v.Logicals...)
	c.Ints = append(c.Ints, v.Ints...)
	c.Floats = append(c.Floats, v.Floats...)
	c.Strings = append(c.Strings, v.Strings...)
	c.Objects = append(c.Objects, v.Objects...)
	return c
}

// AsFloat64 returns element i as a float64, promoting logical/int as
// needed. Only valid for numeric/logical kinds.
func (v *Value) AsFloat64(i int) float64 {
	switch v.Kind {
	case KindLogical:
		if v.Logicals[i] {
			return 1
		}
		return 0
	case KindInt:
		return float64(v.Ints[i])
	case KindFloat:
		return v.Floats[i]
	default:
		return 0
	}
}

// AsInt64 returns element i as an int64, promoting logical as needed.
func (v *Value) AsInt64(i int) int64 {
	switch v.Kind {
	case KindLogical:
		if v.Logicals[i] {
			return 1
		}
		return 0
	case KindInt:
		return v.Ints[i]
	case KindFloat:
		return int64(v.Floats[i])
	default:
		return 0
	}
}

func (v *Value) AsBool(i int) bool {
	switch v.Kind {
	case KindLogical:
		return v.Logicals[i]
	case KindInt:
		return v.Ints[i] != 0
	case KindFloat:
		return v.Floats[i] != 0
	default:
		return false
	}
}

// ElementString renders element i the way it appears when stringified
// for string concatenation or printing.
func (v *Value) ElementString(i int) string {
	switch v.Kind {
	case KindLogical:
		if v.Logicals[i] {
			return "T"
		}
		return "F"
	case KindInt:
		return strconv.FormatInt(v.Ints[i], 10)
	case KindFloat:
		return strconv.FormatFloat(v.Floats[i], 'g', -1, 64)
	case KindString:
		return v.Strings[i]
	case KindObject:
		return fmt.Sprintf("<%s>", v.Objects[i].Class())
	default:
		return "NULL"
	}
}

func (v *Value) String() string {
	parts := make([]string, v.Len())
	for i := range parts {
		parts[i] = v.ElementString(i)
	}
	return strings.Join(parts, " ")
}

func isNumericOrLogical(k Kind) bool {
	return k == KindLogical || k == KindInt || k == KindFloat
}

func typeMismatch(format string, args ...any) error {
	return apperr.New(apperr.TypeMismatch, format, args...)
}
