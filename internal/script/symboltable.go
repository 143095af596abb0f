// This project is licensed under the MIT License (see LICENSE).

package script

import (
	"math"

	"github.com/jcrd/slimcore/internal/apperr"
)

// internalTableSize is the dense-array threshold K, named after
// the original SLiM/Eidos implementation's EIDOS_SYMBOL_TABLE_BASE_SIZE.
const internalTableSize = 16

type slot struct {
	name     string
	value    *Value
	constant bool
}

// SymbolTable is the two-tier binding store used to evaluate one script:
// a small dense array scanned linearly up to internalTableSize entries,
// falling back to a hash map beyond that.
type SymbolTable struct {
	internal [internalTableSize]slot
	n        int
	overflow map[string]slot
}

// NewSymbolTable creates an empty table. Callers install reserved
// constants separately via InstallConstants, after a usage pre-scan that
// determines which constants a script actually references.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{}
}

// Usage records which reserved constant names a parsed script actually
// references, computed once by a pre-scan of the token stream.
type Usage struct {
	T, F, NULL, PI, E, INF, NAN bool
}

// InstallConstants binds the reserved constants named in u. Order mirrors
// eidos_symbol_table.cpp's construction order (least to most likely to be
// used), since the original table is searched newest-first; our linear
// scan has no such bias, but the install order is kept for fidelity.
func (t *SymbolTable) InstallConstants(u Usage) {
	if u.NAN {
		t.SetConstant("NAN", NewFloat(math.NaN()))
	}
	if u.INF {
		t.SetConstant("INF", NewFloat(math.Inf(1)))
	}
	if u.PI {
		t.SetConstant("PI", NewFloat(math.Pi))
	}
	if u.E {
		t.SetConstant("E", NewFloat(math.E))
	}
	if u.NULL {
		t.SetConstant("NULL", NewNull())
	}
	if u.F {
		t.SetConstant("F", NewLogical(false))
	}
	if u.T {
		t.SetConstant("T", NewLogical(true))
	}
}

func (t *SymbolTable) find(name string) (*slot, bool) {
	for i := 0; i < t.n; i++ {
		if t.internal[i].name == name {
			return &t.internal[i], true
		}
	}
	if t.overflow != nil {
		if s, ok := t.overflow[name]; ok {
			return &s, true
		}
	}
	return nil, false
}

func (t *SymbolTable) insert(s slot) {
	if t.n < internalTableSize {
		t.internal[t.n] = s
		t.n++
		return
	}
	if t.overflow == nil {
		t.overflow = make(map[string]slot)
	}
	t.overflow[s.name] = s
}

func (t *SymbolTable) update(s slot) {
	for i := 0; i < t.n; i++ {
		if t.internal[i].name == s.name {
			t.internal[i] = s
			return
		}
	}
	if t.overflow != nil {
		if _, ok := t.overflow[s.name]; ok {
			t.overflow[s.name] = s
			return
		}
	}
	t.insert(s)
}

// GetValue returns the current binding for name, or UndefinedSymbol.
func (t *SymbolTable) GetValue(name string) (*Value, error) {
	s, ok := t.find(name)
	if !ok {
		return nil, apperr.New(apperr.UndefinedSymbol, "undefined symbol %q", name)
	}
	return s.value, nil
}

// SetValue assigns to an existing or new variable binding. Fails with
// ConstViolation if name is already bound as a constant.
func (t *SymbolTable) SetValue(name string, v *Value) error {
	if s, ok := t.find(name); ok {
		if s.constant {
			return apperr.New(apperr.ConstViolation, "cannot assign to constant %q", name)
		}
		t.update(slot{name: name, value: v.Copy(), constant: false})
		return nil
	}
	t.insert(slot{name: name, value: v.Copy(), constant: false})
	return nil
}

// SetConstant defines a new constant binding. Fails with Redefinition if
// the name is already bound (as either a variable or a constant).
func (t *SymbolTable) SetConstant(name string, v *Value) error {
	if _, ok := t.find(name); ok {
		return apperr.New(apperr.Redefinition, "symbol %q is already defined", name)
	}
	t.insert(slot{name: name, value: v.Copy(), constant: true})
	return nil
}

// Names returns every bound symbol name, internal entries first.
func (t *SymbolTable) Names() []string {
	out := make([]string, 0, t.n+len(t.overflow))
	for i := 0; i < t.n; i++ {
		out = append(out, t.internal[i].name)
	}
	for name := range t.overflow {
		out = append(out, name)
	}
	return out
}

// Snapshot returns a new SymbolTable containing a copy of every current
// binding, used to give a registered callback closure a frozen view of
// the table at registration time.
func (t *SymbolTable) Snapshot() *SymbolTable {
	s := NewSymbolTable()
	for i := 0; i < t.n; i++ {
		e := t.internal[i]
		s.insert(slot{name: e.name, value: e.value.Copy(), constant: e.constant})
	}
	for name, e := range t.overflow {
		s.insert(slot{name: name, value: e.value.Copy(), constant: e.constant})
	}
	return s
}
