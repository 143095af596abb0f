// This project is licensed under the MIT License (see LICENSE).

package engine

import (
	"github.com/jcrd/slimcore/internal/apperr"
	"github.com/jcrd/slimcore/internal/genome"
	"github.com/jcrd/slimcore/internal/pop"
	"github.com/jcrd/slimcore/internal/script"
)

// Sim is the single script-visible handle onto the running Engine,
// bound into every callback's symbol table as "sim".
type Sim struct {
	e *Engine
}

func (s *Sim) Class() string { return "Sim" }

func (s *Sim) Member(name string) (*script.Value, bool, error) {
	switch name {
	case "generation":
		return script.NewInt(int64(s.e.Generation)), true, nil
	case "generationsTotal":
		return script.NewInt(int64(s.e.GenerationsTotal)), true, nil
	case "subpopulations":
		objs := make([]script.Object, 0, len(s.e.Population.Order))
		for _, id := range s.e.Population.Order {
			objs = append(objs, s.e.Population.Subpops[id])
		}
		return script.NewObject(objs...), true, nil
	default:
		return nil, false, nil
	}
}

func (s *Sim) SetMember(name string, v *script.Value) error {
	switch name {
	case "generation":
		s.e.Generation = int(v.AsInt64(0))
		return nil
	default:
		return apperr.New(apperr.SignatureMismatch, "%s has no settable member %q", s.Class(), name)
	}
}

func (s *Sim) Method(name string, args []*script.Value) (*script.Value, bool, error) {
	switch name {
	case "addSubpop":
		return s.addSubpop(args)
	case "addSubpopSplit":
		return s.addSubpopSplit(args)
	case "addNewMutation":
		return s.addNewMutation(args)
	case "deregisterScriptBlock":
		r := script.NewNull()
		r.Invisible = true
		return r, true, nil
	default:
		return nil, false, nil
	}
}

func (s *Sim) addSubpop(args []*script.Value) (*script.Value, bool, error) {
	if len(args) != 2 {
		return nil, true, apperr.New(apperr.SignatureMismatch, "addSubpop() expects (id, size)")
	}
	id := int(args[0].AsInt64(0))
	size := int(args[1].AsInt64(0))
	if _, exists := s.e.Population.Subpops[id]; exists {
		return nil, true, apperr.New(apperr.ConfigError, "subpopulation p%d already exists", id)
	}
	p := pop.NewSubpopulation(id, size)
	s.e.Population.Add(p)
	s.e.attachScriptCallbacks(p)
	return script.NewObject(p), true, nil
}

func (s *Sim) addSubpopSplit(args []*script.Value) (*script.Value, bool, error) {
	if len(args) != 3 {
		return nil, true, apperr.New(apperr.SignatureMismatch, "addSubpopSplit() expects (id, size, sourceID)")
	}
	id := int(args[0].AsInt64(0))
	size := int(args[1].AsInt64(0))
	sourceID := int(args[2].AsInt64(0))
	source, ok := s.e.Population.Subpops[sourceID]
	if !ok {
		return nil, true, apperr.New(apperr.ConfigError, "addSubpopSplit() source p%d does not exist", sourceID)
	}
	p := pop.NewSubpopulation(id, size)
	for i := range p.ParentGenomes {
		src := source.ParentGenomes[i%len(source.ParentGenomes)]
		p.ParentGenomes[i] = src.Clone()
		p.ChildGenomes[i] = src.Clone()
	}
	s.e.Population.Add(p)
	s.e.attachScriptCallbacks(p)
	return script.NewObject(p), true, nil
}

func (s *Sim) addNewMutation(args []*script.Value) (*script.Value, bool, error) {
	if len(args) < 3 {
		return nil, true, apperr.New(apperr.SignatureMismatch, "addNewMutation() expects (mutationType, position, selectionCoeff)")
	}
	if args[0].Kind != script.KindObject || args[0].Len() != 1 {
		return nil, true, apperr.New(apperr.SignatureMismatch, "addNewMutation(): argument 1 must be a single MutationType")
	}
	mt, ok := args[0].Objects[0].(*genome.MutationType)
	if !ok {
		return nil, true, apperr.New(apperr.SignatureMismatch, "addNewMutation(): argument 1 must be a MutationType")
	}
	pos := int(args[1].AsInt64(0))
	sel := args[2].AsFloat64(0)
	id := s.e.Pool.Alloc(mt, pos, sel, s.e.Generation, 0)
	return script.NewObject(s.e.Pool.Get(id)), true, nil
}

// registerSimBuiltins exposes the Sim-level global functions through the
// interpreter's builtin table, and binds "sim" into the engine's root
// symbol table. A function declared under a reserved callback name in the
// #CALLBACKS script (see callbacks.go) closes over this same table by
// Snapshot, so every callback invocation sees a consistent "sim" handle.
func (e *Engine) registerSimBuiltins() {
	sim := &Sim{e: e}
	e.Sym.SetConstant("sim", script.NewObject(sim))

	e.Interp.RegisterBuiltin("addSubpop", &script.FunctionSignature{
		Name: "addSubpop",
		Args: []script.ArgSpec{
			{Name: "id", Mask: script.MaskInt, Singleton: true},
			{Name: "size", Mask: script.MaskInt, Singleton: true},
		},
		ReturnMask: script.MaskObject,
	}, func(args []*script.Value) (*script.Value, error) {
		v, _, err := sim.addSubpop(args)
		return v, err
	})

	e.Interp.RegisterBuiltin("addNewMutation", &script.FunctionSignature{
		Name: "addNewMutation",
		Args: []script.ArgSpec{
			{Name: "mutationType", Mask: script.MaskObject, Singleton: true},
			{Name: "position", Mask: script.MaskInt, Singleton: true},
			{Name: "selectionCoeff", Mask: script.MaskNumeric, Singleton: true},
		},
		ReturnMask: script.MaskObject,
	}, func(args []*script.Value) (*script.Value, error) {
		v, _, err := sim.addNewMutation(args)
		return v, err
	})
}
