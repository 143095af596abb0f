// This project is licensed under the MIT License (see LICENSE).

package script

import "github.com/jcrd/slimcore/internal/apperr"

// MemberAccessor is implemented by engine types that expose read-only
// properties to scripts (e.g. Mutation.position, Chromosome.length).
// found is false when name is not a recognized member, letting the
// interpreter distinguish "no such property" from a property-evaluation
// error.
type MemberAccessor interface {
	Object
	Member(name string) (v *Value, found bool, err error)
}

// MethodCallable is implemented by engine types that expose methods to
// scripts (e.g. Subpopulation.setMigrationRates(), Sim.addSubpop()).
type MethodCallable interface {
	Object
	Method(name string, args []*Value) (v *Value, found bool, err error)
}

// SettableMember is implemented by engine types with writable properties
// (e.g. Mutation.selectionCoeff via "mut.selectionCoeff = ...;"). Types
// that only implement MemberAccessor expose read-only properties.
type SettableMember interface {
	Object
	SetMember(name string, v *Value) error
}

func getMember(o Object, name string) (*Value, error) {
	ma, ok := o.(MemberAccessor)
	if !ok {
		return nil, apperr.New(apperr.SignatureMismatch, "%s has no readable properties", o.Class())
	}
	v, found, err := ma.Member(name)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperr.New(apperr.SignatureMismatch, "%s has no member %q", o.Class(), name)
	}
	return v, nil
}

func callMethod(o Object, name string, args []*Value) (*Value, error) {
	mc, ok := o.(MethodCallable)
	if !ok {
		return nil, apperr.New(apperr.SignatureMismatch, "%s has no callable methods", o.Class())
	}
	v, found, err := mc.Method(name, args)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperr.New(apperr.SignatureMismatch, "%s has no method %q", o.Class(), name)
	}
	return v, nil
}
