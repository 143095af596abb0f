// This project is licensed under the MIT License (see LICENSE).

package genome

import (
	"github.com/jcrd/slimcore/internal/apperr"
	"github.com/jcrd/slimcore/internal/script"
)

// Member/Method implementations below expose each type's attributes to
// the embedded scripting language via script.MemberAccessor /
// script.MethodCallable (internal/script cannot import this package, so
// the dependency runs the other way).

func (m *Mutation) Member(name string) (*script.Value, bool, error) {
	switch name {
	case "id":
		return script.NewInt(int64(m.ID)), true, nil
	case "position":
		return script.NewInt(int64(m.Position)), true, nil
	case "selectionCoeff":
		return script.NewFloat(m.SelectionCoeff), true, nil
	case "originGeneration":
		return script.NewInt(int64(m.OriginGeneration)), true, nil
	case "subpopID":
		return script.NewInt(int64(m.SubpopID)), true, nil
	case "mutationType":
		return script.NewObject(m.Type), true, nil
	default:
		return nil, false, nil
	}
}

func (mt *MutationType) Member(name string) (*script.Value, bool, error) {
	switch name {
	case "id":
		return script.NewInt(int64(mt.ID)), true, nil
	case "dominanceCoeff":
		return script.NewFloat(mt.DominanceCoeff), true, nil
	case "dfeType":
		return script.NewString(string(mt.DFEType)), true, nil
	case "convertToSubstitution":
		return script.NewLogical(mt.ConvertToSubstitution), true, nil
	default:
		return nil, false, nil
	}
}

func (mt *MutationType) SetMember(name string, v *script.Value) error {
	switch name {
	case "convertToSubstitution":
		mt.ConvertToSubstitution = v.AsBool(0)
		return nil
	default:
		return apperr.New(apperr.SignatureMismatch, "%s has no settable member %q", mt.Class(), name)
	}
}

func (t *GenomicElementType) Member(name string) (*script.Value, bool, error) {
	switch name {
	case "id":
		return script.NewInt(int64(t.ID)), true, nil
	default:
		return nil, false, nil
	}
}

func (e *GenomicElement) Member(name string) (*script.Value, bool, error) {
	switch name {
	case "start":
		return script.NewInt(int64(e.Start)), true, nil
	case "end":
		return script.NewInt(int64(e.End)), true, nil
	case "genomicElementType":
		return script.NewObject(e.Type), true, nil
	default:
		return nil, false, nil
	}
}

func (c *Chromosome) Member(name string) (*script.Value, bool, error) {
	switch name {
	case "length":
		return script.NewInt(int64(c.Length())), true, nil
	case "overallMutationRate":
		return script.NewFloat(c.OverallMutationRate), true, nil
	case "geneConversionFraction":
		return script.NewFloat(c.GeneConversionFraction), true, nil
	case "geneConversionMeanLength":
		return script.NewFloat(c.GeneConversionMeanLength), true, nil
	default:
		return nil, false, nil
	}
}

func (g *Genome) Member(name string) (*script.Value, bool, error) {
	switch name {
	case "size":
		return script.NewInt(int64(g.Len())), true, nil
	case "genomeType":
		return script.NewString(string(g.Type)), true, nil
	case "isNullGenome":
		return script.NewLogical(g.IsNull), true, nil
	default:
		return nil, false, nil
	}
}

// Method exposes Genome's script-callable operations; containsMutation
// takes a Mutation object and returns a logical.
func (g *Genome) Method(name string, args []*script.Value) (*script.Value, bool, error) {
	switch name {
	case "containsMutation":
		if len(args) != 1 || args[0].Kind != script.KindObject || args[0].Len() != 1 {
			return nil, true, apperr.New(apperr.SignatureMismatch, "containsMutation() expects a single Mutation argument")
		}
		m, ok := args[0].Objects[0].(*Mutation)
		if !ok {
			return nil, true, apperr.New(apperr.SignatureMismatch, "containsMutation() expects a single Mutation argument")
		}
		return script.NewLogical(g.Contains(m.ID)), true, nil
	default:
		return nil, false, nil
	}
}
