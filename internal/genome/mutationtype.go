// This project is licensed under the MIT License (see LICENSE).

package genome

import (
	"github.com/jcrd/slimcore/internal/apperr"
	"github.com/jcrd/slimcore/internal/rng"
)

// DFEKind identifies a distribution of fitness effects, named by the
// "#MUTATION TYPES" grammar's dfe letter.
type DFEKind byte

const (
	DFEFixed DFEKind = 'f'
	DFEGamma DFEKind = 'g'
	DFEExp   DFEKind = 'e'
	DFENorm  DFEKind = 'n'
	DFEWeib  DFEKind = 'w'
)

// NumDFEParams returns how many numeric parameters a DFE kind takes, per
// the "#MUTATION TYPES" grammar (f,e take one; g,n,w take two).
func NumDFEParams(k DFEKind) (int, bool) {
	switch k {
	case DFEFixed, DFEExp:
		return 1, true
	case DFEGamma, DFENorm, DFEWeib:
		return 2, true
	default:
		return 0, false
	}
}

// MutationType is long-lived, created during initialization and shared by
// every Mutation of that type.
type MutationType struct {
	ID                    int
	DominanceCoeff        float64
	DominanceCoeffX       float64
	HasDominanceCoeffX    bool
	DFEType               DFEKind
	DFEParameters         []float64
	ConvertToSubstitution bool

	// Tracked marks a MutationType as tracked. Nothing in this module sets
	// or reads it: a "T" output event names its MutationType directly and
	// Population.TrackedSnapshot works from that.
	Tracked bool
}

func (mt *MutationType) Class() string { return "MutationType" }

// DominanceFor returns the dominance coefficient to use, substituting
// DominanceCoeffX for males when an X-linked modifier is present and the
// individual is male.
func (mt *MutationType) DominanceFor(isMale bool) float64 {
	if isMale && mt.HasDominanceCoeffX {
		return mt.DominanceCoeffX
	}
	return mt.DominanceCoeff
}

// SampleEffect draws a selection coefficient from this type's DFE.
func (mt *MutationType) SampleEffect(src *rng.Source) (float64, error) {
	switch mt.DFEType {
	case DFEFixed:
		return mt.DFEParameters[0], nil
	case DFEExp:
		return src.Exponential(mt.DFEParameters[0]), nil
	case DFEGamma:
		return src.Gamma(mt.DFEParameters[0], mt.DFEParameters[1])
	case DFENorm:
		return src.Normal(mt.DFEParameters[0], mt.DFEParameters[1])
	case DFEWeib:
		return src.Weibull(mt.DFEParameters[0], mt.DFEParameters[1])
	default:
		return 0, apperr.New(apperr.ConfigError, "mutation type m%d has an unrecognized DFE kind %q", mt.ID, mt.DFEType)
	}
}
