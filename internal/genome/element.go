// This project is licensed under the MIT License (see LICENSE).

package genome

import (
	"github.com/jcrd/slimcore/internal/apperr"
	"github.com/jcrd/slimcore/internal/rng"
)

// GenomicElementType is an immutable weighted mixture of mutation types,
// mixture.
type GenomicElementType struct {
	ID               int
	MutationTypes    []*MutationType
	MutationFractions []float64

	cumulative []float64
}

func (t *GenomicElementType) Class() string { return "GenomicElementType" }

// initCumulative turns MutationFractions (non-negative, with a positive
// sum; they need not sum to one) into a cumulative-weight table for
// DrawMutationType, which scales draws by the table's final total.
func (t *GenomicElementType) initCumulative() error {
	if len(t.MutationTypes) != len(t.MutationFractions) {
		return apperr.New(apperr.ConfigError, "genomic element type g%d has %d mutation types but %d fractions", t.ID, len(t.MutationTypes), len(t.MutationFractions))
	}
	t.cumulative = make([]float64, len(t.MutationFractions))
	var sum float64
	for i, f := range t.MutationFractions {
		if f < 0 {
			return apperr.New(apperr.ConfigError, "genomic element type g%d has a negative mutation fraction", t.ID)
		}
		sum += f
		t.cumulative[i] = sum
	}
	if sum <= 0 {
		return apperr.New(apperr.ConfigError, "genomic element type g%d has no positive mutation fraction", t.ID)
	}
	return nil
}

// DrawMutationType samples one of this element type's mutation types by
// its normalized mixture weight.
func (t *GenomicElementType) DrawMutationType(src *rng.Source) (*MutationType, error) {
	i, err := src.WeightedIndex(t.cumulative)
	if err != nil {
		return nil, err
	}
	return t.MutationTypes[i], nil
}

// GenomicElement is a non-overlapping typed interval [Start,End] on the
// chromosome (inclusive, 0-based; the parameter-file grammar is 1-based).
type GenomicElement struct {
	Type  *GenomicElementType
	Start int
	End   int
}

func (e *GenomicElement) Class() string { return "GenomicElement" }

func (e *GenomicElement) Length() int { return e.End - e.Start + 1 }
