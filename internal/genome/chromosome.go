// This project is licensed under the MIT License (see LICENSE).

package genome

import (
	"github.com/jcrd/slimcore/internal/apperr"
	"github.com/jcrd/slimcore/internal/rng"
)

// Chromosome owns the ordered genomic-element list and the recombination,
// gene-conversion, and mutation-rate parameters, plus the precomputed
// position and recombination draw tables.
type Chromosome struct {
	Elements []*GenomicElement

	OverallMutationRate float64

	RecombinationEndPositions []int
	RecombinationRates        []float64

	GeneConversionFraction   float64
	GeneConversionMeanLength float64

	elemCumLength  []float64 // cumulative element length, for uniform-by-base position draws
	recombCum      []float64 // cumulative recombination weight (rate * segment length)
	recombTotalLen int       // last RecombinationEndPositions entry
}

func NewChromosome() *Chromosome {
	return &Chromosome{}
}

// Length returns the chromosome's last position (0-based, inclusive).
func (c *Chromosome) Length() int {
	if len(c.Elements) == 0 {
		return 0
	}
	return c.Elements[len(c.Elements)-1].End
}

// InitializeDraws builds the precomputed cumulative tables, validating the
// invariants (the recombination map must be strictly increasing and end
// at the chromosome length, and mutation fractions within each genomic
// element type must be non-negative with a positive sum). Called once after parameter-file
// materialization.
func (c *Chromosome) InitializeDraws() error {
	if len(c.Elements) == 0 {
		return apperr.New(apperr.ConfigError, "chromosome has no genomic elements")
	}

	seen := map[*GenomicElementType]bool{}
	c.elemCumLength = make([]float64, len(c.Elements))
	var sum float64
	prevEnd := -1
	for i, e := range c.Elements {
		if e.Start <= prevEnd {
			return apperr.New(apperr.ConfigError, "genomic elements must be ordered and non-overlapping")
		}
		prevEnd = e.End
		sum += float64(e.Length())
		c.elemCumLength[i] = sum
		if !seen[e.Type] {
			seen[e.Type] = true
			if err := e.Type.initCumulative(); err != nil {
				return err
			}
		}
	}

	if len(c.RecombinationEndPositions) == 0 {
		return apperr.New(apperr.ConfigError, "chromosome has no recombination rate map")
	}
	if len(c.RecombinationEndPositions) != len(c.RecombinationRates) {
		return apperr.New(apperr.ConfigError, "recombination end-position and rate lists have different lengths")
	}
	c.recombCum = make([]float64, len(c.RecombinationEndPositions))
	prev := 0
	var rsum float64
	for i, end := range c.RecombinationEndPositions {
		if end <= prev && i > 0 {
			return apperr.New(apperr.ConfigError, "recombination end positions must be strictly increasing")
		}
		segLen := end - prev
		if i == 0 {
			segLen = end + 1
		} else {
			segLen = end - c.RecombinationEndPositions[i-1]
		}
		rsum += c.RecombinationRates[i] * float64(segLen)
		c.recombCum[i] = rsum
		prev = end
	}
	c.recombTotalLen = c.RecombinationEndPositions[len(c.RecombinationEndPositions)-1]
	if c.recombTotalLen != c.Length() {
		return apperr.New(apperr.ConfigError, "recombination map must end at the chromosome length (%d), got %d", c.Length(), c.recombTotalLen)
	}

	return nil
}

// RecombinationMean is the Poisson mean for the per-offspring crossover
// count: chromosome length times the overall recombination rate per
// base, integrated over the piecewise recombination-rate map.
func (c *Chromosome) RecombinationMean() float64 {
	if len(c.recombCum) == 0 {
		return 0
	}
	return c.recombCum[len(c.recombCum)-1]
}

// DrawPosition picks a base position uniformly over the genomic elements'
// combined length, and returns the element it fell within.
func (c *Chromosome) DrawPosition(src *rng.Source) (int, *GenomicElement, error) {
	idx, err := src.WeightedIndex(c.elemCumLength)
	if err != nil {
		return 0, nil, err
	}
	e := c.Elements[idx]
	offset := src.UniformInt(e.Length())
	return e.Start + offset, e, nil
}

// DrawMutationEvent draws a full new mutation: a position, the element's
// mutation-type mixture, and a selection coefficient from that type's DFE.
func (c *Chromosome) DrawMutationEvent(src *rng.Source, originGen, subpopID int, pool *Pool) (MutationID, error) {
	pos, elem, err := c.DrawPosition(src)
	if err != nil {
		return NoMutation, err
	}
	mt, err := elem.Type.DrawMutationType(src)
	if err != nil {
		return NoMutation, err
	}
	s, err := mt.SampleEffect(src)
	if err != nil {
		return NoMutation, err
	}
	return pool.Alloc(mt, pos, s, originGen, subpopID), nil
}

// DrawCrossoverCount draws the number of crossovers for one offspring
// genome.
func (c *Chromosome) DrawCrossoverCount(src *rng.Source) (int, error) {
	mean := c.RecombinationMean()
	if mean <= 0 {
		return 0, nil
	}
	return src.Poisson(mean)
}

// DrawCrossoverPosition places one crossover by inverse-CDF over the
// recombination weight table, uniform within the segment it falls in.
func (c *Chromosome) DrawCrossoverPosition(src *rng.Source) (int, error) {
	idx, err := src.WeightedIndex(c.recombCum)
	if err != nil {
		return 0, err
	}
	segStart := 0
	if idx > 0 {
		segStart = c.RecombinationEndPositions[idx-1] + 1
	}
	segEnd := c.RecombinationEndPositions[idx]
	return segStart + src.UniformInt(segEnd-segStart+1), nil
}

// GeneConversionTractLength draws a gene-conversion tract length,
// exponentially distributed with mean geneConversionMeanLength.
func (c *Chromosome) GeneConversionTractLength(src *rng.Source) int {
	if c.GeneConversionMeanLength <= 0 {
		return 0
	}
	n := int(src.Exponential(c.GeneConversionMeanLength))
	if n < 1 {
		n = 1
	}
	return n
}

func (c *Chromosome) Class() string { return "Chromosome" }
