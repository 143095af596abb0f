// This project is licensed under the MIT License (see LICENSE).

package engine

import (
	"sort"

	"github.com/jcrd/slimcore/internal/apperr"
	"github.com/jcrd/slimcore/internal/genome"
	"github.com/jcrd/slimcore/internal/pop"
)

// buildOffspring fills p's child genome arrays for one generation: for
// every offspring slot, a source subpop and two parents are sampled
// (weighted by cached fitness, with immigration and cloning/selfing
// folded in), two recombinant genomes are assembled, new mutations are
// drawn, and any registered modifyChild callback gets a chance to veto
// the result.
func (e *Engine) buildOffspring(p *pop.Subpopulation) error {
	sources, sourceWeights := e.immigrationSources(p)

	for i := 0; i < p.Size; i++ {
		for attempt := 0; ; attempt++ {
			sourceP := e.pickSource(sources, sourceWeights)
			parent1 := e.pickParent(sourceP)
			parent2 := parent1

			clone := e.RNG.BernoulliP(sourceP.CloningRate)
			self := !clone && e.RNG.BernoulliP(sourceP.SelfingRate)
			if !clone && !self {
				parent2 = e.pickMate(sourceP, parent1)
			}

			child1, child2, err := e.makeOffspringGenomes(sourceP, parent1, parent2, clone)
			if err != nil {
				return err
			}

			ok := true
			if cb := sourceP.ModifyChildCallback; cb != nil {
				ok, err = cb.Call(child1, child2, parent1, parent2)
				if err != nil {
					return err
				}
			}
			if ok {
				p.ChildGenomes[2*i] = child1
				p.ChildGenomes[2*i+1] = child2
				break
			}
			if attempt+1 >= maxModifyChildRetries {
				return apperr.New(apperr.CallbackLimit, "modifyChild callback rejected offspring %d of p%d %d times in a row", i, p.ID, maxModifyChildRetries)
			}
		}
	}
	return nil
}

// immigrationSources resolves a subpop's sampling sources: itself with
// the residual fraction, plus every source it imports from, in a stable
// order for reproducibility.
func (e *Engine) immigrationSources(p *pop.Subpopulation) ([]*pop.Subpopulation, []float64) {
	ids := make([]int, 0, len(p.ImmigrationMap))
	for id := range p.ImmigrationMap {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	sources := []*pop.Subpopulation{p}
	weights := []float64{1}
	var imported float64
	for _, id := range ids {
		rate := p.ImmigrationMap[id]
		imported += rate
		sources = append(sources, e.Population.Subpops[id])
		weights = append(weights, rate)
	}
	weights[0] = 1 - imported

	cum := make([]float64, len(weights))
	var sum float64
	for i, w := range weights {
		sum += w
		cum[i] = sum
	}
	return sources, cum
}

func (e *Engine) pickSource(sources []*pop.Subpopulation, cum []float64) *pop.Subpopulation {
	if len(sources) == 1 {
		return sources[0]
	}
	idx, err := e.RNG.WeightedIndex(cum)
	if err != nil {
		return sources[0]
	}
	return sources[idx]
}

// pickParent draws one parent index from sourceP weighted by its cached
// fitness, falling back to a uniform draw when every individual has zero
// fitness (an otherwise-unweighted table would be invalid).
func (e *Engine) pickParent(sourceP *pop.Subpopulation) int {
	cum := make([]float64, sourceP.Size)
	var sum float64
	for i, w := range sourceP.CachedFitness {
		sum += w
		cum[i] = sum
	}
	if sum <= 0 {
		return e.RNG.UniformInt(sourceP.Size)
	}
	idx, err := e.RNG.WeightedIndex(cum)
	if err != nil {
		return e.RNG.UniformInt(sourceP.Size)
	}
	return idx
}

// pickMate draws the second parent, honoring a registered mateChoice
// callback that may reweight the fitness-based candidate table.
func (e *Engine) pickMate(sourceP *pop.Subpopulation, parent1 int) int {
	if sourceP.MateChoiceCallback == nil {
		return e.pickParent(sourceP)
	}
	weights, err := sourceP.MateChoiceCallback.Call(parent1, append([]float64{}, sourceP.CachedFitness...))
	if err != nil || len(weights) != sourceP.Size {
		return e.pickParent(sourceP)
	}
	cum := make([]float64, len(weights))
	var sum float64
	for i, w := range weights {
		sum += w
		cum[i] = sum
	}
	if sum <= 0 {
		return e.RNG.UniformInt(sourceP.Size)
	}
	idx, err := e.RNG.WeightedIndex(cum)
	if err != nil {
		return e.RNG.UniformInt(sourceP.Size)
	}
	return idx
}

// makeOffspringGenomes builds the two gametes for one offspring: a clone
// copies one parent's genomes verbatim, otherwise each gamete is
// recombined independently from its parent's own two genomes, and new
// mutations are drawn and inserted afterward.
func (e *Engine) makeOffspringGenomes(sourceP *pop.Subpopulation, parent1, parent2 int, clone bool) (*genome.Genome, *genome.Genome, error) {
	var g1, g2 *genome.Genome
	if clone {
		g1 = sourceP.ParentGenomes[2*parent1].Clone()
		g2 = sourceP.ParentGenomes[2*parent1+1].Clone()
	} else {
		var err error
		g1, err = e.recombine(sourceP.ParentGenomes[2*parent1], sourceP.ParentGenomes[2*parent1+1])
		if err != nil {
			return nil, nil, err
		}
		g2, err = e.recombine(sourceP.ParentGenomes[2*parent2], sourceP.ParentGenomes[2*parent2+1])
		if err != nil {
			return nil, nil, err
		}
	}
	if err := e.drawNewMutations(g1, g2, sourceP.ID); err != nil {
		return nil, nil, err
	}
	return g1, g2, nil
}

// recombine assembles one gamete from a parent's two haplotypes by
// alternating segments at each drawn crossover position, promoting a
// fraction of crossovers into short gene-conversion tracts that flip
// back to the original strand.
func (e *Engine) recombine(hap1, hap2 *genome.Genome) (*genome.Genome, error) {
	chrom := e.Chromosome
	n, err := chrom.DrawCrossoverCount(e.RNG)
	if err != nil {
		return nil, err
	}

	out := genome.NewGenome(hap1.Type)
	if n == 0 {
		genome.SpliceAt(out, hap1, 0, chrom.Length()+1, e.Pool)
		return out, nil
	}

	breaks := make([]int, 0, n*2)
	for i := 0; i < n; i++ {
		pos, err := chrom.DrawCrossoverPosition(e.RNG)
		if err != nil {
			return nil, err
		}
		breaks = append(breaks, pos)
		if e.RNG.BernoulliP(chrom.GeneConversionFraction) {
			tract := chrom.GeneConversionTractLength(e.RNG)
			breaks = append(breaks, pos+tract)
		}
	}
	sort.Ints(breaks)

	cur, from := 0, hap1
	for _, b := range breaks {
		if b > chrom.Length()+1 {
			b = chrom.Length() + 1
		}
		genome.SpliceAt(out, from, cur, b, e.Pool)
		cur = b
		if from == hap1 {
			from = hap2
		} else {
			from = hap1
		}
	}
	genome.SpliceAt(out, from, cur, chrom.Length()+1, e.Pool)
	out.Sort(e.Pool)
	return out, nil
}

// drawNewMutations samples the per-offspring new-mutation count from a
// Poisson distribution over the whole chromosome and assigns each to one
// of the two gametes at random.
func (e *Engine) drawNewMutations(g1, g2 *genome.Genome, subpopID int) error {
	mu := e.Chromosome.OverallMutationRate * float64(e.Chromosome.Length())
	if mu <= 0 {
		return nil
	}
	n, err := e.RNG.Poisson(mu)
	if err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		id, err := e.Chromosome.DrawMutationEvent(e.RNG, e.Generation, subpopID, e.Pool)
		if err != nil {
			return err
		}
		if e.RNG.Bernoulli() {
			g1.Insert(id, e.Pool)
		} else {
			g2.Insert(id, e.Pool)
		}
	}
	return nil
}
