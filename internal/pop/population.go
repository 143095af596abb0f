// This project is licensed under the MIT License (see LICENSE).

package pop

import (
	"sort"

	"github.com/jcrd/slimcore/internal/genome"
	"github.com/jcrd/slimcore/internal/rng"
)

// Population owns every Subpopulation plus the run-wide substitution
// list and mutation pool. The generation engine is the sole mutator.
type Population struct {
	Subpops map[int]*Subpopulation
	Order   []int // subpop ids in creation order, for deterministic iteration

	Pool          *genome.Pool
	Substitutions []*genome.Substitution
}

func NewPopulation(pool *genome.Pool) *Population {
	return &Population{
		Subpops: map[int]*Subpopulation{},
		Pool:    pool,
	}
}

func (pp *Population) Add(p *Subpopulation) {
	pp.Subpops[p.ID] = p
	pp.Order = append(pp.Order, p.ID)
}

// Remove deletes a subpopulation of size 0 from the population, per the
// boundary behavior that a subpop of size 0 disappears on the next event
// tick.
func (pp *Population) Remove(id int) {
	delete(pp.Subpops, id)
	for i, o := range pp.Order {
		if o == id {
			pp.Order = append(pp.Order[:i], pp.Order[i+1:]...)
			break
		}
	}
	for _, p := range pp.Subpops {
		delete(p.ImmigrationMap, id)
	}
}

// PruneEmpty removes every subpopulation whose size has reached 0.
func (pp *Population) PruneEmpty() {
	for _, id := range append([]int{}, pp.Order...) {
		if pp.Subpops[id].Size == 0 {
			pp.Remove(id)
		}
	}
}

// Frequency computes a mutation's global allele frequency across every
// genome in every subpopulation's parent arrays (the current generation
// once the swap of step 6 has happened).
func (pp *Population) Frequency(id genome.MutationID) float64 {
	var carriers, total int
	for _, p := range pp.Subpops {
		for _, g := range p.ParentGenomes {
			total++
			if g.Contains(id) {
				carriers++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return float64(carriers) / float64(total)
}

// PromoteSubstitutions performs step 7 of the generation loop: a single
// pass computing every live mutation's global frequency, promoting any
// at frequency 1 (with ConvertToSubstitution set) into a Substitution and
// removing it from every genome, and releasing any at frequency 0 back to
// the pool.
func (pp *Population) PromoteSubstitutions(generation int) []*genome.Substitution {
	counts := map[genome.MutationID]int{}
	var total int
	for _, p := range pp.Subpops {
		for _, g := range p.ParentGenomes {
			total++
			for _, id := range g.Mutations {
				counts[id]++
			}
		}
	}

	var promoted []*genome.Substitution
	for _, id := range pp.Pool.LiveIDs() {
		n := counts[id]
		if n == total && total > 0 {
			mut := pp.Pool.Get(id)
			if mut.Type.ConvertToSubstitution {
				sub := &genome.Substitution{Mutation: *mut, FixationGeneration: generation}
				promoted = append(promoted, sub)
				pp.Substitutions = append(pp.Substitutions, sub)
				pp.removeFromAllGenomes(id)
				pp.Pool.Free(id)
			}
		} else if n == 0 {
			pp.Pool.Free(id)
		}
	}
	return promoted
}

func (pp *Population) removeFromAllGenomes(id genome.MutationID) {
	for _, p := range pp.Subpops {
		for _, g := range p.ParentGenomes {
			g.Remove(id)
		}
	}
}

// ApplyPartialSweep clamps a tracked mutation's frequency toward its
// target prevalence by resampling carriers: if current prevalence is
// below target, it adds the mutation to additional randomly chosen
// genomes not already carrying it; if above, it removes it from
// randomly chosen carriers, until the target count is reached.
func (pp *Population) ApplyPartialSweep(sweep *PartialSweep, pool *genome.Pool, src *rng.Source) {
	id := sweep.MutationID

	// Subpops is a map; iterate Order instead so the carriers/noncarriers
	// slices (and thus which genome src.UniformInt below picks) don't
	// depend on Go's randomized map iteration, which would otherwise
	// break the fixed-seed bit-identical-replay guarantee.
	var carriers, noncarriers []*genome.Genome
	for _, spID := range pp.Order {
		p := pp.Subpops[spID]
		for _, g := range p.ParentGenomes {
			if g.Contains(id) {
				carriers = append(carriers, g)
			} else {
				noncarriers = append(noncarriers, g)
			}
		}
	}
	target := int(sweep.TargetPrevalence * float64(len(carriers)+len(noncarriers)))

	for len(carriers) > target && len(carriers) > 0 {
		i := src.UniformInt(len(carriers))
		g := carriers[i]
		carriers[i] = carriers[len(carriers)-1]
		carriers = carriers[:len(carriers)-1]
		g.Remove(id)
	}
	for len(carriers) < target && len(noncarriers) > 0 {
		i := src.UniformInt(len(noncarriers))
		g := noncarriers[i]
		noncarriers[i] = noncarriers[len(noncarriers)-1]
		noncarriers = noncarriers[:len(noncarriers)-1]
		g.Insert(id, pool)
		carriers = append(carriers, g)
	}
}

// TrackedSnapshot implements the "T" output kind: for every live
// mutation of the given type, its id, position, and current global
// frequency.
func (pp *Population) TrackedSnapshot(mt *genome.MutationType) []TrackedMutation {
	var out []TrackedMutation
	for _, id := range pp.Pool.LiveIDs() {
		mut := pp.Pool.Get(id)
		if mut.Type != mt {
			continue
		}
		out = append(out, TrackedMutation{Mutation: mut, Frequency: pp.Frequency(id)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Mutation.Position < out[j].Mutation.Position })
	return out
}

// TrackedMutation pairs a live mutation with its current global
// frequency, for a "T" output event.
type TrackedMutation struct {
	Mutation  *genome.Mutation
	Frequency float64
}
