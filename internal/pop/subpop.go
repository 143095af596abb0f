// This project is licensed under the MIT License (see LICENSE).

// Package pop implements the subpopulation and population types, the
// time-keyed event and output dispatchers, and introduced-mutation /
// partial-sweep bookkeeping.
package pop

import (
	"github.com/jcrd/slimcore/internal/apperr"
	"github.com/jcrd/slimcore/internal/genome"
	"github.com/jcrd/slimcore/internal/script"
)

// FitnessCallback mirrors a registered "fitness" script block: given the
// mutation under evaluation and that mutation's computed fitness factor,
// it may return a replacement factor. The engine calls it once per
// carried mutation, always with a non-nil mutation; there is no
// whole-individual invocation.
type FitnessCallback struct {
	MutationType *genome.MutationType // nil applies to every mutation
	Call         func(mut *genome.Mutation, individual int, computedFitness float64) (float64, error)
}

// MateChoiceCallback mirrors a registered "mateChoice" script block.
type MateChoiceCallback struct {
	Call func(parent1 int, weights []float64) ([]float64, error)
}

// ModifyChildCallback mirrors a registered "modifyChild" script block.
type ModifyChildCallback struct {
	Call func(child *genome.Genome, childGenome2 *genome.Genome, parent1, parent2 int) (bool, error)
}

// Subpopulation owns parent/child genome arrays, selfing/cloning rates,
// optional sex structure, immigration rates, and a per-individual fitness
// cache.
type Subpopulation struct {
	ID   int
	Size int

	SelfingRate float64
	CloningRate float64
	SexEnabled  bool
	SexRatio    float64
	// FirstMaleIndex partitions females below from males above within the
	// parent/child index ranges, when SexEnabled is true.
	FirstMaleIndex int

	// ImmigrationMap maps source subpop id to the fraction of this
	// subpop's offspring drawn from that source each generation.
	ImmigrationMap map[int]float64

	ParentGenomes []*genome.Genome // len 2*Size, individual i at [2i,2i+1]
	ChildGenomes  []*genome.Genome

	CachedFitness []float64 // len Size, parent-generation relative fitness

	FitnessCallbacks             []FitnessCallback
	FitnessCallbacksByMutationType map[*genome.MutationType][]FitnessCallback
	MateChoiceCallback           *MateChoiceCallback
	ModifyChildCallback          *ModifyChildCallback
}

func (p *Subpopulation) Class() string { return "Subpopulation" }

// NewSubpopulation allocates a subpopulation of the given size with every
// genome initialized empty (no mutations), autosomal.
func NewSubpopulation(id, size int) *Subpopulation {
	p := &Subpopulation{
		ID:                             id,
		Size:                           size,
		ImmigrationMap:                 map[int]float64{},
		FitnessCallbacksByMutationType: map[*genome.MutationType][]FitnessCallback{},
	}
	p.ParentGenomes = make([]*genome.Genome, 2*size)
	p.ChildGenomes = make([]*genome.Genome, 2*size)
	for i := range p.ParentGenomes {
		p.ParentGenomes[i] = genome.NewGenome(genome.GenomeAutosomal)
		p.ChildGenomes[i] = genome.NewGenome(genome.GenomeAutosomal)
	}
	p.CachedFitness = make([]float64, size)
	return p
}

// Resize grows or shrinks the genome arrays to a new size, reusing
// existing genomes where index ranges overlap. The fitness cache is
// recomputed by the next generation's fitness pass.
func (p *Subpopulation) Resize(newSize int) {
	grow := func(genomes []*genome.Genome, n int) []*genome.Genome {
		if n <= len(genomes) {
			return genomes[:n]
		}
		out := make([]*genome.Genome, n)
		copy(out, genomes)
		for i := len(genomes); i < n; i++ {
			out[i] = genome.NewGenome(genome.GenomeAutosomal)
		}
		return out
	}
	p.ParentGenomes = grow(p.ParentGenomes, 2*newSize)
	p.ChildGenomes = grow(p.ChildGenomes, 2*newSize)
	p.CachedFitness = make([]float64, newSize)
	p.Size = newSize
}

// ValidateImmigration checks invariant 3 of the data model: the sum of
// immigration fractions into this subpop must stay strictly below 1.
func (p *Subpopulation) ValidateImmigration() error {
	var sum float64
	for _, f := range p.ImmigrationMap {
		if f < 0 || f > 1 {
			return apperr.New(apperr.ConfigError, "subpopulation p%d has an immigration rate outside [0,1]", p.ID)
		}
		sum += f
	}
	if sum >= 1 {
		return apperr.New(apperr.ConfigError, "subpopulation p%d's immigration fractions sum to %g, must be < 1", p.ID, sum)
	}
	return nil
}

// IsMale reports whether parent/child index i (an individual index, not a
// genome index) is male under the sex model.
func (p *Subpopulation) IsMale(i int) bool {
	return p.SexEnabled && i >= p.FirstMaleIndex
}

func (p *Subpopulation) Member(name string) (*script.Value, bool, error) {
	switch name {
	case "id":
		return script.NewInt(int64(p.ID)), true, nil
	case "size":
		return script.NewInt(int64(p.Size)), true, nil
	case "selfingRate":
		return script.NewFloat(p.SelfingRate), true, nil
	case "cloningRate":
		return script.NewFloat(p.CloningRate), true, nil
	case "sexEnabled":
		return script.NewLogical(p.SexEnabled), true, nil
	default:
		return nil, false, nil
	}
}

func (p *Subpopulation) SetMember(name string, v *script.Value) error {
	switch name {
	case "selfingRate":
		p.SelfingRate = v.AsFloat64(0)
		return nil
	case "cloningRate":
		p.CloningRate = v.AsFloat64(0)
		return nil
	default:
		return apperr.New(apperr.SignatureMismatch, "%s has no settable member %q", p.Class(), name)
	}
}

func (p *Subpopulation) Method(name string, args []*script.Value) (*script.Value, bool, error) {
	switch name {
	case "setMigrationRates":
		return p.setMigrationRates(args)
	case "setSelfingRate":
		if len(args) != 1 || !isNumericSingleton(args[0]) {
			return nil, true, apperr.New(apperr.SignatureMismatch, "setSelfingRate() expects a single numeric argument")
		}
		p.SelfingRate = args[0].AsFloat64(0)
		r := script.NewNull()
		r.Invisible = true
		return r, true, nil
	default:
		return nil, false, nil
	}
}

func (p *Subpopulation) setMigrationRates(args []*script.Value) (*script.Value, bool, error) {
	if len(args) != 2 {
		return nil, true, apperr.New(apperr.SignatureMismatch, "setMigrationRates() expects (sourceIDs, rates)")
	}
	ids, rates := args[0], args[1]
	if ids.Len() != rates.Len() {
		return nil, true, apperr.New(apperr.SignatureMismatch, "setMigrationRates(): sourceIDs and rates must have equal length")
	}
	next := map[int]float64{}
	for i := 0; i < ids.Len(); i++ {
		next[int(ids.AsInt64(i))] = rates.AsFloat64(i)
	}
	p.ImmigrationMap = next
	if err := p.ValidateImmigration(); err != nil {
		return nil, true, err
	}
	r := script.NewNull()
	r.Invisible = true
	return r, true, nil
}

func isNumericSingleton(v *script.Value) bool {
	return (v.Kind == script.KindInt || v.Kind == script.KindFloat) && v.IsSingleton()
}
