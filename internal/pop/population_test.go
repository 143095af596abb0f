// This project is licensed under the MIT License (see LICENSE).

package pop

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcrd/slimcore/internal/genome"
	"github.com/jcrd/slimcore/internal/rng"
)

func TestPromoteSubstitutionsFixesAndFreesMutations(t *testing.T) {
	pool := genome.NewPool()
	mt := &genome.MutationType{ID: 1, DFEType: genome.DFEFixed, DFEParameters: []float64{0}, ConvertToSubstitution: true}
	pp := NewPopulation(pool)

	p := NewSubpopulation(1, 2)
	id := pool.Alloc(mt, 10, 0, 0, 1)
	for _, g := range p.ParentGenomes {
		g.Insert(id, pool)
	}
	pp.Add(p)

	subs := pp.PromoteSubstitutions(5)
	assert.Len(t, subs, 1)
	assert.Equal(t, 5, subs[0].FixationGeneration)
	assert.False(t, pool.IsLive(id))
}

func TestPromoteSubstitutionsFreesLostMutations(t *testing.T) {
	pool := genome.NewPool()
	mt := &genome.MutationType{ID: 1, DFEType: genome.DFEFixed, DFEParameters: []float64{0}}
	pp := NewPopulation(pool)

	p := NewSubpopulation(1, 2)
	id := pool.Alloc(mt, 10, 0, 0, 1)
	pp.Add(p)

	subs := pp.PromoteSubstitutions(5)
	assert.Empty(t, subs)
	assert.False(t, pool.IsLive(id))
}

func TestApplyPartialSweepClampsTowardTarget(t *testing.T) {
	pool := genome.NewPool()
	mt := &genome.MutationType{ID: 1, DFEType: genome.DFEFixed, DFEParameters: []float64{0}}
	pp := NewPopulation(pool)
	p := NewSubpopulation(1, 10)
	pp.Add(p)

	id := pool.Alloc(mt, 10, 0, 0, 1)
	for i := 0; i < 2; i++ {
		p.ParentGenomes[i].Insert(id, pool)
	}

	sweep := &PartialSweep{MutationID: id, TargetPrevalence: 0.5}
	src := rng.New(1)
	pp.ApplyPartialSweep(sweep, pool, src)

	var carriers int
	for _, g := range p.ParentGenomes {
		if g.Contains(id) {
			carriers++
		}
	}
	assert.Equal(t, 10, carriers, "target prevalence 0.5 over 20 genomes means 10 carrying genomes")
}

func TestApplyPartialSweepRemovesExcessCarriers(t *testing.T) {
	pool := genome.NewPool()
	mt := &genome.MutationType{ID: 1, DFEType: genome.DFEFixed, DFEParameters: []float64{0}}
	pp := NewPopulation(pool)
	p := NewSubpopulation(1, 10)
	pp.Add(p)

	id := pool.Alloc(mt, 10, 0, 0, 1)
	for _, g := range p.ParentGenomes {
		g.Insert(id, pool)
	}

	sweep := &PartialSweep{MutationID: id, TargetPrevalence: 0.25}
	src := rng.New(1)
	pp.ApplyPartialSweep(sweep, pool, src)

	var carriers int
	for _, g := range p.ParentGenomes {
		if g.Contains(id) {
			carriers++
		}
	}
	assert.Equal(t, 5, carriers, "target prevalence 0.25 over 20 genomes means 5 carrying genomes")
}

func TestWriteDumpEmitsAllThreeSectionsInOrder(t *testing.T) {
	pool := genome.NewPool()
	mt := &genome.MutationType{ID: 1, DFEType: genome.DFEFixed, DFEParameters: []float64{0}}
	pp := NewPopulation(pool)
	p := NewSubpopulation(7, 2)
	pp.Add(p)
	id := pool.Alloc(mt, 10, 0, 0, 7)
	p.ParentGenomes[0].Insert(id, pool)

	var b strings.Builder
	require.NoError(t, WriteDump(&b, pp))
	out := b.String()

	assert.Contains(t, out, "Populations")
	assert.Contains(t, out, "p7 2")
	assert.Contains(t, out, "Mutations")
	assert.Contains(t, out, "m1 11")
	assert.Contains(t, out, "Genomes")
	assert.Contains(t, out, "p7:0")
	assert.True(t, strings.Index(out, "Populations") < strings.Index(out, "Mutations"))
	assert.True(t, strings.Index(out, "Mutations") < strings.Index(out, "Genomes"))
}

func TestPruneEmptyRemovesZeroSizeSubpops(t *testing.T) {
	pool := genome.NewPool()
	pp := NewPopulation(pool)
	pp.Add(NewSubpopulation(1, 0))
	pp.Add(NewSubpopulation(2, 3))

	pp.PruneEmpty()
	assert.Len(t, pp.Order, 1)
	assert.Equal(t, 2, pp.Order[0])
}
