// This project is licensed under the MIT License (see LICENSE).

package genome

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolAllocGetFree(t *testing.T) {
	pool := NewPool()
	mt := &MutationType{ID: 1, DFEType: DFEFixed, DFEParameters: []float64{0}}

	id := pool.Alloc(mt, 100, 0, 1, 0)
	require.True(t, pool.IsLive(id))
	assert.Equal(t, 1, pool.Live())

	pool.Free(id)
	assert.False(t, pool.IsLive(id))
	assert.Equal(t, 0, pool.Live())
}

func TestPoolReusesFreedSlots(t *testing.T) {
	pool := NewPool()
	mt := &MutationType{ID: 1, DFEType: DFEFixed, DFEParameters: []float64{0}}

	a := pool.Alloc(mt, 1, 0, 0, 0)
	pool.Free(a)
	b := pool.Alloc(mt, 2, 0, 0, 0)
	assert.Equal(t, a, b)
}

func TestGenomeInsertKeepsSortedOrder(t *testing.T) {
	pool := NewPool()
	mt := &MutationType{ID: 1, DFEType: DFEFixed, DFEParameters: []float64{0}}
	g := NewGenome(GenomeAutosomal)

	ids := []MutationID{
		pool.Alloc(mt, 50, 0, 0, 0),
		pool.Alloc(mt, 10, 0, 0, 0),
		pool.Alloc(mt, 30, 0, 0, 0),
	}
	for _, id := range ids {
		g.Insert(id, pool)
	}

	positions := make([]int, g.Len())
	for i, id := range g.Mutations {
		positions[i] = pool.Get(id).Position
	}
	assert.Equal(t, []int{10, 30, 50}, positions)
}

func TestGenomeContainsAndRemove(t *testing.T) {
	pool := NewPool()
	mt := &MutationType{ID: 1, DFEType: DFEFixed, DFEParameters: []float64{0}}
	g := NewGenome(GenomeAutosomal)
	id := pool.Alloc(mt, 5, 0, 0, 0)

	g.Insert(id, pool)
	assert.True(t, g.Contains(id))

	g.Remove(id)
	assert.False(t, g.Contains(id))
}

func TestSpliceAtSelectsRangeOnly(t *testing.T) {
	pool := NewPool()
	mt := &MutationType{ID: 1, DFEType: DFEFixed, DFEParameters: []float64{0}}
	src := NewGenome(GenomeAutosomal)
	for _, pos := range []int{5, 15, 25, 35} {
		src.Insert(pool.Alloc(mt, pos, 0, 0, 0), pool)
	}

	dst := NewGenome(GenomeAutosomal)
	SpliceAt(dst, src, 10, 30, pool)

	positions := make([]int, dst.Len())
	for i, id := range dst.Mutations {
		positions[i] = pool.Get(id).Position
	}
	assert.Equal(t, []int{15, 25}, positions)
}

func TestGenomicElementTypeCumulativeRejectsNegativeFraction(t *testing.T) {
	mt := &MutationType{ID: 1, DFEType: DFEFixed, DFEParameters: []float64{0}}
	et := &GenomicElementType{
		MutationTypes:     []*MutationType{mt},
		MutationFractions: []float64{-1},
	}
	require.Error(t, et.initCumulative())
}

func TestChromosomeInitializeDrawsRejectsOverlap(t *testing.T) {
	mt := &MutationType{ID: 1, DFEType: DFEFixed, DFEParameters: []float64{0}}
	et := &GenomicElementType{MutationTypes: []*MutationType{mt}, MutationFractions: []float64{1}}
	c := NewChromosome()
	c.Elements = []*GenomicElement{
		{Type: et, Start: 0, End: 10},
		{Type: et, Start: 5, End: 20},
	}
	c.RecombinationEndPositions = []int{20}
	c.RecombinationRates = []float64{1e-8}

	require.Error(t, c.InitializeDraws())
}

func TestChromosomeInitializeDrawsRequiresMapEndingAtLength(t *testing.T) {
	mt := &MutationType{ID: 1, DFEType: DFEFixed, DFEParameters: []float64{0}}
	et := &GenomicElementType{MutationTypes: []*MutationType{mt}, MutationFractions: []float64{1}}
	c := NewChromosome()
	c.Elements = []*GenomicElement{{Type: et, Start: 0, End: 99}}
	c.RecombinationEndPositions = []int{50}
	c.RecombinationRates = []float64{1e-8}

	require.Error(t, c.InitializeDraws())
}

func TestMutationTypeSampleEffectFixed(t *testing.T) {
	mt := &MutationType{ID: 1, DFEType: DFEFixed, DFEParameters: []float64{-0.1}}
	s, err := mt.SampleEffect(nil)
	require.NoError(t, err)
	assert.Equal(t, -0.1, s)
}

func TestMutationTypeDominanceForX(t *testing.T) {
	mt := &MutationType{DominanceCoeff: 0.5, DominanceCoeffX: 1, HasDominanceCoeffX: true}
	assert.Equal(t, 1.0, mt.DominanceFor(true))
	assert.Equal(t, 0.5, mt.DominanceFor(false))
}
