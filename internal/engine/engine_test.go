// This project is licensed under the MIT License (see LICENSE).

package engine

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcrd/slimcore/internal/genome"
	"github.com/jcrd/slimcore/internal/pop"
	"github.com/jcrd/slimcore/internal/script"
)

func neutralChromosome(t *testing.T) *genome.Chromosome {
	t.Helper()
	mt := &genome.MutationType{ID: 1, DominanceCoeff: 0.5, DFEType: genome.DFEFixed, DFEParameters: []float64{0}}
	et := &genome.GenomicElementType{ID: 1, MutationTypes: []*genome.MutationType{mt}, MutationFractions: []float64{1}}
	c := genome.NewChromosome()
	c.Elements = []*genome.GenomicElement{{Type: et, Start: 0, End: 999}}
	c.OverallMutationRate = 1e-6
	c.RecombinationEndPositions = []int{999}
	c.RecombinationRates = []float64{1e-7}
	require.NoError(t, c.InitializeDraws())
	return c
}

func newMinimalEngine(t *testing.T) *Engine {
	t.Helper()
	e := New(1, neutralChromosome(t))
	e.Out = &bytes.Buffer{}
	e.Population.Add(pop.NewSubpopulation(1, 20))
	e.GenerationsTotal = 5
	return e
}

func TestRunGenerationAdvancesWithoutError(t *testing.T) {
	e := newMinimalEngine(t)
	e.Generation = 1
	require.NoError(t, e.RunGeneration())

	p := e.Population.Subpops[1]
	assert.Equal(t, 20, p.Size)
	for _, g := range p.ParentGenomes {
		assert.NotNil(t, g)
	}
}

func TestRunAdvancesGenerationCounter(t *testing.T) {
	e := newMinimalEngine(t)
	require.NoError(t, e.Run())
	assert.Equal(t, 5, e.Generation)
}

func TestFixedSelectionCoefficientDrivesSweep(t *testing.T) {
	mt := &genome.MutationType{ID: 1, DominanceCoeff: 0.5, DFEType: genome.DFEFixed, DFEParameters: []float64{0.5}, ConvertToSubstitution: true}
	et := &genome.GenomicElementType{ID: 1, MutationTypes: []*genome.MutationType{mt}, MutationFractions: []float64{1}}
	c := genome.NewChromosome()
	c.Elements = []*genome.GenomicElement{{Type: et, Start: 0, End: 99}}
	c.RecombinationEndPositions = []int{99}
	c.RecombinationRates = []float64{0}
	require.NoError(t, c.InitializeDraws())

	e := New(7, c)
	e.Out = &bytes.Buffer{}
	p := pop.NewSubpopulation(1, 30)
	e.Population.Add(p)

	id := e.Pool.Alloc(mt, 50, 0.5, 0, 1)
	for i := 0; i < 20; i++ {
		p.ParentGenomes[i].Insert(id, e.Pool)
	}

	e.GenerationsTotal = 300
	require.NoError(t, e.Run())

	assert.NotEmpty(t, e.Population.Substitutions, "a strongly beneficial mutation should eventually fix")
}

func TestPartialSweepHoldsMutationNearTargetPrevalence(t *testing.T) {
	c := neutralChromosome(t)
	e := New(3, c)
	e.Out = &bytes.Buffer{}
	p := pop.NewSubpopulation(1, 50)
	e.Population.Add(p)

	mt := c.Elements[0].Type.MutationTypes[0]
	sweep := &pop.PartialSweep{TargetPrevalence: 0.5}
	e.IntroducedMutations = []*pop.IntroducedMutation{{
		Type: mt, Position: 10, SubpopID: 1, Generation: 1,
		NumAA: 0, NumAa: 50, Sweep: sweep,
	}}
	e.GenerationsTotal = 40

	require.NoError(t, e.Run())

	require.True(t, e.Pool.IsLive(sweep.MutationID), "a clamped partial sweep mutation should never fix or be lost")
	freq := e.Population.Frequency(sweep.MutationID)
	assert.InDelta(t, 0.5, freq, 0.15)
}

func TestRunGenerationIsDeterministicForTheSameSeed(t *testing.T) {
	run := func() []byte {
		c := neutralChromosome(t)
		e := New(42, c)
		var out bytes.Buffer
		e.Out = &out
		p := pop.NewSubpopulation(1, 20)
		e.Population.Add(p)
		mt := c.Elements[0].Type.MutationTypes[0]
		id := e.Pool.Alloc(mt, 5, 0.1, 0, 1)
		for i := 0; i < 6; i++ {
			p.ParentGenomes[i].Insert(id, e.Pool)
		}
		e.Outputs.Add(&pop.Output{Time: 10, Kind: pop.OutputDump})
		e.GenerationsTotal = 10
		require.NoError(t, e.Run())
		return out.Bytes()
	}

	first := run()
	second := run()
	assert.Equal(t, string(first), string(second), "identical seeds must produce a bit-identical dump")
}

func TestRenderDumpIncludesAllThreeSections(t *testing.T) {
	e := newMinimalEngine(t)
	e.Outputs.Add(&pop.Output{Time: 1, Kind: pop.OutputDump})
	e.Generation = 1
	require.NoError(t, e.RunGeneration())

	out := e.Out.(*bytes.Buffer).String()
	assert.Contains(t, out, "Populations")
	assert.Contains(t, out, "Mutations")
	assert.Contains(t, out, "Genomes")
	assert.True(t, strings.Index(out, "Populations") < strings.Index(out, "Mutations"))
	assert.True(t, strings.Index(out, "Mutations") < strings.Index(out, "Genomes"))
}

func TestFitnessScriptCallbackOverridesComputedFitness(t *testing.T) {
	e := newMinimalEngine(t)
	require.NoError(t, e.RunInitializationScript(`
function fitness(mut, individual, relFitness) {
	return 0.0;
}
`))
	p := e.Population.Subpops[1]
	require.Len(t, p.FitnessCallbacks, 1, "declaring function fitness() should attach a FitnessCallback to every existing subpop")

	mt := e.Chromosome.Elements[0].Type.MutationTypes[0]
	id := e.Pool.Alloc(mt, 5, 0.1, 0, 1)
	p.ParentGenomes[0].Insert(id, e.Pool)

	e.computeFitness(p)
	assert.Equal(t, 0.0, p.CachedFitness[0], "the script callback should override the computed fitness for the carrying individual")
}

func TestModifyChildScriptCallbackRejectionHitsCallbackLimit(t *testing.T) {
	e := newMinimalEngine(t)
	require.NoError(t, e.RunInitializationScript(`
function modifyChild(child, child2, parent1, parent2) {
	return F;
}
`))
	e.Generation = 1

	err := e.RunGeneration()
	require.Error(t, err)
}

func TestScriptCallbackAttachedToSubpopAddedAfterRegistration(t *testing.T) {
	e := newMinimalEngine(t)
	require.NoError(t, e.RunInitializationScript(`
function fitness(mut, individual, relFitness) {
	return 0.0;
}
`))

	sim := &Sim{e: e}
	_, found, err := sim.Method("addSubpop", []*script.Value{script.NewInt(2), script.NewInt(10)})
	require.NoError(t, err)
	require.True(t, found)

	p := e.Population.Subpops[2]
	require.Len(t, p.FitnessCallbacks, 1, "a subpop created after script registration should still get the fitness callback")
}

func TestInvalidMigrationRateRejected(t *testing.T) {
	e := newMinimalEngine(t)
	e.Population.Add(pop.NewSubpopulation(2, 10))
	e.Events.Add(&pop.Event{Time: 1, Kind: pop.EventMigration, Params: []string{"1", "2", "1.5"}})
	e.Generation = 1

	err := e.RunGeneration()
	require.Error(t, err)
}

func TestModifyChildCallbackRejectionHitsCallbackLimit(t *testing.T) {
	e := newMinimalEngine(t)
	p := e.Population.Subpops[1]
	p.ModifyChildCallback = &pop.ModifyChildCallback{
		Call: func(child, child2 *genome.Genome, parent1, parent2 int) (bool, error) {
			return false, nil
		},
	}
	e.Generation = 1

	err := e.RunGeneration()
	require.Error(t, err)
}

func TestAddNewMutationScriptBinding(t *testing.T) {
	e := newMinimalEngine(t)
	mt := e.Chromosome.Elements[0].Type.MutationTypes[0]
	sim := &Sim{e: e}

	v, found, err := sim.Method("addNewMutation", []*script.Value{
		script.NewObject(mt),
		script.NewInt(42),
		script.NewFloat(-0.01),
	})
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, script.KindObject, v.Kind)
	assert.GreaterOrEqual(t, e.Pool.Live(), 1)

	m, ok := v.Objects[0].(*genome.Mutation)
	require.True(t, ok)
	assert.Equal(t, 42, m.Position)
	assert.Equal(t, -0.01, m.SelectionCoeff)
}
